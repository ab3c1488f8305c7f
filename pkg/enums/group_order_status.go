package enums

import "fmt"

// GroupOrderStatus tracks the lifecycle of a group order.
type GroupOrderStatus string

const (
	GroupOrderStatusForming    GroupOrderStatus = "forming"
	GroupOrderStatusClosed     GroupOrderStatus = "closed"
	GroupOrderStatusDispatched GroupOrderStatus = "dispatched"
	GroupOrderStatusDelivered  GroupOrderStatus = "delivered"
)

var validGroupOrderStatuses = []GroupOrderStatus{
	GroupOrderStatusForming,
	GroupOrderStatusClosed,
	GroupOrderStatusDispatched,
	GroupOrderStatusDelivered,
}

// String implements fmt.Stringer.
func (s GroupOrderStatus) String() string {
	return string(s)
}

// IsValid reports whether the value is a known GroupOrderStatus.
func (s GroupOrderStatus) IsValid() bool {
	for _, candidate := range validGroupOrderStatuses {
		if candidate == s {
			return true
		}
	}
	return false
}

// rank orders statuses along the one-way lifecycle.
func (s GroupOrderStatus) rank() int {
	switch s {
	case GroupOrderStatusForming:
		return 0
	case GroupOrderStatusClosed:
		return 1
	case GroupOrderStatusDispatched:
		return 2
	case GroupOrderStatusDelivered:
		return 3
	}
	return -1
}

// CanTransitionTo reports whether moving to target is a forward step.
// Reverse transitions are never allowed.
func (s GroupOrderStatus) CanTransitionTo(target GroupOrderStatus) bool {
	from, to := s.rank(), target.rank()
	if from < 0 || to < 0 {
		return false
	}
	return to == from+1
}

// ParseGroupOrderStatus converts raw input into a GroupOrderStatus.
func ParseGroupOrderStatus(value string) (GroupOrderStatus, error) {
	for _, candidate := range validGroupOrderStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid group order status %q", value)
}
