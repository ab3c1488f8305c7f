package enums

import "fmt"

// UserRole distinguishes the two profile kinds a phone login can claim.
type UserRole string

const (
	UserRoleVendor   UserRole = "vendor"
	UserRoleSupplier UserRole = "supplier"
)

var validUserRoles = []UserRole{
	UserRoleVendor,
	UserRoleSupplier,
}

// String implements fmt.Stringer.
func (r UserRole) String() string {
	return string(r)
}

// IsValid reports whether the role is known.
func (r UserRole) IsValid() bool {
	for _, candidate := range validUserRoles {
		if candidate == r {
			return true
		}
	}
	return false
}

// ParseUserRole converts raw input into a UserRole.
func ParseUserRole(value string) (UserRole, error) {
	for _, candidate := range validUserRoles {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid user role %q", value)
}
