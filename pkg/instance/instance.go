package instance

import (
	"fmt"
	"os"
)

// GetID returns the worker instance identifier or a hostname-derived default.
func GetID() string {
	if id := os.Getenv("WORKER_ID"); id != "" {
		return id
	}
	if host, err := os.Hostname(); err == nil && host != "" {
		return fmt.Sprintf("worker-%s", host)
	}
	return "worker-0"
}
