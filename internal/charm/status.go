// SPDX-License-Identifier: Apache-2.0

package charm

import "fmt"

// StatusKind is the kind of unit status reported to the operator.
type StatusKind string

const (
	// StatusActive means the workload is configured.
	StatusActive StatusKind = "active"
	// StatusBlocked means operator intervention is required.
	StatusBlocked StatusKind = "blocked"
	// StatusWaiting means an external dependency is not ready yet.
	StatusWaiting StatusKind = "waiting"
)

// Status is a unit status with its message.
type Status struct {
	Kind    StatusKind
	Message string
}

// Active returns an active status.
func Active() Status {
	return Status{Kind: StatusActive}
}

// Blocked returns a blocked status with the given message.
func Blocked(msg string) Status {
	return Status{Kind: StatusBlocked, Message: msg}
}

// Waiting returns a waiting status with the given message.
func Waiting(msg string) Status {
	return Status{Kind: StatusWaiting, Message: msg}
}

// IsZero returns true if no status is set.
func (s Status) IsZero() bool {
	return s.Kind == ""
}

func (s Status) String() string {
	if s.Message == "" {
		return string(s.Kind)
	}
	return fmt.Sprintf("%s: %s", s.Kind, s.Message)
}
