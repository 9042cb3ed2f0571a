package models

import (
	"fmt"
	"strings"
)

// ApplicationStatus is the hiring decision recorded on an application
type ApplicationStatus string

const (
	StatusPending   ApplicationStatus = "Pending"
	StatusInterview ApplicationStatus = "Interview"
	StatusAccepted  ApplicationStatus = "Accepted"
	StatusRejected  ApplicationStatus = "Rejected"
)

// ErrUnknownStatus is returned when a status string is not one of the known values
var ErrUnknownStatus = fmt.Errorf("unknown application status")

// ErrInvalidTransition is returned when a status change is not allowed
var ErrInvalidTransition = fmt.Errorf("invalid status transition")

var allowedTransitions = map[ApplicationStatus][]ApplicationStatus{
	StatusPending:   {StatusInterview, StatusAccepted, StatusRejected},
	StatusInterview: {StatusPending, StatusAccepted, StatusRejected},
	StatusAccepted:  {StatusRejected},
	StatusRejected:  {StatusAccepted},
}

// ParseApplicationStatus accepts the known statuses in any letter case
func ParseApplicationStatus(s string) (ApplicationStatus, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "pending":
		return StatusPending, nil
	case "interview":
		return StatusInterview, nil
	case "accepted":
		return StatusAccepted, nil
	case "rejected":
		return StatusRejected, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownStatus, s)
}

// Valid reports whether s is one of the known statuses
func (s ApplicationStatus) Valid() bool {
	_, ok := allowedTransitions[s]
	return ok
}

// Transition returns the status that results from moving s to target.
// Moving to the current status is allowed and changes nothing.
func (s ApplicationStatus) Transition(target ApplicationStatus) (ApplicationStatus, error) {
	if !target.Valid() {
		return s, fmt.Errorf("%w: %q", ErrUnknownStatus, target)
	}
	if !s.Valid() {
		return s, fmt.Errorf("%w: %q", ErrUnknownStatus, s)
	}
	if s == target {
		return s, nil
	}

	for _, next := range allowedTransitions[s] {
		if next == target {
			return target, nil
		}
	}
	return s, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, s, target)
}
