package leads

import "errors"

var (
	// ErrLeadNotFound is returned when a lead is not found
	ErrLeadNotFound = errors.New("lead not found")

	// ErrServiceNotFound is returned when the referenced service does not
	// exist or is no longer active
	ErrServiceNotFound = errors.New("service not found")
)
