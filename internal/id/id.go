package id

import "github.com/google/uuid"

// NewOperationID returns a random identifier used to correlate the log lines
// of a single generation or grading call.
func NewOperationID() string {
	return uuid.NewString()
}

// Short returns the first 8 characters of an operation id for compact log fields.
func Short(opID string) string {
	if len(opID) <= 8 {
		return opID
	}
	return opID[:8]
}
