package model

import "fmt"

// ValidationError describes a record field that was rejected before it
// reached the database.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
}
