package models

import "errors"

// ErrNotFound is returned when an entity lookup by primary key finds nothing.
var ErrNotFound = errors.New("record not found")

// ErrDepartmentNotFound is returned when a payload references a department
// id that is not present in the store.
var ErrDepartmentNotFound = errors.New("department does not exist")

// ValidationError reports a required request field that was absent from the
// decoded payload.
type ValidationError struct {
	Field string
}

func (e *ValidationError) Error() string {
	return "missing field: " + e.Field
}
