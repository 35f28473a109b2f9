// Package repository implements the data access layer on database/sql.
// Sentinel errors let handlers map failure modes to HTTP statuses without
// string matching.
package repository

import "errors"

// ErrEmailExists is returned when registering an email that is already
// taken. Handlers translate it into a 400 validation response.
var ErrEmailExists = errors.New("email already exists")

// ErrNotFound is returned when a requested record does not exist.
var ErrNotFound = errors.New("not found")
