// Package model holds the database-facing entity types. Handlers define
// their own request/response shapes; these structs mirror table columns
// one to one.
package model

import "time"

// User is a row in the `users` table. PasswordHash never leaves the
// repository layer.
type User struct {
	ID           uint64    // users.id
	Email        string    // users.email (unique, stored lower-case)
	PasswordHash string    // users.password_hash (bcrypt)
	IsActive     bool      // users.is_active
	CreatedAt    time.Time // users.created_at
	UpdatedAt    time.Time // users.updated_at
}
