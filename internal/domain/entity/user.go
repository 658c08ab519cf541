// Package entity contains the core business objects of the project,
// each representing a unique, identifiable concept within the domain.
package entity

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// User is the core entity in the system, representing one account.
// It carries the credential material (PasswordHash) while inside the
// service boundary; anything leaving the core goes through Sanitized first.
type User struct {
	ID           uuid.UUID // The unique identifier for the account. Generated by the store, immutable afterwards.
	Email        string    // The unique login identifier. Stored lower-cased.
	FullName     string    // The user's display name or real name.
	Role         Role      // Authorization attribute. Also matched by the legacy combined lookup.
	PasswordHash string    // bcrypt hash of the password. Never exposed outside the directory/service boundary.
	IsActive     bool      // False means the account is soft-deleted. The only transition in scope is true -> false.
	CreatedAt    time.Time // Timestamp of when this account was created.
	UpdatedAt    time.Time // Timestamp of the last modification to this account.
}

// Sanitized returns a copy of the user with the password hash cleared.
// Every user representation the core hands back to callers goes through this.
func (u *User) Sanitized() *User {
	if u == nil {
		return nil
	}

	clean := *u
	clean.PasswordHash = ""

	return &clean
}

// NormalizeEmail lower-cases and trims an email so that lookups and the
// uniqueness constraint operate on a single canonical form.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
