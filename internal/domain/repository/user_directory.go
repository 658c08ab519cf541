// Package repository defines the interfaces for the persistence layer.
// These interfaces act as a contract between the domain/application layers and the infrastructure layer.
package repository

import (
	"context"
	"errors"

	"passport/internal/domain/entity"

	"github.com/google/uuid"
)

// ErrUserNotFound is a domain-specific error returned when a user is not found.
var ErrUserNotFound = errors.New("user not found")

// UserPatch carries a partial update. A nil field means "leave unchanged";
// it is distinct from setting a field to its zero value. Passwords never
// travel in a patch: the service hashes them and sets the user's hash itself.
type UserPatch struct {
	Email    *string
	FullName *string
	Role     *entity.Role
}

// Apply merges the patch onto a user in place. Invalid roles are ignored
// rather than persisted.
func (p UserPatch) Apply(user *entity.User) {
	if p.Email != nil {
		user.Email = entity.NormalizeEmail(*p.Email)
	}
	if p.FullName != nil {
		user.FullName = *p.FullName
	}
	if p.Role != nil && p.Role.IsValid() {
		user.Role = *p.Role
	}
}

// IsEmpty reports whether the patch changes nothing.
func (p UserPatch) IsEmpty() bool {
	return p.Email == nil && p.FullName == nil && p.Role == nil
}

// UserDirectory defines the standard operations for user persistence.
// The application layer depends on this interface, not the concrete implementation.
//
// Concurrency note: uniqueness of email and read-modify-write races are
// delegated to the store's constraints. The credential service issues a
// single Create or Save per logical operation and never pre-checks.
type UserDirectory interface {
	// Create persists a new user. A duplicate email surfaces as the
	// domain's uniqueness error, carrying the store's detail.
	Create(ctx context.Context, user *entity.User) error

	// FindByID retrieves a single user by their unique ID.
	// The password hash is omitted from the projection.
	FindByID(ctx context.Context, id uuid.UUID) (*entity.User, error)

	// FindByEmailWithSecrets retrieves a user by exact email including the
	// password hash and active flag, which default read projections omit.
	// This is the authentication read path.
	FindByEmailWithSecrets(ctx context.Context, email string) (*entity.User, error)

	// FindPage returns a page of users in creation order (created_at
	// ascending), without password hashes.
	FindPage(ctx context.Context, limit, offset int) ([]*entity.User, error)

	// FindByEmailOrRole returns all users whose email or role equals the
	// lower-cased term. An empty result is a valid result, not an error.
	FindByEmailOrRole(ctx context.Context, term string) ([]*entity.User, error)

	// MergePartial loads the user with the given id, applies the patch and
	// returns the merged record WITHOUT persisting it. Returns
	// ErrUserNotFound when the id is unknown. The returned user includes
	// the stored password hash so the caller can verify or retain it.
	MergePartial(ctx context.Context, id uuid.UUID, patch UserPatch) (*entity.User, error)

	// Save persists the full user record. Duplicate email mapping matches
	// Create.
	Save(ctx context.Context, user *entity.User) error
}
