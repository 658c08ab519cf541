// Package usecase contains the application-specific business rules.
// It orchestrates the domain layer to perform tasks.
package usecase

import (
	"context"

	"passport/internal/domain/entity"
	"passport/internal/domain/repository"

	"github.com/google/uuid"
)

// --- Input DTOs ---

// RegisterInput defines the data required to register a new account.
// Email well-formedness and password policy are enforced by the delivery
// layer's validator before this input reaches the core.
type RegisterInput struct {
	FullName string
	Email    string
	Password string
	Role     entity.Role // Optional; empty or invalid falls back to RoleUser.
}

// LoginInput defines the data required for a user to log in.
type LoginInput struct {
	Email    string
	Password string
}

// PageInput defines a pagination window. Zero values fall back to the
// defaults (limit 10, offset 0).
type PageInput struct {
	Limit  int
	Offset int
}

// UpdateInput is the administrative partial update. Nil patch fields stay
// unchanged; a non-nil Password is hashed before storing. No
// re-authentication is required on this path.
type UpdateInput struct {
	Patch    repository.UserPatch
	Password *string
}

// ReauthUpdateInput is the self-service partial update. CurrentPassword must
// verify against the stored hash before ANY change is applied, whether or
// not a new password is supplied.
type ReauthUpdateInput struct {
	CurrentPassword string
	NewPassword     *string
	Patch           repository.UserPatch
}

// --- Output DTOs ---

// RegisterOutput returns the newly created account, sanitized.
type RegisterOutput struct {
	User *entity.User
}

// LoginOutput is the credential envelope: the sanitized user plus the
// issued bearer token. Built per login call, never stored.
type LoginOutput struct {
	User  *entity.User
	Token string
}

// AccountUsecase defines the credential lifecycle operations.
// This is the contract that the delivery layer (e.g., API handlers) will depend on.
// Every returned user is sanitized; the password hash never crosses this boundary.
type AccountUsecase interface {
	// Register creates an account with a hashed password and the active
	// flag set.
	Register(ctx context.Context, input *RegisterInput) (*RegisterOutput, error)

	// Login verifies credentials and issues a token. Failure order:
	// unknown email, wrong password (both surfaced uniformly as invalid
	// credentials), then disabled account.
	Login(ctx context.Context, input *LoginInput) (*LoginOutput, error)

	// List returns a page of accounts in creation order.
	List(ctx context.Context, input *PageInput) ([]*entity.User, error)

	// Lookup resolves a free-text term: a UUID fetches by id (zero or one
	// result), anything else matches email or role case-insensitively.
	// This is the legacy combined lookup; an empty list is a valid result.
	Lookup(ctx context.Context, term string) ([]*entity.User, error)

	// Update merges a partial update onto the account (administrative path).
	Update(ctx context.Context, id uuid.UUID, input *UpdateInput) (*entity.User, error)

	// UpdateWithReauth merges a partial update after verifying the current
	// password (self-service path).
	UpdateWithReauth(ctx context.Context, id uuid.UUID, input *ReauthUpdateInput) (*entity.User, error)

	// Deactivate soft-deletes the account. Idempotent in effect; a second
	// call succeeds and leaves the flag false.
	Deactivate(ctx context.Context, id uuid.UUID) error
}
