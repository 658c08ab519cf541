// Package impl contains the implementation of the application's business logic.
package impl

import (
	"context"
	"log/slog"

	"passport/internal/domain/entity"
	domainerrors "passport/internal/domain/errors"
	"passport/internal/domain/repository"
	"passport/internal/domain/service"
	"passport/internal/usecase"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

const (
	defaultPageLimit = 10
)

// accountService implements the AccountUsecase interface. It is stateless
// between calls; all persistence goes through the injected directory and
// uniqueness races are resolved by the store's constraints, not pre-checks.
type accountService struct {
	directory repository.UserDirectory
	hasher    service.PasswordHasher
	issuer    service.TokenIssuer
	logger    *slog.Logger
}

// NewAccountService is the constructor for accountService. It receives all dependencies as interfaces.
func NewAccountService(
	directory repository.UserDirectory,
	hasher service.PasswordHasher,
	issuer service.TokenIssuer,
	logger *slog.Logger,
) usecase.AccountUsecase {
	return &accountService{
		directory: directory,
		hasher:    hasher,
		issuer:    issuer,
		logger:    logger,
	}
}

// Register orchestrates the account creation process.
func (srv *accountService) Register(ctx context.Context, input *usecase.RegisterInput) (*usecase.RegisterOutput, error) {
	srv.logger.Info("Starting registration", "email", input.Email)

	hashedPassword, err := srv.hasher.Hash(input.Password)
	if err != nil {
		srv.logger.Error("Failed to hash password during registration", "error", err)

		return nil, domainerrors.ErrPasswordHashFailed.WrapMessage("registration failed")
	}

	role := input.Role
	if !role.IsValid() {
		role = entity.RoleUser
	}

	newUser := &entity.User{
		Email:        entity.NormalizeEmail(input.Email),
		FullName:     input.FullName,
		Role:         role,
		PasswordHash: hashedPassword,
		IsActive:     true,
	}

	// A single create; the store's uniqueness constraint is the arbiter for
	// duplicate emails.
	if err := srv.directory.Create(ctx, newUser); err != nil {
		srv.logger.Error("Failed to create user", "error", err, "email", newUser.Email)

		return nil, errors.Wrap(err, "failed to create user")
	}
	srv.logger.Debug("User registered", "userID", newUser.ID)

	return &usecase.RegisterOutput{User: newUser.Sanitized()}, nil
}

// Login orchestrates the authentication process.
func (srv *accountService) Login(ctx context.Context, input *usecase.LoginInput) (*usecase.LoginOutput, error) {
	email := entity.NormalizeEmail(input.Email)
	srv.logger.Debug("Starting login", "email", email)

	// The authentication read must include the password hash and active
	// flag, which default projections omit.
	user, err := srv.directory.FindByEmailWithSecrets(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			// The reason stays in the log; callers see the uniform message.
			srv.logger.Warn("Login failed", "email", email, "reason", "unknown email")

			return nil, domainerrors.ErrInvalidCredentials.WrapMessage("login failed")
		}
		srv.logger.Error("Failed to look up credentials", "error", err, "email", email)

		return nil, errors.Wrap(err, "failed to look up credentials")
	}

	if !srv.hasher.Check(input.Password, user.PasswordHash) {
		srv.logger.Warn("Login failed", "email", email, "reason", "wrong password")

		return nil, domainerrors.ErrInvalidCredentials.WrapMessage("login failed")
	}

	if !user.IsActive {
		srv.logger.Warn("Login blocked", "email", email, "reason", "account disabled")

		return nil, domainerrors.ErrAccountDisabled.WrapMessage("login blocked")
	}

	token, err := srv.issuer.Issue(user.Email)
	if err != nil {
		srv.logger.Error("Failed to issue token", "error", err, "email", email)

		return nil, errors.Wrap(err, "failed to issue token")
	}
	srv.logger.Debug("User logged in", "userID", user.ID)

	return &usecase.LoginOutput{
		User:  user.Sanitized(),
		Token: token,
	}, nil
}

// List returns a sanitized page of accounts in creation order.
func (srv *accountService) List(ctx context.Context, input *usecase.PageInput) ([]*entity.User, error) {
	limit := input.Limit
	if limit <= 0 {
		limit = defaultPageLimit
	}
	offset := input.Offset
	if offset < 0 {
		offset = 0
	}

	users, err := srv.directory.FindPage(ctx, limit, offset)
	if err != nil {
		srv.logger.Error("Failed to list users", "error", err)

		return nil, errors.Wrap(err, "failed to list users")
	}

	return sanitizeAll(users), nil
}

// Lookup resolves a free-text term through the tagged classification.
func (srv *accountService) Lookup(ctx context.Context, term string) ([]*entity.User, error) {
	query := entity.ClassifyLookupTerm(term)

	switch query.Kind {
	case entity.LookupByID:
		user, err := srv.directory.FindByID(ctx, query.ID)
		if err != nil {
			if errors.Is(err, repository.ErrUserNotFound) {
				// A well-formed id with no record is an empty result,
				// not an error.
				return []*entity.User{}, nil
			}
			srv.logger.Error("Failed to look up user by id", "error", err, "userID", query.ID)

			return nil, errors.Wrap(err, "failed to look up user by id")
		}

		return []*entity.User{user.Sanitized()}, nil

	default:
		users, err := srv.directory.FindByEmailOrRole(ctx, query.Term)
		if err != nil {
			srv.logger.Error("Failed to look up users by term", "error", err, "term", query.Term)

			return nil, errors.Wrap(err, "failed to look up users by term")
		}

		return sanitizeAll(users), nil
	}
}

// Update applies an administrative partial update.
func (srv *accountService) Update(ctx context.Context, id uuid.UUID, input *usecase.UpdateInput) (*entity.User, error) {
	srv.logger.Info("Starting update", "userID", id)

	merged, err := srv.mergeTarget(ctx, id, input.Patch)
	if err != nil {
		return nil, err
	}

	if input.Password != nil {
		hashedPassword, err := srv.hasher.Hash(*input.Password)
		if err != nil {
			srv.logger.Error("Failed to hash password during update", "error", err, "userID", id)

			return nil, domainerrors.ErrPasswordHashFailed.WrapMessage("update failed")
		}
		merged.PasswordHash = hashedPassword
	}

	if err := srv.directory.Save(ctx, merged); err != nil {
		srv.logger.Error("Failed to save user", "error", err, "userID", id)

		return nil, errors.Wrap(err, "failed to save user")
	}
	srv.logger.Debug("User updated", "userID", id)

	return merged.Sanitized(), nil
}

// UpdateWithReauth applies a self-service partial update behind the
// re-authentication gate.
func (srv *accountService) UpdateWithReauth(ctx context.Context, id uuid.UUID, input *usecase.ReauthUpdateInput) (*entity.User, error) {
	srv.logger.Info("Starting self-service update", "userID", id)

	// Merge first: with no record there is nothing to verify against.
	merged, err := srv.mergeTarget(ctx, id, input.Patch)
	if err != nil {
		return nil, err
	}

	// The gate runs even when no new password is supplied: touching this
	// record via this path requires proving the current password.
	if !srv.hasher.Check(input.CurrentPassword, merged.PasswordHash) {
		srv.logger.Warn("Self-service update rejected", "userID", id, "reason", "current password mismatch")

		return nil, domainerrors.ErrInvalidCredentials.WrapMessage("re-authentication failed")
	}

	if input.NewPassword != nil {
		hashedPassword, err := srv.hasher.Hash(*input.NewPassword)
		if err != nil {
			srv.logger.Error("Failed to hash new password", "error", err, "userID", id)

			return nil, domainerrors.ErrPasswordHashFailed.WrapMessage("password change failed")
		}
		merged.PasswordHash = hashedPassword
	}

	if err := srv.directory.Save(ctx, merged); err != nil {
		srv.logger.Error("Failed to save user", "error", err, "userID", id)

		return nil, errors.Wrap(err, "failed to save user")
	}
	srv.logger.Debug("User updated via self-service", "userID", id)

	return merged.Sanitized(), nil
}

// Deactivate flips the account to inactive. The row persists; there is no
// reactivation operation in this system.
func (srv *accountService) Deactivate(ctx context.Context, id uuid.UUID) error {
	srv.logger.Info("Starting deactivation", "userID", id)

	// An empty patch merge fetches the full record, stored hash included,
	// so the save below cannot clobber credential material.
	user, err := srv.mergeTarget(ctx, id, repository.UserPatch{})
	if err != nil {
		return err
	}

	user.IsActive = false

	if err := srv.directory.Save(ctx, user); err != nil {
		srv.logger.Error("Failed to deactivate user", "error", err, "userID", id)

		return errors.Wrap(err, "failed to deactivate user")
	}
	srv.logger.Debug("User deactivated", "userID", id)

	return nil
}

// mergeTarget loads and merges the update target, translating the
// repository's not-found sentinel into the domain taxonomy.
func (srv *accountService) mergeTarget(ctx context.Context, id uuid.UUID, patch repository.UserPatch) (*entity.User, error) {
	merged, err := srv.directory.MergePartial(ctx, id, patch)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			srv.logger.Warn("Update target not found", "userID", id)

			return nil, domainerrors.ErrUserNotFound.WrapMessage("update target not found")
		}
		srv.logger.Error("Failed to merge partial update", "error", err, "userID", id)

		return nil, errors.Wrap(err, "failed to merge partial update")
	}

	return merged, nil
}

func sanitizeAll(users []*entity.User) []*entity.User {
	sanitized := make([]*entity.User, 0, len(users))
	for _, user := range users {
		sanitized = append(sanitized, user.Sanitized())
	}

	return sanitized
}
