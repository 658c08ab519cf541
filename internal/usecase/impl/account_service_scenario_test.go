package impl

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"passport/config"
	domainerrors "passport/internal/domain/errors"
	"passport/internal/domain/repository"
	"passport/internal/infra/auth"
	"passport/internal/usecase"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

// createScenarioService wires the service against the in-memory directory
// with the real bcrypt hasher and JWT issuer. MinCost keeps hashing fast.
func createScenarioService(t *testing.T) (usecase.AccountUsecase, *fakeDirectory) {
	t.Helper()

	cfg := &config.Config{
		Auth: &config.AuthConfig{
			BcryptCost:     bcrypt.MinCost,
			AccessTokenTTL: time.Hour,
		},
	}
	cfg.SecretKey.Access = "scenario-test-secret"

	hasher := auth.NewBcryptHasher(cfg)
	issuer, err := auth.NewJWTIssuer(cfg)
	require.NoError(t, err)

	directory := newFakeDirectory()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	return NewAccountService(directory, hasher, issuer, logger), directory
}

func patchFullName(name string) repository.UserPatch {
	return repository.UserPatch{FullName: &name}
}

func TestAccountService_AccountLifecycle(t *testing.T) {
	service, _ := createScenarioService(t)
	ctx := context.Background()

	registered, err := service.Register(ctx, &usecase.RegisterInput{
		FullName: "Ada Lovelace",
		Email:    "Ada@Example.com",
		Password: "secret1",
	})
	require.NoError(t, err)
	assert.Equal(t, "ada@example.com", registered.User.Email)
	assert.Empty(t, registered.User.PasswordHash)

	// A second registration on the same email hits the uniqueness constraint.
	_, err = service.Register(ctx, &usecase.RegisterInput{
		FullName: "Impostor",
		Email:    "ada@example.com",
		Password: "secret2",
	})
	assert.True(t, errors.Is(err, domainerrors.ErrEmailTaken))

	login, err := service.Login(ctx, &usecase.LoginInput{
		Email:    "ada@example.com",
		Password: "secret1",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, login.Token)
	assert.Empty(t, login.User.PasswordHash)

	_, err = service.Login(ctx, &usecase.LoginInput{
		Email:    "ada@example.com",
		Password: "secret2",
	})
	assert.True(t, errors.Is(err, domainerrors.ErrInvalidCredentials))

	// Self-service password change needs the current password, even when
	// only profile fields move.
	newName := "Augusta Ada King"
	_, err = service.UpdateWithReauth(ctx, registered.User.ID, &usecase.ReauthUpdateInput{
		CurrentPassword: "wrong",
		Patch:           patchFullName(newName),
	})
	assert.True(t, errors.Is(err, domainerrors.ErrInvalidCredentials))

	newPassword := "secret2"
	updated, err := service.UpdateWithReauth(ctx, registered.User.ID, &usecase.ReauthUpdateInput{
		CurrentPassword: "secret1",
		NewPassword:     &newPassword,
		Patch:           patchFullName(newName),
	})
	require.NoError(t, err)
	assert.Equal(t, newName, updated.FullName)
	assert.Empty(t, updated.PasswordHash)

	// The old password no longer opens the account; the new one does.
	_, err = service.Login(ctx, &usecase.LoginInput{Email: "ada@example.com", Password: "secret1"})
	assert.True(t, errors.Is(err, domainerrors.ErrInvalidCredentials))

	login, err = service.Login(ctx, &usecase.LoginInput{Email: "ada@example.com", Password: "secret2"})
	require.NoError(t, err)
	assert.NotEmpty(t, login.Token)

	// Lookup by id and by email both resolve the same record, hash-free.
	byID, err := service.Lookup(ctx, registered.User.ID.String())
	require.NoError(t, err)
	require.Len(t, byID, 1)
	assert.Empty(t, byID[0].PasswordHash)

	byEmail, err := service.Lookup(ctx, "ada@example.com")
	require.NoError(t, err)
	require.Len(t, byEmail, 1)
	assert.Equal(t, byID[0].ID, byEmail[0].ID)

	require.NoError(t, service.Deactivate(ctx, registered.User.ID))

	// Correct credentials on a deactivated account report the disabled
	// state, not a credential failure.
	_, err = service.Login(ctx, &usecase.LoginInput{Email: "ada@example.com", Password: "secret2"})
	assert.True(t, errors.Is(err, domainerrors.ErrAccountDisabled))

	// Deactivation is idempotent.
	require.NoError(t, service.Deactivate(ctx, registered.User.ID))

	// The record survives deactivation and stays visible to lookups.
	byID, err = service.Lookup(ctx, registered.User.ID.String())
	require.NoError(t, err)
	require.Len(t, byID, 1)
	assert.False(t, byID[0].IsActive)
}

func TestAccountService_TokenCarriesEmailClaim(t *testing.T) {
	service, _ := createScenarioService(t)
	ctx := context.Background()

	_, err := service.Register(ctx, &usecase.RegisterInput{
		FullName: "Ada Lovelace",
		Email:    "ada@example.com",
		Password: "secret1",
	})
	require.NoError(t, err)

	login, err := service.Login(ctx, &usecase.LoginInput{
		Email:    "ada@example.com",
		Password: "secret1",
	})
	require.NoError(t, err)

	cfg := &config.Config{}
	cfg.SecretKey.Access = "scenario-test-secret"
	issuer, err := auth.NewJWTIssuer(cfg)
	require.NoError(t, err)

	claims, err := issuer.Validate(login.Token)
	require.NoError(t, err)
	assert.Equal(t, "ada@example.com", claims.Email)
	require.NotNil(t, claims.ExpiresAt)
	assert.True(t, claims.ExpiresAt.After(time.Now()))
}
