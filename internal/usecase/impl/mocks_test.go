package impl

import (
	"context"
	"sync"
	"time"

	"passport/internal/domain/entity"
	domainerrors "passport/internal/domain/errors"
	"passport/internal/domain/repository"
	"passport/internal/domain/service"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// --- testify mocks for the service's collaborators ---

type mockUserDirectory struct {
	mock.Mock
}

func (m *mockUserDirectory) Create(ctx context.Context, user *entity.User) error {
	args := m.Called(ctx, user)

	return args.Error(0)
}

func (m *mockUserDirectory) FindByID(ctx context.Context, id uuid.UUID) (*entity.User, error) {
	args := m.Called(ctx, id)
	if user, ok := args.Get(0).(*entity.User); ok {
		return user, args.Error(1)
	}

	return nil, args.Error(1)
}

func (m *mockUserDirectory) FindByEmailWithSecrets(ctx context.Context, email string) (*entity.User, error) {
	args := m.Called(ctx, email)
	if user, ok := args.Get(0).(*entity.User); ok {
		return user, args.Error(1)
	}

	return nil, args.Error(1)
}

func (m *mockUserDirectory) FindPage(ctx context.Context, limit, offset int) ([]*entity.User, error) {
	args := m.Called(ctx, limit, offset)
	if users, ok := args.Get(0).([]*entity.User); ok {
		return users, args.Error(1)
	}

	return nil, args.Error(1)
}

func (m *mockUserDirectory) FindByEmailOrRole(ctx context.Context, term string) ([]*entity.User, error) {
	args := m.Called(ctx, term)
	if users, ok := args.Get(0).([]*entity.User); ok {
		return users, args.Error(1)
	}

	return nil, args.Error(1)
}

func (m *mockUserDirectory) MergePartial(ctx context.Context, id uuid.UUID, patch repository.UserPatch) (*entity.User, error) {
	args := m.Called(ctx, id, patch)
	if user, ok := args.Get(0).(*entity.User); ok {
		return user, args.Error(1)
	}

	return nil, args.Error(1)
}

func (m *mockUserDirectory) Save(ctx context.Context, user *entity.User) error {
	args := m.Called(ctx, user)

	return args.Error(0)
}

type mockPasswordHasher struct {
	mock.Mock
}

func (m *mockPasswordHasher) Hash(password string) (string, error) {
	args := m.Called(password)

	return args.String(0), args.Error(1)
}

func (m *mockPasswordHasher) Check(password, hash string) bool {
	args := m.Called(password, hash)

	return args.Bool(0)
}

type mockTokenIssuer struct {
	mock.Mock
}

func (m *mockTokenIssuer) Issue(email string) (string, error) {
	args := m.Called(email)

	return args.String(0), args.Error(1)
}

func (m *mockTokenIssuer) Validate(tokenString string) (*service.Claims, error) {
	args := m.Called(tokenString)
	if claims, ok := args.Get(0).(*service.Claims); ok {
		return claims, args.Error(1)
	}

	return nil, args.Error(1)
}

// --- in-memory directory fake for end-to-end scenarios ---

// fakeDirectory is a map-backed UserDirectory honoring the contract's
// projection and merge rules, used where mocks would obscure the flow.
type fakeDirectory struct {
	mu    sync.Mutex
	users map[uuid.UUID]*entity.User
}

func newFakeDirectory() *fakeDirectory {
	return &fakeDirectory{users: make(map[uuid.UUID]*entity.User)}
}

func (d *fakeDirectory) Create(_ context.Context, user *entity.User) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	for _, existing := range d.users {
		if existing.Email == user.Email {
			return domainerrors.ErrEmailTaken.WithDetails("duplicate key value violates unique constraint")
		}
	}

	user.ID = uuid.New()
	user.CreatedAt = time.Now()
	user.UpdatedAt = user.CreatedAt
	stored := *user
	d.users[user.ID] = &stored

	return nil
}

func (d *fakeDirectory) FindByID(_ context.Context, id uuid.UUID) (*entity.User, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	user, ok := d.users[id]
	if !ok {
		return nil, repository.ErrUserNotFound
	}

	// Default projections leave the hash behind.
	return user.Sanitized(), nil
}

func (d *fakeDirectory) FindByEmailWithSecrets(_ context.Context, email string) (*entity.User, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	for _, user := range d.users {
		if user.Email == email {
			copied := *user

			return &copied, nil
		}
	}

	return nil, repository.ErrUserNotFound
}

func (d *fakeDirectory) FindPage(_ context.Context, limit, offset int) ([]*entity.User, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	ordered := make([]*entity.User, 0, len(d.users))
	for _, user := range d.users {
		ordered = append(ordered, user.Sanitized())
	}
	sortByCreation(ordered)

	if offset >= len(ordered) {
		return []*entity.User{}, nil
	}
	end := offset + limit
	if end > len(ordered) {
		end = len(ordered)
	}

	return ordered[offset:end], nil
}

func (d *fakeDirectory) FindByEmailOrRole(_ context.Context, term string) ([]*entity.User, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	matches := make([]*entity.User, 0)
	for _, user := range d.users {
		if user.Email == term || user.Role.String() == term {
			matches = append(matches, user.Sanitized())
		}
	}
	sortByCreation(matches)

	return matches, nil
}

func (d *fakeDirectory) MergePartial(_ context.Context, id uuid.UUID, patch repository.UserPatch) (*entity.User, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	user, ok := d.users[id]
	if !ok {
		return nil, repository.ErrUserNotFound
	}

	merged := *user
	patch.Apply(&merged)

	return &merged, nil
}

func (d *fakeDirectory) Save(_ context.Context, user *entity.User) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if _, ok := d.users[user.ID]; !ok {
		return repository.ErrUserNotFound
	}

	for id, existing := range d.users {
		if id != user.ID && existing.Email == user.Email {
			return domainerrors.ErrEmailTaken.WithDetails("duplicate key value violates unique constraint")
		}
	}

	user.UpdatedAt = time.Now()
	stored := *user
	d.users[user.ID] = &stored

	return nil
}

func sortByCreation(users []*entity.User) {
	for i := 1; i < len(users); i++ {
		for j := i; j > 0 && users[j].CreatedAt.Before(users[j-1].CreatedAt); j-- {
			users[j], users[j-1] = users[j-1], users[j]
		}
	}
}
