package postgres

import (
	"context"

	"passport/internal/domain/entity"
	domainerrors "passport/internal/domain/errors"
	"passport/internal/domain/repository"
	"passport/internal/infra/persistence/model"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// secretColumns are excluded from default read projections. Only the
// authentication read path selects them explicitly.
var secretColumns = []string{"password_hash"}

// userDirectory implements the repository.UserDirectory interface using GORM.
type userDirectory struct {
	db *gorm.DB
}

// NewUserDirectory is the constructor for userDirectory.
// It returns the repository as a repository.UserDirectory interface, adhering to dependency inversion.
func NewUserDirectory(db *gorm.DB) repository.UserDirectory {
	return &userDirectory{db: db}
}

// Create persists a new user row. The unique index on email is the only
// duplicate check; its violation is translated into the domain taxonomy with
// the store's detail preserved.
func (repo *userDirectory) Create(ctx context.Context, user *entity.User) error {
	userM := fromUserDomain(user)

	if err := repo.db.WithContext(ctx).Create(userM).Error; err != nil {
		return translateWriteError(err, "failed to create user")
	}

	// Propagate store-generated fields back onto the entity.
	user.ID = userM.ID
	user.CreatedAt = userM.CreatedAt
	user.UpdatedAt = userM.UpdatedAt

	return nil
}

// FindByID retrieves a single user by their unique ID. The password hash is
// left out of the projection.
func (repo *userDirectory) FindByID(ctx context.Context, id uuid.UUID) (*entity.User, error) {
	var userM model.UserModel
	err := repo.db.WithContext(ctx).
		Omit(secretColumns...).
		Where("id = ?", id).
		First(&userM).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrUserNotFound
		}

		return nil, errors.Wrap(err, "failed to find user by id")
	}

	return toUserDomain(&userM), nil
}

// FindByEmailWithSecrets retrieves a user by exact email with the full row,
// password hash and active flag included. This is the login read path.
func (repo *userDirectory) FindByEmailWithSecrets(ctx context.Context, email string) (*entity.User, error) {
	var userM model.UserModel
	err := repo.db.WithContext(ctx).
		Where("email = ?", email).
		First(&userM).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrUserNotFound
		}

		return nil, errors.Wrap(err, "failed to find user by email")
	}

	return toUserDomain(&userM), nil
}

// FindPage returns a page of users. Creation order (created_at ascending) is
// the documented stable order; the store has no other defined sort key.
func (repo *userDirectory) FindPage(ctx context.Context, limit, offset int) ([]*entity.User, error) {
	var userMs []model.UserModel
	err := repo.db.WithContext(ctx).
		Omit(secretColumns...).
		Order("created_at ASC").
		Limit(limit).
		Offset(offset).
		Find(&userMs).Error
	if err != nil {
		return nil, errors.Wrap(err, "failed to find user page")
	}

	return toUserDomainList(userMs), nil
}

// FindByEmailOrRole matches the lower-cased term against both identifier
// spaces. The conflation is inherited behavior the callers rely on.
func (repo *userDirectory) FindByEmailOrRole(ctx context.Context, term string) ([]*entity.User, error) {
	var userMs []model.UserModel
	err := repo.db.WithContext(ctx).
		Omit(secretColumns...).
		Where("email = ? OR role = ?", term, term).
		Order("created_at ASC").
		Find(&userMs).Error
	if err != nil {
		return nil, errors.Wrap(err, "failed to find users by email or role")
	}

	return toUserDomainList(userMs), nil
}

// MergePartial loads the target row (hash included) and applies the patch in
// memory. Persisting the merged record is the caller's move, via Save.
func (repo *userDirectory) MergePartial(ctx context.Context, id uuid.UUID, patch repository.UserPatch) (*entity.User, error) {
	var userM model.UserModel
	err := repo.db.WithContext(ctx).
		Where("id = ?", id).
		First(&userM).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrUserNotFound
		}

		return nil, errors.Wrap(err, "failed to load user for merge")
	}

	user := toUserDomain(&userM)
	patch.Apply(user)

	return user, nil
}

// Save persists the full user row. Duplicate email mapping matches Create.
func (repo *userDirectory) Save(ctx context.Context, user *entity.User) error {
	userM := fromUserDomain(user)

	if err := repo.db.WithContext(ctx).Save(userM).Error; err != nil {
		return translateWriteError(err, "failed to save user")
	}

	user.UpdatedAt = userM.UpdatedAt

	return nil
}

// translateWriteError converts store-level write failures into the domain
// taxonomy. Anything unclassified becomes a generic database error whose
// detail stays out of user-facing messages.
func translateWriteError(err error, details string) error {
	if isUniqueConstraintViolation(err) {
		return domainerrors.ErrEmailTaken.WithDetails(err.Error()).WrapMessage("email uniqueness violated")
	}
	if isNotNullConstraintViolation(err) {
		return domainerrors.NewDatabaseExecuteError(err, "missing required user column")
	}

	return domainerrors.NewDatabaseExecuteError(err, details)
}

// --- Mapper Functions ---
// These helpers convert between domain entities and persistence models.

// toUserDomain converts a GORM UserModel to a domain User entity.
func toUserDomain(data *model.UserModel) *entity.User {
	if data == nil {
		return nil
	}

	return &entity.User{
		ID:           data.ID,
		Email:        data.Email,
		FullName:     data.FullName,
		Role:         entity.Role(data.Role),
		PasswordHash: data.PasswordHash,
		IsActive:     data.IsActive,
		CreatedAt:    data.CreatedAt,
		UpdatedAt:    data.UpdatedAt,
	}
}

func toUserDomainList(data []model.UserModel) []*entity.User {
	users := make([]*entity.User, 0, len(data))
	for i := range data {
		users = append(users, toUserDomain(&data[i]))
	}

	return users
}

// fromUserDomain converts a domain User entity to a GORM UserModel for persistence.
func fromUserDomain(data *entity.User) *model.UserModel {
	if data == nil {
		return nil
	}

	return &model.UserModel{
		ID:           data.ID,
		Email:        data.Email,
		FullName:     data.FullName,
		Role:         data.Role.String(),
		PasswordHash: data.PasswordHash,
		IsActive:     data.IsActive,
		CreatedAt:    data.CreatedAt,
	}
}
