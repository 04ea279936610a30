package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"quest-planner/internal/model"
)

// UserRepository handles persistence for users.
type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

// WithTx rebinds the repository to a transaction handle.
func (r *UserRepository) WithTx(tx *gorm.DB) *UserRepository {
	return &UserRepository{db: tx}
}

func (r *UserRepository) GetByID(ctx context.Context, id string) (*model.User, error) {
	var user model.User
	if err := r.db.WithContext(ctx).First(&user, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: user %s", model.ErrNotFound, id)
		}
		return nil, fmt.Errorf("%w: find user: %w", model.ErrStorage, err)
	}
	return &user, nil
}

func (r *UserRepository) GetByName(ctx context.Context, username string) (*model.User, error) {
	var user model.User
	if err := r.db.WithContext(ctx).Where("username = ?", username).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: user %q", model.ErrNotFound, username)
		}
		return nil, fmt.Errorf("%w: find user by name: %w", model.ErrStorage, err)
	}
	return &user, nil
}

func (r *UserRepository) Create(ctx context.Context, user *model.User) error {
	if err := r.db.WithContext(ctx).Create(user).Error; err != nil {
		return fmt.Errorf("%w: create user: %w", model.ErrStorage, err)
	}
	return nil
}

// Update overwrites the full record by id.
func (r *UserRepository) Update(ctx context.Context, user *model.User) error {
	result := r.db.WithContext(ctx).Model(&model.User{}).Where("id = ?", user.ID).
		Select("*").Omit("id", "created_at").Updates(user)
	if result.Error != nil {
		return fmt.Errorf("%w: update user: %w", model.ErrStorage, result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("%w: user %s", model.ErrNotFound, user.ID)
	}
	return nil
}

func (r *UserRepository) ExistsByName(ctx context.Context, username string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&model.User{}).
		Where("username = ?", username).Count(&count).Error; err != nil {
		return false, fmt.Errorf("%w: count users: %w", model.ErrStorage, err)
	}
	return count > 0, nil
}

// AddExperience increments the user's experience with a SQL-side expression so
// two racing awards cannot read the same base value.
func (r *UserRepository) AddExperience(ctx context.Context, userID string, delta int) error {
	result := r.db.WithContext(ctx).Model(&model.User{}).Where("id = ?", userID).
		UpdateColumn("experience", gorm.Expr("experience + ?", delta))
	if result.Error != nil {
		return fmt.Errorf("%w: add experience: %w", model.ErrStorage, result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("%w: user %s", model.ErrNotFound, userID)
	}
	return nil
}

// ListAll returns every registered user, used by the daily advancement job.
func (r *UserRepository) ListAll(ctx context.Context) ([]model.User, error) {
	var users []model.User
	if err := r.db.WithContext(ctx).Find(&users).Error; err != nil {
		return nil, fmt.Errorf("%w: list users: %w", model.ErrStorage, err)
	}
	return users, nil
}
