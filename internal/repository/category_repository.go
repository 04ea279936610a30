package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"quest-planner/internal/model"
)

// CategoryRepository handles persistence for categories, including the bulk
// reassignment of to-dos used by the delete cascade.
type CategoryRepository struct {
	db *gorm.DB
}

func NewCategoryRepository(db *gorm.DB) *CategoryRepository {
	return &CategoryRepository{db: db}
}

// WithTx rebinds the repository to a transaction handle.
func (r *CategoryRepository) WithTx(tx *gorm.DB) *CategoryRepository {
	return &CategoryRepository{db: tx}
}

func (r *CategoryRepository) GetByID(ctx context.Context, id string) (*model.Category, error) {
	var category model.Category
	if err := r.db.WithContext(ctx).First(&category, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: category %s", model.ErrNotFound, id)
		}
		return nil, fmt.Errorf("%w: find category: %w", model.ErrStorage, err)
	}
	return &category, nil
}

// GetByName looks up a user's category by its normalized name.
func (r *CategoryRepository) GetByName(ctx context.Context, userID, name string) (*model.Category, error) {
	var category model.Category
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND name = ?", userID, name).First(&category).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: category %q for user %s", model.ErrNotFound, name, userID)
		}
		return nil, fmt.Errorf("%w: find category by name: %w", model.ErrStorage, err)
	}
	return &category, nil
}

func (r *CategoryRepository) ListByUser(ctx context.Context, userID string) ([]model.Category, error) {
	var categories []model.Category
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).Order("name ASC").Find(&categories).Error; err != nil {
		return nil, fmt.Errorf("%w: list categories: %w", model.ErrStorage, err)
	}
	return categories, nil
}

func (r *CategoryRepository) Create(ctx context.Context, category *model.Category) error {
	if err := r.db.WithContext(ctx).Create(category).Error; err != nil {
		return fmt.Errorf("%w: create category: %w", model.ErrStorage, err)
	}
	return nil
}

func (r *CategoryRepository) Update(ctx context.Context, category *model.Category) error {
	result := r.db.WithContext(ctx).Model(&model.Category{}).Where("id = ?", category.ID).
		Select("*").Omit("id", "created_at").Updates(category)
	if result.Error != nil {
		return fmt.Errorf("%w: update category: %w", model.ErrStorage, result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("%w: category %s", model.ErrNotFound, category.ID)
	}
	return nil
}

func (r *CategoryRepository) Delete(ctx context.Context, id string) error {
	result := r.db.WithContext(ctx).Delete(&model.Category{}, "id = ?", id)
	if result.Error != nil {
		return fmt.Errorf("%w: delete category: %w", model.ErrStorage, result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("%w: category %s", model.ErrNotFound, id)
	}
	return nil
}

// ExistsByNormalizedName reports whether the user already has a category with
// the given normalized name.
func (r *CategoryRepository) ExistsByNormalizedName(ctx context.Context, userID, name string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&model.Category{}).
		Where("user_id = ? AND name = ?", userID, name).Count(&count).Error; err != nil {
		return false, fmt.Errorf("%w: count categories: %w", model.ErrStorage, err)
	}
	return count > 0, nil
}

// ReassignToDos re-points every to-do of the user that references oldID to
// newID. Used by the delete cascade.
func (r *CategoryRepository) ReassignToDos(ctx context.Context, userID, oldID, newID string) error {
	err := r.db.WithContext(ctx).Model(&model.ToDo{}).
		Where("user_id = ? AND category_id = ?", userID, oldID).
		Update("category_id", newID).Error
	if err != nil {
		return fmt.Errorf("%w: reassign to-dos: %w", model.ErrStorage, err)
	}
	return nil
}
