package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"quest-planner/internal/model"
	"quest-planner/internal/repository"
)

// CategoryService owns the category lifecycle. Rename and delete are the only
// operations in the system with cross-entity cascades, so both run as single
// transactions over the category and to-do collections.
type CategoryService struct {
	categoryRepo *repository.CategoryRepository
	tx           *repository.TxManager
}

func NewCategoryService(categoryRepo *repository.CategoryRepository, tx *repository.TxManager) *CategoryService {
	return &CategoryService{categoryRepo: categoryRepo, tx: tx}
}

func (s *CategoryService) GetByID(ctx context.Context, id string) (*model.Category, error) {
	return s.categoryRepo.GetByID(ctx, id)
}

func (s *CategoryService) ListByUser(ctx context.Context, userID string) ([]model.Category, error) {
	return s.categoryRepo.ListByUser(ctx, userID)
}

// Add creates a user-requested category. Reserved names are rejected; the name
// is normalized and must be unique for the user.
func (s *CategoryService) Add(ctx context.Context, userID, name string) (*model.Category, error) {
	normalized := model.NormalizeCategoryName(name)
	if err := model.ValidateCategoryName(normalized); err != nil {
		return nil, err
	}
	if model.IsReservedCategoryName(normalized) {
		return nil, fmt.Errorf("%w: cannot create a reserved category", model.ErrValidation)
	}
	category, err := model.NewCategory(uuid.NewString(), userID, normalized)
	if err != nil {
		return nil, err
	}
	exists, err := s.categoryRepo.ExistsByNormalizedName(ctx, userID, normalized)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, fmt.Errorf("%w: category %q already exists for user", model.ErrConflict, normalized)
	}
	if err := s.categoryRepo.Create(ctx, category); err != nil {
		return nil, err
	}
	return category, nil
}

// Update renames a category. Reserved categories are frozen, and both the
// reserved names and existing names of the user are rejected as targets. The
// rename commits in one transaction; to-dos reference the category by its
// immutable id, so they observe the new name without being rewritten.
func (s *CategoryService) Update(ctx context.Context, id, name string) (*model.Category, error) {
	var renamed *model.Category
	err := s.tx.Do(ctx, func(tx *gorm.DB) error {
		repo := s.categoryRepo.WithTx(tx)
		stored, err := repo.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if model.IsReservedCategoryName(stored.Name) {
			return fmt.Errorf("%w: cannot rename a reserved category", model.ErrValidation)
		}
		normalized := model.NormalizeCategoryName(name)
		if err := model.ValidateCategoryName(normalized); err != nil {
			return err
		}
		if model.IsReservedCategoryName(normalized) {
			return fmt.Errorf("%w: cannot rename to a reserved category", model.ErrValidation)
		}
		if normalized != stored.Name {
			exists, err := repo.ExistsByNormalizedName(ctx, stored.UserID, normalized)
			if err != nil {
				return err
			}
			if exists {
				return fmt.Errorf("%w: category %q already exists for user", model.ErrConflict, normalized)
			}
		}
		if err := stored.Rename(normalized); err != nil {
			return err
		}
		if err := repo.Update(ctx, stored); err != nil {
			return err
		}
		renamed = stored
		return nil
	})
	if err != nil {
		return nil, err
	}
	return renamed, nil
}

// Delete removes a non-reserved category after reassigning every referencing
// to-do to the user's "Other" category, all in one transaction. A missing
// "Other" means the account was never seeded properly and surfaces as-is.
func (s *CategoryService) Delete(ctx context.Context, id string) error {
	return s.tx.Do(ctx, func(tx *gorm.DB) error {
		repo := s.categoryRepo.WithTx(tx)
		stored, err := repo.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if model.IsReservedCategoryName(stored.Name) {
			return fmt.Errorf("%w: cannot delete a reserved category", model.ErrValidation)
		}
		other, err := repo.GetByName(ctx, stored.UserID, model.CategoryOther)
		if err != nil {
			return fmt.Errorf("account %s is missing its %q category: %w", stored.UserID, model.CategoryOther, err)
		}
		if err := repo.ReassignToDos(ctx, stored.UserID, stored.ID, other.ID); err != nil {
			return err
		}
		return repo.Delete(ctx, stored.ID)
	})
}

// SeedDefaults creates the two reserved categories for a freshly registered
// user. Invoked by the registration flow, never by user action.
func (s *CategoryService) SeedDefaults(ctx context.Context, userID string) error {
	return s.tx.Do(ctx, func(tx *gorm.DB) error {
		repo := s.categoryRepo.WithTx(tx)
		for _, name := range []string{model.CategoryHabit, model.CategoryOther} {
			category, err := model.NewCategory(uuid.NewString(), userID, name)
			if err != nil {
				return err
			}
			if err := repo.Create(ctx, category); err != nil {
				return err
			}
		}
		return nil
	})
}
