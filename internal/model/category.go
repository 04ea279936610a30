package model

import (
	"fmt"
	"strings"
	"time"
	"unicode"
)

// Reserved category names. Both are seeded at registration; "Other" doubles as
// the fallback destination when another category is deleted.
const (
	CategoryHabit = "Habit"
	CategoryOther = "Other"
)

// Category groups a user's to-dos. Names are unique per user after normalization.
type Category struct {
	ID        string `gorm:"primaryKey"`
	UserID    string `gorm:"index:idx_user_category_name,unique"`
	Name      string `gorm:"index:idx_user_category_name,unique"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewCategory builds a category with a normalized, validated name.
func NewCategory(id, userID, name string) (*Category, error) {
	normalized := NormalizeCategoryName(name)
	if id == "" {
		return nil, fmt.Errorf("%w: category id must not be empty", ErrValidation)
	}
	if userID == "" {
		return nil, fmt.Errorf("%w: user id must not be empty", ErrValidation)
	}
	if err := ValidateCategoryName(normalized); err != nil {
		return nil, err
	}
	return &Category{ID: id, UserID: userID, Name: normalized}, nil
}

// Rename normalizes and validates the new name before committing it.
func (c *Category) Rename(name string) error {
	normalized := NormalizeCategoryName(name)
	if err := ValidateCategoryName(normalized); err != nil {
		return err
	}
	c.Name = normalized
	return nil
}

// NormalizeCategoryName trims the name and folds its case to a capitalized
// first letter with the remainder lowercased, so uniqueness is case-insensitive.
func NormalizeCategoryName(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return ""
	}
	runes := []rune(strings.ToLower(name))
	runes[0] = unicode.ToUpper(runes[0])
	return string(runes)
}

// ValidateCategoryName checks an already-normalized name.
func ValidateCategoryName(name string) error {
	if name == "" {
		return fmt.Errorf("%w: category name must not be empty", ErrValidation)
	}
	for _, r := range name {
		if unicode.IsDigit(r) {
			return fmt.Errorf("%w: category name must not contain digits", ErrValidation)
		}
	}
	return nil
}

// IsReservedCategoryName reports whether a normalized name is one of the two
// per-user reserved categories.
func IsReservedCategoryName(name string) bool {
	return name == CategoryHabit || name == CategoryOther
}
