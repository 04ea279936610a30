package model

import (
	"fmt"
	"math"
	"strings"
	"time"
)

// User owns categories and to-dos and accumulates experience from completing them.
type User struct {
	ID         string `gorm:"primaryKey"`
	Username   string `gorm:"uniqueIndex"`
	SecretHash string
	Experience int `gorm:"default:0"`
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// NewUser builds a user, validating the whole proposed state before returning it.
func NewUser(id, username, secretHash string) (*User, error) {
	u := &User{ID: id, Username: strings.TrimSpace(username), SecretHash: secretHash}
	if u.ID == "" {
		return nil, fmt.Errorf("%w: user id must not be empty", ErrValidation)
	}
	if u.Username == "" {
		return nil, fmt.Errorf("%w: username must not be empty", ErrValidation)
	}
	if u.SecretHash == "" {
		return nil, fmt.Errorf("%w: credential secret must not be empty", ErrValidation)
	}
	return u, nil
}

// Rename changes the display name, rejecting blank input.
func (u *User) Rename(username string) error {
	username = strings.TrimSpace(username)
	if username == "" {
		return fmt.Errorf("%w: username must not be empty", ErrValidation)
	}
	u.Username = username
	return nil
}

// AddExperience applies a completion award. The resulting total must stay non-negative.
func (u *User) AddExperience(delta int) error {
	if u.Experience+delta < 0 {
		return fmt.Errorf("%w: experience must not be negative", ErrValidation)
	}
	u.Experience += delta
	return nil
}

// Level is derived from total experience: floor(sqrt(experience / 100)).
func (u *User) Level() int {
	if u.Experience <= 0 {
		return 0
	}
	return int(math.Sqrt(float64(u.Experience) / 100))
}
