package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"quest-planner/internal/auth"
	"quest-planner/internal/model"
	"quest-planner/internal/repository"
)

// UserService handles registration, authentication and profile updates.
// Experience awards live in ToDoService because the triggering condition is a
// to-do state transition.
type UserService struct {
	userRepo   *repository.UserRepository
	categories *CategoryService
	hasher     *auth.PasswordHasher
	tokens     *auth.TokenManager
}

func NewUserService(userRepo *repository.UserRepository, categories *CategoryService, hasher *auth.PasswordHasher, tokens *auth.TokenManager) *UserService {
	return &UserService{userRepo: userRepo, categories: categories, hasher: hasher, tokens: tokens}
}

func (s *UserService) GetByID(ctx context.Context, id string) (*model.User, error) {
	return s.userRepo.GetByID(ctx, id)
}

// Register creates an account and seeds its two reserved categories as a
// post-registration step.
func (s *UserService) Register(ctx context.Context, username, secret string) (*model.User, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return nil, fmt.Errorf("%w: username must not be empty", model.ErrValidation)
	}
	if secret == "" {
		return nil, fmt.Errorf("%w: credential secret must not be empty", model.ErrValidation)
	}

	taken, err := s.userRepo.ExistsByName(ctx, username)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, fmt.Errorf("%w: username %q already taken", model.ErrConflict, username)
	}

	hash, err := s.hasher.Hash(secret)
	if err != nil {
		return nil, fmt.Errorf("hash secret: %w", err)
	}
	user, err := model.NewUser(uuid.NewString(), username, hash)
	if err != nil {
		return nil, err
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}
	if err := s.categories.SeedDefaults(ctx, user.ID); err != nil {
		return nil, fmt.Errorf("seed default categories: %w", err)
	}
	return user, nil
}

// Authenticate checks the credentials and issues a session token. Unknown
// usernames and wrong secrets fail identically.
func (s *UserService) Authenticate(ctx context.Context, username, secret string) (string, *model.User, error) {
	user, err := s.userRepo.GetByName(ctx, strings.TrimSpace(username))
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return "", nil, fmt.Errorf("%w: invalid credentials", model.ErrValidation)
		}
		return "", nil, err
	}
	if !s.hasher.Verify(secret, user.SecretHash) {
		return "", nil, fmt.Errorf("%w: invalid credentials", model.ErrValidation)
	}
	token, err := s.tokens.Issue(user.ID)
	if err != nil {
		return "", nil, err
	}
	return token, user, nil
}

// UpdateProfile renames the account.
func (s *UserService) UpdateProfile(ctx context.Context, userID, username string) (*model.User, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	username = strings.TrimSpace(username)
	if username != user.Username {
		taken, err := s.userRepo.ExistsByName(ctx, username)
		if err != nil {
			return nil, err
		}
		if taken {
			return nil, fmt.Errorf("%w: username %q already taken", model.ErrConflict, username)
		}
	}
	if err := user.Rename(username); err != nil {
		return nil, err
	}
	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}
