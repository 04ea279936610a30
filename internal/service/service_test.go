package service

import (
	"testing"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"quest-planner/internal/auth"
	"quest-planner/internal/model"
	"quest-planner/internal/repository"
)

// fixture wires the services against an in-memory SQLite database with a
// frozen clock.
type fixture struct {
	db           *gorm.DB
	userRepo     *repository.UserRepository
	categoryRepo *repository.CategoryRepository
	todoRepo     *repository.ToDoRepository
	users        *UserService
	categories   *CategoryService
	todos        *ToDoService
}

func newFixture(t *testing.T, now time.Time) *fixture {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open test database: %v", err)
	}
	if err := db.AutoMigrate(&model.User{}, &model.Category{}, &model.ToDo{}); err != nil {
		t.Fatalf("migrate test database: %v", err)
	}

	userRepo := repository.NewUserRepository(db)
	categoryRepo := repository.NewCategoryRepository(db)
	todoRepo := repository.NewToDoRepository(db)
	tx := repository.NewTxManager(db)

	categories := NewCategoryService(categoryRepo, tx)
	todos := NewToDoService(todoRepo, userRepo, tx)
	todos.now = func() time.Time { return now }
	users := NewUserService(userRepo, categories,
		auth.NewPasswordHasher(), auth.NewTokenManager("test-secret", time.Hour))

	return &fixture{
		db:           db,
		userRepo:     userRepo,
		categoryRepo: categoryRepo,
		todoRepo:     todoRepo,
		users:        users,
		categories:   categories,
		todos:        todos,
	}
}
