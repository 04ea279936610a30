package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"quest-planner/internal/model"
	"quest-planner/internal/schedule"
)

// ToDoRepository handles persistence for to-dos.
type ToDoRepository struct {
	db *gorm.DB
}

func NewToDoRepository(db *gorm.DB) *ToDoRepository {
	return &ToDoRepository{db: db}
}

// WithTx rebinds the repository to a transaction handle.
func (r *ToDoRepository) WithTx(tx *gorm.DB) *ToDoRepository {
	return &ToDoRepository{db: tx}
}

func (r *ToDoRepository) GetByID(ctx context.Context, id string) (*model.ToDo, error) {
	var todo model.ToDo
	if err := r.db.WithContext(ctx).First(&todo, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: to-do %s", model.ErrNotFound, id)
		}
		return nil, fmt.Errorf("%w: find to-do: %w", model.ErrStorage, err)
	}
	return &todo, nil
}

// ListByUserDateAndTimeBlock returns the user's to-dos of the given block whose
// scheduled date falls in the block-sized window containing date.
func (r *ToDoRepository) ListByUserDateAndTimeBlock(ctx context.Context, userID string, date time.Time, block model.TimeBlock) ([]model.ToDo, error) {
	start, end := schedule.BlockRange(date, block)
	var todos []model.ToDo
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND time_block = ? AND scheduled_date >= ? AND scheduled_date < ?",
			userID, block, start, end).
		Find(&todos).Error
	if err != nil {
		return nil, fmt.Errorf("%w: list to-dos: %w", model.ErrStorage, err)
	}
	return todos, nil
}

// ListRepeatingDue returns the user's repeating, not-yet-moved to-dos scheduled
// on or before dueBy.
func (r *ToDoRepository) ListRepeatingDue(ctx context.Context, userID string, dueBy time.Time) ([]model.ToDo, error) {
	var todos []model.ToDo
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND repeat_frequency <> ? AND moved = ? AND scheduled_date <= ?",
			userID, model.RepeatNone, false, dueBy).
		Find(&todos).Error
	if err != nil {
		return nil, fmt.Errorf("%w: list repeating to-dos: %w", model.ErrStorage, err)
	}
	return todos, nil
}

func (r *ToDoRepository) Create(ctx context.Context, todo *model.ToDo) error {
	if err := r.db.WithContext(ctx).Create(todo).Error; err != nil {
		return fmt.Errorf("%w: create to-do: %w", model.ErrStorage, err)
	}
	return nil
}

func (r *ToDoRepository) Update(ctx context.Context, todo *model.ToDo) error {
	result := r.db.WithContext(ctx).Model(&model.ToDo{}).Where("id = ?", todo.ID).
		Select("*").Omit("id", "created_at").Updates(todo)
	if result.Error != nil {
		return fmt.Errorf("%w: update to-do: %w", model.ErrStorage, result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("%w: to-do %s", model.ErrNotFound, todo.ID)
	}
	return nil
}

func (r *ToDoRepository) Delete(ctx context.Context, id string) error {
	result := r.db.WithContext(ctx).Delete(&model.ToDo{}, "id = ?", id)
	if result.Error != nil {
		return fmt.Errorf("%w: delete to-do: %w", model.ErrStorage, result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("%w: to-do %s", model.ErrNotFound, id)
	}
	return nil
}

func (r *ToDoRepository) ExistsByID(ctx context.Context, id string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&model.ToDo{}).
		Where("id = ?", id).Count(&count).Error; err != nil {
		return false, fmt.Errorf("%w: count to-dos: %w", model.ErrStorage, err)
	}
	return count > 0, nil
}
