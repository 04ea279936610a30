package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"quest-planner/internal/model"
	"quest-planner/internal/repository"
	"quest-planner/internal/schedule"
)

// ToDoService orchestrates the to-do lifecycle: CRUD, the experience award on
// completion and the recurrence advancement that spawns next occurrences.
type ToDoService struct {
	todoRepo *repository.ToDoRepository
	userRepo *repository.UserRepository
	tx       *repository.TxManager
	now      func() time.Time
}

func NewToDoService(todoRepo *repository.ToDoRepository, userRepo *repository.UserRepository, tx *repository.TxManager) *ToDoService {
	return &ToDoService{todoRepo: todoRepo, userRepo: userRepo, tx: tx, now: time.Now}
}

func (s *ToDoService) GetByID(ctx context.Context, id string) (*model.ToDo, error) {
	return s.todoRepo.GetByID(ctx, id)
}

// ListByDateAndTimeBlock returns the user's to-dos of the given view bucket
// whose scheduled date falls in the bucket window containing date.
func (s *ToDoService) ListByDateAndTimeBlock(ctx context.Context, userID string, date time.Time, block model.TimeBlock) ([]model.ToDo, error) {
	if !block.Valid() {
		return nil, fmt.Errorf("%w: unknown time block %q", model.ErrValidation, block)
	}
	return s.todoRepo.ListByUserDateAndTimeBlock(ctx, userID, date, block)
}

// Add persists a new to-do. A caller-supplied id that already exists is a
// conflict; an absent id is stamped here.
func (s *ToDoService) Add(ctx context.Context, todo *model.ToDo) error {
	if todo.ID == "" {
		todo.ID = uuid.NewString()
	} else {
		exists, err := s.todoRepo.ExistsByID(ctx, todo.ID)
		if err != nil {
			return err
		}
		if exists {
			return fmt.Errorf("%w: to-do id %s already exists", model.ErrConflict, todo.ID)
		}
	}
	todo.ScheduledDate = schedule.StartOfDay(todo.ScheduledDate)
	if err := todo.Validate(s.now()); err != nil {
		return err
	}
	return s.todoRepo.Create(ctx, todo)
}

// Update overwrites an existing to-do. A record already stored as completed is
// frozen regardless of the incoming payload. When the payload transitions
// completion to true, the owner's experience award commits in the same
// transaction as the update.
func (s *ToDoService) Update(ctx context.Context, todo *model.ToDo) error {
	return s.tx.Do(ctx, func(tx *gorm.DB) error {
		todoRepo := s.todoRepo.WithTx(tx)
		stored, err := todoRepo.GetByID(ctx, todo.ID)
		if err != nil {
			return err
		}
		if stored.IsCompleted {
			return fmt.Errorf("%w: cannot modify a completed to-do", model.ErrConflict)
		}
		todo.ScheduledDate = schedule.StartOfDay(todo.ScheduledDate)
		if err := todo.ValidateUpdate(stored, s.now()); err != nil {
			return err
		}
		// Only the recurrence advancer may flip the moved flag.
		todo.Moved = stored.Moved
		if todo.IsCompleted {
			if delta := todo.Difficulty.Experience(); delta > 0 {
				if err := s.userRepo.WithTx(tx).AddExperience(ctx, stored.UserID, delta); err != nil {
					return err
				}
			}
		}
		return todoRepo.Update(ctx, todo)
	})
}

// Delete removes the record. No cascading effects on other entities.
func (s *ToDoService) Delete(ctx context.Context, id string) error {
	return s.todoRepo.Delete(ctx, id)
}

// AdvanceRecurring advances every repeating, not-yet-moved to-do of the user
// whose scheduled date is on or before today: it creates the successor
// occurrence and marks the original moved, both in one transaction per item so
// the original can never be marked moved without a durable successor. Returns
// the number of items advanced; zero due items is a successful no-op.
func (s *ToDoService) AdvanceRecurring(ctx context.Context, userID string) (int, error) {
	today := schedule.StartOfDay(s.now())
	due, err := s.todoRepo.ListRepeatingDue(ctx, userID, today)
	if err != nil {
		return 0, err
	}

	advanced := 0
	for i := range due {
		src := &due[i]
		if !src.RepeatFrequency.Repeats() {
			continue
		}
		successor := src.Successor(uuid.NewString(), schedule.Next(src.ScheduledDate, src.RepeatFrequency))
		err := s.tx.Do(ctx, func(tx *gorm.DB) error {
			todoRepo := s.todoRepo.WithTx(tx)
			if err := todoRepo.Create(ctx, successor); err != nil {
				return err
			}
			src.Moved = true
			return todoRepo.Update(ctx, src)
		})
		if err != nil {
			return advanced, err
		}
		advanced++
	}
	return advanced, nil
}
