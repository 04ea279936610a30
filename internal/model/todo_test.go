package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

func validToDo() *ToDo {
	return &ToDo{
		ID:              "todo-1",
		UserID:          "user-1",
		CategoryID:      "cat-1",
		Description:     "Water the plants",
		TimeBlock:       TimeBlockDay,
		Difficulty:      DifficultyEasy,
		ScheduledDate:   time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC),
		RepeatFrequency: RepeatNone,
	}
}

func TestToDoValidate(t *testing.T) {
	require.NoError(t, validToDo().Validate(testNow))

	tests := []struct {
		name   string
		mutate func(*ToDo)
	}{
		{"blank description", func(td *ToDo) { td.Description = "   " }},
		{"empty user id", func(td *ToDo) { td.UserID = "" }},
		{"empty category id", func(td *ToDo) { td.CategoryID = "" }},
		{"unknown time block", func(td *ToDo) { td.TimeBlock = "fortnight" }},
		{"unknown difficulty", func(td *ToDo) { td.Difficulty = 7 }},
		{"unknown frequency", func(td *ToDo) { td.RepeatFrequency = "hourly" }},
		{"scheduled in the past", func(td *ToDo) {
			td.ScheduledDate = time.Date(2025, 6, 14, 0, 0, 0, 0, time.UTC)
		}},
		{"deadline in the past", func(td *ToDo) {
			d := testNow.Add(-time.Hour)
			td.Deadline = &d
		}},
		{"deadline not after scheduled date", func(td *ToDo) {
			td.ScheduledDate = time.Date(2025, 6, 20, 0, 0, 0, 0, time.UTC)
			d := time.Date(2025, 6, 18, 0, 0, 0, 0, time.UTC)
			td.Deadline = &d
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			td := validToDo()
			tt.mutate(td)
			require.ErrorIs(t, td.Validate(testNow), ErrValidation)
		})
	}
}

func TestToDoValidateNeverClamps(t *testing.T) {
	td := validToDo()
	// Well in the future relative to now, but before the scheduled date.
	td.ScheduledDate = time.Date(2025, 7, 10, 0, 0, 0, 0, time.UTC)
	deadline := time.Date(2025, 7, 5, 0, 0, 0, 0, time.UTC)
	td.Deadline = &deadline

	require.ErrorIs(t, td.Validate(testNow), ErrValidation)
	assert.Equal(t, time.Date(2025, 7, 5, 0, 0, 0, 0, time.UTC), *td.Deadline)
}

func TestToDoValidateUpdate(t *testing.T) {
	stored := validToDo()

	t.Run("immutable time block", func(t *testing.T) {
		td := validToDo()
		td.TimeBlock = TimeBlockWeek
		require.ErrorIs(t, td.ValidateUpdate(stored, testNow), ErrValidation)
	})

	t.Run("immutable owner", func(t *testing.T) {
		td := validToDo()
		td.UserID = "user-2"
		require.ErrorIs(t, td.ValidateUpdate(stored, testNow), ErrValidation)
	})

	t.Run("unchanged past dates are tolerated", func(t *testing.T) {
		// Completing an overdue item must not trip the past-date checks.
		old := validToDo()
		old.ScheduledDate = time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
		d := time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC)
		old.Deadline = &d

		update := *old
		update.IsCompleted = true
		require.NoError(t, update.ValidateUpdate(old, testNow))
	})

	t.Run("changing to a past date fails", func(t *testing.T) {
		td := validToDo()
		td.ScheduledDate = time.Date(2025, 6, 10, 0, 0, 0, 0, time.UTC)
		require.ErrorIs(t, td.ValidateUpdate(stored, testNow), ErrValidation)
	})

	t.Run("ordering is checked on every write", func(t *testing.T) {
		old := validToDo()
		old.ScheduledDate = time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
		d := time.Date(2025, 5, 30, 0, 0, 0, 0, time.UTC)
		update := *old
		update.Deadline = &d
		require.ErrorIs(t, update.ValidateUpdate(old, testNow), ErrValidation)
	})
}

func TestToDoSuccessor(t *testing.T) {
	src := validToDo()
	src.RepeatFrequency = RepeatDaily
	src.IsCompleted = true
	src.Moved = true
	next := time.Date(2025, 6, 16, 0, 0, 0, 0, time.UTC)

	successor := src.Successor("todo-2", next)
	assert.Equal(t, "todo-2", successor.ID)
	assert.Equal(t, src.Description, successor.Description)
	assert.Equal(t, src.TimeBlock, successor.TimeBlock)
	assert.Equal(t, src.Difficulty, successor.Difficulty)
	assert.Equal(t, src.CategoryID, successor.CategoryID)
	assert.Equal(t, src.UserID, successor.UserID)
	assert.Equal(t, src.RepeatFrequency, successor.RepeatFrequency)
	assert.True(t, successor.ScheduledDate.Equal(next))
	assert.False(t, successor.IsCompleted)
	assert.False(t, successor.Moved)
	require.NotNil(t, successor.ParentID)
	assert.Equal(t, src.ID, *successor.ParentID)

	// Further generations keep pointing at the chain's first occurrence.
	third := successor.Successor("todo-3", next.AddDate(0, 0, 1))
	require.NotNil(t, third.ParentID)
	assert.Equal(t, src.ID, *third.ParentID)
}

func TestDifficultyExperience(t *testing.T) {
	assert.Equal(t, 0, DifficultyNone.Experience())
	assert.Equal(t, 5, DifficultyEasy.Experience())
	assert.Equal(t, 10, DifficultyMedium.Experience())
	assert.Equal(t, 15, DifficultyHard.Experience())
	assert.Equal(t, 20, DifficultyNightmare.Experience())
}
