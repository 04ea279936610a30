package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"quest-planner/internal/model"
)

func newToDo(id, userID string, block model.TimeBlock, scheduled time.Time, freq model.RepeatFrequency) *model.ToDo {
	return &model.ToDo{
		ID:              id,
		UserID:          userID,
		CategoryID:      "cat-1",
		Description:     "task " + id,
		TimeBlock:       block,
		Difficulty:      model.DifficultyEasy,
		ScheduledDate:   scheduled,
		RepeatFrequency: freq,
	}
}

func TestToDoRepository_CRUD(t *testing.T) {
	db := setupTestDB(t)
	repo := NewToDoRepository(db)
	ctx := context.Background()
	day := time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC)

	todo := newToDo("t1", "user-1", model.TimeBlockDay, day, model.RepeatNone)
	require.NoError(t, repo.Create(ctx, todo))

	exists, err := repo.ExistsByID(ctx, "t1")
	require.NoError(t, err)
	assert.True(t, exists)

	found, err := repo.GetByID(ctx, "t1")
	require.NoError(t, err)
	assert.Equal(t, "task t1", found.Description)
	assert.False(t, found.IsCompleted)

	found.IsCompleted = true
	found.Description = "watered"
	require.NoError(t, repo.Update(ctx, found))
	again, err := repo.GetByID(ctx, "t1")
	require.NoError(t, err)
	assert.True(t, again.IsCompleted)
	assert.Equal(t, "watered", again.Description)

	// Update can also flip booleans back to zero values.
	again.IsCompleted = false
	require.NoError(t, repo.Update(ctx, again))
	back, err := repo.GetByID(ctx, "t1")
	require.NoError(t, err)
	assert.False(t, back.IsCompleted)

	require.NoError(t, repo.Delete(ctx, "t1"))
	_, err = repo.GetByID(ctx, "t1")
	require.ErrorIs(t, err, model.ErrNotFound)
	require.ErrorIs(t, repo.Delete(ctx, "t1"), model.ErrNotFound)
	require.ErrorIs(t, repo.Update(ctx, newToDo("missing", "user-1", model.TimeBlockDay, day, model.RepeatNone)), model.ErrNotFound)
}

func TestToDoRepository_ListByUserDateAndTimeBlock(t *testing.T) {
	db := setupTestDB(t)
	repo := NewToDoRepository(db)
	ctx := context.Background()

	// 2025-06-15 is a Sunday; its Monday-based week is 06-09 .. 06-15.
	inWeek := newToDo("w1", "user-1", model.TimeBlockWeek, time.Date(2025, 6, 9, 0, 0, 0, 0, time.UTC), model.RepeatNone)
	alsoInWeek := newToDo("w2", "user-1", model.TimeBlockWeek, time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC), model.RepeatNone)
	nextWeek := newToDo("w3", "user-1", model.TimeBlockWeek, time.Date(2025, 6, 16, 0, 0, 0, 0, time.UTC), model.RepeatNone)
	sameDayOtherBlock := newToDo("d1", "user-1", model.TimeBlockDay, time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC), model.RepeatNone)
	otherUser := newToDo("u2", "user-2", model.TimeBlockWeek, time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC), model.RepeatNone)
	for _, td := range []*model.ToDo{inWeek, alsoInWeek, nextWeek, sameDayOtherBlock, otherUser} {
		require.NoError(t, repo.Create(ctx, td))
	}

	got, err := repo.ListByUserDateAndTimeBlock(ctx, "user-1", time.Date(2025, 6, 15, 10, 0, 0, 0, time.UTC), model.TimeBlockWeek)
	require.NoError(t, err)
	ids := make([]string, 0, len(got))
	for _, td := range got {
		ids = append(ids, td.ID)
	}
	assert.ElementsMatch(t, []string{"w1", "w2"}, ids)

	empty, err := repo.ListByUserDateAndTimeBlock(ctx, "user-3", time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC), model.TimeBlockDay)
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestToDoRepository_ListRepeatingDue(t *testing.T) {
	db := setupTestDB(t)
	repo := NewToDoRepository(db)
	ctx := context.Background()
	today := time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC)

	dueDaily := newToDo("r1", "user-1", model.TimeBlockDay, today, model.RepeatDaily)
	overdueWeekly := newToDo("r2", "user-1", model.TimeBlockWeek, today.AddDate(0, 0, -3), model.RepeatWeekly)
	future := newToDo("r3", "user-1", model.TimeBlockDay, today.AddDate(0, 0, 1), model.RepeatDaily)
	notRepeating := newToDo("r4", "user-1", model.TimeBlockDay, today, model.RepeatNone)
	alreadyMoved := newToDo("r5", "user-1", model.TimeBlockDay, today, model.RepeatDaily)
	alreadyMoved.Moved = true
	otherUser := newToDo("r6", "user-2", model.TimeBlockDay, today, model.RepeatDaily)
	for _, td := range []*model.ToDo{dueDaily, overdueWeekly, future, notRepeating, alreadyMoved, otherUser} {
		require.NoError(t, repo.Create(ctx, td))
	}

	got, err := repo.ListRepeatingDue(ctx, "user-1", today)
	require.NoError(t, err)
	ids := make([]string, 0, len(got))
	for _, td := range got {
		ids = append(ids, td.ID)
	}
	assert.ElementsMatch(t, []string{"r1", "r2"}, ids)
}
