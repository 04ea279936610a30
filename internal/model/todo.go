package model

import (
	"fmt"
	"strings"
	"time"
)

// TimeBlock is the coarse viewing bucket a to-do is displayed under.
type TimeBlock string

const (
	TimeBlockDay   TimeBlock = "day"
	TimeBlockWeek  TimeBlock = "week"
	TimeBlockMonth TimeBlock = "month"
	TimeBlockYear  TimeBlock = "year"
)

func (b TimeBlock) Valid() bool {
	switch b {
	case TimeBlockDay, TimeBlockWeek, TimeBlockMonth, TimeBlockYear:
		return true
	}
	return false
}

// Difficulty is both a display attribute and the experience awarded on completion.
type Difficulty int

const (
	DifficultyNone      Difficulty = 0
	DifficultyEasy      Difficulty = 5
	DifficultyMedium    Difficulty = 10
	DifficultyHard      Difficulty = 15
	DifficultyNightmare Difficulty = 20
)

func (d Difficulty) Valid() bool {
	switch d {
	case DifficultyNone, DifficultyEasy, DifficultyMedium, DifficultyHard, DifficultyNightmare:
		return true
	}
	return false
}

// Experience is the award granted when a to-do of this difficulty is completed.
func (d Difficulty) Experience() int { return int(d) }

// RepeatFrequency controls how often a to-do spawns its next occurrence.
type RepeatFrequency string

const (
	RepeatNone    RepeatFrequency = "none"
	RepeatDaily   RepeatFrequency = "daily"
	RepeatWeekly  RepeatFrequency = "weekly"
	RepeatMonthly RepeatFrequency = "monthly"
	RepeatYearly  RepeatFrequency = "yearly"
)

func (f RepeatFrequency) Valid() bool {
	switch f {
	case RepeatNone, RepeatDaily, RepeatWeekly, RepeatMonthly, RepeatYearly:
		return true
	}
	return false
}

// Repeats reports whether the frequency spawns successors at all.
func (f RepeatFrequency) Repeats() bool { return f.Valid() && f != RepeatNone }

// ToDo is a single planner item. Once IsCompleted is true the record is frozen;
// Moved marks a recurring occurrence that has already produced its successor and
// is kept as an audit trail.
type ToDo struct {
	ID              string `gorm:"primaryKey"`
	UserID          string `gorm:"index"`
	CategoryID      string `gorm:"index"`
	Description     string
	TimeBlock       TimeBlock `gorm:"index"`
	Difficulty      Difficulty
	ScheduledDate   time.Time `gorm:"index"`
	Deadline        *time.Time
	IsCompleted     bool            `gorm:"default:false"`
	Moved           bool            `gorm:"default:false"`
	ParentID        *string         `gorm:"index"`
	RepeatFrequency RepeatFrequency `gorm:"default:none"`
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// Validate checks the entire proposed state of a newly created to-do against
// the current time. It is pure: it never touches the store.
func (t *ToDo) Validate(now time.Time) error {
	if err := t.validateStatic(); err != nil {
		return err
	}
	today := startOfDay(now)
	if t.ScheduledDate.Before(today) {
		return fmt.Errorf("%w: scheduled date is in the past", ErrValidation)
	}
	if t.Deadline != nil && t.Deadline.Before(now) {
		return fmt.Errorf("%w: deadline is in the past", ErrValidation)
	}
	return t.validateDeadlineOrder()
}

// ValidateUpdate checks the proposed new state against the stored record.
// Past-date rules apply only to fields the update actually changes, so carrying
// an already-stored old date through (e.g. completing an overdue item) passes.
func (t *ToDo) ValidateUpdate(stored *ToDo, now time.Time) error {
	if err := t.validateStatic(); err != nil {
		return err
	}
	if t.TimeBlock != stored.TimeBlock {
		return fmt.Errorf("%w: time block is immutable", ErrValidation)
	}
	if t.UserID != stored.UserID {
		return fmt.Errorf("%w: owning user is immutable", ErrValidation)
	}
	if !t.ScheduledDate.Equal(stored.ScheduledDate) && t.ScheduledDate.Before(startOfDay(now)) {
		return fmt.Errorf("%w: scheduled date is in the past", ErrValidation)
	}
	if t.Deadline != nil && deadlineChanged(t.Deadline, stored.Deadline) && t.Deadline.Before(now) {
		return fmt.Errorf("%w: deadline is in the past", ErrValidation)
	}
	return t.validateDeadlineOrder()
}

func (t *ToDo) validateStatic() error {
	if strings.TrimSpace(t.Description) == "" {
		return fmt.Errorf("%w: description must not be empty", ErrValidation)
	}
	if t.UserID == "" {
		return fmt.Errorf("%w: user id must not be empty", ErrValidation)
	}
	if t.CategoryID == "" {
		return fmt.Errorf("%w: category id must not be empty", ErrValidation)
	}
	if !t.TimeBlock.Valid() {
		return fmt.Errorf("%w: unknown time block %q", ErrValidation, t.TimeBlock)
	}
	if !t.Difficulty.Valid() {
		return fmt.Errorf("%w: unknown difficulty %d", ErrValidation, t.Difficulty)
	}
	if !t.RepeatFrequency.Valid() {
		return fmt.Errorf("%w: unknown repeat frequency %q", ErrValidation, t.RepeatFrequency)
	}
	return nil
}

func (t *ToDo) validateDeadlineOrder() error {
	if t.Deadline != nil && !t.Deadline.After(t.ScheduledDate) {
		return fmt.Errorf("%w: deadline must be later than the scheduled date", ErrValidation)
	}
	return nil
}

// Successor builds the next occurrence of a repeating to-do: a fresh id, the
// computed next date, flags reset, everything else carried forward. The lineage
// pointer keeps referencing the chain's first occurrence.
func (t *ToDo) Successor(id string, nextDate time.Time) *ToDo {
	parent := t.ID
	if t.ParentID != nil {
		parent = *t.ParentID
	}
	return &ToDo{
		ID:              id,
		UserID:          t.UserID,
		CategoryID:      t.CategoryID,
		Description:     t.Description,
		TimeBlock:       t.TimeBlock,
		Difficulty:      t.Difficulty,
		ScheduledDate:   nextDate,
		Deadline:        t.Deadline,
		ParentID:        &parent,
		RepeatFrequency: t.RepeatFrequency,
	}
}

func deadlineChanged(proposed, stored *time.Time) bool {
	if stored == nil {
		return true
	}
	return !proposed.Equal(*stored)
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
