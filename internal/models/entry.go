package models

import (
	"errors"
	"fmt"
	"time"
)

// TimestampLayout is the layout new entries are stamped with
const TimestampLayout = time.RFC3339Nano

// naiveLayout matches timestamps written without a zone offset, e.g. 2024-03-01T07:15:42.118204
const naiveLayout = "2006-01-02T15:04:05.999999999"

// Kind names one of the two logs kept by the store
type Kind string

const (
	KindExercise Kind = "exercise"
	KindMeal     Kind = "meal"
)

var (
	// ErrEmptyText is returned when an entry has no text
	ErrEmptyText = errors.New("entry text is empty")
	// ErrBadTimestamp is returned when an entry timestamp cannot be parsed
	ErrBadTimestamp = errors.New("entry timestamp is not a valid date-time")
)

// ExerciseEntry is one logged exercise
type ExerciseEntry struct {
	Exercise  string `json:"exercise"`
	Timestamp string `json:"timestamp"`
}

// MealEntry is one logged meal
type MealEntry struct {
	Meal      string `json:"meal"`
	Timestamp string `json:"timestamp"`
}

// Data is the complete logged state, newest entry first in each slice.
// It is also the exact shape of the persistence file.
type Data struct {
	Exercises []ExerciseEntry `json:"exercises"`
	Meals     []MealEntry     `json:"meals"`
}

// NewData returns empty state with non-nil slices so it encodes as []
func NewData() *Data {
	return &Data{
		Exercises: []ExerciseEntry{},
		Meals:     []MealEntry{},
	}
}

// Clone returns a deep copy of d
func (d *Data) Clone() *Data {
	out := &Data{
		Exercises: make([]ExerciseEntry, len(d.Exercises)),
		Meals:     make([]MealEntry, len(d.Meals)),
	}
	copy(out.Exercises, d.Exercises)
	copy(out.Meals, d.Meals)
	return out
}

// Normalize replaces nil slices with empty ones
func (d *Data) Normalize() {
	if d.Exercises == nil {
		d.Exercises = []ExerciseEntry{}
	}
	if d.Meals == nil {
		d.Meals = []MealEntry{}
	}
}

// Count returns the number of entries of the given kind
func (d *Data) Count(kind Kind) int {
	switch kind {
	case KindExercise:
		return len(d.Exercises)
	case KindMeal:
		return len(d.Meals)
	}
	return 0
}

// Validate checks every entry in d
func (d *Data) Validate() error {
	for i, e := range d.Exercises {
		if err := validateEntry(e.Exercise, e.Timestamp); err != nil {
			return fmt.Errorf("exercises[%d]: %w", i, err)
		}
	}
	for i, m := range d.Meals {
		if err := validateEntry(m.Meal, m.Timestamp); err != nil {
			return fmt.Errorf("meals[%d]: %w", i, err)
		}
	}
	return nil
}

func validateEntry(text, timestamp string) error {
	if text == "" {
		return ErrEmptyText
	}
	if _, err := ParseTimestamp(timestamp); err != nil {
		return err
	}
	return nil
}

// FormatTimestamp renders t the way new entries are stamped
func FormatTimestamp(t time.Time) string {
	return t.Format(TimestampLayout)
}

// ParseTimestamp accepts RFC 3339 and zone-less ISO-8601 timestamps.
// Zone-less values are read in local time.
func ParseTimestamp(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return t, nil
	}
	if t, err := time.ParseInLocation(naiveLayout, s, time.Local); err == nil {
		return t, nil
	}
	return time.Time{}, fmt.Errorf("%w: %q", ErrBadTimestamp, s)
}
