package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTimestamp(t *testing.T) {
	now := time.Date(2024, 3, 1, 7, 15, 42, 118204000, time.UTC)

	parsed, err := ParseTimestamp(FormatTimestamp(now))
	require.NoError(t, err)
	assert.True(t, parsed.Equal(now))

	naive, err := ParseTimestamp("2024-03-01T07:15:42.118204")
	require.NoError(t, err)
	assert.Equal(t, 2024, naive.Year())
	assert.Equal(t, 118204000, naive.Nanosecond())

	_, err = ParseTimestamp("2024-03-01T07:15:42")
	require.NoError(t, err)

	_, err = ParseTimestamp("yesterday")
	assert.ErrorIs(t, err, ErrBadTimestamp)
}

func TestDataValidate(t *testing.T) {
	ts := FormatTimestamp(time.Now())

	valid := &Data{
		Exercises: []ExerciseEntry{{Exercise: "Run", Timestamp: ts}},
		Meals:     []MealEntry{{Meal: "Oats", Timestamp: "2024-03-01T07:15:42.118204"}},
	}
	require.NoError(t, valid.Validate())

	emptyText := &Data{Exercises: []ExerciseEntry{{Exercise: "", Timestamp: ts}}}
	assert.ErrorIs(t, emptyText.Validate(), ErrEmptyText)

	badTime := &Data{Meals: []MealEntry{{Meal: "Soup", Timestamp: "noon"}}}
	err := badTime.Validate()
	assert.ErrorIs(t, err, ErrBadTimestamp)
	assert.Contains(t, err.Error(), "meals[0]")
}

func TestDataCloneIsDeep(t *testing.T) {
	d := NewData()
	d.Exercises = append(d.Exercises, ExerciseEntry{Exercise: "Row", Timestamp: "t"})

	c := d.Clone()
	c.Exercises[0].Exercise = "Swim"

	assert.Equal(t, "Row", d.Exercises[0].Exercise)
	assert.Equal(t, 1, c.Count(KindExercise))
	assert.Equal(t, 0, c.Count(KindMeal))
	assert.NotNil(t, c.Meals)
}

func TestNormalize(t *testing.T) {
	d := &Data{}
	d.Normalize()
	assert.NotNil(t, d.Exercises)
	assert.NotNil(t, d.Meals)
}
