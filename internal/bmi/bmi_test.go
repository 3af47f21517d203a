package bmi

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCalculate(t *testing.T) {
	tests := []struct {
		weight, height, want float64
	}{
		{70, 1.75, 22.86},
		{50, 1.8, 15.43},
		{95, 1.7, 32.87},
		{1, 1, 1},
		{176, 180, 0.01},
	}

	for _, tt := range tests {
		got, err := Calculate(tt.weight, tt.height)
		require.NoError(t, err)
		assert.InDelta(t, tt.want, got, 1e-9, "weight=%v height=%v", tt.weight, tt.height)
	}
}

func TestCalculateZeroHeight(t *testing.T) {
	_, err := Calculate(70, 0)
	assert.ErrorIs(t, err, ErrZeroHeight)

	_, err = Calculate(70, 1e-200)
	assert.ErrorIs(t, err, ErrZeroHeight, "square underflows to zero")
}

func TestCalculateOutOfRange(t *testing.T) {
	_, err := Calculate(1e308, 0.5)
	assert.ErrorIs(t, err, ErrOutOfRange)

	_, err = Calculate(1e300, 1e-155)
	assert.ErrorIs(t, err, ErrOutOfRange)
}

func TestEvaluate(t *testing.T) {
	res, err := Evaluate(70, 1.75)
	require.NoError(t, err)
	assert.Equal(t, 22.86, res.BMI)
	assert.Equal(t, Normal, res.Category)
	assert.Equal(t, Recommendation(Normal), res.Recommendation)

	_, err = Evaluate(70, 0)
	assert.ErrorIs(t, err, ErrZeroHeight)
}

func TestClassify(t *testing.T) {
	assert.Equal(t, Underweight, Classify(18.49))
	assert.Equal(t, Normal, Classify(18.5))
	assert.Equal(t, Normal, Classify(25))
	assert.Equal(t, Overweight, Classify(25.01))
	assert.NotEmpty(t, Recommendation(Overweight))
}

func TestMeasurements(t *testing.T) {
	w, h, err := Measurements(70.0, 1.75)
	require.NoError(t, err)
	assert.Equal(t, 70.0, w)
	assert.Equal(t, 1.75, h)

	missing := []struct {
		name           string
		weight, height any
	}{
		{"both nil", nil, nil},
		{"zero weight", 0.0, 1.75},
		{"zero height", 70.0, 0.0},
		{"empty string", "", 1.75},
		{"false", false, 1.75},
		{"empty list", []any{}, 1.75},
	}
	for _, tt := range missing {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := Measurements(tt.weight, tt.height)
			assert.ErrorIs(t, err, ErrMissingInput)
		})
	}

	_, _, err = Measurements("seventy", 1.75)
	assert.ErrorIs(t, err, ErrNotNumeric)
	_, _, err = Measurements(70.0, map[string]any{"m": 1.75})
	assert.ErrorIs(t, err, ErrNotNumeric)
}
