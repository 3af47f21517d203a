// Package bmi computes body mass index from weight in kilograms and height in meters.
package bmi

import (
	"errors"
	"math"
)

var (
	// ErrMissingInput is returned when weight or height is absent or falsy
	ErrMissingInput = errors.New("weight and height are required")
	// ErrNotNumeric is returned when weight or height is present but not a number
	ErrNotNumeric = errors.New("weight and height must be numbers")
	// ErrZeroHeight guards the division, including heights whose square underflows to zero
	ErrZeroHeight = errors.New("height cannot be zero")
	// ErrOutOfRange is returned when the quotient is not a finite number
	ErrOutOfRange = errors.New("weight and height are out of range")
)

// Category buckets a BMI value
type Category string

const (
	Underweight Category = "underweight"
	Normal      Category = "normal"
	Overweight  Category = "overweight"
)

const (
	underweightBelow = 18.5
	overweightAbove  = 25.0
)

var recommendations = map[Category]string{
	Underweight: "Consider increasing calorie intake with a balanced diet.",
	Normal:      "Maintain a balanced diet and regular exercise.",
	Overweight:  "Consider reducing calorie intake and increasing physical activity.",
}

// Result is a computed BMI with its interpretation
type Result struct {
	BMI            float64  `json:"bmi"`
	Category       Category `json:"category"`
	Recommendation string   `json:"recommendation"`
}

// Calculate returns weight / height², rounded to two decimal places.
// No unit conversion is applied.
func Calculate(weight, height float64) (float64, error) {
	squared := height * height
	if squared == 0 {
		return 0, ErrZeroHeight
	}

	value := round2(weight / squared)
	if math.IsInf(value, 0) || math.IsNaN(value) {
		return 0, ErrOutOfRange
	}
	return value, nil
}

// Evaluate calculates the BMI and classifies it
func Evaluate(weight, height float64) (*Result, error) {
	value, err := Calculate(weight, height)
	if err != nil {
		return nil, err
	}
	category := Classify(value)
	return &Result{
		BMI:            value,
		Category:       category,
		Recommendation: recommendations[category],
	}, nil
}

// Classify maps a BMI value onto a category
func Classify(value float64) Category {
	switch {
	case value < underweightBelow:
		return Underweight
	case value > overweightAbove:
		return Overweight
	default:
		return Normal
	}
}

// Recommendation returns the advice attached to a category
func Recommendation(c Category) string {
	return recommendations[c]
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
