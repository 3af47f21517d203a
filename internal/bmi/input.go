package bmi

import "fmt"

// Measurements converts decoded JSON values into weight and height.
// Falsy values (nil, false, 0, "", empty arrays and objects) count as missing,
// so a literal 0 is rejected the same way an absent field is.
func Measurements(weight, height any) (float64, float64, error) {
	if !truthy(weight) || !truthy(height) {
		return 0, 0, ErrMissingInput
	}

	w, ok := weight.(float64)
	if !ok {
		return 0, 0, fmt.Errorf("%w: weight is %T", ErrNotNumeric, weight)
	}
	h, ok := height.(float64)
	if !ok {
		return 0, 0, fmt.Errorf("%w: height is %T", ErrNotNumeric, height)
	}
	return w, h, nil
}

func truthy(v any) bool {
	switch t := v.(type) {
	case nil:
		return false
	case bool:
		return t
	case float64:
		return t != 0
	case string:
		return t != ""
	case []any:
		return len(t) > 0
	case map[string]any:
		return len(t) > 0
	default:
		return true
	}
}
