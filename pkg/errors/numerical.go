package errors

import (
	"math"
)

// CheckNumericalStability checks if values contain NaN or Inf
// and returns a NumericalInstabilityError if so.
func CheckNumericalStability(operation string, values []float64) error {
	for _, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return NewNumericalInstabilityError(operation, "non-finite value in result", 0, values)
		}
	}
	return nil
}

// CheckScalar checks a single scalar value for numerical instability.
func CheckScalar(operation string, value float64) error {
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return NewNumericalInstabilityError(operation, "non-finite scalar", 0, []float64{value})
	}
	return nil
}

// CheckMatrix checks all values in a matrix for numerical instability.
func CheckMatrix(operation string, matrix interface{ At(int, int) float64 }, rows, cols int) error {
	if bad := nonFinite(matrix, rows, cols); len(bad) > 0 {
		return NewNumericalInstabilityError(operation, "non-finite value in matrix", 0, bad)
	}
	return nil
}

// CheckFiniteInput is the input-side counterpart of CheckMatrix: non-finite
// entries in caller-supplied data are reported as InvalidInput.
func CheckFiniteInput(operation string, matrix interface{ At(int, int) float64 }, rows, cols int) error {
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			v := matrix.At(i, j)
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return NewValueError(operation, "input contains NaN or Inf")
			}
		}
	}
	return nil
}

func nonFinite(matrix interface{ At(int, int) float64 }, rows, cols int) []float64 {
	var unstableValues []float64
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			v := matrix.At(i, j)
			if math.IsNaN(v) || math.IsInf(v, 0) {
				unstableValues = append(unstableValues, v)
				if len(unstableValues) >= 10 {
					return unstableValues
				}
			}
		}
	}
	return unstableValues
}

// IsPositiveFinite reports whether v is a usable precision value.
func IsPositiveFinite(v float64) bool {
	return v > 0 && !math.IsInf(v, 1)
}
