// Package test contains helper functions for the test files of other
// packages. The functions take a testing.T and report failures with
// t.Errorf() so that a test continues after a failed expectation.
package test

import (
	"math"
	"testing"
)

// ExpectEquality compares two values of the same type and fails the test if
// they are not equal.
func ExpectEquality[T comparable](t *testing.T, value T, expectedValue T) bool {
	t.Helper()
	if value != expectedValue {
		t.Errorf("equality test of type %T failed: %v does not equal %v)", value, value, expectedValue)
		return false
	}
	return true
}

// ExpectInequality is the inverse of ExpectEquality.
func ExpectInequality[T comparable](t *testing.T, value T, expectedValue T) bool {
	t.Helper()
	if value == expectedValue {
		t.Errorf("inequality test of type %T failed: %v does equal %v)", value, value, expectedValue)
		return false
	}
	return true
}

// ExpectApproximate tests whether a value is within tolerance of the
// expected value.
func ExpectApproximate(t *testing.T, value float64, expectedValue float64, tolerance float64) bool {
	t.Helper()
	if math.Abs(value-expectedValue) > tolerance {
		t.Errorf("approximation test failed: %v is not within %v of %v", value, tolerance, expectedValue)
		return false
	}
	return true
}

// ExpectSuccess tests the value for a "success" condition. A bool is
// successful if it is true and an error is successful if it is nil.
func ExpectSuccess(t *testing.T, v any) bool {
	t.Helper()

	switch v := v.(type) {
	case bool:
		if !v {
			t.Errorf("expected success (bool)")
			return false
		}
	case error:
		if v != nil {
			t.Errorf("expected success (error: %v)", v)
			return false
		}
	case nil:
		return true
	default:
		t.Fatalf("unsupported type (%T) for ExpectSuccess()", v)
		return false
	}

	return true
}

// ExpectFailure is the inverse of ExpectSuccess. A bool fails if it is false
// and an error fails if it is not nil.
func ExpectFailure(t *testing.T, v any) bool {
	t.Helper()

	switch v := v.(type) {
	case bool:
		if v {
			t.Errorf("expected failure (bool)")
			return false
		}
	case error:
		if v == nil {
			t.Errorf("expected failure (error)")
			return false
		}
	case nil:
		t.Errorf("expected failure (nil error)")
		return false
	default:
		t.Fatalf("unsupported type (%T) for ExpectFailure()", v)
		return false
	}

	return true
}
