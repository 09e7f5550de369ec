package httpkit

import (
	"math"
	"strconv"
)

// Number coerces a raw path or query value into a non-negative integer.
// Anything else, fractions included, is a 422.
func Number(v any) (int, error) {
	switch n := v.(type) {
	case string:
		i, err := strconv.Atoi(n)
		if err != nil {
			return 0, Errorf(ErrUnprocessable.Code, "%q is not an integer: %w", n, ErrUnprocessable)
		}
		return nonNegative(i)
	case int:
		return nonNegative(n)
	case int64:
		if n > math.MaxInt {
			return 0, outOfRange(n)
		}
		return nonNegative(int(n))
	case float64:
		if math.IsNaN(n) || math.IsInf(n, 0) || n != math.Trunc(n) {
			return 0, Errorf(ErrUnprocessable.Code, "%v is not an integer: %w", n, ErrUnprocessable)
		}
		if n < 0 {
			return 0, Errorf(ErrUnprocessable.Code, "%v is negative: %w", n, ErrUnprocessable)
		}
		// -math.MinInt is a power of two, so the bound is exact as a float64.
		if n >= -float64(math.MinInt) {
			return 0, outOfRange(n)
		}
		return int(n), nil
	}
	return 0, Errorf(ErrUnprocessable.Code, "%T is not a number: %w", v, ErrUnprocessable)
}

// Numeric is the set of Go types a number parameter may be declared with.
type Numeric interface {
	~int | ~int8 | ~int16 | ~int32 | ~int64 |
		~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64 |
		~float32 | ~float64
}

// NumberAs coerces like Number and converts the result to T. A value T cannot
// hold exactly is a 422.
func NumberAs[T Numeric](v any) (T, error) {
	i, err := Number(v)
	if err != nil {
		return 0, err
	}
	n := T(i)
	if float64(n) != float64(i) {
		return 0, outOfRange(i)
	}
	return n, nil
}

func outOfRange(v any) error {
	return Errorf(ErrUnprocessable.Code, "%v is out of range: %w", v, ErrUnprocessable)
}

func nonNegative(i int) (int, error) {
	if i < 0 {
		return 0, Errorf(ErrUnprocessable.Code, "%d is negative: %w", i, ErrUnprocessable)
	}
	return i, nil
}

// String passes a textual value through unchanged.
func String(v any) (string, error) {
	s, ok := v.(string)
	if !ok {
		return "", Errorf(ErrUnprocessable.Code, "%T is not a string: %w", v, ErrUnprocessable)
	}
	return s, nil
}

// Bool coerces the literal tokens "true" and "false". Any other value must
// already be a bool.
func Bool(v any) (bool, error) {
	switch b := v.(type) {
	case bool:
		return b, nil
	case string:
		switch b {
		case "true":
			return true, nil
		case "false":
			return false, nil
		}
	}
	return false, Errorf(ErrUnprocessable.Code, "%v is not a boolean: %w", v, ErrUnprocessable)
}

// Optional adapts a coercer to a (value, present) pair such as the result of
// gin's GetQuery. An absent value yields the zero value.
func Optional[T any](coerce func(any) (T, error)) func(any, bool) (T, error) {
	return func(v any, present bool) (T, error) {
		if !present {
			var zero T
			return zero, nil
		}
		return coerce(v)
	}
}
