package query

import "github.com/pkg/errors"

var (
	// ErrInvalidValue is returned when a scalar argument is outside of its allowed domain,
	// e.g. a quantile outside of [0, 1] or an unknown rate function.
	ErrInvalidValue = errors.New("invalid value")
	// ErrInvalidInputKind is returned when a vector argument is not of the kind a function requires.
	ErrInvalidInputKind = errors.New("invalid vector type")
)

func invalidValue(format string, args ...interface{}) error {
	return errors.Wrapf(ErrInvalidValue, format, args...)
}

func invalidInputKind(want Kind, got Vector) error {
	if got == nil {
		return errors.Wrapf(ErrInvalidInputKind, "want %s, got nil", want)
	}
	return errors.Wrapf(ErrInvalidInputKind, "want %s, got %s", want, got.Kind())
}
