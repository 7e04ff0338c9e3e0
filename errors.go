package roaring

import (
	"github.com/pkg/errors"
)

var (
	// ErrInvalidArgument is returned when an argument is outside of its domain,
	// such as a negative bound or a zero step for a range.
	ErrInvalidArgument = errors.New("roaring: invalid argument")

	// ErrIndexOutOfRange is returned when a position is outside of [0, Count()).
	ErrIndexOutOfRange = errors.New("roaring: index out of range")

	// ErrCorrupt is returned when a serialized bitmap cannot be decoded.
	ErrCorrupt = errors.New("roaring: corrupt bitmap")
)

// corruptf wraps ErrCorrupt with a description of what is wrong
func corruptf(format string, args ...any) error {
	return errors.Wrapf(ErrCorrupt, format, args...)
}
