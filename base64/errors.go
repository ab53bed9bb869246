package base64

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidLength  = errors.New("base64: input length is not a multiple of 4")
	ErrEmptyInput     = errors.New("base64: empty input")
	ErrInvalidChar    = errors.New("base64: invalid character in input")
	ErrInvalidPadding = errors.New("base64: misplaced padding in input")
	ErrShortBuffer    = errors.New("base64: output buffer too small")
	ErrInvalidBlock   = errors.New("base64: invalid block size")
	ErrTooLarge       = errors.New("base64: encoded length overflows int")
)

// CorruptInputError reports the position of a byte that cannot appear where
// it was found. Err is ErrInvalidChar or ErrInvalidPadding.
type CorruptInputError struct {
	Offset int
	Char   byte
	Err    error
}

func (e *CorruptInputError) Error() string {
	return fmt.Sprintf("%v: %q at offset %d", e.Err, e.Char, e.Offset)
}

func (e *CorruptInputError) Unwrap() error {
	return e.Err
}

func corrupt(offset int, c byte) error {
	err := ErrInvalidChar
	if c == Pad {
		err = ErrInvalidPadding
	}
	return &CorruptInputError{Offset: offset, Char: c, Err: err}
}

// Kind returns a short, stable name for the codec error wrapped by err,
// suitable for metric labels and API responses. It returns "" for nil and
// "unknown" for errors that did not come from this package.
func Kind(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrInvalidLength):
		return "invalid_length"
	case errors.Is(err, ErrEmptyInput):
		return "empty_input"
	case errors.Is(err, ErrInvalidChar):
		return "invalid_char"
	case errors.Is(err, ErrInvalidPadding):
		return "invalid_padding"
	case errors.Is(err, ErrShortBuffer):
		return "short_buffer"
	case errors.Is(err, ErrInvalidBlock):
		return "invalid_block"
	case errors.Is(err, ErrTooLarge):
		return "too_large"
	}
	return "unknown"
}
