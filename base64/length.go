package base64

import "math"

// MaxEncodeInput is the largest byte count whose encoded length fits in an int.
const MaxEncodeInput = (math.MaxInt - 2) / 4 * 3

// EncodeLength returns the number of characters, padding included, that
// encoding n bytes produces. It is always a multiple of 4. n must lie in
// [0, MaxEncodeInput]; use CheckEncodeLength for untrusted counts.
func EncodeLength(n int) int {
	return (n + 2) / 3 * 4
}

// CheckEncodeLength is EncodeLength for counts that come from outside the
// process. It returns ErrInvalidLength for a negative n and ErrTooLarge when
// the result would overflow.
func CheckEncodeLength(n int) (int, error) {
	if n < 0 {
		return 0, ErrInvalidLength
	}
	if n > MaxEncodeInput {
		return 0, ErrTooLarge
	}
	return EncodeLength(n), nil
}

// DecodeLength returns the exact number of bytes that src decodes to.
// src must be a padded encoding: empty input yields ErrEmptyInput and a
// length that is not a multiple of 4 yields ErrInvalidLength. Only the
// trailing padding is inspected; the remaining characters are checked by
// Decode.
func DecodeLength(src []byte) (int, error) {
	n := len(src)
	if n == 0 {
		return 0, ErrEmptyInput
	}
	if n%4 != 0 {
		return 0, ErrInvalidLength
	}

	padding := 0
	if src[n-1] == Pad {
		padding++
		if src[n-2] == Pad {
			padding++
		}
	}
	return 3*(n/4) - padding, nil
}

// EncodeLength is the method form of the package-level EncodeLength.
func (enc *Encoding) EncodeLength(n int) int {
	return EncodeLength(n)
}

// DecodeLength is the method form of the package-level DecodeLength.
func (enc *Encoding) DecodeLength(src []byte) (int, error) {
	return DecodeLength(src)
}
