package base64

import (
	"fmt"
	"strconv"
	"strings"
)

// Variant selects the two alphabet symbols used for the values 62 and 63.
type Variant int

const (
	// Standard uses '+' and '/'.
	Standard Variant = iota
	// URLSafe uses '-' and '_'.
	URLSafe
)

// Pad is appended to the output when the final group has fewer than 3 bytes.
const Pad = '='

const (
	stdAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789+/"
	urlAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789-_"

	// invalid marks reverse table entries for bytes outside the alphabet.
	invalid = 0xff
)

func (v Variant) String() string {
	switch v {
	case Standard:
		return "standard"
	case URLSafe:
		return "url"
	}
	return "Variant(" + strconv.Itoa(int(v)) + ")"
}

// ParseVariant accepts "standard" or "std" for Standard and "url",
// "urlsafe" or "url-safe" for URLSafe, ignoring case and surrounding spaces.
func ParseVariant(s string) (Variant, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "standard", "std":
		return Standard, nil
	case "url", "urlsafe", "url-safe":
		return URLSafe, nil
	}
	return 0, fmt.Errorf("base64: unknown variant %q", s)
}

// MarshalText implements encoding.TextMarshaler.
func (v Variant) MarshalText() ([]byte, error) {
	if v != Standard && v != URLSafe {
		return nil, fmt.Errorf("base64: unknown variant %d", int(v))
	}
	return []byte(v.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (v *Variant) UnmarshalText(text []byte) error {
	parsed, err := ParseVariant(string(text))
	if err != nil {
		return err
	}
	*v = parsed
	return nil
}

// Encoding is a base64 alphabet together with its reverse lookup table.
// It is immutable and safe for concurrent use.
type Encoding struct {
	variant   Variant
	alphabet  [64]byte
	decodeMap [256]byte
}

var (
	StdEncoding = NewEncoding(Standard)
	URLEncoding = NewEncoding(URLSafe)
)

// NewEncoding builds the tables for v. It panics if v is not a known Variant.
func NewEncoding(v Variant) *Encoding {
	var alphabet string
	switch v {
	case Standard:
		alphabet = stdAlphabet
	case URLSafe:
		alphabet = urlAlphabet
	default:
		panic("base64: unknown variant " + v.String())
	}

	enc := &Encoding{variant: v}
	copy(enc.alphabet[:], alphabet)
	for i := range enc.decodeMap {
		enc.decodeMap[i] = invalid
	}
	for i := 0; i < len(alphabet); i++ {
		enc.decodeMap[alphabet[i]] = byte(i)
	}
	return enc
}

// For returns the shared Encoding for v, falling back to StdEncoding for
// unknown variants.
func For(v Variant) *Encoding {
	if v == URLSafe {
		return URLEncoding
	}
	return StdEncoding
}

// Variant reports which alphabet enc uses.
func (enc *Encoding) Variant() Variant {
	return enc.variant
}

// Alphabet returns the 64 output symbols in value order.
func (enc *Encoding) Alphabet() string {
	return string(enc.alphabet[:])
}
