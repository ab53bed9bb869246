package base64

import "slices"

// EncodeBlock encodes the final 1, 2 or 3 bytes of an input into exactly
// four characters, writing 3-len(src) padding characters. It returns 4.
func (enc *Encoding) EncodeBlock(dst, src []byte) (int, error) {
	if len(src) < 1 || len(src) > 3 {
		return 0, ErrInvalidBlock
	}
	if len(dst) < 4 {
		return 0, ErrShortBuffer
	}
	enc.encodeTail(dst, src)
	return 4, nil
}

// Encode writes the padded encoding of src to dst and returns the number of
// characters written, EncodeLength(len(src)). Nothing is written when dst is
// shorter than that.
func (enc *Encoding) Encode(dst, src []byte) (int, error) {
	n := EncodeLength(len(src))
	if len(dst) < n {
		return 0, ErrShortBuffer
	}
	if len(src) == 0 {
		return 0, nil
	}

	di := 0
	// Full groups need no padding checks; the last 1..3 bytes go to encodeTail.
	for len(src) > 3 {
		b0, b1, b2 := src[0], src[1], src[2]
		dst[di+0] = enc.alphabet[b0>>2]
		dst[di+1] = enc.alphabet[(b0&0x03)<<4|b1>>4]
		dst[di+2] = enc.alphabet[(b1&0x0f)<<2|b2>>6]
		dst[di+3] = enc.alphabet[b2&0x3f]

		src = src[3:]
		di += 4
	}
	enc.encodeTail(dst[di:], src)
	return n, nil
}

// encodeTail assumes 1 <= len(src) <= 3 and len(dst) >= 4.
func (enc *Encoding) encodeTail(dst, src []byte) {
	var b1, b2 byte
	b0 := src[0]
	if len(src) > 1 {
		b1 = src[1]
	}
	if len(src) > 2 {
		b2 = src[2]
	}

	dst[0] = enc.alphabet[b0>>2]
	dst[1] = enc.alphabet[(b0&0x03)<<4|b1>>4]

	switch len(src) {
	case 1:
		dst[2] = Pad
		dst[3] = Pad
	case 2:
		dst[2] = enc.alphabet[(b1&0x0f)<<2]
		dst[3] = Pad
	default:
		dst[2] = enc.alphabet[(b1&0x0f)<<2|b2>>6]
		dst[3] = enc.alphabet[b2&0x3f]
	}
}

// EncodeTerminated is Encode followed by a NUL byte after the last
// character, for consumers that expect a terminated string. dst needs
// EncodeLength(len(src))+1 bytes. The terminator is not counted in n.
func (enc *Encoding) EncodeTerminated(dst, src []byte) (int, error) {
	if len(dst) < EncodeLength(len(src))+1 {
		return 0, ErrShortBuffer
	}
	n, err := enc.Encode(dst, src)
	if err != nil {
		return 0, err
	}
	dst[n] = 0
	return n, nil
}

// EncodeToString returns the padded encoding of src.
func (enc *Encoding) EncodeToString(src []byte) string {
	buf := make([]byte, EncodeLength(len(src)))
	// buf is sized exactly, so Encode cannot fail.
	_, _ = enc.Encode(buf, src)
	return string(buf)
}

// AppendEncode appends the padded encoding of src to dst and returns the
// extended buffer.
func (enc *Encoding) AppendEncode(dst, src []byte) []byte {
	n := EncodeLength(len(src))
	dst = slices.Grow(dst, n)
	_, _ = enc.Encode(dst[len(dst):len(dst)+n], src)
	return dst[:len(dst)+n]
}

// EncodeToString encodes src with StdEncoding.
func EncodeToString(src []byte) string {
	return StdEncoding.EncodeToString(src)
}
