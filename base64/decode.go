package base64

import "slices"

// DecodeBlock decodes the final four characters of an encoding into 1, 2 or
// 3 bytes and returns how many were written. Padding is recognised only in
// the last two positions and only as "==" or "x=".
func (enc *Encoding) DecodeBlock(dst, src []byte) (int, error) {
	if len(src) != 4 {
		return 0, ErrInvalidBlock
	}
	return enc.decodeTail(dst, src, 0)
}

// Decode writes the bytes encoded by src to dst and returns how many were
// written. src must be padded: its length must be a multiple of 4 and only
// the final group may contain '='. Empty input decodes to nothing. When dst
// is shorter than DecodeLength(src) nothing is written. On a corrupt byte
// the error is a *CorruptInputError with an offset into src, and n counts
// the bytes written before the failing group.
func (enc *Encoding) Decode(dst, src []byte) (n int, err error) {
	if len(src) == 0 {
		return 0, nil
	}
	size, err := DecodeLength(src)
	if err != nil {
		return 0, err
	}
	if len(dst) < size {
		return 0, ErrShortBuffer
	}

	si, di := 0, 0
	for len(src)-si > 4 {
		var v [4]byte
		for j := 0; j < 4; j++ {
			c := src[si+j]
			if v[j] = enc.decodeMap[c]; v[j] == invalid {
				return di, corrupt(si+j, c)
			}
		}
		dst[di+0] = v[0]<<2 | v[1]>>4
		dst[di+1] = v[1]<<4 | v[2]>>2
		dst[di+2] = v[2]<<6 | v[3]

		si += 4
		di += 3
	}

	m, err := enc.decodeTail(dst[di:], src[si:], si)
	return di + m, err
}

// decodeTail decodes the final group src[:4]. offset is the position of
// src[0] in the caller's input and is only used for error reporting.
func (enc *Encoding) decodeTail(dst, src []byte, offset int) (int, error) {
	n := 3
	switch {
	case src[2] == Pad && src[3] == Pad:
		n = 1
	case src[2] == Pad:
		return 0, &CorruptInputError{Offset: offset + 3, Char: src[3], Err: ErrInvalidPadding}
	case src[3] == Pad:
		n = 2
	}

	// n output bytes need the first n+1 characters; the rest are padding.
	var v [4]byte
	for i := 0; i <= n; i++ {
		if v[i] = enc.decodeMap[src[i]]; v[i] == invalid {
			return 0, corrupt(offset+i, src[i])
		}
	}
	if len(dst) < n {
		return 0, ErrShortBuffer
	}

	dst[0] = v[0]<<2 | v[1]>>4
	if n > 1 {
		dst[1] = v[1]<<4 | v[2]>>2
	}
	if n > 2 {
		dst[2] = v[2]<<6 | v[3]
	}
	return n, nil
}

// DecodeTerminated is Decode followed by a NUL byte after the last decoded
// byte. dst needs one byte more than Decode requires. The terminator is not
// counted in n.
func (enc *Encoding) DecodeTerminated(dst, src []byte) (int, error) {
	size := 0
	if len(src) > 0 {
		var err error
		if size, err = DecodeLength(src); err != nil {
			return 0, err
		}
	}
	if len(dst) < size+1 {
		return 0, ErrShortBuffer
	}
	n, err := enc.Decode(dst, src)
	if err != nil {
		return n, err
	}
	dst[n] = 0
	return n, nil
}

// DecodeString returns the bytes encoded by s.
func (enc *Encoding) DecodeString(s string) ([]byte, error) {
	if s == "" {
		return []byte{}, nil
	}
	src := []byte(s)
	size, err := DecodeLength(src)
	if err != nil {
		return nil, err
	}
	dst := make([]byte, size)
	n, err := enc.Decode(dst, src)
	if err != nil {
		return nil, err
	}
	return dst[:n], nil
}

// AppendDecode appends the bytes encoded by src to dst. On error dst is
// returned unchanged.
func (enc *Encoding) AppendDecode(dst, src []byte) ([]byte, error) {
	if len(src) == 0 {
		return dst, nil
	}
	size, err := DecodeLength(src)
	if err != nil {
		return dst, err
	}
	out := slices.Grow(dst, size)
	n, err := enc.Decode(out[len(dst):len(dst)+size], src)
	if err != nil {
		return dst, err
	}
	return out[:len(dst)+n], nil
}

// DecodeString decodes s with StdEncoding.
func DecodeString(s string) ([]byte, error) {
	return StdEncoding.DecodeString(s)
}
