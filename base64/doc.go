// Package base64 implements the base64 encoding of RFC 4648 over
// caller-owned buffers.
//
// Two alphabets are available and can be used side by side in one process:
//   - Standard uses '+' and '/' for the values 62 and 63
//   - URLSafe uses '-' and '_' instead (RFC 4648 Section 5)
//
// Output is always padded with '=' to a multiple of four characters.
//
// The buffer API (Encode, Decode, EncodeBlock, DecodeBlock) never allocates
// and never writes past len(dst): callers size dst with EncodeLength or
// DecodeLength and get ErrShortBuffer otherwise. EncodeToString,
// DecodeString and the Append helpers allocate for convenience.
//
// Decoding rejects input whose length is not a multiple of four, bytes
// outside the selected alphabet, and misplaced padding. Padding is found by
// comparing input bytes to '=' so a final group such as "AAAA" decodes to
// three zero bytes.
//
// http://www.rfc-editor.org/rfc/rfc4648#section-4
package base64
