package bytebuffer

import "errors"

var (
	// ErrOutOfRange is returned when fewer bytes are available than a read
	// needs, or when a cursor or length target is invalid.
	ErrOutOfRange = errors.New("bytebuffer: out of range")
	// ErrMalformedEncoding is returned when a string payload is not valid
	// modified UTF-8.
	ErrMalformedEncoding = errors.New("bytebuffer: malformed modified utf-8")
	// ErrEncodingTooLarge is returned when an encoded string does not fit the
	// 16-bit length prefix.
	ErrEncodingTooLarge = errors.New("bytebuffer: encoded string exceeds 65535 bytes")
)
