package entryparser

import "errors"

var (
	// ErrUnsupportedVersion is returned if a message has a version other
	// than Version.
	ErrUnsupportedVersion = errors.New("unsupported message version")
	// ErrUnknownMessageKind is returned if a message is neither a delta nor
	// a snapshot.
	ErrUnknownMessageKind = errors.New("unknown message kind")
	// ErrInvalidFieldMask is returned if the field mask has unknown bits set.
	ErrInvalidFieldMask = errors.New("invalid field mask")
	// ErrTrailingBytes is returned if a message has bytes left after the
	// last field.
	ErrTrailingBytes = errors.New("unexpected trailing bytes")
	// ErrInvalidFrameLength is returned if a frame header is negative or
	// exceeds MaxFrameLength.
	ErrInvalidFrameLength = errors.New("invalid frame length")
)
