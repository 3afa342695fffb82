package entryparser

import (
	"errors"
	"fmt"
	"io"

	"github.com/youweixue/RipplePower/pkg/bytebuffer"
)

// MaxFrameLength bounds the size of a single framed message.
const MaxFrameLength = 1 << 20

// WriteFrame writes msg to w prefixed by its 4-byte length.
func WriteFrame(w io.Writer, msg []byte, order bytebuffer.Order) error {
	if len(msg) > MaxFrameLength {
		return fmt.Errorf("%w: %d", ErrInvalidFrameLength, len(msg))
	}

	b := bytebuffer.New(0)
	b.SetOrder(order)
	b.WriteInt32(int32(len(msg)))
	//nolint
	b.Write(msg)
	b.Rewind()

	_, err := b.WriteTo(w)
	return err
}

// ReadFrame reads the next framed message from r. It returns io.EOF only if
// r ends right at a frame boundary.
func ReadFrame(r io.Reader, order bytebuffer.Order) ([]byte, error) {
	header := make([]byte, 4)
	if _, err := io.ReadFull(r, header); err != nil {
		return nil, err
	}

	b := bytebuffer.NewFromBytes(header)
	b.SetOrder(order)
	length, _ := b.ReadInt32()
	if length < 0 || length > MaxFrameLength {
		return nil, fmt.Errorf("%w: %d", ErrInvalidFrameLength, length)
	}

	msg := make([]byte, length)
	if _, err := io.ReadFull(r, msg); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, io.ErrUnexpectedEOF
		}
		return nil, err
	}
	return msg, nil
}

// ReadFrames reads all framed messages until the end of r.
func ReadFrames(r io.Reader, order bytebuffer.Order) ([][]byte, error) {
	msgs := make([][]byte, 0)
	for {
		msg, err := ReadFrame(r, order)
		if err != nil {
			if errors.Is(err, io.EOF) {
				return msgs, nil
			}
			return nil, err
		}
		msgs = append(msgs, msg)
	}
}
