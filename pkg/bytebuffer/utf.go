package bytebuffer

import "unicode/utf16"

// MaxUTFLength is the largest encoded payload a 16-bit prefix can describe.
const MaxUTFLength = 65535

// UTFLength returns the number of bytes s occupies in modified UTF-8, not
// counting the length prefix.
func UTFLength(s string) int {
	return utfLength(utf16.Encode([]rune(s)))
}

func utfLength(units []uint16) int {
	n := 0
	for _, ch := range units {
		switch {
		case ch > 0 && ch < 0x80:
			n++
		case ch < 0x800:
			// includes the null codepoint
			n += 2
		default:
			n += 3
		}
	}
	return n
}

// WriteUTF writes a 2-byte length followed by s in modified UTF-8: the null
// codepoint takes two bytes and characters outside the BMP are written as a
// pair of 3-byte surrogates. The buffer is untouched on error.
func (b *Buffer) WriteUTF(s string) error {
	units := utf16.Encode([]rune(s))
	length := utfLength(units)
	if length > MaxUTFLength {
		return ErrEncodingTooLarge
	}

	b.ensureCapacity(2 + length)
	b.WriteUint16(uint16(length))

	p := b.put(length)
	i := 0
	for _, ch := range units {
		switch {
		case ch > 0 && ch < 0x80:
			p[i] = byte(ch)
			i++
		case ch < 0x800:
			p[i] = 0xc0 | byte(0x1f&(ch>>6))
			p[i+1] = 0x80 | byte(0x3f&ch)
			i += 2
		default:
			p[i] = 0xe0 | byte(0x0f&(ch>>12))
			p[i+1] = 0x80 | byte(0x3f&(ch>>6))
			p[i+2] = 0x80 | byte(0x3f&ch)
			i += 3
		}
	}
	return nil
}

// ReadUTF reads a string written by WriteUTF. The cursor only moves if the
// whole string decodes.
func (b *Buffer) ReadUTF() (string, error) {
	start := b.position

	length, err := b.ReadUint16()
	if err != nil {
		return "", err
	}
	p, err := b.next(int(length))
	if err != nil {
		b.position = start
		return "", err
	}

	s, err := decodeModifiedUTF8(p)
	if err != nil {
		b.position = start
		return "", err
	}
	return s, nil
}

func decodeModifiedUTF8(p []byte) (string, error) {
	units := make([]uint16, 0, len(p))
	for i := 0; i < len(p); {
		a := p[i]
		switch {
		case a&0x80 == 0:
			units = append(units, uint16(a))
			i++
		case a&0xe0 == 0xc0:
			if i+1 >= len(p) || !isContinuation(p[i+1]) {
				return "", ErrMalformedEncoding
			}
			units = append(units, uint16(a&0x1f)<<6|uint16(p[i+1]&0x3f))
			i += 2
		case a&0xf0 == 0xe0:
			if i+2 >= len(p) || !isContinuation(p[i+1]) || !isContinuation(p[i+2]) {
				return "", ErrMalformedEncoding
			}
			units = append(
				units,
				uint16(a&0x0f)<<12|uint16(p[i+1]&0x3f)<<6|uint16(p[i+2]&0x3f),
			)
			i += 3
		default:
			return "", ErrMalformedEncoding
		}
	}
	return string(utf16.Decode(units)), nil
}

func isContinuation(c byte) bool {
	return c&0xc0 == 0x80
}
