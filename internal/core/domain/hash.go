package domain

import (
	"encoding/hex"
	"fmt"
	"strings"
)

// Hash256Size is the byte length of transaction and ledger object ids.
const Hash256Size = 32

// Hash256 identifies a transaction. The zero value is the genesis id, the
// predecessor of an account's very first transaction.
type Hash256 [Hash256Size]byte

// ParseHash256 decodes a 64 chars hex string, case insensitive.
func ParseHash256(s string) (Hash256, error) {
	var h Hash256
	buf, err := hex.DecodeString(s)
	if err != nil || len(buf) != Hash256Size {
		return h, fmt.Errorf("%w: %q", ErrInvalidHash, s)
	}
	copy(h[:], buf)
	return h, nil
}

// Hash256FromBytes copies a 32 bytes slice into a Hash256.
func Hash256FromBytes(buf []byte) (Hash256, error) {
	var h Hash256
	if len(buf) != Hash256Size {
		return h, fmt.Errorf("%w: got %d bytes", ErrInvalidHash, len(buf))
	}
	copy(h[:], buf)
	return h, nil
}

func (h Hash256) IsZero() bool {
	return h == Hash256{}
}

// String returns the uppercase hex form used by ledger explorers.
func (h Hash256) String() string {
	return strings.ToUpper(hex.EncodeToString(h[:]))
}

func (h Hash256) MarshalText() ([]byte, error) {
	return []byte(h.String()), nil
}

func (h *Hash256) UnmarshalText(text []byte) error {
	parsed, err := ParseHash256(string(text))
	if err != nil {
		return err
	}
	*h = parsed
	return nil
}
