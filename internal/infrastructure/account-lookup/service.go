package accountlookup

import (
	"fmt"
	"strings"

	"github.com/youweixue/RipplePower/internal/core/ports"
)

type service struct {
	names map[string]string
}

// NewStaticLookup returns a lookup resolving the given account -> name map.
func NewStaticLookup(names map[string]string) ports.AccountNameLookup {
	copied := make(map[string]string, len(names))
	for account, name := range names {
		copied[account] = name
	}
	return service{copied}
}

func (s service) AccountName(account string) string {
	return s.names[account]
}

// ParseAccountNames parses a list of "account=name" entries.
func ParseAccountNames(entries []string) (map[string]string, error) {
	names := make(map[string]string, len(entries))
	for _, entry := range entries {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}
		account, name, ok := strings.Cut(entry, "=")
		account, name = strings.TrimSpace(account), strings.TrimSpace(name)
		if !ok || account == "" || name == "" {
			return nil, fmt.Errorf("invalid account name entry %q, must be account=name", entry)
		}
		names[account] = name
	}
	return names, nil
}
