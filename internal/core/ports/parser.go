package ports

import "github.com/youweixue/RipplePower/internal/core/domain"

type MessageKind uint8

const (
	// MessageDelta carries the changes a transaction applied to an account.
	MessageDelta MessageKind = iota + 1
	// MessageSnapshot carries the whole state of an account.
	MessageSnapshot
)

func (k MessageKind) String() string {
	switch k {
	case MessageDelta:
		return "delta"
	case MessageSnapshot:
		return "snapshot"
	default:
		return "unknown"
	}
}

// LedgerMessage is a decoded ledger entry message. Update is set for deltas,
// Snapshot for snapshots.
type LedgerMessage struct {
	Kind     MessageKind
	Update   *domain.AccountRootUpdate
	Snapshot *domain.AccountRoot
}

// EntryParser translates ledger entry messages from and to their binary
// form.
type EntryParser interface {
	ParseMessage(msg []byte) (*LedgerMessage, error)
	SerializeUpdate(update domain.AccountRootUpdate) ([]byte, error)
	SerializeSnapshot(root domain.AccountRoot) ([]byte, error)
}
