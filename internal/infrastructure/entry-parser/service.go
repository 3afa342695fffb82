package entryparser

import (
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/youweixue/RipplePower/internal/core/domain"
	"github.com/youweixue/RipplePower/internal/core/ports"
	"github.com/youweixue/RipplePower/pkg/bytebuffer"
)

// Version is the only supported message version.
const Version = 1

const (
	fieldAccount uint16 = 1 << iota
	fieldBalance
	fieldSequence
	fieldOwnerCount
	fieldFlags
	fieldPreviousTxnID
	fieldPreviousTxnLgrSeq

	allFields = fieldPreviousTxnLgrSeq<<1 - 1
)

type service struct {
	order bytebuffer.Order
}

// NewService returns a parser for messages encoded with the given byte order.
func NewService(order bytebuffer.Order) ports.EntryParser {
	return service{order}
}

func (s service) ParseMessage(msg []byte) (*ports.LedgerMessage, error) {
	b := bytebuffer.NewFromBytes(msg)
	b.SetOrder(s.order)

	version, err := b.ReadByte()
	if err != nil {
		return nil, fmt.Errorf("failed to read version: %w", err)
	}
	if version != Version {
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedVersion, version)
	}
	kind, err := b.ReadByte()
	if err != nil {
		return nil, fmt.Errorf("failed to read message kind: %w", err)
	}

	var parsed *ports.LedgerMessage
	switch ports.MessageKind(kind) {
	case ports.MessageDelta:
		update, err := readUpdate(b)
		if err != nil {
			return nil, err
		}
		parsed = &ports.LedgerMessage{Kind: ports.MessageDelta, Update: update}
	case ports.MessageSnapshot:
		f, err := readFields(b)
		if err != nil {
			return nil, err
		}
		root, err := f.ToAccountRoot()
		if err != nil {
			return nil, err
		}
		if err := root.Validate(); err != nil {
			return nil, err
		}
		parsed = &ports.LedgerMessage{Kind: ports.MessageSnapshot, Snapshot: &root}
	default:
		return nil, fmt.Errorf("%w: %d", ErrUnknownMessageKind, kind)
	}

	if n := b.Available(); n > 0 {
		return nil, fmt.Errorf("%w: %d", ErrTrailingBytes, n)
	}
	return parsed, nil
}

func (s service) SerializeUpdate(update domain.AccountRootUpdate) ([]byte, error) {
	if err := update.Validate(); err != nil {
		return nil, err
	}

	b := s.newMessage(ports.MessageDelta)
	if err := b.WriteUTF(update.Account); err != nil {
		return nil, fmt.Errorf("failed to write account: %w", err)
	}
	//nolint
	b.Write(update.TxID[:])
	b.WriteInt32(int32(update.LedgerIndex))
	//nolint
	b.Write(update.PreviousTxnID[:])

	if err := writeFields(b, update.FinalFields); err != nil {
		return nil, err
	}
	return b.Bytes(), nil
}

func (s service) SerializeSnapshot(root domain.AccountRoot) ([]byte, error) {
	if err := root.Validate(); err != nil {
		return nil, err
	}

	b := s.newMessage(ports.MessageSnapshot)
	if err := writeFields(b, root.Fields()); err != nil {
		return nil, err
	}
	return b.Bytes(), nil
}

func (s service) newMessage(kind ports.MessageKind) *bytebuffer.Buffer {
	b := bytebuffer.New(0)
	b.SetOrder(s.order)
	//nolint
	b.WriteByte(Version)
	//nolint
	b.WriteByte(byte(kind))
	return b
}

func readUpdate(b *bytebuffer.Buffer) (*domain.AccountRootUpdate, error) {
	account, err := b.ReadUTF()
	if err != nil {
		return nil, fmt.Errorf("failed to read account: %w", err)
	}
	txid, err := readHash(b)
	if err != nil {
		return nil, fmt.Errorf("failed to read tx id: %w", err)
	}
	ledgerIndex, err := b.ReadInt32()
	if err != nil {
		return nil, fmt.Errorf("failed to read ledger index: %w", err)
	}
	prevTxid, err := readHash(b)
	if err != nil {
		return nil, fmt.Errorf("failed to read previous tx id: %w", err)
	}
	f, err := readFields(b)
	if err != nil {
		return nil, err
	}

	update := &domain.AccountRootUpdate{
		Account:       account,
		TxID:          txid,
		LedgerIndex:   uint32(ledgerIndex),
		PreviousTxnID: prevTxid,
		FinalFields:   f,
	}
	if err := update.Validate(); err != nil {
		return nil, err
	}
	return update, nil
}

func readFields(b *bytebuffer.Buffer) (domain.AccountRootFields, error) {
	var f domain.AccountRootFields

	mask, err := b.ReadUint16()
	if err != nil {
		return f, fmt.Errorf("failed to read field mask: %w", err)
	}
	if mask&^allFields != 0 {
		return f, fmt.Errorf("%w: %#04x", ErrInvalidFieldMask, mask)
	}

	if mask&fieldAccount != 0 {
		account, err := b.ReadUTF()
		if err != nil {
			return f, fmt.Errorf("failed to read Account: %w", err)
		}
		f.Account = &account
	}
	if mask&fieldBalance != 0 {
		s, err := b.ReadUTF()
		if err != nil {
			return f, fmt.Errorf("failed to read Balance: %w", err)
		}
		balance, err := domain.ParseAmount(s)
		if err != nil {
			return f, err
		}
		f.Balance = &balance
	}
	for _, u := range []struct {
		bit   uint16
		name  string
		field **uint32
	}{
		{fieldSequence, "Sequence", &f.Sequence},
		{fieldOwnerCount, "OwnerCount", &f.OwnerCount},
		{fieldFlags, "Flags", &f.Flags},
	} {
		if mask&u.bit == 0 {
			continue
		}
		v, err := b.ReadUint32()
		if err != nil {
			return f, fmt.Errorf("failed to read %s: %w", u.name, err)
		}
		*u.field = &v
	}
	if mask&fieldPreviousTxnID != 0 {
		h, err := readHash(b)
		if err != nil {
			return f, fmt.Errorf("failed to read PreviousTxnID: %w", err)
		}
		f.PreviousTxnID = &h
	}
	if mask&fieldPreviousTxnLgrSeq != 0 {
		v, err := b.ReadUint32()
		if err != nil {
			return f, fmt.Errorf("failed to read PreviousTxnLgrSeq: %w", err)
		}
		f.PreviousTxnLgrSeq = &v
	}
	return f, nil
}

func writeFields(b *bytebuffer.Buffer, f domain.AccountRootFields) error {
	b.WriteUint16(fieldMask(f))

	if f.Account != nil {
		if err := b.WriteUTF(*f.Account); err != nil {
			return fmt.Errorf("failed to write Account: %w", err)
		}
	}
	if f.Balance != nil {
		if err := b.WriteUTF(formatAmount(*f.Balance)); err != nil {
			return fmt.Errorf("failed to write Balance: %w", err)
		}
	}
	for _, v := range []*uint32{f.Sequence, f.OwnerCount, f.Flags} {
		if v != nil {
			b.WriteUint32(*v)
		}
	}
	if f.PreviousTxnID != nil {
		//nolint
		b.Write(f.PreviousTxnID[:])
	}
	if f.PreviousTxnLgrSeq != nil {
		b.WriteUint32(*f.PreviousTxnLgrSeq)
	}
	return nil
}

func fieldMask(f domain.AccountRootFields) uint16 {
	var mask uint16
	if f.Account != nil {
		mask |= fieldAccount
	}
	if f.Balance != nil {
		mask |= fieldBalance
	}
	if f.Sequence != nil {
		mask |= fieldSequence
	}
	if f.OwnerCount != nil {
		mask |= fieldOwnerCount
	}
	if f.Flags != nil {
		mask |= fieldFlags
	}
	if f.PreviousTxnID != nil {
		mask |= fieldPreviousTxnID
	}
	if f.PreviousTxnLgrSeq != nil {
		mask |= fieldPreviousTxnLgrSeq
	}
	return mask
}

func readHash(b *bytebuffer.Buffer) (domain.Hash256, error) {
	buf, err := b.ReadBytes(domain.Hash256Size)
	if err != nil {
		return domain.Hash256{}, err
	}
	return domain.Hash256FromBytes(buf)
}

// formatAmount keeps the exponent form for amounts that would otherwise
// expand to hundreds of digits.
func formatAmount(amount decimal.Decimal) string {
	exp := amount.Exponent()
	if exp > -32 && exp < 32 {
		return amount.String()
	}
	return fmt.Sprintf("%se%d", amount.Coefficient().String(), exp)
}
