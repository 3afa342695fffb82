package domain

import (
	"github.com/shopspring/decimal"
)

// AccountRoot is the latest known state of an account ledger entry.
type AccountRoot struct {
	Account    string
	Balance    decimal.Decimal
	Sequence   uint32
	OwnerCount uint32
	Flags      uint32
	// PreviousTxnID is the id of the last transaction that modified the entry.
	PreviousTxnID Hash256
	// PreviousTxnLgrSeq is the index of the ledger that included it.
	PreviousTxnLgrSeq uint32
}

// NewUnfundedAccountRoot returns the default state of an account that does
// not exist on the ledger yet.
func NewUnfundedAccountRoot(account string) AccountRoot {
	return AccountRoot{
		Account:  account,
		Balance:  decimal.Zero,
		Sequence: 1,
	}
}

// Validate checks that the snapshot can be tracked.
func (a AccountRoot) Validate() error {
	if a.Account == "" {
		return ErrMissingAccount
	}
	return ValidateAmount(a.Balance)
}

// Fields returns a complete field set holding copies of a's values.
func (a AccountRoot) Fields() AccountRootFields {
	return AccountRootFields{
		Account:           &a.Account,
		Balance:           &a.Balance,
		Sequence:          &a.Sequence,
		OwnerCount:        &a.OwnerCount,
		Flags:             &a.Flags,
		PreviousTxnID:     &a.PreviousTxnID,
		PreviousTxnLgrSeq: &a.PreviousTxnLgrSeq,
	}
}

// AccountRootFields is a partial set of account root fields, as carried by
// ledger deltas. A nil field is absent and leaves the target untouched.
type AccountRootFields struct {
	Account           *string
	Balance           *decimal.Decimal
	Sequence          *uint32
	OwnerCount        *uint32
	Flags             *uint32
	PreviousTxnID     *Hash256
	PreviousTxnLgrSeq *uint32
}

// IsComplete returns whether every field is present.
func (f AccountRootFields) IsComplete() bool {
	return f.Account != nil && f.Balance != nil && f.Sequence != nil &&
		f.OwnerCount != nil && f.Flags != nil && f.PreviousTxnID != nil &&
		f.PreviousTxnLgrSeq != nil
}

// ApplyTo overwrites root's fields with the present ones.
func (f AccountRootFields) ApplyTo(root *AccountRoot) {
	if f.Account != nil {
		root.Account = *f.Account
	}
	if f.Balance != nil {
		root.Balance = *f.Balance
	}
	if f.Sequence != nil {
		root.Sequence = *f.Sequence
	}
	if f.OwnerCount != nil {
		root.OwnerCount = *f.OwnerCount
	}
	if f.Flags != nil {
		root.Flags = *f.Flags
	}
	if f.PreviousTxnID != nil {
		root.PreviousTxnID = *f.PreviousTxnID
	}
	if f.PreviousTxnLgrSeq != nil {
		root.PreviousTxnLgrSeq = *f.PreviousTxnLgrSeq
	}
}

// ToAccountRoot converts a complete field set into a snapshot.
func (f AccountRootFields) ToAccountRoot() (AccountRoot, error) {
	if !f.IsComplete() {
		return AccountRoot{}, ErrIncompleteAccountRoot
	}
	var root AccountRoot
	f.ApplyTo(&root)
	return root, nil
}

// AccountRootUpdate is the delta a transaction applied to an account root.
type AccountRootUpdate struct {
	// Account is the owner of the modified entry.
	Account string
	// TxID is the id of the transaction that produced this delta.
	TxID Hash256
	// LedgerIndex is the ledger the transaction was included in.
	LedgerIndex uint32
	// PreviousTxnID is the declared predecessor: the transaction that
	// modified the entry right before this one.
	PreviousTxnID Hash256
	// FinalFields are the entry fields after the transaction.
	FinalFields AccountRootFields
}

func (u AccountRootUpdate) Validate() error {
	if u.Account == "" {
		return ErrMissingAccount
	}
	if u.FinalFields.Balance != nil {
		return ValidateAmount(*u.FinalFields.Balance)
	}
	return nil
}
