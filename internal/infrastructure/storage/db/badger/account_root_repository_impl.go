package dbbadger

import (
	"context"
	"errors"
	"fmt"

	"github.com/dgraph-io/badger/v3"
	"github.com/shopspring/decimal"
	"github.com/timshannon/badgerhold/v4"
	"github.com/youweixue/RipplePower/internal/core/domain"
)

// accountRoot is the stored form of domain.AccountRoot.
type accountRoot struct {
	Account           string
	Balance           string
	Sequence          uint32
	OwnerCount        uint32
	Flags             uint32
	PreviousTxnID     string
	PreviousTxnLgrSeq uint32
}

func newAccountRoot(root domain.AccountRoot) accountRoot {
	return accountRoot{
		Account:           root.Account,
		Balance:           root.Balance.String(),
		Sequence:          root.Sequence,
		OwnerCount:        root.OwnerCount,
		Flags:             root.Flags,
		PreviousTxnID:     root.PreviousTxnID.String(),
		PreviousTxnLgrSeq: root.PreviousTxnLgrSeq,
	}
}

func (a accountRoot) toDomain() (*domain.AccountRoot, error) {
	balance, err := decimal.NewFromString(a.Balance)
	if err != nil {
		return nil, fmt.Errorf("invalid stored balance for %s: %w", a.Account, err)
	}
	prevTxid, err := domain.ParseHash256(a.PreviousTxnID)
	if err != nil {
		return nil, fmt.Errorf("invalid stored tx id for %s: %w", a.Account, err)
	}
	return &domain.AccountRoot{
		Account:           a.Account,
		Balance:           balance,
		Sequence:          a.Sequence,
		OwnerCount:        a.OwnerCount,
		Flags:             a.Flags,
		PreviousTxnID:     prevTxid,
		PreviousTxnLgrSeq: a.PreviousTxnLgrSeq,
	}, nil
}

type accountRootRepositoryImpl struct {
	store *badgerhold.Store
}

// NewAccountRootRepositoryImpl returns a badger implementation of
// domain.AccountRootRepository.
func NewAccountRootRepositoryImpl(store *badgerhold.Store) domain.AccountRootRepository {
	return accountRootRepositoryImpl{store}
}

func (r accountRootRepositoryImpl) SaveAccountRoot(
	ctx context.Context, root *domain.AccountRoot,
) error {
	if err := root.Validate(); err != nil {
		return err
	}

	return r.upsertAccountRoot(ctx, newAccountRoot(*root))
}

func (r accountRootRepositoryImpl) GetAccountRoot(
	ctx context.Context, account string,
) (*domain.AccountRoot, error) {
	root, err := r.getAccountRoot(ctx, account)
	if err != nil {
		return nil, err
	}
	return root.toDomain()
}

func (r accountRootRepositoryImpl) GetAllAccountRoots(
	ctx context.Context,
) ([]domain.AccountRoot, error) {
	query := badgerhold.Where("Account").Ne("").SortBy("Account")

	var stored []accountRoot
	var err error
	if ctx.Value("tx") != nil {
		tx := ctx.Value("tx").(*badger.Txn)
		err = r.store.TxFind(tx, &stored, query)
	} else {
		err = r.store.Find(&stored, query)
	}
	if err != nil {
		return nil, err
	}

	roots := make([]domain.AccountRoot, 0, len(stored))
	for _, s := range stored {
		root, err := s.toDomain()
		if err != nil {
			return nil, err
		}
		roots = append(roots, *root)
	}
	return roots, nil
}

func (r accountRootRepositoryImpl) UpdateAccountRoot(
	ctx context.Context,
	account string, updateFn func(*domain.AccountRoot) (*domain.AccountRoot, error),
) error {
	if ctx.Value("tx") != nil {
		return r.updateAccountRoot(ctx, account, updateFn)
	}

	return r.store.Badger().Update(func(tx *badger.Txn) error {
		return r.updateAccountRoot(
			context.WithValue(ctx, "tx", tx), account, updateFn,
		)
	})
}

func (r accountRootRepositoryImpl) DeleteAccountRoot(
	ctx context.Context, account string,
) error {
	var err error
	if ctx.Value("tx") != nil {
		tx := ctx.Value("tx").(*badger.Txn)
		err = r.store.TxDelete(tx, account, accountRoot{})
	} else {
		err = r.store.Delete(account, accountRoot{})
	}
	if errors.Is(err, badgerhold.ErrNotFound) {
		return domain.ErrAccountRootNotFound
	}
	return err
}

func (r accountRootRepositoryImpl) updateAccountRoot(
	ctx context.Context,
	account string, updateFn func(*domain.AccountRoot) (*domain.AccountRoot, error),
) error {
	current, err := r.GetAccountRoot(ctx, account)
	if err != nil {
		return err
	}

	updated, err := updateFn(current)
	if err != nil {
		return err
	}
	if err := updated.Validate(); err != nil {
		return err
	}

	if updated.Account != account {
		if err := r.DeleteAccountRoot(ctx, account); err != nil {
			return err
		}
	}
	return r.upsertAccountRoot(ctx, newAccountRoot(*updated))
}

func (r accountRootRepositoryImpl) getAccountRoot(
	ctx context.Context, account string,
) (*accountRoot, error) {
	var root accountRoot
	var err error
	if ctx.Value("tx") != nil {
		tx := ctx.Value("tx").(*badger.Txn)
		err = r.store.TxGet(tx, account, &root)
	} else {
		err = r.store.Get(account, &root)
	}
	if err != nil {
		if errors.Is(err, badgerhold.ErrNotFound) {
			return nil, domain.ErrAccountRootNotFound
		}
		return nil, err
	}
	return &root, nil
}

func (r accountRootRepositoryImpl) upsertAccountRoot(
	ctx context.Context, root accountRoot,
) error {
	var err error
	if ctx.Value("tx") != nil {
		tx := ctx.Value("tx").(*badger.Txn)
		err = r.store.TxUpsert(tx, root.Account, root)
	} else {
		err = r.store.Upsert(root.Account, root)
	}
	if err != nil {
		return fmt.Errorf("trying to save account root %s: %w", root.Account, err)
	}
	return nil
}
