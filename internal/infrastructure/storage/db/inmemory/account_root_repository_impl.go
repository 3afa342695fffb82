package inmemory

import (
	"context"
	"sort"
	"sync"

	"github.com/youweixue/RipplePower/internal/core/domain"
)

type accountRootRepositoryImpl struct {
	store  map[string]domain.AccountRoot
	locker *sync.RWMutex
}

// NewAccountRootRepositoryImpl returns a new empty in memory repository.
func NewAccountRootRepositoryImpl() domain.AccountRootRepository {
	return &accountRootRepositoryImpl{
		store:  make(map[string]domain.AccountRoot),
		locker: &sync.RWMutex{},
	}
}

func (r *accountRootRepositoryImpl) SaveAccountRoot(
	_ context.Context, root *domain.AccountRoot,
) error {
	if err := root.Validate(); err != nil {
		return err
	}

	r.locker.Lock()
	defer r.locker.Unlock()

	r.store[root.Account] = *root
	return nil
}

func (r *accountRootRepositoryImpl) GetAccountRoot(
	_ context.Context, account string,
) (*domain.AccountRoot, error) {
	r.locker.RLock()
	defer r.locker.RUnlock()

	root, ok := r.store[account]
	if !ok {
		return nil, domain.ErrAccountRootNotFound
	}
	return &root, nil
}

func (r *accountRootRepositoryImpl) GetAllAccountRoots(
	_ context.Context,
) ([]domain.AccountRoot, error) {
	r.locker.RLock()
	defer r.locker.RUnlock()

	roots := make([]domain.AccountRoot, 0, len(r.store))
	for _, root := range r.store {
		roots = append(roots, root)
	}
	sort.SliceStable(roots, func(i, j int) bool {
		return roots[i].Account < roots[j].Account
	})
	return roots, nil
}

func (r *accountRootRepositoryImpl) UpdateAccountRoot(
	_ context.Context,
	account string, updateFn func(*domain.AccountRoot) (*domain.AccountRoot, error),
) error {
	r.locker.Lock()
	defer r.locker.Unlock()

	root, ok := r.store[account]
	if !ok {
		return domain.ErrAccountRootNotFound
	}

	updated, err := updateFn(&root)
	if err != nil {
		return err
	}
	if err := updated.Validate(); err != nil {
		return err
	}

	if updated.Account != account {
		delete(r.store, account)
	}
	r.store[updated.Account] = *updated
	return nil
}

func (r *accountRootRepositoryImpl) DeleteAccountRoot(
	_ context.Context, account string,
) error {
	r.locker.Lock()
	defer r.locker.Unlock()

	if _, ok := r.store[account]; !ok {
		return domain.ErrAccountRootNotFound
	}
	delete(r.store, account)
	return nil
}
