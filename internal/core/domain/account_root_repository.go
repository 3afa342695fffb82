package domain

import "context"

// AccountRootRepository is the abstraction for any kind of database intended
// to persist account root snapshots.
type AccountRootRepository interface {
	// SaveAccountRoot adds or replaces the snapshot of root's account.
	SaveAccountRoot(ctx context.Context, root *AccountRoot) error
	// GetAccountRoot returns the snapshot for the given account, or
	// ErrAccountRootNotFound.
	GetAccountRoot(ctx context.Context, account string) (*AccountRoot, error)
	// GetAllAccountRoots returns every stored snapshot sorted by account.
	GetAllAccountRoots(ctx context.Context) ([]AccountRoot, error)
	// UpdateAccountRoot updates an existing snapshot. The closure function
	// let's commit multiple changes in a transactional way. The mirror
	// always holds the whole snapshot and saves it as is, this is for
	// callers that only change some fields of a stored one.
	UpdateAccountRoot(
		ctx context.Context,
		account string, updateFn func(r *AccountRoot) (*AccountRoot, error),
	) error
	// DeleteAccountRoot removes a snapshot from the repository, or returns
	// ErrAccountRootNotFound.
	DeleteAccountRoot(ctx context.Context, account string) error
}
