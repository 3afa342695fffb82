package ports

import (
	"github.com/youweixue/RipplePower/internal/core/domain"
)

// RepoManager interface defines the methods to access the repositories of
// the mirrored ledger entries.
type RepoManager interface {
	AccountRootRepository() domain.AccountRootRepository

	Close()
}
