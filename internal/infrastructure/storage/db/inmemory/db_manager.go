package inmemory

import (
	"github.com/youweixue/RipplePower/internal/core/domain"
	"github.com/youweixue/RipplePower/internal/core/ports"
)

type RepoManager struct {
	accountRootRepository domain.AccountRootRepository
}

func NewRepoManager() ports.RepoManager {
	return &RepoManager{
		accountRootRepository: NewAccountRootRepositoryImpl(),
	}
}

func (d *RepoManager) AccountRootRepository() domain.AccountRootRepository {
	return d.accountRootRepository
}

func (d *RepoManager) Close() {}
