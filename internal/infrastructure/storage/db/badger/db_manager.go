package dbbadger

import (
	"fmt"
	"path/filepath"

	"github.com/dgraph-io/badger/v3"
	"github.com/dgraph-io/badger/v3/options"
	log "github.com/sirupsen/logrus"
	"github.com/timshannon/badgerhold/v4"
	"github.com/youweixue/RipplePower/internal/core/domain"
	"github.com/youweixue/RipplePower/internal/core/ports"
)

const accountRootsDir = "accountroots"

type repoManager struct {
	store                 *badgerhold.Store
	accountRootRepository domain.AccountRootRepository
}

// NewRepoManager opens (or creates if not exists) the badger store in the
// given base data dir. An empty baseDbDir opens an in-memory store.
func NewRepoManager(baseDbDir string, logger badger.Logger) (ports.RepoManager, error) {
	dbDir := ""
	if baseDbDir != "" {
		dbDir = filepath.Join(baseDbDir, accountRootsDir)
	}

	store, err := createDb(dbDir, logger)
	if err != nil {
		return nil, fmt.Errorf("opening account roots db: %w", err)
	}

	return &repoManager{
		store:                 store,
		accountRootRepository: NewAccountRootRepositoryImpl(store),
	}, nil
}

func (r *repoManager) AccountRootRepository() domain.AccountRootRepository {
	return r.accountRootRepository
}

func (r *repoManager) Close() {
	if err := r.store.Close(); err != nil {
		log.WithError(err).Warn("failed to close account roots db")
	}
}

func createDb(dbDir string, logger badger.Logger) (*badgerhold.Store, error) {
	opts := badger.DefaultOptions(dbDir)
	opts.Logger = logger
	opts.Compression = options.ZSTD
	if dbDir == "" {
		opts.InMemory = true
	}

	return badgerhold.Open(badgerhold.Options{
		Encoder:          badgerhold.DefaultEncode,
		Decoder:          badgerhold.DefaultDecode,
		SequenceBandwith: 100,
		Options:          opts,
	})
}
