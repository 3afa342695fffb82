package application

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	log "github.com/sirupsen/logrus"
	"github.com/youweixue/RipplePower/internal/core/ports"
	dbbadger "github.com/youweixue/RipplePower/internal/infrastructure/storage/db/badger"
	"github.com/youweixue/RipplePower/internal/infrastructure/storage/db/inmemory"
)

const (
	DBBadger   = "badger"
	DBInMemory = "inmemory"
)

var (
	SupportedDBType = map[string]struct{}{
		DBBadger:   {},
		DBInMemory: {},
	}
)

// Config builds the application services lazily out of the given
// infrastructure.
type Config struct {
	DBType string
	// DBConfig is the datadir for badger, unused otherwise.
	DBConfig interface{}

	Parser       ports.EntryParser
	PubSub       ports.PubSub
	Lookup       ports.AccountNameLookup
	Registerer   prometheus.Registerer
	SeedUnfunded bool

	repo   ports.RepoManager
	mirror AccountMirror
}

func (c *Config) Validate() error {
	if _, ok := SupportedDBType[c.DBType]; !ok {
		return fmt.Errorf("%w: %s", ErrUnsupportedDBType, c.DBType)
	}
	if c.Parser == nil {
		return ErrMissingParser
	}
	if _, err := c.repoManager(); err != nil {
		return err
	}
	if _, err := c.accountMirror(); err != nil {
		return err
	}
	return nil
}

func (c *Config) RepoManager() ports.RepoManager {
	svc, _ := c.repoManager()
	return svc
}

func (c *Config) AccountMirror() AccountMirror {
	svc, _ := c.accountMirror()
	return svc
}

func (c *Config) repoManager() (ports.RepoManager, error) {
	if c.repo == nil {
		switch c.DBType {
		case DBBadger:
			datadir, _ := c.DBConfig.(string)
			repoManager, err := dbbadger.NewRepoManager(datadir, log.New())
			if err != nil {
				return nil, err
			}
			c.repo = repoManager
		case DBInMemory:
			c.repo = inmemory.NewRepoManager()
		default:
			return nil, fmt.Errorf("%w: %s", ErrUnsupportedDBType, c.DBType)
		}
	}
	return c.repo, nil
}

func (c *Config) accountMirror() (AccountMirror, error) {
	if c.mirror == nil {
		repo, err := c.repoManager()
		if err != nil {
			return nil, err
		}
		mirror, err := NewAccountMirror(repo, c.Parser, MirrorOpts{
			PubSub:       c.PubSub,
			Lookup:       c.Lookup,
			Registerer:   c.Registerer,
			SeedUnfunded: c.SeedUnfunded,
		})
		if err != nil {
			return nil, err
		}
		c.mirror = mirror
	}
	return c.mirror, nil
}
