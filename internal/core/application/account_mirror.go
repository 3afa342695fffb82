package application

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/puzpuzpuz/xsync/v3"
	log "github.com/sirupsen/logrus"
	"github.com/youweixue/RipplePower/internal/core/domain"
	"github.com/youweixue/RipplePower/internal/core/ports"
)

// AccountMirror keeps an up to date copy of the account roots of a set of
// accounts, fed by ledger deltas and full snapshots.
type AccountMirror interface {
	// Track returns the tracker of the given account, creating it if needed.
	Track(ctx context.Context, account string) (*domain.TrackedAccountRoot, error)
	// Bootstrap seeds the account with a full snapshot.
	Bootstrap(ctx context.Context, root domain.AccountRoot) error
	// BootstrapUnfunded seeds the account with the default state of an
	// account that does not exist on the ledger yet.
	BootstrapUnfunded(ctx context.Context, account string) error
	// ApplyUpdate merges a delta and returns whether it was accepted.
	ApplyUpdate(
		ctx context.Context, update domain.AccountRootUpdate,
	) (bool, error)
	// HandleMessage decodes a binary ledger message and routes it.
	HandleMessage(ctx context.Context, msg []byte) error
	// Listen handles the messages of feed until ctx is done or the feed
	// channel is closed.
	Listen(ctx context.Context, feed ports.LedgerFeed) error
	// GetAccountRoot returns the snapshot of a primed tracker, otherwise the
	// stored one, or domain.ErrAccountRootNotFound.
	GetAccountRoot(ctx context.Context, account string) (*domain.AccountRoot, error)
	// ListAccounts returns the tracked accounts, primed or not.
	ListAccounts(ctx context.Context) []string
}

// accountSlot serializes merge, persistence and notification of one
// account.
type accountSlot struct {
	lock    *sync.Mutex
	tracker *domain.TrackedAccountRoot
}

type accountMirror struct {
	repoManager  ports.RepoManager
	parser       ports.EntryParser
	pubsub       ports.PubSub
	lookup       ports.AccountNameLookup
	seedUnfunded bool

	slots   *xsync.MapOf[string, *accountSlot]
	metrics *mirrorMetrics
}

// MirrorOpts holds the optional collaborators of an AccountMirror.
type MirrorOpts struct {
	// PubSub, if set, is notified of every snapshot change.
	PubSub ports.PubSub
	// Lookup resolves the names included in notifications.
	Lookup ports.AccountNameLookup
	// Registerer, if set, registers the mirror metrics.
	Registerer prometheus.Registerer
	// SeedUnfunded makes Track seed accounts without a stored snapshot as
	// unfunded instead of leaving them unprimed.
	SeedUnfunded bool
}

func NewAccountMirror(
	repoManager ports.RepoManager, parser ports.EntryParser, opts MirrorOpts,
) (AccountMirror, error) {
	if repoManager == nil {
		return nil, ErrMissingRepoManager
	}
	if parser == nil {
		return nil, ErrMissingParser
	}
	metrics, err := newMirrorMetrics(opts.Registerer)
	if err != nil {
		return nil, fmt.Errorf("cannot register metrics: %w", err)
	}

	return &accountMirror{
		repoManager:  repoManager,
		parser:       parser,
		pubsub:       opts.PubSub,
		lookup:       opts.Lookup,
		seedUnfunded: opts.SeedUnfunded,
		slots:        xsync.NewMapOf[string, *accountSlot](),
		metrics:      metrics,
	}, nil
}

func (m *accountMirror) Track(
	ctx context.Context, account string,
) (*domain.TrackedAccountRoot, error) {
	slot, err := m.slot(ctx, account)
	if err != nil {
		return nil, err
	}
	return slot.tracker, nil
}

func (m *accountMirror) Bootstrap(
	ctx context.Context, root domain.AccountRoot,
) error {
	if err := root.Validate(); err != nil {
		return err
	}
	slot, err := m.slot(ctx, root.Account)
	if err != nil {
		return err
	}
	return m.bootstrap(ctx, slot, root)
}

func (m *accountMirror) BootstrapUnfunded(
	ctx context.Context, account string,
) error {
	return m.Bootstrap(ctx, domain.NewUnfundedAccountRoot(account))
}

func (m *accountMirror) ApplyUpdate(
	ctx context.Context, update domain.AccountRootUpdate,
) (bool, error) {
	if err := update.Validate(); err != nil {
		return false, err
	}
	// A delta always refers to its account, even when the entry id is not
	// among the changed fields.
	if update.FinalFields.Account == nil {
		account := update.Account
		update.FinalFields.Account = &account
	}

	slot, err := m.slot(ctx, update.Account)
	if err != nil {
		return false, err
	}

	slot.lock.Lock()
	defer slot.lock.Unlock()

	if !slot.tracker.ApplyUpdate(update) {
		m.metrics.rejected.Inc()
		log.WithFields(log.Fields{
			"account":     update.Account,
			"tx_id":       update.TxID.String(),
			"predecessor": update.PreviousTxnID.String(),
		}).Debug("dropped out of order account root update")
		return false, nil
	}
	m.metrics.accepted.Inc()

	if err := m.persistAndPublish(ctx, slot.tracker.Snapshot()); err != nil {
		return true, err
	}
	return true, nil
}

func (m *accountMirror) HandleMessage(ctx context.Context, msg []byte) error {
	ledgerMsg, err := m.parser.ParseMessage(msg)
	if err != nil {
		m.metrics.decodeErrors.Inc()
		return fmt.Errorf("cannot parse ledger message: %w", err)
	}

	switch ledgerMsg.Kind {
	case ports.MessageDelta:
		_, err := m.ApplyUpdate(ctx, *ledgerMsg.Update)
		return err
	case ports.MessageSnapshot:
		return m.Bootstrap(ctx, *ledgerMsg.Snapshot)
	default:
		return fmt.Errorf("unexpected ledger message kind %s", ledgerMsg.Kind)
	}
}

func (m *accountMirror) Listen(ctx context.Context, feed ports.LedgerFeed) error {
	feedChan := feed.FeedChan()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case msg, ok := <-feedChan:
			if !ok {
				log.Debug("ledger feed closed, stop listening")
				return nil
			}
			if err := m.HandleMessage(ctx, msg); err != nil {
				log.WithError(err).Warn("failed to handle ledger message")
			}
		}
	}
}

func (m *accountMirror) GetAccountRoot(
	ctx context.Context, account string,
) (*domain.AccountRoot, error) {
	if slot, ok := m.slots.Load(account); ok && slot.tracker.Primed() {
		root := slot.tracker.Snapshot()
		return &root, nil
	}
	// Not tracked by this process or nothing observed yet, fall back to the
	// last stored snapshot.
	return m.repoManager.AccountRootRepository().GetAccountRoot(ctx, account)
}

func (m *accountMirror) ListAccounts(_ context.Context) []string {
	accounts := make([]string, 0, m.slots.Size())
	m.slots.Range(func(account string, _ *accountSlot) bool {
		accounts = append(accounts, account)
		return true
	})
	sort.Strings(accounts)
	return accounts
}

func (m *accountMirror) slot(
	ctx context.Context, account string,
) (*accountSlot, error) {
	if account == "" {
		return nil, domain.ErrMissingAccount
	}
	if slot, ok := m.slots.Load(account); ok {
		return slot, nil
	}

	tracker, restored, err := m.restoreTracker(ctx, account)
	if err != nil {
		return nil, err
	}
	seedUnfunded := !restored && m.seedUnfunded
	if seedUnfunded {
		tracker = domain.NewTrackedAccountRootFromSnapshot(
			domain.NewUnfundedAccountRoot(account),
		)
	}

	slot, loaded := m.slots.LoadOrStore(account, &accountSlot{
		lock:    &sync.Mutex{},
		tracker: tracker,
	})
	if loaded {
		return slot, nil
	}
	m.metrics.tracked.Set(float64(m.slots.Size()))

	if seedUnfunded {
		slot.lock.Lock()
		defer slot.lock.Unlock()

		m.metrics.bootstraps.Inc()
		if err := m.persistAndPublish(ctx, slot.tracker.Snapshot()); err != nil {
			// Let the next call seed the account again.
			m.slots.Delete(account)
			m.metrics.tracked.Set(float64(m.slots.Size()))
			return nil, err
		}
	}
	return slot, nil
}

// restoreTracker returns a tracker primed with the stored snapshot of
// account, if any, or an unprimed one.
func (m *accountMirror) restoreTracker(
	ctx context.Context, account string,
) (*domain.TrackedAccountRoot, bool, error) {
	repo := m.repoManager.AccountRootRepository()
	root, err := repo.GetAccountRoot(ctx, account)
	if err != nil {
		if errors.Is(err, domain.ErrAccountRootNotFound) {
			return domain.NewTrackedAccountRoot(), false, nil
		}
		return nil, false, fmt.Errorf("cannot restore account %s: %w", account, err)
	}
	log.WithField("account", account).Debug("restored account root from storage")
	return domain.NewTrackedAccountRootFromSnapshot(*root), true, nil
}

func (m *accountMirror) bootstrap(
	ctx context.Context, slot *accountSlot, root domain.AccountRoot,
) error {
	slot.lock.Lock()
	defer slot.lock.Unlock()

	slot.tracker.Seed(root)
	m.metrics.bootstraps.Inc()

	return m.persistAndPublish(ctx, slot.tracker.Snapshot())
}

// persistAndPublish must be called with the slot lock held. Publishing
// errors are only logged.
func (m *accountMirror) persistAndPublish(
	ctx context.Context, root domain.AccountRoot,
) error {
	repo := m.repoManager.AccountRootRepository()
	if err := repo.SaveAccountRoot(ctx, &root); err != nil {
		log.WithError(err).WithField("account", root.Account).Error(
			"failed to persist account root",
		)
		return fmt.Errorf("cannot persist account %s: %w", root.Account, err)
	}

	if err := publishAccountRootUpdatedTopic(m.pubsub, m.lookup, root); err != nil {
		log.Warn(err)
	}
	return nil
}
