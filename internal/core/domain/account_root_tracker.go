package domain

import (
	"sync"
	"weak"

	"github.com/shopspring/decimal"
)

// UpdateHandler is invoked with the tracker every time its snapshot changes.
type UpdateHandler func(t *TrackedAccountRoot)

type subscriber struct {
	id uint64
	// notify returns false once the subscriber is gone and must be dropped.
	notify func(t *TrackedAccountRoot) bool
}

// TrackedAccountRoot keeps the authoritative snapshot of one account under a
// stream of possibly duplicated or reordered deltas.
//
// Until the first accepted change the tracker is unprimed and takes any
// delta as is. Once primed, a delta is applied only if it declares the
// current PreviousTxnID as its predecessor, otherwise it is dropped.
// Seeding from a full snapshot bypasses that check.
//
// Changes are serialized and subscribers are notified synchronously after
// each of them, in the goroutine that made the change. Subscribers may read
// the tracker but must not change it from their handler.
type TrackedAccountRoot struct {
	// updateLock serializes changes and their notification.
	updateLock sync.Mutex

	lock   sync.RWMutex
	root   AccountRoot
	primed bool

	subsLock  sync.Mutex
	subs      []subscriber
	nextSubID uint64
}

// NewTrackedAccountRoot returns an unprimed tracker.
func NewTrackedAccountRoot() *TrackedAccountRoot {
	return &TrackedAccountRoot{}
}

// NewTrackedAccountRootFromSnapshot returns a tracker primed with root.
func NewTrackedAccountRootFromSnapshot(root AccountRoot) *TrackedAccountRoot {
	return &TrackedAccountRoot{root: root, primed: true}
}

// Primed returns whether at least one change has been accepted.
func (t *TrackedAccountRoot) Primed() bool {
	t.lock.RLock()
	defer t.lock.RUnlock()
	return t.primed
}

// Snapshot returns a copy of the current state.
func (t *TrackedAccountRoot) Snapshot() AccountRoot {
	t.lock.RLock()
	defer t.lock.RUnlock()
	return t.root
}

func (t *TrackedAccountRoot) Account() string {
	t.lock.RLock()
	defer t.lock.RUnlock()
	return t.root.Account
}

func (t *TrackedAccountRoot) Balance() decimal.Decimal {
	t.lock.RLock()
	defer t.lock.RUnlock()
	return t.root.Balance
}

// ApplyUpdate merges the delta and returns whether it was accepted.
// A rejected delta is a no-op.
func (t *TrackedAccountRoot) ApplyUpdate(update AccountRootUpdate) bool {
	t.updateLock.Lock()
	defer t.updateLock.Unlock()

	t.lock.Lock()
	if t.primed && t.root.PreviousTxnID != update.PreviousTxnID {
		t.lock.Unlock()
		return false
	}
	update.FinalFields.ApplyTo(&t.root)
	t.root.PreviousTxnID = update.TxID
	t.root.PreviousTxnLgrSeq = update.LedgerIndex
	t.primed = true
	t.lock.Unlock()

	t.notify()
	return true
}

// Seed overwrites the whole snapshot, primes the tracker and notifies.
func (t *TrackedAccountRoot) Seed(root AccountRoot) {
	t.updateLock.Lock()
	defer t.updateLock.Unlock()

	t.lock.Lock()
	t.root = root
	t.primed = true
	t.lock.Unlock()

	t.notify()
}

// SeedUnfunded seeds the tracker with the default state of an account that
// does not exist on the ledger yet.
func (t *TrackedAccountRoot) SeedUnfunded(account string) {
	t.Seed(NewUnfundedAccountRoot(account))
}

// Subscribe registers handler and returns the function that cancels the
// subscription. The tracker keeps handler alive until then.
func (t *TrackedAccountRoot) Subscribe(handler UpdateHandler) (cancel func()) {
	return t.subscribe(func(tr *TrackedAccountRoot) bool {
		handler(tr)
		return true
	})
}

// Observe registers fn to be called with s on every change, holding only a
// weak reference to s: once s is garbage collected the subscription is
// dropped. fn must not capture s, use a method expression like
// (*Wallet).OnAccountUpdate.
func Observe[S any](
	t *TrackedAccountRoot, s *S, fn func(s *S, t *TrackedAccountRoot),
) (cancel func()) {
	ref := weak.Make(s)
	return t.subscribe(func(tr *TrackedAccountRoot) bool {
		target := ref.Value()
		if target == nil {
			return false
		}
		fn(target, tr)
		return true
	})
}

// SubscriberCount returns the number of live subscriptions.
func (t *TrackedAccountRoot) SubscriberCount() int {
	t.subsLock.Lock()
	defer t.subsLock.Unlock()
	return len(t.subs)
}

func (t *TrackedAccountRoot) subscribe(notify func(*TrackedAccountRoot) bool) func() {
	t.subsLock.Lock()
	defer t.subsLock.Unlock()

	t.nextSubID++
	id := t.nextSubID
	t.subs = append(t.subs, subscriber{id, notify})

	var once sync.Once
	return func() {
		once.Do(func() { t.unsubscribe(id) })
	}
}

func (t *TrackedAccountRoot) unsubscribe(ids ...uint64) {
	t.subsLock.Lock()
	defer t.subsLock.Unlock()

	drop := make(map[uint64]struct{}, len(ids))
	for _, id := range ids {
		drop[id] = struct{}{}
	}
	subs := t.subs[:0]
	for _, s := range t.subs {
		if _, ok := drop[s.id]; !ok {
			subs = append(subs, s)
		}
	}
	t.subs = subs
}

func (t *TrackedAccountRoot) notify() {
	t.subsLock.Lock()
	subs := make([]subscriber, len(t.subs))
	copy(subs, t.subs)
	t.subsLock.Unlock()

	gone := make([]uint64, 0)
	for _, s := range subs {
		if !s.notify(t) {
			gone = append(gone, s.id)
		}
	}
	if len(gone) > 0 {
		t.unsubscribe(gone...)
	}
}
