package pubsub

import (
	"errors"
	"fmt"
	"path/filepath"
	"sort"

	"github.com/dgraph-io/badger/v3"
	"github.com/puzpuzpuz/xsync/v3"
	"github.com/timshannon/badgerhold/v4"
	"github.com/youweixue/RipplePower/internal/core/ports"
)

const subscriptionsDir = "subscriptions"

// store keeps the registered subscriptions.
type store interface {
	// add stores sub and returns false if its id is already taken.
	add(sub Subscription) (bool, error)
	get(id string) (*Subscription, error)
	remove(id string) error
	// listForTopic returns the subscriptions for topic, or all of them for
	// ports.UnspecifiedTopic.
	listForTopic(topic string) (subscriptions, error)
	close() error
}

func newStore(datadir string) (store, error) {
	if datadir == "" {
		return newMemoryStore(), nil
	}
	return newBadgerStore(filepath.Join(datadir, subscriptionsDir))
}

type memoryStore struct {
	subs *xsync.MapOf[string, Subscription]
}

func newMemoryStore() store {
	return memoryStore{xsync.NewMapOf[string, Subscription]()}
}

func (s memoryStore) add(sub Subscription) (bool, error) {
	_, loaded := s.subs.LoadOrStore(sub.ID, sub)
	return !loaded, nil
}

func (s memoryStore) get(id string) (*Subscription, error) {
	sub, ok := s.subs.Load(id)
	if !ok {
		return nil, nil
	}
	return &sub, nil
}

func (s memoryStore) remove(id string) error {
	s.subs.Delete(id)
	return nil
}

func (s memoryStore) listForTopic(topic string) (subscriptions, error) {
	subs := make(subscriptions, 0)
	s.subs.Range(func(_ string, sub Subscription) bool {
		if topic == ports.UnspecifiedTopic || sub.Event == topic {
			subs = append(subs, sub)
		}
		return true
	})
	sort.SliceStable(subs, func(i, j int) bool {
		return subs[i].ID < subs[j].ID
	})
	return subs, nil
}

func (s memoryStore) close() error {
	s.subs.Clear()
	return nil
}

type badgerStore struct {
	db *badgerhold.Store
}

func newBadgerStore(dbDir string) (store, error) {
	opts := badger.DefaultOptions(dbDir)
	opts.Logger = nil

	db, err := badgerhold.Open(badgerhold.Options{
		Encoder:          badgerhold.DefaultEncode,
		Decoder:          badgerhold.DefaultDecode,
		SequenceBandwith: 100,
		Options:          opts,
	})
	if err != nil {
		return nil, fmt.Errorf("opening subscriptions db: %w", err)
	}
	return badgerStore{db}, nil
}

func (s badgerStore) add(sub Subscription) (bool, error) {
	if err := s.db.Insert(sub.ID, sub); err != nil {
		if errors.Is(err, badgerhold.ErrKeyExists) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

func (s badgerStore) get(id string) (*Subscription, error) {
	var sub Subscription
	if err := s.db.Get(id, &sub); err != nil {
		if errors.Is(err, badgerhold.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &sub, nil
}

func (s badgerStore) remove(id string) error {
	err := s.db.Delete(id, Subscription{})
	if errors.Is(err, badgerhold.ErrNotFound) {
		return nil
	}
	return err
}

func (s badgerStore) listForTopic(topic string) (subscriptions, error) {
	query := badgerhold.Where("ID").Ne("")
	if topic != ports.UnspecifiedTopic {
		query = badgerhold.Where("Event").Eq(topic)
	}

	var subs []Subscription
	if err := s.db.Find(&subs, query.SortBy("ID")); err != nil {
		return nil, err
	}
	return subs, nil
}

func (s badgerStore) close() error {
	return s.db.Close()
}
