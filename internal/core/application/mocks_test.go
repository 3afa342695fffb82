package application_test

import (
	"context"
	"sync"

	"github.com/stretchr/testify/mock"
	"github.com/youweixue/RipplePower/internal/core/domain"
	"github.com/youweixue/RipplePower/internal/core/ports"
)

// **** PubSub ****

type mockPubSub struct {
	mock.Mock
}

func (m *mockPubSub) Subscribe(topic, endpoint, secret string) (string, error) {
	args := m.Called(topic, endpoint, secret)
	return args.String(0), args.Error(1)
}

func (m *mockPubSub) SubscribeWithID(
	id, topic, endpoint, secret string,
) (string, error) {
	args := m.Called(id, topic, endpoint, secret)
	return args.String(0), args.Error(1)
}

func (m *mockPubSub) Unsubscribe(topic, id string) error {
	args := m.Called(topic, id)
	return args.Error(0)
}

func (m *mockPubSub) ListSubscriptionsForTopic(topic string) []ports.Subscription {
	args := m.Called(topic)

	var res []ports.Subscription
	if a := args.Get(0); a != nil {
		res = a.([]ports.Subscription)
	}
	return res
}

func (m *mockPubSub) Publish(topic, message string) error {
	args := m.Called(topic, message)
	return args.Error(0)
}

func (m *mockPubSub) Close() error {
	args := m.Called()
	return args.Error(0)
}

// **** RepoManager ****

type mockRepoManager struct {
	repo *mockAccountRootRepository
}

func (m *mockRepoManager) AccountRootRepository() domain.AccountRootRepository {
	return m.repo
}

func (m *mockRepoManager) Close() {}

type mockAccountRootRepository struct {
	mock.Mock
}

func (m *mockAccountRootRepository) SaveAccountRoot(
	ctx context.Context, root *domain.AccountRoot,
) error {
	args := m.Called(ctx, root)
	return args.Error(0)
}

func (m *mockAccountRootRepository) GetAccountRoot(
	ctx context.Context, account string,
) (*domain.AccountRoot, error) {
	args := m.Called(ctx, account)

	var res *domain.AccountRoot
	if a := args.Get(0); a != nil {
		res = a.(*domain.AccountRoot)
	}
	return res, args.Error(1)
}

func (m *mockAccountRootRepository) GetAllAccountRoots(
	ctx context.Context,
) ([]domain.AccountRoot, error) {
	args := m.Called(ctx)

	var res []domain.AccountRoot
	if a := args.Get(0); a != nil {
		res = a.([]domain.AccountRoot)
	}
	return res, args.Error(1)
}

func (m *mockAccountRootRepository) UpdateAccountRoot(
	ctx context.Context,
	account string, updateFn func(r *domain.AccountRoot) (*domain.AccountRoot, error),
) error {
	args := m.Called(ctx, account, updateFn)
	return args.Error(0)
}

func (m *mockAccountRootRepository) DeleteAccountRoot(
	ctx context.Context, account string,
) error {
	args := m.Called(ctx, account)
	return args.Error(0)
}

// **** LedgerFeed ****

type chanFeed struct {
	feedChan chan []byte
	once     sync.Once
}

func newChanFeed(size int) *chanFeed {
	return &chanFeed{feedChan: make(chan []byte, size)}
}

func (f *chanFeed) Start() error { return nil }

func (f *chanFeed) Stop() {
	f.once.Do(func() { close(f.feedChan) })
}

func (f *chanFeed) FeedChan() <-chan []byte {
	return f.feedChan
}
