package pubsub

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt"
	"github.com/sony/gobreaker"
	"github.com/youweixue/RipplePower/internal/core/ports"
	"github.com/youweixue/RipplePower/pkg/circuitbreaker"
	"golang.org/x/sync/errgroup"
)

// DefaultRequestTimeout is the timeout of a webhook request if none is given.
const DefaultRequestTimeout = 15 * time.Second

// ErrSubscriptionNotFound is returned when unsubscribing an unknown id.
var ErrSubscriptionNotFound = errors.New("webhook not found")

type service struct {
	store      store
	topics     topicSet
	httpClient *client
	cb         *gobreaker.CircuitBreaker
}

// NewService returns a webhook pubsub service. Subscriptions are persisted in
// datadir, or kept in memory if datadir is empty. If topics are given, only
// subscriptions to them or to ports.AnyTopic are accepted.
func NewService(
	datadir string, requestTimeout time.Duration, topics ...string,
) (ports.PubSub, error) {
	if requestTimeout <= 0 {
		requestTimeout = DefaultRequestTimeout
	}

	s, err := newStore(datadir)
	if err != nil {
		return nil, err
	}

	return &service{
		store:      s,
		topics:     newTopicSet(topics),
		httpClient: newHTTPClient(requestTimeout),
		cb:         circuitbreaker.NewCircuitBreaker("webhook"),
	}, nil
}

func (ws *service) Subscribe(topic, endpoint, secret string) (string, error) {
	if err := ws.topics.validate(topic); err != nil {
		return "", err
	}
	sub, err := NewSubscription(topic, endpoint, secret)
	if err != nil {
		return "", err
	}

	return ws.addSubscription(sub)
}

func (ws *service) SubscribeWithID(id, topic, endpoint, secret string) (string, error) {
	if err := ws.topics.validate(topic); err != nil {
		return "", err
	}
	sub, err := NewSubscriptionWithID(id, topic, endpoint, secret)
	if err != nil {
		return "", err
	}

	return ws.addSubscription(sub)
}

func (ws *service) Unsubscribe(_, id string) error {
	sub, err := ws.store.get(id)
	if err != nil {
		return err
	}
	if sub == nil {
		return ErrSubscriptionNotFound
	}
	return ws.store.remove(id)
}

func (ws *service) ListSubscriptionsForTopic(topic string) []ports.Subscription {
	return ws.listSubscriptionsForTopic(topic).toPortable()
}

func (ws *service) Publish(topic string, message string) error {
	return ws.publishForTopic(topic, message)
}

func (ws *service) Close() error {
	return ws.store.close()
}

func (ws *service) addSubscription(sub *Subscription) (string, error) {
	if _, err := ws.store.add(*sub); err != nil {
		return "", err
	}
	return sub.ID, nil
}

func (ws *service) listSubscriptionsForTopic(topic string) subscriptions {
	subs := ws.getSubscriptionsForTopic(topic)
	if topic != ports.AnyTopic && topic != ports.UnspecifiedTopic {
		subsForAnyTopic := ws.getSubscriptionsForTopic(ports.AnyTopic)
		subs = append(subs, subsForAnyTopic...)
	}
	return subs
}

func (ws *service) getSubscriptionsForTopic(topic string) subscriptions {
	subs, err := ws.store.listForTopic(topic)
	if err != nil {
		return nil
	}
	return subs
}

func (ws *service) publishForTopic(topic, message string) error {
	subs := ws.listSubscriptionsForTopic(topic)

	eg := &errgroup.Group{}
	for i := range subs {
		sub := subs[i]
		eg.Go(func() error { return ws.doRequest(sub, message) })
	}
	return eg.Wait()
}

func (ws *service) doRequest(sub Subscription, payload string) error {
	_, err := ws.cb.Execute(func() (interface{}, error) {
		headers := map[string]string{
			"Content-Type": "application/json",
		}
		if sub.IsSecured() {
			token := jwt.New(jwt.SigningMethodHS256)
			secret := []byte(sub.Secret)
			tokenString, _ := token.SignedString(secret)
			headers["Authorization"] = fmt.Sprintf("Bearer %s", tokenString)
		}

		status, resp, err := ws.httpClient.post(sub.Endpoint, payload, headers)
		if err != nil {
			return nil, err
		}
		if status != http.StatusOK {
			return nil, fmt.Errorf("webhook %s replied with status %d: %s", sub.ID, status, resp)
		}
		return nil, nil
	})

	return err
}
