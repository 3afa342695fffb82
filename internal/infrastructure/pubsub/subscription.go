package pubsub

import (
	"errors"
	"fmt"
	"net/url"

	"github.com/google/uuid"
	"github.com/youweixue/RipplePower/internal/core/ports"
)

// ErrUnknownTopic is returned when subscribing to a topic that is never
// published.
var ErrUnknownTopic = errors.New("unknown topic")

// Subscription is a webhook notified with the account root changes published
// for its Event topic, or for every topic if Event is ports.AnyTopic.
type Subscription struct {
	ID       string `json:"id"`
	Event    string `json:"event" badgerhold:"index"`
	Endpoint string `json:"endpoint"`
	Secret   string `json:"secret"`
}

func NewSubscription(event, endpoint, secret string) (*Subscription, error) {
	return NewSubscriptionWithID(uuid.New().String(), event, endpoint, secret)
}

func NewSubscriptionWithID(id, event, endpoint, secret string) (*Subscription, error) {
	if id == "" {
		return nil, fmt.Errorf("missing id")
	}
	if event == ports.UnspecifiedTopic {
		return nil, fmt.Errorf("missing event")
	}
	if _, err := url.ParseRequestURI(endpoint); err != nil {
		return nil, fmt.Errorf("invalid webhook endpoint, must be a valid URI")
	}
	return &Subscription{id, event, endpoint, secret}, nil
}

func (s *Subscription) Topic() string    { return s.Event }
func (s *Subscription) Id() string       { return s.ID }
func (s *Subscription) NotifyAt() string { return s.Endpoint }
func (s *Subscription) IsSecured() bool  { return s.Secret != "" }

type subscriptions []Subscription

func (s subscriptions) toPortable() []ports.Subscription {
	subs := make([]ports.Subscription, 0, len(s))
	for i := range s {
		subs = append(subs, &s[i])
	}
	return subs
}

// topicSet holds the topics a service accepts subscriptions for. An empty
// set accepts any.
type topicSet map[string]struct{}

func newTopicSet(topics []string) topicSet {
	set := make(topicSet, len(topics))
	for _, topic := range topics {
		set[topic] = struct{}{}
	}
	return set
}

func (t topicSet) validate(topic string) error {
	if len(t) == 0 || topic == ports.AnyTopic {
		return nil
	}
	if _, ok := t[topic]; !ok {
		return fmt.Errorf("%w: %s", ErrUnknownTopic, topic)
	}
	return nil
}
