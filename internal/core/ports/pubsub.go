package ports

const AnyTopic = "*"
const UnspecifiedTopic = ""

type Subscription interface {
	Topic() string
	Id() string
	IsSecured() bool
	NotifyAt() string
}

// PubSub defines the methods of a pubsub service used to notify external
// clients about changes of the mirrored accounts.
type PubSub interface {
	// Subscribe adds a new subscription for the requested topic.
	Subscribe(topic, endpoint, secret string) (string, error)
	// SubscribeWithID adds a subscription for the requested topic by using the
	// given id instead of assinging a new one.
	SubscribeWithID(id, topic, endpoint, secret string) (string, error)
	// Unsubscribe removes some client defined by its id for a topic.
	Unsubscribe(topic, id string) error
	// ListSubscriptionsForTopic returns the info of all clients subscribed for
	// a certain topic.
	ListSubscriptionsForTopic(topic string) []Subscription
	// Publish publishes a message for a certain topic. All clients subscribed
	// for such topic will receive the message.
	Publish(topic string, message string) error
	// Close should be used to gracefully close the internal store.
	Close() error
}
