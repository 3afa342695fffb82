package ports

// LedgerFeed streams raw ledger entry messages, as produced by an upstream
// ledger node, for the subscribed accounts.
type LedgerFeed interface {
	// Start connects to the upstream source and starts forwarding messages.
	Start() error
	// Stop closes the connection. The feed channel is closed once the
	// feeder has stopped.
	Stop()
	// FeedChan returns the channel of raw messages.
	FeedChan() <-chan []byte
}
