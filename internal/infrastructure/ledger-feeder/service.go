package ledgerfeeder

import (
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	log "github.com/sirupsen/logrus"
	"github.com/youweixue/RipplePower/internal/core/ports"
	"go.uber.org/ratelimit"
)

const (
	// DefaultReconnectsPerMinute caps how often the feeder tries to
	// re-establish a dropped connection.
	DefaultReconnectsPerMinute = 6

	handshakeTimeout = 10 * time.Second
)

var errStopped = errors.New("ledger feeder stopped")

type subscribeCommand struct {
	Command  string   `json:"command"`
	Accounts []string `json:"accounts"`
	Format   string   `json:"format"`
}

type statusMessage struct {
	Type    string `json:"type"`
	Status  string `json:"status"`
	Message string `json:"message"`
}

type service struct {
	url      string
	accounts []string
	limiter  ratelimit.Limiter
	dialer   *websocket.Dialer

	lock *sync.Mutex
	conn *websocket.Conn

	feedChan chan []byte
	quitChan chan struct{}
	stopOnce *sync.Once
}

// NewLedgerFeeder returns a feed of binary ledger entry messages for the
// given accounts, read from the websocket endpoint at url.
func NewLedgerFeeder(
	url string, accounts []string, reconnectsPerMinute int,
) (ports.LedgerFeed, error) {
	if url == "" {
		return nil, fmt.Errorf("missing feed url")
	}
	if len(accounts) <= 0 {
		return nil, fmt.Errorf("missing accounts to subscribe")
	}
	if reconnectsPerMinute <= 0 {
		reconnectsPerMinute = DefaultReconnectsPerMinute
	}

	return &service{
		url:      url,
		accounts: accounts,
		limiter:  ratelimit.New(reconnectsPerMinute, ratelimit.Per(time.Minute)),
		dialer:   &websocket.Dialer{HandshakeTimeout: handshakeTimeout},
		lock:     &sync.Mutex{},
		feedChan: make(chan []byte),
		quitChan: make(chan struct{}),
		stopOnce: &sync.Once{},
	}, nil
}

// Start connects to the upstream node and forwards messages until Stop is
// called. Dropped connections are re-established. It returns an error only
// if the very first connection fails.
func (s *service) Start() error {
	defer close(s.feedChan)

	// The limiter lets the first attempt through right away.
	s.limiter.Take()
	if err := s.connectAndSubscribe(); err != nil {
		if errors.Is(err, errStopped) {
			return nil
		}
		return err
	}

	mustReconnect, err := s.start()
	for mustReconnect {
		log.WithError(err).Warn("ledger feed dropped unexpectedly. Trying to reconnect...")

		for {
			s.limiter.Take()
			if s.isStopped() {
				return nil
			}
			if err = s.connectAndSubscribe(); err == nil {
				break
			}
			if errors.Is(err, errStopped) {
				return nil
			}
			log.WithError(err).Warn("failed to reconnect to ledger feed")
		}

		log.Debug("ledger feed connection re-established. Restarting...")
		mustReconnect, err = s.start()
	}

	return err
}

func (s *service) Stop() {
	s.stopOnce.Do(func() {
		close(s.quitChan)

		s.lock.Lock()
		defer s.lock.Unlock()
		if s.conn != nil {
			//nolint
			s.conn.WriteControl(
				websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
				time.Now().Add(time.Second),
			)
			//nolint
			s.conn.Close()
		}
	})
}

func (s *service) FeedChan() <-chan []byte {
	return s.feedChan
}

func (s *service) start() (mustReconnect bool, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			mustReconnect = !s.isStopped()
			err = fmt.Errorf("%v", rec)
		}
	}()

	conn := s.getConn()
	for {
		msgType, message, err := conn.ReadMessage()
		if err != nil {
			if s.isStopped() {
				return false, nil
			}
			if websocket.IsCloseError(err, websocket.CloseNormalClosure) {
				log.Info("ledger feed closed by remote node")
				return false, nil
			}
			// Any other read error leaves the connection unusable.
			//nolint
			conn.Close()
			return true, err
		}

		switch msgType {
		case websocket.BinaryMessage:
			select {
			case s.feedChan <- message:
			case <-s.quitChan:
				return false, nil
			}
		case websocket.TextMessage:
			s.handleStatus(message)
		}
	}
}

func (s *service) handleStatus(message []byte) {
	status := statusMessage{}
	if err := json.Unmarshal(message, &status); err != nil {
		log.WithError(err).Debug("ignoring unknown text message from ledger feed")
		return
	}
	if status.Type == "error" || status.Status == "error" {
		log.WithField("message", status.Message).Warn("ledger feed reported an error")
		return
	}
	log.WithField("type", status.Type).Debug("ledger feed status message")
}

func (s *service) connectAndSubscribe() error {
	conn, _, err := s.dialer.Dial(s.url, nil)
	if err != nil {
		return err
	}

	msg := subscribeCommand{
		Command:  "subscribe",
		Accounts: s.accounts,
		Format:   "binary",
	}
	buf, _ := json.Marshal(msg)
	if err := conn.WriteMessage(websocket.TextMessage, buf); err != nil {
		//nolint
		conn.Close()
		return fmt.Errorf("cannot subscribe to given accounts: %s", err)
	}

	s.lock.Lock()
	defer s.lock.Unlock()
	if s.isStopped() {
		//nolint
		conn.Close()
		return errStopped
	}
	s.conn = conn
	return nil
}

func (s *service) getConn() *websocket.Conn {
	s.lock.Lock()
	defer s.lock.Unlock()
	return s.conn
}

func (s *service) isStopped() bool {
	select {
	case <-s.quitChan:
		return true
	default:
		return false
	}
}
