package circuitbreaker

import (
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/sony/gobreaker"
)

var (
	// MaxNumOfFailingRequests is the number of requests after which the
	// failing ratio is taken into account.
	MaxNumOfFailingRequests = 10
	// FailingRatio is the ratio of failing requests that opens the breaker.
	FailingRatio = 0.6
	// OpenTimeout is how long the breaker stays open before letting a probe
	// request through.
	OpenTimeout = 30 * time.Second
)

// NewCircuitBreaker is a factory function returning a *gobreaker.CircuitBreaker
// with a default state-changing function that activates if the overall number
// of failing requests have reached a tweakable MaxNumOfFailingRequests cap and
// the failing ratio has met the FailingRatio. State changes are logged.
func NewCircuitBreaker(name string) *gobreaker.CircuitBreaker {
	return gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:    name,
		Timeout: OpenTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			ratio := float64(counts.TotalFailures) / float64(counts.Requests)
			return int(counts.Requests) > MaxNumOfFailingRequests && ratio >= FailingRatio
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.WithFields(log.Fields{
				"breaker": name,
				"from":    from.String(),
				"to":      to.String(),
			}).Info("circuit breaker state changed")
		},
	})
}
