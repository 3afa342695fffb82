package main

import (
	"context"
	"errors"

	log "github.com/sirupsen/logrus"
	"github.com/youweixue/RipplePower/internal/core/application"
	"github.com/youweixue/RipplePower/internal/core/ports"
	"golang.org/x/sync/errgroup"
)

// startIngestion runs feed and the mirror listener in background. Once feed
// is stopped, Wait returns after every buffered message has been handled.
func startIngestion(
	ctx context.Context, feed ports.LedgerFeed, mirror application.AccountMirror,
) *errgroup.Group {
	g := &errgroup.Group{}

	g.Go(func() error {
		if err := feed.Start(); err != nil {
			log.WithError(err).Error("ledger feeder stopped")
		}
		return nil
	})
	g.Go(func() error {
		err := mirror.Listen(ctx, feed)
		if err != nil && !errors.Is(err, context.Canceled) {
			log.WithError(err).Error("account mirror stopped listening")
			return err
		}
		return nil
	})

	return g
}
