package httpinterface

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"
	"github.com/youweixue/RipplePower/internal/core/application"
	"github.com/youweixue/RipplePower/internal/core/ports"
	"github.com/youweixue/RipplePower/internal/interfaces"
)

const (
	readHeaderTimeout = 5 * time.Second
	shutdownTimeout   = 5 * time.Second
)

type service struct {
	address string
	server  *http.Server
}

// NewService returns the HTTP interface serving prometheus metrics at
// /metrics and the mirrored snapshots at /accounts.
func NewService(
	address string, gatherer prometheus.Gatherer,
	mirror application.AccountMirror, lookup ports.AccountNameLookup,
) (interfaces.Service, error) {
	if address == "" {
		return nil, fmt.Errorf("missing listening address")
	}
	if gatherer == nil {
		return nil, fmt.Errorf("missing metrics gatherer")
	}
	if mirror == nil {
		return nil, fmt.Errorf("missing account mirror")
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
	NewAccountRootService(mirror, lookup).Register(mux)

	return &service{
		address: address,
		server: &http.Server{
			Handler:           mux,
			ReadHeaderTimeout: readHeaderTimeout,
		},
	}, nil
}

// Start binds the listening address and serves requests in background.
func (s *service) Start() error {
	lis, err := net.Listen("tcp", s.address)
	if err != nil {
		return err
	}

	go func() {
		if err := s.server.Serve(lis); err != nil && err != http.ErrServerClosed {
			log.WithError(err).Error("http interface stopped")
		}
	}()
	log.Infof("http interface is listening on %s", lis.Addr())
	return nil
}

func (s *service) Stop() {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := s.server.Shutdown(ctx); err != nil {
		log.WithError(err).Warn("error while stopping http interface")
	}
}
