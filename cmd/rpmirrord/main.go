package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	log "github.com/sirupsen/logrus"
	"github.com/youweixue/RipplePower/internal/config"
	"github.com/youweixue/RipplePower/internal/core/application"
	"github.com/youweixue/RipplePower/internal/core/ports"
	accountlookup "github.com/youweixue/RipplePower/internal/infrastructure/account-lookup"
	entryparser "github.com/youweixue/RipplePower/internal/infrastructure/entry-parser"
	ledgerfeeder "github.com/youweixue/RipplePower/internal/infrastructure/ledger-feeder"
	"github.com/youweixue/RipplePower/internal/infrastructure/pubsub"
	"github.com/youweixue/RipplePower/internal/interfaces"
	httpinterface "github.com/youweixue/RipplePower/internal/interfaces/http"
	"github.com/youweixue/RipplePower/pkg/stats"
	"golang.org/x/sync/errgroup"
)

func main() {
	if err := config.InitConfig(); err != nil {
		log.Fatal(err)
	}
	initLogger()

	datadir := config.GetDatadir()
	accounts := config.GetStringSlice(config.AccountsKey)

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	pubsubSvc, err := pubsub.NewService(
		filepath.Join(datadir, config.PubSubLocation), config.GetWebhookTimeout(),
		application.AccountRootUpdatedTopic,
	)
	if err != nil {
		log.WithError(err).Fatal("error while setting up pubsub service")
	}
	if err := addWebhooks(pubsubSvc, config.GetStringSlice(config.WebhooksKey)); err != nil {
		log.WithError(err).Fatal("error while registering webhooks")
	}

	names, err := accountlookup.ParseAccountNames(
		config.GetStringSlice(config.AccountNamesKey),
	)
	if err != nil {
		log.WithError(err).Fatal("error while parsing account names")
	}

	appConfig := &application.Config{
		DBType:       config.GetString(config.DBTypeKey),
		DBConfig:     filepath.Join(datadir, config.DbLocation),
		Parser:       entryparser.NewService(config.GetByteOrder()),
		PubSub:       pubsubSvc,
		Lookup:       accountlookup.NewStaticLookup(names),
		Registerer:   registry,
		SeedUnfunded: config.GetBool(config.UnfundedBootstrapKey),
	}
	if err := appConfig.Validate(); err != nil {
		log.WithError(err).Fatal("invalid config")
	}
	mirror := appConfig.AccountMirror()

	ctx, cancel := context.WithCancel(context.Background())

	for _, account := range accounts {
		tracker, err := mirror.Track(ctx, account)
		if err != nil {
			log.WithError(err).Fatalf("error while tracking account %s", account)
		}
		log.WithFields(log.Fields{
			"account": account,
			"primed":  tracker.Primed(),
			"balance": tracker.Balance().String(),
		}).Info("tracking account")
	}

	var feeder ports.LedgerFeed
	var ingestion *errgroup.Group
	if len(accounts) > 0 {
		feeder, err = ledgerfeeder.NewLedgerFeeder(
			config.GetString(config.FeedURLKey), accounts,
			config.GetInt(config.ReconnectsPerMinuteKey),
		)
		if err != nil {
			log.WithError(err).Fatal("error while setting up ledger feeder")
		}
		ingestion = startIngestion(ctx, feeder, mirror)
	} else {
		log.Warn("no accounts configured, serving stored snapshots only")
	}

	var httpSvc interfaces.Service
	if port := config.GetInt(config.MetricsPortKey); port > 0 {
		httpSvc, err = httpinterface.NewService(
			fmt.Sprintf(":%d", port), registry, mirror, appConfig.Lookup,
		)
		if err != nil {
			log.WithError(err).Fatal("error while setting up http interface")
		}
		if err := httpSvc.Start(); err != nil {
			log.WithError(err).Fatal("error while starting http interface")
		}
	}

	var statsDone <-chan struct{}
	if config.GetBool(config.EnableProfilerKey) {
		interval := time.Duration(config.GetInt(config.StatsIntervalKey)) * time.Second
		statsDone = stats.EnableMemoryStatistics(
			ctx, interval, registry,
			filepath.Join(datadir, config.ProfilerLocation, "metrics"),
		)
	}

	log.Info("account mirror daemon started")

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGTERM, syscall.SIGINT)
	<-sigChan

	log.Info("shutting down daemon")

	// The listener drains what the feeder buffered before it stopped, so it
	// must be done before the stores are closed.
	if feeder != nil {
		feeder.Stop()
		if err := ingestion.Wait(); err != nil {
			log.WithError(err).Warn("error while stopping ledger ingestion")
		}
	}
	cancel()
	if statsDone != nil {
		<-statsDone
	}

	if httpSvc != nil {
		httpSvc.Stop()
	}
	if err := pubsubSvc.Close(); err != nil {
		log.WithError(err).Warn("error while closing pubsub store")
	}
	appConfig.RepoManager().Close()

	log.Info("exiting")
}

func initLogger() {
	log.SetLevel(log.Level(config.GetInt(config.LogLevelKey)))
	if config.GetBool(config.LogJSONKey) {
		log.SetFormatter(&log.JSONFormatter{})
		return
	}
	log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
}

// addWebhooks subscribes every endpoint[#secret] entry to any topic. The id
// is derived from the endpoint so that restarts don't duplicate stored
// subscriptions.
func addWebhooks(pubsubSvc ports.PubSub, entries []string) error {
	for _, entry := range entries {
		endpoint, secret, _ := strings.Cut(entry, "#")
		id := uuid.NewSHA1(uuid.NameSpaceURL, []byte(endpoint)).String()
		if _, err := pubsubSvc.SubscribeWithID(
			id, ports.AnyTopic, endpoint, secret,
		); err != nil {
			return fmt.Errorf("invalid webhook %s: %w", endpoint, err)
		}
		log.WithField("endpoint", endpoint).Debug("webhook registered")
	}
	return nil
}
