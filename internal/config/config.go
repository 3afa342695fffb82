package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/btcsuite/btcd/btcutil"
	"github.com/youweixue/RipplePower/internal/core/application"
	"github.com/youweixue/RipplePower/pkg/bytebuffer"

	"github.com/spf13/viper"
)

const (
	// DatadirKey is the local data directory to store the internal state of daemon
	DatadirKey = "DATADIR"
	// LogLevelKey are the different logging levels. For reference on the values https://godoc.org/github.com/sirupsen/logrus#Level
	LogLevelKey = "LOG_LEVEL"
	// LogJSONKey switches the log output to JSON
	LogJSONKey = "LOG_JSON"
	// DBTypeKey is used to switch database type between those supported
	DBTypeKey = "DB_TYPE"
	// FeedURLKey is the websocket endpoint of the ledger node streaming
	// account root messages
	FeedURLKey = "FEED_URL"
	// AccountsKey is the comma separated list of accounts to mirror
	AccountsKey = "ACCOUNTS"
	// UnfundedBootstrapKey makes the daemon seed accounts without a stored
	// snapshot as unfunded, ie. with zero balance and sequence 1
	UnfundedBootstrapKey = "UNFUNDED_BOOTSTRAP"
	// ByteOrderKey is the byte order of the ledger messages, either little or big
	ByteOrderKey = "BYTE_ORDER"
	// MetricsPortKey is the port where prometheus metrics are served, 0 disables them
	MetricsPortKey = "METRICS_PORT"
	// WebhookTimeoutKey is the timeout in seconds of a webhook request
	WebhookTimeoutKey = "WEBHOOK_TIMEOUT"
	// AccountNamesKey is the comma separated list of account=name entries
	// used to label notifications
	AccountNamesKey = "ACCOUNT_NAMES"
	// ReconnectsPerMinuteKey caps the reconnection attempts to the ledger feed
	ReconnectsPerMinuteKey = "RECONNECTS_PER_MINUTE"
	// WebhooksKey is the comma separated list of endpoints notified of every
	// account root change. An endpoint may be followed by #secret to sign
	// requests with a JWT
	WebhooksKey = "WEBHOOKS"
	// EnableProfilerKey enables periodic memory statistics and dumps metrics
	// on exit
	EnableProfilerKey = "ENABLE_PROFILER"
	// StatsIntervalKey defines interval in seconds for printing statistics
	StatsIntervalKey = "STATS_INTERVAL"

	DbLocation       = "db"
	PubSubLocation   = "pubsub"
	ProfilerLocation = "stats"

	byteOrderLittle = "little"
	byteOrderBig    = "big"
)

var vip *viper.Viper
var defaultDatadir = btcutil.AppDataDir("rpmirror", false)

func InitConfig() error {
	vip = viper.New()
	vip.SetEnvPrefix("RPMIRROR")
	vip.AutomaticEnv()

	vip.SetDefault(DatadirKey, defaultDatadir)
	vip.SetDefault(LogLevelKey, 4)
	vip.SetDefault(LogJSONKey, false)
	vip.SetDefault(DBTypeKey, application.DBBadger)
	vip.SetDefault(UnfundedBootstrapKey, false)
	vip.SetDefault(ByteOrderKey, byteOrderBig)
	vip.SetDefault(MetricsPortKey, 0)
	vip.SetDefault(WebhookTimeoutKey, 15)
	vip.SetDefault(ReconnectsPerMinuteKey, 6)
	vip.SetDefault(EnableProfilerKey, false)
	vip.SetDefault(StatsIntervalKey, 600)

	if err := validate(); err != nil {
		return fmt.Errorf("error while validating config: %s", err)
	}

	if err := initDatadir(); err != nil {
		return fmt.Errorf("error while creating datadir: %s", err)
	}

	return nil
}

func GetString(key string) string {
	return vip.GetString(key)
}

func GetInt(key string) int {
	return vip.GetInt(key)
}

// GetStringSlice splits comma separated env values, viper splits on
// whitespace only.
func GetStringSlice(key string) []string {
	values := make([]string, 0)
	for _, v := range vip.GetStringSlice(key) {
		for _, s := range strings.Split(v, ",") {
			if s = strings.TrimSpace(s); s != "" {
				values = append(values, s)
			}
		}
	}
	return values
}

func GetDuration(key string) time.Duration {
	return vip.GetDuration(key)
}

func GetBool(key string) bool {
	return vip.GetBool(key)
}

func GetDatadir() string {
	return GetString(DatadirKey)
}

// GetByteOrder returns the configured byte order of ledger messages.
func GetByteOrder() bytebuffer.Order {
	if GetString(ByteOrderKey) == byteOrderLittle {
		return bytebuffer.LittleEndian
	}
	return bytebuffer.BigEndian
}

// GetWebhookTimeout returns the configured webhook request timeout.
func GetWebhookTimeout() time.Duration {
	return time.Duration(GetInt(WebhookTimeoutKey)) * time.Second
}

func validate() error {
	datadir := GetString(DatadirKey)
	if len(datadir) <= 0 {
		return fmt.Errorf("missing datadir")
	}

	if _, ok := application.SupportedDBType[GetString(DBTypeKey)]; !ok {
		return fmt.Errorf("unsupported db type %s", GetString(DBTypeKey))
	}

	order := GetString(ByteOrderKey)
	if order != byteOrderLittle && order != byteOrderBig {
		return fmt.Errorf(
			"%s must be either %s or %s", ByteOrderKey, byteOrderLittle, byteOrderBig,
		)
	}

	if port := GetInt(MetricsPortKey); port < 0 || port > 65535 {
		return fmt.Errorf("%s must be a valid port number", MetricsPortKey)
	}

	if GetInt(WebhookTimeoutKey) <= 0 {
		return fmt.Errorf("%s must be a positive number of seconds", WebhookTimeoutKey)
	}

	if GetBool(EnableProfilerKey) && GetInt(StatsIntervalKey) <= 0 {
		return fmt.Errorf("%s must be a positive number of seconds", StatsIntervalKey)
	}

	if len(GetStringSlice(AccountsKey)) > 0 && GetString(FeedURLKey) == "" {
		return fmt.Errorf("missing feed url for the accounts to mirror")
	}

	return nil
}

func initDatadir() error {
	datadir := GetDatadir()
	if err := makeDirectoryIfNotExists(filepath.Join(datadir, DbLocation)); err != nil {
		return err
	}
	if err := makeDirectoryIfNotExists(filepath.Join(datadir, PubSubLocation)); err != nil {
		return err
	}

	profilerEnabled := GetBool(EnableProfilerKey)
	if profilerEnabled {
		if err := makeDirectoryIfNotExists(filepath.Join(datadir, ProfilerLocation)); err != nil {
			return err
		}
	}
	return nil
}

func makeDirectoryIfNotExists(path string) error {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return os.MkdirAll(path, os.ModeDir|0755)
	}
	return nil
}
