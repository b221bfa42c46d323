package cli

import (
	"log/slog"
	"os"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"

	"github.com/cosmicwatch/neo-sentinel/internal/config"
	"github.com/cosmicwatch/neo-sentinel/pkg/alerts"
	"github.com/cosmicwatch/neo-sentinel/pkg/neo"
	"github.com/cosmicwatch/neo-sentinel/pkg/sentinel"
	"github.com/cosmicwatch/neo-sentinel/pkg/storage"
)

// Version is set at build time via ldflags.
var Version = "dev"

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "neo-sentinel",
	Short: "NEO Sentinel - near-Earth object monitoring and alerting",
	Long: `NEO Sentinel ingests near-Earth object telemetry from the NeoWs feed,
scores each object for impact risk, and raises deduplicated alerts over
persistence, websocket broadcast, and email channels when operator-defined
thresholds are crossed.`,
	SilenceUsage: true,
}

// Execute runs the CLI.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: ~/.neo-sentinel/config.yaml)")
}

// loadConfig loads the configuration.
func loadConfig() (*config.Config, error) {
	return config.Load(cfgFile)
}

// newLogger creates a structured logger from config.
func newLogger(cfg *config.Config) *slog.Logger {
	level := slog.LevelInfo
	switch cfg.Logging.Level {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}

	var handler slog.Handler
	if cfg.Logging.Format == "text" {
		handler = slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})
	} else {
		handler = slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: level})
	}

	return slog.New(handler)
}

// initFeed creates the feed capability from config: mock records, a
// Redis-backed shared cache, or the default in-process TTL cache.
func initFeed(cfg *config.Config) neo.Feed {
	if cfg.Feed.Mock {
		return &neo.MockFeed{WindowDays: cfg.Feed.WindowDays}
	}

	client := neo.NewClient(cfg.Feed.BaseURL, cfg.Feed.APIKey, cfg.FetchTimeout())

	if cfg.Feed.RedisAddr != "" {
		rdb := redis.NewClient(&redis.Options{Addr: cfg.Feed.RedisAddr})
		return neo.NewRedisFeedCache(client, rdb, cfg.Feed.WindowDays, cfg.CacheTTL())
	}
	return neo.NewFeedCache(client, cfg.Feed.WindowDays, cfg.CacheTTL())
}

// initStore creates the persistence backend from config.
func initStore(cfg *config.Config) (storage.Store, error) {
	return storage.NewSQLite(cfg.Storage.Path)
}

// initNotifiers creates the alert channels from config. The hub is returned
// separately so the HTTP server can mount its websocket endpoint.
func initNotifiers(cfg *config.Config, store storage.Store, logger *slog.Logger) ([]alerts.Notifier, *alerts.Hub) {
	hub := alerts.NewHub(logger)

	notifiers := []alerts.Notifier{
		alerts.NewStoreNotifier(store),
		hub,
	}

	if cfg.Alerts.Email.Enabled {
		notifiers = append(notifiers, alerts.NewEmailNotifier(alerts.EmailConfig{
			Host:      cfg.Alerts.Email.Host,
			Port:      cfg.Alerts.Email.Port,
			Username:  cfg.Alerts.Email.Username,
			Password:  cfg.Alerts.Email.Password,
			From:      cfg.Alerts.Email.From,
			Recipient: cfg.Alerts.Email.Recipient,
		}, logger))
	}

	return notifiers, hub
}

// initSentinel wires the full monitoring pipeline.
func initSentinel(cfg *config.Config, logger *slog.Logger) (*sentinel.Sentinel, neo.Feed, storage.Store, *alerts.Hub, error) {
	feed := initFeed(cfg)

	store, err := initStore(cfg)
	if err != nil {
		return nil, nil, nil, nil, err
	}

	notifiers, hub := initNotifiers(cfg, store, logger)
	dispatcher := alerts.NewDispatcher(notifiers, logger)

	s := sentinel.New(feed, dispatcher, sentinel.Config{
		Interval: cfg.Interval(),
		DedupTTL: 3 * time.Duration(cfg.Feed.WindowDays) * 24 * time.Hour,
		Thresholds: sentinel.Thresholds{
			DistanceKm:  cfg.Sentinel.DistanceThresholdKm,
			SizeM:       cfg.Sentinel.SizeThresholdM,
			VelocityKph: cfg.Sentinel.VelocityThresholdKph,
		},
	}, logger)

	return s, feed, store, hub, nil
}
