package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	geth "github.com/ethereum/go-ethereum/ethclient"
	"github.com/goodnatureofminers/acctmon/internal/acct/bloom"
	"github.com/goodnatureofminers/acctmon/internal/acct/cache"
	"github.com/goodnatureofminers/acctmon/internal/acct/display"
	"github.com/goodnatureofminers/acctmon/internal/acct/ethereum"
	"github.com/goodnatureofminers/acctmon/internal/acct/publisher"
	"github.com/goodnatureofminers/acctmon/internal/acct/repository/clickhouse"
	"github.com/goodnatureofminers/acctmon/internal/acct/service/cachereader"
	"github.com/goodnatureofminers/acctmon/internal/acct/service/freshener"
	"github.com/goodnatureofminers/acctmon/internal/acct/service/monitor"
	appconfig "github.com/goodnatureofminers/acctmon/internal/config"
	"github.com/goodnatureofminers/acctmon/internal/metrics"
	"github.com/goodnatureofminers/acctmon/internal/pkg/ethclient"
	"github.com/goodnatureofminers/acctmon/pkg/cleanup"
	"github.com/jessevdk/go-flags"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

const (
	modeShowCache = "showCache"
	modeFreshen   = "freshen"
)

type config struct {
	ConfigPath    string        `long:"config" env:"ACCTMON_CONFIG" description:"path to the monitor config file" default:"config.toml"`
	Modes         []string      `long:"mode" env:"ACCTMON_MODE" env-delim:"," description:"pipeline steps to run" choice:"showCache" choice:"freshen" default:"showCache" default:"freshen"`
	Block         *uint64       `long:"block" env:"ACCTMON_BLOCK" description:"display and freshen starting at this block"`
	Chain         string        `long:"chain" env:"ACCTMON_CHAIN" description:"chain label for metrics" default:"mainnet"`
	RPCURL        string        `long:"rpc-url" env:"ACCTMON_RPC_URL" description:"node JSON-RPC URL" default:"http://127.0.0.1:8545"`
	RPS           int           `long:"rps" env:"ACCTMON_RPS" description:"node requests per second, 0 for unlimited" default:"25"`
	CacheDir      string        `long:"cache-dir" env:"ACCTMON_CACHE_DIR" description:"account cache directory" default:"cache"`
	BloomDir      string        `long:"bloom-dir" env:"ACCTMON_BLOOM_DIR" description:"bloom file directory" default:"blooms"`
	BloomSpan     uint64        `long:"bloom-span" env:"ACCTMON_BLOOM_SPAN" description:"blocks per bloom file" default:"1000"`
	LockPoll      time.Duration `long:"lock-poll" env:"ACCTMON_LOCK_POLL" description:"interval between cache lock attempts" default:"1s"`
	ClickhouseDSN string        `long:"clickhouse-dsn" env:"ACCTMON_CLICKHOUSE_DSN" description:"ClickHouse DSN of the snapshot mirror"`
	KafkaBrokers  []string      `long:"kafka-broker" env:"ACCTMON_KAFKA_BROKERS" env-delim:"," description:"Kafka broker for the snapshot publisher"`
	KafkaTopic    string        `long:"kafka-topic" env:"ACCTMON_KAFKA_TOPIC" description:"Kafka topic for snapshots" default:"account-snapshots"`
	MetricsAddr   string        `long:"metrics-addr" env:"ACCTMON_METRICS_ADDR" description:"address for metrics server, empty to disable"`
}

func (c config) has(mode string) bool {
	for _, m := range c.Modes {
		if m == mode {
			return true
		}
	}
	return false
}

func main() {
	cfg := config{}
	prog := filepath.Base(os.Args[0])

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if _, err := flags.ParseArgs(&cfg, os.Args); err != nil {
		var ferr *flags.Error
		if errors.As(err, &ferr) && ferr.Type == flags.ErrHelp {
			return
		}
		fmt.Fprintf(os.Stderr, "%s: %v\n", prog, err)
		os.Exit(2)
	}

	monCfg, err := appconfig.Load(cfg.ConfigPath)
	if err != nil {
		if errors.Is(err, appconfig.ErrNotFound) {
			fmt.Fprintf(os.Stderr, "%s: %v. Create it and list the addresses to watch. Quitting...\n", prog, err)
			return
		}
		fmt.Fprintf(os.Stderr, "%s: %v\n", prog, err)
		os.Exit(1)
	}

	logCfg := monCfg.Log
	if monCfg.Display.Verbose() {
		logCfg.Level = "debug"
	}
	logger, err := appconfig.NewLogger(logCfg)
	if err != nil {
		panic("can't initialize zap logger: " + err.Error())
	}
	defer func() {
		_ = logger.Sync()
	}()

	if err := run(ctx, prog, cfg, monCfg, logger); err != nil {
		logger.Error("acctmon failed", zap.Error(err))
		os.Exit(1)
	}
}

func run(ctx context.Context, prog string, cfg config, monCfg *appconfig.Config, logger *zap.Logger) (err error) {
	if cfg.MetricsAddr != "" {
		startMetricsServer(ctx, cfg.MetricsAddr, logger)
	}

	watches, err := monCfg.ToWatches()
	if err != nil {
		return err
	}
	name := monCfg.Settings.Name
	if name == "" {
		name = prog
	}
	cachePath := cache.Path(cfg.CacheDir, watches[0].Address)

	registry := cleanup.New(logger.Named("cleanup"))
	defer func() {
		if cleanupErr := registry.Run(); cleanupErr != nil {
			err = errors.Join(err, cleanupErr)
		}
	}()

	client, err := geth.DialContext(ctx, cfg.RPCURL)
	if err != nil {
		return fmt.Errorf("dial node: %w", err)
	}
	defer client.Close()

	rpc := ethclient.NewObservedClient(client, metrics.NewRPCClient(cfg.Chain), cfg.RPS)
	source := ethereum.NewSource(rpc)
	index := bloom.NewIndex(cfg.BloomDir, cfg.BloomSpan)
	lock := cache.NewLock(cachePath, cfg.LockPoll)
	freshenerMetrics := metrics.NewFreshener(name)

	fresh, err := freshener.NewService(
		logger.Named("freshener"),
		source,
		index,
		lock,
		registry,
		freshenerMetrics,
		cachePath,
	)
	if err != nil {
		return fmt.Errorf("init freshener: %w", err)
	}

	if cfg.ClickhouseDSN != "" {
		repo, err := clickhouse.NewRepository(cfg.ClickhouseDSN, metrics.NewClickhouseRepository())
		if err != nil {
			return fmt.Errorf("init repository: %w", err)
		}
		defer func() {
			_ = repo.Close()
		}()
		writer := freshener.NewSnapshotWriter(logger.Named("snapshotWriter"), repo, freshenerMetrics)
		writer.Start(ctx)
		defer writer.Stop()
		fresh.AddSink(writer)
	}

	if len(cfg.KafkaBrokers) > 0 {
		kafkaWriter, err := publisher.NewKafkaWriter(publisher.KafkaConfig{
			Brokers: cfg.KafkaBrokers,
			Topic:   cfg.KafkaTopic,
		})
		if err != nil {
			return fmt.Errorf("init kafka writer: %w", err)
		}
		pub, err := publisher.NewKafkaPublisher(logger.Named("publisher"), cfg.KafkaTopic, kafkaWriter)
		if err != nil {
			return fmt.Errorf("init publisher: %w", err)
		}
		defer func() {
			if closeErr := pub.Close(); closeErr != nil {
				logger.Error("close publisher", zap.Error(closeErr))
			}
		}()
		fresh.AddSink(pub)
	}

	printer := display.NewPrinter(os.Stdout, monCfg.Formats.ScreenFmt, monCfg.Display.Accounting).
		WithColor(monCfg.Display.Color)
	reader, err := cachereader.NewService(logger.Named("cachereader"), printer)
	if err != nil {
		return fmt.Errorf("init cache reader: %w", err)
	}

	svc, err := monitor.NewService(logger.Named("monitor"), os.Stdout, lock, reader, fresh)
	if err != nil {
		return fmt.Errorf("init monitor: %w", err)
	}

	_, err = svc.Run(ctx, watches, monitor.Options{
		Program:   prog,
		Name:      name,
		CachePath: cachePath,
		ShowCache: cfg.has(modeShowCache),
		Freshen:   cfg.has(modeFreshen),
		Single:    monCfg.Display.Single,
		Override:  cfg.Block,
	})
	return err
}

func startMetricsServer(ctx context.Context, addr string, logger *zap.Logger) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())

	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		logger.Info("starting metrics server", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("metrics server failed", zap.Error(err))
		}
	}()

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("failed to shutdown metrics server", zap.Error(err))
		}
	}()
}
