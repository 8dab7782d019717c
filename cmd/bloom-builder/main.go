package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	geth "github.com/ethereum/go-ethereum/ethclient"
	"github.com/goodnatureofminers/acctmon/internal/acct/bloom"
	"github.com/goodnatureofminers/acctmon/internal/acct/ethereum"
	"github.com/goodnatureofminers/acctmon/internal/acct/service/bloombuilder"
	appconfig "github.com/goodnatureofminers/acctmon/internal/config"
	"github.com/goodnatureofminers/acctmon/internal/metrics"
	"github.com/goodnatureofminers/acctmon/internal/pkg/ethclient"
	"github.com/goodnatureofminers/acctmon/pkg/cleanup"
	"github.com/jessevdk/go-flags"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

type config struct {
	Chain         string        `long:"chain" env:"BLOOM_BUILDER_CHAIN" description:"chain label for metrics" default:"mainnet"`
	RPCURL        string        `long:"rpc-url" env:"BLOOM_BUILDER_RPC_URL" description:"node JSON-RPC URL" default:"http://127.0.0.1:8545"`
	RPS           int           `long:"rps" env:"BLOOM_BUILDER_RPS" description:"node requests per second, 0 for unlimited" default:"50"`
	Workers       int           `long:"workers" env:"BLOOM_BUILDER_WORKERS" description:"concurrent block fetches" default:"8"`
	BloomDir      string        `long:"bloom-dir" env:"BLOOM_BUILDER_BLOOM_DIR" description:"bloom file directory" default:"blooms"`
	BloomSpan     uint64        `long:"bloom-span" env:"BLOOM_BUILDER_BLOOM_SPAN" description:"blocks per bloom file" default:"1000"`
	StartBlock    uint64        `long:"start-block" env:"BLOOM_BUILDER_START_BLOCK" description:"first block to index when the directory is empty"`
	Confirmations uint64        `long:"confirmations" env:"BLOOM_BUILDER_CONFIRMATIONS" description:"blocks to stay behind the chain head" default:"12"`
	Follow        bool          `long:"follow" env:"BLOOM_BUILDER_FOLLOW" description:"keep extending the index as the chain grows"`
	PollInterval  time.Duration `long:"poll-interval" env:"BLOOM_BUILDER_POLL_INTERVAL" description:"interval between builds in follow mode" default:"15s"`
	LogLevel      string        `long:"log-level" env:"BLOOM_BUILDER_LOG_LEVEL" description:"log level" default:"info"`
	LogFormat     string        `long:"log-format" env:"BLOOM_BUILDER_LOG_FORMAT" description:"log format" choice:"console" choice:"json" default:"console"`
	MetricsAddr   string        `long:"metrics-addr" env:"BLOOM_BUILDER_METRICS_ADDR" description:"address for metrics server" default:":2112"`
}

func main() {
	cfg := config{}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if _, err := flags.ParseArgs(&cfg, os.Args); err != nil {
		var ferr *flags.Error
		if errors.As(err, &ferr) && ferr.Type == flags.ErrHelp {
			return
		}
		fmt.Fprintf(os.Stderr, "failed to parse flags: %v\n", err)
		os.Exit(2)
	}

	logger, err := appconfig.NewLogger(appconfig.LogConfig{Level: cfg.LogLevel, Format: cfg.LogFormat})
	if err != nil {
		panic("can't initialize zap logger: " + err.Error())
	}
	defer func() {
		_ = logger.Sync()
	}()

	if err := run(ctx, cfg, logger); err != nil && !errors.Is(err, context.Canceled) {
		logger.Fatal("bloom builder failed", zap.Error(err))
	}
}

func run(ctx context.Context, cfg config, logger *zap.Logger) (err error) {
	startMetricsServer(ctx, cfg.MetricsAddr, logger)

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
	svc, err := bloombuilder.NewService(
		logger.Named("bloombuilder"),
		ethereum.NewSource(rpc),
		bloom.NewIndex(cfg.BloomDir, cfg.BloomSpan),
		registry,
		metrics.NewBloomBuilder(),
		bloombuilder.Options{
			StartBlock:    cfg.StartBlock,
			Confirmations: cfg.Confirmations,
			Workers:       cfg.Workers,
		},
	)
	if err != nil {
		return err
	}

	if cfg.Follow {
		return svc.Follow(ctx, cfg.PollInterval)
	}
	res, err := svc.Build(ctx)
	if err != nil {
		return err
	}
	logger.Info("bloom index built",
		zap.Bool("up_to_date", res.UpToDate),
		zap.Uint64("first", res.First),
		zap.Uint64("last", res.Last),
		zap.Int("files", res.Files),
		zap.Int("blocks", res.Blocks))
	return nil
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
