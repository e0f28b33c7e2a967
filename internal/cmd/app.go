package cmd

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/KyberNetwork/logger"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	txsubmitter "github.com/switchboard-xyz/aptos-txsubmitter"
	"github.com/switchboard-xyz/aptos-txsubmitter/internal/config"
	redisstore "github.com/switchboard-xyz/aptos-txsubmitter/persistence/redis"
)

// app holds everything a command needs, built from the config file and flags
type app struct {
	cfg       *config.Config
	network   txsubmitter.Network
	submitter *txsubmitter.Submitter
	txStore   *redisstore.TxStore

	redisClient   redis.UniversalClient
	metricsServer *http.Server
}

func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	if networkName != "" {
		cfg.Network.Name = networkName
		// preset endpoints belong to the preset, not to the network named on the command line
		cfg.Network.NodeURL = ""
		cfg.Network.FaucetURL = ""
		cfg.Network.ChainID = 0
	}
	return cfg, nil
}

// newApp builds the submitter. overrides runs on the loaded config before it is used.
func newApp(overrides ...func(*config.Config)) (*app, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	for _, override := range overrides {
		override(cfg)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	defaults, err := cfg.SubmitterDefaults()
	if err != nil {
		return nil, err
	}

	a := &app{cfg: cfg, network: defaults.Network}
	opts := []txsubmitter.SubmitterOption{txsubmitter.WithDefaults(defaults)}

	if cfg.Redis.Addr != "" {
		a.redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		var storeOpts []redisstore.TxStoreOption
		if cfg.Redis.KeyPrefix != "" {
			storeOpts = append(storeOpts, redisstore.WithTxStoreKeyPrefix(cfg.Redis.KeyPrefix))
		}
		a.txStore = redisstore.NewTxStore(a.redisClient, storeOpts...)
		opts = append(opts, txsubmitter.WithTxStore(a.txStore))
	}

	if cfg.Metrics.Addr != "" {
		reg := prometheus.NewRegistry()
		opts = append(opts, txsubmitter.WithMetricsRegisterer(reg))
		if err := a.serveMetrics(reg); err != nil {
			a.close()
			return nil, err
		}
	}

	a.submitter = txsubmitter.NewSubmitter(opts...)
	return a, nil
}

func (a *app) serveMetrics(reg *prometheus.Registry) error {
	listener, err := net.Listen("tcp", a.cfg.Metrics.Addr)
	if err != nil {
		return fmt.Errorf("couldn't listen for metrics on %s: %w", a.cfg.Metrics.Addr, err)
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	a.metricsServer = &http.Server{Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	go func() {
		if err := a.metricsServer.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.WithFields(logger.Fields{
				"addr":  a.cfg.Metrics.Addr,
				"error": err,
			}).Error("Metrics server stopped")
		}
	}()
	return nil
}

func (a *app) close() {
	if a.metricsServer != nil {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		_ = a.metricsServer.Shutdown(ctx)
	}
	if a.redisClient != nil {
		_ = a.redisClient.Close()
	}
}
