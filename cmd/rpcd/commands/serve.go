package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/VestaKK/rpcbridge/internal/config"
	"github.com/VestaKK/rpcbridge/internal/logger"
	"github.com/VestaKK/rpcbridge/internal/metrics"
	"github.com/VestaKK/rpcbridge/internal/payload"
	"github.com/VestaKK/rpcbridge/internal/telemetry"
	"github.com/VestaKK/rpcbridge/pkg/rpcserver"
	"github.com/spf13/cobra"
)

var (
	flagPort    int
	flagWorkers int
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the rpcbridge server",
	Long: `Loads configuration (file, then RPCBRIDGE_* environment variables,
then these flags, in ascending precedence), registers the built-in demo
procedures (echo, sum), and serves connections until interrupted.`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().IntVar(&flagPort, "port", 0, "listen port (overrides config)")
	serveCmd.Flags().IntVar(&flagWorkers, "workers", 0, "worker pool size (overrides config)")
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(ConfigFile())
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if flagPort != 0 {
		cfg.Server.Port = flagPort
	}
	if flagWorkers != 0 {
		cfg.Server.Workers = flagWorkers
	}
	if err := config.Validate(cfg); err != nil {
		return err
	}

	if err := logger.Init(logger.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Output: cfg.Logging.Output,
	}); err != nil {
		return fmt.Errorf("init logger: %w", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	telemetryShutdown, err := telemetry.Init(ctx, telemetry.Config{
		Enabled:        cfg.Telemetry.Enabled,
		ServiceName:    "rpcd",
		ServiceVersion: Version,
		Endpoint:       cfg.Telemetry.Endpoint,
		Insecure:       cfg.Telemetry.Insecure,
		SampleRate:     cfg.Telemetry.SampleRate,
	})
	if err != nil {
		return fmt.Errorf("init telemetry: %w", err)
	}
	defer func() {
		if err := telemetryShutdown(ctx); err != nil {
			logger.Error("telemetry shutdown error", logger.Err(err))
		}
	}()

	var rpcMetrics *metrics.RPCMetrics
	if cfg.Metrics.Enabled {
		metrics.InitRegistry()
		rpcMetrics = metrics.NewRPCMetrics()
		go func() {
			if err := metrics.Serve(ctx, cfg.Metrics.Addr); err != nil {
				logger.Error("metrics server error", logger.Err(err))
			}
		}()
		logger.Info("metrics enabled", "addr", cfg.Metrics.Addr)
	}

	go func() {
		if err := config.WatchConfig(ctx, ConfigFile()); err != nil {
			logger.Error("config watch error", logger.Err(err))
		}
	}()

	srv, err := rpcserver.NewServer(rpcserver.Config{
		Port:    cfg.Server.Port,
		Workers: cfg.Server.Workers,
		Metrics: rpcMetrics,
		Tracer:  telemetry.NewAdapter(),
	})
	if err != nil {
		return fmt.Errorf("new server: %w", err)
	}
	registerDemoProcedures(srv)

	logger.Info("rpcd starting", "addr", srv.Addr(), "workers", cfg.Server.Workers)

	serverDone := make(chan error, 1)
	go func() { serverDone <- srv.Serve(ctx) }()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-sigCh:
		signal.Stop(sigCh)
		logger.Info("shutdown signal received")
		cancel()
		srv.Stop()
		if err := <-serverDone; err != nil {
			return err
		}
	case err := <-serverDone:
		signal.Stop(sigCh)
		if err != nil {
			return err
		}
	}

	logger.Info("rpcd stopped")
	return nil
}

// registerDemoProcedures installs the sample handlers exercised by rpcc's
// scripted commands and the end-to-end tests: echo returns its input
// unchanged, and sum folds a buffer's bytes into the integer field.
func registerDemoProcedures(srv *rpcserver.Server) {
	_ = srv.Register("echo", func(in *payload.Payload) (*payload.Payload, error) {
		return in, nil
	})
	_ = srv.Register("sum", func(in *payload.Payload) (*payload.Payload, error) {
		var total int64
		for _, b := range in.Buffer {
			total += int64(b)
		}
		return &payload.Payload{Int: total}, nil
	})
}
