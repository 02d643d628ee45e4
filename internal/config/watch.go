package config

import (
	"context"
	"log/slog"

	"github.com/VestaKK/rpcbridge/internal/logger"
	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
)

// WatchConfig watches the file at configPath for changes and applies any
// new logging level/format to the running logger. Listen port and worker
// pool size are read once at startup and are never hot-reloaded — the
// dispatcher's worker count is fixed for the lifetime of a Serve call.
//
// WatchConfig blocks until ctx is cancelled. It is a no-op if configPath
// is empty, since there is nothing on disk to watch.
func WatchConfig(ctx context.Context, configPath string) error {
	if configPath == "" {
		return nil
	}

	v := viper.New()
	v.SetConfigFile(configPath)
	if err := v.ReadInConfig(); err != nil {
		return err
	}

	v.OnConfigChange(func(fsnotify.Event) {
		var cfg Config
		if err := v.Unmarshal(&cfg, viper.DecodeHook(durationDecodeHook())); err != nil {
			logger.Error("config reload failed", logger.Err(err))
			return
		}
		ApplyDefaults(&cfg)
		if err := Validate(&cfg); err != nil {
			logger.Error("config reload produced an invalid config, keeping previous", logger.Err(err))
			return
		}

		logger.SetLevel(cfg.Logging.Level)
		logger.SetFormat(cfg.Logging.Format)
		logger.Info("configuration reloaded", slog.String("level", cfg.Logging.Level), slog.String("format", cfg.Logging.Format))
	})
	v.WatchConfig()

	<-ctx.Done()
	return nil
}
