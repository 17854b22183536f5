// Package cmd implements the serac subcommands.
package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"grimm.is/serac/internal/api"
	"grimm.is/serac/internal/config"
	"grimm.is/serac/internal/logging"
	"grimm.is/serac/internal/monitor"
	"grimm.is/serac/internal/registry"
	"grimm.is/serac/internal/services"
	"grimm.is/serac/internal/state"
	"grimm.is/serac/internal/uplink"
)

// RunServe loads the configuration and runs the daemon until SIGINT or
// SIGTERM.
func RunServe(configFile string) error {
	cfg, err := loadConfig(configFile)
	if err != nil {
		return err
	}

	logger := buildLogger(cfg)
	logging.SetDefault(logger)
	logger.Info("starting", "config", configFile, "listen", cfg.ListenAddr)

	if err := os.MkdirAll(cfg.DataDir, 0700); err != nil {
		return fmt.Errorf("creating data dir: %w", err)
	}

	store, err := state.Open(cfg.RegistryDBPath())
	if err != nil {
		return fmt.Errorf("opening registry database: %w", err)
	}
	defer store.Close()

	reg := registry.NewStore(store, logger)
	if names, err := registry.DiscoverLinkNames(); err != nil {
		logger.Warn("link discovery failed", "error", err)
	} else if err := reg.Seed(names); err != nil {
		return fmt.Errorf("seeding interface registry: %w", err)
	}

	orch := services.NewOrchestrator(logger)
	orch.Register(services.NewDaemonService(
		uplink.WifiPluginName, cfg.WifiUplink.Daemon, cfg.WifiUplink.DaemonArgs, logger))
	orch.Register(services.NewDaemonService(
		uplink.PPPPluginName, cfg.PPP.Daemon, cfg.PPP.DaemonArgs, logger))

	mon := monitor.New(cfg.Monitor.Targets,
		time.Duration(cfg.Monitor.IntervalSeconds)*time.Second, logger)
	orch.Register(mon)
	if len(cfg.Monitor.Targets) > 0 {
		if err := mon.Start(context.Background()); err != nil {
			logger.Warn("monitor start failed", "error", err)
		}
	}

	wifiStore := uplink.NewWifiStore(cfg.WPAConfigPath(), cfg.WifiUplink.ConfDir, logger)
	pppStore := uplink.NewPPPStore(cfg.PPPConfigPath(), cfg.PPP.EtcDir, logger)
	controller := uplink.NewController(wifiStore, pppStore, reg, reg, orch, logger)

	server := api.NewServer(controller, reg, orch, nil, logger)

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start(cfg.ListenAddr)
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		logger.Info("shutting down", "signal", sig.String())
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("api server: %w", err)
		}
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Warn("api shutdown failed", "error", err)
	}
	orch.StopAll(ctx)
	return nil
}

// loadConfig reads the config file, falling back to defaults when the
// file does not exist.
func loadConfig(configFile string) (*config.Config, error) {
	if _, err := os.Stat(configFile); os.IsNotExist(err) {
		logging.Warn("config file not found, using defaults", "path", configFile)
		return config.Default(), nil
	}
	cfg, err := config.LoadFile(configFile)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	return cfg, nil
}

func buildLogger(cfg *config.Config) *logging.Logger {
	logCfg := logging.DefaultConfig()
	switch cfg.Log.Level {
	case "debug":
		logCfg.Level = logging.LevelDebug
	case "warn":
		logCfg.Level = logging.LevelWarn
	case "error":
		logCfg.Level = logging.LevelError
	}
	logCfg.JSON = cfg.Log.Format == "json"
	return logging.New(logCfg)
}
