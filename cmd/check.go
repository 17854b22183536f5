package cmd

import (
	"fmt"

	"grimm.is/serac/internal/config"
)

// RunCheck validates the configuration file syntax and semantics.
func RunCheck(configFile string, verbose bool) error {
	if configFile == "" {
		return fmt.Errorf("usage: serac check [-v] <config-file>")
	}

	cfg, err := config.LoadFile(configFile)
	if err != nil {
		return fmt.Errorf("configuration invalid: %w", err)
	}

	fmt.Println("Configuration valid!")
	fmt.Printf("Listen address: %s\n", cfg.ListenAddr)
	fmt.Printf("Data directory: %s\n", cfg.DataDir)

	if verbose {
		fmt.Printf("WPA collection: %s\n", cfg.WPAConfigPath())
		fmt.Printf("WPA artifacts:  %s\n", cfg.WifiUplink.ConfDir)
		fmt.Printf("PPP collection: %s\n", cfg.PPPConfigPath())
		fmt.Printf("PPP artifacts:  %s\n", cfg.PPP.EtcDir)
		fmt.Printf("Registry DB:    %s\n", cfg.RegistryDBPath())
		fmt.Printf("Monitor targets: %v (every %ds)\n", cfg.Monitor.Targets, cfg.Monitor.IntervalSeconds)
		if cfg.WifiUplink.Daemon != "" {
			fmt.Printf("wpa_supplicant: %s %v\n", cfg.WifiUplink.Daemon, cfg.WifiUplink.DaemonArgs)
		}
		if cfg.PPP.Daemon != "" {
			fmt.Printf("pppd:           %s %v\n", cfg.PPP.Daemon, cfg.PPP.DaemonArgs)
		}
	}
	return nil
}
