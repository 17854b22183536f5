// Package config provides HCL configuration handling for the uplink
// configuration daemon.
package config

import (
	"fmt"
	"path/filepath"
)

// Config is the top-level structure for the daemon configuration.
type Config struct {
	// ListenAddr is the address the HTTP API binds to.
	ListenAddr string `hcl:"listen_addr,optional" json:"listen_addr,omitempty"`

	// DataDir holds the persisted JSON collections and the registry database.
	DataDir string `hcl:"data_dir,optional" json:"data_dir,omitempty"`

	WifiUplink *WifiUplinkConfig `hcl:"wifi_uplink,block" json:"wifi_uplink,omitempty"`
	PPP        *PPPConfig        `hcl:"ppp,block" json:"ppp,omitempty"`
	Monitor    *MonitorConfig    `hcl:"monitor,block" json:"monitor,omitempty"`
	Log        *LogConfig        `hcl:"log,block" json:"log,omitempty"`
}

// WifiUplinkConfig configures the WPA supplicant uplink technology.
type WifiUplinkConfig struct {
	// ConfDir is where per-interface wpa_<iface>.conf artifacts are written.
	ConfDir string `hcl:"conf_dir,optional" json:"conf_dir,omitempty"`

	// Daemon is the wpa_supplicant binary. Empty means the daemon is
	// managed externally and plugin calls only log.
	Daemon     string   `hcl:"daemon,optional" json:"daemon,omitempty"`
	DaemonArgs []string `hcl:"daemon_args,optional" json:"daemon_args,omitempty"`
}

// PPPConfig configures the PPP/PPPoE uplink technology.
type PPPConfig struct {
	// EtcDir is where chap-secrets and provider_<iface> artifacts are
	// written. On a router image this is typically a mount of /etc/ppp.
	EtcDir string `hcl:"etc_dir,optional" json:"etc_dir,omitempty"`

	Daemon     string   `hcl:"daemon,optional" json:"daemon,omitempty"`
	DaemonArgs []string `hcl:"daemon_args,optional" json:"daemon_args,omitempty"`
}

// MonitorConfig configures background uplink reachability probes.
type MonitorConfig struct {
	Targets         []string `hcl:"targets,optional" json:"targets,omitempty"`
	IntervalSeconds int      `hcl:"interval_seconds,optional" json:"interval_seconds,omitempty"`
}

// LogConfig configures logging output.
type LogConfig struct {
	Level  string `hcl:"level,optional" json:"level,omitempty"`
	Format string `hcl:"format,optional" json:"format,omitempty"` // "console" or "json"
}

// Default returns a config populated with defaults.
func Default() *Config {
	cfg := &Config{}
	cfg.ApplyDefaults()
	return cfg
}

// ApplyDefaults fills in zero-valued fields.
func (c *Config) ApplyDefaults() {
	if c.ListenAddr == "" {
		c.ListenAddr = "127.0.0.1:8480"
	}
	if c.DataDir == "" {
		c.DataDir = "/var/lib/serac"
	}
	if c.WifiUplink == nil {
		c.WifiUplink = &WifiUplinkConfig{}
	}
	if c.WifiUplink.ConfDir == "" {
		c.WifiUplink.ConfDir = filepath.Join(c.DataDir, "wifi_uplink")
	}
	if c.PPP == nil {
		c.PPP = &PPPConfig{}
	}
	if c.PPP.EtcDir == "" {
		c.PPP.EtcDir = "/etc/ppp"
	}
	if c.Monitor == nil {
		c.Monitor = &MonitorConfig{}
	}
	if c.Monitor.IntervalSeconds == 0 {
		c.Monitor.IntervalSeconds = 30
	}
	if c.Log == nil {
		c.Log = &LogConfig{}
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "console"
	}
}

// Validate checks the configuration for inconsistencies.
func (c *Config) Validate() error {
	switch c.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid log level %q (must be debug, info, warn or error)", c.Log.Level)
	}
	switch c.Log.Format {
	case "console", "json":
	default:
		return fmt.Errorf("invalid log format %q (must be console or json)", c.Log.Format)
	}
	if c.Monitor.IntervalSeconds < 0 {
		return fmt.Errorf("monitor interval_seconds must be non-negative")
	}
	return nil
}

// WPAConfigPath is the fixed path of the persisted WPA collection.
func (c *Config) WPAConfigPath() string {
	return filepath.Join(c.DataDir, "wifi_uplink", "wpa.json")
}

// PPPConfigPath is the fixed path of the persisted PPP collection.
func (c *Config) PPPConfigPath() string {
	return filepath.Join(c.DataDir, "ppp", "ppp.json")
}

// RegistryDBPath is the interface registry database path.
func (c *Config) RegistryDBPath() string {
	return filepath.Join(c.DataDir, "registry.db")
}
