package config

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoadHCL(t *testing.T) {
	data := []byte(`
listen_addr = "0.0.0.0:9000"
data_dir    = "/tmp/serac-test"

wifi_uplink {
  conf_dir = "/tmp/serac-test/wpa"
  daemon   = "/usr/sbin/wpa_supplicant"
}

ppp {
  etc_dir = "/tmp/serac-test/etc/ppp"
}

monitor {
  targets          = ["1.1.1.1", "9.9.9.9"]
  interval_seconds = 10
}

log {
  level = "debug"
}
`)

	cfg, err := LoadHCL(data, "test.hcl")
	require.NoError(t, err)

	require.Equal(t, "0.0.0.0:9000", cfg.ListenAddr)
	require.Equal(t, "/tmp/serac-test/wpa", cfg.WifiUplink.ConfDir)
	require.Equal(t, "/tmp/serac-test/etc/ppp", cfg.PPP.EtcDir)
	require.Equal(t, []string{"1.1.1.1", "9.9.9.9"}, cfg.Monitor.Targets)
	require.Equal(t, 10, cfg.Monitor.IntervalSeconds)
	require.Equal(t, "debug", cfg.Log.Level)

	// Derived paths hang off data_dir.
	require.Equal(t, filepath.Join("/tmp/serac-test", "wifi_uplink", "wpa.json"), cfg.WPAConfigPath())
	require.Equal(t, filepath.Join("/tmp/serac-test", "ppp", "ppp.json"), cfg.PPPConfigPath())
}

func TestLoadHCLDefaults(t *testing.T) {
	cfg, err := LoadHCL([]byte(``), "empty.hcl")
	require.NoError(t, err)

	require.Equal(t, "127.0.0.1:8480", cfg.ListenAddr)
	require.Equal(t, "/var/lib/serac", cfg.DataDir)
	require.Equal(t, "/etc/ppp", cfg.PPP.EtcDir)
	require.Equal(t, 30, cfg.Monitor.IntervalSeconds)
	require.Equal(t, "info", cfg.Log.Level)
	require.Equal(t, "console", cfg.Log.Format)
}

func TestLoadJSON(t *testing.T) {
	data := []byte(`{"listen_addr": "127.0.0.1:8999", "log": {"level": "warn"}}`)
	cfg, err := LoadJSON(data)
	require.NoError(t, err)
	require.Equal(t, "127.0.0.1:8999", cfg.ListenAddr)
	require.Equal(t, "warn", cfg.Log.Level)
}

func TestValidateRejectsBadLevel(t *testing.T) {
	cfg := Default()
	cfg.Log.Level = "verbose"
	require.Error(t, cfg.Validate())
}

func TestValidateRejectsBadFormat(t *testing.T) {
	cfg := Default()
	cfg.Log.Format = "logfmt"
	require.Error(t, cfg.Validate())
}
