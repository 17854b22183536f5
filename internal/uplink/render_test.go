package uplink

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRenderWPA(t *testing.T) {
	col := WifiCollection{WPAs: []WifiRecord{{
		Iface:   "wlan0",
		Enabled: true,
		Networks: []WifiNetwork{
			{SSID: "Home", Password: "secret123", KeyMgmt: DefaultKeyMgmt},
			{SSID: "Old", Password: "retired", KeyMgmt: DefaultKeyMgmt, Disabled: true},
		},
	}}}

	artifacts, err := RenderWPA("/etc/test", col)
	require.NoError(t, err)
	require.Len(t, artifacts, 1)
	require.Equal(t, filepath.Join("/etc/test", "wpa_wlan0.conf"), artifacts[0].Path)

	out := string(artifacts[0].Data)
	require.Contains(t, out, "ctrl_interface=DIR=/var/run/wpa_supplicant_wlan0")
	require.Contains(t, out, `ssid="Home"`)
	require.Contains(t, out, `psk="secret123"`)
	require.Contains(t, out, "key_mgmt=WPA-PSK WPA-PSK-SHA256")
	require.NotContains(t, out, `ssid="Old"`, "disabled networks must not be rendered")
	require.NotContains(t, out, "priority=")
	require.NotContains(t, out, "bssid=")
}

func TestRenderWPAOptionalFields(t *testing.T) {
	col := WifiCollection{WPAs: []WifiRecord{{
		Iface:   "wlan0",
		Enabled: true,
		Networks: []WifiNetwork{{
			SSID:     "Cabin",
			Password: "hunter2hunter2",
			KeyMgmt:  "SAE",
			Priority: "5",
			BSSID:    "aa:bb:cc:dd:ee:ff",
		}},
	}}}

	artifacts, err := RenderWPA(t.TempDir(), col)
	require.NoError(t, err)
	require.Len(t, artifacts, 1)

	out := string(artifacts[0].Data)
	require.Contains(t, out, "priority=5")
	require.Contains(t, out, "bssid=aa:bb:cc:dd:ee:ff")
	require.Contains(t, out, "key_mgmt=SAE")
}

func TestRenderWPASkipsDisabledRecords(t *testing.T) {
	col := WifiCollection{WPAs: []WifiRecord{
		{Iface: "wlan0", Enabled: false, Networks: []WifiNetwork{{SSID: "Home", Password: "secret123", KeyMgmt: DefaultKeyMgmt}}},
		{Iface: "wlan1", Enabled: true, Networks: []WifiNetwork{{SSID: "Shop", Password: "secret456", KeyMgmt: DefaultKeyMgmt}}},
	}}

	artifacts, err := RenderWPA("/etc/test", col)
	require.NoError(t, err)
	require.Len(t, artifacts, 1)
	require.Equal(t, filepath.Join("/etc/test", "wpa_wlan1.conf"), artifacts[0].Path)
}

func TestRenderPPP(t *testing.T) {
	col := PPPCollection{PPPs: []PPPRecord{
		{Iface: "eth0", Enabled: true, Username: "alice@isp", Secret: "pw1", VLAN: "7", MTU: "1492"},
		{Iface: "eth1", Enabled: false, Username: "bob@isp", Secret: "pw2"},
	}}

	artifacts, err := RenderPPP("/etc/ppp", col)
	require.NoError(t, err)
	require.Len(t, artifacts, 3)

	byPath := map[string]string{}
	for _, a := range artifacts {
		byPath[a.Path] = string(a.Data)
	}

	secrets, ok := byPath[filepath.Join("/etc/ppp", "chap-secrets")]
	require.True(t, ok)
	require.Contains(t, secrets, `"alice@isp" * "pw1"`)
	require.Contains(t, secrets, `"bob@isp" * "pw2"`, "disabled records still contribute credentials")

	provider0 := byPath[filepath.Join("/etc/ppp", "provider_eth0")]
	require.Contains(t, provider0, "plugin rp-pppoe.so eth0.7")
	require.Contains(t, provider0, "mtu 1492")
	require.Contains(t, provider0, `user "alice@isp"`)

	provider1 := byPath[filepath.Join("/etc/ppp", "provider_eth1")]
	require.Contains(t, provider1, "plugin rp-pppoe.so eth1\n")
	require.NotContains(t, provider1, "mtu ")

	for _, opt := range []string{"noipdefault", "defaultroute", "replacedefaultroute", "persist"} {
		require.Contains(t, provider0, opt)
	}
}
