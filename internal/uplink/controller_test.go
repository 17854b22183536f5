package uplink

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"grimm.is/serac/internal/registry"
)

type fakeRegistry struct {
	updates  int
	failWith error
	lastName string
	lastType string
	lastSub  string
	lastOn   bool
}

func (f *fakeRegistry) GetInterfaces() ([]registry.InterfaceRecord, error) {
	return nil, nil
}

func (f *fakeRegistry) UpdateInterfaceType(name, ifaceType, subtype string, enabled bool) ([]registry.InterfaceRecord, error) {
	f.updates++
	if f.failWith != nil {
		return nil, f.failWith
	}
	f.lastName, f.lastType, f.lastSub, f.lastOn = name, ifaceType, subtype, enabled
	return []registry.InterfaceRecord{{Name: name, Type: ifaceType, Subtype: subtype, Enabled: enabled}}, nil
}

type fakePlugins struct {
	freshStart bool
	enabled    []string
	restarted  []string
}

func (f *fakePlugins) EnablePlugin(name string) bool {
	f.enabled = append(f.enabled, name)
	return f.freshStart
}

func (f *fakePlugins) RestartPlugin(name string) {
	f.restarted = append(f.restarted, name)
}

type fakeAddrs struct {
	iface  string
	noDHCP bool
	ip     string
	router string
	err    error
}

func (f *fakeAddrs) UpdateInterfaceAddr(name string, disableDHCP bool, ip, router string) error {
	if f.err != nil {
		return f.err
	}
	f.iface, f.noDHCP, f.ip, f.router = name, disableDHCP, ip, router
	return nil
}

func testController(t *testing.T, reg registry.Registry, plugins PluginManager, addrs AddressUpdater) (*Controller, string) {
	t.Helper()
	dir := t.TempDir()
	wifi := NewWifiStore(filepath.Join(dir, "wpa.json"), filepath.Join(dir, "conf"), nil)
	ppp := NewPPPStore(filepath.Join(dir, "ppp.json"), filepath.Join(dir, "etc"), nil)
	return NewController(wifi, ppp, reg, addrs, plugins, nil), dir
}

func validWifiRecord() WifiRecord {
	return WifiRecord{
		Iface:    "wlan0",
		Enabled:  true,
		Networks: []WifiNetwork{{SSID: "Home", Password: "secret123", KeyMgmt: DefaultKeyMgmt}},
	}
}

func TestUpdateWifiUplinkInvalidSkipsRegistry(t *testing.T) {
	reg := &fakeRegistry{}
	c, dir := testController(t, reg, &fakePlugins{}, nil)

	rec := validWifiRecord()
	rec.Networks[0].Password = "bad\npsk"

	err := c.UpdateWifiUplink(rec)
	require.ErrorIs(t, err, ErrInvalidField)
	require.Zero(t, reg.updates, "validation failure must not reach the registry")

	_, statErr := os.Stat(filepath.Join(dir, "wpa.json"))
	require.True(t, os.IsNotExist(statErr), "validation failure must not persist anything")
}

func TestUpdateWifiUplinkRegistryErrorSkipsStore(t *testing.T) {
	reg := &fakeRegistry{failWith: errors.New("db locked")}
	c, dir := testController(t, reg, &fakePlugins{}, nil)

	err := c.UpdateWifiUplink(validWifiRecord())
	require.ErrorIs(t, err, ErrRegistry)

	_, statErr := os.Stat(filepath.Join(dir, "wpa.json"))
	require.True(t, os.IsNotExist(statErr), "registry failure must not persist anything")
}

func TestUpdateWifiUplinkFreshStart(t *testing.T) {
	reg := &fakeRegistry{}
	plugins := &fakePlugins{freshStart: true}
	c, _ := testController(t, reg, plugins, nil)

	require.NoError(t, c.UpdateWifiUplink(validWifiRecord()))

	require.Equal(t, []string{WifiPluginName}, plugins.enabled)
	require.Empty(t, plugins.restarted, "a freshly started daemon is not restarted")
	require.Equal(t, registry.TypeUplink, reg.lastType)
	require.Equal(t, registry.SubtypeWifi, reg.lastSub)
	require.True(t, reg.lastOn)
}

func TestUpdateWifiUplinkRestartsRunningDaemon(t *testing.T) {
	plugins := &fakePlugins{freshStart: false}
	c, _ := testController(t, &fakeRegistry{}, plugins, nil)

	require.NoError(t, c.UpdateWifiUplink(validWifiRecord()))

	require.Equal(t, []string{WifiPluginName}, plugins.enabled)
	require.Equal(t, []string{WifiPluginName}, plugins.restarted)
}

func TestUpdateWifiUplinkAllNetworksDisabled(t *testing.T) {
	reg := &fakeRegistry{}
	plugins := &fakePlugins{freshStart: true}
	c, _ := testController(t, reg, plugins, nil)

	rec := validWifiRecord()
	rec.Enabled = false
	rec.Networks[0].Disabled = true

	require.NoError(t, c.UpdateWifiUplink(rec))

	require.False(t, reg.lastOn)
	require.Empty(t, plugins.enabled, "nothing active, no enable attempt")
	require.Equal(t, []string{WifiPluginName}, plugins.restarted, "restart lets the daemon drop the interface")
}

func TestUpdateWifiUplinkDisabledRecordOmitsArtifact(t *testing.T) {
	plugins := &fakePlugins{freshStart: true}
	c, dir := testController(t, &fakeRegistry{}, plugins, nil)

	require.NoError(t, c.UpdateWifiUplink(validWifiRecord()))
	_, err := os.Stat(filepath.Join(dir, "conf", "wpa_wlan0.conf"))
	require.NoError(t, err)

	// Resubmit disabled but with the same still-active network list:
	// the registry records it disabled, the stored record mirrors that,
	// and the regenerated artifact set omits the interface. The daemon
	// kick still follows the network list.
	rec := validWifiRecord()
	rec.Enabled = false
	plugins.freshStart = false
	require.NoError(t, c.UpdateWifiUplink(rec))

	col, err := c.WifiConfig()
	require.NoError(t, err)
	require.False(t, col.WPAs[0].Enabled)
	require.Equal(t, []string{WifiPluginName, WifiPluginName}, plugins.enabled)
	require.Equal(t, []string{WifiPluginName}, plugins.restarted)
}

func TestUpdateWifiUplinkRenderFailure(t *testing.T) {
	plugins := &fakePlugins{freshStart: true}
	c, dir := testController(t, &fakeRegistry{}, plugins, nil)

	// Block the artifact directory so rendering fails after the
	// document is persisted.
	require.NoError(t, os.WriteFile(filepath.Join(dir, "conf"), []byte("in the way"), 0600))

	err := c.UpdateWifiUplink(validWifiRecord())
	require.ErrorIs(t, err, ErrRender)
	require.Empty(t, plugins.enabled, "no daemon kick when artifacts cannot be written")
	require.Empty(t, plugins.restarted)
}

func TestUpdateWifiUplinkDefaultsKeyMgmt(t *testing.T) {
	c, _ := testController(t, &fakeRegistry{}, &fakePlugins{freshStart: true}, nil)

	rec := validWifiRecord()
	rec.Networks[0].KeyMgmt = ""
	require.NoError(t, c.UpdateWifiUplink(rec))

	col, err := c.WifiConfig()
	require.NoError(t, err)
	require.Len(t, col.WPAs, 1)
	require.Equal(t, DefaultKeyMgmt, col.WPAs[0].Networks[0].KeyMgmt)
}

func TestUpdatePppUplink(t *testing.T) {
	reg := &fakeRegistry{}
	plugins := &fakePlugins{freshStart: true}
	c, dir := testController(t, reg, plugins, nil)

	rec := PPPRecord{Iface: "eth0", Enabled: true, Username: "alice@isp", Secret: "pw1", VLAN: "7"}
	require.NoError(t, c.UpdatePppUplink(rec))

	require.Equal(t, registry.SubtypePPP, reg.lastSub)
	require.True(t, reg.lastOn)
	require.Equal(t, []string{PPPPluginName}, plugins.enabled)
	require.Empty(t, plugins.restarted)

	provider, err := os.ReadFile(filepath.Join(dir, "etc", "provider_eth0"))
	require.NoError(t, err)
	require.Contains(t, string(provider), "plugin rp-pppoe.so eth0.7")
}

func TestUpdatePppUplinkRestartsRunningDaemon(t *testing.T) {
	plugins := &fakePlugins{freshStart: false}
	c, _ := testController(t, &fakeRegistry{}, plugins, nil)

	rec := PPPRecord{Iface: "eth0", Username: "alice@isp", Secret: "pw1"}
	require.NoError(t, c.UpdatePppUplink(rec))

	require.Equal(t, []string{PPPPluginName}, plugins.enabled)
	require.Equal(t, []string{PPPPluginName}, plugins.restarted)
}

func TestUpdatePppUplinkInvalid(t *testing.T) {
	tests := []struct {
		name string
		rec  PPPRecord
	}{
		{"missing username", PPPRecord{Iface: "eth0", Secret: "pw1"}},
		{"non-numeric vlan", PPPRecord{Iface: "eth0", Username: "alice@isp", Secret: "pw1", VLAN: "abc"}},
		{"bad iface name", PPPRecord{Iface: "eth0/../etc", Username: "alice@isp", Secret: "pw1"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reg := &fakeRegistry{}
			c, dir := testController(t, reg, &fakePlugins{}, nil)

			err := c.UpdatePppUplink(tt.rec)
			require.ErrorIs(t, err, ErrInvalidField)
			require.Zero(t, reg.updates, "validation failure must not reach the registry")

			_, statErr := os.Stat(filepath.Join(dir, "ppp.json"))
			require.True(t, os.IsNotExist(statErr), "validation failure must not persist anything")
		})
	}
}

func TestUpdateIPConfig(t *testing.T) {
	addrs := &fakeAddrs{}
	c, _ := testController(t, &fakeRegistry{}, &fakePlugins{}, addrs)

	cfg := IPConfig{Iface: "eth0", DisableDHCP: true, IP: "192.0.2.10/24", Router: "192.0.2.1"}
	require.NoError(t, c.UpdateIPConfig(cfg))
	require.Equal(t, "eth0", addrs.iface)
	require.True(t, addrs.noDHCP)
	require.Equal(t, "192.0.2.10/24", addrs.ip)

	addrs.err = errors.New("no such interface")
	require.ErrorIs(t, c.UpdateIPConfig(cfg), ErrRegistry)
}

func TestConfigGettersMissingFiles(t *testing.T) {
	c, _ := testController(t, &fakeRegistry{}, &fakePlugins{}, nil)

	wifi, err := c.WifiConfig()
	require.NoError(t, err)
	require.Empty(t, wifi.WPAs)

	ppp, err := c.PPPConfig()
	require.NoError(t, err)
	require.Empty(t, ppp.PPPs)
}
