package uplink

import (
	"errors"
	"io/fs"

	"grimm.is/serac/internal/logging"
	"grimm.is/serac/internal/metrics"
	"grimm.is/serac/internal/registry"
	"grimm.is/serac/internal/validation"
)

// Plugin names as the service orchestrator knows them.
const (
	WifiPluginName = "WIFI-UPLINK"
	PPPPluginName  = "PPP"
)

// PluginManager starts and restarts the daemons that consume rendered
// artifacts. EnablePlugin reports whether the plugin was freshly
// started; an already-running plugin returns false so callers can
// decide between "leave it" and "restart it".
type PluginManager interface {
	EnablePlugin(name string) bool
	RestartPlugin(name string)
}

// AddressUpdater applies a static IP assignment to an interface record.
type AddressUpdater interface {
	UpdateInterfaceAddr(name string, disableDHCP bool, ip, router string) error
}

// IPConfig is a static address assignment for a single interface.
type IPConfig struct {
	Iface       string `json:"Iface"`
	DisableDHCP bool   `json:"DisableDHCP"`
	IP          string `json:"IP"`
	Router      string `json:"Router"`
}

// Controller sequences uplink updates: validate, register, merge, kick
// the daemon. It holds no record state of its own; the stores do.
type Controller struct {
	wifi    *WifiStore
	ppp     *PPPStore
	reg     registry.Registry
	addrs   AddressUpdater
	plugins PluginManager
	logger  *logging.Logger
}

// NewController wires the stores, the interface registry and the plugin
// manager together. addrs may be nil when static IP assignment is not
// exposed.
func NewController(wifi *WifiStore, ppp *PPPStore, reg registry.Registry, addrs AddressUpdater, plugins PluginManager, logger *logging.Logger) *Controller {
	if logger == nil {
		logger = logging.Default()
	}
	return &Controller{
		wifi:    wifi,
		ppp:     ppp,
		reg:     reg,
		addrs:   addrs,
		plugins: plugins,
		logger:  logger.WithComponent("uplink"),
	}
}

// WifiConfig returns the persisted wifi collection. A document that was
// never written yields an empty collection; an unreadable one is an
// error.
func (c *Controller) WifiConfig() (WifiCollection, error) {
	col, err := c.wifi.Load()
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return WifiCollection{WPAs: []WifiRecord{}}, nil
		}
		return col, err
	}
	return col, nil
}

// PPPConfig returns the persisted ppp collection. A document that was
// never written yields an empty collection; an unreadable one is an
// error.
func (c *Controller) PPPConfig() (PPPCollection, error) {
	col, err := c.ppp.Load()
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return PPPCollection{PPPs: []PPPRecord{}}, nil
		}
		return col, err
	}
	return col, nil
}

// UpdateWifiUplink validates rec, registers the interface, merges the
// record into the persisted collection (regenerating artifacts), and
// starts or restarts wpa_supplicant depending on whether any network in
// the record is active.
func (c *Controller) UpdateWifiUplink(rec WifiRecord) error {
	m := metrics.Get()

	if err := validation.ValidateUplinkIfaceName(rec.Iface); err != nil {
		m.UplinkUpdates.WithLabelValues("wifi", "invalid").Inc()
		return invalidFieldErr(err)
	}

	// anyActive tracks whether at least one network in the record is
	// usable; it drives the daemon kick, not the stored Enabled flag.
	anyActive := false
	for i := range rec.Networks {
		n := &rec.Networks[i]
		if n.KeyMgmt == "" {
			n.KeyMgmt = DefaultKeyMgmt
		}
		if err := ValidateWifiNetwork(*n); err != nil {
			m.UplinkUpdates.WithLabelValues("wifi", "invalid").Inc()
			return err
		}
		if !n.Disabled {
			anyActive = true
		}
	}

	interfaces, err := c.reg.UpdateInterfaceType(rec.Iface, registry.TypeUplink, registry.SubtypeWifi, rec.Enabled)
	if err != nil {
		m.UplinkUpdates.WithLabelValues("wifi", "registry_error").Inc()
		return registryErr(err)
	}

	if err := c.wifi.Merge(interfaces, rec); err != nil {
		m.UplinkUpdates.WithLabelValues("wifi", mergeOutcome(err)).Inc()
		return err
	}

	started := false
	if anyActive {
		started = c.plugins.EnablePlugin(WifiPluginName)
	}
	// Even if every network was disabled, restart so the daemon drops
	// the old configuration.
	if !started {
		c.plugins.RestartPlugin(WifiPluginName)
	}

	m.UplinkUpdates.WithLabelValues("wifi", "ok").Inc()
	c.logger.Info("wifi uplink updated", "iface", rec.Iface, "enabled", rec.Enabled, "networks", len(rec.Networks))
	return nil
}

// UpdatePppUplink validates rec, registers the interface, merges the
// record into the persisted collection (regenerating chap-secrets and
// provider files), and starts or restarts pppd.
func (c *Controller) UpdatePppUplink(rec PPPRecord) error {
	m := metrics.Get()

	if err := validation.ValidateUplinkIfaceName(rec.Iface); err != nil {
		m.UplinkUpdates.WithLabelValues("ppp", "invalid").Inc()
		return invalidFieldErr(err)
	}
	if err := ValidatePPPRecord(rec); err != nil {
		m.UplinkUpdates.WithLabelValues("ppp", "invalid").Inc()
		return err
	}

	interfaces, err := c.reg.UpdateInterfaceType(rec.Iface, registry.TypeUplink, registry.SubtypePPP, rec.Enabled)
	if err != nil {
		m.UplinkUpdates.WithLabelValues("ppp", "registry_error").Inc()
		return registryErr(err)
	}

	if err := c.ppp.Merge(interfaces, rec); err != nil {
		m.UplinkUpdates.WithLabelValues("ppp", mergeOutcome(err)).Inc()
		return err
	}

	if started := c.plugins.EnablePlugin(PPPPluginName); !started {
		c.plugins.RestartPlugin(PPPPluginName)
	}

	m.UplinkUpdates.WithLabelValues("ppp", "ok").Inc()
	c.logger.Info("ppp uplink updated", "iface", rec.Iface, "vlan", rec.VLAN)
	return nil
}

// UpdateIPConfig applies a static address assignment to the interface
// registry. The interface's role is preserved.
func (c *Controller) UpdateIPConfig(cfg IPConfig) error {
	if err := validation.ValidateUplinkIfaceName(cfg.Iface); err != nil {
		return invalidFieldErr(err)
	}
	if c.addrs == nil {
		return registryErr(errors.New("address updates not supported"))
	}
	if err := c.addrs.UpdateInterfaceAddr(cfg.Iface, cfg.DisableDHCP, cfg.IP, cfg.Router); err != nil {
		return registryErr(err)
	}
	c.logger.Info("interface address updated", "iface", cfg.Iface, "ip", cfg.IP)
	return nil
}

// PreviewWifi returns the on-disk and would-be-rendered wpa_supplicant
// config for iface.
func (c *Controller) PreviewWifi(iface string) (onDisk, rendered []byte, err error) {
	if err := validation.ValidateUplinkIfaceName(iface); err != nil {
		return nil, nil, invalidFieldErr(err)
	}
	return c.wifi.Preview(iface)
}

// PreviewPPP returns the on-disk and would-be-rendered provider file
// for iface.
func (c *Controller) PreviewPPP(iface string) (onDisk, rendered []byte, err error) {
	if err := validation.ValidateUplinkIfaceName(iface); err != nil {
		return nil, nil, invalidFieldErr(err)
	}
	return c.ppp.Preview(iface)
}

func mergeOutcome(err error) string {
	switch {
	case errors.Is(err, ErrRender):
		return "render_error"
	case errors.Is(err, ErrPersistence):
		return "persist_error"
	default:
		return "error"
	}
}
