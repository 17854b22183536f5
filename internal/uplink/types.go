// Package uplink manages the persisted configuration of a router's
// outbound network connections: WiFi-client (WPA supplicant) links and
// PPP/PPPoE links. It owns the JSON collections on disk, regenerates the
// daemon-facing config files, and reconciles cached enablement state
// against the interface registry.
package uplink

// WifiNetwork is one known network within a WiFi uplink record.
type WifiNetwork struct {
	Disabled bool
	Password string
	SSID     string
	KeyMgmt  string
	Priority string `json:",omitempty"`
	BSSID    string `json:",omitempty"`
}

// WifiRecord is the WPA supplicant configuration for one interface.
// Iface is the unique key within the collection. Enabled is a cached
// projection of the interface registry's enablement flag.
type WifiRecord struct {
	Iface    string
	Enabled  bool
	Networks []WifiNetwork
}

// WifiCollection is the persisted WPA document. It is read, modified and
// rewritten whole on every mutation.
type WifiCollection struct {
	WPAs []WifiRecord
}

// PPPRecord is the PPP/PPPoE configuration for one interface.
type PPPRecord struct {
	Iface    string
	Enabled  bool
	Username string
	Secret   string
	VLAN     string `json:",omitempty"`
	MTU      string `json:",omitempty"`
}

// PPPCollection is the persisted PPP document.
type PPPCollection struct {
	PPPs []PPPRecord
}
