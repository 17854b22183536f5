// Package registry holds the authoritative record of network interfaces,
// their role (Type/Subtype) and enabled state. The uplink config stores
// keep only a cached projection of Enabled; this package owns it.
package registry

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"grimm.is/serac/internal/logging"
	"grimm.is/serac/internal/state"
)

// Interface roles.
const (
	TypeUplink = "Uplink"

	SubtypeWifi = "wifi"
	SubtypePPP  = "ppp"
)

// InterfaceRecord describes one network interface.
type InterfaceRecord struct {
	Name    string
	Type    string `json:",omitempty"`
	Subtype string `json:",omitempty"`
	Enabled bool

	// Plain IP configuration carried for the address update path.
	DisableDHCP bool   `json:",omitempty"`
	IP          string `json:",omitempty"`
	Router      string `json:",omitempty"`
	VLAN        string `json:",omitempty"`
}

// Registry is the capability the uplink controller depends on. It is an
// interface so the core can be tested against a fake without a store.
type Registry interface {
	// GetInterfaces returns a snapshot of all known interfaces.
	GetInterfaces() ([]InterfaceRecord, error)

	// UpdateInterfaceType records name as the given type/subtype with the
	// requested enabled flag and returns the resulting full interface list.
	UpdateInterfaceType(name, ifaceType, subtype string, enabled bool) ([]InterfaceRecord, error)
}

// UplinkEnabled reports whether the named interface is an enabled uplink
// of the given subtype in the snapshot. Unknown interfaces and interfaces
// of another role count as disabled.
func UplinkEnabled(interfaces []InterfaceRecord, name, subtype string) bool {
	for _, iface := range interfaces {
		if iface.Name == name {
			if iface.Type == TypeUplink && iface.Subtype == subtype {
				return iface.Enabled
			}
			break
		}
	}
	return false
}

const keyPrefix = "iface/"

// Store is the persisted Registry implementation.
type Store struct {
	mu     sync.Mutex
	st     state.Store
	logger *logging.Logger
}

// NewStore creates a registry over the given state store.
func NewStore(st state.Store, logger *logging.Logger) *Store {
	if logger == nil {
		logger = logging.Default()
	}
	return &Store{
		st:     st,
		logger: logger.WithComponent("registry"),
	}
}

var _ Registry = (*Store)(nil)

// GetInterfaces returns all interface records, ordered by name.
func (s *Store) GetInterfaces() ([]InterfaceRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.listLocked()
}

func (s *Store) listLocked() ([]InterfaceRecord, error) {
	entries, err := s.st.List()
	if err != nil {
		return nil, fmt.Errorf("failed to list interfaces: %w", err)
	}

	var records []InterfaceRecord
	for key := range entries {
		if !strings.HasPrefix(key, keyPrefix) {
			continue
		}
		var rec InterfaceRecord
		if err := s.st.GetJSON(key, &rec); err != nil {
			return nil, fmt.Errorf("failed to decode interface %s: %w", key, err)
		}
		records = append(records, rec)
	}

	sort.Slice(records, func(i, j int) bool { return records[i].Name < records[j].Name })
	return records, nil
}

// UpdateInterfaceType upserts the type/subtype/enabled of an interface and
// returns the full snapshot after the change.
func (s *Store) UpdateInterfaceType(name, ifaceType, subtype string, enabled bool) ([]InterfaceRecord, error) {
	if name == "" {
		return nil, fmt.Errorf("interface name required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	rec := InterfaceRecord{Name: name}
	if err := s.st.GetJSON(keyPrefix+name, &rec); err != nil && err != state.ErrNotFound {
		return nil, fmt.Errorf("failed to load interface %s: %w", name, err)
	}

	rec.Name = name
	rec.Type = ifaceType
	rec.Subtype = subtype
	rec.Enabled = enabled

	if err := s.st.SetJSON(keyPrefix+name, rec); err != nil {
		return nil, fmt.Errorf("failed to store interface %s: %w", name, err)
	}

	s.logger.Info("interface updated",
		"iface", name, "type", ifaceType, "subtype", subtype, "enabled", enabled)

	return s.listLocked()
}

// UpdateInterfaceAddr updates the plain IP configuration of an interface,
// preserving its role fields.
func (s *Store) UpdateInterfaceAddr(name string, disableDHCP bool, ip, router string) error {
	if name == "" {
		return fmt.Errorf("interface name required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	rec := InterfaceRecord{Name: name}
	if err := s.st.GetJSON(keyPrefix+name, &rec); err != nil && err != state.ErrNotFound {
		return fmt.Errorf("failed to load interface %s: %w", name, err)
	}

	rec.DisableDHCP = disableDHCP
	rec.IP = ip
	rec.Router = router

	if err := s.st.SetJSON(keyPrefix+name, rec); err != nil {
		return fmt.Errorf("failed to store interface %s: %w", name, err)
	}

	s.logger.Info("interface address updated", "iface", name, "ip", rec.IP)
	return nil
}

// Seed adds records for interface names not yet known to the registry.
// Seeded records carry no role until an uplink update claims them.
func (s *Store) Seed(names []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, name := range names {
		if name == "" {
			continue
		}
		var rec InterfaceRecord
		err := s.st.GetJSON(keyPrefix+name, &rec)
		if err == nil {
			continue
		}
		if err != state.ErrNotFound {
			return fmt.Errorf("failed to load interface %s: %w", name, err)
		}
		if err := s.st.SetJSON(keyPrefix+name, InterfaceRecord{Name: name}); err != nil {
			return fmt.Errorf("failed to seed interface %s: %w", name, err)
		}
		s.logger.Debug("interface discovered", "iface", name)
	}
	return nil
}
