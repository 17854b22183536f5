package uplink

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"

	"grimm.is/serac/internal/logging"
	"grimm.is/serac/internal/metrics"
	"grimm.is/serac/internal/registry"
)

// WifiStore owns the persisted WPA collection. All read-modify-write
// cycles are serialized through its lock; between requests the JSON
// document on disk is authoritative.
type WifiStore struct {
	path    string // JSON collection document
	confDir string // per-interface wpa_<iface>.conf artifacts

	mu     sync.Mutex
	logger *logging.Logger
}

// NewWifiStore creates a store for the WPA collection at path, writing
// daemon artifacts under confDir.
func NewWifiStore(path, confDir string, logger *logging.Logger) *WifiStore {
	if logger == nil {
		logger = logging.Default()
	}
	return &WifiStore{
		path:    path,
		confDir: confDir,
		logger:  logger.WithComponent("wifi-uplink"),
	}
}

// Load reads the persisted collection. A missing or unparsable document
// returns an empty collection alongside the error.
func (s *WifiStore) Load() (WifiCollection, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loadLocked()
}

// loadLocked is Load for callers that already hold the store lock; Merge
// uses it to avoid a double acquire.
func (s *WifiStore) loadLocked() (WifiCollection, error) {
	col := WifiCollection{}

	data, err := os.ReadFile(s.path)
	if err != nil {
		return col, persistenceErr(err)
	}
	if err := json.Unmarshal(data, &col); err != nil {
		return col, persistenceErr(err)
	}
	return col, nil
}

// Merge replaces or appends rec in the persisted collection, refreshing
// every other record's cached Enabled flag from the registry snapshot,
// then rewrites the JSON document and the daemon artifacts while still
// holding the lock so the two are never observably out of sync.
//
// rec must be validated (or empty, in which case it is ignored). A load
// failure means "start from empty", not a fatal error.
func (s *WifiStore) Merge(interfaces []registry.InterfaceRecord, rec WifiRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	col := WifiCollection{}
	if loaded, err := s.loadLocked(); err == nil {
		col = loaded
	}

	wpas := make([]WifiRecord, 0, len(col.WPAs)+1)
	found := false
	for _, wpa := range col.WPAs {
		if wpa.Iface == rec.Iface {
			wpas = append(wpas, rec)
			found = true
		} else {
			wpa.Enabled = registry.UplinkEnabled(interfaces, wpa.Iface, registry.SubtypeWifi)
			wpas = append(wpas, wpa)
		}
	}

	if !found && rec.Iface != "" {
		wpas = append(wpas, rec)
	}
	col.WPAs = wpas

	data, err := json.MarshalIndent(col, "", " ")
	if err != nil {
		return persistenceErr(err)
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0700); err != nil {
		return persistenceErr(err)
	}
	if err := os.WriteFile(s.path, data, 0600); err != nil {
		s.logger.Error("failed to write collection", "path", s.path, "error", err)
		return persistenceErr(err)
	}

	metrics.Get().RecordsStored.WithLabelValues("wifi").Set(float64(len(col.WPAs)))

	artifacts, err := RenderWPA(s.confDir, col)
	if err != nil {
		metrics.Get().RenderFailures.WithLabelValues("wifi").Inc()
		return renderErr(err)
	}
	if err := writeArtifacts(artifacts); err != nil {
		metrics.Get().RenderFailures.WithLabelValues("wifi").Inc()
		return renderErr(err)
	}

	s.logger.Info("collection persisted", "records", len(col.WPAs), "artifacts", len(artifacts))
	return nil
}

// Preview renders the artifact the current collection would produce for
// iface and returns it alongside the file currently on disk. Neither the
// collection nor the artifact is modified.
func (s *WifiStore) Preview(iface string) (onDisk, rendered []byte, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	col, err := s.loadLocked()
	if err != nil {
		return nil, nil, err
	}

	artifactPath := filepath.Join(s.confDir, "wpa_"+iface+".conf")
	onDisk, readErr := os.ReadFile(artifactPath)
	if readErr != nil {
		onDisk = nil // absent counts as empty
	}

	artifacts, err := RenderWPA(s.confDir, col)
	if err != nil {
		return nil, nil, renderErr(err)
	}
	for _, a := range artifacts {
		if a.Path == artifactPath {
			rendered = a.Data
			break
		}
	}
	return onDisk, rendered, nil
}
