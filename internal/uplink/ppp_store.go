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

// PPPStore owns the persisted PPP collection and the pppd artifacts
// derived from it. It mirrors WifiStore, with its own lock so wifi and
// ppp updates never serialize against each other.
type PPPStore struct {
	path   string // JSON collection document
	etcDir string // chap-secrets and provider_<iface> live here

	mu     sync.Mutex
	logger *logging.Logger
}

// NewPPPStore creates a store for the PPP collection at path, writing
// daemon artifacts under etcDir.
func NewPPPStore(path, etcDir string, logger *logging.Logger) *PPPStore {
	if logger == nil {
		logger = logging.Default()
	}
	return &PPPStore{
		path:   path,
		etcDir: etcDir,
		logger: logger.WithComponent("ppp-uplink"),
	}
}

// Load reads the persisted collection. A missing or unparsable document
// returns an empty collection alongside the error.
func (s *PPPStore) Load() (PPPCollection, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loadLocked()
}

func (s *PPPStore) loadLocked() (PPPCollection, error) {
	col := PPPCollection{}

	data, err := os.ReadFile(s.path)
	if err != nil {
		return col, persistenceErr(err)
	}
	if err := json.Unmarshal(data, &col); err != nil {
		return col, persistenceErr(err)
	}
	return col, nil
}

// Merge replaces or appends rec, refreshes the cached Enabled flag of
// every other record from the registry snapshot, then rewrites the JSON
// document, the shared chap-secrets file and one provider file per
// record under the store lock.
func (s *PPPStore) Merge(interfaces []registry.InterfaceRecord, rec PPPRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	col := PPPCollection{}
	if loaded, err := s.loadLocked(); err == nil {
		col = loaded
	}

	ppps := make([]PPPRecord, 0, len(col.PPPs)+1)
	found := false
	for _, ppp := range col.PPPs {
		if ppp.Iface == rec.Iface {
			ppps = append(ppps, rec)
			found = true
		} else {
			ppp.Enabled = registry.UplinkEnabled(interfaces, ppp.Iface, registry.SubtypePPP)
			ppps = append(ppps, ppp)
		}
	}

	if !found && rec.Iface != "" {
		ppps = append(ppps, rec)
	}
	col.PPPs = ppps

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

	metrics.Get().RecordsStored.WithLabelValues("ppp").Set(float64(len(col.PPPs)))

	artifacts, err := RenderPPP(s.etcDir, col)
	if err != nil {
		metrics.Get().RenderFailures.WithLabelValues("ppp").Inc()
		return renderErr(err)
	}
	if err := writeArtifacts(artifacts); err != nil {
		metrics.Get().RenderFailures.WithLabelValues("ppp").Inc()
		return renderErr(err)
	}

	s.logger.Info("collection persisted", "records", len(col.PPPs), "artifacts", len(artifacts))
	return nil
}

// Preview renders the provider file the current collection would
// produce for iface and returns it alongside the file on disk.
func (s *PPPStore) Preview(iface string) (onDisk, rendered []byte, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	col, err := s.loadLocked()
	if err != nil {
		return nil, nil, err
	}

	artifactPath := filepath.Join(s.etcDir, "provider_"+iface)
	onDisk, readErr := os.ReadFile(artifactPath)
	if readErr != nil {
		onDisk = nil
	}

	artifacts, err := RenderPPP(s.etcDir, col)
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
