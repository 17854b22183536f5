package services

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"grimm.is/serac/internal/logging"
)

// Orchestrator manages the lifecycle of registered services and is the
// plugin manager the uplink controller kicks after persisting changes.
type Orchestrator struct {
	mu       sync.RWMutex
	services map[string]Service
	logger   *logging.Logger
}

// NewOrchestrator creates an empty orchestrator.
func NewOrchestrator(logger *logging.Logger) *Orchestrator {
	if logger == nil {
		logger = logging.Default()
	}
	return &Orchestrator{
		services: make(map[string]Service),
		logger:   logger.WithComponent("orchestrator"),
	}
}

// Register adds a service to the orchestrator, replacing any previous
// service with the same name.
func (o *Orchestrator) Register(svc Service) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.services[svc.Name()] = svc
}

// Get returns a registered service by name.
func (o *Orchestrator) Get(name string) (Service, bool) {
	o.mu.RLock()
	defer o.mu.RUnlock()
	svc, ok := o.services[name]
	return svc, ok
}

// EnablePlugin starts the named service and reports whether this call
// freshly started it. An already-running service returns false so the
// caller can decide to restart it to pick up new configuration. An
// unknown service also returns false.
func (o *Orchestrator) EnablePlugin(name string) bool {
	svc, ok := o.Get(name)
	if !ok {
		o.logger.Warn("enable requested for unknown service", "service", name)
		return false
	}

	if svc.Status().Running {
		return false
	}
	if err := svc.Start(context.Background()); err != nil {
		o.logger.Error("failed to start service", "service", name, "error", err)
		return false
	}
	o.logger.Info("service enabled", "service", name)
	return true
}

// RestartPlugin stops and starts the named service so it re-reads its
// generated configuration. Stop failures are logged, not fatal; the
// subsequent start is what matters.
func (o *Orchestrator) RestartPlugin(name string) {
	svc, ok := o.Get(name)
	if !ok {
		o.logger.Warn("restart requested for unknown service", "service", name)
		return
	}

	ctx := context.Background()
	if err := svc.Stop(ctx); err != nil {
		o.logger.Warn("failed to stop service", "service", name, "error", err)
	}
	if err := svc.Start(ctx); err != nil {
		o.logger.Error("failed to restart service", "service", name, "error", err)
		return
	}
	o.logger.Info("service restarted", "service", name)
}

// RestartService is RestartPlugin with an error return, for callers
// that need to surface the failure.
func (o *Orchestrator) RestartService(name string) error {
	svc, ok := o.Get(name)
	if !ok {
		return fmt.Errorf("unknown service: %s", name)
	}

	ctx := context.Background()
	if err := svc.Stop(ctx); err != nil {
		o.logger.Warn("failed to stop service", "service", name, "error", err)
	}
	if err := svc.Start(ctx); err != nil {
		return fmt.Errorf("failed to start service %s: %w", name, err)
	}
	return nil
}

// Status returns the status of every registered service, sorted by name.
func (o *Orchestrator) Status() []ServiceStatus {
	o.mu.RLock()
	defer o.mu.RUnlock()

	statuses := make([]ServiceStatus, 0, len(o.services))
	for _, svc := range o.services {
		statuses = append(statuses, svc.Status())
	}
	sort.Slice(statuses, func(i, j int) bool { return statuses[i].Name < statuses[j].Name })
	return statuses
}

// StopAll stops every registered service. Used during shutdown.
func (o *Orchestrator) StopAll(ctx context.Context) {
	o.mu.RLock()
	defer o.mu.RUnlock()
	for name, svc := range o.services {
		if err := svc.Stop(ctx); err != nil {
			o.logger.Warn("failed to stop service", "service", name, "error", err)
		}
	}
}
