// Package monitor probes uplink reachability targets in the background
// and feeds the results into the metrics registry.
package monitor

import (
	"context"
	"fmt"
	"sync"
	"time"

	probing "github.com/prometheus-community/pro-bing"

	"grimm.is/serac/internal/logging"
	"grimm.is/serac/internal/metrics"
	"grimm.is/serac/internal/services"
)

// ServiceName is the monitor's name in the service orchestrator.
const ServiceName = "MONITOR"

// CheckPingFunc performs one reachability probe. Tests swap it out.
var CheckPingFunc = func(target string) error {
	pinger, err := probing.NewPinger(target)
	if err != nil {
		return fmt.Errorf("failed to create pinger: %w", err)
	}

	pinger.Count = 1
	pinger.Timeout = 1 * time.Second
	pinger.SetPrivileged(false)

	if err := pinger.Run(); err != nil {
		return err
	}
	if pinger.Statistics().PacketsRecv == 0 {
		return fmt.Errorf("packet loss")
	}
	return nil
}

// Monitor pings each configured target on a fixed interval. It
// implements services.Service so it shares the daemon lifecycle.
type Monitor struct {
	targets  []string
	interval time.Duration
	logger   *logging.Logger

	mu      sync.Mutex
	running bool
	stopCh  chan struct{}
	wg      sync.WaitGroup
}

var _ services.Service = (*Monitor)(nil)

// New creates a monitor for targets, probing every interval.
func New(targets []string, interval time.Duration, logger *logging.Logger) *Monitor {
	if logger == nil {
		logger = logging.Default()
	}
	if interval <= 0 {
		interval = 30 * time.Second
	}
	return &Monitor{
		targets:  targets,
		interval: interval,
		logger:   logger.WithComponent("monitor"),
	}
}

func (m *Monitor) Name() string { return ServiceName }

// Start launches one probe loop per target.
func (m *Monitor) Start(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.running {
		return nil
	}
	m.stopCh = make(chan struct{})
	m.running = true

	for _, target := range m.targets {
		if target == "" {
			continue
		}
		m.wg.Add(1)
		go m.probeLoop(target, m.stopCh)
	}

	m.logger.Info("monitoring started", "targets", len(m.targets), "interval", m.interval)
	return nil
}

func (m *Monitor) probeLoop(target string, stopCh <-chan struct{}) {
	defer m.wg.Done()

	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	for {
		select {
		case <-stopCh:
			return
		case <-ticker.C:
			m.probe(target)
		}
	}
}

func (m *Monitor) probe(target string) {
	if err := CheckPingFunc(target); err != nil {
		metrics.Get().MonitorProbes.WithLabelValues(target, "fail").Inc()
		m.logger.Warn("target unreachable", "target", target, "error", err)
		return
	}
	metrics.Get().MonitorProbes.WithLabelValues(target, "ok").Inc()
}

// ProbeOnce runs a single probe of every target, used at startup and in
// tests.
func (m *Monitor) ProbeOnce() {
	for _, target := range m.targets {
		if target != "" {
			m.probe(target)
		}
	}
}

// Stop halts all probe loops and waits for them to exit.
func (m *Monitor) Stop(ctx context.Context) error {
	m.mu.Lock()
	if !m.running {
		m.mu.Unlock()
		return nil
	}
	m.running = false
	close(m.stopCh)
	m.mu.Unlock()

	m.wg.Wait()
	m.logger.Info("monitoring stopped")
	return nil
}

// Status reports whether probe loops are active.
func (m *Monitor) Status() services.ServiceStatus {
	m.mu.Lock()
	defer m.mu.Unlock()
	return services.ServiceStatus{Name: ServiceName, Running: m.running}
}
