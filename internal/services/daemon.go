package services

import (
	"context"
	"fmt"
	"os/exec"
	"sync"
	"time"

	"golang.org/x/sys/unix"

	"grimm.is/serac/internal/logging"
)

// DaemonService supervises one external process. When the binary path
// is empty the service runs in unmanaged mode: lifecycle calls succeed
// and are logged, but no process is spawned. Unmanaged mode covers
// deployments where an init system owns the daemon, and tests.
type DaemonService struct {
	name string
	bin  string
	args []string

	mu      sync.Mutex
	cmd     *exec.Cmd
	exited  chan struct{} // closed by the reaper once Wait returns
	running bool
	lastErr error

	logger *logging.Logger
}

// NewDaemonService creates a supervisor for the named daemon. args are
// passed verbatim to the binary on every start.
func NewDaemonService(name, bin string, args []string, logger *logging.Logger) *DaemonService {
	if logger == nil {
		logger = logging.Default()
	}
	return &DaemonService{
		name:   name,
		bin:    bin,
		args:   args,
		logger: logger.WithComponent("service-" + name),
	}
}

func (d *DaemonService) Name() string { return d.name }

// Start launches the process if it is not already running.
func (d *DaemonService) Start(ctx context.Context) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.running {
		return nil
	}

	if d.bin == "" {
		d.logger.Info("unmanaged service marked running")
		d.running = true
		d.lastErr = nil
		return nil
	}

	cmd := exec.Command(d.bin, d.args...)
	if err := cmd.Start(); err != nil {
		d.lastErr = err
		return fmt.Errorf("starting %s: %w", d.name, err)
	}

	exited := make(chan struct{})
	d.cmd = cmd
	d.exited = exited
	d.running = true
	d.lastErr = nil
	d.logger.Info("service started", "pid", cmd.Process.Pid, "bin", d.bin)

	// Reap the process; an unexpected exit flips the status so the
	// next Start relaunches instead of no-opping.
	go func() {
		err := cmd.Wait()
		close(exited)
		d.mu.Lock()
		defer d.mu.Unlock()
		if d.cmd == cmd {
			d.running = false
			d.cmd = nil
			if err != nil {
				d.lastErr = err
				d.logger.Warn("service exited", "error", err)
			}
		}
	}()

	return nil
}

// Stop terminates the process, escalating from SIGTERM to SIGKILL if it
// lingers past the context deadline or a short grace period.
func (d *DaemonService) Stop(ctx context.Context) error {
	d.mu.Lock()
	cmd := d.cmd
	exited := d.exited
	d.cmd = nil
	d.running = false
	d.mu.Unlock()

	if cmd == nil || cmd.Process == nil {
		return nil
	}

	if err := cmd.Process.Signal(unix.SIGTERM); err != nil {
		return cmd.Process.Kill()
	}

	grace := 5 * time.Second
	if deadline, ok := ctx.Deadline(); ok {
		if until := time.Until(deadline); until < grace {
			grace = until
		}
	}

	// The reaper goroutine owns cmd.Wait; it closes exited once the
	// process is gone.
	select {
	case <-exited:
	case <-time.After(grace):
		_ = cmd.Process.Kill()
		<-exited
	case <-ctx.Done():
		_ = cmd.Process.Kill()
		<-exited
	}

	d.logger.Info("service stopped")
	return nil
}

// Status reports whether the process is believed to be running and the
// most recent launch or exit error.
func (d *DaemonService) Status() ServiceStatus {
	d.mu.Lock()
	defer d.mu.Unlock()

	status := ServiceStatus{Name: d.name, Running: d.running}
	if d.lastErr != nil {
		status.Error = d.lastErr.Error()
	}
	return status
}
