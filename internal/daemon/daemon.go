// Package daemon wires the announcement loop and the rollover timer under a
// single lifecycle and enforces single-instance execution.
package daemon

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"sync"
	"sync/atomic"

	"github.com/gofrs/flock"

	"chime/internal/announce"
	"chime/internal/reload"
	"chime/internal/settings"
)

// LockFileName is the single-instance lock within the log directory.
const LockFileName = "chimed.lock"

// Daemon coordinates the two concurrent tasks of the scheduler process: the
// announcement loop and the daily rollover timer. They share nothing but the
// reload coordinator.
type Daemon struct {
	cfg      *settings.Settings
	logger   *slog.Logger
	manager  *announce.Manager
	rollover *reload.RolloverTimer

	lockPath string
	lock     *flock.Flock

	running atomic.Bool
	cancel  context.CancelFunc
	wg      sync.WaitGroup

	mu      sync.Mutex
	loopErr error
}

// New constructs a daemon with initialized dependencies.
func New(cfg *settings.Settings, manager *announce.Manager, rollover *reload.RolloverTimer, logger *slog.Logger) (*Daemon, error) {
	if cfg == nil || manager == nil || rollover == nil || logger == nil {
		return nil, errors.New("daemon requires settings, manager, rollover timer, and logger")
	}
	lockPath := filepath.Join(cfg.Paths.LogDir, LockFileName)
	return &Daemon{
		cfg:      cfg,
		logger:   logger,
		manager:  manager,
		rollover: rollover,
		lockPath: lockPath,
		lock:     flock.New(lockPath),
	}, nil
}

// LockPath returns the single-instance lock location.
func (d *Daemon) LockPath() string { return d.lockPath }

// Start acquires the instance lock and launches both tasks. The returned
// channel closes when the announcement loop ends; a fatal loop error is then
// available via Err.
func (d *Daemon) Start(ctx context.Context) (<-chan struct{}, error) {
	if d.running.Load() {
		return nil, errors.New("daemon already running")
	}

	ok, err := d.lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("acquire instance lock: %w", err)
	}
	if !ok {
		return nil, errors.New("another chimed instance is already running")
	}

	runCtx, cancel := context.WithCancel(ctx)
	d.cancel = cancel
	d.running.Store(true)

	d.wg.Add(1)
	go func() {
		defer d.wg.Done()
		d.rollover.Run(runCtx)
	}()

	done := make(chan struct{})
	d.wg.Add(1)
	go func() {
		defer d.wg.Done()
		defer close(done)
		if err := d.manager.Run(runCtx); err != nil {
			d.mu.Lock()
			d.loopErr = err
			d.mu.Unlock()
			// The rollover timer must not outlive a dead loop.
			cancel()
		}
	}()

	d.logger.Info("chimed started", "lock", d.lockPath)
	return done, nil
}

// Err reports a fatal announcement loop error, if any.
func (d *Daemon) Err() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.loopErr
}

// Stop cancels both tasks, waits for them, and releases the instance lock.
func (d *Daemon) Stop() {
	if !d.running.Load() {
		return
	}
	if d.cancel != nil {
		d.cancel()
		d.cancel = nil
	}
	d.wg.Wait()
	if err := d.lock.Unlock(); err != nil {
		d.logger.Warn("failed to release instance lock", "error", err)
	}
	d.running.Store(false)
	d.logger.Info("chimed stopped")
}
