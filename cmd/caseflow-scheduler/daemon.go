// Package main provides the Caseflow escalation scheduler daemon.
package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/dukex/caseflow/pkg/escalation"
)

// Daemon hosts the escalation scheduler and keeps it running until the
// process is told to stop.
type Daemon struct {
	id        string
	scheduler *escalation.Scheduler
	logger    *slog.Logger
}

func NewDaemon(id string, scheduler *escalation.Scheduler, logger *slog.Logger) *Daemon {
	return &Daemon{
		id:        id,
		scheduler: scheduler,
		logger:    logger.With("module", "scheduler_daemon"),
	}
}

// Start launches the sweep cadences and blocks until shutdown.
func (d *Daemon) Start(ctx context.Context) error {
	dCtx, cancel := context.WithCancel(ctx)

	d.logger.Info("Starting escalation daemon", "daemon_id", d.id)

	if err := d.scheduler.Start(dCtx); err != nil {
		cancel()

		return err
	}

	d.handleSignals(cancel)

	<-dCtx.Done()
	d.logger.Info("Daemon context cancelled, stopping...")
	d.scheduler.Stop()

	return nil
}

// handleSignals sets up signal handling for graceful shutdown.
func (d *Daemon) handleSignals(cancel context.CancelFunc) {
	signals := make(chan os.Signal, 1)
	signal.Notify(signals, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		sig := <-signals
		d.logger.Info("Received signal", "signal", sig)
		d.logger.Info("Shutting down gracefully...")
		cancel()
	}()
}
