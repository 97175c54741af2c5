package scheduler

import (
	"context"
	"fmt"
	"time"

	"wordforge/internal/generator"
	"wordforge/internal/logger"
)

// CharPoolReloader handles periodic refreshing of the character pool
type CharPoolReloader struct {
	pool          *generator.CharPool
	strategy      string
	logger        logger.Logger
	interval      time.Duration
	stopCh        chan struct{}
	manualTrigger chan struct{}
}

// NewCharPoolReloader creates a new character pool reloader
func NewCharPoolReloader(
	pool *generator.CharPool,
	strategy string,
	log logger.Logger,
	interval time.Duration,
	manualTrigger chan struct{},
) *CharPoolReloader {
	return &CharPoolReloader{
		pool:          pool,
		strategy:      strategy,
		logger:        log,
		interval:      interval,
		stopCh:        make(chan struct{}),
		manualTrigger: manualTrigger,
	}
}

// Start begins the periodic refresh process
func (cr *CharPoolReloader) Start(ctx context.Context) error {
	// Populate immediately on start
	if err := cr.Reload(ctx); err != nil {
		return fmt.Errorf("initial refresh failed: %w", err)
	}

	// Start periodic refresh
	ticker := time.NewTicker(cr.interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				if err := cr.Reload(ctx); err != nil {
					cr.logger.Error("failed to refresh character pool",
						logger.Error(err))
				}
			case <-cr.manualTrigger:
				cr.logger.Info("manual refresh triggered")
				if err := cr.Reload(ctx); err != nil {
					cr.logger.Error("failed to refresh character pool",
						logger.Error(err))
				}
			case <-cr.stopCh:
				return
			case <-ctx.Done():
				return
			}
		}
	}()

	return nil
}

// Stop stops the reloader
func (cr *CharPoolReloader) Stop() {
	close(cr.stopCh)
}

// Reload repopulates the character pool via the configured strategy
func (cr *CharPoolReloader) Reload(ctx context.Context) error {
	cr.logger.Info("refreshing character pool",
		logger.String("strategy", cr.strategy))

	if err := cr.pool.Refresh(ctx, cr.strategy); err != nil {
		return fmt.Errorf("failed to refresh character pool: %w", err)
	}

	if cr.pool.Size() == 0 {
		cr.logger.Warn("character pool is empty after refresh",
			logger.String("strategy", cr.strategy))
	}

	return nil
}
