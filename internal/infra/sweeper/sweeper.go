// Package sweeper periodically removes expired password reset tokens.
package sweeper

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"synnapse/config"
	"synnapse/internal/domain/repository"

	"go.uber.org/fx"
)

// Sweeper deletes expired reset tokens on a fixed interval.
type Sweeper struct {
	tokens   repository.ResetTokenRepository
	interval time.Duration
	timeout  time.Duration
	logger   *slog.Logger

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// Params holds dependencies for the Sweeper, injected by Fx
type Params struct {
	fx.In
	fx.Lifecycle

	Tokens repository.ResetTokenRepository
	Config *config.Config
	Logger *slog.Logger
}

// New builds a Sweeper and ties its goroutine to the application lifecycle.
func New(params Params) *Sweeper {
	s := &Sweeper{
		tokens:   params.Tokens,
		interval: params.Config.Auth.SweepInterval,
		timeout:  params.Config.Database.Timeouts.Query,
		logger:   params.Logger,
	}

	params.Append(fx.Hook{
		OnStart: func(context.Context) error {
			s.Start()

			return nil
		},
		OnStop: func(context.Context) error {
			s.Stop()

			return nil
		},
	})

	return s
}

// Start launches the sweep loop. A non-positive interval disables sweeping.
func (s *Sweeper) Start() {
	if s.interval <= 0 {
		s.logger.Info("Reset token sweeper disabled")

		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		s.run(ctx)
	}()
}

// Stop cancels the loop and waits for an in-flight sweep to finish.
func (s *Sweeper) Stop() {
	if s.cancel != nil {
		s.cancel()
	}
	s.wg.Wait()
}

func (s *Sweeper) run(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.SweepOnce(ctx)
		}
	}
}

// SweepOnce deletes expired tokens once. Failures are logged and retried on the next tick.
func (s *Sweeper) SweepOnce(ctx context.Context) {
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	n, err := s.tokens.DeleteExpired(ctx)
	if err != nil {
		s.logger.WarnContext(ctx, "Failed to sweep expired reset tokens", slog.Any("error", err))

		return
	}
	if n > 0 {
		s.logger.InfoContext(ctx, "Swept expired reset tokens", slog.Int64("deleted", n))
	}
}
