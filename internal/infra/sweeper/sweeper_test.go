package sweeper

import (
	"context"
	"io"
	"log/slog"
	"sync/atomic"
	"testing"
	"time"

	"synnapse/config"
	"synnapse/internal/domain/entity"

	"github.com/stretchr/testify/assert"
	"go.uber.org/fx/fxtest"
)

func newDiscardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type countingTokens struct {
	calls atomic.Int64
	err   error
}

func (c *countingTokens) Create(context.Context, string) (*entity.PasswordResetToken, error) {
	return nil, nil
}

func (c *countingTokens) FindByToken(context.Context, string) (*entity.PasswordResetToken, error) {
	return nil, nil
}

func (c *countingTokens) DeleteByToken(context.Context, string) error { return nil }

func (c *countingTokens) Consume(context.Context, string) error { return nil }

func (c *countingTokens) DeleteExpired(context.Context) (int64, error) {
	c.calls.Add(1)

	return 1, c.err
}

func TestSweeper_RunsUntilStopped(t *testing.T) {
	tokens := &countingTokens{}
	cfg := &config.Config{}
	cfg.Auth.SweepInterval = 5 * time.Millisecond

	lc := fxtest.NewLifecycle(t)
	New(Params{Lifecycle: lc, Tokens: tokens, Config: cfg, Logger: newDiscardLogger()})

	lc.RequireStart()
	assert.Eventually(t, func() bool { return tokens.calls.Load() >= 2 }, time.Second, 5*time.Millisecond)
	lc.RequireStop()

	stopped := tokens.calls.Load()
	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, stopped, tokens.calls.Load())
}

func TestSweeper_DisabledWithZeroInterval(t *testing.T) {
	tokens := &countingTokens{}
	s := &Sweeper{tokens: tokens, logger: newDiscardLogger()}

	s.Start()
	s.Stop()

	assert.Zero(t, tokens.calls.Load())
}

func TestSweeper_SweepOnceSwallowsErrors(t *testing.T) {
	tokens := &countingTokens{err: assert.AnError}
	s := &Sweeper{tokens: tokens, timeout: time.Second, logger: newDiscardLogger()}

	s.SweepOnce(context.Background())

	assert.Equal(t, int64(1), tokens.calls.Load())
}
