package worker

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"sync/atomic"
	"testing"
	"time"

	"citysim/config"
	"citysim/internal/usecase"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/fx"
	"go.uber.org/fx/fxtest"
)

type countingSweep struct {
	calls atomic.Int32
}

func (s *countingSweep) RunSweep(context.Context, time.Time) (*usecase.SweepReport, error) {
	s.calls.Add(1)
	return &usecase.SweepReport{Scanned: 1, Collected: 1}, nil
}

type failingSweep struct{}

func (failingSweep) RunSweep(context.Context, time.Time) (*usecase.SweepReport, error) {
	return nil, errors.New("ledger unavailable")
}

type recordingShutdowner struct {
	called atomic.Bool
}

func (s *recordingShutdowner) Shutdown(...fx.ShutdownOption) error {
	s.called.Store(true)
	return nil
}

func newTestSweeper(t *testing.T, sweep config.SweepConfig, uc usecase.SweepUsecase, sd fx.Shutdowner) (*fxtest.Lifecycle, *sweeper) {
	t.Helper()

	return newTestSweeperWithLogger(t, sweep, uc, sd, slog.New(slog.DiscardHandler))
}

func newTestSweeperWithLogger(t *testing.T, sweep config.SweepConfig, uc usecase.SweepUsecase, sd fx.Shutdowner, logger *slog.Logger) (*fxtest.Lifecycle, *sweeper) {
	t.Helper()

	cfg := &config.Config{Sweep: sweep}
	lc := fxtest.NewLifecycle(t)
	d := NewSweeper(SweeperParams{
		Lc:         lc,
		Shutdowner: sd,
		Cfg:        cfg,
		Logger:     logger,
		SweepUC:    uc,
	})
	s, ok := d.(*sweeper)
	require.True(t, ok)

	return lc, s
}

func TestSweeper_RunOnce(t *testing.T) {
	uc := &countingSweep{}
	sd := &recordingShutdowner{}
	_, s := newTestSweeper(t, config.SweepConfig{RunOnce: true, Interval: time.Hour}, uc, sd)

	require.NoError(t, s.Serve(context.Background()))

	assert.Equal(t, int32(1), uc.calls.Load())
	assert.True(t, sd.called.Load())
}

func TestSweeper_Disabled(t *testing.T) {
	uc := &countingSweep{}
	_, s := newTestSweeper(t, config.SweepConfig{Interval: time.Hour}, uc, &recordingShutdowner{})

	require.NoError(t, s.Serve(context.Background()))
	assert.Zero(t, uc.calls.Load())
}

func TestSweeper_TicksUntilStopped(t *testing.T) {
	uc := &countingSweep{}
	lc, s := newTestSweeper(t, config.SweepConfig{Enabled: true, Interval: 10 * time.Millisecond}, uc, &recordingShutdowner{})
	lc.RequireStart()

	served := make(chan error, 1)
	go func() { served <- s.Serve(context.Background()) }()

	require.Eventually(t, func() bool { return uc.calls.Load() >= 2 }, time.Second, 5*time.Millisecond)

	lc.RequireStop()
	select {
	case err := <-served:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("sweeper did not stop")
	}
}

func TestSweeper_LeavesReportLoggingToUsecase(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))

	_, s := newTestSweeperWithLogger(t, config.SweepConfig{Interval: time.Hour}, &countingSweep{}, &recordingShutdowner{}, logger)
	s.sweep(context.Background())
	assert.NotContains(t, buf.String(), "Sweep completed")

	buf.Reset()
	_, s = newTestSweeperWithLogger(t, config.SweepConfig{Interval: time.Hour}, failingSweep{}, &recordingShutdowner{}, logger)
	s.sweep(context.Background())
	assert.Contains(t, buf.String(), "Sweep failed")
	assert.Contains(t, buf.String(), "ledger unavailable")
}
