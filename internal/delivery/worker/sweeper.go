package worker

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"citysim/config"
	"citysim/internal/delivery"
	"citysim/internal/usecase"

	"go.uber.org/fx"
)

// SweeperParams holds dependencies for the sweeper
type SweeperParams struct {
	fx.In

	Lc         fx.Lifecycle
	Shutdowner fx.Shutdowner
	Cfg        *config.Config
	Logger     *slog.Logger
	SweepUC    usecase.SweepUsecase
}

// sweeper runs the automatic income collection on a ticker.
type sweeper struct {
	interval   time.Duration
	runOnce    bool
	enabled    bool
	logger     *slog.Logger
	sweepUC    usecase.SweepUsecase
	shutdowner fx.Shutdowner

	quit     chan struct{}
	done     chan struct{}
	quitOnce sync.Once
	doneOnce sync.Once
}

// NewSweeper creates the scheduled sweep delivery. With sweep.runOnce it
// performs a single pass and then shuts the application down.
func NewSweeper(params SweeperParams) delivery.Delivery {
	s := &sweeper{
		interval:   params.Cfg.Sweep.Interval,
		runOnce:    params.Cfg.Sweep.RunOnce,
		enabled:    params.Cfg.Sweep.Enabled || params.Cfg.Sweep.RunOnce,
		logger:     params.Logger,
		sweepUC:    params.SweepUC,
		shutdowner: params.Shutdowner,
		quit:       make(chan struct{}),
		done:       make(chan struct{}),
	}

	params.Lc.Append(fx.Hook{
		OnStop: s.stop,
	})

	return s
}

// Serve blocks until the sweeper is stopped.
func (s *sweeper) Serve(ctx context.Context) error {
	defer s.doneOnce.Do(func() { close(s.done) })

	if !s.enabled {
		s.logger.Info("Sweeper disabled")
		return nil
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	go func() {
		select {
		case <-s.quit:
			cancel()
		case <-ctx.Done():
		}
	}()

	if s.runOnce {
		s.sweep(ctx)
		if err := s.shutdowner.Shutdown(); err != nil {
			s.logger.Error("Failed to shut down after single sweep", slog.Any("error", err))
		}

		return nil
	}

	s.logger.Info("Starting sweeper", slog.Duration("interval", s.interval))
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			s.sweep(ctx)
		}
	}
}

func (s *sweeper) sweep(ctx context.Context) {
	// RunSweep logs its own report.
	if _, err := s.sweepUC.RunSweep(ctx, time.Time{}); err != nil {
		s.logger.Error("Sweep failed", slog.Any("error", err))
	}
}

func (s *sweeper) stop(ctx context.Context) error {
	s.quitOnce.Do(func() { close(s.quit) })

	select {
	case <-s.done:
	case <-ctx.Done():
	}

	return nil
}
