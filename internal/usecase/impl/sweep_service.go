package impl

import (
	"context"
	"log/slog"
	"strconv"
	"time"

	"citysim/config"
	"citysim/internal/domain/economy"
	"citysim/internal/domain/entity"
	"citysim/internal/domain/repository"
	"citysim/internal/domain/service"
	"citysim/internal/usecase"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"golang.org/x/time/rate"
)

const defaultSweepBatch = 200

type sweepService struct {
	gameBase
	batchSize int
	limiter   *rate.Limiter
}

// NewSweepService creates the automatic collection pass. The pass reads
// businesses in pages of sweep.batchSize and, when sweep.ratePerSecond is
// set, collects at most that many businesses per second.
func NewSweepService(params GameParams, cfg *config.Config) usecase.SweepUsecase {
	s := &sweepService{
		gameBase:  newGameBase(params),
		batchSize: defaultSweepBatch,
	}
	if cfg != nil {
		if cfg.Sweep.BatchSize > 0 {
			s.batchSize = cfg.Sweep.BatchSize
		}
		if cfg.Sweep.RatePerSecond > 0 {
			burst := max(1, int(cfg.Sweep.RatePerSecond))
			s.limiter = rate.NewLimiter(rate.Limit(cfg.Sweep.RatePerSecond), burst)
		}
	}

	return s
}

type sweepOutcome int

const (
	sweepCollected sweepOutcome = iota
	sweepSkipped
	sweepFailed
)

// RunSweep collects every active business once. Each business settles in its
// own transaction, so one failure never rolls back the others.
func (s *sweepService) RunSweep(ctx context.Context, now time.Time) (*usecase.SweepReport, error) {
	if now.IsZero() {
		now = s.now()
	}
	now = now.UTC()

	report := &usecase.SweepReport{
		StartedAt: s.now(),
		TotalNet:  decimal.Zero,
		TotalTax:  decimal.Zero,
	}
	logger := s.log(ctx)

	after := uuid.Nil
	for {
		page, err := s.repos.NewBusinessRepository().ListActive(ctx, after, s.batchSize)
		if err != nil {
			return report, errors.Wrap(err, "list active businesses")
		}

		for _, b := range page {
			if s.limiter != nil {
				if err := s.limiter.Wait(ctx); err != nil {
					return report, errors.Wrap(err, "sweep interrupted")
				}
			}

			report.Scanned++
			receipt, outcome, err := s.sweepOne(ctx, b.ID, now)
			switch outcome {
			case sweepCollected:
				report.Collected++
				report.TotalNet = report.TotalNet.Add(receipt.Net)
				report.TotalTax = report.TotalTax.Add(receipt.Tax)
			case sweepSkipped:
				report.Skipped++
			case sweepFailed:
				report.Failed++
				logger.Error("Sweep failed to collect business",
					slog.String("businessID", b.ID.String()),
					slog.Any("error", err),
				)
			}
		}

		if len(page) < s.batchSize {
			break
		}
		after = page[len(page)-1].ID
	}

	report.FinishedAt = s.now()
	logger.Info("Sweep completed",
		slog.Int("scanned", report.Scanned),
		slog.Int("collected", report.Collected),
		slog.Int("skipped", report.Skipped),
		slog.Int("failed", report.Failed),
		slog.String("totalNet", report.TotalNet.String()),
	)
	s.publish(ctx, &service.GameEvent{
		Type:   service.EventSweepCompleted,
		Amount: report.TotalNet.String(),
		Attributes: map[string]string{
			"scanned":   strconv.Itoa(report.Scanned),
			"collected": strconv.Itoa(report.Collected),
			"skipped":   strconv.Itoa(report.Skipped),
			"failed":    strconv.Itoa(report.Failed),
			"tax":       report.TotalTax.String(),
		},
	})

	return report, nil
}

func (s *sweepService) sweepOne(ctx context.Context, businessID uuid.UUID, now time.Time) (*usecase.IncomeReceipt, sweepOutcome, error) {
	var receipt *usecase.IncomeReceipt
	skipped := false

	err := s.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		business, err := repoFactory.NewBusinessRepository().FindByID(ctx, businessID)
		if err != nil {
			return err
		}
		if !business.IsActive || !business.IsOperational() {
			skipped = true

			return nil
		}

		receipt, err = s.collect(ctx, repoFactory, business, now, economy.BonusAutoCollect, entity.TxAutoCollectIncome)

		return err
	})

	switch {
	case errors.Is(err, repository.ErrStaleWrite), errors.Is(err, repository.ErrBusinessNotFound):
		return nil, sweepSkipped, nil
	case err != nil:
		return nil, sweepFailed, err
	case skipped || !receipt.Collected:
		return receipt, sweepSkipped, nil
	}

	return receipt, sweepCollected, nil
}
