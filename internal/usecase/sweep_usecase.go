package usecase

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// SweepReport summarises one automatic collection pass.
type SweepReport struct {
	StartedAt  time.Time       `json:"started_at"`
	FinishedAt time.Time       `json:"finished_at"`
	Scanned    int             `json:"scanned"`
	Collected  int             `json:"collected"`
	Skipped    int             `json:"skipped"` // Debounced, unfinished or lost a race with a manual collection.
	Failed     int             `json:"failed"`
	TotalNet   decimal.Decimal `json:"total_net"`
	TotalTax   decimal.Decimal `json:"total_tax"`
}

// SweepUsecase defines the interface for the automatic collection pass
type SweepUsecase interface {
	// RunSweep collects every active business once
	RunSweep(ctx context.Context, now time.Time) (*SweepReport, error)
}
