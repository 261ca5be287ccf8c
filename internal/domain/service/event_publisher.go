package service

import (
	"context"
	"time"
)

// GameEventType names something that happened in the economy.
type GameEventType string

const (
	EventPlotSold            GameEventType = "plot_sold"
	EventPlotListed          GameEventType = "plot_listed"
	EventBusinessBuilt       GameEventType = "business_built"
	EventBusinessDemolished  GameEventType = "business_demolished"
	EventIncomeCollected     GameEventType = "income_collected"
	EventWithdrawalRequested GameEventType = "withdrawal_requested"
	EventWithdrawalProcessed GameEventType = "withdrawal_processed"
	EventDepositCredited     GameEventType = "deposit_credited"
	EventSweepCompleted      GameEventType = "sweep_completed"
)

// GameEvent is published after a state change has been committed.
type GameEvent struct {
	RequestID  string            `json:"request_id,omitempty"` // For distributed tracing
	Type       GameEventType     `json:"type"`
	PlayerIDs  []string          `json:"player_ids,omitempty"` // Players to notify
	PlotID     string            `json:"plot_id,omitempty"`
	BusinessID string            `json:"business_id,omitempty"`
	Amount     string            `json:"amount,omitempty"` // Decimal string
	Attributes map[string]string `json:"attributes,omitempty"`
	OccurredAt time.Time         `json:"occurred_at"`
}

// EventPublisher defines the interface for publishing events to a message queue
type EventPublisher interface {
	// PublishGameEvent publishes a game event for async processing
	PublishGameEvent(ctx context.Context, event *GameEvent) error

	// Close releases any resources held by the publisher
	Close() error
}
