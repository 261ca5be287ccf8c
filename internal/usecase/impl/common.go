// Package impl contains the implementation of the application's business logic.
package impl

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	deliverycontext "citysim/internal/delivery/context"
	"citysim/internal/domain/economy"
	domainerrors "citysim/internal/domain/errors"
	"citysim/internal/domain/repository"
	"citysim/internal/domain/service"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"go.uber.org/fx"
)

// GameParams holds the dependencies shared by the game services, injected by Fx.
type GameParams struct {
	fx.In

	TxManager repository.TransactionManager
	Repos     repository.RepositoryFactory
	Engine    *economy.Engine
	Clock     service.Clock
	Publisher service.EventPublisher
	Logger    *slog.Logger
}

// gameBase carries the shared dependencies into each service.
type gameBase struct {
	txManager repository.TransactionManager
	repos     repository.RepositoryFactory
	engine    *economy.Engine
	clock     service.Clock
	publisher service.EventPublisher
	logger    *slog.Logger
}

func newGameBase(params GameParams) gameBase {
	clock := params.Clock
	if clock == nil {
		clock = service.NewSystemClock()
	}
	logger := params.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return gameBase{
		txManager: params.TxManager,
		repos:     params.Repos,
		engine:    params.Engine,
		clock:     clock,
		publisher: params.Publisher,
		logger:    logger,
	}
}

// log returns a request-scoped logger if available, otherwise falls back to the service's logger.
func (b *gameBase) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, b.logger)
}

func (b *gameBase) now() time.Time {
	return b.clock.Now().UTC()
}

// publish sends an event after commit. Failures are logged and never undo the
// committed change.
func (b *gameBase) publish(ctx context.Context, event *service.GameEvent) {
	if b.publisher == nil || event == nil {
		return
	}
	if event.RequestID == "" {
		event.RequestID = deliverycontext.GetRequestIDFromContext(ctx)
	}
	if event.OccurredAt.IsZero() {
		event.OccurredAt = b.now()
	}

	if err := b.publisher.PublishGameEvent(ctx, event); err != nil {
		b.log(ctx).Warn("Failed to publish game event",
			slog.String("type", string(event.Type)),
			slog.Any("error", err),
		)
	}
}

// translateError maps repository sentinels onto application errors. Errors
// that are already application errors pass through.
func translateError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, repository.ErrPlayerNotFound):
		return domainerrors.ErrPlayerNotFound
	case errors.Is(err, repository.ErrPlotNotFound):
		return domainerrors.ErrPlotNotFound
	case errors.Is(err, repository.ErrBusinessNotFound):
		return domainerrors.ErrBusinessNotFound
	case errors.Is(err, repository.ErrTransactionNotFound):
		return domainerrors.ErrTransactionNotFound
	case errors.Is(err, repository.ErrContractNotFound):
		return domainerrors.ErrContractNotFound
	case errors.Is(err, repository.ErrDeviceNotFound):
		return domainerrors.ErrDeviceNotFound
	case errors.Is(err, repository.ErrInsufficientBalance):
		return domainerrors.ErrInsufficientFunds
	case errors.Is(err, repository.ErrStaleWrite):
		return domainerrors.ErrConcurrencyConflict
	case errors.Is(err, repository.ErrDuplicateExternalRef):
		return domainerrors.ErrDepositAlreadyCredited
	case errors.Is(err, repository.ErrDuplicatePlot):
		return domainerrors.ErrConcurrencyConflict.WithDetails("plot created concurrently")
	case errors.Is(err, repository.ErrDuplicatePlayer):
		return domainerrors.ErrConcurrencyConflict.WithDetails("player registered concurrently")
	case errors.Is(err, repository.ErrDuplicateDevice):
		return domainerrors.ErrValidationFailed.WithDetails("device already registered")
	}

	return err
}

// requireBalance fails with ErrInsufficientFunds when balance is below amount.
func requireBalance(balance, amount decimal.Decimal) error {
	if balance.LessThan(amount) {
		return domainerrors.ErrInsufficientFunds.WithDetails(
			fmt.Sprintf("balance %s, required %s", balance.StringFixed(2), amount.StringFixed(2)))
	}

	return nil
}

func uuidPtr(id uuid.UUID) *uuid.UUID {
	return &id
}

func timePtr(t time.Time) *time.Time {
	return &t
}
