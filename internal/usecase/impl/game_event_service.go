package impl

import (
	"context"
	"log/slog"

	"citysim/internal/domain/service"
	"citysim/internal/usecase"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// Firebase batch size limit
const firebaseBatchSize = 500

type gameEventService struct {
	gameBase
	notificationSvc service.NotificationService
}

// NewGameEventService creates the service that pushes game events to devices
func NewGameEventService(params GameParams, notificationSvc service.NotificationService) usecase.GameEventUsecase {
	return &gameEventService{
		gameBase:        newGameBase(params),
		notificationSvc: notificationSvc,
	}
}

// NotifyPlayers sends one notification to every active device of the given
// players. Tokens reported invalid by the provider are deactivated. An error
// is returned only when every batch failed, so the caller may retry.
func (s *gameEventService) NotifyPlayers(ctx context.Context, playerIDs []uuid.UUID, title, body string, data map[string]string) error {
	deviceRepo := s.repos.NewDeviceRepository()

	var tokens []string
	for _, playerID := range playerIDs {
		devices, err := deviceRepo.FindActiveDevicesByPlayer(ctx, playerID)
		if err != nil {
			return errors.Wrap(err, "failed to fetch devices")
		}
		for _, device := range devices {
			tokens = append(tokens, device.FCMToken)
		}
	}
	if len(tokens) == 0 {
		return nil
	}

	var (
		totalSent     int
		totalFailed   int
		invalidTokens []string
		lastErr       error
		batches       int
		failedBatches int
	)
	for i := 0; i < len(tokens); i += firebaseBatchSize {
		end := min(i+firebaseBatchSize, len(tokens))
		batch := tokens[i:end]
		batches++

		successCount, failureCount, batchInvalidTokens, err := s.notificationSvc.SendBatchNotification(ctx, batch, title, body, data)
		if err != nil {
			// Log error but continue with other batches
			failedBatches++
			totalFailed += len(batch)
			lastErr = err
			s.log(ctx).Warn("Failed to send notification batch", slog.Any("error", err))

			continue
		}

		totalSent += successCount
		totalFailed += failureCount
		invalidTokens = append(invalidTokens, batchInvalidTokens...)
	}

	if len(invalidTokens) > 0 {
		deactivated, err := deviceRepo.DeactivateByTokens(ctx, invalidTokens)
		if err != nil {
			s.log(ctx).Warn("Failed to deactivate invalid tokens", slog.Any("error", err))
		} else {
			s.log(ctx).Info("Deactivated invalid device tokens", slog.Int64("count", deactivated))
		}
	}

	s.log(ctx).Info("Notifications sent",
		slog.Int("players", len(playerIDs)),
		slog.Int("sent", totalSent),
		slog.Int("failed", totalFailed),
	)

	if failedBatches == batches {
		return errors.Wrap(lastErr, "all notification batches failed")
	}

	return nil
}
