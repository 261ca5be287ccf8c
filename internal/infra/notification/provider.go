package notification

import (
	"context"
	"log/slog"

	"citysim/config"
	"citysim/internal/domain/service"
)

// New selects the notification backend. Without Firebase configuration
// notifications are logged only.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (service.NotificationService, error) {
	if cfg.Firebase == nil {
		logger.Info("Firebase not configured, notifications will be logged")

		return NewLogNotifier(logger), nil
	}

	return NewFirebaseService(ctx, cfg.Firebase.ProjectID, cfg.Firebase.CredentialsPath)
}
