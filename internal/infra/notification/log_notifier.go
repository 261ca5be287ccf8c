package notification

import (
	"context"
	"log/slog"

	"citysim/internal/domain/service"
)

// logNotifier writes notifications to the log instead of delivering them.
// It stands in for Firebase in development.
type logNotifier struct {
	logger *slog.Logger
}

// NewLogNotifier returns a NotificationService that only logs.
func NewLogNotifier(logger *slog.Logger) service.NotificationService {
	return &logNotifier{logger: logger}
}

func (n *logNotifier) SendSingleNotification(_ context.Context, token, title, body string, data map[string]string) error {
	n.logger.Info("[LogNotifier] notification",
		slog.String("token", token),
		slog.String("title", title),
		slog.String("body", body),
		slog.Any("data", data),
	)

	return nil
}

func (n *logNotifier) SendBatchNotification(_ context.Context, tokens []string, title, body string, data map[string]string) (int, int, []string, error) {
	n.logger.Info("[LogNotifier] batch notification",
		slog.Int("tokens", len(tokens)),
		slog.String("title", title),
		slog.String("body", body),
		slog.Any("data", data),
	)

	return len(tokens), 0, nil, nil
}
