package usecase

import (
	"context"

	"citysim/internal/domain/entity"

	"github.com/google/uuid"
)

// DeviceInfo represents device information for registration
type DeviceInfo struct {
	FCMToken string `json:"fcm_token"`
	DeviceID string `json:"device_id"`
	Platform string `json:"platform"`
}

// DeviceUsecase defines the interface for device management use cases
type DeviceUsecase interface {
	// RegisterDevice registers a new device or updates an existing one
	RegisterDevice(ctx context.Context, playerID uuid.UUID, deviceInfo *DeviceInfo) (*entity.PlayerDevice, error)

	// UpdatePushToken updates the FCM token for a specific device
	UpdatePushToken(ctx context.Context, playerID, deviceID uuid.UUID, fcmToken string) error

	// ListDevices retrieves all active devices for a player
	ListDevices(ctx context.Context, playerID uuid.UUID) ([]*entity.PlayerDevice, error)

	// DeactivateDevice deactivates a device (soft delete)
	DeactivateDevice(ctx context.Context, playerID, deviceID uuid.UUID) error
}

// GameEventUsecase delivers committed game events to the players they concern
type GameEventUsecase interface {
	// NotifyPlayers pushes a notification to every active device of the players
	NotifyPlayers(ctx context.Context, playerIDs []uuid.UUID, title, body string, data map[string]string) error
}
