package repository

import (
	"context"

	"citysim/internal/domain/entity"

	"github.com/google/uuid"
)

// DeviceRepository defines the interface for device-related database operations.
type DeviceRepository interface {
	// CreateDevice persists a new device for a player.
	CreateDevice(ctx context.Context, device *entity.PlayerDevice) error

	// FindDeviceByID retrieves a device by its unique ID.
	FindDeviceByID(ctx context.Context, id uuid.UUID) (*entity.PlayerDevice, error)

	// FindDevicesByPlayer retrieves all devices for a specific player (including inactive).
	FindDevicesByPlayer(ctx context.Context, playerID uuid.UUID) ([]*entity.PlayerDevice, error)

	// FindActiveDevicesByPlayer retrieves all active devices for a specific player.
	FindActiveDevicesByPlayer(ctx context.Context, playerID uuid.UUID) ([]*entity.PlayerDevice, error)

	// UpdateFCMToken updates the FCM token for a specific device.
	UpdateFCMToken(ctx context.Context, deviceID uuid.UUID, fcmToken string) error

	// DeactivateDevice stops notifications for one device.
	DeactivateDevice(ctx context.Context, id uuid.UUID) error

	// DeactivateByTokens stops notifications for every device holding one of the tokens.
	DeactivateByTokens(ctx context.Context, tokens []string) (int64, error)

	// DeleteDevice removes a device by its ID (soft delete).
	DeleteDevice(ctx context.Context, id uuid.UUID) error
}
