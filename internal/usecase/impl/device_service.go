package impl

import (
	"context"
	"fmt"
	"strings"

	"citysim/internal/domain/entity"
	domainerrors "citysim/internal/domain/errors"
	"citysim/internal/domain/repository"
	"citysim/internal/usecase"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

var validPlatforms = map[string]bool{"ios": true, "android": true, "web": true}

type deviceService struct {
	gameBase
}

// NewDeviceService creates a new device service instance
func NewDeviceService(params GameParams) usecase.DeviceUsecase {
	return &deviceService{gameBase: newGameBase(params)}
}

// RegisterDevice registers a new device or updates an existing one
func (s *deviceService) RegisterDevice(ctx context.Context, playerID uuid.UUID, deviceInfo *usecase.DeviceInfo) (*entity.PlayerDevice, error) {
	if deviceInfo == nil || strings.TrimSpace(deviceInfo.FCMToken) == "" || strings.TrimSpace(deviceInfo.DeviceID) == "" {
		return nil, domainerrors.ErrValidationFailed.WithDetails("fcm token and device id are required")
	}
	platform := strings.ToLower(deviceInfo.Platform)
	if !validPlatforms[platform] {
		return nil, domainerrors.ErrValidationFailed.WithDetails("unsupported platform " + deviceInfo.Platform)
	}

	deviceRepo := s.repos.NewDeviceRepository()

	// Check if device already exists for this player
	devices, err := deviceRepo.FindDevicesByPlayer(ctx, playerID)
	if err != nil {
		return nil, fmt.Errorf("failed to find devices by player: %w", err)
	}

	for _, device := range devices {
		if device.DeviceID == deviceInfo.DeviceID {
			if err := deviceRepo.UpdateFCMToken(ctx, device.ID, deviceInfo.FCMToken); err != nil {
				return nil, fmt.Errorf("failed to update FCM token: %w", err)
			}
			updatedDevice, err := deviceRepo.FindDeviceByID(ctx, device.ID)
			if err != nil {
				return nil, fmt.Errorf("failed to find device by ID: %w", err)
			}

			return updatedDevice, nil
		}
	}

	now := s.now()
	device := &entity.PlayerDevice{
		ID:        uuid.New(),
		PlayerID:  playerID,
		FCMToken:  deviceInfo.FCMToken,
		DeviceID:  deviceInfo.DeviceID,
		Platform:  platform,
		IsActive:  true,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := deviceRepo.CreateDevice(ctx, device); err != nil {
		return nil, translateError(err)
	}

	return device, nil
}

// UpdatePushToken updates the FCM token for a specific device
func (s *deviceService) UpdatePushToken(ctx context.Context, playerID, deviceID uuid.UUID, fcmToken string) error {
	if strings.TrimSpace(fcmToken) == "" {
		return domainerrors.ErrValidationFailed.WithDetails("fcm token is required")
	}

	deviceRepo := s.repos.NewDeviceRepository()
	if _, err := s.ownedDevice(ctx, deviceRepo, playerID, deviceID); err != nil {
		return err
	}

	if err := deviceRepo.UpdateFCMToken(ctx, deviceID, fcmToken); err != nil {
		return fmt.Errorf("failed to update FCM token: %w", err)
	}

	return nil
}

// ListDevices retrieves all active devices for a player
func (s *deviceService) ListDevices(ctx context.Context, playerID uuid.UUID) ([]*entity.PlayerDevice, error) {
	devices, err := s.repos.NewDeviceRepository().FindActiveDevicesByPlayer(ctx, playerID)
	if err != nil {
		return nil, fmt.Errorf("failed to find active devices by player: %w", err)
	}

	return devices, nil
}

// DeactivateDevice deactivates a device (soft delete)
func (s *deviceService) DeactivateDevice(ctx context.Context, playerID, deviceID uuid.UUID) error {
	deviceRepo := s.repos.NewDeviceRepository()
	if _, err := s.ownedDevice(ctx, deviceRepo, playerID, deviceID); err != nil {
		return err
	}

	if err := deviceRepo.DeleteDevice(ctx, deviceID); err != nil {
		return fmt.Errorf("failed to delete device: %w", err)
	}

	return nil
}

func (s *deviceService) ownedDevice(ctx context.Context, deviceRepo repository.DeviceRepository, playerID, deviceID uuid.UUID) (*entity.PlayerDevice, error) {
	device, err := deviceRepo.FindDeviceByID(ctx, deviceID)
	if err != nil {
		if errors.Is(err, repository.ErrDeviceNotFound) {
			return nil, domainerrors.ErrDeviceNotFound
		}

		return nil, fmt.Errorf("failed to find device by ID: %w", err)
	}

	if device.PlayerID != playerID {
		return nil, domainerrors.ErrForbidden.WithDetails("device belongs to another player")
	}

	return device, nil
}
