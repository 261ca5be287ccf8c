package impl

import (
	"context"
	"testing"

	domainerrors "citysim/internal/domain/errors"
	"citysim/internal/usecase"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// deviceServiceFixtures holds all test dependencies for device service tests.
type deviceServiceFixtures struct {
	gameFixtures
	service usecase.DeviceUsecase
}

func createTestDeviceService(t *testing.T) deviceServiceFixtures {
	fx := newGameFixtures(t)

	return deviceServiceFixtures{
		gameFixtures: fx,
		service:      NewDeviceService(fx.params),
	}
}

func TestDeviceService_RegisterDevice_NewDevice(t *testing.T) {
	fx := createTestDeviceService(t)
	ctx := context.Background()
	playerID := uuid.New()

	device, err := fx.service.RegisterDevice(ctx, playerID, &usecase.DeviceInfo{
		FCMToken: "test-fcm-token",
		DeviceID: "device-123",
		Platform: "iOS",
	})
	require.NoError(t, err)
	assert.Equal(t, playerID, device.PlayerID)
	assert.Equal(t, "test-fcm-token", device.FCMToken)
	assert.Equal(t, "ios", device.Platform)
	assert.True(t, device.IsActive)
}

func TestDeviceService_RegisterDevice_UpdateExisting(t *testing.T) {
	fx := createTestDeviceService(t)
	ctx := context.Background()
	playerID := uuid.New()

	first, err := fx.service.RegisterDevice(ctx, playerID, &usecase.DeviceInfo{FCMToken: "old-token", DeviceID: "device-123", Platform: "android"})
	require.NoError(t, err)

	second, err := fx.service.RegisterDevice(ctx, playerID, &usecase.DeviceInfo{FCMToken: "new-token", DeviceID: "device-123", Platform: "android"})
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, "new-token", second.FCMToken)

	devices, err := fx.service.ListDevices(ctx, playerID)
	require.NoError(t, err)
	assert.Len(t, devices, 1)
}

func TestDeviceService_RegisterDevice_Validation(t *testing.T) {
	fx := createTestDeviceService(t)
	ctx := context.Background()

	_, err := fx.service.RegisterDevice(ctx, uuid.New(), &usecase.DeviceInfo{DeviceID: "d", Platform: "ios"})
	assert.ErrorIs(t, err, domainerrors.ErrValidationFailed)

	_, err = fx.service.RegisterDevice(ctx, uuid.New(), &usecase.DeviceInfo{FCMToken: "t", DeviceID: "d", Platform: "symbian"})
	assert.ErrorIs(t, err, domainerrors.ErrValidationFailed)
}

func TestDeviceService_OwnershipChecks(t *testing.T) {
	fx := createTestDeviceService(t)
	ctx := context.Background()
	owner := uuid.New()
	intruder := uuid.New()

	device, err := fx.service.RegisterDevice(ctx, owner, &usecase.DeviceInfo{FCMToken: "token", DeviceID: "device-1", Platform: "web"})
	require.NoError(t, err)

	err = fx.service.UpdatePushToken(ctx, intruder, device.ID, "stolen")
	assert.ErrorIs(t, err, domainerrors.ErrForbidden)

	err = fx.service.DeactivateDevice(ctx, intruder, device.ID)
	assert.ErrorIs(t, err, domainerrors.ErrForbidden)

	err = fx.service.UpdatePushToken(ctx, owner, uuid.New(), "token")
	assert.ErrorIs(t, err, domainerrors.ErrDeviceNotFound)

	require.NoError(t, fx.service.UpdatePushToken(ctx, owner, device.ID, "rotated"))
	require.NoError(t, fx.service.DeactivateDevice(ctx, owner, device.ID))

	devices, err := fx.service.ListDevices(ctx, owner)
	require.NoError(t, err)
	assert.Empty(t, devices)
}
