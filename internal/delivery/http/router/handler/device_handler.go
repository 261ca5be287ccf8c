package handler

import (
	"log/slog"
	"net/http"

	"citysim/internal/delivery/http/response"
	"citysim/internal/usecase"

	"github.com/labstack/echo/v4"
	"go.uber.org/fx"
)

// DeviceHandlerParams holds dependencies for DeviceHandler, injected by Fx.
type DeviceHandlerParams struct {
	fx.In

	DeviceUC usecase.DeviceUsecase
	Logger   *slog.Logger
}

// DeviceHandler holds dependencies for device-related handlers
type DeviceHandler struct {
	deviceUC usecase.DeviceUsecase
	logger   *slog.Logger
}

// NewDeviceHandler is the constructor for DeviceHandler
func NewDeviceHandler(params DeviceHandlerParams) *DeviceHandler {
	return &DeviceHandler{
		deviceUC: params.DeviceUC,
		logger:   params.Logger,
	}
}

// RegisterDeviceRequest represents the request body for registering a device
type RegisterDeviceRequest struct {
	FCMToken string `json:"fcm_token" validate:"required"`
	DeviceID string `json:"device_id" validate:"required"`
	Platform string `json:"platform" validate:"required,oneof=ios android web"`
}

// UpdateFCMTokenRequest represents the request body for updating FCM token
type UpdateFCMTokenRequest struct {
	FCMToken string `json:"fcm_token" validate:"required"`
}

// RegisterDevice handles device registration
func (h *DeviceHandler) RegisterDevice(c echo.Context) error {
	playerID, err := currentPlayer(c)
	if err != nil {
		return respond(err)
	}

	var req RegisterDeviceRequest
	if err := bindAndValidate(c, &req); err != nil {
		return respond(err)
	}

	device, err := h.deviceUC.RegisterDevice(c.Request().Context(), playerID, &usecase.DeviceInfo{
		FCMToken: req.FCMToken,
		DeviceID: req.DeviceID,
		Platform: req.Platform,
	})
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Success(c, http.StatusCreated, device, "Device registered successfully")
}

// ListDevices handles retrieving all player devices
func (h *DeviceHandler) ListDevices(c echo.Context) error {
	playerID, err := currentPlayer(c)
	if err != nil {
		return respond(err)
	}

	devices, err := h.deviceUC.ListDevices(c.Request().Context(), playerID)
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Success(c, http.StatusOK, devices, "")
}

// UpdateFCMToken handles updating FCM token for a device
func (h *DeviceHandler) UpdateFCMToken(c echo.Context) error {
	playerID, err := currentPlayer(c)
	if err != nil {
		return respond(err)
	}
	deviceID, err := uuidParam(c, "id")
	if err != nil {
		return respond(err)
	}

	var req UpdateFCMTokenRequest
	if err := bindAndValidate(c, &req); err != nil {
		return respond(err)
	}

	if err := h.deviceUC.UpdatePushToken(c.Request().Context(), playerID, deviceID, req.FCMToken); err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Success(c, http.StatusOK, nil, "FCM token updated successfully")
}

// DeactivateDevice handles device deactivation
func (h *DeviceHandler) DeactivateDevice(c echo.Context) error {
	playerID, err := currentPlayer(c)
	if err != nil {
		return respond(err)
	}
	deviceID, err := uuidParam(c, "id")
	if err != nil {
		return respond(err)
	}

	if err := h.deviceUC.DeactivateDevice(c.Request().Context(), playerID, deviceID); err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Success(c, http.StatusOK, nil, "Device deactivated successfully")
}
