// Package context carries request-scoped values between delivery and use cases.
package context

import (
	"context"
	"log/slog"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// ContextKey is a custom type for context keys to avoid collisions.
type ContextKey string

const (
	// KeyRequestID is the key for storing request ID in context.
	KeyRequestID ContextKey = "request_id"

	// KeyLogger is the key for storing request-scoped logger in context.
	KeyLogger ContextKey = "logger"

	// KeyPlayerID is the key for the authenticated player.
	KeyPlayerID ContextKey = "player_id"

	// KeyRoles is the key for the roles of the authenticated player.
	KeyRoles ContextKey = "roles"

	// HeaderXRequestID is the HTTP header name for request ID.
	HeaderXRequestID = "X-Request-Id"
)

// GetRequestID extracts the request ID from echo.Context.
// If not found, generates a new UUID.
func GetRequestID(c echo.Context) string {
	if id, ok := c.Get(string(KeyRequestID)).(string); ok && id != "" {
		return id
	}

	return uuid.New().String()
}

// SetRequestID sets the request ID in echo.Context.
func SetRequestID(c echo.Context, requestID string) {
	c.Set(string(KeyRequestID), requestID)
}

// GetRequestIDFromContext extracts the request ID from standard context.Context.
func GetRequestIDFromContext(ctx context.Context) string {
	if id, ok := ctx.Value(KeyRequestID).(string); ok {
		return id
	}

	return ""
}

// WithRequestID returns a new context with the request ID.
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, KeyRequestID, requestID)
}

// GetLoggerOrDefault extracts the request-scoped logger from context.Context,
// falling back to the given logger.
func GetLoggerOrDefault(ctx context.Context, fallback *slog.Logger) *slog.Logger {
	if logger, ok := ctx.Value(KeyLogger).(*slog.Logger); ok && logger != nil {
		return logger
	}

	return fallback
}

// WithLogger returns a new context with the logger.
func WithLogger(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, KeyLogger, logger)
}

// SetPlayer stores the authenticated player on both the echo and request contexts.
func SetPlayer(c echo.Context, playerID uuid.UUID, roles []string) {
	c.Set(string(KeyPlayerID), playerID)
	c.Set(string(KeyRoles), roles)

	ctx := context.WithValue(c.Request().Context(), KeyPlayerID, playerID)
	c.SetRequest(c.Request().WithContext(ctx))
}

// GetPlayerID returns the authenticated player set by the auth middleware.
func GetPlayerID(c echo.Context) (uuid.UUID, bool) {
	id, ok := c.Get(string(KeyPlayerID)).(uuid.UUID)
	return id, ok && id != uuid.Nil
}

// GetRoles returns the roles of the authenticated player.
func GetRoles(c echo.Context) []string {
	roles, _ := c.Get(string(KeyRoles)).([]string)
	return roles
}

// PlayerIDFromContext returns the authenticated player stored on a standard context.
func PlayerIDFromContext(ctx context.Context) (uuid.UUID, bool) {
	id, ok := ctx.Value(KeyPlayerID).(uuid.UUID)
	return id, ok
}
