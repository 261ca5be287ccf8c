package middleware

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"citysim/config"
	deliverycontext "citysim/internal/delivery/context"
	"citysim/internal/delivery/http/response"
	domainerrors "citysim/internal/domain/errors"
	"citysim/internal/domain/service"
	"citysim/internal/infra/auth"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTokenService(t *testing.T) service.TokenService {
	t.Helper()

	cfg := &config.Config{}
	cfg.SecretKey.Access = "middleware_test_access_secret"
	cfg.SecretKey.Refresh = "middleware_test_refresh_secret"
	svc, err := auth.NewJWTService(cfg)
	require.NoError(t, err)

	return svc
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) response.Response {
	t.Helper()

	var body response.Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))

	return body
}

func TestAuthMiddleware_Authenticate(t *testing.T) {
	tokens := newTokenService(t)
	m := NewAuthMiddleware(tokens)
	playerID := uuid.New()
	access, refresh, err := tokens.GenerateTokens(playerID, []string{"player"})
	require.NoError(t, err)

	tests := []struct {
		name       string
		header     string
		wantStatus int
	}{
		{name: "missing header", header: "", wantStatus: http.StatusUnauthorized},
		{name: "not bearer", header: "Token " + access, wantStatus: http.StatusUnauthorized},
		{name: "garbage token", header: "Bearer nope", wantStatus: http.StatusUnauthorized},
		{name: "refresh token", header: "Bearer " + refresh, wantStatus: http.StatusUnauthorized},
		{name: "access token", header: "Bearer " + access, wantStatus: http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := echo.New()
			req := httptest.NewRequest(http.MethodGet, "/api/players/me", nil)
			if tt.header != "" {
				req.Header.Set(echo.HeaderAuthorization, tt.header)
			}
			rec := httptest.NewRecorder()
			c := e.NewContext(req, rec)

			var seen uuid.UUID
			err := m.Authenticate(func(c echo.Context) error {
				seen, _ = deliverycontext.GetPlayerID(c)
				return c.NoContent(http.StatusOK)
			})(c)
			require.NoError(t, err)
			assert.Equal(t, tt.wantStatus, rec.Code)
			if tt.wantStatus == http.StatusOK {
				assert.Equal(t, playerID, seen)
			}
		})
	}
}

func TestAuthMiddleware_RequireAdmin(t *testing.T) {
	m := NewAuthMiddleware(newTokenService(t))
	e := echo.New()

	run := func(roles []string) int {
		req := httptest.NewRequest(http.MethodGet, "/admin/treasury", nil)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)
		deliverycontext.SetPlayer(c, uuid.New(), roles)

		require.NoError(t, m.RequireAdmin()(func(c echo.Context) error {
			return c.NoContent(http.StatusOK)
		})(c))

		return rec.Code
	}

	assert.Equal(t, http.StatusForbidden, run([]string{"player"}))
	assert.Equal(t, http.StatusForbidden, run(nil))
	assert.Equal(t, http.StatusOK, run([]string{"player", "admin"}))
}

func TestErrorMiddleware_HandleHTTPError(t *testing.T) {
	m := NewErrorMiddleware(slog.Default())

	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
		wantKind   domainerrors.Kind
	}{
		{
			name:       "app error",
			err:        errors.WithStack(domainerrors.ErrInsufficientFunds.WithDetails("need 10")),
			wantStatus: http.StatusPaymentRequired,
			wantCode:   domainerrors.ErrInsufficientFunds.ErrorCode(),
			wantKind:   domainerrors.KindInsufficientFunds,
		},
		{
			name:       "echo error",
			err:        echo.NewHTTPError(http.StatusNotFound, "route not found"),
			wantStatus: http.StatusNotFound,
			wantCode:   "HTTP_ERROR",
			wantKind:   domainerrors.KindValidation,
		},
		{
			name:       "unknown error",
			err:        errors.New("disk on fire"),
			wantStatus: http.StatusInternalServerError,
			wantCode:   "INTERNAL_ERROR",
			wantKind:   domainerrors.KindInternal,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := echo.New()
			rec := httptest.NewRecorder()
			c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)

			m.HandleHTTPError(tt.err, c)

			assert.Equal(t, tt.wantStatus, rec.Code)
			body := decode(t, rec)
			assert.False(t, body.Success)
			require.NotNil(t, body.Error)
			assert.Equal(t, tt.wantCode, body.Error.Code)
			assert.Equal(t, tt.wantKind, body.Error.Kind)
			assert.NotContains(t, rec.Body.String(), "disk on fire")
		})
	}
}
