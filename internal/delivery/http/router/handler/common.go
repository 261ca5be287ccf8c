// Package handler contains the echo handlers of the game API.
package handler

import (
	"net/http"
	"strconv"

	deliverycontext "citysim/internal/delivery/context"
	"citysim/internal/delivery/http/response"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
)

const (
	defaultPageLimit = 50
	maxPageLimit     = 500
)

// errResponded marks that a handler helper already wrote the response.
type errResponded struct{ err error }

func (e errResponded) Error() string {
	if e.err == nil {
		return "response already written"
	}

	return e.err.Error()
}

// respond converts a helper failure into the handler result.
func respond(err error) error {
	if r, ok := err.(errResponded); ok {
		return r.err
	}

	return err
}

// currentPlayer returns the player authenticated by the auth middleware.
func currentPlayer(c echo.Context) (uuid.UUID, error) {
	playerID, ok := deliverycontext.GetPlayerID(c)
	if !ok {
		return uuid.Nil, errResponded{response.Unauthorized(c, "INVALID_TOKEN", "Invalid player ID in token")}
	}

	return playerID, nil
}

func uuidParam(c echo.Context, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		return uuid.Nil, errResponded{response.BadRequest(c, "INVALID_ID", "Invalid "+name)}
	}

	return id, nil
}

func intParam(c echo.Context, name string) (int, error) {
	v, err := strconv.Atoi(c.Param(name))
	if err != nil {
		return 0, errResponded{response.BadRequest(c, "INVALID_PARAMETER", "Invalid "+name)}
	}

	return v, nil
}

// pagination reads limit and offset query parameters. Out of range values
// are clamped.
func pagination(c echo.Context) (limit, offset int) {
	limit, _ = strconv.Atoi(c.QueryParam("limit"))
	offset, _ = strconv.Atoi(c.QueryParam("offset"))
	if limit <= 0 {
		limit = defaultPageLimit
	}
	limit = min(limit, maxPageLimit)

	return limit, max(offset, 0)
}

// bindAndValidate binds the request body into req and runs the validator.
func bindAndValidate(c echo.Context, req any) error {
	if err := c.Bind(req); err != nil {
		return errResponded{response.BindingError(c, "INVALID_INPUT", "Invalid request body")}
	}
	if err := c.Validate(req); err != nil {
		return errResponded{response.ValidationError(c, err)}
	}

	return nil
}

// parseAmount reads a validated positive decimal string.
func parseAmount(c echo.Context, raw string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, errResponded{response.BadRequest(c, "INVALID_AMOUNT", "Invalid amount")}
	}

	return d, nil
}

// HealthCheck reports liveness.
func HealthCheck(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}
