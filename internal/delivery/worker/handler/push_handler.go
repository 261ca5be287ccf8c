package handler

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"citysim/config"
	deliverycontext "citysim/internal/delivery/context"
	"citysim/internal/domain/constants"
	"citysim/internal/domain/service"
	"citysim/internal/infra/pubsub"
	"citysim/internal/usecase"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"go.uber.org/fx"
	"google.golang.org/api/idtoken"
)

// PushHandler turns Pub/Sub pushed game events into device notifications
type PushHandler struct {
	verifyPushAuth bool
	logger         *slog.Logger
	gameEventUC    usecase.GameEventUsecase
}

// PushHandlerParams holds dependencies for the PushHandler
type PushHandlerParams struct {
	fx.In

	Config      *config.Config
	Logger      *slog.Logger
	GameEventUC usecase.GameEventUsecase
}

// NewPushHandler creates a new Pub/Sub push handler
func NewPushHandler(params PushHandlerParams) *PushHandler {
	verifyPushAuth := params.Config.PubSub != nil &&
		params.Config.PubSub.Provider == constants.PubSubProviderGoogle &&
		params.Config.Env.Env != constants.EnvDevelop

	return &PushHandler{
		verifyPushAuth: verifyPushAuth,
		logger:         params.Logger,
		gameEventUC:    params.GameEventUC,
	}
}

// HandlePush handles incoming Pub/Sub push messages. Delivery failures answer
// 503 so Pub/Sub retries; malformed messages are acknowledged to stop retries.
func (h *PushHandler) HandlePush(c echo.Context) error {
	ctx := c.Request().Context()

	if h.verifyPushAuth {
		if err := verifyPubSubToken(c.Request()); err != nil {
			h.logger.Warn("[Worker] Invalid Pub/Sub token", slog.Any("error", err))

			return c.NoContent(http.StatusUnauthorized)
		}
	}

	var pushMsg pubsub.PushMessage
	if err := c.Bind(&pushMsg); err != nil {
		h.logger.Error("[Worker] Failed to parse push message", slog.Any("error", err))

		return c.NoContent(http.StatusBadRequest)
	}

	event, err := pushMsg.DecodeEvent()
	if err != nil {
		h.logger.Error("[Worker] Failed to decode game event", slog.Any("error", err))

		return c.NoContent(http.StatusBadRequest)
	}

	requestID := extractRequestID(ctx, &pushMsg, event)
	reqLogger := h.logger.With(slog.String("request_id", requestID))
	ctx = deliverycontext.WithRequestID(ctx, requestID)
	ctx = deliverycontext.WithLogger(ctx, reqLogger)

	playerIDs := parsePlayerIDs(event.PlayerIDs)
	if len(playerIDs) == 0 {
		reqLogger.Debug("[Worker] Event has no recipients", slog.String("type", string(event.Type)))

		return c.NoContent(http.StatusOK)
	}

	title, body, data := notificationContent(event)
	if err := h.gameEventUC.NotifyPlayers(ctx, playerIDs, title, body, data); err != nil {
		reqLogger.Error("[Worker] Failed to notify players",
			slog.String("type", string(event.Type)),
			slog.Any("error", err),
		)

		return c.NoContent(http.StatusServiceUnavailable)
	}

	reqLogger.Info("[Worker] Game event delivered",
		slog.String("type", string(event.Type)),
		slog.Int("players", len(playerIDs)),
	)

	return c.NoContent(http.StatusOK)
}

// extractRequestID prefers message attributes, then the event, then the
// request context, and finally generates one.
func extractRequestID(ctx context.Context, pushMsg *pubsub.PushMessage, event *service.GameEvent) string {
	if requestID := pushMsg.Message.Attributes["request_id"]; requestID != "" {
		return requestID
	}
	if event.RequestID != "" {
		return event.RequestID
	}
	if requestID := deliverycontext.GetRequestIDFromContext(ctx); requestID != "" {
		return requestID
	}

	return uuid.New().String()
}

func parsePlayerIDs(raw []string) []uuid.UUID {
	ids := make([]uuid.UUID, 0, len(raw))
	for _, s := range raw {
		if id, err := uuid.Parse(s); err == nil {
			ids = append(ids, id)
		}
	}

	return ids
}

// notificationContent maps a game event to the push title, body and data.
func notificationContent(event *service.GameEvent) (title, body string, data map[string]string) {
	data = make(map[string]string, len(event.Attributes)+4)
	for k, v := range event.Attributes {
		data[k] = v
	}
	data["event_type"] = string(event.Type)
	if event.PlotID != "" {
		data["plot_id"] = event.PlotID
	}
	if event.BusinessID != "" {
		data["business_id"] = event.BusinessID
	}
	if event.Amount != "" {
		data["amount"] = event.Amount
	}

	switch event.Type {
	case service.EventPlotSold:
		title, body = "Plot sold", fmt.Sprintf("Your plot sold for %s TON", event.Amount)
	case service.EventPlotListed:
		title, body = "Plot listed", fmt.Sprintf("Your plot is listed for %s TON", event.Amount)
	case service.EventBusinessBuilt:
		title, body = "Construction finished", "Your new business is operating"
	case service.EventBusinessDemolished:
		title, body = "Business demolished", "Your plot is empty again"
	case service.EventIncomeCollected:
		title, body = "Income collected", fmt.Sprintf("%s TON was added to your balance", event.Amount)
	case service.EventWithdrawalRequested:
		title, body = "Withdrawal requested", fmt.Sprintf("Your withdrawal of %s TON is awaiting review", event.Amount)
	case service.EventWithdrawalProcessed:
		title, body = "Withdrawal processed", fmt.Sprintf("Your withdrawal of %s TON was %s", event.Amount, event.Attributes["status"])
	case service.EventDepositCredited:
		title, body = "Deposit received", fmt.Sprintf("%s TON was credited to your balance", event.Amount)
	case service.EventSweepCompleted:
		title, body = "Income collected", "Your businesses were collected automatically"
	default:
		title, body = "City update", string(event.Type)
	}

	return title, body, data
}

// verifyPubSubToken verifies the JWT token from Google Pub/Sub push requests
// Reference: https://cloud.google.com/pubsub/docs/push#authenticating_standard_push_requests
func verifyPubSubToken(req *http.Request) error {
	authHeader := req.Header.Get("Authorization")
	if authHeader == "" {
		return errors.New("missing authorization header")
	}

	const bearerPrefix = "Bearer "
	if !strings.HasPrefix(authHeader, bearerPrefix) {
		return errors.New("invalid authorization header format")
	}
	token := strings.TrimPrefix(authHeader, bearerPrefix)

	// The audience is the URL of this endpoint
	scheme := "https"
	if req.TLS == nil {
		scheme = "http"
	}
	audience := fmt.Sprintf("%s://%s%s", scheme, req.Host, req.URL.Path)

	payload, err := idtoken.Validate(req.Context(), token, audience)
	if err != nil {
		return errors.Wrap(err, "failed to validate token")
	}

	if payload.Issuer != "accounts.google.com" && payload.Issuer != "https://accounts.google.com" {
		return errors.Errorf("invalid issuer: %s", payload.Issuer)
	}

	if emailVerified, ok := payload.Claims["email_verified"].(bool); ok && !emailVerified {
		return errors.New("email not verified")
	}

	return nil
}
