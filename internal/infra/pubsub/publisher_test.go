package pubsub

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"citysim/config"
	"citysim/internal/domain/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/fx/fxtest"
)

func TestLocalHTTPPublisher_SendsPushEnvelope(t *testing.T) {
	var received PushMessage
	var requestID string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID = r.Header.Get("X-Request-Id")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&received))
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	publisher := NewLocalHTTPPublisher(server.URL, slog.Default())
	event := &service.GameEvent{
		RequestID: "req-1",
		Type:      service.EventPlotSold,
		PlayerIDs: []string{"p1"},
		Amount:    "10",
	}
	require.NoError(t, publisher.PublishGameEvent(context.Background(), event))

	assert.Equal(t, "req-1", requestID)
	assert.Equal(t, "plot_sold", received.Message.Attributes["event_type"])
	assert.NotEmpty(t, received.Message.MessageID)

	decoded, err := received.DecodeEvent()
	require.NoError(t, err)
	assert.Equal(t, event.Type, decoded.Type)
	assert.Equal(t, event.PlayerIDs, decoded.PlayerIDs)
	assert.Equal(t, "10", decoded.Amount)
}

func TestLocalHTTPPublisher_NonSuccessStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	err := NewLocalHTTPPublisher(server.URL, slog.Default()).
		PublishGameEvent(context.Background(), &service.GameEvent{Type: service.EventPlotSold})
	assert.Error(t, err)
}

func TestPushMessage_DecodeEvent_Invalid(t *testing.T) {
	var msg PushMessage
	msg.Message.Data = "!!not base64!!"
	_, err := msg.DecodeEvent()
	assert.Error(t, err)
}

func TestNewEventPublisher(t *testing.T) {
	tests := []struct {
		name    string
		pubsub  *config.PubSubConfig
		wantErr bool
	}{
		{name: "not configured", pubsub: nil},
		{name: "local", pubsub: &config.PubSubConfig{Provider: "local", LocalEndpoint: "http://localhost:8081/push"}},
		{name: "local without endpoint", pubsub: &config.PubSubConfig{Provider: "local"}, wantErr: true},
		{name: "google without project", pubsub: &config.PubSubConfig{Provider: "google", TopicID: "t"}, wantErr: true},
		{name: "unknown provider", pubsub: &config.PubSubConfig{Provider: "kafka"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lc := fxtest.NewLifecycle(t)
			publisher, err := NewEventPublisher(PublisherParams{
				Lc:     lc,
				Ctx:    context.Background(),
				Config: &config.Config{PubSub: tt.pubsub},
				Logger: slog.Default(),
			})
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			require.NotNil(t, publisher)
			if tt.pubsub == nil {
				assert.NoError(t, publisher.PublishGameEvent(context.Background(), &service.GameEvent{Type: service.EventSweepCompleted}))
			}
		})
	}
}
