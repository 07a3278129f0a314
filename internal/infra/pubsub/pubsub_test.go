package pubsub

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"synnapse/config"
	"synnapse/internal/domain/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/fx/fxtest"
)

func newDiscardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestEvent() *service.AuthEvent {
	return &service.AuthEvent{
		RequestID:  "req-1",
		EventID:    "evt-1",
		Type:       service.EventPasswordChanged,
		PersonID:   "person-1",
		Email:      "user@example.com",
		OccurredAt: time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC),
	}
}

type pushedRequest struct {
	requestID string
	msg       PubSubPushMessage
}

func TestLocalHTTPPublisher_PublishAuthEvent(t *testing.T) {
	received := make(chan pushedRequest, 1)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var got pushedRequest
		got.requestID = r.Header.Get("X-Request-Id")
		_ = json.NewDecoder(r.Body).Decode(&got.msg)
		received <- got
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	pub := NewLocalHTTPPublisher(srv.URL, newDiscardLogger())
	require.NoError(t, pub.PublishAuthEvent(context.Background(), newTestEvent()))
	require.NoError(t, pub.Close())

	got := <-received
	assert.Equal(t, "req-1", got.requestID)
	assert.Equal(t, "evt-1", got.msg.Message.MessageID)
	assert.Equal(t, "password.changed", got.msg.Message.Attributes["event_type"])

	raw, err := base64.StdEncoding.DecodeString(got.msg.Message.Data)
	require.NoError(t, err)

	var decoded service.AuthEvent
	require.NoError(t, json.Unmarshal(raw, &decoded))
	assert.Equal(t, "user@example.com", decoded.Email)
	assert.Equal(t, service.EventPasswordChanged, decoded.Type)
}

func TestLocalHTTPPublisher_DoesNotWaitForEndpoint(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		<-release
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	pub := NewLocalHTTPPublisher(srv.URL, newDiscardLogger())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- pub.PublishAuthEvent(ctx, newTestEvent()) }()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("PublishAuthEvent blocked on the push endpoint")
	}
	cancel()

	close(release)
	require.NoError(t, pub.Close())
}

func TestLocalHTTPPublisher_RejectedPushIsLogged(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	var logs bytes.Buffer
	pub := NewLocalHTTPPublisher(srv.URL, slog.New(slog.NewJSONHandler(&logs, nil)))

	require.NoError(t, pub.PublishAuthEvent(context.Background(), newTestEvent()))
	require.NoError(t, pub.Close())

	assert.Contains(t, logs.String(), "Auth event push rejected")
	assert.Contains(t, logs.String(), `"status":500`)
}

func TestLocalHTTPPublisher_RefusesAfterClose(t *testing.T) {
	pub := NewLocalHTTPPublisher("http://127.0.0.1:1", newDiscardLogger())
	require.NoError(t, pub.Close())

	assert.ErrorIs(t, pub.PublishAuthEvent(context.Background(), newTestEvent()), ErrPublisherClosed)
}

func TestEventAttributes_OmitsEmpty(t *testing.T) {
	attrs := eventAttributes(&service.AuthEvent{EventID: "e", Type: service.EventPasswordReset})

	assert.Equal(t, map[string]string{"event_id": "e", "event_type": "password.reset"}, attrs)
}

func TestNewEventPublisher(t *testing.T) {
	tests := []struct {
		name    string
		pubsub  *config.PubSubConfig
		wantErr bool
		wantTyp any
	}{
		{name: "unset is noop", pubsub: nil, wantTyp: &noopPublisher{}},
		{name: "empty provider is noop", pubsub: &config.PubSubConfig{}, wantTyp: &noopPublisher{}},
		{name: "local needs endpoint", pubsub: &config.PubSubConfig{Provider: config.PubSubProviderLocal}, wantErr: true},
		{name: "local", pubsub: &config.PubSubConfig{Provider: config.PubSubProviderLocal, LocalEndpoint: "http://localhost:1"}, wantTyp: &localHTTPPublisher{}},
		{name: "google needs project", pubsub: &config.PubSubConfig{Provider: config.PubSubProviderGoogle, TopicID: "t"}, wantErr: true},
		{name: "google needs topic", pubsub: &config.PubSubConfig{Provider: config.PubSubProviderGoogle, ProjectID: "p"}, wantErr: true},
		{name: "unknown", pubsub: &config.PubSubConfig{Provider: "kafka"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lc := fxtest.NewLifecycle(t)
			cfg := &config.Config{PubSub: tt.pubsub}

			pub, err := NewEventPublisher(PublisherParams{
				Lc:     lc,
				Ctx:    context.Background(),
				Config: cfg,
				Logger: newDiscardLogger(),
			})
			if tt.wantErr {
				assert.Error(t, err)

				return
			}

			require.NoError(t, err)
			assert.IsType(t, tt.wantTyp, pub)
			assert.NoError(t, pub.Close())
		})
	}
}

func TestNoopPublisher(t *testing.T) {
	pub := &noopPublisher{logger: newDiscardLogger()}

	assert.NoError(t, pub.PublishAuthEvent(context.Background(), newTestEvent()))
	assert.NoError(t, pub.Close())
}
