package pubsub

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"synnapse/internal/domain/service"

	"github.com/pkg/errors"
)

const (
	localPushTimeout      = 5 * time.Second
	localPushSubscription = "projects/local/subscriptions/auth-events-sub"
)

// localHTTPPublisher posts each event to a development endpoint in the shape of a
// Pub/Sub push delivery. The POST happens in the background.
type localHTTPPublisher struct {
	endpoint   string
	httpClient *http.Client
	logger     *slog.Logger
	deliveries inflight
}

// PubSubPushMessage is the body Google Pub/Sub sends to push subscribers.
type PubSubPushMessage struct {
	Message struct {
		Data        string            `json:"data"`
		Attributes  map[string]string `json:"attributes,omitempty"`
		MessageID   string            `json:"messageId"`
		PublishTime string            `json:"publishTime"`
	} `json:"message"`
	Subscription string `json:"subscription"`
}

func NewLocalHTTPPublisher(endpoint string, logger *slog.Logger) service.EventPublisher {
	return &localHTTPPublisher{
		endpoint:   endpoint,
		httpClient: &http.Client{Timeout: localPushTimeout},
		logger:     logger,
	}
}

// PublishAuthEvent encodes event and returns; the push result is only logged.
func (p *localHTTPPublisher) PublishAuthEvent(ctx context.Context, event *service.AuthEvent) error {
	body, err := encodePushMessage(event, time.Now())
	if err != nil {
		return err
	}

	return p.deliveries.goDeliver(func() {
		p.push(context.WithoutCancel(ctx), event, body)
	})
}

func (p *localHTTPPublisher) push(ctx context.Context, event *service.AuthEvent, body []byte) {
	logger := p.logger.With(
		slog.String("event_id", event.EventID),
		slog.String("type", string(event.Type)),
	)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.endpoint, bytes.NewReader(body))
	if err != nil {
		logger.ErrorContext(ctx, "Failed to build push request", slog.Any("error", err))

		return
	}
	req.Header.Set("Content-Type", "application/json")
	if event.RequestID != "" {
		req.Header.Set("X-Request-Id", event.RequestID)
	}

	resp, err := p.httpClient.Do(req)
	if err != nil {
		logger.WarnContext(ctx, "Auth event push failed", slog.Any("error", err))

		return
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		logger.WarnContext(ctx, "Auth event push rejected", slog.Int("status", resp.StatusCode))

		return
	}

	logger.InfoContext(ctx, "Auth event pushed", slog.String("endpoint", p.endpoint))
}

// Close waits for pushes already started.
func (p *localHTTPPublisher) Close() error {
	p.deliveries.drain()

	return nil
}

func encodePushMessage(event *service.AuthEvent, publishedAt time.Time) ([]byte, error) {
	data, err := json.Marshal(event)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	msg := PubSubPushMessage{Subscription: localPushSubscription}
	msg.Message.Data = base64.StdEncoding.EncodeToString(data)
	msg.Message.MessageID = event.EventID
	msg.Message.PublishTime = publishedAt.UTC().Format(time.RFC3339)
	msg.Message.Attributes = eventAttributes(event)

	body, err := json.Marshal(msg)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	return body, nil
}
