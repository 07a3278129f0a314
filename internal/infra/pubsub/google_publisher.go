package pubsub

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"synnapse/internal/domain/service"

	"cloud.google.com/go/pubsub/v2"
	pubsubpb "cloud.google.com/go/pubsub/v2/apiv1/pubsubpb"
	"github.com/pkg/errors"
)

const googleAckTimeout = 30 * time.Second

// googlePubSubPublisher hands events to the Pub/Sub client's batcher and waits for
// the server ack in the background.
type googlePubSubPublisher struct {
	client    *pubsub.Client
	publisher *pubsub.Publisher
	logger    *slog.Logger
	acks      inflight
}

// NewGooglePubSubPublisher connects to projectID and fails fast when topicID does not exist.
func NewGooglePubSubPublisher(ctx context.Context, projectID, topicID string, logger *slog.Logger) (service.EventPublisher, error) {
	client, err := pubsub.NewClient(ctx, projectID)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	topicPath := fmt.Sprintf("projects/%s/topics/%s", projectID, topicID)
	if _, err := client.TopicAdminClient.GetTopic(ctx, &pubsubpb.GetTopicRequest{Topic: topicPath}); err != nil {
		client.Close()

		return nil, errors.Wrapf(err, "failed to get topic %s", topicID)
	}

	logger.Info("Google Pub/Sub publisher ready",
		slog.String("project_id", projectID),
		slog.String("topic_id", topicID),
	)

	return &googlePubSubPublisher{
		client:    client,
		publisher: client.Publisher(topicID),
		logger:    logger,
	}, nil
}

// PublishAuthEvent enqueues event. The ack outcome is logged, never returned.
func (p *googlePubSubPublisher) PublishAuthEvent(ctx context.Context, event *service.AuthEvent) error {
	data, err := json.Marshal(event)
	if err != nil {
		return errors.WithStack(err)
	}

	detached := context.WithoutCancel(ctx)

	return p.acks.goDeliver(func() {
		result := p.publisher.Publish(detached, &pubsub.Message{
			Data:       data,
			Attributes: eventAttributes(event),
		})

		ackCtx, cancel := context.WithTimeout(detached, googleAckTimeout)
		defer cancel()

		logger := p.logger.With(
			slog.String("event_id", event.EventID),
			slog.String("type", string(event.Type)),
		)
		serverID, err := result.Get(ackCtx)
		if err != nil {
			logger.WarnContext(ackCtx, "Auth event not acknowledged", slog.Any("error", err))

			return
		}
		logger.InfoContext(ackCtx, "Auth event published", slog.String("server_id", serverID))
	})
}

// Close waits for pending acks, then stops the batcher and releases the client.
func (p *googlePubSubPublisher) Close() error {
	p.acks.drain()
	if p.publisher != nil {
		p.publisher.Stop()
	}
	if p.client != nil {
		return errors.WithStack(p.client.Close())
	}

	return nil
}
