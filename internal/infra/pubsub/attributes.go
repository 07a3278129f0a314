package pubsub

import "synnapse/internal/domain/service"

// eventAttributes returns the message attributes used for subscription filtering and tracing.
func eventAttributes(event *service.AuthEvent) map[string]string {
	attributes := map[string]string{
		"event_id":   event.EventID,
		"event_type": string(event.Type),
	}
	if event.PersonID != "" {
		attributes["person_id"] = event.PersonID
	}
	if event.RequestID != "" {
		attributes["request_id"] = event.RequestID
	}

	return attributes
}
