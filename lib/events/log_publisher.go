package events

import (
	"context"

	log "github.com/sirupsen/logrus"
)

type logPublisher struct{}

// NewLogPublisher используется, когда брокер не настроен
func NewLogPublisher() Publisher {
	return logPublisher{}
}

func (p logPublisher) Publish(ctx context.Context, event Event) error {
	log.
		WithField("event_type", event.Type).
		WithField("entity_id", event.EntityID).
		WithField("job_id", event.JobID).
		WithField("actor_id", event.ActorID).
		WithField("status", event.Status).
		Info("событие")
	return nil
}

func (p logPublisher) Close() {}
