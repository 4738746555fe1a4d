package events

import (
	"context"
	"time"

	log "github.com/sirupsen/logrus"
)

type Type string

const (
	TypeJobPublished        Type = "job.published"
	TypeJobClosed           Type = "job.closed"
	TypeApplicationCreated  Type = "application.created"
	TypeReferralCreated     Type = "referral.created"
	TypeDistributionClaimed Type = "distribution.claimed"
	TypeDistributionSettled Type = "distribution.settled"
	TypeDistributionPaid    Type = "distribution.paid"
)

// Event изменение состояния, на которое может подписаться сервис уведомлений
type Event struct {
	Type       Type                   `json:"type"`
	EntityID   string                 `json:"entity_id"`
	JobID      string                 `json:"job_id,omitempty"`
	ActorID    string                 `json:"actor_id,omitempty"`
	Status     string                 `json:"status,omitempty"`
	OccurredAt time.Time              `json:"occurred_at"`
	Data       map[string]interface{} `json:"data,omitempty"`
}

type Publisher interface {
	Publish(ctx context.Context, event Event) error
	Close()
}

var Instance Publisher = NewLogPublisher()

// Send публикует событие после фиксации транзакции, ошибка публикации только логируется
func Send(ctx context.Context, publisher Publisher, event Event) {
	if publisher == nil {
		return
	}
	if event.OccurredAt.IsZero() {
		event.OccurredAt = time.Now()
	}
	err := publisher.Publish(ctx, event)
	if err != nil {
		log.
			WithField("event_type", event.Type).
			WithField("entity_id", event.EntityID).
			WithError(err).
			Error("ошибка публикации события")
	}
}
