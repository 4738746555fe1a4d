package events

import (
	"context"
	"encoding/json"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

type natsPublisher struct {
	conn          *nats.Conn
	subjectPrefix string
}

func NewNatsPublisher(url, subjectPrefix string, connTimeout time.Duration) (Publisher, error) {
	opts := []nats.Option{
		nats.Name("jobmarket-backend"),
		nats.Timeout(connTimeout),
		nats.ReconnectWait(time.Second),
		nats.MaxReconnects(-1),
	}
	conn, err := nats.Connect(url, opts...)
	if err != nil {
		return nil, errors.Wrap(err, "ошибка подключения к NATS")
	}
	return &natsPublisher{
		conn:          conn,
		subjectPrefix: subjectPrefix,
	}, nil
}

func Subject(prefix string, eventType Type) string {
	if prefix == "" {
		return string(eventType)
	}
	return prefix + "." + string(eventType)
}

func (p *natsPublisher) Publish(ctx context.Context, event Event) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	data, err := json.Marshal(event)
	if err != nil {
		return errors.Wrap(err, "ошибка сериализации события")
	}
	subject := Subject(p.subjectPrefix, event.Type)
	if err = p.conn.Publish(subject, data); err != nil {
		return errors.Wrapf(err, "ошибка публикации в %v", subject)
	}
	log.
		WithField("subject", subject).
		WithField("entity_id", event.EntityID).
		Debug("событие опубликовано")
	return nil
}

func (p *natsPublisher) Close() {
	if p.conn != nil {
		if err := p.conn.Drain(); err != nil {
			p.conn.Close()
		}
	}
}
