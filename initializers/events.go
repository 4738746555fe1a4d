package initializers

import (
	"context"
	"jobmarket-backend/config"
	"jobmarket-backend/lib/events"
	"time"

	log "github.com/sirupsen/logrus"
)

// InitEvents без NATS события пишутся в лог
func InitEvents(ctx context.Context) {
	conf := config.Conf.Nats
	if conf.URL == "" {
		log.Info("NATS не настроен, события пишутся в лог")
		events.Instance = events.NewLogPublisher()
		return
	}
	publisher, err := events.NewNatsPublisher(conf.URL, conf.SubjectPrefix, time.Duration(conf.ConnTimeoutS)*time.Second)
	if err != nil {
		log.WithError(err).Error("ошибка подключения к NATS, события пишутся в лог")
		events.Instance = events.NewLogPublisher()
		return
	}
	events.Instance = publisher
	go func() {
		<-ctx.Done()
		publisher.Close()
	}()
}
