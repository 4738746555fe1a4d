package jobexpireworker

import (
	"context"
	"jobmarket-backend/config"
	jobhandler "jobmarket-backend/lib/job"
	baseworker "jobmarket-backend/lib/utils/base-worker"
	"time"
)

// Expirer часть JobLifecycle, нужная воркеру
type Expirer interface {
	ExpirePublished(now time.Time) (expired int, err error)
}

func StartWorker(ctx context.Context) {
	interval := time.Duration(config.Conf.Job.ExpireWorkerIntervalS) * time.Second
	if interval <= 0 {
		interval = 5 * time.Minute
	}
	i := newWorker(jobhandler.Instance, 15*time.Second, interval)
	go i.Run(ctx, i.handle)
}

func newWorker(expirer Expirer, firstRunDelay, interval time.Duration) *impl {
	return &impl{
		BaseImpl: *baseworker.NewInstance("JobExpireWorker", firstRunDelay, interval),
		expirer:  expirer,
		now:      time.Now,
	}
}

type impl struct {
	baseworker.BaseImpl
	expirer Expirer
	now     func() time.Time
}

func (i impl) handle(ctx context.Context) {
	logger := i.GetLogger()
	expired, err := i.expirer.ExpirePublished(i.now())
	if err != nil {
		logger.WithError(err).Error("Ошибка перевода просроченных вакансий в статус 'Истек срок'")
		return
	}
	if expired != 0 {
		logger.WithField("expired", expired).Info("Просроченные вакансии закрыты")
	}
}
