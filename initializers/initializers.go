package initializers

import (
	"context"
	"jobmarket-backend/config"
	"jobmarket-backend/fiberlog"
	"jobmarket-backend/lib/events"
	pdfexport "jobmarket-backend/lib/export/pdf"
	xlsexport "jobmarket-backend/lib/export/xls"
	jobhandler "jobmarket-backend/lib/job"
	applyhandler "jobmarket-backend/lib/job-apply"
	jobexpireworker "jobmarket-backend/lib/job/expire-worker"
	paymenthandler "jobmarket-backend/lib/payment-distribution"
	referralhandler "jobmarket-backend/lib/referral"
	initchecker "jobmarket-backend/lib/utils/init-checker"
)

var LoggerConfig *fiberlog.Config

func InitAllServices(ctx context.Context) {
	LoggerConfig = InitLogger()
	config.InitConfig()
	InitDBConnection()
	InitEvents(ctx)
	linkCache := InitReferralLinkCache(ctx)

	xlsexport.NewHandler()
	pdfexport.NewHandler()
	jobhandler.NewHandler()
	initchecker.MustCheck(
		initchecker.Dependency{Name: "events", Value: events.Instance},
		initchecker.Dependency{Name: "job", Value: jobhandler.Instance},
		initchecker.Dependency{Name: "xls export", Value: xlsexport.Instance},
		initchecker.Dependency{Name: "pdf export", Value: pdfexport.Instance},
	)
	applyhandler.NewHandler()
	referralhandler.NewHandler(linkCache)
	paymenthandler.NewHandler()

	initWorkers(ctx)
}

func initWorkers(ctx context.Context) {
	// Задача перевода просроченных вакансий в статус 'Истек срок'
	jobexpireworker.StartWorker(ctx)
}
