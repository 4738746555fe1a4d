package main

import (
	"context"
	"fmt"
	"jobmarket-backend/config"
	apiv1 "jobmarket-backend/controllers/v1"
	"jobmarket-backend/db"
	"jobmarket-backend/fiberlog"
	"jobmarket-backend/initializers"
	"jobmarket-backend/middleware"
	apimodels "jobmarket-backend/models/api"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	fiberRecover "github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	log "github.com/sirupsen/logrus"
)

//go:generate swag init --outputTypes json --output ./docs

const (
	bodyLimit   = 4 * 1024 * 1024
	swaggerFile = "./docs/swagger.json"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())

	initializers.InitAllServices(ctx)

	app := fiber.New(fiber.Config{
		BodyLimit: bodyLimit,
	})
	app.Use(fiberRecover.New())
	app.Use(requestid.New())
	if _, err := os.Stat(swaggerFile); err == nil {
		app.Use(swagger.New(swagger.Config{
			Path:     "/swagger",
			FilePath: swaggerFile,
		}))
	}
	app.Get("/health", func(ctx *fiber.Ctx) error {
		if err := db.PingDB(); err != nil {
			return ctx.Status(fiber.StatusServiceUnavailable).JSON(apimodels.NewError("база данных недоступна"))
		}
		return ctx.JSON(apimodels.NewResponse(nil))
	})

	//api
	apiV1 := fiber.New()
	apiV1.Use(fiberlog.New(*initializers.LoggerConfig))
	apiV1.Use(middleware.WithBodyLimit(bodyLimit))
	app.Mount("/api/v1", apiV1)
	apiV1.Use(cors.New(cors.Config{
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		AllowMethods: "GET, POST, PATCH, DELETE, PUT",
	}))

	//витрина вакансий и реферальные ссылки
	public := fiber.New()
	apiV1.Mount("/public", public)
	apiv1.InitPublicJobApiRouters(public)
	apiv1.InitPublicReferralApiRouters(public)

	//пользователи платформы
	appRoutes := fiber.New()
	apiV1.Mount("/app", appRoutes)
	appRoutes.Use(middleware.AuthorizationRequired())
	apiv1.InitJobApiRouters(appRoutes)
	apiv1.InitApplyApiRouters(appRoutes)
	apiv1.InitReferralApiRouters(appRoutes)
	apiv1.InitPaymentApiRouters(appRoutes)

	//сервис расчета выплат и наблюдатель блокчейна
	service := fiber.New()
	apiV1.Mount("/service", service)
	service.Use(middleware.SettlementKeyRequired())
	apiv1.InitServiceJobApiRouters(service)
	apiv1.InitServicePaymentApiRouters(service)

	// gracefully shutdown
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)
	wg := sync.WaitGroup{}
	wg.Add(1)
	go func() {
		defer wg.Done()
		<-c
		log.Info("Gracefully shutting down...")
		cancel()
		if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
			log.WithError(err).Error("Error when try gracefully shutting down")
		}
		log.Info("Gracefully shutting down finished")
	}()

	// run HTTP server
	if err := app.Listen(fmt.Sprintf("%s:%d", config.Conf.App.ListenAddr, config.Conf.App.Port)); err != nil {
		log.Fatal(err)
	}

	wg.Wait()
	log.Info("HTTP server successfully stopped")
}
