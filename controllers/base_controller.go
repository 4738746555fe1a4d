package controllers

import (
	"jobmarket-backend/fiberlog"
	apperrors "jobmarket-backend/lib/utils/app-errors"
	apimodels "jobmarket-backend/models/api"

	"github.com/gofiber/fiber/v2"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

type BaseAPIController struct{}

func (c *BaseAPIController) BodyParser(ctx *fiber.Ctx, out interface{}) error {
	if err := ctx.BodyParser(out); err != nil {
		log.WithError(err).Error("ошибка распознавания запроса")
		return errors.New("не удалось получить данные из запроса")
	}
	return nil
}

func (c *BaseAPIController) GetID(ctx *fiber.Ctx) (string, error) {
	id := ctx.Params("id")
	if id == "" {
		return "", errors.New("не указан идентификатор")
	}
	return id, nil
}

func (c *BaseAPIController) GetLogger(ctx *fiber.Ctx) *log.Entry {
	logger := log.
		WithField("method", ctx.Method()).
		WithField("path", ctx.Path())
	if userID, ok := ctx.Locals(fiberlog.UserIDLocal).(string); ok && userID != "" {
		logger = logger.WithField("user_id", userID)
	}
	return logger
}

var kindStatus = map[apperrors.Kind]int{
	apperrors.KindNotFound:     fiber.StatusNotFound,
	apperrors.KindUnauthorized: fiber.StatusForbidden,
	apperrors.KindConflict:     fiber.StatusConflict,
	apperrors.KindInvalidState: fiber.StatusUnprocessableEntity,
	apperrors.KindBadRequest:   fiber.StatusBadRequest,
}

// SendError ответ по типу ошибки, внутренние ошибки логируются и отдаются с текстом msg
func (c *BaseAPIController) SendError(ctx *fiber.Ctx, logger *log.Entry, err error, msg string) error {
	kind := apperrors.KindOf(err)
	status, ok := kindStatus[kind]
	if !ok {
		logger.WithError(err).Error(msg)
		return ctx.Status(fiber.StatusInternalServerError).JSON(apimodels.NewErrorWithCode(msg, string(apperrors.KindInternal)))
	}
	logger.WithError(err).Info(msg)
	return ctx.Status(status).JSON(apimodels.NewErrorWithCode(apperrors.PublicMessage(err), string(kind)))
}

func (c *BaseAPIController) SendBadRequest(ctx *fiber.Ctx, err error) error {
	return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewErrorWithCode(err.Error(), string(apperrors.KindBadRequest)))
}
