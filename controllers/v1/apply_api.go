package apiv1

import (
	"jobmarket-backend/controllers"
	applyhandler "jobmarket-backend/lib/job-apply"
	"jobmarket-backend/middleware"
	apimodels "jobmarket-backend/models/api"
	applyapimodels "jobmarket-backend/models/api/job-apply"

	"github.com/gofiber/fiber/v2"
)

type applyApiController struct {
	controllers.BaseAPIController
}

func InitApplyApiRouters(app *fiber.App) {
	controller := applyApiController{}
	app.Route("job/:id", func(router fiber.Router) {
		router.Post("apply", controller.apply)
		router.Get("apply", controller.myApply)
		router.Get("applies", controller.listByJob)
	})
	app.Route("apply", func(router fiber.Router) {
		router.Get("my", controller.myList)
		router.Put(":id/status", controller.changeStatus)
	})
}

// @Summary Отклик на вакансию
// @Tags Отклик
// @Param   Authorization		header		string	true	"Authorization token"
// @Param	body body	 applyapimodels.ApplyData	true	"request body"
// @Success 200 {object} apimodels.Response{data=applyapimodels.ApplyView}
// @Failure 404 {object} apimodels.Response
// @Failure 409 {object} apimodels.Response
// @router /api/v1/app/job/{id}/apply [post]
func (c *applyApiController) apply(ctx *fiber.Ctx) error {
	jobID, err := c.GetID(ctx)
	if err != nil {
		return c.SendBadRequest(ctx, err)
	}
	var payload applyapimodels.ApplyData
	if err = c.BodyParser(ctx, &payload); err != nil {
		return c.SendBadRequest(ctx, err)
	}
	item, err := applyhandler.Instance.Apply(jobID, middleware.GetTalentID(ctx), payload)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка отклика на вакансию")
	}
	return ctx.JSON(apimodels.NewResponse(item))
}

// @Summary Мой отклик на вакансию
// @Tags Отклик
// @router /api/v1/app/job/{id}/apply [get]
func (c *applyApiController) myApply(ctx *fiber.Ctx) error {
	jobID, err := c.GetID(ctx)
	if err != nil {
		return c.SendBadRequest(ctx, err)
	}
	item, err := applyhandler.Instance.FindByJobAndTalent(jobID, middleware.GetTalentID(ctx))
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка получения отклика")
	}
	return ctx.JSON(apimodels.NewResponse(item))
}

// @Summary Отклики на вакансию
// @Tags Отклик
// @router /api/v1/app/job/{id}/applies [get]
func (c *applyApiController) listByJob(ctx *fiber.Ctx) error {
	jobID, err := c.GetID(ctx)
	if err != nil {
		return c.SendBadRequest(ctx, err)
	}
	list, err := applyhandler.Instance.FindByJob(jobID, middleware.GetUserID(ctx))
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка получения откликов")
	}
	return ctx.JSON(apimodels.NewResponse(list))
}

// @Summary Мои отклики
// @Tags Отклик
// @router /api/v1/app/apply/my [get]
func (c *applyApiController) myList(ctx *fiber.Ctx) error {
	talentID := middleware.GetTalentID(ctx)
	if talentID == "" {
		return ctx.JSON(apimodels.NewResponse([]applyapimodels.ApplyView{}))
	}
	list, err := applyhandler.Instance.FindByTalent(talentID)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка получения откликов")
	}
	return ctx.JSON(apimodels.NewResponse(list))
}

// @Summary Изменение статуса отклика
// @Tags Отклик
// @Param	body body	 applyapimodels.StatusChange	true	"request body"
// @Failure 422 {object} apimodels.Response
// @router /api/v1/app/apply/{id}/status [put]
func (c *applyApiController) changeStatus(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return c.SendBadRequest(ctx, err)
	}
	var payload applyapimodels.StatusChange
	if err = c.BodyParser(ctx, &payload); err != nil {
		return c.SendBadRequest(ctx, err)
	}
	if err = applyhandler.Instance.UpdateStatus(id, middleware.GetUserID(ctx), payload.Status); err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка изменения статуса отклика")
	}
	return ctx.JSON(apimodels.NewResponse(nil))
}
