package apiv1

import (
	"jobmarket-backend/controllers"
	referralhandler "jobmarket-backend/lib/referral"
	"jobmarket-backend/middleware"
	apimodels "jobmarket-backend/models/api"
	referralapimodels "jobmarket-backend/models/api/referral"

	"github.com/gofiber/fiber/v2"
)

type referralApiController struct {
	controllers.BaseAPIController
}

// InitPublicReferralApiRouters переход по реферальной ссылке
func InitPublicReferralApiRouters(app *fiber.App) {
	controller := referralApiController{}
	app.Get("referral_link/:token", controller.getLink)
}

func InitReferralApiRouters(app *fiber.App) {
	controller := referralApiController{}
	app.Route("job/:id", func(router fiber.Router) {
		router.Post("referral_link", controller.generateLink)
		router.Post("referral", controller.refer)
		router.Get("referrals", controller.listByJob)
	})
	app.Route("referral", func(router fiber.Router) {
		router.Get("my", controller.myList)
		router.Get("my/links", controller.myLinks)
	})
}

// @Summary Реферальная ссылка на вакансию
// @Tags Рекомендация
// @Description Повторный вызов возвращает ту же ссылку
// @Param   Authorization		header		string	true	"Authorization token"
// @Success 200 {object} apimodels.Response{data=referralapimodels.LinkView}
// @router /api/v1/app/job/{id}/referral_link [post]
func (c *referralApiController) generateLink(ctx *fiber.Ctx) error {
	jobID, err := c.GetID(ctx)
	if err != nil {
		return c.SendBadRequest(ctx, err)
	}
	link, err := referralhandler.Instance.GenerateReferralLink(ctx.UserContext(), jobID, middleware.GetUserID(ctx))
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка получения реферальной ссылки")
	}
	return ctx.JSON(apimodels.NewResponse(link))
}

// @Summary Рекомендация кандидата
// @Tags Рекомендация
// @Param	body body	 referralapimodels.ReferralData	true	"request body"
// @Success 200 {object} apimodels.Response{data=referralapimodels.ReferralView}
// @router /api/v1/app/job/{id}/referral [post]
func (c *referralApiController) refer(ctx *fiber.Ctx) error {
	jobID, err := c.GetID(ctx)
	if err != nil {
		return c.SendBadRequest(ctx, err)
	}
	var payload referralapimodels.ReferralData
	if err = c.BodyParser(ctx, &payload); err != nil {
		return c.SendBadRequest(ctx, err)
	}
	item, err := referralhandler.Instance.ReferCandidate(jobID, middleware.GetUserID(ctx), payload)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка создания рекомендации")
	}
	return ctx.JSON(apimodels.NewResponse(item))
}

// @Summary Рекомендации по вакансии
// @Tags Рекомендация
// @router /api/v1/app/job/{id}/referrals [get]
func (c *referralApiController) listByJob(ctx *fiber.Ctx) error {
	jobID, err := c.GetID(ctx)
	if err != nil {
		return c.SendBadRequest(ctx, err)
	}
	list, err := referralhandler.Instance.ListByJob(jobID, middleware.GetUserID(ctx))
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка получения рекомендаций")
	}
	return ctx.JSON(apimodels.NewResponse(list))
}

// @Summary Мои рекомендации
// @Tags Рекомендация
// @router /api/v1/app/referral/my [get]
func (c *referralApiController) myList(ctx *fiber.Ctx) error {
	list, err := referralhandler.Instance.ListByReferrer(middleware.GetUserID(ctx))
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка получения рекомендаций")
	}
	return ctx.JSON(apimodels.NewResponse(list))
}

// @Summary Мои реферальные ссылки
// @Tags Рекомендация
// @router /api/v1/app/referral/my/links [get]
func (c *referralApiController) myLinks(ctx *fiber.Ctx) error {
	list, err := referralhandler.Instance.ListLinksByReferrer(middleware.GetUserID(ctx))
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка получения реферальных ссылок")
	}
	return ctx.JSON(apimodels.NewResponse(list))
}

// @Summary Реферальная ссылка по токену
// @Tags Рекомендация
// @Success 200 {object} apimodels.Response{data=referralapimodels.LinkView}
// @router /api/v1/public/referral_link/{token} [get]
func (c *referralApiController) getLink(ctx *fiber.Ctx) error {
	link, err := referralhandler.Instance.GetLink(ctx.Params("token"))
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка получения реферальной ссылки")
	}
	return ctx.JSON(apimodels.NewResponse(link))
}

