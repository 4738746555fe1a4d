package apiv1

import (
	"fmt"
	"jobmarket-backend/controllers"
	paymenthandler "jobmarket-backend/lib/payment-distribution"
	"jobmarket-backend/middleware"
	apimodels "jobmarket-backend/models/api"
	paymentapimodels "jobmarket-backend/models/api/payment"

	"github.com/gofiber/fiber/v2"
)

type paymentApiController struct {
	controllers.BaseAPIController
}

func InitPaymentApiRouters(app *fiber.App) {
	controller := paymentApiController{}
	app.Route("payment", func(router fiber.Router) {
		router.Get("my", controller.myList)
		router.Get("my/export", controller.myExport)
		router.Put(":id/claim", controller.claim)
		router.Get(":id/receipt", controller.receipt)
	})
}

// InitServicePaymentApiRouters сервис расчета выплат и наблюдатель блокчейна
func InitServicePaymentApiRouters(app *fiber.App) {
	controller := paymentApiController{}
	app.Route("job/:id", func(router fiber.Router) {
		router.Post("distribute", controller.distribute)
		router.Get("payments", controller.listByJob)
	})
	app.Route("payment/:id", func(router fiber.Router) {
		router.Put("blockchain_status", controller.blockchainStatus)
		router.Put("paid", controller.markAsPaid)
	})
}

// @Summary Получение выплаты
// @Tags Выплаты
// @Description Получатель подтверждает свою выплату, as_talent - от имени профиля кандидата
// @Param   Authorization		header		string	true	"Authorization token"
// @Param   id          		path    	string  true    "distribution ID"
// @Param	body body	 paymentapimodels.ClaimRequest	true	"request body"
// @Success 200 {object} apimodels.Response{data=paymentapimodels.ClaimResult}
// @Failure 404 {object} apimodels.Response
// @router /api/v1/app/payment/{id}/claim [put]
func (c *paymentApiController) claim(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return c.SendBadRequest(ctx, err)
	}
	var payload paymentapimodels.ClaimRequest
	if err = c.BodyParser(ctx, &payload); err != nil {
		return c.SendBadRequest(ctx, err)
	}
	claimantID := middleware.GetUserID(ctx)
	if payload.AsTalent {
		claimantID = middleware.GetTalentID(ctx)
	}
	result, err := paymenthandler.Instance.Claim(payload.JobID, id, claimantID)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка получения выплаты")
	}
	return ctx.JSON(apimodels.NewResponse(result))
}

// @Summary Мои выплаты
// @Tags Выплаты
// @Param   as_talent		query		bool	false	"выплаты профиля кандидата"
// @Success 200 {object} apimodels.Response{data=[]paymentapimodels.DistributionView}
// @router /api/v1/app/payment/my [get]
func (c *paymentApiController) myList(ctx *fiber.Ctx) error {
	list, err := paymenthandler.Instance.FindByRecipient(c.recipientID(ctx))
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка получения выплат")
	}
	return ctx.JSON(apimodels.NewResponse(list))
}

// @Summary Выписка по выплатам
// @Tags Выплаты
// @Produce application/octet-stream
// @router /api/v1/app/payment/my/export [get]
func (c *paymentApiController) myExport(ctx *fiber.Ctx) error {
	recipientID := c.recipientID(ctx)
	buf, err := paymenthandler.Instance.ExportByRecipient(recipientID)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка формирования выписки")
	}
	ctx.Set(fiber.HeaderContentType, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	ctx.Set(fiber.HeaderContentDisposition, fmt.Sprintf("attachment; filename=\"payments_%s.xlsx\"", recipientID))
	return ctx.SendStream(buf, buf.Len())
}

// @Summary Квитанция по оплаченной выплате
// @Tags Выплаты
// @Produce application/pdf
// @Param   as_talent		query		bool	false	"выплата профиля кандидата"
// @router /api/v1/app/payment/{id}/receipt [get]
func (c *paymentApiController) receipt(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return c.SendBadRequest(ctx, err)
	}
	body, err := paymenthandler.Instance.Receipt(id, c.recipientID(ctx))
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка формирования квитанции")
	}
	ctx.Set(fiber.HeaderContentType, "application/pdf")
	ctx.Set(fiber.HeaderContentDisposition, fmt.Sprintf("attachment; filename=\"receipt_%s.pdf\"", id))
	return ctx.Send(body)
}

func (c *paymentApiController) recipientID(ctx *fiber.Ctx) string {
	if ctx.QueryBool("as_talent", false) {
		return middleware.GetTalentID(ctx)
	}
	return middleware.GetUserID(ctx)
}

// @Summary Распределение вознаграждения по вакансии
// @Tags Сервис
// @Param   X-Settlement-Key		header		string	true	"service key"
// @Param	body body	 paymentapimodels.DistributeRequest	true	"request body"
// @Success 200 {object} apimodels.Response{data=[]paymentapimodels.DistributionView}
// @router /api/v1/service/job/{id}/distribute [post]
func (c *paymentApiController) distribute(ctx *fiber.Ctx) error {
	jobID, err := c.GetID(ctx)
	if err != nil {
		return c.SendBadRequest(ctx, err)
	}
	var payload paymentapimodels.DistributeRequest
	if err = c.BodyParser(ctx, &payload); err != nil {
		return c.SendBadRequest(ctx, err)
	}
	list, err := paymenthandler.Instance.Distribute(jobID, payload)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка распределения выплат")
	}
	return ctx.JSON(apimodels.NewResponse(list))
}

// @Summary Выплаты по вакансии
// @Tags Сервис
// @router /api/v1/service/job/{id}/payments [get]
func (c *paymentApiController) listByJob(ctx *fiber.Ctx) error {
	jobID, err := c.GetID(ctx)
	if err != nil {
		return c.SendBadRequest(ctx, err)
	}
	list, err := paymenthandler.Instance.FindByJob(jobID)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка получения выплат")
	}
	return ctx.JSON(apimodels.NewResponse(list))
}

// @Summary Статус расчета в блокчейне
// @Tags Сервис
// @Param	body body	 paymentapimodels.BlockchainStatusRequest	true	"request body"
// @Failure 400 {object} apimodels.Response
// @router /api/v1/service/payment/{id}/blockchain_status [put]
func (c *paymentApiController) blockchainStatus(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return c.SendBadRequest(ctx, err)
	}
	var payload paymentapimodels.BlockchainStatusRequest
	if err = c.BodyParser(ctx, &payload); err != nil {
		return c.SendBadRequest(ctx, err)
	}
	if err = paymenthandler.Instance.UpdateBlockchainStatus(id, payload.Status, payload.TransactionHash); err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка сохранения статуса расчета")
	}
	return ctx.JSON(apimodels.NewResponse(nil))
}

// @Summary Выплата оплачена
// @Tags Сервис
// @Failure 422 {object} apimodels.Response
// @router /api/v1/service/payment/{id}/paid [put]
func (c *paymentApiController) markAsPaid(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return c.SendBadRequest(ctx, err)
	}
	if err = paymenthandler.Instance.MarkAsPaid(id); err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка сохранения оплаты")
	}
	return ctx.JSON(apimodels.NewResponse(nil))
}
