package apiv1

import (
	"jobmarket-backend/controllers"
	jobhandler "jobmarket-backend/lib/job"
	"jobmarket-backend/middleware"
	apimodels "jobmarket-backend/models/api"
	jobapimodels "jobmarket-backend/models/api/job"

	"github.com/gofiber/fiber/v2"
)

type jobApiController struct {
	controllers.BaseAPIController
}

// InitPublicJobApiRouters витрина опубликованных вакансий, без авторизации
func InitPublicJobApiRouters(app *fiber.App) {
	controller := jobApiController{}
	app.Route("job", func(router fiber.Router) {
		router.Post("list", controller.list)
		router.Route(":id", func(idRoute fiber.Router) {
			idRoute.Get("", controller.getPublished)
			idRoute.Get("similar", controller.similar)
		})
	})
}

func InitJobApiRouters(app *fiber.App) {
	controller := jobApiController{}
	app.Route("job", func(router fiber.Router) {
		router.Post("", controller.create)
		router.Post("my", controller.myList)
		router.Route(":id", func(idRoute fiber.Router) {
			idRoute.Get("", controller.get)
			idRoute.Put("", controller.update)
			idRoute.Delete("", controller.softDelete)
			idRoute.Delete("hard", controller.delete)
			idRoute.Put("publish", controller.publish)
			idRoute.Put("close", controller.close)
		})
	})
}

// InitServiceJobApiRouters операции сервисов платформы, доступ по ключу
func InitServiceJobApiRouters(app *fiber.App) {
	controller := jobApiController{}
	app.Route("job/:id", func(router fiber.Router) {
		router.Put("restore", controller.restore)
	})
}

// @Summary Создание
// @Tags Вакансия
// @Param   Authorization		header		string	true	"Authorization token"
// @Param	body body	 jobapimodels.JobData	true	"request body"
// @Success 200 {object} apimodels.Response{data=jobapimodels.JobView}
// @router /api/v1/app/job [post]
func (c *jobApiController) create(ctx *fiber.Ctx) error {
	var payload jobapimodels.JobData
	if err := c.BodyParser(ctx, &payload); err != nil {
		return c.SendBadRequest(ctx, err)
	}
	item, err := jobhandler.Instance.Create(middleware.GetUserID(ctx), payload)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка создания вакансии")
	}
	return ctx.JSON(apimodels.NewResponse(item))
}

// @Summary Вакансия
// @Tags Вакансия
// @Param   id          		path    	string  true    "job ID"
// @Success 200 {object} apimodels.Response{data=jobapimodels.JobView}
// @router /api/v1/app/job/{id} [get]
func (c *jobApiController) get(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return c.SendBadRequest(ctx, err)
	}
	item, err := jobhandler.Instance.GetByID(id)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка получения вакансии")
	}
	return ctx.JSON(apimodels.NewResponse(item))
}

// @Summary Опубликованная вакансия
// @Tags Вакансия
// @router /api/v1/public/job/{id} [get]
func (c *jobApiController) getPublished(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return c.SendBadRequest(ctx, err)
	}
	rec, err := jobhandler.Instance.RequirePublished(id)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка получения вакансии")
	}
	return ctx.JSON(apimodels.NewResponse(jobapimodels.JobConvert(*rec)))
}

// @Summary Изменение
// @Tags Вакансия
// @Param	body body	 jobapimodels.JobData	true	"request body"
// @router /api/v1/app/job/{id} [put]
func (c *jobApiController) update(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return c.SendBadRequest(ctx, err)
	}
	var payload jobapimodels.JobData
	if err = c.BodyParser(ctx, &payload); err != nil {
		return c.SendBadRequest(ctx, err)
	}
	if err = jobhandler.Instance.Update(id, middleware.GetUserID(ctx), payload); err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка изменения вакансии")
	}
	return ctx.JSON(apimodels.NewResponse(nil))
}

// @Summary Публикация
// @Tags Вакансия
// @router /api/v1/app/job/{id}/publish [put]
func (c *jobApiController) publish(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return c.SendBadRequest(ctx, err)
	}
	if err = jobhandler.Instance.Publish(id, middleware.GetUserID(ctx)); err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка публикации вакансии")
	}
	return ctx.JSON(apimodels.NewResponse(nil))
}

// @Summary Закрытие
// @Tags Вакансия
// @Param	body body	 jobapimodels.CloseRequest	true	"request body"
// @router /api/v1/app/job/{id}/close [put]
func (c *jobApiController) close(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return c.SendBadRequest(ctx, err)
	}
	var payload jobapimodels.CloseRequest
	if err = c.BodyParser(ctx, &payload); err != nil {
		return c.SendBadRequest(ctx, err)
	}
	if err = jobhandler.Instance.Close(id, middleware.GetUserID(ctx), payload.CloseType); err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка закрытия вакансии")
	}
	return ctx.JSON(apimodels.NewResponse(nil))
}

// @Summary Удаление (в архив)
// @Tags Вакансия
// @router /api/v1/app/job/{id} [delete]
func (c *jobApiController) softDelete(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return c.SendBadRequest(ctx, err)
	}
	if err = jobhandler.Instance.SoftDelete(id, middleware.GetUserID(ctx)); err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка удаления вакансии")
	}
	return ctx.JSON(apimodels.NewResponse(nil))
}

// @Summary Удаление без восстановления
// @Tags Вакансия
// @router /api/v1/app/job/{id}/hard [delete]
func (c *jobApiController) delete(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return c.SendBadRequest(ctx, err)
	}
	if err = jobhandler.Instance.Delete(id, middleware.GetUserID(ctx)); err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка удаления вакансии")
	}
	return ctx.JSON(apimodels.NewResponse(nil))
}

// @Summary Восстановление из архива
// @Tags Сервис
// @Param   X-Settlement-Key		header		string	true	"service key"
// @router /api/v1/service/job/{id}/restore [put]
func (c *jobApiController) restore(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return c.SendBadRequest(ctx, err)
	}
	if err = jobhandler.Instance.Restore(id); err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка восстановления вакансии")
	}
	return ctx.JSON(apimodels.NewResponse(nil))
}

// @Summary Список опубликованных вакансий
// @Tags Вакансия
// @Param	body body	 jobapimodels.JobFilter	true	"request body"
// @Success 200 {object} apimodels.ScrollerResponse{data=[]jobapimodels.JobView}
// @router /api/v1/public/job/list [post]
func (c *jobApiController) list(ctx *fiber.Ctx) error {
	var payload jobapimodels.JobFilter
	if err := c.BodyParser(ctx, &payload); err != nil {
		return c.SendBadRequest(ctx, err)
	}
	list, rowCount, err := jobhandler.Instance.FindPublished(payload)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка получения списка вакансий")
	}
	return ctx.JSON(apimodels.NewScrollerResponse(list, rowCount))
}

// @Summary Похожие вакансии
// @Tags Вакансия
// @router /api/v1/public/job/{id}/similar [get]
func (c *jobApiController) similar(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return c.SendBadRequest(ctx, err)
	}
	limit := ctx.QueryInt("limit", 0)
	list, err := jobhandler.Instance.FindSimilar(id, limit)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка получения похожих вакансий")
	}
	return ctx.JSON(apimodels.NewResponse(list))
}

// @Summary Мои вакансии
// @Tags Вакансия
// @Param	body body	 apimodels.Pagination	true	"request body"
// @Success 200 {object} apimodels.ScrollerResponse{data=[]jobapimodels.JobView}
// @router /api/v1/app/job/my [post]
func (c *jobApiController) myList(ctx *fiber.Ctx) error {
	var payload apimodels.Pagination
	if err := c.BodyParser(ctx, &payload); err != nil {
		return c.SendBadRequest(ctx, err)
	}
	list, rowCount, err := jobhandler.Instance.ListByCreator(middleware.GetUserID(ctx), payload)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка получения списка вакансий")
	}
	return ctx.JSON(apimodels.NewScrollerResponse(list, rowCount))
}
