package controller

import (
	"grid-portal-be/internal/dto"
	"grid-portal-be/internal/pkg/serverutils"
	"grid-portal-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type INotificationController interface {
	RegisterRoutes(r fiber.Router, auth fiber.Handler)
	History(ctx *fiber.Ctx) error
	Types(ctx *fiber.Ctx) error
	UpdateType(ctx *fiber.Ctx) error
}

type notificationController struct {
	notificationService service.INotificationService
}

func NewNotificationController(notificationService service.INotificationService) INotificationController {
	return &notificationController{
		notificationService: notificationService,
	}
}

func (c *notificationController) RegisterRoutes(r fiber.Router, auth fiber.Handler) {
	r.Get("/notifications", auth, c.History)
	r.Get("/notification-types", auth, c.Types)
	r.Put("/notification-types/:code", auth, c.UpdateType)
}

func (c *notificationController) History(ctx *fiber.Ctx) error {
	p := serverutils.PrincipalFrom(ctx)
	res, err := c.notificationService.History(ctx.Context(), p,
		ctx.Query("client"), ctx.QueryInt("limit"))
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Notifications", res))
}

func (c *notificationController) Types(ctx *fiber.Ctx) error {
	res, err := c.notificationService.Types(ctx.Context(), serverutils.PrincipalFrom(ctx))
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Notification types", res))
}

func (c *notificationController) UpdateType(ctx *fiber.Ctx) error {
	var req dto.UpdateNotificationTypeRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}
	req.Code = param(ctx, "code")

	if err := c.notificationService.UpdateType(ctx.Context(), serverutils.PrincipalFrom(ctx), req); err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse[any]("Notification type updated", nil))
}
