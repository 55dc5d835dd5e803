package controller

import (
	"time"

	"grid-portal-be/internal/dto"
	"grid-portal-be/internal/pkg/serverutils"
	"grid-portal-be/internal/service"
	"grid-portal-be/pkg/apperr"

	"github.com/gofiber/fiber/v2"
)

type IFeedbackController interface {
	RegisterRoutes(r fiber.Router, auth fiber.Handler)
	Show(ctx *fiber.Ctx) error
	SetDecision(ctx *fiber.Ctx) error
	AddNote(ctx *fiber.Ctx) error
	DeleteNote(ctx *fiber.Ctx) error
}

type feedbackController struct {
	feedbackService service.IFeedbackService
}

func NewFeedbackController(feedbackService service.IFeedbackService) IFeedbackController {
	return &feedbackController{
		feedbackService: feedbackService,
	}
}

func (c *feedbackController) RegisterRoutes(r fiber.Router, auth fiber.Handler) {
	h := r.Group("/clients/:client/positions/:position/files/:filename")
	h.Use(auth)
	h.Get("/feedback", c.Show)
	h.Put("/decision", c.SetDecision)
	h.Post("/notes", c.AddNote)
	h.Delete("/notes/:timestamp", c.DeleteNote)
}

func (c *feedbackController) Show(ctx *fiber.Ctx) error {
	p := serverutils.PrincipalFrom(ctx)
	res, err := c.feedbackService.Feedback(ctx.Context(), p,
		param(ctx, "client"), param(ctx, "position"), param(ctx, "filename"))
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("File feedback", res))
}

func (c *feedbackController) SetDecision(ctx *fiber.Ctx) error {
	var req dto.SetDecisionRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}
	req.ClientName = param(ctx, "client")
	req.PositionName = param(ctx, "position")
	req.Filename = param(ctx, "filename")

	res, err := c.feedbackService.SetDecision(ctx.Context(), serverutils.PrincipalFrom(ctx), req)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Decision saved", res))
}

func (c *feedbackController) AddNote(ctx *fiber.Ctx) error {
	var req dto.AddNoteRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}
	req.ClientName = param(ctx, "client")
	req.PositionName = param(ctx, "position")
	req.Filename = param(ctx, "filename")

	res, err := c.feedbackService.AddNote(ctx.Context(), serverutils.PrincipalFrom(ctx), req)
	if err != nil {
		return err
	}
	return ctx.Status(fiber.StatusCreated).JSON(serverutils.SuccessResponse("Note added", res))
}

func (c *feedbackController) DeleteNote(ctx *fiber.Ctx) error {
	ts, err := time.Parse(time.RFC3339Nano, param(ctx, "timestamp"))
	if err != nil {
		return apperr.InvalidArgument("timestamp must be RFC 3339", err)
	}

	p := serverutils.PrincipalFrom(ctx)
	err = c.feedbackService.DeleteNote(ctx.Context(), p,
		param(ctx, "client"), param(ctx, "position"), param(ctx, "filename"), ts)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse[any]("Note deleted", nil))
}
