package controller

import (
	"grid-portal-be/internal/dto"
	"grid-portal-be/internal/pkg/serverutils"
	"grid-portal-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IAuthController interface {
	RegisterRoutes(r fiber.Router, auth fiber.Handler)
	Login(ctx *fiber.Ctx) error
	Logout(ctx *fiber.Ctx) error
	Me(ctx *fiber.Ctx) error
}

type authController struct {
	authService service.IAuthService
}

func NewAuthController(authService service.IAuthService) IAuthController {
	return &authController{
		authService: authService,
	}
}

func (c *authController) RegisterRoutes(r fiber.Router, auth fiber.Handler) {
	r.Post("/login", c.Login)
	r.Post("/logout", auth, c.Logout)
	r.Get("/me", auth, c.Me)
}

func (c *authController) Login(ctx *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.authService.Login(ctx.Context(), req)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Logged in", res))
}

func (c *authController) Logout(ctx *fiber.Ctx) error {
	sessionID, _ := ctx.Locals("session_id").(string)
	c.authService.Logout(ctx.Context(), sessionID)
	return ctx.JSON(serverutils.SuccessResponse("Logged out", dto.LogoutResponse{LoggedOut: true}))
}

func (c *authController) Me(ctx *fiber.Ctx) error {
	p := serverutils.PrincipalFrom(ctx)
	return ctx.JSON(serverutils.SuccessResponse("Current user", dto.AuthUser{
		Email:    p.Email,
		Name:     p.Name,
		Role:     p.Role,
		ClientId: p.ClientID,
	}))
}
