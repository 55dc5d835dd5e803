package controller

import (
	"net/url"

	"grid-portal-be/internal/dto"
	"grid-portal-be/internal/pkg/serverutils"
	"grid-portal-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IClientController interface {
	RegisterRoutes(r fiber.Router, auth fiber.Handler)
	List(ctx *fiber.Ctx) error
	Meta(ctx *fiber.Ctx) error
	Create(ctx *fiber.Ctx) error
	Delete(ctx *fiber.Ctx) error
	Rename(ctx *fiber.Ctx) error
	UploadLogo(ctx *fiber.Ctx) error
	RemoveLogo(ctx *fiber.Ctx) error
	ListUsers(ctx *fiber.Ctx) error
	CreateUser(ctx *fiber.Ctx) error
	DeleteUser(ctx *fiber.Ctx) error
}

type clientController struct {
	clientService service.IClientService
	renameService service.IRenameService
}

func NewClientController(clientService service.IClientService, renameService service.IRenameService) IClientController {
	return &clientController{
		clientService: clientService,
		renameService: renameService,
	}
}

func (c *clientController) RegisterRoutes(r fiber.Router, auth fiber.Handler) {
	h := r.Group("/clients")
	h.Use(auth)
	h.Get("", c.List)
	h.Post("", c.Create)
	h.Delete(":client", c.Delete)
	h.Get(":client/meta", c.Meta)
	h.Put(":client/name", c.Rename)
	h.Put(":client/logo", c.UploadLogo)
	h.Delete(":client/logo", c.RemoveLogo)
	h.Get(":client/users", c.ListUsers)
	h.Post(":client/users", c.CreateUser)
	h.Delete(":client/users/:email", c.DeleteUser)
}

// param unescapes a path parameter; client and file names may carry
// spaces and other escaped characters.
func param(ctx *fiber.Ctx, key string) string {
	raw := ctx.Params(key)
	if v, err := url.PathUnescape(raw); err == nil {
		return v
	}
	return raw
}

func (c *clientController) List(ctx *fiber.Ctx) error {
	res, err := c.clientService.List(ctx.Context(), serverutils.PrincipalFrom(ctx))
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Clients", res))
}

func (c *clientController) Create(ctx *fiber.Ctx) error {
	var req dto.CreateClientRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.clientService.Create(ctx.Context(), serverutils.PrincipalFrom(ctx), req)
	if err != nil {
		return err
	}
	return ctx.Status(fiber.StatusCreated).JSON(serverutils.SuccessResponse("Client created", res))
}

func (c *clientController) Delete(ctx *fiber.Ctx) error {
	if err := c.clientService.Delete(ctx.Context(), serverutils.PrincipalFrom(ctx), param(ctx, "client")); err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse[any]("Client deleted", nil))
}

func (c *clientController) Rename(ctx *fiber.Ctx) error {
	var req dto.RenameClientRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}
	req.OldName = param(ctx, "client")

	if err := c.renameService.RenameClient(ctx.Context(), serverutils.PrincipalFrom(ctx), req.OldName, req.NewName); err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse[any]("Client renamed", nil))
}

func (c *clientController) UploadLogo(ctx *fiber.Ctx) error {
	fh, err := ctx.FormFile("logo")
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse("logo file is required"))
	}
	f, err := fh.Open()
	if err != nil {
		return err
	}
	defer f.Close()

	if err := c.clientService.UploadLogo(ctx.Context(), serverutils.PrincipalFrom(ctx), param(ctx, "client"), f); err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse[any]("Logo uploaded", nil))
}

func (c *clientController) RemoveLogo(ctx *fiber.Ctx) error {
	if err := c.clientService.RemoveLogo(ctx.Context(), serverutils.PrincipalFrom(ctx), param(ctx, "client")); err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse[any]("Logo removed", nil))
}

func (c *clientController) Meta(ctx *fiber.Ctx) error {
	res, err := c.clientService.Meta(ctx.Context(), param(ctx, "client"))
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Client metadata", res))
}

func (c *clientController) ListUsers(ctx *fiber.Ctx) error {
	res, err := c.clientService.ListUsers(ctx.Context(), serverutils.PrincipalFrom(ctx), param(ctx, "client"))
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Client users", res))
}

func (c *clientController) CreateUser(ctx *fiber.Ctx) error {
	var req dto.CreateClientUserRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}
	req.ClientName = param(ctx, "client")

	res, err := c.clientService.CreateUser(ctx.Context(), serverutils.PrincipalFrom(ctx), req)
	if err != nil {
		return err
	}
	return ctx.Status(fiber.StatusCreated).JSON(serverutils.SuccessResponse("User created", res))
}

func (c *clientController) DeleteUser(ctx *fiber.Ctx) error {
	p := serverutils.PrincipalFrom(ctx)
	if err := c.clientService.DeleteUser(ctx.Context(), p, param(ctx, "client"), param(ctx, "email")); err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse[any]("User deleted", nil))
}
