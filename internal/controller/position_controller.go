package controller

import (
	"io"

	"grid-portal-be/internal/dto"
	"grid-portal-be/internal/pkg/serverutils"
	"grid-portal-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IPositionController interface {
	RegisterRoutes(r fiber.Router, auth fiber.Handler)
	List(ctx *fiber.Ctx) error
	Save(ctx *fiber.Ctx) error
	Delete(ctx *fiber.Ctx) error
	Rename(ctx *fiber.Ctx) error
	ListFiles(ctx *fiber.Ctx) error
	UploadFiles(ctx *fiber.Ctx) error
	DownloadFile(ctx *fiber.Ctx) error
	DeleteFile(ctx *fiber.Ctx) error
}

type positionController struct {
	positionService service.IPositionService
	fileService     service.IFileService
	renameService   service.IRenameService
}

func NewPositionController(
	positionService service.IPositionService,
	fileService service.IFileService,
	renameService service.IRenameService,
) IPositionController {
	return &positionController{
		positionService: positionService,
		fileService:     fileService,
		renameService:   renameService,
	}
}

func (c *positionController) RegisterRoutes(r fiber.Router, auth fiber.Handler) {
	h := r.Group("/clients/:client/positions")
	h.Use(auth)
	h.Get("", c.List)
	h.Post("", c.Save)
	h.Delete(":position", c.Delete)
	h.Put(":position/name", c.Rename)
	h.Get(":position/files", c.ListFiles)
	h.Post(":position/files", c.UploadFiles)
	h.Get(":position/files/:filename", c.DownloadFile)
	h.Delete(":position/files/:filename", c.DeleteFile)
}

func (c *positionController) List(ctx *fiber.Ctx) error {
	res, err := c.positionService.List(ctx.Context(), serverutils.PrincipalFrom(ctx), param(ctx, "client"))
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Positions", res))
}

func (c *positionController) Save(ctx *fiber.Ctx) error {
	var req dto.SavePositionRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}
	req.ClientName = param(ctx, "client")

	res, err := c.positionService.Save(ctx.Context(), serverutils.PrincipalFrom(ctx), req)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Position saved", res))
}

func (c *positionController) Delete(ctx *fiber.Ctx) error {
	p := serverutils.PrincipalFrom(ctx)
	if err := c.positionService.Delete(ctx.Context(), p, param(ctx, "client"), param(ctx, "position")); err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse[any]("Position deleted", nil))
}

func (c *positionController) Rename(ctx *fiber.Ctx) error {
	var req dto.RenamePositionRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}
	req.ClientName = param(ctx, "client")
	req.OldName = param(ctx, "position")

	p := serverutils.PrincipalFrom(ctx)
	if err := c.renameService.RenamePosition(ctx.Context(), p, req.ClientName, req.OldName, req.NewName); err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse[any]("Position renamed", nil))
}

func (c *positionController) ListFiles(ctx *fiber.Ctx) error {
	p := serverutils.PrincipalFrom(ctx)
	res, err := c.fileService.List(ctx.Context(), p, param(ctx, "client"), param(ctx, "position"))
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Files", res))
}

func (c *positionController) UploadFiles(ctx *fiber.Ctx) error {
	form, err := ctx.MultipartForm()
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse("multipart form is required"))
	}

	var uploads []service.FileUpload
	for _, fh := range form.File["files"] {
		f, err := fh.Open()
		if err != nil {
			return err
		}
		content, err := io.ReadAll(f)
		f.Close()
		if err != nil {
			return err
		}
		uploads = append(uploads, service.FileUpload{
			Filename:    fh.Filename,
			ContentType: fh.Header.Get("Content-Type"),
			Content:     content,
		})
	}
	if len(uploads) == 0 {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse("no files provided"))
	}

	p := serverutils.PrincipalFrom(ctx)
	res, err := c.fileService.Upload(ctx.Context(), p, param(ctx, "client"), param(ctx, "position"), uploads)
	if err != nil {
		return err
	}
	return ctx.Status(fiber.StatusCreated).JSON(serverutils.SuccessResponse("Files uploaded", res))
}

func (c *positionController) DownloadFile(ctx *fiber.Ctx) error {
	p := serverutils.PrincipalFrom(ctx)
	rc, file, err := c.fileService.Stream(ctx.Context(), p,
		param(ctx, "client"), param(ctx, "position"), param(ctx, "filename"))
	if err != nil {
		return err
	}

	ctx.Set(fiber.HeaderContentType, file.ContentType)
	ctx.Set(fiber.HeaderContentDisposition, `attachment; filename="`+file.Filename+`"`)
	return ctx.SendStream(rc)
}

func (c *positionController) DeleteFile(ctx *fiber.Ctx) error {
	p := serverutils.PrincipalFrom(ctx)
	err := c.fileService.Delete(ctx.Context(), p,
		param(ctx, "client"), param(ctx, "position"), param(ctx, "filename"))
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse[any]("File deleted", nil))
}
