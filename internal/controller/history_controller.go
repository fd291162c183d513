package controller

import (
	"symptom-checker-be/internal/dto"
	"symptom-checker-be/internal/pkg/apperror"
	"symptom-checker-be/internal/pkg/serverutils"
	"symptom-checker-be/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type IHistoryController interface {
	RegisterRoutes(r fiber.Router)
	List(ctx *fiber.Ctx) error
	UpdateSymptoms(ctx *fiber.Ctx) error
	Delete(ctx *fiber.Ctx) error
	Usage(ctx *fiber.Ctx) error
}

type historyController struct {
	historyService service.IHistoryService
}

func NewHistoryController(historyService service.IHistoryService) IHistoryController {
	return &historyController{
		historyService: historyService,
	}
}

func (c *historyController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/history/v1")
	h.Use(serverutils.JwtMiddleware)
	h.Get("", c.List)
	h.Get("/usage", c.Usage)
	h.Patch("/:id", c.UpdateSymptoms)
	h.Delete("/:id", c.Delete)
}

func (c *historyController) List(ctx *fiber.Ctx) error {
	userId, ok := serverutils.UserID(ctx)
	if !ok {
		return apperror.AuthenticationRequired("authentication required")
	}

	res, err := c.historyService.List(ctx.Context(), userId)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success list history", res))
}

func (c *historyController) UpdateSymptoms(ctx *fiber.Ctx) error {
	userId, ok := serverutils.UserID(ctx)
	if !ok {
		return apperror.AuthenticationRequired("authentication required")
	}

	id, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return apperror.Validation("id", "invalid record id")
	}

	var req dto.UpdateSymptomsRequest
	if err := ctx.BodyParser(&req); err != nil {
		return apperror.Validation("symptoms", "invalid request body")
	}
	req.Id = id

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.historyService.UpdateSymptoms(ctx.Context(), userId, &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success update history record", res))
}

func (c *historyController) Delete(ctx *fiber.Ctx) error {
	userId, ok := serverutils.UserID(ctx)
	if !ok {
		return apperror.AuthenticationRequired("authentication required")
	}

	id, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return apperror.Validation("id", "invalid record id")
	}

	if err := c.historyService.Delete(ctx.Context(), userId, id); err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse[any]("Success delete history record", nil))
}

func (c *historyController) Usage(ctx *fiber.Ctx) error {
	userId, ok := serverutils.UserID(ctx)
	if !ok {
		return apperror.AuthenticationRequired("authentication required")
	}

	res, err := c.historyService.Usage(ctx.Context(), userId)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success list usage", res))
}
