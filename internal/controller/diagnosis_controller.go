package controller

import (
	"io"

	"symptom-checker-be/internal/dto"
	"symptom-checker-be/internal/pkg/apperror"
	"symptom-checker-be/internal/pkg/serverutils"
	"symptom-checker-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IDiagnosisController interface {
	RegisterRoutes(r fiber.Router)
	AnalyzeText(ctx *fiber.Ctx) error
	AnalyzeImage(ctx *fiber.Ctx) error
	GetImageRecord(ctx *fiber.Ctx) error
	TranscribeAudio(ctx *fiber.Ctx) error
}

type diagnosisController struct {
	diagnosisService service.IDiagnosisService
}

func NewDiagnosisController(diagnosisService service.IDiagnosisService) IDiagnosisController {
	return &diagnosisController{
		diagnosisService: diagnosisService,
	}
}

func (c *diagnosisController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/diagnosis/v1")
	h.Use(serverutils.JwtMiddleware)
	h.Post("/text", c.AnalyzeText)
	h.Post("/image", c.AnalyzeImage)
	h.Get("/image", c.GetImageRecord)
	h.Post("/audio", c.TranscribeAudio)
}

func (c *diagnosisController) AnalyzeText(ctx *fiber.Ctx) error {
	userId, ok := serverutils.UserID(ctx)
	if !ok {
		return apperror.AuthenticationRequired("authentication required")
	}

	var req dto.AnalyzeTextRequest
	if err := ctx.BodyParser(&req); err != nil {
		return apperror.Validation("symptoms", "invalid request body")
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.diagnosisService.AnalyzeText(ctx.Context(), userId, &req)
	if err != nil {
		return err
	}

	// Flat shape, matching what the chat client expects.
	return ctx.JSON(res)
}

func readFormFile(ctx *fiber.Ctx, field string) (string, string, []byte, error) {
	fileHeader, err := ctx.FormFile(field)
	if err != nil {
		return "", "", nil, apperror.Validation(field, field+" file required")
	}

	f, err := fileHeader.Open()
	if err != nil {
		return "", "", nil, apperror.Validation(field, "could not read "+field+" file")
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return "", "", nil, apperror.Validation(field, "could not read "+field+" file")
	}

	return fileHeader.Filename, fileHeader.Header.Get("Content-Type"), data, nil
}

func (c *diagnosisController) AnalyzeImage(ctx *fiber.Ctx) error {
	userId, ok := serverutils.UserID(ctx)
	if !ok {
		return apperror.AuthenticationRequired("authentication required")
	}

	filename, contentType, data, err := readFormFile(ctx, "image")
	if err != nil {
		return err
	}

	res, err := c.diagnosisService.AnalyzeImage(ctx.Context(), userId, filename, contentType, data)
	if err != nil {
		return err
	}

	return ctx.JSON(res)
}

func (c *diagnosisController) GetImageRecord(ctx *fiber.Ctx) error {
	userId, ok := serverutils.UserID(ctx)
	if !ok {
		return apperror.AuthenticationRequired("authentication required")
	}

	imageName := ctx.Query("imageName")

	res, err := c.diagnosisService.GetImageRecord(ctx.Context(), userId, imageName)
	if err != nil {
		return err
	}

	return ctx.JSON(res)
}

func (c *diagnosisController) TranscribeAudio(ctx *fiber.Ctx) error {
	userId, ok := serverutils.UserID(ctx)
	if !ok {
		return apperror.AuthenticationRequired("authentication required")
	}

	filename, _, data, err := readFormFile(ctx, "audio")
	if err != nil {
		return err
	}

	res, err := c.diagnosisService.TranscribeAudio(ctx.Context(), userId, filename, data)
	if err != nil {
		return err
	}

	return ctx.JSON(res)
}
