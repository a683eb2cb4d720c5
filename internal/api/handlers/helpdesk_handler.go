package handlers

import (
	"time"

	"ai-helpdesk/internal/dto"
	"ai-helpdesk/internal/models"
	"ai-helpdesk/internal/service"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

type HelpdeskHandler struct {
	pipeline *service.PipelineService
	logger   *zap.Logger
}

func NewHelpdeskHandler(pipeline *service.PipelineService, logger *zap.Logger) *HelpdeskHandler {
	return &HelpdeskHandler{
		pipeline: pipeline,
		logger:   logger,
	}
}

// Submit godoc
// @Summary Submit a help desk request
// @Description Run a request through classification, retrieval, escalation and response generation
func (h *HelpdeskHandler) Submit(c *fiber.Ctx) error {
	var req dto.SubmitRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}
	if req.Request == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Request text is required",
		})
	}

	ticket := &models.TicketRequest{
		Request: req.Request,
		UserID:  req.UserID,
	}

	result := h.pipeline.Process(c.Context(), ticket)
	return c.JSON(result)
}

// Classify godoc
// @Summary Classify a request without full processing
func (h *HelpdeskHandler) Classify(c *fiber.Ctx) error {
	var req dto.SubmitRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}
	if req.Request == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Request text is required",
		})
	}

	classification := h.pipeline.ClassifyOnly(c.Context(), req.Request)
	return c.JSON(dto.ClassifyResponse{
		Request:        req.Request,
		Classification: classification,
	})
}

// Status godoc
// @Summary System status and knowledge base statistics
func (h *HelpdeskHandler) Status(c *fiber.Ctx) error {
	return c.JSON(h.pipeline.Status())
}

// Health godoc
// @Summary Health check
func (h *HelpdeskHandler) Health(c *fiber.Ctx) error {
	return c.JSON(dto.HealthResponse{
		Status:    "healthy",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})
}
