package api

import (
	"ai-helpdesk/internal/api/handlers"
	"ai-helpdesk/pkg/auth"
	"ai-helpdesk/pkg/middleware"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"go.uber.org/zap"
)

// SetupRouter wires the HTTP surface. When jwtManager is nil the API is
// served without authentication.
func SetupRouter(
	helpdeskHandler *handlers.HelpdeskHandler,
	jwtManager *auth.JWTManager,
	appLogger *zap.Logger,
) *fiber.App {
	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}
			return c.Status(code).JSON(fiber.Map{
				"error": err.Error(),
			})
		},
	})

	// Middleware
	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,OPTIONS",
		AllowHeaders: "Origin,Content-Type,Accept,Authorization",
	}))
	app.Use(logger.New())

	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"message": "Intelligent Help Desk API",
			"version": "1.0.0",
			"endpoints": fiber.Map{
				"submit_request": "/api/v1/requests",
				"classify_only":  "/api/v1/requests/classify",
				"system_status":  "/api/v1/status",
				"health_check":   "/health",
			},
		})
	})
	app.Get("/health", helpdeskHandler.Health)

	v1 := app.Group("/api/v1")
	if jwtManager != nil {
		v1.Use(middleware.AuthMiddleware(jwtManager, appLogger))
	}

	v1.Post("/requests", helpdeskHandler.Submit)
	v1.Post("/requests/classify", helpdeskHandler.Classify)
	v1.Get("/status", helpdeskHandler.Status)

	return app
}
