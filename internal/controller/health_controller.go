package controller

import (
	"velto-memory-be/internal/apperror"
	"velto-memory-be/internal/config"
	"velto-memory-be/internal/pkg/logger"
	"velto-memory-be/internal/pkg/serverutils"
	"velto-memory-be/pkg/database"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type IHealthController interface {
	RegisterRoutes(r fiber.Router)
	Check(ctx *fiber.Ctx) error
	Logs(ctx *fiber.Ctx) error
	LogById(ctx *fiber.Ctx) error
}

type healthController struct {
	db     *gorm.DB
	cfg    *config.Config
	logger logger.ILogger
}

func NewHealthController(db *gorm.DB, cfg *config.Config, log logger.ILogger) IHealthController {
	return &healthController{
		db:     db,
		cfg:    cfg,
		logger: log,
	}
}

func (c *healthController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/health/v1")
	h.Get("", c.Check)
	h.Get("/logs", c.Logs)
	h.Get("/logs/:id", c.LogById)
}

func (c *healthController) Check(ctx *fiber.Ctx) error {
	status := fiber.StatusOK
	dbStatus := "ok"
	if err := database.HealthCheck(ctx.Context(), c.db); err != nil {
		status = fiber.StatusServiceUnavailable
		dbStatus = "unreachable"
	}

	providerStatus := "configured"
	if c.cfg.Ai.Provider != "ollama" && c.cfg.Ai.GeminiApiKey == "" {
		providerStatus = "missing api key"
	}

	overall := "ok"
	if status != fiber.StatusOK {
		overall = "degraded"
	}

	return ctx.Status(status).JSON(fiber.Map{
		"status":      overall,
		"database":    dbStatus,
		"ai_provider": c.cfg.Ai.Provider,
		"provider":    providerStatus,
	})
}

func (c *healthController) Logs(ctx *fiber.Ctx) error {
	level := ctx.Query("level")
	limit := ctx.QueryInt("limit", 50)
	offset := ctx.QueryInt("offset", 0)

	entries, err := c.logger.GetLogs(level, limit, offset)
	if err != nil {
		return apperror.Internal("read logs", err)
	}
	return ctx.JSON(serverutils.SuccessResponse("Success fetch logs", entries))
}

func (c *healthController) LogById(ctx *fiber.Ctx) error {
	entry, err := c.logger.GetLogById(ctx.Params("id"))
	if err != nil {
		return apperror.Internal("read log", err)
	}
	if entry == nil {
		return apperror.NotFound("log entry")
	}
	return ctx.JSON(serverutils.SuccessResponse("Success fetch log", entry))
}
