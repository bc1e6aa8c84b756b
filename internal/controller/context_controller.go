package controller

import (
	"strings"
	"time"

	"velto-memory-be/internal/apperror"
	"velto-memory-be/internal/dto"
	"velto-memory-be/internal/pkg/serverutils"
	"velto-memory-be/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type IContextController interface {
	RegisterRoutes(r fiber.Router)
	Create(ctx *fiber.Ctx) error
	Show(ctx *fiber.Ctx) error
	Update(ctx *fiber.Ctx) error
	Delete(ctx *fiber.Ctx) error
	List(ctx *fiber.Ctx) error
}

type contextController struct {
	contextService service.IContextService
}

func NewContextController(contextService service.IContextService) IContextController {
	return &contextController{
		contextService: contextService,
	}
}

func (c *contextController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/context/v1")
	h.Use(serverutils.JwtMiddleware)
	h.Post("", c.Create)
	h.Get("", c.List)
	h.Get(":id", c.Show)
	h.Put(":id", c.Update)
	h.Delete(":id", c.Delete)
}

// requestUserId resolves the authenticated user from the middleware locals.
func requestUserId(ctx *fiber.Ctx) (uuid.UUID, error) {
	userIdStr, ok := ctx.Locals("user_id").(string)
	if !ok {
		return uuid.Nil, apperror.Unauthorized("missing user identity")
	}
	userId, err := uuid.Parse(userIdStr)
	if err != nil {
		return uuid.Nil, apperror.Unauthorized("invalid user identity")
	}
	return userId, nil
}

func idParam(ctx *fiber.Ctx) (uuid.UUID, error) {
	id, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return uuid.Nil, apperror.Validation("request validation failed", map[string]string{
			"id": "must be a valid uuid",
		})
	}
	return id, nil
}

func (c *contextController) Create(ctx *fiber.Ctx) error {
	userId, err := requestUserId(ctx)
	if err != nil {
		return err
	}

	var req dto.CreateContextRequest
	if err := ctx.BodyParser(&req); err != nil {
		return apperror.Validation("malformed request body", nil)
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.contextService.Create(ctx.Context(), userId, &req)
	if err != nil {
		return err
	}

	return ctx.Status(fiber.StatusCreated).JSON(serverutils.SuccessResponse("Success create context", res))
}

func (c *contextController) Show(ctx *fiber.Ctx) error {
	userId, err := requestUserId(ctx)
	if err != nil {
		return err
	}

	id, err := idParam(ctx)
	if err != nil {
		return err
	}

	res, err := c.contextService.Show(ctx.Context(), userId, id)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success show context", res))
}

func (c *contextController) Update(ctx *fiber.Ctx) error {
	userId, err := requestUserId(ctx)
	if err != nil {
		return err
	}

	id, err := idParam(ctx)
	if err != nil {
		return err
	}

	var req dto.UpdateContextRequest
	if err := ctx.BodyParser(&req); err != nil {
		return apperror.Validation("malformed request body", nil)
	}
	req.Id = id

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.contextService.Update(ctx.Context(), userId, &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success update context", res))
}

func (c *contextController) Delete(ctx *fiber.Ctx) error {
	userId, err := requestUserId(ctx)
	if err != nil {
		return err
	}

	id, err := idParam(ctx)
	if err != nil {
		return err
	}

	if err := c.contextService.Delete(ctx.Context(), userId, id); err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success delete context", nil))
}

func (c *contextController) List(ctx *fiber.Ctx) error {
	userId, err := requestUserId(ctx)
	if err != nil {
		return err
	}

	req := dto.ListContextsRequest{
		SortBy:   ctx.Query("sort_by", "created_at"),
		SortDesc: ctx.QueryBool("sort_desc", true),
		Limit:    ctx.QueryInt("limit", 20),
		Offset:   ctx.QueryInt("offset", 0),
	}

	if raw := ctx.Query("project_id"); raw != "" {
		projectId, err := uuid.Parse(raw)
		if err != nil {
			return apperror.Validation("request validation failed", map[string]string{
				"project_id": "must be a valid uuid",
			})
		}
		req.ProjectId = &projectId
	}
	if raw := ctx.Query("type"); raw != "" {
		req.Type = &raw
	}
	if raw := ctx.Query("tags"); raw != "" {
		req.Tags = strings.Split(raw, ",")
	}
	if raw := ctx.Query("created_after"); raw != "" {
		t, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return apperror.Validation("request validation failed", map[string]string{
				"created_after": "must be an RFC3339 timestamp",
			})
		}
		req.CreatedAfter = &t
	}
	if raw := ctx.Query("created_before"); raw != "" {
		t, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return apperror.Validation("request validation failed", map[string]string{
				"created_before": "must be an RFC3339 timestamp",
			})
		}
		req.CreatedBefore = &t
	}

	res, err := c.contextService.List(ctx.Context(), userId, &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success list contexts", res))
}
