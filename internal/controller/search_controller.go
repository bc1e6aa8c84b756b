package controller

import (
	"velto-memory-be/internal/apperror"
	"velto-memory-be/internal/dto"
	"velto-memory-be/internal/pkg/serverutils"
	"velto-memory-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type ISearchController interface {
	RegisterRoutes(r fiber.Router)
	Search(ctx *fiber.Ctx) error
	Suggestions(ctx *fiber.Ctx) error
}

type searchController struct {
	searchService service.ISearchService
}

func NewSearchController(searchService service.ISearchService) ISearchController {
	return &searchController{
		searchService: searchService,
	}
}

func (c *searchController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/search/v1")
	h.Use(serverutils.JwtMiddleware)
	h.Post("", c.Search)
	h.Get("suggestions", c.Suggestions)
}

func (c *searchController) Search(ctx *fiber.Ctx) error {
	userId, err := requestUserId(ctx)
	if err != nil {
		return err
	}

	var req dto.SearchRequest
	if err := ctx.BodyParser(&req); err != nil {
		return apperror.Validation("malformed request body", nil)
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.searchService.Search(ctx.Context(), userId, &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success search contexts", res))
}

func (c *searchController) Suggestions(ctx *fiber.Ctx) error {
	userId, err := requestUserId(ctx)
	if err != nil {
		return err
	}

	query := ctx.Query("q")
	if query == "" {
		return apperror.Validation("request validation failed", map[string]string{
			"q": "is required",
		})
	}
	limit := ctx.QueryInt("limit", 0)

	res, err := c.searchService.Suggestions(ctx.Context(), userId, query, limit)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success fetch suggestions", res))
}
