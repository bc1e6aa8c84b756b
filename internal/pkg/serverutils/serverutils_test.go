package serverutils

import (
	"errors"
	"net/http/httptest"
	"testing"

	"velto-memory-be/internal/apperror"
	"velto-memory-be/internal/dto"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
)

func TestValidateRequest(t *testing.T) {
	t.Run("valid request passes", func(t *testing.T) {
		err := ValidateRequest(dto.CreateContextRequest{
			Title:   "Buy milk",
			Content: "remember the milk",
			Type:    "note",
		})
		assert.NoError(t, err)
	})

	t.Run("violations report every field", func(t *testing.T) {
		err := ValidateRequest(dto.CreateContextRequest{
			Type: "banana",
		})
		assert.Equal(t, apperror.KindValidation, apperror.KindOf(err))

		var appErr *apperror.AppError
		assert.ErrorAs(t, err, &appErr)
		assert.Contains(t, appErr.Fields, "title")
		assert.Contains(t, appErr.Fields, "content")
		assert.Contains(t, appErr.Fields["type"], "must be one of")
	})
}

func TestErrorHandlerMiddleware(t *testing.T) {
	newApp := func(handler fiber.Handler) *fiber.App {
		app := fiber.New()
		app.Use(ErrorHandlerMiddleware())
		app.Get("/", handler)
		return app
	}

	cases := []struct {
		name   string
		err    error
		status int
	}{
		{"auth", apperror.Unauthorized("missing user identity"), fiber.StatusUnauthorized},
		{"validation", apperror.Validation("request validation failed", nil), fiber.StatusBadRequest},
		{"not found", apperror.NotFound("context"), fiber.StatusNotFound},
		{"provider", apperror.Provider("compute embedding", errors.New("quota")), fiber.StatusBadGateway},
		{"internal", apperror.Internal("create context", errors.New("disk full")), fiber.StatusInternalServerError},
		{"unclassified", errors.New("plain"), fiber.StatusInternalServerError},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			app := newApp(func(ctx *fiber.Ctx) error { return tc.err })

			res, err := app.Test(httptest.NewRequest("GET", "/", nil))
			assert.NoError(t, err)
			assert.Equal(t, tc.status, res.StatusCode)
		})
	}
}

func TestJwtMiddlewareHeaderFallback(t *testing.T) {
	app := fiber.New()
	app.Use(JwtMiddleware)
	app.Get("/", func(ctx *fiber.Ctx) error {
		return ctx.SendString(ctx.Locals("user_id").(string))
	})

	t.Run("X-User-Id is accepted", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/", nil)
		req.Header.Set("X-User-Id", "42d7bb78-9b4c-4e6f-9d2e-0c1a6f6c1111")

		res, err := app.Test(req)
		assert.NoError(t, err)
		assert.Equal(t, fiber.StatusOK, res.StatusCode)
	})

	t.Run("missing identity is unauthorized", func(t *testing.T) {
		res, err := app.Test(httptest.NewRequest("GET", "/", nil))
		assert.NoError(t, err)
		assert.Equal(t, fiber.StatusUnauthorized, res.StatusCode)
	})

	t.Run("garbage bearer token is unauthorized", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/", nil)
		req.Header.Set("Authorization", "Bearer not-a-token")

		res, err := app.Test(req)
		assert.NoError(t, err)
		assert.Equal(t, fiber.StatusUnauthorized, res.StatusCode)
	})
}
