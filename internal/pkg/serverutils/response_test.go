package serverutils

import (
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateRequest(t *testing.T) {
	type payload struct {
		Chat string `validate:"required"`
	}

	assert.NoError(t, ValidateRequest(payload{Chat: "hello"}))

	err := ValidateRequest(payload{})
	require.Error(t, err)

	var apiErr *ApiError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, fiber.StatusBadRequest, apiErr.Status)
	assert.Contains(t, apiErr.Message, "Chat")
}

func TestErrorHandlerMiddleware(t *testing.T) {
	app := fiber.New()
	app.Use(ErrorHandlerMiddleware())
	app.Get("/api-error", func(ctx *fiber.Ctx) error {
		return NewApiError(fiber.StatusConflict, "busy")
	})
	app.Get("/plain-error", func(ctx *fiber.Ctx) error {
		return errors.New("boom")
	})
	app.Get("/ok", func(ctx *fiber.Ctx) error {
		return ctx.JSON(SuccessResponse("fine", nil))
	})

	cases := []struct {
		path   string
		status int
		body   string
	}{
		{"/api-error", fiber.StatusConflict, `"busy"`},
		{"/plain-error", fiber.StatusInternalServerError, `"Internal server error"`},
		{"/ok", fiber.StatusOK, `"fine"`},
	}

	for _, tc := range cases {
		res, err := app.Test(httptest.NewRequest(http.MethodGet, tc.path, nil), -1)
		require.NoError(t, err)
		assert.Equal(t, tc.status, res.StatusCode, tc.path)

		raw, err := io.ReadAll(res.Body)
		require.NoError(t, err)
		assert.Contains(t, string(raw), tc.body, tc.path)
	}
}
