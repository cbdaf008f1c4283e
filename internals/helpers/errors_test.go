package helper

import (
	"errors"
	"fmt"
	"io"
	"net/http/httptest"
	"testing"

	"github.com/bytedance/sonic"
	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func render(t *testing.T, err error) (int, ErrorResponse) {
	t.Helper()
	app := fiber.New(fiber.Config{ErrorHandler: ErrorHandler})
	app.Get("/", func(c *fiber.Ctx) error { return FromError(c, err) })

	resp, e := app.Test(httptest.NewRequest("GET", "/", nil))
	require.NoError(t, e)
	defer resp.Body.Close()
	raw, e := io.ReadAll(resp.Body)
	require.NoError(t, e)

	var body ErrorResponse
	require.NoError(t, sonic.Unmarshal(raw, &body), string(raw))
	return resp.StatusCode, body
}

func TestFromError(t *testing.T) {
	cases := []struct {
		name   string
		err    error
		status int
		msg    string
	}{
		{"fiber error", fiber.NewError(fiber.StatusForbidden, "nope"), 403, "nope"},
		{"wrapped fiber error", fmt.Errorf("tx: %w", fiber.NewError(fiber.StatusNotFound, "gone")), 404, "gone"},
		{"duplicate", gorm.ErrDuplicatedKey, 400, "Duplicate entry"},
		{"pg duplicate", &pgconn.PgError{Code: "23505"}, 400, "Duplicate entry"},
		{"not found", gorm.ErrRecordNotFound, 404, "Record not found"},
		{"unknown", errors.New("boom"), 500, "Internal server error"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			status, body := render(t, tc.err)
			assert.Equal(t, tc.status, status)
			assert.Equal(t, tc.msg, body.Message)
			assert.False(t, body.Success)
		})
	}
}

func TestInternalErrorDetailToggle(t *testing.T) {
	t.Cleanup(func() { SetExposeErrors(true) })

	_, body := render(t, errors.New("db exploded"))
	assert.Equal(t, "db exploded", body.Error)

	SetExposeErrors(false)
	_, body = render(t, errors.New("db exploded"))
	assert.Empty(t, body.Error)
}

func TestValidationErrorUsesJSONNames(t *testing.T) {
	type payload struct {
		ClassName string `json:"className" validate:"required"`
		Email     string `json:"email" validate:"omitempty,email"`
	}
	err := NewValidator().Struct(payload{Email: "nope"})
	require.Error(t, err)

	status, body := render(t, err)
	assert.Equal(t, 400, status)
	assert.Equal(t, map[string]string{"className": "required", "email": "email"}, body.Errors)
}
