// Package testutil wires an in-memory database, signed tokens and a Fiber app
// for handler tests.
package testutil

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/bytedance/sonic"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"schoolerp_backend/internals/constants"
	database "schoolerp_backend/internals/databases"
	schoolModel "schoolerp_backend/internals/features/schools/schools/model"
	helper "schoolerp_backend/internals/helpers"
	authMiddleware "schoolerp_backend/internals/middlewares/auth"
)

const Secret = "test-secret"

// NewDB opens a private in-memory SQLite database with foreign keys on and
// every model migrated. One connection keeps the memory database alive and
// serializes access, so code inside a transaction must only use its tx.
func NewDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := "file:" + uuid.NewString() + "?mode=memory&cache=shared&_foreign_keys=on"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, database.Migrate(db))
	return db
}

// NewApp returns a Fiber app configured like production (sonic, error envelope).
func NewApp() *fiber.App {
	return fiber.New(fiber.Config{
		JSONEncoder:  sonic.Marshal,
		JSONDecoder:  sonic.Unmarshal,
		ErrorHandler: helper.ErrorHandler,
	})
}

// Auth is the JWT middleware bound to Secret.
func Auth() fiber.Handler {
	return authMiddleware.AuthJWT(authMiddleware.AuthJWTOpts{Secret: Secret})
}

// MintToken signs claims with Secret; exp defaults to one hour from now.
func MintToken(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	if _, ok := claims["exp"]; !ok {
		claims["exp"] = time.Now().Add(time.Hour).Unix()
	}
	s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(Secret))
	require.NoError(t, err)
	return s
}

// TokenFor mints a token for role; schoolID 0 leaves the claim out.
func TokenFor(t *testing.T, userID uint, role string, schoolID uint) string {
	t.Helper()
	claims := jwt.MapClaims{"id": userID, "role": role, "user_name": role + "-user"}
	if schoolID != 0 {
		claims["school_id"] = schoolID
	}
	return MintToken(t, claims)
}

func AdminToken(t *testing.T) string { return TokenFor(t, 1, constants.RoleAdmin, 0) }

// Envelope mirrors the JSON response shape.
type Envelope struct {
	Success bool              `json:"success"`
	Message string            `json:"message"`
	Data    json.RawMessage   `json:"data"`
	Meta    map[string]any    `json:"meta"`
	Error   string            `json:"error"`
	Errors  map[string]string `json:"errors"`
}

// Result is a decoded response.
type Result struct {
	Status int
	Body   Envelope
	Raw    []byte
}

// Decode unmarshals the envelope's data into out.
func (r Result) Decode(t *testing.T, out any) {
	t.Helper()
	require.NoError(t, sonic.Unmarshal(r.Body.Data, out), string(r.Raw))
}

// Do sends a request with an optional bearer token and JSON body.
func Do(t *testing.T, app *fiber.App, method, path, token string, body any) Result {
	t.Helper()
	var rdr io.Reader
	if body != nil {
		switch b := body.(type) {
		case string:
			rdr = bytes.NewBufferString(b)
		default:
			buf, err := sonic.Marshal(body)
			require.NoError(t, err)
			rdr = bytes.NewReader(buf)
		}
	}
	req := httptest.NewRequest(method, path, rdr)
	if body != nil {
		req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	}
	if token != "" {
		req.Header.Set(fiber.HeaderAuthorization, "Bearer "+token)
	}

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	res := Result{Status: resp.StatusCode, Raw: raw}
	if len(raw) > 0 && strings.HasPrefix(resp.Header.Get(fiber.HeaderContentType), fiber.MIMEApplicationJSON) {
		require.NoError(t, sonic.Unmarshal(raw, &res.Body), string(raw))
	}
	return res
}

func Get(t *testing.T, app *fiber.App, path, token string) Result {
	return Do(t, app, http.MethodGet, path, token, nil)
}

// SeedSchool inserts a school with the given code.
func SeedSchool(t *testing.T, db *gorm.DB, name, code string, status schoolModel.SchoolStatus) schoolModel.School {
	t.Helper()
	if status == "" {
		status = schoolModel.SchoolStatusActive
	}
	s := schoolModel.School{Name: name, Code: code, Status: status}
	require.NoError(t, db.Create(&s).Error)
	return s
}
