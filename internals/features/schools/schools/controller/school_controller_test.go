package controller_test

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"schoolerp_backend/internals/constants"
	activity "schoolerp_backend/internals/features/activity_logs/service"
	"schoolerp_backend/internals/features/schools/schools/controller"
	"schoolerp_backend/internals/features/schools/schools/dto"
	"schoolerp_backend/internals/features/schools/schools/model"
	"schoolerp_backend/internals/features/schools/schools/route"
	helper "schoolerp_backend/internals/helpers"
	"schoolerp_backend/internals/testutil"
)

func setup(t *testing.T) (*fiber.App, *gorm.DB) {
	t.Helper()
	db := testutil.NewDB(t)
	app := testutil.NewApp()
	ctl := controller.New(db, helper.NewValidator(), activity.NewRecorder(db, false, nil))
	route.SchoolRoutes(app.Group("/api"), ctl, testutil.Auth())
	return app, db
}

func TestCreateAndList(t *testing.T) {
	app, _ := setup(t)
	admin := testutil.AdminToken(t)

	res := testutil.Do(t, app, http.MethodPost, "/api/schools", admin, map[string]any{
		"name": "Green Valley", "code": " gv01 ", "email": "office@gv.example",
	})
	require.Equal(t, http.StatusCreated, res.Status, string(res.Raw))
	var created dto.SchoolResponse
	res.Decode(t, &created)
	assert.Equal(t, "GV01", created.Code)
	assert.Equal(t, "active", created.Status)

	res = testutil.Do(t, app, http.MethodPost, "/api/schools", admin, map[string]any{"name": "Other", "code": "gv01"})
	assert.Equal(t, http.StatusBadRequest, res.Status)
	assert.Equal(t, "School code already exists", res.Body.Message)

	res = testutil.Do(t, app, http.MethodPost, "/api/schools", admin, map[string]any{"name": "Bad", "code": "B1", "email": "nope"})
	assert.Equal(t, http.StatusBadRequest, res.Status)
	assert.Equal(t, "email", res.Body.Errors["email"])

	testutil.Do(t, app, http.MethodPost, "/api/schools", admin, map[string]any{"name": "Blue Hills", "code": "BH"})

	res = testutil.Get(t, app, "/api/schools?q=valley", admin)
	require.Equal(t, http.StatusOK, res.Status)
	var list []dto.SchoolResponse
	res.Decode(t, &list)
	require.Len(t, list, 1)
	assert.Equal(t, created.ID, list[0].ID)
	assert.EqualValues(t, 1, res.Body.Meta["total"])
}

func TestOnlyAdminsManageSchools(t *testing.T) {
	app, db := setup(t)
	s := testutil.SeedSchool(t, db, "Alpha", "ALPHA", model.SchoolStatusActive)
	principal := testutil.TokenFor(t, 2, constants.RoleSchool, s.ID)

	res := testutil.Get(t, app, "/api/schools", principal)
	assert.Equal(t, http.StatusForbidden, res.Status)

	res = testutil.Do(t, app, http.MethodPut, fmt.Sprintf("/api/schools/%d", s.ID), principal, map[string]any{"name": "X"})
	assert.Equal(t, http.StatusForbidden, res.Status)
}

func TestMe(t *testing.T) {
	app, db := setup(t)
	s := testutil.SeedSchool(t, db, "Alpha", "ALPHA", model.SchoolStatusActive)

	res := testutil.Get(t, app, "/api/schools/me", testutil.TokenFor(t, 3, constants.RoleParent, s.ID))
	require.Equal(t, http.StatusOK, res.Status)
	var got dto.SchoolResponse
	res.Decode(t, &got)
	assert.Equal(t, "ALPHA", got.Code)

	res = testutil.Get(t, app, "/api/schools/me", testutil.TokenFor(t, 3, constants.RoleParent, 404))
	assert.Equal(t, http.StatusNotFound, res.Status)

	res = testutil.Get(t, app, "/api/schools/me", testutil.TokenFor(t, 3, constants.RoleParent, 0))
	assert.Equal(t, http.StatusBadRequest, res.Status)
}

func TestUpdateStatus(t *testing.T) {
	app, db := setup(t)
	admin := testutil.AdminToken(t)
	a := testutil.SeedSchool(t, db, "Alpha", "ALPHA", model.SchoolStatusActive)
	testutil.SeedSchool(t, db, "Beta", "BETA", model.SchoolStatusActive)
	path := fmt.Sprintf("/api/schools/%d", a.ID)

	res := testutil.Do(t, app, http.MethodPut, path, admin, map[string]any{"status": "Inactive"})
	require.Equal(t, http.StatusOK, res.Status, string(res.Raw))
	var got dto.SchoolResponse
	res.Decode(t, &got)
	assert.Equal(t, "inactive", got.Status)
	assert.Equal(t, "Alpha", got.Name)

	res = testutil.Do(t, app, http.MethodPut, path, admin, map[string]any{"code": "beta"})
	assert.Equal(t, http.StatusBadRequest, res.Status)

	res = testutil.Do(t, app, http.MethodPut, path, admin, map[string]any{"status": "closed"})
	assert.Equal(t, http.StatusBadRequest, res.Status)

	res = testutil.Do(t, app, http.MethodPut, "/api/schools/999", admin, map[string]any{"name": "Ghost"})
	assert.Equal(t, http.StatusNotFound, res.Status)
}
