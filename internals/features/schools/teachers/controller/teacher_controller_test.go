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
	schoolModel "schoolerp_backend/internals/features/schools/schools/model"
	"schoolerp_backend/internals/features/schools/teachers/controller"
	"schoolerp_backend/internals/features/schools/teachers/dto"
	"schoolerp_backend/internals/features/schools/teachers/model"
	"schoolerp_backend/internals/features/schools/teachers/route"
	helper "schoolerp_backend/internals/helpers"
	"schoolerp_backend/internals/testutil"
)

const base = "/api/teachers"

func setup(t *testing.T) (*fiber.App, *gorm.DB, schoolModel.School, schoolModel.School) {
	t.Helper()
	db := testutil.NewDB(t)
	app := testutil.NewApp()
	ctl := controller.New(db, helper.NewValidator(), activity.NewRecorder(db, false, nil))
	route.TeacherRoutes(app.Group("/api"), ctl, testutil.Auth())
	a := testutil.SeedSchool(t, db, "Alpha", "ALPHA", schoolModel.SchoolStatusActive)
	b := testutil.SeedSchool(t, db, "Beta", "BETA", schoolModel.SchoolStatusActive)
	return app, db, a, b
}

func createTeacher(t *testing.T, app *fiber.App, token string, body map[string]any) dto.TeacherResponse {
	t.Helper()
	res := testutil.Do(t, app, http.MethodPost, base, token, body)
	require.Equal(t, http.StatusCreated, res.Status, string(res.Raw))
	var out dto.TeacherResponse
	res.Decode(t, &out)
	return out
}

func TestCreateTeacherStoresLists(t *testing.T) {
	app, db, a, _ := setup(t)
	tok := testutil.TokenFor(t, 1, constants.RoleSchool, a.ID)

	out := createTeacher(t, app, tok, map[string]any{
		"name":      "Asha Rao",
		"email":     " Asha@School.example ",
		"subjects":  []string{"Maths", " Physics ", "Maths", ""},
		"sections":  []string{"5A"},
		"documents": []string{"https://files.example/cv.pdf"},
		"joinedAt":  "2023-06-01",
	})
	assert.Equal(t, "asha@school.example", out.Email)
	assert.Equal(t, []string{"Maths", "Physics"}, out.Subjects)
	assert.Equal(t, []string{"5A"}, out.Sections)
	assert.Equal(t, "active", out.Status)
	require.NotNil(t, out.JoinedAt)
	assert.Equal(t, "2023-06-01", *out.JoinedAt)

	var stored model.Teacher
	require.NoError(t, db.First(&stored, out.ID).Error)
	assert.Equal(t, []string{"Maths", "Physics"}, []string(stored.Subjects))
	assert.Equal(t, []string{"https://files.example/cv.pdf"}, []string(stored.Documents))
}

func TestTeacherEmailUniquePerSchool(t *testing.T) {
	app, _, a, b := setup(t)
	tokA := testutil.TokenFor(t, 1, constants.RoleSchool, a.ID)
	tokB := testutil.TokenFor(t, 2, constants.RoleSchool, b.ID)

	createTeacher(t, app, tokA, map[string]any{"name": "One", "email": "t@x.example"})

	res := testutil.Do(t, app, http.MethodPost, base, tokA, map[string]any{"name": "Two", "email": "T@x.example"})
	assert.Equal(t, http.StatusBadRequest, res.Status)
	assert.Equal(t, "A teacher with this email already exists in this school", res.Body.Message)

	createTeacher(t, app, tokB, map[string]any{"name": "Two", "email": "t@x.example"})
}

func TestTeacherValidation(t *testing.T) {
	app, _, a, _ := setup(t)
	tok := testutil.TokenFor(t, 1, constants.RoleSchool, a.ID)

	res := testutil.Do(t, app, http.MethodPost, base, tok, map[string]any{"name": "X", "email": "not-an-email"})
	assert.Equal(t, http.StatusBadRequest, res.Status)
	assert.Equal(t, "email", res.Body.Errors["email"])

	res = testutil.Do(t, app, http.MethodPost, base, tok, map[string]any{"name": "X", "email": "x@y.example", "joinedAt": "01/06/2023"})
	assert.Equal(t, http.StatusBadRequest, res.Status)
	assert.Equal(t, "datetime", res.Body.Errors["joinedAt"])
}

func TestTeacherListFiltersAndScope(t *testing.T) {
	app, _, a, b := setup(t)
	tokA := testutil.TokenFor(t, 1, constants.RoleSchool, a.ID)
	tokB := testutil.TokenFor(t, 2, constants.RoleSchool, b.ID)

	createTeacher(t, app, tokA, map[string]any{"name": "Maths Teacher", "email": "m@a.example", "subjects": []string{"Maths"}})
	createTeacher(t, app, tokA, map[string]any{"name": "Art Teacher", "email": "art@a.example", "subjects": []string{"Art", "Craft"}})
	createTeacher(t, app, tokB, map[string]any{"name": "Other", "email": "o@b.example", "subjects": []string{"Art"}})

	teacherTok := testutil.TokenFor(t, 3, constants.RoleTeacher, a.ID)
	res := testutil.Get(t, app, base, teacherTok)
	require.Equal(t, http.StatusOK, res.Status)
	var list []dto.TeacherResponse
	res.Decode(t, &list)
	assert.Len(t, list, 2)

	res = testutil.Get(t, app, base+"?subject=Art", tokA)
	res.Decode(t, &list)
	require.Len(t, list, 1)
	assert.Equal(t, "Art Teacher", list[0].Name)

	res = testutil.Get(t, app, base+"?q=maths", tokA)
	res.Decode(t, &list)
	require.Len(t, list, 1)

	res = testutil.Get(t, app, base+"?all=true&subject=Art", testutil.AdminToken(t))
	res.Decode(t, &list)
	assert.Len(t, list, 2)
}

func TestTeacherUpdateAndDelete(t *testing.T) {
	app, _, a, b := setup(t)
	tokA := testutil.TokenFor(t, 1, constants.RoleSchool, a.ID)
	tokB := testutil.TokenFor(t, 2, constants.RoleSchool, b.ID)

	tch := createTeacher(t, app, tokA, map[string]any{"name": "One", "email": "one@a.example", "subjects": []string{"Maths"}})
	createTeacher(t, app, tokA, map[string]any{"name": "Two", "email": "two@a.example"})
	path := fmt.Sprintf("%s/%d", base, tch.ID)

	res := testutil.Do(t, app, http.MethodPut, path, tokA, map[string]any{"subjects": []string{"Biology"}, "status": "inactive"})
	require.Equal(t, http.StatusOK, res.Status, string(res.Raw))
	var got dto.TeacherResponse
	res.Decode(t, &got)
	assert.Equal(t, []string{"Biology"}, got.Subjects)
	assert.Equal(t, "inactive", got.Status)
	assert.Equal(t, "one@a.example", got.Email)

	res = testutil.Do(t, app, http.MethodPut, path, tokA, map[string]any{"email": "two@a.example"})
	assert.Equal(t, http.StatusBadRequest, res.Status)

	res = testutil.Do(t, app, http.MethodPut, path, tokB, map[string]any{"name": "Hijack"})
	assert.Equal(t, http.StatusNotFound, res.Status)

	res = testutil.Do(t, app, http.MethodDelete, path, testutil.TokenFor(t, 9, constants.RoleTeacher, a.ID), nil)
	assert.Equal(t, http.StatusForbidden, res.Status)

	res = testutil.Do(t, app, http.MethodDelete, path, tokA, nil)
	assert.Equal(t, http.StatusOK, res.Status)
	res = testutil.Get(t, app, path, tokA)
	assert.Equal(t, http.StatusNotFound, res.Status)
}
