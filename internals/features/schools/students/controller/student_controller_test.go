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
	transportModel "schoolerp_backend/internals/features/finance/transport/model"
	schoolModel "schoolerp_backend/internals/features/schools/schools/model"
	"schoolerp_backend/internals/features/schools/students/controller"
	"schoolerp_backend/internals/features/schools/students/dto"
	"schoolerp_backend/internals/features/schools/students/route"
	helper "schoolerp_backend/internals/helpers"
	"schoolerp_backend/internals/testutil"
)

const base = "/api/students"

type fixture struct {
	app    *fiber.App
	db     *gorm.DB
	a, b   schoolModel.School
	tokA   string
	tokB   string
	routeA transportModel.TransportRoute
	routeB transportModel.TransportRoute
}

func setup(t *testing.T) fixture {
	t.Helper()
	db := testutil.NewDB(t)
	app := testutil.NewApp()
	ctl := controller.New(db, helper.NewValidator(), activity.NewRecorder(db, false, nil))
	route.StudentRoutes(app.Group("/api"), ctl, testutil.Auth())

	f := fixture{app: app, db: db}
	f.a = testutil.SeedSchool(t, db, "Alpha", "ALPHA", schoolModel.SchoolStatusActive)
	f.b = testutil.SeedSchool(t, db, "Beta", "BETA", schoolModel.SchoolStatusActive)
	f.tokA = testutil.TokenFor(t, 1, constants.RoleSchool, f.a.ID)
	f.tokB = testutil.TokenFor(t, 2, constants.RoleSchool, f.b.ID)

	f.routeA = transportModel.TransportRoute{SchoolID: f.a.ID, RouteName: "North", VehicleNumber: "KA01"}
	f.routeB = transportModel.TransportRoute{SchoolID: f.b.ID, RouteName: "South", VehicleNumber: "KA02"}
	require.NoError(t, db.Create(&f.routeA).Error)
	require.NoError(t, db.Create(&f.routeB).Error)
	return f
}

func createStudent(t *testing.T, f fixture, token string, body map[string]any) dto.StudentResponse {
	t.Helper()
	res := testutil.Do(t, f.app, http.MethodPost, base, token, body)
	require.Equal(t, http.StatusCreated, res.Status, string(res.Raw))
	var out dto.StudentResponse
	res.Decode(t, &out)
	return out
}

func TestCreateStudent(t *testing.T) {
	f := setup(t)
	out := createStudent(t, f, f.tokA, map[string]any{
		"name": "Ravi", "admissionNo": "adm-001", "className": "Grade 5", "section": "A",
		"transportRouteId": f.routeA.ID,
	})
	assert.Equal(t, "ADM-001", out.AdmissionNo)
	assert.Equal(t, "active", out.Status)
	require.NotNil(t, out.TransportRouteID)
	assert.Equal(t, f.routeA.ID, *out.TransportRouteID)

	res := testutil.Do(t, f.app, http.MethodPost, base, f.tokA, map[string]any{"name": "Dup", "admissionNo": "ADM-001", "className": "Grade 5"})
	assert.Equal(t, http.StatusBadRequest, res.Status)
	assert.Equal(t, "Admission number already exists in this school", res.Body.Message)

	// another school may reuse the number
	createStudent(t, f, f.tokB, map[string]any{"name": "Other", "admissionNo": "ADM-001", "className": "Grade 5"})
}

func TestStudentRouteMustBelongToSchool(t *testing.T) {
	f := setup(t)
	res := testutil.Do(t, f.app, http.MethodPost, base, f.tokA, map[string]any{
		"name": "Ravi", "admissionNo": "A1", "className": "Grade 5", "transportRouteId": f.routeB.ID,
	})
	assert.Equal(t, http.StatusBadRequest, res.Status)
	assert.Equal(t, "Transport route not found in this school", res.Body.Message)

	s := createStudent(t, f, f.tokA, map[string]any{"name": "Ravi", "admissionNo": "A1", "className": "Grade 5"})
	path := fmt.Sprintf("%s/%d", base, s.ID)

	res = testutil.Do(t, f.app, http.MethodPut, path, f.tokA, map[string]any{"transportRouteId": f.routeB.ID})
	assert.Equal(t, http.StatusBadRequest, res.Status)

	res = testutil.Do(t, f.app, http.MethodPut, path, f.tokA, map[string]any{"transportRouteId": f.routeA.ID})
	require.Equal(t, http.StatusOK, res.Status, string(res.Raw))

	res = testutil.Do(t, f.app, http.MethodPut, path, f.tokA, map[string]any{"transportRouteId": 0})
	require.Equal(t, http.StatusOK, res.Status)
	var got dto.StudentResponse
	res.Decode(t, &got)
	assert.Nil(t, got.TransportRouteID)
}

func TestStudentListFilters(t *testing.T) {
	f := setup(t)
	createStudent(t, f, f.tokA, map[string]any{"name": "Anu", "admissionNo": "1", "className": "Grade 5", "section": "A"})
	createStudent(t, f, f.tokA, map[string]any{"name": "Bala", "admissionNo": "2", "className": "Grade 5", "section": "B"})
	createStudent(t, f, f.tokA, map[string]any{"name": "Chitra", "admissionNo": "3", "className": "Grade 6"})
	createStudent(t, f, f.tokB, map[string]any{"name": "Dev", "admissionNo": "4", "className": "Grade 5"})

	teacher := testutil.TokenFor(t, 7, constants.RoleTeacher, f.a.ID)
	res := testutil.Get(t, f.app, base+"?className=Grade%205", teacher)
	require.Equal(t, http.StatusOK, res.Status)
	var list []dto.StudentResponse
	res.Decode(t, &list)
	require.Len(t, list, 2)
	assert.Equal(t, "Anu", list[0].Name)

	res = testutil.Get(t, f.app, base+"?className=Grade%205&section=B", teacher)
	res.Decode(t, &list)
	require.Len(t, list, 1)
	assert.Equal(t, "Bala", list[0].Name)

	res = testutil.Get(t, f.app, base+"?per_page=2&page=2", f.tokA)
	res.Decode(t, &list)
	assert.Len(t, list, 1)
	assert.EqualValues(t, 3, res.Body.Meta["total"])
	assert.Equal(t, false, res.Body.Meta["hasNext"])

	res = testutil.Get(t, f.app, base, testutil.TokenFor(t, 8, constants.RoleStudent, f.a.ID))
	assert.Equal(t, http.StatusForbidden, res.Status)
}

func TestStudentTenantIsolation(t *testing.T) {
	f := setup(t)
	s := createStudent(t, f, f.tokA, map[string]any{"name": "Anu", "admissionNo": "1", "className": "Grade 5"})
	path := fmt.Sprintf("%s/%d", base, s.ID)

	assert.Equal(t, http.StatusNotFound, testutil.Get(t, f.app, path, f.tokB).Status)
	assert.Equal(t, http.StatusNotFound, testutil.Do(t, f.app, http.MethodDelete, path, f.tokB, nil).Status)
	assert.Equal(t, http.StatusOK, testutil.Get(t, f.app, path, testutil.AdminToken(t)).Status)
	assert.Equal(t, http.StatusOK, testutil.Do(t, f.app, http.MethodDelete, path, f.tokA, nil).Status)
}
