package controller_test

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"schoolerp_backend/internals/constants"
	activity "schoolerp_backend/internals/features/activity_logs/service"
	"schoolerp_backend/internals/features/finance/transport/controller"
	"schoolerp_backend/internals/features/finance/transport/dto"
	"schoolerp_backend/internals/features/finance/transport/model"
	"schoolerp_backend/internals/features/finance/transport/route"
	schoolModel "schoolerp_backend/internals/features/schools/schools/model"
	studentModel "schoolerp_backend/internals/features/schools/students/model"
	helper "schoolerp_backend/internals/helpers"
	"schoolerp_backend/internals/testutil"
)

const base = "/api/transport"

func setup(t *testing.T) (*fiber.App, *gorm.DB, schoolModel.School, schoolModel.School) {
	t.Helper()
	db := testutil.NewDB(t)
	app := testutil.NewApp()
	ctl := controller.New(db, helper.NewValidator(), activity.NewRecorder(db, false, nil), nil)
	route.TransportRoutes(app.Group("/api"), ctl, testutil.Auth())
	a := testutil.SeedSchool(t, db, "Alpha", "ALPHA", schoolModel.SchoolStatusActive)
	b := testutil.SeedSchool(t, db, "Beta", "BETA", schoolModel.SchoolStatusActive)
	return app, db, a, b
}

func northBody() map[string]any {
	return map[string]any{
		"routeName":     "North",
		"vehicleNumber": "ka 01  ab 1234",
		"capacity":      40,
		"monthlyFee":    "1500.00",
		"stops": []map[string]any{
			{"name": "Gate", "pickupTime": "07:10"},
			{"name": "Market", "pickupTime": "07:25"},
		},
	}
}

func TestCreateRouteWithStops(t *testing.T) {
	app, _, a, _ := setup(t)
	tok := testutil.TokenFor(t, 1, constants.RoleSchool, a.ID)

	res := testutil.Do(t, app, http.MethodPost, base, tok, northBody())
	require.Equal(t, http.StatusCreated, res.Status, string(res.Raw))
	var out dto.TransportRouteResponse
	res.Decode(t, &out)
	assert.Equal(t, "KA 01 AB 1234", out.VehicleNumber)
	assert.True(t, out.MonthlyFee.Equal(decimal.NewFromInt(1500)))
	require.Len(t, out.Stops, 2)
	assert.Equal(t, 1, out.Stops[0].Sequence)
	assert.Equal(t, "Market", out.Stops[1].Name)

	res = testutil.Do(t, app, http.MethodPost, base, tok, northBody())
	assert.Equal(t, http.StatusBadRequest, res.Status)
	assert.Equal(t, `Vehicle "KA 01 AB 1234" is already assigned to a route`, res.Body.Message)

	bad := northBody()
	bad["vehicleNumber"] = "KA 09"
	bad["stops"] = []map[string]any{{"name": "Gate", "pickupTime": "7am"}}
	res = testutil.Do(t, app, http.MethodPost, base, tok, bad)
	assert.Equal(t, http.StatusBadRequest, res.Status)
}

func TestUpdateReplacesStopsAndCounts(t *testing.T) {
	app, db, a, b := setup(t)
	tok := testutil.TokenFor(t, 1, constants.RoleSchool, a.ID)

	res := testutil.Do(t, app, http.MethodPost, base, tok, northBody())
	var created dto.TransportRouteResponse
	res.Decode(t, &created)
	path := fmt.Sprintf("%s/%d", base, created.ID)

	rid := created.ID
	require.NoError(t, db.Create(&studentModel.Student{SchoolID: a.ID, Name: "Anu", AdmissionNo: "1", ClassName: "5", TransportRouteID: &rid, Status: studentModel.StudentStatusActive}).Error)

	res = testutil.Do(t, app, http.MethodPut, path, tok, map[string]any{"capacity": 30})
	require.Equal(t, http.StatusOK, res.Status, string(res.Raw))
	var got dto.TransportRouteResponse
	res.Decode(t, &got)
	assert.Equal(t, 30, got.Capacity)
	assert.Len(t, got.Stops, 2)
	require.NotNil(t, got.StudentCount)
	assert.EqualValues(t, 1, *got.StudentCount)

	res = testutil.Do(t, app, http.MethodPut, path, tok, map[string]any{"stops": []map[string]any{{"name": "Depot"}}})
	require.Equal(t, http.StatusOK, res.Status)
	res.Decode(t, &got)
	require.Len(t, got.Stops, 1)
	assert.Equal(t, "Depot", got.Stops[0].Name)

	var n int64
	require.NoError(t, db.Model(&model.TransportStop{}).Count(&n).Error)
	assert.EqualValues(t, 1, n)

	tokB := testutil.TokenFor(t, 2, constants.RoleSchool, b.ID)
	res = testutil.Do(t, app, http.MethodPut, path, tokB, map[string]any{"capacity": 1})
	assert.Equal(t, http.StatusNotFound, res.Status)
}

func TestDeleteRouteDetachesStudents(t *testing.T) {
	app, db, a, _ := setup(t)
	tok := testutil.TokenFor(t, 1, constants.RoleSchool, a.ID)

	res := testutil.Do(t, app, http.MethodPost, base, tok, northBody())
	var created dto.TransportRouteResponse
	res.Decode(t, &created)
	rid := created.ID
	st := studentModel.Student{SchoolID: a.ID, Name: "Anu", AdmissionNo: "1", ClassName: "5", TransportRouteID: &rid, Status: studentModel.StudentStatusActive}
	require.NoError(t, db.Create(&st).Error)

	res = testutil.Do(t, app, http.MethodDelete, fmt.Sprintf("%s/%d", base, rid), testutil.TokenFor(t, 3, constants.RoleTeacher, a.ID), nil)
	assert.Equal(t, http.StatusForbidden, res.Status)

	res = testutil.Do(t, app, http.MethodDelete, fmt.Sprintf("%s/%d", base, rid), tok, nil)
	require.Equal(t, http.StatusOK, res.Status)

	var stops int64
	require.NoError(t, db.Model(&model.TransportStop{}).Count(&stops).Error)
	assert.Zero(t, stops)

	var reloaded studentModel.Student
	require.NoError(t, db.First(&reloaded, st.ID).Error)
	assert.Nil(t, reloaded.TransportRouteID)
}

func TestListRoutesScoped(t *testing.T) {
	app, _, a, b := setup(t)
	tokA := testutil.TokenFor(t, 1, constants.RoleSchool, a.ID)
	tokB := testutil.TokenFor(t, 2, constants.RoleSchool, b.ID)
	testutil.Do(t, app, http.MethodPost, base, tokA, northBody())
	testutil.Do(t, app, http.MethodPost, base, tokB, northBody())

	res := testutil.Get(t, app, base, testutil.TokenFor(t, 3, constants.RoleTeacher, a.ID))
	require.Equal(t, http.StatusOK, res.Status)
	var list []dto.TransportRouteResponse
	res.Decode(t, &list)
	require.Len(t, list, 1)
	assert.Equal(t, a.ID, list[0].SchoolID)

	res = testutil.Get(t, app, base+"?all=true", testutil.AdminToken(t))
	res.Decode(t, &list)
	assert.Len(t, list, 2)
}
