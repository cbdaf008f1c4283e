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
	"schoolerp_backend/internals/features/academics/attendance/controller"
	"schoolerp_backend/internals/features/academics/attendance/dto"
	"schoolerp_backend/internals/features/academics/attendance/model"
	"schoolerp_backend/internals/features/academics/attendance/route"
	activity "schoolerp_backend/internals/features/activity_logs/service"
	schoolModel "schoolerp_backend/internals/features/schools/schools/model"
	studentModel "schoolerp_backend/internals/features/schools/students/model"
	helper "schoolerp_backend/internals/helpers"
	"schoolerp_backend/internals/testutil"
)

const base = "/api/attendance"

type fixture struct {
	app      *fiber.App
	db       *gorm.DB
	a, b     schoolModel.School
	teacher  string
	students []studentModel.Student
	outsider studentModel.Student
}

func seedStudent(t *testing.T, db *gorm.DB, schoolID uint, name, adm string) studentModel.Student {
	t.Helper()
	s := studentModel.Student{SchoolID: schoolID, Name: name, AdmissionNo: adm, ClassName: "Grade 5", Status: studentModel.StudentStatusActive}
	require.NoError(t, db.Create(&s).Error)
	return s
}

func setup(t *testing.T) fixture {
	t.Helper()
	db := testutil.NewDB(t)
	app := testutil.NewApp()
	ctl := controller.New(db, helper.NewValidator(), activity.NewRecorder(db, false, nil), nil)
	route.AttendanceRoutes(app.Group("/api"), ctl, testutil.Auth())

	f := fixture{app: app, db: db}
	f.a = testutil.SeedSchool(t, db, "Alpha", "ALPHA", schoolModel.SchoolStatusActive)
	f.b = testutil.SeedSchool(t, db, "Beta", "BETA", schoolModel.SchoolStatusActive)
	f.teacher = testutil.TokenFor(t, 5, constants.RoleTeacher, f.a.ID)
	f.students = []studentModel.Student{
		seedStudent(t, db, f.a.ID, "Anu", "1"),
		seedStudent(t, db, f.a.ID, "Bala", "2"),
	}
	f.outsider = seedStudent(t, db, f.b.ID, "Dev", "1")
	return f
}

func mark(date string, recs ...map[string]any) map[string]any {
	return map[string]any{"date": date, "className": "Grade 5", "records": recs}
}

func rec(id uint, status string) map[string]any {
	return map[string]any{"studentId": id, "status": status}
}

func TestMarkUpsertsPerDay(t *testing.T) {
	f := setup(t)
	s1, s2 := f.students[0].ID, f.students[1].ID

	res := testutil.Do(t, f.app, http.MethodPost, base, f.teacher, mark("2024-06-03", rec(s1, "present"), rec(s2, "absent")))
	require.Equal(t, http.StatusOK, res.Status, string(res.Raw))
	assert.EqualValues(t, 2, markedCount(t, res))

	res = testutil.Do(t, f.app, http.MethodPost, base, f.teacher, mark("2024-06-03", rec(s2, "Late")))
	require.Equal(t, http.StatusOK, res.Status, string(res.Raw))

	var rows []model.Attendance
	require.NoError(t, f.db.Order("student_id").Find(&rows).Error)
	require.Len(t, rows, 2)
	assert.Equal(t, model.StatusPresent, rows[0].Status)
	assert.Equal(t, model.StatusLate, rows[1].Status)
	assert.Equal(t, uint(5), rows[1].MarkedBy)

	testutil.Do(t, f.app, http.MethodPost, base, f.teacher, mark("2024-06-04", rec(s1, "absent")))
	var n int64
	require.NoError(t, f.db.Model(&model.Attendance{}).Count(&n).Error)
	assert.EqualValues(t, 3, n)
}

func markedCount(t *testing.T, res testutil.Result) float64 {
	t.Helper()
	var body struct {
		Marked float64 `json:"marked"`
	}
	res.Decode(t, &body)
	return body.Marked
}

func TestMarkRejectsForeignAndInvalid(t *testing.T) {
	f := setup(t)
	s1 := f.students[0].ID

	res := testutil.Do(t, f.app, http.MethodPost, base, f.teacher, mark("2024-06-03", rec(s1, "present"), rec(f.outsider.ID, "present")))
	assert.Equal(t, http.StatusBadRequest, res.Status)
	assert.Equal(t, fmt.Sprintf("Unknown students for this school: %d", f.outsider.ID), res.Body.Message)

	var n int64
	require.NoError(t, f.db.Model(&model.Attendance{}).Count(&n).Error)
	assert.Zero(t, n)

	res = testutil.Do(t, f.app, http.MethodPost, base, f.teacher, mark("03-06-2024", rec(s1, "present")))
	assert.Equal(t, http.StatusBadRequest, res.Status)
	assert.Equal(t, "datetime", res.Body.Errors["date"])

	res = testutil.Do(t, f.app, http.MethodPost, base, f.teacher, mark("2024-06-03", rec(s1, "sick")))
	assert.Equal(t, http.StatusBadRequest, res.Status)

	res = testutil.Do(t, f.app, http.MethodPost, base, f.teacher, mark("2024-06-03", rec(s1, "present"), rec(s1, "absent")))
	assert.Equal(t, http.StatusBadRequest, res.Status)
	assert.Equal(t, "unique", res.Body.Errors["records"])

	res = testutil.Do(t, f.app, http.MethodPost, base, f.teacher, mark("2024-06-03"))
	assert.Equal(t, http.StatusBadRequest, res.Status)

	parent := testutil.TokenFor(t, 9, constants.RoleParent, f.a.ID)
	res = testutil.Do(t, f.app, http.MethodPost, base, parent, mark("2024-06-03", rec(s1, "present")))
	assert.Equal(t, http.StatusForbidden, res.Status)
}

func TestListAttendance(t *testing.T) {
	f := setup(t)
	s1, s2 := f.students[0].ID, f.students[1].ID
	testutil.Do(t, f.app, http.MethodPost, base, f.teacher, mark("2024-06-03", rec(s1, "present"), rec(s2, "absent")))
	testutil.Do(t, f.app, http.MethodPost, base, f.teacher, mark("2024-06-04", rec(s1, "late")))

	res := testutil.Get(t, f.app, base+"?date=2024-06-03", f.teacher)
	require.Equal(t, http.StatusOK, res.Status, string(res.Raw))
	var list []dto.AttendanceResponse
	res.Decode(t, &list)
	require.Len(t, list, 2)
	assert.Equal(t, "Anu", list[0].StudentName)
	assert.Equal(t, "2024-06-03", list[0].Date)

	res = testutil.Get(t, f.app, base, f.teacher)
	res.Decode(t, &list)
	require.Len(t, list, 3)
	assert.Equal(t, "2024-06-04", list[0].Date, "newest first")

	res = testutil.Get(t, f.app, base+"?date=June", f.teacher)
	assert.Equal(t, http.StatusBadRequest, res.Status)

	other := testutil.TokenFor(t, 6, constants.RoleSchool, f.b.ID)
	res = testutil.Get(t, f.app, base, other)
	res.Decode(t, &list)
	assert.Empty(t, list)
}

func TestStudentSummary(t *testing.T) {
	f := setup(t)
	s1 := f.students[0].ID
	for day, status := range map[string]string{
		"2024-06-03": "present",
		"2024-06-04": "late",
		"2024-06-05": "absent",
		"2024-06-06": "present",
		"2024-06-07": "excused",
		"2024-06-10": "absent",
	} {
		res := testutil.Do(t, f.app, http.MethodPost, base, f.teacher, mark(day, rec(s1, status)))
		require.Equal(t, http.StatusOK, res.Status, string(res.Raw))
	}

	path := fmt.Sprintf("%s/students/%d/summary", base, s1)
	parent := testutil.TokenFor(t, 9, constants.RoleParent, f.a.ID)
	res := testutil.Get(t, f.app, path, parent)
	require.Equal(t, http.StatusOK, res.Status, string(res.Raw))
	var sum dto.AttendanceSummary
	res.Decode(t, &sum)
	assert.EqualValues(t, 6, sum.Total)
	assert.EqualValues(t, 2, sum.Counts["present"])
	assert.EqualValues(t, 2, sum.Counts["absent"])
	assert.True(t, sum.Percentage.Equal(decimal.RequireFromString("50")), sum.Percentage.String())

	res = testutil.Get(t, f.app, path+"?from=2024-06-04&to=2024-06-06", parent)
	require.Equal(t, http.StatusOK, res.Status)
	res.Decode(t, &sum)
	assert.EqualValues(t, 3, sum.Total)
	assert.True(t, sum.Percentage.Equal(decimal.RequireFromString("66.67")), sum.Percentage.String())
	require.NotNil(t, sum.From)
	assert.Equal(t, "2024-06-04", *sum.From)

	res = testutil.Get(t, f.app, path+"?from=2024-06-06&to=2024-06-04", parent)
	assert.Equal(t, http.StatusBadRequest, res.Status)

	res = testutil.Get(t, f.app, fmt.Sprintf("%s/students/%d/summary", base, f.outsider.ID), parent)
	assert.Equal(t, http.StatusNotFound, res.Status)

	res = testutil.Get(t, f.app, fmt.Sprintf("%s/students/%d/summary", base, f.students[1].ID), parent)
	require.Equal(t, http.StatusOK, res.Status)
	res.Decode(t, &sum)
	assert.Zero(t, sum.Total)
	assert.True(t, sum.Percentage.IsZero())
}
