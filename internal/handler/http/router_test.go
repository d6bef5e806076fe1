package http_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/cmlabs-hris/hris-timeledger/internal/domain/attendance"
	"github.com/cmlabs-hris/hris-timeledger/internal/domain/employee"
	"github.com/cmlabs-hris/hris-timeledger/internal/domain/leave"
	handler "github.com/cmlabs-hris/hris-timeledger/internal/handler/http"
	"github.com/cmlabs-hris/hris-timeledger/internal/pkg/jwt"
	"github.com/cmlabs-hris/hris-timeledger/internal/pkg/sse"
	"github.com/cmlabs-hris/hris-timeledger/internal/repository/sqlite/sqlitetest"
	attendancesvc "github.com/cmlabs-hris/hris-timeledger/internal/service/attendance"
	leavesvc "github.com/cmlabs-hris/hris-timeledger/internal/service/leave"
	notificationsvc "github.com/cmlabs-hris/hris-timeledger/internal/service/notification"
	payrollsvc "github.com/cmlabs-hris/hris-timeledger/internal/service/payroll"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type apiEnv struct {
	fx       *sqlitetest.Fixture
	server   *httptest.Server
	jwt      jwt.Service
	emp      employee.Employee
	manager  employee.Employee
	empToken string
	mgrToken string
}

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *struct {
		Code    string            `json:"code"`
		Message string            `json:"message"`
		Details map[string]string `json:"details"`
	} `json:"error"`
}

func newAPIEnv(t *testing.T) *apiEnv {
	t.Helper()
	fx := sqlitetest.New(t)
	clock := sqlitetest.NewClock(time.Date(2024, 3, 4, 9, 0, 0, 0, time.UTC))
	hub := sse.NewHub(0)

	notifications := notificationsvc.NewNotificationService(fx.Notifications, hub, notificationsvc.Config{FlushInterval: 10 * time.Millisecond})
	t.Cleanup(notifications.Stop)

	ledger := leavesvc.NewLedgerService(fx.Tx, fx.Ledgers, fx.Employees, leavesvc.LedgerDefaults{
		PLQuota: decimal.NewFromInt(12),
		SLQuota: decimal.NewFromInt(4),
	})
	attendanceService := attendancesvc.NewAttendanceService(fx.Tx, fx.Attendance, fx.Breaks, fx.Employees, notifications, attendancesvc.Options{
		Location: time.UTC,
		Policy:   attendance.PolicyLegacy,
		Now:      clock.Now,
	})
	leaveService := leavesvc.NewLeaveService(fx.Tx, fx.LeaveRequests, fx.Attendance, fx.Holidays, fx.Employees, ledger, notifications, leavesvc.Options{
		Location:            time.UTC,
		Now:                 clock.Now,
		AutoProvisionLedger: true,
	})
	deductionService := payrollsvc.NewDeductionService(fx.LeaveRequests, fx.Employees, ledger)

	jwtService := jwt.NewJWTService("test-secret")
	router := handler.NewRouter(jwtService, handler.Handlers{
		Attendance:   handler.NewAttendanceHandler(attendanceService),
		Leave:        handler.NewLeaveHandler(leaveService, ledger, time.UTC),
		Payroll:      handler.NewPayrollHandler(deductionService),
		Notification: handler.NewNotificationHandler(notifications),
		Holiday:      handler.NewHolidayHandler(fx.Holidays, time.UTC),
	}, handler.RouterOptions{
		Env:            "test",
		AllowedOrigins: []string{"http://localhost:3000"},
		LogOutput:      io.Discard,
	})
	server := httptest.NewServer(router)
	t.Cleanup(server.Close)

	env := &apiEnv{
		fx:      fx,
		server:  server,
		jwt:     jwtService,
		emp:     fx.Employee(t, "EMP-001"),
		manager: fx.Employee(t, "MGR-001"),
	}
	env.empToken = env.token(t, env.emp.ID, employee.RoleEmployee)
	env.mgrToken = env.token(t, env.manager.ID, employee.RoleManager)
	return env
}

func (e *apiEnv) token(t *testing.T, employeeID string, role employee.Role) string {
	t.Helper()
	token, _, err := e.jwt.IssueAccessToken(jwt.Claims{EmployeeID: employeeID, Role: role}, time.Hour)
	require.NoError(t, err)
	return token
}

func (e *apiEnv) do(t *testing.T, method, path, token string, body interface{}) (*http.Response, envelope) {
	t.Helper()
	resp := e.raw(t, method, path, token, body)
	defer resp.Body.Close()

	var env envelope
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&env))
	return resp, env
}

func (e *apiEnv) raw(t *testing.T, method, path, token string, body interface{}) *http.Response {
	t.Helper()
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	}
	req, err := http.NewRequest(method, e.server.URL+path, reader)
	require.NoError(t, err)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := e.server.Client().Do(req)
	require.NoError(t, err)
	return resp
}

func TestRequiresToken(t *testing.T) {
	env := newAPIEnv(t)

	resp := env.raw(t, http.MethodGet, "/api/v1/attendance/today", "", nil)
	resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	forged, _, err := jwt.NewJWTService("other-secret").IssueAccessToken(jwt.Claims{EmployeeID: env.emp.ID}, time.Hour)
	require.NoError(t, err)
	resp = env.raw(t, http.MethodGet, "/api/v1/attendance/today", forged, nil)
	resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestAttendanceFlow(t *testing.T) {
	env := newAPIEnv(t)

	resp, body := env.do(t, http.MethodGet, "/api/v1/attendance/today", env.empToken, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var today attendance.AttendanceResponse
	require.NoError(t, json.Unmarshal(body.Data, &today))
	assert.Equal(t, attendance.StateNotStarted, today.State)

	resp, body = env.do(t, http.MethodPost, "/api/v1/attendance/check-in", env.empToken, nil)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var checkedIn attendance.AttendanceResponse
	require.NoError(t, json.Unmarshal(body.Data, &checkedIn))
	assert.Equal(t, env.emp.ID, checkedIn.EmployeeID)
	assert.Equal(t, "2024-03-04", checkedIn.Date)

	resp, body = env.do(t, http.MethodPost, "/api/v1/attendance/check-in", env.empToken, nil)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	require.NotNil(t, body.Error)
	assert.Equal(t, attendance.ErrAlreadyCheckedIn.Error(), body.Error.Message)

	resp, _ = env.do(t, http.MethodPost, "/api/v1/attendance/breaks/resume", env.empToken, nil)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)

	resp, _ = env.do(t, http.MethodGet, "/api/v1/attendance/"+checkedIn.ID, env.token(t, "someone-else", employee.RoleEmployee), nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp, _ = env.do(t, http.MethodGet, "/api/v1/attendance/"+checkedIn.ID, env.mgrToken, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, _ = env.do(t, http.MethodDelete, "/api/v1/attendance/"+checkedIn.ID, env.empToken, nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestLeaveApprovalFlow(t *testing.T) {
	env := newAPIEnv(t)

	resp, body := env.do(t, http.MethodPost, "/api/v1/leave/requests", env.empToken, map[string]string{
		"leave_type": "privilege",
		"from_date":  "2024-03-08",
		"to_date":    "2024-03-11",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var submitted leave.LeaveRequestResponse
	require.NoError(t, json.Unmarshal(body.Data, &submitted))
	assert.Equal(t, "4.0", submitted.TotalDays)
	assert.True(t, submitted.Sandwich)

	resp, _ = env.do(t, http.MethodPost, "/api/v1/leave/requests/"+submitted.ID+"/approve", env.empToken, nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp, body = env.do(t, http.MethodPost, "/api/v1/leave/requests/"+submitted.ID+"/approve", env.mgrToken, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var approved leave.LeaveRequestResponse
	require.NoError(t, json.Unmarshal(body.Data, &approved))
	assert.Equal(t, leave.LeaveRequestStatusApproved, approved.Status)
	require.NotNil(t, approved.Consumption)
	assert.Equal(t, "3.0", approved.Consumption.PL)
	assert.Equal(t, "1.0", approved.Consumption.LOP)

	resp, _ = env.do(t, http.MethodPost, "/api/v1/leave/requests/"+submitted.ID+"/approve", env.mgrToken, nil)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)

	resp, body = env.do(t, http.MethodGet, "/api/v1/leave/balance?year=2024&month=3", env.empToken, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var balance leave.BalanceResponse
	require.NoError(t, json.Unmarshal(body.Data, &balance))
	assert.Equal(t, "3.0", balance.UsedPL)
	assert.Equal(t, "1.0", balance.UsedLOP)

	resp, body = env.do(t, http.MethodGet, "/api/v1/leave/entries?year=2024", env.empToken, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var entries []leave.LedgerEntryResponse
	require.NoError(t, json.Unmarshal(body.Data, &entries))
	require.Len(t, entries, 1)
	assert.Equal(t, submitted.ID, entries[0].LeaveRequestID)
}

func TestLeaveValidationError(t *testing.T) {
	env := newAPIEnv(t)

	resp, body := env.do(t, http.MethodPost, "/api/v1/leave/requests", env.empToken, map[string]string{
		"leave_type": "vacation",
		"from_date":  "2024-03-08",
	})
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	require.NotNil(t, body.Error)
	assert.Contains(t, body.Error.Details, "leave_type")
}

func TestDayCountEndpoint(t *testing.T) {
	env := newAPIEnv(t)

	resp, body := env.do(t, http.MethodGet, "/api/v1/leave/day-count?from_date=2024-03-08&to_date=2024-03-11", env.empToken, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var count leave.DayCountResponse
	require.NoError(t, json.Unmarshal(body.Data, &count))
	assert.Equal(t, 4, count.Days)
	assert.True(t, count.Sandwich)
}

func TestHolidaysAffectDayCount(t *testing.T) {
	env := newAPIEnv(t)

	resp, _ := env.do(t, http.MethodPost, "/api/v1/holidays", env.empToken, map[string]string{"date": "2024-03-05", "name": "Founders Day"})
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp, _ = env.do(t, http.MethodPost, "/api/v1/holidays", env.mgrToken, map[string]string{"date": "2024-03-05", "name": "Founders Day"})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp, _ = env.do(t, http.MethodPost, "/api/v1/holidays", env.mgrToken, map[string]string{"date": "2024-03-05", "name": "Again"})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)

	resp, body := env.do(t, http.MethodGet, "/api/v1/leave/day-count?from_date=2024-03-04&to_date=2024-03-06", env.empToken, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var count leave.DayCountResponse
	require.NoError(t, json.Unmarshal(body.Data, &count))
	assert.Equal(t, 3, count.Days)
	assert.True(t, count.Sandwich)
}

func TestPayrollDeduction(t *testing.T) {
	env := newAPIEnv(t)
	env.fx.Ledger(t, env.emp.ID, 2024, 12, 4, 4, 4)
	env.fx.LeaveRequest(t, env.emp.ID, leave.LeaveTypePrivilege, "2024-04-08", "2024-04-09", leave.LeaveRequestStatusApproved)

	request := map[string]string{
		"start_date":   "2024-04-01",
		"end_date":     "2024-04-30",
		"basic_salary": "30000",
	}

	resp, body := env.do(t, http.MethodPost, "/api/v1/payroll/deduction", env.empToken, request)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var deduction struct {
		EmployeeID string `json:"employee_id"`
		Deduction  string `json:"deduction"`
	}
	require.NoError(t, json.Unmarshal(body.Data, &deduction))
	assert.Equal(t, env.emp.ID, deduction.EmployeeID)
	assert.Equal(t, "2727.27", deduction.Deduction)

	other := map[string]string{
		"employee_id":  env.manager.ID,
		"start_date":   "2024-04-01",
		"end_date":     "2024-04-30",
		"basic_salary": "30000",
	}
	resp, _ = env.do(t, http.MethodPost, "/api/v1/payroll/deduction", env.empToken, other)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	pdf := env.raw(t, http.MethodPost, "/api/v1/payroll/deduction/statement", env.empToken, request)
	defer pdf.Body.Close()
	require.Equal(t, http.StatusOK, pdf.StatusCode)
	assert.Equal(t, "application/pdf", pdf.Header.Get("Content-Type"))
	content, err := io.ReadAll(pdf.Body)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(content, []byte("%PDF-")))
}

func TestNotificationsForCaller(t *testing.T) {
	env := newAPIEnv(t)

	resp, _ := env.do(t, http.MethodPost, "/api/v1/attendance/check-in", env.empToken, nil)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	require.Eventually(t, func() bool {
		_, body := env.do(t, http.MethodGet, "/api/v1/notifications?unread=true", env.empToken, nil)
		var items []json.RawMessage
		return json.Unmarshal(body.Data, &items) == nil && len(items) == 1
	}, 2*time.Second, 20*time.Millisecond)

	resp, _ = env.do(t, http.MethodPost, "/api/v1/notifications/does-not-exist/read", env.empToken, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}
