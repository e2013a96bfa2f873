package handlers

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"hr_flow_app_go/db"
	"hr_flow_app_go/middleware"
	"hr_flow_app_go/models"
	"hr_flow_app_go/services"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupTestDB(t *testing.T) *gorm.DB {
	testDB, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	err = testDB.AutoMigrate(
		&models.Company{},
		&models.User{},
		&models.Session{},
		&models.CompanyDisciplinaryPolicy{},
		&models.DisciplinaryCase{},
		&models.CaseEvent{},
		&models.CaseMinute{},
		&models.CaseAttachment{},
		&models.EmployeeDisciplinaryRecord{},
		&models.PayrollPeriod{},
		&models.PayrollAdjustment{},
		&models.Notification{},
	)
	require.NoError(t, err)

	// Set global DB used by export handlers
	db.DB = testDB
	return testDB
}

func setupEcho(method, path string, body io.Reader) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	req := httptest.NewRequest(method, path, body)
	if body != nil {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

type handlerFixture struct {
	db       *gorm.DB
	handler  *DisciplinaryHandler
	company  models.Company
	manager  models.User
	hr       models.User
	employee models.User
}

func newHandlerFixture(t *testing.T) *handlerFixture {
	testDB := setupTestDB(t)

	f := &handlerFixture{
		db:      testDB,
		handler: NewDisciplinaryHandler(services.NewDisciplinaryService(testDB, nil, nil)),
	}

	f.company = models.Company{Name: "Acme Corp"}
	require.NoError(t, testDB.Create(&f.company).Error)

	f.manager = models.User{FirstName: "Mona", LastName: "Manager", Email: "mona@acme.test", Password: "x", CompanyID: f.company.ID, Role: models.RoleManager, IsActive: true}
	f.hr = models.User{FirstName: "Hank", LastName: "Human", Email: "hank@acme.test", Password: "x", CompanyID: f.company.ID, Role: models.RoleHR, IsActive: true}
	f.employee = models.User{FirstName: "Eve", LastName: "Employee", Email: "eve@acme.test", Password: "x", CompanyID: f.company.ID, Role: models.RoleEmployee, IsActive: true}
	require.NoError(t, testDB.Create(&f.manager).Error)
	require.NoError(t, testDB.Create(&f.hr).Error)
	require.NoError(t, testDB.Create(&f.employee).Error)

	return f
}

func (f *handlerFixture) asUser(c echo.Context, user *models.User) {
	c.Set(middleware.ContextKeyUser, user)
}

func TestCreateCaseHandler(t *testing.T) {
	f := newHandlerFixture(t)
	incidentDate := time.Now().Add(-48 * time.Hour).Format("2006-01-02")

	t.Run("success", func(t *testing.T) {
		body := `{"employee_id":"` + f.employee.ID + `","incident_date":"` + incidentDate + `","description":"Left the site unattended"}`
		c, rec := setupEcho(http.MethodPost, "/api/disciplinary/cases", strings.NewReader(body))
		f.asUser(c, &f.manager)

		require.NoError(t, f.handler.CreateCase(c))
		assert.Equal(t, http.StatusCreated, rec.Code)

		var created models.DisciplinaryCase
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
		assert.Equal(t, models.CaseStatusSubmittedToHR, created.Status)
		assert.Equal(t, f.manager.ID, created.ManagerID)
		assert.NotEmpty(t, created.CaseCode)
	})

	t.Run("missing fields", func(t *testing.T) {
		c, _ := setupEcho(http.MethodPost, "/api/disciplinary/cases", strings.NewReader(`{}`))
		f.asUser(c, &f.manager)

		err := f.handler.CreateCase(c)
		httpErr, ok := err.(*echo.HTTPError)
		require.True(t, ok)
		assert.Equal(t, http.StatusBadRequest, httpErr.Code)
	})

	t.Run("invalid date", func(t *testing.T) {
		body := `{"employee_id":"` + f.employee.ID + `","incident_date":"03/05/2026","description":"x"}`
		c, _ := setupEcho(http.MethodPost, "/api/disciplinary/cases", strings.NewReader(body))
		f.asUser(c, &f.manager)

		err := f.handler.CreateCase(c)
		httpErr, ok := err.(*echo.HTTPError)
		require.True(t, ok)
		assert.Equal(t, http.StatusBadRequest, httpErr.Code)
	})
}

func TestGetCaseHandlerNotFound(t *testing.T) {
	f := newHandlerFixture(t)

	c, _ := setupEcho(http.MethodGet, "/", nil)
	c.SetParamNames("id")
	c.SetParamValues("does-not-exist")
	f.asUser(c, &f.hr)

	err := f.handler.GetCase(c)
	httpErr, ok := err.(*echo.HTTPError)
	require.True(t, ok)
	assert.Equal(t, http.StatusNotFound, httpErr.Code)
}

func TestListCasesHandlerScoping(t *testing.T) {
	f := newHandlerFixture(t)

	// One case reported by the fixture manager
	svc := f.handler.Service
	created, err := svc.CreateCase(f.manager.ID, f.company.ID, services.CreateCaseInput{
		EmployeeID:   f.employee.ID,
		IncidentDate: time.Now().Add(-24 * time.Hour),
		Description:  "incident",
	})
	require.NoError(t, err)

	t.Run("employee sees own case", func(t *testing.T) {
		c, rec := setupEcho(http.MethodGet, "/api/disciplinary/cases", nil)
		f.asUser(c, &f.employee)

		require.NoError(t, f.handler.ListCases(c))
		var cases []models.DisciplinaryCase
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &cases))
		require.Len(t, cases, 1)
		assert.Equal(t, created.ID, cases[0].ID)
	})

	t.Run("hr sees company-wide", func(t *testing.T) {
		c, rec := setupEcho(http.MethodGet, "/api/disciplinary/cases", nil)
		f.asUser(c, &f.hr)

		require.NoError(t, f.handler.ListCases(c))
		var cases []models.DisciplinaryCase
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &cases))
		assert.Len(t, cases, 1)
	})
}

func TestWorkflowErrorMapping(t *testing.T) {
	f := newHandlerFixture(t)

	created, err := f.handler.Service.CreateCase(f.manager.ID, f.company.ID, services.CreateCaseInput{
		EmployeeID:   f.employee.ID,
		IncidentDate: time.Now().Add(-24 * time.Hour),
		Description:  "incident",
	})
	require.NoError(t, err)

	// Issuing a decision on a freshly submitted case violates the workflow
	body := `{"decision_type":"NOTICE"}`
	c, _ := setupEcho(http.MethodPost, "/", strings.NewReader(body))
	c.SetParamNames("id")
	c.SetParamValues(created.ID)
	f.asUser(c, &f.hr)

	err = f.handler.IssueDecision(c)
	httpErr, ok := err.(*echo.HTTPError)
	require.True(t, ok)
	assert.Equal(t, http.StatusBadRequest, httpErr.Code)
	assert.Contains(t, httpErr.Message, "official investigation")
}

func TestCreateAttachmentHandler(t *testing.T) {
	f := newHandlerFixture(t)

	created, err := f.handler.Service.CreateCase(f.manager.ID, f.company.ID, services.CreateCaseInput{
		EmployeeID:   f.employee.ID,
		IncidentDate: time.Now().Add(-24 * time.Hour),
		Description:  "incident",
	})
	require.NoError(t, err)

	t.Run("success", func(t *testing.T) {
		body := `{"file_url":"/uploads/evidence.pdf","file_name":"evidence.pdf","file_type":"application/pdf"}`
		c, rec := setupEcho(http.MethodPost, "/", strings.NewReader(body))
		c.SetParamNames("id")
		c.SetParamValues(created.ID)
		f.asUser(c, &f.manager)

		require.NoError(t, f.handler.CreateAttachment(c))
		assert.Equal(t, http.StatusCreated, rec.Code)

		var attachment models.CaseAttachment
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &attachment))
		assert.Equal(t, created.ID, attachment.CaseID)
		assert.Equal(t, f.manager.ID, attachment.UploaderUserID)
		assert.Equal(t, "evidence.pdf", attachment.FileName)
	})

	t.Run("missing metadata", func(t *testing.T) {
		c, _ := setupEcho(http.MethodPost, "/", strings.NewReader(`{"file_type":"application/pdf"}`))
		c.SetParamNames("id")
		c.SetParamValues(created.ID)
		f.asUser(c, &f.manager)

		err := f.handler.CreateAttachment(c)
		httpErr, ok := err.(*echo.HTTPError)
		require.True(t, ok)
		assert.Equal(t, http.StatusBadRequest, httpErr.Code)
	})

	t.Run("unknown case", func(t *testing.T) {
		body := `{"file_url":"/uploads/evidence.pdf","file_name":"evidence.pdf"}`
		c, _ := setupEcho(http.MethodPost, "/", strings.NewReader(body))
		c.SetParamNames("id")
		c.SetParamValues("does-not-exist")
		f.asUser(c, &f.manager)

		err := f.handler.CreateAttachment(c)
		httpErr, ok := err.(*echo.HTTPError)
		require.True(t, ok)
		assert.Equal(t, http.StatusNotFound, httpErr.Code)
	})
}

func TestListPayrollPeriodsHandler(t *testing.T) {
	f := newHandlerFixture(t)

	otherCompany := models.Company{Name: "Other Corp"}
	require.NoError(t, f.db.Create(&otherCompany).Error)

	lockedAt := time.Now()
	open := models.PayrollPeriod{CompanyID: f.company.ID, Name: "March", StartDate: time.Now().AddDate(0, 0, -30), EndDate: time.Now()}
	locked := models.PayrollPeriod{CompanyID: f.company.ID, Name: "February", StartDate: time.Now().AddDate(0, 0, -60), EndDate: time.Now().AddDate(0, 0, -30), Status: models.PayrollPeriodLocked, LockedAt: &lockedAt}
	foreign := models.PayrollPeriod{CompanyID: otherCompany.ID, Name: "March", StartDate: time.Now().AddDate(0, 0, -30), EndDate: time.Now()}
	require.NoError(t, f.db.Create(&open).Error)
	require.NoError(t, f.db.Create(&locked).Error)
	require.NoError(t, f.db.Create(&foreign).Error)

	c, rec := setupEcho(http.MethodGet, "/api/disciplinary/payroll-periods", nil)
	f.asUser(c, &f.hr)

	require.NoError(t, f.handler.ListPayrollPeriods(c))
	assert.Equal(t, http.StatusOK, rec.Code)

	// Only the caller's company's open periods come back
	var periods []models.PayrollPeriod
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &periods))
	require.Len(t, periods, 1)
	assert.Equal(t, open.ID, periods[0].ID)
}

func TestToggleLegalHoldHandler(t *testing.T) {
	f := newHandlerFixture(t)

	created, err := f.handler.Service.CreateCase(f.manager.ID, f.company.ID, services.CreateCaseInput{
		EmployeeID:   f.employee.ID,
		IncidentDate: time.Now().Add(-24 * time.Hour),
		Description:  "incident",
	})
	require.NoError(t, err)

	c, rec := setupEcho(http.MethodPost, "/", strings.NewReader(`{"hold":true}`))
	c.SetParamNames("id")
	c.SetParamValues(created.ID)
	f.asUser(c, &f.hr)

	require.NoError(t, f.handler.ToggleLegalHold(c))
	assert.Equal(t, http.StatusOK, rec.Code)

	var updated models.DisciplinaryCase
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &updated))
	assert.True(t, updated.LegalHold)
}
