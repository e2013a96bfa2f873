package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"hr_flow_app_go/db"
	"hr_flow_app_go/middleware"
	"hr_flow_app_go/models"
	"hr_flow_app_go/services"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
)

// DisciplinaryHandler exposes the disciplinary case workflow over HTTP.
// It only translates requests; every rule lives in the service.
type DisciplinaryHandler struct {
	Service *services.DisciplinaryService
}

func NewDisciplinaryHandler(service *services.DisciplinaryService) *DisciplinaryHandler {
	return &DisciplinaryHandler{Service: service}
}

// httpError maps workflow errors onto HTTP status codes
func httpError(err error) error {
	switch {
	case errors.Is(err, services.ErrCaseNotFound),
		errors.Is(err, services.ErrPayrollPeriodNotFound):
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	case errors.Is(err, services.ErrNotCaseEmployee):
		return echo.NewHTTPError(http.StatusForbidden, err.Error())
	case errors.Is(err, services.ErrEmployeeNotInCompany),
		errors.Is(err, services.ErrIncidentTooOld),
		errors.Is(err, services.ErrRetrospectiveReasonRequired),
		errors.Is(err, services.ErrNotInInitialReview),
		errors.Is(err, services.ErrNoInformalAction),
		errors.Is(err, services.ErrNotInOfficialInvestigation),
		errors.Is(err, services.ErrDecisionDeadlinePassed),
		errors.Is(err, services.ErrPayrollPeriodLocked),
		errors.Is(err, services.ErrPriorWarningsRequired),
		errors.Is(err, services.ErrSuspensionOutOfRange),
		errors.Is(err, services.ErrNoDecisionToRespond),
		errors.Is(err, services.ErrObjectionWindowClosed),
		errors.Is(err, services.ErrObjectionTextRequired),
		errors.Is(err, services.ErrNotAwaitingObjection),
		errors.Is(err, services.ErrLegalHoldActive),
		errors.Is(err, services.ErrPayrollPeriodRequired),
		errors.Is(err, services.ErrHearingNotAllowed),
		errors.Is(err, services.ErrMinutesNotAllowed),
		errors.Is(err, services.ErrInvalidAction):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return echo.NewHTTPError(http.StatusInternalServerError, "Internal server error")
}

type createCaseRequest struct {
	EmployeeID          string `json:"employee_id" form:"employee_id"`
	Title               string `json:"title" form:"title"`
	IncidentDate        string `json:"incident_date" form:"incident_date"`
	IncidentLocation    string `json:"incident_location" form:"incident_location"`
	InvolvedParties     string `json:"involved_parties" form:"involved_parties"`
	Description         string `json:"description" form:"description"`
	RetrospectiveReason string `json:"retrospective_reason" form:"retrospective_reason"`
}

// CreateCase handles POST /disciplinary/cases
func (h *DisciplinaryHandler) CreateCase(c echo.Context) error {
	user := middleware.GetCurrentUser(c)

	var req createCaseRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request")
	}

	if req.EmployeeID == "" || req.Description == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "Employee and description are required")
	}

	incidentDate, err := services.ParseDate(req.IncidentDate)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid incident date")
	}

	created, err := h.Service.CreateCase(user.ID, user.CompanyID, services.CreateCaseInput{
		EmployeeID:          req.EmployeeID,
		Title:               req.Title,
		IncidentDate:        incidentDate,
		IncidentLocation:    req.IncidentLocation,
		InvolvedParties:     req.InvolvedParties,
		Description:         req.Description,
		RetrospectiveReason: req.RetrospectiveReason,
	})
	if err != nil {
		return httpError(err)
	}

	return c.JSON(http.StatusCreated, created)
}

// ListCases handles GET /disciplinary/cases
func (h *DisciplinaryHandler) ListCases(c echo.Context) error {
	user := middleware.GetCurrentUser(c)

	// HR may narrow the listing to a role view; other users always get
	// their own scope regardless of the query parameter
	role := user.Role
	if user.IsHR() {
		if requested := c.QueryParam("role"); requested != "" {
			role = requested
		} else {
			role = models.RoleHR
		}
	}

	cases, err := h.Service.GetCasesForRole(user.ID, user.CompanyID, role)
	if err != nil {
		return httpError(err)
	}

	return c.JSON(http.StatusOK, cases)
}

// GetCase handles GET /disciplinary/cases/:id
func (h *DisciplinaryHandler) GetCase(c echo.Context) error {
	user := middleware.GetCurrentUser(c)

	detail, err := h.Service.GetCaseDetail(c.Param("id"), user.CompanyID, user.ID, user.Role)
	if err != nil {
		return httpError(err)
	}

	return c.JSON(http.StatusOK, detail)
}

type hrReviewRequest struct {
	Action          string `json:"action" form:"action"`
	Reason          string `json:"reason" form:"reason"`
	HearingDatetime string `json:"hearing_datetime" form:"hearing_datetime"`
	HearingLocation string `json:"hearing_location" form:"hearing_location"`
}

// HRReview handles POST /disciplinary/cases/:id/hr-review
func (h *DisciplinaryHandler) HRReview(c echo.Context) error {
	user := middleware.GetCurrentUser(c)

	var req hrReviewRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request")
	}

	input := services.HRReviewInput{
		Action:          req.Action,
		Reason:          req.Reason,
		HearingLocation: req.HearingLocation,
	}
	if req.HearingDatetime != "" {
		hearingAt, err := services.ParseDateTime(req.HearingDatetime)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "Invalid hearing datetime")
		}
		input.HearingDatetime = &hearingAt
	}

	updated, err := h.Service.HRInitialReview(c.Param("id"), user.ID, user.CompanyID, input)
	if err != nil {
		return httpError(err)
	}

	return c.JSON(http.StatusOK, updated)
}

type employeeResponseRequest struct {
	Action        string `json:"action" form:"action"`
	Comment       string `json:"comment" form:"comment"`
	ObjectionText string `json:"objection_text" form:"objection_text"`
}

// EmployeeInformalResponse handles POST /disciplinary/cases/:id/employee-informal-response
func (h *DisciplinaryHandler) EmployeeInformalResponse(c echo.Context) error {
	user := middleware.GetCurrentUser(c)

	var req employeeResponseRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request")
	}

	updated, err := h.Service.EmployeeInformalResponse(c.Param("id"), user.ID, user.CompanyID, services.EmployeeResponseInput{
		Action:  req.Action,
		Comment: req.Comment,
	})
	if err != nil {
		return httpError(err)
	}

	return c.JSON(http.StatusOK, updated)
}

type issueDecisionRequest struct {
	DecisionType         string `json:"decision_type" form:"decision_type"`
	DecisionReason       string `json:"decision_reason" form:"decision_reason"`
	PenaltyUnit          string `json:"penalty_unit" form:"penalty_unit"`
	PenaltyValue         string `json:"penalty_value" form:"penalty_value"`
	PenaltyEffectiveDate string `json:"penalty_effective_date" form:"penalty_effective_date"`
	PayrollPeriodID      string `json:"payroll_period_id" form:"payroll_period_id"`
}

// IssueDecision handles POST /disciplinary/cases/:id/decision
func (h *DisciplinaryHandler) IssueDecision(c echo.Context) error {
	user := middleware.GetCurrentUser(c)

	var req issueDecisionRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request")
	}

	if req.DecisionType == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "Decision type is required")
	}

	input := services.IssueDecisionInput{
		DecisionType:    req.DecisionType,
		DecisionReason:  req.DecisionReason,
		PenaltyUnit:     req.PenaltyUnit,
		PayrollPeriodID: req.PayrollPeriodID,
	}

	if req.PenaltyValue != "" {
		value, err := decimal.NewFromString(req.PenaltyValue)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "Invalid penalty value")
		}
		input.PenaltyValue = &value
	}
	if req.PenaltyEffectiveDate != "" {
		effectiveDate, err := services.ParseDate(req.PenaltyEffectiveDate)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "Invalid penalty effective date")
		}
		input.PenaltyEffectiveDate = &effectiveDate
	}

	updated, err := h.Service.IssueDecision(c.Param("id"), user.ID, user.CompanyID, input)
	if err != nil {
		return httpError(err)
	}

	return c.JSON(http.StatusOK, updated)
}

// EmployeeDecisionResponse handles POST /disciplinary/cases/:id/employee-decision-response
func (h *DisciplinaryHandler) EmployeeDecisionResponse(c echo.Context) error {
	user := middleware.GetCurrentUser(c)

	var req employeeResponseRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request")
	}

	updated, err := h.Service.EmployeeDecisionResponse(c.Param("id"), user.ID, user.CompanyID, services.EmployeeResponseInput{
		Action:        req.Action,
		Comment:       req.Comment,
		ObjectionText: req.ObjectionText,
	})
	if err != nil {
		return httpError(err)
	}

	return c.JSON(http.StatusOK, updated)
}

type objectionReviewRequest struct {
	Action string `json:"action" form:"action"`
	Reason string `json:"reason" form:"reason"`
}

// ObjectionReview handles POST /disciplinary/cases/:id/objection-review
func (h *DisciplinaryHandler) ObjectionReview(c echo.Context) error {
	user := middleware.GetCurrentUser(c)

	var req objectionReviewRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request")
	}

	updated, err := h.Service.ObjectionReview(c.Param("id"), user.ID, user.CompanyID, services.ObjectionReviewInput{
		Action: req.Action,
		Reason: req.Reason,
	})
	if err != nil {
		return httpError(err)
	}

	return c.JSON(http.StatusOK, updated)
}

// Finalize handles POST /disciplinary/cases/:id/finalize
func (h *DisciplinaryHandler) Finalize(c echo.Context) error {
	user := middleware.GetCurrentUser(c)

	updated, err := h.Service.FinalizeCase(c.Param("id"), user.ID, user.CompanyID)
	if err != nil {
		return httpError(err)
	}

	return c.JSON(http.StatusOK, updated)
}

type toggleHoldRequest struct {
	Hold bool `json:"hold" form:"hold"`
}

// ToggleLegalHold handles POST /disciplinary/cases/:id/toggle-hold
func (h *DisciplinaryHandler) ToggleLegalHold(c echo.Context) error {
	user := middleware.GetCurrentUser(c)

	var req toggleHoldRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request")
	}

	updated, err := h.Service.ToggleLegalHold(c.Param("id"), user.ID, user.CompanyID, req.Hold)
	if err != nil {
		return httpError(err)
	}

	return c.JSON(http.StatusOK, updated)
}

type scheduleHearingRequest struct {
	HearingDatetime string `json:"hearing_datetime" form:"hearing_datetime"`
	HearingLocation string `json:"hearing_location" form:"hearing_location"`
}

// ScheduleHearing handles POST /disciplinary/cases/:id/schedule-hearing
func (h *DisciplinaryHandler) ScheduleHearing(c echo.Context) error {
	user := middleware.GetCurrentUser(c)

	var req scheduleHearingRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request")
	}

	hearingAt, err := services.ParseDateTime(req.HearingDatetime)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid hearing datetime")
	}

	updated, err := h.Service.ScheduleHearing(c.Param("id"), user.ID, user.CompanyID, services.ScheduleHearingInput{
		HearingDatetime: hearingAt,
		HearingLocation: req.HearingLocation,
	})
	if err != nil {
		return httpError(err)
	}

	return c.JSON(http.StatusOK, updated)
}

type uploadMinutesRequest struct {
	SessionNo      string `json:"session_no" form:"session_no"`
	MinutesText    string `json:"minutes_text" form:"minutes_text"`
	MinutesFileURL string `json:"minutes_file_url" form:"minutes_file_url"`
}

// UploadMinutes handles POST /disciplinary/cases/:id/minutes
func (h *DisciplinaryHandler) UploadMinutes(c echo.Context) error {
	user := middleware.GetCurrentUser(c)

	var req uploadMinutesRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request")
	}

	sessionNo := 1
	if req.SessionNo != "" {
		parsed, err := strconv.Atoi(req.SessionNo)
		if err != nil || parsed < 1 {
			return echo.NewHTTPError(http.StatusBadRequest, "Invalid session number")
		}
		sessionNo = parsed
	}

	minute, err := h.Service.UploadMinutes(c.Param("id"), user.ID, user.CompanyID, services.UploadMinutesInput{
		SessionNo:      sessionNo,
		MinutesText:    req.MinutesText,
		MinutesFileURL: req.MinutesFileURL,
	})
	if err != nil {
		return httpError(err)
	}

	return c.JSON(http.StatusCreated, minute)
}

// ListPayrollPeriods handles GET /disciplinary/payroll-periods. HR picks an
// open period here when issuing a monetary decision.
func (h *DisciplinaryHandler) ListPayrollPeriods(c echo.Context) error {
	var periods []models.PayrollPeriod
	query := middleware.GetCompanyScopedQuery(c, db.DB.Model(&models.PayrollPeriod{}))
	if err := query.Where("status = ? AND locked_at IS NULL", models.PayrollPeriodOpen).
		Order("start_date DESC").Find(&periods).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Internal server error")
	}

	return c.JSON(http.StatusOK, periods)
}

type createAttachmentRequest struct {
	FileURL  string `json:"file_url" form:"file_url"`
	FileName string `json:"file_name" form:"file_name"`
	FileType string `json:"file_type" form:"file_type"`
}

// CreateAttachment handles POST /disciplinary/cases/:id/attachments. It
// records a reference to an already stored file, no upload happens here.
func (h *DisciplinaryHandler) CreateAttachment(c echo.Context) error {
	user := middleware.GetCurrentUser(c)

	var req createAttachmentRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request")
	}

	if req.FileURL == "" || req.FileName == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "File URL and file name are required")
	}

	attachment, err := h.Service.UploadAttachment(c.Param("id"), user.ID, user.CompanyID, req.FileURL, req.FileName, req.FileType)
	if err != nil {
		return httpError(err)
	}

	return c.JSON(http.StatusCreated, attachment)
}

// UploadFiles handles POST /disciplinary/cases/:id/upload-files
func (h *DisciplinaryHandler) UploadFiles(c echo.Context) error {
	user := middleware.GetCurrentUser(c)

	form, err := c.MultipartForm()
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid multipart form")
	}
	files := form.File["files"]
	if len(files) == 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "No files provided")
	}

	attachments, err := h.Service.UploadFiles(c.Request().Context(), c.Param("id"), user.ID, user.CompanyID, files)
	if err != nil {
		return httpError(err)
	}

	return c.JSON(http.StatusCreated, attachments)
}
