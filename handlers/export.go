package handlers

import (
	"fmt"
	"log"
	"net/http"

	"hr_flow_app_go/db"
	"hr_flow_app_go/middleware"
	"hr_flow_app_go/services"

	"github.com/labstack/echo/v4"
)

// ExportCaseRegister handles GET /disciplinary/export and streams the
// company case register as an Excel workbook
func ExportCaseRegister(c echo.Context) error {
	user := middleware.GetCurrentUser(c)

	buffer, err := services.GenerateCaseRegister(db.DB, user.CompanyID)
	if err != nil {
		log.Printf("[EXPORT] Failed to generate case register: %v", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to generate case register")
	}

	filename := "case_register.xlsx"
	c.Response().Header().Set(echo.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="%s"`, filename))
	return c.Blob(http.StatusOK,
		"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
		buffer.Bytes())
}

// DecisionLetterHandler generates decision letters for issued decisions
type DecisionLetterHandler struct {
	Service *services.DisciplinaryService
}

func NewDecisionLetterHandler(service *services.DisciplinaryService) *DecisionLetterHandler {
	return &DecisionLetterHandler{Service: service}
}

// DownloadPDF handles GET /disciplinary/cases/:id/decision-letter
func (h *DecisionLetterHandler) DownloadPDF(c echo.Context) error {
	user := middleware.GetCurrentUser(c)

	detail, err := h.Service.GetCaseDetail(c.Param("id"), user.CompanyID, user.ID, user.Role)
	if err != nil {
		return httpError(err)
	}
	if detail.DecisionCreatedAt == nil {
		return echo.NewHTTPError(http.StatusBadRequest, "No decision has been issued for this case")
	}

	pdfBytes, err := services.GenerateDecisionLetterPDF(&detail.DisciplinaryCase, detail.Employee.FullName())
	if err != nil {
		log.Printf("[EXPORT] Failed to generate decision letter: %v", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to generate decision letter")
	}

	filename := fmt.Sprintf("decision_letter_%s.pdf", detail.CaseCode)
	c.Response().Header().Set(echo.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="%s"`, filename))
	return c.Blob(http.StatusOK, "application/pdf", pdfBytes)
}
