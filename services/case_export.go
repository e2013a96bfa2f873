package services

import (
	"bytes"
	"fmt"

	"hr_flow_app_go/models"

	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"
)

// GenerateCaseRegister exports a company's disciplinary case register as an
// Excel workbook: one row per case with its workflow position and outcome.
func GenerateCaseRegister(db *gorm.DB, companyID string) (*bytes.Buffer, error) {
	var cases []models.DisciplinaryCase
	if err := db.Where("company_id = ?", companyID).
		Preload("Employee").
		Preload("Manager").
		Order("created_at ASC").
		Find(&cases).Error; err != nil {
		return nil, fmt.Errorf("failed to load cases: %w", err)
	}

	f := excelize.NewFile()
	defer f.Close()

	sheet := "Case Register"
	f.SetSheetName("Sheet1", sheet)

	headers := []string{
		"Case Code", "Employee", "Employee Code", "Manager", "Status", "Stage",
		"Incident Date", "Retrospective", "Decision", "Penalty", "Legal Hold", "Finalized At",
	}
	headerStyle, _ := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	for i, header := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheet, cell, header)
		f.SetCellStyle(sheet, cell, cell, headerStyle)
	}

	for rowIdx, c := range cases {
		row := rowIdx + 2

		penalty := ""
		if c.PenaltyValue != nil {
			penalty = fmt.Sprintf("%s %s", c.PenaltyValue.String(), c.PenaltyUnit)
		}
		finalizedAt := ""
		if c.FinalizedAt != nil {
			finalizedAt = c.FinalizedAt.Format("2006-01-02")
		}
		retrospective := "No"
		if c.IsRetrospective {
			retrospective = "Yes"
		}
		legalHold := "No"
		if c.LegalHold {
			legalHold = "Yes"
		}

		values := []interface{}{
			c.CaseCode,
			c.Employee.FullName(),
			c.Employee.EmployeeCode,
			c.Manager.FullName(),
			c.Status,
			c.Stage,
			c.IncidentDate.Format("2006-01-02"),
			retrospective,
			c.DecisionType,
			penalty,
			legalHold,
			finalizedAt,
		}
		for i, value := range values {
			cell, _ := excelize.CoordinatesToCellName(i+1, row)
			f.SetCellValue(sheet, cell, value)
		}
	}

	// Reasonable default widths for the identifying columns
	f.SetColWidth(sheet, "A", "A", 14)
	f.SetColWidth(sheet, "B", "D", 22)
	f.SetColWidth(sheet, "E", "F", 26)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to write workbook: %w", err)
	}
	return buf, nil
}
