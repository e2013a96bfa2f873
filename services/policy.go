package services

import (
	"errors"

	"hr_flow_app_go/models"

	"gorm.io/gorm"
)

// Built-in defaults applied when a company has no policy row
const (
	DefaultIncidentMaxAgeDays   = 30
	DefaultDecisionDeadlineDays = 30
	DefaultObjectionWindowDays  = 15
)

// DisciplinaryPolicy is the resolved, effective policy for a company
type DisciplinaryPolicy struct {
	IncidentMaxAgeDays          int
	DecisionDeadlineDays        int
	ObjectionWindowDays         int
	AllowRetrospectiveIncidents bool
	DeductionBasePolicy         string
}

// ResolvePolicy returns the company's disciplinary policy, falling back to
// the built-in defaults when no override exists. It never fails on a
// missing row; only infrastructure errors propagate.
func ResolvePolicy(db *gorm.DB, companyID string) (DisciplinaryPolicy, error) {
	var row models.CompanyDisciplinaryPolicy
	err := db.Where("company_id = ?", companyID).First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return DefaultPolicy(), nil
		}
		return DisciplinaryPolicy{}, err
	}

	return DisciplinaryPolicy{
		IncidentMaxAgeDays:          row.IncidentMaxAgeDays,
		DecisionDeadlineDays:        row.DecisionDeadlineDays,
		ObjectionWindowDays:         row.ObjectionWindowDays,
		AllowRetrospectiveIncidents: row.AllowRetrospectiveIncidents,
		DeductionBasePolicy:         row.DeductionBasePolicy,
	}, nil
}

// DefaultPolicy returns the built-in policy defaults
func DefaultPolicy() DisciplinaryPolicy {
	return DisciplinaryPolicy{
		IncidentMaxAgeDays:          DefaultIncidentMaxAgeDays,
		DecisionDeadlineDays:        DefaultDecisionDeadlineDays,
		ObjectionWindowDays:         DefaultObjectionWindowDays,
		AllowRetrospectiveIncidents: false,
		DeductionBasePolicy:         models.DeductionBaseBasicFixed,
	}
}
