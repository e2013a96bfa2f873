package middleware

import (
	"net/http"

	"hr_flow_app_go/config"
	"hr_flow_app_go/db"
	"hr_flow_app_go/models"
	"hr_flow_app_go/services"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"
)

const (
	// SessionCookieName is the name of the session cookie
	SessionCookieName = "hr_flow_session"
	// ContextKeyUser is the context key for the authenticated user
	ContextKeyUser = "user"
	// ContextKeySession is the context key for the session
	ContextKeySession = "session"
)

// Named permissions over the disciplinary workflow. Roles map onto these
// so handlers can ask for a capability instead of enumerating roles.
const (
	PermCaseCreate      = "DISC_CASE_CREATE"
	PermCaseView        = "DISC_CASE_VIEW"
	PermHRReview        = "DISC_HR_REVIEW"
	PermHRDecision      = "DISC_HR_DECISION"
	PermHRFinalize      = "DISC_HR_FINALIZE"
	PermEmployeeRespond = "DISC_EMPLOYEE_RESPOND"
	PermLegalHoldToggle = "DISC_LEGAL_HOLD_TOGGLE"
	PermCaseExport      = "DISC_CASE_EXPORT"
)

// rolePermissions maps each role to the permissions it carries.
var rolePermissions = map[string][]string{
	models.RoleEmployee: {PermCaseView, PermEmployeeRespond},
	models.RoleManager:  {PermCaseCreate, PermCaseView},
	models.RoleHR: {
		PermCaseCreate, PermCaseView, PermHRReview, PermHRDecision,
		PermHRFinalize, PermEmployeeRespond, PermLegalHoldToggle, PermCaseExport,
	},
	models.RoleAdmin: {
		PermCaseCreate, PermCaseView, PermHRReview, PermHRDecision,
		PermHRFinalize, PermEmployeeRespond, PermLegalHoldToggle, PermCaseExport,
	},
}

// HasPermission reports whether a role carries a named permission.
func HasPermission(role, permission string) bool {
	for _, p := range rolePermissions[role] {
		if p == permission {
			return true
		}
	}
	return false
}

// RequireAuth is middleware that requires authentication
func RequireAuth() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			cookie, err := c.Cookie(SessionCookieName)
			if err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "Not authenticated")
			}

			session, err := services.ValidateSession(db.DB, cookie.Value)
			if err != nil {
				clearSessionCookie(c)
				return echo.NewHTTPError(http.StatusUnauthorized, "Invalid or expired session")
			}

			if !session.User.IsActive {
				clearSessionCookie(c)
				return echo.NewHTTPError(http.StatusUnauthorized, "Account disabled")
			}

			c.Set(ContextKeyUser, &session.User)
			c.Set(ContextKeySession, session)

			return next(c)
		}
	}
}

// RequireRole is middleware that requires specific roles
func RequireRole(roles ...string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			user := GetCurrentUser(c)
			if user == nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "Not authenticated")
			}

			for _, role := range roles {
				if user.Role == role {
					return next(c)
				}
			}

			return echo.NewHTTPError(http.StatusForbidden, "Insufficient permissions")
		}
	}
}

// RequirePermission is middleware that requires a named permission
func RequirePermission(permission string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			user := GetCurrentUser(c)
			if user == nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "Not authenticated")
			}

			if !HasPermission(user.Role, permission) {
				return echo.NewHTTPError(http.StatusForbidden, "Insufficient permissions")
			}

			return next(c)
		}
	}
}

// GetCurrentUser retrieves the current user from context
func GetCurrentUser(c echo.Context) *models.User {
	user, ok := c.Get(ContextKeyUser).(*models.User)
	if !ok {
		return nil
	}
	return user
}

// clearSessionCookie clears the session cookie
func clearSessionCookie(c echo.Context) {
	var isProduction bool
	if cfg, ok := c.Get("config").(*config.Config); ok {
		isProduction = cfg.Environment == "production"
	}

	cookie := &http.Cookie{
		Name:     SessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   isProduction,
		SameSite: http.SameSiteLaxMode,
	}
	c.SetCookie(cookie)
}

// GetCompanyScopedQuery returns a GORM query scoped to the current user's company
func GetCompanyScopedQuery(c echo.Context, db *gorm.DB) *gorm.DB {
	currentUser := GetCurrentUser(c)
	if currentUser == nil || currentUser.CompanyID == "" {
		// Return query that matches nothing
		return db.Where("1 = 0")
	}

	return db.Where("company_id = ?", currentUser.CompanyID)
}

// CanAccessCase checks whether the current user may read a given case.
// HR and admins see every case in their company, managers see the cases
// they reported, employees see cases opened against them.
func CanAccessCase(user *models.User, dc *models.DisciplinaryCase) bool {
	if user == nil || dc == nil {
		return false
	}
	if user.CompanyID != dc.CompanyID {
		return false
	}
	if user.IsHR() {
		return true
	}
	if dc.EmployeeID == user.ID {
		return true
	}
	return dc.ManagerID == user.ID
}
