package services

import (
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

var strictSanitizer = bluemonday.StrictPolicy()

// SanitizeText strips all markup from user-supplied free text (incident
// descriptions, objection text, hearing minutes) before it is persisted
func SanitizeText(input string) string {
	return strings.TrimSpace(strictSanitizer.Sanitize(input))
}
