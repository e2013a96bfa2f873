package services

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"os"

	"hr_flow_app_go/models"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
)

// getChromePath returns the Chrome executable path from environment variable
func getChromePath() string {
	return os.Getenv("CHROME_PATH")
}

// PDFOptions contains options for PDF generation
type PDFOptions struct {
	PageOrientation string // portrait, landscape
	PageSize        string // letter, legal, A4
	MarginTop       int    // points (72 = 1 inch)
	MarginBottom    int
	MarginLeft      int
	MarginRight     int
}

// DefaultPDFOptions returns default options for decision letters
func DefaultPDFOptions() PDFOptions {
	return PDFOptions{
		PageOrientation: "portrait",
		PageSize:        "A4",
		MarginTop:       72,
		MarginBottom:    72,
		MarginLeft:      72,
		MarginRight:     72,
	}
}

var decisionLetterTemplate = template.Must(template.New("decision_letter").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<style>
  body { font-family: Georgia, serif; font-size: 12pt; color: #1a1a1a; }
  h1 { font-size: 16pt; text-align: center; }
  .meta { margin: 24px 0; }
  .meta td { padding: 4px 12px 4px 0; }
  .reason { margin-top: 24px; white-space: pre-wrap; }
  .footer { margin-top: 48px; font-size: 10pt; color: #555; }
</style>
</head>
<body>
  <h1>Disciplinary Decision — {{.CaseCode}}</h1>
  <table class="meta">
    <tr><td>Employee</td><td>{{.EmployeeName}}</td></tr>
    <tr><td>Decision</td><td>{{.DecisionType}}</td></tr>
    {{if .Penalty}}<tr><td>Penalty</td><td>{{.Penalty}}</td></tr>{{end}}
    {{if .EffectiveDate}}<tr><td>Effective date</td><td>{{.EffectiveDate}}</td></tr>{{end}}
    <tr><td>Issued at</td><td>{{.IssuedAt}}</td></tr>
  </table>
  <div class="reason">{{.DecisionReason}}</div>
  <div class="footer">An objection may be submitted within {{.ObjectionWindowDays}} days of issuance.</div>
</body>
</html>`))

// RenderDecisionLetterHTML renders the decision letter for an issued decision
func RenderDecisionLetterHTML(disciplinaryCase *models.DisciplinaryCase, employeeName string) (string, error) {
	if disciplinaryCase.DecisionCreatedAt == nil {
		return "", fmt.Errorf("case %s has no issued decision", disciplinaryCase.CaseCode)
	}

	penalty := ""
	if disciplinaryCase.PenaltyValue != nil {
		penalty = fmt.Sprintf("%s %s", disciplinaryCase.PenaltyValue.String(), disciplinaryCase.PenaltyUnit)
	}
	effectiveDate := ""
	if disciplinaryCase.PenaltyEffectiveDate != nil {
		effectiveDate = disciplinaryCase.PenaltyEffectiveDate.Format("2006-01-02")
	}

	data := map[string]interface{}{
		"CaseCode":            disciplinaryCase.CaseCode,
		"EmployeeName":        employeeName,
		"DecisionType":        disciplinaryCase.DecisionType,
		"DecisionReason":      disciplinaryCase.DecisionReason,
		"Penalty":             penalty,
		"EffectiveDate":       effectiveDate,
		"IssuedAt":            disciplinaryCase.DecisionCreatedAt.Format("2006-01-02"),
		"ObjectionWindowDays": disciplinaryCase.ObjectionWindowDaysSnapshot,
	}

	var buf bytes.Buffer
	if err := decisionLetterTemplate.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to render decision letter: %w", err)
	}
	return buf.String(), nil
}

// GenerateDecisionLetterPDF renders the decision letter for a case to PDF
func GenerateDecisionLetterPDF(disciplinaryCase *models.DisciplinaryCase, employeeName string) ([]byte, error) {
	html, err := RenderDecisionLetterHTML(disciplinaryCase, employeeName)
	if err != nil {
		return nil, err
	}
	return GeneratePDF(html, DefaultPDFOptions())
}

// GeneratePDF renders HTML content to PDF using headless Chrome
func GeneratePDF(htmlContent string, options PDFOptions) ([]byte, error) {
	// Configure Chrome executable path from environment or default
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.NoSandbox,
		chromedp.DisableGPU,
	)

	// Check for custom Chrome path (for headless-shell in Docker)
	if chromePath := getChromePath(); chromePath != "" {
		opts = append(opts, chromedp.ExecPath(chromePath))
	}

	allocCtx, allocCancel := chromedp.NewExecAllocator(context.Background(), opts...)
	defer allocCancel()

	// Create a new browser context
	ctx, cancel := chromedp.NewContext(allocCtx)
	defer cancel()

	// Set up page dimensions based on options
	var paperWidth, paperHeight float64
	switch options.PageSize {
	case "legal":
		paperWidth = 8.5
		paperHeight = 14.0
	case "A4":
		paperWidth = 8.27
		paperHeight = 11.69
	default: // letter
		paperWidth = 8.5
		paperHeight = 11.0
	}

	// Swap dimensions for landscape
	if options.PageOrientation == "landscape" {
		paperWidth, paperHeight = paperHeight, paperWidth
	}

	// Convert points to inches for margins
	marginTop := float64(options.MarginTop) / 72.0
	marginBottom := float64(options.MarginBottom) / 72.0
	marginLeft := float64(options.MarginLeft) / 72.0
	marginRight := float64(options.MarginRight) / 72.0

	var pdfBuf []byte

	// Run the Chrome actions
	err := chromedp.Run(ctx,
		// Navigate to a blank page first
		chromedp.Navigate("about:blank"),
		// Set the HTML content
		chromedp.ActionFunc(func(ctx context.Context) error {
			frameTree, err := page.GetFrameTree().Do(ctx)
			if err != nil {
				return err
			}
			return page.SetDocumentContent(frameTree.Frame.ID, htmlContent).Do(ctx)
		}),
		// Wait for content to render
		chromedp.Sleep(100),
		// Generate PDF
		chromedp.ActionFunc(func(ctx context.Context) error {
			buf, _, err := page.PrintToPDF().
				WithPaperWidth(paperWidth).
				WithPaperHeight(paperHeight).
				WithMarginTop(marginTop).
				WithMarginBottom(marginBottom).
				WithMarginLeft(marginLeft).
				WithMarginRight(marginRight).
				WithPrintBackground(true).
				WithDisplayHeaderFooter(false).
				Do(ctx)
			if err != nil {
				return err
			}
			pdfBuf = buf
			return nil
		}),
	)

	if err != nil {
		return nil, fmt.Errorf("failed to generate PDF: %w", err)
	}

	return pdfBuf, nil
}
