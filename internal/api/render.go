package api

import (
	"bytes"
	"embed"
	"html/template"
	"math"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/arcticroofing/arctic-portal/internal/backend"
	"github.com/arcticroofing/arctic-portal/internal/core"
	"github.com/arcticroofing/arctic-portal/internal/models"
)

//go:embed templates/*.html
var templateFS embed.FS

var printer = message.NewPrinter(language.AmericanEnglish)

// formatCurrency renders whole dollar amounts without cents, e.g. "$17,250".
func formatCurrency(amount float64) string {
	if amount == math.Trunc(amount) {
		return printer.Sprintf("$%.0f", amount)
	}
	return printer.Sprintf("$%.2f", amount)
}

// parseTemplates loads every page and partial. Tab bodies are rendered
// through Tab.Template, so an unknown tab cannot reach a template.
func parseTemplates() (*template.Template, error) {
	var tmpl *template.Template
	funcs := template.FuncMap{
		"currency": formatCurrency,
		"tabBody": func(t models.Tab, data any) (template.HTML, error) {
			var buf bytes.Buffer
			if err := tmpl.ExecuteTemplate(&buf, t.Template(), data); err != nil {
				return "", err
			}
			return template.HTML(buf.String()), nil
		},
	}
	var err error
	tmpl, err = template.New("").Funcs(funcs).ParseFS(templateFS, "templates/*.html")
	return tmpl, err
}

// pageData is the single data shape handed to every template.
type pageData struct {
	Title    string
	Mode     backend.Mode
	Subtitle string
	Session  *models.Session
	Banner   *Banner

	// login
	Email      string
	CheckEmail bool

	// dashboard
	View     *models.ProjectView
	Tab      models.Tab
	Tabs     []models.Tab
	Upcoming []models.TimelineEvent
	CanAdmin bool

	// admin
	Projects   []models.ProjectRow
	Form       models.CreateProjectRequest
	Homeowners []homeownerRow
}

type homeownerRow struct {
	models.Homeowner
	InviteLink string
}

// Live reports whether the page is served by the live backend.
func (p pageData) Live() bool { return p.Mode == backend.ModeLive }

// Footer is the footer caption.
func (p pageData) Footer() string {
	if p.Live() {
		return "Secure client portal"
	}
	return "Demo"
}

func newPageData(gate *core.SessionGate, session *models.Session, title string) pageData {
	mode := gate.Mode()
	subtitle := "Demo • Connect Firebase to go live"
	if mode == backend.ModeLive {
		subtitle = "Waiting for sign-in"
		if session != nil {
			subtitle = "Live • Magic link login"
		}
	}
	return pageData{Title: title, Mode: mode, Subtitle: subtitle, Session: session}
}
