// Package views holds the console's server-rendered HTML templates.
package views

import (
	"embed"
	"fmt"
	"html/template"
	"strconv"

	"github.com/yigit/gradedesk/internal/app/models"
)

// ConsoleTemplate is the name of the page template
const ConsoleTemplate = "console.html"

//go:embed templates/*.html
var files embed.FS

// Page is everything the console template renders
type Page struct {
	Workspace           *models.Workspace
	Views               []models.View
	BackendURL          string
	ConnectivityTestURL string
	Busy                bool
}

// NewPage builds the render data for a workspace. busy disables the submit
// buttons of the Add forms.
func NewPage(ws *models.Workspace, backendURL, connectivityURL string, busy bool) Page {
	return Page{
		Workspace:           ws,
		Views:               models.Views,
		BackendURL:          backendURL,
		ConnectivityTestURL: connectivityURL,
		Busy:                busy,
	}
}

// draftForms names the form each view's tab buttons submit
var draftForms = map[models.View]string{
	models.ViewStudents:   "student-form",
	models.ViewCourses:    "course-form",
	models.ViewResults:    "result-form",
	models.ViewGradeSheet: "grade-form",
}

// Funcs are the helpers available to every template
var Funcs = template.FuncMap{
	"noticeClass": noticeClass,
	"draftForm": func(v models.View) string {
		if id, ok := draftForms[v]; ok {
			return id
		}
		return "tab-form"
	},
	"selected": func(a, b string) template.HTMLAttr {
		if a == b {
			return "selected"
		}
		return ""
	},
	"score": func(f float64) string {
		return strconv.FormatFloat(f, 'f', -1, 64)
	},
	"sgpa": func(f float64) string {
		return fmt.Sprintf("%.2f", f)
	},
	"courseCode": func(ws *models.Workspace, id string) string {
		if c, ok := ws.CourseByID(id); ok && c.Code != "" {
			return c.Code
		}
		return id
	},
}

func noticeClass(kind models.StatusKind) string {
	switch kind {
	case models.StatusSuccess:
		return "notice notice-success"
	case models.StatusError:
		return "notice notice-error"
	case models.StatusWarning:
		return "notice notice-warning"
	default:
		return "notice notice-info"
	}
}

// Templates parses the embedded templates
func Templates() (*template.Template, error) {
	return template.New(ConsoleTemplate).Funcs(Funcs).ParseFS(files, "templates/*.html")
}
