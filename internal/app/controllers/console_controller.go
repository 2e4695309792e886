package controllers

import (
	"bytes"
	"fmt"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yigit/gradedesk/internal/app/models"
	"github.com/yigit/gradedesk/internal/app/services"
	"github.com/yigit/gradedesk/internal/app/views"
	"github.com/yigit/gradedesk/internal/middleware"
	"github.com/yigit/gradedesk/internal/pkg/apperrors"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// ConsoleController serves the HTML console. Every form post redirects back
// to the page once the workspace has been updated.
type ConsoleController struct {
	console         services.ConsoleService
	backendURL      string
	connectivityURL string
}

// NewConsoleController creates a new ConsoleController. backendURL is shown
// in the footer exactly as configured.
func NewConsoleController(console services.ConsoleService, backendURL, connectivityURL string) *ConsoleController {
	return &ConsoleController{
		console:         console,
		backendURL:      backendURL,
		connectivityURL: connectivityURL,
	}
}

// Index renders the active view
func (cc *ConsoleController) Index(ctx *gin.Context) {
	id := middleware.SessionID(ctx)
	ws := middleware.CurrentWorkspace(ctx)
	if ws == nil {
		var err error
		if ws, err = cc.console.Workspace(ctx.Request.Context(), id); err != nil {
			middleware.HandleAPIError(ctx, err)
			return
		}
	}

	// A progress status only locks the forms while its request is running
	busy := ws.Status.InProgress() && cc.console.InFlight(id, ws.Status.Operation)
	ctx.HTML(http.StatusOK, views.ConsoleTemplate, views.NewPage(ws, cc.backendURL, cc.connectivityURL, busy))
}

// SwitchView selects a tab. Tabs post the form of the view being left so
// that unsubmitted input is still there when the user comes back.
func (cc *ConsoleController) SwitchView(ctx *gin.Context) {
	view, ok := models.ParseView(ctx.Param("view"))
	if !ok {
		middleware.HandleAPIError(ctx, apperrors.NewResourceNotFoundError("Unknown view"))
		return
	}
	id := middleware.SessionID(ctx)

	if ctx.Request.Method == http.MethodPost {
		draft, err := bindDraft(ctx)
		if err != nil {
			middleware.HandleAPIError(ctx, apperrors.NewValidationError("", "Invalid form data"))
			return
		}
		if err := cc.console.SaveDraft(ctx.Request.Context(), id, draft); err != nil {
			middleware.HandleAPIError(ctx, err)
			return
		}
	}

	if _, err := cc.console.SwitchView(ctx.Request.Context(), id, view); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	cc.backToConsole(ctx)
}

// SearchStudents filters the student list
func (cc *ConsoleController) SearchStudents(ctx *gin.Context) {
	cc.finish(ctx, cc.console.SearchStudents(ctx.Request.Context(), middleware.SessionID(ctx), ctx.PostForm("q")))
}

// CreateStudent handles the Add Student form
func (cc *ConsoleController) CreateStudent(ctx *gin.Context) {
	var form models.StudentForm
	if !bindForm(ctx, &form) {
		return
	}
	cc.finish(ctx, cc.console.CreateStudent(ctx.Request.Context(), middleware.SessionID(ctx), form))
}

// ImportStudents handles a spreadsheet upload
func (cc *ConsoleController) ImportStudents(ctx *gin.Context) {
	var file io.Reader = bytes.NewReader(nil)
	if header, err := ctx.FormFile("file"); err == nil {
		f, err := header.Open()
		if err != nil {
			middleware.HandleAPIError(ctx, fmt.Errorf("error opening upload: %w", err))
			return
		}
		defer f.Close()
		file = f
	}
	cc.finish(ctx, cc.console.ImportStudents(ctx.Request.Context(), middleware.SessionID(ctx), file))
}

// CreateCourse handles the Add Course form
func (cc *ConsoleController) CreateCourse(ctx *gin.Context) {
	var form models.CourseForm
	if !bindForm(ctx, &form) {
		return
	}
	cc.finish(ctx, cc.console.CreateCourse(ctx.Request.Context(), middleware.SessionID(ctx), form))
}

// CreateResult handles the Add Result form
func (cc *ConsoleController) CreateResult(ctx *gin.Context) {
	var form models.ResultForm
	if !bindForm(ctx, &form) {
		return
	}
	cc.finish(ctx, cc.console.CreateResult(ctx.Request.Context(), middleware.SessionID(ctx), form))
}

// FetchGradeSheet handles the grade sheet lookup form
func (cc *ConsoleController) FetchGradeSheet(ctx *gin.Context) {
	var query models.GradeQuery
	if !bindForm(ctx, &query) {
		return
	}
	cc.finish(ctx, cc.console.FetchGradeSheet(ctx.Request.Context(), middleware.SessionID(ctx), query))
}

// ExportGradeSheet downloads the loaded grade sheet as .xlsx
func (cc *ConsoleController) ExportGradeSheet(ctx *gin.Context) {
	var buf bytes.Buffer
	filename, err := cc.console.ExportGradeSheet(ctx.Request.Context(), middleware.SessionID(ctx), &buf)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	ctx.Data(http.StatusOK, xlsxContentType, buf.Bytes())
}

// bindDraft reads the form named by the hidden "draft" field, if any
func bindDraft(ctx *gin.Context) (models.Draft, error) {
	var draft models.Draft
	switch models.View(ctx.PostForm("draft")) {
	case models.ViewStudents:
		var form models.StudentForm
		if err := ctx.ShouldBind(&form); err != nil {
			return draft, err
		}
		draft.Student = &form
	case models.ViewCourses:
		var form models.CourseForm
		if err := ctx.ShouldBind(&form); err != nil {
			return draft, err
		}
		draft.Course = &form
	case models.ViewResults:
		var form models.ResultForm
		if err := ctx.ShouldBind(&form); err != nil {
			return draft, err
		}
		draft.Result = &form
	case models.ViewGradeSheet:
		var query models.GradeQuery
		if err := ctx.ShouldBind(&query); err != nil {
			return draft, err
		}
		draft.Grade = &query
	}
	return draft, nil
}

func bindForm(ctx *gin.Context, form interface{}) bool {
	if err := ctx.ShouldBind(form); err != nil {
		middleware.HandleAPIError(ctx, apperrors.NewValidationError("", "Invalid form data"))
		return false
	}
	return true
}

// finish redirects to the console, or reports a session store failure
func (cc *ConsoleController) finish(ctx *gin.Context, err error) {
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	cc.backToConsole(ctx)
}

func (cc *ConsoleController) backToConsole(ctx *gin.Context) {
	ctx.Redirect(http.StatusSeeOther, "/")
}
