package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/yigit/gradedesk/internal/app/models"
	"github.com/yigit/gradedesk/internal/app/models/dto"
	"github.com/yigit/gradedesk/internal/app/sessions"
	"github.com/yigit/gradedesk/internal/backend"
	"github.com/yigit/gradedesk/internal/pkg/apperrors"
	"github.com/yigit/gradedesk/internal/pkg/inflight"
)

const probeTimeout = 5 * time.Second

// ConsoleService drives one workspace per session against the results backend.
// Backend failures never come back as errors: they end up in the workspace
// status. Returned errors are session store failures.
type ConsoleService interface {
	Open(ctx context.Context, sessionID string) (*models.Workspace, error)
	Workspace(ctx context.Context, sessionID string) (*models.Workspace, error)
	SwitchView(ctx context.Context, sessionID string, view models.View) (*models.Workspace, error)
	SaveDraft(ctx context.Context, sessionID string, draft models.Draft) error
	SearchStudents(ctx context.Context, sessionID, query string) error
	RefreshCourses(ctx context.Context, sessionID string) error
	CreateStudent(ctx context.Context, sessionID string, form models.StudentForm) error
	CreateCourse(ctx context.Context, sessionID string, form models.CourseForm) error
	CreateResult(ctx context.Context, sessionID string, form models.ResultForm) error
	FetchGradeSheet(ctx context.Context, sessionID string, query models.GradeQuery) error
	ImportStudents(ctx context.Context, sessionID string, file io.Reader) error
	ExportGradeSheet(ctx context.Context, sessionID string, w io.Writer) (string, error)
	ProbeBackend(ctx context.Context) *dto.BackendProbeResponse
	InFlight(sessionID string, op models.Operation) bool
	BackendURL() string
}

// StatusEventType is the event type published when a status slot changes
const StatusEventType = "status"

// StatusNotifier receives the new status of a session whenever it changes
type StatusNotifier interface {
	Publish(sessionID, eventType string, data interface{})
}

// consoleServiceImpl implements ConsoleService
type consoleServiceImpl struct {
	api      backend.API
	store    sessions.Store
	notifier StatusNotifier
	tracker  *inflight.Tracker
	logger   zerolog.Logger
	now      func() time.Time
}

// NewConsoleService creates a new ConsoleService. notifier may be nil.
func NewConsoleService(api backend.API, store sessions.Store, notifier StatusNotifier, logger zerolog.Logger) ConsoleService {
	return &consoleServiceImpl{
		api:      api,
		store:    store,
		notifier: notifier,
		tracker:  inflight.NewTracker(),
		logger:   logger,
		now:      time.Now,
	}
}

// mutation describes a form submit that writes to the backend
type mutation struct {
	op       models.Operation
	progress string
	// keep stores the submitted form on the workspace
	keep func(ws *models.Workspace)
	call func(ctx context.Context) error
	// apply runs on success, after the superseded check
	apply func(ws *models.Workspace, now time.Time)
	// refresh reloads whatever collection the mutation changed
	refresh func(ctx context.Context, sessionID string) error
}

func trackKey(sessionID string, op models.Operation) string {
	return sessionID + ":" + string(op)
}

// discardable reports whether a backend result must not be applied
func discardable(ticket *inflight.Ticket, err error) bool {
	return !ticket.Current() || backend.IsCanceled(err)
}

func ignoreSuperseded(err error) error {
	if errors.Is(err, apperrors.ErrSuperseded) {
		return nil
	}
	return err
}

// Open returns the workspace of sessionID, creating a fresh one (with a new
// id) when the session is unknown. A new workspace loads students and courses once.
func (s *consoleServiceImpl) Open(ctx context.Context, sessionID string) (*models.Workspace, error) {
	if sessionID != "" {
		ws, err := s.store.Get(ctx, sessionID)
		if err == nil {
			return ws, nil
		}
		if !errors.Is(err, apperrors.ErrSessionNotFound) {
			return nil, fmt.Errorf("error loading session: %w", err)
		}
	}

	ws := models.NewWorkspace(uuid.NewString(), s.now())
	if err := s.store.Put(ctx, ws); err != nil {
		return nil, fmt.Errorf("error creating session: %w", err)
	}
	s.logger.Debug().Str("session", ws.ID).Msg("workspace created")

	if err := s.loadStudents(ctx, ws.ID, ""); err != nil {
		return nil, err
	}
	if err := s.RefreshCourses(ctx, ws.ID); err != nil {
		return nil, err
	}
	return s.store.Get(ctx, ws.ID)
}

// Workspace returns the current workspace of a session
func (s *consoleServiceImpl) Workspace(ctx context.Context, sessionID string) (*models.Workspace, error) {
	return s.store.Get(ctx, sessionID)
}

// SwitchView changes the active view. It never calls the backend.
func (s *consoleServiceImpl) SwitchView(ctx context.Context, sessionID string, view models.View) (*models.Workspace, error) {
	if !view.Valid() {
		return nil, apperrors.NewResourceNotFoundError(fmt.Sprintf("unknown view %q", view))
	}
	return s.update(ctx, sessionID, func(ws *models.Workspace) error {
		ws.ActiveView = view
		return nil
	})
}

// SaveDraft keeps unsubmitted form input across view switches. It never
// calls the backend or touches the status slot.
func (s *consoleServiceImpl) SaveDraft(ctx context.Context, sessionID string, draft models.Draft) error {
	if draft.Empty() {
		return nil
	}
	_, err := s.update(ctx, sessionID, func(ws *models.Workspace) error {
		ws.KeepDraft(draft)
		return nil
	})
	return err
}

// SearchStudents stores the search text and reloads the student list with it
func (s *consoleServiceImpl) SearchStudents(ctx context.Context, sessionID, query string) error {
	if _, err := s.update(ctx, sessionID, func(ws *models.Workspace) error {
		ws.StudentSearch = query
		return nil
	}); err != nil {
		return err
	}
	return s.loadStudents(ctx, sessionID, query)
}

// refreshStudents reloads students with the search text currently on the workspace
func (s *consoleServiceImpl) refreshStudents(ctx context.Context, sessionID string) error {
	ws, err := s.store.Get(ctx, sessionID)
	if err != nil {
		return err
	}
	return s.loadStudents(ctx, sessionID, ws.StudentSearch)
}

func (s *consoleServiceImpl) loadStudents(ctx context.Context, sessionID, query string) error {
	callCtx, ticket := s.tracker.Begin(ctx, trackKey(sessionID, models.OpListStudents))
	defer ticket.Done()

	students, fetchErr := s.api.ListStudents(callCtx, query)
	if fetchErr != nil && discardable(ticket, fetchErr) {
		return nil
	}

	_, err := s.update(ctx, sessionID, func(ws *models.Workspace) error {
		if !ticket.Current() {
			return apperrors.ErrSuperseded
		}
		if fetchErr != nil {
			s.fail(ws, models.OpListStudents, fetchErr)
			return nil
		}
		ws.Students = students
		return nil
	})
	return ignoreSuperseded(err)
}

// RefreshCourses reloads the unfiltered course list
func (s *consoleServiceImpl) RefreshCourses(ctx context.Context, sessionID string) error {
	callCtx, ticket := s.tracker.Begin(ctx, trackKey(sessionID, models.OpListCourses))
	defer ticket.Done()

	courses, fetchErr := s.api.ListCourses(callCtx)
	if fetchErr != nil && discardable(ticket, fetchErr) {
		return nil
	}

	_, err := s.update(ctx, sessionID, func(ws *models.Workspace) error {
		if !ticket.Current() {
			return apperrors.ErrSuperseded
		}
		if fetchErr != nil {
			s.fail(ws, models.OpListCourses, fetchErr)
			return nil
		}
		ws.Courses = courses
		return nil
	})
	return ignoreSuperseded(err)
}

// CreateStudent validates and submits the Add Student form
func (s *consoleServiceImpl) CreateStudent(ctx context.Context, sessionID string, form models.StudentForm) error {
	keep := func(ws *models.Workspace) { ws.StudentForm = form }

	req, err := dto.NewCreateStudentRequest(form)
	if err != nil {
		return s.reject(ctx, sessionID, models.OpCreateStudent, keep, err)
	}

	return s.perform(ctx, sessionID, mutation{
		op:       models.OpCreateStudent,
		progress: "Creating student...",
		keep:     keep,
		call: func(ctx context.Context) error {
			return s.api.CreateStudent(ctx, req)
		},
		apply: func(ws *models.Workspace, now time.Time) {
			ws.StudentForm = models.DefaultStudentForm(now)
			ws.SetStatus(models.StatusSuccess, models.OpCreateStudent, "Student created", now)
		},
		refresh: s.refreshStudents,
	})
}

// CreateCourse validates and submits the Add Course form
func (s *consoleServiceImpl) CreateCourse(ctx context.Context, sessionID string, form models.CourseForm) error {
	keep := func(ws *models.Workspace) { ws.CourseForm = form }

	req, err := dto.NewCreateCourseRequest(form)
	if err != nil {
		return s.reject(ctx, sessionID, models.OpCreateCourse, keep, err)
	}

	return s.perform(ctx, sessionID, mutation{
		op:       models.OpCreateCourse,
		progress: "Creating course...",
		keep:     keep,
		call: func(ctx context.Context) error {
			return s.api.CreateCourse(ctx, req)
		},
		apply: func(ws *models.Workspace, now time.Time) {
			ws.CourseForm = models.DefaultCourseForm()
			ws.SetStatus(models.StatusSuccess, models.OpCreateCourse, "Course created", now)
		},
		refresh: s.RefreshCourses,
	})
}

// CreateResult validates and submits the Add Result form. Grades are left to the backend.
func (s *consoleServiceImpl) CreateResult(ctx context.Context, sessionID string, form models.ResultForm) error {
	keep := func(ws *models.Workspace) { ws.ResultForm = form }

	req, err := dto.NewCreateResultRequest(form)
	if err != nil {
		return s.reject(ctx, sessionID, models.OpCreateResult, keep, err)
	}

	return s.perform(ctx, sessionID, mutation{
		op:       models.OpCreateResult,
		progress: "Adding result...",
		keep:     keep,
		call: func(ctx context.Context) error {
			return s.api.CreateResult(ctx, req)
		},
		apply: func(ws *models.Workspace, now time.Time) {
			ws.ResultForm = models.DefaultResultForm(now)
			ws.SetStatus(models.StatusSuccess, models.OpCreateResult, "Result added", now)
		},
	})
}

// FetchGradeSheet loads the grade sheet for the selected student. Without a
// selected student nothing happens.
func (s *consoleServiceImpl) FetchGradeSheet(ctx context.Context, sessionID string, query models.GradeQuery) error {
	if !dto.HasStudent(query) {
		return nil
	}

	filter, err := dto.NewGradeSheetFilter(query)
	if err != nil {
		return s.reject(ctx, sessionID, models.OpFetchGrades, func(ws *models.Workspace) { ws.GradeQuery = query }, err)
	}

	if _, err := s.update(ctx, sessionID, func(ws *models.Workspace) error {
		ws.GradeQuery = query
		return nil
	}); err != nil {
		return err
	}

	callCtx, ticket := s.tracker.Begin(ctx, trackKey(sessionID, models.OpFetchGrades))
	defer ticket.Done()

	sheet, fetchErr := s.api.GetGradeSheet(callCtx, query.StudentID, filter)
	if fetchErr != nil && discardable(ticket, fetchErr) {
		return nil
	}

	_, err = s.update(ctx, sessionID, func(ws *models.Workspace) error {
		if !ticket.Current() {
			return apperrors.ErrSuperseded
		}
		if fetchErr != nil {
			ws.GradeSheet = nil
			ws.SheetQuery = models.GradeQuery{}
			s.fail(ws, models.OpFetchGrades, fetchErr)
			return nil
		}
		ws.GradeSheet = sheet
		ws.SheetQuery = query
		return nil
	})
	return ignoreSuperseded(err)
}

// ImportStudents creates one student per valid row of an uploaded workbook
func (s *consoleServiceImpl) ImportStudents(ctx context.Context, sessionID string, file io.Reader) error {
	bg := context.WithoutCancel(ctx)
	callCtx, ticket := s.tracker.Begin(bg, trackKey(sessionID, models.OpImportStudents))
	defer ticket.Done()

	if _, err := s.update(bg, sessionID, func(ws *models.Workspace) error {
		ws.SetStatus(models.StatusInfo, models.OpImportStudents, "Importing students...", s.now())
		return nil
	}); err != nil {
		return err
	}

	rows, readErr := readStudentRows(file, s.logger)
	if readErr != nil {
		s.logger.Warn().Err(readErr).Str("session", sessionID).Msg("student import unreadable")
		_, err := s.update(bg, sessionID, func(ws *models.Workspace) error {
			if !ticket.Current() {
				return apperrors.ErrSuperseded
			}
			ws.SetStatus(models.StatusError, models.OpImportStudents, "Could not read spreadsheet", s.now())
			return nil
		})
		return ignoreSuperseded(err)
	}

	created := 0
	var failures []string
	for _, row := range rows {
		if !ticket.Current() {
			break
		}
		req, err := dto.NewCreateStudentRequest(row.Form)
		if err == nil {
			err = s.api.CreateStudent(callCtx, req)
		}
		if err != nil {
			failures = append(failures, fmt.Sprintf("row %d: %s", row.Line, apperrors.UserMessage(err)))
			continue
		}
		created++
	}

	kind, message := importSummary(created, len(rows), failures)
	s.logger.Info().
		Str("session", sessionID).
		Int("rows", len(rows)).
		Int("created", created).
		Msg("student import finished")

	_, err := s.update(bg, sessionID, func(ws *models.Workspace) error {
		if !ticket.Current() {
			return apperrors.ErrSuperseded
		}
		ws.SetStatus(kind, models.OpImportStudents, message, s.now())
		return nil
	})
	if err != nil {
		return ignoreSuperseded(err)
	}

	if created > 0 {
		return s.refreshStudents(bg, sessionID)
	}
	return nil
}

// ExportGradeSheet writes the last loaded grade sheet as a workbook and
// returns its file name. The workspace is not modified.
func (s *consoleServiceImpl) ExportGradeSheet(ctx context.Context, sessionID string, w io.Writer) (string, error) {
	ws, err := s.store.Get(ctx, sessionID)
	if err != nil {
		return "", err
	}
	if ws.GradeSheet == nil {
		return "", apperrors.NewResourceNotFoundError("no grade sheet loaded")
	}

	student, _ := ws.StudentByID(ws.GradeSheet.StudentID)
	if err := writeGradeSheet(w, ws.GradeSheet, ws.Courses); err != nil {
		return "", fmt.Errorf("error exporting grade sheet: %w", err)
	}
	return gradeSheetFilename(student, ws.SheetQuery), nil
}

// ProbeBackend lists courses with a short timeout and reports how it went
func (s *consoleServiceImpl) ProbeBackend(ctx context.Context) *dto.BackendProbeResponse {
	ctx, cancel := context.WithTimeout(ctx, probeTimeout)
	defer cancel()

	start := s.now()
	courses, err := s.api.ListCourses(ctx)
	resp := &dto.BackendProbeResponse{
		BackendURL: s.api.BaseURL(),
		LatencyMS:  float64(s.now().Sub(start).Microseconds()) / 1000,
	}
	if err != nil {
		resp.Message = apperrors.UserMessage(err)
		return resp
	}
	resp.Reachable = true
	resp.Courses = len(courses)
	return resp
}

// InFlight reports whether op is currently running for the session
func (s *consoleServiceImpl) InFlight(sessionID string, op models.Operation) bool {
	return s.tracker.InFlight(trackKey(sessionID, op))
}

// BackendURL returns the base URL of the results backend
func (s *consoleServiceImpl) BackendURL() string {
	return s.api.BaseURL()
}

// perform runs a mutation. The backend call is detached from the browser
// request so a closed tab does not abort a write, but a newer submit of the
// same operation cancels it and its outcome is dropped.
func (s *consoleServiceImpl) perform(ctx context.Context, sessionID string, m mutation) error {
	bg := context.WithoutCancel(ctx)
	callCtx, ticket := s.tracker.Begin(bg, trackKey(sessionID, m.op))
	defer ticket.Done()

	if _, err := s.update(bg, sessionID, func(ws *models.Workspace) error {
		m.keep(ws)
		ws.SetStatus(models.StatusInfo, m.op, m.progress, s.now())
		return nil
	}); err != nil {
		return err
	}

	callErr := m.call(callCtx)
	if !ticket.Current() {
		s.logger.Debug().Str("session", sessionID).Str("operation", string(m.op)).Msg("superseded result discarded")
		return nil
	}

	_, err := s.update(bg, sessionID, func(ws *models.Workspace) error {
		if !ticket.Current() {
			return apperrors.ErrSuperseded
		}
		if callErr != nil {
			s.fail(ws, m.op, callErr)
			return nil
		}
		m.apply(ws, s.now())
		return nil
	})
	if err != nil {
		return ignoreSuperseded(err)
	}

	if callErr == nil && m.refresh != nil {
		return m.refresh(bg, sessionID)
	}
	return nil
}

// reject records a form that failed local checks. No request is made, but
// the submit still supersedes any earlier one of the same operation.
func (s *consoleServiceImpl) reject(ctx context.Context, sessionID string, op models.Operation, keep func(ws *models.Workspace), cause error) error {
	_, ticket := s.tracker.Begin(ctx, trackKey(sessionID, op))
	defer ticket.Done()

	_, err := s.update(ctx, sessionID, func(ws *models.Workspace) error {
		keep(ws)
		ws.SetStatus(models.StatusError, op, apperrors.UserMessage(cause), s.now())
		return nil
	})
	return err
}

// update applies fn to the stored workspace and publishes the status when it changed
func (s *consoleServiceImpl) update(ctx context.Context, sessionID string, fn func(ws *models.Workspace) error) (*models.Workspace, error) {
	var before models.Status
	ws, err := s.store.Update(ctx, sessionID, func(ws *models.Workspace) error {
		before = ws.Status
		return fn(ws)
	})
	if err != nil {
		return nil, err
	}

	if s.notifier != nil && ws.Status != before {
		s.notifier.Publish(sessionID, StatusEventType, dto.StatusResponse{
			Status:     ws.Status,
			InProgress: ws.Status.InProgress(),
		})
	}
	return ws, nil
}

// fail records a backend failure on the workspace
func (s *consoleServiceImpl) fail(ws *models.Workspace, op models.Operation, err error) {
	s.logger.Warn().Err(err).Str("session", ws.ID).Str("operation", string(op)).Msg("backend operation failed")
	ws.SetStatus(models.StatusError, op, apperrors.UserMessage(err), s.now())
}
