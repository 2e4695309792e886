package backend

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/yigit/gradedesk/internal/app/models"
	"github.com/yigit/gradedesk/internal/app/models/dto"
	"github.com/yigit/gradedesk/internal/pkg/apperrors"
)

// maxBodyBytes caps how much of a backend response is read
const maxBodyBytes = 4 << 20

// API is the results backend as seen by the console
type API interface {
	ListStudents(ctx context.Context, q string) ([]models.Student, error)
	ListCourses(ctx context.Context) ([]models.Course, error)
	CreateStudent(ctx context.Context, req *dto.CreateStudentRequest) error
	CreateCourse(ctx context.Context, req *dto.CreateCourseRequest) error
	CreateResult(ctx context.Context, req *dto.CreateResultRequest) error
	GetGradeSheet(ctx context.Context, studentID string, filter dto.GradeSheetFilter) (*models.GradeSheet, error)
	BaseURL() string
}

// Client talks JSON over HTTP to the results backend
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     zerolog.Logger
}

// NewClient creates a backend client. A zero timeout disables the client timeout.
func NewClient(baseURL string, timeout time.Duration, logger zerolog.Logger) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger.With().Str("component", "backend").Logger(),
	}
}

// BaseURL returns the backend base URL without a trailing slash
func (c *Client) BaseURL() string {
	return c.baseURL
}

// ListStudents lists students, filtered by free text when q is not empty
func (c *Client) ListStudents(ctx context.Context, q string) ([]models.Student, error) {
	req, err := createListStudentsRequest(ctx, c, q)
	if err != nil {
		return nil, err
	}

	students := []models.Student{}
	if err := c.do(req, &students); err != nil {
		return nil, fmt.Errorf("list students: %w", err)
	}
	if students == nil {
		students = []models.Student{}
	}
	return students, nil
}

// ListCourses lists every course
func (c *Client) ListCourses(ctx context.Context) ([]models.Course, error) {
	req, err := c.newGetRequest(ctx, coursesPath, nil)
	if err != nil {
		return nil, err
	}

	courses := []models.Course{}
	if err := c.do(req, &courses); err != nil {
		return nil, fmt.Errorf("list courses: %w", err)
	}
	if courses == nil {
		courses = []models.Course{}
	}
	return courses, nil
}

// CreateStudent creates a student
func (c *Client) CreateStudent(ctx context.Context, body *dto.CreateStudentRequest) error {
	req, err := c.newJSONRequest(ctx, studentsPath, body)
	if err != nil {
		return err
	}
	if err := c.do(req, nil); err != nil {
		return fmt.Errorf("create student: %w", err)
	}
	return nil
}

// CreateCourse creates a course
func (c *Client) CreateCourse(ctx context.Context, body *dto.CreateCourseRequest) error {
	req, err := c.newJSONRequest(ctx, coursesPath, body)
	if err != nil {
		return err
	}
	if err := c.do(req, nil); err != nil {
		return fmt.Errorf("create course: %w", err)
	}
	return nil
}

// CreateResult records a result; the backend derives grade and grade point
func (c *Client) CreateResult(ctx context.Context, body *dto.CreateResultRequest) error {
	req, err := c.newJSONRequest(ctx, resultsPath, body)
	if err != nil {
		return err
	}
	if err := c.do(req, nil); err != nil {
		return fmt.Errorf("create result: %w", err)
	}
	return nil
}

// GetGradeSheet fetches the grade sheet of one student
func (c *Client) GetGradeSheet(ctx context.Context, studentID string, filter dto.GradeSheetFilter) (*models.GradeSheet, error) {
	req, err := createGetGradeSheetRequest(ctx, c, studentID, filter)
	if err != nil {
		return nil, err
	}

	var sheet models.GradeSheet
	if err := c.do(req, &sheet); err != nil {
		return nil, fmt.Errorf("get grade sheet: %w", err)
	}
	if sheet.Results == nil {
		sheet.Results = []models.GradeSheetRow{}
	}
	if sheet.StudentID == "" {
		sheet.StudentID = studentID
	}
	return &sheet, nil
}

// do sends req and decodes a success body into out when out is not nil.
// Non-success responses become *apperrors.BackendError.
func (c *Client) do(req *http.Request, out interface{}) error {
	start := time.Now()

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Warn().Err(err).Str("method", req.Method).Str("url", req.URL.String()).Msg("backend request failed")
		return &apperrors.UnavailableError{Err: err}
	}
	defer func(resp *http.Response) {
		_ = resp.Body.Close()
	}(resp)

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return &apperrors.UnavailableError{Err: fmt.Errorf("error reading response: %w", err)}
	}

	c.logger.Debug().
		Str("method", req.Method).
		Str("url", req.URL.String()).
		Int("status", resp.StatusCode).
		Dur("latency", time.Since(start)).
		Msg("backend request")

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return apperrors.NewBackendError(resp.StatusCode, body)
	}

	if out == nil || len(body) == 0 {
		return nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("%w: %v", apperrors.ErrDecodeFailed, err)
	}
	return nil
}

// IsCanceled reports whether err came from a canceled request context
func IsCanceled(err error) bool {
	return errors.Is(err, context.Canceled)
}
