package backend

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/yigit/gradedesk/internal/app/models/dto"
	"github.com/yigit/gradedesk/internal/pkg/apperrors"
)

type recorded struct {
	Method string
	Path   string
	Query  string
	Body   string
}

type fakeBackend struct {
	mu       sync.Mutex
	requests []recorded
	status   int
	response string
}

func (f *fakeBackend) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	body, _ := io.ReadAll(r.Body)
	f.mu.Lock()
	f.requests = append(f.requests, recorded{r.Method, r.URL.Path, r.URL.RawQuery, string(body)})
	status, response := f.status, f.response
	f.mu.Unlock()

	if status == 0 {
		status = http.StatusOK
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = io.WriteString(w, response)
}

func (f *fakeBackend) all() []recorded {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]recorded(nil), f.requests...)
}

func newTestClient(t *testing.T, fb *fakeBackend) *Client {
	t.Helper()
	srv := httptest.NewServer(fb)
	t.Cleanup(srv.Close)
	return NewClient(srv.URL+"/", 2*time.Second, zerolog.Nop())
}

func TestListStudentsQuery(t *testing.T) {
	fb := &fakeBackend{response: `[{"_id":"s1","name":"Ada","roll_number":"R1","semester":2,"year":2024}]`}
	c := newTestClient(t, fb)

	students, err := c.ListStudents(context.Background(), "ada lovelace")
	if err != nil {
		t.Fatalf("ListStudents() error = %v", err)
	}
	if len(students) != 1 || students[0].ID != "s1" || students[0].Semester != 2 {
		t.Fatalf("students = %+v", students)
	}

	if _, err := c.ListStudents(context.Background(), ""); err != nil {
		t.Fatalf("ListStudents(\"\") error = %v", err)
	}

	if got := fb.all()[0]; got.Path != "/api/students" || got.Query != "q=ada+lovelace" {
		t.Fatalf("first request = %+v", got)
	}
	if got := fb.all()[1]; got.Query != "" {
		t.Fatalf("empty search sent query %q", got.Query)
	}
}

func TestListCoursesNullBody(t *testing.T) {
	fb := &fakeBackend{response: `null`}
	c := newTestClient(t, fb)

	courses, err := c.ListCourses(context.Background())
	if err != nil {
		t.Fatalf("ListCourses() error = %v", err)
	}
	if courses == nil || len(courses) != 0 {
		t.Fatalf("courses = %#v, want empty slice", courses)
	}
}

func TestCreateCourseBody(t *testing.T) {
	fb := &fakeBackend{status: http.StatusCreated, response: `{"_id":"c1"}`}
	c := newTestClient(t, fb)

	err := c.CreateCourse(context.Background(), &dto.CreateCourseRequest{Code: "CS101", Title: "Intro", Credits: 3})
	if err != nil {
		t.Fatalf("CreateCourse() error = %v", err)
	}

	got := fb.all()[0]
	if got.Method != http.MethodPost || got.Path != "/api/courses" {
		t.Fatalf("request = %+v", got)
	}
	if want := `{"code":"CS101","title":"Intro","credits":3}`; got.Body != want {
		t.Fatalf("body = %s, want %s", got.Body, want)
	}
}

func TestCreateStudentRejected(t *testing.T) {
	fb := &fakeBackend{status: http.StatusBadRequest, response: `{"detail":"Roll number already exists"}`}
	c := newTestClient(t, fb)

	err := c.CreateStudent(context.Background(), &dto.CreateStudentRequest{Name: "A"})
	var be *apperrors.BackendError
	if !errors.As(err, &be) {
		t.Fatalf("error = %v, want BackendError", err)
	}
	if be.StatusCode != http.StatusBadRequest || be.Detail != "Roll number already exists" {
		t.Fatalf("BackendError = %+v", be)
	}
}

func TestCreateResultRejectedWithoutDetail(t *testing.T) {
	fb := &fakeBackend{status: http.StatusInternalServerError, response: `Internal Server Error`}
	c := newTestClient(t, fb)

	err := c.CreateResult(context.Background(), &dto.CreateResultRequest{StudentID: "s", CourseID: "c"})
	if got := apperrors.UserMessage(err); got != "Failed" {
		t.Fatalf("UserMessage() = %q, want Failed", got)
	}
}

func TestGetGradeSheetQuery(t *testing.T) {
	tests := []struct {
		name   string
		filter dto.GradeSheetFilter
		query  string
	}{
		{"no filters", dto.GradeSheetFilter{}, ""},
		{"semester only", dto.GradeSheetFilter{Semester: "2"}, "semester=2"},
		{"year only", dto.GradeSheetFilter{Year: "2024"}, "year=2024"},
		{"both", dto.GradeSheetFilter{Semester: "1", Year: "2024"}, "semester=1&year=2024"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fb := &fakeBackend{response: `{"sgpa":3.5,"results":[{"course_id":"c1","score":88,"grade":"A","grade_point":4,"semester":2,"year":2024}]}`}
			c := newTestClient(t, fb)

			sheet, err := c.GetGradeSheet(context.Background(), "abc123", tt.filter)
			if err != nil {
				t.Fatalf("GetGradeSheet() error = %v", err)
			}
			if sheet.SGPA != 3.5 || len(sheet.Results) != 1 || sheet.Results[0].Grade != "A" {
				t.Fatalf("sheet = %+v", sheet)
			}
			if sheet.StudentID != "abc123" {
				t.Fatalf("StudentID = %q", sheet.StudentID)
			}

			got := fb.all()[0]
			if got.Path != "/api/gradesheet/abc123" || got.Query != tt.query {
				t.Fatalf("request = %s?%s, want /api/gradesheet/abc123?%s", got.Path, got.Query, tt.query)
			}
		})
	}
}

func TestDecodeFailure(t *testing.T) {
	fb := &fakeBackend{response: `{not json`}
	c := newTestClient(t, fb)

	_, err := c.ListCourses(context.Background())
	if !errors.Is(err, apperrors.ErrDecodeFailed) {
		t.Fatalf("error = %v, want ErrDecodeFailed", err)
	}
}

func TestUnavailableBackend(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	c := NewClient(url, time.Second, zerolog.Nop())
	_, err := c.ListCourses(context.Background())
	if !errors.Is(err, apperrors.ErrBackendUnavailable) {
		t.Fatalf("error = %v, want ErrBackendUnavailable", err)
	}
}

func TestCanceledRequest(t *testing.T) {
	block := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-block:
		case <-r.Context().Done():
		}
	}))
	t.Cleanup(func() {
		close(block)
		srv.Close()
	})

	c := NewClient(srv.URL, 5*time.Second, zerolog.Nop())
	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(20 * time.Millisecond)
		cancel()
	}()

	_, err := c.ListCourses(ctx)
	if !IsCanceled(err) {
		t.Fatalf("error = %v, want context.Canceled", err)
	}
}
