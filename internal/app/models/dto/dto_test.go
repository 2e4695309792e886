package dto

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/yigit/gradedesk/internal/app/models"
	"github.com/yigit/gradedesk/internal/pkg/apperrors"
)

func validStudentForm() models.StudentForm {
	return models.StudentForm{
		Name:       "Ada Lovelace",
		Email:      "ada@example.edu",
		RollNumber: "CS-001",
		Department: "CS",
		Semester:   "3",
		Year:       "2024",
	}
}

func TestNewCreateStudentRequestCoercesNumbers(t *testing.T) {
	req, err := NewCreateStudentRequest(validStudentForm())
	if err != nil {
		t.Fatalf("NewCreateStudentRequest() error = %v", err)
	}

	body, _ := json.Marshal(req)
	want := `{"name":"Ada Lovelace","email":"ada@example.edu","roll_number":"CS-001","department":"CS","semester":3,"year":2024}`
	if string(body) != want {
		t.Fatalf("body = %s\nwant  %s", body, want)
	}
}

func TestNewCreateStudentRequestRejects(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*models.StudentForm)
		want   string
	}{
		{"missing name", func(f *models.StudentForm) { f.Name = "" }, "Name is required"},
		{"bad email", func(f *models.StudentForm) { f.Email = "ada" }, "Email must be a valid email address"},
		{"semester too high", func(f *models.StudentForm) { f.Semester = "13" }, "Semester must be at most 12"},
		{"semester blank", func(f *models.StudentForm) { f.Semester = " " }, "Semester is required"},
		{"year text", func(f *models.StudentForm) { f.Year = "twenty" }, "Year must be a whole number"},
		{"year too low", func(f *models.StudentForm) { f.Year = "1999" }, "Year must be at least 2000"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			form := validStudentForm()
			tt.mutate(&form)
			_, err := NewCreateStudentRequest(form)
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !errors.Is(err, apperrors.ErrValidationFailed) {
				t.Fatalf("error %v is not a validation error", err)
			}
			if got := apperrors.UserMessage(err); got != tt.want {
				t.Fatalf("message = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestNewCreateCourseRequest(t *testing.T) {
	req, err := NewCreateCourseRequest(models.CourseForm{Code: "CS101", Title: "Intro", Credits: "3"})
	if err != nil {
		t.Fatalf("NewCreateCourseRequest() error = %v", err)
	}
	body, _ := json.Marshal(req)
	if want := `{"code":"CS101","title":"Intro","credits":3}`; string(body) != want {
		t.Fatalf("body = %s, want %s", body, want)
	}

	if _, err := NewCreateCourseRequest(models.CourseForm{Code: "X", Title: "Y", Credits: "2.5"}); err != nil {
		t.Fatalf("half credit rejected: %v", err)
	}
	if _, err := NewCreateCourseRequest(models.CourseForm{Code: "X", Title: "Y", Credits: "2.3"}); err == nil {
		t.Fatal("expected 2.3 credits to be rejected")
	}
	if _, err := NewCreateCourseRequest(models.CourseForm{Code: "X", Title: "Y", Credits: "-1"}); err == nil {
		t.Fatal("expected negative credits to be rejected")
	}
}

func TestNewCreateResultRequest(t *testing.T) {
	form := models.ResultForm{StudentID: "s1", CourseID: "c1", Score: "87", Semester: "2", Year: "2025"}
	req, err := NewCreateResultRequest(form)
	if err != nil {
		t.Fatalf("NewCreateResultRequest() error = %v", err)
	}
	body, _ := json.Marshal(req)
	if want := `{"student_id":"s1","course_id":"c1","score":87,"semester":2,"year":2025}`; string(body) != want {
		t.Fatalf("body = %s, want %s", body, want)
	}

	form.CourseID = ""
	if _, err := NewCreateResultRequest(form); apperrors.UserMessage(err) != "Course is required" {
		t.Fatalf("missing course: got %v", err)
	}

	form.CourseID = "c1"
	form.Score = "101"
	if _, err := NewCreateResultRequest(form); apperrors.UserMessage(err) != "Score must be at most 100" {
		t.Fatalf("score over 100: got %v", err)
	}
}

func TestNewGradeSheetFilter(t *testing.T) {
	f, err := NewGradeSheetFilter(models.GradeQuery{StudentID: "abc123", Semester: " 2 ", Year: ""})
	if err != nil {
		t.Fatalf("NewGradeSheetFilter() error = %v", err)
	}
	if f.Semester != "2" || f.Year != "" {
		t.Fatalf("filter = %+v, want semester 2 and blank year", f)
	}

	if _, err := NewGradeSheetFilter(models.GradeQuery{Year: "next"}); err == nil {
		t.Fatal("expected non-numeric year to be rejected")
	}
}

func TestNewGradeSheetFilterBounds(t *testing.T) {
	tests := []struct {
		name  string
		query models.GradeQuery
		want  string
	}{
		{"semester zero", models.GradeQuery{Semester: "0"}, "Semester must be at least 1"},
		{"semester negative", models.GradeQuery{Semester: "-5"}, "Semester must be at least 1"},
		{"semester too high", models.GradeQuery{Semester: "13"}, "Semester must be at most 12"},
		{"year too low", models.GradeQuery{Year: "1999"}, "Year must be at least 2000"},
		{"year too high", models.GradeQuery{Year: "2101"}, "Year must be at most 2100"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewGradeSheetFilter(tt.query)
			if !errors.Is(err, apperrors.ErrValidationFailed) {
				t.Fatalf("error = %v, want validation error", err)
			}
			if got := apperrors.UserMessage(err); got != tt.want {
				t.Fatalf("message = %q, want %q", got, tt.want)
			}
		})
	}

	f, err := NewGradeSheetFilter(models.GradeQuery{Semester: "12", Year: "2100"})
	if err != nil || f.Semester != "12" || f.Year != "2100" {
		t.Fatalf("upper bounds: filter = %+v, err = %v", f, err)
	}
}
