package dto

import (
	"github.com/yigit/gradedesk/internal/app/models"
	"github.com/yigit/gradedesk/internal/pkg/validation"
)

// CreateResultRequest is the body of POST /api/results.
// Grade and grade point are left to the backend.
type CreateResultRequest struct {
	StudentID string  `json:"student_id" label:"Student" validate:"required"`
	CourseID  string  `json:"course_id" label:"Course" validate:"required"`
	Score     float64 `json:"score" label:"Score" validate:"min=0,max=100"`
	Semester  int     `json:"semester" label:"Semester" validate:"min=1,max=12"`
	Year      int     `json:"year" label:"Year" validate:"min=2000,max=2100"`
}

// NewCreateResultRequest coerces the Add Result form into a request body
func NewCreateResultRequest(form models.ResultForm) (*CreateResultRequest, error) {
	score, err := parseRequiredFloat("Score", form.Score)
	if err != nil {
		return nil, err
	}
	semester, err := parseRequiredInt("Semester", form.Semester)
	if err != nil {
		return nil, err
	}
	year, err := parseRequiredInt("Year", form.Year)
	if err != nil {
		return nil, err
	}

	req := &CreateResultRequest{
		StudentID: form.StudentID,
		CourseID:  form.CourseID,
		Score:     score,
		Semester:  semester,
		Year:      year,
	}
	if err := validation.Struct(req); err != nil {
		return nil, err
	}
	return req, nil
}
