package dto

import (
	"github.com/yigit/gradedesk/internal/app/models"
	"github.com/yigit/gradedesk/internal/pkg/validation"
)

// CreateCourseRequest is the body of POST /api/courses
type CreateCourseRequest struct {
	Code    string  `json:"code" label:"Course code" validate:"required"`
	Title   string  `json:"title" label:"Title" validate:"required"`
	Credits float64 `json:"credits" label:"Credits" validate:"min=0,halfstep"`
}

// NewCreateCourseRequest coerces the Add Course form into a request body
func NewCreateCourseRequest(form models.CourseForm) (*CreateCourseRequest, error) {
	credits, err := parseRequiredFloat("Credits", form.Credits)
	if err != nil {
		return nil, err
	}

	req := &CreateCourseRequest{
		Code:    form.Code,
		Title:   form.Title,
		Credits: credits,
	}
	if err := validation.Struct(req); err != nil {
		return nil, err
	}
	return req, nil
}
