package dto

import (
	"github.com/yigit/gradedesk/internal/app/models"
	"github.com/yigit/gradedesk/internal/pkg/validation"
)

// CreateStudentRequest is the body of POST /api/students
type CreateStudentRequest struct {
	Name       string `json:"name" label:"Name" validate:"required"`
	Email      string `json:"email" label:"Email" validate:"required,email"`
	RollNumber string `json:"roll_number" label:"Roll number" validate:"required"`
	Department string `json:"department" label:"Department" validate:"required"`
	Semester   int    `json:"semester" label:"Semester" validate:"min=1,max=12"`
	Year       int    `json:"year" label:"Year" validate:"min=2000,max=2100"`
}

// NewCreateStudentRequest coerces the Add Student form into a request body
func NewCreateStudentRequest(form models.StudentForm) (*CreateStudentRequest, error) {
	semester, err := parseRequiredInt("Semester", form.Semester)
	if err != nil {
		return nil, err
	}
	year, err := parseRequiredInt("Year", form.Year)
	if err != nil {
		return nil, err
	}

	req := &CreateStudentRequest{
		Name:       form.Name,
		Email:      form.Email,
		RollNumber: form.RollNumber,
		Department: form.Department,
		Semester:   semester,
		Year:       year,
	}
	if err := validation.Struct(req); err != nil {
		return nil, err
	}
	return req, nil
}
