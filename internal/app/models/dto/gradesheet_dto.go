package dto

import (
	"strconv"
	"strings"

	"github.com/yigit/gradedesk/internal/app/models"
	"github.com/yigit/gradedesk/internal/pkg/validation"
)

// GradeSheetFilter holds the optional term filters of a grade sheet lookup.
// Empty fields are left out of the query string.
type GradeSheetFilter struct {
	Semester string
	Year     string
}

// gradeSheetTerm bounds the filters like the Add Student form bounds its fields
type gradeSheetTerm struct {
	Semester *int `label:"Semester" validate:"omitempty,min=1,max=12"`
	Year     *int `label:"Year" validate:"omitempty,min=2000,max=2100"`
}

// NewGradeSheetFilter normalizes the optional filters of a grade query
func NewGradeSheetFilter(q models.GradeQuery) (GradeSheetFilter, error) {
	semester, err := optionalInt("Semester", q.Semester)
	if err != nil {
		return GradeSheetFilter{}, err
	}
	year, err := optionalInt("Year", q.Year)
	if err != nil {
		return GradeSheetFilter{}, err
	}
	if err := validation.Struct(gradeSheetTerm{Semester: semester, Year: year}); err != nil {
		return GradeSheetFilter{}, err
	}
	return GradeSheetFilter{Semester: itoa(semester), Year: itoa(year)}, nil
}

func itoa(n *int) string {
	if n == nil {
		return ""
	}
	return strconv.Itoa(*n)
}

// HasStudent reports whether a student has been selected
func HasStudent(q models.GradeQuery) bool {
	return strings.TrimSpace(q.StudentID) != ""
}
