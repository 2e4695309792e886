package models

// GradeSheetRow is one recorded result inside a grade sheet.
// Grade and grade point are computed by the backend.
type GradeSheetRow struct {
	CourseID   string  `json:"course_id"`
	Score      float64 `json:"score"`
	Grade      string  `json:"grade"`
	GradePoint float64 `json:"grade_point"`
	Semester   int     `json:"semester"`
	Year       int     `json:"year"`
}

// GradeSheet is a per-student, optionally term-filtered, report with its SGPA.
type GradeSheet struct {
	StudentID string          `json:"student_id,omitempty"`
	SGPA      float64         `json:"sgpa"`
	Results   []GradeSheetRow `json:"results"`
}
