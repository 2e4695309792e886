package models

import (
	"strconv"
	"time"
)

// StudentForm holds the raw values of the Add Student form.
// Numeric fields stay as typed text until the form is submitted.
type StudentForm struct {
	Name       string `json:"name" form:"name"`
	Email      string `json:"email" form:"email"`
	RollNumber string `json:"roll_number" form:"roll_number"`
	Department string `json:"department" form:"department"`
	Semester   string `json:"semester" form:"semester"`
	Year       string `json:"year" form:"year"`
}

// CourseForm holds the raw values of the Add Course form
type CourseForm struct {
	Code    string `json:"code" form:"code"`
	Title   string `json:"title" form:"title"`
	Credits string `json:"credits" form:"credits"`
}

// ResultForm holds the raw values of the Add Result form
type ResultForm struct {
	StudentID string `json:"student_id" form:"student_id"`
	CourseID  string `json:"course_id" form:"course_id"`
	Score     string `json:"score" form:"score"`
	Semester  string `json:"semester" form:"semester"`
	Year      string `json:"year" form:"year"`
}

// GradeQuery selects the grade sheet to fetch. Semester and Year are optional filters.
type GradeQuery struct {
	StudentID string `json:"student_id" form:"student_id"`
	Semester  string `json:"semester" form:"semester"`
	Year      string `json:"year" form:"year"`
}

// Workspace is the per-session console state: the active view, the cached
// collections, every view's form, the last grade sheet and the status slot.
type Workspace struct {
	ID            string      `json:"id"`
	ActiveView    View        `json:"active_view"`
	Students      []Student   `json:"students"`
	Courses       []Course    `json:"courses"`
	StudentSearch string      `json:"student_search"`
	StudentForm   StudentForm `json:"student_form"`
	CourseForm    CourseForm  `json:"course_form"`
	ResultForm    ResultForm  `json:"result_form"`
	GradeQuery    GradeQuery  `json:"grade_query"`
	GradeSheet    *GradeSheet `json:"grade_sheet,omitempty"`
	// SheetQuery is the query GradeSheet was loaded with
	SheetQuery GradeQuery `json:"sheet_query"`
	Status        Status      `json:"status"`
	CreatedAt     time.Time   `json:"created_at"`
	UpdatedAt     time.Time   `json:"updated_at"`
}

// DefaultStudentForm returns an empty student form for the given date
func DefaultStudentForm(now time.Time) StudentForm {
	return StudentForm{Semester: "1", Year: strconv.Itoa(now.Year())}
}

// DefaultCourseForm returns an empty course form with three credits
func DefaultCourseForm() CourseForm {
	return CourseForm{Credits: "3"}
}

// DefaultResultForm returns a result form with blank selections
func DefaultResultForm(now time.Time) ResultForm {
	return ResultForm{Score: "0", Semester: "1", Year: strconv.Itoa(now.Year())}
}

// NewWorkspace creates a workspace with every form at its defaults
func NewWorkspace(id string, now time.Time) *Workspace {
	return &Workspace{
		ID:          id,
		ActiveView:  ViewStudents,
		Students:    []Student{},
		Courses:     []Course{},
		StudentForm: DefaultStudentForm(now),
		CourseForm:  DefaultCourseForm(),
		ResultForm:  DefaultResultForm(now),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// Draft is the unsubmitted input of the view being left. Nil forms are kept as they are.
type Draft struct {
	Student *StudentForm
	Course  *CourseForm
	Result  *ResultForm
	Grade   *GradeQuery
}

// Empty reports whether the draft carries no form
func (d Draft) Empty() bool {
	return d.Student == nil && d.Course == nil && d.Result == nil && d.Grade == nil
}

// KeepDraft stores a draft on the matching forms
func (w *Workspace) KeepDraft(d Draft) {
	if d.Student != nil {
		w.StudentForm = *d.Student
	}
	if d.Course != nil {
		w.CourseForm = *d.Course
	}
	if d.Result != nil {
		w.ResultForm = *d.Result
	}
	if d.Grade != nil {
		w.GradeQuery = *d.Grade
	}
}

// SetStatus overwrites the status slot
func (w *Workspace) SetStatus(kind StatusKind, op Operation, message string, now time.Time) {
	w.Status = Status{Kind: kind, Message: message, Operation: op, At: now}
}

// StudentByID finds a cached student
func (w *Workspace) StudentByID(id string) (Student, bool) {
	for _, s := range w.Students {
		if s.ID == id {
			return s, true
		}
	}
	return Student{}, false
}

// CourseByID finds a cached course
func (w *Workspace) CourseByID(id string) (Course, bool) {
	for _, c := range w.Courses {
		if c.ID == id {
			return c, true
		}
	}
	return Course{}, false
}
