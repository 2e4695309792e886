package models

import "time"

// StatusKind selects how a status is presented
type StatusKind string

const (
	StatusInfo    StatusKind = "info"
	StatusSuccess StatusKind = "success"
	StatusError   StatusKind = "error"
	StatusWarning StatusKind = "warning"
)

// Operation identifies the console action that produced a status
type Operation string

const (
	OpListStudents   Operation = "students.list"
	OpListCourses    Operation = "courses.list"
	OpCreateStudent  Operation = "students.create"
	OpImportStudents Operation = "students.import"
	OpCreateCourse   Operation = "courses.create"
	OpCreateResult   Operation = "results.create"
	OpFetchGrades    Operation = "gradesheet.fetch"
)

// Status is the single slot holding the outcome of the most recent action.
type Status struct {
	Kind      StatusKind `json:"kind"`
	Message   string     `json:"message"`
	Operation Operation  `json:"operation,omitempty"`
	At        time.Time  `json:"at"`
}

// IsZero reports whether nothing has been recorded yet
func (s Status) IsZero() bool {
	return s.Message == ""
}

// InProgress reports whether the status is a transient informational one
func (s Status) InProgress() bool {
	return s.Kind == StatusInfo && s.Message != ""
}
