package models

// View is one of the console's mutually exclusive tabs
type View string

const (
	ViewStudents     View = "students"
	ViewCourses      View = "courses"
	ViewResults      View = "results"
	ViewGradeSheet   View = "gradesheet"
	ViewConnectivity View = "connectivity"
)

// Views lists the tabs in display order
var Views = []View{ViewStudents, ViewCourses, ViewResults, ViewGradeSheet, ViewConnectivity}

var viewLabels = map[View]string{
	ViewStudents:     "Students",
	ViewCourses:      "Courses",
	ViewResults:      "Results",
	ViewGradeSheet:   "Grade Sheet",
	ViewConnectivity: "Connectivity Test",
}

// Label returns the tab caption
func (v View) Label() string {
	return viewLabels[v]
}

// Valid reports whether v names a known view
func (v View) Valid() bool {
	_, ok := viewLabels[v]
	return ok
}

// ParseView returns the named view, or false if it is unknown
func ParseView(name string) (View, bool) {
	v := View(name)
	return v, v.Valid()
}
