package services

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/rs/zerolog"
	"github.com/xuri/excelize/v2"

	"github.com/yigit/gradedesk/internal/app/models"
)

const gradeSheetName = "Grade Sheet"

var gradeSheetHeader = []interface{}{"Course", "Score", "Grade", "Grade Point", "Semester", "Year"}

// studentRow is one parsed line of a student import workbook
type studentRow struct {
	Line int
	Form models.StudentForm
}

// readStudentRows reads the first sheet of an uploaded workbook. Row 1 is the
// header; columns are name, email, roll number, department, semester, year.
// Blank rows are skipped.
func readStudentRows(r io.Reader, logger zerolog.Logger) ([]studentRow, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to open excel file: %w", err)
	}
	defer func() {
		if err := f.Close(); err != nil {
			logger.Warn().Err(err).Msg("error closing excel file")
		}
	}()

	sheetName := f.GetSheetName(0)
	if sheetName == "" {
		return nil, errors.New("excel file does not contain any sheets")
	}

	rows, err := f.GetRows(sheetName)
	if err != nil {
		return nil, fmt.Errorf("failed to get rows from sheet %s: %w", sheetName, err)
	}

	var out []studentRow
	for i, row := range rows {
		if i == 0 {
			continue // header
		}

		cell := func(n int) string {
			if n < len(row) {
				return strings.TrimSpace(row[n])
			}
			return ""
		}

		form := models.StudentForm{
			Name:       cell(0),
			Email:      cell(1),
			RollNumber: cell(2),
			Department: cell(3),
			Semester:   cell(4),
			Year:       cell(5),
		}
		if form == (models.StudentForm{}) {
			continue
		}
		out = append(out, studentRow{Line: i + 1, Form: form})
	}
	return out, nil
}

// writeGradeSheet writes sheet as a workbook to w. Course ids are replaced by
// course codes when the course is known.
func writeGradeSheet(w io.Writer, sheet *models.GradeSheet, courses []models.Course) error {
	f := excelize.NewFile()
	defer func() {
		_ = f.Close()
	}()

	if err := f.SetSheetName(f.GetSheetName(0), gradeSheetName); err != nil {
		return fmt.Errorf("failed to name sheet: %w", err)
	}

	codes := make(map[string]string, len(courses))
	for _, c := range courses {
		codes[c.ID] = c.Code
	}

	if err := f.SetSheetRow(gradeSheetName, "A1", &gradeSheetHeader); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	for i, row := range sheet.Results {
		course := row.CourseID
		if code, ok := codes[row.CourseID]; ok && code != "" {
			course = code
		}
		values := []interface{}{course, row.Score, row.Grade, row.GradePoint, row.Semester, row.Year}
		axis, _ := excelize.CoordinatesToCellName(1, i+2)
		if err := f.SetSheetRow(gradeSheetName, axis, &values); err != nil {
			return fmt.Errorf("failed to write row %d: %w", i+2, err)
		}
	}

	sgpaRow := len(sheet.Results) + 2
	labelCell, _ := excelize.CoordinatesToCellName(1, sgpaRow)
	valueCell, _ := excelize.CoordinatesToCellName(2, sgpaRow)
	if err := f.SetCellValue(gradeSheetName, labelCell, "SGPA"); err != nil {
		return err
	}
	if err := f.SetCellValue(gradeSheetName, valueCell, sheet.SGPA); err != nil {
		return err
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

// gradeSheetFilename names an exported grade sheet after the student and filters
func gradeSheetFilename(student models.Student, q models.GradeQuery) string {
	base := student.RollNumber
	if base == "" {
		base = q.StudentID
	}
	parts := []string{"gradesheet", sanitizeFilename(base)}
	if s := strings.TrimSpace(q.Semester); s != "" {
		parts = append(parts, "sem"+s)
	}
	if y := strings.TrimSpace(q.Year); y != "" {
		parts = append(parts, y)
	}
	return strings.Join(parts, "-") + ".xlsx"
}

func sanitizeFilename(s string) string {
	var b strings.Builder
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			b.WriteRune(r)
		default:
			b.WriteRune('_')
		}
	}
	if b.Len() == 0 {
		return "student"
	}
	return b.String()
}

// importSummary builds the status of a finished import
func importSummary(created, total int, failures []string) (models.StatusKind, string) {
	switch {
	case total == 0:
		return models.StatusError, "No students found in file"
	case created == total:
		return models.StatusSuccess, "Imported " + strconv.Itoa(created) + " students"
	case created == 0:
		return models.StatusError, "No students imported: " + strings.Join(failures, "; ")
	default:
		return models.StatusWarning, fmt.Sprintf("Imported %d of %d students: %s", created, total, strings.Join(failures, "; "))
	}
}
