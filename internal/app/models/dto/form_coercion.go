package dto

import (
	"strconv"
	"strings"

	"github.com/yigit/gradedesk/internal/pkg/apperrors"
)

// parseRequiredInt converts a number input to an int. An empty input is
// reported as missing, the way a required HTML field would.
func parseRequiredInt(label, raw string) (int, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, apperrors.NewValidationError(label, label+" is required")
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, apperrors.NewValidationError(label, label+" must be a whole number")
	}
	return n, nil
}

func parseRequiredFloat(label, raw string) (float64, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, apperrors.NewValidationError(label, label+" is required")
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, apperrors.NewValidationError(label, label+" must be a number")
	}
	return f, nil
}

// optionalInt parses an optional number filter; blank gives nil.
func optionalInt(label, raw string) (*int, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return nil, apperrors.NewValidationError(label, label+" must be a whole number")
	}
	return &n, nil
}
