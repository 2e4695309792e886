package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yigit/gradedesk/internal/app/models/dto"
	"github.com/yigit/gradedesk/internal/pkg/apperrors"
)

// HandleAPIError handles common API errors and returns appropriate responses
func HandleAPIError(c *gin.Context, err error) {
	var ce *apperrors.CustomError
	hasCustom := errors.As(err, &ce)

	switch {
	case errors.Is(err, apperrors.ErrResourceNotFound):
		message := "Resource not found"
		if hasCustom && ce.Message != "" {
			message = ce.Message
		}
		c.JSON(http.StatusNotFound, dto.NewErrorResponse(
			dto.NewErrorDetail(dto.ErrorCodeResourceNotFound, message),
		))
	case errors.Is(err, apperrors.ErrValidationFailed):
		detail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, apperrors.UserMessage(err)).
			WithSeverity(dto.ErrorSeverityWarning)
		if hasCustom && ce.Field != "" {
			detail = detail.WithField(ce.Field)
		}
		c.JSON(http.StatusBadRequest, dto.NewErrorResponse(detail))
	case errors.Is(err, apperrors.ErrSessionNotFound):
		c.JSON(http.StatusNotFound, dto.NewErrorResponse(
			dto.NewErrorDetail(dto.ErrorCodeSessionNotFound, "Session not found"),
		))
	case apperrors.Is(err, apperrors.ErrBackendUnavailable, apperrors.ErrBackendRejected, apperrors.ErrDecodeFailed):
		c.JSON(http.StatusBadGateway, dto.NewErrorResponse(
			dto.NewErrorDetail(dto.ErrorCodeExternalServiceError, apperrors.UserMessage(err)),
		))
	default:
		c.JSON(http.StatusInternalServerError, dto.NewErrorResponse(
			dto.NewErrorDetail(dto.ErrorCodeInternalServer, "Internal server error"),
		))
	}
}
