package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "rein-coach/internal/common/errors"
)

type APIError struct {
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
	Stage   string `json:"stage,omitempty"`
}

type ErrorEnvelope struct {
	Error APIError `json:"error"`
}

// RespondError writes err with the status its code maps to.
func RespondError(c *gin.Context, err error) {
	code := apperrors.CodeOf(err)
	c.JSON(statusFor(code), ErrorEnvelope{
		Error: APIError{
			Message: err.Error(),
			Code:    string(code),
			Stage:   apperrors.StageOf(err),
		},
	})
}

func RespondOK(c *gin.Context, payload any) {
	c.JSON(http.StatusOK, payload)
}

// statusFor maps error codes to HTTP statuses: provider failures are 502,
// unusable model output is 422, bad requests are 400.
func statusFor(code apperrors.ErrorCode) int {
	switch code {
	case apperrors.ErrCodeTransport:
		return http.StatusBadGateway
	case apperrors.ErrCodeExtraction, apperrors.ErrCodeParse:
		return http.StatusUnprocessableEntity
	case apperrors.ErrCodeInvalidInput:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
