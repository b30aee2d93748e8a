package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/paperprep/paperprep-backend/internal/exam"
	"github.com/paperprep/paperprep-backend/internal/response"
	"github.com/paperprep/paperprep-backend/internal/service"
)

// errorStatus maps domain errors to an HTTP status and error code.
func errorStatus(err error) (int, response.ErrCode) {
	switch {
	case errors.Is(err, service.ErrNoQuestions), errors.Is(err, exam.ErrEmptySession):
		return http.StatusNotFound, response.ErrNoQuestions
	case errors.Is(err, service.ErrAttemptNotFound), errors.Is(err, service.ErrPaperNotFound):
		return http.StatusNotFound, response.ErrNotFound
	case errors.Is(err, service.ErrAttemptForbidden):
		return http.StatusForbidden, response.ErrForbidden
	case errors.Is(err, service.ErrResultNotReady):
		return http.StatusConflict, response.ErrResultNotReady
	case errors.Is(err, exam.ErrSessionSubmitted):
		return http.StatusConflict, response.ErrSessionSubmitted
	case errors.Is(err, exam.ErrIndexOutOfRange):
		return http.StatusUnprocessableEntity, response.ErrInvalidQuestionIndex
	case errors.Is(err, exam.ErrUnknownOption):
		return http.StatusUnprocessableEntity, response.ErrUnknownOption
	default:
		return http.StatusInternalServerError, response.ErrInternal
	}
}

// failWith writes the envelope for err, logging unexpected errors.
func failWith(c *gin.Context, err error) {
	status, code := errorStatus(err)
	if status == http.StatusInternalServerError {
		_ = c.Error(err)
	}
	response.Fail(c, status, code)
}
