package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/paperprep/paperprep-backend/internal/model"
	"github.com/paperprep/paperprep-backend/internal/response"
	"github.com/paperprep/paperprep-backend/internal/service"
	"github.com/paperprep/paperprep-backend/internal/validator"
)

// PredictionHandler exposes the question prediction model.
type PredictionHandler struct {
	predictions *service.PredictionService
}

// NewPredictionHandler creates a new PredictionHandler.
func NewPredictionHandler(predictions *service.PredictionService) *PredictionHandler {
	return &PredictionHandler{predictions: predictions}
}

// Predict godoc
// POST /api/v1/predictions
// Predicts likely questions from historical paper data.
func (h *PredictionHandler) Predict(c *gin.Context) {
	var req model.PredictionRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	res, err := h.predictions.Predict(c.Request.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrPredictionUnavailable):
			response.Fail(c, http.StatusServiceUnavailable, response.ErrPredictionUnavailable)
		case errors.Is(err, service.ErrPredictionFailed):
			_ = c.Error(err)
			response.Fail(c, http.StatusBadGateway, response.ErrPredictionFailed)
		default:
			_ = c.Error(err)
			response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		}
		return
	}

	response.Success(c, http.StatusOK, res)
}
