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

// AdminHandler handles catalog maintenance endpoints.
type AdminHandler struct {
	catalog *service.CatalogService
}

// NewAdminHandler creates a new AdminHandler.
func NewAdminHandler(catalog *service.CatalogService) *AdminHandler {
	return &AdminHandler{catalog: catalog}
}

// ImportPaper godoc
// POST /api/v1/admin/papers/import
// Stores a complete paper with its passages and questions, replacing any
// previous version with the same id.
func (h *AdminHandler) ImportPaper(c *gin.Context) {
	var req model.ImportPaperRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	res, err := h.catalog.Import(c.Request.Context(), req)
	if err != nil {
		var ie *service.ImportError
		if errors.As(err, &ie) {
			response.FailWithFields(c, http.StatusUnprocessableEntity, response.ErrValidation, ie.Fields)
			return
		}
		_ = c.Error(err)
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusCreated, res)
}

// RefreshPaperCache godoc
// POST /api/v1/admin/papers/:id/refresh-cache
// Reloads the cached question set of one paper.
func (h *AdminHandler) RefreshPaperCache(c *gin.Context) {
	paperID := c.Param("id")
	if _, err := h.catalog.GetPaper(c.Request.Context(), paperID); err != nil {
		failWith(c, err)
		return
	}

	count, err := h.catalog.WarmPaperCache(c.Request.Context(), paperID)
	if err != nil {
		failWith(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"paper_id": paperID, "questions": count})
}
