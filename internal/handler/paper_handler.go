package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/paperprep/paperprep-backend/internal/model"
	"github.com/paperprep/paperprep-backend/internal/response"
	"github.com/paperprep/paperprep-backend/internal/service"
	"github.com/paperprep/paperprep-backend/internal/validator"
)

// PaperHandler serves the public paper catalog.
type PaperHandler struct {
	catalog *service.CatalogService
}

// NewPaperHandler creates a new PaperHandler.
func NewPaperHandler(catalog *service.CatalogService) *PaperHandler {
	return &PaperHandler{catalog: catalog}
}

// ListPapers godoc
// GET /api/v1/papers?exam=&year=&page=&per_page=
// Lists papers with pagination, newest first.
func (h *PaperHandler) ListPapers(c *gin.Context) {
	var q model.PaperListQuery
	if fields := validator.BindQuery(c, &q); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	papers, pagination, err := h.catalog.ListPapers(c.Request.Context(), q)
	if err != nil {
		failWith(c, err)
		return
	}

	response.SuccessWithPagination(c, http.StatusOK, gin.H{"papers": papers}, pagination)
}

// GetPaper godoc
// GET /api/v1/papers/:id
func (h *PaperHandler) GetPaper(c *gin.Context) {
	paper, err := h.catalog.GetPaper(c.Request.Context(), c.Param("id"))
	if err != nil {
		failWith(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"paper": paper})
}

// ListPaperSubjects godoc
// GET /api/v1/papers/:id/subjects
func (h *PaperHandler) ListPaperSubjects(c *gin.Context) {
	subjects, err := h.catalog.ListPaperSubjects(c.Request.Context(), c.Param("id"))
	if err != nil {
		failWith(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"subjects": nonNilStrings(subjects)})
}

// ListSubjects godoc
// GET /api/v1/subjects
// Lists every subject in the catalog for the practice filter.
func (h *PaperHandler) ListSubjects(c *gin.Context) {
	subjects, err := h.catalog.ListSubjects(c.Request.Context())
	if err != nil {
		failWith(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"subjects": nonNilStrings(subjects)})
}

func nonNilStrings(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
