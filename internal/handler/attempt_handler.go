package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/paperprep/paperprep-backend/internal/exam"
	"github.com/paperprep/paperprep-backend/internal/middleware"
	"github.com/paperprep/paperprep-backend/internal/model"
	"github.com/paperprep/paperprep-backend/internal/response"
	"github.com/paperprep/paperprep-backend/internal/service"
	"github.com/paperprep/paperprep-backend/internal/validator"
)

// AttemptHandler handles quiz attempts: starting, answering, submitting and
// reviewing results.
type AttemptHandler struct {
	sessions *service.ExamSessionService
}

// NewAttemptHandler creates a new AttemptHandler.
func NewAttemptHandler(sessions *service.ExamSessionService) *AttemptHandler {
	return &AttemptHandler{sessions: sessions}
}

// attemptOp runs one session operation for the authenticated owner.
type attemptOp func(c *gin.Context, id uuid.UUID, userID int) (*service.AttemptView, error)

// withAttempt resolves claims and the :id param before calling op.
func (h *AttemptHandler) withAttempt(op attemptOp) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims := middleware.GetClaims(c)
		if claims == nil {
			response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
			return
		}

		id, err := uuid.Parse(c.Param("id"))
		if err != nil {
			response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
			return
		}

		view, err := op(c, id, claims.UserID)
		if err != nil {
			if !c.IsAborted() && !c.Writer.Written() {
				failWith(c, err)
			}
			return
		}
		response.Success(c, http.StatusOK, gin.H{"attempt": view})
	}
}

// errBound marks a request already answered with a validation error.
type errBound struct{}

func (errBound) Error() string { return "request rejected" }

func bindOrFail(c *gin.Context, dst any) error {
	if fields := validator.Bind(c, dst); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return errBound{}
	}
	return nil
}

// Start godoc
// POST /api/v1/attempts
// Starts an attempt from a paper or practice filter.
func (h *AttemptHandler) Start(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	var req model.StartAttemptRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	view, err := h.sessions.Start(c.Request.Context(), claims.UserID, req)
	if err != nil {
		failWith(c, err)
		return
	}

	response.Success(c, http.StatusCreated, gin.H{"attempt": view})
}

// Get godoc
// GET /api/v1/attempts/:id
// Returns the current question, palette and remaining time.
func (h *AttemptHandler) Get(c *gin.Context) {
	h.withAttempt(func(c *gin.Context, id uuid.UUID, uid int) (*service.AttemptView, error) {
		return h.sessions.Get(c.Request.Context(), id, uid)
	})(c)
}

// Active godoc
// GET /api/v1/me/attempts/active
// Returns the user's running attempt so it can be resumed.
func (h *AttemptHandler) Active(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	view, err := h.sessions.Active(c.Request.Context(), claims.UserID)
	if err != nil {
		failWith(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"attempt": view})
}

// Select godoc
// POST /api/v1/attempts/:id/select
// Sets the draft answer of the current question.
func (h *AttemptHandler) Select(c *gin.Context) {
	h.withAttempt(func(c *gin.Context, id uuid.UUID, uid int) (*service.AttemptView, error) {
		var req model.SelectOptionRequest
		if err := bindOrFail(c, &req); err != nil {
			return nil, err
		}
		return h.sessions.Select(c.Request.Context(), id, uid, req.Option)
	})(c)
}

// Review godoc
// POST /api/v1/attempts/:id/review
// Sets the draft review flag of the current question.
func (h *AttemptHandler) Review(c *gin.Context) {
	h.withAttempt(func(c *gin.Context, id uuid.UUID, uid int) (*service.AttemptView, error) {
		var req model.ReviewFlagRequest
		if err := bindOrFail(c, &req); err != nil {
			return nil, err
		}
		return h.sessions.SetReview(c.Request.Context(), id, uid, *req.Marked)
	})(c)
}

// Clear godoc
// POST /api/v1/attempts/:id/clear
// Clears the draft answer of the current question.
func (h *AttemptHandler) Clear(c *gin.Context) {
	h.withAttempt(func(c *gin.Context, id uuid.UUID, uid int) (*service.AttemptView, error) {
		return h.sessions.Clear(c.Request.Context(), id, uid)
	})(c)
}

// SaveNext godoc
// POST /api/v1/attempts/:id/save-next
func (h *AttemptHandler) SaveNext(c *gin.Context) {
	h.withAttempt(func(c *gin.Context, id uuid.UUID, uid int) (*service.AttemptView, error) {
		return h.sessions.SaveAndNext(c.Request.Context(), id, uid)
	})(c)
}

// SaveMark godoc
// POST /api/v1/attempts/:id/save-mark
func (h *AttemptHandler) SaveMark(c *gin.Context) {
	h.withAttempt(func(c *gin.Context, id uuid.UUID, uid int) (*service.AttemptView, error) {
		return h.sessions.SaveAndMark(c.Request.Context(), id, uid)
	})(c)
}

// Navigate godoc
// POST /api/v1/attempts/:id/navigate
// Saves the draft and jumps to a zero-based question index.
func (h *AttemptHandler) Navigate(c *gin.Context) {
	h.withAttempt(func(c *gin.Context, id uuid.UUID, uid int) (*service.AttemptView, error) {
		var req model.NavigateRequest
		if err := bindOrFail(c, &req); err != nil {
			return nil, err
		}
		return h.sessions.Navigate(c.Request.Context(), id, uid, *req.Index)
	})(c)
}

// Submit godoc
// POST /api/v1/attempts/:id/submit
// Finishes the attempt and returns its result.
func (h *AttemptHandler) Submit(c *gin.Context) {
	h.withAttempt(func(c *gin.Context, id uuid.UUID, uid int) (*service.AttemptView, error) {
		return h.sessions.Submit(c.Request.Context(), id, uid)
	})(c)
}

// Result godoc
// GET /api/v1/attempts/:id/result?sort=all|correct|incorrect|skipped
func (h *AttemptHandler) Result(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	var q model.ResultQuery
	if fields := validator.BindQuery(c, &q); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	res, err := h.sessions.Result(c.Request.Context(), id, claims.UserID, exam.ParseSortOrder(q.Sort))
	if err != nil {
		failWith(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"result": res})
}

// History godoc
// GET /api/v1/me/attempts?page=&per_page=
// Lists the user's submitted attempts, most recent first.
func (h *AttemptHandler) History(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	var q model.AttemptHistoryQuery
	if fields := validator.BindQuery(c, &q); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	items, pagination, err := h.sessions.History(c.Request.Context(), claims.UserID, q)
	if err != nil {
		failWith(c, err)
		return
	}
	if items == nil {
		items = []model.AttemptSummary{}
	}
	response.SuccessWithPagination(c, http.StatusOK, gin.H{"attempts": items}, pagination)
}
