package handler

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/paperprep/paperprep-backend/internal/middleware"
	"github.com/paperprep/paperprep-backend/internal/response"
	"github.com/paperprep/paperprep-backend/internal/service"
	ws "github.com/paperprep/paperprep-backend/internal/websocket"
	"github.com/rs/zerolog"
)

const tickInterval = time.Second

// buildUpgrader creates a WebSocket upgrader with origin validation.
// allowedOrigins comes from config.Config.AllowedOrigins.
// An empty slice permits all origins (development mode).
func buildUpgrader(allowedOrigins []string) websocket.Upgrader {
	return websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			if len(allowedOrigins) == 0 {
				return true
			}
			origin := r.Header.Get("Origin")
			for _, allowed := range allowedOrigins {
				if strings.EqualFold(allowed, origin) {
					return true
				}
			}
			return false
		},
	}
}

// WSHandler streams an attempt over a WebSocket: the countdown ticks
// server-side and every client action is answered with the new state.
type WSHandler struct {
	sessions *service.ExamSessionService
	log      zerolog.Logger
	upgrader websocket.Upgrader
	tick     time.Duration
}

// NewWSHandler creates a new WSHandler.
func NewWSHandler(sessions *service.ExamSessionService, log zerolog.Logger, allowedOrigins []string) *WSHandler {
	return &WSHandler{
		sessions: sessions,
		log:      log.With().Str("component", "ws_handler").Logger(),
		upgrader: buildUpgrader(allowedOrigins),
		tick:     tickInterval,
	}
}

// AttemptStream godoc
// WS /ws/v1/attempts/:id/stream?token=
// Upgrades to WebSocket for the live countdown and attempt actions.
func (h *WSHandler) AttemptStream(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	attemptID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	// Ownership is checked before the upgrade so failures stay plain HTTP.
	view, err := h.sessions.Get(c.Request.Context(), attemptID, claims.UserID)
	if err != nil {
		failWith(c, err)
		return
	}

	raw, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.log.Error().Err(err).Msg("WebSocket upgrade failed")
		return
	}
	conn := ws.NewConn(raw)
	defer conn.Close()

	wsLog := h.log.With().
		Int("user_id", claims.UserID).
		Str("attempt_id", attemptID.String()).
		Logger()
	wsLog.Info().Msg("Client connected")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	s := &stream{
		h:       h,
		conn:    conn,
		attempt: attemptID,
		userID:  claims.UserID,
		log:     wsLog,
	}

	if !s.sendView(view) || view.Submitted {
		return
	}

	go s.countdown(ctx)
	s.readLoop(ctx)

	wsLog.Info().Msg("Client disconnected")
}

// stream is one connected attempt.
type stream struct {
	h       *WSHandler
	conn    *ws.Conn
	attempt uuid.UUID
	userID  int
	log     zerolog.Logger
}

// countdown refreshes the attempt once per tick. The refresh runs the same
// catch-up as any other operation, so the deadline is enforced here even
// when the client is idle. A failed refresh is reported once and retried on
// the next tick; only a missing or foreign attempt ends the stream.
func (s *stream) countdown(ctx context.Context) {
	ticker := time.NewTicker(s.h.tick)
	defer ticker.Stop()

	failing := false
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			view, err := s.h.sessions.Get(ctx, s.attempt, s.userID)
			if err != nil {
				if ctx.Err() != nil {
					return
				}
				if isTerminal(err) {
					s.sendError(err)
					_ = s.conn.Close()
					return
				}
				if !failing {
					failing = true
					s.log.Warn().Err(err).Msg("Countdown refresh failed")
					if !s.sendError(err) {
						return
					}
				}
				continue
			}
			if failing {
				failing = false
				s.log.Info().Msg("Countdown refresh recovered")
			}

			if view.Submitted {
				s.sendView(view)
				_ = s.conn.Close()
				return
			}

			if err := s.conn.WriteTyped(ws.TickResponse{
				Event:     ws.EventTick,
				Remaining: view.RemainingSeconds,
			}); err != nil {
				return
			}
		}
	}
}

func (s *stream) readLoop(ctx context.Context) {
	for {
		var msg ws.Request
		if err := s.conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				s.log.Warn().Err(err).Msg("Unexpected close")
			} else {
				s.log.Debug().Msg("Connection closed")
			}
			return
		}

		if msg.Action == ws.ActionPing {
			_ = s.conn.WriteTyped(ws.PongResponse{Event: ws.EventPong})
			continue
		}

		view, err := s.dispatch(ctx, msg)
		if err != nil {
			if !s.sendError(err) {
				return
			}
			continue
		}

		if !s.sendView(view) || view.Submitted {
			return
		}
	}
}

func (s *stream) dispatch(ctx context.Context, msg ws.Request) (*service.AttemptView, error) {
	svc := s.h.sessions
	switch msg.Action {
	case ws.ActionSync:
		return svc.Get(ctx, s.attempt, s.userID)
	case ws.ActionSelect:
		if msg.Option == "" {
			return nil, errBadRequest
		}
		return svc.Select(ctx, s.attempt, s.userID, msg.Option)
	case ws.ActionReview:
		if msg.Marked == nil {
			return nil, errBadRequest
		}
		return svc.SetReview(ctx, s.attempt, s.userID, *msg.Marked)
	case ws.ActionClear:
		return svc.Clear(ctx, s.attempt, s.userID)
	case ws.ActionSaveNext:
		return svc.SaveAndNext(ctx, s.attempt, s.userID)
	case ws.ActionSaveMark:
		return svc.SaveAndMark(ctx, s.attempt, s.userID)
	case ws.ActionNavigate:
		if msg.Index == nil {
			return nil, errBadRequest
		}
		return svc.Navigate(ctx, s.attempt, s.userID, *msg.Index)
	case ws.ActionSubmit:
		return svc.Submit(ctx, s.attempt, s.userID)
	default:
		return nil, errBadRequest
	}
}

// sendView writes the notices, then the state or the final result.
// It reports whether the connection is still writable.
func (s *stream) sendView(view *service.AttemptView) bool {
	for _, n := range view.Notices {
		if err := s.conn.WriteTyped(ws.NoticeResponse{
			Event:   ws.EventNotice,
			Code:    string(n.Code),
			Message: n.Message,
		}); err != nil {
			return false
		}
	}

	if view.Submitted {
		return s.conn.WriteTyped(ws.SubmittedResponse{Event: ws.EventSubmitted, Result: view}) == nil
	}
	return s.conn.WriteTyped(ws.StateResponse{Event: ws.EventState, State: view}) == nil
}

func (s *stream) sendError(err error) bool {
	code := response.ErrInvalidPayload
	if !errors.Is(err, errBadRequest) {
		_, code = errorStatus(err)
		if code == response.ErrInternal {
			s.log.Error().Err(err).Msg("Attempt action failed")
		}
	}
	return s.conn.WriteError(string(code), response.GetMessage(code)) == nil
}

// isTerminal reports whether err means the attempt can no longer be
// streamed to this client.
func isTerminal(err error) bool {
	return errors.Is(err, service.ErrAttemptNotFound) || errors.Is(err, service.ErrAttemptForbidden)
}

// errBadRequest marks a malformed client message.
var errBadRequest = errors.New("malformed message")
