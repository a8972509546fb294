package http

import (
	"errors"
	"io"
	"strings"

	"github.com/gin-gonic/gin"

	"content-pilot/internal/session"
	"content-pilot/pkg/response"
)

var errEmptyMessage = errors.New("message is empty")

type sendMessageReq struct {
	Message string `json:"message"`
}

// SendMessage godoc
// @Summary     Send a chat message
// @Description Sends a message into a session and streams loop events back as SSE. Use `new` as the session id to start a fresh session; the first event carries the assigned id.
// @Tags        Chat
// @Accept      json
// @Produce     text/event-stream
// @Param       id   path string         true "Session id, or `new`"
// @Param       body body sendMessageReq true "Message"
// @Success     200 {string} string "SSE event stream"
// @Failure     400 {object} response.Resp "Bad Request"
// @Failure     409 {object} response.Resp "Session busy"
// @Router      /api/v1/chat/sessions/{id}/messages [POST]
func (h *handler) SendMessage(c *gin.Context) {
	ctx := c.Request.Context()

	sessionID := c.Param("id")
	if sessionID == "new" {
		sessionID = ""
	}

	var req sendMessageReq
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithStatus(c, 400, err)
		return
	}
	if strings.TrimSpace(req.Message) == "" {
		response.ErrorWithStatus(c, 400, errEmptyMessage)
		return
	}

	// The request context doubles as the loop's cancellation signal: a
	// dropped connection aborts at the next suspension point.
	events, err := h.sessions.Run(ctx, sessionID, req.Message)
	if err != nil {
		if errors.Is(err, session.ErrSessionBusy) {
			response.Conflict(c, err)
			return
		}
		h.l.Errorf(ctx, "chat.SendMessage: %v", err)
		response.InternalError(c, err)
		return
	}

	c.Writer.Header().Set("Content-Type", "text/event-stream")
	c.Writer.Header().Set("Cache-Control", "no-cache")
	c.Writer.Header().Set("Connection", "keep-alive")
	c.Writer.Header().Set("X-Accel-Buffering", "no")

	c.Stream(func(w io.Writer) bool {
		ev, ok := <-events
		if !ok {
			return false
		}
		c.SSEvent(string(ev.Type), ev)
		return true
	})

	// Drain so the session is released even when the client went away
	// mid-stream.
	for range events {
	}
}

// ClearSession godoc
// @Summary     Clear a chat session
// @Description Drops the session's transcript. Cross-session memory is kept.
// @Tags        Chat
// @Produce     json
// @Param       id path string true "Session id"
// @Success     200 {object} response.Resp
// @Failure     409 {object} response.Resp "Session busy"
// @Router      /api/v1/chat/sessions/{id} [DELETE]
func (h *handler) ClearSession(c *gin.Context) {
	sessionID := c.Param("id")

	if err := h.sessions.Clear(sessionID); err != nil {
		response.Conflict(c, err)
		return
	}

	response.OK(c, gin.H{"cleared": sessionID})
}
