package http

import (
	"context"
	"errors"

	"github.com/gin-gonic/gin"

	"content-pilot/internal/automation"
	"content-pilot/internal/automation/repository"
	"content-pilot/pkg/response"
)

// Create godoc
// @Summary     Create an automation
// @Description Creates a recurring generation schedule. The first run fires one interval from now.
// @Tags        Automation
// @Accept      json
// @Produce     json
// @Param       body body createReq true "Automation settings"
// @Success     200 {object} automationResp
// @Failure     400 {object} response.Resp "Bad Request"
// @Router      /api/v1/automations [POST]
func (h *handler) Create(c *gin.Context) {
	ctx := c.Request.Context()

	var req createReq
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithStatus(c, 400, err)
		return
	}

	a, err := h.uc.Create(ctx, req.toInput())
	if err != nil {
		h.l.Errorf(ctx, "automation.Create: %v", err)
		h.mapError(c, err)
		return
	}

	response.OK(c, newAutomationResp(a))
}

// List godoc
// @Summary     List automations
// @Tags        Automation
// @Produce     json
// @Success     200 {object} listResp
// @Router      /api/v1/automations [GET]
func (h *handler) List(c *gin.Context) {
	ctx := c.Request.Context()

	list, err := h.uc.List(ctx)
	if err != nil {
		h.l.Errorf(ctx, "automation.List: %v", err)
		response.InternalError(c, err)
		return
	}

	resp := listResp{Count: len(list)}
	for i := range list {
		resp.Automations = append(resp.Automations, newAutomationResp(&list[i]))
	}
	response.OK(c, resp)
}

// Enable godoc
// @Summary     Enable an automation
// @Tags        Automation
// @Produce     json
// @Param       id path string true "Automation id"
// @Success     200 {object} automationResp
// @Failure     404 {object} response.Resp "Not Found"
// @Router      /api/v1/automations/{id}/enable [PATCH]
func (h *handler) Enable(c *gin.Context) {
	h.setEnabled(c, true)
}

// Disable godoc
// @Summary     Disable an automation
// @Tags        Automation
// @Produce     json
// @Param       id path string true "Automation id"
// @Success     200 {object} automationResp
// @Failure     404 {object} response.Resp "Not Found"
// @Router      /api/v1/automations/{id}/disable [PATCH]
func (h *handler) Disable(c *gin.Context) {
	h.setEnabled(c, false)
}

func (h *handler) setEnabled(c *gin.Context, enabled bool) {
	ctx := c.Request.Context()

	a, err := h.uc.SetEnabled(ctx, c.Param("id"), enabled)
	if err != nil {
		h.mapError(c, err)
		return
	}
	response.OK(c, newAutomationResp(a))
}

// Fire godoc
// @Summary     Fire an automation now
// @Description Starts a run immediately, outside the schedule. The run executes in the background; poll the runs endpoint for its outcome. Firing a disabled automation is rejected.
// @Tags        Automation
// @Produce     json
// @Param       id path string true "Automation id"
// @Success     200 {object} response.Resp
// @Failure     404 {object} response.Resp "Not Found"
// @Failure     409 {object} response.Resp "Automation disabled"
// @Router      /api/v1/automations/{id}/fire [POST]
func (h *handler) Fire(c *gin.Context) {
	ctx := c.Request.Context()
	id := c.Param("id")

	a, err := h.uc.Get(ctx, id)
	if err != nil {
		h.mapError(c, err)
		return
	}
	if !a.Enabled {
		h.mapError(c, automation.ErrDisabled)
		return
	}

	// Generation can take minutes; ack now, run in the background.
	go func() {
		run, err := h.uc.Fire(context.Background(), id)
		if err != nil {
			h.l.Errorf(context.Background(), "automation.Fire: %s: %v", id, err)
			return
		}
		h.l.Infof(context.Background(), "automation.Fire: %s run %s finished status=%s", id, run.ID, run.Status)
	}()

	h.l.Infof(ctx, "automation.Fire: %s accepted", id)
	response.OK(c, gin.H{"accepted": true, "automation_id": id})
}

// ListRuns godoc
// @Summary     List an automation's runs
// @Tags        Automation
// @Produce     json
// @Param       id path string true "Automation id"
// @Success     200 {object} runsResp
// @Router      /api/v1/automations/{id}/runs [GET]
func (h *handler) ListRuns(c *gin.Context) {
	ctx := c.Request.Context()

	runs, err := h.uc.ListRuns(ctx, c.Param("id"))
	if err != nil {
		h.l.Errorf(ctx, "automation.ListRuns: %v", err)
		response.InternalError(c, err)
		return
	}

	response.OK(c, runsResp{Runs: runs, Count: len(runs)})
}

// RetryPost godoc
// @Summary     Retry a failed posting step
// @Description Re-attempts publishing for a post_failed run. Generation is not re-run; an already-posted run returns 409 without publishing.
// @Tags        Automation
// @Produce     json
// @Param       id path string true "Run id"
// @Success     200 {object} automation.Run
// @Failure     404 {object} response.Resp "Not Found"
// @Failure     409 {object} response.Resp "Already posted or not retryable"
// @Router      /api/v1/runs/{id}/retry-post [POST]
func (h *handler) RetryPost(c *gin.Context) {
	ctx := c.Request.Context()

	run, err := h.uc.RetryPost(ctx, c.Param("id"))
	if err != nil {
		h.l.Warnf(ctx, "automation.RetryPost: %v", err)
		h.mapError(c, err)
		return
	}

	response.OK(c, run)
}

// mapError translates domain errors into HTTP responses.
func (h *handler) mapError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		response.NotFound(c, err)
	case errors.Is(err, automation.ErrAlreadyPosted),
		errors.Is(err, automation.ErrNotRetryable),
		errors.Is(err, automation.ErrDisabled):
		response.Conflict(c, err)
	case errors.Is(err, automation.ErrEmptyTopic),
		errors.Is(err, automation.ErrInvalidInterval),
		errors.Is(err, automation.ErrNoArtifact),
		errors.Is(err, automation.ErrNoPublisher):
		response.ErrorWithStatus(c, 400, err)
	default:
		response.InternalError(c, err)
	}
}
