package http

import (
	"time"

	"content-pilot/internal/automation"
)

type createReq struct {
	Name        string `json:"name"`
	Topic       string `json:"topic" binding:"required"`
	IntervalMin int    `json:"interval_minutes" binding:"required"`
	AutoPost    bool   `json:"auto_post"`
}

func (r createReq) toInput() automation.CreateInput {
	return automation.CreateInput{
		Name:     r.Name,
		Topic:    r.Topic,
		Interval: time.Duration(r.IntervalMin) * time.Minute,
		AutoPost: r.AutoPost,
	}
}

type automationResp struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Topic       string    `json:"topic"`
	IntervalMin int       `json:"interval_minutes"`
	AutoPost    bool      `json:"auto_post"`
	Enabled     bool      `json:"enabled"`
	NextFireAt  time.Time `json:"next_fire_at"`
	CreatedAt   time.Time `json:"created_at"`
}

func newAutomationResp(a *automation.Automation) automationResp {
	return automationResp{
		ID:          a.ID,
		Name:        a.Name,
		Topic:       a.Topic,
		IntervalMin: int(a.Interval.Minutes()),
		AutoPost:    a.AutoPost,
		Enabled:     a.Enabled,
		NextFireAt:  a.NextFireAt,
		CreatedAt:   a.CreatedAt,
	}
}

type listResp struct {
	Automations []automationResp `json:"automations"`
	Count       int              `json:"count"`
}

type runsResp struct {
	Runs  []automation.Run `json:"runs"`
	Count int              `json:"count"`
}
