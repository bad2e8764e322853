package service

import (
	"time"

	"mls_backend/internal/model"
)

// ClassifyAssessment gates availability on scheduled_at alone: an assessment
// is NotYetOpen exactly when its scheduled time is strictly in the future.
// No scheduled time means immediately open, and the due date never closes
// the gate; lateness is for graders to judge.
func ClassifyAssessment(a *model.Assessment, now time.Time) model.GateState {
	if a.ScheduledAt != nil && a.ScheduledAt.After(now) {
		return model.GateNotYetOpen
	}
	return model.GateOpen
}

type Countdown struct {
	Days    int `json:"days"`
	Hours   int `json:"hours"`
	Minutes int `json:"minutes"`
	Seconds int `json:"seconds"`
}

// TimeRemaining decomposes the span until target into days, hours, minutes
// and seconds, flooring at zero once the target has passed.
func TimeRemaining(target, now time.Time) Countdown {
	d := target.Sub(now)
	if d < 0 {
		return Countdown{}
	}
	total := int(d.Seconds())
	return Countdown{
		Days:    total / 86400,
		Hours:   (total % 86400) / 3600,
		Minutes: (total % 3600) / 60,
		Seconds: total % 60,
	}
}
