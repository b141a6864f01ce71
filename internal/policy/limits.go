// Package policy turns durable configuration plus accumulated usage into
// decisions: which apps crossed limits, which goals progressed, whether a
// focus window is active, whether a notification should fire. Evaluators
// are pure over their inputs; enforcement belongs to the usecase layer.
package policy

import (
	"github.com/eliteGoblin/wellbeingd/internal/domain"
)

// LimitEvaluator classifies per-app usage against configured daily limits.
type LimitEvaluator struct {
	warningPercent  int
	exceededPercent int
}

// NewLimitEvaluator builds an evaluator with the given thresholds in
// percent of the daily limit. Zero values fall back to 80/100.
func NewLimitEvaluator(warningPercent, exceededPercent int) *LimitEvaluator {
	if warningPercent <= 0 {
		warningPercent = 80
	}
	if exceededPercent <= 0 {
		exceededPercent = 100
	}
	return &LimitEvaluator{
		warningPercent:  warningPercent,
		exceededPercent: exceededPercent,
	}
}

// Evaluate maps every limit status row to a decision. RequestBlock is set
// only for exceeded limits that opted into blocking; warnings never block.
func (e *LimitEvaluator) Evaluate(statuses []domain.LimitStatus) []domain.LimitDecision {
	decisions := make([]domain.LimitDecision, 0, len(statuses))
	for _, st := range statuses {
		decisions = append(decisions, e.evaluateOne(st))
	}
	return decisions
}

func (e *LimitEvaluator) evaluateOne(st domain.LimitStatus) domain.LimitDecision {
	limitSeconds := int64(st.DailyLimitMinutes) * 60
	d := domain.LimitDecision{
		AppName:      st.AppName,
		Level:        domain.LimitOK,
		LimitMinutes: st.DailyLimitMinutes,
		UsedSeconds:  st.UsedSeconds,
	}

	if limitSeconds <= 0 {
		return d
	}

	remaining := limitSeconds - st.UsedSeconds
	if remaining < 0 {
		remaining = 0
	}
	d.RemainingMinutes = int(remaining / 60)

	percent := st.UsedSeconds * 100 / limitSeconds
	switch {
	case percent >= int64(e.exceededPercent):
		d.Level = domain.LimitExceeded
		d.RequestBlock = st.BlockWhenExceeded
	case percent >= int64(e.warningPercent):
		d.Level = domain.LimitWarning
	}

	return d
}
