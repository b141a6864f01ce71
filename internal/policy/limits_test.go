package policy

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/eliteGoblin/wellbeingd/internal/domain"
)

func TestLimitEvaluatorLevels(t *testing.T) {
	e := NewLimitEvaluator(80, 100)

	tests := []struct {
		name         string
		usedSeconds  int64
		level        domain.LimitLevel
		requestBlock bool
	}{
		{"untouched", 0, domain.LimitOK, false},
		{"below warning", 2879, domain.LimitOK, false},
		{"at warning threshold", 2880, domain.LimitWarning, false},
		{"just under limit", 3599, domain.LimitWarning, false},
		{"at limit", 3600, domain.LimitExceeded, true},
		{"over limit", 5000, domain.LimitExceeded, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			decisions := e.Evaluate([]domain.LimitStatus{{
				AppName:           "Steam",
				DailyLimitMinutes: 60,
				UsedSeconds:       tt.usedSeconds,
				BlockWhenExceeded: true,
			}})
			assert.Len(t, decisions, 1)
			assert.Equal(t, tt.level, decisions[0].Level)
			assert.Equal(t, tt.requestBlock, decisions[0].RequestBlock)
		})
	}
}

func TestLimitEvaluatorWarningNeverBlocks(t *testing.T) {
	e := NewLimitEvaluator(80, 100)

	decisions := e.Evaluate([]domain.LimitStatus{{
		AppName:           "Steam",
		DailyLimitMinutes: 60,
		UsedSeconds:       3000,
		BlockWhenExceeded: true,
	}})
	assert.Equal(t, domain.LimitWarning, decisions[0].Level)
	assert.False(t, decisions[0].RequestBlock)
}

func TestLimitEvaluatorBlockOptOut(t *testing.T) {
	e := NewLimitEvaluator(80, 100)

	decisions := e.Evaluate([]domain.LimitStatus{{
		AppName:           "Slack",
		DailyLimitMinutes: 60,
		UsedSeconds:       7200,
		BlockWhenExceeded: false,
	}})
	assert.Equal(t, domain.LimitExceeded, decisions[0].Level)
	assert.False(t, decisions[0].RequestBlock)
}

func TestLimitEvaluatorRemainingMinutes(t *testing.T) {
	e := NewLimitEvaluator(80, 100)

	decisions := e.Evaluate([]domain.LimitStatus{
		{AppName: "a", DailyLimitMinutes: 60, UsedSeconds: 600},
		{AppName: "b", DailyLimitMinutes: 60, UsedSeconds: 9000},
	})
	assert.Equal(t, 50, decisions[0].RemainingMinutes)
	assert.Equal(t, 0, decisions[1].RemainingMinutes)
}

func TestLimitEvaluatorCustomThresholds(t *testing.T) {
	e := NewLimitEvaluator(50, 90)

	decisions := e.Evaluate([]domain.LimitStatus{{
		AppName:           "Steam",
		DailyLimitMinutes: 100,
		UsedSeconds:       100 * 60 * 9 / 10,
		BlockWhenExceeded: true,
	}})
	assert.Equal(t, domain.LimitExceeded, decisions[0].Level)
}

func TestLimitEvaluatorZeroThresholdsFallBack(t *testing.T) {
	e := NewLimitEvaluator(0, 0)
	assert.Equal(t, 80, e.warningPercent)
	assert.Equal(t, 100, e.exceededPercent)
}
