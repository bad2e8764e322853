package service

import (
	"testing"
	"time"

	"mls_backend/internal/model"

	"github.com/stretchr/testify/assert"
)

func TestClassifyAssessment(t *testing.T) {
	now := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	future := now.Add(time.Hour)
	past := now.Add(-time.Hour)

	cases := []struct {
		name        string
		scheduledAt *time.Time
		want        model.GateState
	}{
		{"no schedule is open", nil, model.GateOpen},
		{"future schedule gates", &future, model.GateNotYetOpen},
		{"past schedule is open", &past, model.GateOpen},
		{"exact boundary is open", &now, model.GateOpen},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			a := &model.Assessment{ScheduledAt: tc.scheduledAt, DueDate: past}
			assert.Equal(t, tc.want, ClassifyAssessment(a, now))
		})
	}
}

func TestDueDateNeverGates(t *testing.T) {
	now := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	a := &model.Assessment{DueDate: now.Add(-48 * time.Hour)}
	assert.Equal(t, model.GateOpen, ClassifyAssessment(a, now))
}

func TestTimeRemaining(t *testing.T) {
	now := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)

	cd := TimeRemaining(now.Add(2*24*time.Hour+3*time.Hour+4*time.Minute+5*time.Second), now)
	assert.Equal(t, Countdown{Days: 2, Hours: 3, Minutes: 4, Seconds: 5}, cd)

	cd = TimeRemaining(now.Add(59*time.Second), now)
	assert.Equal(t, Countdown{Seconds: 59}, cd)

	// Past targets floor at zero rather than going negative.
	cd = TimeRemaining(now.Add(-time.Hour), now)
	assert.Equal(t, Countdown{}, cd)

	cd = TimeRemaining(now, now)
	assert.Equal(t, Countdown{}, cd)
}
