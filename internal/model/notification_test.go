package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNotificationVisibleAt(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	before := now.Add(-time.Hour)
	after := now.Add(time.Hour)

	cases := []struct {
		name string
		n    Notification
		want bool
	}{
		{"active with open window", Notification{IsActive: true}, true},
		{"inactive is never visible", Notification{IsActive: false}, false},
		{"inside window", Notification{IsActive: true, ActiveFrom: &before, ActiveUntil: &after}, true},
		{"before active_from", Notification{IsActive: true, ActiveFrom: &after}, false},
		{"after active_until", Notification{IsActive: true, ActiveUntil: &before}, false},
		{"only lower bound, passed", Notification{IsActive: true, ActiveFrom: &before}, true},
		{"only upper bound, pending", Notification{IsActive: true, ActiveUntil: &after}, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, tc.n.VisibleAt(now))
		})
	}
}
