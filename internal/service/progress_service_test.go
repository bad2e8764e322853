package service

import (
	"context"
	"testing"

	"mls_backend/internal/model"
	"mls_backend/internal/util"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPercentage(t *testing.T) {
	cases := []struct {
		completed, total, want int
	}{
		{0, 0, 0},
		{0, 10, 0},
		{1, 10, 10},
		{1, 3, 33},
		{2, 3, 67},
		{5, 10, 50},
		{10, 10, 100},
		{1, 7, 14},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, Percentage(tc.completed, tc.total),
			"completed=%d total=%d", tc.completed, tc.total)
	}
}

func TestReconcileProgressAuthoritativeWins(t *testing.T) {
	assert.Equal(t, 40, ReconcileProgress(50, 40))
	assert.Equal(t, 50, ReconcileProgress(50, 50))
	assert.Equal(t, 0, ReconcileProgress(10, 0))
}

func TestUnitProgressCountsOnlyApprovedLessons(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	approved := f.createLesson(t, 1, true, true, "")
	f.createLesson(t, 2, true, true, "")
	pending := f.createLesson(t, 3, true, false, "")

	p, err := f.Progress.UnitProgress(ctx, f.student.ID, f.unit.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, p.Total)
	assert.Equal(t, 0, p.Percent)

	p, err = f.Progress.ToggleCompletion(ctx, f.actor(f.student), approved.ID, true)
	require.NoError(t, err)
	assert.Equal(t, 1, p.Completed)
	assert.Equal(t, 50, p.Percent)

	// Completing a pending lesson counts toward nothing until approval.
	p, err = f.Progress.ToggleCompletion(ctx, f.actor(f.student), pending.ID, true)
	require.NoError(t, err)
	assert.Equal(t, 1, p.Completed)
	assert.Equal(t, 50, p.Percent)
}

func TestToggleCompletionGuards(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	draft := f.createLesson(t, 1, false, false, "")
	approved := f.createLesson(t, 2, true, true, "")

	_, err := f.Progress.ToggleCompletion(ctx, f.actor(f.trainer), approved.ID, true)
	assert.Equal(t, util.KindForbidden, util.KindOf(err))

	_, err = f.Progress.ToggleCompletion(ctx, f.actor(f.student), draft.ID, true)
	assert.Equal(t, util.KindInvalidTransition, util.KindOf(err))

	outsider := f.createUser(t, "outsider", model.Student)
	_, err = f.Progress.ToggleCompletion(ctx, f.actor(outsider), approved.ID, true)
	assert.Equal(t, util.KindForbidden, util.KindOf(err))
}

func TestToggleCompletionIsIdempotentPerPair(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	lesson := f.createLesson(t, 1, true, true, "")

	for i := 0; i < 3; i++ {
		_, err := f.Progress.ToggleCompletion(ctx, f.actor(f.student), lesson.ID, true)
		require.NoError(t, err)
	}

	var count int64
	require.NoError(t, f.db.Model(&model.LessonCompletion{}).
		Where("student_id = ? AND lesson_id = ?", f.student.ID, lesson.ID).
		Count(&count).Error)
	assert.Equal(t, int64(1), count)

	p, err := f.Progress.ToggleCompletion(ctx, f.actor(f.student), lesson.ID, false)
	require.NoError(t, err)
	assert.Equal(t, 0, p.Completed)
	assert.Equal(t, 0, p.Percent)
}

func TestRevertAndDeactivateShrinkDenominator(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	first := f.createLesson(t, 1, true, true, "")
	second := f.createLesson(t, 2, true, true, "")

	p, err := f.Progress.ToggleCompletion(ctx, f.actor(f.student), second.ID, true)
	require.NoError(t, err)
	assert.Equal(t, 50, p.Percent)

	// Pulling the first lesson back to draft drops it from the denominator.
	_, err = f.Lessons.Submit(f.actor(f.trainer), first.ID, true)
	require.NoError(t, err)
	p, err = f.Progress.UnitProgress(ctx, f.student.ID, f.unit.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, p.Total)
	assert.Equal(t, 100, p.Percent)

	// Deactivating the remaining lesson empties the unit.
	_, err = f.Lessons.Deactivate(f.actor(f.trainer), second.ID)
	require.NoError(t, err)
	p, err = f.Progress.UnitProgress(ctx, f.student.ID, f.unit.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, p.Total)
	assert.Equal(t, 0, p.Percent)
}

func TestNewlyApprovedLessonLowersPercent(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	first := f.createLesson(t, 1, true, true, "")

	p, err := f.Progress.ToggleCompletion(ctx, f.actor(f.student), first.ID, true)
	require.NoError(t, err)
	assert.Equal(t, 100, p.Percent)

	second := f.createLesson(t, 2, true, false, "")
	_, err = f.Lessons.Approve(f.actor(f.hod), second.ID)
	require.NoError(t, err)

	p, err = f.Progress.UnitProgress(ctx, f.student.ID, f.unit.ID)
	require.NoError(t, err)
	assert.Equal(t, 50, p.Percent)
}
