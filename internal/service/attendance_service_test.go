package service

import (
	"testing"

	"mls_backend/internal/model"
	"mls_backend/internal/util"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMarkOneOverwritesWithoutDuplicating(t *testing.T) {
	f := newFixture(t)
	lesson := f.createLesson(t, 1, true, true, "")

	_, err := f.Attendance.MarkOne(f.actor(f.trainer), lesson.ID, f.student.ID, model.AttendanceAbsent)
	require.NoError(t, err)
	_, err = f.Attendance.MarkOne(f.actor(f.trainer), lesson.ID, f.student.ID, model.AttendanceLate)
	require.NoError(t, err)

	count, err := f.Attendance.AttendanceRepo.CountByLesson(lesson.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)

	rec, err := f.Attendance.AttendanceRepo.FindByPair(lesson.ID, f.student.ID)
	require.NoError(t, err)
	assert.Equal(t, model.AttendanceLate, rec.Status)
}

func TestMarkOneRejectsBadInput(t *testing.T) {
	f := newFixture(t)
	lesson := f.createLesson(t, 1, true, true, "")

	_, err := f.Attendance.MarkOne(f.actor(f.trainer), lesson.ID, f.student.ID, "Maybe")
	assert.Equal(t, util.KindValidation, util.KindOf(err))

	_, err = f.Attendance.MarkOne(f.actor(f.student), lesson.ID, f.student.ID, model.AttendancePresent)
	assert.Equal(t, util.KindForbidden, util.KindOf(err))

	unenrolled := f.createUser(t, "ghost", model.Student)
	_, err = f.Attendance.MarkOne(f.actor(f.trainer), lesson.ID, unenrolled.ID, model.AttendancePresent)
	assert.Equal(t, util.KindValidation, util.KindOf(err))
}

func TestMarkBulkReportsPerStudentOutcomes(t *testing.T) {
	f := newFixture(t)
	lesson := f.createLesson(t, 1, true, true, "")
	second := f.createUser(t, "student2", model.Student)
	f.enroll(t, second)
	unenrolled := f.createUser(t, "ghost", model.Student)

	outcomes, err := f.Attendance.MarkBulk(f.actor(f.trainer), lesson.ID, []BulkMarkItem{
		{StudentID: f.student.ID, Status: model.AttendancePresent},
		{StudentID: second.ID, Status: "Nonsense"},
		{StudentID: unenrolled.ID, Status: model.AttendanceAbsent},
	})
	require.NoError(t, err)
	require.Len(t, outcomes, 3)

	assert.True(t, outcomes[0].OK)
	assert.Equal(t, model.AttendancePresent, outcomes[0].Status)
	assert.False(t, outcomes[1].OK)
	assert.Empty(t, outcomes[1].Status)
	assert.False(t, outcomes[2].OK)
	assert.Empty(t, outcomes[2].Status)

	// The valid mark landed despite the failures around it.
	rec, err := f.Attendance.AttendanceRepo.FindByPair(lesson.ID, f.student.ID)
	require.NoError(t, err)
	assert.Equal(t, model.AttendancePresent, rec.Status)
}

func TestAutoMarkAllPresentCoversRoster(t *testing.T) {
	f := newFixture(t)
	lesson := f.createLesson(t, 1, true, true, "")
	second := f.createUser(t, "student2", model.Student)
	f.enroll(t, second)

	// An explicit Absent recorded beforehand must survive the sweep.
	_, err := f.Attendance.MarkOne(f.actor(f.trainer), lesson.ID, f.student.ID, model.AttendanceAbsent)
	require.NoError(t, err)

	marked, err := f.Attendance.AutoMarkAllPresent(f.actor(f.trainer), lesson.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, marked)

	count, err := f.Attendance.AttendanceRepo.CountByLesson(lesson.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)

	kept, err := f.Attendance.AttendanceRepo.FindByPair(lesson.ID, f.student.ID)
	require.NoError(t, err)
	assert.Equal(t, model.AttendanceAbsent, kept.Status)

	filled, err := f.Attendance.AttendanceRepo.FindByPair(lesson.ID, second.ID)
	require.NoError(t, err)
	assert.Equal(t, model.AttendancePresent, filled.Status)

	// Running the sweep again inserts nothing.
	marked, err = f.Attendance.AutoMarkAllPresent(f.actor(f.trainer), lesson.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, marked)
}

func TestAutoMarkOnAccessNeverOverwritesExplicitMark(t *testing.T) {
	f := newFixture(t)
	lesson := f.createLesson(t, 1, true, true, "")

	_, err := f.Attendance.MarkOne(f.actor(f.trainer), lesson.ID, f.student.ID, model.AttendanceLate)
	require.NoError(t, err)

	f.Attendance.AutoMarkOnAccess(lesson.ID, f.student.ID)
	f.Attendance.AutoMarkOnAccess(lesson.ID, f.student.ID)

	count, err := f.Attendance.AttendanceRepo.CountByLesson(lesson.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)

	rec, err := f.Attendance.AttendanceRepo.FindByPair(lesson.ID, f.student.ID)
	require.NoError(t, err)
	assert.Equal(t, model.AttendanceLate, rec.Status)
}

func TestLessonReportCountsUnmarkedSeparately(t *testing.T) {
	f := newFixture(t)
	lesson := f.createLesson(t, 1, true, true, "")
	second := f.createUser(t, "student2", model.Student)
	f.enroll(t, second)

	_, err := f.Attendance.MarkOne(f.actor(f.trainer), lesson.ID, f.student.ID, model.AttendancePresent)
	require.NoError(t, err)

	report, err := f.Attendance.LessonReport(f.actor(f.hod), lesson.ID)
	require.NoError(t, err)
	assert.Len(t, report.Rows, 2)
	assert.Equal(t, 1, report.Present)
	assert.Equal(t, 1, report.Unmarked)
	assert.Equal(t, 0, report.Absent)
}
