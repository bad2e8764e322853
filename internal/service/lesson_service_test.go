package service

import (
	"testing"

	"mls_backend/internal/model"
	"mls_backend/internal/util"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLessonCreateRequiresUnitTrainer(t *testing.T) {
	f := newFixture(t)

	req := LessonRequest{UnitID: f.unit.ID, Title: "Intro", Order: 1}

	_, err := f.Lessons.Create(f.actor(f.student), req)
	assert.Equal(t, util.KindForbidden, util.KindOf(err))

	otherTrainer := f.createUser(t, "trainer2", model.Trainer)
	_, err = f.Lessons.Create(f.actor(otherTrainer), req)
	assert.Equal(t, util.KindForbidden, util.KindOf(err))

	lesson, err := f.Lessons.Create(f.actor(f.trainer), req)
	require.NoError(t, err)
	assert.Equal(t, model.LessonDraft, lesson.State())
}

func TestLessonCreateEnforcesUnitCeiling(t *testing.T) {
	f := newFixture(t)
	f.unit.TotalLessons = 2
	require.NoError(t, f.db.Save(f.unit).Error)

	for i := uint(1); i <= 2; i++ {
		_, err := f.Lessons.Create(f.actor(f.trainer), LessonRequest{UnitID: f.unit.ID, Title: "L", Order: i})
		require.NoError(t, err)
	}

	_, err := f.Lessons.Create(f.actor(f.trainer), LessonRequest{UnitID: f.unit.ID, Title: "L", Order: 3})
	assert.Equal(t, util.KindValidation, util.KindOf(err))
}

func TestLessonCreateEnforcesCatCadence(t *testing.T) {
	f := newFixture(t)
	f.unit.CatFrequency = 2
	require.NoError(t, f.db.Save(f.unit).Error)

	for i := uint(1); i <= 2; i++ {
		_, err := f.Lessons.Create(f.actor(f.trainer), LessonRequest{UnitID: f.unit.ID, Title: "L", Order: i})
		require.NoError(t, err)
	}

	// Two lessons down, no CAT yet: the third lesson is blocked.
	_, err := f.Lessons.Create(f.actor(f.trainer), LessonRequest{UnitID: f.unit.ID, Title: "L", Order: 3})
	require.Error(t, err)
	assert.Equal(t, util.KindValidation, util.KindOf(err))

	cat := model.Assessment{UnitID: f.unit.ID, AssessmentType: model.AssessmentCAT, Title: "CAT 1", Points: 10}
	require.NoError(t, f.db.Create(&cat).Error)

	_, err = f.Lessons.Create(f.actor(f.trainer), LessonRequest{UnitID: f.unit.ID, Title: "L", Order: 3})
	assert.NoError(t, err)
}

func TestLessonWorkflowSubmitApproveRejectResubmit(t *testing.T) {
	f := newFixture(t)
	lesson := f.createLesson(t, 1, false, false, "")

	// Draft cannot be approved or rejected.
	_, err := f.Lessons.Approve(f.actor(f.hod), lesson.ID)
	assert.Equal(t, util.KindInvalidTransition, util.KindOf(err))
	_, err = f.Lessons.Reject(f.actor(f.hod), lesson.ID, "too thin")
	assert.Equal(t, util.KindInvalidTransition, util.KindOf(err))

	// Trainer submits.
	submitted, err := f.Lessons.Submit(f.actor(f.trainer), lesson.ID, false)
	require.NoError(t, err)
	assert.Equal(t, model.LessonPendingApproval, submitted.State())

	// Students cannot approve.
	_, err = f.Lessons.Approve(f.actor(f.student), lesson.ID)
	assert.Equal(t, util.KindForbidden, util.KindOf(err))
	_, err = f.Lessons.Approve(f.actor(f.trainer), lesson.ID)
	assert.Equal(t, util.KindForbidden, util.KindOf(err))

	// Rejection requires feedback.
	_, err = f.Lessons.Reject(f.actor(f.hod), lesson.ID, "")
	assert.Equal(t, util.KindValidation, util.KindOf(err))

	rejected, err := f.Lessons.Reject(f.actor(f.hod), lesson.ID, "add outcomes")
	require.NoError(t, err)
	assert.Equal(t, model.LessonRejected, rejected.State())
	assert.Equal(t, "add outcomes", rejected.AuditFeedback)

	// Resubmission clears the feedback and returns to pending.
	resubmitted, err := f.Lessons.Submit(f.actor(f.trainer), lesson.ID, false)
	require.NoError(t, err)
	assert.Equal(t, model.LessonPendingApproval, resubmitted.State())
	assert.Empty(t, resubmitted.AuditFeedback)

	approved, err := f.Lessons.Approve(f.actor(f.hod), lesson.ID)
	require.NoError(t, err)
	assert.Equal(t, model.LessonApproved, approved.State())
	assert.True(t, approved.VisibleToStudents())
}

func TestLessonReopenApprovedViaRejection(t *testing.T) {
	f := newFixture(t)
	lesson := f.createLesson(t, 1, true, true, "")

	reopened, err := f.Lessons.Reject(f.actor(f.hod), lesson.ID, "content outdated")
	require.NoError(t, err)
	assert.Equal(t, model.LessonRejected, reopened.State())
	assert.False(t, reopened.VisibleToStudents())
}

func TestLessonApproveValidatesStoredState(t *testing.T) {
	f := newFixture(t)
	lesson := f.createLesson(t, 1, true, false, "")

	// Trainer reverts to draft before the HOD acts on a stale view.
	_, err := f.Lessons.Submit(f.actor(f.trainer), lesson.ID, true)
	require.NoError(t, err)

	_, err = f.Lessons.Approve(f.actor(f.hod), lesson.ID)
	assert.Equal(t, util.KindInvalidTransition, util.KindOf(err))
}

func TestStudentLessonVisibility(t *testing.T) {
	f := newFixture(t)
	f.createLesson(t, 1, true, true, "")
	f.createLesson(t, 2, true, false, "")
	f.createLesson(t, 3, false, false, "")

	lessons, err := f.Lessons.ListForStudent(f.student.ID, f.unit.ID)
	require.NoError(t, err)
	require.Len(t, lessons, 1)
	assert.Equal(t, uint(1), lessons[0].Order)

	outsider := f.createUser(t, "outsider", model.Student)
	_, err = f.Lessons.ListForStudent(outsider.ID, f.unit.ID)
	assert.Equal(t, util.KindForbidden, util.KindOf(err))
}

func TestViewContentAutoMarksAttendance(t *testing.T) {
	f := newFixture(t)
	lesson := f.createLesson(t, 1, true, true, "")

	_, err := f.Lessons.ViewContent(f.student.ID, lesson.ID)
	require.NoError(t, err)

	rec, err := f.Attendance.AttendanceRepo.FindByPair(lesson.ID, f.student.ID)
	require.NoError(t, err)
	assert.Equal(t, model.AttendancePresent, rec.Status)

	// A hidden lesson is not viewable and marks nothing.
	hidden := f.createLesson(t, 2, true, false, "")
	_, err = f.Lessons.ViewContent(f.student.ID, hidden.ID)
	assert.Equal(t, util.KindForbidden, util.KindOf(err))
}

func TestLessonDeactivateHidesFromStudents(t *testing.T) {
	f := newFixture(t)
	lesson := f.createLesson(t, 1, true, true, "")

	deactivated, err := f.Lessons.Deactivate(f.actor(f.trainer), lesson.ID)
	require.NoError(t, err)
	assert.False(t, deactivated.IsActive)
	assert.Equal(t, f.unit.ID, deactivated.UnitID)

	lessons, err := f.Lessons.ListForStudent(f.student.ID, f.unit.ID)
	require.NoError(t, err)
	assert.Empty(t, lessons)
}
