package service

import (
	"testing"
	"time"

	"mls_backend/internal/model"
	"mls_backend/internal/util"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func (f *fixture) createAssessment(t *testing.T, scheduledAt *time.Time) *model.Assessment {
	t.Helper()
	a, err := f.Assessments.Create(f.actor(f.trainer), AssessmentRequest{
		UnitID:         f.unit.ID,
		AssessmentType: model.AssessmentTest,
		Title:          "Midterm",
		Points:         20,
		DueDate:        time.Now().AddDate(0, 0, 7),
		ScheduledAt:    scheduledAt,
	})
	require.NoError(t, err)
	return a
}

func boolPtr(b bool) *bool { return &b }

func TestSaveQuestionsValidatesBeforeWriting(t *testing.T) {
	f := newFixture(t)
	a := f.createAssessment(t, nil)

	good := []QuestionRequest{
		{
			QuestionText: "Which layer routes packets?",
			QuestionType: model.QuestionMCQ,
			Points:       2,
			Options: []OptionRequest{
				{OptionText: "Transport"},
				{OptionText: "Network", IsCorrect: true},
				{OptionText: "Physical"},
			},
		},
		{QuestionText: "UDP is connectionless.", QuestionType: model.QuestionTF, AnswerBool: boolPtr(true)},
	}
	qs, err := f.Assessments.SaveQuestions(f.actor(f.trainer), a.ID, good)
	require.NoError(t, err)
	require.Len(t, qs, 2)

	// Zero correct options: rejected, previous set stays intact.
	bad := []QuestionRequest{
		{
			QuestionText: "Broken",
			QuestionType: model.QuestionMCQ,
			Options:      []OptionRequest{{OptionText: "A"}, {OptionText: "B"}},
		},
	}
	_, err = f.Assessments.SaveQuestions(f.actor(f.trainer), a.ID, bad)
	assert.Equal(t, util.KindValidation, util.KindOf(err))

	kept, err := f.Assessments.AssessmentRepo.ListQuestions(a.ID)
	require.NoError(t, err)
	assert.Len(t, kept, 2)

	// Two correct options is just as invalid as zero.
	bad[0].Options[0].IsCorrect = true
	bad[0].Options[1].IsCorrect = true
	_, err = f.Assessments.SaveQuestions(f.actor(f.trainer), a.ID, bad)
	assert.Equal(t, util.KindValidation, util.KindOf(err))

	// TF without an answer key.
	_, err = f.Assessments.SaveQuestions(f.actor(f.trainer), a.ID, []QuestionRequest{
		{QuestionText: "TCP is reliable.", QuestionType: model.QuestionTF},
	})
	assert.Equal(t, util.KindValidation, util.KindOf(err))
}

func TestSaveQuestionsReplacesWholesale(t *testing.T) {
	f := newFixture(t)
	a := f.createAssessment(t, nil)

	_, err := f.Assessments.SaveQuestions(f.actor(f.trainer), a.ID, []QuestionRequest{
		{QuestionText: "Old 1", QuestionType: model.QuestionShort},
		{QuestionText: "Old 2", QuestionType: model.QuestionShort},
	})
	require.NoError(t, err)

	qs, err := f.Assessments.SaveQuestions(f.actor(f.trainer), a.ID, []QuestionRequest{
		{QuestionText: "New only", QuestionType: model.QuestionEssay},
	})
	require.NoError(t, err)
	require.Len(t, qs, 1)
	assert.Equal(t, "New only", qs[0].QuestionText)
}

func TestStudentViewHidesQuestionsBeforeOpen(t *testing.T) {
	f := newFixture(t)
	now := time.Now()
	opens := now.Add(25*time.Hour + 30*time.Minute)
	a := f.createAssessment(t, &opens)

	_, err := f.Assessments.SaveQuestions(f.actor(f.trainer), a.ID, []QuestionRequest{
		{QuestionText: "Hidden until open", QuestionType: model.QuestionShort},
	})
	require.NoError(t, err)

	view, err := f.Assessments.StudentView(f.actor(f.student), a.ID, now)
	require.NoError(t, err)
	assert.Equal(t, model.GateNotYetOpen, view.Gate)
	assert.Empty(t, view.Questions)
	require.NotNil(t, view.OpensIn)
	assert.Equal(t, 1, view.OpensIn.Days)
	assert.Equal(t, 1, view.OpensIn.Hours)
	assert.Equal(t, 30, view.OpensIn.Minutes)

	view, err = f.Assessments.StudentView(f.actor(f.student), a.ID, opens.Add(time.Minute))
	require.NoError(t, err)
	assert.Equal(t, model.GateOpen, view.Gate)
	require.Len(t, view.Questions, 1)
	assert.Nil(t, view.OpensIn)
}

func TestStudentViewStripsAnswerKeys(t *testing.T) {
	f := newFixture(t)
	a := f.createAssessment(t, nil)

	_, err := f.Assessments.SaveQuestions(f.actor(f.trainer), a.ID, []QuestionRequest{
		{
			QuestionText: "Pick one",
			QuestionType: model.QuestionMCQ,
			Options: []OptionRequest{
				{OptionText: "Right", IsCorrect: true},
				{OptionText: "Wrong"},
			},
		},
	})
	require.NoError(t, err)

	view, err := f.Assessments.StudentView(f.actor(f.student), a.ID, time.Now())
	require.NoError(t, err)
	require.Len(t, view.Questions, 1)
	require.Len(t, view.Questions[0].Options, 2)
	// StudentOption carries no correctness flag at all; both options look
	// identical apart from their text.
	assert.Equal(t, "Right", view.Questions[0].Options[0].OptionText)
}

func TestSubmitBlockedBeforeScheduledTime(t *testing.T) {
	f := newFixture(t)
	now := time.Now()
	opens := now.Add(time.Hour)
	a := f.createAssessment(t, &opens)

	_, err := f.Assessments.Submit(f.actor(f.student), a.ID, SubmitRequest{Content: "early"}, now)
	assert.Equal(t, util.KindInvalidTransition, util.KindOf(err))

	_, err = f.Assessments.Submit(f.actor(f.student), a.ID, SubmitRequest{Content: "on time"}, opens.Add(time.Minute))
	assert.NoError(t, err)
}

func TestSubmitAutoGradesMCQAndTF(t *testing.T) {
	f := newFixture(t)
	a := f.createAssessment(t, nil)

	qs, err := f.Assessments.SaveQuestions(f.actor(f.trainer), a.ID, []QuestionRequest{
		{
			QuestionText: "2 points MCQ",
			QuestionType: model.QuestionMCQ,
			Points:       2,
			Options: []OptionRequest{
				{OptionText: "Right", IsCorrect: true},
				{OptionText: "Wrong"},
			},
		},
		{QuestionText: "3 points TF", QuestionType: model.QuestionTF, Points: 3, AnswerBool: boolPtr(true)},
		{QuestionText: "Essay", QuestionType: model.QuestionEssay, Points: 5},
	})
	require.NoError(t, err)

	var rightOption uint
	for _, o := range qs[0].Options {
		if o.IsCorrect {
			rightOption = o.ID
		}
	}

	sub, err := f.Assessments.Submit(f.actor(f.student), a.ID, SubmitRequest{
		Answers: []AnswerRequest{
			{QuestionID: qs[0].ID, SelectedOptionID: &rightOption},
			{QuestionID: qs[1].ID, AnswerText: "false"},
			{QuestionID: qs[2].ID, AnswerText: "Long prose answer."},
		},
	}, time.Now())
	require.NoError(t, err)

	// MCQ correct (2) + TF wrong (0); the essay waits for the trainer.
	require.NotNil(t, sub.AutoGradedScore)
	assert.Equal(t, 2.0, *sub.AutoGradedScore)
	assert.False(t, sub.IsGraded)
}

func TestSubmitRejectsDuplicates(t *testing.T) {
	f := newFixture(t)
	a := f.createAssessment(t, nil)

	_, err := f.Assessments.Submit(f.actor(f.student), a.ID, SubmitRequest{Content: "first"}, time.Now())
	require.NoError(t, err)

	_, err = f.Assessments.Submit(f.actor(f.student), a.ID, SubmitRequest{Content: "second"}, time.Now())
	assert.Equal(t, util.KindValidation, util.KindOf(err))
}

func TestGradeBoundsAndPermissions(t *testing.T) {
	f := newFixture(t)
	a := f.createAssessment(t, nil)
	sub, err := f.Assessments.Submit(f.actor(f.student), a.ID, SubmitRequest{Content: "work"}, time.Now())
	require.NoError(t, err)

	_, err = f.Assessments.Grade(f.actor(f.student), sub.ID, 10, "")
	assert.Equal(t, util.KindForbidden, util.KindOf(err))

	_, err = f.Assessments.Grade(f.actor(f.trainer), sub.ID, 25, "")
	assert.Equal(t, util.KindValidation, util.KindOf(err))

	graded, err := f.Assessments.Grade(f.actor(f.trainer), sub.ID, 17.5, "solid work")
	require.NoError(t, err)
	assert.True(t, graded.IsGraded)
	assert.Equal(t, 17.5, *graded.Grade)
	assert.Equal(t, "solid work", graded.Feedback)
	// The student's content is untouched by grading.
	assert.Equal(t, "work", graded.Content)
}

func TestGenerateCATsFollowsCadence(t *testing.T) {
	f := newFixture(t)
	// TotalLessons 10 / CatFrequency 5 = 2 CATs, 15 points each.

	created, err := f.Assessments.GenerateCATs(f.actor(f.trainer), f.unit.ID)
	require.NoError(t, err)
	require.Len(t, created, 2)
	assert.Equal(t, "CAT 1", created[0].Title)
	assert.Equal(t, uint(15), created[0].Points)

	_, err = f.Assessments.GenerateCATs(f.actor(f.trainer), f.unit.ID)
	assert.Equal(t, util.KindValidation, util.KindOf(err))
}
