package service

import (
	"errors"
	"fmt"
	"time"

	"mls_backend/internal/model"
	"mls_backend/internal/repository"
	"mls_backend/internal/util"

	"gorm.io/gorm"
)

// AssessmentService manages assessments, their question sets, and student
// submissions. MCQ and TF answers are graded automatically at submission;
// everything else waits for the trainer.
type AssessmentService struct {
	AssessmentRepo *repository.AssessmentRepository
	UnitRepo       *repository.UnitRepository
	EnrollRepo     *repository.EnrollmentRepository
}

func NewAssessmentService(
	assessmentRepo *repository.AssessmentRepository,
	unitRepo *repository.UnitRepository,
	enrollRepo *repository.EnrollmentRepository,
) *AssessmentService {
	return &AssessmentService{
		AssessmentRepo: assessmentRepo,
		UnitRepo:       unitRepo,
		EnrollRepo:     enrollRepo,
	}
}

func (s *AssessmentService) canManage(actor util.Actor, unit *model.Unit) bool {
	switch actor.Role {
	case model.Admin, model.HOD:
		return true
	case model.Trainer:
		return unit.TrainerID != nil && *unit.TrainerID == actor.UserID
	}
	return false
}

type AssessmentRequest struct {
	UnitID          uint                 `json:"unitId" binding:"required"`
	LessonID        *uint                `json:"lessonId"`
	AssessmentType  model.AssessmentType `json:"assessmentType" binding:"required"`
	Title           string               `json:"title"`
	Instructions    string               `json:"instructions"`
	Points          uint                 `json:"points" binding:"required"`
	DueDate         time.Time            `json:"dueDate" binding:"required"`
	ScheduledAt     *time.Time           `json:"scheduledAt"`
	DurationMinutes *uint                `json:"durationMinutes"`
	ShowAnswers     bool                 `json:"showAnswersAfterSubmission"`
}

func (s *AssessmentService) Create(actor util.Actor, req AssessmentRequest) (*model.Assessment, error) {
	if !req.AssessmentType.Valid() {
		return nil, util.Validation("invalid assessment type: " + string(req.AssessmentType))
	}
	unit, err := s.UnitRepo.FindByID(req.UnitID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.NotFound("unit not found")
		}
		return nil, err
	}
	if !s.canManage(actor, unit) {
		return nil, util.Forbidden("not allowed to create assessments for this unit")
	}

	a := &model.Assessment{
		UnitID:          req.UnitID,
		LessonID:        req.LessonID,
		TrainerID:       &actor.UserID,
		AssessmentType:  req.AssessmentType,
		Title:           req.Title,
		Instructions:    req.Instructions,
		Points:          req.Points,
		DueDate:         req.DueDate,
		ScheduledAt:     req.ScheduledAt,
		DurationMinutes: req.DurationMinutes,
		ShowAnswers:     req.ShowAnswers,
	}
	if a.Title == "" {
		a.Title = "Untitled Assessment"
	}
	if err := s.AssessmentRepo.Create(a); err != nil {
		return nil, err
	}
	return a, nil
}

func (s *AssessmentService) managed(actor util.Actor, assessmentID uint) (*model.Assessment, error) {
	a, err := s.AssessmentRepo.FindByID(assessmentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.NotFound("assessment not found")
		}
		return nil, err
	}
	unit, err := s.UnitRepo.FindByID(a.UnitID)
	if err != nil {
		return nil, err
	}
	if !s.canManage(actor, unit) {
		return nil, util.Forbidden("not allowed to manage this assessment")
	}
	return a, nil
}

func (s *AssessmentService) Update(actor util.Actor, assessmentID uint, req AssessmentRequest) (*model.Assessment, error) {
	a, err := s.managed(actor, assessmentID)
	if err != nil {
		return nil, err
	}
	if req.AssessmentType != "" && !req.AssessmentType.Valid() {
		return nil, util.Validation("invalid assessment type: " + string(req.AssessmentType))
	}

	if req.AssessmentType != "" {
		a.AssessmentType = req.AssessmentType
	}
	if req.Title != "" {
		a.Title = req.Title
	}
	a.Instructions = req.Instructions
	a.Points = req.Points
	a.DueDate = req.DueDate
	a.ScheduledAt = req.ScheduledAt
	a.DurationMinutes = req.DurationMinutes
	a.ShowAnswers = req.ShowAnswers
	a.LessonID = req.LessonID
	if err := s.AssessmentRepo.Update(a); err != nil {
		return nil, err
	}
	return a, nil
}

func (s *AssessmentService) Delete(actor util.Actor, assessmentID uint) error {
	if _, err := s.managed(actor, assessmentID); err != nil {
		return err
	}
	return s.AssessmentRepo.Delete(assessmentID)
}

func (s *AssessmentService) ListByUnit(unitID uint) ([]model.Assessment, error) {
	return s.AssessmentRepo.ListByUnit(unitID)
}

type OptionRequest struct {
	OptionText string `json:"optionText" binding:"required"`
	IsCorrect  bool   `json:"isCorrect"`
	Order      uint   `json:"order"`
}

type QuestionRequest struct {
	QuestionText string             `json:"questionText" binding:"required"`
	QuestionType model.QuestionType `json:"questionType" binding:"required"`
	Points       uint               `json:"points"`
	Order        uint               `json:"order"`
	AnswerBool   *bool              `json:"answerBool"`
	AnswerText   string             `json:"answerText"`
	Options      []OptionRequest    `json:"options"`
}

func validateQuestion(i int, q QuestionRequest) error {
	if !q.QuestionType.Valid() {
		return util.Validation(fmt.Sprintf("question %d: invalid type %q", i+1, q.QuestionType))
	}
	switch q.QuestionType {
	case model.QuestionMCQ:
		if len(q.Options) < 2 {
			return util.Validation(fmt.Sprintf("question %d: MCQ needs at least two options", i+1))
		}
		correct := 0
		for _, o := range q.Options {
			if o.IsCorrect {
				correct++
			}
		}
		if correct != 1 {
			return util.Validation(fmt.Sprintf("question %d: MCQ needs exactly one correct option, got %d", i+1, correct))
		}
	case model.QuestionTF:
		if q.AnswerBool == nil {
			return util.Validation(fmt.Sprintf("question %d: TF needs a true/false answer key", i+1))
		}
	}
	return nil
}

// SaveQuestions replaces the assessment's question set wholesale. The whole
// batch is validated before anything is written, and the repository swap is
// transactional, so a bad payload can never leave a partial set behind.
func (s *AssessmentService) SaveQuestions(actor util.Actor, assessmentID uint, reqs []QuestionRequest) ([]model.Question, error) {
	if _, err := s.managed(actor, assessmentID); err != nil {
		return nil, err
	}

	questions := make([]model.Question, 0, len(reqs))
	for i, qr := range reqs {
		if err := validateQuestion(i, qr); err != nil {
			return nil, err
		}
		q := model.Question{
			AssessmentID: assessmentID,
			QuestionText: qr.QuestionText,
			QuestionType: qr.QuestionType,
			Points:       qr.Points,
			Order:        qr.Order,
			AnswerBool:   qr.AnswerBool,
			AnswerText:   qr.AnswerText,
		}
		if q.Points == 0 {
			q.Points = 1
		}
		if q.Order == 0 {
			q.Order = uint(i + 1)
		}
		for j, or := range qr.Options {
			opt := model.QuestionOption{
				OptionText: or.OptionText,
				IsCorrect:  or.IsCorrect,
				Order:      or.Order,
			}
			if opt.Order == 0 {
				opt.Order = uint(j + 1)
			}
			q.Options = append(q.Options, opt)
		}
		questions = append(questions, q)
	}

	if err := s.AssessmentRepo.ReplaceQuestions(assessmentID, questions); err != nil {
		return nil, err
	}
	return s.AssessmentRepo.ListQuestions(assessmentID)
}

// StudentQuestion is a question with all answer keys stripped.
type StudentQuestion struct {
	ID           uint               `json:"id"`
	QuestionText string             `json:"questionText"`
	QuestionType model.QuestionType `json:"questionType"`
	Points       uint               `json:"points"`
	Order        uint               `json:"order"`
	Options      []StudentOption    `json:"options,omitempty"`
}

type StudentOption struct {
	ID         uint   `json:"id"`
	OptionText string `json:"optionText"`
	Order      uint   `json:"order"`
}

type StudentAssessmentView struct {
	Assessment *model.Assessment `json:"assessment"`
	Gate       model.GateState   `json:"gate"`
	OpensIn    *Countdown        `json:"opensIn,omitempty"`
	Questions  []StudentQuestion `json:"questions,omitempty"`
	Submitted  bool              `json:"submitted"`
}

// StudentView returns the assessment as a student sees it: a countdown with
// no questions before the scheduled time, the sanitized question set once
// open.
func (s *AssessmentService) StudentView(actor util.Actor, assessmentID uint, now time.Time) (*StudentAssessmentView, error) {
	a, err := s.AssessmentRepo.FindByID(assessmentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.NotFound("assessment not found")
		}
		return nil, err
	}
	enrolled, err := s.EnrollRepo.IsEnrolledInUnit(actor.UserID, a.UnitID)
	if err != nil {
		return nil, err
	}
	if !enrolled {
		return nil, util.Forbidden("not enrolled in this unit")
	}

	view := &StudentAssessmentView{Assessment: a, Gate: ClassifyAssessment(a, now)}
	if view.Gate == model.GateNotYetOpen {
		cd := TimeRemaining(*a.ScheduledAt, now)
		view.OpensIn = &cd
		return view, nil
	}

	if _, err := s.AssessmentRepo.FindSubmissionByPair(assessmentID, actor.UserID); err == nil {
		view.Submitted = true
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	qs, err := s.AssessmentRepo.ListQuestions(assessmentID)
	if err != nil {
		return nil, err
	}
	for _, q := range qs {
		sq := StudentQuestion{
			ID:           q.ID,
			QuestionText: q.QuestionText,
			QuestionType: q.QuestionType,
			Points:       q.Points,
			Order:        q.Order,
		}
		for _, o := range q.Options {
			sq.Options = append(sq.Options, StudentOption{ID: o.ID, OptionText: o.OptionText, Order: o.Order})
		}
		view.Questions = append(view.Questions, sq)
	}
	return view, nil
}

type AnswerRequest struct {
	QuestionID       uint   `json:"questionId" binding:"required"`
	SelectedOptionID *uint  `json:"selectedOptionId"`
	AnswerText       string `json:"answerText"`
}

type SubmitRequest struct {
	Content string          `json:"content"`
	Answers []AnswerRequest `json:"answers"`
}

// Submit records a student's submission once the gate is open. MCQ and TF
// answers are scored immediately against the stored keys; the rest earn
// points only when the trainer grades them.
func (s *AssessmentService) Submit(actor util.Actor, assessmentID uint, req SubmitRequest, now time.Time) (*model.Submission, error) {
	if actor.Role != model.Student {
		return nil, util.Forbidden("only students may submit assessments")
	}
	a, err := s.AssessmentRepo.FindByID(assessmentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.NotFound("assessment not found")
		}
		return nil, err
	}
	if ClassifyAssessment(a, now) == model.GateNotYetOpen {
		return nil, util.InvalidTransition("assessment has not opened yet")
	}
	enrolled, err := s.EnrollRepo.IsEnrolledInUnit(actor.UserID, a.UnitID)
	if err != nil {
		return nil, err
	}
	if !enrolled {
		return nil, util.Forbidden("not enrolled in this unit")
	}
	if _, err := s.AssessmentRepo.FindSubmissionByPair(assessmentID, actor.UserID); err == nil {
		return nil, util.Validation("assessment already submitted")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	questions, err := s.AssessmentRepo.ListQuestions(assessmentID)
	if err != nil {
		return nil, err
	}
	byID := make(map[uint]model.Question, len(questions))
	for _, q := range questions {
		byID[q.ID] = q
	}

	sub := &model.Submission{
		AssessmentID: assessmentID,
		StudentID:    actor.UserID,
		Content:      req.Content,
		SubmittedAt:  now,
	}
	if err := s.AssessmentRepo.CreateSubmission(sub); err != nil {
		return nil, err
	}

	autoScore := 0.0
	autoGradable := false
	answers := make([]model.StudentAnswer, 0, len(req.Answers))
	for _, ar := range req.Answers {
		q, ok := byID[ar.QuestionID]
		if !ok {
			continue
		}
		ans := model.StudentAnswer{
			SubmissionID:     sub.ID,
			QuestionID:       q.ID,
			SelectedOptionID: ar.SelectedOptionID,
			AnswerText:       ar.AnswerText,
		}
		switch q.QuestionType {
		case model.QuestionMCQ:
			autoGradable = true
			correct := false
			if ar.SelectedOptionID != nil {
				for _, o := range q.Options {
					if o.ID == *ar.SelectedOptionID && o.IsCorrect {
						correct = true
						break
					}
				}
			}
			ans.IsCorrect = &correct
			earned := 0.0
			if correct {
				earned = float64(q.Points)
			}
			ans.PointsEarned = &earned
			autoScore += earned
		case model.QuestionTF:
			autoGradable = true
			correct := q.AnswerBool != nil && parseBool(ar.AnswerText) == *q.AnswerBool
			ans.IsCorrect = &correct
			earned := 0.0
			if correct {
				earned = float64(q.Points)
			}
			ans.PointsEarned = &earned
			autoScore += earned
		}
		answers = append(answers, ans)
	}
	if err := s.AssessmentRepo.CreateAnswers(answers); err != nil {
		return nil, err
	}
	if autoGradable {
		sub.AutoGradedScore = &autoScore
		if err := s.AssessmentRepo.UpdateSubmission(sub); err != nil {
			return nil, err
		}
	}
	return sub, nil
}

func parseBool(s string) bool {
	switch s {
	case "true", "True", "TRUE", "1":
		return true
	}
	return false
}

// Grade records the trainer's grade and feedback. The student's answers and
// content stay immutable; only grading fields change after submission.
func (s *AssessmentService) Grade(actor util.Actor, submissionID uint, grade float64, feedback string) (*model.Submission, error) {
	sub, err := s.AssessmentRepo.FindSubmissionByID(submissionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.NotFound("submission not found")
		}
		return nil, err
	}
	a, err := s.AssessmentRepo.FindByID(sub.AssessmentID)
	if err != nil {
		return nil, err
	}
	unit, err := s.UnitRepo.FindByID(a.UnitID)
	if err != nil {
		return nil, err
	}
	if !s.canManage(actor, unit) {
		return nil, util.Forbidden("not allowed to grade submissions for this unit")
	}
	if grade < 0 || grade > float64(a.Points) {
		return nil, util.Validation(fmt.Sprintf("grade must be between 0 and %d", a.Points))
	}

	sub.Grade = &grade
	sub.Feedback = feedback
	sub.IsGraded = true
	if err := s.AssessmentRepo.UpdateSubmission(sub); err != nil {
		return nil, err
	}
	return sub, nil
}

func (s *AssessmentService) ListSubmissions(actor util.Actor, assessmentID uint) ([]model.Submission, error) {
	if _, err := s.managed(actor, assessmentID); err != nil {
		return nil, err
	}
	return s.AssessmentRepo.ListSubmissions(assessmentID)
}

type SubmissionDetail struct {
	Submission *model.Submission     `json:"submission"`
	Answers    []model.StudentAnswer `json:"answers"`
}

// MySubmission returns the student's own submission with answers; answer
// keys are exposed only when the assessment opts into showing them.
func (s *AssessmentService) MySubmission(actor util.Actor, assessmentID uint) (*SubmissionDetail, error) {
	sub, err := s.AssessmentRepo.FindSubmissionByPair(assessmentID, actor.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.NotFound("no submission yet")
		}
		return nil, err
	}
	answers, err := s.AssessmentRepo.ListAnswers(sub.ID)
	if err != nil {
		return nil, err
	}
	return &SubmissionDetail{Submission: sub, Answers: answers}, nil
}

// GenerateCATs creates the unit's scheduled CATs for its cadence: one per
// cat_frequency lessons, points split evenly from the unit's CAT total.
func (s *AssessmentService) GenerateCATs(actor util.Actor, unitID uint) ([]model.Assessment, error) {
	unit, err := s.UnitRepo.FindByID(unitID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.NotFound("unit not found")
		}
		return nil, err
	}
	if !s.canManage(actor, unit) {
		return nil, util.Forbidden("not allowed to manage this unit")
	}
	if unit.CatFrequency == 0 {
		return nil, util.Validation("unit has no CAT cadence configured")
	}

	needed := int(unit.TotalLessons / unit.CatFrequency)
	existing, err := s.AssessmentRepo.CountByUnitAndType(unitID, model.AssessmentCAT)
	if err != nil {
		return nil, err
	}
	if int(existing) >= needed {
		return nil, util.Validation("all scheduled CATs already exist for this unit")
	}

	pointsEach := unit.CatTotalPoints / uint(needed)
	created := make([]model.Assessment, 0, needed-int(existing))
	for i := int(existing); i < needed; i++ {
		a := model.Assessment{
			UnitID:         unitID,
			TrainerID:      &actor.UserID,
			AssessmentType: model.AssessmentCAT,
			Title:          fmt.Sprintf("CAT %d", i+1),
			Points:         pointsEach,
			DueDate:        time.Now().AddDate(0, 0, 7*(i+1)),
		}
		if err := s.AssessmentRepo.Create(&a); err != nil {
			return nil, err
		}
		created = append(created, a)
	}
	return created, nil
}
