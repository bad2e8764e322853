package service

import (
	"errors"
	"fmt"
	"time"

	"mls_backend/internal/model"
	"mls_backend/internal/repository"
	"mls_backend/internal/util"
	"mls_backend/pkg/monitoring"

	"gorm.io/gorm"
)

// LessonService owns the lesson-plan workflow:
//
//	Draft -> PendingApproval -> Approved
//	                   \-> Rejected (feedback) -> PendingApproval (resubmit)
//
// Approved is not permanently locked: an HOD may reopen it, which is modeled
// as a rejection with fresh feedback.
type LessonService struct {
	LessonRepo     *repository.LessonRepository
	UnitRepo       *repository.UnitRepository
	AssessmentRepo *repository.AssessmentRepository
	EnrollRepo     *repository.EnrollmentRepository
	Attendance     *AttendanceService
}

func NewLessonService(
	lessonRepo *repository.LessonRepository,
	unitRepo *repository.UnitRepository,
	assessmentRepo *repository.AssessmentRepository,
	enrollRepo *repository.EnrollmentRepository,
	attendance *AttendanceService,
) *LessonService {
	return &LessonService{
		LessonRepo:     lessonRepo,
		UnitRepo:       unitRepo,
		AssessmentRepo: assessmentRepo,
		EnrollRepo:     enrollRepo,
		Attendance:     attendance,
	}
}

type LessonRequest struct {
	UnitID        uint       `json:"unitId" binding:"required"`
	Title         string     `json:"title" binding:"required"`
	Topic         string     `json:"topic"`
	Subtopic      string     `json:"subtopic"`
	Outcomes      string     `json:"outcomes"`
	Content       string     `json:"content"`
	SessionLabel  string     `json:"sessionLabel"`
	LessonDate    *time.Time `json:"lessonDate"`
	StartTime     string     `json:"startTime"`
	EndTime       string     `json:"endTime"`
	Order         uint       `json:"order" binding:"required"`
	IsLab         bool       `json:"isLab"`
	HasCat        bool       `json:"hasCat"`
	HasAssessment bool       `json:"hasAssessment"`
}

// canAuthor reports whether the actor may create or edit lessons of the
// unit: its assigned trainer, or an Admin.
func (s *LessonService) canAuthor(actor util.Actor, unit *model.Unit) bool {
	if actor.Role == model.Admin {
		return true
	}
	return actor.Role == model.Trainer && unit.TrainerID != nil && *unit.TrainerID == actor.UserID
}

func canReview(actor util.Actor) bool {
	return actor.Role == model.HOD || actor.Role == model.Admin
}

func (s *LessonService) Create(actor util.Actor, req LessonRequest) (*model.Lesson, error) {
	unit, err := s.UnitRepo.FindByID(req.UnitID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.NotFound("unit not found")
		}
		return nil, err
	}
	if !s.canAuthor(actor, unit) {
		return nil, util.Forbidden("only the assigned trainer may create lessons for this unit")
	}

	count, err := s.LessonRepo.CountByUnit(unit.ID)
	if err != nil {
		return nil, err
	}
	if uint(count) >= unit.TotalLessons {
		return nil, util.Validation(fmt.Sprintf("lesson limit reached: this unit allows at most %d lessons", unit.TotalLessons))
	}

	// A unit's CAT cadence must stay ahead of lesson creation: every
	// cat_frequency lessons require one CAT to exist first.
	if unit.CatFrequency > 0 {
		requiredCats := uint(count) / unit.CatFrequency
		existingCats, err := s.AssessmentRepo.CountByUnitAndType(unit.ID, model.AssessmentCAT)
		if err != nil {
			return nil, err
		}
		if uint(existingCats) < requiredCats {
			return nil, util.Validation(fmt.Sprintf(
				"cannot create lesson: CAT %d is missing (due at lesson %d)",
				existingCats+1, (uint(existingCats)+1)*unit.CatFrequency))
		}
	}

	lesson := &model.Lesson{
		UnitID:        unit.ID,
		TrainerID:     &actor.UserID,
		Title:         req.Title,
		Topic:         req.Topic,
		Subtopic:      req.Subtopic,
		Outcomes:      req.Outcomes,
		Content:       req.Content,
		SessionLabel:  req.SessionLabel,
		LessonDate:    req.LessonDate,
		StartTime:     req.StartTime,
		EndTime:       req.EndTime,
		Order:         req.Order,
		IsLab:         req.IsLab,
		HasCat:        req.HasCat,
		HasAssessment: req.HasAssessment,
		IsActive:      true,
	}
	if err := s.LessonRepo.Create(lesson); err != nil {
		return nil, err
	}
	monitoring.LessonTransitions.WithLabelValues(string(model.LessonDraft)).Inc()
	return lesson, nil
}

// ownedLesson loads the lesson and its unit and verifies authoring rights
// against the current stored state.
func (s *LessonService) ownedLesson(actor util.Actor, lessonID uint) (*model.Lesson, error) {
	lesson, err := s.LessonRepo.FindByID(lessonID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.NotFound("lesson not found")
		}
		return nil, err
	}
	unit, err := s.UnitRepo.FindByID(lesson.UnitID)
	if err != nil {
		return nil, err
	}
	if !s.canAuthor(actor, unit) {
		return nil, util.Forbidden("only the lesson's trainer may modify it")
	}
	return lesson, nil
}

func (s *LessonService) Update(actor util.Actor, lessonID uint, req LessonRequest) (*model.Lesson, error) {
	lesson, err := s.ownedLesson(actor, lessonID)
	if err != nil {
		return nil, err
	}

	lesson.Title = req.Title
	lesson.Topic = req.Topic
	lesson.Subtopic = req.Subtopic
	lesson.Outcomes = req.Outcomes
	lesson.Content = req.Content
	lesson.SessionLabel = req.SessionLabel
	lesson.LessonDate = req.LessonDate
	lesson.StartTime = req.StartTime
	lesson.EndTime = req.EndTime
	lesson.IsLab = req.IsLab
	lesson.HasCat = req.HasCat
	lesson.HasAssessment = req.HasAssessment
	if err := s.LessonRepo.Update(lesson); err != nil {
		return nil, err
	}
	return lesson, nil
}

// Submit marks the lesson as taught (pending approval) or reverts it to a
// draft. Resubmitting a rejected lesson clears the audit feedback and
// re-affirms is_taught, returning it to PendingApproval.
func (s *LessonService) Submit(actor util.Actor, lessonID uint, asDraft bool) (*model.Lesson, error) {
	lesson, err := s.ownedLesson(actor, lessonID)
	if err != nil {
		return nil, err
	}

	if asDraft {
		lesson.IsTaught = false
	} else {
		lesson.IsTaught = true
	}
	lesson.IsApproved = false
	lesson.AuditFeedback = ""

	if err := s.LessonRepo.UpdateWorkflowFields(lesson.ID, lesson.IsTaught, lesson.IsApproved, lesson.AuditFeedback); err != nil {
		return nil, err
	}
	monitoring.LessonTransitions.WithLabelValues(string(lesson.State())).Inc()
	return lesson, nil
}

// Approve validates against the lesson's current stored state, not a
// client-cached copy, so a lesson concurrently reverted to draft cannot be
// approved.
func (s *LessonService) Approve(actor util.Actor, lessonID uint) (*model.Lesson, error) {
	if !canReview(actor) {
		return nil, util.Forbidden("only an HOD or Admin may approve lessons")
	}
	lesson, err := s.LessonRepo.FindByID(lessonID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.NotFound("lesson not found")
		}
		return nil, err
	}
	if !lesson.IsTaught {
		return nil, util.InvalidTransition("cannot approve a lesson that has not been taught")
	}

	lesson.IsApproved = true
	lesson.AuditFeedback = ""
	if err := s.LessonRepo.UpdateWorkflowFields(lesson.ID, lesson.IsTaught, lesson.IsApproved, lesson.AuditFeedback); err != nil {
		return nil, err
	}
	monitoring.LessonTransitions.WithLabelValues(string(model.LessonApproved)).Inc()
	return lesson, nil
}

// Reject requires non-empty feedback; it also serves as the reopen path for
// an already-approved lesson.
func (s *LessonService) Reject(actor util.Actor, lessonID uint, feedback string) (*model.Lesson, error) {
	if !canReview(actor) {
		return nil, util.Forbidden("only an HOD or Admin may reject lessons")
	}
	if feedback == "" {
		return nil, util.Validation("rejection feedback is required")
	}
	lesson, err := s.LessonRepo.FindByID(lessonID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.NotFound("lesson not found")
		}
		return nil, err
	}
	if !lesson.IsTaught {
		return nil, util.InvalidTransition("cannot reject a lesson that has not been taught")
	}

	lesson.IsApproved = false
	lesson.AuditFeedback = feedback
	if err := s.LessonRepo.UpdateWorkflowFields(lesson.ID, lesson.IsTaught, lesson.IsApproved, lesson.AuditFeedback); err != nil {
		return nil, err
	}
	monitoring.LessonTransitions.WithLabelValues(string(model.LessonRejected)).Inc()
	return lesson, nil
}

// Deactivate soft-disables a lesson. Lessons referenced by attendance or
// completion records are never hard-deleted. The lesson is returned so
// callers can refresh per-unit caches.
func (s *LessonService) Deactivate(actor util.Actor, lessonID uint) (*model.Lesson, error) {
	lesson, err := s.ownedLesson(actor, lessonID)
	if err != nil {
		return nil, err
	}
	if err := s.LessonRepo.Deactivate(lessonID); err != nil {
		return nil, err
	}
	lesson.IsActive = false
	return lesson, nil
}

func (s *LessonService) ListByUnit(unitID uint) ([]model.Lesson, error) {
	return s.LessonRepo.ListByUnit(unitID)
}

type StudentLesson struct {
	model.Lesson
	IsCompleted bool `json:"isCompleted"`
}

// ListForStudent returns the unit's lessons visible to the student
// (approved and active) with the student's completion flag attached.
func (s *LessonService) ListForStudent(studentID, unitID uint) ([]StudentLesson, error) {
	enrolled, err := s.EnrollRepo.IsEnrolledInUnit(studentID, unitID)
	if err != nil {
		return nil, err
	}
	if !enrolled {
		return nil, util.Forbidden("not enrolled in this unit")
	}

	lessons, err := s.LessonRepo.ListApprovedByUnit(unitID)
	if err != nil {
		return nil, err
	}
	completions, err := s.LessonRepo.CompletionsForUnit(studentID, unitID)
	if err != nil {
		return nil, err
	}

	out := make([]StudentLesson, len(lessons))
	for i, l := range lessons {
		out[i] = StudentLesson{Lesson: l, IsCompleted: completions[l.ID]}
	}
	return out, nil
}

// ViewContent returns a visible lesson for a student and auto-marks their
// attendance as a best-effort side effect of opening the content.
func (s *LessonService) ViewContent(studentID, lessonID uint) (*model.Lesson, error) {
	lesson, err := s.LessonRepo.FindByID(lessonID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.NotFound("lesson not found")
		}
		return nil, err
	}
	if !lesson.VisibleToStudents() {
		return nil, util.Forbidden("lesson is not available")
	}
	enrolled, err := s.EnrollRepo.IsEnrolledInUnit(studentID, lesson.UnitID)
	if err != nil {
		return nil, err
	}
	if !enrolled {
		return nil, util.Forbidden("not enrolled in this unit")
	}

	s.Attendance.AutoMarkOnAccess(lessonID, studentID)
	return lesson, nil
}
