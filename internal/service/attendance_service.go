package service

import (
	"errors"
	"time"

	"mls_backend/internal/model"
	"mls_backend/internal/repository"
	"mls_backend/internal/util"
	"mls_backend/pkg/logger"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// AttendanceService keeps one attendance record per (lesson, student) pair.
// Manual marks overwrite, automatic marks never overwrite a manual one.
type AttendanceService struct {
	AttendanceRepo *repository.AttendanceRepository
	LessonRepo     *repository.LessonRepository
	UnitRepo       *repository.UnitRepository
	EnrollRepo     *repository.EnrollmentRepository
	AssessmentRepo *repository.AssessmentRepository
}

func NewAttendanceService(
	attendanceRepo *repository.AttendanceRepository,
	lessonRepo *repository.LessonRepository,
	unitRepo *repository.UnitRepository,
	enrollRepo *repository.EnrollmentRepository,
	assessmentRepo *repository.AssessmentRepository,
) *AttendanceService {
	return &AttendanceService{
		AttendanceRepo: attendanceRepo,
		LessonRepo:     lessonRepo,
		UnitRepo:       unitRepo,
		EnrollRepo:     enrollRepo,
		AssessmentRepo: assessmentRepo,
	}
}

// canMark reports whether the actor may record attendance for the lesson's
// unit: its trainer, an HOD, or an Admin.
func (s *AttendanceService) canMark(actor util.Actor, unit *model.Unit) bool {
	switch actor.Role {
	case model.Admin, model.HOD:
		return true
	case model.Trainer:
		return unit.TrainerID != nil && *unit.TrainerID == actor.UserID
	}
	return false
}

func (s *AttendanceService) lessonUnit(lessonID uint) (*model.Lesson, *model.Unit, error) {
	lesson, err := s.LessonRepo.FindByID(lessonID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, util.NotFound("lesson not found")
		}
		return nil, nil, err
	}
	unit, err := s.UnitRepo.FindByID(lesson.UnitID)
	if err != nil {
		return nil, nil, err
	}
	return lesson, unit, nil
}

// MarkOne records or overwrites the status for a single student.
func (s *AttendanceService) MarkOne(actor util.Actor, lessonID, studentID uint, status model.AttendanceStatus) (*model.AttendanceRecord, error) {
	if !status.Valid() {
		return nil, util.Validation("invalid attendance status: " + string(status))
	}
	lesson, unit, err := s.lessonUnit(lessonID)
	if err != nil {
		return nil, err
	}
	if !s.canMark(actor, unit) {
		return nil, util.Forbidden("not allowed to mark attendance for this unit")
	}
	enrolled, err := s.EnrollRepo.IsEnrolledInUnit(studentID, lesson.UnitID)
	if err != nil {
		return nil, err
	}
	if !enrolled {
		return nil, util.Validation("student is not enrolled in this unit")
	}

	rec := &model.AttendanceRecord{
		LessonID:  lessonID,
		StudentID: studentID,
		Status:    status,
		MarkedAt:  time.Now(),
		MarkedBy:  &actor.UserID,
	}
	if err := s.AttendanceRepo.Upsert(rec); err != nil {
		return nil, err
	}
	return rec, nil
}

type BulkMarkItem struct {
	StudentID uint                   `json:"studentId" binding:"required"`
	Status    model.AttendanceStatus `json:"status" binding:"required"`
}

// BulkMarkOutcome echoes the applied status per student so clients can
// render the resulting (student, status) list without a second fetch.
type BulkMarkOutcome struct {
	StudentID uint                   `json:"studentId"`
	Status    model.AttendanceStatus `json:"status,omitempty"`
	OK        bool                   `json:"ok"`
	Error     string                 `json:"error,omitempty"`
}

// MarkBulk applies a batch of marks, reporting a per-student outcome instead
// of aborting the batch on the first failure.
func (s *AttendanceService) MarkBulk(actor util.Actor, lessonID uint, items []BulkMarkItem) ([]BulkMarkOutcome, error) {
	lesson, unit, err := s.lessonUnit(lessonID)
	if err != nil {
		return nil, err
	}
	if !s.canMark(actor, unit) {
		return nil, util.Forbidden("not allowed to mark attendance for this unit")
	}

	outcomes := make([]BulkMarkOutcome, 0, len(items))
	for _, item := range items {
		outcome := BulkMarkOutcome{StudentID: item.StudentID, OK: true}
		switch {
		case !item.Status.Valid():
			outcome.OK = false
			outcome.Error = "invalid status: " + string(item.Status)
		default:
			enrolled, err := s.EnrollRepo.IsEnrolledInUnit(item.StudentID, lesson.UnitID)
			if err != nil {
				outcome.OK = false
				outcome.Error = err.Error()
			} else if !enrolled {
				outcome.OK = false
				outcome.Error = "student not enrolled in this unit"
			} else {
				rec := &model.AttendanceRecord{
					LessonID:  lessonID,
					StudentID: item.StudentID,
					Status:    item.Status,
					MarkedAt:  time.Now(),
					MarkedBy:  &actor.UserID,
				}
				if err := s.AttendanceRepo.Upsert(rec); err != nil {
					outcome.OK = false
					outcome.Error = err.Error()
				} else {
					outcome.Status = item.Status
				}
			}
		}
		outcomes = append(outcomes, outcome)
	}
	return outcomes, nil
}

// AutoMarkAllPresent fills in Present for every enrolled student of the
// lesson's unit who has no record yet. Existing marks, explicit or not, are
// never overwritten; the return value counts only the rows written.
func (s *AttendanceService) AutoMarkAllPresent(actor util.Actor, lessonID uint) (int, error) {
	lesson, unit, err := s.lessonUnit(lessonID)
	if err != nil {
		return 0, err
	}
	if !s.canMark(actor, unit) {
		return 0, util.Forbidden("not allowed to mark attendance for this unit")
	}

	students, err := s.EnrollRepo.StudentsOfUnit(lesson.UnitID)
	if err != nil {
		return 0, err
	}
	marked := 0
	for _, st := range students {
		rec := &model.AttendanceRecord{
			LessonID:  lessonID,
			StudentID: st.ID,
			Status:    model.AttendancePresent,
			MarkedAt:  time.Now(),
			MarkedBy:  &actor.UserID,
		}
		created, err := s.AttendanceRepo.CreateIfAbsent(rec)
		if err != nil {
			logger.Log.Warn("auto-mark skipped student",
				zap.Uint("lessonId", lessonID),
				zap.Uint("studentId", st.ID),
				zap.Error(err))
			continue
		}
		if created {
			marked++
		}
	}
	return marked, nil
}

// AutoMarkOnAccess records Present for a student opening lesson content.
// It is idempotent, never overwrites an explicit mark, and never surfaces
// an error: a failed mark must not block the content view.
func (s *AttendanceService) AutoMarkOnAccess(lessonID, studentID uint) {
	rec := &model.AttendanceRecord{
		LessonID:  lessonID,
		StudentID: studentID,
		Status:    model.AttendancePresent,
		MarkedAt:  time.Now(),
	}
	if _, err := s.AttendanceRepo.CreateIfAbsent(rec); err != nil {
		logger.Log.Warn("attendance auto-mark failed",
			zap.Uint("lessonId", lessonID),
			zap.Uint("studentId", studentID),
			zap.Error(err))
	}
}

type AttendanceReportRow struct {
	StudentID uint                   `json:"studentId"`
	Name      string                 `json:"name"`
	Email     string                 `json:"email"`
	Status    model.AttendanceStatus `json:"status"`
	MarkedAt  *time.Time             `json:"markedAt,omitempty"`
}

type AttendanceReport struct {
	LessonID uint                  `json:"lessonId"`
	Rows     []AttendanceReportRow `json:"rows"`
	Present  int                   `json:"present"`
	Absent   int                   `json:"absent"`
	Late     int                   `json:"late"`
	Unmarked int                   `json:"unmarked"`
}

// LessonReport lists every enrolled student of the lesson's unit with their
// recorded status; students without a record appear as Absent but are
// tallied separately as unmarked.
func (s *AttendanceService) LessonReport(actor util.Actor, lessonID uint) (*AttendanceReport, error) {
	lesson, unit, err := s.lessonUnit(lessonID)
	if err != nil {
		return nil, err
	}
	if !s.canMark(actor, unit) {
		return nil, util.Forbidden("not allowed to view attendance for this unit")
	}

	students, err := s.EnrollRepo.StudentsOfUnit(lesson.UnitID)
	if err != nil {
		return nil, err
	}
	recs, err := s.AttendanceRepo.ListByLesson(lessonID)
	if err != nil {
		return nil, err
	}
	byStudent := make(map[uint]model.AttendanceRecord, len(recs))
	for _, rec := range recs {
		byStudent[rec.StudentID] = rec
	}

	report := &AttendanceReport{LessonID: lessonID}
	for _, st := range students {
		row := AttendanceReportRow{
			StudentID: st.ID,
			Name:      st.FirstName + " " + st.LastName,
			Email:     st.Email,
		}
		if rec, ok := byStudent[st.ID]; ok {
			row.Status = rec.Status
			markedAt := rec.MarkedAt
			row.MarkedAt = &markedAt
			switch rec.Status {
			case model.AttendancePresent:
				report.Present++
			case model.AttendanceAbsent:
				report.Absent++
			case model.AttendanceLate:
				report.Late++
			}
		} else {
			row.Status = model.AttendanceAbsent
			report.Unmarked++
		}
		report.Rows = append(report.Rows, row)
	}
	return report, nil
}

type SubmissionReportRow struct {
	StudentID   uint       `json:"studentId"`
	Name        string     `json:"name"`
	Email       string     `json:"email"`
	Submitted   bool       `json:"submitted"`
	SubmittedAt *time.Time `json:"submittedAt,omitempty"`
	Grade       *float64   `json:"grade,omitempty"`
}

// AssessmentReport cross-references enrollment with submissions so trainers
// can see who has and has not turned the assessment in.
func (s *AttendanceService) AssessmentReport(actor util.Actor, assessmentID uint) ([]SubmissionReportRow, error) {
	assessment, err := s.AssessmentRepo.FindByID(assessmentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.NotFound("assessment not found")
		}
		return nil, err
	}
	unit, err := s.UnitRepo.FindByID(assessment.UnitID)
	if err != nil {
		return nil, err
	}
	if !s.canMark(actor, unit) {
		return nil, util.Forbidden("not allowed to view submissions for this unit")
	}

	students, err := s.EnrollRepo.StudentsOfUnit(assessment.UnitID)
	if err != nil {
		return nil, err
	}
	subs, err := s.AssessmentRepo.ListSubmissions(assessmentID)
	if err != nil {
		return nil, err
	}
	byStudent := make(map[uint]model.Submission, len(subs))
	for _, sub := range subs {
		byStudent[sub.StudentID] = sub
	}

	rows := make([]SubmissionReportRow, 0, len(students))
	for _, st := range students {
		row := SubmissionReportRow{
			StudentID: st.ID,
			Name:      st.FirstName + " " + st.LastName,
			Email:     st.Email,
		}
		if sub, ok := byStudent[st.ID]; ok {
			row.Submitted = true
			submittedAt := sub.SubmittedAt
			row.SubmittedAt = &submittedAt
			row.Grade = sub.Grade
		}
		rows = append(rows, row)
	}
	return rows, nil
}
