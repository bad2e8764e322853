package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"mls_backend/internal/model"
	"mls_backend/internal/repository"
	"mls_backend/internal/util"
	"mls_backend/pkg/logger"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const progressCacheTTL = 5 * time.Minute

// ProgressService computes per-student unit progress from lesson
// completions. The denominator is the unit's approved lesson count, so a
// newly approved lesson immediately lowers every student's percentage.
type ProgressService struct {
	LessonRepo *repository.LessonRepository
	EnrollRepo *repository.EnrollmentRepository
	Redis      *redis.Client
}

func NewProgressService(lessonRepo *repository.LessonRepository, enrollRepo *repository.EnrollmentRepository, rdb *redis.Client) *ProgressService {
	return &ProgressService{LessonRepo: lessonRepo, EnrollRepo: enrollRepo, Redis: rdb}
}

type UnitProgress struct {
	UnitID    uint `json:"unitId"`
	StudentID uint `json:"studentId"`
	Completed int  `json:"completed"`
	Total     int  `json:"total"`
	Percent   int  `json:"percent"`
}

// Percentage rounds 100*completed/total to the nearest integer. A unit with
// no approved lessons reports 0, never a division error.
func Percentage(completed, total int) int {
	if total <= 0 {
		return 0
	}
	return int(math.Round(100 * float64(completed) / float64(total)))
}

// ReconcileProgress resolves an optimistic client-side percentage against
// the authoritative recomputed one: the authoritative value always wins
// when the two diverge.
func ReconcileProgress(optimistic, authoritative int) int {
	if optimistic != authoritative {
		return authoritative
	}
	return optimistic
}

func progressCacheKey(studentID, unitID uint) string {
	return fmt.Sprintf("progress:%d:%d", studentID, unitID)
}

// UnitProgress computes the student's progress for a unit, consulting the
// cache first. Cache failures degrade to a recompute.
func (s *ProgressService) UnitProgress(ctx context.Context, studentID, unitID uint) (*UnitProgress, error) {
	enrolled, err := s.EnrollRepo.IsEnrolledInUnit(studentID, unitID)
	if err != nil {
		return nil, err
	}
	if !enrolled {
		return nil, util.Forbidden("not enrolled in this unit")
	}

	if s.Redis != nil {
		var cached UnitProgress
		if err := s.getCached(ctx, progressCacheKey(studentID, unitID), &cached); err == nil {
			return &cached, nil
		}
	}
	return s.recompute(ctx, studentID, unitID)
}

func (s *ProgressService) recompute(ctx context.Context, studentID, unitID uint) (*UnitProgress, error) {
	total, err := s.LessonRepo.CountApprovedByUnit(unitID)
	if err != nil {
		return nil, err
	}
	completed, err := s.LessonRepo.CountCompletedApproved(studentID, unitID)
	if err != nil {
		return nil, err
	}

	p := &UnitProgress{
		UnitID:    unitID,
		StudentID: studentID,
		Completed: int(completed),
		Total:     int(total),
		Percent:   Percentage(int(completed), int(total)),
	}
	s.setCached(ctx, progressCacheKey(studentID, unitID), p)
	return p, nil
}

// ToggleCompletion flips the student's completion flag for a lesson and
// synchronously recomputes unit progress, returning the authoritative
// figures for the client to reconcile against.
func (s *ProgressService) ToggleCompletion(ctx context.Context, actor util.Actor, lessonID uint, completed bool) (*UnitProgress, error) {
	if actor.Role != model.Student {
		return nil, util.Forbidden("only students track lesson completion")
	}
	lesson, err := s.LessonRepo.FindByID(lessonID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.NotFound("lesson not found")
		}
		return nil, err
	}
	if !lesson.IsTaught {
		return nil, util.InvalidTransition("cannot mark completion for a lesson that has not been taught")
	}
	enrolled, err := s.EnrollRepo.IsEnrolledInUnit(actor.UserID, lesson.UnitID)
	if err != nil {
		return nil, err
	}
	if !enrolled {
		return nil, util.Forbidden("not enrolled in this unit")
	}

	completion := &model.LessonCompletion{
		StudentID:   actor.UserID,
		LessonID:    lessonID,
		IsCompleted: completed,
	}
	if err := s.LessonRepo.UpsertCompletion(completion); err != nil {
		return nil, err
	}
	s.invalidate(ctx, progressCacheKey(actor.UserID, lesson.UnitID))
	return s.recompute(ctx, actor.UserID, lesson.UnitID)
}

// InvalidateUnit drops cached progress for every student of the unit, used
// when the approved lesson count changes.
func (s *ProgressService) InvalidateUnit(ctx context.Context, unitID uint) {
	if s.Redis == nil {
		return
	}
	students, err := s.EnrollRepo.StudentsOfUnit(unitID)
	if err != nil {
		logger.Log.Warn("progress cache invalidation skipped", zap.Uint("unitId", unitID), zap.Error(err))
		return
	}
	for _, st := range students {
		s.invalidate(ctx, progressCacheKey(st.ID, unitID))
	}
}

func (s *ProgressService) getCached(ctx context.Context, key string, out *UnitProgress) error {
	val, err := s.Redis.Get(ctx, key).Result()
	if err != nil {
		return err
	}
	_, err = fmt.Sscanf(val, "%d/%d/%d/%d/%d", &out.StudentID, &out.UnitID, &out.Completed, &out.Total, &out.Percent)
	return err
}

func (s *ProgressService) setCached(ctx context.Context, key string, p *UnitProgress) {
	if s.Redis == nil {
		return
	}
	val := fmt.Sprintf("%d/%d/%d/%d/%d", p.StudentID, p.UnitID, p.Completed, p.Total, p.Percent)
	if err := s.Redis.Set(ctx, key, val, progressCacheTTL).Err(); err != nil {
		logger.Log.Warn("progress cache write failed", zap.String("key", key), zap.Error(err))
	}
}

func (s *ProgressService) invalidate(ctx context.Context, key string) {
	if s.Redis == nil {
		return
	}
	if err := s.Redis.Del(ctx, key).Err(); err != nil {
		logger.Log.Warn("progress cache delete failed", zap.String("key", key), zap.Error(err))
	}
}
