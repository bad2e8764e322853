package service

import (
	"context"
	"errors"
	"mime/multipart"

	"mls_backend/internal/model"
	"mls_backend/internal/repository"
	"mls_backend/internal/util"

	"gorm.io/gorm"
)

// ResourceService attaches teaching materials to lessons, uploading files
// through the configured storage provider.
type ResourceService struct {
	ResourceRepo *repository.ResourceRepository
	LessonRepo   *repository.LessonRepository
	UnitRepo     *repository.UnitRepository
	EnrollRepo   *repository.EnrollmentRepository
	Storage      StorageProvider
}

func NewResourceService(
	resourceRepo *repository.ResourceRepository,
	lessonRepo *repository.LessonRepository,
	unitRepo *repository.UnitRepository,
	enrollRepo *repository.EnrollmentRepository,
	storage StorageProvider,
) *ResourceService {
	return &ResourceService{
		ResourceRepo: resourceRepo,
		LessonRepo:   lessonRepo,
		UnitRepo:     unitRepo,
		EnrollRepo:   enrollRepo,
		Storage:      storage,
	}
}

func (s *ResourceService) ownedLesson(actor util.Actor, lessonID uint) (*model.Lesson, error) {
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
	if actor.Role != model.Admin &&
		!(actor.Role == model.Trainer && unit.TrainerID != nil && *unit.TrainerID == actor.UserID) {
		return nil, util.Forbidden("only the lesson's trainer may manage its resources")
	}
	return lesson, nil
}

type ResourceRequest struct {
	Title        string             `form:"title" binding:"required"`
	ResourceType model.ResourceType `form:"resourceType" binding:"required"`
	URL          string             `form:"url"`
	Description  string             `form:"description"`
}

// Attach stores a resource on a lesson. Link resources carry a URL; file
// resources carry an upload.
func (s *ResourceService) Attach(ctx context.Context, actor util.Actor, lessonID uint, req ResourceRequest, file *multipart.FileHeader) (*model.Resource, error) {
	if !req.ResourceType.Valid() {
		return nil, util.Validation("invalid resource type: " + string(req.ResourceType))
	}
	if _, err := s.ownedLesson(actor, lessonID); err != nil {
		return nil, err
	}

	res := &model.Resource{
		LessonID:     lessonID,
		Title:        req.Title,
		ResourceType: req.ResourceType,
		URL:          req.URL,
		Description:  req.Description,
	}
	if req.ResourceType == model.ResourceLink {
		if req.URL == "" {
			return nil, util.Validation("link resources need a URL")
		}
	} else {
		if file == nil {
			return nil, util.Validation("file resources need an upload")
		}
		fileURL, err := s.Storage.Upload(ctx, file)
		if err != nil {
			return nil, err
		}
		res.FileURL = fileURL
	}

	if err := s.ResourceRepo.Create(res); err != nil {
		return nil, err
	}
	return res, nil
}

// ListForLesson returns a lesson's resources. Students only see resources
// of lessons visible to them.
func (s *ResourceService) ListForLesson(actor util.Actor, lessonID uint) ([]model.Resource, error) {
	lesson, err := s.LessonRepo.FindByID(lessonID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.NotFound("lesson not found")
		}
		return nil, err
	}
	if actor.Role == model.Student {
		if !lesson.VisibleToStudents() {
			return nil, util.Forbidden("lesson is not available")
		}
		enrolled, err := s.EnrollRepo.IsEnrolledInUnit(actor.UserID, lesson.UnitID)
		if err != nil {
			return nil, err
		}
		if !enrolled {
			return nil, util.Forbidden("not enrolled in this unit")
		}
	}
	return s.ResourceRepo.ListByLesson(lessonID)
}

func (s *ResourceService) Remove(ctx context.Context, actor util.Actor, resourceID uint) error {
	res, err := s.ResourceRepo.FindByID(resourceID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return util.NotFound("resource not found")
		}
		return err
	}
	if _, err := s.ownedLesson(actor, res.LessonID); err != nil {
		return err
	}
	if res.FileURL != "" {
		// Stored object removal is best-effort; the row is the record.
		_ = s.Storage.Delete(ctx, res.FileURL)
	}
	return s.ResourceRepo.Delete(resourceID)
}
