package repository

import (
	"mls_backend/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type LessonRepository struct {
	DB *gorm.DB
}

func NewLessonRepository(db *gorm.DB) *LessonRepository {
	return &LessonRepository{DB: db}
}

func (r *LessonRepository) Create(lesson *model.Lesson) error {
	return r.DB.Create(lesson).Error
}

func (r *LessonRepository) FindByID(id uint) (*model.Lesson, error) {
	var lesson model.Lesson
	err := r.DB.First(&lesson, id).Error
	if err != nil {
		return nil, err
	}
	return &lesson, nil
}

func (r *LessonRepository) ListByUnit(unitID uint) ([]model.Lesson, error) {
	var lessons []model.Lesson
	err := r.DB.Where("unit_id = ?", unitID).Order("`order` asc").Find(&lessons).Error
	return lessons, err
}

// ListApprovedByUnit returns only lessons visible to students.
func (r *LessonRepository) ListApprovedByUnit(unitID uint) ([]model.Lesson, error) {
	var lessons []model.Lesson
	err := r.DB.Where("unit_id = ? AND is_approved = ? AND is_active = ?", unitID, true, true).
		Order("`order` asc").Find(&lessons).Error
	return lessons, err
}

func (r *LessonRepository) CountByUnit(unitID uint) (int64, error) {
	var count int64
	err := r.DB.Model(&model.Lesson{}).Where("unit_id = ?", unitID).Count(&count).Error
	return count, err
}

func (r *LessonRepository) CountApprovedByUnit(unitID uint) (int64, error) {
	var count int64
	err := r.DB.Model(&model.Lesson{}).
		Where("unit_id = ? AND is_approved = ? AND is_active = ?", unitID, true, true).
		Count(&count).Error
	return count, err
}

func (r *LessonRepository) Update(lesson *model.Lesson) error {
	return r.DB.Save(lesson).Error
}

// UpdateWorkflowFields writes only the workflow columns, including zero
// values, so clearing feedback or reverting flags actually persists.
func (r *LessonRepository) UpdateWorkflowFields(id uint, isTaught, isApproved bool, feedback string) error {
	return r.DB.Model(&model.Lesson{}).Where("id = ?", id).Updates(map[string]interface{}{
		"is_taught":      isTaught,
		"is_approved":    isApproved,
		"audit_feedback": feedback,
	}).Error
}

// Deactivate soft-disables a lesson instead of deleting it while attendance
// or completion records still reference it.
func (r *LessonRepository) Deactivate(id uint) error {
	return r.DB.Model(&model.Lesson{}).Where("id = ?", id).Update("is_active", false).Error
}

func (r *LessonRepository) FindCompletion(studentID, lessonID uint) (*model.LessonCompletion, error) {
	var c model.LessonCompletion
	err := r.DB.Where("student_id = ? AND lesson_id = ?", studentID, lessonID).First(&c).Error
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// UpsertCompletion writes the completion flag for a (student, lesson) pair,
// never creating a duplicate row for the pair.
func (r *LessonRepository) UpsertCompletion(c *model.LessonCompletion) error {
	return r.DB.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "student_id"}, {Name: "lesson_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"is_completed", "updated_at"}),
	}).Create(c).Error
}

// CompletionsForUnit returns completion flags the student holds for the
// unit's approved lessons, keyed by lesson id.
func (r *LessonRepository) CompletionsForUnit(studentID, unitID uint) (map[uint]bool, error) {
	var cs []model.LessonCompletion
	err := r.DB.
		Joins("JOIN lessons ON lessons.id = lesson_completions.lesson_id").
		Where("lesson_completions.student_id = ? AND lessons.unit_id = ?", studentID, unitID).
		Find(&cs).Error
	if err != nil {
		return nil, err
	}
	out := make(map[uint]bool, len(cs))
	for _, c := range cs {
		out[c.LessonID] = c.IsCompleted
	}
	return out, nil
}

// CountCompletedApproved counts approved, active lessons in the unit the
// student has marked complete.
func (r *LessonRepository) CountCompletedApproved(studentID, unitID uint) (int64, error) {
	var count int64
	err := r.DB.Model(&model.LessonCompletion{}).
		Joins("JOIN lessons ON lessons.id = lesson_completions.lesson_id").
		Where("lesson_completions.student_id = ? AND lesson_completions.is_completed = ?", studentID, true).
		Where("lessons.unit_id = ? AND lessons.is_approved = ? AND lessons.is_active = ?", unitID, true, true).
		Count(&count).Error
	return count, err
}
