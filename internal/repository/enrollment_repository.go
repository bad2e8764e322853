package repository

import (
	"mls_backend/internal/model"

	"gorm.io/gorm"
)

type EnrollmentRepository struct {
	DB *gorm.DB
}

func NewEnrollmentRepository(db *gorm.DB) *EnrollmentRepository {
	return &EnrollmentRepository{DB: db}
}

func (r *EnrollmentRepository) Create(e *model.StudentEnrollment) error {
	return r.DB.Create(e).Error
}

func (r *EnrollmentRepository) Delete(id uint) error {
	return r.DB.Delete(&model.StudentEnrollment{}, id).Error
}

func (r *EnrollmentRepository) ListByCourseGroup(courseGroupID uint) ([]model.StudentEnrollment, error) {
	var es []model.StudentEnrollment
	err := r.DB.Preload("Student").
		Where("course_group_id = ? AND is_active = ?", courseGroupID, true).
		Find(&es).Error
	return es, err
}

// StudentsOfUnit returns the active roster for a unit, resolved through its
// course group.
func (r *EnrollmentRepository) StudentsOfUnit(unitID uint) ([]model.User, error) {
	var students []model.User
	err := r.DB.Model(&model.User{}).
		Joins("JOIN student_enrollments ON student_enrollments.student_id = users.id AND student_enrollments.deleted_at IS NULL").
		Joins("JOIN units ON units.course_group_id = student_enrollments.course_group_id").
		Where("units.id = ? AND student_enrollments.is_active = ?", unitID, true).
		Order("users.username asc").
		Find(&students).Error
	return students, err
}

// IsEnrolledInUnit reports whether the student has an active enrollment in
// the unit's course group.
func (r *EnrollmentRepository) IsEnrolledInUnit(studentID, unitID uint) (bool, error) {
	var count int64
	err := r.DB.Model(&model.StudentEnrollment{}).
		Joins("JOIN units ON units.course_group_id = student_enrollments.course_group_id").
		Where("units.id = ? AND student_enrollments.student_id = ? AND student_enrollments.is_active = ?", unitID, studentID, true).
		Count(&count).Error
	return count > 0, err
}
