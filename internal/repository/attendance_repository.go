package repository

import (
	"mls_backend/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type AttendanceRepository struct {
	DB *gorm.DB
}

func NewAttendanceRepository(db *gorm.DB) *AttendanceRepository {
	return &AttendanceRepository{DB: db}
}

// Upsert writes the status for a (lesson, student) pair. The unique index on
// the pair plus ON CONFLICT keeps concurrent writers from duplicating a
// record; last write wins.
func (r *AttendanceRepository) Upsert(rec *model.AttendanceRecord) error {
	return r.DB.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "lesson_id"}, {Name: "student_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"status", "marked_at", "marked_by", "updated_at"}),
	}).Create(rec).Error
}

// CreateIfAbsent inserts a record only when the pair has none yet, reporting
// whether a row was actually written. Existing explicit marks are left
// untouched.
func (r *AttendanceRepository) CreateIfAbsent(rec *model.AttendanceRecord) (bool, error) {
	res := r.DB.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "lesson_id"}, {Name: "student_id"}},
		DoNothing: true,
	}).Create(rec)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *AttendanceRepository) FindByPair(lessonID, studentID uint) (*model.AttendanceRecord, error) {
	var rec model.AttendanceRecord
	err := r.DB.Where("lesson_id = ? AND student_id = ?", lessonID, studentID).First(&rec).Error
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

func (r *AttendanceRepository) ListByLesson(lessonID uint) ([]model.AttendanceRecord, error) {
	var recs []model.AttendanceRecord
	err := r.DB.Preload("Student").Where("lesson_id = ?", lessonID).Find(&recs).Error
	return recs, err
}

func (r *AttendanceRepository) CountByLesson(lessonID uint) (int64, error) {
	var count int64
	err := r.DB.Model(&model.AttendanceRecord{}).Where("lesson_id = ?", lessonID).Count(&count).Error
	return count, err
}
