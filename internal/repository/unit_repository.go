package repository

import (
	"mls_backend/internal/model"

	"gorm.io/gorm"
)

type UnitRepository struct {
	DB *gorm.DB
}

func NewUnitRepository(db *gorm.DB) *UnitRepository {
	return &UnitRepository{DB: db}
}

func (r *UnitRepository) Create(unit *model.Unit) error {
	return r.DB.Create(unit).Error
}

func (r *UnitRepository) FindByID(id uint) (*model.Unit, error) {
	var unit model.Unit
	err := r.DB.Preload("Trainer").First(&unit, id).Error
	if err != nil {
		return nil, err
	}
	return &unit, nil
}

func (r *UnitRepository) ListByCourseGroup(courseGroupID uint) ([]model.Unit, error) {
	var units []model.Unit
	err := r.DB.Where("course_group_id = ?", courseGroupID).
		Order("semester_number asc, code asc").Find(&units).Error
	return units, err
}

func (r *UnitRepository) ListByTrainer(trainerID uint) ([]model.Unit, error) {
	var units []model.Unit
	err := r.DB.Where("trainer_id = ?", trainerID).Order("code asc").Find(&units).Error
	return units, err
}

// Update persists the unit's own columns. The Trainer association loaded by
// FindByID is omitted; saving it would write the stale trainer_id back and
// undo a reassignment.
func (r *UnitRepository) Update(unit *model.Unit) error {
	return r.DB.Omit("Trainer").Save(unit).Error
}

func (r *UnitRepository) Delete(id uint) error {
	return r.DB.Delete(&model.Unit{}, id).Error
}
