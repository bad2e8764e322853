package repository

import (
	"mls_backend/internal/model"

	"gorm.io/gorm"
)

type ResourceRepository struct {
	DB *gorm.DB
}

func NewResourceRepository(db *gorm.DB) *ResourceRepository {
	return &ResourceRepository{DB: db}
}

func (r *ResourceRepository) Create(res *model.Resource) error {
	return r.DB.Create(res).Error
}

func (r *ResourceRepository) FindByID(id uint) (*model.Resource, error) {
	var res model.Resource
	err := r.DB.First(&res, id).Error
	if err != nil {
		return nil, err
	}
	return &res, nil
}

func (r *ResourceRepository) ListByLesson(lessonID uint) ([]model.Resource, error) {
	var rs []model.Resource
	err := r.DB.Where("lesson_id = ?", lessonID).Order("created_at asc").Find(&rs).Error
	return rs, err
}

func (r *ResourceRepository) Delete(id uint) error {
	return r.DB.Delete(&model.Resource{}, id).Error
}
