package repository

import (
	"time"

	"mls_backend/internal/model"

	"gorm.io/gorm"
)

type UserRepository struct {
	DB *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{DB: db}
}

func (r *UserRepository) Create(user *model.User) error {
	return r.DB.Create(user).Error
}

func (r *UserRepository) FindByID(id uint) (*model.User, error) {
	var user model.User
	err := r.DB.First(&user, id).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *UserRepository) FindByEmail(email string) (*model.User, error) {
	var user model.User
	err := r.DB.Where("email = ?", email).First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *UserRepository) FindByIDs(ids []uint) ([]model.User, error) {
	var users []model.User
	err := r.DB.Where("id IN ?", ids).Find(&users).Error
	return users, err
}

// FindActivatedByRole resolves role-targeted notification recipients:
// everyone currently holding the role and currently activated.
func (r *UserRepository) FindActivatedByRole(role model.UserRole) ([]model.User, error) {
	var users []model.User
	err := r.DB.Where("role = ? AND is_activated = ? AND is_archived = ?", role, true, false).
		Find(&users).Error
	return users, err
}

func (r *UserRepository) List(role model.UserRole, includeArchived bool) ([]model.User, error) {
	query := r.DB.Model(&model.User{})
	if role != "" {
		query = query.Where("role = ?", role)
	}
	if !includeArchived {
		query = query.Where("is_archived = ?", false)
	}
	var users []model.User
	err := query.Order("created_at desc").Find(&users).Error
	return users, err
}

func (r *UserRepository) Update(user *model.User) error {
	return r.DB.Save(user).Error
}

func (r *UserRepository) SetActivation(id uint, activated bool) error {
	return r.DB.Model(&model.User{}).Where("id = ?", id).Update("is_activated", activated).Error
}

// SetArchived archives or restores a user; archiving also deactivates.
func (r *UserRepository) SetArchived(id uint, archived bool) error {
	updates := map[string]interface{}{"is_archived": archived}
	if archived {
		updates["is_activated"] = false
	}
	return r.DB.Model(&model.User{}).Where("id = ?", id).Updates(updates).Error
}

func (r *UserRepository) UpdateLastSeen(userID uint) error {
	return r.DB.Model(&model.User{}).Where("id = ?", userID).Update("last_login", time.Now()).Error
}
