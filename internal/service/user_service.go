package service

import (
	"errors"

	"mls_backend/internal/model"
	"mls_backend/internal/repository"
	"mls_backend/internal/util"

	"gorm.io/gorm"
)

// UserService covers account administration: activation, archival, and
// role-scoped listings. Archiving implies deactivation; unarchiving does
// not reactivate.
type UserService struct {
	UserRepo *repository.UserRepository
}

func NewUserService(userRepo *repository.UserRepository) *UserService {
	return &UserService{UserRepo: userRepo}
}

func (s *UserService) requireAdmin(actor util.Actor) error {
	if actor.Role != model.Admin {
		return util.Forbidden("administrator access required")
	}
	return nil
}

func (s *UserService) List(actor util.Actor) ([]model.User, error) {
	if err := s.requireAdmin(actor); err != nil {
		return nil, err
	}
	return s.UserRepo.List("", true)
}

func (s *UserService) ListByRole(role model.UserRole) ([]model.User, error) {
	if !role.Valid() {
		return nil, util.Validation("invalid role: " + string(role))
	}
	return s.UserRepo.FindActivatedByRole(role)
}

func (s *UserService) find(id uint) (*model.User, error) {
	user, err := s.UserRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.NotFound("user not found")
		}
		return nil, err
	}
	return user, nil
}

func (s *UserService) SetActivation(actor util.Actor, userID uint, activated bool) (*model.User, error) {
	if err := s.requireAdmin(actor); err != nil {
		return nil, err
	}
	user, err := s.find(userID)
	if err != nil {
		return nil, err
	}
	if activated && user.IsArchived {
		return nil, util.InvalidTransition("cannot activate an archived account; unarchive it first")
	}
	if err := s.UserRepo.SetActivation(userID, activated); err != nil {
		return nil, err
	}
	user.IsActivated = activated
	return user, nil
}

func (s *UserService) SetArchived(actor util.Actor, userID uint, archived bool) (*model.User, error) {
	if err := s.requireAdmin(actor); err != nil {
		return nil, err
	}
	user, err := s.find(userID)
	if err != nil {
		return nil, err
	}
	if err := s.UserRepo.SetArchived(userID, archived); err != nil {
		return nil, err
	}
	user.IsArchived = archived
	if archived {
		user.IsActivated = false
	}
	return user, nil
}

func (s *UserService) Update(actor util.Actor, userID uint, firstName, lastName, phone string) (*model.User, error) {
	if actor.UserID != userID && actor.Role != model.Admin {
		return nil, util.Forbidden("cannot edit another user's profile")
	}
	user, err := s.find(userID)
	if err != nil {
		return nil, err
	}
	user.FirstName = firstName
	user.LastName = lastName
	user.PhoneNumber = phone
	if err := s.UserRepo.Update(user); err != nil {
		return nil, err
	}
	return user, nil
}
