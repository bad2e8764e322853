package service

import (
	"errors"
	"time"

	"mls_backend/internal/config"
	"mls_backend/internal/model"
	"mls_backend/internal/repository"
	"mls_backend/internal/util"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type AuthService struct {
	UserRepo *repository.UserRepository
	Config   *config.Config
}

func NewAuthService(userRepo *repository.UserRepository, cfg *config.Config) *AuthService {
	return &AuthService{UserRepo: userRepo, Config: cfg}
}

type RegisterRequest struct {
	Username    string         `json:"username" binding:"required"`
	Email       string         `json:"email" binding:"required,email"`
	Password    string         `json:"password" binding:"required,min=8"`
	FirstName   string         `json:"firstName" binding:"required"`
	LastName    string         `json:"lastName" binding:"required"`
	Role        model.UserRole `json:"role" binding:"required"`
	PhoneNumber string         `json:"phoneNumber"`
}

// Register creates a deactivated account. An Admin must activate it before
// the user can sign in.
func (s *AuthService) Register(req RegisterRequest) (*model.User, error) {
	if !req.Role.Valid() {
		return nil, util.Validation("invalid role: " + string(req.Role))
	}
	if _, err := s.UserRepo.FindByEmail(req.Email); err == nil {
		return nil, util.Validation("email is already registered")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &model.User{
		Username:    req.Username,
		Email:       req.Email,
		Password:    string(hashed),
		FirstName:   req.FirstName,
		LastName:    req.LastName,
		Role:        req.Role,
		PhoneNumber: req.PhoneNumber,
		IsActivated: false,
	}
	if err := s.UserRepo.Create(user); err != nil {
		return nil, err
	}
	return user, nil
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type LoginResult struct {
	Token string      `json:"token"`
	User  *model.User `json:"user"`
}

func (s *AuthService) Login(req LoginRequest) (*LoginResult, error) {
	user, err := s.UserRepo.FindByEmail(req.Email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.Validation("invalid email or password")
		}
		return nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return nil, util.Validation("invalid email or password")
	}
	if user.IsArchived {
		return nil, util.Forbidden("account has been archived")
	}
	if !user.IsActivated {
		return nil, util.Forbidden("account is awaiting activation")
	}

	token, err := util.GenerateJWT(user, s.Config.JWT.Secret, s.Config.JWT.ExpireTime)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	if err := s.UserRepo.UpdateLastSeen(user.ID); err == nil {
		user.LastLogin = now
	}
	return &LoginResult{Token: token, User: user}, nil
}

func (s *AuthService) Me(userID uint) (*model.User, error) {
	user, err := s.UserRepo.FindByID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.NotFound("user not found")
		}
		return nil, err
	}
	return user, nil
}
