package model

import (
	"time"
)

type UserRole string

const (
	Admin        UserRole = "Admin"
	CourseMaster UserRole = "CourseMaster"
	HOD          UserRole = "HOD"
	Trainer      UserRole = "Trainer"
	Student      UserRole = "Student"
)

func (r UserRole) Valid() bool {
	switch r {
	case Admin, CourseMaster, HOD, Trainer, Student:
		return true
	default:
		return false
	}
}

type User struct {
	BaseModel
	Username    string   `gorm:"size:100;unique;not null" json:"username"`
	Email       string   `gorm:"size:100;unique;not null" json:"email"`
	Password    string   `gorm:"size:100;not null" json:"-"`
	FirstName   string   `gorm:"size:100" json:"firstName"`
	LastName    string   `gorm:"size:100" json:"lastName"`
	Role        UserRole `gorm:"size:20;default:'Student'" json:"role"`
	IsActivated bool     `gorm:"default:false" json:"isActivated"`
	IsArchived  bool     `gorm:"default:false" json:"isArchived"`
	PhoneNumber string   `gorm:"size:15" json:"phoneNumber"`
	LastLogin   time.Time `json:"lastLogin"`
}

func (User) TableName() string {
	return "users"
}
