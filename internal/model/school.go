package model

import (
	"fmt"
	"time"
)

type School struct {
	BaseModel
	Name        string `gorm:"size:255;not null" json:"name"`
	Description string `gorm:"type:text" json:"description"`
}

type Course struct {
	BaseModel
	Name     string `gorm:"size:255;not null" json:"name"`
	Code     string `gorm:"size:50;default:'GEN'" json:"code"`
	SchoolID uint   `gorm:"not null" json:"schoolId"`
	School   *School `json:"school,omitempty"`
	Duration string `gorm:"size:100" json:"duration"`
}

type Intake struct {
	BaseModel
	CourseID         uint       `json:"courseId"`
	Name             string     `gorm:"size:100;not null" json:"name"`
	GroupCode        string     `gorm:"size:50" json:"groupCode"`
	AdmissionNumbers uint       `gorm:"default:0" json:"admissionNumbers"`
	Description      string     `gorm:"type:text" json:"description"`
	IntakeType       string     `gorm:"size:50;default:'Full-time'" json:"intakeType"`
	StartDate        *time.Time `json:"startDate"`
	EndDate          *time.Time `json:"endDate"`
}

type Semester struct {
	BaseModel
	IntakeID  uint      `json:"intakeId"`
	Name      string    `gorm:"size:100;default:'Semester 1'" json:"name"`
	StartDate time.Time `json:"startDate"`
	EndDate   time.Time `json:"endDate"`
}

type CourseGroup struct {
	BaseModel
	CourseID   uint    `gorm:"not null" json:"courseId"`
	Course     *Course `json:"course,omitempty"`
	IntakeID   uint    `gorm:"not null" json:"intakeId"`
	Intake     *Intake `json:"intake,omitempty"`
	SemesterID uint    `gorm:"not null" json:"semesterId"`
	CourseCode string  `gorm:"size:50" json:"courseCode"`
}

// DisplayCode renders the group code shown across the portal, e.g. "ICT 0226".
func (g *CourseGroup) DisplayCode() string {
	if g.Course == nil || g.Intake == nil {
		return g.CourseCode
	}
	return fmt.Sprintf("%s %s", g.Course.Code, g.Intake.GroupCode)
}

type Unit struct {
	BaseModel
	CourseGroupID         uint   `gorm:"not null;index" json:"courseGroupId"`
	TrainerID             *uint  `gorm:"index" json:"trainerId"`
	Trainer               *User  `json:"trainer,omitempty"`
	Name                  string `gorm:"size:255;not null" json:"name"`
	Code                  string `gorm:"size:50;not null" json:"code"`
	SemesterNumber        uint   `gorm:"not null" json:"semesterNumber"`
	TotalLessons          uint   `gorm:"not null" json:"totalLessons"`
	CatFrequency          uint   `gorm:"default:3" json:"catFrequency"`
	CatTotalPoints        uint   `gorm:"default:30" json:"catTotalPoints"`
	AssessmentTotalPoints uint   `gorm:"default:20" json:"assessmentTotalPoints"`
}

type StudentEnrollment struct {
	BaseModel
	StudentID     uint  `gorm:"not null;uniqueIndex:idx_enrollment_pair" json:"studentId"`
	Student       *User `json:"student,omitempty"`
	CourseGroupID uint  `gorm:"not null;uniqueIndex:idx_enrollment_pair" json:"courseGroupId"`
	IsActive      bool  `gorm:"default:true" json:"isActive"`
}
