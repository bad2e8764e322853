package model

import "time"

// LessonState is derived from the stored is_taught / is_approved /
// audit_feedback fields in exactly one place, so an invalid combination
// (approved but never taught) cannot be produced by the workflow.
type LessonState string

const (
	LessonDraft           LessonState = "Draft"
	LessonPendingApproval LessonState = "PendingApproval"
	LessonApproved        LessonState = "Approved"
	LessonRejected        LessonState = "Rejected"
)

type Lesson struct {
	BaseModel
	UnitID        uint   `gorm:"not null;uniqueIndex:idx_lesson_unit_order" json:"unitId"`
	TrainerID     *uint  `gorm:"index" json:"trainerId"`
	Title         string `gorm:"size:255;not null" json:"title"`
	Topic         string `gorm:"size:255" json:"topic"`
	Subtopic      string `gorm:"size:255" json:"subtopic"`
	Outcomes      string `gorm:"type:text" json:"outcomes"`
	Content       string `gorm:"type:text" json:"content"`
	SessionLabel  string `gorm:"size:100" json:"sessionLabel"`
	LessonDate    *time.Time `json:"lessonDate"`
	StartTime     string `gorm:"size:10" json:"startTime"`
	EndTime       string `gorm:"size:10" json:"endTime"`
	Order         uint   `gorm:"not null;uniqueIndex:idx_lesson_unit_order" json:"order"`
	IsLab         bool   `gorm:"default:false" json:"isLab"`
	IsTaught      bool   `gorm:"default:false" json:"isTaught"`
	IsApproved    bool   `gorm:"default:false" json:"isApproved"`
	IsActive      bool   `gorm:"default:true" json:"isActive"`
	HasCat        bool   `gorm:"default:false" json:"hasCat"`
	HasAssessment bool   `gorm:"default:true" json:"hasAssessment"`
	AuditFeedback string `gorm:"type:text" json:"auditFeedback"`
}

func (l *Lesson) State() LessonState {
	switch {
	case !l.IsTaught:
		return LessonDraft
	case l.IsApproved:
		return LessonApproved
	case l.AuditFeedback != "":
		return LessonRejected
	default:
		return LessonPendingApproval
	}
}

// VisibleToStudents reports whether enrolled students may see the lesson.
func (l *Lesson) VisibleToStudents() bool {
	return l.IsApproved && l.IsActive
}

type LessonCompletion struct {
	BaseModel
	StudentID   uint `gorm:"not null;uniqueIndex:idx_completion_pair" json:"studentId"`
	LessonID    uint `gorm:"not null;uniqueIndex:idx_completion_pair" json:"lessonId"`
	IsCompleted bool `gorm:"default:false" json:"isCompleted"`
}
