package model

import "time"

type AttendanceStatus string

const (
	AttendancePresent AttendanceStatus = "Present"
	AttendanceAbsent  AttendanceStatus = "Absent"
	AttendanceLate    AttendanceStatus = "Late"
)

func (s AttendanceStatus) Valid() bool {
	switch s {
	case AttendancePresent, AttendanceAbsent, AttendanceLate:
		return true
	default:
		return false
	}
}

// AttendanceRecord holds at most one current status per (lesson, student)
// pair. A later write overwrites the earlier one; there is no history.
type AttendanceRecord struct {
	BaseModel
	LessonID  uint             `gorm:"not null;uniqueIndex:idx_attendance_pair" json:"lessonId"`
	StudentID uint             `gorm:"not null;uniqueIndex:idx_attendance_pair" json:"studentId"`
	Student   *User            `json:"student,omitempty"`
	Status    AttendanceStatus `gorm:"size:10;default:'Absent'" json:"status"`
	MarkedAt  time.Time        `json:"markedAt"`
	MarkedBy  *uint            `json:"markedBy"`
}
