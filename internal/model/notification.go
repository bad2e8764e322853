package model

import "time"

type NotificationType string

const (
	NotificationGeneral    NotificationType = "general"
	NotificationCritical   NotificationType = "critical"
	NotificationLesson     NotificationType = "lesson"
	NotificationAssessment NotificationType = "assessment"
	NotificationEnrollment NotificationType = "enrollment"
	NotificationApproval   NotificationType = "approval"
)

func (t NotificationType) Valid() bool {
	switch t {
	case NotificationGeneral, NotificationCritical, NotificationLesson,
		NotificationAssessment, NotificationEnrollment, NotificationApproval:
		return true
	default:
		return false
	}
}

type Notification struct {
	BaseModel
	SenderID    uint             `gorm:"not null;index" json:"senderId"`
	Title       string           `gorm:"size:255;not null" json:"title"`
	Message     string           `gorm:"type:text;not null" json:"message"`
	Type        NotificationType `gorm:"size:20;default:'general'" json:"notificationType"`
	Link        string           `gorm:"size:512" json:"link"`
	IsCritical  bool             `gorm:"default:false" json:"isCritical"`
	IsActive    bool             `gorm:"default:true" json:"isActive"`
	ActiveFrom  *time.Time       `json:"activeFrom"`
	ActiveUntil *time.Time       `json:"activeUntil"`
	// TargetRole is set for role broadcasts; nil when recipients were
	// addressed explicitly.
	TargetRole *UserRole `gorm:"size:20" json:"targetRole"`
}

// VisibleAt implements the visibility window: active, and now inside
// [active_from, active_until] with unset bounds treated as open.
func (n *Notification) VisibleAt(now time.Time) bool {
	if !n.IsActive {
		return false
	}
	if n.ActiveFrom != nil && n.ActiveFrom.After(now) {
		return false
	}
	if n.ActiveUntil != nil && n.ActiveUntil.Before(now) {
		return false
	}
	return true
}

type NotificationRecipient struct {
	BaseModel
	NotificationID uint       `gorm:"not null;uniqueIndex:idx_recipient_pair" json:"notificationId"`
	UserID         uint       `gorm:"not null;uniqueIndex:idx_recipient_pair" json:"userId"`
	IsRead         bool       `gorm:"default:false" json:"isRead"`
	ReadAt         *time.Time `json:"readAt"`
}
