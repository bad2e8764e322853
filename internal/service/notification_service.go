package service

import (
	"errors"
	"time"

	"mls_backend/internal/model"
	"mls_backend/internal/repository"
	"mls_backend/internal/util"

	"gorm.io/gorm"
)

// NotificationService resolves recipients and enforces the role send matrix
// before anything is persisted: a notification with any disallowed target
// is rejected whole.
type NotificationService struct {
	NotificationRepo *repository.NotificationRepository
	UserRepo         *repository.UserRepository
}

func NewNotificationService(notificationRepo *repository.NotificationRepository, userRepo *repository.UserRepository) *NotificationService {
	return &NotificationService{NotificationRepo: notificationRepo, UserRepo: userRepo}
}

type SendNotificationRequest struct {
	Title        string                 `json:"title" binding:"required"`
	Message      string                 `json:"message" binding:"required"`
	Type         model.NotificationType `json:"type"`
	Link         string                 `json:"link"`
	IsCritical   bool                   `json:"isCritical"`
	ActiveFrom   *time.Time             `json:"activeFrom"`
	ActiveUntil  *time.Time             `json:"activeUntil"`
	TargetRole   *model.UserRole        `json:"targetRole"`
	RecipientIDs []uint                 `json:"recipientIds"`
}

// Send resolves the audience (one whole role, or an explicit user list),
// checks every target against the sender's allowed roles, then persists the
// notification and its recipient rows in one transaction.
func (s *NotificationService) Send(actor util.Actor, req SendNotificationRequest) (*model.Notification, error) {
	if req.TargetRole == nil && len(req.RecipientIDs) == 0 {
		return nil, util.Validation("a target role or explicit recipients are required")
	}
	if req.TargetRole != nil && len(req.RecipientIDs) > 0 {
		return nil, util.Validation("choose either a target role or explicit recipients, not both")
	}
	if req.Type != "" && !req.Type.Valid() {
		return nil, util.Validation("invalid notification type: " + string(req.Type))
	}
	if req.ActiveFrom != nil && req.ActiveUntil != nil && req.ActiveUntil.Before(*req.ActiveFrom) {
		return nil, util.Validation("active window ends before it starts")
	}

	var recipientIDs []uint
	if req.TargetRole != nil {
		role := *req.TargetRole
		if !role.Valid() {
			return nil, util.Validation("invalid target role: " + string(role))
		}
		if !model.CanSendTo(actor.Role, role) {
			return nil, util.Forbidden(string(actor.Role) + " may not notify " + string(role) + "s")
		}
		users, err := s.UserRepo.FindActivatedByRole(role)
		if err != nil {
			return nil, err
		}
		for _, u := range users {
			recipientIDs = append(recipientIDs, u.ID)
		}
	} else {
		users, err := s.UserRepo.FindByIDs(req.RecipientIDs)
		if err != nil {
			return nil, err
		}
		if len(users) != len(req.RecipientIDs) {
			return nil, util.Validation("one or more recipients do not exist")
		}
		for _, u := range users {
			if !model.CanSendTo(actor.Role, u.Role) {
				return nil, util.Forbidden(string(actor.Role) + " may not notify " + string(u.Role) + "s")
			}
			recipientIDs = append(recipientIDs, u.ID)
		}
	}

	n := &model.Notification{
		SenderID:    actor.UserID,
		Title:       req.Title,
		Message:     req.Message,
		Type:        req.Type,
		Link:        req.Link,
		IsCritical:  req.IsCritical,
		IsActive:    true,
		ActiveFrom:  req.ActiveFrom,
		ActiveUntil: req.ActiveUntil,
		TargetRole:  req.TargetRole,
	}
	if n.Type == "" {
		n.Type = model.NotificationGeneral
	}
	if err := s.NotificationRepo.CreateWithRecipients(n, recipientIDs); err != nil {
		return nil, err
	}
	return n, nil
}

// SendableRoles lists the roles the actor may address, for compose forms.
func (s *NotificationService) SendableRoles(actor util.Actor) []model.UserRole {
	return model.SendableRoles(actor.Role)
}

// ListVisible returns the user's notifications whose visibility window
// contains now: active, started, and not yet expired.
func (s *NotificationService) ListVisible(userID uint, now time.Time) ([]model.Notification, error) {
	all, err := s.NotificationRepo.ListForUser(userID)
	if err != nil {
		return nil, err
	}
	visible := make([]model.Notification, 0, len(all))
	for _, n := range all {
		if n.VisibleAt(now) {
			visible = append(visible, n)
		}
	}
	return visible, nil
}

func (s *NotificationService) MarkRead(userID, notificationID uint) error {
	return s.NotificationRepo.MarkRead(notificationID, userID)
}

func (s *NotificationService) UnreadCount(userID uint) (int64, error) {
	return s.NotificationRepo.UnreadCount(userID)
}

// Deactivate retracts a notification. Only the sender or an Admin may do so.
func (s *NotificationService) Deactivate(actor util.Actor, notificationID uint) error {
	n, err := s.NotificationRepo.FindByID(notificationID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return util.NotFound("notification not found")
		}
		return err
	}
	if n.SenderID != actor.UserID && actor.Role != model.Admin {
		return util.Forbidden("only the sender or an Admin may retract a notification")
	}
	return s.NotificationRepo.Deactivate(notificationID)
}
