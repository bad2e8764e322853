package repository

import (
	"time"

	"mls_backend/internal/model"

	"gorm.io/gorm"
)

type NotificationRepository struct {
	DB *gorm.DB
}

func NewNotificationRepository(db *gorm.DB) *NotificationRepository {
	return &NotificationRepository{DB: db}
}

// CreateWithRecipients persists the notification and its recipient rows in
// one transaction; nothing is stored when any insert fails.
func (r *NotificationRepository) CreateWithRecipients(n *model.Notification, recipientIDs []uint) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(n).Error; err != nil {
			return err
		}
		for _, id := range recipientIDs {
			rec := model.NotificationRecipient{NotificationID: n.ID, UserID: id}
			if err := tx.Create(&rec).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *NotificationRepository) FindByID(id uint) (*model.Notification, error) {
	var n model.Notification
	err := r.DB.First(&n, id).Error
	if err != nil {
		return nil, err
	}
	return &n, nil
}

// ListForUser returns every notification addressed to the user, newest
// first. Visibility windows are evaluated by the service, not here.
func (r *NotificationRepository) ListForUser(userID uint) ([]model.Notification, error) {
	var ns []model.Notification
	err := r.DB.
		Joins("JOIN notification_recipients ON notification_recipients.notification_id = notifications.id AND notification_recipients.deleted_at IS NULL").
		Where("notification_recipients.user_id = ?", userID).
		Order("notifications.created_at desc").
		Find(&ns).Error
	return ns, err
}

func (r *NotificationRepository) RecipientIDs(notificationID uint) ([]uint, error) {
	var ids []uint
	err := r.DB.Model(&model.NotificationRecipient{}).
		Where("notification_id = ?", notificationID).
		Pluck("user_id", &ids).Error
	return ids, err
}

func (r *NotificationRepository) MarkRead(notificationID, userID uint) error {
	now := time.Now()
	return r.DB.Model(&model.NotificationRecipient{}).
		Where("notification_id = ? AND user_id = ?", notificationID, userID).
		Updates(map[string]interface{}{"is_read": true, "read_at": &now}).Error
}

func (r *NotificationRepository) UnreadCount(userID uint) (int64, error) {
	var count int64
	err := r.DB.Model(&model.NotificationRecipient{}).
		Where("user_id = ? AND is_read = ?", userID, false).
		Count(&count).Error
	return count, err
}

func (r *NotificationRepository) Deactivate(id uint) error {
	return r.DB.Model(&model.Notification{}).Where("id = ?", id).Update("is_active", false).Error
}
