package repository

import (
	"messaging-system/internal/model"
	"messaging-system/pkg/apperr"

	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// NotificationRepository 通知仓储
type NotificationRepository struct {
	db *gorm.DB
}

// NewNotificationRepository 创建NotificationRepository实例
func NewNotificationRepository(db *gorm.DB) *NotificationRepository {
	return &NotificationRepository{db: db}
}

// WithTx 返回绑定到指定事务的仓储
func (r *NotificationRepository) WithTx(tx *gorm.DB) *NotificationRepository {
	return &NotificationRepository{db: tx}
}

// Create 创建通知
func (r *NotificationRepository) Create(notification *model.Notification) error {
	if err := r.db.Create(notification).Error; err != nil {
		return apperr.Storage(err)
	}
	return nil
}

// GetByRecipient 获取用户收到的通知，最新的排在最前
func (r *NotificationRepository) GetByRecipient(userID uint, limit int) ([]*model.Notification, error) {
	var notifications []*model.Notification

	q := r.db.Where("recipient_id = ?", userID).
		Order("created_at DESC, id DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Find(&notifications).Error; err != nil {
		return nil, apperr.Storage(err)
	}

	return notifications, nil
}

// GetByID 根据ID获取通知
func (r *NotificationRepository) GetByID(id string) (*model.Notification, error) {
	var notification model.Notification
	if err := r.db.Where("id = ?", id).First(&notification).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFoundf("通知 %s 不存在", id)
		}
		return nil, apperr.Storage(err)
	}
	return &notification, nil
}

// MarkAsRead 标记通知为已读
func (r *NotificationRepository) MarkAsRead(id string) error {
	err := r.db.Model(&model.Notification{}).
		Where("id = ?", id).
		Update("is_read", true).Error
	if err != nil {
		return apperr.Storage(err)
	}
	return nil
}

// DeleteByUser 删除用户作为接收者或发送者的全部通知
func (r *NotificationRepository) DeleteByUser(userID uint) error {
	err := r.db.Where("recipient_id = ? OR sender_id = ?", userID, userID).
		Delete(&model.Notification{}).Error
	if err != nil {
		return apperr.Storage(err)
	}
	return nil
}

// DeleteByMessageIDs 删除引用指定消息的全部通知
func (r *NotificationRepository) DeleteByMessageIDs(messageIDs []uint) error {
	if len(messageIDs) == 0 {
		return nil
	}
	err := r.db.Where("message_id IN ?", messageIDs).
		Delete(&model.Notification{}).Error
	if err != nil {
		return apperr.Storage(err)
	}
	return nil
}
