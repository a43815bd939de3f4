package repository

import (
	"messaging-system/internal/model"
	"messaging-system/pkg/apperr"

	"github.com/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// MessageRepository 消息数据仓储
type MessageRepository struct {
	db *gorm.DB
}

// NewMessageRepository 创建MessageRepository实例
func NewMessageRepository(db *gorm.DB) *MessageRepository {
	return &MessageRepository{db: db}
}

// WithTx 返回绑定到指定事务的仓储
func (r *MessageRepository) WithTx(tx *gorm.DB) *MessageRepository {
	return &MessageRepository{db: tx}
}

// Create 创建消息
func (r *MessageRepository) Create(message *model.Message) error {
	if err := r.db.Create(message).Error; err != nil {
		return apperr.Storage(err)
	}
	return nil
}

// GetByID 根据ID获取消息
func (r *MessageRepository) GetByID(id uint) (*model.Message, error) {
	var message model.Message
	if err := r.db.First(&message, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFoundf("消息 %d 不存在", id)
		}
		return nil, apperr.Storage(err)
	}
	return &message, nil
}

// GetByIDForUpdate 行锁读取消息
// 同一事务内写该行前先锁行，保证读到的是最近一次已提交的内容；
// SQLite不支持FOR UPDATE，由事务本身提供隔离
func (r *MessageRepository) GetByIDForUpdate(id uint) (*model.Message, error) {
	q := r.db
	if r.db.Dialector.Name() == "mysql" {
		q = r.db.Clauses(clause.Locking{Strength: "UPDATE"})
	}

	var message model.Message
	if err := q.First(&message, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFoundf("消息 %d 不存在", id)
		}
		return nil, apperr.Storage(err)
	}
	return &message, nil
}

// UpdateContent 写入新内容与edited标记
// 只更新这两列，created_at等字段保持不变
func (r *MessageRepository) UpdateContent(id uint, content string, edited bool) error {
	err := r.db.Model(&model.Message{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{"content": content, "edited": edited}).Error
	if err != nil {
		return apperr.Storage(err)
	}
	return nil
}

// UpdateParent 设置父消息（无环校验由服务层完成）
func (r *MessageRepository) UpdateParent(id uint, parentID *uint) error {
	err := r.db.Model(&model.Message{}).
		Where("id = ?", id).
		Update("parent_id", parentID).Error
	if err != nil {
		return apperr.Storage(err)
	}
	return nil
}

// GetUnread 获取用户未读消息，最新的排在最前
func (r *MessageRepository) GetUnread(userID uint) ([]*model.Message, error) {
	var messages []*model.Message

	err := r.db.Where("receiver_id = ? AND is_read = ?", userID, false).
		Order("created_at DESC, id DESC").
		Find(&messages).Error
	if err != nil {
		return nil, apperr.Storage(err)
	}

	return messages, nil
}

// GetReplies 获取指定消息的直接回复，按时间正序
func (r *MessageRepository) GetReplies(parentID uint) ([]*model.Message, error) {
	var messages []*model.Message

	err := r.db.Where("parent_id = ?", parentID).
		Order("created_at ASC, id ASC").
		Find(&messages).Error
	if err != nil {
		return nil, apperr.Storage(err)
	}

	return messages, nil
}

// MarkAsRead 标记消息为已读
func (r *MessageRepository) MarkAsRead(id uint) error {
	err := r.db.Model(&model.Message{}).
		Where("id = ?", id).
		Update("is_read", true).Error
	if err != nil {
		return apperr.Storage(err)
	}
	return nil
}

// GetUnreadCount 获取用户未读消息数量
func (r *MessageRepository) GetUnreadCount(userID uint) (int64, error) {
	var count int64
	err := r.db.Model(&model.Message{}).
		Where("receiver_id = ? AND is_read = ?", userID, false).
		Count(&count).Error
	if err != nil {
		return 0, apperr.Storage(err)
	}
	return count, nil
}

// IDsByUser 收集用户作为发送者或接收者的全部消息ID
func (r *MessageRepository) IDsByUser(userID uint) ([]uint, error) {
	var ids []uint
	err := r.db.Model(&model.Message{}).
		Where("sender_id = ? OR receiver_id = ?", userID, userID).
		Pluck("id", &ids).Error
	if err != nil {
		return nil, apperr.Storage(err)
	}
	return ids, nil
}

// DeleteByUser 删除用户作为发送者或接收者的全部消息
func (r *MessageRepository) DeleteByUser(userID uint) error {
	err := r.db.Where("sender_id = ? OR receiver_id = ?", userID, userID).
		Delete(&model.Message{}).Error
	if err != nil {
		return apperr.Storage(err)
	}
	return nil
}
