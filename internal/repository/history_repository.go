package repository

import (
	"messaging-system/internal/model"
	"messaging-system/pkg/apperr"

	"gorm.io/gorm"
)

// HistoryRepository 消息编辑历史仓储
// 只追加：没有更新接口，删除仅用于级联清理
type HistoryRepository struct {
	db *gorm.DB
}

// NewHistoryRepository 创建HistoryRepository实例
func NewHistoryRepository(db *gorm.DB) *HistoryRepository {
	return &HistoryRepository{db: db}
}

// WithTx 返回绑定到指定事务的仓储
func (r *HistoryRepository) WithTx(tx *gorm.DB) *HistoryRepository {
	return &HistoryRepository{db: tx}
}

// Create 追加一条历史记录
func (r *HistoryRepository) Create(history *model.MessageHistory) error {
	if err := r.db.Create(history).Error; err != nil {
		return apperr.Storage(err)
	}
	return nil
}

// GetByMessage 获取消息的编辑历史，最早的排在最前
func (r *HistoryRepository) GetByMessage(messageID uint) ([]*model.MessageHistory, error) {
	var histories []*model.MessageHistory

	err := r.db.Where("message_id = ?", messageID).
		Order("edited_at ASC, id ASC").
		Find(&histories).Error
	if err != nil {
		return nil, apperr.Storage(err)
	}

	return histories, nil
}

// CountByMessage 统计消息的历史记录数
func (r *HistoryRepository) CountByMessage(messageID uint) (int64, error) {
	var count int64
	err := r.db.Model(&model.MessageHistory{}).
		Where("message_id = ?", messageID).
		Count(&count).Error
	if err != nil {
		return 0, apperr.Storage(err)
	}
	return count, nil
}

// DeleteByEditor 删除指定编辑者的全部历史记录
func (r *HistoryRepository) DeleteByEditor(userID uint) error {
	err := r.db.Where("edited_by_id = ?", userID).
		Delete(&model.MessageHistory{}).Error
	if err != nil {
		return apperr.Storage(err)
	}
	return nil
}

// DeleteByMessageIDs 删除引用指定消息的全部历史记录
func (r *HistoryRepository) DeleteByMessageIDs(messageIDs []uint) error {
	if len(messageIDs) == 0 {
		return nil
	}
	err := r.db.Where("message_id IN ?", messageIDs).
		Delete(&model.MessageHistory{}).Error
	if err != nil {
		return apperr.Storage(err)
	}
	return nil
}
