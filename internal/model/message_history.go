package model

import "time"

// MessageHistory 消息编辑历史
// Content 保存编辑前的内容快照（不是新内容）
// 只追加：行不更新、不单独删除，仅随所属消息或编辑者被删除时级联清除
// 按 edited_at 排序可还原该消息完整的内容演化序列

type MessageHistory struct {
	ID         uint      `gorm:"primaryKey"`
	MessageID  uint      `gorm:"not null;index;comment:所属消息ID"`
	Content    string    `gorm:"type:text;not null;comment:编辑前内容快照"`
	EditedByID uint      `gorm:"not null;index;comment:编辑者ID"`
	EditedAt   time.Time `gorm:"autoCreateTime;comment:编辑时间"`
}

func (MessageHistory) TableName() string { return "message_history" }
