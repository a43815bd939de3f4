package model

import "time"

// Message 消息模型
// ParentID 自引用构成回复树，写入侧保证无环（消息不能是自己的祖先）
// Edited 由编辑历史规则维护，内容变化时置true
// CreatedAt 创建后不可变

type Message struct {
	ID         uint      `gorm:"primaryKey"`
	SenderID   uint      `gorm:"not null;index;comment:发送者ID"`
	ReceiverID *uint     `gorm:"index;comment:接收者ID"`
	Content    string    `gorm:"type:text;not null;comment:消息内容"`
	Edited     bool      `gorm:"default:false;comment:是否被编辑过"`
	IsRead     bool      `gorm:"default:false;comment:是否已读"`
	ParentID   *uint     `gorm:"index;comment:父消息ID(回复)"`
	CreatedAt  time.Time `gorm:"<-:create;comment:创建时间"`
	UpdatedAt  time.Time `gorm:"comment:更新时间"`
}

func (Message) TableName() string { return "message" }
