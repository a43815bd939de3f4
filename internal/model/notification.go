package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// 通知类型
const (
	NotificationTypeMessage       = "message"        // 新消息
	NotificationTypeFriendRequest = "friend_request" // 好友请求
	NotificationTypeSystem        = "system"         // 系统通知
)

// Notification 通知模型
// 主键使用UUID，与消息ID相互独立，同一张表可容纳非消息类通知

type Notification struct {
	ID          string    `gorm:"type:varchar(36);primaryKey"`
	RecipientID uint      `gorm:"not null;index;comment:接收者ID"`
	SenderID    *uint     `gorm:"index;comment:发送者ID"`
	MessageID   *uint     `gorm:"index;comment:关联消息ID"`
	Type        string    `gorm:"type:varchar(20);not null;comment:通知类型"`
	Title       string    `gorm:"type:varchar(255);comment:标题"`
	Body        string    `gorm:"type:text;comment:正文"`
	IsRead      bool      `gorm:"default:false;comment:是否已读"`
	CreatedAt   time.Time `gorm:"comment:创建时间"`
}

func (Notification) TableName() string { return "notification" }

// BeforeCreate 未指定ID时生成UUID
func (n *Notification) BeforeCreate(tx *gorm.DB) error {
	if n.ID == "" {
		n.ID = uuid.NewString()
	}
	return nil
}
