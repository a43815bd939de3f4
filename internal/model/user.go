package model

import "time"

// User 用户模型
// 用户名唯一
// 不使用gorm软删除：级联清理要求关联行真正消失，软删除会破坏清理不变量

type User struct {
	ID        uint      `gorm:"primaryKey"`
	Username  string    `gorm:"type:varchar(64);not null;uniqueIndex;comment:用户名"`
	Email     string    `gorm:"type:varchar(128);comment:邮箱"`
	Nickname  string    `gorm:"type:varchar(64);comment:昵称"`
	CreatedAt time.Time `gorm:"comment:创建时间"`
	UpdatedAt time.Time `gorm:"comment:更新时间"`
}

// TableName 指定表名（全局配置使用单数表名）
func (User) TableName() string { return "user" }
