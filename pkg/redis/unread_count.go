package redis

import (
	"fmt"
	"strconv"
	"time"
)

// 未读消息计数缓存
// 仅作读加速，不参与事务；数据库中的 is_read 才是事实来源

const (
	// UnreadCountKeyPrefix 未读消息计数key前缀
	UnreadCountKeyPrefix = "msg:unread:"

	// unreadCountTTL 计数过期时间，过期后回源数据库重建
	unreadCountTTL = 24 * time.Hour
)

func unreadCountKey(userID uint) string {
	return fmt.Sprintf("%s%d", UnreadCountKeyPrefix, userID)
}

// IncrementUnreadCount 增加用户未读消息计数
func IncrementUnreadCount(userID uint) error {
	if client == nil {
		return fmt.Errorf("redis客户端未初始化")
	}

	key := unreadCountKey(userID)

	if err := client.Incr(ctx, key).Err(); err != nil {
		return fmt.Errorf("增加未读消息计数失败: %w", err)
	}

	if err := client.Expire(ctx, key, unreadCountTTL).Err(); err != nil {
		return fmt.Errorf("设置未读消息计数TTL失败: %w", err)
	}

	return nil
}

// DecrementUnreadCount 减少用户未读消息计数
func DecrementUnreadCount(userID uint) error {
	if client == nil {
		return fmt.Errorf("redis客户端未初始化")
	}

	key := unreadCountKey(userID)

	if err := client.Decr(ctx, key).Err(); err != nil {
		return fmt.Errorf("减少未读消息计数失败: %w", err)
	}

	// 计数降到0以下时直接删除key
	count, err := client.Get(ctx, key).Int64()
	if err == nil && count <= 0 {
		client.Del(ctx, key)
	}

	return nil
}

// GetUnreadCount 获取用户未读消息计数
// key不存在或Redis不可用时返回错误，由调用方回源数据库
func GetUnreadCount(userID uint) (int64, error) {
	if client == nil {
		return 0, fmt.Errorf("redis客户端未初始化")
	}

	result, err := client.Get(ctx, unreadCountKey(userID)).Result()
	if err != nil {
		return 0, fmt.Errorf("获取未读消息计数失败: %w", err)
	}

	count, err := strconv.ParseInt(result, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("解析未读消息计数失败: %w", err)
	}

	return count, nil
}

// SetUnreadCount 设置用户未读消息计数（用于初始化或重置）
func SetUnreadCount(userID uint, count int64) error {
	if client == nil {
		return fmt.Errorf("redis客户端未初始化")
	}

	if err := client.Set(ctx, unreadCountKey(userID), count, unreadCountTTL).Err(); err != nil {
		return fmt.Errorf("设置未读消息计数失败: %w", err)
	}

	return nil
}

// ResetUnreadCount 重置用户未读消息计数为0
func ResetUnreadCount(userID uint) error {
	if client == nil {
		return fmt.Errorf("redis客户端未初始化")
	}

	if err := client.Del(ctx, unreadCountKey(userID)).Err(); err != nil {
		return fmt.Errorf("重置未读消息计数失败: %w", err)
	}

	return nil
}
