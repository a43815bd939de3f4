package service

import (
	"strings"

	"messaging-system/internal/hook"
	"messaging-system/internal/model"
	"messaging-system/internal/repository"
	"messaging-system/pkg/apperr"
	"messaging-system/pkg/db"
	"messaging-system/pkg/redis"

	"gorm.io/gorm"
)

// maxThreadDepth 回复链祖先回溯的深度上限
const maxThreadDepth = 64

// MessageService 消息服务
// 所有变更都经过拦截器在单个事务内完成；Redis未读计数
// 只在事务提交后尽力更新，失败不影响主流程
type MessageService struct {
	orm              *gorm.DB
	interceptor      *hook.Interceptor
	messageRepo      *repository.MessageRepository
	userRepo         *repository.UserRepository
	historyRepo      *repository.HistoryRepository
	notificationRepo *repository.NotificationRepository
}

// NewMessageService 创建MessageService实例
func NewMessageService(
	orm *gorm.DB,
	interceptor *hook.Interceptor,
	messageRepo *repository.MessageRepository,
	userRepo *repository.UserRepository,
	historyRepo *repository.HistoryRepository,
	notificationRepo *repository.NotificationRepository,
) *MessageService {
	return &MessageService{
		orm:              orm,
		interceptor:      interceptor,
		messageRepo:      messageRepo,
		userRepo:         userRepo,
		historyRepo:      historyRepo,
		notificationRepo: notificationRepo,
	}
}

// CreateMessage 发送消息
// 校验发送者/接收者/父消息存在后插入，并在同一事务内触发通知扇出
func (s *MessageService) CreateMessage(senderID, receiverID uint, content string, parentID *uint) (*model.Message, error) {
	if strings.TrimSpace(content) == "" {
		return nil, apperr.Validationf("消息内容不能为空")
	}
	if senderID == receiverID {
		return nil, apperr.Validationf("不能给自己发消息")
	}

	var created *model.Message
	err := db.Transaction(s.orm, func(tx *gorm.DB) error {
		if _, err := s.userRepo.WithTx(tx).GetByID(senderID); err != nil {
			return err
		}
		if _, err := s.userRepo.WithTx(tx).GetByID(receiverID); err != nil {
			return err
		}
		// 新消息还没有后代，父消息只需存在即可，不会构成环
		if parentID != nil {
			if _, err := s.messageRepo.WithTx(tx).GetByID(*parentID); err != nil {
				return err
			}
		}

		msg := &model.Message{
			SenderID:   senderID,
			ReceiverID: &receiverID,
			Content:    content,
			ParentID:   parentID,
		}
		if err := s.interceptor.CreateMessage(tx, msg); err != nil {
			return err
		}
		created = msg
		return nil
	})
	if err != nil {
		return nil, err
	}

	// 事务已提交，尽力更新接收者的未读计数缓存
	_ = redis.IncrementUnreadCount(receiverID)

	return created, nil
}

// UpdateMessageContent 编辑消息内容
// 旧内容在同一事务内读取，编辑历史由拦截器的pre-update规则记录
func (s *MessageService) UpdateMessageContent(messageID uint, content string, editorID uint) (*model.Message, error) {
	if strings.TrimSpace(content) == "" {
		return nil, apperr.Validationf("消息内容不能为空")
	}

	var updated *model.Message
	err := db.Transaction(s.orm, func(tx *gorm.DB) error {
		msg, err := s.interceptor.UpdateMessageContent(tx, messageID, content, editorID)
		if err != nil {
			return err
		}
		updated = msg
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// SetMessageParent 把消息挂到父消息下
// 拒绝会成环的父子关系：父消息不能是消息本身或它的任何后代
func (s *MessageService) SetMessageParent(messageID, parentID uint) error {
	return db.Transaction(s.orm, func(tx *gorm.DB) error {
		if _, err := s.messageRepo.WithTx(tx).GetByID(messageID); err != nil {
			return err
		}
		if messageID == parentID {
			return apperr.Validationf("消息 %d 不能作为自己的父消息", messageID)
		}
		parent, err := s.messageRepo.WithTx(tx).GetByID(parentID)
		if err != nil {
			return err
		}
		if err := s.ensureAcyclic(tx, messageID, parent); err != nil {
			return err
		}
		return s.messageRepo.WithTx(tx).UpdateParent(messageID, &parentID)
	})
}

// ensureAcyclic 从候选父消息沿祖先链向上回溯
// 链上出现待挂消息本身即说明候选父消息是它的后代，会构成环
func (s *MessageService) ensureAcyclic(tx *gorm.DB, messageID uint, parent *model.Message) error {
	cur := parent
	for depth := 0; depth < maxThreadDepth; depth++ {
		if cur.ID == messageID {
			return apperr.Validationf("消息 %d 是消息 %d 的后代，挂接会构成环", parent.ID, messageID)
		}
		if cur.ParentID == nil {
			return nil
		}
		next, err := s.messageRepo.WithTx(tx).GetByID(*cur.ParentID)
		if err != nil {
			return err
		}
		cur = next
	}
	return apperr.Validationf("回复链深度超过上限 %d", maxThreadDepth)
}

// ListUnread 获取用户未读消息，最新的排在最前
func (s *MessageService) ListUnread(userID uint) ([]*model.Message, error) {
	if _, err := s.userRepo.GetByID(userID); err != nil {
		return nil, err
	}
	return s.messageRepo.GetUnread(userID)
}

// ListThread 获取消息的直接回复（只取一层，深层递归由调用方处理）
func (s *MessageService) ListThread(messageID uint) ([]*model.Message, error) {
	if _, err := s.messageRepo.GetByID(messageID); err != nil {
		return nil, err
	}
	return s.messageRepo.GetReplies(messageID)
}

// ListHistory 获取消息的编辑历史，最早的排在最前
func (s *MessageService) ListHistory(messageID uint) ([]*model.MessageHistory, error) {
	if _, err := s.messageRepo.GetByID(messageID); err != nil {
		return nil, err
	}
	return s.historyRepo.GetByMessage(messageID)
}

// ListNotifications 获取用户收到的通知，最新的排在最前
func (s *MessageService) ListNotifications(userID uint, limit int) ([]*model.Notification, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if _, err := s.userRepo.GetByID(userID); err != nil {
		return nil, err
	}
	return s.notificationRepo.GetByRecipient(userID, limit)
}

// MarkAsRead 标记消息为已读
func (s *MessageService) MarkAsRead(messageID, userID uint) error {
	message, err := s.messageRepo.GetByID(messageID)
	if err != nil {
		return err
	}

	// 只能标记发给自己的消息
	if message.ReceiverID == nil || *message.ReceiverID != userID {
		return apperr.Validationf("只有接收者可以标记消息 %d 为已读", messageID)
	}

	// 已读则无需重复操作
	if message.IsRead {
		return nil
	}

	if err := s.messageRepo.MarkAsRead(messageID); err != nil {
		return err
	}

	_ = redis.DecrementUnreadCount(userID)

	return nil
}

// MarkNotificationAsRead 标记通知为已读
func (s *MessageService) MarkNotificationAsRead(notificationID string, userID uint) error {
	notification, err := s.notificationRepo.GetByID(notificationID)
	if err != nil {
		return err
	}

	// 只能标记发给自己的通知
	if notification.RecipientID != userID {
		return apperr.Validationf("只有接收者可以标记通知 %s 为已读", notificationID)
	}

	// 已读则无需重复操作
	if notification.IsRead {
		return nil
	}

	return s.notificationRepo.MarkAsRead(notificationID)
}

// GetUnreadCount 获取未读消息数量（优先读Redis，miss时回源数据库并回填）
func (s *MessageService) GetUnreadCount(userID uint) (int64, error) {
	count, err := redis.GetUnreadCount(userID)
	if err == nil {
		return count, nil
	}

	dbCount, err := s.messageRepo.GetUnreadCount(userID)
	if err != nil {
		return 0, err
	}

	_ = redis.SetUnreadCount(userID, dbCount)

	return dbCount, nil
}
