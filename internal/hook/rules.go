package hook

import (
	"messaging-system/internal/model"
	"messaging-system/internal/repository"

	"gorm.io/gorm"
)

// 三条派生状态规则，互相独立，各自注册到拦截器的钩子点上

// HistoryCaptureRule 编辑历史规则（更新前触发）
// 内容有变化时记录一条旧内容快照并把edited置true；
// 内容相同的写入不产生历史、不改动edited，重复写同样内容幂等
func HistoryCaptureRule(histories *repository.HistoryRepository) PreUpdateHook {
	return func(tx *gorm.DB, old, next *model.Message) error {
		if old.Content == next.Content {
			return nil
		}

		history := &model.MessageHistory{
			MessageID:  old.ID,
			Content:    old.Content, // 保存编辑前的内容
			EditedByID: old.SenderID,
		}
		if err := histories.WithTx(tx).Create(history); err != nil {
			return err
		}

		next.Edited = true
		return nil
	}
}

// NotificationFanOutRule 通知扇出规则（创建后触发）
// 每条新消息为其接收者生成恰好一条message类型通知；
// 通知ID由模型层生成UUID，与消息ID相互独立；
// 没有接收者的消息（广播）不产生通知
func NotificationFanOutRule(notifications *repository.NotificationRepository) PostCreateHook {
	return func(tx *gorm.DB, msg *model.Message) error {
		if msg.ReceiverID == nil {
			return nil
		}

		notification := &model.Notification{
			RecipientID: *msg.ReceiverID,
			SenderID:    &msg.SenderID,
			MessageID:   &msg.ID,
			Type:        model.NotificationTypeMessage,
			Title:       "New Message",
			Body:        msg.Content,
			IsRead:      false,
		}
		return notifications.WithTx(tx).Create(notification)
	}
}

// CascadeCleanupRule 级联清理规则（用户删除后触发）
// 不依赖数据库外键级联，显式删除所有关联行：
// 先收集待删消息ID，再清历史与通知（按消息或按用户两种关联都要覆盖），
// 最后删除消息本体。完成后不再有任何行以任何角色引用该用户
func CascadeCleanupRule(
	messages *repository.MessageRepository,
	histories *repository.HistoryRepository,
	notifications *repository.NotificationRepository,
) PostDeleteUserHook {
	return func(tx *gorm.DB, user *model.User) error {
		// 该用户作为发送者或接收者的消息都将被删除
		messageIDs, err := messages.WithTx(tx).IDsByUser(user.ID)
		if err != nil {
			return err
		}

		// 历史：挂在待删消息上的 + 该用户作为编辑者的
		if err := histories.WithTx(tx).DeleteByMessageIDs(messageIDs); err != nil {
			return err
		}
		if err := histories.WithTx(tx).DeleteByEditor(user.ID); err != nil {
			return err
		}

		// 通知：引用待删消息的 + 该用户作为接收者/发送者的
		if err := notifications.WithTx(tx).DeleteByMessageIDs(messageIDs); err != nil {
			return err
		}
		if err := notifications.WithTx(tx).DeleteByUser(user.ID); err != nil {
			return err
		}

		return messages.WithTx(tx).DeleteByUser(user.ID)
	}
}
