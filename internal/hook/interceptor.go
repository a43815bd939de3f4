package hook

import (
	"messaging-system/internal/model"
	"messaging-system/internal/repository"
	"messaging-system/pkg/apperr"

	"gorm.io/gorm"
)

// 变更拦截器
// 源系统里由ORM信号隐式触发的派生逻辑，这里改为由服务层显式调用：
// 钩子与主写入在同一事务内执行，任一规则失败都会使整个事务回滚，
// 不会出现消息已落库而通知缺失这类中间状态

// PreUpdateHook 更新前钩子
// old 是同一事务内读到的当前行（更新前内容），next 是即将写入的行；
// 钩子可以修改next（如置edited标记）
type PreUpdateHook func(tx *gorm.DB, old, next *model.Message) error

// PostCreateHook 创建后钩子，msg 为已插入的行
type PostCreateHook func(tx *gorm.DB, msg *model.Message) error

// PostDeleteUserHook 用户删除后钩子，user 为已删除的用户
type PostDeleteUserHook func(tx *gorm.DB, user *model.User) error

// Interceptor 包装消息与用户的生命周期变更，按注册顺序触发钩子
type Interceptor struct {
	messageRepo *repository.MessageRepository
	userRepo    *repository.UserRepository

	preUpdate      []PreUpdateHook
	postCreate     []PostCreateHook
	postDeleteUser []PostDeleteUserHook
}

// NewInterceptor 创建空拦截器（规则由调用方注册）
func NewInterceptor(messageRepo *repository.MessageRepository, userRepo *repository.UserRepository) *Interceptor {
	return &Interceptor{
		messageRepo: messageRepo,
		userRepo:    userRepo,
	}
}

// OnPreUpdate 注册更新前钩子
func (i *Interceptor) OnPreUpdate(h PreUpdateHook) {
	i.preUpdate = append(i.preUpdate, h)
}

// OnPostCreate 注册创建后钩子
func (i *Interceptor) OnPostCreate(h PostCreateHook) {
	i.postCreate = append(i.postCreate, h)
}

// OnPostDeleteUser 注册用户删除后钩子
func (i *Interceptor) OnPostDeleteUser(h PostDeleteUserHook) {
	i.postDeleteUser = append(i.postDeleteUser, h)
}

// CreateMessage 插入消息并触发创建后钩子
// 仅在新行插入时触发，更新不会走到这里
func (i *Interceptor) CreateMessage(tx *gorm.DB, msg *model.Message) error {
	if err := i.messageRepo.WithTx(tx).Create(msg); err != nil {
		return err
	}
	for _, h := range i.postCreate {
		if err := h(tx, msg); err != nil {
			return err
		}
	}
	return nil
}

// UpdateMessageContent 更新消息内容
// 在同一事务内以行锁读取当前行，保证钩子观察到的"旧内容"
// 是最近一次已提交的内容；editorID 必须是消息发送者本人
func (i *Interceptor) UpdateMessageContent(tx *gorm.DB, id uint, content string, editorID uint) (*model.Message, error) {
	old, err := i.messageRepo.WithTx(tx).GetByIDForUpdate(id)
	if err != nil {
		return nil, err
	}

	// 不支持第三方编辑
	if old.SenderID != editorID {
		return nil, apperr.Validationf("只有发送者本人可以编辑消息 %d", id)
	}

	next := *old
	next.Content = content

	for _, h := range i.preUpdate {
		if err := h(tx, old, &next); err != nil {
			return nil, err
		}
	}

	if err := i.messageRepo.WithTx(tx).UpdateContent(id, next.Content, next.Edited); err != nil {
		return nil, err
	}

	return &next, nil
}

// DeleteUser 删除用户行并触发删除后钩子
func (i *Interceptor) DeleteUser(tx *gorm.DB, user *model.User) error {
	if err := i.userRepo.WithTx(tx).Delete(user.ID); err != nil {
		return err
	}
	for _, h := range i.postDeleteUser {
		if err := h(tx, user); err != nil {
			return err
		}
	}
	return nil
}
