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

// UserService 用户服务
type UserService struct {
	orm         *gorm.DB
	interceptor *hook.Interceptor
	userRepo    *repository.UserRepository
}

// NewUserService 创建UserService实例
func NewUserService(orm *gorm.DB, interceptor *hook.Interceptor, userRepo *repository.UserRepository) *UserService {
	return &UserService{orm: orm, interceptor: interceptor, userRepo: userRepo}
}

// CreateUser 创建用户
func (s *UserService) CreateUser(username, email, nickname string) (*model.User, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return nil, apperr.Validationf("用户名不能为空")
	}

	user := &model.User{
		Username: username,
		Email:    strings.TrimSpace(email),
		Nickname: nickname,
	}
	if err := s.userRepo.Create(user); err != nil {
		return nil, err
	}
	return user, nil
}

// GetUser 根据ID获取用户
func (s *UserService) GetUser(id uint) (*model.User, error) {
	return s.userRepo.GetByID(id)
}

// DeleteUser 删除用户
// 用户行与其全部关联数据（消息、历史、通知）在同一事务内清除，
// 由拦截器的post-delete钩子触发级联清理规则
func (s *UserService) DeleteUser(id uint) error {
	err := db.Transaction(s.orm, func(tx *gorm.DB) error {
		// 写入前先确认用户存在
		user, err := s.userRepo.WithTx(tx).GetByID(id)
		if err != nil {
			return err
		}
		return s.interceptor.DeleteUser(tx, user)
	})
	if err != nil {
		return err
	}

	// 事务已提交，尽力清除该用户的未读计数缓存
	_ = redis.ResetUnreadCount(id)

	return nil
}
