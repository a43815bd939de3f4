package service

import (
	"testing"

	"messaging-system/internal/hook"
	"messaging-system/internal/model"
	"messaging-system/internal/repository"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/schema"
)

// setupTestEnv 构建内存SQLite上的完整引擎：仓储、拦截器（三条规则全部注册）、服务
func setupTestEnv(t *testing.T) (*gorm.DB, *UserService, *MessageService) {
	t.Helper()

	orm, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		NamingStrategy: schema.NamingStrategy{SingularTable: true},
	})
	require.NoError(t, err)
	// 内存库随连接存在，连接池必须固定为单连接
	sqlDB, err := orm.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, orm.AutoMigrate(
		&model.User{},
		&model.Message{},
		&model.MessageHistory{},
		&model.Notification{},
	))

	userRepo := repository.NewUserRepository(orm)
	messageRepo := repository.NewMessageRepository(orm)
	historyRepo := repository.NewHistoryRepository(orm)
	notificationRepo := repository.NewNotificationRepository(orm)

	interceptor := hook.NewInterceptor(messageRepo, userRepo)
	interceptor.OnPreUpdate(hook.HistoryCaptureRule(historyRepo))
	interceptor.OnPostCreate(hook.NotificationFanOutRule(notificationRepo))
	interceptor.OnPostDeleteUser(hook.CascadeCleanupRule(messageRepo, historyRepo, notificationRepo))

	userSvc := NewUserService(orm, interceptor, userRepo)
	messageSvc := NewMessageService(orm, interceptor, messageRepo, userRepo, historyRepo, notificationRepo)

	return orm, userSvc, messageSvc
}

func mustCreateUser(t *testing.T, svc *UserService, username string) *model.User {
	t.Helper()
	user, err := svc.CreateUser(username, username+"@example.com", username)
	require.NoError(t, err)
	return user
}

func countRows(t *testing.T, orm *gorm.DB, value interface{}, query string, args ...interface{}) int64 {
	t.Helper()
	var count int64
	q := orm.Model(value)
	if query != "" {
		q = q.Where(query, args...)
	}
	require.NoError(t, q.Count(&count).Error)
	return count
}
