package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"messaging-system/config"
	"messaging-system/internal/handler"
	"messaging-system/internal/hook"
	"messaging-system/internal/model"
	"messaging-system/internal/repository"
	"messaging-system/internal/service"
	dbPkg "messaging-system/pkg/db"
	"messaging-system/pkg/logger"
	redisPkg "messaging-system/pkg/redis"
	"messaging-system/pkg/response"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func main() {
	// 1. 加载配置
	cfg := config.LoadConfig()

	// 2. 初始化日志系统
	log := logger.InitLogger(cfg.Log)
	defer log.Sync()

	log.Info("=== 消息系统启动 ===")
	log.Info("服务器配置信息",
		zap.String("port", cfg.Server.Port),
		zap.String("database_host", cfg.Database.Host),
		zap.Int("database_port", cfg.Database.Port),
		zap.String("database_name", cfg.Database.Database),
		zap.String("log_level", cfg.Log.Level),
	)

	// 3. 初始化数据库连接
	orm, err := dbPkg.InitDB(cfg.Database)
	if err != nil {
		log.Fatal("数据库连接失败", zap.Error(err))
	}
	defer func() {
		if err := dbPkg.CloseDB(); err != nil {
			log.Error("关闭数据库连接失败", zap.Error(err))
		}
	}()
	log.Info("数据库连接成功")

	// 3.1 自动迁移表结构
	if err := dbPkg.AutoMigrate(
		&model.User{},
		&model.Message{},
		&model.MessageHistory{},
		&model.Notification{},
	); err != nil {
		log.Fatal("自动迁移失败", zap.Error(err))
	}
	log.Info("自动迁移完成")

	// 3.2 初始化Redis（未读计数缓存，连不上不影响主流程）
	if err := redisPkg.InitRedis(cfg.Redis); err != nil {
		log.Warn("Redis连接失败，未读计数将直接回源数据库", zap.Error(err))
	} else {
		defer redisPkg.Close()
		log.Info("Redis连接成功")
	}

	// 3.3 初始化仓储、拦截器与服务
	userRepo := repository.NewUserRepository(orm)
	messageRepo := repository.NewMessageRepository(orm)
	historyRepo := repository.NewHistoryRepository(orm)
	notificationRepo := repository.NewNotificationRepository(orm)

	// 注册派生状态规则：编辑历史、通知扇出、级联清理
	interceptor := hook.NewInterceptor(messageRepo, userRepo)
	interceptor.OnPreUpdate(hook.HistoryCaptureRule(historyRepo))
	interceptor.OnPostCreate(hook.NotificationFanOutRule(notificationRepo))
	interceptor.OnPostDeleteUser(hook.CascadeCleanupRule(messageRepo, historyRepo, notificationRepo))

	userSvc := service.NewUserService(orm, interceptor, userRepo)
	messageSvc := service.NewMessageService(orm, interceptor, messageRepo, userRepo, historyRepo, notificationRepo)
	userHandler := handler.NewUserHandler(userSvc)
	messageHandler := handler.NewMessageHandler(messageSvc)

	// 4. 设置Gin模式
	if os.Getenv("GIN_MODE") == "" {
		gin.SetMode(gin.ReleaseMode)
	}

	// 5. 创建Gin路由
	router := gin.New()
	router.Use(logger.LoggerMiddleware())
	router.Use(logger.ErrorLoggerMiddleware())

	// 健康检查
	router.GET("/health", func(c *gin.Context) {
		status := "ok"
		if err := dbPkg.HealthCheck(); err != nil {
			status = "db-down"
		}
		response.Success(c, gin.H{
			"status": status,
			"time":   time.Now().Format(time.RFC3339),
		})
	})

	// 6. 绑定业务路由
	v1 := router.Group("/api/v1")
	{
		users := v1.Group("/users")
		{
			users.POST("", userHandler.CreateUser)
			users.GET("/:user_id", userHandler.GetUser)
			users.DELETE("/:user_id", userHandler.DeleteUser) // 触发级联清理
		}

		messages := v1.Group("/messages")
		{
			messages.POST("", messageHandler.CreateMessage) // 同一事务内扇出通知
			messages.GET("/unread", messageHandler.GetUnreadMessages)
			messages.GET("/unread/count", messageHandler.GetUnreadCount)
			messages.PUT("/:message_id/content", messageHandler.UpdateContent) // 记录编辑历史
			messages.PUT("/:message_id/parent", messageHandler.SetParent)
			messages.PUT("/:message_id/read", messageHandler.MarkAsRead)
			messages.GET("/:message_id/thread", messageHandler.GetThread)
			messages.GET("/:message_id/history", messageHandler.GetHistory)
		}

		v1.GET("/notifications", messageHandler.GetNotifications)
		v1.PUT("/notifications/:notification_id/read", messageHandler.MarkNotificationAsRead)
	}

	// 7. 创建HTTP服务器
	server := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	// 8. 启动HTTP服务器
	go func() {
		log.Info("HTTP服务器启动", zap.String("port", cfg.Server.Port))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("HTTP服务器启动失败", zap.Error(err))
		}
	}()

	// 9. 优雅关闭
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("正在关闭服务器...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Error("HTTP服务器关闭失败", zap.Error(err))
	}

	log.Info("服务器已安全关闭")
}
