package handler

import (
	"strconv"

	"messaging-system/internal/service"
	"messaging-system/pkg/response"

	"github.com/gin-gonic/gin"
)

// MessageHandler 消息处理器
type MessageHandler struct {
	service *service.MessageService
}

// NewMessageHandler 创建MessageHandler实例
func NewMessageHandler(s *service.MessageService) *MessageHandler {
	return &MessageHandler{service: s}
}

// parseUintParam 解析路径参数
func parseUintParam(c *gin.Context, name string) (uint, bool) {
	v, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil {
		response.BadRequest(c, "无效的"+name)
		return 0, false
	}
	return uint(v), true
}

// parseUintQuery 解析查询参数
func parseUintQuery(c *gin.Context, name string) (uint, bool) {
	v, err := strconv.ParseUint(c.Query(name), 10, 32)
	if err != nil {
		response.BadRequest(c, "无效的"+name)
		return 0, false
	}
	return uint(v), true
}

// CreateMessage 发送消息
func (h *MessageHandler) CreateMessage(c *gin.Context) {
	type req struct {
		SenderID   uint   `json:"sender_id" binding:"required"`
		ReceiverID uint   `json:"receiver_id" binding:"required"`
		Content    string `json:"content" binding:"required"`
		ParentID   *uint  `json:"parent_id"`
	}
	var r req
	if err := c.ShouldBindJSON(&r); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	message, err := h.service.CreateMessage(r.SenderID, r.ReceiverID, r.Content, r.ParentID)
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.SuccessWithMessage(c, "消息发送成功", response.FilterMessageInfo(message))
}

// UpdateContent 编辑消息内容
func (h *MessageHandler) UpdateContent(c *gin.Context) {
	messageID, ok := parseUintParam(c, "message_id")
	if !ok {
		return
	}

	type req struct {
		EditorID uint   `json:"editor_id" binding:"required"`
		Content  string `json:"content" binding:"required"`
	}
	var r req
	if err := c.ShouldBindJSON(&r); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	message, err := h.service.UpdateMessageContent(messageID, r.Content, r.EditorID)
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.SuccessWithMessage(c, "消息编辑成功", response.FilterMessageInfo(message))
}

// SetParent 把消息挂到父消息下
func (h *MessageHandler) SetParent(c *gin.Context) {
	messageID, ok := parseUintParam(c, "message_id")
	if !ok {
		return
	}

	type req struct {
		ParentID uint `json:"parent_id" binding:"required"`
	}
	var r req
	if err := c.ShouldBindJSON(&r); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	if err := h.service.SetMessageParent(messageID, r.ParentID); err != nil {
		response.FromError(c, err)
		return
	}

	response.SuccessWithMessage(c, "父消息设置成功", nil)
}

// MarkAsRead 标记消息为已读
func (h *MessageHandler) MarkAsRead(c *gin.Context) {
	messageID, ok := parseUintParam(c, "message_id")
	if !ok {
		return
	}
	userID, ok := parseUintQuery(c, "user_id")
	if !ok {
		return
	}

	if err := h.service.MarkAsRead(messageID, userID); err != nil {
		response.FromError(c, err)
		return
	}

	response.SuccessWithMessage(c, "消息已标记为已读", nil)
}

// GetUnreadMessages 获取未读消息
func (h *MessageHandler) GetUnreadMessages(c *gin.Context) {
	userID, ok := parseUintQuery(c, "user_id")
	if !ok {
		return
	}

	messages, err := h.service.ListUnread(userID)
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.Success(c, response.FilterMessageList(messages))
}

// GetUnreadCount 获取未读消息数量
func (h *MessageHandler) GetUnreadCount(c *gin.Context) {
	userID, ok := parseUintQuery(c, "user_id")
	if !ok {
		return
	}

	count, err := h.service.GetUnreadCount(userID)
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.Success(c, gin.H{"unread_count": count})
}

// GetThread 获取消息的直接回复
func (h *MessageHandler) GetThread(c *gin.Context) {
	messageID, ok := parseUintParam(c, "message_id")
	if !ok {
		return
	}

	messages, err := h.service.ListThread(messageID)
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.Success(c, response.FilterMessageList(messages))
}

// GetHistory 获取消息的编辑历史
func (h *MessageHandler) GetHistory(c *gin.Context) {
	messageID, ok := parseUintParam(c, "message_id")
	if !ok {
		return
	}

	histories, err := h.service.ListHistory(messageID)
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.Success(c, response.FilterHistoryList(histories))
}

// GetNotifications 获取用户收到的通知
func (h *MessageHandler) GetNotifications(c *gin.Context) {
	userID, ok := parseUintQuery(c, "user_id")
	if !ok {
		return
	}
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))

	notifications, err := h.service.ListNotifications(userID, limit)
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.Success(c, response.FilterNotificationList(notifications))
}

// MarkNotificationAsRead 标记通知为已读
func (h *MessageHandler) MarkNotificationAsRead(c *gin.Context) {
	notificationID := c.Param("notification_id")
	if notificationID == "" {
		response.BadRequest(c, "无效的notification_id")
		return
	}
	userID, ok := parseUintQuery(c, "user_id")
	if !ok {
		return
	}

	if err := h.service.MarkNotificationAsRead(notificationID, userID); err != nil {
		response.FromError(c, err)
		return
	}

	response.SuccessWithMessage(c, "通知已标记为已读", nil)
}
