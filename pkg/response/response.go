package response

import (
	"net/http"

	"messaging-system/internal/model"
	"messaging-system/pkg/apperr"

	"github.com/gin-gonic/gin"
)

// Response 统一响应结构
type Response struct {
	Code    int         `json:"code"` // 0表示成功，其他表示错误
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// Success 成功响应
func Success(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, Response{
		Code:    0,
		Message: "success",
		Data:    data,
	})
}

// SuccessWithMessage 带自定义消息的成功响应
func SuccessWithMessage(c *gin.Context, message string, data interface{}) {
	c.JSON(http.StatusOK, Response{
		Code:    0,
		Message: message,
		Data:    data,
	})
}

// Error 错误响应
func Error(c *gin.Context, code int, message string) {
	c.JSON(http.StatusOK, Response{
		Code:    code,
		Message: message,
	})
}

// BadRequest 400错误
func BadRequest(c *gin.Context, message string) {
	Error(c, 400, message)
}

// NotFound 404错误
func NotFound(c *gin.Context, message string) {
	Error(c, 404, message)
}

// Conflict 409错误
func Conflict(c *gin.Context, message string) {
	Error(c, 409, message)
}

// InternalError 500错误
func InternalError(c *gin.Context, message string) {
	Error(c, 500, message)
}

// FromError 按错误类别映射响应码
func FromError(c *gin.Context, err error) {
	switch {
	case apperr.IsValidation(err):
		BadRequest(c, err.Error())
	case apperr.IsNotFound(err):
		NotFound(c, err.Error())
	case apperr.IsConflict(err):
		Conflict(c, err.Error())
	default:
		InternalError(c, err.Error())
	}
}

// UserInfo 用户信息
type UserInfo struct {
	ID        uint   `json:"id"`
	Username  string `json:"username"`
	Email     string `json:"email"`
	Nickname  string `json:"nickname"`
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}

// FilterUserInfo 过滤用户信息
func FilterUserInfo(user *model.User) *UserInfo {
	if user == nil {
		return nil
	}

	return &UserInfo{
		ID:        user.ID,
		Username:  user.Username,
		Email:     user.Email,
		Nickname:  user.Nickname,
		CreatedAt: user.CreatedAt.Format("2006-01-02 15:04:05"),
		UpdatedAt: user.UpdatedAt.Format("2006-01-02 15:04:05"),
	}
}

// MessageResponse 消息响应
type MessageResponse struct {
	ID         uint   `json:"id"`
	SenderID   uint   `json:"sender_id"`
	ReceiverID *uint  `json:"receiver_id"`
	Content    string `json:"content"`
	Edited     bool   `json:"edited"`
	IsRead     bool   `json:"is_read"`
	ParentID   *uint  `json:"parent_id,omitempty"`
	CreatedAt  string `json:"created_at"`
	UpdatedAt  string `json:"updated_at"`
}

// FilterMessageInfo 过滤消息信息
func FilterMessageInfo(message *model.Message) *MessageResponse {
	if message == nil {
		return nil
	}

	return &MessageResponse{
		ID:         message.ID,
		SenderID:   message.SenderID,
		ReceiverID: message.ReceiverID,
		Content:    message.Content,
		Edited:     message.Edited,
		IsRead:     message.IsRead,
		ParentID:   message.ParentID,
		CreatedAt:  message.CreatedAt.Format("2006-01-02 15:04:05"),
		UpdatedAt:  message.UpdatedAt.Format("2006-01-02 15:04:05"),
	}
}

// FilterMessageList 过滤消息列表
func FilterMessageList(messages []*model.Message) []*MessageResponse {
	result := make([]*MessageResponse, 0, len(messages))
	for _, m := range messages {
		result = append(result, FilterMessageInfo(m))
	}
	return result
}

// HistoryResponse 编辑历史响应
type HistoryResponse struct {
	ID         uint   `json:"id"`
	MessageID  uint   `json:"message_id"`
	Content    string `json:"content"`
	EditedByID uint   `json:"edited_by_id"`
	EditedAt   string `json:"edited_at"`
}

// FilterHistoryList 过滤编辑历史列表
func FilterHistoryList(histories []*model.MessageHistory) []*HistoryResponse {
	result := make([]*HistoryResponse, 0, len(histories))
	for _, h := range histories {
		result = append(result, &HistoryResponse{
			ID:         h.ID,
			MessageID:  h.MessageID,
			Content:    h.Content,
			EditedByID: h.EditedByID,
			EditedAt:   h.EditedAt.Format("2006-01-02 15:04:05"),
		})
	}
	return result
}

// NotificationResponse 通知响应
type NotificationResponse struct {
	ID          string `json:"id"`
	RecipientID uint   `json:"recipient_id"`
	SenderID    *uint  `json:"sender_id,omitempty"`
	MessageID   *uint  `json:"message_id,omitempty"`
	Type        string `json:"type"`
	Title       string `json:"title"`
	Body        string `json:"body"`
	IsRead      bool   `json:"is_read"`
	CreatedAt   string `json:"created_at"`
}

// FilterNotificationList 过滤通知列表
func FilterNotificationList(notifications []*model.Notification) []*NotificationResponse {
	result := make([]*NotificationResponse, 0, len(notifications))
	for _, n := range notifications {
		result = append(result, &NotificationResponse{
			ID:          n.ID,
			RecipientID: n.RecipientID,
			SenderID:    n.SenderID,
			MessageID:   n.MessageID,
			Type:        n.Type,
			Title:       n.Title,
			Body:        n.Body,
			IsRead:      n.IsRead,
			CreatedAt:   n.CreatedAt.Format("2006-01-02 15:04:05"),
		})
	}
	return result
}
