package handler

import (
	"messaging-system/internal/service"
	"messaging-system/pkg/response"

	"github.com/gin-gonic/gin"
)

// UserHandler 用户处理器
type UserHandler struct {
	service *service.UserService
}

// NewUserHandler 创建UserHandler实例
func NewUserHandler(s *service.UserService) *UserHandler {
	return &UserHandler{service: s}
}

// CreateUser 创建用户
func (h *UserHandler) CreateUser(c *gin.Context) {
	type req struct {
		Username string `json:"username" binding:"required"`
		Email    string `json:"email"`
		Nickname string `json:"nickname"`
	}
	var r req
	if err := c.ShouldBindJSON(&r); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	user, err := h.service.CreateUser(r.Username, r.Email, r.Nickname)
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.SuccessWithMessage(c, "用户创建成功", response.FilterUserInfo(user))
}

// GetUser 获取用户信息
func (h *UserHandler) GetUser(c *gin.Context) {
	userID, ok := parseUintParam(c, "user_id")
	if !ok {
		return
	}

	user, err := h.service.GetUser(userID)
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.Success(c, response.FilterUserInfo(user))
}

// DeleteUser 删除用户及其全部关联数据
func (h *UserHandler) DeleteUser(c *gin.Context) {
	userID, ok := parseUintParam(c, "user_id")
	if !ok {
		return
	}

	if err := h.service.DeleteUser(userID); err != nil {
		response.FromError(c, err)
		return
	}

	response.SuccessWithMessage(c, "用户及关联数据已删除", nil)
}
