package handler

import (
	"vida-social/internal/api/dto"
	"vida-social/internal/api/middleware"
	"vida-social/internal/api/response"
	"vida-social/internal/service"

	"github.com/gin-gonic/gin"
)

type MessageHandler struct {
	messagingService *service.MessagingService
	inboxPageSize    int
	messagePageSize  int
}

func NewMessageHandler(messagingService *service.MessagingService, inboxPageSize, messagePageSize int) *MessageHandler {
	return &MessageHandler{
		messagingService: messagingService,
		inboxPageSize:    inboxPageSize,
		messagePageSize:  messagePageSize,
	}
}

// CanMessage 检查能否给指定用户发私信
// @Summary 检查私信权限
// @Description 拒绝时 allowed 为 false 并返回原因码
// @Tags 私信
// @Produce json
// @Security BearerAuth
// @Param id path int true "接收者ID"
// @Success 200 {object} response.Response{data=dto.CanMessageResult} "检查完成"
// @Router /messages/can/{id} [get]
func (h *MessageHandler) CanMessage(c *gin.Context) {
	currentUserID, _ := middleware.GetCurrentUserID(c)
	recipientID, err := parseIDParam(c)
	if err != nil {
		response.BadRequest(c, "无效的用户ID")
		return
	}

	result := dto.CanMessageResult{RecipientID: recipientID, Allowed: true}
	if err := h.messagingService.CanMessage(c.Request.Context(), currentUserID, recipientID); err != nil {
		e, ok := service.AsError(err)
		if !ok {
			handleServiceError(c, "Check messaging permission", err)
			return
		}
		result.Allowed = false
		result.Reason = string(e.Reason)
		result.Message = e.Message
	}

	response.OK(c, "检查完成", result)
}

// Send 发送私信
// @Summary 发送私信
// @Description 双方互相关注且未拉黑时才能发送，首次发送会创建会话
// @Tags 私信
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "接收者ID"
// @Param request body dto.SendMessageRequest true "消息内容"
// @Success 201 {object} response.Response{data=dto.SendMessageResult} "发送成功"
// @Failure 400 {object} response.ErrorResponse "消息为空或过长"
// @Failure 403 {object} response.ErrorResponse "无权发送"
// @Failure 404 {object} response.ErrorResponse "用户不存在"
// @Router /messages/send/{id} [post]
func (h *MessageHandler) Send(c *gin.Context) {
	currentUserID, _ := middleware.GetCurrentUserID(c)
	recipientID, err := parseIDParam(c)
	if err != nil {
		response.BadRequest(c, "无效的用户ID")
		return
	}

	var req dto.SendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "请求参数无效: "+err.Error())
		return
	}

	result, err := h.messagingService.SendMessage(c.Request.Context(), currentUserID, recipientID, req.Body)
	if err != nil {
		handleServiceError(c, "Send message", err)
		return
	}

	response.Created(c, "发送成功", result)
}

// Inbox 收件箱
// @Summary 收件箱
// @Description 按最后消息时间倒序列出会话，附带最后一条可见消息和未读数
// @Tags 私信
// @Produce json
// @Security BearerAuth
// @Param page query int false "页码" default(1)
// @Param page_size query int false "每页数量" default(20)
// @Success 200 {object} response.Response{data=dto.InboxData} "获取成功"
// @Router /messages/inbox [get]
func (h *MessageHandler) Inbox(c *gin.Context) {
	currentUserID, _ := middleware.GetCurrentUserID(c)
	page, pageSize := parsePagination(c, h.inboxPageSize)

	entries, err := h.messagingService.GetInbox(c.Request.Context(), currentUserID, pageSize, (page-1)*pageSize)
	if err != nil {
		handleServiceError(c, "Get inbox", err)
		return
	}

	response.OK(c, "获取收件箱成功", dto.InboxData{
		Entries:  entries,
		Page:     page,
		PageSize: pageSize,
	})
}

// GetConversation 查看会话消息
// @Summary 查看会话消息
// @Description 按时间正序返回消息，并把发给当前用户的消息标记为已读
// @Tags 私信
// @Produce json
// @Security BearerAuth
// @Param id path int true "会话ID"
// @Param page query int false "页码" default(1)
// @Param page_size query int false "每页数量" default(50)
// @Success 200 {object} response.Response{data=dto.MessageListData} "获取成功"
// @Failure 403 {object} response.ErrorResponse "不是会话参与者"
// @Failure 404 {object} response.ErrorResponse "会话不存在"
// @Router /messages/conversations/{id} [get]
func (h *MessageHandler) GetConversation(c *gin.Context) {
	currentUserID, _ := middleware.GetCurrentUserID(c)
	conversationID, err := parseIDParam(c)
	if err != nil {
		response.BadRequest(c, "无效的会话ID")
		return
	}
	page, pageSize := parsePagination(c, h.messagePageSize)

	msgs, err := h.messagingService.GetMessages(c.Request.Context(), conversationID, currentUserID, pageSize, (page-1)*pageSize)
	if err != nil {
		handleServiceError(c, "Get messages", err)
		return
	}

	response.OK(c, "获取消息成功", dto.MessageListData{
		ConversationID: conversationID,
		Messages:       msgs,
		Page:           page,
		PageSize:       pageSize,
	})
}

// GetParticipant 会话的另一方
// @Summary 会话的另一方
// @Tags 私信
// @Produce json
// @Security BearerAuth
// @Param id path int true "会话ID"
// @Success 200 {object} response.Response{data=dto.UserBrief} "获取成功"
// @Router /messages/conversations/{id}/participant [get]
func (h *MessageHandler) GetParticipant(c *gin.Context) {
	currentUserID, _ := middleware.GetCurrentUserID(c)
	conversationID, err := parseIDParam(c)
	if err != nil {
		response.BadRequest(c, "无效的会话ID")
		return
	}

	user, err := h.messagingService.GetOtherParticipant(c.Request.Context(), conversationID, currentUserID)
	if err != nil {
		handleServiceError(c, "Get participant", err)
		return
	}

	response.OK(c, "获取成功", user)
}

// OpenConversation 打开与指定用户的会话
// @Summary 打开会话
// @Description 已有会话直接返回；没有时需要满足私信权限才会创建
// @Tags 私信
// @Produce json
// @Security BearerAuth
// @Param id path int true "对方用户ID"
// @Success 200 {object} response.Response{data=dto.ConversationInfo} "获取成功"
// @Router /messages/conversations/with/{id} [post]
func (h *MessageHandler) OpenConversation(c *gin.Context) {
	currentUserID, _ := middleware.GetCurrentUserID(c)
	otherID, err := parseIDParam(c)
	if err != nil {
		response.BadRequest(c, "无效的用户ID")
		return
	}

	conv, err := h.messagingService.OpenConversation(c.Request.Context(), currentUserID, otherID)
	if err != nil {
		handleServiceError(c, "Open conversation", err)
		return
	}

	response.OK(c, "获取会话成功", conv)
}

// DeleteMessage 删除消息（仅自己不可见）
// @Summary 删除消息
// @Tags 私信
// @Produce json
// @Security BearerAuth
// @Param id path int true "消息ID"
// @Success 200 {object} response.Response "删除成功"
// @Router /messages/{id} [delete]
func (h *MessageHandler) DeleteMessage(c *gin.Context) {
	currentUserID, _ := middleware.GetCurrentUserID(c)
	messageID, err := parseIDParam(c)
	if err != nil {
		response.BadRequest(c, "无效的消息ID")
		return
	}

	if err := h.messagingService.DeleteMessage(c.Request.Context(), messageID, currentUserID); err != nil {
		handleServiceError(c, "Delete message", err)
		return
	}

	response.OK(c, "删除成功", nil)
}

// DeleteConversation 删除会话（仅自己不可见）
// @Summary 删除会话
// @Tags 私信
// @Produce json
// @Security BearerAuth
// @Param id path int true "会话ID"
// @Success 200 {object} response.Response "删除成功"
// @Router /messages/conversations/{id} [delete]
func (h *MessageHandler) DeleteConversation(c *gin.Context) {
	currentUserID, _ := middleware.GetCurrentUserID(c)
	conversationID, err := parseIDParam(c)
	if err != nil {
		response.BadRequest(c, "无效的会话ID")
		return
	}

	if err := h.messagingService.DeleteConversation(c.Request.Context(), conversationID, currentUserID); err != nil {
		handleServiceError(c, "Delete conversation", err)
		return
	}

	response.OK(c, "删除成功", nil)
}

// UnreadCount 未读总数
// @Summary 未读总数
// @Tags 私信
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response "获取成功"
// @Router /messages/unread/count [get]
func (h *MessageHandler) UnreadCount(c *gin.Context) {
	currentUserID, _ := middleware.GetCurrentUserID(c)

	count, err := h.messagingService.GetUnreadCount(c.Request.Context(), currentUserID)
	if err != nil {
		handleServiceError(c, "Get unread count", err)
		return
	}

	response.OK(c, "获取成功", gin.H{"unread_count": count})
}
