package handler

import (
	"context"

	"vida-social/internal/api/dto"
	"vida-social/internal/api/response"
	"vida-social/internal/service"

	"github.com/gin-gonic/gin"
)

// SettingsManager 可读写的私信设置
type SettingsManager interface {
	service.Settings
	Update(ctx context.Context, enabled *bool, maxLength *int) error
	Reset(ctx context.Context) error
}

type SettingsHandler struct {
	settings SettingsManager
}

func NewSettingsHandler(settings SettingsManager) *SettingsHandler {
	return &SettingsHandler{settings: settings}
}

// Get 查看私信设置
// @Summary 查看私信设置
// @Tags 管理
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response{data=dto.MessagingSettings} "获取成功"
// @Failure 403 {object} response.ErrorResponse "需要管理员权限"
// @Router /admin/messaging/settings [get]
func (h *SettingsHandler) Get(c *gin.Context) {
	response.OK(c, "获取成功", h.current(c.Request.Context()))
}

// Update 修改私信设置
// @Summary 修改私信设置
// @Description 未传字段保持不变
// @Tags 管理
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.UpdateMessagingSettingsRequest true "设置"
// @Success 200 {object} response.Response{data=dto.MessagingSettings} "修改成功"
// @Failure 400 {object} response.ErrorResponse "参数无效"
// @Router /admin/messaging/settings [put]
func (h *SettingsHandler) Update(c *gin.Context) {
	var req dto.UpdateMessagingSettingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "请求参数无效: "+err.Error())
		return
	}

	if err := h.settings.Update(c.Request.Context(), req.Enabled, req.MaxMessageLength); err != nil {
		handleServiceError(c, "Update messaging settings", err)
		return
	}

	response.OK(c, "修改成功", h.current(c.Request.Context()))
}

// Reset 恢复默认设置
// @Summary 恢复默认私信设置
// @Tags 管理
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response{data=dto.MessagingSettings} "已恢复"
// @Router /admin/messaging/settings [delete]
func (h *SettingsHandler) Reset(c *gin.Context) {
	if err := h.settings.Reset(c.Request.Context()); err != nil {
		handleServiceError(c, "Reset messaging settings", err)
		return
	}

	response.OK(c, "已恢复默认设置", h.current(c.Request.Context()))
}

func (h *SettingsHandler) current(ctx context.Context) dto.MessagingSettings {
	return dto.MessagingSettings{
		Enabled:          h.settings.MessagingEnabled(ctx),
		MaxMessageLength: h.settings.MaxMessageLength(ctx),
	}
}
