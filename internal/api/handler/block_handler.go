package handler

import (
	"vida-social/internal/api/middleware"
	"vida-social/internal/api/response"
	"vida-social/internal/service"

	"github.com/gin-gonic/gin"
)

type BlockHandler struct {
	blockService *service.BlockService
}

func NewBlockHandler(blockService *service.BlockService) *BlockHandler {
	return &BlockHandler{blockService: blockService}
}

// Block 拉黑用户
// @Summary 拉黑用户
// @Description 拉黑后双方都无法互发私信，关注关系保持不变
// @Tags 拉黑
// @Produce json
// @Security BearerAuth
// @Param id path int true "被拉黑用户ID"
// @Success 200 {object} response.Response{data=dto.BlockResult} "拉黑成功"
// @Failure 403 {object} response.ErrorResponse "不能拉黑自己"
// @Failure 404 {object} response.ErrorResponse "用户不存在"
// @Router /blocks/{id} [post]
func (h *BlockHandler) Block(c *gin.Context) {
	currentUserID, _ := middleware.GetCurrentUserID(c)
	targetID, err := parseIDParam(c)
	if err != nil {
		response.BadRequest(c, "无效的用户ID")
		return
	}

	result, err := h.blockService.Block(c.Request.Context(), currentUserID, targetID)
	if err != nil {
		handleServiceError(c, "Block", err)
		return
	}

	response.OK(c, "拉黑成功", result)
}

// Unblock 解除拉黑
// @Summary 解除拉黑
// @Tags 拉黑
// @Produce json
// @Security BearerAuth
// @Param id path int true "被拉黑用户ID"
// @Success 200 {object} response.Response{data=dto.BlockResult} "解除成功"
// @Router /blocks/{id} [delete]
func (h *BlockHandler) Unblock(c *gin.Context) {
	currentUserID, _ := middleware.GetCurrentUserID(c)
	targetID, err := parseIDParam(c)
	if err != nil {
		response.BadRequest(c, "无效的用户ID")
		return
	}

	result, err := h.blockService.Unblock(c.Request.Context(), currentUserID, targetID)
	if err != nil {
		handleServiceError(c, "Unblock", err)
		return
	}

	response.OK(c, "解除拉黑成功", result)
}

// GetStatus 查询是否拉黑了指定用户
// @Summary 查询拉黑状态
// @Description 只返回当前用户是否拉黑了对方，不透露对方是否拉黑了自己
// @Tags 拉黑
// @Produce json
// @Security BearerAuth
// @Param id path int true "用户ID"
// @Success 200 {object} response.Response "查询成功"
// @Router /blocks/{id}/status [get]
func (h *BlockHandler) GetStatus(c *gin.Context) {
	currentUserID, _ := middleware.GetCurrentUserID(c)
	targetID, err := parseIDParam(c)
	if err != nil {
		response.BadRequest(c, "无效的用户ID")
		return
	}

	blocked, err := h.blockService.IsBlocked(c.Request.Context(), currentUserID, targetID)
	if err != nil {
		handleServiceError(c, "Get block status", err)
		return
	}

	response.OK(c, "查询拉黑状态成功", gin.H{
		"is_blocked": blocked,
		"user_id":    targetID,
	})
}

// ListMine 我拉黑的用户
// @Summary 我拉黑的用户
// @Tags 拉黑
// @Produce json
// @Security BearerAuth
// @Param page query int false "页码" default(1)
// @Param page_size query int false "每页数量" default(20)
// @Success 200 {object} response.Response{data=[]dto.UserBrief} "获取成功"
// @Router /blocks/my/list [get]
func (h *BlockHandler) ListMine(c *gin.Context) {
	currentUserID, _ := middleware.GetCurrentUserID(c)
	page, pageSize := parsePagination(c, 20)

	users, err := h.blockService.GetBlockedList(c.Request.Context(), currentUserID, page, pageSize)
	if err != nil {
		handleServiceError(c, "List blocked users", err)
		return
	}

	response.OK(c, "获取成功", users)
}
