package handler

import (
	"vida-social/internal/api/middleware"
	"vida-social/internal/api/response"
	"vida-social/internal/service"

	"github.com/gin-gonic/gin"
)

type RelationHandler struct {
	relationService *service.RelationService
}

func NewRelationHandler(relationService *service.RelationService) *RelationHandler {
	return &RelationHandler{relationService: relationService}
}

// Follow 关注用户
// @Summary 关注用户
// @Description 关注指定用户，重复关注视为成功
// @Tags 关注
// @Produce json
// @Security BearerAuth
// @Param id path int true "被关注用户ID"
// @Success 200 {object} response.Response{data=dto.FollowResult} "关注成功"
// @Failure 403 {object} response.ErrorResponse "不能关注自己"
// @Failure 404 {object} response.ErrorResponse "用户不存在"
// @Router /relations/follow/{id} [post]
func (h *RelationHandler) Follow(c *gin.Context) {
	currentUserID, _ := middleware.GetCurrentUserID(c)
	targetID, err := parseIDParam(c)
	if err != nil {
		response.BadRequest(c, "无效的用户ID")
		return
	}

	result, err := h.relationService.Follow(c.Request.Context(), currentUserID, targetID)
	if err != nil {
		handleServiceError(c, "Follow", err)
		return
	}

	response.OK(c, "关注成功", result)
}

// Unfollow 取消关注
// @Summary 取消关注
// @Description 取消关注指定用户，未关注时同样返回成功
// @Tags 关注
// @Produce json
// @Security BearerAuth
// @Param id path int true "被取消关注用户ID"
// @Success 200 {object} response.Response{data=dto.FollowResult} "取消关注成功"
// @Failure 403 {object} response.ErrorResponse "不能取关自己"
// @Router /relations/unfollow/{id} [post]
func (h *RelationHandler) Unfollow(c *gin.Context) {
	currentUserID, _ := middleware.GetCurrentUserID(c)
	targetID, err := parseIDParam(c)
	if err != nil {
		response.BadRequest(c, "无效的用户ID")
		return
	}

	result, err := h.relationService.Unfollow(c.Request.Context(), currentUserID, targetID)
	if err != nil {
		handleServiceError(c, "Unfollow", err)
		return
	}

	response.OK(c, "取消关注成功", result)
}

// GetFollowing 获取关注列表
// @Summary 获取用户关注列表
// @Tags 关注
// @Produce json
// @Security BearerAuth
// @Param id path int true "用户ID"
// @Param page query int false "页码" default(1)
// @Param page_size query int false "每页数量" default(20)
// @Success 200 {object} response.Response{data=dto.RelationListData} "获取成功"
// @Router /relations/following/{id} [get]
func (h *RelationHandler) GetFollowing(c *gin.Context) {
	userID, err := parseIDParam(c)
	if err != nil {
		response.BadRequest(c, "无效的用户ID")
		return
	}
	h.following(c, userID)
}

// GetFollowers 获取粉丝列表
// @Summary 获取用户粉丝列表
// @Tags 关注
// @Produce json
// @Security BearerAuth
// @Param id path int true "用户ID"
// @Param page query int false "页码" default(1)
// @Param page_size query int false "每页数量" default(20)
// @Success 200 {object} response.Response{data=dto.RelationListData} "获取成功"
// @Router /relations/followers/{id} [get]
func (h *RelationHandler) GetFollowers(c *gin.Context) {
	userID, err := parseIDParam(c)
	if err != nil {
		response.BadRequest(c, "无效的用户ID")
		return
	}
	h.followers(c, userID)
}

// GetMyFollowing 获取我的关注列表
// @Summary 获取我的关注列表
// @Tags 关注
// @Produce json
// @Security BearerAuth
// @Param page query int false "页码" default(1)
// @Param page_size query int false "每页数量" default(20)
// @Success 200 {object} response.Response{data=dto.RelationListData} "获取成功"
// @Router /relations/following/my/list [get]
func (h *RelationHandler) GetMyFollowing(c *gin.Context) {
	currentUserID, _ := middleware.GetCurrentUserID(c)
	h.following(c, currentUserID)
}

// GetMyFollowers 获取我的粉丝列表
// @Summary 获取我的粉丝列表
// @Tags 关注
// @Produce json
// @Security BearerAuth
// @Param page query int false "页码" default(1)
// @Param page_size query int false "每页数量" default(20)
// @Success 200 {object} response.Response{data=dto.RelationListData} "获取成功"
// @Router /relations/followers/my/list [get]
func (h *RelationHandler) GetMyFollowers(c *gin.Context) {
	currentUserID, _ := middleware.GetCurrentUserID(c)
	h.followers(c, currentUserID)
}

func (h *RelationHandler) following(c *gin.Context, userID int64) {
	page, pageSize := parsePagination(c, 20)
	data, err := h.relationService.GetFollowingList(c.Request.Context(), userID, page, pageSize)
	if err != nil {
		handleServiceError(c, "Get following list", err)
		return
	}
	response.OK(c, "获取关注列表成功", data)
}

func (h *RelationHandler) followers(c *gin.Context, userID int64) {
	page, pageSize := parsePagination(c, 20)
	data, err := h.relationService.GetFollowerList(c.Request.Context(), userID, page, pageSize)
	if err != nil {
		handleServiceError(c, "Get follower list", err)
		return
	}
	response.OK(c, "获取粉丝列表成功", data)
}

// GetFollowStatus 获取关注状态
// @Summary 获取关注状态
// @Description 查询当前用户是否关注了指定用户
// @Tags 关注
// @Produce json
// @Security BearerAuth
// @Param id path int true "用户ID"
// @Success 200 {object} response.Response "查询成功"
// @Router /relations/following/{id}/status [get]
func (h *RelationHandler) GetFollowStatus(c *gin.Context) {
	currentUserID, _ := middleware.GetCurrentUserID(c)
	targetID, err := parseIDParam(c)
	if err != nil {
		response.BadRequest(c, "无效的用户ID")
		return
	}

	isFollowing, err := h.relationService.IsFollowing(c.Request.Context(), currentUserID, targetID)
	if err != nil {
		handleServiceError(c, "Get follow status", err)
		return
	}

	response.OK(c, "查询关注状态成功", gin.H{
		"is_following": isFollowing,
		"follow_id":    targetID,
	})
}

// GetMutualStatus 获取互相关注状态
// @Summary 获取互相关注状态
// @Description 查询当前用户与指定用户是否互相关注
// @Tags 关注
// @Produce json
// @Security BearerAuth
// @Param id path int true "用户ID"
// @Success 200 {object} response.Response "查询成功"
// @Router /relations/mutual/{id}/status [get]
func (h *RelationHandler) GetMutualStatus(c *gin.Context) {
	currentUserID, _ := middleware.GetCurrentUserID(c)
	targetID, err := parseIDParam(c)
	if err != nil {
		response.BadRequest(c, "无效的用户ID")
		return
	}

	mutual, err := h.relationService.AreMutualFollows(c.Request.Context(), currentUserID, targetID)
	if err != nil {
		handleServiceError(c, "Get mutual status", err)
		return
	}

	response.OK(c, "查询互相关注状态成功", gin.H{
		"is_mutual": mutual,
		"user_id":   targetID,
	})
}

// GetCounts 获取关注数与粉丝数
// @Summary 获取关注数与粉丝数
// @Tags 关注
// @Produce json
// @Security BearerAuth
// @Param id path int true "用户ID"
// @Success 200 {object} response.Response{data=dto.RelationCounts} "获取成功"
// @Router /relations/counts/{id} [get]
func (h *RelationHandler) GetCounts(c *gin.Context) {
	userID, err := parseIDParam(c)
	if err != nil {
		response.BadRequest(c, "无效的用户ID")
		return
	}

	counts, err := h.relationService.GetCounts(c.Request.Context(), userID)
	if err != nil {
		handleServiceError(c, "Get relation counts", err)
		return
	}

	response.OK(c, "获取成功", counts)
}
