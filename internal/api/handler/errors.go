package handler

import (
	"net/http"
	"strconv"

	"vida-social/internal/api/response"
	"vida-social/internal/service"
	"vida-social/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// statusForKind 业务错误分类对应的 HTTP 状态码
func statusForKind(kind service.ErrorKind) int {
	switch kind {
	case service.KindValidation:
		return http.StatusBadRequest
	case service.KindPermission, service.KindAuthorization:
		return http.StatusForbidden
	case service.KindNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// handleServiceError 业务错误按分类映射状态码，其它错误记录日志后返回 500
func handleServiceError(c *gin.Context, op string, err error) {
	if e, ok := service.AsError(err); ok {
		status := statusForKind(e.Kind)
		response.FailWithReason(c, status, response.StatusType(status), string(e.Reason), e.Message)
		return
	}

	logger.Error(op+" failed", zap.Error(err))
	response.InternalError(c, "操作失败，请稍后重试")
}

func parseIDParam(c *gin.Context) (int64, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, service.ErrInvalidID
	}
	return id, nil
}

func parsePagination(c *gin.Context, defaultPageSize int) (int, int) {
	if defaultPageSize < 1 || defaultPageSize > 100 {
		defaultPageSize = 20
	}
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", strconv.Itoa(defaultPageSize)))
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = defaultPageSize
	}
	return page, pageSize
}
