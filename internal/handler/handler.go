package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"humansonly/internal/middleware"
	"humansonly/internal/pkg"
)

// errStatus 错误分类到HTTP状态码的统一映射
func errStatus(err error) int {
	switch {
	case errors.Is(err, pkg.ErrUnauthenticated):
		return http.StatusUnauthorized
	case errors.Is(err, pkg.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, pkg.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, pkg.ErrAlreadyBanned), errors.Is(err, pkg.ErrConflict):
		return http.StatusConflict
	default:
		return http.StatusBadRequest
	}
}

func fail(c *gin.Context, err error) {
	c.JSON(errStatus(err), gin.H{"msg": err.Error()})
}

// currentUserID 中间件没注入时返回0，调用方按未认证处理
func currentUserID(c *gin.Context) uint64 {
	v, ok := c.Get(middleware.ContextUserIDKey)
	if !ok {
		return 0
	}
	id, _ := v.(uint64)
	return id
}
