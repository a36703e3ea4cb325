package handler

import (
	"Folio/internal/api/middleware"
	"Folio/internal/pkg/policy"
	"Folio/internal/pkg/response"
	"Folio/internal/service"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

// pathID 解析路径中的数字 ID，失败时已写入 400 响应
func pathID(c *gin.Context, name string) (uint64, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		response.Fail(c, http.StatusBadRequest, "Invalid "+name)
		return 0, false
	}
	return id, true
}

// session 路由已挂载鉴权中间件，缺失说明路由配置有误
func session(c *gin.Context) (*policy.Session, bool) {
	s := middleware.CurrentSession(c)
	if s == nil {
		response.Error(c, service.ErrUnauthenticated)
		return nil, false
	}
	return s, true
}
