package middleware

import (
	"Folio/internal/pkg/consts"
	"Folio/internal/pkg/policy"
	"Folio/internal/pkg/response"
	"Folio/internal/service"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
)

const bearerPrefix = "Bearer "

// AuthMiddleware 校验 Bearer Token 并把会话放入 Context
func AuthMiddleware(userSvc service.UserService) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if !strings.HasPrefix(authHeader, bearerPrefix) {
			response.Fail(c, http.StatusUnauthorized, service.ErrUnauthenticated.Error())
			return
		}
		token := strings.TrimSpace(strings.TrimPrefix(authHeader, bearerPrefix))
		if token == "" {
			response.Fail(c, http.StatusUnauthorized, service.ErrUnauthenticated.Error())
			return
		}

		session, err := userSvc.Authenticate(c.Request.Context(), token)
		if err != nil {
			response.Error(c, err)
			return
		}

		c.Set(consts.SessionKey, session)
		c.Next()
	}
}

// Require 按路由级别放行或拒绝
func Require(class policy.Class) gin.HandlerFunc {
	return func(c *gin.Context) {
		switch d := policy.Evaluate(CurrentSession(c), class, time.Now()).(type) {
		case policy.Allow:
			c.Next()
		case policy.Deny:
			response.Fail(c, d.Status, d.Reason)
		}
	}
}

// CurrentSession 未经过 AuthMiddleware 时返回 nil
func CurrentSession(c *gin.Context) *policy.Session {
	v, ok := c.Get(consts.SessionKey)
	if !ok {
		return nil
	}
	session, _ := v.(*policy.Session)
	return session
}
