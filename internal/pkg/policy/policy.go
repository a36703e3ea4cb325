// Package policy 集中处理路由级别的访问控制决策
package policy

import (
	"Folio/internal/model"
	"net/http"
	"time"
)

// Session 经过认证的请求主体，在其过期前有效
type Session struct {
	UserID    uint64
	Username  string
	Role      model.Role
	ExpiresAt time.Time
	Signature string
}

func (s *Session) IsAdmin() bool {
	return s != nil && s.Role == model.RoleAdmin
}

// Expired 判断会话在 now 时刻是否已过期
func (s *Session) Expired(now time.Time) bool {
	return s == nil || !now.Before(s.ExpiresAt)
}

// Class 路由的访问级别
type Class int

const (
	Authenticated Class = iota + 1
	Admin
)

func (c Class) String() string {
	switch c {
	case Authenticated:
		return "authenticated"
	case Admin:
		return "admin"
	default:
		return "unknown"
	}
}

// Decision 只有 Allow 与 Deny 两种取值
type Decision interface {
	isDecision()
}

type Allow struct{}

type Deny struct {
	Status int
	Reason string
}

func (Allow) isDecision() {}
func (Deny) isDecision()  {}

// Evaluate 根据会话与路由级别给出访问决策
func Evaluate(s *Session, class Class, now time.Time) Decision {
	if s == nil || s.Expired(now) {
		return Deny{Status: http.StatusUnauthorized, Reason: "Authentication required"}
	}
	switch class {
	case Authenticated:
		return Allow{}
	case Admin:
		if s.IsAdmin() {
			return Allow{}
		}
		return Deny{Status: http.StatusForbidden, Reason: "Admin access required"}
	default:
		return Deny{Status: http.StatusForbidden, Reason: "Access denied"}
	}
}

// CanModify 资源所有者或管理员可以修改
func CanModify(s *Session, ownerID uint64) bool {
	if s == nil {
		return false
	}
	return s.UserID == ownerID || s.IsAdmin()
}
