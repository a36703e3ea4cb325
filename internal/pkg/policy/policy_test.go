package policy

import (
	"Folio/internal/model"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestEvaluate(t *testing.T) {
	now := time.Now()
	user := &Session{UserID: 1, Role: model.RoleUser, ExpiresAt: now.Add(time.Hour)}
	admin := &Session{UserID: 2, Role: model.RoleAdmin, ExpiresAt: now.Add(time.Hour)}
	expired := &Session{UserID: 3, Role: model.RoleAdmin, ExpiresAt: now.Add(-time.Second)}

	tests := []struct {
		name    string
		session *Session
		class   Class
		want    Decision
	}{
		{"anonymous", nil, Authenticated, Deny{Status: http.StatusUnauthorized, Reason: "Authentication required"}},
		{"expired admin", expired, Admin, Deny{Status: http.StatusUnauthorized, Reason: "Authentication required"}},
		{"user on authenticated", user, Authenticated, Allow{}},
		{"user on admin", user, Admin, Deny{Status: http.StatusForbidden, Reason: "Admin access required"}},
		{"admin on admin", admin, Admin, Allow{}},
		{"unknown class", admin, Class(99), Deny{Status: http.StatusForbidden, Reason: "Access denied"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Evaluate(tt.session, tt.class, now))
		})
	}
}

func TestCanModify(t *testing.T) {
	owner := &Session{UserID: 1, Role: model.RoleUser}
	other := &Session{UserID: 2, Role: model.RoleUser}
	admin := &Session{UserID: 3, Role: model.RoleAdmin}

	assert.True(t, CanModify(owner, 1))
	assert.False(t, CanModify(other, 1))
	assert.True(t, CanModify(admin, 1))
	assert.False(t, CanModify(nil, 1))
}
