package auth

import (
	"net/http"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
)

// RequireLogin はセッションを検証するミドルウェアを返します。
// 未認証の場合はトップページへリダイレクトします。
func (m *Manager) RequireLogin() gin.HandlerFunc {
	return func(c *gin.Context) {
		session := sessions.Default(c)
		if !IsAuthorized(session) {
			c.Redirect(http.StatusFound, "/")
			c.Abort()
			return
		}

		username, _ := session.Get(sessionKeyUser).(string)
		c.Set(ContextUserKey, username)
		c.Next()
	}
}
