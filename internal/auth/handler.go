package auth

import (
	"errors"
	"net/http"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"

	"github.com/yourusername/simple-auth/internal/user"
)

const (
	msgUsernameTaken      = "Username already taken."
	msgInvalidCredentials = "Incorrect login credentials."
)

type signUpRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
	Email    string `json:"email"`
	Mobile   string `json:"mobile"`
}

type signInRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// SignUp は POST /signup のハンドラーです。
// パスワードをハッシュ化してユーザーを作成し、セッションを認証済みにします。
func (m *Manager) SignUp(c *gin.Context) {
	var req signUpRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Username and password must be strings.",
		})
		return
	}

	existing, err := m.store.FindOne(c.Request.Context(), user.Criteria{Username: req.Username})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to look up user."})
		return
	}
	if existing != nil {
		c.JSON(http.StatusConflict, gin.H{"error": msgUsernameTaken})
		return
	}

	hash, err := m.HashPassword(req.Password)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create user."})
		return
	}

	// ストアには平文ではなくハッシュのみを渡す
	_, err = m.store.Create(c.Request.Context(), user.Record{
		Username:     req.Username,
		PasswordHash: hash,
		Email:        req.Email,
		Mobile:       req.Mobile,
	})
	if err != nil {
		switch {
		case errors.Is(err, user.ErrUsernameTaken):
			// 事前チェックとの競合はここで拾う
			c.JSON(http.StatusConflict, gin.H{"error": msgUsernameTaken})
		case errors.Is(err, user.ErrInvalidInput):
			c.JSON(http.StatusBadRequest, gin.H{"error": "Username and password must be strings."})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create user."})
		}
		return
	}

	if err := markSignedIn(sessions.Default(c), req.Username); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save session."})
		return
	}

	c.Redirect(http.StatusFound, "/dashboard")
}

// SignIn は POST /signin のハンドラーです。
// ユーザー不在とパスワード不一致は同一のレスポンスを返します。
func (m *Manager) SignIn(c *gin.Context) {
	var req signInRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Username and password must be strings.",
		})
		return
	}

	found, err := m.store.FindOne(c.Request.Context(), user.Criteria{Username: req.Username})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to look up user."})
		return
	}
	if found == nil || !m.VerifyPassword(found.PasswordHash, req.Password) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": msgInvalidCredentials})
		return
	}

	if err := markSignedIn(sessions.Default(c), found.Username); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save session."})
		return
	}

	c.Redirect(http.StatusFound, "/dashboard")
}

// SignOut は GET /signout のハンドラーです。
// セッション破棄に失敗した場合はリダイレクトしません。
func (m *Manager) SignOut(c *gin.Context) {
	session := sessions.Default(c)
	session.Clear()
	if err := session.Save(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to destroy session."})
		return
	}
	c.Redirect(http.StatusFound, "/")
}

// CurrentUser は GET /api/user のハンドラーです。
// セッションのユーザー名でストアを引き、公開フィールドのみ返します。
func (m *Manager) CurrentUser(c *gin.Context) {
	username := c.GetString(ContextUserKey)

	found, err := m.store.FindOne(c.Request.Context(), user.Criteria{Username: username})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to look up user."})
		return
	}
	if found == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found."})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"username": found.Username,
		"email":    found.Email,
		"mobile":   found.Mobile,
	})
}
