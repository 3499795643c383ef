// Package auth は認証・認可機能を提供します。
package auth

import (
	"github.com/gin-contrib/sessions"
	"golang.org/x/crypto/bcrypt"

	"github.com/yourusername/simple-auth/internal/user"
)

const (
	// SessionCookieName はセッションCookieの名前です。
	SessionCookieName = "sa_session"

	sessionKeyUser = "auth_user"
)

// ContextUserKey は、ハンドラー間でログイン済みユーザー名を共有するためのキーです。
const ContextUserKey = "auth.user"

// Manager は認証処理をまとめた構造体です。
// ユーザーストアと bcrypt のコストファクターを保持します。
type Manager struct {
	store      *user.Store
	bcryptCost int
}

// NewManager は認証マネージャーを作成します。
func NewManager(store *user.Store, bcryptCost int) *Manager {
	return &Manager{
		store:      store,
		bcryptCost: bcryptCost,
	}
}

// IsAuthorized はセッションが認証済みユーザーを示しているかを返します。
// セッションのユーザーマーカーが空でない文字列であれば true です。
// 有効期限やストアへの再照会は行いません（副作用なしの述語）。
func IsAuthorized(session sessions.Session) bool {
	username, ok := session.Get(sessionKeyUser).(string)
	return ok && username != ""
}

// HashPassword は平文パスワードを設定済みコストファクターでハッシュ化します。
func (m *Manager) HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), m.bcryptCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// VerifyPassword は平文パスワードと保存済みハッシュを比較します。
func (m *Manager) VerifyPassword(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

func markSignedIn(session sessions.Session, username string) error {
	session.Set(sessionKeyUser, username)
	return session.Save()
}
