// Package main はAPIサーバーのエントリーポイントです。
package main

import (
	"log"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"

	"github.com/yourusername/simple-auth/internal/auth"
	"github.com/yourusername/simple-auth/internal/config"
	"github.com/yourusername/simple-auth/internal/user"
)

func main() {
	// 設定の読み込み
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Ginのモードを設定
	gin.SetMode(cfg.GinMode)

	// Ginルーターの初期化（デフォルトミドルウェア: Logger, Recovery）
	router := gin.Default()

	// セッションストアの設定（クッキー署名鍵は必須）
	store := cookie.NewStore([]byte(cfg.SessionSecret))
	store.Options(sessions.Options{
		Path:     "/",
		HttpOnly: true,
		Secure:   cfg.GinMode == gin.ReleaseMode,
		SameSite: http.SameSiteStrictMode,
	})
	router.Use(sessions.Sessions(auth.SessionCookieName, store))

	// CORSミドルウェアの設定
	corsConfig := cors.DefaultConfig()
	// CORS許可オリジンを設定（カンマ区切りの文字列を配列に変換）
	origins := strings.Split(cfg.CORSAllowedOrigins, ",")
	corsConfig.AllowOrigins = origins
	corsConfig.AllowCredentials = true
	router.Use(cors.New(corsConfig))

	// ルーティングの設定
	setupRoutes(router, cfg)

	// サーバーの起動
	addr := ":" + cfg.Port
	log.Printf("Starting API server on %s (mode: %s)", addr, cfg.GinMode)
	if err := router.Run(addr); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

// handleHealth はヘルスチェックエンドポイントのハンドラーです。
func handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"service": "simple-auth-api",
		"version": "0.1.0",
	})
}

// setupRoutes は認証フローと静的ページの配線を行います。
func setupRoutes(router *gin.Engine, cfg *config.Config) {
	// まずは誰でも叩けるヘルスチェックを登録
	router.GET("/health", handleHealth)

	// ユーザーストアはプロセス起動時に一度だけ作り、ハンドラーへ引き渡す
	userStore := user.NewStore()
	authManager := auth.NewManager(userStore, cfg.BcryptCost)

	router.POST("/signup", authManager.SignUp)
	router.POST("/signin", authManager.SignIn)
	router.GET("/signout", authManager.RequireLogin(), authManager.SignOut)

	api := router.Group("/api")
	api.Use(authManager.RequireLogin())
	{
		api.GET("/user", authManager.CurrentUser)
	}

	// 静的ページ（トップは誰でも、ダッシュボードはログイン必須）
	router.StaticFile("/", filepath.Join(cfg.StaticDir, "index.html"))
	router.GET("/dashboard", authManager.RequireLogin(), func(c *gin.Context) {
		c.File(filepath.Join(cfg.StaticDir, "dashboard.html"))
	})
	router.Static("/public", cfg.StaticDir)
}
