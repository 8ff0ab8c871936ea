package router

import (
	"fmt"
	"strings"

	"github.com/Igor-creato/kash-back/internal/cache"
	"github.com/Igor-creato/kash-back/internal/config"
	"github.com/Igor-creato/kash-back/internal/constants"
	publichandlers "github.com/Igor-creato/kash-back/internal/http/handlers/public"
	"github.com/Igor-creato/kash-back/internal/logger"
	"github.com/Igor-creato/kash-back/internal/provider"

	"github.com/gin-gonic/gin"
)

// SetupRouter 初始化路由
func SetupRouter(cfg *config.Config, c *provider.Container) *gin.Engine {
	log := logger.L
	if log == nil {
		log = logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	}
	r := gin.New()

	publicHandler := publichandlers.New(c)
	redisPrefix := strings.TrimSpace(cfg.Redis.Prefix)
	if redisPrefix == "" {
		redisPrefix = constants.RedisPrefixDefault
	}
	redisClient := cache.Client()
	loginRule := RateLimitRule{
		Prefix:        fmt.Sprintf("%s:rate:login", redisPrefix),
		WindowSeconds: cfg.Security.LoginRateLimit.WindowSeconds,
		MaxRequests:   cfg.Security.LoginRateLimit.MaxAttempts,
		Message:       "登录尝试过于频繁，请稍后再试",
	}
	historyRule := RateLimitRule{
		Prefix:        fmt.Sprintf("%s:rate:history", redisPrefix),
		WindowSeconds: cfg.Security.HistoryRateLimit.WindowSeconds,
		MaxRequests:   cfg.Security.HistoryRateLimit.MaxAttempts,
		Message:       "请求过于频繁，请稍后再试",
	}

	// 中间件
	r.Use(gin.Recovery())
	r.Use(RequestIDMiddleware())
	r.Use(LoggerMiddleware(log))
	r.Use(CORSMiddleware(cfg.CORS))

	optionalAuth := OptionalUserAuthMiddleware(cfg.UserJWT.SecretKey, c.UserRepo)
	requireAuth := UserJWTAuthMiddleware(cfg.UserJWT.SecretKey, c.UserRepo)

	// 跟踪跳转入口（携带跟踪参数时记录并 302）
	r.GET("/", optionalAuth, publicHandler.Home)

	// 账号页面（浏览器侧，cookie 鉴权）
	account := r.Group("/account")
	{
		account.GET("/clicks", optionalAuth, publicHandler.ClickHistoryPage)
		account.POST("/clicks/page",
			RateLimitMiddleware(redisClient, historyRule, KeyByIP),
			requireAuth,
			publicHandler.ClickHistoryPartial,
		)
	}

	// API 路由组
	apiV1 := r.Group("/api/v1")
	{
		// 公开接口
		public := apiV1.Group("/public")
		{
			public.GET("/products", publicHandler.GetProducts)
			public.GET("/products/:slug", publicHandler.GetProductBySlug)
			public.GET("/captcha/image", publicHandler.GetImageCaptcha)
		}

		// 用户认证接口
		auth := apiV1.Group("/auth")
		{
			auth.POST("/register", publicHandler.UserRegister)
			auth.POST("/login", RateLimitMiddleware(redisClient, loginRule, KeyByIPAndJSONField("email")), publicHandler.UserLogin)
			auth.POST("/logout", optionalAuth, publicHandler.UserLogout)
		}

		// 用户接口（需鉴权）
		user := apiV1.Group("")
		user.Use(requireAuth)
		{
			user.GET("/me", publicHandler.GetCurrentUser)
		}
	}

	// 健康检查
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	return r
}
