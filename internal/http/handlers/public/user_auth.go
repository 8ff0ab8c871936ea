package public

import (
	"time"

	"github.com/Igor-creato/kash-back/internal/cache"
	"github.com/Igor-creato/kash-back/internal/constants"
	"github.com/Igor-creato/kash-back/internal/http/response"
	"github.com/Igor-creato/kash-back/internal/models"
	"github.com/Igor-creato/kash-back/internal/service"

	"github.com/gin-gonic/gin"
)

// CaptchaPayloadRequest 验证码载荷
type CaptchaPayloadRequest struct {
	CaptchaID      string `json:"captcha_id"`
	CaptchaCode    string `json:"captcha_code"`
	TurnstileToken string `json:"turnstile_token"`
}

func (r CaptchaPayloadRequest) toServicePayload() service.CaptchaVerifyPayload {
	return service.CaptchaVerifyPayload{
		CaptchaID:      r.CaptchaID,
		CaptchaCode:    r.CaptchaCode,
		TurnstileToken: r.TurnstileToken,
	}
}

// UserRegisterRequest 注册请求
type UserRegisterRequest struct {
	Email          string                `json:"email" binding:"required"`
	Password       string                `json:"password" binding:"required"`
	CaptchaPayload CaptchaPayloadRequest `json:"captcha_payload"`
}

// UserRegister 用户注册
func (h *Handler) UserRegister(c *gin.Context) {
	var req UserRegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "请求参数错误", err)
		return
	}

	if h.CaptchaService != nil {
		if captchaErr := h.CaptchaService.Verify(constants.CaptchaSceneRegister, req.CaptchaPayload.toServicePayload(), c.ClientIP()); captchaErr != nil {
			respondCaptchaError(c, captchaErr)
			return
		}
	}

	user, token, expiresAt, err := h.UserAuthService.Register(req.Email, req.Password)
	if err != nil {
		respondUserAuthError(c, err, "注册失败")
		return
	}

	h.setAuthCookie(c, token, expiresAt)
	response.Success(c, authSessionResponse(user, token, expiresAt))
}

// UserLoginRequest 登录请求
type UserLoginRequest struct {
	Email          string                `json:"email" binding:"required"`
	Password       string                `json:"password" binding:"required"`
	CaptchaPayload CaptchaPayloadRequest `json:"captcha_payload"`
}

// UserLogin 用户登录
func (h *Handler) UserLogin(c *gin.Context) {
	var req UserLoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "请求参数错误", err)
		return
	}

	if h.CaptchaService != nil {
		if captchaErr := h.CaptchaService.Verify(constants.CaptchaSceneLogin, req.CaptchaPayload.toServicePayload(), c.ClientIP()); captchaErr != nil {
			respondCaptchaError(c, captchaErr)
			return
		}
	}

	user, token, expiresAt, err := h.UserAuthService.Login(req.Email, req.Password)
	if err != nil {
		respondUserAuthError(c, err, "登录失败")
		return
	}

	h.setAuthCookie(c, token, expiresAt)
	response.Success(c, authSessionResponse(user, token, expiresAt))
}

// GetCurrentUser 获取当前用户信息
func (h *Handler) GetCurrentUser(c *gin.Context) {
	id, ok := getUserID(c)
	if !ok {
		return
	}

	user, err := h.UserRepo.GetByID(id)
	if err != nil {
		respondError(c, response.CodeInternal, "用户信息获取失败", err)
		return
	}
	if user == nil {
		respondError(c, response.CodeNotFound, "用户不存在", nil)
		return
	}

	response.Success(c, gin.H{
		"id":            user.ID,
		"email":         user.Email,
		"nickname":      user.DisplayName,
		"last_login_at": user.LastLoginAt,
	})
}

// UserLogout 退出登录（清理浏览器侧凭据与服务端鉴权快照）
func (h *Handler) UserLogout(c *gin.Context) {
	if userID, signedIn := getOptionalUserID(c); signedIn {
		_ = cache.DelUserAuthState(c.Request.Context(), userID)
	}
	c.SetCookie(constants.AuthCookieName, "", -1, "/", "", false, true)
	response.Success(c, gin.H{"logout": true})
}

// setAuthCookie 写入浏览器侧登录凭据，供页面路由免 Header 认证。
func (h *Handler) setAuthCookie(c *gin.Context, token string, expiresAt time.Time) {
	maxAge := int(time.Until(expiresAt).Seconds())
	if maxAge <= 0 {
		return
	}
	c.SetCookie(constants.AuthCookieName, token, maxAge, "/", "", false, true)
}

func authSessionResponse(user *models.User, token string, expiresAt time.Time) gin.H {
	return gin.H{
		"user": gin.H{
			"id":       user.ID,
			"email":    user.Email,
			"nickname": user.DisplayName,
		},
		"token":      token,
		"expires_at": expiresAt.Format(time.RFC3339),
	}
}
