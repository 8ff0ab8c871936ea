package public

import (
	"errors"

	handlershared "github.com/Igor-creato/kash-back/internal/http/handlers/shared"
	"github.com/Igor-creato/kash-back/internal/http/response"
	"github.com/Igor-creato/kash-back/internal/service"

	"github.com/gin-gonic/gin"
)

func respondError(c *gin.Context, code int, msg string, err error) {
	handlershared.RespondError(c, code, msg, err)
}

func normalizePagination(page, pageSize int) (int, int) {
	return handlershared.NormalizePagination(page, pageSize)
}

// mappedHandlerError 定义业务错误到接口错误响应的映射关系。
type mappedHandlerError struct {
	target error
	code   int
	msg    string
}

func respondWithMappedError(c *gin.Context, err error, rules []mappedHandlerError, fallbackCode int, fallbackMsg string) {
	for _, rule := range rules {
		if errors.Is(err, rule.target) {
			respondError(c, rule.code, rule.msg, nil)
			return
		}
	}
	respondError(c, fallbackCode, fallbackMsg, err)
}

var userAuthErrorRules = []mappedHandlerError{
	{target: service.ErrInvalidEmail, code: response.CodeBadRequest, msg: "邮箱格式不正确"},
	{target: service.ErrEmailExists, code: response.CodeBadRequest, msg: "邮箱已被注册"},
	{target: service.ErrWeakPassword, code: response.CodeBadRequest, msg: "密码强度不足"},
	{target: service.ErrInvalidCredentials, code: response.CodeUnauthorized, msg: "邮箱或密码错误"},
	{target: service.ErrUserDisabled, code: response.CodeUnauthorized, msg: "账号已被禁用"},
}

func respondUserAuthError(c *gin.Context, err error, fallbackMsg string) {
	if errors.Is(err, service.ErrWeakPassword) {
		// 密码策略错误携带具体原因，直接透出
		respondError(c, response.CodeBadRequest, err.Error(), nil)
		return
	}
	respondWithMappedError(c, err, userAuthErrorRules, response.CodeInternal, fallbackMsg)
}

func respondCaptchaError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrCaptchaRequired):
		respondError(c, response.CodeBadRequest, "需要验证码", nil)
	case errors.Is(err, service.ErrCaptchaInvalid):
		respondError(c, response.CodeBadRequest, "验证码错误", nil)
	case errors.Is(err, service.ErrCaptchaConfigInvalid):
		respondError(c, response.CodeInternal, "验证码配置无效", err)
	default:
		respondError(c, response.CodeInternal, "验证码校验失败", err)
	}
}
