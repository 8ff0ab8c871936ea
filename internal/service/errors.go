package service

import "errors"

// 业务错误定义
var (
	ErrNotFound           = errors.New("记录不存在")
	ErrInvalidEmail       = errors.New("邮箱格式不正确")
	ErrEmailExists        = errors.New("邮箱已被注册")
	ErrInvalidCredentials = errors.New("邮箱或密码错误")
	ErrUserDisabled       = errors.New("账号已被禁用")
	ErrWeakPassword       = errors.New("密码强度不足")

	ErrCaptchaRequired      = errors.New("需要验证码")
	ErrCaptchaInvalid       = errors.New("验证码错误")
	ErrCaptchaConfigInvalid = errors.New("验证码配置无效")
	ErrCaptchaVerifyFailed  = errors.New("验证码校验失败")

	ErrInvalidDestination = errors.New("目标链接无效")
	ErrProductNotFound    = errors.New("商品不存在")
	ErrClickNotFound      = errors.New("点击记录不存在")
	ErrClickConfirmed     = errors.New("点击记录已确认")

	ErrCSRFTokenMismatch = errors.New("安全令牌不匹配")
	ErrUnauthorized      = errors.New("未登录")
)
