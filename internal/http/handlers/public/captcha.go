package public

import (
	"errors"

	"github.com/Igor-creato/kash-back/internal/http/response"
	"github.com/Igor-creato/kash-back/internal/service"

	"github.com/gin-gonic/gin"
)

// GetImageCaptcha 获取图片验证码挑战
// 仅在验证码提供方配置为 image 时可用。
func (h *Handler) GetImageCaptcha(c *gin.Context) {
	if h.CaptchaService == nil {
		respondError(c, response.CodeInternal, "验证码服务不可用", service.ErrCaptchaConfigInvalid)
		return
	}

	challenge, err := h.CaptchaService.GenerateImageChallenge()
	if errors.Is(err, service.ErrCaptchaConfigInvalid) {
		respondError(c, response.CodeBadRequest, "验证码服务不可用", nil)
		return
	}
	if err != nil {
		respondError(c, response.CodeInternal, "验证码生成失败", err)
		return
	}

	response.Success(c, gin.H{
		"captcha_id":   challenge.CaptchaID,
		"image_base64": challenge.ImageBase64,
	})
}
