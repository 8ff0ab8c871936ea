package public

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/Igor-creato/kash-back/internal/constants"
	"github.com/Igor-creato/kash-back/internal/http/response"
	"github.com/Igor-creato/kash-back/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// Home 首页入口
// 携带跟踪参数时记录点击并 302 跳转到目标链接，否则返回站点信息。
func (h *Handler) Home(c *gin.Context) {
	if c.Query(constants.TrackingParamMarker) == "" {
		h.renderHome(c)
		return
	}

	destination, err := service.ValidateDestination(c.Query(constants.TrackingParamExternalURL))
	if err != nil {
		// 目标链接缺失或不合法时静默放弃本次跟踪
		h.renderHome(c)
		return
	}

	userID, resolved := resolveVisitorID(c)
	sessionToken := h.ensureSessionCookie(c)

	productID := uint(0)
	if raw := strings.TrimSpace(c.Query(constants.TrackingParamProductID)); raw != "" {
		if parsed, perr := strconv.ParseUint(raw, 10, 64); perr == nil {
			productID = uint(parsed)
		}
	}

	h.TrackerService.RecordClick(service.RecordClickInput{
		UserID:       userID,
		SessionToken: sessionToken,
		ExternalURL:  destination,
		InternalURL:  c.Query(constants.TrackingParamInternalURL),
		ProductID:    productID,
		ReferrerURL:  c.GetHeader("Referer"),
		UserAgent:    c.GetHeader("User-Agent"),
		IPAddress:    service.ResolveClientIP(c.Request.Header, c.Request.RemoteAddr),
	})

	if resolved {
		destination = service.AppendUserID(destination, userID)
	}
	c.Redirect(http.StatusFound, destination)
}

// resolveVisitorID 解析访客标识：显式 user_id 参数优先，其次取已登录用户。
func resolveVisitorID(c *gin.Context) (uint, bool) {
	if raw := strings.TrimSpace(c.Query(constants.TrackingParamUserID)); raw != "" {
		if parsed, err := strconv.ParseUint(raw, 10, 64); err == nil && parsed > 0 {
			return uint(parsed), true
		}
	}
	return getOptionalUserID(c)
}

func (h *Handler) renderHome(c *gin.Context) {
	response.Success(c, gin.H{
		"service": "kash-back",
		"status":  "ok",
	})
}

// ensureSessionCookie 读取访客会话 cookie，不存在时生成并写回。
func (h *Handler) ensureSessionCookie(c *gin.Context) string {
	if token, err := c.Cookie(constants.SessionCookieName); err == nil {
		token = strings.TrimSpace(token)
		if token != "" && len(token) <= constants.SessionTokenMaxLength {
			return token
		}
	}
	token := uuid.NewString()
	c.SetCookie(constants.SessionCookieName, token, constants.SessionCookieMaxAge, "/", "", false, true)
	return token
}
