package public

import (
	handlershared "github.com/Igor-creato/kash-back/internal/http/handlers/shared"

	"github.com/gin-gonic/gin"
)

func getUserID(c *gin.Context) (uint, bool) {
	return handlershared.GetContextUintWithKeys(c, "user_id", "用户标识无效", "用户标识类型无效")
}

// getOptionalUserID 读取可选登录态，未登录时不触发错误响应。
func getOptionalUserID(c *gin.Context) (uint, bool) {
	return handlershared.GetContextUint(c, "user_id")
}
