package cache

import (
	"context"
	"strconv"
	"time"

	"github.com/Igor-creato/kash-back/internal/models"
)

// 用户鉴权快照：把账号状态与 token 版本缓存在 Redis，
// 避免每个携带 JWT 的请求都回表校验。快照过期后自动回源。

const authSnapshotTTL = 10 * time.Minute

// UserAuthState 用户鉴权快照
// TokenInvalidBefore 为 Unix 秒时间戳，0 表示未设置。
type UserAuthState struct {
	UserID             uint   `json:"user_id"`
	Status             string `json:"status"`
	TokenVersion       uint64 `json:"token_version"`
	TokenInvalidBefore int64  `json:"token_invalid_before"`
	UpdatedAt          int64  `json:"updated_at"`
}

// BuildUserAuthState 从用户模型构建鉴权快照
func BuildUserAuthState(user *models.User) *UserAuthState {
	if user == nil {
		return nil
	}
	state := &UserAuthState{
		UserID:       user.ID,
		Status:       user.Status,
		TokenVersion: user.TokenVersion,
		UpdatedAt:    time.Now().Unix(),
	}
	if user.TokenInvalidBefore != nil {
		state.TokenInvalidBefore = user.TokenInvalidBefore.Unix()
	}
	return state
}

// GetUserAuthState 读取用户鉴权快照，返回是否命中
func GetUserAuthState(ctx context.Context, userID uint) (*UserAuthState, bool, error) {
	if userID == 0 {
		return nil, false, nil
	}
	var state UserAuthState
	hit, err := GetJSON(ctx, authSnapshotKey(userID), &state)
	if err != nil || !hit {
		return nil, hit, err
	}
	return &state, true, nil
}

// SetUserAuthState 写入用户鉴权快照
func SetUserAuthState(ctx context.Context, state *UserAuthState) error {
	if state == nil || state.UserID == 0 {
		return nil
	}
	return SetJSON(ctx, authSnapshotKey(state.UserID), state, authSnapshotTTL)
}

// DelUserAuthState 删除用户鉴权快照（退出登录、禁用账号时调用）
func DelUserAuthState(ctx context.Context, userID uint) error {
	if userID == 0 {
		return nil
	}
	return Del(ctx, authSnapshotKey(userID))
}

func authSnapshotKey(userID uint) string {
	return "auth:user:" + strconv.FormatUint(uint64(userID), 10)
}
