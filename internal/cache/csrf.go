package cache

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// CSRF 令牌存储
// Redis 可用时令牌落在 Redis（多实例共享），否则退化为进程内存储。
// 每个会话只保留一个有效令牌，整页渲染时轮换。

type memoryCSRFEntry struct {
	token     string
	expiresAt time.Time
}

var (
	memoryCSRFMu    sync.Mutex
	memoryCSRFStore = map[string]memoryCSRFEntry{}
)

func csrfKey(sessionKey string) string {
	return fmt.Sprintf("csrf:%s", sessionKey)
}

// SetCSRFToken 写入会话 CSRF 令牌（覆盖旧令牌）
func SetCSRFToken(ctx context.Context, sessionKey, token string, ttl time.Duration) error {
	if sessionKey == "" || token == "" {
		return nil
	}
	if Enabled() {
		return SetJSON(ctx, csrfKey(sessionKey), token, ttl)
	}
	memoryCSRFMu.Lock()
	defer memoryCSRFMu.Unlock()
	memoryCSRFStore[sessionKey] = memoryCSRFEntry{
		token:     token,
		expiresAt: time.Now().Add(ttl),
	}
	return nil
}

// GetCSRFToken 读取会话 CSRF 令牌
func GetCSRFToken(ctx context.Context, sessionKey string) (string, bool, error) {
	if sessionKey == "" {
		return "", false, nil
	}
	if Enabled() {
		var token string
		hit, err := GetJSON(ctx, csrfKey(sessionKey), &token)
		if err != nil || !hit {
			return "", hit, err
		}
		return token, true, nil
	}
	memoryCSRFMu.Lock()
	defer memoryCSRFMu.Unlock()
	entry, ok := memoryCSRFStore[sessionKey]
	if !ok {
		return "", false, nil
	}
	if time.Now().After(entry.expiresAt) {
		delete(memoryCSRFStore, sessionKey)
		return "", false, nil
	}
	return entry.token, true, nil
}

// DelCSRFToken 删除会话 CSRF 令牌
func DelCSRFToken(ctx context.Context, sessionKey string) error {
	if sessionKey == "" {
		return nil
	}
	if Enabled() {
		return Del(ctx, csrfKey(sessionKey))
	}
	memoryCSRFMu.Lock()
	defer memoryCSRFMu.Unlock()
	delete(memoryCSRFStore, sessionKey)
	return nil
}

// PurgeExpiredCSRFTokens 清理进程内过期令牌（Redis 模式下由 TTL 自然过期）
func PurgeExpiredCSRFTokens(now time.Time) int {
	memoryCSRFMu.Lock()
	defer memoryCSRFMu.Unlock()
	removed := 0
	for key, entry := range memoryCSRFStore {
		if now.After(entry.expiresAt) {
			delete(memoryCSRFStore, key)
			removed++
		}
	}
	return removed
}
