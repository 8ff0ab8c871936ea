package queue

import (
	"encoding/json"

	"github.com/Igor-creato/kash-back/internal/constants"

	"github.com/hibiken/asynq"
)

const (
	// TaskClickRecord 点击落库任务
	TaskClickRecord = constants.TaskClickRecord
)

// ClickRecordPayload 点击落库任务载荷
type ClickRecordPayload struct {
	UserID       uint   `json:"user_id"`
	SessionToken string `json:"session_token"`
	ExternalURL  string `json:"external_url"`
	InternalURL  string `json:"internal_url"`
	ProductID    uint   `json:"product_id"`
	ReferrerURL  string `json:"referrer_url"`
	UserAgent    string `json:"user_agent"`
	IPAddress    string `json:"ip_address"`
	PartnerID    string `json:"partner_id"`
	ClickedAt    int64  `json:"clicked_at"`
}

// NewClickRecordTask 创建点击落库任务
func NewClickRecordTask(payload ClickRecordPayload) (*asynq.Task, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskClickRecord, body), nil
}
