package worker

import (
	"context"
	"encoding/json"

	"github.com/Igor-creato/kash-back/internal/logger"
	"github.com/Igor-creato/kash-back/internal/provider"
	"github.com/Igor-creato/kash-back/internal/queue"
	"github.com/Igor-creato/kash-back/internal/service"

	"github.com/hibiken/asynq"
)

// Consumer 异步任务消费者
type Consumer struct {
	*provider.Container
}

// NewConsumer 创建消费者
func NewConsumer(c *provider.Container) *Consumer {
	return &Consumer{
		Container: c,
	}
}

// Register 注册消费者
func (c *Consumer) Register(mux *asynq.ServeMux) {
	if c == nil || mux == nil {
		logger.Debugw("worker_register_skip_nil", "consumer_nil", c == nil, "mux_nil", mux == nil)
		return
	}
	mux.HandleFunc(queue.TaskClickRecord, c.handleClickRecord)
}

func (c *Consumer) handleClickRecord(_ context.Context, task *asynq.Task) error {
	if c == nil || task == nil {
		logger.Debugw("worker_click_record_skip_nil", "consumer_nil", c == nil, "task_nil", task == nil)
		return nil
	}
	var payload queue.ClickRecordPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		logger.Warnw("worker_click_record_unmarshal_failed", "error", err)
		return err
	}
	if payload.ExternalURL == "" {
		logger.Debugw("worker_click_record_skip_empty_destination")
		return nil
	}
	if c.ClickRepo == nil {
		logger.Warnw("worker_click_record_skip_repo_nil")
		return nil
	}

	record := service.BuildClickRecord(payload)
	if err := c.ClickRepo.Create(record); err != nil {
		logger.Warnw("worker_click_record_insert_failed",
			"user_id", payload.UserID,
			"product_id", payload.ProductID,
			"error", err,
		)
		return err
	}
	logger.Debugw("worker_click_record_inserted",
		"click_id", record.ID,
		"user_id", record.UserID,
		"partner_id", record.PartnerID,
	)
	return nil
}
