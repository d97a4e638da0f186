package repository

import (
	"context"
	"fmt"

	"github.com/yuqie6/StudyPulse/internal/schema"
	"gorm.io/gorm"
)

// FeedbackRepository 会话反馈仓储
type FeedbackRepository struct {
	db *gorm.DB
}

// NewFeedbackRepository 创建反馈仓储
func NewFeedbackRepository(db *gorm.DB) *FeedbackRepository {
	return &FeedbackRepository{db: db}
}

// Create 创建反馈
func (r *FeedbackRepository) Create(ctx context.Context, fb *schema.SessionFeedback) error {
	if err := r.db.WithContext(ctx).Create(fb).Error; err != nil {
		return fmt.Errorf("写入会话反馈失败: %w", err)
	}
	return nil
}

// GetRecent 查询最近 limit 条反馈（按时间降序）
func (r *FeedbackRepository) GetRecent(ctx context.Context, limit int) ([]schema.SessionFeedback, error) {
	var out []schema.SessionFeedback
	query := r.db.WithContext(ctx).Order("timestamp DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if err := query.Find(&out).Error; err != nil {
		return nil, fmt.Errorf("查询会话反馈失败: %w", err)
	}
	return out, nil
}

// GetByTimeRange 按时间范围查询反馈（升序）
func (r *FeedbackRepository) GetByTimeRange(ctx context.Context, startTime, endTime int64) ([]schema.SessionFeedback, error) {
	var out []schema.SessionFeedback
	err := r.db.WithContext(ctx).
		Where("timestamp >= ? AND timestamp <= ?", startTime, endTime).
		Order("timestamp ASC").
		Find(&out).Error
	if err != nil {
		return nil, fmt.Errorf("查询会话反馈失败: %w", err)
	}
	return out, nil
}
