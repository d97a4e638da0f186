package repository

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/yuqie6/StudyPulse/internal/schema"
	"gorm.io/gorm"
)

// SampleRepository 能量样本仓储
type SampleRepository struct {
	db *gorm.DB
}

// NewSampleRepository 创建样本仓储
func NewSampleRepository(db *gorm.DB) *SampleRepository {
	return &SampleRepository{db: db}
}

// Create 创建单个样本
func (r *SampleRepository) Create(ctx context.Context, sample *schema.EnergySample) error {
	if err := r.db.WithContext(ctx).Create(sample).Error; err != nil {
		return fmt.Errorf("写入能量样本失败: %w", err)
	}
	return nil
}

// GetByTimeRange 按时间范围查询样本（升序）
func (r *SampleRepository) GetByTimeRange(ctx context.Context, startTime, endTime int64) ([]schema.EnergySample, error) {
	var samples []schema.EnergySample
	err := r.db.WithContext(ctx).
		Where("timestamp >= ? AND timestamp <= ?", startTime, endTime).
		Order("timestamp ASC").
		Find(&samples).Error

	if err != nil {
		return nil, fmt.Errorf("查询能量样本失败: %w", err)
	}

	return samples, nil
}

// GetWindow 查询最近 N 天的样本窗口（升序）
func (r *SampleRepository) GetWindow(ctx context.Context, days int) ([]schema.EnergySample, error) {
	now := time.Now()
	start := now.AddDate(0, 0, -days).UnixMilli()
	return r.GetByTimeRange(ctx, start, now.UnixMilli())
}

// GetRecent 查询最近 limit 条样本（按时间降序）
func (r *SampleRepository) GetRecent(ctx context.Context, limit int) ([]schema.EnergySample, error) {
	var samples []schema.EnergySample
	query := r.db.WithContext(ctx).Order("timestamp DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if err := query.Find(&samples).Error; err != nil {
		return nil, fmt.Errorf("查询能量样本失败: %w", err)
	}
	return samples, nil
}

// Count 统计样本总数
func (r *SampleRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&schema.EnergySample{}).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("统计能量样本失败: %w", err)
	}
	return count, nil
}

// DeleteOlderThan 删除早于保留窗口的样本，返回删除行数。
// 每次记录后都会调用（主动裁剪，不做惰性清理）。
func (r *SampleRepository) DeleteOlderThan(ctx context.Context, retainDays int) (int64, error) {
	cutoffTime := time.Now().AddDate(0, 0, -retainDays).UnixMilli()

	result := r.db.WithContext(ctx).
		Where("timestamp < ?", cutoffTime).
		Delete(&schema.EnergySample{})

	if result.Error != nil {
		return 0, fmt.Errorf("清理过期样本失败: %w", result.Error)
	}

	if result.RowsAffected > 0 {
		slog.Debug("清理过期样本", "count", result.RowsAffected, "retain_days", retainDays)
	}

	return result.RowsAffected, nil
}
