package repository

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/yuqie6/StudyPulse/internal/schema"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// SuggestionRepository 建议记录仓储
type SuggestionRepository struct {
	db *gorm.DB
}

// NewSuggestionRepository 创建建议仓储
func NewSuggestionRepository(db *gorm.DB) *SuggestionRepository {
	return &SuggestionRepository{db: db}
}

// Upsert 写入或更新建议记录（同一 ID 的建议在周期内重复生成时只保留一条）
func (r *SuggestionRepository) Upsert(ctx context.Context, rec *schema.SuggestionRecord) error {
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			DoUpdates: clause.AssignmentColumns([]string{"priority", "title", "description", "expires_at", "updated_at"}),
		}).
		Create(rec).Error
	if err != nil {
		return fmt.Errorf("写入建议记录失败: %w", err)
	}
	return nil
}

// GetByID 按 ID 查询建议
func (r *SuggestionRepository) GetByID(ctx context.Context, id string) (*schema.SuggestionRecord, error) {
	var rec schema.SuggestionRecord
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&rec).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("查询建议记录失败: %w", err)
	}
	return &rec, nil
}

// GetPending 查询待处理的建议（按创建时间降序）
func (r *SuggestionRepository) GetPending(ctx context.Context, limit int) ([]schema.SuggestionRecord, error) {
	var out []schema.SuggestionRecord
	query := r.db.WithContext(ctx).
		Where("status = ?", schema.SuggestionPending).
		Order("created_at DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if err := query.Find(&out).Error; err != nil {
		return nil, fmt.Errorf("查询待处理建议失败: %w", err)
	}
	return out, nil
}

// UpdateStatus 更新建议状态（accept / dismiss 动作的落点）
func (r *SuggestionRepository) UpdateStatus(ctx context.Context, id string, status schema.SuggestionStatus) error {
	result := r.db.WithContext(ctx).
		Model(&schema.SuggestionRecord{}).
		Where("id = ?", id).
		Update("status", status)
	if result.Error != nil {
		return fmt.Errorf("更新建议状态失败: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("建议不存在: id=%s", id)
	}
	return nil
}

// DeleteExpired 删除已过期且仍未处理的建议，返回删除行数
func (r *SuggestionRepository) DeleteExpired(ctx context.Context) (int64, error) {
	now := time.Now().UnixMilli()

	result := r.db.WithContext(ctx).
		Where("expires_at > 0 AND expires_at < ? AND status = ?", now, schema.SuggestionPending).
		Delete(&schema.SuggestionRecord{})

	if result.Error != nil {
		return 0, fmt.Errorf("清理过期建议失败: %w", result.Error)
	}

	if result.RowsAffected > 0 {
		slog.Debug("清理过期建议", "count", result.RowsAffected)
	}

	return result.RowsAffected, nil
}
