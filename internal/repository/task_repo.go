package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/yuqie6/StudyPulse/internal/schema"
	"gorm.io/gorm"
)

// TaskRepository 学习任务仓储
type TaskRepository struct {
	db *gorm.DB
}

// NewTaskRepository 创建任务仓储
func NewTaskRepository(db *gorm.DB) *TaskRepository {
	return &TaskRepository{db: db}
}

// Create 创建任务
func (r *TaskRepository) Create(ctx context.Context, task *schema.StudyTask) error {
	if err := r.db.WithContext(ctx).Create(task).Error; err != nil {
		return fmt.Errorf("创建任务失败: %w", err)
	}
	return nil
}

// GetByID 按 ID 查询任务
func (r *TaskRepository) GetByID(ctx context.Context, id int64) (*schema.StudyTask, error) {
	var task schema.StudyTask
	err := r.db.WithContext(ctx).First(&task, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("查询任务失败: %w", err)
	}
	return &task, nil
}

// GetOpen 查询所有未完成任务
func (r *TaskRepository) GetOpen(ctx context.Context) ([]schema.StudyTask, error) {
	var tasks []schema.StudyTask
	err := r.db.WithContext(ctx).
		Where("completed = ?", false).
		Order("created_at ASC").
		Find(&tasks).Error
	if err != nil {
		return nil, fmt.Errorf("查询未完成任务失败: %w", err)
	}
	return tasks, nil
}

// MarkCompleted 标记任务完成
func (r *TaskRepository) MarkCompleted(ctx context.Context, id int64) error {
	result := r.db.WithContext(ctx).
		Model(&schema.StudyTask{}).
		Where("id = ?", id).
		Update("completed", true)
	if result.Error != nil {
		return fmt.Errorf("更新任务失败: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("任务不存在: id=%d", id)
	}
	return nil
}
