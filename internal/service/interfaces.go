package service

import (
	"context"

	"github.com/yuqie6/StudyPulse/internal/ai"
	"github.com/yuqie6/StudyPulse/internal/schema"
)

// 仓储/外部依赖的最小接口集合（ISP）

type SampleRepository interface {
	Create(ctx context.Context, sample *schema.EnergySample) error
	GetByTimeRange(ctx context.Context, startTime, endTime int64) ([]schema.EnergySample, error)
	GetWindow(ctx context.Context, days int) ([]schema.EnergySample, error)
	GetRecent(ctx context.Context, limit int) ([]schema.EnergySample, error)
	Count(ctx context.Context) (int64, error)
	DeleteOlderThan(ctx context.Context, retainDays int) (int64, error)
}

type TaskRepository interface {
	Create(ctx context.Context, task *schema.StudyTask) error
	GetByID(ctx context.Context, id int64) (*schema.StudyTask, error)
	GetOpen(ctx context.Context) ([]schema.StudyTask, error)
	MarkCompleted(ctx context.Context, id int64) error
}

type FeedbackRepository interface {
	Create(ctx context.Context, fb *schema.SessionFeedback) error
	GetRecent(ctx context.Context, limit int) ([]schema.SessionFeedback, error)
	GetByTimeRange(ctx context.Context, startTime, endTime int64) ([]schema.SessionFeedback, error)
}

type SuggestionRepository interface {
	Upsert(ctx context.Context, rec *schema.SuggestionRecord) error
	GetByID(ctx context.Context, id string) (*schema.SuggestionRecord, error)
	GetPending(ctx context.Context, limit int) ([]schema.SuggestionRecord, error)
	UpdateStatus(ctx context.Context, id string, status schema.SuggestionStatus) error
	DeleteExpired(ctx context.Context) (int64, error)
}

// InsightGenerator 可选的 AI 洞察生成（未配置时为 nil）
type InsightGenerator interface {
	GenerateInsight(ctx context.Context, req *ai.InsightRequest) (string, error)
}

// Embedder 可选的文本向量化能力（供洞察记忆使用）
type Embedder interface {
	IsConfigured() bool
	Embed(ctx context.Context, texts []string) ([][]float32, error)
}
