package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/yuqie6/StudyPulse/internal/envcontext"
	"github.com/yuqie6/StudyPulse/internal/eventbus"
	"github.com/yuqie6/StudyPulse/internal/schema"
)

// SampleService 能量记录服务 - 负责样本落库与 30 天窗口裁剪
type SampleService struct {
	sampleRepo SampleRepository
	env        envcontext.Provider
	hub        *eventbus.Hub
}

// NewSampleService 创建记录服务
func NewSampleService(sampleRepo SampleRepository, env envcontext.Provider, hub *eventbus.Hub) *SampleService {
	return &SampleService{
		sampleRepo: sampleRepo,
		env:        env,
		hub:        hub,
	}
}

// Record 记录一次能量自评：落库、立即裁剪过期样本、广播事件，
// 返回裁剪后的 30 天样本窗口（升序）。
func (s *SampleService) Record(ctx context.Context, in RecordInput) ([]schema.EnergySample, error) {
	now := s.env.Now()

	meta := make(schema.JSONMap)
	schema.SetString(meta, "device_class", s.env.DeviceClass())

	sample := schema.EnergySample{
		Metadata:     meta,
		Timestamp:    now.UnixMilli(),
		Level:        in.Level,
		SleepQuality: in.SleepQuality,
		Caffeine:     in.Caffeine,
		Exercise:     in.Exercise,
		MealState:    in.MealState,
		StressLevel:  in.StressLevel,
		Productivity: in.Productivity,
		Completed:    in.Completed,
	}

	if err := s.sampleRepo.Create(ctx, &sample); err != nil {
		return nil, fmt.Errorf("记录能量样本失败: %w", err)
	}

	// 每次记录后主动裁剪，保证窗口不变式（不做惰性清理）
	if _, err := s.sampleRepo.DeleteOlderThan(ctx, RetentionDays); err != nil {
		slog.Warn("裁剪样本窗口失败", "error", err)
	}

	s.hub.Publish(eventbus.Event{
		Type: eventbus.EventSampleRecorded,
		Data: map[string]any{
			"level":     string(in.Level),
			"completed": in.Completed,
		},
	})

	return s.sampleRepo.GetWindow(ctx, RetentionDays)
}

// Window 返回当前 30 天样本窗口（升序）
func (s *SampleService) Window(ctx context.Context) ([]schema.EnergySample, error) {
	return s.sampleRepo.GetWindow(ctx, RetentionDays)
}
