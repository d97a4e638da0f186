package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/yuqie6/StudyPulse/internal/ai"
	"github.com/yuqie6/StudyPulse/internal/envcontext"
	"github.com/yuqie6/StudyPulse/internal/eventbus"
	"github.com/yuqie6/StudyPulse/internal/schema"
)

// ProfileReport 用户画像快照：模式、最优窗口、画像、指标与洞察文本
type ProfileReport struct {
	GeneratedAt     int64               `json:"generated_at"` // Unix 时间戳（毫秒）
	SampleCount     int                 `json:"sample_count"`
	Patterns        []Pattern           `json:"patterns"`
	OptimalWindows  []TimeSlot          `json:"optimal_windows"`
	Persona         Persona             `json:"persona"`
	Metrics         ProductivityMetrics `json:"metrics"`
	Insights        []string            `json:"insights"`
	AIInsight       string              `json:"ai_insight,omitempty"`
	ContextSnapshot envcontext.Snapshot `json:"context_snapshot"`
}

// ProfileService 画像服务 - 串联分析链路并维护建议生命周期
type ProfileService struct {
	sampleRepo     SampleRepository
	taskRepo       TaskRepository
	feedbackRepo   FeedbackRepository
	suggestionRepo SuggestionRepository

	analyzer  *PatternAnalyzer
	selector  *WindowSelector
	generator *SuggestionGenerator
	acc       *Accumulator

	insight InsightGenerator // 可为 nil
	hub     *eventbus.Hub
}

// NewProfileService 创建画像服务
func NewProfileService(
	sampleRepo SampleRepository,
	taskRepo TaskRepository,
	feedbackRepo FeedbackRepository,
	suggestionRepo SuggestionRepository,
	analyzer *PatternAnalyzer,
	selector *WindowSelector,
	generator *SuggestionGenerator,
	maxSuggestions int,
	insight InsightGenerator,
	hub *eventbus.Hub,
) *ProfileService {
	return &ProfileService{
		sampleRepo:     sampleRepo,
		taskRepo:       taskRepo,
		feedbackRepo:   feedbackRepo,
		suggestionRepo: suggestionRepo,
		analyzer:       analyzer,
		selector:       selector,
		generator:      generator,
		acc:            NewAccumulator(maxSuggestions),
		insight:        insight,
		hub:            hub,
	}
}

// SetGeneratorOptions 热更新建议生成器开关（配置监听回调调用）
func (s *ProfileService) SetGeneratorOptions(opts GeneratorOptions) {
	s.generator.SetOptions(opts)
}

// BuildReport 生成画像快照。数据不足时各部分返回空值/默认值，不报错。
func (s *ProfileService) BuildReport(ctx context.Context, snap envcontext.Snapshot) (*ProfileReport, error) {
	history, err := s.sampleRepo.GetWindow(ctx, RetentionDays)
	if err != nil {
		return nil, fmt.Errorf("加载样本窗口失败: %w", err)
	}

	feedback, err := s.feedbackRepo.GetRecent(ctx, MetricsWindowSize)
	if err != nil {
		return nil, fmt.Errorf("加载会话反馈失败: %w", err)
	}

	patterns := s.analyzer.Analyze(history)
	windows := s.selector.SelectWindows(history)
	persona := ClassifyPersona(patterns)
	metrics := AggregateMetrics(history, feedback)

	report := &ProfileReport{
		GeneratedAt:     snap.Timestamp,
		SampleCount:     len(history),
		Patterns:        patterns,
		OptimalWindows:  windows,
		Persona:         persona,
		Metrics:         metrics,
		Insights:        collectInsights(patterns, persona),
		ContextSnapshot: snap,
	}

	return report, nil
}

// GenerateAIInsight 调用 LLM 生成自然语言洞察；未配置时静默跳过
func (s *ProfileService) GenerateAIInsight(ctx context.Context, report *ProfileReport) {
	if s.insight == nil || report == nil {
		return
	}

	req := &ai.InsightRequest{
		Persona:          string(report.Persona.Type),
		PersonaDesc:      report.Persona.Description,
		SampleCount:      report.SampleCount,
		FocusScore:       report.Metrics.FocusScore,
		CompletionRate:   report.Metrics.CompletionRate,
		ConsistencyScore: report.Metrics.ConsistencyScore,
	}
	if daily, ok := DailyPattern(report.Patterns); ok {
		if peak, ok := peakSlot(daily.Slots); ok {
			req.PeakHourLabel = peak.Label
		}
	}
	for _, p := range report.Patterns {
		if p.Type == PatternWeekly {
			if peak, ok := peakSlot(p.Slots); ok {
				req.PeakWeekday = peak.Label
			}
		}
	}
	for _, w := range report.OptimalWindows {
		req.OptimalWindows = append(req.OptimalWindows, fmt.Sprintf("%02d:00-%02d:00", w.StartHour, w.EndHour))
	}

	text, err := s.insight.GenerateInsight(ctx, req)
	if err != nil {
		slog.Warn("生成 AI 洞察失败", "error", err)
		return
	}
	report.AIInsight = text
}

// RefreshSuggestions 执行一轮建议评估：生成、落库、更新累积器并广播。
// currentLevel 取最近一条样本的等级；无样本时跳过本轮。
func (s *ProfileService) RefreshSuggestions(ctx context.Context, snap envcontext.Snapshot) ([]Suggestion, error) {
	history, err := s.sampleRepo.GetWindow(ctx, RetentionDays)
	if err != nil {
		return nil, fmt.Errorf("加载样本窗口失败: %w", err)
	}
	if len(history) == 0 {
		return nil, nil
	}

	tasks, err := s.taskRepo.GetOpen(ctx)
	if err != nil {
		return nil, fmt.Errorf("加载任务失败: %w", err)
	}

	currentLevel := history[len(history)-1].Level
	windows := s.selector.SelectWindows(history)

	generated := s.generator.Generate(currentLevel, snap, history, windows, tasks)
	for _, sug := range generated {
		rec := &schema.SuggestionRecord{
			ID:          sug.ID,
			Type:        string(sug.Type),
			Priority:    string(sug.Priority),
			Title:       sug.Title,
			Description: sug.Description,
			Status:      schema.SuggestionPending,
			ExpiresAt:   sug.ExpiresAt,
		}
		if err := s.suggestionRepo.Upsert(ctx, rec); err != nil {
			slog.Warn("建议落库失败", "id", sug.ID, "error", err)
		}
	}

	s.acc.Add(generated...)
	active := s.acc.List(snap.Time())

	if len(generated) > 0 {
		s.hub.Publish(eventbus.Event{
			Type: eventbus.EventSuggestionsUpdated,
			Data: map[string]any{"count": len(active)},
		})
	}

	return active, nil
}

// ActiveSuggestions 返回当前累积的有效建议
func (s *ProfileService) ActiveSuggestions(ctx context.Context, snap envcontext.Snapshot) []Suggestion {
	return s.acc.List(snap.Time())
}

// ApplyAction 处理 accept / dismiss 动作消息
func (s *ProfileService) ApplyAction(ctx context.Context, action SuggestionAction) error {
	var status schema.SuggestionStatus
	switch action.Kind {
	case ActionAccept:
		status = schema.SuggestionAccepted
	case ActionDismiss:
		status = schema.SuggestionDismissed
	default:
		return fmt.Errorf("未知动作类型: %s", action.Kind)
	}

	if err := s.suggestionRepo.UpdateStatus(ctx, action.SuggestionID, status); err != nil {
		return err
	}

	s.acc.Resolve(action.SuggestionID)

	s.hub.Publish(eventbus.Event{
		Type: eventbus.EventSuggestionResolved,
		Data: map[string]any{
			"id":     action.SuggestionID,
			"action": string(action.Kind),
		},
	})
	return nil
}

// CleanupSuggestions 删除过期未处理的建议（定时任务调用）
func (s *ProfileService) CleanupSuggestions(ctx context.Context) (int64, error) {
	return s.suggestionRepo.DeleteExpired(ctx)
}

// collectInsights 汇总展示用洞察文本：模式推荐 + 画像推荐
func collectInsights(patterns []Pattern, persona Persona) []string {
	out := make([]string, 0)
	for _, p := range patterns {
		out = append(out, p.Recommendations...)
	}
	out = append(out, persona.Recommendations...)
	return out
}
