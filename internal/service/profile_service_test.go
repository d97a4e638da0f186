package service

import (
	"context"
	"testing"
	"time"

	"github.com/yuqie6/StudyPulse/internal/eventbus"
	"github.com/yuqie6/StudyPulse/internal/schema"
)

type fakeSampleRepo struct {
	window []schema.EnergySample
}

func (f *fakeSampleRepo) Create(ctx context.Context, sample *schema.EnergySample) error { return nil }
func (f *fakeSampleRepo) GetByTimeRange(ctx context.Context, startTime, endTime int64) ([]schema.EnergySample, error) {
	return nil, nil
}
func (f *fakeSampleRepo) GetWindow(ctx context.Context, days int) ([]schema.EnergySample, error) {
	return f.window, nil
}
func (f *fakeSampleRepo) GetRecent(ctx context.Context, limit int) ([]schema.EnergySample, error) {
	return nil, nil
}
func (f *fakeSampleRepo) Count(ctx context.Context) (int64, error) { return int64(len(f.window)), nil }
func (f *fakeSampleRepo) DeleteOlderThan(ctx context.Context, retainDays int) (int64, error) {
	return 0, nil
}

type fakeTaskRepo struct {
	open []schema.StudyTask
}

func (f *fakeTaskRepo) Create(ctx context.Context, task *schema.StudyTask) error { return nil }
func (f *fakeTaskRepo) GetByID(ctx context.Context, id int64) (*schema.StudyTask, error) {
	return nil, nil
}
func (f *fakeTaskRepo) GetOpen(ctx context.Context) ([]schema.StudyTask, error) {
	return f.open, nil
}
func (f *fakeTaskRepo) MarkCompleted(ctx context.Context, id int64) error { return nil }

type fakeFeedbackRepo struct {
	recent []schema.SessionFeedback
}

func (f *fakeFeedbackRepo) Create(ctx context.Context, fb *schema.SessionFeedback) error { return nil }
func (f *fakeFeedbackRepo) GetRecent(ctx context.Context, limit int) ([]schema.SessionFeedback, error) {
	return f.recent, nil
}
func (f *fakeFeedbackRepo) GetByTimeRange(ctx context.Context, startTime, endTime int64) ([]schema.SessionFeedback, error) {
	return nil, nil
}

type fakeSuggestionRepo struct {
	upserts  []schema.SuggestionRecord
	statuses map[string]schema.SuggestionStatus
}

func (f *fakeSuggestionRepo) Upsert(ctx context.Context, rec *schema.SuggestionRecord) error {
	f.upserts = append(f.upserts, *rec)
	return nil
}
func (f *fakeSuggestionRepo) GetByID(ctx context.Context, id string) (*schema.SuggestionRecord, error) {
	return nil, nil
}
func (f *fakeSuggestionRepo) GetPending(ctx context.Context, limit int) ([]schema.SuggestionRecord, error) {
	return nil, nil
}
func (f *fakeSuggestionRepo) UpdateStatus(ctx context.Context, id string, status schema.SuggestionStatus) error {
	if f.statuses == nil {
		f.statuses = make(map[string]schema.SuggestionStatus)
	}
	f.statuses[id] = status
	return nil
}
func (f *fakeSuggestionRepo) DeleteExpired(ctx context.Context) (int64, error) { return 0, nil }

func newTestProfileService(samples *fakeSampleRepo, tasks *fakeTaskRepo, sugRepo *fakeSuggestionRepo) *ProfileService {
	return NewProfileService(
		samples,
		tasks,
		&fakeFeedbackRepo{},
		sugRepo,
		NewPatternAnalyzer(7),
		NewWindowSelector(7),
		NewSuggestionGenerator(DefaultGeneratorOptions()),
		0,
		nil,
		eventbus.NewHub(),
	)
}

func TestBuildReportWithSparseData(t *testing.T) {
	svc := newTestProfileService(&fakeSampleRepo{}, &fakeTaskRepo{}, &fakeSuggestionRepo{})

	now := time.Date(2026, 8, 29, 10, 0, 0, 0, time.Local)
	report, err := svc.BuildReport(context.Background(), snapshotAt(now))
	if err != nil {
		t.Fatalf("BuildReport error: %v", err)
	}

	if report.SampleCount != 0 {
		t.Fatalf("sampleCount=%d, want 0", report.SampleCount)
	}
	if len(report.Patterns) != 0 || len(report.OptimalWindows) != 0 {
		t.Fatalf("数据不足时各部分应为空: %+v", report)
	}
	if report.Persona.Type != PersonaInconsistent {
		t.Fatalf("persona=%q, want inconsistent", report.Persona.Type)
	}
	if report.GeneratedAt != now.UnixMilli() {
		t.Fatalf("generatedAt=%d, want %d", report.GeneratedAt, now.UnixMilli())
	}
}

func TestBuildReportWithHistory(t *testing.T) {
	base := time.Date(2026, 8, 18, 9, 0, 0, 0, time.Local)
	history := make([]schema.EnergySample, 0, 8)
	for i := 0; i < 8; i++ {
		s := sampleAt(base.AddDate(0, 0, i), schema.EnergyHigh)
		s.Completed = true
		history = append(history, s)
	}

	svc := newTestProfileService(&fakeSampleRepo{window: history}, &fakeTaskRepo{}, &fakeSuggestionRepo{})

	report, err := svc.BuildReport(context.Background(), snapshotAt(base.AddDate(0, 0, 8)))
	if err != nil {
		t.Fatalf("BuildReport error: %v", err)
	}

	if report.SampleCount != 8 {
		t.Fatalf("sampleCount=%d, want 8", report.SampleCount)
	}
	if len(report.Patterns) != 2 {
		t.Fatalf("patterns=%d, want 2", len(report.Patterns))
	}
	if len(report.OptimalWindows) != 1 || report.OptimalWindows[0].StartHour != 9 {
		t.Fatalf("optimalWindows 不符: %+v", report.OptimalWindows)
	}
	if len(report.Insights) == 0 {
		t.Fatal("有模式时洞察不应为空")
	}
}

func TestRefreshSuggestionsPersistsAndAccumulates(t *testing.T) {
	now := time.Date(2026, 8, 29, 15, 0, 0, 0, time.Local)

	// 最近一条是 very-low，触发休整建议
	history := make([]schema.EnergySample, 0, 8)
	for i := 7; i > 0; i-- {
		history = append(history, sampleAt(now.AddDate(0, 0, -i), schema.EnergyMedium))
	}
	history = append(history, sampleAt(now, schema.EnergyVeryLow))

	sugRepo := &fakeSuggestionRepo{}
	svc := newTestProfileService(&fakeSampleRepo{window: history}, &fakeTaskRepo{}, sugRepo)

	active, err := svc.RefreshSuggestions(context.Background(), snapshotAt(now))
	if err != nil {
		t.Fatalf("RefreshSuggestions error: %v", err)
	}

	if len(active) != 1 || active[0].Type != SuggestRest {
		t.Fatalf("active=%+v, want 单条 rest", active)
	}
	if len(sugRepo.upserts) != 1 {
		t.Fatalf("upserts=%d, want 1", len(sugRepo.upserts))
	}
	if sugRepo.upserts[0].Status != schema.SuggestionPending {
		t.Fatalf("status=%q, want pending", sugRepo.upserts[0].Status)
	}

	// 同一小时重复评估：ID 稳定，不会重复累积
	again, err := svc.RefreshSuggestions(context.Background(), snapshotAt(now.Add(10*time.Minute)))
	if err != nil {
		t.Fatalf("RefreshSuggestions again: %v", err)
	}
	if len(again) != 1 {
		t.Fatalf("去重失败: %+v", again)
	}
}

func TestRefreshReflectsUpdatedGeneratorOptions(t *testing.T) {
	now := time.Date(2026, 8, 29, 15, 0, 0, 0, time.Local)

	// 最近一小时 4 条非低能量样本，默认配置下触发休息建议
	history := make([]schema.EnergySample, 0, 8)
	for i := 7; i > 3; i-- {
		history = append(history, sampleAt(now.AddDate(0, 0, -i), schema.EnergyMedium))
	}
	for i := 4; i >= 1; i-- {
		history = append(history, sampleAt(now.Add(-time.Duration(i*10)*time.Minute), schema.EnergyMedium))
	}

	sampleRepo := &fakeSampleRepo{window: history}
	svc := newTestProfileService(sampleRepo, &fakeTaskRepo{}, &fakeSuggestionRepo{})

	active, err := svc.RefreshSuggestions(context.Background(), snapshotAt(now))
	if err != nil {
		t.Fatalf("RefreshSuggestions error: %v", err)
	}
	if len(active) != 1 || active[0].Type != SuggestBreak {
		t.Fatalf("active=%+v, want 单条 break", active)
	}

	// 模拟配置热更新：关闭休息提醒
	svc.SetGeneratorOptions(GeneratorOptions{DifficultyAdjustment: true})

	// 三小时后又出现同样的密集记录，若开关未生效会生成新 ID 的 break
	later := now.Add(3 * time.Hour)
	for i := 4; i >= 1; i-- {
		sampleRepo.window = append(sampleRepo.window,
			sampleAt(later.Add(-time.Duration(i*10)*time.Minute), schema.EnergyMedium))
	}
	active, err = svc.RefreshSuggestions(context.Background(), snapshotAt(later))
	if err != nil {
		t.Fatalf("RefreshSuggestions after reload: %v", err)
	}
	if len(active) != 0 {
		t.Fatalf("关闭休息提醒后不应再生成建议: %+v", active)
	}
}

func TestRefreshSuggestionsNoSamples(t *testing.T) {
	svc := newTestProfileService(&fakeSampleRepo{}, &fakeTaskRepo{}, &fakeSuggestionRepo{})

	active, err := svc.RefreshSuggestions(context.Background(), snapshotAt(time.Now()))
	if err != nil {
		t.Fatalf("无样本时不应报错: %v", err)
	}
	if active != nil {
		t.Fatalf("无样本时应跳过本轮: %+v", active)
	}
}

func TestApplyAction(t *testing.T) {
	now := time.Date(2026, 8, 29, 15, 0, 0, 0, time.Local)
	sugRepo := &fakeSuggestionRepo{}
	svc := newTestProfileService(&fakeSampleRepo{}, &fakeTaskRepo{}, sugRepo)

	svc.acc.Add(Suggestion{ID: "rest-2026082915", Type: SuggestRest, Priority: PriorityHigh})

	err := svc.ApplyAction(context.Background(), SuggestionAction{
		Kind:         ActionAccept,
		SuggestionID: "rest-2026082915",
	})
	if err != nil {
		t.Fatalf("ApplyAction error: %v", err)
	}

	if sugRepo.statuses["rest-2026082915"] != schema.SuggestionAccepted {
		t.Fatalf("status=%q, want accepted", sugRepo.statuses["rest-2026082915"])
	}
	if got := svc.ActiveSuggestions(context.Background(), snapshotAt(now)); len(got) != 0 {
		t.Fatalf("处理后应从累积器移除: %+v", got)
	}

	// 未知动作报错
	if err := svc.ApplyAction(context.Background(), SuggestionAction{Kind: "snooze"}); err == nil {
		t.Fatal("未知动作应报错")
	}
}
