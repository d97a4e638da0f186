package service

import (
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/yuqie6/StudyPulse/internal/envcontext"
	"github.com/yuqie6/StudyPulse/internal/schema"
)

// Priority 建议优先级
type Priority string

const (
	PriorityLow      Priority = "low"
	PriorityMedium   Priority = "medium"
	PriorityHigh     Priority = "high"
	PriorityCritical Priority = "critical"
)

var priorityRank = map[Priority]int{
	PriorityLow:      1,
	PriorityMedium:   2,
	PriorityHigh:     3,
	PriorityCritical: 4,
}

// SuggestionType 建议类型
type SuggestionType string

const (
	SuggestRest        SuggestionType = "rest"         // 低能量休整
	SuggestChallenge   SuggestionType = "challenge"    // 高能量攻坚
	SuggestOptimalTime SuggestionType = "optimal-time" // 处于最优窗口
	SuggestBreak       SuggestionType = "break"        // 连续记录过密，提醒休息
)

// Suggestion 一条可执行建议。每个评估周期重新生成，不从历史实体派生。
type Suggestion struct {
	ID          string         `json:"id"`
	Type        SuggestionType `json:"type"`
	Priority    Priority       `json:"priority"`
	Title       string         `json:"title"`
	Description string         `json:"description"`
	CreatedAt   int64          `json:"created_at"`           // Unix 时间戳（毫秒）
	ExpiresAt   int64          `json:"expires_at,omitempty"` // 0 表示不过期
}

// ActionKind 建议动作类型
type ActionKind string

const (
	ActionAccept  ActionKind = "accept"
	ActionDismiss ActionKind = "dismiss"
)

// SuggestionAction 由展示层下发的动作消息。
// 建议本身不携带回调，动作经由 HTTP API / 事件总线分发。
type SuggestionAction struct {
	Kind         ActionKind `json:"kind"`
	SuggestionID string     `json:"suggestion_id"`
}

// GeneratorOptions 生成器开关（来自配置面板）
type GeneratorOptions struct {
	BreakSuggestions     bool     // 是否启用休息提醒
	DifficultyAdjustment bool     // 是否启用按能量调整难度的建议
	LowEnergyActivities  []string // 低能量时推荐的活动（可空）
	HighEnergyActivities []string // 高能量时推荐的活动（可空）
}

// DefaultGeneratorOptions 默认全部开启
func DefaultGeneratorOptions() GeneratorOptions {
	return GeneratorOptions{
		BreakSuggestions:     true,
		DifficultyAdjustment: true,
	}
}

// SuggestionGenerator 建议生成器。
// 配置热更新会在运行中调用 SetOptions，读写需要加锁。
type SuggestionGenerator struct {
	mu   sync.RWMutex
	opts GeneratorOptions
}

// NewSuggestionGenerator 创建生成器
func NewSuggestionGenerator(opts GeneratorOptions) *SuggestionGenerator {
	return &SuggestionGenerator{opts: opts}
}

// SetOptions 替换生成器开关（配置文件热更新时由监听回调调用）
func (g *SuggestionGenerator) SetOptions(opts GeneratorOptions) {
	g.mu.Lock()
	g.opts = opts
	g.mu.Unlock()
}

func (g *SuggestionGenerator) options() GeneratorOptions {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.opts
}

const (
	recentSampleWindow  = time.Hour // 规则 4 的回看窗口
	recentSampleMinimum = 4         // 规则 4 的样本数阈值
)

// Generate 依次评估各条规则，命中即追加（无短路）。
// 返回顺序即规则顺序；优先级排序与数量上限由 Accumulator 负责。
func (g *SuggestionGenerator) Generate(
	level schema.EnergyLevel,
	snap envcontext.Snapshot,
	history []schema.EnergySample,
	windows []TimeSlot,
	tasks []schema.StudyTask,
) []Suggestion {
	now := snap.Time()
	opts := g.options()
	out := make([]Suggestion, 0, 4)

	// 规则 1：低能量 → 高优先级休整建议
	if level.IsLowBand() {
		desc := "当前能量等级较低，建议小憩、散步或补充水分后再开始学习"
		if len(opts.LowEnergyActivities) > 0 {
			desc += "；想继续的话可以做：" + strings.Join(opts.LowEnergyActivities, "、")
		}
		out = append(out, Suggestion{
			ID:          suggestionID(SuggestRest, now),
			Type:        SuggestRest,
			Priority:    PriorityHigh,
			Title:       "能量偏低，先缓一缓",
			Description: desc,
			CreatedAt:   now.UnixMilli(),
			ExpiresAt:   now.Add(2 * time.Hour).UnixMilli(),
		})
	}

	// 规则 2：高能量且存在未完成的攻坚类任务 → 挑战建议
	if opts.DifficultyAdjustment && level.IsHighBand() {
		if task, ok := firstChallengingTask(tasks); ok {
			out = append(out, Suggestion{
				ID:          suggestionID(SuggestChallenge, now),
				Type:        SuggestChallenge,
				Priority:    PriorityMedium,
				Title:       "状态不错，适合攻坚",
				Description: fmt.Sprintf("当前能量充沛，建议着手处理「%s」这类高难度任务", task.Title),
				CreatedAt:   now.UnixMilli(),
				ExpiresAt:   now.Add(time.Hour).UnixMilli(),
			})
		} else if len(opts.HighEnergyActivities) > 0 {
			out = append(out, Suggestion{
				ID:          suggestionID(SuggestChallenge, now),
				Type:        SuggestChallenge,
				Priority:    PriorityLow,
				Title:       "状态不错，别浪费",
				Description: "当前没有待办的攻坚任务，可以考虑：" + strings.Join(opts.HighEnergyActivities, "、"),
				CreatedAt:   now.UnixMilli(),
				ExpiresAt:   now.Add(time.Hour).UnixMilli(),
			})
		}
	}

	// 规则 3：当前小时落在某个最优窗口内 → 最优时段建议
	for _, w := range windows {
		if w.Contains(now.Hour()) {
			out = append(out, Suggestion{
				ID:          suggestionID(SuggestOptimalTime, now),
				Type:        SuggestOptimalTime,
				Priority:    PriorityMedium,
				Title:       "正处于你的最优学习窗口",
				Description: fmt.Sprintf("历史数据显示 %02d:00-%02d:00 是你的高效时段，抓紧开始一个学习会话", w.StartHour, w.EndHour),
				CreatedAt:   now.UnixMilli(),
				ExpiresAt:   endOfHour(now, w.EndHour),
			})
			break
		}
	}

	// 规则 4：最近一小时记录过密且均非低能量档 → 休息建议
	if opts.BreakSuggestions {
		recent := SamplesWithin(history, now, recentSampleWindow)
		if len(recent) >= recentSampleMinimum && noneLowBand(recent) {
			out = append(out, Suggestion{
				ID:          suggestionID(SuggestBreak, now),
				Type:        SuggestBreak,
				Priority:    PriorityMedium,
				Title:       "连续学习有一阵了，休息一下",
				Description: "过去一小时内记录密集且状态在线，适当休息能维持后续效率",
				CreatedAt:   now.UnixMilli(),
				ExpiresAt:   now.Add(45 * time.Minute).UnixMilli(),
			})
		}
	}

	return out
}

// suggestionID 以类型+小时生成稳定 ID，同一小时内重复评估去重
func suggestionID(typ SuggestionType, now time.Time) string {
	return fmt.Sprintf("%s-%s", typ, now.Format("2006010215"))
}

func firstChallengingTask(tasks []schema.StudyTask) (schema.StudyTask, bool) {
	for _, t := range tasks {
		if !t.Completed && t.IsChallenging() {
			return t, true
		}
	}
	return schema.StudyTask{}, false
}

// noneLowBand 判断样本中是否不含低能量档（low 与 very-low 均计入）
func noneLowBand(samples []schema.EnergySample) bool {
	for _, s := range samples {
		if s.Level.IsLowBand() {
			return false
		}
	}
	return true
}

func endOfHour(now time.Time, endHour int) int64 {
	end := time.Date(now.Year(), now.Month(), now.Day(), endHour, 0, 0, 0, now.Location())
	return end.UnixMilli()
}

// DefaultMaxSuggestions 对外展示的建议数量上限
const DefaultMaxSuggestions = 5

// Accumulator 跨评估周期累积建议：按 ID 去重、按优先级降序、数量封顶。
type Accumulator struct {
	max   int
	items map[string]Suggestion
}

// NewAccumulator 创建累积器；max<=0 时使用默认上限
func NewAccumulator(max int) *Accumulator {
	if max <= 0 {
		max = DefaultMaxSuggestions
	}
	return &Accumulator{
		max:   max,
		items: make(map[string]Suggestion),
	}
}

// Add 合并一批建议（同 ID 覆盖旧值）
func (a *Accumulator) Add(suggestions ...Suggestion) {
	for _, s := range suggestions {
		a.items[s.ID] = s
	}
}

// Resolve 移除已被接受/忽略的建议
func (a *Accumulator) Resolve(id string) {
	delete(a.items, id)
}

// List 返回当前有效建议：剔除过期项，按优先级降序（同级按创建时间升序），截断到上限。
func (a *Accumulator) List(now time.Time) []Suggestion {
	nowMs := now.UnixMilli()

	out := make([]Suggestion, 0, len(a.items))
	for id, s := range a.items {
		if s.ExpiresAt > 0 && s.ExpiresAt < nowMs {
			delete(a.items, id)
			continue
		}
		out = append(out, s)
	}

	sort.Slice(out, func(i, j int) bool {
		if priorityRank[out[i].Priority] != priorityRank[out[j].Priority] {
			return priorityRank[out[i].Priority] > priorityRank[out[j].Priority]
		}
		return out[i].CreatedAt < out[j].CreatedAt
	})

	if len(out) > a.max {
		out = out[:a.max]
	}
	return out
}
