package service

import (
	"time"

	"github.com/yuqie6/StudyPulse/internal/schema"
)

// RetentionDays 样本保留窗口（天）
const RetentionDays = 30

// RecordInput 一次能量记录的输入
type RecordInput struct {
	Level        schema.EnergyLevel
	SleepQuality string
	Caffeine     bool
	Exercise     bool
	MealState    string
	StressLevel  string
	Productivity int // 1-10，0 表示未填写
	Completed    bool
}

// Record 向历史追加一条以 now 为时间戳的样本，并裁剪超出 30 天窗口的旧样本。
// 函数式更新：返回新切片，绝不修改传入的 history。
// 枚举取值合法性属于调用方契约，这里不做防御。
func Record(history []schema.EnergySample, in RecordInput, now time.Time) []schema.EnergySample {
	sample := schema.EnergySample{
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

	out := make([]schema.EnergySample, 0, len(history)+1)
	out = append(out, history...)
	out = append(out, sample)
	return Prune(out, now)
}

// Prune 过滤掉严格早于 30 天窗口边界的样本（边界上的样本保留）。
// 同样不修改传入切片。
func Prune(history []schema.EnergySample, now time.Time) []schema.EnergySample {
	cutoff := now.AddDate(0, 0, -RetentionDays).UnixMilli()

	out := make([]schema.EnergySample, 0, len(history))
	for _, s := range history {
		if s.Timestamp >= cutoff {
			out = append(out, s)
		}
	}
	return out
}

// SamplesWithin 返回 [now-d, now] 区间内的样本
func SamplesWithin(history []schema.EnergySample, now time.Time, d time.Duration) []schema.EnergySample {
	since := now.Add(-d).UnixMilli()
	out := make([]schema.EnergySample, 0)
	for _, s := range history {
		if s.Timestamp >= since && s.Timestamp <= now.UnixMilli() {
			out = append(out, s)
		}
	}
	return out
}
