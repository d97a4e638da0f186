package service

import "github.com/yuqie6/StudyPulse/internal/schema"

// ProductivityMetrics 归一化后的学习效率指标（均为 0-100）
type ProductivityMetrics struct {
	FocusScore        float64 `json:"focus_score"`
	CompletionRate    float64 `json:"completion_rate"`
	ConsistencyScore  float64 `json:"consistency_score"`
	EnergyUtilization float64 `json:"energy_utilization"`
	AdaptationSuccess float64 `json:"adaptation_success"`
	StreakQuality     float64 `json:"streak_quality"`
	TimeOptimization  float64 `json:"time_optimization"`
}

const (
	// MetricsWindowSize 指标统计只看最近的 N 条样本
	MetricsWindowSize = 14

	defaultFocusScore        = 50
	defaultEnergyUtilization = 50

	// 以下三项尚未建模，先用固定占位值
	placeholderAdaptation   = 75
	placeholderStreak       = 80
	placeholderOptimization = 70
)

// AggregateMetrics 由最近样本与会话反馈合成效率指标。
// history 按时间升序传入；只取末尾 MetricsWindowSize 条。
func AggregateMetrics(history []schema.EnergySample, feedback []schema.SessionFeedback) ProductivityMetrics {
	window := history
	if len(window) > MetricsWindowSize {
		window = window[len(window)-MetricsWindowSize:]
	}

	return ProductivityMetrics{
		FocusScore:        focusScore(feedback),
		CompletionRate:    completionRate(window),
		ConsistencyScore:  consistencyScore(window),
		EnergyUtilization: energyUtilization(window),
		AdaptationSuccess: placeholderAdaptation,
		StreakQuality:     placeholderStreak,
		TimeOptimization:  placeholderOptimization,
	}
}

// focusScore 专注度 = avg(focusRating*20)；无反馈时取默认值 50
func focusScore(feedback []schema.SessionFeedback) float64 {
	if len(feedback) == 0 {
		return defaultFocusScore
	}
	sum := 0.0
	for _, f := range feedback {
		sum += float64(f.FocusRating) * 20
	}
	return sum / float64(len(feedback))
}

// completionRate 窗口内 completed=true 的百分比；空窗口为 0
func completionRate(window []schema.EnergySample) float64 {
	if len(window) == 0 {
		return 0
	}
	completed := 0
	for _, s := range window {
		if s.Completed {
			completed++
		}
	}
	return float64(completed) / float64(len(window)) * 100
}

// consistencyScore = 100 - 20*方差，下限 0。
// 空窗口的方差未定义，直接取 0 分（而非 NaN）。
func consistencyScore(window []schema.EnergySample) float64 {
	if len(window) == 0 {
		return 0
	}

	mean := 0.0
	for _, s := range window {
		mean += float64(s.Level.Value())
	}
	mean /= float64(len(window))

	variance := 0.0
	for _, s := range window {
		d := float64(s.Level.Value()) - mean
		variance += d * d
	}
	variance /= float64(len(window))

	score := 100 - 20*variance
	if score < 0 {
		score = 0
	}
	return score
}

// energyUtilization 高能量样本中最终完成会话的百分比；
// 窗口内没有高能量样本时取默认值 50。
func energyUtilization(window []schema.EnergySample) float64 {
	highTotal := 0
	highCompleted := 0
	for _, s := range window {
		if s.Level.IsHighBand() {
			highTotal++
			if s.Completed {
				highCompleted++
			}
		}
	}
	if highTotal == 0 {
		return defaultEnergyUtilization
	}
	return float64(highCompleted) / float64(highTotal) * 100
}
