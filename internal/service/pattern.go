package service

import (
	"fmt"
	"sort"

	"github.com/yuqie6/StudyPulse/internal/schema"
)

// PatternType 模式类型
type PatternType string

const (
	PatternDaily  PatternType = "daily"  // 按小时（0-23）聚合
	PatternWeekly PatternType = "weekly" // 按星期（0=周日）聚合
)

const (
	// DefaultMinDataPoints 模式分析所需的最小样本数
	DefaultMinDataPoints = 7

	dailyConfidenceDiv  = 7 // 每小时置信度 = min(count/7, 1)
	weeklyConfidenceDiv = 4 // 每星期置信度 = min(count/4, 1)
)

// PatternSlot 单个聚合槽位（某一小时或某一星期）
type PatternSlot struct {
	Key           int     `json:"key"`   // 小时 0-23 或星期 0-6
	Label         string  `json:"label"` // "09:00" 或 "周一"
	AverageEnergy float64 `json:"average_energy"`
	Confidence    float64 `json:"confidence"`
	SampleCount   int     `json:"sample_count"`
}

// Pattern 聚合统计模式（日内或每周）
type Pattern struct {
	Type            PatternType   `json:"type"`
	Slots           []PatternSlot `json:"slots"`
	Recommendations []string      `json:"recommendations"`
}

var weekdayNames = [7]string{"周日", "周一", "周二", "周三", "周四", "周五", "周六"}

// PatternAnalyzer 能量模式分析器
type PatternAnalyzer struct {
	MinDataPoints int
}

// NewPatternAnalyzer 创建分析器；minDataPoints<=0 时使用默认值
func NewPatternAnalyzer(minDataPoints int) *PatternAnalyzer {
	if minDataPoints <= 0 {
		minDataPoints = DefaultMinDataPoints
	}
	return &PatternAnalyzer{MinDataPoints: minDataPoints}
}

// Analyze 从历史样本推导日内/每周模式。
// 样本数不足最小阈值时返回空列表（数据不足不是错误）。
func (a *PatternAnalyzer) Analyze(history []schema.EnergySample) []Pattern {
	if len(history) < a.MinDataPoints {
		return []Pattern{}
	}

	daily := aggregateSlots(history, PatternDaily)
	weekly := aggregateSlots(history, PatternWeekly)

	patterns := make([]Pattern, 0, 2)
	if len(daily) > 0 {
		patterns = append(patterns, Pattern{
			Type:            PatternDaily,
			Slots:           daily,
			Recommendations: dailyRecommendations(daily),
		})
	}
	if len(weekly) > 0 {
		patterns = append(patterns, Pattern{
			Type:            PatternWeekly,
			Slots:           weekly,
			Recommendations: weeklyRecommendations(weekly),
		})
	}
	return patterns
}

// aggregateSlots 按小时或星期分组并计算平均能量与置信度
func aggregateSlots(history []schema.EnergySample, typ PatternType) []PatternSlot {
	type bucket struct {
		sum   int
		count int
	}

	buckets := make(map[int]*bucket)
	for _, s := range history {
		key := s.Time().Hour()
		if typ == PatternWeekly {
			key = int(s.Time().Weekday())
		}
		b := buckets[key]
		if b == nil {
			b = &bucket{}
			buckets[key] = b
		}
		b.sum += s.Level.Value()
		b.count++
	}

	confidenceDiv := dailyConfidenceDiv
	if typ == PatternWeekly {
		confidenceDiv = weeklyConfidenceDiv
	}

	slots := make([]PatternSlot, 0, len(buckets))
	for key, b := range buckets {
		label := fmt.Sprintf("%02d:00", key)
		if typ == PatternWeekly {
			label = weekdayNames[key]
		}
		confidence := float64(b.count) / float64(confidenceDiv)
		if confidence > 1 {
			confidence = 1
		}
		slots = append(slots, PatternSlot{
			Key:           key,
			Label:         label,
			AverageEnergy: float64(b.sum) / float64(b.count),
			Confidence:    confidence,
			SampleCount:   b.count,
		})
	}

	sort.Slice(slots, func(i, j int) bool { return slots[i].Key < slots[j].Key })
	return slots
}

// peakSlot 返回平均能量最高的槽位。
// 直接对槽位做 max-by-average 折叠；平均值相同取序号较小者。
func peakSlot(slots []PatternSlot) (PatternSlot, bool) {
	if len(slots) == 0 {
		return PatternSlot{}, false
	}
	best := slots[0]
	for _, slot := range slots[1:] {
		if slot.AverageEnergy > best.AverageEnergy {
			best = slot
		}
	}
	return best, true
}

func dailyRecommendations(slots []PatternSlot) []string {
	peak, ok := peakSlot(slots)
	if !ok {
		return nil
	}
	return []string{
		fmt.Sprintf("%s 前后通常是你的能量高峰，优先安排高难度学习", peak.Label),
		fmt.Sprintf("高峰时段平均能量 %.1f/5，可用于攻坚类任务", peak.AverageEnergy),
	}
}

func weeklyRecommendations(slots []PatternSlot) []string {
	peak, ok := peakSlot(slots)
	if !ok {
		return nil
	}
	return []string{
		fmt.Sprintf("%s 的整体状态最好，适合安排重点学习计划", peak.Label),
	}
}

// DailyPattern 从模式列表中取日内模式；不存在时 ok=false
func DailyPattern(patterns []Pattern) (Pattern, bool) {
	for _, p := range patterns {
		if p.Type == PatternDaily {
			return p, true
		}
	}
	return Pattern{}, false
}
