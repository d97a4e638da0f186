package service

import (
	"math"
	"sort"

	"github.com/yuqie6/StudyPulse/internal/schema"
)

const (
	minWindowEnergy    = 3.0 // 平均能量阈值（1-5 刻度）
	minCompletionRate  = 0.7 // 完成率阈值
	energyScaleMax     = 5.0
	productivityMax    = 10.0
	suitabilityCeiling = 100.0
)

// TimeSlot 推荐学习窗口（一小时）
type TimeSlot struct {
	StartHour   int                     `json:"start_hour"`
	EndHour     int                     `json:"end_hour"` // 恒为 StartHour+1
	EnergyLevel float64                 `json:"energy_level"`
	Suitability map[schema.TaskType]int `json:"suitability"` // 各任务类型适配度 0-100
}

// Contains 判断某个小时是否落在窗口内（[start, end)）
func (t TimeSlot) Contains(hour int) bool {
	return t.StartHour <= hour && hour < t.EndHour
}

// 各任务类型的能量/效率权重。攻坚类最看重能量，阅读类最看重历史效率。
var suitabilityWeights = map[schema.TaskType][2]float64{
	schema.TaskProblemSolving: {0.75, 0.25},
	schema.TaskCreative:       {0.65, 0.35},
	schema.TaskReview:         {0.50, 0.50},
	schema.TaskReading:        {0.35, 0.65},
}

// WindowSelector 最优学习窗口选择器
type WindowSelector struct {
	MinDataPoints int
}

// NewWindowSelector 创建选择器；minDataPoints<=0 时使用默认值
func NewWindowSelector(minDataPoints int) *WindowSelector {
	if minDataPoints <= 0 {
		minDataPoints = DefaultMinDataPoints
	}
	return &WindowSelector{MinDataPoints: minDataPoints}
}

// SelectWindows 从历史样本筛选推荐窗口：
// 仅保留平均能量 >= 3 且完成率 >= 0.7 的小时，按平均能量降序返回。
// 样本数不足最小阈值时返回空列表。
func (w *WindowSelector) SelectWindows(history []schema.EnergySample) []TimeSlot {
	if len(history) < w.MinDataPoints {
		return []TimeSlot{}
	}

	type hourStat struct {
		energySum    int
		count        int
		prodSum      int
		prodCount    int
		completedCnt int
	}

	stats := make(map[int]*hourStat)
	for _, s := range history {
		hour := s.Time().Hour()
		st := stats[hour]
		if st == nil {
			st = &hourStat{}
			stats[hour] = st
		}
		st.energySum += s.Level.Value()
		st.count++
		if s.Productivity > 0 {
			st.prodSum += s.Productivity
			st.prodCount++
		}
		if s.Completed {
			st.completedCnt++
		}
	}

	slots := make([]TimeSlot, 0)
	for hour, st := range stats {
		avgEnergy := float64(st.energySum) / float64(st.count)
		completionRate := float64(st.completedCnt) / float64(st.count)
		if avgEnergy < minWindowEnergy || completionRate < minCompletionRate {
			continue
		}

		avgProductivity := 0.0
		if st.prodCount > 0 {
			avgProductivity = float64(st.prodSum) / float64(st.prodCount)
		}

		slots = append(slots, TimeSlot{
			StartHour:   hour,
			EndHour:     hour + 1,
			EnergyLevel: avgEnergy,
			Suitability: suitabilityScores(avgEnergy, avgProductivity),
		})
	}

	// 能量是唯一排序键，相等时顺序不作保证
	sort.Slice(slots, func(i, j int) bool { return slots[i].EnergyLevel > slots[j].EnergyLevel })
	return slots
}

// suitabilityScores 按任务类型加权合成 0-100 的适配度
func suitabilityScores(avgEnergy, avgProductivity float64) map[schema.TaskType]int {
	energyScore := avgEnergy / energyScaleMax * 100
	prodScore := avgProductivity / productivityMax * 100

	out := make(map[schema.TaskType]int, len(suitabilityWeights))
	for taskType, w := range suitabilityWeights {
		score := w[0]*energyScore + w[1]*prodScore
		if score < 0 {
			score = 0
		}
		if score > suitabilityCeiling {
			score = suitabilityCeiling
		}
		out[taskType] = int(math.Round(score))
	}
	return out
}
