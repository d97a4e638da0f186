package service

import (
	"testing"
	"time"

	"github.com/yuqie6/StudyPulse/internal/schema"
)

func windowSample(day, hour int, level schema.EnergyLevel, productivity int, completed bool) schema.EnergySample {
	ts := time.Date(2026, 8, day, hour, 0, 0, 0, time.Local)
	return schema.EnergySample{
		Timestamp:    ts.UnixMilli(),
		Level:        level,
		Productivity: productivity,
		Completed:    completed,
	}
}

func TestSelectWindowsInsufficientData(t *testing.T) {
	history := []schema.EnergySample{
		windowSample(20, 9, schema.EnergyHigh, 8, true),
	}
	got := NewWindowSelector(7).SelectWindows(history)
	if len(got) != 0 {
		t.Fatalf("样本不足时应返回空列表, got %d", len(got))
	}
}

func TestSelectWindowsThresholds(t *testing.T) {
	// 9 点：平均能量 4、完成率 1 → 入选
	// 14 点：平均能量 2 → 能量不达标
	// 20 点：能量达标但完成率 0.5 → 完成率不达标
	history := []schema.EnergySample{}
	for day := 18; day < 22; day++ {
		history = append(history, windowSample(day, 9, schema.EnergyHigh, 8, true))
		history = append(history, windowSample(day, 14, schema.EnergyLow, 3, true))
	}
	history = append(history,
		windowSample(18, 20, schema.EnergyHigh, 7, true),
		windowSample(19, 20, schema.EnergyHigh, 7, false),
	)

	got := NewWindowSelector(7).SelectWindows(history)
	if len(got) != 1 {
		t.Fatalf("windows=%d, want 1: %+v", len(got), got)
	}
	w := got[0]
	if w.StartHour != 9 || w.EndHour != 10 {
		t.Fatalf("window=%d-%d, want 9-10", w.StartHour, w.EndHour)
	}
	if w.EnergyLevel != 4 {
		t.Fatalf("energyLevel=%v, want 4", w.EnergyLevel)
	}
}

func TestSelectWindowsSortedByEnergyDesc(t *testing.T) {
	history := []schema.EnergySample{}
	for day := 18; day < 22; day++ {
		history = append(history, windowSample(day, 9, schema.EnergyHigh, 8, true))
		history = append(history, windowSample(day, 21, schema.EnergyVeryHigh, 9, true))
	}

	got := NewWindowSelector(7).SelectWindows(history)
	if len(got) != 2 {
		t.Fatalf("windows=%d, want 2", len(got))
	}
	if got[0].StartHour != 21 || got[1].StartHour != 9 {
		t.Fatalf("排序应按能量降序: %+v", got)
	}
}

func TestSuitabilityScores(t *testing.T) {
	// 能量 4/5=80 分，效率 8/10=80 分 → 任意权重组合都是 80
	scores := suitabilityScores(4, 8)
	for taskType, score := range scores {
		if score != 80 {
			t.Fatalf("%s=%d, want 80", taskType, score)
		}
	}

	// 无效率数据：攻坚类 0.75*100=75，阅读类 0.35*100=35
	scores = suitabilityScores(5, 0)
	if scores[schema.TaskProblemSolving] != 75 {
		t.Fatalf("problem-solving=%d, want 75", scores[schema.TaskProblemSolving])
	}
	if scores[schema.TaskReading] != 35 {
		t.Fatalf("reading=%d, want 35", scores[schema.TaskReading])
	}

	// 上下限
	for _, score := range suitabilityScores(5, 10) {
		if score < 0 || score > 100 {
			t.Fatalf("score 越界: %d", score)
		}
	}
}

func TestTimeSlotContains(t *testing.T) {
	slot := TimeSlot{StartHour: 9, EndHour: 10}
	if !slot.Contains(9) {
		t.Fatal("9 点应在 [9,10) 内")
	}
	if slot.Contains(10) {
		t.Fatal("10 点不应在 [9,10) 内")
	}
}
