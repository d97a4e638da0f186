package service

import (
	"strings"
	"testing"
	"time"

	"github.com/yuqie6/StudyPulse/internal/schema"
)

func TestAnalyzeInsufficientData(t *testing.T) {
	now := time.Date(2026, 8, 24, 9, 0, 0, 0, time.Local)
	history := make([]schema.EnergySample, 0, 6)
	for i := 0; i < 6; i++ {
		history = append(history, sampleAt(now.AddDate(0, 0, -i), schema.EnergyHigh))
	}

	got := NewPatternAnalyzer(0).Analyze(history)
	if len(got) != 0 {
		t.Fatalf("样本不足时应返回空列表, got %d patterns", len(got))
	}
}

func TestAnalyzeDailySlots(t *testing.T) {
	// 连续 7 天每天 9 点记录 high
	base := time.Date(2026, 8, 18, 9, 0, 0, 0, time.Local)
	history := make([]schema.EnergySample, 0, 7)
	for i := 0; i < 7; i++ {
		history = append(history, sampleAt(base.AddDate(0, 0, i), schema.EnergyHigh))
	}

	patterns := NewPatternAnalyzer(7).Analyze(history)
	daily, ok := DailyPattern(patterns)
	if !ok {
		t.Fatalf("应存在日内模式: %+v", patterns)
	}
	if len(daily.Slots) != 1 {
		t.Fatalf("slots=%d, want 1", len(daily.Slots))
	}

	slot := daily.Slots[0]
	if slot.Key != 9 || slot.Label != "09:00" {
		t.Fatalf("slot key/label 不符: %+v", slot)
	}
	if slot.AverageEnergy != 4 {
		t.Fatalf("averageEnergy=%v, want 4 (high)", slot.AverageEnergy)
	}
	if slot.Confidence != 1 {
		t.Fatalf("confidence=%v, want 1 (7/7)", slot.Confidence)
	}
	if slot.SampleCount != 7 {
		t.Fatalf("sampleCount=%d, want 7", slot.SampleCount)
	}
}

func TestAnalyzeWeeklyConfidence(t *testing.T) {
	// 连续 7 天各记录一次：每个星期槽位的置信度 = 1/4
	base := time.Date(2026, 8, 18, 9, 0, 0, 0, time.Local)
	history := []schema.EnergySample{}
	for i := 0; i < 7; i++ {
		history = append(history, sampleAt(base.AddDate(0, 0, i), schema.EnergyMedium))
	}

	patterns := NewPatternAnalyzer(7).Analyze(history)
	if len(patterns) != 2 {
		t.Fatalf("应同时产出日内与每周模式, got %d", len(patterns))
	}

	weekly := patterns[1]
	if weekly.Type != PatternWeekly {
		t.Fatalf("type=%q, want weekly", weekly.Type)
	}
	if len(weekly.Slots) != 7 {
		t.Fatalf("weekly slots=%d, want 7", len(weekly.Slots))
	}
	for _, slot := range weekly.Slots {
		if slot.Confidence != 0.25 {
			t.Fatalf("confidence=%v, want 0.25 (1/4): %+v", slot.Confidence, slot)
		}
	}
}

func TestPeakSlotPicksHighestAverage(t *testing.T) {
	slots := []PatternSlot{
		{Key: 9, Label: "09:00", AverageEnergy: 3.5},
		{Key: 21, Label: "21:00", AverageEnergy: 4.2},
		{Key: 14, Label: "14:00", AverageEnergy: 2.0},
	}

	peak, ok := peakSlot(slots)
	if !ok || peak.Key != 21 {
		t.Fatalf("peak=%+v ok=%v, want key 21", peak, ok)
	}

	recs := dailyRecommendations(slots)
	if len(recs) != 2 || !strings.Contains(recs[0], "21:00") {
		t.Fatalf("推荐应指向高峰槽位: %v", recs)
	}
}

func TestPeakSlotTieKeepsFirst(t *testing.T) {
	slots := []PatternSlot{
		{Key: 8, AverageEnergy: 4},
		{Key: 20, AverageEnergy: 4},
	}
	peak, _ := peakSlot(slots)
	if peak.Key != 8 {
		t.Fatalf("平均值相同时应取序号较小者, got %d", peak.Key)
	}
}
