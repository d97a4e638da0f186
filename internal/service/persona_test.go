package service

import "testing"

func dailyWith(slots ...PatternSlot) []Pattern {
	return []Pattern{{Type: PatternDaily, Slots: slots}}
}

func TestClassifyPersonaInconsistent(t *testing.T) {
	got := ClassifyPersona(nil)
	if got.Type != PersonaInconsistent {
		t.Fatalf("type=%q, want inconsistent", got.Type)
	}
	if got.Confidence != 0.1 {
		t.Fatalf("confidence=%v, want 0.1", got.Confidence)
	}
	if got.Description == "" || len(got.Recommendations) == 0 {
		t.Fatalf("描述与建议不能为空: %+v", got)
	}
}

func TestClassifyPersonaEarlyBird(t *testing.T) {
	got := ClassifyPersona(dailyWith(
		PatternSlot{Key: 7, AverageEnergy: 4.5},
		PatternSlot{Key: 9, AverageEnergy: 4.0},
		PatternSlot{Key: 20, AverageEnergy: 3.0},
	))
	if got.Type != PersonaEarlyBird {
		t.Fatalf("type=%q, want early-bird", got.Type)
	}
	if got.Confidence != 0.8 {
		t.Fatalf("confidence=%v, want 0.8", got.Confidence)
	}
}

func TestClassifyPersonaNightOwl(t *testing.T) {
	got := ClassifyPersona(dailyWith(
		PatternSlot{Key: 8, AverageEnergy: 2.5},
		PatternSlot{Key: 21, AverageEnergy: 4.5},
	))
	if got.Type != PersonaNightOwl {
		t.Fatalf("type=%q, want night-owl", got.Type)
	}
}

func TestClassifyPersonaFlexible(t *testing.T) {
	// 早晚差 0.4，不超过 0.5 的阈值
	got := ClassifyPersona(dailyWith(
		PatternSlot{Key: 8, AverageEnergy: 3.6},
		PatternSlot{Key: 20, AverageEnergy: 3.2},
	))
	if got.Type != PersonaFlexible {
		t.Fatalf("type=%q, want flexible", got.Type)
	}
	if got.Confidence != 0.7 {
		t.Fatalf("confidence=%v, want 0.7", got.Confidence)
	}
}

func TestBandAverageInclusiveBounds(t *testing.T) {
	slots := []PatternSlot{
		{Key: 6, AverageEnergy: 4},  // 上午段下界
		{Key: 10, AverageEnergy: 2}, // 上午段上界
		{Key: 11, AverageEnergy: 5}, // 段外
	}
	got := bandAverage(slots, morningStartHour, morningEndHour)
	if got != 3 {
		t.Fatalf("bandAverage=%v, want 3（6 点与 10 点均计入，除以命中数 2）", got)
	}

	if v := bandAverage(slots, eveningStartHour, eveningEndHour); v != 0 {
		t.Fatalf("无命中槽位时应返回 0, got %v", v)
	}
}
