package config

import (
	"math"
	"path/filepath"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := Default()

	if cfg.App.Name != "pulse-agent" {
		t.Fatalf("app.name=%q", cfg.App.Name)
	}
	if cfg.Analysis.MinDataPoints != 7 {
		t.Fatalf("min_data_points=%d, want 7", cfg.Analysis.MinDataPoints)
	}
	if cfg.Suggestions.MaxActive != 5 {
		t.Fatalf("max_active=%d, want 5", cfg.Suggestions.MaxActive)
	}
	if !cfg.Suggestions.BreakSuggestions || !cfg.Suggestions.DifficultyAdjustment {
		t.Fatalf("建议开关默认应开启: %+v", cfg.Suggestions)
	}
	// 浮点累加有舍入误差（0.4+0.3+0.2+0.1 ≠ 精确 1.0），按容差比较
	w := cfg.Analysis.Weights
	if sum := w.Energy + w.Time + w.Environment + w.History; math.Abs(sum-1.0) > 1e-9 {
		t.Fatalf("信号权重之和应为 1.0，实际 %v: %+v", sum, w)
	}
	if len(cfg.Activities.HighEnergy) == 0 {
		t.Fatal("默认高能量活动列表不应为空")
	}
}

func TestWriteAndLoadRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")

	src := Default()
	src.App.LogLevel = "debug"
	src.Analysis.MinDataPoints = 10
	src.Suggestions.MaxActive = 3
	src.Storage.DBPath = filepath.Join(dir, "pulse.db") // 绝对路径不做二次解析

	if err := WriteFile(path, src); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	got, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got.App.LogLevel != "debug" {
		t.Fatalf("log_level=%q, want debug", got.App.LogLevel)
	}
	if got.Analysis.MinDataPoints != 10 {
		t.Fatalf("min_data_points=%d, want 10", got.Analysis.MinDataPoints)
	}
	if got.Suggestions.MaxActive != 3 {
		t.Fatalf("max_active=%d, want 3", got.Suggestions.MaxActive)
	}
	if got.Storage.DBPath != src.Storage.DBPath {
		t.Fatalf("db_path=%q, want %q", got.Storage.DBPath, src.Storage.DBPath)
	}
}
