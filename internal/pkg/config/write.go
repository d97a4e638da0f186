package config

import (
	"fmt"
	"os"
	"path/filepath"

	"go.yaml.in/yaml/v3"
)

func DefaultConfigPath() (string, error) {
	exe, err := os.Executable()
	if err != nil {
		return "", fmt.Errorf("获取可执行文件路径失败: %w", err)
	}
	exeDir := filepath.Dir(exe)
	return filepath.Join(exeDir, "config", "config.yaml"), nil
}

func WriteFile(path string, cfg *Config) error {
	if cfg == nil {
		return fmt.Errorf("cfg 不能为空")
	}
	if path == "" {
		return fmt.Errorf("path 不能为空")
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("创建配置目录失败: %w", err)
	}

	payload := map[string]any{
		"app": map[string]any{
			"name":      cfg.App.Name,
			"version":   cfg.App.Version,
			"log_level": cfg.App.LogLevel,
		},
		"storage": map[string]any{
			"db_path":     cfg.Storage.DBPath,
			"recall_path": cfg.Storage.RecallPath,
		},
		"analysis": map[string]any{
			"min_data_points":             cfg.Analysis.MinDataPoints,
			"reschedule_energy_threshold": cfg.Analysis.RescheduleEnergyThreshold,
			"weights": map[string]any{
				"energy":      cfg.Analysis.Weights.Energy,
				"time":        cfg.Analysis.Weights.Time,
				"environment": cfg.Analysis.Weights.Environment,
				"history":     cfg.Analysis.Weights.History,
			},
		},
		"suggestions": map[string]any{
			"break_suggestions":         cfg.Suggestions.BreakSuggestions,
			"difficulty_adjustment":     cfg.Suggestions.DifficultyAdjustment,
			"session_length_adaptation": cfg.Suggestions.SessionLengthAdaptation,
			"notifications":             cfg.Suggestions.Notifications,
			"auto_reschedule":           cfg.Suggestions.AutoReschedule,
			"max_active":                cfg.Suggestions.MaxActive,
		},
		"learning": map[string]any{
			"mode":        cfg.Learning.Mode,
			"sensitivity": cfg.Learning.Sensitivity,
		},
		"activities": map[string]any{
			"low_energy":    cfg.Activities.LowEnergy,
			"medium_energy": cfg.Activities.MediumEnergy,
			"high_energy":   cfg.Activities.HighEnergy,
		},
		"context": map[string]any{
			"poll_interval_sec": cfg.Context.PollIntervalSec,
		},
		"scheduler": map[string]any{
			"suggestion_refresh_sec": cfg.Scheduler.SuggestionRefreshSec,
			"idle_check_sec":         cfg.Scheduler.IdleCheckSec,
			"cleanup_sec":            cfg.Scheduler.CleanupSec,
			"time_check_min":         cfg.Scheduler.TimeCheckMin,
		},
		"ai": map[string]any{
			"deepseek": map[string]any{
				"api_key":  cfg.AI.DeepSeek.APIKey,
				"base_url": cfg.AI.DeepSeek.BaseURL,
				"model":    cfg.AI.DeepSeek.Model,
			},
			"siliconflow": map[string]any{
				"api_key":         cfg.AI.SiliconFlow.APIKey,
				"base_url":        cfg.AI.SiliconFlow.BaseURL,
				"embedding_model": cfg.AI.SiliconFlow.EmbeddingModel,
			},
		},
	}

	b, err := yaml.Marshal(payload)
	if err != nil {
		return fmt.Errorf("序列化配置失败: %w", err)
	}

	if err := os.WriteFile(path, b, 0o600); err != nil {
		return fmt.Errorf("写入配置文件失败: %w", err)
	}
	return nil
}
