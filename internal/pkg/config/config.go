package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// Config 应用配置
type Config struct {
	App         AppConfig         `mapstructure:"app"`
	Storage     StorageConfig     `mapstructure:"storage"`
	Analysis    AnalysisConfig    `mapstructure:"analysis"`
	Suggestions SuggestionsConfig `mapstructure:"suggestions"`
	Learning    LearningConfig    `mapstructure:"learning"`
	Activities  ActivitiesConfig  `mapstructure:"activities"`
	Context     ContextConfig     `mapstructure:"context"`
	Scheduler   SchedulerConfig   `mapstructure:"scheduler"`
	AI          AIConfig          `mapstructure:"ai"`
}

// AppConfig 应用配置
type AppConfig struct {
	Name     string `mapstructure:"name"`
	Version  string `mapstructure:"version"`
	LogLevel string `mapstructure:"log_level"`
}

// StorageConfig 存储配置
type StorageConfig struct {
	DBPath     string `mapstructure:"db_path"`
	RecallPath string `mapstructure:"recall_path"` // 向量记忆存储目录
}

// AnalysisConfig 模式分析配置
type AnalysisConfig struct {
	MinDataPoints             int           `mapstructure:"min_data_points"`             // 模式分析最小样本数
	RescheduleEnergyThreshold int           `mapstructure:"reschedule_energy_threshold"` // 触发重排的能量阈值（1-5）
	Weights                   SignalWeights `mapstructure:"weights"`
}

// SignalWeights 各信号权重（约定总和为 1.0）
type SignalWeights struct {
	Energy      float64 `mapstructure:"energy"`
	Time        float64 `mapstructure:"time"`
	Environment float64 `mapstructure:"environment"`
	History     float64 `mapstructure:"history"`
}

// SuggestionsConfig 建议开关
type SuggestionsConfig struct {
	BreakSuggestions        bool `mapstructure:"break_suggestions"`
	DifficultyAdjustment    bool `mapstructure:"difficulty_adjustment"`
	SessionLengthAdaptation bool `mapstructure:"session_length_adaptation"`
	Notifications           bool `mapstructure:"notifications"`
	AutoReschedule          bool `mapstructure:"auto_reschedule"`
	MaxActive               int  `mapstructure:"max_active"` // 同时展示的建议上限
}

// LearningConfig 学习模式配置
type LearningConfig struct {
	Mode        string `mapstructure:"mode"`        // passive / active / aggressive
	Sensitivity string `mapstructure:"sensitivity"` // low / medium / high
}

// ActivitiesConfig 各能量档位的推荐活动列表
type ActivitiesConfig struct {
	LowEnergy    []string `mapstructure:"low_energy"`
	MediumEnergy []string `mapstructure:"medium_energy"`
	HighEnergy   []string `mapstructure:"high_energy"`
}

// ContextConfig 环境采样配置
type ContextConfig struct {
	PollIntervalSec int `mapstructure:"poll_interval_sec"`
}

// SchedulerConfig 周期任务间隔配置
type SchedulerConfig struct {
	SuggestionRefreshSec int `mapstructure:"suggestion_refresh_sec"`
	IdleCheckSec         int `mapstructure:"idle_check_sec"`
	CleanupSec           int `mapstructure:"cleanup_sec"`
	TimeCheckMin         int `mapstructure:"time_check_min"`
}

// AIConfig AI 配置
type AIConfig struct {
	DeepSeek    DeepSeekConfig    `mapstructure:"deepseek"`
	SiliconFlow SiliconFlowConfig `mapstructure:"siliconflow"`
}

// DeepSeekConfig DeepSeek 配置
type DeepSeekConfig struct {
	APIKey  string `mapstructure:"api_key"`
	BaseURL string `mapstructure:"base_url"`
	Model   string `mapstructure:"model"`
}

// SiliconFlowConfig SiliconFlow 配置
type SiliconFlowConfig struct {
	APIKey         string `mapstructure:"api_key"`
	BaseURL        string `mapstructure:"base_url"`
	EmbeddingModel string `mapstructure:"embedding_model"`
}

// Load 加载配置文件
func Load(configPath string) (*Config, error) {
	v := viper.New()

	// 设置默认值
	setDefaults(v)

	// 设置配置文件路径
	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		// 默认查找路径
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath("./config")
		v.AddConfigPath(".")
	}

	// 支持环境变量
	v.SetEnvPrefix("PULSE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// 读取配置文件
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			slog.Warn("配置文件未找到，使用默认配置")
		} else {
			return nil, fmt.Errorf("读取配置文件失败: %w", err)
		}
	} else {
		slog.Info("加载配置文件", "path", v.ConfigFileUsed())
	}

	// 解析配置
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("解析配置失败: %w", err)
	}

	// 处理环境变量占位符
	cfg.AI.DeepSeek.APIKey = expandEnv(cfg.AI.DeepSeek.APIKey)
	cfg.AI.SiliconFlow.APIKey = expandEnv(cfg.AI.SiliconFlow.APIKey)

	// 处理相对路径
	cfg.Storage.DBPath = resolvePath(cfg.Storage.DBPath)
	cfg.Storage.RecallPath = resolvePath(cfg.Storage.RecallPath)

	return &cfg, nil
}

// Default 返回默认配置（用于首次启动写盘）
func Default() *Config {
	v := viper.New()
	setDefaults(v)
	var cfg Config
	_ = v.Unmarshal(&cfg)
	return &cfg
}

// setDefaults 设置默认值
func setDefaults(v *viper.Viper) {
	// App
	v.SetDefault("app.name", "pulse-agent")
	v.SetDefault("app.version", "0.1.0")
	v.SetDefault("app.log_level", "info")

	// Storage
	v.SetDefault("storage.db_path", "./data/pulse.db")
	v.SetDefault("storage.recall_path", "./data/recall")

	// Analysis
	v.SetDefault("analysis.min_data_points", 7)
	v.SetDefault("analysis.reschedule_energy_threshold", 2)
	v.SetDefault("analysis.weights.energy", 0.4)
	v.SetDefault("analysis.weights.time", 0.3)
	v.SetDefault("analysis.weights.environment", 0.2)
	v.SetDefault("analysis.weights.history", 0.1)

	// Suggestions
	v.SetDefault("suggestions.break_suggestions", true)
	v.SetDefault("suggestions.difficulty_adjustment", true)
	v.SetDefault("suggestions.session_length_adaptation", true)
	v.SetDefault("suggestions.notifications", true)
	v.SetDefault("suggestions.auto_reschedule", false)
	v.SetDefault("suggestions.max_active", 5)

	// Learning
	v.SetDefault("learning.mode", "active")
	v.SetDefault("learning.sensitivity", "medium")

	// Activities
	v.SetDefault("activities.low_energy", []string{"整理笔记", "轻松阅读", "复盘错题"})
	v.SetDefault("activities.medium_energy", []string{"课程视频", "常规练习"})
	v.SetDefault("activities.high_energy", []string{"难题攻坚", "写作输出", "新知识学习"})

	// Context
	v.SetDefault("context.poll_interval_sec", 60)

	// Scheduler
	v.SetDefault("scheduler.suggestion_refresh_sec", 60)
	v.SetDefault("scheduler.idle_check_sec", 10)
	v.SetDefault("scheduler.cleanup_sec", 60)
	v.SetDefault("scheduler.time_check_min", 30)

	// AI
	v.SetDefault("ai.deepseek.base_url", "https://api.deepseek.com")
	v.SetDefault("ai.deepseek.model", "deepseek-chat")
	v.SetDefault("ai.siliconflow.base_url", "https://api.siliconflow.cn")
	v.SetDefault("ai.siliconflow.embedding_model", "BAAI/bge-m3")
}

// expandEnv 展开环境变量占位符 ${VAR}
func expandEnv(s string) string {
	if strings.HasPrefix(s, "${") && strings.HasSuffix(s, "}") {
		envVar := s[2 : len(s)-1]
		return os.Getenv(envVar)
	}
	return s
}

// resolvePath 解析相对路径为绝对路径
func resolvePath(path string) string {
	if path == "" || filepath.IsAbs(path) {
		return path
	}

	// 获取可执行文件目录
	exe, err := os.Executable()
	if err != nil {
		return path
	}

	exeDir := filepath.Dir(exe)
	return filepath.Join(exeDir, path)
}

// SetupLogger 根据配置设置日志级别
func SetupLogger(level string) {
	var logLevel slog.Level
	switch strings.ToLower(level) {
	case "debug":
		logLevel = slog.LevelDebug
	case "info":
		logLevel = slog.LevelInfo
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelInfo
	}

	handler := slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	})
	slog.SetDefault(slog.New(handler))
}
