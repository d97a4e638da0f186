package ai

import (
	"context"
	"fmt"
	"strings"
)

// InsightRequest 洞察生成所需的画像摘要数据
type InsightRequest struct {
	Persona          string   // 作息画像类型
	PersonaDesc      string   // 画像描述
	SampleCount      int      // 30 天窗口内样本数
	PeakHourLabel    string   // 能量高峰时段（可空）
	PeakWeekday      string   // 每周高峰（可空）
	OptimalWindows   []string // 最优窗口文本，如 "09:00-10:00"
	FocusScore       float64
	CompletionRate   float64
	ConsistencyScore float64
}

// InsightAnalyzer 基于 LLM 的学习洞察生成器
type InsightAnalyzer struct {
	client *DeepSeekClient
}

// NewInsightAnalyzer 创建洞察生成器
func NewInsightAnalyzer(client *DeepSeekClient) *InsightAnalyzer {
	return &InsightAnalyzer{client: client}
}

const insightSystemPrompt = `你是一个学习效率教练。根据用户的能量记录统计，用中文给出一段不超过 200 字的每周洞察：
1. 先概括作息画像与能量高峰；
2. 指出一个最值得保持的习惯；
3. 给出一条下周可执行的具体调整建议。
语气务实，不要空洞鼓励。`

// GenerateInsight 生成自然语言周度洞察
func (a *InsightAnalyzer) GenerateInsight(ctx context.Context, req *InsightRequest) (string, error) {
	if a == nil || !a.client.IsConfigured() {
		return "", fmt.Errorf("AI 客户端未配置")
	}
	if req == nil {
		return "", fmt.Errorf("req 不能为空")
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "作息画像: %s（%s）\n", req.Persona, req.PersonaDesc)
	fmt.Fprintf(&sb, "30 天样本数: %d\n", req.SampleCount)
	if req.PeakHourLabel != "" {
		fmt.Fprintf(&sb, "能量高峰时段: %s\n", req.PeakHourLabel)
	}
	if req.PeakWeekday != "" {
		fmt.Fprintf(&sb, "每周状态最好: %s\n", req.PeakWeekday)
	}
	if len(req.OptimalWindows) > 0 {
		fmt.Fprintf(&sb, "最优学习窗口: %s\n", strings.Join(req.OptimalWindows, ", "))
	}
	fmt.Fprintf(&sb, "专注度 %.0f / 完成率 %.0f / 稳定性 %.0f\n",
		req.FocusScore, req.CompletionRate, req.ConsistencyScore)

	return a.client.Chat(ctx, []Message{
		{Role: "system", Content: insightSystemPrompt},
		{Role: "user", Content: sb.String()},
	})
}
