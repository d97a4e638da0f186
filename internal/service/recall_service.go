package service

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"

	chromem "github.com/philippgille/chromem-go"
)

// RecallService 洞察记忆服务 - 把每日画像摘要写入本地向量库，
// 支持"找出和今天状态相似的过去几天"这类检索。
type RecallService struct {
	db          *chromem.DB
	collection  *chromem.Collection
	embedder    Embedder
	storagePath string
}

// RecallConfig 配置
type RecallConfig struct {
	StoragePath string // 向量数据库存储路径
}

// RecallHit 一条检索结果
type RecallHit struct {
	Date       string  `json:"date"`
	Content    string  `json:"content"`
	Similarity float32 `json:"similarity"`
}

// NewRecallService 创建洞察记忆服务
func NewRecallService(embedder Embedder, cfg *RecallConfig) (*RecallService, error) {
	if cfg == nil {
		cfg = &RecallConfig{}
	}
	if cfg.StoragePath == "" {
		cfg.StoragePath = "./data/recall"
	}

	// 确保目录存在
	if err := os.MkdirAll(cfg.StoragePath, 0755); err != nil {
		return nil, fmt.Errorf("创建记忆存储目录失败: %w", err)
	}

	db, err := chromem.NewPersistentDB(cfg.StoragePath, false)
	if err != nil {
		return nil, fmt.Errorf("创建向量数据库失败: %w", err)
	}

	collection, err := db.GetOrCreateCollection("insights", nil, nil)
	if err != nil {
		return nil, fmt.Errorf("创建 collection 失败: %w", err)
	}

	return &RecallService{
		db:          db,
		collection:  collection,
		embedder:    embedder,
		storagePath: cfg.StoragePath,
	}, nil
}

// IndexReport 将某日的画像摘要写入向量库（date 格式 YYYY-MM-DD）
func (s *RecallService) IndexReport(ctx context.Context, date string, report *ProfileReport) error {
	if s.embedder == nil || !s.embedder.IsConfigured() {
		slog.Debug("嵌入服务未配置，跳过洞察索引")
		return nil
	}
	if report == nil {
		return fmt.Errorf("report 不能为空")
	}

	content := reportDigest(date, report)

	embeddings, err := s.embedder.Embed(ctx, []string{content})
	if err != nil {
		return fmt.Errorf("生成嵌入失败: %w", err)
	}
	if len(embeddings) == 0 || len(embeddings[0]) == 0 {
		return fmt.Errorf("嵌入结果为空")
	}

	doc := chromem.Document{
		ID:        fmt.Sprintf("report_%s", date),
		Content:   content,
		Embedding: embeddings[0],
		Metadata: map[string]string{
			"type": "profile_report",
			"date": date,
		},
	}

	if err := s.collection.AddDocument(ctx, doc); err != nil {
		return fmt.Errorf("添加文档失败: %w", err)
	}

	slog.Debug("索引画像摘要", "date", date)
	return nil
}

// Recall 按自然语言查询相似的历史画像
func (s *RecallService) Recall(ctx context.Context, query string, topK int) ([]RecallHit, error) {
	if s.embedder == nil || !s.embedder.IsConfigured() {
		return nil, fmt.Errorf("嵌入服务未配置")
	}
	if topK <= 0 {
		topK = 3
	}
	if s.collection.Count() == 0 {
		return nil, nil
	}
	if topK > s.collection.Count() {
		topK = s.collection.Count()
	}

	embeddings, err := s.embedder.Embed(ctx, []string{query})
	if err != nil {
		return nil, fmt.Errorf("生成查询嵌入失败: %w", err)
	}
	if len(embeddings) == 0 {
		return nil, fmt.Errorf("查询嵌入为空")
	}

	results, err := s.collection.QueryEmbedding(ctx, embeddings[0], topK, nil, nil)
	if err != nil {
		return nil, fmt.Errorf("向量检索失败: %w", err)
	}

	hits := make([]RecallHit, 0, len(results))
	for _, r := range results {
		hits = append(hits, RecallHit{
			Date:       r.Metadata["date"],
			Content:    r.Content,
			Similarity: r.Similarity,
		})
	}
	return hits, nil
}

// reportDigest 构建用于嵌入的画像摘要文本
func reportDigest(date string, report *ProfileReport) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "日期: %s\n", date)
	fmt.Fprintf(&sb, "作息画像: %s\n", report.Persona.Type)
	fmt.Fprintf(&sb, "样本数: %d\n", report.SampleCount)
	fmt.Fprintf(&sb, "专注度: %.0f 完成率: %.0f 稳定性: %.0f\n",
		report.Metrics.FocusScore, report.Metrics.CompletionRate, report.Metrics.ConsistencyScore)
	if len(report.Insights) > 0 {
		fmt.Fprintf(&sb, "洞察: %s\n", strings.Join(report.Insights, "；"))
	}
	if report.AIInsight != "" {
		fmt.Fprintf(&sb, "AI 洞察: %s\n", report.AIInsight)
	}
	return sb.String()
}
