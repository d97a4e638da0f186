package dto

// 注意：本包承载“对外契约”的 DTO（与前端/HTTP API 保持稳定）。
// 不要在这里放 GORM/持久化细节；内部持久化 schema 请见 internal/schema；业务逻辑收敛在 internal/service。

// RecordSampleRequest 记录能量样本的请求体
type RecordSampleRequest struct {
	Level        string `json:"level"`                   // very-low / low / medium / high / very-high
	SleepQuality string `json:"sleep_quality,omitempty"` // poor / fair / good
	Caffeine     bool   `json:"caffeine,omitempty"`
	Exercise     bool   `json:"exercise,omitempty"`
	MealState    string `json:"meal_state,omitempty"`   // hungry / normal / full
	StressLevel  string `json:"stress_level,omitempty"` // low / medium / high
	Productivity int    `json:"productivity,omitempty"` // 1-10
	Completed    bool   `json:"completed,omitempty"`
}

// CreateTaskRequest 创建学习任务的请求体
type CreateTaskRequest struct {
	Title string `json:"title"`
	Type  string `json:"type"` // problem-solving / creative / review / reading
	DueAt int64  `json:"due_at,omitempty"`
}

// FeedbackRequest 提交会话反馈的请求体
type FeedbackRequest struct {
	FocusRating int    `json:"focus_rating"` // 1-5
	EnergyAfter string `json:"energy_after,omitempty"`
	Note        string `json:"note,omitempty"`
}

// SuggestionActionRequest accept/dismiss 动作请求体（ID 经由 ?id= 查询参数）
type SuggestionActionRequest struct {
	Kind string `json:"kind"` // accept / dismiss
}

// RecallResponse 相似历史检索结果
type RecallResponse struct {
	Query string      `json:"query"`
	Hits  []RecallHit `json:"hits"`
}

// RecallHit 单条检索命中
type RecallHit struct {
	Date       string  `json:"date"`
	Content    string  `json:"content"`
	Similarity float32 `json:"similarity"`
}
