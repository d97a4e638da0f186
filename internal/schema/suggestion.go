package schema

import "time"

// SuggestionStatus 建议的处理状态
type SuggestionStatus string

const (
	SuggestionPending   SuggestionStatus = "pending"
	SuggestionAccepted  SuggestionStatus = "accepted"
	SuggestionDismissed SuggestionStatus = "dismissed"
)

// SuggestionRecord 已下发建议的落库记录
// 核心生成逻辑是纯函数，落库仅用于 accept/dismiss 动作回放与到期清理。
type SuggestionRecord struct {
	ID          string           `gorm:"primaryKey;size:64" json:"id"` // 规则生成的稳定 ID
	Type        string           `gorm:"size:30;index" json:"type"`
	Priority    string           `gorm:"size:10" json:"priority"`
	Title       string           `gorm:"size:255" json:"title"`
	Description string           `gorm:"type:text" json:"description"`
	Status      SuggestionStatus `gorm:"size:15;index;default:pending" json:"status"`
	ExpiresAt   int64            `gorm:"index;default:0" json:"expires_at"` // Unix 时间戳（毫秒），0 表示不过期
	Metadata    JSONMap          `gorm:"type:text" json:"metadata,omitempty"`
	CreatedAt   time.Time        `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time        `gorm:"autoUpdateTime" json:"updated_at"`
}

// TableName 指定表名
func (SuggestionRecord) TableName() string {
	return "suggestion_records"
}
