package schema

import "time"

// SessionFeedback 学习会话后的主观反馈
type SessionFeedback struct {
	ID          int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	Timestamp   int64     `gorm:"index" json:"timestamp"`          // Unix 时间戳（毫秒）
	FocusRating int       `gorm:"default:0" json:"focus_rating"`   // 专注度自评 1-5
	EnergyAfter string    `gorm:"size:20" json:"energy_after"`     // 会话后能量等级（可空）
	Note        string    `gorm:"type:text" json:"note,omitempty"` // 备注
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"created_at"`
}

// TableName 指定表名
func (SessionFeedback) TableName() string {
	return "session_feedbacks"
}
