package schema

import "time"

// TaskType 学习任务类型
type TaskType string

const (
	TaskProblemSolving TaskType = "problem-solving"
	TaskCreative       TaskType = "creative"
	TaskReview         TaskType = "review"
	TaskReading        TaskType = "reading"
)

// ParseTaskType 校验并解析任务类型字符串
func ParseTaskType(s string) (TaskType, bool) {
	switch TaskType(s) {
	case TaskProblemSolving, TaskCreative, TaskReview, TaskReading:
		return TaskType(s), true
	}
	return "", false
}

// StudyTask 学习任务
type StudyTask struct {
	ID        int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	Title     string    `gorm:"size:255" json:"title"`
	Type      TaskType  `gorm:"size:30;index" json:"type"`
	Completed bool      `gorm:"default:false;index" json:"completed"`
	DueAt     int64     `gorm:"default:0" json:"due_at"` // Unix 时间戳（毫秒），0 表示无截止
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// TableName 指定表名
func (StudyTask) TableName() string {
	return "study_tasks"
}

// IsChallenging 是否属于高认知负荷任务（适合高能量时段）
func (t StudyTask) IsChallenging() bool {
	return t.Type == TaskProblemSolving || t.Type == TaskCreative
}
