package schema

import "time"

// EnergyLevel 用户自评能量等级（五档）
type EnergyLevel string

const (
	EnergyVeryLow  EnergyLevel = "very-low"
	EnergyLow      EnergyLevel = "low"
	EnergyMedium   EnergyLevel = "medium"
	EnergyHigh     EnergyLevel = "high"
	EnergyVeryHigh EnergyLevel = "very-high"
)

// Value 将能量等级映射为 1-5 的整数值（very-low=1 ... very-high=5）。
// 未知取值按约定属于调用方契约违例，返回 0。
func (l EnergyLevel) Value() int {
	switch l {
	case EnergyVeryLow:
		return 1
	case EnergyLow:
		return 2
	case EnergyMedium:
		return 3
	case EnergyHigh:
		return 4
	case EnergyVeryHigh:
		return 5
	}
	return 0
}

// ParseEnergyLevel 校验并解析能量等级字符串
func ParseEnergyLevel(s string) (EnergyLevel, bool) {
	switch EnergyLevel(s) {
	case EnergyVeryLow, EnergyLow, EnergyMedium, EnergyHigh, EnergyVeryHigh:
		return EnergyLevel(s), true
	}
	return "", false
}

// IsLowBand 是否属于低能量档（low / very-low）
func (l EnergyLevel) IsLowBand() bool {
	return l == EnergyLow || l == EnergyVeryLow
}

// IsHighBand 是否属于高能量档（high / very-high）
func (l EnergyLevel) IsHighBand() bool {
	return l == EnergyHigh || l == EnergyVeryHigh
}

// EnergySample 能量观测样本 - 记录一次用户自评
// 数据量级：百级/月（30 天滚动窗口）
type EnergySample struct {
	ID           int64       `gorm:"primaryKey;autoIncrement" json:"id"`
	Timestamp    int64       `gorm:"index" json:"timestamp"`              // Unix 时间戳（毫秒）
	Level        EnergyLevel `gorm:"size:20;index" json:"level"`          // 能量等级
	SleepQuality string      `gorm:"size:20" json:"sleep_quality"`        // poor / fair / good（可空）
	Caffeine     bool        `gorm:"default:false" json:"caffeine"`       // 近期是否摄入咖啡因
	Exercise     bool        `gorm:"default:false" json:"exercise"`       // 近期是否运动
	MealState    string      `gorm:"size:20" json:"meal_state"`           // hungry / normal / full（可空）
	StressLevel  string      `gorm:"size:20" json:"stress_level"`         // low / medium / high（可空）
	Productivity int         `gorm:"default:0" json:"productivity"`       // 自评效率 1-10，0 表示未填写
	Completed    bool        `gorm:"default:false" json:"completed"`      // 当次学习会话是否完成
	Metadata     JSONMap     `gorm:"type:text" json:"metadata,omitempty"` // 扩展字段（设备、记录来源）
	CreatedAt    time.Time   `gorm:"autoCreateTime" json:"created_at"`
}

// TableName 指定表名
func (EnergySample) TableName() string {
	return "energy_samples"
}

// Time 返回样本的本地时间
func (s EnergySample) Time() time.Time {
	return time.UnixMilli(s.Timestamp)
}
