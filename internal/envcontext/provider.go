package envcontext

import "time"

// Provider 环境信号提供者。核心逻辑禁止直接读取系统全局状态，
// 统一通过该接口注入（便于测试与多宿主实现）。
type Provider interface {
	// Now 返回当前时间
	Now() time.Time
	// IsOnline 返回网络连通状态
	IsOnline() bool
	// BatteryLevel 返回电量百分比；不可用时 ok=false
	BatteryLevel() (level int, ok bool)
	// DeviceClass 返回粗粒度设备类型：laptop / desktop
	DeviceClass() string
}

// Snapshot 一次环境采样结果
type Snapshot struct {
	Timestamp    int64  `json:"timestamp"` // Unix 时间戳（毫秒）
	Online       bool   `json:"online"`
	BatteryLevel int    `json:"battery_level"` // 0-100，未知时为 0
	BatteryKnown bool   `json:"battery_known"`
	DeviceClass  string `json:"device_class"`
}

// Time 返回采样的本地时间
func (s Snapshot) Time() time.Time {
	return time.UnixMilli(s.Timestamp)
}

// Hour 返回采样时刻的本地小时（0-23）
func (s Snapshot) Hour() int {
	return s.Time().Hour()
}

// Capture 用 Provider 生成一次快照
func Capture(p Provider) Snapshot {
	level, known := p.BatteryLevel()
	return Snapshot{
		Timestamp:    p.Now().UnixMilli(),
		Online:       p.IsOnline(),
		BatteryLevel: level,
		BatteryKnown: known,
		DeviceClass:  p.DeviceClass(),
	}
}
