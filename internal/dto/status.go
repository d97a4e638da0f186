package dto

// StatusDTO 运行状态诊断信息
type StatusDTO struct {
	App     AppStatusDTO     `json:"app"`
	Storage StorageStatusDTO `json:"storage"`
	Context ContextStatusDTO `json:"context"`
	Samples SampleStatusDTO  `json:"samples"`
}

type AppStatusDTO struct {
	Name       string `json:"name"`
	Version    string `json:"version"`
	StartedAt  string `json:"started_at"`
	UptimeSec  int64  `json:"uptime_sec"`
	SafeMode   bool   `json:"safe_mode"`
	ConfigPath string `json:"config_path,omitempty"`
}

type StorageStatusDTO struct {
	DBPath         string `json:"db_path"`
	SchemaVersion  int    `json:"schema_version"`
	SafeModeReason string `json:"safe_mode_reason,omitempty"`
}

type ContextStatusDTO struct {
	Online       bool   `json:"online"`
	BatteryLevel int    `json:"battery_level"`
	BatteryKnown bool   `json:"battery_known"`
	DeviceClass  string `json:"device_class"`
	PolledAt     int64  `json:"polled_at"`
}

type SampleStatusDTO struct {
	Total       int64 `json:"total"`
	WindowCount int   `json:"window_count"` // 30 天窗口内的样本数
}
