package schema

import "time"

// SchemaMeta 记录当前数据库 schema 版本号，配合受控迁移使用，
// 不让升级流程只押在 AutoMigrate 上。全表只维护 ID=1 一行。
type SchemaMeta struct {
	ID            int       `gorm:"primaryKey"`
	SchemaVersion int       `gorm:"not null"`
	CreatedAt     time.Time `gorm:"autoCreateTime"`
	UpdatedAt     time.Time `gorm:"autoUpdateTime"`
}

func (SchemaMeta) TableName() string {
	return "schema_meta"
}
