package repository

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/glebarez/sqlite" // 纯 Go SQLite 驱动
	"github.com/yuqie6/StudyPulse/internal/schema"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// latestSchemaVersion 当前程序期望的表结构版本
const latestSchemaVersion = 1

// Database 数据库管理器。迁移失败时置 SafeMode，让上层降级为只读访问。
type Database struct {
	DB             *gorm.DB
	SafeMode       bool
	SchemaVersion  int
	MigrationError string
}

// NewDatabase 打开（必要时创建）数据库并完成受版本控制的迁移
func NewDatabase(dbPath string) (*Database, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("创建数据目录失败: %w", err)
	}

	// WAL 允许轮询任务与 API 请求并发读写；busy_timeout 吸收偶发的写锁竞争
	dsn := dbPath + "?_pragma=journal_mode(WAL)&_pragma=synchronous(NORMAL)&_pragma=busy_timeout(5000)"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("连接数据库失败: %w", err)
	}

	d := &Database{DB: db}
	if err := d.migrate(); err != nil {
		// 迁移失败不拒绝启动：进入安全模式，保留诊断信息供 /api/status 导出
		d.SafeMode = true
		d.MigrationError = err.Error()
		slog.Error("数据库迁移失败，进入安全模式", "error", err)
	} else {
		slog.Info("数据库初始化成功", "path", dbPath, "schema_version", d.SchemaVersion)
	}

	return d, nil
}

// migrate 以 schema_meta 中的版本号为门闸执行 AutoMigrate
func (d *Database) migrate() error {
	// schema_meta 先行创建，保证后续迁移失败时仍能记录状态
	if err := d.DB.AutoMigrate(&schema.SchemaMeta{}); err != nil {
		return fmt.Errorf("创建 schema_meta 失败: %w", err)
	}

	var meta schema.SchemaMeta
	if err := d.DB.First(&meta, 1).Error; err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("读取 schema_meta 失败: %w", err)
		}
		meta = schema.SchemaMeta{ID: 1, SchemaVersion: 0}
		if err := d.DB.Create(&meta).Error; err != nil {
			return fmt.Errorf("初始化 schema_meta 失败: %w", err)
		}
	}

	d.SchemaVersion = meta.SchemaVersion
	switch {
	case meta.SchemaVersion > latestSchemaVersion:
		return fmt.Errorf("数据库 schema_version=%d 高于当前程序支持的版本=%d", meta.SchemaVersion, latestSchemaVersion)
	case meta.SchemaVersion == latestSchemaVersion:
		return nil
	}

	err := d.DB.AutoMigrate(
		&schema.EnergySample{},
		&schema.StudyTask{},
		&schema.SessionFeedback{},
		&schema.SuggestionRecord{},
	)
	if err != nil {
		return fmt.Errorf("迁移数据库失败: %w", err)
	}

	meta.SchemaVersion = latestSchemaVersion
	if err := d.DB.Save(&meta).Error; err != nil {
		return fmt.Errorf("写入 schema_meta 失败: %w", err)
	}
	d.SchemaVersion = latestSchemaVersion
	return nil
}

// Close 关闭数据库连接
func (d *Database) Close() error {
	sqlDB, err := d.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
