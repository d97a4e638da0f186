package schema

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"strings"
)

// JSONMap 用于存储 JSON 格式的元数据
type JSONMap map[string]interface{}

// Value 实现 driver.Valuer 接口
func (j JSONMap) Value() (driver.Value, error) {
	if j == nil {
		return "{}", nil
	}
	return json.Marshal(j)
}

// Scan 实现 sql.Scanner 接口
func (j *JSONMap) Scan(value interface{}) error {
	if value == nil {
		*j = make(JSONMap)
		return nil
	}

	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		return errors.New("invalid type for JSONMap")
	}

	return json.Unmarshal(bytes, j)
}

// GetString 读取字符串字段（缺失或类型不符返回空串）
func GetString(meta JSONMap, key string) string {
	if meta == nil {
		return ""
	}
	if s, ok := meta[key].(string); ok {
		return strings.TrimSpace(s)
	}
	return ""
}

// SetString 写入字符串字段，空值等价于删除
func SetString(meta JSONMap, key, value string) {
	if meta == nil {
		return
	}
	if strings.TrimSpace(value) == "" {
		delete(meta, key)
		return
	}
	meta[key] = value
}
