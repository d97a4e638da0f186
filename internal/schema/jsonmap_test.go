package schema

import "testing"

func TestJSONMapRoundTrip(t *testing.T) {
	meta := make(JSONMap)
	SetString(meta, "device_class", "laptop")
	SetString(meta, "blank", "   ") // 空白等价于删除

	v, err := meta.Value()
	if err != nil {
		t.Fatalf("Value: %v", err)
	}

	var got JSONMap
	if err := got.Scan(v); err != nil {
		t.Fatalf("Scan: %v", err)
	}
	if GetString(got, "device_class") != "laptop" {
		t.Fatalf("device_class=%q, want laptop", GetString(got, "device_class"))
	}
	if GetString(got, "blank") != "" {
		t.Fatalf("空白字段不应写入: %+v", got)
	}
}

func TestJSONMapNilSafety(t *testing.T) {
	var nilMap JSONMap
	v, err := nilMap.Value()
	if err != nil || v != "{}" {
		t.Fatalf("nil map 应序列化为 {}: v=%v err=%v", v, err)
	}

	if GetString(nil, "any") != "" {
		t.Fatal("nil map 读取应返回空串")
	}
	SetString(nil, "any", "x") // 不应 panic

	var scanned JSONMap
	if err := scanned.Scan(nil); err != nil {
		t.Fatalf("Scan(nil): %v", err)
	}
	if scanned == nil {
		t.Fatal("Scan(nil) 后应为空 map 而非 nil")
	}
}
