package envcontext

import (
	"net"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

const powerSupplyDir = "/sys/class/power_supply"

// HostProvider 读取宿主机真实信号的 Provider 实现
type HostProvider struct{}

// NewHostProvider 创建宿主 Provider
func NewHostProvider() *HostProvider {
	return &HostProvider{}
}

// Now 返回当前时间
func (p *HostProvider) Now() time.Time {
	return time.Now()
}

// IsOnline 通过是否存在已启用的非回环网卡（且配有地址）判断连通性。
// 不做真实外网探测，避免周期性打点产生流量。
func (p *HostProvider) IsOnline() bool {
	ifaces, err := net.Interfaces()
	if err != nil {
		return false
	}
	for _, iface := range ifaces {
		if iface.Flags&net.FlagUp == 0 || iface.Flags&net.FlagLoopback != 0 {
			continue
		}
		addrs, err := iface.Addrs()
		if err != nil || len(addrs) == 0 {
			continue
		}
		return true
	}
	return false
}

// BatteryLevel 从 /sys/class/power_supply 读取第一块电池的电量
func (p *HostProvider) BatteryLevel() (int, bool) {
	entries, err := os.ReadDir(powerSupplyDir)
	if err != nil {
		return 0, false
	}

	for _, entry := range entries {
		if !strings.HasPrefix(entry.Name(), "BAT") {
			continue
		}
		raw, err := os.ReadFile(filepath.Join(powerSupplyDir, entry.Name(), "capacity"))
		if err != nil {
			continue
		}
		level, err := strconv.Atoi(strings.TrimSpace(string(raw)))
		if err != nil {
			continue
		}
		if level < 0 {
			level = 0
		}
		if level > 100 {
			level = 100
		}
		return level, true
	}

	return 0, false
}

// DeviceClass 有电池视为 laptop，否则 desktop
func (p *HostProvider) DeviceClass() string {
	if _, ok := p.BatteryLevel(); ok {
		return "laptop"
	}
	return "desktop"
}
