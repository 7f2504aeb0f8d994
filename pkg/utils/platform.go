package utils

import "os"

// MobileEmulateEnv 设为 "1" 时桌面端也按触屏设备处理（本地调试用）
const MobileEmulateEnv = "TD_MOBILE_EMULATE"

// IsMobile 是否按触屏设备处理：移动端构建，或设置了 MobileEmulateEnv
func IsMobile() bool {
	return mobileBuild || os.Getenv(MobileEmulateEnv) == "1"
}
