//go:build !mobile

package mobile

// Dummy 在桌面构建中保留包的导出符号，使 go build ./... 不会因为
// 所有文件都被 mobile 标签排除而报错。
func Dummy() {}
