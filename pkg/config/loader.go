package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/decker502/vibedefense/pkg/embedded"
)

// readConfigFile 读取配置文件
// "data/" 开头且已嵌入的路径从 embed.FS 读取，其余从磁盘读取
func readConfigFile(path string) ([]byte, error) {
	if embedded.IsInitialized() && strings.HasPrefix(path, "data/") && embedded.Exists(path) {
		return embedded.ReadFile(path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}
	return data, nil
}
