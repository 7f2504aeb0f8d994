package runner

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/decker502/vibedefense/pkg/types"
)

// TowerOrder 脚本中的一次放置
type TowerOrder struct {
	Type types.TowerType
	X, Y float64
}

// ParseTowerScript 解析放置脚本
//
// 格式: "basic@100,200;sniper@400,200"，空字符串返回空列表。
func ParseTowerScript(script string) ([]TowerOrder, error) {
	var orders []TowerOrder
	for _, item := range strings.Split(script, ";") {
		item = strings.TrimSpace(item)
		if item == "" {
			continue
		}

		name, pos, ok := strings.Cut(item, "@")
		if !ok {
			return nil, fmt.Errorf("tower order %q: missing '@'", item)
		}
		t, err := types.ParseTowerType(strings.TrimSpace(name))
		if err != nil {
			return nil, fmt.Errorf("tower order %q: %w", item, err)
		}

		xs, ys, ok := strings.Cut(pos, ",")
		if !ok {
			return nil, fmt.Errorf("tower order %q: position must be x,y", item)
		}
		x, err := strconv.ParseFloat(strings.TrimSpace(xs), 64)
		if err != nil {
			return nil, fmt.Errorf("tower order %q: bad x: %w", item, err)
		}
		y, err := strconv.ParseFloat(strings.TrimSpace(ys), 64)
		if err != nil {
			return nil, fmt.Errorf("tower order %q: bad y: %w", item, err)
		}
		orders = append(orders, TowerOrder{Type: t, X: x, Y: y})
	}
	return orders, nil
}
