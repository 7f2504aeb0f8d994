package game

import (
	"fmt"
	"math"

	"github.com/decker502/vibedefense/pkg/config"
	"github.com/decker502/vibedefense/pkg/entities"
)

// ShopItem 商品及其已购买等级
type ShopItem struct {
	config.ShopItemConfig
	Level int
}

// Shop 全局强化商店
//
// 价格为 floor(cost * priceGrowth^level)，解锁 Power-Up Master 后再打折。
// 每次购买产生一个 entities.Effect，应用到所有现有防御塔，新放置的塔也会获得全部已购效果。
type Shop struct {
	cfg      *config.ShopConfig
	levels   map[string]int
	effects  []entities.Effect
	discount bool
}

// NewShop 创建商店
func NewShop(cfg *config.ShopConfig) *Shop {
	return &Shop{
		cfg:    cfg,
		levels: make(map[string]int),
	}
}

// SetDiscount 启用或关闭折扣
func (s *Shop) SetDiscount(enabled bool) {
	s.discount = enabled
}

// HasDiscount 是否已启用折扣
func (s *Shop) HasDiscount() bool {
	return s.discount
}

// Items 返回所有商品（按配置顺序）
func (s *Shop) Items() []ShopItem {
	items := make([]ShopItem, 0, len(s.cfg.Items))
	for _, it := range s.cfg.Items {
		items = append(items, ShopItem{ShopItemConfig: it, Level: s.levels[it.ID]})
	}
	return items
}

// Level 返回已购买等级
func (s *Shop) Level(id string) int {
	return s.levels[id]
}

// Effects 返回所有已购买的效果副本
func (s *Shop) Effects() []entities.Effect {
	out := make([]entities.Effect, len(s.effects))
	copy(out, s.effects)
	return out
}

// Price 返回下一级的价格
// 商品不存在返回 ErrUnknownShopItem，已满级返回 ErrMaxLevelReached
func (s *Shop) Price(id string) (int, error) {
	item, ok := s.cfg.Item(id)
	if !ok {
		return 0, fmt.Errorf("%w: %s", ErrUnknownShopItem, id)
	}
	level := s.levels[id]
	if level >= item.MaxLevel {
		return 0, fmt.Errorf("%s: %w", id, ErrMaxLevelReached)
	}

	price := math.Floor(float64(item.Cost) * math.Pow(s.cfg.PriceGrowth, float64(level)))
	if s.discount {
		price = math.Floor(price * (1 - s.cfg.Discount))
	}
	return int(price), nil
}

// Buy 购买一级，扣款成功后返回新效果和实际价格
func (s *Shop) Buy(id string, economy *Economy) (entities.Effect, int, error) {
	price, err := s.Price(id)
	if err != nil {
		return entities.Effect{}, 0, err
	}
	if err := economy.Spend(price); err != nil {
		return entities.Effect{}, 0, err
	}

	item, _ := s.cfg.Item(id)
	s.levels[id]++
	effect := entities.Effect{
		Source:                 item.ID,
		DamageMultiplier:       item.DamageMultiplier,
		RangeMultiplier:        item.RangeMultiplier,
		FireIntervalMultiplier: item.FireIntervalMultiplier,
		CritChance:             item.CritChance,
		ChainChance:            item.ChainChance,
	}
	s.effects = append(s.effects, effect)
	return effect, price, nil
}
