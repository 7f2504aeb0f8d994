package game

import (
	"errors"
	"testing"

	"github.com/decker502/vibedefense/pkg/event"
)

func TestShopPrice(t *testing.T) {
	tests := []struct {
		name     string
		discount bool
		expected []int
	}{
		{"原价", false, []int{200, 300, 450}},
		{"Power-Up Master 折扣", true, []int{150, 225, 337}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			shop := NewShop(loadTestConfigs(t).shop)
			shop.SetDiscount(tt.discount)
			econ := NewEconomy(event.NewBus(), 10000, 20)

			for i, want := range tt.expected {
				price, err := shop.Price("damageBoost")
				if err != nil {
					t.Fatalf("level %d: Price failed: %v", i, err)
				}
				if price != want {
					t.Errorf("level %d: expected price %d, got %d", i, want, price)
				}
				if _, paid, err := shop.Buy("damageBoost", econ); err != nil || paid != want {
					t.Fatalf("level %d: Buy paid=%d err=%v", i, paid, err)
				}
			}

			if _, err := shop.Price("damageBoost"); !errors.Is(err, ErrMaxLevelReached) {
				t.Errorf("expected ErrMaxLevelReached, got %v", err)
			}
			if len(shop.Effects()) != 3 {
				t.Errorf("expected 3 effects, got %d", len(shop.Effects()))
			}
		})
	}
}

func TestShopBuyFailures(t *testing.T) {
	shop := NewShop(loadTestConfigs(t).shop)
	econ := NewEconomy(event.NewBus(), 100, 20)

	if _, _, err := shop.Buy("criticalHit", econ); !errors.Is(err, ErrInsufficientFunds) {
		t.Errorf("expected ErrInsufficientFunds, got %v", err)
	}
	if shop.Level("criticalHit") != 0 {
		t.Error("failed purchase must not raise the level")
	}
	if _, _, err := shop.Buy("noSuchItem", econ); !errors.Is(err, ErrUnknownShopItem) {
		t.Errorf("expected ErrUnknownShopItem, got %v", err)
	}
}

func TestShopEffect(t *testing.T) {
	shop := NewShop(loadTestConfigs(t).shop)
	econ := NewEconomy(event.NewBus(), 1000, 20)

	effect, _, err := shop.Buy("speedBoost", econ)
	if err != nil {
		t.Fatalf("Buy failed: %v", err)
	}
	if effect.Source != "speedBoost" || effect.FireIntervalMultiplier != 0.85 {
		t.Errorf("unexpected effect: %+v", effect)
	}
	if effect.DamageMultiplier != 0 {
		t.Errorf("speedBoost must not touch damage, got %v", effect.DamageMultiplier)
	}
}
