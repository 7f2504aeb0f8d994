package utils

import (
	"math"
	"testing"
)

// TestEaseOutQuad 测试二次方缓出函数
func TestEaseOutQuad(t *testing.T) {
	tests := []struct {
		name     string
		input    float64
		expected float64
	}{
		{"起点", 0.0, 0.0},
		{"中点", 0.5, 0.75},
		{"终点", 1.0, 1.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := EaseOutQuad(tt.input)
			if math.Abs(result-tt.expected) > 0.001 {
				t.Errorf("EaseOutQuad(%v) = %v, 期望 %v", tt.input, result, tt.expected)
			}
		})
	}
}

// TestEaseOutCubic 测试三次方缓出函数
func TestEaseOutCubic(t *testing.T) {
	if got := EaseOutCubic(0.5); math.Abs(got-0.875) > 0.001 {
		t.Errorf("EaseOutCubic(0.5) = %v, 期望 0.875", got)
	}
	for p := 0.1; p < 0.5; p += 0.1 {
		if EaseOutCubic(p) <= p {
			t.Errorf("EaseOutCubic(%v) 应该大于线性值（开始快）", p)
		}
	}
}

func TestLerp(t *testing.T) {
	tests := []struct {
		name     string
		a, b, t  float64
		expected float64
	}{
		{"t=0 返回 a", 10, 20, 0, 10},
		{"t=1 返回 b", 10, 20, 1, 20},
		{"中点", 10, 20, 0.5, 15},
		{"反向", 255, 0, 0.25, 191.25},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Lerp(tt.a, tt.b, tt.t); math.Abs(got-tt.expected) > 0.001 {
				t.Errorf("Lerp(%v, %v, %v) = %v, 期望 %v", tt.a, tt.b, tt.t, got, tt.expected)
			}
		})
	}
}

func TestFadeOut(t *testing.T) {
	tests := []struct {
		name            string
		remaining, fade float64
		expected        float64
	}{
		{"未进入淡出", 2.0, 0.5, 1},
		{"淡出一半", 0.25, 0.5, 0.75},
		{"已结束", 0, 0.5, 0},
		{"负数", -1, 0.5, 0},
		{"无淡出时间", 0.1, 0, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FadeOut(tt.remaining, tt.fade); math.Abs(got-tt.expected) > 0.001 {
				t.Errorf("FadeOut(%v, %v) = %v, 期望 %v", tt.remaining, tt.fade, got, tt.expected)
			}
		})
	}
}
