package app

import "testing"

func TestResolvePointer(t *testing.T) {
	tests := []struct {
		name        string
		touches     []touchSample
		justTouched int
		left, right bool
		want        Pointer
	}{
		{
			name: "鼠标移动",
			want: Pointer{X: 10, Y: 20},
		},
		{
			name: "鼠标左键",
			left: true,
			want: Pointer{X: 10, Y: 20, JustPressed: true},
		},
		{
			name:  "鼠标右键",
			right: true,
			want:  Pointer{X: 10, Y: 20, SecondaryPressed: true},
		},
		{
			name:        "单指按下",
			touches:     []touchSample{{x: 300, y: 400}},
			justTouched: 1,
			want:        Pointer{X: 300, Y: 400, JustPressed: true, Touch: true},
		},
		{
			name:    "单指按住",
			touches: []touchSample{{x: 300, y: 400}},
			want:    Pointer{X: 300, Y: 400, Touch: true},
		},
		{
			name:        "第二根手指按下",
			touches:     []touchSample{{x: 300, y: 400}, {x: 500, y: 100}},
			justTouched: 1,
			want:        Pointer{X: 300, Y: 400, SecondaryPressed: true, Touch: true},
		},
		{
			name:        "触摸优先于鼠标",
			touches:     []touchSample{{x: 1, y: 2}},
			justTouched: 1,
			left:        true,
			want:        Pointer{X: 1, Y: 2, JustPressed: true, Touch: true},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := resolvePointer(tt.touches, tt.justTouched, 10, 20, tt.left, tt.right)
			if got != tt.want {
				t.Errorf("resolvePointer() = %+v, want %+v", got, tt.want)
			}
		})
	}
}
