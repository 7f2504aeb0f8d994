package types

import "testing"

func TestParseEnemyType(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    EnemyType
		wantErr bool
	}{
		{"普通敌人", "basic", EnemyBasic, false},
		{"快速敌人", "speed", EnemySpeed, false},
		{"装甲敌人", "armored", EnemyArmored, false},
		{"多层敌人", "layered", EnemyLayered, false},
		{"Boss", "boss", EnemyBoss, false},
		{"未知类型", "dragon", EnemyUnknown, true},
		{"空字符串", "", EnemyUnknown, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseEnemyType(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseEnemyType(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseEnemyType(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestParseTowerType(t *testing.T) {
	for _, tt := range AllTowerTypes() {
		got, err := ParseTowerType(tt.String())
		if err != nil {
			t.Fatalf("ParseTowerType(%q) returned error: %v", tt.String(), err)
		}
		if got != tt {
			t.Errorf("Expected %v, got %v", tt, got)
		}
	}

	if _, err := ParseTowerType("laser"); err == nil {
		t.Error("Expected error for unknown tower type")
	}
}

func TestEnemyTypeUnmarshalText(t *testing.T) {
	var e EnemyType
	if err := e.UnmarshalText([]byte("layered")); err != nil {
		t.Fatalf("UnmarshalText failed: %v", err)
	}
	if e != EnemyLayered {
		t.Errorf("Expected EnemyLayered, got %v", e)
	}
	if err := e.UnmarshalText([]byte("nope")); err == nil {
		t.Error("Expected error for unknown enemy type")
	}
}
