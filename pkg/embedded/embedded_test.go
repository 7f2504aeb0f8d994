package embedded

import (
	"testing"
	"testing/fstest"
)

func resetState() {
	dataFS = nil
	initialized = false
}

func testFS() fstest.MapFS {
	return fstest.MapFS{
		"data/levels.yaml": &fstest.MapFile{Data: []byte("levels: []")},
		"data/units.yaml":  &fstest.MapFile{Data: []byte("enemies: {}")},
	}
}

// TestIsInitialized 测试初始化状态检测
func TestIsInitialized(t *testing.T) {
	resetState()
	defer resetState()

	if IsInitialized() {
		t.Error("Expected IsInitialized() to return false before Init()")
	}

	Init(testFS())

	if !IsInitialized() {
		t.Error("Expected IsInitialized() to return true after Init()")
	}
}

// TestReadFileNotInitialized 测试未初始化时读取
func TestReadFileNotInitialized(t *testing.T) {
	resetState()

	if _, err := ReadFile("data/levels.yaml"); err == nil {
		t.Error("Expected error when not initialized")
	}
	if Exists("data/levels.yaml") {
		t.Error("Exists should be false when not initialized")
	}
}

func TestReadFile(t *testing.T) {
	resetState()
	defer resetState()
	Init(testFS())

	tests := []struct {
		name    string
		path    string
		wantErr bool
	}{
		{"标准路径", "data/levels.yaml", false},
		{"带 ./ 前缀", "./data/levels.yaml", false},
		{"错误前缀", "assets/levels.yaml", true},
		{"文件不存在", "data/missing.yaml", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadFile(tt.path)
			if (err != nil) != tt.wantErr {
				t.Errorf("ReadFile(%q) error = %v, wantErr %v", tt.path, err, tt.wantErr)
			}
		})
	}
}
