package gpu_test

import (
	"testing"

	"github.com/pthm-cable/sheen/gpu"
)

func TestPreprocess(t *testing.T) {
	tests := []struct {
		name    string
		src     string
		defines []string
		want    string
	}{
		{"none", "#version 330 core\nvoid main(){}\n", nil, "#version 330 core\nvoid main(){}\n"},
		{"after version", "#version 330 core\nvoid main(){}\n", []string{"SHADOW_VARIANT"},
			"#version 330 core\n#define SHADOW_VARIANT\nvoid main(){}\n"},
		{"leading blank", "\n#version 330 core\nx\n", []string{"A", "B 2"},
			"\n#version 330 core\n#define A\n#define B 2\nx\n"},
		{"no version", "void main(){}\n", []string{"A"}, "#define A\nvoid main(){}\n"},
		{"version only", "#version 330 core", []string{"A"}, "#version 330 core\n#define A\n"},
	}
	for _, tt := range tests {
		if got := gpu.Preprocess(tt.src, tt.defines...); got != tt.want {
			t.Errorf("%s: got %q, want %q", tt.name, got, tt.want)
		}
	}
}
