package vm

import (
	"math/big"
	"testing"
)

func TestRegisterIndex(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		wantIdx  int
		wantOk   bool
	}{
		{"zero", "0", 0, true},
		{"small positive", "42", 42, true},
		{"negative fails", "-1", 0, false},
		{"large negative fails", "-100000", 0, false},
		{"memory limit boundary", "100000", 100000, true},
		{"far too large fails", "340282366920938463463374607431768211456", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n, ok := new(big.Int).SetString(tt.input, 10)
			if !ok {
				t.Fatalf("test fixture %q did not parse", tt.input)
			}
			idx, gotOk := registerIndex(n)
			if gotOk != tt.wantOk {
				t.Fatalf("registerIndex(%s) ok = %v, want %v", tt.input, gotOk, tt.wantOk)
			}
			if gotOk && idx != tt.wantIdx {
				t.Fatalf("registerIndex(%s) = %d, want %d", tt.input, idx, tt.wantIdx)
			}
		})
	}
}
