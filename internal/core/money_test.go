package core

import (
	"math"
	"testing"
)

func TestRound2(t *testing.T) {
	tests := []struct {
		name string
		in   float64
		want float64
	}{
		{"exact", 12.34, 12.34},
		{"round down", 12.344, 12.34},
		{"round half up", 12.345, 12.35},
		{"round up", 12.346, 12.35},
		{"negative half away from zero", -12.345, -12.35},
		{"zero", 0, 0},
		{"small negative", -0.004, 0},
		{"nan collapses", math.NaN(), 0},
		{"inf collapses", math.Inf(1), 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Round2(tt.in)
			if got != tt.want {
				t.Errorf("Round2(%v) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestRound2Idempotent(t *testing.T) {
	values := []float64{0, 1.005, 19.999, -7.777, 123456.789, 0.015, 22.5}
	for _, v := range values {
		once := Round2(v)
		twice := Round2(once)
		if once != twice {
			t.Errorf("Round2 not idempotent for %v: first %v, second %v", v, once, twice)
		}
	}
}
