package mathutil

import (
	"testing"
)

func TestRound(t *testing.T) {
	tests := []struct {
		name     string
		input    float64
		expected float64
	}{
		{"already rounded", 579.98, 579.98},
		{"round down", 579.9817, 579.98},
		{"round up", 4798.796, 4798.80},
		{"zero", 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Round(tt.input); got != tt.expected {
				t.Errorf("Round(%v) = %v, expected %v", tt.input, got, tt.expected)
			}
		})
	}
}

func TestWithinTolerance(t *testing.T) {
	if !WithinTolerance(100.004, 100.0, 0.01) {
		t.Error("expected values within a cent to match")
	}
	if WithinTolerance(100.02, 100.0, 0.01) {
		t.Error("expected values two cents apart not to match")
	}
}

func TestFloorBalance(t *testing.T) {
	tests := []struct {
		name     string
		input    float64
		expected float64
	}{
		{"positive", 1234.56, 1234.56},
		{"residue", 1e-9, 0},
		{"negative residue", -3e-10, 0},
		{"overpaid", -250, 0},
		{"just above epsilon", 0.001, 0.001},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FloorBalance(tt.input); got != tt.expected {
				t.Errorf("FloorBalance(%v) = %v, expected %v", tt.input, got, tt.expected)
			}
		})
	}
}

func TestIsPaidOff(t *testing.T) {
	if !IsPaidOff(0) || !IsPaidOff(-1) || !IsPaidOff(5e-7) {
		t.Error("expected zero, negative and residue balances to be paid off")
	}
	if IsPaidOff(0.01) {
		t.Error("expected a cent of balance to remain outstanding")
	}
}

func TestMaxInt(t *testing.T) {
	if MaxInt(3, -2) != 3 || MaxInt(-5, 0) != 0 || MaxInt(7, 7) != 7 {
		t.Error("MaxInt returned an unexpected value")
	}
}
