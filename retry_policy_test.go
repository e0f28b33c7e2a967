package txsubmitter

import "testing"

func TestIsOutOfGas(t *testing.T) {
	tests := []struct {
		status string
		want   bool
	}{
		{"Out of gas", true},
		{"out of gas", true},
		{" Out of gas\n", true},
		{"OUT_OF_GAS", true},
		{"Executed successfully", false},
		{"Invalid argument", false},
		{"Move abort in 0x1::coin: EINSUFFICIENT_BALANCE(0x10006)", false},
		{"Out of gas in module", false},
		{"", false},
	}

	for _, tt := range tests {
		if got := IsOutOfGas(tt.status); got != tt.want {
			t.Errorf("IsOutOfGas(%q) = %v, want %v", tt.status, got, tt.want)
		}
	}
}
