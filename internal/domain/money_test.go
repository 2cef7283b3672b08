package domain

import (
	"math"
	"testing"
)

func TestDecimalFromFloat(t *testing.T) {
	tests := []struct {
		name    string
		in      float64
		wantErr bool
	}{
		{"positive", 175.50, false},
		{"zero", 0, false},
		{"negative", -3.2, false},
		{"nan", math.NaN(), true},
		{"+inf", math.Inf(1), true},
		{"-inf", math.Inf(-1), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DecimalFromFloat(tt.in)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error for %v", tt.in)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if Float(got) != tt.in {
				t.Fatalf("round trip = %v, want %v", Float(got), tt.in)
			}
		})
	}
}
