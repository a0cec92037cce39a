package backoff

import (
	"testing"
	"time"
)

func TestExponential(t *testing.T) {
	tests := []struct {
		name         string
		factor       time.Duration
		attemptsMade int
		expected     time.Duration
	}{
		{"first attempt equals factor", 100 * time.Millisecond, 1, 100 * time.Millisecond},
		{"second attempt doubles", 100 * time.Millisecond, 2, 200 * time.Millisecond},
		{"third attempt quadruples", 100 * time.Millisecond, 3, 400 * time.Millisecond},
		{"attempt below one treated as one", 100 * time.Millisecond, 0, 100 * time.Millisecond},
		{"negative attempt treated as one", 100 * time.Millisecond, -3, 100 * time.Millisecond},
		{"zero factor", 0, 5, 0},
		{"one second factor attempt four", time.Second, 4, 8 * time.Second},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Exponential(tt.factor, tt.attemptsMade)
			if got != tt.expected {
				t.Errorf("Exponential(%v, %d) = %v, want %v", tt.factor, tt.attemptsMade, got, tt.expected)
			}
		})
	}
}

func TestExponentialNoOverflow(t *testing.T) {
	got := Exponential(time.Second, 500)
	if got <= 0 {
		t.Errorf("Expected positive duration for huge attempt count, got %v", got)
	}
}

func TestJitterBounds(t *testing.T) {
	base := 400 * time.Millisecond
	ratio := 0.1
	lower := time.Duration(float64(base) * (1 - ratio))
	upper := time.Duration(float64(base) * (1 + ratio))

	for i := 0; i < 100; i++ {
		got := Jitter(base, ratio)
		if got < lower || got > upper {
			t.Fatalf("Jitter(%v, %v) = %v, want within [%v, %v]", base, ratio, got, lower, upper)
		}
		if got != lower && got != upper {
			t.Fatalf("Jitter magnitude must be fixed, got %v", got)
		}
	}
}

func TestJitterBothSigns(t *testing.T) {
	base := time.Second
	sawHigher := false
	sawLower := false
	for i := 0; i < 200; i++ {
		got := Jitter(base, 0.5)
		if got > base {
			sawHigher = true
		}
		if got < base {
			sawLower = true
		}
	}
	if !sawHigher || !sawLower {
		t.Errorf("Expected jitter in both directions, higher=%v lower=%v", sawHigher, sawLower)
	}
}

func TestJitterZeroRatio(t *testing.T) {
	if got := Jitter(time.Second, 0); got != time.Second {
		t.Errorf("Jitter with zero ratio = %v, want %v", got, time.Second)
	}
}

func TestCap(t *testing.T) {
	tests := []struct {
		name     string
		d        time.Duration
		ceiling  time.Duration
		expected time.Duration
	}{
		{"below ceiling unchanged", time.Second, time.Minute, time.Second},
		{"above ceiling clamped", 2 * time.Minute, time.Minute, time.Minute},
		{"negative floored at zero", -time.Second, time.Minute, 0},
		{"equal to ceiling unchanged", time.Minute, time.Minute, time.Minute},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Cap(tt.d, tt.ceiling); got != tt.expected {
				t.Errorf("Cap(%v, %v) = %v, want %v", tt.d, tt.ceiling, got, tt.expected)
			}
		})
	}
}
