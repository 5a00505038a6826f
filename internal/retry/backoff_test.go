package retry

import (
	"testing"
	"time"
)

func TestExponentialBackoff(t *testing.T) {
	base := 100 * time.Millisecond

	tests := []struct {
		attempt int
		want    time.Duration
	}{
		{0, 100 * time.Millisecond},
		{1, 200 * time.Millisecond},
		{2, 400 * time.Millisecond},
		{3, 800 * time.Millisecond},
	}

	for _, tt := range tests {
		if got := ExponentialBackoff(tt.attempt, base); got != tt.want {
			t.Errorf("ExponentialBackoff(%d) = %v, want %v", tt.attempt, got, tt.want)
		}
	}
}
