package puzzle

import "testing"

func TestScore(t *testing.T) {
	tests := []struct {
		elapsed int
		want    int
	}{
		{0, 10000},
		{1, 5000},
		{9, 1000},
		{99, 100},
		{9999, 1},
		{10000, 0},
		{-5, 10000}, // clock skew clamps to instant
	}
	for _, tc := range tests {
		if got := Score(tc.elapsed); got != tc.want {
			t.Errorf("Score(%d) = %d; want %d", tc.elapsed, got, tc.want)
		}
	}
}

func TestScoreIsMonotone(t *testing.T) {
	prev := Score(0)
	for elapsed := 1; elapsed <= 10000; elapsed *= 2 {
		cur := Score(elapsed)
		if cur > prev {
			t.Errorf("Score(%d) = %d rose above Score of a faster game (%d)", elapsed, cur, prev)
		}
		prev = cur
	}
}
