package services

import (
	"testing"
	"time"
)

func TestFormatApplicationNumber(t *testing.T) {
	cases := []struct {
		now  time.Time
		seq  int64
		want string
	}{
		{date(2026, time.September, 1), 1, "26-09-00001"},
		{date(2026, time.September, 1), 42, "26-09-00042"},
		{date(2026, time.December, 31), 12345, "26-12-12345"},
		{date(2027, time.January, 1), 99999, "27-01-99999"},
	}
	for _, tc := range cases {
		if got := formatApplicationNumber(tc.now, tc.seq); got != tc.want {
			t.Fatalf("formatApplicationNumber(%v, %d) = %q, want %q", tc.now, tc.seq, got, tc.want)
		}
	}
}

func TestApplicationNumbersSortWithinMonth(t *testing.T) {
	now := date(2026, time.September, 15)
	prev := formatApplicationNumber(now, 1)
	for seq := int64(2); seq <= 100; seq++ {
		cur := formatApplicationNumber(now, seq)
		if cur <= prev {
			t.Fatalf("numbers not strictly increasing: %q then %q", prev, cur)
		}
		prev = cur
	}
}
