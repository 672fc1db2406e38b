package main

import "testing"

func TestFormatClock(t *testing.T) {
	cases := []struct {
		seconds int64
		want    string
	}{
		{0, "0:00"},
		{59, "0:59"},
		{60, "1:00"},
		{480, "8:00"},
		{485, "8:05"},
		{-5, "-0:05"},
		{-65, "-1:05"},
	}
	for _, tc := range cases {
		if got := formatClock(tc.seconds); got != tc.want {
			t.Errorf("formatClock(%d) = %q, want %q", tc.seconds, got, tc.want)
		}
	}
}
