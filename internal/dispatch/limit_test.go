package dispatch_test

import (
	"testing"

	"curator/internal/dispatch"
)

func TestClampLimit(t *testing.T) {
	cases := []struct {
		name  string
		limit int
		want  int
	}{
		{"within ceiling", 250, 250},
		{"at ceiling", 9999, 9999},
		{"above ceiling", 10000, 9999},
		{"far above ceiling", 1 << 20, 9999},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := dispatch.ClampLimit(tc.limit); got != tc.want {
				t.Errorf("ClampLimit(%d) = %d, want %d", tc.limit, got, tc.want)
			}
		})
	}
}

func TestEffectiveLimit(t *testing.T) {
	cases := []struct {
		name       string
		candidates int
		limit      int
		want       int
	}{
		{"fewer candidates than limit", 3, 10, 3},
		{"more candidates than limit", 50, 2, 2},
		{"no candidates", 0, 10, 0},
		{"limit above ceiling", 20000, 10000, 9999},
		{"equal", 7, 7, 7},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := dispatch.EffectiveLimit(tc.candidates, tc.limit); got != tc.want {
				t.Errorf("EffectiveLimit(%d, %d) = %d, want %d", tc.candidates, tc.limit, got, tc.want)
			}
		})
	}
}
