package pricing

import (
	"math"
	"testing"
)

func f(v float64) *float64 { return &v }

func TestTarget_NoReference(t *testing.T) {
	if got := Target(nil, nil, DefaultUndercutBps, 0); got != nil {
		t.Errorf("Target(nil, nil) = %v, want nil", *got)
	}
}

func TestTarget_ZeroUndercutReturnsExactMin(t *testing.T) {
	cases := []struct {
		name         string
		floor, bid   *float64
		want         float64
	}{
		{"floor below bid", f(0.50), f(0.60), 0.50},
		{"bid below floor", f(0.50), f(0.45), 0.45},
		{"equal", f(0.50), f(0.50), 0.50},
		{"floor only", f(0.50), nil, 0.50},
		{"bid only", nil, f(0.45), 0.45},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := Target(tc.floor, tc.bid, 0, 0)
			if got == nil {
				t.Fatal("Target returned nil, want value")
			}
			if *got != tc.want {
				t.Errorf("Target = %v, want exactly %v", *got, tc.want)
			}
		})
	}
}

func TestTarget_NeverExceedsUndercutReference(t *testing.T) {
	refs := []float64{0.0001, 0.45, 1, 12.5, 1e6}
	bpsValues := []int{0, 1, 200, 5000, 9999, 10000}

	for _, ref := range refs {
		for _, bps := range bpsValues {
			got := Target(f(ref), nil, bps, 0)
			bound := ref * (1 - float64(bps)/10000)
			if got == nil {
				if bound > 0 {
					t.Errorf("Target(ref=%v, bps=%d) = nil, want %v", ref, bps, bound)
				}
				continue
			}
			if *got > bound {
				t.Errorf("Target(ref=%v, bps=%d) = %v, exceeds %v", ref, bps, *got, bound)
			}
			// With no tick grid the result equals the bound exactly.
			if *got != bound {
				t.Errorf("Target(ref=%v, bps=%d) = %v, want exactly %v", ref, bps, *got, bound)
			}
		}
	}
}

func TestTarget_TickRoundingIsFloor(t *testing.T) {
	cases := []struct {
		name    string
		ref     float64
		bps     int
		tick    float64
		want    float64
	}{
		{"rounds down to grid", 1.0, 200, 0.05, 0.95},      // 0.98 -> 0.95
		{"already on grid", 1.0, 0, 0.25, 1.0},             // 1.00 -> 1.00
		{"coarse grid", 0.47, 0, 0.1, 0.4},                 // 0.47 -> 0.40
		{"fine grid", 0.441, 0, 0.01, 0.44},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := Target(f(tc.ref), nil, tc.bps, tc.tick)
			if got == nil {
				t.Fatal("Target returned nil, want value")
			}
			if math.Abs(*got-tc.want) > 1e-9 {
				t.Errorf("Target = %v, want %v", *got, tc.want)
			}

			// Rounding law: result is a grid multiple and never above the
			// un-rounded target.
			unrounded := tc.ref * (1 - float64(tc.bps)/10000)
			if *got > unrounded+1e-12 {
				t.Errorf("rounded target %v exceeds un-rounded %v", *got, unrounded)
			}
			steps := *got / tc.tick
			if math.Abs(steps-math.Round(steps)) > 1e-6 {
				t.Errorf("target %v is not a multiple of tick %v", *got, tc.tick)
			}
		})
	}
}

func TestTarget_NonPositiveIsAbsence(t *testing.T) {
	cases := []struct {
		name string
		ref  float64
		bps  int
		tick float64
	}{
		{"full undercut", 0.5, 10000, 0},
		{"tick floors to zero", 0.04, 0, 0.05},
		{"tiny reference fully discounted", 1e-12, 10000, 0},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Target(f(tc.ref), nil, tc.bps, tc.tick); got != nil {
				t.Errorf("Target = %v, want nil for non-positive result", *got)
			}
		})
	}
}

func TestShouldUpdate(t *testing.T) {
	cases := []struct {
		name            string
		current, target *float64
		want            bool
	}{
		{"above target", f(0.50), f(0.49), true},
		{"at target", f(0.49), f(0.49), false},
		{"below target", f(0.49), f(0.50), false},
		{"no current price", nil, f(0.49), false},
		{"no target", f(0.50), nil, false},
		{"both absent", nil, nil, false},
		{"within epsilon noise", f(0.49 + 1e-14), f(0.49), false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := ShouldUpdate(tc.current, tc.target, DefaultEpsilon); got != tc.want {
				t.Errorf("ShouldUpdate = %v, want %v", got, tc.want)
			}
		})
	}
}
