package pricing

import "math"

// DefaultUndercutBps is the discount applied to the reference price when
// no explicit value is configured (200 bps = 2%).
const DefaultUndercutBps = 200

// DefaultEpsilon absorbs floating-point representation noise from upstream
// string conversions. It is a numerical margin, not a business discount.
const DefaultEpsilon = 1e-12

// Target computes the undercut target price for a market quote.
//
// floor and topBid are base-unit amounts; nil means no signal and is
// treated as unbounded, so the reference is the exact minimum of the
// values present. The target is reference × (1 − undercutBps/10000),
// rounded DOWN to the minTick grid when minTick > 0. Floor rounding keeps
// the result at or below the un-rounded target, so the price never creeps
// back above the undercut reference after quantization.
//
// Returns nil when no reference exists or when the result would not be a
// strictly positive price.
func Target(floor, topBid *float64, undercutBps int, minTick float64) *float64 {
	ref := minAmount(floor, topBid)
	if ref == nil {
		return nil
	}

	target := *ref * (1 - float64(undercutBps)/10000)
	if minTick > 0 {
		target = math.Floor(target/minTick) * minTick
	}
	if target <= 0 {
		return nil
	}
	return &target
}

// ShouldUpdate reports whether a listing priced at current should be
// repositioned to target. It fires only when the listing sits strictly
// above target by more than epsilon; a listing already at or below target
// is never touched, so repricing cannot oscillate.
func ShouldUpdate(current, target *float64, epsilon float64) bool {
	if current == nil || target == nil {
		return false
	}
	return *current-*target > epsilon
}

// minAmount returns the smaller of two optional amounts, nil if both are
// absent.
func minAmount(a, b *float64) *float64 {
	if a == nil {
		return b
	}
	if b == nil {
		return a
	}
	if *b < *a {
		return b
	}
	return a
}
