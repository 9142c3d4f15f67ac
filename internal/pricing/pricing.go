// Package pricing computes booking charges from a house's 30-day base
// price. The charge is a linear pro-ration of the base price over the
// requested duration, rounded up to the next whole currency unit, so
// the result is deterministic and non-decreasing in the duration.
package pricing

// BasePeriodDays is the period the house base prices are quoted for.
const BasePeriodDays = 30

// CalculateCharge returns ceil(basePrice * durationDays / 30).
// Negative inputs are clamped to zero.
func CalculateCharge(basePrice int64, durationDays int) int64 {
	if basePrice <= 0 || durationDays <= 0 {
		return 0
	}
	d := int64(durationDays)
	return (basePrice*d + BasePeriodDays - 1) / BasePeriodDays
}
