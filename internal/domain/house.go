package domain

import (
	"fmt"
	"time"
)

// House is a physical storage site holding many units, with one base
// price per unit size for a 30-day period.
type House struct {
	ID        int64
	Address   string
	Province  string
	PriceS    int64
	PriceM    int64
	PriceL    int64
	CreatedAt time.Time
	UpdatedAt time.Time
}

// PriceFor returns the 30-day base price for the given unit size.
func (h *House) PriceFor(size UnitSize) (int64, error) {
	switch size {
	case UnitSizeS:
		return h.PriceS, nil
	case UnitSizeM:
		return h.PriceM, nil
	case UnitSizeL:
		return h.PriceL, nil
	default:
		return 0, fmt.Errorf("unknown unit size %q", size)
	}
}
