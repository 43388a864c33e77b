package domain

import "github.com/shopspring/decimal"

// Snapshot is a read-only view over a cart at pricing time. Line quantities are
// keyed by offer id; the total price is the one reported by the cart owner and
// is treated as authoritative. A snapshot is built fresh per pricing request
// and never persisted.
type Snapshot struct {
	Lines      map[int64]int
	TotalPrice decimal.Decimal
}

// ItemCount returns the total number of items across all lines.
func (s Snapshot) ItemCount() int {
	count := 0
	for _, qty := range s.Lines {
		count += qty
	}
	return count
}
