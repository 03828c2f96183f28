package domain

import "time"

// CartLine is a single menu item awaiting order submission. A cart holds at
// most one line per ItemID; quantities below 1 never persist (the store
// removes the line instead).
type CartLine struct {
	ItemID    int64   `json:"item_id"`
	Name      string  `json:"name"`
	UnitPrice float64 `json:"unit_price"`
	ImageURL  string  `json:"image_url,omitempty"`
	Quantity  int     `json:"quantity"`
	Note      string  `json:"note,omitempty"`
}

// Snapshot is an immutable copy of the cart captured at submission time so
// concurrent cart edits cannot change the total already being charged.
type Snapshot struct {
	Lines         []CartLine `json:"lines"`
	TotalQuantity int        `json:"total_quantity"`
	Subtotal      float64    `json:"subtotal"`
	CapturedAt    time.Time  `json:"captured_at"`
}

func (s Snapshot) Empty() bool {
	return len(s.Lines) == 0
}

// TotalQuantity sums quantities over the given lines.
func TotalQuantity(lines []CartLine) int {
	total := 0
	for _, l := range lines {
		total += l.Quantity
	}
	return total
}

// Subtotal sums unit price times quantity over the given lines.
func Subtotal(lines []CartLine) float64 {
	var total float64
	for _, l := range lines {
		total += l.UnitPrice * float64(l.Quantity)
	}
	return total
}
