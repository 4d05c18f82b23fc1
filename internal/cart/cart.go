package cart

import "time"

// Line is one (option, quantity) pair. The JSON shape is the on-disk snapshot
// format, so the tags stay camelCase.
type Line struct {
	OptionID string `json:"optionId"`
	Qty      int    `json:"qty"`
}

// Cart holds a user's not-yet-checked-out selections. At most one line per
// option id; adding an option already present bumps its quantity.
type Cart struct {
	Items []Line `json:"items"`
}

func (c Cart) Empty() bool { return len(c.Items) == 0 }

func (c Cart) clone() Cart {
	out := Cart{Items: make([]Line, len(c.Items))}
	copy(out.Items, c.Items)
	return out
}

type SummaryLine struct {
	OptionID  string `json:"option_id"`
	Title     string `json:"title"`
	UnitPrice int64  `json:"unit_price"`
	Qty       int    `json:"qty"`
	LineTotal int64  `json:"line_total"`
	Missing   bool   `json:"missing,omitempty"`
}

// Summary is the priced view of a cart. Lines whose option id is no longer
// in the catalog are kept with Missing set and a zero price so a stale
// snapshot can never break the view.
type Summary struct {
	Lines []SummaryLine `json:"lines"`
	Total int64         `json:"total"`
}

// Receipt is the pre-checkout snapshot returned when a cart is finalized.
type Receipt struct {
	OrderID   string        `json:"order_id"`
	UserID    string        `json:"user_id"`
	Lines     []SummaryLine `json:"lines"`
	Total     int64         `json:"total"`
	CreatedAt time.Time     `json:"created_at"`
}
