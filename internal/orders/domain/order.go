package domain

import "time"

type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "pending"
	OrderStatusPreparing  OrderStatus = "preparing"
	OrderStatusDelivering OrderStatus = "delivering"
	OrderStatusCompleted  OrderStatus = "completed"
	OrderStatusCancelled  OrderStatus = "cancelled"
)

func (s OrderStatus) String() string {
	return string(s)
}

// Order is the persisted record of a submitted cart. It is created once with
// status pending; only fulfillment moves it through the later statuses, and
// the client never deletes it.
type Order struct {
	ID              int64       `json:"id"`
	Owner           string      `json:"owner"`
	Status          OrderStatus `json:"status"`
	TotalAmount     float64     `json:"total_amount"`
	Address         string      `json:"address"`
	Phone           string      `json:"phone"`
	PaymentMethod   string      `json:"payment_method"`
	SubmissionToken string      `json:"submission_token,omitempty"`
	CreatedAt       time.Time   `json:"created_at"`
}

// OrderLine is immutable after creation. UnitPrice is the cart price at
// submission time and does not track later catalog changes. ItemName and
// ItemImageURL are filled at read time from the menu catalog.
type OrderLine struct {
	ID           int64   `json:"id"`
	OrderID      int64   `json:"order_id"`
	ItemID       int64   `json:"item_id"`
	Quantity     int     `json:"quantity"`
	UnitPrice    float64 `json:"unit_price"`
	Note         string  `json:"note,omitempty"`
	ItemName     string  `json:"item_name,omitempty"`
	ItemImageURL string  `json:"item_image_url,omitempty"`
}

// OrderDetail is an order joined with its lines.
type OrderDetail struct {
	Order Order       `json:"order"`
	Lines []OrderLine `json:"lines"`
}
