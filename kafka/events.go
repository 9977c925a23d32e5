package kafka

import "time"

// ProductSoldEvent records that a product's single unit has been sold, either
// through the storefront's mark-sold endpoint or an external sales channel
// (e.g. a WhatsApp-confirmed sale entered in the back office).
type ProductSoldEvent struct {
	EventID   string    `json:"event_id"`
	EventType string    `json:"event_type"`
	ProductID string    `json:"product_id"`
	DropID    string    `json:"drop_id"`
	Level     int       `json:"level"`
	Price     float64   `json:"price"`
	Channel   string    `json:"channel"`
	Timestamp time.Time `json:"timestamp"`
}

// Sale channels
const (
	ChannelStorefront = "storefront"
	ChannelExternal   = "external"
)

// Event types
const (
	EventTypeProductSold = "product.sold"
)

// Kafka topics
const (
	TopicProductSold = "product-sold"
)
