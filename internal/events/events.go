package events

import (
	"context"
	"time"
)

// ProductDeletedEvent announces that a seller removed a product. Consumers
// use it to clean up media and listings that reference the product.
type ProductDeletedEvent struct {
	ProductID  string    `json:"productId"`
	SellerID   string    `json:"sellerId"`
	OccurredAt time.Time `json:"occurredAt"`
}

// NewProductDeletedEvent stamps the event with the current time.
func NewProductDeletedEvent(productID, sellerID string) ProductDeletedEvent {
	return ProductDeletedEvent{
		ProductID:  productID,
		SellerID:   sellerID,
		OccurredAt: time.Now().UTC(),
	}
}

// Publisher delivers domain events to the message bus.
type Publisher interface {
	// PublishProductDeleted sends the event. Implementations may be
	// asynchronous, in which case a nil error only means the event was accepted.
	PublishProductDeleted(ctx context.Context, event ProductDeletedEvent) error
}

// NoopPublisher discards every event. Used when no bus is configured.
type NoopPublisher struct{}

// PublishProductDeleted implements Publisher.
func (NoopPublisher) PublishProductDeleted(context.Context, ProductDeletedEvent) error {
	return nil
}

var _ Publisher = NoopPublisher{}
