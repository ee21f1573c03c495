package negotiation

import (
	"context"

	"procurement/models"
)

type EventType string

const (
	EventEnquiryCreated EventType = "enquiry.created"
	EventVendorReplied  EventType = "negotiation.vendor_replied"
	EventCounterOffer   EventType = "negotiation.counter_offer"
	EventOrderPlaced    EventType = "order.placed"
)

// Event describes a committed change of the negotiation lifecycle.
type Event struct {
	Type          EventType   `json:"type"`
	ActorRole     models.Role `json:"actor_role"`
	EnquiryID     int64       `json:"enquiry_id"`
	EnquiryCode   string      `json:"enquiry_code"`
	NegotiationID int64       `json:"negotiation_id,omitempty"`
	OrderID       int64       `json:"order_id,omitempty"`
	OrderCode     string      `json:"order_code,omitempty"`
	VendorID      int64       `json:"vendor_id"`
	ContractorID  int64       `json:"contractor_id"`
}

// Publisher hands events to whatever delivers them. It is called after the
// transaction commits, so a failure never undoes the state change.
type Publisher interface {
	Publish(ctx context.Context, evt Event) error
}

type nopPublisher struct{}

func (nopPublisher) Publish(context.Context, Event) error { return nil }
