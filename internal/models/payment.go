package models

import (
	"time"

	"github.com/google/uuid"
)

// PaymentIntentStatus is the state of a demo payment intent.
type PaymentIntentStatus string

const (
	PaymentPending PaymentIntentStatus = "pending"
	PaymentPaid    PaymentIntentStatus = "paid"
)

// PaymentIntent is a short-lived demo payment for a fee-bearing event. It
// exists so the client's simulated payment step has a server counterpart;
// confirming it moves no money and bookings are not gated on it.
type PaymentIntent struct {
	ID        uuid.UUID           `json:"id"`
	EventID   uuid.UUID           `json:"event"`
	UserID    uuid.UUID           `json:"user"`
	Amount    int                 `json:"amount"`
	Status    PaymentIntentStatus `json:"status"`
	CreatedAt time.Time           `json:"createdAt"`
	ExpiresAt time.Time           `json:"expiresAt"`
}
