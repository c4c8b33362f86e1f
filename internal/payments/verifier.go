package payments

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/iconnectlink/backend/internal/models"
)

// Verifier answers whether a user has paid for a fee-bearing event. The
// booking path consults it before writing a registration, so swapping in a
// real gateway check is a wiring change, not a booking-path change.
type Verifier interface {
	Verify(ctx context.Context, eventID, userID uuid.UUID) (bool, error)
}

// DemoVerifier approves every booking. This preserves the demo payment flow:
// the client runs a simulated payment step and the server takes its word for
// it. It is the wired default.
type DemoVerifier struct{}

// Verify always approves.
func (DemoVerifier) Verify(ctx context.Context, eventID, userID uuid.UUID) (bool, error) {
	return true, nil
}

// IntentVerifier approves only when a paid intent exists for (event, user).
// Stricter than the demo flow requires; available for wiring when the
// simulated payment popup is pointed at the intent endpoints.
type IntentVerifier struct {
	store *Store
}

// NewIntentVerifier creates a verifier backed by the intent store.
func NewIntentVerifier(store *Store) *IntentVerifier {
	return &IntentVerifier{store: store}
}

// Verify reports whether the pair has a confirmed intent.
func (v *IntentVerifier) Verify(ctx context.Context, eventID, userID uuid.UUID) (bool, error) {
	intent, err := v.store.GetByEventUser(ctx, eventID, userID)
	if err != nil {
		if errors.Is(err, ErrIntentNotFound) {
			return false, nil
		}
		return false, err
	}
	return intent.Status == models.PaymentPaid, nil
}
