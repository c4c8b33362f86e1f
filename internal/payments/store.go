package payments

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/iconnectlink/backend/internal/models"
)

// ErrIntentNotFound means no intent exists for the key (or it expired).
var ErrIntentNotFound = errors.New("payment intent not found")

// IntentTTL is how long a demo intent stays valid.
const IntentTTL = 15 * time.Minute

// Store keeps demo payment intents in Redis with a TTL. Intents are
// throwaway state, so Redis expiry doubles as the cleanup.
type Store struct {
	client *redis.Client
}

// NewStore creates an intent store.
func NewStore(client *redis.Client) *Store {
	return &Store{client: client}
}

func intentKey(id uuid.UUID) string {
	return "payment:intent:" + id.String()
}

func pairKey(eventID, userID uuid.UUID) string {
	return fmt.Sprintf("payment:pair:%s:%s", eventID, userID)
}

// Create opens a pending intent for (event, user) with the given amount.
func (s *Store) Create(ctx context.Context, eventID, userID uuid.UUID, amount int) (*models.PaymentIntent, error) {
	now := time.Now()
	intent := &models.PaymentIntent{
		ID:        uuid.New(),
		EventID:   eventID,
		UserID:    userID,
		Amount:    amount,
		Status:    models.PaymentPending,
		CreatedAt: now,
		ExpiresAt: now.Add(IntentTTL),
	}
	if err := s.put(ctx, intent, IntentTTL); err != nil {
		return nil, err
	}
	return intent, nil
}

// Get returns an intent by ID.
func (s *Store) Get(ctx context.Context, id uuid.UUID) (*models.PaymentIntent, error) {
	return s.get(ctx, intentKey(id))
}

// GetByEventUser returns the current intent for an (event, user) pair.
func (s *Store) GetByEventUser(ctx context.Context, eventID, userID uuid.UUID) (*models.PaymentIntent, error) {
	id, err := s.client.Get(ctx, pairKey(eventID, userID)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrIntentNotFound
		}
		return nil, fmt.Errorf("get pair key: %w", err)
	}
	parsed, err := uuid.Parse(id)
	if err != nil {
		return nil, ErrIntentNotFound
	}
	return s.Get(ctx, parsed)
}

// Confirm marks an intent paid. No money moves; this is the demo flow's
// "payment succeeded" bit.
func (s *Store) Confirm(ctx context.Context, id uuid.UUID) (*models.PaymentIntent, error) {
	intent, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	intent.Status = models.PaymentPaid
	ttl := time.Until(intent.ExpiresAt)
	if ttl <= 0 {
		return nil, ErrIntentNotFound
	}
	if err := s.put(ctx, intent, ttl); err != nil {
		return nil, err
	}
	return intent, nil
}

func (s *Store) put(ctx context.Context, intent *models.PaymentIntent, ttl time.Duration) error {
	raw, err := json.Marshal(intent)
	if err != nil {
		return fmt.Errorf("marshal intent: %w", err)
	}
	if err := s.client.Set(ctx, intentKey(intent.ID), raw, ttl).Err(); err != nil {
		return fmt.Errorf("set intent: %w", err)
	}
	if err := s.client.Set(ctx, pairKey(intent.EventID, intent.UserID), intent.ID.String(), ttl).Err(); err != nil {
		return fmt.Errorf("set pair key: %w", err)
	}
	return nil
}

func (s *Store) get(ctx context.Context, key string) (*models.PaymentIntent, error) {
	raw, err := s.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrIntentNotFound
		}
		return nil, fmt.Errorf("get intent: %w", err)
	}
	var intent models.PaymentIntent
	if err := json.Unmarshal(raw, &intent); err != nil {
		return nil, fmt.Errorf("unmarshal intent: %w", err)
	}
	return &intent, nil
}
