package notification

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/bookwell/bookwell-api/internal/domain/booking"
)

// Publisher delivers booking events. With Redis it publishes to the shared
// channel and every instance's hub picks the event up from its subscription;
// without Redis it hands the event straight to the local hub.
type Publisher struct {
	redis *redis.Client
	hub   *Hub
}

func NewPublisher(redisClient *redis.Client, hub *Hub) *Publisher {
	return &Publisher{redis: redisClient, hub: hub}
}

// Publish implements booking.EventPublisher.
func (p *Publisher) Publish(ctx context.Context, event booking.Event) error {
	if p.redis == nil {
		if p.hub != nil {
			p.hub.DeliverLocal(&event)
		}
		return nil
	}

	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal booking event: %w", err)
	}
	if err := p.redis.Publish(ctx, eventsChannel, payload).Err(); err != nil {
		return fmt.Errorf("publish booking event: %w", err)
	}
	return nil
}
