package notification

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/bookwell/bookwell-api/internal/domain/booking"
)

func newTestConn(actorID uuid.UUID, buffer int) *Connection {
	return &Connection{ActorID: actorID, Send: make(chan []byte, buffer)}
}

func registerAndWait(t *testing.T, h *Hub, conn *Connection) {
	t.Helper()
	h.Register(conn)
	deadline := time.After(time.Second)
	for {
		if h.ConnectionCount() > 0 {
			h.mu.RLock()
			_, ok := h.connections[conn.ActorID][conn]
			h.mu.RUnlock()
			if ok {
				return
			}
		}
		select {
		case <-deadline:
			t.Fatal("connection not registered in time")
		default:
			time.Sleep(time.Millisecond)
		}
	}
}

func testEvent(requesterID, resourceID uuid.UUID) *booking.Event {
	return &booking.Event{
		Type:        booking.EventConfirmed,
		BookingID:   uuid.New(),
		ResourceID:  resourceID,
		RequesterID: requesterID,
		Status:      booking.StatusConfirmed,
		OccurredAt:  time.Now(),
	}
}

func TestHubDeliversToRequester(t *testing.T) {
	hub := NewHub(nil)
	go hub.Run()
	defer hub.Shutdown()

	requester := uuid.New()
	conn := newTestConn(requester, 4)
	registerAndWait(t, hub, conn)

	other := newTestConn(uuid.New(), 4)
	registerAndWait(t, hub, other)

	hub.DeliverLocal(testEvent(requester, uuid.New()))

	select {
	case data := <-conn.Send:
		var got booking.Event
		if err := json.Unmarshal(data, &got); err != nil {
			t.Fatalf("invalid frame: %v", err)
		}
		if got.Type != booking.EventConfirmed {
			t.Errorf("event type = %s, want %s", got.Type, booking.EventConfirmed)
		}
	case <-time.After(time.Second):
		t.Fatal("requester did not receive the event")
	}

	select {
	case <-other.Send:
		t.Error("unrelated client received the event")
	default:
	}
}

func TestHubDeliversToResourceWatcher(t *testing.T) {
	hub := NewHub(nil)
	go hub.Run()
	defer hub.Shutdown()

	resourceID := uuid.New()
	watcher := newTestConn(uuid.New(), 4)
	registerAndWait(t, hub, watcher)
	hub.WatchResource(resourceID, watcher)

	hub.DeliverLocal(testEvent(uuid.New(), resourceID))

	select {
	case <-watcher.Send:
	case <-time.After(time.Second):
		t.Fatal("watcher did not receive the event")
	}

	hub.UnwatchResource(resourceID, watcher)
	hub.DeliverLocal(testEvent(uuid.New(), resourceID))

	select {
	case <-watcher.Send:
		t.Error("watcher received an event after unwatching")
	default:
	}
}

func TestHubDeliversOncePerConnection(t *testing.T) {
	hub := NewHub(nil)
	go hub.Run()
	defer hub.Shutdown()

	requester := uuid.New()
	resourceID := uuid.New()

	// Same connection is both the requester and a watcher of the resource.
	conn := newTestConn(requester, 4)
	registerAndWait(t, hub, conn)
	hub.WatchResource(resourceID, conn)

	hub.DeliverLocal(testEvent(requester, resourceID))

	<-conn.Send
	select {
	case <-conn.Send:
		t.Error("event delivered twice to the same connection")
	default:
	}
}

func TestHubDropsOnFullBuffer(t *testing.T) {
	hub := NewHub(nil)
	go hub.Run()
	defer hub.Shutdown()

	requester := uuid.New()
	conn := newTestConn(requester, 1)
	registerAndWait(t, hub, conn)

	hub.DeliverLocal(testEvent(requester, uuid.New()))
	hub.DeliverLocal(testEvent(requester, uuid.New()))

	if got := len(conn.Send); got != 1 {
		t.Errorf("expected 1 buffered frame, got %d", got)
	}
}

func TestPublisherWithoutRedisDeliversLocally(t *testing.T) {
	hub := NewHub(nil)
	go hub.Run()
	defer hub.Shutdown()

	requester := uuid.New()
	conn := newTestConn(requester, 4)
	registerAndWait(t, hub, conn)

	pub := NewPublisher(nil, hub)
	if err := pub.Publish(context.Background(), *testEvent(requester, uuid.New())); err != nil {
		t.Fatalf("Publish: %v", err)
	}

	select {
	case <-conn.Send:
	case <-time.After(time.Second):
		t.Fatal("event not delivered through local publisher")
	}
}
