package notification

import (
	"context"
	"encoding/json"
	"expvar"
	"sync"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"github.com/bookwell/bookwell-api/internal/domain/booking"
)

// eventsChannel is the Redis Pub/Sub channel carrying booking events across
// server instances.
const eventsChannel = "bookings:events"

var (
	wsConnectionsGauge   = expvar.NewInt("websocket_connections")
	wsEventsSentTotal    = expvar.NewInt("websocket_events_sent_total")
	wsEventsDroppedTotal = expvar.NewInt("websocket_events_dropped_total")
)

// Connection is one WebSocket client.
type Connection struct {
	ActorID uuid.UUID
	Conn    *websocket.Conn
	Send    chan []byte
}

// Hub fans booking events out to WebSocket clients. A client always receives
// events for its own bookings; watching a resource additionally delivers
// every event on that resource (owner calendars). With Redis the hub
// subscribes to the shared channel so events reach clients on any instance.
type Hub struct {
	// connections per actor, this instance only
	connections map[uuid.UUID]map[*Connection]bool

	// watchers: resourceID -> connections observing that resource
	watchers map[uuid.UUID]map[*Connection]bool

	redis  *redis.Client
	pubsub *redis.PubSub

	mu sync.RWMutex

	register   chan *Connection
	unregister chan *Connection

	ctx    context.Context
	cancel context.CancelFunc
}

func NewHub(redisClient *redis.Client) *Hub {
	ctx, cancel := context.WithCancel(context.Background())

	h := &Hub{
		connections: make(map[uuid.UUID]map[*Connection]bool),
		watchers:    make(map[uuid.UUID]map[*Connection]bool),
		redis:       redisClient,
		register:    make(chan *Connection),
		unregister:  make(chan *Connection),
		ctx:         ctx,
		cancel:      cancel,
	}

	if redisClient != nil {
		h.pubsub = redisClient.Subscribe(ctx, eventsChannel)
	}

	return h
}

// Run starts the hub loop (call in a goroutine).
func (h *Hub) Run() {
	if h.pubsub != nil {
		go h.runRedisSubscriber()
	}

	for {
		select {
		case <-h.ctx.Done():
			return

		case conn := <-h.register:
			h.mu.Lock()
			if h.connections[conn.ActorID] == nil {
				h.connections[conn.ActorID] = make(map[*Connection]bool)
			}
			h.connections[conn.ActorID][conn] = true
			h.mu.Unlock()
			wsConnectionsGauge.Add(1)
			log.Debug().Str("actor_id", conn.ActorID.String()).Msg("WebSocket client connected")

		case conn := <-h.unregister:
			h.mu.Lock()
			if conns, ok := h.connections[conn.ActorID]; ok {
				if _, exists := conns[conn]; exists {
					delete(conns, conn)
					close(conn.Send)
					wsConnectionsGauge.Add(-1)
				}
				if len(conns) == 0 {
					delete(h.connections, conn.ActorID)
				}
			}
			for resourceID, conns := range h.watchers {
				delete(conns, conn)
				if len(conns) == 0 {
					delete(h.watchers, resourceID)
				}
			}
			h.mu.Unlock()
			log.Debug().Str("actor_id", conn.ActorID.String()).Msg("WebSocket client disconnected")
		}
	}
}

func (h *Hub) runRedisSubscriber() {
	ch := h.pubsub.Channel()

	for {
		select {
		case <-h.ctx.Done():
			return

		case msg, ok := <-ch:
			if !ok {
				return
			}
			var event booking.Event
			if err := json.Unmarshal([]byte(msg.Payload), &event); err != nil {
				log.Warn().Err(err).Msg("Malformed booking event on pubsub channel")
				continue
			}
			h.DeliverLocal(&event)
		}
	}
}

// DeliverLocal sends the event to clients connected to this instance: the
// requester's connections plus all watchers of the resource. Full send
// buffers drop the frame rather than stall the hub.
func (h *Hub) DeliverLocal(event *booking.Event) {
	data, err := json.Marshal(event)
	if err != nil {
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	seen := make(map[*Connection]bool)
	for conn := range h.connections[event.RequesterID] {
		seen[conn] = true
	}
	for conn := range h.watchers[event.ResourceID] {
		seen[conn] = true
	}

	for conn := range seen {
		select {
		case conn.Send <- data:
			wsEventsSentTotal.Add(1)
		default:
			wsEventsDroppedTotal.Add(1)
			log.Warn().Str("actor_id", conn.ActorID.String()).Msg("WebSocket send buffer full, event dropped")
		}
	}
}

// Register adds a connection.
func (h *Hub) Register(conn *Connection) {
	h.register <- conn
}

// Unregister removes a connection.
func (h *Hub) Unregister(conn *Connection) {
	h.unregister <- conn
}

// WatchResource subscribes a connection to all events on a resource.
func (h *Hub) WatchResource(resourceID uuid.UUID, conn *Connection) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.watchers[resourceID] == nil {
		h.watchers[resourceID] = make(map[*Connection]bool)
	}
	h.watchers[resourceID][conn] = true
}

// UnwatchResource removes a resource subscription.
func (h *Hub) UnwatchResource(resourceID uuid.UUID, conn *Connection) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if conns := h.watchers[resourceID]; conns != nil {
		delete(conns, conn)
		if len(conns) == 0 {
			delete(h.watchers, resourceID)
		}
	}
}

// ConnectionCount returns the number of local connections.
func (h *Hub) ConnectionCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	total := 0
	for _, conns := range h.connections {
		total += len(conns)
	}
	return total
}

// Shutdown stops the hub and closes the Redis subscription.
func (h *Hub) Shutdown() {
	h.cancel()
	if h.pubsub != nil {
		h.pubsub.Close()
	}
}
