// Package realtime pushes topic messages to websocket subscribers.
package realtime

import (
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = pongWait * 9 / 10
)

var log = logrus.WithField("layer", "realtime").WithField("package", "realtime")

// Subscription receives messages published to its topic.
// C is closed when subscription is closed or dropped as a slow one.
type Subscription struct {
	C <-chan []byte

	c     chan []byte
	topic string
	hub   *Hub
	once  sync.Once
}

// Close unsubscribes s.
func (s *Subscription) Close() {
	s.hub.remove(s)
}

// Hub ...
type Hub struct {
	mu       sync.Mutex
	topics   map[string]map[*Subscription]struct{}
	buffer   int
	upgrader websocket.Upgrader
}

// NewHub creates new instance of Hub. Buffer is a number of messages a subscriber can lag behind.
func NewHub(buffer int) *Hub {
	if buffer <= 0 {
		buffer = 1
	}

	return &Hub{
		topics: make(map[string]map[*Subscription]struct{}),
		buffer: buffer,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(*http.Request) bool { return true },
		},
	}
}

// Subscribe subscribes to topic.
func (h *Hub) Subscribe(topic string) *Subscription {
	c := make(chan []byte, h.buffer)
	s := &Subscription{
		C:     c,
		c:     c,
		topic: topic,
		hub:   h,
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	subs, ok := h.topics[topic]
	if !ok {
		subs = make(map[*Subscription]struct{})
		h.topics[topic] = subs
	}
	subs[s] = struct{}{}

	return s
}

// Publish sends msg to every subscriber of topic and returns number of receivers.
// Subscribers with full buffer are dropped.
func (h *Hub) Publish(topic string, msg []byte) int {
	h.mu.Lock()
	defer h.mu.Unlock()

	n := 0
	for s := range h.topics[topic] {
		select {
		case s.c <- msg:
			n++
		default:
			log.WithField("topic", topic).Warn("dropping slow subscriber")
			h.removeLocked(s)
		}
	}

	return n
}

// Subscribers returns number of subscribers of topic.
func (h *Hub) Subscribers(topic string) int {
	h.mu.Lock()
	defer h.mu.Unlock()

	return len(h.topics[topic])
}

func (h *Hub) remove(s *Subscription) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.removeLocked(s)
}

func (h *Hub) removeLocked(s *Subscription) {
	s.once.Do(func() {
		subs := h.topics[s.topic]
		delete(subs, s)
		if len(subs) == 0 {
			delete(h.topics, s.topic)
		}
		close(s.c)
	})
}

// ServeWS upgrades the connection and writes topic messages to it until either side goes away.
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request, topic string) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.WithError(err).Debug("failed to upgrade connection")
		return
	}
	defer conn.Close() // nolint:errcheck

	sub := h.Subscribe(topic)
	defer sub.Close()

	done := make(chan struct{})
	go func() {
		defer close(done)

		conn.SetReadLimit(512)
		_ = conn.SetReadDeadline(time.Now().Add(pongWait))
		conn.SetPongHandler(func(string) error {
			return conn.SetReadDeadline(time.Now().Add(pongWait))
		})
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case msg, ok := <-sub.C:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseTryAgainLater, "too slow"))
				return
			}
			if err := conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}
		case <-ticker.C:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		case <-done:
			return
		case <-r.Context().Done():
			return
		}
	}
}
