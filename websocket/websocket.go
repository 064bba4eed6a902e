package websocket

import (
	"log"
	"net/http"
	"sync"

	"debatehub/internal/notify"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	// In production, adjust the CheckOrigin function to allow only trusted origins.
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// Hub tracks websocket subscribers per debate and broadcasts change events
// to them. Clients react to an event by re-fetching the debate's full state.
type Hub struct {
	mutex sync.Mutex
	rooms map[string]map[*websocket.Conn]bool
}

func NewHub() *Hub {
	return &Hub{rooms: make(map[string]map[*websocket.Conn]bool)}
}

// PublishChange implements notify.Publisher: every connection subscribed to
// the event's debate receives it.
func (h *Hub) PublishChange(event notify.Event) {
	h.mutex.Lock()
	defer h.mutex.Unlock()

	for conn := range h.rooms[event.DebateID] {
		if err := conn.WriteJSON(event); err != nil {
			log.Printf("websocket write error for debate %s: %v", event.DebateID, err)
			conn.Close()
			delete(h.rooms[event.DebateID], conn)
		}
	}
}

func (h *Hub) subscribe(debateID string, conn *websocket.Conn) {
	h.mutex.Lock()
	defer h.mutex.Unlock()
	if _, exists := h.rooms[debateID]; !exists {
		h.rooms[debateID] = make(map[*websocket.Conn]bool)
	}
	h.rooms[debateID][conn] = true
}

func (h *Hub) unsubscribe(debateID string, conn *websocket.Conn) {
	h.mutex.Lock()
	defer h.mutex.Unlock()
	delete(h.rooms[debateID], conn)
	if len(h.rooms[debateID]) == 0 {
		delete(h.rooms, debateID)
	}
}

// Handler upgrades the connection and keeps it subscribed to one debate's
// change feed until the client goes away. Incoming frames are drained and
// discarded; the feed is one-way.
func (h *Hub) Handler(c *gin.Context) {
	debateID := c.Query("debate")
	if debateID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing debate parameter"})
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Println("WebSocket upgrade error:", err)
		return
	}

	h.subscribe(debateID, conn)
	log.Printf("Client subscribed to debate %s", debateID)

	defer func() {
		h.unsubscribe(debateID, conn)
		conn.Close()
		log.Printf("Client unsubscribed from debate %s", debateID)
	}()

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}
