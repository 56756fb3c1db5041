package handlers

import (
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
)

// OrderFeed pushes order lifecycle updates to connected admin consoles over
// websockets. Broadcasting is best-effort; a failed write drops the client.
type OrderFeed struct {
	mu      sync.Mutex
	clients map[*websocket.Conn]bool

	upgrader websocket.Upgrader
}

func NewOrderFeed() *OrderFeed {
	return &OrderFeed{
		clients: make(map[*websocket.Conn]bool),
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
}

// Handle upgrades the request and keeps the connection registered until the
// client goes away. Admin auth has already run in the middleware chain.
func (f *OrderFeed) Handle(c *gin.Context) {
	conn, err := f.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		logrus.WithError(err).Warn("order feed upgrade failed")
		return
	}
	defer conn.Close()

	f.mu.Lock()
	f.clients[conn] = true
	f.mu.Unlock()

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			f.mu.Lock()
			delete(f.clients, conn)
			f.mu.Unlock()
			break
		}
	}
}

// Broadcast sends one JSON message to every connected client.
func (f *OrderFeed) Broadcast(v interface{}) {
	if f == nil {
		return
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	for conn := range f.clients {
		if err := conn.WriteJSON(v); err != nil {
			conn.Close()
			delete(f.clients, conn)
		}
	}
}
