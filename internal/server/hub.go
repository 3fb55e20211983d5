package server

import "github.com/gorilla/websocket"

// client is one connected editing session.
type client struct {
	sessionID string
	conn      *websocket.Conn
	send      chan []byte
}

// writeLoop forwards queued frames to the websocket until the send
// channel is closed by the hub.
func (c *client) writeLoop() {
	for payload := range c.send {
		if err := c.conn.WriteMessage(websocket.TextMessage, payload); err != nil {
			return
		}
	}
}

// hub fans applied operations out to the connected sessions of one
// document.
type hub struct {
	clients    map[*client]bool
	broadcast  chan broadcastMessage
	register   chan *client
	unregister chan *client
}

type broadcastMessage struct {
	payload []byte
	exclude string // session id that originated the operation, if local
}

func newHub() *hub {
	return &hub{
		clients:    make(map[*client]bool),
		broadcast:  make(chan broadcastMessage, 64),
		register:   make(chan *client),
		unregister: make(chan *client),
	}
}

func (h *hub) run() {
	for {
		select {
		case c := <-h.register:
			h.clients[c] = true
		case c := <-h.unregister:
			if _, ok := h.clients[c]; ok {
				delete(h.clients, c)
				close(c.send)
			}
		case msg := <-h.broadcast:
			for c := range h.clients {
				if c.sessionID == msg.exclude {
					continue
				}
				select {
				case c.send <- msg.payload:
				default:
					// Slow consumer, drop it
					delete(h.clients, c)
					close(c.send)
				}
			}
		}
	}
}
