package server

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
	"github.com/tliron/commonlog"

	"coedit/internal/document"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// Server is the transport boundary: it decodes and validates frames,
// hands operations to the document manager and broadcasts each applied
// operation to the document's other sessions, locally and through the
// relay when one is configured.
type Server struct {
	manager  document.Manager
	relay    *Relay
	instance string
	log      commonlog.Logger

	mu   sync.Mutex
	hubs map[string]*hub
}

func NewServer(manager document.Manager, relay *Relay) *Server {
	return &Server{
		manager:  manager,
		relay:    relay,
		instance: uuid.NewString(),
		log:      commonlog.GetLogger("coedit.server"),
		hubs:     make(map[string]*hub),
	}
}

func (s *Server) Router() *mux.Router {
	r := mux.NewRouter()
	r.HandleFunc("/ws/{doc}", s.handleWS)
	r.HandleFunc("/documents/{doc}/history", s.handleHistory).Methods(http.MethodGet)
	r.HandleFunc("/documents/{doc}/conflicts", s.handleConflicts).Methods(http.MethodGet)
	r.HandleFunc("/documents/{doc}/version", s.handleVersion).Methods(http.MethodGet)
	r.HandleFunc("/documents/{doc}/sessions", s.handleSessions).Methods(http.MethodGet)
	return r
}

// getHub returns the document's hub, starting it and its relay
// subscription on first use. Hubs live for the process lifetime, like
// the document states they mirror.
func (s *Server) getHub(docID string) *hub {
	s.mu.Lock()
	defer s.mu.Unlock()

	h, ok := s.hubs[docID]
	if !ok {
		h = newHub()
		s.hubs[docID] = h
		go h.run()

		if s.relay != nil {
			s.relay.Subscribe(context.Background(), docID, func(msg ServerMessage) {
				if msg.Origin == s.instance {
					return
				}
				payload, err := json.Marshal(msg)
				if err != nil {
					return
				}
				h.broadcast <- broadcastMessage{payload: payload}
			})
		}
	}
	return h
}

func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	docID := mux.Vars(r)["doc"]
	userID := r.URL.Query().Get("user")
	if userID == "" {
		http.Error(w, "missing user parameter", http.StatusBadRequest)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Errorf("websocket upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	sessionID := uuid.NewString()
	s.manager.RegisterSession(docID, sessionID, userID)
	defer s.manager.UnregisterSession(docID, sessionID)
	s.log.Infof("session %s (%s) joined %s", sessionID, userID, docID)

	h := s.getHub(docID)
	c := &client{sessionID: sessionID, conn: conn, send: make(chan []byte, 64)}
	h.register <- c
	defer func() { h.unregister <- c }()

	go c.writeLoop()
	s.readLoop(docID, c, h)

	s.log.Infof("session %s left %s", sessionID, docID)
}

func (s *Server) readLoop(docID string, c *client, h *hub) {
	for {
		_, raw, err := c.conn.ReadMessage()
		if err != nil {
			return
		}

		msg, err := decodeClientMessage(raw)
		if err != nil {
			s.sendError(c, err.Error())
			continue
		}

		tracked := s.manager.ApplyOperation(docID, msg.Operation, c.sessionID)
		out := ServerMessage{
			Type:       "operation",
			DocumentID: docID,
			Operation:  &tracked,
			SessionID:  c.sessionID,
			Origin:     s.instance,
		}
		payload, err := json.Marshal(out)
		if err != nil {
			s.log.Errorf("failed to encode operation: %v", err)
			continue
		}
		h.broadcast <- broadcastMessage{payload: payload, exclude: c.sessionID}

		if s.relay != nil {
			if err := s.relay.Publish(context.Background(), out); err != nil {
				s.log.Errorf("relay publish failed: %v", err)
			}
		}
	}
}

func (s *Server) sendError(c *client, message string) {
	payload, err := json.Marshal(ServerMessage{Type: "error", Error: message})
	if err != nil {
		return
	}
	select {
	case c.send <- payload:
	default:
	}
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	docID := mux.Vars(r)["doc"]

	var since int64
	if v := r.URL.Query().Get("since"); v != "" {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			http.Error(w, "invalid since parameter", http.StatusBadRequest)
			return
		}
		since = n
	}

	history := s.manager.GetHistory(docID, since)
	if history == nil {
		history = []document.TrackedOperation{}
	}
	writeJSON(w, history)
}

func (s *Server) handleConflicts(w http.ResponseWriter, r *http.Request) {
	docID := mux.Vars(r)["doc"]

	var since time.Time
	if v := r.URL.Query().Get("since"); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			http.Error(w, "invalid since parameter", http.StatusBadRequest)
			return
		}
		since = t
	}

	conflicts := s.manager.GetConflicts(docID, since)
	if conflicts == nil {
		conflicts = []document.EditConflict{}
	}
	writeJSON(w, conflicts)
}

func (s *Server) handleVersion(w http.ResponseWriter, r *http.Request) {
	docID := mux.Vars(r)["doc"]
	writeJSON(w, map[string]int64{"version": s.manager.GetVersion(docID)})
}

func (s *Server) handleSessions(w http.ResponseWriter, r *http.Request) {
	docID := mux.Vars(r)["doc"]
	writeJSON(w, s.manager.GetActiveSessions(docID))
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(v)
}
