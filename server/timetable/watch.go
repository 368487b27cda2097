package servertimetable

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"slices"
	"sync"
	"time"

	"github.com/Pjt727/cample/timetable"
	"github.com/gorilla/websocket"
)

// a student may keep several tabs open, each one gets every change
// changes are OK to be lost for a slow client since GET /timetable is the source of truth

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10
	sendBuffer = 16
)

// Hub fans committed timetable changes out to the student's open websockets
type Hub struct {
	mu       sync.Mutex
	watchers map[int64]map[*watcher]struct{}
	upgrader websocket.Upgrader
	logger   *slog.Logger
}

type watcher struct {
	conn      *websocket.Conn
	studentID int64
	send      chan []byte
	hub       *Hub
}

func NewHub(allowedOrigins []string, logger *slog.Logger) *Hub {
	allowAll := slices.Contains(allowedOrigins, "*")
	return &Hub{
		watchers: map[int64]map[*watcher]struct{}{},
		logger:   logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				return allowAll || origin == "" || slices.Contains(allowedOrigins, origin)
			},
		},
	}
}

func (h *Hub) Publish(change timetable.Change) {
	message, err := json.Marshal(change)
	if err != nil {
		h.logger.Error("Could not marshal change", "err", err)
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	for w := range h.watchers[change.StudentID] {
		select {
		case w.send <- message:
		default:
			h.logger.Warn("Dropping change for slow watcher", "student", change.StudentID)
		}
	}
}

// Watchers is the number of open websockets for the student
func (h *Hub) Watchers(studentID int64) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.watchers[studentID])
}

// Close ends every websocket, the http server does not track hijacked connections
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for studentID, set := range h.watchers {
		for w := range set {
			close(w.send)
		}
		delete(h.watchers, studentID)
	}
}

func (h *Hub) add(w *watcher) {
	h.mu.Lock()
	defer h.mu.Unlock()
	set, ok := h.watchers[w.studentID]
	if !ok {
		set = map[*watcher]struct{}{}
		h.watchers[w.studentID] = set
	}
	set[w] = struct{}{}
}

// safe to call more than once
func (h *Hub) remove(w *watcher) {
	h.mu.Lock()
	defer h.mu.Unlock()
	set, ok := h.watchers[w.studentID]
	if !ok {
		return
	}
	if _, ok := set[w]; !ok {
		return
	}
	delete(set, w)
	if len(set) == 0 {
		delete(h.watchers, w.studentID)
	}
	close(w.send)
}

func (h *Hub) watch(w http.ResponseWriter, r *http.Request) {
	studentID := studentFrom(r.Context())
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Info("Could not upgrade", "err", err)
		return
	}

	wt := &watcher{
		conn:      conn,
		studentID: studentID,
		send:      make(chan []byte, sendBuffer),
		hub:       h,
	}
	h.add(wt)
	h.logger.Debug("Watching timetable", "student", studentID)

	go wt.writePump()
	go wt.readPump()
}

// nothing is expected from the client, reading only notices when it goes away
func (wt *watcher) readPump() {
	defer wt.hub.remove(wt)
	wt.conn.SetReadLimit(512)
	wt.conn.SetReadDeadline(time.Now().Add(pongWait))
	wt.conn.SetPongHandler(func(string) error {
		return wt.conn.SetReadDeadline(time.Now().Add(pongWait))
	})
	for {
		if _, _, err := wt.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				wt.hub.logger.Info("Watcher closed unexpectedly", "err", err)
			}
			return
		}
	}
}

func (wt *watcher) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		wt.conn.Close()
	}()
	for {
		select {
		case message, ok := <-wt.send:
			wt.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				wt.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := wt.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				wt.hub.logger.Error("Could not write change", "err", err)
				return
			}
		case <-ticker.C:
			wt.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := wt.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
