package leads

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"roofestimator/internal/middleware"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10
	maxMsgSize = 16 * 1024
)

const (
	EventView  = "view"
	EventError = "error"
	EventPong  = "pong"
)

// LiveEvent is pushed to live table clients.
type LiveEvent struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload,omitempty"`
}

// LiveAction is one client command. Which fields matter depends on Type.
type LiveAction struct {
	Type     string `json:"type"`
	Page     int    `json:"page,omitempty"`
	PageSize int    `json:"page_size,omitempty"`
	Text     string `json:"text,omitempty"`
	Column   string `json:"column,omitempty"`
	ID       int64  `json:"id,omitempty"`
	Confirm  string `json:"confirm,omitempty"`
}

type liveConn struct {
	userID int64
	conn   *websocket.Conn
	ctrl   *Controller

	mu     sync.Mutex
	send   chan []byte
	closed bool
}

func (lc *liveConn) enqueue(ev LiveEvent) {
	data, err := json.Marshal(ev)
	if err != nil {
		return
	}
	lc.mu.Lock()
	defer lc.mu.Unlock()
	if lc.closed {
		return
	}
	select {
	case lc.send <- data:
	default:
		// client too slow, drop
	}
}

func (lc *liveConn) close() {
	lc.mu.Lock()
	defer lc.mu.Unlock()
	if !lc.closed {
		lc.closed = true
		close(lc.send)
	}
}

// Hub tracks the live tables open per user so a delete made in one place
// refreshes the others.
type Hub struct {
	mu          sync.RWMutex
	connections map[int64]map[*liveConn]bool
}

func NewHub() *Hub {
	return &Hub{connections: make(map[int64]map[*liveConn]bool)}
}

func (h *Hub) register(lc *liveConn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	conns, ok := h.connections[lc.userID]
	if !ok {
		conns = make(map[*liveConn]bool)
		h.connections[lc.userID] = conns
	}
	conns[lc] = true
}

func (h *Hub) unregister(lc *liveConn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if conns, ok := h.connections[lc.userID]; ok {
		delete(conns, lc)
		if len(conns) == 0 {
			delete(h.connections, lc.userID)
		}
	}
	lc.close()
}

// OnlineCount returns how many live tables userID has open.
func (h *Hub) OnlineCount(userID int64) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.connections[userID])
}

// Refresh reloads every live table of userID except skip.
func (h *Hub) Refresh(ctx context.Context, userID int64, skip *liveConn) {
	if h == nil {
		return
	}
	h.mu.RLock()
	targets := make([]*liveConn, 0, len(h.connections[userID]))
	for lc := range h.connections[userID] {
		if lc != skip {
			targets = append(targets, lc)
		}
	}
	h.mu.RUnlock()

	for _, lc := range targets {
		if err := lc.ctrl.Load(ctx); err != nil {
			lc.enqueue(errorEvent(err))
			continue
		}
		lc.enqueue(LiveEvent{Type: EventView, Payload: lc.ctrl.View()})
	}
}

// Close disconnects every live table.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for userID, conns := range h.connections {
		for lc := range conns {
			_ = lc.conn.Close()
			lc.close()
		}
		delete(h.connections, userID)
	}
}

// LiveHandler serves GET /leads/live.
type LiveHandler struct {
	service  *Service
	hub      *Hub
	upgrader websocket.Upgrader
	loggerf  func(format string, args ...interface{})
}

// NewLiveHandler accepts browser connections only from the CORS allow-list
// extended with extraOrigins. The socket rides on the session cookie, so any
// other origin is refused.
func NewLiveHandler(service *Service, hub *Hub, extraOrigins []string) *LiveHandler {
	allowed := middleware.AllowedOrigins(extraOrigins)
	return &LiveHandler{
		service: service,
		hub:     hub,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				return origin == "" || allowed[origin]
			},
		},
		loggerf: service.loggerf,
	}
}

// Serve upgrades the request and runs one table controller for the
// connection, starting from the query state in the URL.
func (h *LiveHandler) Serve(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.loggerf("level=warn msg=live table upgrade failed user_id=%d err=%v", user.ID, err)
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	lc := &liveConn{
		userID: user.ID,
		conn:   conn,
		ctrl:   h.service.NewController(user.ID, ParseQuery(c.Request.URL.Query())),
		send:   make(chan []byte, 64),
	}
	lc.ctrl.OnChange(func(v View) {
		lc.enqueue(LiveEvent{Type: EventView, Payload: v})
	})
	defer lc.ctrl.Close()

	h.hub.register(lc)
	h.loggerf("level=info msg=live table connected user_id=%d open_tables=%d", user.ID, h.hub.OnlineCount(user.ID))
	defer h.loggerf("level=info msg=live table disconnected user_id=%d", user.ID)

	go h.writePump(lc)

	if err := lc.ctrl.Load(ctx); err != nil {
		lc.enqueue(errorEvent(err))
	}
	lc.enqueue(LiveEvent{Type: EventView, Payload: lc.ctrl.View()})

	h.readPump(ctx, lc)
}

func (h *LiveHandler) readPump(ctx context.Context, lc *liveConn) {
	defer func() {
		h.hub.unregister(lc)
		_ = lc.conn.Close()
	}()

	lc.conn.SetReadLimit(maxMsgSize)
	_ = lc.conn.SetReadDeadline(time.Now().Add(pongWait))
	lc.conn.SetPongHandler(func(string) error {
		return lc.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, raw, err := lc.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				h.loggerf("level=warn msg=live table read failed user_id=%d err=%v", lc.userID, err)
			}
			return
		}

		var action LiveAction
		if err := json.Unmarshal(raw, &action); err != nil {
			lc.enqueue(LiveEvent{Type: EventError, Payload: gin.H{"code": "INVALID_JSON", "message": "Failed to parse action"}})
			continue
		}
		h.dispatch(ctx, lc, action)
	}
}

func (h *LiveHandler) dispatch(ctx context.Context, lc *liveConn, a LiveAction) {
	ctrl := lc.ctrl
	var err error
	deleted := false

	switch a.Type {
	case "ping":
		lc.enqueue(LiveEvent{Type: EventPong})
		return
	case "load":
		err = ctrl.Load(ctx)
	case "page":
		err = ctrl.ChangePage(ctx, a.Page)
	case "page_size":
		err = ctrl.ChangePageSize(ctx, a.PageSize)
	case "search":
		// the view follows once the debounce fires
		ctrl.Search(ctx, a.Text)
	case "sort":
		err = ctrl.Sort(ctx, a.Column)
	case "bulk":
		err = ctrl.ToggleBulkMode()
	case "select":
		err = ctrl.ToggleRowSelection(a.ID)
	case "select_all":
		err = ctrl.ToggleSelectAll()
	case "request_delete":
		_, err = ctrl.RequestDelete(a.ID)
	case "request_delete_selected":
		_, err = ctrl.RequestDeleteSelected()
	case "cancel_delete":
		err = ctrl.CancelDelete()
	case "confirm_delete":
		err = ctrl.ConfirmDelete(ctx, a.Confirm)
		// a failed refetch still means the delete went through
		deleted = err == nil || errors.Is(err, ErrFetchFailed)
	default:
		lc.enqueue(LiveEvent{Type: EventError, Payload: gin.H{"code": "UNKNOWN_TYPE", "message": "Unknown action type: " + a.Type}})
		return
	}

	if err != nil {
		lc.enqueue(errorEvent(err))
	}
	if a.Type != "search" {
		lc.enqueue(LiveEvent{Type: EventView, Payload: ctrl.View()})
	}
	if deleted {
		h.hub.Refresh(ctx, lc.userID, lc)
	}
}

func (h *LiveHandler) writePump(lc *liveConn) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = lc.conn.Close()
	}()

	for {
		select {
		case msg, ok := <-lc.send:
			_ = lc.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = lc.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := lc.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}
		case <-ticker.C:
			_ = lc.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := lc.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func errorEvent(err error) LiveEvent {
	code, _ := errorCode(err)
	return LiveEvent{Type: EventError, Payload: gin.H{"code": code, "message": err.Error()}}
}
