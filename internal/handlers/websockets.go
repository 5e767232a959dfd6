package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"moviewatch/internal/debounce"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

// Send/receive timing configuration and message size limits.
const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10
	maxMsgSize = 1 << 12 // 4 KB
)

// Message types on /ws/search.
const (
	wsTypeQuery   = "query"
	wsTypeResults = "results"
	wsTypeError   = "error"
)

// wsEnvelope is every message the server sends.
type wsEnvelope struct {
	Type  string      `json:"type"`
	Query string      `json:"query,omitempty"`
	Data  interface{} `json:"data,omitempty"`
	Error string      `json:"error,omitempty"`
}

// wsInbound is a client message: {"type":"query","query":"..."}.
type wsInbound struct {
	Type  string `json:"type"`
	Query string `json:"query"`
}

// TODO: restrict origins once the mobile app's web build has a fixed host.
var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// searchConn is one websocket search client. Input is debounced, and a new
// query cancels the lookup still running for the previous one.
type searchConn struct {
	h         *Handler
	conn      *websocket.Conn
	id        string
	ctx       context.Context
	debouncer *debounce.Debouncer

	writeMu sync.Mutex

	mu     sync.Mutex
	seq    uint64
	cancel context.CancelFunc
}

// @Summary      Live movie search
// @Description  Websocket. Send {"type":"query","query":"..."}; receive {"type":"results","query":"...","data":[...]} after input settles.
// @Tags         movies
// @Router       /ws/search [get]
func (h *Handler) wsSearch(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.log.Errorw("ws_upgrade_failed", "request_id", requestID(c), "err", err)
		return
	}
	defer func() { _ = conn.Close() }()

	conn.SetReadLimit(maxMsgSize)
	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	ctx, cancel := context.WithCancel(c.Request.Context())
	defer cancel()

	sc := &searchConn{
		h:         h,
		conn:      conn,
		id:        uuid.NewString(),
		ctx:       ctx,
		debouncer: debounce.New(h.searchDebounce),
	}
	defer sc.close()
	h.log.Infow("ws_search_connected", "conn_id", sc.id, "request_id", requestID(c))

	done := make(chan struct{})
	go sc.readLoop(done)

	ping := time.NewTicker(pingPeriod)
	defer ping.Stop()

	for {
		select {
		case <-done:
			return
		case <-ctx.Done():
			return
		case <-ping.C:
			if err := sc.writeControl(websocket.PingMessage); err != nil {
				h.log.Infow("ws_ping_failed", "conn_id", sc.id, "err", err)
				return
			}
		}
	}
}

// readLoop handles client messages until the connection closes.
func (sc *searchConn) readLoop(done chan<- struct{}) {
	defer close(done)
	for {
		_, data, err := sc.conn.ReadMessage()
		if err != nil {
			sc.h.log.Infow("ws_read_closed", "conn_id", sc.id, "err", err)
			return
		}

		var msg wsInbound
		if err := json.Unmarshal(data, &msg); err != nil {
			_ = sc.write(wsEnvelope{Type: wsTypeError, Error: "invalid message"})
			continue
		}
		if msg.Type != wsTypeQuery {
			_ = sc.write(wsEnvelope{Type: wsTypeError, Error: "unknown message type"})
			continue
		}
		sc.onQuery(msg.Query)
	}
}

func (sc *searchConn) onQuery(query string) {
	sc.cancelInFlight()
	sc.debouncer.Trigger(func() { sc.search(query) })
}

// search runs on the debouncer's timer goroutine.
func (sc *searchConn) search(query string) {
	sc.mu.Lock()
	if sc.cancel != nil {
		sc.cancel()
	}
	ctx, cancel := context.WithCancel(sc.ctx)
	sc.cancel = cancel
	sc.seq++
	seq := sc.seq
	sc.mu.Unlock()
	defer cancel()

	movies, err := sc.h.services.Search(ctx, query)
	if ctx.Err() != nil || !sc.current(seq) {
		return
	}
	if err != nil {
		sc.h.log.Infow("ws_search_failed", "conn_id", sc.id, "query", query, "err", err)
		_ = sc.write(wsEnvelope{Type: wsTypeError, Query: query, Error: messageFor(err)})
		return
	}
	if err := sc.write(wsEnvelope{Type: wsTypeResults, Query: query, Data: newMovieCards(movies)}); err != nil {
		sc.h.log.Infow("ws_write_failed", "conn_id", sc.id, "err", err)
	}
}

func (sc *searchConn) current(seq uint64) bool {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	return sc.seq == seq
}

// cancelInFlight aborts the running lookup and marks its result stale.
func (sc *searchConn) cancelInFlight() {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	sc.seq++
	if sc.cancel != nil {
		sc.cancel()
		sc.cancel = nil
	}
}

func (sc *searchConn) close() {
	sc.debouncer.Stop()
	sc.cancelInFlight()
}

func (sc *searchConn) write(env wsEnvelope) error {
	sc.writeMu.Lock()
	defer sc.writeMu.Unlock()
	_ = sc.conn.SetWriteDeadline(time.Now().Add(writeWait))
	return sc.conn.WriteJSON(env)
}

func (sc *searchConn) writeControl(messageType int) error {
	sc.writeMu.Lock()
	defer sc.writeMu.Unlock()
	return sc.conn.WriteControl(messageType, nil, time.Now().Add(writeWait))
}
