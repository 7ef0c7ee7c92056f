package web

import (
	_ "embed"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/tomz197/airhockey/internal/loop/config"
	"github.com/tomz197/airhockey/internal/loop/server"
)

//go:embed index.html
var htmlPage string

const (
	pongWait     = 60 * time.Second
	pingInterval = 25 * time.Second
	writeWait    = 10 * time.Second
)

// SnapshotSource provides the latest table snapshot.
type SnapshotSource interface {
	GetSnapshot() *server.WorldSnapshot
}

// Handler serves the landing page at / and the spectator feed at /ws.
type Handler struct {
	source   SnapshotSource
	logger   *log.Logger
	sshHost  string
	interval time.Duration
	upgrader websocket.Upgrader
	mux      *http.ServeMux
}

// NewHandler creates the web handler. sshHost is shown on the landing page
// as the address to connect to.
func NewHandler(source SnapshotSource, logger *log.Logger, sshHost string) *Handler {
	h := &Handler{
		source:   source,
		logger:   logger,
		sshHost:  sshHost,
		interval: config.SpectatorFrameTime,
		upgrader: websocket.Upgrader{
			// The feed is read-only, so any page may watch.
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		mux: http.NewServeMux(),
	}
	h.mux.HandleFunc("/", h.serveIndex)
	h.mux.HandleFunc("/ws", h.serveFeed)
	return h
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.mux.ServeHTTP(w, r)
}

func (h *Handler) serveIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	page := strings.ReplaceAll(htmlPage, "{{.SSHHost}}", h.sshHost)
	fmt.Fprint(w, page)
}

// serveFeed streams msgpack frames to a spectator until either side hangs up.
func (h *Handler) serveFeed(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("websocket upgrade failed", "remote", r.RemoteAddr, "err", err)
		return
	}
	defer conn.Close()
	h.logger.Debug("spectator connected", "remote", r.RemoteAddr)

	// Spectators send nothing but control frames; reading drives the pong
	// handler and notices when the peer goes away.
	conn.SetReadLimit(512)
	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	frames := time.NewTicker(h.interval)
	defer frames.Stop()
	pings := time.NewTicker(pingInterval)
	defer pings.Stop()

	var last *server.WorldSnapshot
	for {
		select {
		case <-done:
			h.logger.Debug("spectator disconnected", "remote", r.RemoteAddr)
			return
		case <-pings.C:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		case <-frames.C:
			snap := h.source.GetSnapshot()
			if snap == nil || snap == last {
				continue
			}
			last = snap

			data, err := msgpack.Marshal(NewFrame(snap))
			if err != nil {
				h.logger.Error("encode frame", "err", err)
				return
			}
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.BinaryMessage, data); err != nil {
				return
			}
		}
	}
}
