package web

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/tomz197/airhockey/internal/loop/server"
	"github.com/tomz197/airhockey/internal/object"
	"github.com/tomz197/airhockey/internal/physics"
)

type fakeSource struct {
	snap atomic.Pointer[server.WorldSnapshot]
}

func (f *fakeSource) GetSnapshot() *server.WorldSnapshot {
	return f.snap.Load()
}

func testSnapshot(puckX float64) *server.WorldSnapshot {
	snap := &server.WorldSnapshot{HomePlayer: "alice", Spectators: 2}
	snap.Puck = object.CircleView{ID: object.PuckID, Position: physics.V(puckX, 250.04), Radius: 13}
	snap.Home = object.CircleView{ID: object.HomeMalletID, Position: physics.V(150, 450), Radius: 25}
	snap.Away = object.CircleView{ID: object.AwayMalletID, Position: physics.V(150, 50), Radius: 25}
	snap.Walls = []object.SegmentView{{ID: "wall-0", P0: physics.V(80, 0), P1: physics.V(80, 10), Solid: true}}
	snap.Score = server.Score{Home: 1, Away: 3}
	snap.Round = 5
	return snap
}

func newTestHandler(src SnapshotSource) *Handler {
	h := NewHandler(src, log.New(io.Discard), "play.example.com")
	h.interval = 5 * time.Millisecond
	return h
}

func TestIndexShowsSSHHost(t *testing.T) {
	h := newTestHandler(&fakeSource{})
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if body := rec.Body.String(); !strings.Contains(body, "ssh play.example.com") {
		t.Error("landing page should show the ssh command")
	}

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/missing", nil))
	if rec.Code != http.StatusNotFound {
		t.Errorf("unknown path status = %d, want 404", rec.Code)
	}
}

func TestNewFrame(t *testing.T) {
	f := NewFrame(testSnapshot(100.06))
	if f.Puck.X != 100.1 || f.Puck.Y != 250 {
		t.Errorf("puck = (%v,%v), want rounded (100.1,250)", f.Puck.X, f.Puck.Y)
	}
	if len(f.Lines) != 3 {
		t.Errorf("got %d lines, want wall plus two goals", len(f.Lines))
	}
	if f.HomeScore != 1 || f.AwayScore != 3 || f.HomePlayer != "alice" || f.Spectators != 2 {
		t.Errorf("frame = %+v", f)
	}
}

func TestFeedStreamsFrames(t *testing.T) {
	src := &fakeSource{}
	src.snap.Store(testSnapshot(100))
	srv := httptest.NewServer(newTestHandler(src))
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	read := func() Frame {
		t.Helper()
		_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
		typ, data, err := conn.ReadMessage()
		if err != nil {
			t.Fatalf("read: %v", err)
		}
		if typ != websocket.BinaryMessage {
			t.Fatalf("message type = %d, want binary", typ)
		}
		var f Frame
		if err := msgpack.Unmarshal(data, &f); err != nil {
			t.Fatalf("decode: %v", err)
		}
		return f
	}

	if f := read(); f.Puck.X != 100 || f.Round != 5 {
		t.Errorf("first frame = %+v", f)
	}

	// Unchanged snapshots are not resent; a new one is.
	src.snap.Store(testSnapshot(120))
	if f := read(); f.Puck.X != 120 {
		t.Errorf("second frame puck x = %v, want 120", f.Puck.X)
	}
}
