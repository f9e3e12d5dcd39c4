package observe

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/Garsondee/Grid-Skirmish/internal/game"
)

func newTestServer(t *testing.T, interval time.Duration) (*Server, *httptest.Server) {
	t.Helper()
	cfg := game.DefaultConfig()
	cfg.Seed = 21
	cfg.TickInterval = interval
	b, err := game.NewBattle(cfg)
	if err != nil {
		t.Fatalf("NewBattle: %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	s := NewServer(ctx, b)
	ts := httptest.NewServer(s.Router())
	t.Cleanup(func() {
		cancel()
		s.Driver().Stop()
		ts.Close()
	})
	return s, ts
}

func TestServer_Health(t *testing.T) {
	_, ts := newTestServer(t, time.Hour)
	resp, err := http.Get(ts.URL + "/healthz")
	if err != nil {
		t.Fatalf("GET /healthz: %v", err)
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK || string(body) != "ok" {
		t.Fatalf("unexpected health response %d %q", resp.StatusCode, body)
	}
}

func TestServer_BeginAndSnapshot(t *testing.T) {
	s, ts := newTestServer(t, time.Hour)

	resp, err := http.Get(ts.URL + "/api/snapshot")
	if err != nil {
		t.Fatalf("GET snapshot: %v", err)
	}
	var idle game.Snapshot
	if err := json.NewDecoder(resp.Body).Decode(&idle); err != nil {
		t.Fatalf("decode: %v", err)
	}
	resp.Body.Close()
	if idle.State != game.StateIdle || len(idle.Units) != 0 {
		t.Fatalf("expected an idle empty board, got %s with %d units", idle.State, len(idle.Units))
	}

	resp, err = http.Post(ts.URL+"/api/battle/begin", "application/json", nil)
	if err != nil {
		t.Fatalf("POST begin: %v", err)
	}
	var snap game.Snapshot
	if err := json.NewDecoder(resp.Body).Decode(&snap); err != nil {
		t.Fatalf("decode: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusAccepted {
		t.Fatalf("expected 202, got %d", resp.StatusCode)
	}
	if snap.State != game.StateRunning || snap.Tick != 0 || len(snap.Units) < 4 {
		t.Fatalf("unexpected snapshot after begin: %+v", snap)
	}
	for _, u := range snap.Units {
		if u.Label == "" || u.Health != 1 || u.Status != game.StatusReady {
			t.Fatalf("unit not fresh: %+v", u)
		}
	}
	if !s.Driver().Running() {
		t.Fatal("begin should start the battle loop")
	}
}

func TestServer_MethodNotAllowed(t *testing.T) {
	_, ts := newTestServer(t, time.Hour)
	resp, err := http.Get(ts.URL + "/api/battle/begin")
	if err != nil {
		t.Fatalf("GET begin: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusMethodNotAllowed {
		t.Fatalf("expected 405, got %d", resp.StatusCode)
	}
}

func TestServer_WebsocketStreamsUntilBattleOver(t *testing.T) {
	s, ts := newTestServer(t, 2*time.Millisecond)

	wsURL := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()
	_ = conn.SetReadDeadline(time.Now().Add(30 * time.Second))

	var env Envelope
	if err := conn.ReadJSON(&env); err != nil {
		t.Fatalf("read replayed snapshot: %v", err)
	}
	if env.Type != MsgSnapshot {
		t.Fatalf("expected replayed snapshot first, got %q", env.Type)
	}

	for deadline := time.Now().Add(5 * time.Second); s.Hub().Clients() == 0; {
		if time.Now().After(deadline) {
			t.Fatal("spectator never registered")
		}
		time.Sleep(5 * time.Millisecond)
	}
	resp, err := http.Post(ts.URL+"/api/battle/begin", "application/json", nil)
	if err != nil {
		t.Fatalf("POST begin: %v", err)
	}
	resp.Body.Close()

	snapshots := 0
	for {
		if err := conn.ReadJSON(&env); err != nil {
			t.Fatalf("read: %v (after %d snapshots)", err, snapshots)
		}
		if env.Type == MsgSnapshot {
			snapshots++
			continue
		}
		if env.Type != MsgBattleOver {
			t.Fatalf("unexpected message type %q", env.Type)
		}
		var over BattleOver
		if err := json.Unmarshal(env.Data, &over); err != nil {
			t.Fatalf("decode battle_over: %v", err)
		}
		final := s.Driver().Snapshot()
		if !final.Over() || final.Winner != over.Winner {
			t.Fatalf("battle_over for %s but final snapshot says %s/%s", over.Winner, final.State, final.Winner)
		}
		break
	}
	if snapshots == 0 {
		t.Fatal("expected snapshots before battle_over")
	}
}
