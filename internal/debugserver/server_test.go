package debugserver

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"walk3d/internal/config"
	"walk3d/internal/input"
	"walk3d/internal/world"

	"github.com/gorilla/websocket"
)

func testWorld(t *testing.T) *world.World {
	t.Helper()
	w := world.New(config.Default())
	err := w.ParseScene([]byte(`{"objects": [
		{"name": "Floor", "position": [0, 0.5, 0], "components": [{"type": "BoxCollider", "size": [4, 1, 4]}]},
		{"name": "Player", "position": [0, 1, 0], "components": [{"type": "BoxCollider", "size": [1, 1.8, 1]}]}
	]}`))
	if err != nil {
		t.Fatal(err)
	}
	w.Step(1.0/60, input.State{})
	return w
}

func getJson(t *testing.T, url string, v interface{}) int {
	t.Helper()
	resp, err := http.Get(url)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if v != nil && resp.StatusCode == http.StatusOK {
		if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
			t.Fatalf("%s: %v", url, err)
		}
	}
	return resp.StatusCode
}

func TestEndpointsBeforeFirstFrame(t *testing.T) {
	srv := httptest.NewServer(New(NewHub()).Handler())
	defer srv.Close()

	if code := getJson(t, srv.URL+"/api/snapshot", nil); code != http.StatusServiceUnavailable {
		t.Errorf("Expected 503 before the first frame, got %d", code)
	}
}

func TestEndpoints(t *testing.T) {
	hub := NewHub()
	w := testWorld(t)
	if err := hub.Publish(w.Snapshot()); err != nil {
		t.Fatal(err)
	}
	srv := httptest.NewServer(New(hub).Handler())
	defer srv.Close()

	var snap world.Snapshot
	if code := getJson(t, srv.URL+"/api/snapshot", &snap); code != http.StatusOK || snap.Frame != 1 {
		t.Errorf("Expected frame 1, got %d (status %d)", snap.Frame, code)
	}

	var nodes []world.NodeSnapshot
	getJson(t, srv.URL+"/api/nodes", &nodes)
	if len(nodes) != 2 {
		t.Errorf("Expected 2 nodes, got %d", len(nodes))
	}

	tests := []struct {
		key  string
		want string
	}{
		{"Floor", "Floor"},
		{nodes[1].ID, "Player"},
		{"0", "Floor"},
	}
	for _, tt := range tests {
		var n world.NodeSnapshot
		if code := getJson(t, srv.URL+"/api/nodes/"+tt.key, &n); code != http.StatusOK || n.Name != tt.want {
			t.Errorf("/api/nodes/%s: expected %s, got %q (status %d)", tt.key, tt.want, n.Name, code)
		}
	}
	if code := getJson(t, srv.URL+"/api/nodes/Nobody", nil); code != http.StatusNotFound {
		t.Errorf("Expected 404 for unknown node, got %d", code)
	}

	var ch world.CharacterSnapshot
	getJson(t, srv.URL+"/api/character", &ch)
	if ch.Name != "Player" || ch.State != "grounded" {
		t.Errorf("Expected grounded Player, got %+v", ch)
	}

	var touching []world.ColliderSnapshot
	getJson(t, srv.URL+"/api/colliders?touching=1", &touching)
	if len(touching) != 1 || touching[0].Name != "Floor" {
		t.Errorf("Expected only Floor touching, got %+v", touching)
	}

	resp, err := http.Post(srv.URL+"/api/nodes", "application/json", strings.NewReader("{}"))
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusMethodNotAllowed {
		t.Errorf("Expected 405 for POST, got %d", resp.StatusCode)
	}
}

func TestWebsocketFeed(t *testing.T) {
	hub := NewHub()
	w := testWorld(t)
	hub.Publish(w.Snapshot())

	srv := httptest.NewServer(New(hub).Handler())
	defer srv.Close()

	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http")+"/ws", nil)
	if err != nil {
		t.Fatal(err)
	}
	defer conn.Close()
	conn.SetReadDeadline(time.Now().Add(5 * time.Second))

	read := func() world.Snapshot {
		var s world.Snapshot
		if err := conn.ReadJSON(&s); err != nil {
			t.Fatal(err)
		}
		return s
	}

	// the latest frame arrives on connect
	if s := read(); s.Frame != 1 {
		t.Errorf("Expected frame 1 on connect, got %d", s.Frame)
	}

	w.Step(1.0/60, input.State{Forward: true})
	hub.Publish(w.Snapshot())
	s := read()
	if s.Frame != 2 {
		t.Errorf("Expected frame 2, got %d", s.Frame)
	}
	if s.Character == nil || s.Character.Position[2] >= 0 {
		t.Errorf("Expected the character to walk forward in the feed, got %+v", s.Character)
	}
	if hub.Clients() != 1 {
		t.Errorf("Expected 1 client, got %d", hub.Clients())
	}
}
