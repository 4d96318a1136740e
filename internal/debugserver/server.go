package debugserver

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"os"
	"strconv"
	"time"

	"walk3d/internal/world"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
	"github.com/pkg/errors"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// Server exposes the hub's snapshots over HTTP:
//
//	GET /api/snapshot        the whole latest frame
//	GET /api/nodes           node list
//	GET /api/nodes/{id}      one node by uuid, name or handle
//	GET /api/character       character state
//	GET /api/colliders       collider boxes, ?touching=1 for contacts only
//	GET /ws                  every published frame as JSON text messages
type Server struct {
	hub    *Hub
	router *mux.Router
}

func New(hub *Hub) *Server {
	s := &Server{hub: hub, router: mux.NewRouter()}
	s.router.HandleFunc("/api/snapshot", s.handleSnapshot).Methods("GET")
	s.router.HandleFunc("/api/nodes", s.handleNodes).Methods("GET")
	s.router.HandleFunc("/api/nodes/{id}", s.handleNode).Methods("GET")
	s.router.HandleFunc("/api/character", s.handleCharacter).Methods("GET")
	s.router.HandleFunc("/api/colliders", s.handleColliders).Methods("GET")
	s.router.HandleFunc("/ws", s.handleWs)
	return s
}

// Handler is the router wrapped with panic recovery and access logging.
func (s *Server) Handler() http.Handler {
	h := handlers.RecoveryHandler(handlers.PrintRecoveryStack(true))(s.router)
	return handlers.LoggingHandler(os.Stdout, h)
}

// ListenAndServe serves until ctx is cancelled.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{Addr: addr, Handler: s.Handler()}

	errc := make(chan error, 1)
	go func() {
		log.Printf("[debug] Starting server %v", addr)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		return errors.Wrapf(err, "debug server %s", addr)
	case <-ctx.Done():
		s.hub.Close()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return errors.Wrap(err, "shutdown debug server")
		}
		return nil
	}
}

func (s *Server) latest(w http.ResponseWriter) *world.Snapshot {
	snap := s.hub.Latest()
	if snap == nil {
		writeError(w, http.StatusServiceUnavailable, errors.New("no frame published yet"))
	}
	return snap
}

func (s *Server) handleSnapshot(w http.ResponseWriter, r *http.Request) {
	if snap := s.latest(w); snap != nil {
		writeJson(w, snap)
	}
}

func (s *Server) handleNodes(w http.ResponseWriter, r *http.Request) {
	if snap := s.latest(w); snap != nil {
		writeJson(w, snap.Nodes)
	}
}

func (s *Server) handleNode(w http.ResponseWriter, r *http.Request) {
	snap := s.latest(w)
	if snap == nil {
		return
	}
	id := mux.Vars(r)["id"]
	if n, ok := snap.FindNode(id); ok {
		writeJson(w, n)
		return
	}
	if h, err := strconv.Atoi(id); err == nil {
		for _, n := range snap.Nodes {
			if int(n.Handle) == h {
				writeJson(w, n)
				return
			}
		}
	}
	writeError(w, http.StatusNotFound, errors.Errorf("node %q not found", id))
}

func (s *Server) handleCharacter(w http.ResponseWriter, r *http.Request) {
	snap := s.latest(w)
	if snap == nil {
		return
	}
	if snap.Character == nil {
		writeError(w, http.StatusNotFound, errors.New("scene has no character"))
		return
	}
	writeJson(w, snap.Character)
}

func (s *Server) handleColliders(w http.ResponseWriter, r *http.Request) {
	snap := s.latest(w)
	if snap == nil {
		return
	}
	if r.URL.Query().Get("touching") == "" {
		writeJson(w, snap.Colliders)
		return
	}
	touching := []world.ColliderSnapshot{}
	for _, c := range snap.Colliders {
		if c.Touching {
			touching = append(touching, c)
		}
	}
	writeJson(w, touching)
}

func (s *Server) handleWs(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("[debug] ws upgrade: %v", err)
		return
	}
	s.hub.register(conn)
}

func writeJson(w http.ResponseWriter, data interface{}) {
	res, err := json.Marshal(data)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Write(res)
}

func writeError(w http.ResponseWriter, status int, err error) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": err.Error()})
}
