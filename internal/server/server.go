// Package server exposes the persisted artifacts over HTTP: the JSON dataset
// and the generated calendar files. It serves whatever the last accepted run
// published and never triggers fetching itself.
package server

import (
	"encoding/json"
	"net/http"
	"os"
	"regexp"
	"time"

	"github.com/gorilla/mux"

	"github.com/Elmoro10/Fagerborg-BK-Kamper/internal/logger"
	"github.com/Elmoro10/Fagerborg-BK-Kamper/internal/storage"
)

var scopeKeyPattern = regexp.MustCompile(`^[a-z0-9-]+$`)

// Server serves the data directory read-only.
type Server struct {
	store *storage.Storage
}

// New creates a server over the given storage.
func New(store *storage.Storage) *Server {
	return &Server{store: store}
}

// Router builds the HTTP routes.
func (s *Server) Router() *mux.Router {
	r := mux.NewRouter()
	r.HandleFunc("/healthz", s.handleHealth).Methods(http.MethodGet)
	r.HandleFunc("/data/matches.json", s.handleBundle).Methods(http.MethodGet)
	r.HandleFunc("/calendar/{scope}.ics", s.handleCalendar).Methods(http.MethodGet)
	return r
}

// ListenAndServe blocks serving the router on addr.
func (s *Server) ListenAndServe(addr string) error {
	srv := &http.Server{
		Addr:         addr,
		Handler:      s.Router(),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}
	logger.Info("serving published artifacts", logger.Fields{"addr": addr})
	return srv.ListenAndServe()
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

func (s *Server) handleBundle(w http.ResponseWriter, _ *http.Request) {
	data, err := os.ReadFile(s.store.BundlePath())
	if err != nil {
		http.Error(w, "no dataset published yet", http.StatusNotFound)
		return
	}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.Write(data)
}

func (s *Server) handleCalendar(w http.ResponseWriter, r *http.Request) {
	scope := mux.Vars(r)["scope"]
	if !scopeKeyPattern.MatchString(scope) {
		http.Error(w, "invalid scope", http.StatusBadRequest)
		return
	}
	data, err := os.ReadFile(s.store.CalendarPath(scope))
	if err != nil {
		http.Error(w, "no calendar published for scope", http.StatusNotFound)
		return
	}
	w.Header().Set("Content-Type", "text/calendar; charset=utf-8")
	w.Write(data)
}
