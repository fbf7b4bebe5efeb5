// Package emulator is a development stand-in for the hosted backend:
// email/password auth, the listings collection with a long-poll watch
// feed, and the school directory endpoint. State is in memory only.
package emulator

import (
	"encoding/json"
	"log"
	"net/http"
	"os"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"

	"eaglepark/models"
)

type Server struct {
	secret       []byte
	watchTimeout time.Duration
	schools      models.SchoolDirectory

	mu       sync.Mutex
	users    map[string]string         // email -> bcrypt hash
	docs     map[string]map[string]any // document id -> fields
	revision uint64
	changed  chan struct{} // closed and replaced on every mutation
}

type Options struct {
	JWTSecret    string
	WatchTimeout time.Duration
	SchoolsFile  string // optional directory JSON; defaults to the built-in set
}

func New(opts Options) (*Server, error) {
	if opts.WatchTimeout == 0 {
		opts.WatchTimeout = 25 * time.Second
	}

	s := &Server{
		secret:       []byte(opts.JWTSecret),
		watchTimeout: opts.WatchTimeout,
		schools:      defaultSchools,
		users:        make(map[string]string),
		docs:         make(map[string]map[string]any),
		revision:     1, // non-zero so a fresh watch returns immediately
		changed:      make(chan struct{}),
	}

	if opts.SchoolsFile != "" {
		data, err := os.ReadFile(opts.SchoolsFile)
		if err != nil {
			return nil, err
		}
		if err := json.Unmarshal(data, &s.schools); err != nil {
			return nil, err
		}
	}

	return s, nil
}

func (s *Server) Router() http.Handler {
	r := chi.NewRouter()

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
	}))

	r.Post("/v1/auth/signup", s.handleSignUp)
	r.Post("/v1/auth/signin", s.handleSignIn)
	r.Post("/v1/auth/signout", s.handleSignOut)

	r.Get("/v1/listings", s.handleList)
	r.Get("/v1/listings/watch", s.handleWatch)

	r.Group(func(r chi.Router) {
		r.Use(s.requireAuth)
		r.Post("/v1/listings", s.handleCreate)
		r.Delete("/v1/listings/{id}", s.handleDelete)
	})

	r.Get("/v1/schools", s.handleSchools)

	return r
}

// ListenAndServe runs the emulator until the process ends.
func (s *Server) ListenAndServe(addr string) error {
	log.Printf("Emulator listening on %s", addr)
	return http.ListenAndServe(addr, s.Router())
}

func (s *Server) handleSchools(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.schools)
}

// bump records a collection mutation and wakes all watchers. Callers
// hold s.mu.
func (s *Server) bump() {
	s.revision++
	close(s.changed)
	s.changed = make(chan struct{})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("write response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// defaultSchools matches the payload the hosted directory endpoint
// serves: the five campuses the filters know about.
var defaultSchools = models.SchoolDirectory{
	Schools: []models.School{
		{
			Name:          "Boston College",
			EmailDomain:   "bc.edu",
			Coordinates:   models.Coordinates{Lat: 42.3355, Lng: -71.1685},
			StreetsNearby: []string{"Commonwealth Ave", "Beacon St", "Lake St"},
		},
		{
			Name:          "Boston University",
			EmailDomain:   "bu.edu",
			Coordinates:   models.Coordinates{Lat: 42.3505, Lng: -71.1054},
			StreetsNearby: []string{"Commonwealth Ave", "Bay State Rd"},
		},
		{
			Name:          "Northeastern University",
			EmailDomain:   "northeastern.edu",
			Coordinates:   models.Coordinates{Lat: 42.3398, Lng: -71.0892},
			StreetsNearby: []string{"Huntington Ave", "Columbus Ave"},
		},
		{
			Name:          "Harvard University",
			EmailDomain:   "harvard.edu",
			Coordinates:   models.Coordinates{Lat: 42.3770, Lng: -71.1167},
			StreetsNearby: []string{"Massachusetts Ave", "Brattle St"},
		},
		{
			Name:          "Massachusetts Institute of Technology",
			EmailDomain:   "mit.edu",
			Coordinates:   models.Coordinates{Lat: 42.3601, Lng: -71.0942},
			StreetsNearby: []string{"Massachusetts Ave", "Vassar St", "Main St"},
		},
	},
}
