package emulator

import (
	"encoding/json"
	"net/http"
	"sort"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

type document struct {
	ID   string         `json:"id"`
	Data map[string]any `json:"data"`
}

type snapshot struct {
	Revision  uint64     `json:"revision"`
	Documents []document `json:"documents"`
}

func (s *Server) handleList(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	snap := s.snapshotLocked()
	s.mu.Unlock()

	writeJSON(w, http.StatusOK, snap)
}

// handleWatch long-polls until the collection revision exceeds ?since,
// then returns the full document set. On timeout it returns the current
// state unchanged so the client can immediately re-arm.
func (s *Server) handleWatch(w http.ResponseWriter, r *http.Request) {
	since, _ := strconv.ParseUint(r.URL.Query().Get("since"), 10, 64)

	deadline := time.After(s.watchTimeout)
	for {
		s.mu.Lock()
		if s.revision > since {
			snap := s.snapshotLocked()
			s.mu.Unlock()
			writeJSON(w, http.StatusOK, snap)
			return
		}
		changed := s.changed
		s.mu.Unlock()

		select {
		case <-changed:
		case <-deadline:
			s.mu.Lock()
			snap := s.snapshotLocked()
			s.mu.Unlock()
			writeJSON(w, http.StatusOK, snap)
			return
		case <-r.Context().Done():
			return
		}
	}
}

func (s *Server) handleCreate(w http.ResponseWriter, r *http.Request) {
	var data map[string]any
	if err := json.NewDecoder(r.Body).Decode(&data); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if data == nil {
		data = make(map[string]any)
	}

	// The session, not the client, decides write attribution.
	data["postedBy"] = sessionEmail(r.Context())
	data["createdAt"] = time.Now().UTC().Format(time.RFC3339)

	id := uuid.New().String()

	s.mu.Lock()
	s.docs[id] = data
	s.bump()
	s.mu.Unlock()

	writeJSON(w, http.StatusCreated, map[string]string{"id": id})
}

func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	s.mu.Lock()
	if _, exists := s.docs[id]; exists {
		delete(s.docs, id)
		s.bump()
	}
	s.mu.Unlock()

	// Deleting an absent document succeeds, like the hosted store.
	w.WriteHeader(http.StatusNoContent)
}

// snapshotLocked renders the collection ordered by address ascending,
// case-sensitive. Callers hold s.mu.
func (s *Server) snapshotLocked() snapshot {
	docs := make([]document, 0, len(s.docs))
	for id, data := range s.docs {
		docs = append(docs, document{ID: id, Data: data})
	}

	sort.Slice(docs, func(i, j int) bool {
		ai, _ := docs[i].Data["address"].(string)
		aj, _ := docs[j].Data["address"].(string)
		if ai != aj {
			return ai < aj
		}
		return docs[i].ID < docs[j].ID
	})

	return snapshot{Revision: s.revision, Documents: docs}
}
