package httputil

import (
	"net/http"
	"time"
)

type Clients struct {
	Backend   *http.Client // listing backend, long-poll watch included
	Directory *http.Client // school directory endpoint
	Geocode   *http.Client // geocoder
}

func NewClients(watchTimeout time.Duration) *Clients {
	// The watch client must outlive a full long-poll cycle, so its
	// timeout gets headroom over the server-side wait.
	return &Clients{
		Backend:   &http.Client{Timeout: watchTimeout + 10*time.Second},
		Directory: &http.Client{Timeout: 15 * time.Second},
		Geocode:   &http.Client{Timeout: 15 * time.Second},
	}
}
