// Package store is the listing view-model: a live, full-replace feed of
// the remote collection plus the create/delete commands issued against
// it. Consumers only ever see the most recent snapshot.
package store

import (
	"context"
	"errors"
	"log"
	"strings"
	"time"

	"eaglepark/backend"
	"eaglepark/models"
	"eaglepark/pipeline"
)

// ErrNoIdentity means a write was attempted with no signed-in user.
var ErrNoIdentity = errors.New("no signed-in user")

// Snapshot is one full replacement of the listing sequence. Err is set
// when the subscription is degraded and the listings are the last good
// state; the feed keeps retrying either way.
type Snapshot struct {
	Listings []models.Listing
	Err      error
}

// IdentitySource supplies the session identity for write attribution.
// The auth client implements it.
type IdentitySource interface {
	CurrentIdentity() (string, bool)
}

type Store struct {
	backend  *backend.Client
	identity IdentitySource
}

func New(b *backend.Client, identity IdentitySource) *Store {
	return &Store{backend: b, identity: identity}
}

// Subscribe starts the live subscription, ordered by address ascending.
// Every backend change republishes the entire decoded collection on the
// returned channel, replacing whatever the consumer has. The channel has
// capacity one and stale snapshots are dropped, so a slow consumer only
// observes the latest state. The subscription ends when ctx does.
func (s *Store) Subscribe(ctx context.Context) <-chan Snapshot {
	ch := make(chan Snapshot, 1)

	go func() {
		defer close(ch)

		var revision uint64
		backoff := time.Second

		for {
			listings, rev, err := s.backend.Watch(ctx, revision)
			if err != nil {
				if ctx.Err() != nil {
					return
				}
				log.Printf("listing subscription: %v", err)
				publish(ch, Snapshot{Err: err})

				select {
				case <-time.After(backoff):
				case <-ctx.Done():
					return
				}
				if backoff < 30*time.Second {
					backoff *= 2
				}
				continue
			}
			backoff = time.Second

			if rev < revision {
				// Delayed response from before a newer push; drop it.
				continue
			}
			if rev == revision && revision != 0 {
				// Server-side timeout, nothing changed.
				continue
			}

			revision = rev
			publish(ch, Snapshot{Listings: listings})
		}
	}()

	return ch
}

// publish replaces any undelivered snapshot with the new one.
func publish(ch chan Snapshot, snap Snapshot) {
	for {
		select {
		case ch <- snap:
			return
		default:
			select {
			case <-ch:
			default:
			}
		}
	}
}

// Create writes a new listing. The price is normalized on the way in
// ("$15/hr" is stored as "15"); the backend assigns the id and the
// resulting republish arrives via the subscription, not synchronously.
func (s *Store) Create(ctx context.Context, draft models.Draft) error {
	if _, ok := s.identity.CurrentIdentity(); !ok {
		return ErrNoIdentity
	}

	draft.Price = pipeline.CleanPrice(draft.Price)

	return s.backend.CreateListing(ctx, draft)
}

// Delete removes a listing by id. An empty id is a no-op. Ownership is
// not checked here; CanDelete only gates whether the control is shown.
func (s *Store) Delete(ctx context.Context, id string) error {
	if id == "" {
		return nil
	}
	return s.backend.DeleteListing(ctx, id)
}

// CanDelete reports whether the delete control is rendered for listing:
// postedBy must equal the session identity after lower-casing and
// trimming. Note the "my listings" filter lower-cases without trimming;
// the two comparisons are intentionally different.
func CanDelete(listing models.Listing, identity string) bool {
	clean := func(s string) string {
		return strings.TrimSpace(strings.ToLower(s))
	}
	return clean(listing.PostedBy) == clean(identity) && identity != ""
}
