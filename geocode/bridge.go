package geocode

import (
	"context"
	"log"
	"strings"
	"sync/atomic"
)

// Update is a geocode result delivered to the view. Position holds the
// coordinate when Found is true.
type Update struct {
	Query  string
	Result Result
}

// Bridge runs single-shot lookups as the address text changes. Every
// lookup carries a monotonically increasing token; a response whose
// token is no longer the latest issued is dropped, so out-of-order
// completions cannot overwrite a newer map position. Failures are logged
// and otherwise silent: the position simply does not move.
type Bridge struct {
	geocoder Geocoder
	updates  chan Update
	latest   atomic.Uint64
}

func NewBridge(geocoder Geocoder) *Bridge {
	return &Bridge{
		geocoder: geocoder,
		updates:  make(chan Update, 8),
	}
}

// Updates is the stream of accepted lookup results.
func (b *Bridge) Updates() <-chan Update {
	return b.updates
}

// Lookup starts an asynchronous geocode of text. Empty input after
// trimming is ignored. There is no debouncing; superseded requests are
// discarded on arrival instead.
func (b *Bridge) Lookup(ctx context.Context, text string) {
	query := strings.TrimSpace(text)
	if query == "" {
		return
	}

	token := b.latest.Add(1)

	go func() {
		result, err := b.geocoder.Geocode(ctx, query)
		if err != nil {
			log.Printf("geocode %q failed: %v", query, err)
			return
		}
		if !result.Found {
			return
		}
		if b.latest.Load() != token {
			// A newer lookup was issued while this one was in flight.
			return
		}
		select {
		case b.updates <- Update{Query: query, Result: result}:
		case <-ctx.Done():
		}
	}()
}
