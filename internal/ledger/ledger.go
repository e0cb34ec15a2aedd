// Package ledger tracks recently served place ids per identity so repeat
// draws skew toward unseen places.
package ledger

import (
	"context"
	"strings"

	"github.com/chaosmibu-blip/mibu/internal/types"
)

// Ledger is the deduplication record consulted before selection and updated
// after a successful draw.
type Ledger interface {
	// RecentIDs returns the set of place ids to exclude for an identity in
	// a city.
	RecentIDs(ctx context.Context, identity types.Identity, city string) (map[string]struct{}, error)

	// Record notes the served ids for an identity in a city.
	Record(ctx context.Context, identity types.Identity, city string, placeIDs []string) error
}

// HistoryReader is the slice of the draw-history store the durable ledger
// reads from.
type HistoryReader interface {
	RecentPlaceIDs(ctx context.Context, identity string, limit int) ([]string, error)
}

// Store routes ledger traffic: authenticated identities read a fresh
// most-recent-N window from durable history, anonymous identities use the
// volatile TTL store.
type Store struct {
	history   HistoryReader
	anon      *AnonStore
	maxRecent int
}

// NewStore creates a ledger Store.
func NewStore(history HistoryReader, anon *AnonStore, maxRecent int) *Store {
	return &Store{history: history, anon: anon, maxRecent: maxRecent}
}

// RecentIDs implements Ledger.
func (s *Store) RecentIDs(ctx context.Context, identity types.Identity, city string) (map[string]struct{}, error) {
	if identity.Anonymous {
		return s.anon.RecentIDs(anonKey(identity, city)), nil
	}

	ids, err := s.history.RecentPlaceIDs(ctx, identity.Key, s.maxRecent)
	if err != nil {
		return nil, err
	}
	set := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return set, nil
}

// Record implements Ledger. Authenticated identities are a no-op here: their
// window derives from the draw-history rows the engine persists, so writing
// twice would double-count. Anonymous identities update the volatile store.
func (s *Store) Record(_ context.Context, identity types.Identity, city string, placeIDs []string) error {
	if identity.Anonymous {
		s.anon.Record(anonKey(identity, city), placeIDs)
	}
	return nil
}

// anonKey scopes a guest's window to one city.
func anonKey(identity types.Identity, city string) string {
	return identity.Key + "|" + strings.ToLower(strings.TrimSpace(city))
}
