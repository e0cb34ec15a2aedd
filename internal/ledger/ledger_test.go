package ledger

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chaosmibu-blip/mibu/internal/types"
)

// fakeHistory is an in-memory HistoryReader.
type fakeHistory struct {
	ids map[string][]string
	err error
}

func (f *fakeHistory) RecentPlaceIDs(_ context.Context, identity string, limit int) ([]string, error) {
	if f.err != nil {
		return nil, f.err
	}
	ids := f.ids[identity]
	if len(ids) > limit {
		ids = ids[:limit]
	}
	return ids, nil
}

func newLedgerStore(history *fakeHistory) (*Store, *AnonStore) {
	anon := NewAnonStore(30, 30*time.Minute, time.Minute)
	return NewStore(history, anon, 30), anon
}

func TestStore_AuthenticatedReadsHistory(t *testing.T) {
	store, anon := newLedgerStore(&fakeHistory{ids: map[string][]string{
		"user-1": {"p3", "p2", "p1", "p2"},
	}})
	defer anon.Close()

	set, err := store.RecentIDs(context.Background(), types.AuthenticatedIdentity("user-1"), "seoul")
	require.NoError(t, err)
	assert.Len(t, set, 3) // duplicate history rows collapse into the set
	assert.Contains(t, set, "p1")
}

func TestStore_AuthenticatedRecordIsNoop(t *testing.T) {
	history := &fakeHistory{ids: map[string][]string{}}
	store, anon := newLedgerStore(history)
	defer anon.Close()

	identity := types.AuthenticatedIdentity("user-1")
	require.NoError(t, store.Record(context.Background(), identity, "seoul", []string{"p1"}))

	// The durable window comes from history rows, not from Record.
	set, err := store.RecentIDs(context.Background(), identity, "seoul")
	require.NoError(t, err)
	assert.Empty(t, set)
}

func TestStore_AnonymousRoundTrip(t *testing.T) {
	store, anon := newLedgerStore(&fakeHistory{})
	defer anon.Close()

	identity := types.AnonymousIdentity("sess-1")
	ctx := context.Background()

	require.NoError(t, store.Record(ctx, identity, "seoul", []string{"p1", "p2"}))

	set, err := store.RecentIDs(ctx, identity, "seoul")
	require.NoError(t, err)
	assert.Len(t, set, 2)

	// A different city is a separate window for the same guest.
	set, err = store.RecentIDs(ctx, identity, "busan")
	require.NoError(t, err)
	assert.Empty(t, set)
}

func TestStore_AnonymousCityKeyNormalized(t *testing.T) {
	store, anon := newLedgerStore(&fakeHistory{})
	defer anon.Close()

	identity := types.AnonymousIdentity("sess-1")
	ctx := context.Background()

	require.NoError(t, store.Record(ctx, identity, "Seoul", []string{"p1"}))

	set, err := store.RecentIDs(ctx, identity, " seoul ")
	require.NoError(t, err)
	assert.Contains(t, set, "p1")
}

func TestStore_HistoryErrorPropagates(t *testing.T) {
	store, anon := newLedgerStore(&fakeHistory{err: errors.New("db down")})
	defer anon.Close()

	_, err := store.RecentIDs(context.Background(), types.AuthenticatedIdentity("user-1"), "seoul")
	assert.Error(t, err)
}
