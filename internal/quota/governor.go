// Package quota enforces the per-identity daily draw ceiling.
//
// Authenticated identities count against a durable per-day counter; anonymous
// identities are throttled by an in-memory token bucket instead, since a
// guest key only lives as long as its session. A small allow-list of
// identities bypasses the ceiling entirely.
package quota

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/chaosmibu-blip/mibu/internal/config"
	"github.com/chaosmibu-blip/mibu/internal/database"
	"github.com/chaosmibu-blip/mibu/internal/types"
)

// Unlimited is the remaining-quota value reported for identities the ceiling
// does not apply to.
const Unlimited = -1

// identityLock serializes check/commit for one identity. Refcounted so the
// idle sweep never drops a lock that a goroutine holds or waits on.
type identityLock struct {
	sync.Mutex
	refs        int
	lastTouched time.Time
}

// limiterEntry is one guest session's token bucket plus its idle timestamp.
type limiterEntry struct {
	limiter     *rate.Limiter
	lastTouched time.Time
}

// Governor gates draws against the configured daily ceiling. Its per-identity
// in-memory state is swept on an idle TTL, so the maps stay proportional to
// active identities rather than lifetime traffic.
type Governor struct {
	dao    *database.QuotaDAO
	cfg    config.QuotaConfig
	logger *slog.Logger

	mu       sync.Mutex
	locks    map[string]*identityLock
	limiters map[string]*limiterEntry

	done      chan struct{}
	closeOnce sync.Once
	now       func() time.Time // injectable clock for tests
}

// NewGovernor creates a Governor over the durable counter DAO and starts its
// idle-state sweep goroutine.
func NewGovernor(dao *database.QuotaDAO, cfg config.QuotaConfig, logger *slog.Logger) *Governor {
	if logger == nil {
		logger = slog.Default()
	}
	g := &Governor{
		dao:      dao,
		cfg:      cfg,
		logger:   logger,
		locks:    make(map[string]*identityLock),
		limiters: make(map[string]*limiterEntry),
		done:     make(chan struct{}),
		now:      time.Now,
	}
	go g.sweepLoop(cfg.SweepInterval)
	return g
}

// Close stops the background sweep.
func (g *Governor) Close() {
	g.closeOnce.Do(func() { close(g.done) })
}

// CheckAndReserve verifies that an identity may draw `requested` places on
// the given day. The counter itself is only advanced by Commit, so a draw
// that fails downstream of the gate never consumes durable quota.
//
// Returns DAILY_LIMIT_EXCEEDED when the ceiling is already reached and
// EXCEEDS_REMAINING_QUOTA (with a "remaining" detail) when the request is
// larger than what is left.
func (g *Governor) CheckAndReserve(ctx context.Context, identity types.Identity, day time.Time, requested int) error {
	if g.cfg.IsExempt(identity.Key) {
		return nil
	}

	if identity.Anonymous {
		return g.checkAnonymous(identity, requested)
	}

	lock := g.acquire(identity.Key)
	defer g.release(lock)

	count, err := g.dao.DailyDrawCount(ctx, identity.Key, database.DayKey(day))
	if err != nil {
		return err
	}

	remaining := g.cfg.DailyCeiling - count
	if remaining <= 0 {
		return types.NewError(types.DAILY_LIMIT_EXCEEDED,
			"daily draw limit reached, try again tomorrow").
			WithDetail("remaining", 0)
	}
	if requested > remaining {
		return types.NewError(types.EXCEEDS_REMAINING_QUOTA,
			"requested count exceeds remaining daily quota").
			WithDetail("remaining", remaining)
	}
	return nil
}

// Commit records `actual` drawn places against the identity's daily counter.
// Anonymous and exempt identities have no durable counter to advance.
func (g *Governor) Commit(ctx context.Context, identity types.Identity, day time.Time, actual int) error {
	if actual <= 0 || identity.Anonymous || g.cfg.IsExempt(identity.Key) {
		return nil
	}

	lock := g.acquire(identity.Key)
	defer g.release(lock)

	return g.dao.IncrementDailyDrawCount(ctx, identity.Key, database.DayKey(day), actual)
}

// Remaining reports how much daily quota an identity has left on the given
// day. Identities outside the durable counter report Unlimited.
func (g *Governor) Remaining(ctx context.Context, identity types.Identity, day time.Time) (int, error) {
	if identity.Anonymous || g.cfg.IsExempt(identity.Key) {
		return Unlimited, nil
	}

	count, err := g.dao.DailyDrawCount(ctx, identity.Key, database.DayKey(day))
	if err != nil {
		return 0, err
	}
	remaining := g.cfg.DailyCeiling - count
	if remaining < 0 {
		remaining = 0
	}
	return remaining, nil
}

// checkAnonymous throttles a guest session through its token bucket. Tokens
// are consumed at the gate; there is no durable counter to commit to.
func (g *Governor) checkAnonymous(identity types.Identity, requested int) error {
	limiter := g.anonymousLimiter(identity.Key)
	if requested > limiter.Burst() {
		return types.NewError(types.EXCEEDS_REMAINING_QUOTA,
			"requested count exceeds the guest session allowance").
			WithDetail("remaining", limiter.Burst())
	}
	if !limiter.AllowN(g.now(), requested) {
		g.logger.Debug("guest session throttled", "identity", identity.Key)
		return types.NewError(types.DAILY_LIMIT_EXCEEDED,
			"guest session draw allowance exhausted, slow down").
			WithDetail("remaining", 0)
	}
	return nil
}

func (g *Governor) acquire(key string) *identityLock {
	g.mu.Lock()
	lock, ok := g.locks[key]
	if !ok {
		lock = &identityLock{}
		g.locks[key] = lock
	}
	lock.refs++
	g.mu.Unlock()

	lock.Lock()
	return lock
}

func (g *Governor) release(lock *identityLock) {
	lock.Unlock()
	g.mu.Lock()
	lock.refs--
	lock.lastTouched = g.now()
	g.mu.Unlock()
}

func (g *Governor) anonymousLimiter(key string) *rate.Limiter {
	g.mu.Lock()
	defer g.mu.Unlock()
	entry, ok := g.limiters[key]
	if !ok {
		entry = &limiterEntry{
			limiter: rate.NewLimiter(rate.Limit(g.cfg.AnonymousRate), g.cfg.AnonymousBurst),
		}
		g.limiters[key] = entry
	}
	entry.lastTouched = g.now()
	return entry.limiter
}

func (g *Governor) sweepLoop(interval time.Duration) {
	if interval <= 0 {
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-g.done:
			return
		case <-ticker.C:
			g.sweep()
		}
	}
}

// sweep evicts per-identity state that has been idle past the TTL. A guest
// bucket idle that long has fully refilled, so evicting it does not change
// what the next request is allowed; a lock is only dropped when nobody holds
// or waits on it.
func (g *Governor) sweep() {
	g.mu.Lock()
	defer g.mu.Unlock()

	cutoff := g.now().Add(-g.cfg.IdleTTL)
	for key, lock := range g.locks {
		if lock.refs == 0 && lock.lastTouched.Before(cutoff) {
			delete(g.locks, key)
		}
	}
	for key, entry := range g.limiters {
		if entry.lastTouched.Before(cutoff) {
			delete(g.limiters, key)
		}
	}
}
