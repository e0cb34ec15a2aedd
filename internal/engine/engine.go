// Package engine orchestrates one draw end to end: request validation, the
// quota gate, candidate selection, sequencing, the best-effort advisory
// reorder, sponsor rewards and the post-draw bookkeeping.
package engine

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"
	"sort"
	"strings"
	"time"

	"github.com/chaosmibu-blip/mibu/internal/catalog"
	"github.com/chaosmibu-blip/mibu/internal/config"
	"github.com/chaosmibu-blip/mibu/internal/ledger"
	"github.com/chaosmibu-blip/mibu/internal/metrics"
	"github.com/chaosmibu-blip/mibu/internal/quota"
	"github.com/chaosmibu-blip/mibu/internal/reward"
	"github.com/chaosmibu-blip/mibu/internal/selector"
	"github.com/chaosmibu-blip/mibu/internal/sequence"
	"github.com/chaosmibu-blip/mibu/internal/types"
)

// ReorderProposer is the advisory reorder seam. A nil proposer disables the
// pass; the engine never fails a draw because of it.
type ReorderProposer interface {
	Propose(ctx context.Context, places []types.Place) (order []int, rationale string, outcome types.ReorderOutcome)
}

// HistoryWriter persists finished draws for audit and the durable dedup
// window.
type HistoryWriter interface {
	RecordDraw(ctx context.Context, identity string, placeIDs []string, rationale string, sessionID types.ID) error
}

// Deps wires an Engine. Config, Catalog, Ledger and Governor are required;
// the rest degrade gracefully when nil.
type Deps struct {
	Config    *config.Config
	Catalog   catalog.Provider
	Ledger    ledger.Ledger
	Governor  *quota.Governor
	History   HistoryWriter
	Roller    *reward.Roller
	Reorder   ReorderProposer
	Sequencer *sequence.Sequencer
	Metrics   *metrics.Metrics
	Logger    *slog.Logger
}

// Engine runs draws.
type Engine struct {
	cfg       *config.Config
	catalog   catalog.Provider
	ledger    ledger.Ledger
	governor  *quota.Governor
	history   HistoryWriter
	roller    *reward.Roller
	reorder   ReorderProposer
	sequencer *sequence.Sequencer
	metrics   *metrics.Metrics
	logger    *slog.Logger

	now    func() time.Time
	newRNG func() *rand.Rand
}

// New creates an Engine from its dependencies.
func New(deps Deps) *Engine {
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{
		cfg:       deps.Config,
		catalog:   deps.Catalog,
		ledger:    deps.Ledger,
		governor:  deps.Governor,
		history:   deps.History,
		roller:    deps.Roller,
		reorder:   deps.Reorder,
		sequencer: deps.Sequencer,
		metrics:   deps.Metrics,
		logger:    logger,
		now:       time.Now,
		newRNG: func() *rand.Rand {
			return rand.New(rand.NewSource(rand.Int63()))
		},
	}
}

// Draw runs one draw. Rejections (validation, quota) happen before any
// catalog or ledger work and leave no trace; bookkeeping runs only after the
// result is final.
func (e *Engine) Draw(ctx context.Context, req types.SelectionRequest) (*types.SelectionResult, error) {
	start := e.now()

	result, err := e.draw(ctx, req)

	elapsed := e.now().Sub(start)
	outcome := "ok"
	if err != nil {
		outcome = strings.ToLower(string(types.CodeOf(err)))
	}
	e.metrics.ObserveDraw(outcome, elapsed)

	if err != nil {
		e.logger.Warn("draw rejected",
			"city", req.City,
			"identity", req.Identity.Key,
			"error", err)
		return nil, err
	}

	e.logger.Info("draw completed",
		"session_id", result.Meta.SessionID,
		"city", req.City,
		"requested", result.Meta.RequestedCount,
		"returned", result.Meta.ReturnedCount,
		"shortfall", result.Meta.IsShortfall,
		"reorder", result.Meta.ReorderOutcome,
		"rewards", len(result.RewardsWon),
		"elapsed", elapsed)
	return result, nil
}

func (e *Engine) draw(ctx context.Context, req types.SelectionRequest) (*types.SelectionResult, error) {
	req, err := e.validate(req)
	if err != nil {
		return nil, err
	}

	day := e.now()
	if err := e.governor.CheckAndReserve(ctx, req.Identity, day, req.TargetCount); err != nil {
		return nil, err
	}

	pool, err := e.loadPool(ctx, req)
	if err != nil {
		return nil, err
	}

	excluded, err := e.ledger.RecentIDs(ctx, req.Identity, req.City)
	if err != nil {
		return nil, err
	}

	rules := selector.DeriveRules(e.cfg.Selection, req.TargetCount)
	selected := selector.Select(pool, rules, excluded, e.newRNG())
	if len(selected.Places) == 0 {
		return nil, types.NewError(types.NO_PLACES_AVAILABLE,
			fmt.Sprintf("no places available in %s right now", req.City))
	}

	items := e.sequencer.Sequence(selected.Places)
	items, rationale, reorderOutcome := e.advisoryReorder(ctx, items)
	e.metrics.IncReorder(string(reorderOutcome))

	rewardsWon, err := e.attachRewards(ctx, req.Identity, items)
	if err != nil {
		return nil, err
	}

	sessionID := types.NewID()
	if err := e.commit(ctx, req, day, items, rationale, sessionID); err != nil {
		return nil, err
	}

	meta := types.DrawMeta{
		SessionID:      sessionID,
		RequestedCount: req.TargetCount,
		ReturnedCount:  len(items),
		IsShortfall:    selected.Shortfall,
		ReorderOutcome: reorderOutcome,
	}
	if selected.Shortfall {
		e.metrics.IncShortfall()
		meta.ShortfallMessage = fmt.Sprintf(
			"only %d of %d requested places were available nearby", len(items), req.TargetCount)
	}
	if remaining, err := e.governor.Remaining(ctx, req.Identity, day); err == nil {
		meta.RemainingQuota = remaining
	} else {
		e.logger.Warn("remaining quota lookup failed", "identity", req.Identity.Key, "error", err)
		meta.RemainingQuota = quota.Unlimited
	}

	e.metrics.AddRewards(len(rewardsWon))

	return &types.SelectionResult{
		Items:      items,
		RewardsWon: rewardsWon,
		Meta:       meta,
	}, nil
}

// validate normalizes and vets the request. A request without an identity
// becomes a fresh anonymous session.
func (e *Engine) validate(req types.SelectionRequest) (types.SelectionRequest, error) {
	req.City = strings.TrimSpace(req.City)
	req.District = strings.TrimSpace(req.District)

	if req.City == "" {
		return req, types.NewError(types.CITY_REQUIRED, "city is required")
	}

	min := e.cfg.Selection.MinTargetCount
	max := e.cfg.Selection.MaxTargetCount
	if req.TargetCount < min || req.TargetCount > max {
		return req, types.NewError(types.INVALID_TARGET_COUNT,
			fmt.Sprintf("target count must be between %d and %d", min, max)).
			WithDetail("min", min).
			WithDetail("max", max)
	}

	if req.Identity.IsZero() {
		req.Identity = types.AnonymousIdentity(types.NewID().String())
	}
	return req, nil
}

// loadPool fetches the candidate material. The city pool is always loaded so
// the relaxation ladder can widen scope without a second round trip.
func (e *Engine) loadPool(ctx context.Context, req types.SelectionRequest) (selector.Pool, error) {
	exists, err := e.catalog.CityExists(ctx, req.City)
	if err != nil {
		return selector.Pool{}, err
	}
	if !exists {
		return selector.Pool{}, types.NewError(types.REGION_NOT_FOUND,
			fmt.Sprintf("city %q is not covered yet", req.City))
	}

	limit := e.cfg.Selection.CatalogFetchLimit
	var pool selector.Pool
	if req.District != "" {
		pool.District, err = e.catalog.PlacesByDistrict(ctx, req.City, req.District, limit)
		if err != nil {
			return selector.Pool{}, err
		}
	}
	pool.City, err = e.catalog.PlacesByCity(ctx, req.City, limit)
	if err != nil {
		return selector.Pool{}, err
	}
	if len(pool.City) == 0 && len(pool.District) == 0 {
		return selector.Pool{}, types.NewError(types.NO_PLACES_AVAILABLE,
			fmt.Sprintf("no places available in %s right now", req.City))
	}
	return pool, nil
}

// advisoryReorder runs the best-effort reorder pass and applies whatever
// survives validation. Lodging is forced last regardless of what the
// advisory proposed.
func (e *Engine) advisoryReorder(ctx context.Context, items []types.DraftItem) ([]types.DraftItem, string, types.ReorderOutcome) {
	if e.reorder == nil {
		return lodgingLast(items), "", types.ReorderUnavailable
	}

	places := make([]types.Place, len(items))
	for i, item := range items {
		places[i] = item.Place
	}

	order, rationale, outcome := e.reorder.Propose(ctx, places)
	if order != nil {
		permuted := make([]types.DraftItem, len(items))
		for i, idx := range order {
			permuted[i] = items[idx]
		}
		items = permuted
	}
	return lodgingLast(items), rationale, outcome
}

// commit runs the post-draw bookkeeping. History and ledger writes are
// best-effort and their failures are logged and swallowed. The quota
// increment is not: a dropped increment hands out uncounted draws, so its
// failure fails the whole draw.
func (e *Engine) commit(ctx context.Context, req types.SelectionRequest, day time.Time, items []types.DraftItem, rationale string, sessionID types.ID) error {
	placeIDs := make([]string, len(items))
	for i, item := range items {
		placeIDs[i] = item.Place.ID
	}

	if e.history != nil {
		if err := e.history.RecordDraw(ctx, req.Identity.Key, placeIDs, rationale, sessionID); err != nil {
			e.logger.Error("recording draw history failed",
				"session_id", sessionID, "error", err)
		}
	}
	if err := e.ledger.Record(ctx, req.Identity, req.City, placeIDs); err != nil {
		e.logger.Error("updating dedup ledger failed",
			"session_id", sessionID, "error", err)
	}
	return e.governor.Commit(ctx, req.Identity, day, len(items))
}

// attachRewards rolls sponsor rewards and pins them onto their items.
func (e *Engine) attachRewards(ctx context.Context, identity types.Identity, items []types.DraftItem) ([]types.Reward, error) {
	if e.roller == nil {
		return nil, nil
	}

	places := make([]types.Place, len(items))
	for i, item := range items {
		places[i] = item.Place
	}
	byPlace, err := e.roller.Roll(ctx, identity, places)
	if err != nil {
		return nil, err
	}

	var won []types.Reward
	for i := range items {
		if r, ok := byPlace[items[i].Place.ID]; ok {
			items[i].Reward = r
			won = append(won, *r)
		}
	}
	return won, nil
}

// lodgingLast stably moves stay-slot items to the end and renumbers the
// sequence. reorder.lodgingLast enforces the same rule over the proposed
// permutation; keep the two in step.
func lodgingLast(items []types.DraftItem) []types.DraftItem {
	sort.SliceStable(items, func(i, j int) bool {
		return (items[i].Slot != types.SlotStay) && (items[j].Slot == types.SlotStay)
	})
	for i := range items {
		items[i].Sequence = i
	}
	return items
}
