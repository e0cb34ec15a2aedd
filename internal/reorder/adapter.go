package reorder

import (
	"context"
	"log/slog"
	"time"

	"github.com/chaosmibu-blip/mibu/internal/llm"
	"github.com/chaosmibu-blip/mibu/internal/types"
)

// Adapter asks an advisory model for a better visiting order and validates
// whatever comes back. It never fails the draw: every failure mode degrades
// to a nil permutation and a descriptive outcome, and the caller keeps the
// order it already has.
type Adapter struct {
	provider llm.Provider
	policy   llm.Policy
	timeout  time.Duration
	logger   *slog.Logger
}

// NewAdapter builds an Adapter. A nil provider is valid and makes every
// Propose call report ReorderUnavailable.
func NewAdapter(provider llm.Provider, policy llm.Policy, timeout time.Duration, logger *slog.Logger) *Adapter {
	if logger == nil {
		logger = slog.Default()
	}
	return &Adapter{
		provider: provider,
		policy:   policy,
		timeout:  timeout,
		logger:   logger,
	}
}

// Propose returns a vetted 0-based permutation over places plus the model's
// one-line rationale, or a nil permutation when the caller should keep its
// existing order. The permutation always covers every input index exactly
// once, with any lodging stop forced last.
func (a *Adapter) Propose(ctx context.Context, places []types.Place) ([]int, string, types.ReorderOutcome) {
	if len(places) < 2 {
		return nil, "", types.ReorderSkipped
	}
	if a.provider == nil {
		return nil, "", types.ReorderUnavailable
	}

	system, user := BuildPrompt(places)

	callCtx := ctx
	if a.timeout > 0 {
		var cancel context.CancelFunc
		callCtx, cancel = context.WithTimeout(ctx, a.timeout)
		defer cancel()
	}

	var raw string
	err := llm.Do(callCtx, a.policy, func(ctx context.Context) error {
		var callErr error
		raw, callErr = a.provider.Complete(ctx, system, user)
		return callErr
	})
	if err != nil {
		a.logger.Warn("advisory reorder unavailable",
			"provider", a.provider.Name(),
			"error", err)
		return nil, "", types.ReorderUnavailable
	}

	parsed := Parse(raw)
	if parsed.Kind == ParseUnparseable {
		a.logger.Warn("advisory reorder response unparseable",
			"provider", a.provider.Name())
		return nil, "", types.ReorderParseFailed
	}

	result, ok := vet(parsed, len(places))
	if !ok {
		a.logger.Warn("advisory reorder discarded after validation",
			"provider", a.provider.Name(),
			"parse_kind", parsed.Kind)
		return nil, "", types.ReorderParseFailed
	}

	order := lodgingLast(result.Order, places)
	if result.Rejections > 0 {
		return order, parsed.Rationale, types.ReorderWithRejections
	}
	return order, parsed.Rationale, types.ReorderApplied
}

// lodgingLast moves any lodging index to the end of the permutation while
// keeping the relative order of everything else. engine.lodgingLast enforces
// the same rule over the assembled items; keep the two in step.
func lodgingLast(order []int, places []types.Place) []int {
	out := make([]int, 0, len(order))
	var lodging []int
	for _, idx := range order {
		if places[idx].Category == types.CategoryLodging {
			lodging = append(lodging, idx)
			continue
		}
		out = append(out, idx)
	}
	return append(out, lodging...)
}
