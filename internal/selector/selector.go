// Package selector draws a target-sized candidate set honoring per-category
// minimums, the single lodging slot, and soft caps, with a deterministic
// relaxation ladder on shortage. Selection is pure given its inputs; the
// injected rand source is the only nondeterminism.
package selector

import (
	"math/rand"

	"github.com/chaosmibu-blip/mibu/internal/types"
)

// Pool is the candidate material for one draw. District holds the places of
// the requested district (empty when no district was requested); City holds
// the whole city and is only consulted when the ladder widens scope.
type Pool struct {
	District []types.Place
	City     []types.Place
}

// Relaxation steps applied on shortage, in canonical order.
const (
	RelaxIgnoreExclusions = "ignored_recent_exclusions"
	RelaxWidenToCity      = "widened_to_city"
	RelaxAnyCategory      = "accepted_any_category"
)

// Result is the outcome of one selection.
type Result struct {
	Places []types.Place

	// Shortfall is set when the pool was exhausted before reaching target.
	Shortfall bool

	// Relaxations lists the ladder steps that were needed, in order.
	Relaxations []string
}

// picker accumulates the draw while enforcing no-duplicate and count rules.
type picker struct {
	rules    Rules
	rng      *rand.Rand
	picked   []types.Place
	pickedID map[string]struct{}
	counts   map[types.Category]int
}

// Select draws up to rules.TargetCount places. The primary scope is the
// district pool when non-empty, otherwise the city pool. On shortage the
// ladder relaxes cumulatively: first recently-served exclusions are ignored,
// then scope widens to the city, then category rules are dropped entirely.
func Select(pool Pool, rules Rules, excluded map[string]struct{}, rng *rand.Rand) Result {
	p := &picker{
		rules:    rules,
		rng:      rng,
		pickedID: make(map[string]struct{}, rules.TargetCount),
		counts:   make(map[types.Category]int),
	}

	primary := pool.District
	if len(primary) == 0 {
		primary = pool.City
	}

	var relaxations []string

	p.fillConstrained(primary, excluded)

	if !p.full() {
		relaxations = append(relaxations, RelaxIgnoreExclusions)
		p.fillConstrained(primary, nil)
	}

	if !p.full() && len(pool.District) > 0 {
		relaxations = append(relaxations, RelaxWidenToCity)
		p.fillConstrained(pool.City, nil)
	}

	if !p.full() {
		relaxations = append(relaxations, RelaxAnyCategory)
		p.fillAny(pool.City, nil)
		if !p.full() {
			p.fillAny(pool.District, nil)
		}
	}

	return Result{
		Places:      p.picked,
		Shortfall:   !p.full(),
		Relaxations: relaxations,
	}
}

func (p *picker) full() bool {
	return len(p.picked) >= p.rules.TargetCount
}

// fillConstrained runs the three-phase constrained fill against one scope:
// food minimum, lodging slot, then weighted-roulette filler.
func (p *picker) fillConstrained(scope []types.Place, excluded map[string]struct{}) {
	// Phase 1: food minimum, sampled without replacement.
	for p.counts[types.CategoryFood] < p.rules.FoodMin && !p.full() {
		candidate, ok := p.randomCandidate(scope, excluded, func(pl types.Place) bool {
			return pl.Category == types.CategoryFood
		})
		if !ok {
			break
		}
		p.take(candidate)
	}

	// Phase 2: the single lodging slot.
	if p.rules.LodgingSlot && p.counts[types.CategoryLodging] == 0 && !p.full() {
		if candidate, ok := p.randomCandidate(scope, excluded, func(pl types.Place) bool {
			return pl.Category == types.CategoryLodging
		}); ok {
			p.take(candidate)
		}
	}

	// Phase 3: one roulette draw per remaining slot.
	for !p.full() {
		category, ok := p.rouletteCategory(scope, excluded)
		if !ok {
			break
		}
		candidate, ok := p.randomCandidate(scope, excluded, func(pl types.Place) bool {
			return pl.Category == category
		})
		if !ok {
			break
		}
		p.take(candidate)
	}
}

// fillAny takes any remaining place regardless of category rules. Duplicate
// and lodging-uniqueness invariants still hold.
func (p *picker) fillAny(scope []types.Place, excluded map[string]struct{}) {
	for !p.full() {
		candidate, ok := p.randomCandidate(scope, excluded, func(pl types.Place) bool {
			// Never a second lodging, even with category rules dropped.
			return pl.Category != types.CategoryLodging || p.counts[types.CategoryLodging] == 0
		})
		if !ok {
			return
		}
		p.take(candidate)
	}
}

func (p *picker) take(place types.Place) {
	p.picked = append(p.picked, place)
	p.pickedID[place.ID] = struct{}{}
	p.counts[place.Category]++
}

// randomCandidate picks uniformly among scope places passing the filter that
// are not already picked and not excluded.
func (p *picker) randomCandidate(scope []types.Place, excluded map[string]struct{}, keep func(types.Place) bool) (types.Place, bool) {
	var candidates []types.Place
	for _, place := range scope {
		if _, dup := p.pickedID[place.ID]; dup {
			continue
		}
		if excluded != nil {
			if _, skip := excluded[place.ID]; skip {
				continue
			}
		}
		if keep != nil && !keep(place) {
			continue
		}
		candidates = append(candidates, place)
	}
	if len(candidates) == 0 {
		return types.Place{}, false
	}
	return candidates[p.rng.Intn(len(candidates))], true
}

// rouletteCategory draws a filler category in proportion to configured
// weights, among non-lodging categories that are under their soft cap and
// still have candidates in scope.
func (p *picker) rouletteCategory(scope []types.Place, excluded map[string]struct{}) (types.Category, bool) {
	available := make(map[types.Category]bool)
	for _, place := range scope {
		if place.Category == types.CategoryLodging {
			continue
		}
		if p.counts[place.Category] >= p.rules.SoftCap {
			continue
		}
		if _, dup := p.pickedID[place.ID]; dup {
			continue
		}
		if excluded != nil {
			if _, skip := excluded[place.ID]; skip {
				continue
			}
		}
		available[place.Category] = true
	}
	if len(available) == 0 {
		return "", false
	}

	// Deterministic iteration order for a given rng seed.
	var total float64
	var eligible []types.Category
	for _, category := range types.Categories() {
		if available[category] {
			eligible = append(eligible, category)
			total += p.weightOf(category)
		}
	}

	roll := p.rng.Float64() * total
	for _, category := range eligible {
		roll -= p.weightOf(category)
		if roll < 0 {
			return category, true
		}
	}
	return eligible[len(eligible)-1], true
}

func (p *picker) weightOf(category types.Category) float64 {
	if w, ok := p.rules.Weights[category]; ok && w > 0 {
		return w
	}
	return 1
}
