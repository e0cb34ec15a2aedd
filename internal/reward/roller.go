// Package reward issues probabilistic sponsor rewards for finalized stops.
package reward

import (
	"context"
	"log/slog"
	"math/rand"

	"golang.org/x/sync/errgroup"

	"github.com/chaosmibu-blip/mibu/internal/config"
	"github.com/chaosmibu-blip/mibu/internal/database"
	"github.com/chaosmibu-blip/mibu/internal/types"
)

// Roller rolls sponsor rewards per place. Each place with an active sponsor
// link gets one independent draw against the link's drop rate; a win picks
// uniformly from the sponsor's active catalog and persists the grant before
// the reward is surfaced.
type Roller struct {
	dao    *database.RewardDAO
	cfg    config.RewardConfig
	logger *slog.Logger

	// roll and pick are replaceable for deterministic tests. Both must be
	// safe for concurrent use.
	roll func() float64
	pick func(n int) int
}

// NewRoller creates a Roller.
func NewRoller(dao *database.RewardDAO, cfg config.RewardConfig, logger *slog.Logger) *Roller {
	if logger == nil {
		logger = slog.Default()
	}
	return &Roller{
		dao:    dao,
		cfg:    cfg,
		logger: logger,
		roll:   rand.Float64,
		pick:   rand.Intn,
	}
}

// Roll draws rewards for every place and returns them keyed by place id.
// Draws fan out concurrently; each grant is independent and already-persisted
// grants stand even when a later one fails. A grant persistence failure is
// critical and propagates.
func (r *Roller) Roll(ctx context.Context, identity types.Identity, places []types.Place) (map[string]*types.Reward, error) {
	rewards := make([]*types.Reward, len(places))

	group, groupCtx := errgroup.WithContext(ctx)
	for i, place := range places {
		i, place := i, place
		group.Go(func() error {
			won, err := r.rollPlace(groupCtx, identity, place)
			if err != nil {
				return err
			}
			rewards[i] = won
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		return nil, err
	}

	byPlace := make(map[string]*types.Reward)
	for i, place := range places {
		if rewards[i] != nil {
			byPlace[place.ID] = rewards[i]
		}
	}
	return byPlace, nil
}

func (r *Roller) rollPlace(ctx context.Context, identity types.Identity, place types.Place) (*types.Reward, error) {
	link, err := r.dao.RewardLinkForPlace(ctx, place.ID)
	if err != nil {
		return nil, err
	}
	if link == nil || len(link.Rewards) == 0 {
		return nil, nil
	}

	dropRate := r.cfg.DefaultDropRate
	if link.DropRate != nil {
		dropRate = *link.DropRate
	}
	if dropRate <= 0 || r.roll() >= dropRate {
		return nil, nil
	}

	item := link.Rewards[r.pick(len(link.Rewards))]
	grant := database.RewardGrant{
		ID:         types.NewID(),
		Identity:   identity.Key,
		PlaceID:    place.ID,
		SponsorID:  link.SponsorID,
		LinkID:     link.ID,
		RewardID:   item.ID,
		RewardName: item.Name,
	}
	if err := r.dao.InsertGrant(ctx, grant); err != nil {
		return nil, err
	}

	r.logger.Info("sponsor reward granted",
		"place_id", place.ID,
		"sponsor_id", link.SponsorID,
		"reward", item.Name)

	return &types.Reward{
		GrantID:   grant.ID,
		SponsorID: link.SponsorID,
		LinkID:    link.ID,
		PlaceID:   place.ID,
		Name:      item.Name,
	}, nil
}
