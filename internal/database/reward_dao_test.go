package database

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chaosmibu-blip/mibu/internal/types"
)

func TestRewardDAO_NoLinkReturnsNil(t *testing.T) {
	dao := NewRewardDAO(openTestDB(t))

	link, err := dao.RewardLinkForPlace(context.Background(), "p1")
	require.NoError(t, err)
	assert.Nil(t, link)
}

func TestRewardDAO_LinkWithCatalog(t *testing.T) {
	dao := NewRewardDAO(openTestDB(t))
	ctx := context.Background()

	rate := 0.25
	require.NoError(t, dao.InsertSponsorLink(ctx, SponsorLink{
		ID:        "link-1",
		SponsorID: "sponsor-1",
		PlaceID:   "p1",
		DropRate:  &rate,
		Rewards: []SponsorRewardItem{
			{ID: "r1", Name: "free americano"},
			{ID: "r2", Name: "10% off"},
		},
	}))

	link, err := dao.RewardLinkForPlace(ctx, "p1")
	require.NoError(t, err)
	require.NotNil(t, link)
	assert.Equal(t, "sponsor-1", link.SponsorID)
	require.NotNil(t, link.DropRate)
	assert.InDelta(t, 0.25, *link.DropRate, 1e-9)
	assert.Len(t, link.Rewards, 2)
}

func TestRewardDAO_NilDropRateMeansDefault(t *testing.T) {
	dao := NewRewardDAO(openTestDB(t))
	ctx := context.Background()

	require.NoError(t, dao.InsertSponsorLink(ctx, SponsorLink{
		ID:        "link-1",
		SponsorID: "sponsor-1",
		PlaceID:   "p1",
		Rewards:   []SponsorRewardItem{{ID: "r1", Name: "sticker"}},
	}))

	link, err := dao.RewardLinkForPlace(ctx, "p1")
	require.NoError(t, err)
	require.NotNil(t, link)
	assert.Nil(t, link.DropRate)
}

func TestRewardDAO_InsertGrant(t *testing.T) {
	db := openTestDB(t)
	dao := NewRewardDAO(db)
	ctx := context.Background()

	grant := RewardGrant{
		ID:         types.NewID(),
		Identity:   "user-1",
		PlaceID:    "p1",
		SponsorID:  "sponsor-1",
		LinkID:     "link-1",
		RewardID:   "r1",
		RewardName: "free americano",
	}
	require.NoError(t, dao.InsertGrant(ctx, grant))

	var count int
	require.NoError(t, db.Conn().QueryRowContext(ctx,
		`SELECT COUNT(*) FROM reward_grants WHERE identity = 'user-1'`).Scan(&count))
	assert.Equal(t, 1, count)
}

func TestRewardDAO_DuplicateGrantIDRejected(t *testing.T) {
	dao := NewRewardDAO(openTestDB(t))
	ctx := context.Background()

	grant := RewardGrant{ID: types.NewID(), Identity: "user-1", PlaceID: "p1",
		SponsorID: "s1", LinkID: "l1", RewardID: "r1", RewardName: "x"}
	require.NoError(t, dao.InsertGrant(ctx, grant))

	err := dao.InsertGrant(ctx, grant)
	require.Error(t, err)
	assert.Equal(t, types.REWARD_GRANT_FAILED, types.CodeOf(err))
}
