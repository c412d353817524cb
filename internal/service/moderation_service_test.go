package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/digkill/adboard/internal/models"
)

func newModerationFixture() (*ModerationService, *fakeAdStore, *fakePermanentStore, *eventRecorder) {
	ads := newFakeAdStore()
	perms := newFakePermanentStore()
	events := &eventRecorder{}
	svc := NewModerationService(ads, perms, events, testLogger())
	return svc, ads, perms, events
}

func seedAd(t *testing.T, ads *fakeAdStore, owner string, status models.AdStatus, premium bool) int64 {
	t.Helper()
	ad := &models.Ad{Title: "ad of " + owner, Description: "d", UserID: owner, IsPremium: premium, Status: status}
	id, err := ads.Create(context.Background(), ad)
	require.NoError(t, err)
	return id
}

func TestApprove(t *testing.T) {
	svc, ads, _, events := newModerationFixture()
	ctx := context.Background()
	id := seedAd(t, ads, "u1", models.AdStatusPending, false)

	require.NoError(t, svc.Approve(ctx, id))

	ad, err := ads.GetByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, models.AdStatusApproved, ad.Status)

	require.Len(t, events.approved, 1)
	assert.Equal(t, id, events.approved[0].ID)
	assert.Equal(t, models.AdStatusApproved, events.approved[0].Status)
}

func TestApproveMissingAd(t *testing.T) {
	svc, _, _, _ := newModerationFixture()
	assert.ErrorIs(t, svc.Approve(context.Background(), 42), ErrNotFound)
}

func TestApproveTwiceIsQuiet(t *testing.T) {
	svc, ads, _, events := newModerationFixture()
	ctx := context.Background()
	id := seedAd(t, ads, "u1", models.AdStatusPending, false)

	require.NoError(t, svc.Approve(ctx, id))
	require.NoError(t, svc.Approve(ctx, id))
	assert.Len(t, events.approved, 1)
}

func TestApproveThenListShowsApproved(t *testing.T) {
	svc, ads, _, _ := newModerationFixture()
	ctx := context.Background()
	id := seedAd(t, ads, "u1", models.AdStatusPending, false)

	require.NoError(t, svc.Approve(ctx, id))

	listing, err := svc.ListForModeration(ctx)
	require.NoError(t, err)
	assert.Empty(t, listing.Pending)
	require.Len(t, listing.Active, 1)
	assert.Equal(t, id, listing.Active[0].ID)
	assert.False(t, listing.Active[0].Permanent)
}

func TestRejectIsIdempotent(t *testing.T) {
	svc, ads, _, events := newModerationFixture()
	ctx := context.Background()
	id := seedAd(t, ads, "u1", models.AdStatusPending, false)

	require.NoError(t, svc.Reject(ctx, id))
	require.NoError(t, svc.Reject(ctx, id))

	ad, err := ads.GetByID(ctx, id)
	require.NoError(t, err)
	assert.Nil(t, ad)
	assert.Equal(t, []int64{id}, events.deleted)
}

func TestMakePermanent(t *testing.T) {
	svc, ads, perms, _ := newModerationFixture()
	ctx := context.Background()

	t.Run("pending ad is refused", func(t *testing.T) {
		id := seedAd(t, ads, "pending-owner", models.AdStatusPending, false)
		assert.ErrorIs(t, svc.MakePermanent(ctx, id), ErrNotApproved)
	})

	t.Run("missing ad", func(t *testing.T) {
		assert.ErrorIs(t, svc.MakePermanent(ctx, 99), ErrNotFound)
	})

	t.Run("approved ad is copied", func(t *testing.T) {
		id := seedAd(t, ads, "approved-owner", models.AdStatusApproved, true)
		require.NoError(t, svc.MakePermanent(ctx, id))

		exists, err := perms.Exists(ctx, id)
		require.NoError(t, err)
		assert.True(t, exists)

		assert.ErrorIs(t, svc.MakePermanent(ctx, id), ErrAlreadyPermanent)
	})
}

func TestRemovePermanent(t *testing.T) {
	svc, ads, perms, _ := newModerationFixture()
	ctx := context.Background()
	id := seedAd(t, ads, "u1", models.AdStatusApproved, false)
	require.NoError(t, svc.MakePermanent(ctx, id))

	require.NoError(t, svc.RemovePermanent(ctx, id))

	exists, err := perms.Exists(ctx, id)
	require.NoError(t, err)
	assert.False(t, exists)

	// The live record keeps its approved status.
	ad, err := ads.GetByID(ctx, id)
	require.NoError(t, err)
	require.NotNil(t, ad)
	assert.Equal(t, models.AdStatusApproved, ad.Status)

	assert.ErrorIs(t, svc.RemovePermanent(ctx, id), ErrNotFound)
}

func TestDeleteAdRemovesBothCopies(t *testing.T) {
	svc, ads, perms, events := newModerationFixture()
	ctx := context.Background()
	id := seedAd(t, ads, "u1", models.AdStatusApproved, false)
	require.NoError(t, svc.MakePermanent(ctx, id))

	require.NoError(t, svc.DeleteAd(ctx, id))

	ad, err := ads.GetByID(ctx, id)
	require.NoError(t, err)
	assert.Nil(t, ad)
	exists, err := perms.Exists(ctx, id)
	require.NoError(t, err)
	assert.False(t, exists)
	assert.Equal(t, []int64{id}, events.deleted)

	assert.ErrorIs(t, svc.DeleteAd(ctx, id), ErrNotFound)
}

func TestDeleteOwn(t *testing.T) {
	svc, ads, _, events := newModerationFixture()
	ctx := context.Background()
	id := seedAd(t, ads, "u1", models.AdStatusApproved, false)

	assert.ErrorIs(t, svc.DeleteOwn(ctx, id, "intruder"), ErrNotOwner)
	assert.ErrorIs(t, svc.DeleteOwn(ctx, 77, "u1"), ErrNotFound)

	require.NoError(t, svc.DeleteOwn(ctx, id, "u1"))
	ad, err := ads.GetByID(ctx, id)
	require.NoError(t, err)
	assert.Nil(t, ad)
	assert.Equal(t, []int64{id}, events.deleted)
}

func TestListForModerationPermanentCopyWins(t *testing.T) {
	svc, ads, perms, _ := newModerationFixture()
	ctx := context.Background()
	id := seedAd(t, ads, "u1", models.AdStatusApproved, false)

	// Permanent copy with a diverged title; the listing must show the copy.
	require.NoError(t, perms.Create(ctx, &models.PermanentAd{ID: id, Title: "frozen title", UserID: "u1"}))

	listing, err := svc.ListForModeration(ctx)
	require.NoError(t, err)
	require.Len(t, listing.Active, 1)
	assert.True(t, listing.Active[0].Permanent)
	assert.Equal(t, "frozen title", listing.Active[0].Title)
}

func TestPermanentAdSurvivesResetPurge(t *testing.T) {
	svc, ads, _, _ := newModerationFixture()
	ctx := context.Background()

	kept := seedAd(t, ads, "u1", models.AdStatusPending, false)
	purged := seedAd(t, ads, "u2", models.AdStatusPending, false)
	require.NoError(t, svc.Approve(ctx, kept))
	require.NoError(t, svc.Approve(ctx, purged))
	require.NoError(t, svc.MakePermanent(ctx, kept))

	// What the reset cycle does to storage.
	n, err := ads.DeleteApproved(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	active, err := svc.ActiveAds(ctx, 100)
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, kept, active[0].ID)
	assert.Equal(t, models.AdStatusApproved, active[0].Status)
}

func TestActiveAds(t *testing.T) {
	svc, ads, perms, _ := newModerationFixture()
	ctx := context.Background()

	plain1 := seedAd(t, ads, "u1", models.AdStatusApproved, false)
	premium := seedAd(t, ads, "u2", models.AdStatusApproved, true)
	plain2 := seedAd(t, ads, "u3", models.AdStatusApproved, false)
	seedAd(t, ads, "u4", models.AdStatusPending, true) // pending stays hidden
	require.NoError(t, perms.Create(ctx, &models.PermanentAd{ID: plain2, Title: "perm", UserID: "u3"}))

	active, err := svc.ActiveAds(ctx, 100)
	require.NoError(t, err)
	require.Len(t, active, 3)

	// Premium first, stable otherwise; the permanent copy replaces the live one.
	assert.Equal(t, premium, active[0].ID)
	assert.Equal(t, plain2, active[1].ID)
	assert.Equal(t, "perm", active[1].Title)
	assert.Equal(t, plain1, active[2].ID)

	capped, err := svc.ActiveAds(ctx, 2)
	require.NoError(t, err)
	assert.Len(t, capped, 2)
}
