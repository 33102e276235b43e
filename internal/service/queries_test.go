package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/santabot/santa-server-go/internal/model"
)

func TestGetTargets(t *testing.T) {
	ctx := context.Background()

	t.Run("empty before any session starts", func(t *testing.T) {
		svc, _ := newTestService(t, 2)
		session := mustCreate(t, svc, 1, "Ann", "Party")
		mustJoin(t, svc, session.ID, 2, "Bob")

		targets, err := svc.GetTargets(ctx, 2)
		require.NoError(t, err)
		assert.Empty(t, targets)
	})

	t.Run("resolves target name and wishlist after start", func(t *testing.T) {
		svc, store := newTestService(t, 2)
		session := mustCreate(t, svc, 1, "Ann", "Party")
		mustJoin(t, svc, session.ID, 2, "Bob")

		wish, err := svc.SetWishlist(ctx, 1, "dark chocolate")
		require.NoError(t, err)
		require.True(t, wish.OK)

		start, err := svc.StartSession(ctx, session.ID, 1)
		require.NoError(t, err)
		require.True(t, start.OK)

		targets, err := svc.GetTargets(ctx, 2)
		require.NoError(t, err)
		require.Len(t, targets, 1)
		assert.Equal(t, session.ID, targets[0].SessionID)
		assert.Equal(t, "Party", targets[0].SessionName)
		assert.True(t, targets[0].Assigned)
		assert.Equal(t, int64(1), targets[0].TargetUserID)
		assert.Equal(t, "Ann", targets[0].TargetName)
		assert.Equal(t, "dark chocolate", targets[0].TargetWishlist)

		for _, p := range store.participants {
			if p.UserID == 2 {
				require.NotNil(t, p.TargetUserID)
				assert.Equal(t, int64(1), *p.TargetUserID)
			}
		}
	})

	t.Run("repeated reads return the same assignment", func(t *testing.T) {
		svc, _ := newTestService(t, 2)
		session := mustCreate(t, svc, 1, "Ann", "Party")
		mustJoin(t, svc, session.ID, 2, "Bob")
		mustJoin(t, svc, session.ID, 3, "Cleo")

		start, err := svc.StartSession(ctx, session.ID, 1)
		require.NoError(t, err)
		require.True(t, start.OK)

		first, err := svc.GetTargets(ctx, 2)
		require.NoError(t, err)
		second, err := svc.GetTargets(ctx, 2)
		require.NoError(t, err)
		assert.Equal(t, first, second)
	})

	t.Run("covers every membership across sessions", func(t *testing.T) {
		svc, _ := newTestService(t, 2)
		first := mustCreate(t, svc, 1, "Ann", "First")
		second := mustCreate(t, svc, 10, "Zoe", "Second")
		mustJoin(t, svc, first.ID, 2, "Bob")
		mustJoin(t, svc, second.ID, 2, "Bob")

		start, err := svc.StartSession(ctx, first.ID, 1)
		require.NoError(t, err)
		require.True(t, start.OK)

		targets, err := svc.GetTargets(ctx, 2)
		require.NoError(t, err)
		require.Len(t, targets, 1, "the waiting session carries no assignment yet")
		assert.Equal(t, first.ID, targets[0].SessionID)
	})
}

func TestGetSessionInfo(t *testing.T) {
	ctx := context.Background()

	t.Run("nil for unknown code", func(t *testing.T) {
		svc, _ := newTestService(t, 2)
		info, err := svc.GetSessionInfo(ctx, "NOPE0000")
		require.NoError(t, err)
		assert.Nil(t, info)
	})

	t.Run("projection exposes flags, never wishlist text", func(t *testing.T) {
		svc, _ := newTestService(t, 2)
		session := mustCreate(t, svc, 1, "Ann", "Party")
		mustJoin(t, svc, session.ID, 2, "Bob")

		wish, err := svc.SetWishlist(ctx, 2, "a telescope")
		require.NoError(t, err)
		require.True(t, wish.OK)

		info, err := svc.GetSessionInfo(ctx, session.ID)
		require.NoError(t, err)
		require.NotNil(t, info)
		assert.Equal(t, "Party", info.Name)
		assert.Equal(t, model.SessionStatusWaiting, info.Status)
		assert.Equal(t, "no limit", info.BudgetHint)
		require.Len(t, info.Participants, 2)

		byID := make(map[int64]ParticipantSummary)
		for _, p := range info.Participants {
			byID[p.UserID] = p
		}
		assert.True(t, byID[1].IsOrganizer)
		assert.False(t, byID[1].HasWishlist)
		assert.False(t, byID[2].IsOrganizer)
		assert.True(t, byID[2].HasWishlist)
	})
}

func TestListPlayers(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t, 2)

	t.Run("nil when the user has no membership", func(t *testing.T) {
		info, err := svc.ListPlayers(ctx, 99)
		require.NoError(t, err)
		assert.Nil(t, info)
	})

	t.Run("returns the most recently joined session", func(t *testing.T) {
		first := mustCreate(t, svc, 1, "Ann", "First")
		second := mustCreate(t, svc, 10, "Zoe", "Second")
		mustJoin(t, svc, first.ID, 2, "Bob")
		mustJoin(t, svc, second.ID, 2, "Bob")

		info, err := svc.ListPlayers(ctx, 2)
		require.NoError(t, err)
		require.NotNil(t, info)
		assert.Equal(t, second.ID, info.ID)
	})
}

func TestListSessions(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t, 2)

	first := mustCreate(t, svc, 1, "Ann", "First")
	second := mustCreate(t, svc, 1, "Ann", "Second")
	mustJoin(t, svc, first.ID, 2, "Bob")

	start, err := svc.StartSession(ctx, first.ID, 1)
	require.NoError(t, err)
	require.True(t, start.OK)

	briefs, err := svc.ListSessions(ctx, 1)
	require.NoError(t, err)
	require.Len(t, briefs, 2)

	byID := make(map[string]SessionBrief)
	for _, b := range briefs {
		byID[b.ID] = b
	}
	assert.Equal(t, model.SessionStatusStarted, byID[first.ID].Status)
	assert.Equal(t, 2, byID[first.ID].ParticipantCount)
	assert.Equal(t, model.SessionStatusWaiting, byID[second.ID].Status)
	assert.Equal(t, 1, byID[second.ID].ParticipantCount)
}

func TestGetStats(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t, 2)

	first := mustCreate(t, svc, 1, "Ann", "First")
	mustCreate(t, svc, 10, "Zoe", "Second")
	mustJoin(t, svc, first.ID, 2, "Bob")

	start, err := svc.StartSession(ctx, first.ID, 1)
	require.NoError(t, err)
	require.True(t, start.OK)

	stats, err := svc.GetStats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, stats.WaitingSessions)
	assert.Equal(t, 1, stats.StartedSessions)
	assert.Equal(t, 0, stats.FinishedSessions)
	assert.Equal(t, 3, stats.DistinctPlayers)
}
