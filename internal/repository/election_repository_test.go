package repository

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "evote/internal/errors"
	"evote/internal/model"
)

func seedElection(t *testing.T, repo ElectionRepository, name string, candidates ...string) *model.Election {
	t.Helper()
	ctx := context.Background()
	e := &model.Election{Name: name}
	require.NoError(t, repo.Create(ctx, e))
	for _, cid := range candidates {
		_, err := repo.AddCandidate(ctx, e.ID, cid)
		require.NoError(t, err)
	}
	got, err := repo.FindByID(ctx, e.ID)
	require.NoError(t, err)
	return got
}

func assertTallyConsistent(t *testing.T, e *model.Election) {
	t.Helper()
	assert.Equal(t, int64(len(e.Voters)), e.TotalVotes(), "sum of votes must equal participation count")
}

func TestElectionRepository_CreateAndFind(t *testing.T) {
	for _, b := range backends(t) {
		t.Run(b.name, func(t *testing.T) {
			repo := b.elections(t)
			ctx := context.Background()

			e := &model.Election{Name: "Board Vote"}
			require.NoError(t, repo.Create(ctx, e))
			assert.NotEmpty(t, e.ID)

			got, err := repo.FindByID(ctx, e.ID)
			require.NoError(t, err)
			assert.Equal(t, "Board Vote", got.Name)
			assert.Equal(t, model.ElectionOngoing, got.Status)
			assert.NotNil(t, got.Candidates)
			assert.NotNil(t, got.Voters)
			assert.Empty(t, got.Candidates)
			assert.Empty(t, got.Voters)

			_, err = repo.FindByID(ctx, "missing")
			assert.ErrorIs(t, err, apperrors.ErrElectionNotFound)

			seedElection(t, repo, "Second")
			all, err := repo.List(ctx)
			require.NoError(t, err)
			assert.Len(t, all, 2)
		})
	}
}

func TestElectionRepository_Candidates(t *testing.T) {
	for _, b := range backends(t) {
		t.Run(b.name, func(t *testing.T) {
			repo := b.elections(t)
			ctx := context.Background()
			e := seedElection(t, repo, "Board Vote", "A")

			_, err := repo.AddCandidate(ctx, e.ID, "A")
			assert.ErrorIs(t, err, apperrors.ErrCandidateExists)

			got, err := repo.AddCandidate(ctx, e.ID, "B")
			require.NoError(t, err)
			require.Len(t, got.Candidates, 2)
			c, ok := got.FindCandidate("B")
			require.True(t, ok)
			assert.Equal(t, int64(0), c.Votes)

			before, err := repo.FindByID(ctx, e.ID)
			require.NoError(t, err)
			unchanged, err := repo.RemoveCandidate(ctx, e.ID, "Z")
			require.NoError(t, err, "removing an absent candidate is a no-op")
			assert.Len(t, unchanged.Candidates, 2)
			assert.Equal(t, before.Version, unchanged.Version)

			removed, err := repo.RemoveCandidate(ctx, e.ID, "A")
			require.NoError(t, err)
			require.Len(t, removed.Candidates, 1)
			assert.Equal(t, "B", removed.Candidates[0].CandidateID)
			assert.Greater(t, removed.Version, before.Version)

			_, err = repo.AddCandidate(ctx, "missing", "A")
			assert.ErrorIs(t, err, apperrors.ErrElectionNotFound)
			_, err = repo.RemoveCandidate(ctx, "missing", "A")
			assert.ErrorIs(t, err, apperrors.ErrElectionNotFound)
		})
	}
}

func TestElectionRepository_CastVote(t *testing.T) {
	for _, b := range backends(t) {
		t.Run(b.name, func(t *testing.T) {
			repo := b.elections(t)
			ctx := context.Background()
			e := seedElection(t, repo, "Board Vote", "A", "B")

			got, err := repo.CastVote(ctx, e.ID, "A", "v1")
			require.NoError(t, err)
			a, _ := got.FindCandidate("A")
			assert.Equal(t, int64(1), a.Votes)
			assert.True(t, got.HasVoted("v1"))
			assertTallyConsistent(t, got)

			for _, cid := range []string{"A", "B", "missing"} {
				_, err = repo.CastVote(ctx, e.ID, cid, "v1")
				assert.ErrorIs(t, err, apperrors.ErrAlreadyVoted, "second vote for %s", cid)
			}

			_, err = repo.CastVote(ctx, e.ID, "Z", "v2")
			assert.ErrorIs(t, err, apperrors.ErrCandidateNotFound)

			_, err = repo.CastVote(ctx, "missing", "A", "v2")
			assert.ErrorIs(t, err, apperrors.ErrElectionNotFound)

			after, err := repo.FindByID(ctx, e.ID)
			require.NoError(t, err)
			assert.Len(t, after.Voters, 1, "failed votes leave no participation")
			assertTallyConsistent(t, after)
		})
	}
}

func TestElectionRepository_Complete(t *testing.T) {
	for _, b := range backends(t) {
		t.Run(b.name, func(t *testing.T) {
			repo := b.elections(t)
			ctx := context.Background()
			e := seedElection(t, repo, "Board Vote", "A")
			_, err := repo.CastVote(ctx, e.ID, "A", "v1")
			require.NoError(t, err)

			done, err := repo.Complete(ctx, e.ID)
			require.NoError(t, err)
			assert.Equal(t, model.ElectionCompleted, done.Status)

			again, err := repo.Complete(ctx, e.ID)
			require.NoError(t, err, "stopping twice is idempotent")
			assert.Equal(t, done.Version, again.Version)

			_, err = repo.CastVote(ctx, e.ID, "A", "v1")
			assert.ErrorIs(t, err, apperrors.ErrElectionCompleted, "completion is reported before a repeat vote")
			_, err = repo.CastVote(ctx, e.ID, "A", "v2")
			assert.ErrorIs(t, err, apperrors.ErrElectionCompleted)
			_, err = repo.AddCandidate(ctx, e.ID, "B")
			assert.ErrorIs(t, err, apperrors.ErrElectionCompleted)
			_, err = repo.RemoveCandidate(ctx, e.ID, "A")
			assert.ErrorIs(t, err, apperrors.ErrElectionCompleted)

			_, err = repo.Complete(ctx, "missing")
			assert.ErrorIs(t, err, apperrors.ErrElectionNotFound)
		})
	}
}

func TestElectionRepository_Delete(t *testing.T) {
	for _, b := range backends(t) {
		t.Run(b.name, func(t *testing.T) {
			repo := b.elections(t)
			ctx := context.Background()
			e := seedElection(t, repo, "Board Vote", "A")
			_, err := repo.CastVote(ctx, e.ID, "A", "v1")
			require.NoError(t, err)

			require.NoError(t, repo.Delete(ctx, e.ID))
			_, err = repo.FindByID(ctx, e.ID)
			assert.ErrorIs(t, err, apperrors.ErrElectionNotFound)
			assert.ErrorIs(t, repo.Delete(ctx, e.ID), apperrors.ErrElectionNotFound)
		})
	}
}

func TestElectionRepository_Delete_RemovesChildRows(t *testing.T) {
	gdb := newSQLiteDB(t)
	repo := NewElectionRepository(gdb)
	ctx := context.Background()
	e := seedElection(t, repo, "Board Vote", "A", "B")
	_, err := repo.CastVote(ctx, e.ID, "A", "v1")
	require.NoError(t, err)

	require.NoError(t, repo.Delete(ctx, e.ID))

	var candidates, voters int64
	require.NoError(t, gdb.Model(&model.Candidate{}).Where("election_id = ?", e.ID).Count(&candidates).Error)
	require.NoError(t, gdb.Model(&model.Participation{}).Where("election_id = ?", e.ID).Count(&voters).Error)
	assert.Zero(t, candidates)
	assert.Zero(t, voters)
}

func TestElectionRepository_ConcurrentDistinctVoters(t *testing.T) {
	for _, b := range backends(t) {
		t.Run(b.name, func(t *testing.T) {
			repo := b.elections(t)
			ctx := context.Background()
			e := seedElection(t, repo, "Board Vote", "A", "B")

			const numVoters = 30
			var wg sync.WaitGroup
			var failures atomic.Int32
			for i := 0; i < numVoters; i++ {
				wg.Add(1)
				go func(i int) {
					defer wg.Done()
					cid := "A"
					if i%3 == 0 {
						cid = "B"
					}
					if _, err := repo.CastVote(ctx, e.ID, cid, fmt.Sprintf("voter-%d", i)); err != nil {
						failures.Add(1)
						t.Errorf("vote %d: %v", i, err)
					}
				}(i)
			}
			wg.Wait()

			assert.Zero(t, failures.Load())
			final, err := repo.FindByID(ctx, e.ID)
			require.NoError(t, err)
			assert.Len(t, final.Voters, numVoters)
			assert.Equal(t, int64(numVoters), final.TotalVotes())
			candB, _ := final.FindCandidate("B")
			assert.Equal(t, int64(10), candB.Votes)
		})
	}
}

func TestElectionRepository_ConcurrentSameVoter(t *testing.T) {
	for _, b := range backends(t) {
		t.Run(b.name, func(t *testing.T) {
			repo := b.elections(t)
			ctx := context.Background()
			e := seedElection(t, repo, "Board Vote", "A", "B")

			const attempts = 20
			var wg sync.WaitGroup
			var successes, alreadyVoted atomic.Int32
			for i := 0; i < attempts; i++ {
				wg.Add(1)
				go func(i int) {
					defer wg.Done()
					cid := "A"
					if i%2 == 0 {
						cid = "B"
					}
					_, err := repo.CastVote(ctx, e.ID, cid, "same-voter")
					switch {
					case err == nil:
						successes.Add(1)
					case errors.Is(err, apperrors.ErrAlreadyVoted):
						alreadyVoted.Add(1)
					default:
						t.Errorf("unexpected error: %v", err)
					}
				}(i)
			}
			wg.Wait()

			assert.Equal(t, int32(1), successes.Load(), "exactly one vote succeeds")
			assert.Equal(t, int32(attempts-1), alreadyVoted.Load())
			final, err := repo.FindByID(ctx, e.ID)
			require.NoError(t, err)
			assert.Len(t, final.Voters, 1)
			assertTallyConsistent(t, final)
		})
	}
}
