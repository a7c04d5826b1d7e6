package service

import (
	"context"
	"testing"
	"time"

	"design-o-pedia-go/internal/model"
	"design-o-pedia-go/internal/repository"
	"design-o-pedia-go/pkg/events"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newReviewService() (ReviewService, *recordingPublisher) {
	pub := &recordingPublisher{}
	return NewReviewService(repository.NewMemoryReviewRepository(time.Hour), pub), pub
}

func TestSubmit_WhitespaceOnlyDoesNotMutate(t *testing.T) {
	svc, pub := newReviewService()
	ctx := context.Background()
	require.NoError(t, svc.Submit(ctx, "s1", "first"))

	for _, blank := range []string{"", " ", "\n\t  "} {
		assert.ErrorIs(t, svc.Submit(ctx, "s1", blank), ErrEmptyReview)
	}

	got, err := svc.List(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, []model.RankedReview{{Rank: 1, Text: "first"}}, got)
	assert.Equal(t, []events.Type{events.TypeReviewAdded}, pub.types())
}

func TestSubmit_StoresUntrimmedText(t *testing.T) {
	svc, _ := newReviewService()
	ctx := context.Background()

	require.NoError(t, svc.Submit(ctx, "s1", "  padded  "))

	got, err := svc.List(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, "  padded  ", got[0].Text)
}

func TestList_MostRecentFirst(t *testing.T) {
	svc, _ := newReviewService()
	ctx := context.Background()

	require.NoError(t, svc.Submit(ctx, "s1", "Great tool"))
	require.NoError(t, svc.Submit(ctx, "s1", "Needs work"))

	got, err := svc.List(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, []model.RankedReview{{Rank: 1, Text: "Needs work"}, {Rank: 2, Text: "Great tool"}}, got)
}

func TestList_RanksRecomputedOnEveryRead(t *testing.T) {
	repo := repository.NewMemoryReviewRepository(time.Hour)
	svc := NewReviewService(repo, nil)
	ctx := context.Background()

	for _, text := range []string{"A", "B", "C"} {
		require.NoError(t, svc.Submit(ctx, "s1", text))
	}
	got, err := svc.List(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, []model.RankedReview{{Rank: 1, Text: "C"}, {Rank: 2, Text: "B"}, {Rank: 3, Text: "A"}}, got)

	require.NoError(t, svc.Submit(ctx, "s1", "D"))
	got, err = svc.List(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, []model.RankedReview{{Rank: 1, Text: "D"}, {Rank: 2, Text: "C"}, {Rank: 3, Text: "B"}, {Rank: 4, Text: "A"}}, got)

	stored, err := repo.List(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, []model.ReviewEntry{{Text: "A"}, {Text: "B"}, {Text: "C"}, {Text: "D"}}, stored)
}

func TestList_SessionsIsolated(t *testing.T) {
	svc, _ := newReviewService()
	ctx := context.Background()
	require.NoError(t, svc.Submit(ctx, "s1", "mine"))

	got, err := svc.List(ctx, "s2")
	require.NoError(t, err)
	assert.Empty(t, got)
}
