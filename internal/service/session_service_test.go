package service

import (
	"context"
	"testing"
	"time"

	"design-o-pedia-go/internal/model"
	"design-o-pedia-go/internal/repository"
	"design-o-pedia-go/pkg/events"
	"design-o-pedia-go/pkg/token"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sessionFixture struct {
	svc       SessionService
	reviews   *repository.MemoryReviewRepository
	artifacts *repository.MemoryArtifactRepository
	publisher *recordingPublisher
}

func newSessionFixture() *sessionFixture {
	f := &sessionFixture{
		reviews:   repository.NewMemoryReviewRepository(time.Hour),
		artifacts: repository.NewMemoryArtifactRepository(time.Hour),
		publisher: &recordingPublisher{},
	}
	f.svc = NewSessionService(token.NewJWTManager("secret", time.Hour), f.reviews, f.artifacts, f.publisher)
	return f
}

func TestResume_CreatesSessionWithoutToken(t *testing.T) {
	f := newSessionFixture()

	s, tok, err := f.svc.Resume(context.Background(), "")
	require.NoError(t, err)

	assert.NotEmpty(t, s.ID)
	assert.NotEmpty(t, tok)
	assert.False(t, s.CreatedAt.IsZero())
	assert.True(t, s.ExpiresAt.After(time.Now()))
}

func TestResume_RestoresExistingSession(t *testing.T) {
	f := newSessionFixture()
	ctx := context.Background()

	first, tok, err := f.svc.Resume(ctx, "")
	require.NoError(t, err)

	again, _, err := f.svc.Resume(ctx, tok)
	require.NoError(t, err)
	assert.Equal(t, first.ID, again.ID)
	assert.True(t, first.CreatedAt.Equal(again.CreatedAt))
}

func TestResume_InvalidTokenStartsFresh(t *testing.T) {
	f := newSessionFixture()

	s, _, err := f.svc.Resume(context.Background(), "tampered")
	require.NoError(t, err)
	assert.NotEmpty(t, s.ID)
}

func TestEnd_ClearsSessionState(t *testing.T) {
	f := newSessionFixture()
	ctx := context.Background()
	require.NoError(t, f.reviews.Append(ctx, "s1", model.ReviewEntry{Text: "A"}))
	require.NoError(t, f.artifacts.Put(ctx, "s1", model.ArtifactGenerated, model.Artifact{Data: []byte("x")}))

	require.NoError(t, f.svc.End(ctx, "s1"))

	got, err := f.reviews.List(ctx, "s1")
	require.NoError(t, err)
	assert.Empty(t, got)
	_, err = f.artifacts.Get(ctx, "s1", model.ArtifactGenerated)
	assert.ErrorIs(t, err, repository.ErrArtifactNotFound)
	assert.Equal(t, []events.Type{events.TypeSessionEnded}, f.publisher.types())
}

func TestDispatch(t *testing.T) {
	assert.Equal(t, []Section{SectionTextToImage, SectionReviews}, Dispatch(model.ModeTextToImage))
	assert.Equal(t, []Section{SectionImageToText, SectionReviews}, Dispatch(model.ModeImageToText))
	assert.Equal(t, []Section{SectionTextToImage, SectionReviews}, Dispatch(model.ParseMode("other")))
}
