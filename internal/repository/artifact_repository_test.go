package repository

import (
	"context"
	"testing"
	"time"

	"design-o-pedia-go/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryArtifactRepository_PutGetTake(t *testing.T) {
	repo := NewMemoryArtifactRepository(time.Hour)
	ctx := context.Background()
	art := model.Artifact{FileName: "generated_image.png", ContentType: "image/png", Data: []byte{1, 2, 3}}

	require.NoError(t, repo.Put(ctx, "s1", model.ArtifactGenerated, art))

	got, err := repo.Get(ctx, "s1", model.ArtifactGenerated)
	require.NoError(t, err)
	assert.Equal(t, art, *got)

	got, err = repo.Take(ctx, "s1", model.ArtifactGenerated)
	require.NoError(t, err)
	assert.Equal(t, art, *got)

	_, err = repo.Get(ctx, "s1", model.ArtifactGenerated)
	assert.ErrorIs(t, err, ErrArtifactNotFound)
}

func TestMemoryArtifactRepository_OverwriteAndIsolation(t *testing.T) {
	repo := NewMemoryArtifactRepository(time.Hour)
	ctx := context.Background()

	require.NoError(t, repo.Put(ctx, "s1", model.ArtifactUpload, model.Artifact{Data: []byte("first")}))
	require.NoError(t, repo.Put(ctx, "s1", model.ArtifactUpload, model.Artifact{Data: []byte("second")}))

	got, err := repo.Get(ctx, "s1", model.ArtifactUpload)
	require.NoError(t, err)
	assert.Equal(t, "second", string(got.Data))

	_, err = repo.Get(ctx, "s2", model.ArtifactUpload)
	assert.ErrorIs(t, err, ErrArtifactNotFound)
	_, err = repo.Get(ctx, "s1", model.ArtifactGenerated)
	assert.ErrorIs(t, err, ErrArtifactNotFound)
}

func TestMemoryArtifactRepository_DeleteSessionAndSweep(t *testing.T) {
	repo := NewMemoryArtifactRepository(time.Minute)
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	repo.now = func() time.Time { return base }
	ctx := context.Background()

	require.NoError(t, repo.Put(ctx, "s1", model.ArtifactUpload, model.Artifact{Data: []byte("x")}))
	require.NoError(t, repo.Put(ctx, "s2", model.ArtifactUpload, model.Artifact{Data: []byte("y")}))
	require.NoError(t, repo.DeleteSession(ctx, "s1"))

	_, err := repo.Get(ctx, "s1", model.ArtifactUpload)
	assert.ErrorIs(t, err, ErrArtifactNotFound)

	assert.Equal(t, 1, repo.Sweep(base.Add(2*time.Minute)))
	_, err = repo.Get(ctx, "s2", model.ArtifactUpload)
	assert.ErrorIs(t, err, ErrArtifactNotFound)
}
