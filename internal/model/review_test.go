package model

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRankReviews_NewestFirst(t *testing.T) {
	entries := []ReviewEntry{{Text: "A"}, {Text: "B"}, {Text: "C"}}

	got := RankReviews(entries)

	assert.Equal(t, []RankedReview{{1, "C"}, {2, "B"}, {3, "A"}}, got)
	assert.Equal(t, []ReviewEntry{{Text: "A"}, {Text: "B"}, {Text: "C"}}, entries, "storage order must not change")
}

func TestRankReviews_Empty(t *testing.T) {
	assert.Empty(t, RankReviews(nil))
}

func TestParseMode(t *testing.T) {
	assert.Equal(t, ModeImageToText, ParseMode("image-to-text"))
	assert.Equal(t, ModeTextToImage, ParseMode("text-to-image"))
	assert.Equal(t, ModeTextToImage, ParseMode(""))
	assert.Equal(t, ModeTextToImage, ParseMode("bogus"))
}

func TestSessionInfo_JSON(t *testing.T) {
	created := time.Date(2024, 5, 6, 7, 8, 9, 0, time.Local)
	s := &SessionContext{ID: "abc", CreatedAt: created, ExpiresAt: created.Add(2 * time.Hour)}

	b, err := json.Marshal(s.Info())
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":"abc","createdAt":"2024-05-06 07:08:09","expiresAt":"2024-05-06 09:08:09"}`, string(b))
}
