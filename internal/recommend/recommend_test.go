package recommend

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestTracker() (*Tracker, *MemoryStore) {
	store := NewMemoryStore()
	return NewTracker(store), store
}

func likeTimes(t *testing.T, tracker *Tracker, sourceID, sourceName string, n int) {
	t.Helper()
	for i := 0; i < n; i++ {
		require.NoError(t, tracker.AddSourceLike(sourceID, sourceName))
	}
}

func TestRecommendationThreshold(t *testing.T) {
	tracker, _ := newTestTracker()

	likeTimes(t, tracker, "bbc-news", "BBC News", 2)

	has, err := tracker.HasRecommendations()
	require.NoError(t, err)
	assert.False(t, has, "two likes stay below the threshold")

	likeTimes(t, tracker, "bbc-news", "BBC News", 1)

	has, err = tracker.HasRecommendations()
	require.NoError(t, err)
	assert.True(t, has, "the third like clears the threshold")

	ids, err := tracker.RecommendedSourceIDs()
	require.NoError(t, err)
	assert.Equal(t, []string{"bbc-news"}, ids)
}

func TestRemoveLikeDropsBelowThreshold(t *testing.T) {
	tracker, _ := newTestTracker()

	likeTimes(t, tracker, "bbc-news", "BBC News", 3)
	require.NoError(t, tracker.RemoveSourceLike("bbc-news"))

	has, err := tracker.HasRecommendations()
	require.NoError(t, err)
	assert.False(t, has)

	stats, err := tracker.Stats()
	require.NoError(t, err)
	assert.Equal(t, 2, stats.SourceLikes["bbc-news"].Count)
}

func TestRemoveLastLikeDeletesEntry(t *testing.T) {
	tracker, _ := newTestTracker()

	likeTimes(t, tracker, "cnn", "CNN", 1)
	require.NoError(t, tracker.RemoveSourceLike("cnn"))

	stats, err := tracker.Stats()
	require.NoError(t, err)
	assert.NotContains(t, stats.SourceLikes, "cnn")
	assert.Zero(t, stats.TotalLikedSources)
}

func TestRemoveUnknownSourceIsNoop(t *testing.T) {
	tracker, _ := newTestTracker()
	assert.NoError(t, tracker.RemoveSourceLike("never-liked"))
}

func TestRecommendedSourcesOrdering(t *testing.T) {
	tracker, _ := newTestTracker()

	likeTimes(t, tracker, "cnn", "CNN", 3)
	likeTimes(t, tracker, "bbc-news", "BBC News", 5)
	likeTimes(t, tracker, "reuters", "Reuters", 3)
	likeTimes(t, tracker, "ap", "AP", 1)

	sources, err := tracker.RecommendedSources()
	require.NoError(t, err)
	require.Len(t, sources, 3)

	// Most liked first, ties broken by id.
	assert.Equal(t, "bbc-news", sources[0].ID)
	assert.Equal(t, "cnn", sources[1].ID)
	assert.Equal(t, "reuters", sources[2].ID)

	param, err := tracker.SourcesParam()
	require.NoError(t, err)
	assert.Equal(t, "bbc-news,cnn,reuters", param)
}

func TestFeedQuery(t *testing.T) {
	tracker, _ := newTestTracker()

	params, err := tracker.FeedQuery(1, 10)
	require.NoError(t, err)
	assert.Equal(t, "1", params.Get("page"))
	assert.Equal(t, "10", params.Get("pageSize"))
	assert.Empty(t, params.Get("sources"), "generic feed without recommendations")

	likeTimes(t, tracker, "bbc-news", "BBC News", 3)

	params, err = tracker.FeedQuery(2, 10)
	require.NoError(t, err)
	assert.Equal(t, "bbc-news", params.Get("sources"))
	assert.Equal(t, "2", params.Get("page"))
}

func TestCorruptStateResets(t *testing.T) {
	tracker, store := newTestTracker()

	require.NoError(t, store.Set("news_source_likes", "{not json"))

	has, err := tracker.HasRecommendations()
	require.NoError(t, err)
	assert.False(t, has)

	// Writes replace the corrupt payload.
	require.NoError(t, tracker.AddSourceLike("bbc-news", "BBC News"))
	stats, err := tracker.Stats()
	require.NoError(t, err)
	assert.Equal(t, 1, stats.SourceLikes["bbc-news"].Count)
}

func TestClearAll(t *testing.T) {
	tracker, _ := newTestTracker()

	likeTimes(t, tracker, "bbc-news", "BBC News", 4)
	require.NoError(t, tracker.ClearAll())

	stats, err := tracker.Stats()
	require.NoError(t, err)
	assert.Zero(t, stats.TotalLikedSources)
	assert.False(t, stats.HasRecommendations)
}
