// Package recommend implements the client-local publisher preference
// heuristic: liking articles from a source often enough switches the home
// feed to that source. State lives in an injected key-value store so callers
// decide where it persists.
package recommend

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
)

const (
	likesKey = "news_source_likes"

	// MinLikesForRecommendation is how many likes a source needs before it
	// drives the feed.
	MinLikesForRecommendation = 3
)

// Store is the persistence the tracker depends on. Get returns ok=false when
// the key is absent.
type Store interface {
	Get(key string) (string, bool, error)
	Set(key string, value string) error
	Delete(key string) error
}

// SourceLike is the per-publisher counter.
type SourceLike struct {
	Count int    `json:"count"`
	Name  string `json:"name"`
}

type SourceLikes map[string]SourceLike

// RecommendedSource is a source that cleared the recommendation threshold.
type RecommendedSource struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Count int    `json:"count"`
}

type Tracker struct {
	store Store
}

func NewTracker(store Store) *Tracker {
	return &Tracker{store: store}
}

func (t *Tracker) likes() (SourceLikes, error) {
	raw, ok, err := t.store.Get(likesKey)
	if err != nil {
		return nil, fmt.Errorf("read likes: %w", err)
	}
	if !ok {
		return SourceLikes{}, nil
	}

	var likes SourceLikes
	if err := json.Unmarshal([]byte(raw), &likes); err != nil {
		// Corrupt state starts over rather than wedging the feed.
		return SourceLikes{}, nil
	}
	return likes, nil
}

func (t *Tracker) save(likes SourceLikes) error {
	payload, err := json.Marshal(likes)
	if err != nil {
		return err
	}
	return t.store.Set(likesKey, string(payload))
}

func (t *Tracker) AddSourceLike(sourceID string, sourceName string) error {
	if sourceID == "" {
		return nil
	}

	likes, err := t.likes()
	if err != nil {
		return err
	}

	like := likes[sourceID]
	like.Count++
	if like.Name == "" {
		like.Name = sourceName
	}
	likes[sourceID] = like

	return t.save(likes)
}

func (t *Tracker) RemoveSourceLike(sourceID string) error {
	if sourceID == "" {
		return nil
	}

	likes, err := t.likes()
	if err != nil {
		return err
	}

	like, ok := likes[sourceID]
	if !ok {
		return nil
	}

	like.Count--
	if like.Count <= 0 {
		delete(likes, sourceID)
	} else {
		likes[sourceID] = like
	}

	return t.save(likes)
}

// RecommendedSourceIDs returns the ids of all sources at or above the
// recommendation threshold.
func (t *Tracker) RecommendedSourceIDs() ([]string, error) {
	sources, err := t.RecommendedSources()
	if err != nil {
		return nil, err
	}

	ids := make([]string, 0, len(sources))
	for _, source := range sources {
		ids = append(ids, source.ID)
	}
	return ids, nil
}

// RecommendedSources returns threshold-clearing sources, most liked first.
func (t *Tracker) RecommendedSources() ([]RecommendedSource, error) {
	likes, err := t.likes()
	if err != nil {
		return nil, err
	}

	var sources []RecommendedSource
	for id, like := range likes {
		if like.Count >= MinLikesForRecommendation {
			sources = append(sources, RecommendedSource{ID: id, Name: like.Name, Count: like.Count})
		}
	}

	sort.Slice(sources, func(i, j int) bool {
		if sources[i].Count != sources[j].Count {
			return sources[i].Count > sources[j].Count
		}
		return sources[i].ID < sources[j].ID
	})
	return sources, nil
}

// SourcesParam joins the recommended ids into the comma-separated form the
// feed query expects. Empty when there are no recommendations.
func (t *Tracker) SourcesParam() (string, error) {
	ids, err := t.RecommendedSourceIDs()
	if err != nil {
		return "", err
	}
	return strings.Join(ids, ","), nil
}

func (t *Tracker) HasRecommendations() (bool, error) {
	ids, err := t.RecommendedSourceIDs()
	if err != nil {
		return false, err
	}
	return len(ids) > 0, nil
}

// Stats is the full preference snapshot the dashboard renders.
type Stats struct {
	SourceLikes             SourceLikes         `json:"sourceLikes"`
	RecommendedSources      []RecommendedSource `json:"recommendedSources"`
	RecommendedSourceIDs    []string            `json:"recommendedSourceIds"`
	RecommendedSourcesParam string              `json:"recommendedSourcesParam"`
	HasRecommendations      bool                `json:"hasRecommendations"`
	TotalLikedSources       int                 `json:"totalLikedSources"`
	TotalRecommended        int                 `json:"totalRecommendedSources"`
}

func (t *Tracker) Stats() (Stats, error) {
	likes, err := t.likes()
	if err != nil {
		return Stats{}, err
	}
	sources, err := t.RecommendedSources()
	if err != nil {
		return Stats{}, err
	}

	ids := make([]string, 0, len(sources))
	for _, source := range sources {
		ids = append(ids, source.ID)
	}

	return Stats{
		SourceLikes:             likes,
		RecommendedSources:      sources,
		RecommendedSourceIDs:    ids,
		RecommendedSourcesParam: strings.Join(ids, ","),
		HasRecommendations:      len(ids) > 0,
		TotalLikedSources:       len(likes),
		TotalRecommended:        len(ids),
	}, nil
}

func (t *Tracker) ClearAll() error {
	return t.store.Delete(likesKey)
}
