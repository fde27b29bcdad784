package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/heritagecrafts/platform/backend/internal/domain/entities"
)

func TestGetSuggestions_EmptyPartialReturnsPopularOnly(t *testing.T) {
	events := &fakeEventRepo{
		topQueriesFn: func() ([]entities.QueryCount, error) {
			return []entities.QueryCount{{Value: "霓虹燈", Count: 40}}, nil
		},
	}
	svc := NewSuggestionService(events, &fakeCraftsmanRepo{}, nil)

	resp, err := svc.GetSuggestions(context.Background(), "", "", 10)
	require.NoError(t, err)

	assert.Empty(t, resp.Suggestions)
	assert.Equal(t, []string{"霓虹燈"}, resp.PopularQueries)
	assert.Empty(t, resp.RecentSearches)
}

func TestGetSuggestions_SeedsPopularWhenLogEmpty(t *testing.T) {
	svc := NewSuggestionService(&fakeEventRepo{}, &fakeCraftsmanRepo{}, nil)

	resp, err := svc.GetSuggestions(context.Background(), "", "", 10)
	require.NoError(t, err)

	assert.Equal(t, defaultPopularQueries, resp.PopularQueries)
}

func TestGetSuggestions_MergesSources(t *testing.T) {
	events := &fakeEventRepo{
		matchingQueriesFn: func(substring string) ([]entities.QueryCount, error) {
			return []entities.QueryCount{{Value: "手雕麻將班", Count: 6}}, nil
		},
	}
	craftsmen := &fakeCraftsmanRepo{locations: []string{"深水埗"}}
	svc := NewSuggestionService(events, craftsmen, nil)

	resp, err := svc.GetSuggestions(context.Background(), "手雕", "", 10)
	require.NoError(t, err)

	sources := map[string]bool{}
	for _, s := range resp.Suggestions {
		sources[s.Source] = true
	}
	assert.True(t, sources[entities.SuggestionSourceHistory])
	assert.True(t, sources[entities.SuggestionSourceCraftType])
	assert.True(t, sources[entities.SuggestionSourceLocation])
}

func TestGetSuggestions_DeduplicatesAcrossSources(t *testing.T) {
	events := &fakeEventRepo{
		matchingQueriesFn: func(substring string) ([]entities.QueryCount, error) {
			// Same text as the craft vocabulary entry.
			return []entities.QueryCount{{Value: "手雕麻將", Count: 9}}, nil
		},
	}
	svc := NewSuggestionService(events, &fakeCraftsmanRepo{}, nil)

	resp, err := svc.GetSuggestions(context.Background(), "手雕麻將", "", 10)
	require.NoError(t, err)

	seen := map[string]int{}
	for _, s := range resp.Suggestions {
		seen[s.Text]++
	}
	assert.Equal(t, 1, seen["手雕麻將"])
	// The history entry wins since history runs first.
	assert.Equal(t, entities.SuggestionSourceHistory, resp.Suggestions[0].Source)
}

func TestGetSuggestions_RespectsLimit(t *testing.T) {
	svc := NewSuggestionService(&fakeEventRepo{}, &fakeCraftsmanRepo{}, nil)

	// Bare vowel matches several vocabulary terms.
	resp, err := svc.GetSuggestions(context.Background(), "n", "", 2)
	require.NoError(t, err)

	assert.LessOrEqual(t, len(resp.Suggestions), 2)
}

func TestGetSuggestions_SourceFailureDegrades(t *testing.T) {
	events := &fakeEventRepo{
		matchingQueriesFn: func(substring string) ([]entities.QueryCount, error) {
			return nil, errors.New("event store down")
		},
	}
	svc := NewSuggestionService(events, &fakeCraftsmanRepo{}, nil)

	resp, err := svc.GetSuggestions(context.Background(), "手雕", "", 10)
	require.NoError(t, err)

	// The vocabulary source still matches.
	assert.NotEmpty(t, resp.Suggestions)
}

func TestGetSuggestions_RecentSearchesForKnownUser(t *testing.T) {
	events := &fakeEventRepo{
		recentQueriesByUserFn: func(userID string) ([]string, error) {
			return []string{"竹蒸籠"}, nil
		},
	}
	svc := NewSuggestionService(events, &fakeCraftsmanRepo{}, nil)

	resp, err := svc.GetSuggestions(context.Background(), "", "u1", 10)
	require.NoError(t, err)

	assert.Equal(t, []string{"竹蒸籠"}, resp.RecentSearches)
}

func TestGetSuggestions_PopularQueriesCached(t *testing.T) {
	calls := 0
	events := &fakeEventRepo{
		topQueriesFn: func() ([]entities.QueryCount, error) {
			calls++
			return []entities.QueryCount{{Value: "廣彩", Count: 3}}, nil
		},
	}
	cache := newFakeCache()
	svc := NewSuggestionService(events, &fakeCraftsmanRepo{}, cache)

	_, err := svc.GetSuggestions(context.Background(), "", "", 10)
	require.NoError(t, err)
	_, err = svc.GetSuggestions(context.Background(), "", "", 10)
	require.NoError(t, err)

	assert.Equal(t, 1, calls)
}
