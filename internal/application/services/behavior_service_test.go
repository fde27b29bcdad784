package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/heritagecrafts/platform/backend/internal/domain/entities"
	apperrors "github.com/heritagecrafts/platform/backend/pkg/errors"
)

func TestTrackClick_AppendsClickEvent(t *testing.T) {
	events := &fakeEventRepo{}
	svc := NewBehaviorService(events)

	err := svc.TrackClick(context.Background(), "u1", "co-1", entities.EntityTypeCourse, "手雕麻將", 3)
	require.NoError(t, err)

	appended := events.appendedEvents()
	require.Len(t, appended, 1)
	assert.Equal(t, entities.EventTypeClick, appended[0].EventType)
	assert.Equal(t, "co-1", appended[0].EntityID)
	assert.Equal(t, "search", appended[0].Metadata["source"])
	assert.Equal(t, "手雕麻將", appended[0].Metadata["query"])
	assert.Equal(t, "3", appended[0].Metadata["position"])
}

func TestTrackClick_RejectsInvalidInput(t *testing.T) {
	svc := NewBehaviorService(&fakeEventRepo{})

	err := svc.TrackClick(context.Background(), "u1", "", entities.EntityTypeCourse, "", 0)
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeValidation))

	err = svc.TrackClick(context.Background(), "u1", "co-1", "banana", "", 0)
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeValidation))
}

func TestTrackSearchAsync_WritesCraftTypeKeyTheAffinityQueryReads(t *testing.T) {
	events := &fakeEventRepo{}
	svc := NewBehaviorService(events)

	svc.TrackSearchAsync(entities.SearchQuery{
		Query:     "麻將",
		CraftType: "手雕麻將",
		Language:  "zh-HK",
	}, 4)

	require.Eventually(t, func() bool {
		return len(events.appendedEvents()) == 1
	}, time.Second, 10*time.Millisecond)

	evt := events.appendedEvents()[0]
	assert.Equal(t, entities.EventTypeSearch, evt.EventType)
	assert.Equal(t, "手雕麻將", evt.Metadata["craftType"])
	assert.Equal(t, "麻將", evt.Metadata["query"])
	assert.Equal(t, "4", evt.Metadata["result_count"])
}

func TestTrackEvent_ValidatesEventType(t *testing.T) {
	events := &fakeEventRepo{}
	svc := NewBehaviorService(events)

	err := svc.TrackEvent(context.Background(), &entities.BehaviorEvent{
		EventType:  "teleport",
		EntityType: entities.EntityTypeProduct,
		EntityID:   "pr-1",
	})
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeValidation))

	err = svc.TrackEvent(context.Background(), &entities.BehaviorEvent{
		EventType:  entities.EventTypeBookmark,
		EntityType: entities.EntityTypeProduct,
		EntityID:   "pr-1",
	})
	assert.NoError(t, err)
	assert.Len(t, events.appendedEvents(), 1)
}
