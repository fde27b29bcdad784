package services

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/heritagecrafts/platform/backend/internal/domain/entities"
	"github.com/heritagecrafts/platform/backend/internal/domain/repositories"
	apperrors "github.com/heritagecrafts/platform/backend/pkg/errors"
)

// In-memory fakes shared by the service tests. Behaviors default to
// empty results; tests override the func fields they care about.

type fakeEventRepo struct {
	mu       sync.Mutex
	appended []*entities.BehaviorEvent

	countByEntityFn       func(ids []string) (map[string]int, error)
	topEntitiesFn         func(entityType entities.EntityType) ([]entities.EntityCount, error)
	recentEntityIDsFn     func(userID string) ([]string, error)
	craftTypeAffinityFn   func(userID string) ([]string, error)
	preferredLanguageFn   func(userID string) (string, error)
	purchasePriceRangeFn  func(userID string) (*entities.PriceRange, error)
	topQueriesFn          func() ([]entities.QueryCount, error)
	matchingQueriesFn     func(substring string) ([]entities.QueryCount, error)
	recentQueriesByUserFn func(userID string) ([]string, error)
	countSearchesFn       func() (int, error)
	countSearchClicksFn   func() (int, error)
	topCategoriesFn       func() ([]entities.QueryCount, error)
	searchesByDayFn       func() ([]entities.DayCount, error)
}

func (f *fakeEventRepo) Append(ctx context.Context, event *entities.BehaviorEvent) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.appended = append(f.appended, event)
	return nil
}

func (f *fakeEventRepo) appendedEvents() []*entities.BehaviorEvent {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]*entities.BehaviorEvent{}, f.appended...)
}

func (f *fakeEventRepo) CountByEntity(ctx context.Context, entityIDs []string, eventTypes []string, since time.Time) (map[string]int, error) {
	if f.countByEntityFn != nil {
		return f.countByEntityFn(entityIDs)
	}
	return map[string]int{}, nil
}

func (f *fakeEventRepo) TopEntities(ctx context.Context, entityType entities.EntityType, eventTypes []string, since time.Time, limit int) ([]entities.EntityCount, error) {
	if f.topEntitiesFn != nil {
		return f.topEntitiesFn(entityType)
	}
	return nil, nil
}

func (f *fakeEventRepo) RecentEntityIDs(ctx context.Context, userID string, eventTypes []string, limit int) ([]string, error) {
	if f.recentEntityIDsFn != nil {
		return f.recentEntityIDsFn(userID)
	}
	return nil, nil
}

func (f *fakeEventRepo) CraftTypeAffinity(ctx context.Context, userID string, limit int) ([]string, error) {
	if f.craftTypeAffinityFn != nil {
		return f.craftTypeAffinityFn(userID)
	}
	return nil, nil
}

func (f *fakeEventRepo) PreferredLanguage(ctx context.Context, userID string) (string, error) {
	if f.preferredLanguageFn != nil {
		return f.preferredLanguageFn(userID)
	}
	return "", nil
}

func (f *fakeEventRepo) PurchasePriceRange(ctx context.Context, userID string) (*entities.PriceRange, error) {
	if f.purchasePriceRangeFn != nil {
		return f.purchasePriceRangeFn(userID)
	}
	return nil, nil
}

func (f *fakeEventRepo) TopQueries(ctx context.Context, since, until time.Time, limit int) ([]entities.QueryCount, error) {
	if f.topQueriesFn != nil {
		return f.topQueriesFn()
	}
	return nil, nil
}

func (f *fakeEventRepo) MatchingQueries(ctx context.Context, substring string, since time.Time, limit int) ([]entities.QueryCount, error) {
	if f.matchingQueriesFn != nil {
		return f.matchingQueriesFn(substring)
	}
	return nil, nil
}

func (f *fakeEventRepo) RecentQueriesByUser(ctx context.Context, userID string, limit int) ([]string, error) {
	if f.recentQueriesByUserFn != nil {
		return f.recentQueriesByUserFn(userID)
	}
	return nil, nil
}

func (f *fakeEventRepo) CountSearches(ctx context.Context, start, end time.Time) (int, error) {
	if f.countSearchesFn != nil {
		return f.countSearchesFn()
	}
	return 0, nil
}

func (f *fakeEventRepo) CountSearchClicks(ctx context.Context, start, end time.Time) (int, error) {
	if f.countSearchClicksFn != nil {
		return f.countSearchClicksFn()
	}
	return 0, nil
}

func (f *fakeEventRepo) TopCategories(ctx context.Context, start, end time.Time, limit int) ([]entities.QueryCount, error) {
	if f.topCategoriesFn != nil {
		return f.topCategoriesFn()
	}
	return nil, nil
}

func (f *fakeEventRepo) SearchesByDay(ctx context.Context, start, end time.Time) ([]entities.DayCount, error) {
	if f.searchesByDayFn != nil {
		return f.searchesByDayFn()
	}
	return nil, nil
}

var _ repositories.BehaviorEventRepository = (*fakeEventRepo)(nil)

type fakeCraftsmanRepo struct {
	craftsmen []*entities.Craftsman
	locations []string
}

func (f *fakeCraftsmanRepo) GetByID(ctx context.Context, id string) (*entities.Craftsman, error) {
	for _, c := range f.craftsmen {
		if c.ID == id {
			return c, nil
		}
	}
	return nil, errors.New("not found")
}

func (f *fakeCraftsmanRepo) GetByIDs(ctx context.Context, ids []string) ([]*entities.Craftsman, error) {
	var out []*entities.Craftsman
	for _, id := range ids {
		for _, c := range f.craftsmen {
			if c.ID == id {
				out = append(out, c)
			}
		}
	}
	return out, nil
}

func (f *fakeCraftsmanRepo) Search(ctx context.Context, filter repositories.EntitySearchFilter) ([]*entities.Craftsman, error) {
	var out []*entities.Craftsman
	for _, c := range f.craftsmen {
		if filter.CraftType != "" && !c.HasSpecialty(filter.CraftType) {
			continue
		}
		out = append(out, c)
		if len(out) == filter.Limit {
			break
		}
	}
	return out, nil
}

func (f *fakeCraftsmanRepo) SearchByLocation(ctx context.Context, location string, limit int) ([]*entities.Craftsman, error) {
	var out []*entities.Craftsman
	for _, c := range f.craftsmen {
		if c.WorkshopLocation == location {
			out = append(out, c)
		}
	}
	return out, nil
}

func (f *fakeCraftsmanRepo) CountActive(ctx context.Context) (int, error) {
	return len(f.craftsmen), nil
}

func (f *fakeCraftsmanRepo) CraftTypeCounts(ctx context.Context) ([]entities.Facet, error) {
	counts := map[string]int{}
	var order []string
	for _, c := range f.craftsmen {
		for _, s := range c.CraftSpecialties {
			if counts[s] == 0 {
				order = append(order, s)
			}
			counts[s]++
		}
	}
	var facets []entities.Facet
	for _, name := range order {
		facets = append(facets, entities.Facet{Name: name, Count: counts[name]})
	}
	return facets, nil
}

func (f *fakeCraftsmanRepo) DistinctLocations(ctx context.Context, match string, limit int) ([]string, error) {
	return f.locations, nil
}

var _ repositories.CraftsmanRepository = (*fakeCraftsmanRepo)(nil)

type fakeCourseRepo struct {
	courses []*entities.Course
}

func (f *fakeCourseRepo) GetByID(ctx context.Context, id string) (*entities.Course, error) {
	for _, c := range f.courses {
		if c.ID == id {
			return c, nil
		}
	}
	return nil, errors.New("not found")
}

func (f *fakeCourseRepo) GetByIDs(ctx context.Context, ids []string) ([]*entities.Course, error) {
	var out []*entities.Course
	for _, id := range ids {
		for _, c := range f.courses {
			if c.ID == id {
				out = append(out, c)
			}
		}
	}
	return out, nil
}

func (f *fakeCourseRepo) Search(ctx context.Context, filter repositories.EntitySearchFilter) ([]*entities.Course, error) {
	var out []*entities.Course
	for _, c := range f.courses {
		if filter.CraftType != "" && c.CraftType != filter.CraftType {
			continue
		}
		if filter.Category != "" && c.Category != filter.Category {
			continue
		}
		out = append(out, c)
		if len(out) == filter.Limit {
			break
		}
	}
	return out, nil
}

func (f *fakeCourseRepo) ListByCraftType(ctx context.Context, craftType string, limit int) ([]*entities.Course, error) {
	var out []*entities.Course
	for _, c := range f.courses {
		if c.CraftType == craftType {
			out = append(out, c)
		}
	}
	return out, nil
}

func (f *fakeCourseRepo) ListLatest(ctx context.Context, limit int) ([]*entities.Course, error) {
	if len(f.courses) > limit {
		return f.courses[:limit], nil
	}
	return f.courses, nil
}

func (f *fakeCourseRepo) CountActive(ctx context.Context) (int, error) {
	return len(f.courses), nil
}

var _ repositories.CourseRepository = (*fakeCourseRepo)(nil)

type fakeProductRepo struct {
	products []*entities.Product
}

func (f *fakeProductRepo) GetByID(ctx context.Context, id string) (*entities.Product, error) {
	for _, p := range f.products {
		if p.ID == id {
			return p, nil
		}
	}
	return nil, errors.New("not found")
}

func (f *fakeProductRepo) GetByIDs(ctx context.Context, ids []string) ([]*entities.Product, error) {
	var out []*entities.Product
	for _, id := range ids {
		for _, p := range f.products {
			if p.ID == id {
				out = append(out, p)
			}
		}
	}
	return out, nil
}

func (f *fakeProductRepo) Search(ctx context.Context, filter repositories.EntitySearchFilter) ([]*entities.Product, error) {
	var out []*entities.Product
	for _, p := range f.products {
		if filter.CraftType != "" && p.CraftType != filter.CraftType {
			continue
		}
		out = append(out, p)
		if len(out) == filter.Limit {
			break
		}
	}
	return out, nil
}

func (f *fakeProductRepo) ListByCraftType(ctx context.Context, craftType string, limit int) ([]*entities.Product, error) {
	var out []*entities.Product
	for _, p := range f.products {
		if p.CraftType == craftType {
			out = append(out, p)
		}
	}
	return out, nil
}

func (f *fakeProductRepo) CountActive(ctx context.Context) (int, error) {
	return len(f.products), nil
}

var _ repositories.ProductRepository = (*fakeProductRepo)(nil)

type fakeMediaRepo struct {
	items []*entities.MediaItem
}

func (f *fakeMediaRepo) GetByID(ctx context.Context, id string) (*entities.MediaItem, error) {
	for _, m := range f.items {
		if m.ID == id {
			return m, nil
		}
	}
	return nil, errors.New("not found")
}

func (f *fakeMediaRepo) GetByIDs(ctx context.Context, ids []string) ([]*entities.MediaItem, error) {
	var out []*entities.MediaItem
	for _, id := range ids {
		for _, m := range f.items {
			if m.ID == id {
				out = append(out, m)
			}
		}
	}
	return out, nil
}

func (f *fakeMediaRepo) Search(ctx context.Context, filter repositories.EntitySearchFilter) ([]*entities.MediaItem, error) {
	var out []*entities.MediaItem
	for _, m := range f.items {
		if filter.FileType != "" && m.FileType != filter.FileType {
			continue
		}
		if filter.CraftType != "" && m.CraftType != filter.CraftType {
			continue
		}
		out = append(out, m)
		if len(out) == filter.Limit {
			break
		}
	}
	return out, nil
}

func (f *fakeMediaRepo) CountActive(ctx context.Context) (int, error) {
	return len(f.items), nil
}

func (f *fakeMediaRepo) FileTypeCounts(ctx context.Context) ([]entities.Facet, error) {
	counts := map[string]int{}
	var order []string
	for _, m := range f.items {
		if counts[m.FileType] == 0 {
			order = append(order, m.FileType)
		}
		counts[m.FileType]++
	}
	var facets []entities.Facet
	for _, name := range order {
		facets = append(facets, entities.Facet{Name: name, Count: counts[name]})
	}
	return facets, nil
}

var _ repositories.MediaRepository = (*fakeMediaRepo)(nil)

type fakeTextSearch struct {
	searchFn func(entityType entities.EntityType, filter repositories.EntitySearchFilter) ([]repositories.TextHit, error)
}

func (f *fakeTextSearch) SearchEntities(ctx context.Context, entityType entities.EntityType, filter repositories.EntitySearchFilter) ([]repositories.TextHit, error) {
	if f.searchFn != nil {
		return f.searchFn(entityType, filter)
	}
	return nil, nil
}

var _ repositories.TextSearchRepository = (*fakeTextSearch)(nil)

type fakeCache struct {
	mu    sync.Mutex
	store map[string][]byte
}

func newFakeCache() *fakeCache {
	return &fakeCache{store: map[string][]byte{}}
}

func (f *fakeCache) Get(ctx context.Context, key string) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if v, ok := f.store[key]; ok {
		return v, nil
	}
	return nil, errors.New("cache miss")
}

func (f *fakeCache) Set(ctx context.Context, key string, value []byte, expirationSeconds int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.store[key] = value
	return nil
}

func (f *fakeCache) Delete(ctx context.Context, key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.store, key)
	return nil
}

func (f *fakeCache) Exists(ctx context.Context, key string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.store[key]
	return ok, nil
}

type fakeTranslationCacheRepo struct {
	mu      sync.Mutex
	entries map[string]*entities.TranslationCacheEntry
	evicted int
}

func newFakeTranslationCacheRepo() *fakeTranslationCacheRepo {
	return &fakeTranslationCacheRepo{entries: map[string]*entities.TranslationCacheEntry{}}
}

func translationKey(text, source, target string) string {
	return text + "|" + source + "|" + target
}

func (f *fakeTranslationCacheRepo) Get(ctx context.Context, sourceText, sourceLang, targetLang string) (*entities.TranslationCacheEntry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if e, ok := f.entries[translationKey(sourceText, sourceLang, targetLang)]; ok {
		return e, nil
	}
	return nil, apperrors.NewNotFoundError("translation not cached")
}

func (f *fakeTranslationCacheRepo) Put(ctx context.Context, entry *entities.TranslationCacheEntry) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if entry.ID == "" {
		entry.ID = translationKey(entry.SourceText, entry.SourceLang, entry.TargetLang)
	}
	f.entries[translationKey(entry.SourceText, entry.SourceLang, entry.TargetLang)] = entry
	return nil
}

func (f *fakeTranslationCacheRepo) Touch(ctx context.Context, id string) error {
	return nil
}

func (f *fakeTranslationCacheRepo) Count(ctx context.Context) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.entries), nil
}

func (f *fakeTranslationCacheRepo) EvictLowValue(ctx context.Context, n int) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	removed := 0
	for k := range f.entries {
		if removed == n {
			break
		}
		delete(f.entries, k)
		removed++
	}
	f.evicted += removed
	return removed, nil
}

func (f *fakeTranslationCacheRepo) DeleteExpired(ctx context.Context, before time.Time) (int, error) {
	return 0, nil
}

var _ repositories.TranslationCacheRepository = (*fakeTranslationCacheRepo)(nil)
