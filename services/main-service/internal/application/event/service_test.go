package event

import (
	"context"
	"encoding/json"
	"errors"
	"sort"
	"testing"
	"time"

	"github.com/baechuer/explore-with-me/services/main-service/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// --- Mocks & Helpers ---

type fakeClock struct{ t time.Time }

func (c fakeClock) Now() time.Time { return c.t }

var testNow = time.Date(2030, 5, 1, 12, 0, 0, 0, time.UTC)

// jsonCache round-trips values through JSON like the redis cache does.
type jsonCache struct {
	store map[string][]byte
	sets  int
}

func newJSONCache() *jsonCache { return &jsonCache{store: map[string][]byte{}} }

func (c *jsonCache) Get(ctx context.Context, key string, dest any) (bool, error) {
	b, ok := c.store[key]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(b, dest)
}

func (c *jsonCache) Set(ctx context.Context, key string, val any, ttl time.Duration) error {
	b, err := json.Marshal(val)
	if err != nil {
		return err
	}
	c.sets++
	c.store[key] = b
	return nil
}

func (c *jsonCache) Delete(ctx context.Context, keys ...string) error {
	for _, k := range keys {
		delete(c.store, k)
	}
	return nil
}

type MockStats struct{ mock.Mock }

func (m *MockStats) Hit(ctx context.Context, h domain.Hit) error {
	return m.Called(ctx, h).Error(0)
}

func (m *MockStats) Views(ctx context.Context, q domain.ViewsQuery) ([]domain.ViewStat, error) {
	args := m.Called(ctx, q)
	if v := args.Get(0); v != nil {
		return v.([]domain.ViewStat), args.Error(1)
	}
	return nil, args.Error(1)
}

type memRepo struct {
	events     map[int64]domain.Event
	users      map[int64]bool
	categories map[int64]string
	outbox     []domain.OutboxMessage
	lastPublic PublicFilter
	nextID     int64
}

func newMemRepo() *memRepo {
	return &memRepo{
		events:     map[int64]domain.Event{},
		users:      map[int64]bool{1: true},
		categories: map[int64]string{1: "Concerts", 2: "Theatre"},
	}
}

func (m *memRepo) Create(ctx context.Context, e *domain.Event) error {
	m.nextID++
	e.ID = m.nextID
	m.events[e.ID] = *e
	return nil
}

func (m *memRepo) GetByID(ctx context.Context, id int64) (*domain.Event, error) {
	e, ok := m.events[id]
	if !ok {
		return nil, domain.ErrNotFound("event not found")
	}
	e.Category.Name = m.categories[e.Category.ID]
	return &e, nil
}

func (m *memRepo) sorted(keep func(domain.Event) bool) []*domain.Event {
	out := []*domain.Event{}
	for _, e := range m.events {
		if keep(e) {
			e := e
			out = append(out, &e)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].EventDate.Before(out[j].EventDate) })
	return out
}

func (m *memRepo) ListByInitiator(ctx context.Context, initiatorID int64, page domain.Page) ([]*domain.Event, error) {
	return paginate(m.sorted(func(e domain.Event) bool { return e.Initiator.ID == initiatorID }), page), nil
}

func (m *memRepo) SearchAdmin(ctx context.Context, f AdminFilter, page domain.Page) ([]*domain.Event, error) {
	return paginate(m.sorted(func(domain.Event) bool { return true }), page), nil
}

func (m *memRepo) SearchPublic(ctx context.Context, f PublicFilter, page domain.Page) ([]*domain.Event, error) {
	m.lastPublic = f
	return paginate(m.sorted(func(e domain.Event) bool { return e.State == domain.EventPublished }), page), nil
}

func (m *memRepo) CategoryExists(ctx context.Context, id int64) (bool, error) {
	_, ok := m.categories[id]
	return ok, nil
}

func (m *memRepo) UserExists(ctx context.Context, id int64) (bool, error) {
	return m.users[id], nil
}

func (m *memRepo) WithTx(ctx context.Context, fn func(tx Tx) error) error {
	snapshot := make(map[int64]domain.Event, len(m.events))
	for k, v := range m.events {
		snapshot[k] = v
	}
	n := len(m.outbox)
	if err := fn(memTx{m}); err != nil {
		m.events, m.outbox = snapshot, m.outbox[:n]
		return err
	}
	return nil
}

type memTx struct{ m *memRepo }

func (t memTx) LockEvent(ctx context.Context, id int64) (*domain.Event, error) {
	return t.m.GetByID(ctx, id)
}

func (t memTx) Update(ctx context.Context, e *domain.Event) error {
	cur := t.m.events[e.ID]
	next := *e
	next.ConfirmedRequests = cur.ConfirmedRequests
	t.m.events[e.ID] = next
	return nil
}

func (t memTx) Enqueue(ctx context.Context, msg domain.OutboxMessage) error {
	t.m.outbox = append(t.m.outbox, msg)
	return nil
}

func newService(repo *memRepo, cache Cache, stats StatsClient) *Service {
	return NewService(repo, fakeClock{testNow}, cache, stats, nil, Options{AppName: "ewm-main-service"})
}

func validInput() domain.NewEventInput {
	return domain.NewEventInput{
		Title:       "Jazz night",
		Annotation:  "An evening of live jazz downtown",
		Description: "Three bands, one stage, and a long night of improvised music",
		CategoryID:  1,
		Location:    domain.Location{Lat: 55.75, Lon: 37.61},
		EventDate:   testNow.Add(72 * time.Hour),
	}
}

func seed(repo *memRepo, e domain.Event) int64 {
	repo.nextID++
	e.ID = repo.nextID
	if e.Initiator.ID == 0 {
		e.Initiator = domain.UserShort{ID: 1}
	}
	if e.Category.ID == 0 {
		e.Category = domain.Category{ID: 1}
	}
	if e.EventDate.IsZero() {
		e.EventDate = testNow.Add(72 * time.Hour)
	}
	repo.events[e.ID] = e
	return e.ID
}

// --- Tests ---

func TestCreate(t *testing.T) {
	ctx := context.Background()

	t.Run("defaults and reload", func(t *testing.T) {
		repo := newMemRepo()
		svc := newService(repo, nil, nil)
		ev, err := svc.Create(ctx, 1, validInput())
		require.NoError(t, err)
		assert.Equal(t, domain.EventPending, ev.State)
		assert.Equal(t, "Concerts", ev.Category.Name)
		assert.True(t, ev.RequestModeration)
		assert.Equal(t, 0, ev.ParticipantLimit)
	})

	t.Run("unknown user", func(t *testing.T) {
		svc := newService(newMemRepo(), nil, nil)
		_, err := svc.Create(ctx, 9, validInput())
		assert.True(t, domain.IsCode(err, domain.CodeNotFound))
	})

	t.Run("unknown category", func(t *testing.T) {
		svc := newService(newMemRepo(), nil, nil)
		in := validInput()
		in.CategoryID = 42
		_, err := svc.Create(ctx, 1, in)
		assert.True(t, domain.IsCode(err, domain.CodeNotFound))
	})

	t.Run("event too soon", func(t *testing.T) {
		svc := newService(newMemRepo(), nil, nil)
		in := validInput()
		in.EventDate = testNow.Add(time.Hour)
		_, err := svc.Create(ctx, 1, in)
		assert.True(t, domain.IsCode(err, domain.CodeValidation))
	})
}

func TestUpdateByInitiator(t *testing.T) {
	ctx := context.Background()

	t.Run("cancel review", func(t *testing.T) {
		repo := newMemRepo()
		id := seed(repo, domain.Event{State: domain.EventPending})
		svc := newService(repo, nil, nil)
		ev, err := svc.UpdateByInitiator(ctx, 1, id, domain.EventPatch{StateAction: domain.Some(domain.ActionCancelReview)})
		require.NoError(t, err)
		assert.Equal(t, domain.EventCanceled, ev.State)
	})

	t.Run("published is a conflict", func(t *testing.T) {
		repo := newMemRepo()
		id := seed(repo, domain.Event{State: domain.EventPublished})
		svc := newService(repo, nil, nil)
		_, err := svc.UpdateByInitiator(ctx, 1, id, domain.EventPatch{Title: domain.Some("New title")})
		assert.True(t, domain.IsCode(err, domain.CodeConflict))
	})

	t.Run("foreign event is hidden", func(t *testing.T) {
		repo := newMemRepo()
		id := seed(repo, domain.Event{State: domain.EventPending})
		svc := newService(repo, nil, nil)
		_, err := svc.UpdateByInitiator(ctx, 2, id, domain.EventPatch{})
		assert.True(t, domain.IsCode(err, domain.CodeNotFound))
	})

	t.Run("limit below confirmed", func(t *testing.T) {
		repo := newMemRepo()
		id := seed(repo, domain.Event{State: domain.EventCanceled, ParticipantLimit: 5, ConfirmedRequests: 3})
		svc := newService(repo, nil, nil)
		_, err := svc.UpdateByInitiator(ctx, 1, id, domain.EventPatch{ParticipantLimit: domain.Some(2)})
		assert.True(t, domain.IsCode(err, domain.CodeConflict))
		assert.Equal(t, 5, repo.events[id].ParticipantLimit)
	})

	t.Run("admin action rejected", func(t *testing.T) {
		repo := newMemRepo()
		id := seed(repo, domain.Event{State: domain.EventPending})
		svc := newService(repo, nil, nil)
		_, err := svc.UpdateByInitiator(ctx, 1, id, domain.EventPatch{StateAction: domain.Some(domain.ActionPublishEvent)})
		assert.True(t, domain.IsCode(err, domain.CodeValidation))
	})
}

func TestUpdateByAdmin(t *testing.T) {
	ctx := context.Background()

	t.Run("publish writes outbox", func(t *testing.T) {
		repo := newMemRepo()
		id := seed(repo, domain.Event{State: domain.EventPending})
		cache := newJSONCache()
		cache.store[cacheKeyEvent(id)] = []byte(`{}`)
		svc := newService(repo, cache, nil)

		ev, err := svc.UpdateByAdmin(ctx, id, domain.EventPatch{StateAction: domain.Some(domain.ActionPublishEvent)})
		require.NoError(t, err)
		assert.Equal(t, domain.EventPublished, ev.State)
		require.NotNil(t, ev.PublishedOn)
		assert.True(t, ev.PublishedOn.Equal(testNow))
		require.Len(t, repo.outbox, 1)
		assert.Equal(t, domain.RoutingEventPublished, repo.outbox[0].RoutingKey)
		assert.NotContains(t, cache.store, cacheKeyEvent(id))
	})

	t.Run("publish too close to the event", func(t *testing.T) {
		repo := newMemRepo()
		id := seed(repo, domain.Event{State: domain.EventPending, EventDate: testNow.Add(30 * time.Minute)})
		svc := newService(repo, nil, nil)
		_, err := svc.UpdateByAdmin(ctx, id, domain.EventPatch{StateAction: domain.Some(domain.ActionPublishEvent)})
		assert.True(t, domain.IsCode(err, domain.CodeConflict))
		assert.Empty(t, repo.outbox)
	})

	t.Run("publish twice", func(t *testing.T) {
		repo := newMemRepo()
		id := seed(repo, domain.Event{State: domain.EventPublished})
		svc := newService(repo, nil, nil)
		_, err := svc.UpdateByAdmin(ctx, id, domain.EventPatch{StateAction: domain.Some(domain.ActionPublishEvent)})
		assert.True(t, domain.IsCode(err, domain.CodeConflict))
	})

	t.Run("reject published", func(t *testing.T) {
		repo := newMemRepo()
		id := seed(repo, domain.Event{State: domain.EventPublished})
		svc := newService(repo, nil, nil)
		_, err := svc.UpdateByAdmin(ctx, id, domain.EventPatch{StateAction: domain.Some(domain.ActionRejectEvent)})
		assert.True(t, domain.IsCode(err, domain.CodeConflict))
	})

	t.Run("category must exist", func(t *testing.T) {
		repo := newMemRepo()
		id := seed(repo, domain.Event{State: domain.EventPending})
		svc := newService(repo, nil, nil)
		_, err := svc.UpdateByAdmin(ctx, id, domain.EventPatch{CategoryID: domain.Some(int64(77))})
		assert.True(t, domain.IsCode(err, domain.CodeNotFound))
	})
}

func TestGetPublic(t *testing.T) {
	ctx := context.Background()
	visit := Visit{URI: "/events/1", IP: "10.0.0.1"}

	t.Run("unpublished is not found", func(t *testing.T) {
		repo := newMemRepo()
		seed(repo, domain.Event{State: domain.EventPending})
		svc := newService(repo, nil, nil)
		_, err := svc.GetPublic(ctx, 1, visit)
		assert.True(t, domain.IsCode(err, domain.CodeNotFound))
	})

	t.Run("records hit, merges views, caches", func(t *testing.T) {
		repo := newMemRepo()
		id := seed(repo, domain.Event{State: domain.EventPublished})
		cache := newJSONCache()
		stats := new(MockStats)
		stats.On("Hit", mock.Anything, mock.MatchedBy(func(h domain.Hit) bool {
			return h.URI == "/events/1" && h.IP == "10.0.0.1" && h.App == "ewm-main-service"
		})).Return(nil).Twice()
		stats.On("Views", mock.Anything, mock.MatchedBy(func(q domain.ViewsQuery) bool {
			return q.Unique && len(q.URIs) == 1 && q.URIs[0] == "/events/1" &&
				q.Start.Equal(testNow.Add(-viewsLookback)) && q.End.Equal(testNow.Add(viewsLookahead))
		})).Return([]domain.ViewStat{{App: "ewm-main-service", URI: "/events/1", Hits: 7}}, nil).Twice()

		svc := newService(repo, cache, stats)
		ev, err := svc.GetPublic(ctx, id, visit)
		require.NoError(t, err)
		assert.EqualValues(t, 7, ev.Views)
		assert.Equal(t, 1, cache.sets)

		// second read served from cache
		delete(repo.events, id)
		ev, err = svc.GetPublic(ctx, id, visit)
		require.NoError(t, err)
		assert.EqualValues(t, 7, ev.Views)
		assert.Equal(t, "Concerts", ev.Category.Name)
		stats.AssertExpectations(t)
	})

	t.Run("stats failure degrades to zero", func(t *testing.T) {
		repo := newMemRepo()
		id := seed(repo, domain.Event{State: domain.EventPublished})
		stats := new(MockStats)
		stats.On("Hit", mock.Anything, mock.Anything).Return(errors.New("stats down"))
		stats.On("Views", mock.Anything, mock.Anything).Return(nil, errors.New("stats down"))

		svc := newService(repo, nil, stats)
		ev, err := svc.GetPublic(ctx, id, visit)
		require.NoError(t, err)
		assert.EqualValues(t, 0, ev.Views)
	})
}

func TestSearchPublic(t *testing.T) {
	ctx := context.Background()

	t.Run("inverted range", func(t *testing.T) {
		svc := newService(newMemRepo(), nil, nil)
		start, end := testNow.Add(48*time.Hour), testNow
		_, err := svc.SearchPublic(ctx, PublicFilter{RangeStart: &start, RangeEnd: &end}, domain.DefaultPage(), Visit{})
		assert.True(t, domain.IsCode(err, domain.CodeValidation))
	})

	t.Run("defaults to upcoming events", func(t *testing.T) {
		repo := newMemRepo()
		svc := newService(repo, nil, nil)
		_, err := svc.SearchPublic(ctx, PublicFilter{}, domain.DefaultPage(), Visit{})
		require.NoError(t, err)
		require.NotNil(t, repo.lastPublic.RangeStart)
		assert.True(t, repo.lastPublic.RangeStart.Equal(testNow))
		assert.Equal(t, SortEventDate, repo.lastPublic.Sort)
	})

	t.Run("sort by views", func(t *testing.T) {
		repo := newMemRepo()
		a := seed(repo, domain.Event{State: domain.EventPublished, EventDate: testNow.Add(10 * time.Hour)})
		b := seed(repo, domain.Event{State: domain.EventPublished, EventDate: testNow.Add(20 * time.Hour)})
		c := seed(repo, domain.Event{State: domain.EventPublished, EventDate: testNow.Add(30 * time.Hour)})

		stats := new(MockStats)
		stats.On("Hit", mock.Anything, mock.Anything).Return(nil)
		stats.On("Views", mock.Anything, mock.Anything).Return([]domain.ViewStat{
			{URI: domain.EventURI(b), Hits: 9},
			{URI: domain.EventURI(c), Hits: 4},
		}, nil)

		svc := newService(repo, nil, stats)
		got, err := svc.SearchPublic(ctx, PublicFilter{Sort: SortViews}, domain.Page{From: 0, Size: 2}, Visit{URI: "/events", IP: "1.1.1.1"})
		require.NoError(t, err)
		require.Len(t, got, 2)
		assert.Equal(t, b, got[0].ID)
		assert.Equal(t, c, got[1].ID)

		got, err = svc.SearchPublic(ctx, PublicFilter{Sort: SortViews}, domain.Page{From: 2, Size: 2}, Visit{})
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, a, got[0].ID)
	})

	t.Run("bad page", func(t *testing.T) {
		svc := newService(newMemRepo(), nil, nil)
		_, err := svc.SearchPublic(ctx, PublicFilter{}, domain.Page{From: -1, Size: 10}, Visit{})
		assert.True(t, domain.IsCode(err, domain.CodeValidation))
	})
}

func TestParseSort(t *testing.T) {
	s, err := ParseSort("")
	require.NoError(t, err)
	assert.Equal(t, SortEventDate, s)

	s, err = ParseSort("VIEWS")
	require.NoError(t, err)
	assert.Equal(t, SortViews, s)

	_, err = ParseSort("RANDOM")
	assert.True(t, domain.IsCode(err, domain.CodeValidation))
}

// ledgerRaceRepo runs onRead after loading an event, standing in for a ledger
// commit that lands between the database read and the cache write.
type ledgerRaceRepo struct {
	*memRepo
	onRead func()
}

func (r *ledgerRaceRepo) GetByID(ctx context.Context, id int64) (*domain.Event, error) {
	e, err := r.memRepo.GetByID(ctx, id)
	if r.onRead != nil {
		r.onRead()
		r.onRead = nil
	}
	return e, err
}

func TestGetPublic_InvalidationDuringReadIsNotOverwritten(t *testing.T) {
	ctx := context.Background()
	mem := newMemRepo()
	id := seed(mem, domain.Event{State: domain.EventPublished, ParticipantLimit: 5, ConfirmedRequests: 1})
	repo := &ledgerRaceRepo{memRepo: mem}
	cache := newJSONCache()
	svc := NewService(repo, fakeClock{testNow}, cache, nil, nil, Options{})

	repo.onRead = func() {
		e := mem.events[id]
		e.ConfirmedRequests = 2
		mem.events[id] = e
		svc.InvalidateEvent(ctx, id)
	}

	ev, err := svc.GetPublic(ctx, id, Visit{URI: "/events/1", IP: "10.0.0.1"})
	require.NoError(t, err)
	assert.Equal(t, 1, ev.ConfirmedRequests)
	assert.NotContains(t, cache.store, cacheKeyEvent(id), "stale copy must not stay cached")

	ev, err = svc.GetPublic(ctx, id, Visit{URI: "/events/1", IP: "10.0.0.1"})
	require.NoError(t, err)
	assert.Equal(t, 2, ev.ConfirmedRequests)
	assert.Contains(t, cache.store, cacheKeyEvent(id))
}

func TestInvalidateEvent_BumpsGeneration(t *testing.T) {
	ctx := context.Background()
	cache := newJSONCache()
	svc := newService(newMemRepo(), cache, nil)

	assert.Empty(t, svc.cacheGeneration(ctx, 9))
	svc.InvalidateEvent(ctx, 9)
	first := svc.cacheGeneration(ctx, 9)
	assert.NotEmpty(t, first)
	svc.InvalidateEvent(ctx, 9)
	assert.NotEqual(t, first, svc.cacheGeneration(ctx, 9))
}
