package querycache

import (
	"context"
	"errors"
	"net/url"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCache() (*Cache, *time.Time) {
	cache := New(NewMemoryStore())
	now := time.Now()
	cache.now = func() time.Time { return now }
	return cache, &now
}

func TestFetch_FreshEntryServedFromCache(t *testing.T) {
	cache, _ := newTestCache()
	ctx := context.Background()

	var calls int32
	fetch := func(ctx context.Context) ([]byte, error) {
		atomic.AddInt32(&calls, 1)
		return []byte(`{"n":1}`), nil
	}

	key := Key(CollectionCourses, "/courses", nil)
	first, err := cache.Fetch(ctx, CollectionCourses, key, fetch)
	require.NoError(t, err)

	second, err := cache.Fetch(ctx, CollectionCourses, key, fetch)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestFetch_StaleEntryRefetched(t *testing.T) {
	cache, now := newTestCache()
	ctx := context.Background()

	var calls int32
	fetch := func(ctx context.Context) ([]byte, error) {
		atomic.AddInt32(&calls, 1)
		return []byte(`{"fresh":true}`), nil
	}

	key := Key(CollectionProgress, "/courses/recent", nil)
	_, err := cache.Fetch(ctx, CollectionProgress, key, fetch)
	require.NoError(t, err)

	// Прогресс устаревает через минуту
	*now = now.Add(61 * time.Second)

	_, err = cache.Fetch(ctx, CollectionProgress, key, fetch)
	require.NoError(t, err)
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
}

func TestFetch_TaxonomyStaysFreshLonger(t *testing.T) {
	cache, now := newTestCache()
	ctx := context.Background()

	var calls int32
	fetch := func(ctx context.Context) ([]byte, error) {
		atomic.AddInt32(&calls, 1)
		return []byte(`{}`), nil
	}

	key := Key(CollectionTaxonomy, "/industries", nil)
	_, _ = cache.Fetch(ctx, CollectionTaxonomy, key, fetch)

	*now = now.Add(4 * time.Minute)
	_, _ = cache.Fetch(ctx, CollectionTaxonomy, key, fetch)

	assert.Equal(t, int32(1), atomic.LoadInt32(&calls), "4 минуты - еще свежо для таксономии")
}

func TestFetch_InvalidateForcesRefetch(t *testing.T) {
	cache, _ := newTestCache()
	ctx := context.Background()

	var calls int32
	fetch := func(ctx context.Context) ([]byte, error) {
		atomic.AddInt32(&calls, 1)
		return []byte(`{}`), nil
	}

	key := Key(CollectionCourses, "/courses", nil)
	_, _ = cache.Fetch(ctx, CollectionCourses, key, fetch)

	cache.Invalidate(ctx, CollectionCourses)

	_, _ = cache.Fetch(ctx, CollectionCourses, key, fetch)
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
}

func TestFetch_InvalidateOtherCollectionUntouched(t *testing.T) {
	cache, _ := newTestCache()
	ctx := context.Background()

	var calls int32
	fetch := func(ctx context.Context) ([]byte, error) {
		atomic.AddInt32(&calls, 1)
		return []byte(`{}`), nil
	}

	key := Key(CollectionTaxonomy, "/industries", nil)
	_, _ = cache.Fetch(ctx, CollectionTaxonomy, key, fetch)

	cache.Invalidate(ctx, CollectionCourses)

	_, _ = cache.Fetch(ctx, CollectionTaxonomy, key, fetch)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestFetch_ConcurrentCallsCoalesce(t *testing.T) {
	cache, _ := newTestCache()
	ctx := context.Background()

	var calls int32
	release := make(chan struct{})
	fetch := func(ctx context.Context) ([]byte, error) {
		atomic.AddInt32(&calls, 1)
		<-release
		return []byte(`{"ok":true}`), nil
	}

	key := Key(CollectionCourses, "/courses", nil)

	var wg sync.WaitGroup
	started := make(chan struct{}, 10)
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			started <- struct{}{}
			payload, err := cache.Fetch(ctx, CollectionCourses, key, fetch)
			assert.NoError(t, err)
			assert.Equal(t, []byte(`{"ok":true}`), payload)
		}()
	}
	for i := 0; i < 10; i++ {
		<-started
	}
	time.Sleep(100 * time.Millisecond)
	close(release)
	wg.Wait()

	assert.Equal(t, int32(1), atomic.LoadInt32(&calls), "на ключ летит не больше одной загрузки")
}

func TestFetch_ErrorServesStaleEntry(t *testing.T) {
	cache, now := newTestCache()
	ctx := context.Background()

	calls := 0
	fetch := func(ctx context.Context) ([]byte, error) {
		calls++
		if calls == 1 {
			return []byte(`{"v":1}`), nil
		}
		return nil, errors.New("backend down")
	}

	key := Key(CollectionCourses, "/courses", nil)
	_, err := cache.Fetch(ctx, CollectionCourses, key, fetch)
	require.NoError(t, err)

	*now = now.Add(3 * time.Minute)

	payload, err := cache.Fetch(ctx, CollectionCourses, key, fetch)
	require.NoError(t, err, "при падении backend'а отдаем устаревшую запись")
	assert.Equal(t, []byte(`{"v":1}`), payload)
}

func TestFetch_ErrorWithoutStaleEntryPropagates(t *testing.T) {
	cache, _ := newTestCache()

	fetch := func(ctx context.Context) ([]byte, error) {
		return nil, errors.New("backend down")
	}

	key := Key(CollectionCourses, "/courses", nil)
	_, err := cache.Fetch(context.Background(), CollectionCourses, key, fetch)

	assert.Error(t, err)
}

func TestKey_CanonicalizesQueryOrder(t *testing.T) {
	a := url.Values{}
	a.Set("page", "2")
	a.Set("search", "mixing")

	b := url.Values{}
	b.Set("search", "mixing")
	b.Set("page", "2")

	assert.Equal(t,
		Key(CollectionCourses, "/courses", a),
		Key(CollectionCourses, "/courses", b),
	)
}

func TestKey_DifferentParamsDiffer(t *testing.T) {
	a := url.Values{"page": {"1"}}
	b := url.Values{"page": {"2"}}

	assert.NotEqual(t,
		Key(CollectionCourses, "/courses", a),
		Key(CollectionCourses, "/courses", b),
	)
}
