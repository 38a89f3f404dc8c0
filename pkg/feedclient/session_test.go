package feedclient

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// fakeFeed serves a fixed set of ids through the wire contract: full
// pages carry the last id as cursor, short pages carry nil.
func fakeFeed(ids []int64) FetchFunc {
	return func(_ context.Context, cursor *int64, limit int) (*Page, error) {
		var out []Video
		for _, id := range ids {
			if cursor != nil && id >= *cursor {
				continue
			}
			out = append(out, Video{ID: id})
			if len(out) == limit {
				break
			}
		}
		page := &Page{Videos: out}
		if len(out) == limit {
			page.NextCursor = &out[len(out)-1].ID
		}
		return page, nil
	}
}

func sessionIDs(s *Session) []int64 {
	videos := s.Videos()
	ids := make([]int64, 0, len(videos))
	for _, v := range videos {
		ids = append(ids, v.ID)
	}
	return ids
}

func TestSessionWalksToExhaustion(t *testing.T) {
	s := NewSession(fakeFeed([]int64{7, 6, 5, 4, 3, 2, 1}), 5)
	require.Equal(t, StateIdle, s.State())

	fetched, err := s.LoadMore(context.Background())
	require.NoError(t, err)
	require.True(t, fetched)
	require.Equal(t, []int64{7, 6, 5, 4, 3}, sessionIDs(s))
	require.Equal(t, StateIdle, s.State())

	fetched, err = s.LoadMore(context.Background())
	require.NoError(t, err)
	require.True(t, fetched)
	require.Equal(t, []int64{7, 6, 5, 4, 3, 2, 1}, sessionIDs(s))
	require.Equal(t, StateExhausted, s.State())

	// Further triggers are ignored.
	fetched, err = s.LoadMore(context.Background())
	require.NoError(t, err)
	require.False(t, fetched)
}

func TestSessionExactMultipleEndsWithEmptyPage(t *testing.T) {
	// 5 records, limit 5: the first page is full so the session cannot
	// know it is done until the follow-up page comes back empty.
	s := NewSession(fakeFeed([]int64{5, 4, 3, 2, 1}), 5)

	_, err := s.LoadMore(context.Background())
	require.NoError(t, err)
	require.Equal(t, StateIdle, s.State())

	_, err = s.LoadMore(context.Background())
	require.NoError(t, err)
	require.Equal(t, StateExhausted, s.State())
	require.Len(t, s.Videos(), 5)
}

func TestSessionFetchErrorReturnsToIdle(t *testing.T) {
	calls := 0
	fetch := func(ctx context.Context, cursor *int64, limit int) (*Page, error) {
		calls++
		if calls == 1 {
			return nil, errors.New("network down")
		}
		return fakeFeed([]int64{2, 1})(ctx, cursor, limit)
	}

	s := NewSession(fetch, 5)
	_, err := s.LoadMore(context.Background())
	require.Error(t, err)
	require.Equal(t, StateIdle, s.State())
	require.Empty(t, s.Videos())

	// Retry succeeds from the same cursor.
	fetched, err := s.LoadMore(context.Background())
	require.NoError(t, err)
	require.True(t, fetched)
	require.Equal(t, []int64{2, 1}, sessionIDs(s))
}

func TestSessionBlocksConcurrentFetches(t *testing.T) {
	release := make(chan struct{})
	started := make(chan struct{})
	fetch := func(ctx context.Context, cursor *int64, limit int) (*Page, error) {
		close(started)
		<-release
		return &Page{Videos: []Video{{ID: 1}}}, nil
	}

	s := NewSession(fetch, 5)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		_, err := s.LoadMore(context.Background())
		require.NoError(t, err)
	}()

	select {
	case <-started:
	case <-time.After(time.Second):
		t.Fatal("fetch never started")
	}

	// Second trigger while the first is in flight must be a no-op.
	fetched, err := s.LoadMore(context.Background())
	require.NoError(t, err)
	require.False(t, fetched)
	require.Equal(t, StateLoading, s.State())

	close(release)
	wg.Wait()
	require.Len(t, s.Videos(), 1)
}

func TestSessionPrependKeepsPagination(t *testing.T) {
	var lastCursor *int64
	fetch := func(ctx context.Context, cursor *int64, limit int) (*Page, error) {
		lastCursor = cursor
		return fakeFeed([]int64{7, 6, 5, 4, 3, 2, 1})(ctx, cursor, limit)
	}

	s := NewSession(fetch, 5)
	_, err := s.LoadMore(context.Background())
	require.NoError(t, err)

	s.PrependUploaded(Video{ID: 100, Title: "fresh upload"})
	require.Equal(t, []int64{100, 7, 6, 5, 4, 3}, sessionIDs(s))
	require.Equal(t, StateIdle, s.State())

	// The next page still resumes from the pre-upload cursor.
	_, err = s.LoadMore(context.Background())
	require.NoError(t, err)
	require.NotNil(t, lastCursor)
	require.Equal(t, int64(3), *lastCursor)
	require.Equal(t, []int64{100, 7, 6, 5, 4, 3, 2, 1}, sessionIDs(s))
}
