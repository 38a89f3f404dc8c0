package feedclient

import (
	"context"
	"sync"
)

// State of a feed session.
type State int

const (
	StateIdle State = iota
	StateLoading
	StateExhausted
)

// FetchFunc fetches one page. Normally Client.GetPage.
type FetchFunc func(ctx context.Context, cursor *int64, limit int) (*Page, error)

// Session holds the paging state an infinite-scroll view needs: the
// cursor, the loaded items and a three-state machine. LoadMore is a
// no-op unless the session is idle, which is the backpressure guard
// against duplicate concurrent page fetches.
type Session struct {
	mu         sync.Mutex
	fetch      FetchFunc
	limit      int
	state      State
	nextCursor *int64
	videos     []Video
}

func NewSession(fetch FetchFunc, limit int) *Session {
	return &Session{fetch: fetch, limit: limit}
}

func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Videos returns a copy of the loaded items, newest first.
func (s *Session) Videos() []Video {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Video, len(s.videos))
	copy(out, s.videos)
	return out
}

// LoadMore fetches the next page and appends it. Returns false without
// fetching when the session is already loading or exhausted. A fetch
// error returns the session to idle so the caller may retry.
func (s *Session) LoadMore(ctx context.Context) (bool, error) {
	s.mu.Lock()
	if s.state != StateIdle {
		s.mu.Unlock()
		return false, nil
	}
	s.state = StateLoading
	cursor := s.nextCursor
	s.mu.Unlock()

	page, err := s.fetch(ctx, cursor, s.limit)

	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		s.state = StateIdle
		return false, err
	}

	s.videos = append(s.videos, page.Videos...)
	if page.NextCursor == nil || len(page.Videos) == 0 {
		s.state = StateExhausted
	} else {
		s.nextCursor = page.NextCursor
		s.state = StateIdle
	}
	return true, nil
}

// PrependUploaded puts a freshly uploaded clip at the top of the view
// without disturbing the cursor or the state machine.
func (s *Session) PrependUploaded(v Video) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.videos = append([]Video{v}, s.videos...)
}
