package feed

import (
	"context"

	"clipfeed/internal/repository"
)

const (
	DefaultLimit = 5
	MinLimit     = 1
	MaxLimit     = 20
)

// Service serves reverse-chronological feed pages by keyset cursor.
// It is stateless; the cursor round-trips through the client.
type Service struct {
	repo       repository.VideoRepository
	staticBase string
}

func NewService(repo repository.VideoRepository, staticBase string) *Service {
	return &Service{repo: repo, staticBase: staticBase}
}

// GetPage returns at most limit cards with id < cursor, newest first.
// A full page carries the last card's id as the next cursor; a short
// page is terminal and carries null, so clients never pay for an extra
// round trip that would come back empty.
func (s *Service) GetPage(ctx context.Context, cursor *int64, limit int) (*Page, error) {
	limit = ClampLimit(limit)

	videos, err := s.repo.ListBefore(ctx, cursor, limit)
	if err != nil {
		return nil, err
	}

	cards := make([]VideoCard, 0, len(videos))
	for _, v := range videos {
		cards = append(cards, NewVideoCard(v, s.staticBase))
	}

	page := &Page{Videos: cards}
	if len(cards) == limit {
		page.NextCursor = &cards[len(cards)-1].ID
	}
	return page, nil
}

// ClampLimit forces an out-of-range page size into [MinLimit, MaxLimit]
// rather than erroring.
func ClampLimit(limit int) int {
	if limit < MinLimit {
		return MinLimit
	}
	if limit > MaxLimit {
		return MaxLimit
	}
	return limit
}
