package like

import (
	"context"

	"clipfeed/internal/repository"
)

// Service applies like increments. Every call counts; there is no
// per-viewer deduplication. Lost-update safety is delegated to the
// store's atomic increment.
type Service struct {
	repo repository.VideoRepository
}

func NewService(repo repository.VideoRepository) *Service {
	return &Service{repo: repo}
}

// Like increments the counter for id and returns the fresh count.
// Returns repository.ErrVideoNotFound for an unknown id.
func (s *Service) Like(ctx context.Context, id int64) (int64, error) {
	return s.repo.IncrementLikes(ctx, id)
}
