package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"clipfeed/internal/domain"
)

var (
	ErrValidation    = errors.New("validation error")
	ErrVideoNotFound = errors.New("video not found")
)

// VideoRepository is the durable record store for clips. Insert assigns
// a strictly increasing id; ListBefore is a pure keyset range scan so
// pages already fetched never drift under concurrent inserts.
type VideoRepository interface {
	Create(ctx context.Context, v *domain.Video) error
	GetByID(ctx context.Context, id int64) (*domain.Video, error)
	ListBefore(ctx context.Context, cursor *int64, limit int) ([]domain.Video, error)
	IncrementLikes(ctx context.Context, id int64) (int64, error)
}

type videoRepository struct {
	db *gorm.DB
}

func NewVideoRepository(db *gorm.DB) VideoRepository {
	return &videoRepository{db: db}
}

func (r *videoRepository) Create(ctx context.Context, v *domain.Video) error {
	if v.Title == "" || v.StorageName == "" {
		return ErrValidation
	}
	if err := r.db.WithContext(ctx).Create(v).Error; err != nil {
		return fmt.Errorf("insert video: %w", err)
	}
	return nil
}

func (r *videoRepository) GetByID(ctx context.Context, id int64) (*domain.Video, error) {
	var v domain.Video
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&v).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrVideoNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get video: %w", err)
	}
	return &v, nil
}

func (r *videoRepository) ListBefore(ctx context.Context, cursor *int64, limit int) ([]domain.Video, error) {
	q := r.db.WithContext(ctx).Order("id DESC").Limit(limit)
	if cursor != nil {
		q = q.Where("id < ?", *cursor)
	}
	var videos []domain.Video
	if err := q.Find(&videos).Error; err != nil {
		return nil, fmt.Errorf("list videos: %w", err)
	}
	return videos, nil
}

// IncrementLikes bumps the counter with a single UPDATE so concurrent
// likes on the same id never lose updates, then reads the fresh count in
// the same transaction.
func (r *videoRepository) IncrementLikes(ctx context.Context, id int64) (int64, error) {
	var likes int64
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&domain.Video{}).
			Where("id = ?", id).
			UpdateColumn("likes", gorm.Expr("likes + ?", 1))
		if res.Error != nil {
			return fmt.Errorf("increment likes: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return ErrVideoNotFound
		}
		return tx.Model(&domain.Video{}).
			Where("id = ?", id).
			Select("likes").
			Scan(&likes).Error
	})
	if err != nil {
		return 0, err
	}
	return likes, nil
}
