package ingest

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"clipfeed/internal/domain"
	"clipfeed/internal/repository"
)

// Upload is an untrusted incoming file plus its declared metadata.
type Upload struct {
	Title        string
	OriginalName string
	ContentType  string
	Size         int64
	Body         io.Reader
}

// Service turns an upload into a durable file plus a registered record.
// The file is fully written and synced before the record is inserted;
// any failure along the way removes the partial file, so a record never
// references a file that does not exist.
type Service struct {
	repo     repository.VideoRepository
	dir      string
	maxBytes int64
	allowed  map[string]bool
}

func NewService(repo repository.VideoRepository, dir string, maxBytes int64, allowed map[string]bool) *Service {
	return &Service{repo: repo, dir: dir, maxBytes: maxBytes, allowed: allowed}
}

// MaxBytes is the configured upload size ceiling.
func (s *Service) MaxBytes() int64 { return s.maxBytes }

// Ingest validates, stores and registers one upload.
// Validation order: title, file presence, declared MIME type, size.
// The MIME and declared-size checks run before any byte is copied; the
// size ceiling is additionally enforced as a hard cutoff on the stream
// in case the declared size lied.
func (s *Service) Ingest(ctx context.Context, up Upload) (*domain.Video, error) {
	title := strings.TrimSpace(up.Title)
	if title == "" {
		return nil, ErrTitleRequired
	}
	if up.Body == nil {
		return nil, ErrFileRequired
	}
	if !s.allowed[normalizeContentType(up.ContentType)] {
		return nil, ErrUnsupportedMedia
	}
	if up.Size > s.maxBytes {
		return nil, ErrPayloadTooLarge
	}

	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload directory: %w", err)
	}

	name := deriveStorageName(up.OriginalName)
	path := filepath.Join(s.dir, name)

	if err := s.writeFile(path, up.Body); err != nil {
		return nil, err
	}

	video := &domain.Video{
		Title:       title,
		StorageName: name,
		CreatedAt:   time.Now(),
	}
	if err := s.repo.Create(ctx, video); err != nil {
		_ = os.Remove(path)
		return nil, err
	}
	return video, nil
}

// writeFile streams the body to path with a hard ceiling. On any
// failure, including an oversized stream, the partial file is removed.
func (s *Service) writeFile(path string, body io.Reader) error {
	dst, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create file: %w", err)
	}

	written, err := io.Copy(dst, io.LimitReader(body, s.maxBytes+1))
	if err != nil {
		dst.Close()
		_ = os.Remove(path)
		return fmt.Errorf("write file: %w", err)
	}
	if written > s.maxBytes {
		dst.Close()
		_ = os.Remove(path)
		return ErrPayloadTooLarge
	}
	if err := dst.Sync(); err != nil {
		dst.Close()
		_ = os.Remove(path)
		return fmt.Errorf("sync file: %w", err)
	}
	if err := dst.Close(); err != nil {
		_ = os.Remove(path)
		return fmt.Errorf("close file: %w", err)
	}
	return nil
}

func normalizeContentType(ct string) string {
	ct = strings.ToLower(strings.TrimSpace(ct))
	if i := strings.Index(ct, ";"); i >= 0 {
		ct = strings.TrimSpace(ct[:i])
	}
	return ct
}

var extPattern = regexp.MustCompile(`^\.[a-z0-9]+$`)

// deriveStorageName builds a collision-resistant, traversal-safe name
// from the client-supplied filename: millisecond timestamp, random hex,
// then the sanitized base name with its lower-cased extension.
func deriveStorageName(original string) string {
	ext := strings.ToLower(filepath.Ext(original))
	if !extPattern.MatchString(ext) {
		ext = ""
	}
	base := sanitizeBase(strings.TrimSuffix(filepath.Base(original), filepath.Ext(original)))

	var rnd [6]byte
	_, _ = rand.Read(rnd[:])

	return fmt.Sprintf("%d_%s_%s%s", time.Now().UnixMilli(), hex.EncodeToString(rnd[:]), base, ext)
}

func sanitizeBase(name string) string {
	name = strings.Map(func(r rune) rune {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') || r == '-' || r == '_' {
			return r
		}
		return -1
	}, name)
	if len(name) > 40 {
		name = name[:40]
	}
	if name == "" {
		return "video"
	}
	return name
}
