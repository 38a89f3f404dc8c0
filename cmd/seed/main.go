// Command seed registers video files already present in the upload
// directory that have no record yet. Handy after copying sample clips
// into a fresh local environment.
package main

import (
	"context"
	"log"
	"os"
	"path/filepath"
	"strings"

	"clipfeed/internal/config"
	"clipfeed/internal/database"
	"clipfeed/internal/domain"
	"clipfeed/internal/repository"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatal("DB connection failed:", err)
	}
	if err := db.AutoMigrate(&domain.Video{}); err != nil {
		log.Fatal("AutoMigrate failed:", err)
	}

	entries, err := os.ReadDir(cfg.UploadDir)
	if err != nil {
		log.Fatal("read upload dir:", err)
	}

	repo := repository.NewVideoRepository(db)
	ctx := context.Background()
	seeded := 0

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		ext := strings.ToLower(filepath.Ext(name))
		if ext != ".mp4" && ext != ".webm" {
			continue
		}

		var count int64
		db.Model(&domain.Video{}).Where("storage_name = ?", name).Count(&count)
		if count > 0 {
			continue
		}

		title := strings.TrimSuffix(name, ext)
		if err := repo.Create(ctx, &domain.Video{Title: title, StorageName: name}); err != nil {
			log.Printf("skip %s: %v", name, err)
			continue
		}
		seeded++
	}

	log.Printf("seeded %d video(s)", seeded)
}
