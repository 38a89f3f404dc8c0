package main

import (
	"log"
	"net/http"
	"os"

	"github.com/gin-gonic/gin"

	"clipfeed/internal/config"
	"clipfeed/internal/database"
	"clipfeed/internal/domain"
	"clipfeed/internal/metrics"
	"clipfeed/internal/middleware"
	"clipfeed/internal/modules/feed"
	"clipfeed/internal/modules/ingest"
	"clipfeed/internal/modules/like"
	"clipfeed/internal/modules/stats"
	"clipfeed/internal/repository"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatal(err)
	}
	if err := db.AutoMigrate(&domain.Video{}); err != nil {
		log.Fatal(err)
	}
	if err := os.MkdirAll(cfg.UploadDir, 0o755); err != nil {
		log.Fatal(err)
	}

	videoRepo := repository.NewVideoRepository(db)
	hub := stats.NewHub()

	feedService := feed.NewService(videoRepo, cfg.StaticBase)
	feedHandler := feed.NewHandler(feedService)

	ingestService := ingest.NewService(videoRepo, cfg.UploadDir, cfg.MaxUploadBytes, cfg.AllowedTypes)
	ingestHandler := ingest.NewHandler(ingestService, cfg.StaticBase, hub)

	likeService := like.NewService(videoRepo)
	likeHandler := like.NewHandler(likeService, hub)

	r := gin.New()
	r.Use(gin.Recovery(), middleware.ErrorLogger(), middleware.CORS())
	r.MaxMultipartMemory = 8 << 20

	api := r.Group("/api")
	{
		feedHandler.RegisterRoutes(api)
		ingestHandler.RegisterRoutes(api)
		likeHandler.RegisterRoutes(api)

		api.GET("/health", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"ok": true})
		})
		api.GET("/events", func(c *gin.Context) {
			if err := hub.ServeWS(c.Writer, c.Request); err != nil {
				_ = c.Error(err)
			}
		})
	}

	r.GET("/metrics", gin.WrapH(metrics.Handler()))
	r.Static(cfg.StaticBase, cfg.UploadDir)

	log.Printf("clipfeed listening on :%s", cfg.Port)
	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatal(err)
	}
}
