package e2e

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"clipfeed/internal/database"
	"clipfeed/internal/domain"
	"clipfeed/internal/middleware"
	"clipfeed/internal/modules/feed"
	"clipfeed/internal/modules/ingest"
	"clipfeed/internal/modules/like"
	"clipfeed/internal/modules/stats"
	"clipfeed/internal/repository"
	"clipfeed/pkg/feedclient"
)

const (
	staticBase   = "/uploads"
	maxUploadLen = 1 << 20 // 1 MiB ceiling keeps oversize fixtures cheap
)

func setupServer(t *testing.T) *httptest.Server {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := database.Connect(":memory:")
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, db.AutoMigrate(&domain.Video{}))

	uploadDir := t.TempDir()
	allowed := map[string]bool{"video/mp4": true, "video/webm": true}

	videoRepo := repository.NewVideoRepository(db)
	hub := stats.NewHub()

	feedHandler := feed.NewHandler(feed.NewService(videoRepo, staticBase))
	ingestHandler := ingest.NewHandler(
		ingest.NewService(videoRepo, uploadDir, maxUploadLen, allowed),
		staticBase, hub)
	likeHandler := like.NewHandler(like.NewService(videoRepo), hub)

	r := gin.New()
	r.Use(gin.Recovery(), middleware.ErrorLogger())

	api := r.Group("/api")
	feedHandler.RegisterRoutes(api)
	ingestHandler.RegisterRoutes(api)
	likeHandler.RegisterRoutes(api)
	api.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})
	api.GET("/events", func(c *gin.Context) {
		_ = hub.ServeWS(c.Writer, c.Request)
	})
	r.Static(staticBase, uploadDir)

	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return srv
}

func uploadClip(t *testing.T, client *feedclient.Client, title string) *feedclient.Video {
	t.Helper()
	video, err := client.Upload(context.Background(), title, title+".mp4",
		"video/mp4", strings.NewReader("fake "+title+" bytes"))
	require.NoError(t, err)
	return video
}

func TestHealth(t *testing.T) {
	srv := setupServer(t)

	resp, err := http.Get(srv.URL + "/api/health")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body map[string]bool
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.True(t, body["ok"])
}

func TestUploadFeedLikeLifecycle(t *testing.T) {
	srv := setupServer(t)
	client := feedclient.New(srv.URL)

	var uploaded []*feedclient.Video
	for i := 1; i <= 7; i++ {
		uploaded = append(uploaded, uploadClip(t, client, fmt.Sprintf("clip-%d", i)))
	}

	// Fresh upload starts with zero likes and a playable URL.
	last := uploaded[6]
	assert.Equal(t, int64(0), last.Likes)
	resp, err := http.Get(srv.URL + last.URL)
	require.NoError(t, err)
	data, err := io.ReadAll(resp.Body)
	resp.Body.Close()
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "fake clip-7 bytes", string(data))

	// Walk the feed through the session state machine.
	session := feedclient.NewSession(client.GetPage, 5)
	fetched, err := session.LoadMore(context.Background())
	require.NoError(t, err)
	require.True(t, fetched)
	require.Equal(t, feedclient.StateIdle, session.State())
	require.Len(t, session.Videos(), 5)

	_, err = session.LoadMore(context.Background())
	require.NoError(t, err)
	require.Equal(t, feedclient.StateExhausted, session.State())

	videos := session.Videos()
	require.Len(t, videos, 7)
	assert.Equal(t, "clip-7", videos[0].Title, "feed is newest-first")
	for i := 1; i < len(videos); i++ {
		assert.Less(t, videos[i].ID, videos[i-1].ID)
	}

	// Likes accumulate, every call counts.
	likes, err := client.Like(context.Background(), last.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), likes)
	likes, err = client.Like(context.Background(), last.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), likes)

	// Unknown id is a clean 404.
	_, err = client.Like(context.Background(), 99999)
	var apiErr *feedclient.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusNotFound, apiErr.Status)

	// Non-integer id is a 400.
	resp, err = http.Post(srv.URL+"/api/videos/abc/like", "application/json", nil)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestUploadRejections(t *testing.T) {
	srv := setupServer(t)
	client := feedclient.New(srv.URL)
	var apiErr *feedclient.APIError

	// Missing title.
	_, err := client.Upload(context.Background(), "   ", "clip.mp4",
		"video/mp4", strings.NewReader("x"))
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusBadRequest, apiErr.Status)

	// Wrong MIME type, extension notwithstanding.
	_, err = client.Upload(context.Background(), "texty", "clip.mp4",
		"text/plain", strings.NewReader("not a video"))
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusUnsupportedMediaType, apiErr.Status)

	// Over the size ceiling.
	_, err = client.Upload(context.Background(), "huge", "huge.mp4",
		"video/mp4", bytes.NewReader(make([]byte, maxUploadLen+1)))
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusRequestEntityTooLarge, apiErr.Status)

	// None of the rejects left a record behind.
	page, err := client.GetPage(context.Background(), nil, 20)
	require.NoError(t, err)
	assert.Empty(t, page.Videos)
	assert.Nil(t, page.NextCursor)
}

func TestMissingFileField(t *testing.T) {
	srv := setupServer(t)

	var buf bytes.Buffer
	body := `--x
Content-Disposition: form-data; name="title"

only a title
--x--
`
	buf.WriteString(strings.ReplaceAll(body, "\n", "\r\n"))

	req, err := http.NewRequest(http.MethodPost, srv.URL+"/api/upload", &buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", `multipart/form-data; boundary=x`)

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)

	var out map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	assert.Equal(t, "file required", out["error"])
}

func TestFeedLimitFallsBackOnGarbage(t *testing.T) {
	srv := setupServer(t)
	client := feedclient.New(srv.URL)

	for i := 1; i <= 7; i++ {
		uploadClip(t, client, fmt.Sprintf("clip-%d", i))
	}

	resp, err := http.Get(srv.URL + "/api/videos?limit=abc")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var page feedclient.Page
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&page))
	assert.Len(t, page.Videos, 5, "non-numeric limit falls back to the default")
}

func TestLiveEventsBroadcast(t *testing.T) {
	srv := setupServer(t)
	client := feedclient.New(srv.URL)

	video := uploadClip(t, client, "watched")

	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http") + "/api/events"
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	defer conn.Close()

	// Give the server a moment to register the connection.
	time.Sleep(200 * time.Millisecond)

	_, err = client.Like(context.Background(), video.ID)
	require.NoError(t, err)

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, msg, err := conn.ReadMessage()
	require.NoError(t, err)

	var event struct {
		Type    string `json:"type"`
		Payload struct {
			ID    int64 `json:"id"`
			Likes int64 `json:"likes"`
		} `json:"payload"`
	}
	require.NoError(t, json.Unmarshal(msg, &event))
	assert.Equal(t, "video_liked", event.Type)
	assert.Equal(t, video.ID, event.Payload.ID)
	assert.Equal(t, int64(1), event.Payload.Likes)
}
