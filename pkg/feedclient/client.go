// Package feedclient consumes the feed wire protocol: cursor-based page
// fetches, multipart uploads, likes, plus the session state machine and
// autoplay policy a playback UI needs on top of them.
package feedclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
	"strconv"
	"strings"
	"time"
)

type Video struct {
	ID        int64     `json:"id"`
	Title     string    `json:"title"`
	URL       string    `json:"url"`
	Likes     int64     `json:"likes"`
	CreatedAt time.Time `json:"created_at"`
}

type Page struct {
	Videos     []Video `json:"videos"`
	NextCursor *int64  `json:"nextCursor"`
}

// APIError is a non-2xx response decoded into its {error} body.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error: status=%d message=%q", e.Status, e.Message)
}

type Client struct {
	baseURL string
	hc      *http.Client
}

func New(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		hc:      &http.Client{Timeout: 30 * time.Second},
	}
}

// GetPage fetches one feed page. A nil cursor starts from the head.
func (c *Client) GetPage(ctx context.Context, cursor *int64, limit int) (*Page, error) {
	q := url.Values{}
	q.Set("limit", strconv.Itoa(limit))
	if cursor != nil {
		q.Set("cursor", strconv.FormatInt(*cursor, 10))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		c.baseURL+"/api/videos?"+q.Encode(), nil)
	if err != nil {
		return nil, err
	}

	var page Page
	if err := c.do(req, http.StatusOK, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

// Like increments the counter for id and returns the fresh count.
func (c *Client) Like(ctx context.Context, id int64) (int64, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		fmt.Sprintf("%s/api/videos/%d/like", c.baseURL, id), nil)
	if err != nil {
		return 0, err
	}

	var out struct {
		Likes int64 `json:"likes"`
	}
	if err := c.do(req, http.StatusOK, &out); err != nil {
		return 0, err
	}
	return out.Likes, nil
}

// Upload submits a clip and returns the freshly registered card.
func (c *Client) Upload(ctx context.Context, title, filename, contentType string, body io.Reader) (*Video, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	if err := mw.WriteField("title", title); err != nil {
		return nil, err
	}

	header := textproto.MIMEHeader{}
	header.Set("Content-Disposition",
		fmt.Sprintf(`form-data; name="video"; filename=%q`, filename))
	header.Set("Content-Type", contentType)
	part, err := mw.CreatePart(header)
	if err != nil {
		return nil, err
	}
	if _, err := io.Copy(part, body); err != nil {
		return nil, err
	}
	if err := mw.Close(); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+"/api/upload", &buf)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	var video Video
	if err := c.do(req, http.StatusCreated, &video); err != nil {
		return nil, err
	}
	return &video, nil
}

func (c *Client) do(req *http.Request, wantStatus int, out interface{}) error {
	resp, err := c.hc.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != wantStatus {
		var body struct {
			Error string `json:"error"`
		}
		_ = json.NewDecoder(resp.Body).Decode(&body)
		return &APIError{Status: resp.StatusCode, Message: body.Error}
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
