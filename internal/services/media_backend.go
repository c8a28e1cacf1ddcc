package services

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"tripcraft/pkg/utils"
)

const maxImageBytes = 10 << 20

type PhotoKind string

const (
	PhotoKindActivity   PhotoKind = "activity"
	PhotoKindRestaurant PhotoKind = "restaurant"
)

// ParsePhotoKind defaults anything unknown to activity.
func ParsePhotoKind(s string) PhotoKind {
	if strings.EqualFold(strings.TrimSpace(s), string(PhotoKindRestaurant)) {
		return PhotoKindRestaurant
	}
	return PhotoKindActivity
}

type PhotoQuery struct {
	Query     string
	Title     string
	Location  string
	Kind      PhotoKind
	MaxWidth  int
	MaxHeight int
}

type MapRequest struct {
	Location string `form:"location" json:"location"`
	Title    string `form:"title" json:"title"`
	Width    int    `form:"width" json:"width"`
	Height   int    `form:"height" json:"height"`
	Zoom     int    `form:"zoom" json:"zoom"`
	Style    string `form:"style" json:"style"`
	Marker   bool   `form:"marker" json:"marker"`
}

// MediaEnvelope is the JSON answer of the media backend when it does not stream bytes.
type MediaEnvelope struct {
	Success     bool   `json:"success"`
	PhotoURL    string `json:"photoUrl,omitempty"`
	FallbackURL string `json:"fallbackUrl,omitempty"`
	Error       string `json:"error,omitempty"`
}

// MediaResult holds either image bytes or an envelope, never both.
type MediaResult struct {
	Bytes       []byte
	ContentType string
	Envelope    *MediaEnvelope
}

type MediaBackendInterface interface {
	FetchPhoto(ctx context.Context, q PhotoQuery) (MediaResult, error)
	FetchMap(ctx context.Context, req MapRequest) (MediaResult, error)
}

type HTTPMediaBackend struct {
	HTTP    *http.Client
	BaseURL string
	APIKey  string
	limiter *rate.Limiter
}

// NewHTTPMediaBackend throttles outgoing calls to perSecond with the given burst. A
// non-positive rate disables throttling.
func NewHTTPMediaBackend(baseURL, apiKey string, timeout time.Duration, perSecond float64, burst int) *HTTPMediaBackend {
	limit := rate.Inf
	if perSecond > 0 {
		limit = rate.Limit(perSecond)
	}
	if burst < 1 {
		burst = 1
	}
	return &HTTPMediaBackend{
		HTTP:    &http.Client{Timeout: timeout},
		BaseURL: strings.TrimRight(baseURL, "/"),
		APIKey:  apiKey,
		limiter: rate.NewLimiter(limit, burst),
	}
}

func (c *HTTPMediaBackend) FetchPhoto(ctx context.Context, q PhotoQuery) (MediaResult, error) {
	v := url.Values{}
	v.Set("query", q.Query)
	v.Set("title", q.Title)
	v.Set("location", q.Location)
	v.Set("kind", string(q.Kind))
	if q.MaxWidth > 0 {
		v.Set("maxWidth", strconv.Itoa(q.MaxWidth))
	}
	if q.MaxHeight > 0 {
		v.Set("maxHeight", strconv.Itoa(q.MaxHeight))
	}
	return c.get(ctx, "/place-photo", v)
}

func (c *HTTPMediaBackend) FetchMap(ctx context.Context, req MapRequest) (MediaResult, error) {
	v := url.Values{}
	v.Set("location", req.Location)
	v.Set("title", req.Title)
	v.Set("width", strconv.Itoa(req.Width))
	v.Set("height", strconv.Itoa(req.Height))
	v.Set("zoom", strconv.Itoa(req.Zoom))
	v.Set("style", req.Style)
	v.Set("marker", strconv.FormatBool(req.Marker))
	return c.get(ctx, "/static-map", v)
}

func (c *HTTPMediaBackend) get(ctx context.Context, path string, q url.Values) (MediaResult, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return MediaResult{}, fmt.Errorf("media backend throttled: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.BaseURL+path+"?"+q.Encode(), nil)
	if err != nil {
		return MediaResult{}, fmt.Errorf("media backend request: %w", err)
	}
	req.Header.Set("X-Api-Key", c.APIKey)
	req.Header.Set("Accept", "image/*, application/json")

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return MediaResult{}, fmt.Errorf("media backend http error: %w", err)
	}
	defer resp.Body.Close()

	mediaType, _, _ := mime.ParseMediaType(resp.Header.Get("Content-Type"))
	switch {
	case mediaType == "application/json":
		var env MediaEnvelope
		if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
			return MediaResult{}, fmt.Errorf("media backend decode: %w", err)
		}
		return MediaResult{Envelope: &env}, nil
	case resp.StatusCode/100 != 2:
		return MediaResult{}, fmt.Errorf("media backend bad status %s: %w", resp.Status, utils.ErrMediaBackend)
	case strings.HasPrefix(mediaType, "image/"):
		body, err := io.ReadAll(io.LimitReader(resp.Body, maxImageBytes))
		if err != nil {
			return MediaResult{}, fmt.Errorf("media backend read: %w", err)
		}
		if len(body) == 0 {
			return MediaResult{}, fmt.Errorf("media backend empty image: %w", utils.ErrMediaBackend)
		}
		return MediaResult{Bytes: body, ContentType: mediaType}, nil
	default:
		return MediaResult{}, fmt.Errorf("media backend unexpected content type %q: %w", mediaType, utils.ErrMediaBackend)
	}
}
