package services

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"strings"
	"time"

	"github.com/disintegration/imaging"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	mem "tripcraft/pkg/memcache"
)

type MediaServiceInterface interface {
	PhotoFor(ctx context.Context, subject, location string, kind PhotoKind) string
	MapFor(ctx context.Context, req MapRequest) string
}

// MediaService resolves photos and map images to URLs. Every path ends in some URL: a
// backend failure lands on the fallback library image and is cached like a success.
type MediaService struct {
	backend   MediaBackendInterface
	cache     mem.URLCache
	library   *FallbackContentLibrary
	logger    *zap.Logger
	group     singleflight.Group
	ttl       time.Duration
	timeout   time.Duration
	maxWidth  int
	maxHeight int
}

type MediaServiceOptions struct {
	CacheTTL time.Duration
	// LookupTimeout bounds one shared backend lookup. Zero leaves it unbounded.
	LookupTimeout time.Duration
	MaxWidth      int
	MaxHeight     int
}

// NewMediaService treats a nil backend as "no credential configured".
func NewMediaService(
	backend MediaBackendInterface,
	cache mem.URLCache,
	library *FallbackContentLibrary,
	logger *zap.Logger,
	opts MediaServiceOptions,
) *MediaService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &MediaService{
		backend:   backend,
		cache:     cache,
		library:   library,
		logger:    logger,
		ttl:       opts.CacheTTL,
		timeout:   opts.LookupTimeout,
		maxWidth:  opts.MaxWidth,
		maxHeight: opts.MaxHeight,
	}
}

func (s *MediaService) PhotoFor(ctx context.Context, subject, location string, kind PhotoKind) string {
	if s.backend == nil {
		return s.library.ImageFor(subject, location)
	}
	key := strings.Join([]string{"photo", string(kind), normalizeKey(subject), normalizeKey(location)}, "|")
	return s.resolve(ctx, key, s.library.ImageFor(subject, location), func(ctx context.Context) string {
		return s.lookupPhoto(ctx, subject, location, kind)
	})
}

func (s *MediaService) MapFor(ctx context.Context, req MapRequest) string {
	if s.backend == nil {
		return s.library.ImageFor("", req.Location)
	}
	key := fmt.Sprintf("map|%s|%s|%dx%d|%d|%s|%t",
		normalizeKey(req.Location), normalizeKey(req.Title), req.Width, req.Height, req.Zoom, req.Style, req.Marker)
	fallback := s.library.ImageFor("", req.Location)
	return s.resolve(ctx, key, fallback, func(ctx context.Context) string {
		res, err := s.backend.FetchMap(ctx, req)
		if err != nil {
			s.logger.Warn("map lookup failed", zap.String("location", req.Location), zap.Error(err))
			return fallback
		}
		url, _, ok := s.fromResult(res)
		if ok {
			return url
		}
		if res.Envelope != nil && res.Envelope.FallbackURL != "" {
			return res.Envelope.FallbackURL
		}
		return fallback
	})
}

// resolve serves from cache, otherwise runs lookup once per key however many callers are
// waiting, then caches whatever came back. The shared lookup is detached from the caller
// that started it, so one caller going away does not fail the others; that caller gets
// fallback right away. A lookup that ran out of time is returned but not cached.
func (s *MediaService) resolve(ctx context.Context, key, fallback string, lookup func(context.Context) string) string {
	if url, ok := s.cache.Get(ctx, key); ok {
		return url
	}
	ch := s.group.DoChan(key, func() (interface{}, error) {
		lookupCtx := context.WithoutCancel(ctx)
		if s.timeout > 0 {
			var cancel context.CancelFunc
			lookupCtx, cancel = context.WithTimeout(lookupCtx, s.timeout)
			defer cancel()
		}
		if url, ok := s.cache.Get(lookupCtx, key); ok {
			return url, nil
		}
		url := lookup(lookupCtx)
		if lookupCtx.Err() != nil {
			s.logger.Warn("media lookup timed out, result not cached", zap.String("key", key))
			return url, nil
		}
		if err := s.cache.Set(lookupCtx, key, url, s.ttl); err != nil {
			s.logger.Warn("photo cache write failed", zap.String("key", key), zap.Error(err))
		}
		return url, nil
	})

	select {
	case res := <-ch:
		return res.Val.(string)
	case <-ctx.Done():
		return fallback
	}
}

// lookupPhoto walks the candidate queries in order and stops at the first real photo. A
// transport error ends the walk.
func (s *MediaService) lookupPhoto(ctx context.Context, subject, location string, kind PhotoKind) string {
	fallback := ""
	for _, query := range candidateQueries(subject, location) {
		res, err := s.backend.FetchPhoto(ctx, PhotoQuery{
			Query:     query,
			Title:     subject,
			Location:  location,
			Kind:      kind,
			MaxWidth:  s.maxWidth,
			MaxHeight: s.maxHeight,
		})
		if err != nil {
			s.logger.Warn("photo lookup failed",
				zap.String("query", query),
				zap.String("kind", string(kind)),
				zap.Error(err))
			break
		}
		url, envFallback, ok := s.fromResult(res)
		if ok {
			return url
		}
		if fallback == "" {
			fallback = envFallback
		}
	}
	if fallback != "" {
		return fallback
	}
	return s.library.ImageFor(subject, location)
}

// fromResult returns the usable URL of a backend answer, or the envelope's fallback URL.
func (s *MediaService) fromResult(res MediaResult) (string, string, bool) {
	if len(res.Bytes) > 0 {
		return s.dataURL(res.Bytes, res.ContentType), "", true
	}
	if res.Envelope == nil {
		return "", "", false
	}
	if res.Envelope.Success && res.Envelope.PhotoURL != "" {
		return res.Envelope.PhotoURL, "", true
	}
	return "", res.Envelope.FallbackURL, false
}

// dataURL inlines image bytes, downscaling to the configured bounds first when the image
// is larger. Bytes that do not decode are inlined as received.
func (s *MediaService) dataURL(raw []byte, contentType string) string {
	if contentType == "" {
		contentType = "image/jpeg"
	}
	if s.maxWidth > 0 && s.maxHeight > 0 {
		if img, err := imaging.Decode(bytes.NewReader(raw)); err == nil {
			b := img.Bounds()
			if b.Dx() > s.maxWidth || b.Dy() > s.maxHeight {
				var buf bytes.Buffer
				fitted := imaging.Fit(img, s.maxWidth, s.maxHeight, imaging.Lanczos)
				if err := imaging.Encode(&buf, fitted, imaging.JPEG, imaging.JPEGQuality(85)); err == nil {
					raw, contentType = buf.Bytes(), "image/jpeg"
				}
			}
		}
	}
	return "data:" + contentType + ";base64," + base64.StdEncoding.EncodeToString(raw)
}

// candidateQueries is subject+location, subject, location with blanks and repeats dropped.
func candidateQueries(subject, location string) []string {
	subject, location = strings.TrimSpace(subject), strings.TrimSpace(location)
	var out []string
	seen := map[string]bool{}
	for _, q := range []string{strings.TrimSpace(subject + " " + location), subject, location} {
		k := strings.ToLower(q)
		if q == "" || seen[k] {
			continue
		}
		seen[k] = true
		out = append(out, q)
	}
	return out
}

func normalizeKey(s string) string {
	return strings.ToLower(strings.Join(strings.Fields(s), " "))
}
