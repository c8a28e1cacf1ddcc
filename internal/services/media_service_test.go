package services

import (
	"bytes"
	"context"
	"encoding/json"
	"image/color"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/disintegration/imaging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	mem "tripcraft/pkg/memcache"
)

type mediaFixture struct {
	server  *httptest.Server
	calls   atomic.Int32
	queries chan string
	service *MediaService
	cache   *mem.LocalURLCache
}

func newMediaFixture(t *testing.T, handler func(w http.ResponseWriter, r *http.Request)) *mediaFixture {
	t.Helper()
	f := &mediaFixture{queries: make(chan string, 32)}
	f.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		f.calls.Add(1)
		if r.Header.Get("X-Api-Key") != "secret" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		select {
		case f.queries <- r.URL.Query().Get("query"):
		default:
		}
		handler(w, r)
	}))
	t.Cleanup(f.server.Close)

	f.cache = mem.NewLocalURLCache(0)
	t.Cleanup(f.cache.Stop)
	backend := NewHTTPMediaBackend(f.server.URL, "secret", 5*time.Second, 0, 1)
	f.service = NewMediaService(backend, f.cache, NewFallbackContentLibrary(fixedRand(0)), zap.NewNop(), MediaServiceOptions{
		CacheTTL:  time.Hour,
		MaxWidth:  64,
		MaxHeight: 64,
	})
	return f
}

func writeEnvelope(w http.ResponseWriter, env MediaEnvelope) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	_ = json.NewEncoder(w).Encode(env)
}

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, imaging.Encode(&buf, imaging.New(w, h, color.NRGBA{R: 200, A: 255}), imaging.PNG))
	return buf.Bytes()
}

func TestPhotoForCachesAcrossCalls(t *testing.T) {
	f := newMediaFixture(t, func(w http.ResponseWriter, r *http.Request) {
		writeEnvelope(w, MediaEnvelope{Success: true, PhotoURL: "https://photos.example/louvre.jpg"})
	})
	ctx := context.Background()

	first := f.service.PhotoFor(ctx, "Louvre Museum", "Paris, France", PhotoKindActivity)
	second := f.service.PhotoFor(ctx, "Louvre Museum", "Paris, France", PhotoKindActivity)

	assert.Equal(t, "https://photos.example/louvre.jpg", first)
	assert.Equal(t, first, second)
	assert.EqualValues(t, 1, f.calls.Load())
	assert.Equal(t, "Louvre Museum Paris, France", <-f.queries)
}

func TestPhotoForDeduplicatesConcurrentLookups(t *testing.T) {
	release := make(chan struct{})
	f := newMediaFixture(t, func(w http.ResponseWriter, r *http.Request) {
		<-release
		writeEnvelope(w, MediaEnvelope{Success: true, PhotoURL: "https://photos.example/x.jpg"})
	})

	var wg sync.WaitGroup
	results := make([]string, 8)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i] = f.service.PhotoFor(context.Background(), "Sushi Dai", "Tokyo", PhotoKindRestaurant)
		}(i)
	}
	time.Sleep(50 * time.Millisecond)
	close(release)
	wg.Wait()

	assert.EqualValues(t, 1, f.calls.Load())
	for _, r := range results {
		assert.Equal(t, "https://photos.example/x.jpg", r)
	}
}

func TestPhotoForWalksCandidateQueries(t *testing.T) {
	f := newMediaFixture(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("query") == "Paris, France" {
			writeEnvelope(w, MediaEnvelope{Success: true, PhotoURL: "https://photos.example/paris.jpg"})
			return
		}
		writeEnvelope(w, MediaEnvelope{Success: false, Error: "no candidates"})
	})

	got := f.service.PhotoFor(context.Background(), "Tiny bakery", "Paris, France", PhotoKindRestaurant)

	assert.Equal(t, "https://photos.example/paris.jpg", got)
	assert.EqualValues(t, 3, f.calls.Load())
	assert.Equal(t, "Tiny bakery Paris, France", <-f.queries)
	assert.Equal(t, "Tiny bakery", <-f.queries)
	assert.Equal(t, "Paris, France", <-f.queries)
}

func TestPhotoForUsesEnvelopeFallbackURL(t *testing.T) {
	f := newMediaFixture(t, func(w http.ResponseWriter, r *http.Request) {
		writeEnvelope(w, MediaEnvelope{Success: false, FallbackURL: "https://photos.example/generic.jpg", Error: "quota"})
	})

	got := f.service.PhotoFor(context.Background(), "Louvre", "", PhotoKindActivity)
	assert.Equal(t, "https://photos.example/generic.jpg", got)
	assert.EqualValues(t, 1, f.calls.Load())
}

func TestPhotoForWrapsImageBytes(t *testing.T) {
	small := pngBytes(t, 16, 16)
	large := pngBytes(t, 400, 200)

	t.Run("small image kept as is", func(t *testing.T) {
		f := newMediaFixture(t, func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "image/png")
			_, _ = w.Write(small)
		})
		got := f.service.PhotoFor(context.Background(), "Park", "Rome", PhotoKindActivity)
		assert.True(t, strings.HasPrefix(got, "data:image/png;base64,"), got[:32])
	})

	t.Run("large image downscaled", func(t *testing.T) {
		f := newMediaFixture(t, func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "image/png")
			_, _ = w.Write(large)
		})
		got := f.service.PhotoFor(context.Background(), "Park", "Rome", PhotoKindActivity)
		assert.True(t, strings.HasPrefix(got, "data:image/jpeg;base64,"), got[:32])
	})
}

func TestPhotoForFallsBackToLibrary(t *testing.T) {
	lib := NewFallbackContentLibrary(fixedRand(0))
	want := lib.ImageFor("Louvre Museum", "Paris, France")

	t.Run("unexpected content type", func(t *testing.T) {
		f := newMediaFixture(t, func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "text/html")
			_, _ = w.Write([]byte("<html>oops</html>"))
		})
		got := f.service.PhotoFor(context.Background(), "Louvre Museum", "Paris, France", PhotoKindActivity)
		assert.Equal(t, want, got)
		assert.EqualValues(t, 1, f.calls.Load())

		// the fallback is cached too
		f.service.PhotoFor(context.Background(), "Louvre Museum", "Paris, France", PhotoKindActivity)
		assert.EqualValues(t, 1, f.calls.Load())
	})

	t.Run("server error", func(t *testing.T) {
		f := newMediaFixture(t, func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "boom", http.StatusInternalServerError)
		})
		assert.Equal(t, want, f.service.PhotoFor(context.Background(), "Louvre Museum", "Paris, France", PhotoKindActivity))
	})

	t.Run("no credential", func(t *testing.T) {
		svc := NewMediaService(nil, mem.NewLocalURLCache(0), lib, nil, MediaServiceOptions{})
		assert.Equal(t, want, svc.PhotoFor(context.Background(), "Louvre Museum", "Paris, France", PhotoKindActivity))
	})
}

func TestMapFor(t *testing.T) {
	var gotQuery atomic.Value
	f := newMediaFixture(t, func(w http.ResponseWriter, r *http.Request) {
		gotQuery.Store(r.URL.RawQuery)
		writeEnvelope(w, MediaEnvelope{Success: true, PhotoURL: "https://maps.example/paris.png"})
	})
	req := MapRequest{Location: "Paris, France", Title: "Louvre", Width: 600, Height: 300, Zoom: 14, Style: "streets", Marker: true}

	assert.Equal(t, "https://maps.example/paris.png", f.service.MapFor(context.Background(), req))
	assert.Equal(t, "https://maps.example/paris.png", f.service.MapFor(context.Background(), req))
	assert.EqualValues(t, 1, f.calls.Load())
	assert.Contains(t, gotQuery.Load(), "marker=true")
	assert.Contains(t, gotQuery.Load(), "zoom=14")
}

func TestCandidateQueries(t *testing.T) {
	assert.Equal(t, []string{"Louvre Paris", "Louvre", "Paris"}, candidateQueries("Louvre", "Paris"))
	assert.Equal(t, []string{"Louvre"}, candidateQueries("Louvre", ""))
	assert.Equal(t, []string{"Paris"}, candidateQueries(" ", "Paris"))
	assert.Empty(t, candidateQueries("", ""))
}

func TestPhotoForLookupOutlivesCancelledCaller(t *testing.T) {
	release := make(chan struct{})
	f := newMediaFixture(t, func(w http.ResponseWriter, r *http.Request) {
		<-release
		writeEnvelope(w, MediaEnvelope{Success: true, PhotoURL: "https://photos.example/colosseum.jpg"})
	})
	lib := NewFallbackContentLibrary(fixedRand(0))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	got := f.service.PhotoFor(ctx, "Colosseum", "Rome, Italy", PhotoKindActivity)
	assert.Equal(t, lib.ImageFor("Colosseum", "Rome, Italy"), got)

	close(release)
	assert.Equal(t, "https://photos.example/colosseum.jpg",
		f.service.PhotoFor(context.Background(), "Colosseum", "Rome, Italy", PhotoKindActivity))
	assert.Equal(t, "https://photos.example/colosseum.jpg",
		f.service.PhotoFor(context.Background(), "Colosseum", "Rome, Italy", PhotoKindActivity))
	assert.EqualValues(t, 1, f.calls.Load())
}

func TestPhotoForDoesNotCacheTimedOutLookups(t *testing.T) {
	var slow atomic.Bool
	slow.Store(true)
	f := newMediaFixture(t, func(w http.ResponseWriter, r *http.Request) {
		if slow.Load() {
			time.Sleep(200 * time.Millisecond)
		}
		writeEnvelope(w, MediaEnvelope{Success: true, PhotoURL: "https://photos.example/tower.jpg"})
	})
	lib := NewFallbackContentLibrary(fixedRand(0))
	svc := NewMediaService(NewHTTPMediaBackend(f.server.URL, "secret", 5*time.Second, 0, 1), f.cache, lib, zap.NewNop(), MediaServiceOptions{
		CacheTTL:      time.Hour,
		LookupTimeout: 20 * time.Millisecond,
	})

	got := svc.PhotoFor(context.Background(), "Tower Bridge", "London", PhotoKindActivity)
	assert.Equal(t, lib.ImageFor("Tower Bridge", "London"), got)

	slow.Store(false)
	got = svc.PhotoFor(context.Background(), "Tower Bridge", "London", PhotoKindActivity)
	assert.Equal(t, "https://photos.example/tower.jpg", got)
}
