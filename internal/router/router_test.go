package router

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/FACorreiaa/go-trip-images/config"
	"github.com/FACorreiaa/go-trip-images/internal/api/imagecache"
	"github.com/FACorreiaa/go-trip-images/internal/api/images"
	"github.com/FACorreiaa/go-trip-images/internal/api/places"
)

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	cache := imagecache.Init(context.Background(), imagecache.NewMemoryStore(nil))

	// No API key: every lookup resolves to a placeholder without touching the network.
	provider := images.NewPexelsProvider(nil, "", "")
	imagesSvc := images.NewServiceImpl(cache, provider, config.DefaultPipelineConfig(), logger)
	placesSvc := places.NewServiceImpl(nil, "", "", time.Minute, logger, nil)

	metricsHandler := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("# metrics"))
	})

	return SetupRouter(&Config{
		ImagesHandler:  images.NewHandlerImpl(imagesSvc, logger),
		PlacesHandler:  places.NewHandlerImpl(placesSvc, logger),
		MetricsHandler: metricsHandler,
	})
}

func TestPing(t *testing.T) {
	rr := httptest.NewRecorder()
	newTestRouter(t).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/ping", nil))

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "pong", rr.Body.String())
}

func TestMetricsMounted(t *testing.T) {
	rr := httptest.NewRecorder()
	newTestRouter(t).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "# metrics", rr.Body.String())
}

func TestImageRoutes(t *testing.T) {
	h := newTestRouter(t)

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/v1/images?name=Paris&category=trip", nil))
	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t,
		`{"name":"Paris","category":"trip","url":"https://placehold.co/800x400/f1f5f9/1e293b?text=Paris"}`,
		rr.Body.String())

	rr = httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/api/v1/images/batch",
		strings.NewReader(`{"names":["A","B"],"category":"hotel"}`)))
	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"category":"hotel","urls":[
		"https://placehold.co/400x300/e0f2fe/1e293b?text=A",
		"https://placehold.co/400x300/e0f2fe/1e293b?text=B"]}`, rr.Body.String())

	rr = httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/v1/images/cache/stats", nil))
	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"entries":0}`, rr.Body.String())
}

func TestUnknownRoute(t *testing.T) {
	rr := httptest.NewRecorder()
	newTestRouter(t).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/v1/nope", nil))

	assert.Equal(t, http.StatusNotFound, rr.Code)
}
