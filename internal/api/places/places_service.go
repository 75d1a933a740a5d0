// Package places looks up locations by free text through Nominatim.
package places

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/FACorreiaa/go-trip-images/app/observability/metrics"
	"github.com/FACorreiaa/go-trip-images/internal/types"
)

const (
	DefaultBaseURL   = "https://nominatim.openstreetmap.org"
	DefaultUserAgent = "TripImages/1.0"
	resultLimit      = 5
	minQueryLength   = 2
	cleanupInterval  = 10 * time.Minute
)

var _ Service = (*ServiceImpl)(nil)

type Service interface {
	Search(ctx context.Context, query string) ([]types.Place, error)
}

type ServiceImpl struct {
	logger    *slog.Logger
	client    *http.Client
	baseURL   string
	userAgent string
	results   *gocache.Cache
	metrics   *metrics.AppMetrics
}

func NewServiceImpl(client *http.Client, baseURL, userAgent string, ttl time.Duration, logger *slog.Logger, m *metrics.AppMetrics) *ServiceImpl {
	if client == nil {
		client = http.DefaultClient
	}
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if userAgent == "" {
		userAgent = DefaultUserAgent
	}
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &ServiceImpl{
		logger:    logger.With(slog.String("component", "places")),
		client:    client,
		baseURL:   strings.TrimRight(baseURL, "/"),
		userAgent: userAgent,
		results:   gocache.New(ttl, cleanupInterval),
		metrics:   m,
	}
}

// Search returns up to five matches for query. Very short queries return no
// matches without calling upstream.
func (s *ServiceImpl) Search(ctx context.Context, query string) ([]types.Place, error) {
	query = strings.TrimSpace(query)
	ctx, span := otel.Tracer("PlacesService").Start(ctx, "Search", trace.WithAttributes(
		attribute.String("places.query", query),
	))
	defer span.End()

	if len([]rune(query)) < minQueryLength {
		return []types.Place{}, nil
	}

	key := strings.ToLower(query)
	if cached, ok := s.results.Get(key); ok {
		s.record(ctx, "hit")
		return cached.([]types.Place), nil
	}

	places, err := s.fetch(ctx, query)
	if err != nil {
		s.record(ctx, "error")
		s.logger.ErrorContext(ctx, "Place search failed", slog.String("query", query), slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "nominatim request failed")
		return nil, err
	}
	s.record(ctx, "miss")

	s.results.SetDefault(key, places)
	span.SetAttributes(attribute.Int("places.count", len(places)))
	return places, nil
}

func (s *ServiceImpl) fetch(ctx context.Context, query string) ([]types.Place, error) {
	params := url.Values{}
	params.Set("q", query)
	params.Set("format", "json")
	params.Set("addressdetails", "1")
	params.Set("limit", fmt.Sprint(resultLimit))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.baseURL+"/search?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build nominatim request: %w", err)
	}
	req.Header.Set("Accept-Language", "en")
	req.Header.Set("User-Agent", s.userAgent)

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("nominatim request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 256))
		return nil, fmt.Errorf("nominatim returned status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var places []types.Place
	if err = json.NewDecoder(resp.Body).Decode(&places); err != nil {
		return nil, fmt.Errorf("failed to decode nominatim response: %w", err)
	}
	if places == nil {
		places = []types.Place{}
	}
	return places, nil
}

func (s *ServiceImpl) record(ctx context.Context, outcome string) {
	if s.metrics == nil {
		return
	}
	s.metrics.PlaceSearchRequests.Add(ctx, 1, metric.WithAttributes(attribute.String("outcome", outcome)))
}
