package images

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"github.com/FACorreiaa/go-trip-images/app/observability/metrics"
	"github.com/FACorreiaa/go-trip-images/config"
	"github.com/FACorreiaa/go-trip-images/internal/api/imagecache"
	"github.com/FACorreiaa/go-trip-images/internal/types"
)

const (
	MaxGallerySize  = 30
	galleryHint     = "travel landmark"
	galleryKeyScope = "multi"
)

var _ Service = (*ServiceImpl)(nil)

// Service resolves location names to image URLs. None of its methods fail:
// anything that cannot be resolved comes back as a placeholder.
type Service interface {
	FetchImage(ctx context.Context, name string, opts types.FetchOptions) string
	BatchFetch(ctx context.Context, names []string, category types.ImageCategory) []string
	FetchGallery(ctx context.Context, location string, count int) []string
	EnrichTrip(ctx context.Context, req types.TripImagesRequest) types.TripImagesResponse
	CacheStats(ctx context.Context) types.CacheStatsResponse
}

// fetchResult is the outcome of one provider lookup before placeholder substitution.
type fetchResult struct {
	URL string
	Err error
}

type ServiceImpl struct {
	logger         *slog.Logger
	cache          *imagecache.Cache
	provider       Provider
	pipeline       config.PipelineConfig
	placeholderURL string
	metrics        *metrics.AppMetrics

	// sleep waits between retries and groups; tests replace it.
	sleep func(ctx context.Context, d time.Duration) error
}

type Option func(*ServiceImpl)

func WithMetrics(m *metrics.AppMetrics) Option {
	return func(s *ServiceImpl) {
		if m != nil {
			s.metrics = m
		}
	}
}

func WithPlaceholderBaseURL(baseURL string) Option {
	return func(s *ServiceImpl) {
		if baseURL != "" {
			s.placeholderURL = baseURL
		}
	}
}

func NewServiceImpl(cache *imagecache.Cache, provider Provider, pipeline config.PipelineConfig, logger *slog.Logger, opts ...Option) *ServiceImpl {
	def := config.DefaultPipelineConfig()
	if pipeline.GroupSize <= 0 {
		pipeline.GroupSize = def.GroupSize
	}
	if pipeline.RetryBudget < 0 {
		pipeline.RetryBudget = 0
	}
	if pipeline.InterGroupDelay < 0 {
		pipeline.InterGroupDelay = 0
	}

	s := &ServiceImpl{
		logger:         logger.With(slog.String("component", "images")),
		cache:          cache,
		provider:       provider,
		pipeline:       pipeline,
		placeholderURL: DefaultPlaceholderBaseURL,
		sleep:          sleepContext,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.metrics == nil {
		s.metrics, _ = metrics.NewAppMetrics(noop.NewMeterProvider().Meter("images"))
	}
	return s
}

// CategoryDefaults returns the search hint and orientation used for category.
func CategoryDefaults(category types.ImageCategory) (hint, orientation string) {
	switch types.ParseImageCategory(string(category)) {
	case types.CategoryHotel:
		return "hotel accommodation", types.OrientationLandscape
	case types.CategoryPlace:
		return "landmark attraction", types.OrientationLandscape
	default:
		return "cityscape skyline travel", types.OrientationLandscape
	}
}

// CacheKey is the composite key an image is stored under.
func CacheKey(name, hint, orientation string) string {
	return name + "-" + hint + "-" + orientation
}

func (s *ServiceImpl) FetchImage(ctx context.Context, name string, opts types.FetchOptions) string {
	category := types.ParseImageCategory(string(opts.Category))
	ctx, span := otel.Tracer("ImagesService").Start(ctx, "FetchImage", trace.WithAttributes(
		attribute.String("image.name", name),
		attribute.String("image.category", string(category)),
	))
	defer span.End()

	hint, orientation := CategoryDefaults(category)
	if opts.Query != "" {
		hint = opts.Query
	}
	if opts.Orientation != "" {
		orientation = opts.Orientation
	}
	key := CacheKey(name, hint, orientation)

	if url, ok := s.cache.Get(key); ok {
		s.metrics.ImageCacheHits.Add(ctx, 1)
		span.SetAttributes(attribute.Bool("cache.hit", true))
		return url
	}
	s.metrics.ImageCacheMisses.Add(ctx, 1)
	span.SetAttributes(attribute.Bool("cache.hit", false))

	res := s.resolve(ctx, name, hint, orientation)
	if res.Err != nil {
		span.RecordError(res.Err)
		span.SetStatus(codes.Error, "using placeholder")
		return s.placeholder(ctx, name, category, res.Err)
	}

	s.cache.Set(ctx, key, res.URL)
	span.SetStatus(codes.Ok, "image resolved")
	return res.URL
}

func (s *ServiceImpl) BatchFetch(ctx context.Context, names []string, category types.ImageCategory) []string {
	category = types.ParseImageCategory(string(category))
	batchID := uuid.NewString()
	ctx, span := otel.Tracer("ImagesService").Start(ctx, "BatchFetch", trace.WithAttributes(
		attribute.String("batch.id", batchID),
		attribute.String("image.category", string(category)),
		attribute.Int("batch.size", len(names)),
	))
	defer span.End()

	out := make([]string, len(names))
	if len(names) == 0 {
		return out
	}

	l := s.logger.With(slog.String("batch_id", batchID), slog.String("category", string(category)))
	start := time.Now()
	defer func() {
		s.metrics.BatchDurationSeconds.Record(ctx, time.Since(start).Seconds(),
			metric.WithAttributes(attribute.String("category", string(category))))
	}()

	hint, orientation := CategoryDefaults(category)
	var pending []types.BatchItem
	for i, name := range names {
		if url, ok := s.cache.Get(CacheKey(name, hint, orientation)); ok {
			out[i] = url
			continue
		}
		pending = append(pending, types.BatchItem{OriginalIndex: i, SubjectName: name})
	}

	hits := len(names) - len(pending)
	if hits > 0 {
		s.metrics.ImageCacheHits.Add(ctx, int64(hits))
	}
	if len(pending) == 0 {
		l.DebugContext(ctx, "Batch answered from cache", slog.Int("count", len(names)))
		return out
	}
	s.metrics.ImageCacheMisses.Add(ctx, int64(len(pending)))

	groups := partition(pending, s.pipeline.GroupSize)
	l.InfoContext(ctx, "Fetching uncached images",
		slog.Int("total", len(names)),
		slog.Int("cached", hits),
		slog.Int("groups", len(groups)))

	for gi, group := range groups {
		if gi > 0 && s.pipeline.InterGroupDelay > 0 {
			if err := s.sleep(ctx, s.pipeline.InterGroupDelay); err != nil {
				break
			}
		}
		if ctx.Err() != nil {
			break
		}
		s.runGroup(ctx, l, gi, group, category, hint, orientation, out)
	}

	if err := ctx.Err(); err != nil {
		l.WarnContext(ctx, "Batch interrupted, filling remaining slots with placeholders", slog.Any("error", err))
		span.RecordError(err)
	}
	for _, item := range pending {
		if out[item.OriginalIndex] == "" {
			out[item.OriginalIndex] = s.placeholder(ctx, item.SubjectName, category, ctx.Err())
		}
	}

	span.SetStatus(codes.Ok, "batch completed")
	return out
}

// runGroup fetches one group concurrently and writes its results into out.
// A panic in any fetch fails only the slots it left unresolved.
func (s *ServiceImpl) runGroup(ctx context.Context, l *slog.Logger, index int, group []types.BatchItem,
	category types.ImageCategory, hint, orientation string, out []string) {
	ctx, span := otel.Tracer("ImagesService").Start(ctx, "BatchFetch.group", trace.WithAttributes(
		attribute.Int("group.index", index),
		attribute.Int("group.size", len(group)),
	))
	defer span.End()

	results := make([]fetchResult, len(group))
	var g errgroup.Group
	for i, item := range group {
		g.Go(func() (err error) {
			defer func() {
				if r := recover(); r != nil {
					err = fmt.Errorf("image fetch for %q panicked: %v", item.SubjectName, r)
					results[i] = fetchResult{Err: err}
				}
			}()
			results[i] = s.resolve(ctx, item.SubjectName, hint, orientation)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		l.ErrorContext(ctx, "Image group failed", slog.Int("group", index), slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "group failed")
	}

	for i, item := range group {
		res := results[i]
		if res.Err != nil || res.URL == "" {
			out[item.OriginalIndex] = s.placeholder(ctx, item.SubjectName, category, res.Err)
			continue
		}
		out[item.OriginalIndex] = res.URL
		s.cache.Set(ctx, CacheKey(item.SubjectName, hint, orientation), res.URL)
	}
}

func (s *ServiceImpl) FetchGallery(ctx context.Context, location string, count int) []string {
	count = min(max(count, 1), MaxGallerySize)
	ctx, span := otel.Tracer("ImagesService").Start(ctx, "FetchGallery", trace.WithAttributes(
		attribute.String("gallery.location", location),
		attribute.Int("gallery.count", count),
	))
	defer span.End()

	if strings.TrimSpace(location) == "" {
		return []string{}
	}

	key := fmt.Sprintf("%s-%s-%d", galleryKeyScope, location, count)
	if raw, ok := s.cache.Get(key); ok {
		var urls []string
		if err := json.Unmarshal([]byte(raw), &urls); err == nil {
			s.metrics.ImageCacheHits.Add(ctx, 1)
			return urls
		}
		s.logger.WarnContext(ctx, "Discarding unreadable gallery cache entry", slog.String("key", key))
	}
	s.metrics.ImageCacheMisses.Add(ctx, 1)

	urls, err := s.searchWithRetry(ctx, location+" "+galleryHint, types.OrientationLandscape, count)
	if err != nil {
		s.logger.WarnContext(ctx, "Gallery fetch failed",
			slog.String("location", location),
			slog.Any("error", err))
		span.RecordError(err)
		return []string{}
	}
	if len(urls) > count {
		urls = urls[:count]
	}

	if encoded, err := json.Marshal(urls); err == nil {
		s.cache.Set(ctx, key, string(encoded))
	}
	return urls
}

func (s *ServiceImpl) EnrichTrip(ctx context.Context, req types.TripImagesRequest) types.TripImagesResponse {
	ctx, span := otel.Tracer("ImagesService").Start(ctx, "EnrichTrip", trace.WithAttributes(
		attribute.String("trip.destination", req.Destination),
		attribute.Int("trip.hotels", len(req.Hotels)),
		attribute.Int("trip.places", len(req.Places)),
	))
	defer span.End()

	resp := types.TripImagesResponse{Destination: req.Destination}
	if req.Destination != "" {
		resp.CoverImageURL = s.FetchImage(ctx, req.Destination, types.FetchOptions{Category: types.CategoryTrip})
	}
	resp.Hotels = ProcessItems(ctx, s, req.Hotels,
		func(h types.TripHotel) string { return h.Name },
		types.CategoryHotel,
		func(h types.TripHotel, url string) types.TripHotel {
			h.ImageURL = url
			return h
		})
	resp.Places = ProcessItems(ctx, s, req.Places,
		func(p types.TripPlace) string { return p.Name },
		types.CategoryPlace,
		func(p types.TripPlace, url string) types.TripPlace {
			p.ImageURL = url
			return p
		})
	return resp
}

func (s *ServiceImpl) CacheStats(_ context.Context) types.CacheStatsResponse {
	return types.CacheStatsResponse{Entries: s.cache.Len()}
}

// resolve looks up a single image without touching the cache.
func (s *ServiceImpl) resolve(ctx context.Context, name, hint, orientation string) fetchResult {
	if strings.TrimSpace(name) == "" {
		return fetchResult{Err: ErrNoResults}
	}
	urls, err := s.searchWithRetry(ctx, name+" "+hint, orientation, 1)
	if err != nil {
		return fetchResult{Err: err}
	}
	return fetchResult{URL: urls[0]}
}

// searchWithRetry retries transport failures only, waiting BackoffBase*attempt between tries.
func (s *ServiceImpl) searchWithRetry(ctx context.Context, query, orientation string, perPage int) ([]string, error) {
	providerAttr := metric.WithAttributes(attribute.String("provider", s.provider.Name()))
	ctx, span := otel.Tracer("ImagesService").Start(ctx, "ProviderSearch", trace.WithAttributes(
		attribute.String("provider", s.provider.Name()),
		attribute.String("query", query),
	))
	defer span.End()

	l := s.logger.With(slog.String("provider", s.provider.Name()), slog.String("query", query))
	start := time.Now()
	defer func() {
		s.metrics.ProviderDurationSeconds.Record(ctx, time.Since(start).Seconds(), providerAttr)
	}()

	maxAttempts := s.pipeline.RetryBudget + 1
	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		if attempt > 1 {
			wait := s.pipeline.BackoffBase * time.Duration(attempt-1)
			l.DebugContext(ctx, "Waiting before retry", slog.Int("attempt", attempt), slog.Duration("wait", wait))
			if err := s.sleep(ctx, wait); err != nil {
				lastErr = fmt.Errorf("retry aborted: %w", err)
				break
			}
		}

		s.metrics.ProviderRequestsTotal.Add(ctx, 1, providerAttr)
		urls, err := s.provider.Search(ctx, query, orientation, perPage)
		if err == nil {
			span.SetAttributes(attribute.Int("attempts", attempt))
			return urls, nil
		}
		lastErr = err

		retry := IsTransportError(err) && ctx.Err() == nil && attempt < maxAttempts
		l.WarnContext(ctx, "Image provider request failed",
			slog.Int("attempt", attempt),
			slog.Int("max_attempts", maxAttempts),
			slog.Bool("will_retry", retry),
			slog.Any("error", err))
		if !retry {
			break
		}
	}

	s.metrics.ProviderErrorsTotal.Add(ctx, 1, providerAttr)
	span.RecordError(lastErr)
	span.SetStatus(codes.Error, "provider search failed")
	return nil, lastErr
}

func (s *ServiceImpl) placeholder(ctx context.Context, name string, category types.ImageCategory, cause error) string {
	s.metrics.PlaceholdersServed.Add(ctx, 1,
		metric.WithAttributes(attribute.String("category", string(category))))
	if cause != nil {
		s.logger.DebugContext(ctx, "Serving placeholder image",
			slog.String("name", name),
			slog.Any("cause", cause))
	}
	return PlaceholderURL(s.placeholderURL, name, category)
}

func partition(items []types.BatchItem, size int) [][]types.BatchItem {
	groups := make([][]types.BatchItem, 0, (len(items)+size-1)/size)
	for start := 0; start < len(items); start += size {
		end := min(start+size, len(items))
		groups = append(groups, items[start:end])
	}
	return groups
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
