package metrics

import (
	"errors"
	"log"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
)

// AppMetrics holds the application's metric instruments.
type AppMetrics struct {
	ImageCacheHits          metric.Int64Counter
	ImageCacheMisses        metric.Int64Counter
	ProviderRequestsTotal   metric.Int64Counter
	ProviderErrorsTotal     metric.Int64Counter
	ProviderDurationSeconds metric.Float64Histogram
	PlaceholdersServed      metric.Int64Counter
	CachePersistErrors      metric.Int64Counter
	BatchDurationSeconds    metric.Float64Histogram
	PlaceSearchRequests     metric.Int64Counter
}

var (
	appMetrics *AppMetrics
	once       sync.Once
)

// NewAppMetrics creates every instrument on the given meter.
func NewAppMetrics(meter metric.Meter) (*AppMetrics, error) {
	m := &AppMetrics{}
	var err, e error

	m.ImageCacheHits, e = meter.Int64Counter(
		"image_cache_hits_total",
		metric.WithDescription("Image lookups answered from the cache"),
		metric.WithUnit("{lookup}"),
	)
	err = errors.Join(err, e)

	m.ImageCacheMisses, e = meter.Int64Counter(
		"image_cache_misses_total",
		metric.WithDescription("Image lookups that had to go to the provider"),
		metric.WithUnit("{lookup}"),
	)
	err = errors.Join(err, e)

	m.ProviderRequestsTotal, e = meter.Int64Counter(
		"image_provider_requests_total",
		metric.WithDescription("HTTP requests sent to the image search provider, retries included"),
		metric.WithUnit("{request}"),
	)
	err = errors.Join(err, e)

	m.ProviderErrorsTotal, e = meter.Int64Counter(
		"image_provider_errors_total",
		metric.WithDescription("Image lookups that ended in a provider failure"),
		metric.WithUnit("{error}"),
	)
	err = errors.Join(err, e)

	m.ProviderDurationSeconds, e = meter.Float64Histogram(
		"image_provider_duration_seconds",
		metric.WithDescription("Duration of a provider lookup including retries"),
		metric.WithUnit("s"),
	)
	err = errors.Join(err, e)

	m.PlaceholdersServed, e = meter.Int64Counter(
		"image_placeholders_served_total",
		metric.WithDescription("Placeholder URLs returned instead of a real image"),
		metric.WithUnit("{url}"),
	)
	err = errors.Join(err, e)

	m.CachePersistErrors, e = meter.Int64Counter(
		"image_cache_persist_errors_total",
		metric.WithDescription("Failed reads or writes of the persisted image cache"),
		metric.WithUnit("{error}"),
	)
	err = errors.Join(err, e)

	m.BatchDurationSeconds, e = meter.Float64Histogram(
		"image_batch_duration_seconds",
		metric.WithDescription("Duration of a batch image resolution"),
		metric.WithUnit("s"),
	)
	err = errors.Join(err, e)

	m.PlaceSearchRequests, e = meter.Int64Counter(
		"place_search_requests_total",
		metric.WithDescription("Place searches sent to Nominatim"),
		metric.WithUnit("{request}"),
	)
	err = errors.Join(err, e)

	if err != nil {
		return nil, err
	}
	return m, nil
}

// InitAppMetrics initializes the global metrics instruments ONLY ONCE.
// It gets the Meter from the globally configured MeterProvider.
func InitAppMetrics() {
	once.Do(func() {
		m, err := NewAppMetrics(otel.GetMeterProvider().Meter("tripimages"))
		if err != nil {
			log.Fatalf("Metrics: Failed to create instruments: %v", err)
		}
		log.Println("Application metrics instruments initialized.")
		appMetrics = m
	})
}

// Get returns the globally initialized AppMetrics instance.
// Panics if InitAppMetrics was not called first.
func Get() *AppMetrics {
	if appMetrics == nil {
		panic("metrics instruments not initialized. Call metrics.InitAppMetrics() first.")
	}
	return appMetrics
}
