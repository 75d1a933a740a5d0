package images

import (
	"log/slog"
	"net/http"
	"strings"

	"go.opentelemetry.io/otel"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"

	"github.com/FACorreiaa/go-trip-images/internal/api"
	"github.com/FACorreiaa/go-trip-images/internal/types"
)

const (
	maxBatchNames   = 100
	defaultGallery  = 10
	maxTripSubjects = 100
	maxNameLength   = 200
)

type HandlerImpl struct {
	logger  *slog.Logger
	service Service
}

func NewHandlerImpl(service Service, logger *slog.Logger) *HandlerImpl {
	return &HandlerImpl{
		logger:  logger,
		service: service,
	}
}

// GetImage godoc
// @Summary      Resolve an image for a location
// @Description  Returns a cached or freshly fetched image URL for the name. Falls back to a placeholder, never fails upstream.
// @Tags         Images
// @Produce      json
// @Param        name         query string true  "Location, hotel or place name"
// @Param        category     query string false "hotel, place or trip (default trip)"
// @Param        orientation  query string false "landscape, portrait or squarish"
// @Success      200 {object} types.ImageResponse
// @Failure      400 {object} types.Response "Missing name"
// @Router       /images [get]
func (h *HandlerImpl) GetImage(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("ImagesHandler").Start(r.Context(), "GetImage", trace.WithAttributes(
		semconv.HTTPRequestMethodKey.String(r.Method),
		semconv.HTTPRouteKey.String("/api/v1/images"),
	))
	defer span.End()

	l := h.logger.With(slog.String("handler", "GetImage"))

	name := strings.TrimSpace(r.URL.Query().Get("name"))
	if name == "" || len(name) > maxNameLength {
		l.WarnContext(ctx, "Invalid image name", slog.Int("length", len(name)))
		api.ErrorResponse(w, r, http.StatusBadRequest, "name is required and must be at most 200 characters")
		return
	}
	category := types.ParseImageCategory(r.URL.Query().Get("category"))

	url := h.service.FetchImage(ctx, name, types.FetchOptions{
		Category:    category,
		Orientation: r.URL.Query().Get("orientation"),
	})

	api.WriteJSONResponse(w, r, http.StatusOK, types.ImageResponse{
		Name:     name,
		Category: category,
		URL:      url,
	})
}

// BatchImages godoc
// @Summary      Resolve images for many names
// @Description  Returns one URL per name in request order. Uncached names are fetched in small paced groups.
// @Tags         Images
// @Accept       json
// @Produce      json
// @Param        request body     types.BatchImageRequest true "Names and category"
// @Success      200     {object} types.BatchImageResponse
// @Failure      400     {object} types.Response "Invalid body"
// @Router       /images/batch [post]
func (h *HandlerImpl) BatchImages(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("ImagesHandler").Start(r.Context(), "BatchImages", trace.WithAttributes(
		semconv.HTTPRequestMethodKey.String(r.Method),
		semconv.HTTPRouteKey.String("/api/v1/images/batch"),
	))
	defer span.End()

	l := h.logger.With(slog.String("handler", "BatchImages"))

	var req types.BatchImageRequest
	if err := api.DecodeJSONBody(w, r, &req); err != nil {
		l.WarnContext(ctx, "Failed to decode batch request", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}
	if len(req.Names) > maxBatchNames {
		api.ErrorResponse(w, r, http.StatusBadRequest, "at most 100 names per batch")
		return
	}

	category := types.ParseImageCategory(req.Category)
	urls := h.service.BatchFetch(ctx, req.Names, category)

	l.DebugContext(ctx, "Batch resolved", slog.Int("count", len(urls)))
	api.WriteJSONResponse(w, r, http.StatusOK, types.BatchImageResponse{
		Category: category,
		URLs:     urls,
	})
}

// TripImages godoc
// @Summary      Attach images to a generated trip
// @Description  Fills image_url on every hotel and place and adds a cover image for the destination.
// @Tags         Images
// @Accept       json
// @Produce      json
// @Param        request body     types.TripImagesRequest true "Trip to enrich"
// @Success      200     {object} types.TripImagesResponse
// @Failure      400     {object} types.Response "Invalid body"
// @Router       /images/trip [post]
func (h *HandlerImpl) TripImages(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("ImagesHandler").Start(r.Context(), "TripImages", trace.WithAttributes(
		semconv.HTTPRequestMethodKey.String(r.Method),
		semconv.HTTPRouteKey.String("/api/v1/images/trip"),
	))
	defer span.End()

	l := h.logger.With(slog.String("handler", "TripImages"))

	var req types.TripImagesRequest
	if err := api.DecodeJSONBody(w, r, &req); err != nil {
		l.WarnContext(ctx, "Failed to decode trip request", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}
	if len(req.Hotels)+len(req.Places) > maxTripSubjects {
		api.ErrorResponse(w, r, http.StatusBadRequest, "at most 100 hotels and places per trip")
		return
	}

	resp := h.service.EnrichTrip(ctx, req)
	l.InfoContext(ctx, "Trip images resolved",
		slog.String("destination", req.Destination),
		slog.Int("hotels", len(resp.Hotels)),
		slog.Int("places", len(resp.Places)))
	api.WriteJSONResponse(w, r, http.StatusOK, resp)
}

// GetGallery godoc
// @Summary      Several images for one location
// @Tags         Images
// @Produce      json
// @Param        location query string true  "Location name"
// @Param        count    query int    false "Number of images, 1 to 30 (default 10)"
// @Success      200 {object} types.GalleryResponse
// @Failure      400 {object} types.Response "Missing location"
// @Router       /images/gallery [get]
func (h *HandlerImpl) GetGallery(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("ImagesHandler").Start(r.Context(), "GetGallery", trace.WithAttributes(
		semconv.HTTPRequestMethodKey.String(r.Method),
		semconv.HTTPRouteKey.String("/api/v1/images/gallery"),
	))
	defer span.End()

	location := strings.TrimSpace(r.URL.Query().Get("location"))
	if location == "" {
		api.ErrorResponse(w, r, http.StatusBadRequest, "location is required")
		return
	}
	count := api.QueryInt(r, "count", defaultGallery)

	api.WriteJSONResponse(w, r, http.StatusOK, types.GalleryResponse{
		Location: location,
		URLs:     h.service.FetchGallery(ctx, location, count),
	})
}

// CacheStats godoc
// @Summary      Image cache size
// @Tags         Images
// @Produce      json
// @Success      200 {object} types.CacheStatsResponse
// @Router       /images/cache/stats [get]
func (h *HandlerImpl) CacheStats(w http.ResponseWriter, r *http.Request) {
	api.WriteJSONResponse(w, r, http.StatusOK, h.service.CacheStats(r.Context()))
}
