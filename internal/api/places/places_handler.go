package places

import (
	"log/slog"
	"net/http"

	"go.opentelemetry.io/otel"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"

	"github.com/FACorreiaa/go-trip-images/internal/api"
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

// SearchPlaces godoc
// @Summary      Search places
// @Description  Free-text location search backed by OpenStreetMap Nominatim. Returns at most five matches.
// @Tags         Places
// @Produce      json
// @Param        q   query string true "Search text"
// @Success      200 {array}  types.Place
// @Failure      400 {object} types.Response "Missing query"
// @Failure      502 {object} types.Response "Upstream search failed"
// @Router       /places/search [get]
func (h *HandlerImpl) SearchPlaces(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("PlacesHandler").Start(r.Context(), "SearchPlaces", trace.WithAttributes(
		semconv.HTTPRequestMethodKey.String(r.Method),
		semconv.HTTPRouteKey.String("/api/v1/places/search"),
	))
	defer span.End()

	l := h.logger.With(slog.String("handler", "SearchPlaces"))

	query := r.URL.Query().Get("q")
	if query == "" {
		api.ErrorResponse(w, r, http.StatusBadRequest, "q is required")
		return
	}

	places, err := h.service.Search(ctx, query)
	if err != nil {
		l.ErrorContext(ctx, "Place search failed", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusBadGateway, "place search is unavailable")
		return
	}

	api.WriteJSONResponse(w, r, http.StatusOK, places)
}
