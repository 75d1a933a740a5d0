package places

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/jarcoal/httpmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/FACorreiaa/go-trip-images/internal/types"
)

const searchURL = "https://nominatim.openstreetmap.org/search"

const nominatimResponse = `[
  {
    "place_id": 88066702,
    "lat": "48.8588897",
    "lon": "2.3200410",
    "class": "boundary",
    "type": "administrative",
    "importance": 0.88,
    "name": "Paris",
    "display_name": "Paris, Île-de-France, France métropolitaine, France",
    "address": {"city": "Paris", "state": "Île-de-France", "country": "France", "country_code": "fr"},
    "boundingbox": ["48.8155755", "48.9021560", "2.2241220", "2.4697602"]
  }
]`

func newTestService(t *testing.T) (*ServiceImpl, *httpmock.MockTransport) {
	t.Helper()
	mt := httpmock.NewMockTransport()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	svc := NewServiceImpl(&http.Client{Transport: mt}, "", "TripImages/test", time.Hour, logger, nil)
	return svc, mt
}

func TestSearch(t *testing.T) {
	svc, mt := newTestService(t)
	mt.RegisterResponder(http.MethodGet, searchURL, func(req *http.Request) (*http.Response, error) {
		q := req.URL.Query()
		assert.Equal(t, "Paris", q.Get("q"))
		assert.Equal(t, "json", q.Get("format"))
		assert.Equal(t, "1", q.Get("addressdetails"))
		assert.Equal(t, "5", q.Get("limit"))
		assert.Equal(t, "en", req.Header.Get("Accept-Language"))
		assert.Equal(t, "TripImages/test", req.Header.Get("User-Agent"))
		return httpmock.NewStringResponse(http.StatusOK, nominatimResponse), nil
	})

	places, err := svc.Search(context.Background(), "  Paris ")

	require.NoError(t, err)
	require.Len(t, places, 1)
	assert.Equal(t, int64(88066702), places[0].PlaceID)
	assert.Equal(t, "48.8588897", places[0].Lat)
	require.NotNil(t, places[0].Address)
	assert.Equal(t, "fr", places[0].Address.CountryCode)
	assert.Len(t, places[0].BoundingBox, 4)
}

func TestSearchCachesCaseInsensitively(t *testing.T) {
	svc, mt := newTestService(t)
	mt.RegisterResponder(http.MethodGet, searchURL, httpmock.NewStringResponder(http.StatusOK, nominatimResponse))

	_, err := svc.Search(context.Background(), "Paris")
	require.NoError(t, err)
	_, err = svc.Search(context.Background(), "paris")
	require.NoError(t, err)

	assert.Equal(t, 1, mt.GetTotalCallCount())
}

func TestSearchShortQuery(t *testing.T) {
	svc, mt := newTestService(t)

	places, err := svc.Search(context.Background(), "P")

	require.NoError(t, err)
	assert.Empty(t, places)
	assert.Equal(t, 0, mt.GetTotalCallCount())
}

func TestSearchErrors(t *testing.T) {
	tests := []struct {
		name      string
		responder httpmock.Responder
	}{
		{name: "status", responder: httpmock.NewStringResponder(http.StatusServiceUnavailable, "busy")},
		{name: "body", responder: httpmock.NewStringResponder(http.StatusOK, `{"error":"oops"}`)},
		{name: "transport", responder: httpmock.NewErrorResponder(errors.New("no such host"))},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, mt := newTestService(t)
			mt.RegisterResponder(http.MethodGet, searchURL, tt.responder)

			places, err := svc.Search(context.Background(), "Paris")

			assert.Error(t, err)
			assert.Nil(t, places)

			// Failures are not cached.
			_, _ = svc.Search(context.Background(), "Paris")
			assert.Equal(t, 2, mt.GetTotalCallCount())
		})
	}
}

func TestSearchEmptyResult(t *testing.T) {
	svc, mt := newTestService(t)
	mt.RegisterResponder(http.MethodGet, searchURL, httpmock.NewStringResponder(http.StatusOK, `[]`))

	places, err := svc.Search(context.Background(), "Xyzzyville")

	require.NoError(t, err)
	assert.NotNil(t, places)
	assert.Empty(t, places)
}

type MockPlacesService struct {
	mock.Mock
}

func (m *MockPlacesService) Search(ctx context.Context, query string) ([]types.Place, error) {
	args := m.Called(ctx, query)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]types.Place), args.Error(1)
}

func TestSearchPlacesHandler(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	t.Run("ok", func(t *testing.T) {
		svc := new(MockPlacesService)
		svc.On("Search", mock.Anything, "Lisbon").
			Return([]types.Place{{PlaceID: 1, DisplayName: "Lisbon, Portugal", Lat: "38.7", Lon: "-9.1"}}, nil).Once()
		h := NewHandlerImpl(svc, logger)

		rr := httptest.NewRecorder()
		h.SearchPlaces(rr, httptest.NewRequest(http.MethodGet, "/api/v1/places/search?q=Lisbon", nil))

		assert.Equal(t, http.StatusOK, rr.Code)
		assert.JSONEq(t, `[{"place_id":1,"display_name":"Lisbon, Portugal","lat":"38.7","lon":"-9.1"}]`, rr.Body.String())
		svc.AssertExpectations(t)
	})

	t.Run("missing query", func(t *testing.T) {
		svc := new(MockPlacesService)
		h := NewHandlerImpl(svc, logger)

		rr := httptest.NewRecorder()
		h.SearchPlaces(rr, httptest.NewRequest(http.MethodGet, "/api/v1/places/search", nil))

		assert.Equal(t, http.StatusBadRequest, rr.Code)
		svc.AssertNotCalled(t, "Search", mock.Anything, mock.Anything)
	})

	t.Run("upstream failure", func(t *testing.T) {
		svc := new(MockPlacesService)
		svc.On("Search", mock.Anything, "Lisbon").Return(nil, errors.New("nominatim returned status 503")).Once()
		h := NewHandlerImpl(svc, logger)

		rr := httptest.NewRecorder()
		h.SearchPlaces(rr, httptest.NewRequest(http.MethodGet, "/api/v1/places/search?q=Lisbon", nil))

		assert.Equal(t, http.StatusBadGateway, rr.Code)
		assert.Contains(t, rr.Body.String(), "place search is unavailable")
	})
}
