package types

// ImageCategory selects the search hint and orientation used for an image lookup.
type ImageCategory string

const (
	CategoryHotel ImageCategory = "hotel"
	CategoryPlace ImageCategory = "place"
	CategoryTrip  ImageCategory = "trip"
)

// ParseImageCategory maps free-form input onto a known category.
// Anything unrecognised falls back to CategoryTrip.
func ParseImageCategory(s string) ImageCategory {
	switch ImageCategory(s) {
	case CategoryHotel, CategoryPlace, CategoryTrip:
		return ImageCategory(s)
	default:
		return CategoryTrip
	}
}

// Orientation values accepted by the image search providers.
const (
	OrientationLandscape = "landscape"
	OrientationPortrait  = "portrait"
	OrientationSquarish  = "squarish"
)

// CacheEntry is a single resolved image URL. Expiry is in Unix milliseconds so the
// persisted blob keeps the same shape the browser app stored in localStorage.
type CacheEntry struct {
	URL    string `json:"url"`
	Expiry int64  `json:"expiry"`
}

// FetchRequest identifies one image lookup.
type FetchRequest struct {
	SubjectName string        `json:"name"`
	Category    ImageCategory `json:"category"`
}

// FetchOptions overrides the category defaults for a single lookup.
type FetchOptions struct {
	Category    ImageCategory
	Orientation string
	Query       string
}

// BatchItem tracks a cache miss inside a batch so results can be put back in place.
type BatchItem struct {
	OriginalIndex int
	SubjectName   string
}

// ImageResponse is returned by the single image endpoint.
type ImageResponse struct {
	Name     string        `json:"name"`
	Category ImageCategory `json:"category"`
	URL      string        `json:"url"`
}

// BatchImageRequest is the body of the batch endpoint.
type BatchImageRequest struct {
	Names    []string `json:"names"`
	Category string   `json:"category"`
}

// BatchImageResponse holds one URL per requested name, in request order.
type BatchImageResponse struct {
	Category ImageCategory `json:"category"`
	URLs     []string      `json:"urls"`
}

// GalleryResponse is returned by the gallery endpoint.
type GalleryResponse struct {
	Location string   `json:"location"`
	URLs     []string `json:"urls"`
}

// CacheStatsResponse reports the number of live cache entries.
type CacheStatsResponse struct {
	Entries int `json:"entries"`
}
