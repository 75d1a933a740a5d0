package images

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/FACorreiaa/go-trip-images/internal/types"
)

const DefaultPlaceholderBaseURL = "https://placehold.co"

const placeholderTextColor = "1e293b"

var placeholderBackgrounds = map[types.ImageCategory]string{
	types.CategoryHotel: "e0f2fe",
	types.CategoryPlace: "f0fdf4",
	types.CategoryTrip:  "f1f5f9",
}

// PlaceholderURL builds the deterministic fallback image for name in category.
func PlaceholderURL(baseURL, name string, category types.ImageCategory) string {
	if baseURL == "" {
		baseURL = DefaultPlaceholderBaseURL
	}
	category = types.ParseImageCategory(string(category))

	size := "400x300"
	if category == types.CategoryTrip {
		size = "800x400"
	}
	text := strings.ReplaceAll(url.QueryEscape(name), "+", "%20")

	return fmt.Sprintf("%s/%s/%s/%s?text=%s",
		strings.TrimRight(baseURL, "/"), size, placeholderBackgrounds[category], placeholderTextColor, text)
}
