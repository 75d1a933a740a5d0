package images

import (
	"context"

	"github.com/FACorreiaa/go-trip-images/internal/types"
)

// BatchFetcher is the part of Service that ProcessItems needs.
type BatchFetcher interface {
	BatchFetch(ctx context.Context, names []string, category types.ImageCategory) []string
}

// ProcessItems fetches one image per item and hands each item back through set
// with its URL, keeping the input order. An empty input yields an empty slice.
func ProcessItems[T any](ctx context.Context, f BatchFetcher, items []T, name func(T) string,
	category types.ImageCategory, set func(T, string) T) []T {
	if len(items) == 0 {
		return []T{}
	}

	names := make([]string, len(items))
	for i, item := range items {
		names[i] = name(item)
	}

	urls := f.BatchFetch(ctx, names, category)
	out := make([]T, len(items))
	for i, item := range items {
		var url string
		if i < len(urls) {
			url = urls[i]
		}
		out[i] = set(item, url)
	}
	return out
}
