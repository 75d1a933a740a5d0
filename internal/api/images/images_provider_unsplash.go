package images

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
)

const (
	UnsplashProviderName   = "unsplash"
	DefaultUnsplashBaseURL = "https://api.unsplash.com"
)

var _ Provider = (*UnsplashProvider)(nil)

// UnsplashProvider queries the Unsplash search API and returns urls.regular.
type UnsplashProvider struct {
	client    *http.Client
	baseURL   string
	accessKey string
}

func NewUnsplashProvider(client *http.Client, baseURL, accessKey string) *UnsplashProvider {
	if client == nil {
		client = http.DefaultClient
	}
	if baseURL == "" {
		baseURL = DefaultUnsplashBaseURL
	}
	return &UnsplashProvider{
		client:    client,
		baseURL:   strings.TrimRight(baseURL, "/"),
		accessKey: accessKey,
	}
}

func (p *UnsplashProvider) Name() string { return UnsplashProviderName }

func (p *UnsplashProvider) Search(ctx context.Context, query, orientation string, perPage int) ([]string, error) {
	if p.accessKey == "" {
		return nil, ErrMissingAPIKey
	}
	if perPage < 1 {
		perPage = 1
	}

	params := url.Values{}
	params.Set("query", query)
	params.Set("per_page", strconv.Itoa(perPage))
	params.Set("content_filter", "high")
	if orientation != "" {
		params.Set("orientation", orientation)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.baseURL+"/search/photos?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build unsplash request: %w", err)
	}
	req.Header.Set("Authorization", "Client-ID "+p.accessKey)
	req.Header.Set("Accept-Version", "v1")

	obj, err := getJSON(p.client, req, UnsplashProviderName)
	if err != nil {
		return nil, err
	}

	results, err := obj.GetObjectArray("results")
	if err != nil {
		return nil, fmt.Errorf("malformed unsplash response: %w", err)
	}
	urls := firstStrings(results, "urls", "regular")
	if len(urls) == 0 {
		return nil, ErrNoResults
	}
	return urls, nil
}
