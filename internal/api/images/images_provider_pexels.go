package images

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/FACorreiaa/go-trip-images/internal/types"
)

const (
	PexelsProviderName   = "pexels"
	DefaultPexelsBaseURL = "https://api.pexels.com"
)

var _ Provider = (*PexelsProvider)(nil)

// PexelsProvider queries the Pexels photo search API and returns src.large URLs.
type PexelsProvider struct {
	client  *http.Client
	baseURL string
	apiKey  string
}

func NewPexelsProvider(client *http.Client, baseURL, apiKey string) *PexelsProvider {
	if client == nil {
		client = http.DefaultClient
	}
	if baseURL == "" {
		baseURL = DefaultPexelsBaseURL
	}
	return &PexelsProvider{
		client:  client,
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
	}
}

func (p *PexelsProvider) Name() string { return PexelsProviderName }

func (p *PexelsProvider) Search(ctx context.Context, query, orientation string, perPage int) ([]string, error) {
	if p.apiKey == "" {
		return nil, ErrMissingAPIKey
	}
	if perPage < 1 {
		perPage = 1
	}

	params := url.Values{}
	params.Set("query", query)
	params.Set("per_page", strconv.Itoa(perPage))
	if o := pexelsOrientation(orientation); o != "" {
		params.Set("orientation", o)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.baseURL+"/v1/search?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build pexels request: %w", err)
	}
	req.Header.Set("Authorization", p.apiKey)
	req.Header.Set("Accept", "application/json")

	obj, err := getJSON(p.client, req, PexelsProviderName)
	if err != nil {
		return nil, err
	}

	photos, err := obj.GetObjectArray("photos")
	if err != nil {
		return nil, fmt.Errorf("malformed pexels response: %w", err)
	}
	urls := firstStrings(photos, "src", "large")
	if len(urls) == 0 {
		return nil, ErrNoResults
	}
	return urls, nil
}

// Pexels calls the square orientation "square".
func pexelsOrientation(o string) string {
	if o == types.OrientationSquarish {
		return "square"
	}
	return o
}
