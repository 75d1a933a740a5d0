package images

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/antonholmquist/jason"

	"github.com/FACorreiaa/go-trip-images/config"
)

var (
	// ErrNoResults is returned when the provider answered but had no usable image.
	ErrNoResults = errors.New("no image results")
	// ErrMissingAPIKey is returned before any request is made when no key is configured.
	ErrMissingAPIKey = errors.New("image provider API key is not configured")
)

// Provider searches an upstream image service.
type Provider interface {
	Name() string
	// Search returns up to perPage image URLs for query, best match first.
	Search(ctx context.Context, query, orientation string, perPage int) ([]string, error)
}

// StatusError is a non-2xx answer from the provider. It is never retried.
type StatusError struct {
	Provider   string
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("%s returned status %d", e.Provider, e.StatusCode)
	}
	return fmt.Sprintf("%s returned status %d: %s", e.Provider, e.StatusCode, e.Body)
}

// TransportError wraps a failure to get any HTTP response at all.
type TransportError struct {
	Provider string
	Err      error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s request failed: %v", e.Provider, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// IsTransportError reports whether err came from the network rather than the provider's answer.
func IsTransportError(err error) bool {
	var te *TransportError
	return errors.As(err, &te)
}

func getJSON(client *http.Client, req *http.Request, provider string) (*jason.Object, error) {
	resp, err := client.Do(req)
	if err != nil {
		return nil, &TransportError{Provider: provider, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, &StatusError{
			Provider:   provider,
			StatusCode: resp.StatusCode,
			Body:       strings.TrimSpace(string(body)),
		}
	}

	obj, err := jason.NewObjectFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to decode %s response: %w", provider, err)
	}
	return obj, nil
}

// firstStrings collects the string at path from each object, skipping blanks.
func firstStrings(objs []*jason.Object, path ...string) []string {
	out := make([]string, 0, len(objs))
	for _, o := range objs {
		s, err := o.GetString(path...)
		if err != nil || s == "" {
			continue
		}
		out = append(out, s)
	}
	return out
}

// NewProviderFromConfig builds the provider named in cfg.
func NewProviderFromConfig(cfg config.ImagesConfig, client *http.Client) (Provider, error) {
	switch strings.ToLower(cfg.Provider) {
	case "", PexelsProviderName:
		return NewPexelsProvider(client, cfg.BaseURL, cfg.APIKey), nil
	case UnsplashProviderName:
		return NewUnsplashProvider(client, cfg.BaseURL, cfg.APIKey), nil
	default:
		return nil, fmt.Errorf("unknown image provider %q", cfg.Provider)
	}
}
