package client

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/text/unicode/norm"

	"github.com/Belphemur/ShowSearch/internal/apperrors"
	"github.com/Belphemur/ShowSearch/internal/config"
	"github.com/Belphemur/ShowSearch/internal/metrics"
	"github.com/Belphemur/ShowSearch/internal/models"
	"github.com/Belphemur/ShowSearch/internal/parser"
)

// Endpoint labels used in logs and metrics
const (
	endpointSearch   = "search"
	endpointEpisodes = "episodes"
)

// SearchShows queries the catalog search endpoint with term as the q parameter.
// An empty term is sent as-is; the catalog decides what it matches.
func (c *client) SearchShows(ctx context.Context, term string) ([]models.Show, error) {
	logger := config.GetLogger()

	query := url.Values{"q": []string{norm.NFC.String(term)}}
	// TVmaze documents this route without a trailing slash; "/search/shows/" only redirects here.
	endpoint := fmt.Sprintf("%s/search/shows?%s", c.baseURL, query.Encode())

	logger.Info().Str("term", term).Msg("Searching shows")

	body, contentType, err := c.fetch(ctx, endpointSearch, endpoint)
	if err != nil {
		if errors.Is(err, &apperrors.ErrNotFound{}) {
			// The search endpoint has no notion of a missing resource
			err = apperrors.NewNetworkError("search shows", err)
		}
		return nil, err
	}

	shows, err := decode(c.showParser, body, contentType, endpointSearch)
	if err != nil {
		return nil, err
	}

	logger.Info().Str("term", term).Int("count", len(shows)).Msg("Search completed")
	return shows, nil
}

// FetchEpisodes queries the per-show episodes endpoint.
// showID must be non-empty; the catalog answers 404 for ids it does not know.
func (c *client) FetchEpisodes(ctx context.Context, showID string) ([]models.Episode, error) {
	logger := config.GetLogger()

	showID = strings.TrimSpace(showID)
	if showID == "" {
		return nil, apperrors.NewInvalidArgumentError("show id", "must not be empty")
	}

	endpoint := fmt.Sprintf("%s/shows/%s/episodes", c.baseURL, url.PathEscape(showID))

	logger.Info().Str("showID", showID).Msg("Fetching episodes")

	body, contentType, err := c.fetch(ctx, endpointEpisodes, endpoint)
	if err != nil {
		if errors.Is(err, &apperrors.ErrNotFound{}) {
			return nil, apperrors.NewShowNotFoundError(showID)
		}
		return nil, err
	}

	episodes, err := decode(c.episodeParser, body, contentType, endpointEpisodes)
	if err != nil {
		return nil, err
	}

	logger.Info().Str("showID", showID).Int("count", len(episodes)).Msg("Episodes fetched")
	return episodes, nil
}

// fetch performs one GET and returns the body bytes and Content-Type.
// A 404 is reported as ErrNotFound; every other failure as ErrNetwork.
func (c *client) fetch(ctx context.Context, name, endpoint string) ([]byte, string, error) {
	logger := config.GetLogger()
	start := time.Now()
	defer func() {
		metrics.CatalogRequestDuration.WithLabelValues(name).Observe(time.Since(start).Seconds())
	}()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		metrics.CatalogRequestsTotal.WithLabelValues(name, "network_error").Inc()
		return nil, "", apperrors.NewNetworkError(name, fmt.Errorf("create request: %w", err))
	}
	req.Header.Set("User-Agent", config.GetUserAgent())
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		metrics.CatalogRequestsTotal.WithLabelValues(name, "network_error").Inc()
		logger.Warn().Err(err).Str("url", endpoint).Msg("Catalog request failed")
		return nil, "", apperrors.NewNetworkError(name, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		metrics.CatalogRequestsTotal.WithLabelValues(name, "not_found").Inc()
		return nil, "", apperrors.NewNotFoundError(name, endpoint)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		metrics.CatalogRequestsTotal.WithLabelValues(name, "network_error").Inc()
		logger.Warn().Int("status", resp.StatusCode).Str("url", endpoint).Msg("Catalog returned unexpected status")
		return nil, "", apperrors.NewNetworkError(name, fmt.Errorf("unexpected status %d", resp.StatusCode))
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		metrics.CatalogRequestsTotal.WithLabelValues(name, "network_error").Inc()
		return nil, "", apperrors.NewNetworkError(name, fmt.Errorf("read body: %w", err))
	}

	metrics.CatalogRequestsTotal.WithLabelValues(name, "success").Inc()
	logger.Debug().Str("url", endpoint).Int("bytes", len(body)).Msg("Catalog request succeeded")
	return body, resp.Header.Get("Content-Type"), nil
}

// decode converts body to UTF-8 according to contentType and runs p over it.
func decode[T any](p parser.Parser[T], body []byte, contentType, name string) ([]T, error) {
	reader, err := parser.NewUTF8Reader(bytes.NewReader(body), contentType)
	if err != nil {
		metrics.CatalogRequestsTotal.WithLabelValues(name, "malformed").Inc()
		return nil, apperrors.NewMalformedResponseError(name, err.Error())
	}

	items, err := p.Parse(reader)
	if err != nil {
		metrics.CatalogRequestsTotal.WithLabelValues(name, "malformed").Inc()
		return nil, err
	}
	return items, nil
}
