package client

import (
	"context"
	"net/http"
	"net/url"
	"time"

	"github.com/Belphemur/ShowSearch/internal/config"
	"github.com/Belphemur/ShowSearch/internal/models"
	"github.com/Belphemur/ShowSearch/internal/parser"
)

// Client defines the interface for querying the show catalog.
// Every call performs exactly one outbound request: no retries, no caching.
type Client interface {
	// SearchShows returns the shows matching term, in catalog order.
	SearchShows(ctx context.Context, term string) ([]models.Show, error)

	// FetchEpisodes returns every episode of the show with the given catalog id.
	FetchEpisodes(ctx context.Context, showID string) ([]models.Episode, error)

	// Close releases idle connections held by the client.
	Close() error
}

// client implements the Client interface
type client struct {
	httpClient    *http.Client
	baseURL       string
	showParser    parser.Parser[models.Show]
	episodeParser parser.Parser[models.Episode]
}

// NewClient creates a new client instance with proxy configuration if provided
func NewClient(cfg *config.Config) Client {
	logger := config.GetLogger()

	timeout := 30 * time.Second
	if cfg.ClientTimeout != "" {
		if parsedTimeout, err := time.ParseDuration(cfg.ClientTimeout); err != nil {
			logger.Warn().Err(err).Str("timeout", cfg.ClientTimeout).Msg("Invalid timeout duration, using default 30s")
		} else {
			timeout = parsedTimeout
		}
	}

	// Clone DefaultTransport to keep its pooling, HTTP/2 and dial timeouts
	baseTransport := http.DefaultTransport.(*http.Transport).Clone()

	if cfg.ProxyConnectionString != "" {
		proxyURL, err := url.Parse(cfg.ProxyConnectionString)
		if err != nil {
			logger.Warn().Err(err).Str("proxy", cfg.ProxyConnectionString).Msg("Invalid proxy URL, continuing without proxy")
		} else {
			baseTransport.Proxy = http.ProxyURL(proxyURL)
		}
	}

	baseURL := cfg.CatalogBaseURL
	if baseURL == "" {
		baseURL = config.DefaultCatalogBaseURL
	}

	return &client{
		httpClient: &http.Client{
			Timeout:   timeout,
			Transport: newCompressionTransport(baseTransport),
		},
		baseURL:       baseURL,
		showParser:    parser.NewShowSearchParser(cfg.DefaultImageURL),
		episodeParser: parser.NewEpisodeParser(),
	}
}

// Close releases idle keep-alive connections.
func (c *client) Close() error {
	c.httpClient.CloseIdleConnections()
	return nil
}
