package parser

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/Belphemur/ShowSearch/internal/apperrors"
	"github.com/Belphemur/ShowSearch/internal/config"
	"github.com/Belphemur/ShowSearch/internal/models"
)

const (
	searchEndpoint   = "search/shows"
	episodesEndpoint = "shows/episodes"
)

// ShowSearchParser implements the Parser interface for catalog search results
type ShowSearchParser struct {
	defaultImageURL string
}

// NewShowSearchParser creates a parser that substitutes defaultImageURL for missing artwork
func NewShowSearchParser(defaultImageURL string) *ShowSearchParser {
	if defaultImageURL == "" {
		defaultImageURL = config.DefaultImageURL
	}
	return &ShowSearchParser{defaultImageURL: defaultImageURL}
}

// Parse decodes a search payload and validates every element before normalizing it
func (p *ShowSearchParser) Parse(body io.Reader) ([]models.Show, error) {
	logger := config.GetLogger()

	results, err := decodeArray[models.CatalogSearchResult](body, searchEndpoint)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to decode search payload")
		return nil, err
	}

	shows := make([]models.Show, 0, len(results))
	for i, result := range results {
		show, err := p.normalize(i, result)
		if err != nil {
			logger.Error().Err(err).Int("index", i).Msg("Invalid search result")
			return nil, err
		}
		logger.Debug().Int("id", show.ID).Str("name", show.Name).Msg("Parsed show")
		shows = append(shows, show)
	}

	logger.Debug().Int("total_shows", len(shows)).Msg("Completed parsing search results")
	return shows, nil
}

func (p *ShowSearchParser) normalize(i int, result models.CatalogSearchResult) (models.Show, error) {
	raw := result.Show
	if raw == nil {
		return models.Show{}, malformed(searchEndpoint, i, "show")
	}
	if raw.ID == nil {
		return models.Show{}, malformed(searchEndpoint, i, "show.id")
	}
	if raw.Name == nil {
		return models.Show{}, malformed(searchEndpoint, i, "show.name")
	}

	show := models.Show{
		ID:       *raw.ID,
		Name:     *raw.Name,
		ImageURL: p.defaultImageURL,
	}
	if raw.Summary != nil {
		show.Summary = *raw.Summary
	}
	if raw.Image != nil && raw.Image.Original != "" {
		show.ImageURL = raw.Image.Original
	}
	return show, nil
}

// EpisodeParser implements the Parser interface for the per-show episodes payload
type EpisodeParser struct{}

// NewEpisodeParser creates a new episode parser instance
func NewEpisodeParser() *EpisodeParser {
	return &EpisodeParser{}
}

// Parse decodes an episodes payload, mapping each record 1:1 into an Episode
func (p *EpisodeParser) Parse(body io.Reader) ([]models.Episode, error) {
	logger := config.GetLogger()

	records, err := decodeArray[models.CatalogEpisode](body, episodesEndpoint)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to decode episodes payload")
		return nil, err
	}

	episodes := make([]models.Episode, 0, len(records))
	for i, rec := range records {
		if rec.ID == nil {
			return nil, malformed(episodesEndpoint, i, "id")
		}
		if rec.Name == nil {
			return nil, malformed(episodesEndpoint, i, "name")
		}

		ep := models.Episode{ID: *rec.ID, Name: *rec.Name}
		// Specials carry a null number.
		if rec.Season != nil {
			ep.Season = *rec.Season
		}
		if rec.Number != nil {
			ep.Number = *rec.Number
		}
		episodes = append(episodes, ep)
	}

	logger.Debug().Int("total_episodes", len(episodes)).Msg("Completed parsing episodes")
	return episodes, nil
}

// decodeArray decodes exactly one JSON array from body. Anything else, including
// null or trailing data, is reported as a malformed response.
func decodeArray[T any](body io.Reader, endpoint string) ([]T, error) {
	dec := json.NewDecoder(body)

	var items *[]T
	if err := dec.Decode(&items); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, apperrors.NewMalformedResponseError(endpoint, "empty body")
		}
		return nil, apperrors.NewMalformedResponseError(endpoint, err.Error())
	}
	if items == nil {
		return nil, apperrors.NewMalformedResponseError(endpoint, "expected a JSON array, got null")
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, apperrors.NewMalformedResponseError(endpoint, "unexpected data after JSON array")
	}
	return *items, nil
}

func malformed(endpoint string, index int, field string) error {
	return apperrors.NewMalformedResponseError(endpoint, fmt.Sprintf("item %d: missing %s", index, field))
}
