package view

import (
	"bytes"
	"errors"
	"fmt"
	"html/template"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/rs/zerolog"

	"github.com/Belphemur/ShowSearch/internal/apperrors"
	"github.com/Belphemur/ShowSearch/internal/config"
	"github.com/Belphemur/ShowSearch/internal/models"
)

// showCardTemplate renders one card. The img src goes through html/template's
// URL filter: http(s) URLs keep their text apart from percent-encoding of
// characters a URL may not carry raw, and any other scheme becomes #ZgotmplZ.
var showCardTemplate = template.Must(template.New("show").Parse(`<div data-show-id="{{.ID}}" class="Show col-md-12 col-lg-6 mb-4">
  <div class="media">
    <img src="{{.ImageURL}}" alt="{{.Name}}" class="w-25 me-3">
    <div class="media-body">
      <h5 class="text-primary">{{.Name}}</h5>
      <div><small>{{.Summary}}</small></div>
      <button type="submit" form="episodesForm" name="control" value="{{.Control}}" class="btn btn-outline-light btn-sm Show-getEpisodes">
        Episodes
      </button>
    </div>
  </div>
</div>`))

var episodeTemplate = template.Must(template.New("episode").Parse(
	`<li>{{.Name}} (season {{.Season}}, number {{.Number}})</li>`))

// showCard is the template input for one show
type showCard struct {
	ID       int
	Name     string
	Summary  template.HTML // the catalog sends summaries as HTML
	ImageURL string
	Control  int
}

// Renderer writes shows, episodes and errors into explicit page targets.
type Renderer struct {
	targets      Targets
	defaultImage string
	logger       zerolog.Logger
}

// Option configures a Renderer
type Option func(*Renderer)

// WithDefaultImage sets the artwork used for shows without an image URL.
func WithDefaultImage(url string) Option {
	return func(r *Renderer) {
		if url != "" {
			r.defaultImage = url
		}
	}
}

// NewRenderer binds a renderer to targets. Every target must select exactly one element.
func NewRenderer(targets Targets, opts ...Option) (*Renderer, error) {
	if err := targets.validate(); err != nil {
		return nil, err
	}
	r := &Renderer{
		targets:      targets,
		defaultImage: config.DefaultImageURL,
		logger:       config.GetLogger(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r, nil
}

// RenderShowList replaces the show cards with one card per show and hides the episode area.
func (r *Renderer) RenderShowList(shows []models.Show) error {
	var buf bytes.Buffer
	for i, show := range shows {
		card := showCard{
			ID:       show.ID,
			Name:     show.Name,
			Summary:  template.HTML(show.Summary),
			ImageURL: show.ImageURL,
			Control:  i,
		}
		if card.ImageURL == "" {
			card.ImageURL = r.defaultImage
		}
		if err := showCardTemplate.Execute(&buf, card); err != nil {
			return fmt.Errorf("render show %d: %w", show.ID, err)
		}
	}

	r.targets.EpisodesArea.SetAttr("hidden", "")
	r.targets.ShowsList.Empty()
	if buf.Len() > 0 {
		r.targets.ShowsList.AppendHtml(buf.String())
	}

	r.logger.Debug().Int("count", len(shows)).Msg("Rendered show list")
	return nil
}

// RenderEpisodeList replaces the episode entries and reveals the episode area,
// even when there are no episodes.
func (r *Renderer) RenderEpisodeList(episodes []models.Episode) error {
	var buf bytes.Buffer
	for _, ep := range episodes {
		if err := episodeTemplate.Execute(&buf, ep); err != nil {
			return fmt.Errorf("render episode %d: %w", ep.ID, err)
		}
	}

	r.targets.EpisodesList.Empty()
	if buf.Len() > 0 {
		r.targets.EpisodesList.AppendHtml(buf.String())
	}
	r.targets.EpisodesArea.RemoveAttr("hidden")

	r.logger.Debug().Int("count", len(episodes)).Msg("Rendered episode list")
	return nil
}

// RenderError shows an inline message for err. Show and episode lists are left as they were.
func (r *Renderer) RenderError(err error) {
	r.targets.ErrorArea.SetText(ErrorMessage(err))
	r.targets.ErrorArea.RemoveAttr("hidden")
}

// ClearError empties and hides the error area.
func (r *Renderer) ClearError() {
	r.targets.ErrorArea.Empty()
	r.targets.ErrorArea.SetAttr("hidden", "")
}

// SearchTerm returns the current value of the search input.
func (r *Renderer) SearchTerm() string {
	term, _ := r.targets.SearchInput.Attr("value")
	return term
}

// ShowIDFor resolves the show id of the card enclosing target.
func (r *Renderer) ShowIDFor(target *goquery.Selection) (string, error) {
	if target == nil || target.Length() == 0 {
		return "", apperrors.NewInvalidArgumentError("control", "no element was clicked")
	}
	card := target.Closest("." + showCardClass)
	if card.Length() == 0 {
		return "", apperrors.NewInvalidArgumentError("control", "not inside a show card")
	}
	id, ok := card.Attr(showIDAttr)
	if !ok || strings.TrimSpace(id) == "" {
		return "", apperrors.NewInvalidArgumentError("control", "show card has no id")
	}
	return id, nil
}

// ErrorMessage maps an error to the text shown to the user.
func ErrorMessage(err error) string {
	switch {
	case errors.Is(err, &apperrors.ErrNotFound{}):
		return "That show is no longer in the catalog."
	case errors.Is(err, &apperrors.ErrMalformedResponse{}):
		return "The show catalog sent a response we could not read. Please try again later."
	case errors.Is(err, &apperrors.ErrNetwork{}):
		return "The show catalog could not be reached. Please try again."
	case errors.Is(err, &apperrors.ErrInvalidArgument{}):
		return "That request could not be understood."
	default:
		return "Something went wrong. Please try again."
	}
}
