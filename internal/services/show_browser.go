package services

import (
	"context"

	"github.com/PuerkitoBio/goquery"

	"github.com/Belphemur/ShowSearch/internal/models"
)

// Renderer is the view side the browser drives
type Renderer interface {
	RenderShowList(shows []models.Show) error
	RenderEpisodeList(episodes []models.Episode) error
	RenderError(err error)
	ClearError()
	SearchTerm() string
	ShowIDFor(target *goquery.Selection) (string, error)
}

// ShowBrowser handles the two user events of the page
type ShowBrowser interface {
	// SubmitSearch reads the search input, searches the catalog and renders the results.
	SubmitSearch(ctx context.Context) error

	// ClickEpisodes resolves the show of the clicked control and renders its episodes.
	ClickEpisodes(ctx context.Context, target *goquery.Selection) error

	// Reject records a user action that failed before reaching the catalog.
	// It supersedes any in-flight action and renders err.
	Reject(ctx context.Context, err error) error
}
