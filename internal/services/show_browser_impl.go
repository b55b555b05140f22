package services

import (
	"context"
	"errors"
	"sync"

	"github.com/PuerkitoBio/goquery"

	"github.com/Belphemur/ShowSearch/internal/apperrors"
	"github.com/Belphemur/ShowSearch/internal/client"
	"github.com/Belphemur/ShowSearch/internal/config"
	"github.com/Belphemur/ShowSearch/internal/metrics"
)

const (
	actionSearch   = "search"
	actionEpisodes = "episodes"
)

// DefaultShowBrowser implements ShowBrowser.
//
// A new action cancels whichever action is still in flight; a response that
// arrives after its action was superseded is dropped without rendering, so the
// latest action always decides what the page shows.
type DefaultShowBrowser struct {
	client   client.Client
	renderer Renderer

	mu         sync.Mutex // guards generation, cancel and every renderer call
	generation uint64
	cancel     context.CancelFunc
}

// Initialize wires a catalog client to a renderer. Call it once per page.
func Initialize(c client.Client, r Renderer) ShowBrowser {
	return &DefaultShowBrowser{client: c, renderer: r}
}

// SubmitSearch implements ShowBrowser.SubmitSearch
func (b *DefaultShowBrowser) SubmitSearch(ctx context.Context) error {
	logger := config.GetLogger()

	ctx, gen, term := b.beginSearch(ctx)
	logger.Debug().Str("term", term).Uint64("generation", gen).Msg("Search submitted")

	shows, err := b.client.SearchShows(ctx, term)

	return b.finish(actionSearch, gen, err, func() error {
		if err := b.renderer.RenderShowList(shows); err != nil {
			return err
		}
		b.renderer.ClearError()
		return nil
	})
}

// ClickEpisodes implements ShowBrowser.ClickEpisodes
func (b *DefaultShowBrowser) ClickEpisodes(ctx context.Context, target *goquery.Selection) error {
	logger := config.GetLogger()

	b.mu.Lock()
	showID, err := b.renderer.ShowIDFor(target)
	b.mu.Unlock()
	if err != nil {
		logger.Warn().Err(err).Msg("Episodes control could not be resolved")
		return b.Reject(ctx, err)
	}

	ctx, gen := b.begin(ctx)
	logger.Debug().Str("showID", showID).Uint64("generation", gen).Msg("Episodes requested")

	episodes, err := b.client.FetchEpisodes(ctx, showID)

	return b.finish(actionEpisodes, gen, err, func() error {
		if err := b.renderer.RenderEpisodeList(episodes); err != nil {
			return err
		}
		b.renderer.ClearError()
		return nil
	})
}

// Reject implements ShowBrowser.Reject
func (b *DefaultShowBrowser) Reject(ctx context.Context, err error) error {
	if err == nil {
		return nil
	}
	_, gen := b.begin(ctx)
	return b.finish(actionEpisodes, gen, err, nil)
}

func (b *DefaultShowBrowser) beginSearch(ctx context.Context) (context.Context, uint64, string) {
	b.mu.Lock()
	term := b.renderer.SearchTerm()
	b.mu.Unlock()

	ctx, gen := b.begin(ctx)
	return ctx, gen, term
}

// begin cancels the in-flight action, if any, and starts a new generation.
func (b *DefaultShowBrowser) begin(ctx context.Context) (context.Context, uint64) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.cancel != nil {
		b.cancel()
	}
	ctx, cancel := context.WithCancel(ctx)
	b.generation++
	b.cancel = cancel
	return ctx, b.generation
}

// finish renders the outcome of generation gen unless a newer action started meanwhile.
func (b *DefaultShowBrowser) finish(action string, gen uint64, fetchErr error, render func() error) error {
	logger := config.GetLogger()

	b.mu.Lock()
	defer b.mu.Unlock()

	if gen != b.generation {
		metrics.UserActionsTotal.WithLabelValues(action, "superseded").Inc()
		logger.Debug().Str("action", action).Uint64("generation", gen).Msg("Dropping superseded response")
		if fetchErr != nil && !errors.Is(fetchErr, context.Canceled) {
			return errors.Join(apperrors.ErrSuperseded, fetchErr)
		}
		return apperrors.ErrSuperseded
	}
	b.cancel()
	b.cancel = nil

	if fetchErr != nil {
		b.renderer.RenderError(fetchErr)
		metrics.UserActionsTotal.WithLabelValues(action, "error").Inc()
		logger.Error().Err(fetchErr).Str("action", action).Msg("Action failed")
		return fetchErr
	}

	if err := render(); err != nil {
		b.renderer.RenderError(err)
		metrics.UserActionsTotal.WithLabelValues(action, "error").Inc()
		logger.Error().Err(err).Str("action", action).Msg("Rendering failed")
		return err
	}

	metrics.UserActionsTotal.WithLabelValues(action, "success").Inc()
	return nil
}
