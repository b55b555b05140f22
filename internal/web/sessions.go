package web

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/google/uuid"
	lru "github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/Belphemur/ShowSearch/internal/cache"
	"github.com/Belphemur/ShowSearch/internal/client"
	"github.com/Belphemur/ShowSearch/internal/config"
	"github.com/Belphemur/ShowSearch/internal/metrics"
	"github.com/Belphemur/ShowSearch/internal/models"
	"github.com/Belphemur/ShowSearch/internal/services"
	"github.com/Belphemur/ShowSearch/internal/view"
)

// SessionCookie carries the session id between requests.
const SessionCookie = "showsearch_session"

// session is one browser's page and the ShowBrowser driving it.
type session struct {
	id      string
	mu      sync.Mutex // guards page; taken after the browser's own lock
	page    *view.Page
	render  *view.Renderer
	browser services.ShowBrowser
}

// html serializes the page.
func (s *session) html() (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.page.HTML()
}

func (s *session) setSearchTerm(term string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.page.SetSearchTerm(term)
}

func (s *session) episodeControl(index int) (*goquery.Selection, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.page.EpisodeControl(index)
}

// lockedRenderer serializes renderer calls with the rest of the session.
type lockedRenderer struct {
	s *session
}

func (l lockedRenderer) RenderShowList(shows []models.Show) error {
	l.s.mu.Lock()
	defer l.s.mu.Unlock()
	return l.s.render.RenderShowList(shows)
}

func (l lockedRenderer) RenderEpisodeList(episodes []models.Episode) error {
	l.s.mu.Lock()
	defer l.s.mu.Unlock()
	return l.s.render.RenderEpisodeList(episodes)
}

func (l lockedRenderer) RenderError(err error) {
	l.s.mu.Lock()
	defer l.s.mu.Unlock()
	l.s.render.RenderError(err)
}

func (l lockedRenderer) ClearError() {
	l.s.mu.Lock()
	defer l.s.mu.Unlock()
	l.s.render.ClearError()
}

func (l lockedRenderer) SearchTerm() string {
	l.s.mu.Lock()
	defer l.s.mu.Unlock()
	return l.s.render.SearchTerm()
}

func (l lockedRenderer) ShowIDFor(target *goquery.Selection) (string, error) {
	l.s.mu.Lock()
	defer l.s.mu.Unlock()
	return l.s.render.ShowIDFor(target)
}

// sessionStore keeps live sessions in process and mirrors every page to a
// snapshot cache, from which a session is rebuilt after eviction or restart.
type sessionStore struct {
	client       client.Client
	snapshots    cache.Cache
	defaultImage string

	mu   sync.Mutex // makes check-then-add of a live session atomic
	live *lru.LRU[string, *session]
}

func newSessionStore(c client.Client, snapshots cache.Cache, size int, ttl time.Duration, defaultImage string) *sessionStore {
	onEvict := func(string, *session) {
		metrics.ActiveSessions.Dec()
	}
	return &sessionStore{
		client:       c,
		snapshots:    snapshots,
		defaultImage: defaultImage,
		live:         lru.NewLRU[string, *session](size, onEvict, ttl),
	}
}

// session returns the session named by the request cookie, restoring it from
// its snapshot when it is no longer live. A request without a usable cookie
// gets a new session and a Set-Cookie header.
func (st *sessionStore) session(w http.ResponseWriter, r *http.Request) (*session, error) {
	logger := config.GetLogger()

	id := ""
	if cookie, err := r.Cookie(SessionCookie); err == nil {
		if parsed, err := uuid.Parse(cookie.Value); err == nil {
			id = parsed.String()
		}
	}

	if id != "" {
		if s, ok := st.live.Get(id); ok {
			return s, nil
		}
		page, err := st.restore(r.Context(), id)
		if err == nil {
			logger.Debug().Str("session", id).Msg("Session restored from snapshot")
			return st.adopt(id, page)
		}
		if !errors.Is(err, cache.ErrMiss) {
			logger.Warn().Err(err).Str("session", id).Msg("Session snapshot unusable, starting over")
		}
	}

	page, err := view.NewPage()
	if err != nil {
		return nil, err
	}
	id = uuid.NewString()
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    id,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	logger.Debug().Str("session", id).Msg("New session")
	return st.adopt(id, page)
}

// restore rebuilds a page from its snapshot. A snapshot that no longer parses
// is deleted so the next request does not read it again.
func (st *sessionStore) restore(ctx context.Context, id string) (*view.Page, error) {
	snapshot, err := st.snapshots.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	page, err := view.LoadPage(bytes.NewReader(snapshot))
	if err != nil {
		if delErr := st.snapshots.Delete(ctx, id); delErr != nil {
			logger := config.GetLogger()
			logger.Warn().Err(delErr).Str("session", id).Msg("Failed to delete unusable snapshot")
		}
		return nil, err
	}
	return page, nil
}

// adopt makes page the live session id, unless a concurrent request with the
// same cookie got there first, in which case that session wins.
func (st *sessionStore) adopt(id string, page *view.Page) (*session, error) {
	st.mu.Lock()
	defer st.mu.Unlock()

	if s, ok := st.live.Get(id); ok {
		return s, nil
	}
	return st.add(id, page)
}

func (st *sessionStore) add(id string, page *view.Page) (*session, error) {
	render, err := view.NewRenderer(page.Targets(), view.WithDefaultImage(st.defaultImage))
	if err != nil {
		return nil, err
	}
	s := &session{id: id, page: page, render: render}
	s.browser = services.Initialize(st.client, lockedRenderer{s: s})

	st.live.Add(id, s)
	metrics.ActiveSessions.Inc()
	return s, nil
}

// save writes the session's page to the snapshot cache.
func (st *sessionStore) save(ctx context.Context, s *session) error {
	html, err := s.html()
	if err != nil {
		return err
	}
	return st.snapshots.Set(ctx, s.id, []byte(html))
}
