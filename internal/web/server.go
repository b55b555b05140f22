package web

import (
	"errors"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/gorilla/mux"
	"github.com/rs/zerolog"

	"github.com/Belphemur/ShowSearch/internal/apperrors"
	"github.com/Belphemur/ShowSearch/internal/cache"
	"github.com/Belphemur/ShowSearch/internal/client"
	"github.com/Belphemur/ShowSearch/internal/config"
)

// Server serves the show search page to browsers.
type Server struct {
	sessions *sessionStore
	router   *mux.Router
	logger   zerolog.Logger
}

type settings struct {
	liveSessions int
	sessionTTL   time.Duration
	defaultImage string
}

// Option customizes a Server.
type Option func(*settings)

// WithLiveSessions bounds the sessions kept in process. Older ones are rebuilt from their snapshot.
func WithLiveSessions(size int, ttl time.Duration) Option {
	return func(s *settings) {
		if size > 0 {
			s.liveSessions = size
		}
		if ttl > 0 {
			s.sessionTTL = ttl
		}
	}
}

// WithDefaultImage sets the artwork used for shows without an image.
func WithDefaultImage(url string) Option {
	return func(s *settings) {
		if url != "" {
			s.defaultImage = url
		}
	}
}

// NewServer wires the page routes on top of a catalog client and a snapshot cache.
func NewServer(c client.Client, snapshots cache.Cache, opts ...Option) *Server {
	st := settings{
		liveSessions: 1000,
		sessionTTL:   time.Hour,
		defaultImage: config.DefaultImageURL,
	}
	for _, opt := range opts {
		opt(&st)
	}

	s := &Server{
		sessions: newSessionStore(c, snapshots, st.liveSessions, st.sessionTTL, st.defaultImage),
		router:   mux.NewRouter(),
		logger:   config.GetLogger(),
	}
	s.router.HandleFunc("/", s.handlePage).Methods(http.MethodGet)
	s.router.HandleFunc("/search", s.handleSearch).Methods(http.MethodPost)
	s.router.HandleFunc("/episodes", s.handleEpisodes).Methods(http.MethodPost)
	s.router.HandleFunc("/healthz", handleHealth).Methods(http.MethodGet)
	return s
}

func (s *Server) handlePage(w http.ResponseWriter, r *http.Request) {
	sess, err := s.sessions.session(w, r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.writePage(w, r, sess, http.StatusOK)
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	sess, err := s.sessions.session(w, r)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	sess.setSearchTerm(r.PostFormValue("term"))
	err = sess.browser.SubmitSearch(r.Context())
	s.writePage(w, r, sess, s.statusFor(r, err))
}

func (s *Server) handleEpisodes(w http.ResponseWriter, r *http.Request) {
	sess, err := s.sessions.session(w, r)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	index, err := strconv.Atoi(r.PostFormValue("control"))
	if err != nil {
		index = -1
	}
	control, err := sess.episodeControl(index)
	if err != nil {
		err = sess.browser.Reject(r.Context(), err)
	} else {
		err = sess.browser.ClickEpisodes(r.Context(), control)
	}
	s.writePage(w, r, sess, s.statusFor(r, err))
}

func handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = io.WriteString(w, `{"status":"ok"}`)
}

// statusFor maps the outcome of a user action to a response status and
// reports catalog failures to Sentry.
func (s *Server) statusFor(r *http.Request, err error) int {
	switch {
	case err == nil, errors.Is(err, apperrors.ErrSuperseded):
		return http.StatusOK
	case errors.Is(err, &apperrors.ErrNotFound{}):
		return http.StatusNotFound
	case errors.Is(err, &apperrors.ErrInvalidArgument{}):
		return http.StatusBadRequest
	default:
		if hub := sentry.GetHubFromContext(r.Context()); hub != nil {
			hub.CaptureException(err)
		}
		return http.StatusBadGateway
	}
}

// writePage stores the session snapshot and sends the page.
func (s *Server) writePage(w http.ResponseWriter, r *http.Request, sess *session, status int) {
	if err := s.sessions.save(r.Context(), sess); err != nil {
		s.logger.Warn().Err(err).Str("session", sess.id).Msg("Failed to store session snapshot")
	}
	html, err := sess.html()
	if err != nil {
		s.fail(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = io.WriteString(w, html)
}

func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	s.logger.Error().Err(err).Str("path", r.URL.Path).Msg("Request failed")
	if hub := sentry.GetHubFromContext(r.Context()); hub != nil {
		hub.CaptureException(err)
	}
	http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
}
