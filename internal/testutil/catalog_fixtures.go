package testutil

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
)

// StringPtr is a helper for creating *string values in tests
func StringPtr(v string) *string {
	return &v
}

// ShowFixture describes one search result of a fake catalog response
type ShowFixture struct {
	ID      int
	Name    string
	Summary *string // nil renders "summary": null
	Image   string  // original artwork URL; empty renders "image": null
}

// EpisodeFixture describes one record of a fake episodes response.
// Season and Number are emitted verbatim, so ints, strings and nil all work.
type EpisodeFixture struct {
	ID     int
	Name   string
	Season interface{}
	Number interface{}
}

// GenerateSearchJSON renders shows the way the catalog search endpoint does
func GenerateSearchJSON(shows []ShowFixture) string {
	type image struct {
		Medium   string `json:"medium"`
		Original string `json:"original"`
	}
	type show struct {
		ID      int     `json:"id"`
		Name    string  `json:"name"`
		Summary *string `json:"summary"`
		Image   *image  `json:"image"`
	}
	type result struct {
		Score float64 `json:"score"`
		Show  show    `json:"show"`
	}

	results := make([]result, 0, len(shows))
	for i, s := range shows {
		r := result{
			Score: 1 / float64(i+1),
			Show:  show{ID: s.ID, Name: s.Name, Summary: s.Summary},
		}
		if s.Image != "" {
			r.Show.Image = &image{Medium: strings.Replace(s.Image, "original", "medium", 1), Original: s.Image}
		}
		results = append(results, r)
	}
	return mustJSON(results)
}

// GenerateEpisodesJSON renders episodes the way the catalog episodes endpoint does
func GenerateEpisodesJSON(episodes []EpisodeFixture) string {
	type episode struct {
		ID     int         `json:"id"`
		Name   string      `json:"name"`
		Season interface{} `json:"season"`
		Number interface{} `json:"number"`
	}

	records := make([]episode, 0, len(episodes))
	for _, e := range episodes {
		records = append(records, episode(e))
	}
	return mustJSON(records)
}

func mustJSON(v interface{}) string {
	b, err := json.Marshal(v)
	if err != nil {
		panic(err)
	}
	return string(b)
}

// FakeCatalog is an httptest server that answers like the catalog API and
// records every request path it receives.
type FakeCatalog struct {
	Server *httptest.Server

	mu       sync.Mutex
	search   map[string]string
	episodes map[string]string
	requests []string
	hook     func(r *http.Request)
}

// NewFakeCatalog starts a fake catalog that is shut down when the test ends.
// Unknown search terms answer "[]"; unknown show ids answer 404.
func NewFakeCatalog(t *testing.T) *FakeCatalog {
	t.Helper()
	fc := &FakeCatalog{
		search:   make(map[string]string),
		episodes: make(map[string]string),
	}
	fc.Server = httptest.NewServer(http.HandlerFunc(fc.serve))
	t.Cleanup(fc.Server.Close)
	return fc
}

// URL returns the base URL of the fake catalog
func (fc *FakeCatalog) URL() string {
	return fc.Server.URL
}

// SetSearch registers the raw payload returned for a search term
func (fc *FakeCatalog) SetSearch(term, payload string) {
	fc.mu.Lock()
	defer fc.mu.Unlock()
	fc.search[term] = payload
}

// SetEpisodes registers the raw payload returned for a show id
func (fc *FakeCatalog) SetEpisodes(showID, payload string) {
	fc.mu.Lock()
	defer fc.mu.Unlock()
	fc.episodes[showID] = payload
}

// OnRequest installs a hook run before every response, e.g. to block or delay.
func (fc *FakeCatalog) OnRequest(hook func(r *http.Request)) {
	fc.mu.Lock()
	defer fc.mu.Unlock()
	fc.hook = hook
}

// Requests returns the request URIs received so far, in order
func (fc *FakeCatalog) Requests() []string {
	fc.mu.Lock()
	defer fc.mu.Unlock()
	return append([]string(nil), fc.requests...)
}

func (fc *FakeCatalog) serve(w http.ResponseWriter, r *http.Request) {
	fc.mu.Lock()
	fc.requests = append(fc.requests, r.URL.RequestURI())
	hook := fc.hook
	fc.mu.Unlock()

	if hook != nil {
		hook(r)
	}

	fc.mu.Lock()
	defer fc.mu.Unlock()

	switch {
	case r.URL.Path == "/search/shows":
		payload, ok := fc.search[r.URL.Query().Get("q")]
		if !ok {
			payload = "[]"
		}
		writeJSON(w, payload)
	case strings.HasPrefix(r.URL.Path, "/shows/") && strings.HasSuffix(r.URL.Path, "/episodes"):
		id := strings.TrimSuffix(strings.TrimPrefix(r.URL.Path, "/shows/"), "/episodes")
		payload, ok := fc.episodes[id]
		if !ok {
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte(`{"name":"Not Found","status":404}`))
			return
		}
		writeJSON(w, payload)
	default:
		w.WriteHeader(http.StatusNotFound)
	}
}

func writeJSON(w http.ResponseWriter, payload string) {
	w.Header().Set("Content-Type", "application/json; charset=UTF-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(payload))
}
