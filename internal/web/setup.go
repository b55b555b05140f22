package web

import (
	"net"
	"net/http"
	"strconv"
	"time"

	sentryhttp "github.com/getsentry/sentry-go/http"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/Belphemur/ShowSearch/internal/metrics"
)

// DefaultPort is used when the server port is not configured.
const DefaultPort = 8080

// Handler returns the routes wrapped with request metrics and Sentry.
// Without sentry.Init the Sentry layer only attaches an inert hub.
func (s *Server) Handler() http.Handler {
	sentryHandler := sentryhttp.New(sentryhttp.Options{Repanic: true})
	return promhttp.InstrumentHandlerDuration(metrics.HTTPRequestDuration, sentryHandler.Handle(s.router))
}

// NewHTTPServer creates the user-facing listener around Handler.
func NewHTTPServer(address string, port int, handler http.Handler) *http.Server {
	if port == 0 {
		port = DefaultPort
	}
	return &http.Server{
		Addr:              net.JoinHostPort(address, strconv.Itoa(port)),
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}
}
