// ABOUTME: HTTP server and route handlers for the tagging UI
// ABOUTME: Translates catalog operations into pages, redirects and files

package web

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/browser"

	"github.com/pictag/pictag/internal/catalog"
	"github.com/pictag/pictag/internal/config"
)

// Server serves the single-user tagging interface over HTTP.
type Server struct {
	cfg     *config.Reader
	catalog *catalog.Catalog
	logger  *slog.Logger

	// OpenBrowser opens the local browser at the server URL on startup.
	OpenBrowser bool
}

// New creates the web server around an initialized catalog.
func New(cfg *config.Reader, cat *catalog.Catalog) *Server {
	return &Server{
		cfg:         cfg,
		catalog:     cat,
		logger:      slog.Default().With("component", "web"),
		OpenBrowser: true,
	}
}

// Handler returns the route table for the tagging UI.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", s.handleIndex)
	mux.HandleFunc("GET /show_image", s.handleShowImage)
	mux.HandleFunc("POST /store_tags", s.handleStoreTags)
	mux.HandleFunc("GET /image_tags.csv", s.handleDownloadTags)
	return mux
}

// Run starts the server on the configured host and port and blocks until the
// context is cancelled or the listener fails.
func (s *Server) Run(ctx context.Context) error {
	host := s.cfg.StringOr("server/host", "127.0.0.1")
	addr := net.JoinHostPort(host, s.port())
	srv := &http.Server{Addr: addr, Handler: s.Handler()}

	s.logger.Info("serving tagging interface", "addr", addr)

	if s.OpenBrowser {
		if err := browser.OpenURL(fmt.Sprintf("http://%s/", addr)); err != nil {
			s.logger.Warn("could not open browser", "error", err)
		}
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

// port reads server/port, accepting either an integer or a string value.
func (s *Server) port() string {
	v, _ := s.cfg.Get("server/port", config.String("8080"), config.NotFoundSilent)
	if i, ok := v.AsInt(); ok {
		return strconv.Itoa(i)
	}
	if p, ok := v.AsString(); ok {
		return p
	}
	return "8080"
}

// handleIndex shows the tagging page. Without an image_id parameter it
// redirects to the first untagged image.
func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	imageID := r.URL.Query().Get("image_id")
	if imageID == "" {
		http.Redirect(w, r, imageURL(s.catalog.FirstUntaggedID()), http.StatusFound)
		return
	}
	s.renderTagPage(w, imageID)
}

// handleShowImage streams the image file for the requested ID.
func (s *Server) handleShowImage(w http.ResponseWriter, r *http.Request) {
	rec, err := s.catalog.Get(r.URL.Query().Get("image_id"))
	if err != nil {
		s.respondError(w, err)
		return
	}
	http.ServeFile(w, r, rec.Path)
}

// handleStoreTags persists the submitted tag form and advances to the next
// image, or back to the index at the end of the catalog.
func (s *Server) handleStoreTags(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "bad form data", http.StatusBadRequest)
		return
	}

	sep := s.cfg.StringOr("tagging/multi-separator", ", ")
	data := map[string]string{
		"id":     r.PostForm.Get("id"),
		"tags":   strings.Join(r.PostForm["tags"], sep),
		"remark": strings.TrimSpace(r.PostForm.Get("remark")),
	}
	if err := s.catalog.Store(r.Context(), data); err != nil {
		s.respondError(w, err)
		return
	}

	next, err := s.catalog.NextID(data["id"])
	if err != nil {
		s.respondError(w, err)
		return
	}
	target := "/"
	if next != "" {
		target = imageURL(next)
	}
	http.Redirect(w, r, target, http.StatusFound)
}

// handleDownloadTags exports every tagged record as CSV.
func (s *Server) handleDownloadTags(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")

	cw := csv.NewWriter(w)
	records := [][]string{{"id", "path", "tags", "remark", "updated"}}
	for _, rec := range s.catalog.DumpData() {
		records = append(records, []string{rec.ID, rec.Path, rec.Tags, rec.Remark, rec.Updated})
	}
	if err := cw.WriteAll(records); err != nil {
		s.logger.Error("failed to write CSV export", "error", err)
	}
}

// respondError maps catalog errors onto HTTP status codes.
func (s *Server) respondError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, catalog.ErrNotFound):
		http.Error(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, catalog.ErrMissingField):
		http.Error(w, err.Error(), http.StatusBadRequest)
	default:
		s.logger.Error("request failed", "error", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func imageURL(id string) string {
	return "/?image_id=" + url.QueryEscape(id)
}
