// Package web serves the toast surface to browsers: a demo page rendered with
// gomponents, a JSON API, and a datastar event stream that mirrors the
// manager's surface calls.
package web

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"math"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/starfederation/datastar-go/datastar"
	g "maragu.dev/gomponents"

	"github.com/jmylchreest/toastd/internal/theme"
	"github.com/jmylchreest/toastd/internal/toast"
)

// ThemeStore reads and toggles the colour scheme preference.
type ThemeStore interface {
	Current() theme.Mode
	Toggle() (theme.Mode, error)
}

// Stylesheet supplies the CSS served at /static/toast.css.
type Stylesheet interface {
	CSS() string
}

// Server wires a toast.Manager and its web Surface to HTTP.
type Server struct {
	manager *toast.Manager
	surface *Surface
	themes  ThemeStore
	css     Stylesheet
	logger  *slog.Logger
	title   string
	origins []string
	router  chi.Router
}

// ServerOption configures a Server.
type ServerOption func(*Server)

// WithAllowedOrigins enables CORS for the given origins so pages served
// elsewhere can drive the JSON API.
func WithAllowedOrigins(origins ...string) ServerOption {
	return func(s *Server) {
		s.origins = append(s.origins, origins...)
	}
}

// NewServer creates the HTTP handler. The manager must render into surface.
func NewServer(manager *toast.Manager, surface *Surface, themes ThemeStore, css Stylesheet, logger *slog.Logger, opts ...ServerOption) *Server {
	if logger == nil {
		logger = slog.Default()
	}

	s := &Server{
		manager: manager,
		surface: surface,
		themes:  themes,
		css:     css,
		logger:  logger,
		title:   "toastd",
	}
	for _, opt := range opts {
		opt(s)
	}
	s.router = s.routes()
	return s
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.logRequests)
	r.Use(middleware.Recoverer)
	if len(s.origins) > 0 {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins: s.origins,
			AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodDelete, http.MethodOptions},
			AllowedHeaders: []string{"Accept", "Content-Type", "Datastar-Request"},
			MaxAge:         300,
		}))
	}

	r.Get("/", s.handlePage)
	r.Get("/static/toast.css", s.handleStylesheet)

	r.Route("/toasts", func(r chi.Router) {
		r.Get("/", s.handleList)
		r.Post("/", s.handleShow)
		r.Delete("/", s.handleDismissAll)
		r.Get("/events", s.handleEvents)
		r.Get("/{id}", s.handleGet)
		r.Post("/{id}/dismiss", s.handleDismiss)
	})

	r.Get("/theme", s.handleTheme)
	r.Post("/theme/toggle", s.handleThemeToggle)

	return r
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s,
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(_ net.Listener) context.Context { return ctx },
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("http server listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	s.logger.Info("http server stopped")
	return nil
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.logger.Debug("http request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"duration", time.Since(start),
			"request_id", middleware.GetReqID(r.Context()),
		)
	})
}

func (s *Server) handlePage(w http.ResponseWriter, r *http.Request) {
	attached, entries := s.surface.Snapshot()
	renderHTML(w, http.StatusOK, Page(PageData{
		Title:      s.title,
		Theme:      s.themes.Current(),
		Attached:   attached,
		Entries:    entries,
		CloseLabel: s.surface.CloseLabel(),
	}))
}

func (s *Server) handleStylesheet(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/css; charset=utf-8")
	w.Header().Set("Cache-Control", "no-cache")
	_, _ = w.Write([]byte(s.css.CSS()))
}

// ToastResponse is the JSON view of an entry served at /toasts.
type ToastResponse struct {
	ID         string     `json:"id"`
	Title      string     `json:"title,omitempty"`
	Message    string     `json:"message"`
	Severity   string     `json:"severity"`
	Icon       string     `json:"icon"`
	State      string     `json:"state"`
	DurationMs int64      `json:"durationMs"`
	CreatedAt  time.Time  `json:"createdAt"`
	ExpiresAt  *time.Time `json:"expiresAt,omitempty"`
}

func newToastResponse(e toast.Entry) ToastResponse {
	resp := ToastResponse{
		ID:         e.Handle.String(),
		Title:      e.Title,
		Message:    e.Message,
		Severity:   e.Severity.String(),
		Icon:       e.Severity.Icon(),
		State:      e.State.String(),
		DurationMs: e.Duration.Milliseconds(),
		CreatedAt:  e.CreatedAt,
	}
	if e.Expires() {
		at := e.ExpiresAt()
		resp.ExpiresAt = &at
	}
	return resp
}

func (s *Server) handleList(w http.ResponseWriter, r *http.Request) {
	entries := s.manager.Entries()
	out := make([]ToastResponse, 0, len(entries))
	for _, e := range entries {
		out = append(out, newToastResponse(e))
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleGet(w http.ResponseWriter, r *http.Request) {
	e, ok := s.manager.Get(toast.Handle(chi.URLParam(r, "id")))
	if !ok {
		writeError(w, http.StatusNotFound, "toast not found")
		return
	}
	writeJSON(w, http.StatusOK, newToastResponse(e))
}

// ShowRequest is the body of POST /toasts. Unknown keys are ignored.
type ShowRequest struct {
	Title      string `json:"title"`
	Message    string `json:"message"`
	Severity   string `json:"severity"`
	DurationMs *int64 `json:"durationMs"`
}

// Config converts the request, validating the severity at the boundary.
func (req ShowRequest) Config() toast.Config {
	cfg := toast.Config{
		Title:    req.Title,
		Message:  req.Message,
		Severity: toast.ParseSeverity(req.Severity),
	}
	if req.DurationMs != nil {
		cfg.Duration = toast.For(millis(*req.DurationMs))
	}
	return cfg
}

// maxDurationMs is the largest millisecond count a time.Duration can hold.
const maxDurationMs = math.MaxInt64 / int64(time.Millisecond)

// millis converts ms to a duration, clamping instead of overflowing.
func millis(ms int64) time.Duration {
	switch {
	case ms <= 0:
		return 0
	case ms > maxDurationMs:
		return time.Duration(maxDurationMs) * time.Millisecond
	default:
		return time.Duration(ms) * time.Millisecond
	}
}

func (s *Server) handleShow(w http.ResponseWriter, r *http.Request) {
	var req ShowRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 64<<10)).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	h := s.manager.Show(req.Config())

	if isDatastar(r) {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"id": h.String()})
}

func (s *Server) handleDismiss(w http.ResponseWriter, r *http.Request) {
	h := toast.Handle(chi.URLParam(r, "id"))
	if _, ok := s.manager.Get(h); !ok {
		writeError(w, http.StatusNotFound, "toast not found")
		return
	}

	// Dismissing an entry that is already leaving is a no-op, not an error.
	s.manager.Dismiss(h)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleDismissAll(w http.ResponseWriter, r *http.Request) {
	n := s.manager.DismissAll()
	if isDatastar(r) {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int{"dismissed": n})
}

// handleEvents streams surface patches until the client goes away.
func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	patches, unsubscribe := s.surface.Subscribe()
	defer unsubscribe()

	sse := datastar.NewSSE(w, r)
	ctx := r.Context()

	for {
		select {
		case <-ctx.Done():
			return
		case p, ok := <-patches:
			if !ok {
				return
			}
			var err error
			if p.Signals != nil {
				err = sse.PatchSignals(p.Signals)
			} else {
				err = sse.PatchElements(p.Elements, p.Options()...)
			}
			if err != nil {
				s.logger.Debug("toast stream closed", "error", err)
				return
			}
		}
	}
}

func (s *Server) handleTheme(w http.ResponseWriter, r *http.Request) {
	m := s.themes.Current()
	writeJSON(w, http.StatusOK, map[string]string{"theme": m.String(), "toggleIcon": m.ToggleIcon()})
}

func (s *Server) handleThemeToggle(w http.ResponseWriter, r *http.Request) {
	m, err := s.themes.Toggle()
	if err != nil {
		s.logger.Error("failed to toggle theme", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to save theme")
		return
	}
	s.surface.SetTheme(m)

	if isDatastar(r) {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"theme": m.String(), "toggleIcon": m.ToggleIcon()})
}

// isDatastar reports whether the request came from a datastar action, which
// receives its updates over the event stream.
func isDatastar(r *http.Request) bool {
	return r.Header.Get("Datastar-Request") == "true"
}

func renderHTML(w http.ResponseWriter, status int, node g.Node) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_ = node.Render(w)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
