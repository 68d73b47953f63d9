package plotter

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"net"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/sdjayna/penplot/pkg/archive"
	"github.com/sdjayna/penplot/pkg/buildinfo"
	"github.com/sdjayna/penplot/pkg/errors"
)

const (
	maxBodyBytes    = 32 << 20
	shutdownTimeout = 10 * time.Second
)

// SaveRequest is the body of POST /save-svg.
type SaveRequest struct {
	Name   string          `json:"name"`
	SVG    string          `json:"svg"`
	Config json.RawMessage `json:"config,omitempty"`
}

// SaveResponse is the success body of POST /save-svg.
type SaveResponse struct {
	Status   string `json:"status"`
	Filename string `json:"filename"`
	ID       string `json:"id,omitempty"`
}

// StatusResponse is the body of GET /status.
type StatusResponse struct {
	Version     string `json:"version"`
	Plotting    bool   `json:"plotting"`
	JobID       string `json:"job_id,omitempty"`
	Subscribers int    `json:"subscribers"`
}

// Server exposes a Session over HTTP.
type Server struct {
	session *Session
	events  *Broadcaster
	archive archive.Store
	logger  *log.Logger
	router  chi.Router
}

// NewServer wires the routes. store may be nil, in which case /save-svg
// answers 501.
func NewServer(session *Session, events *Broadcaster, store archive.Store, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.Default()
	}
	s := &Server{session: session, events: events, archive: store, logger: logger}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(s.logRequests)
	r.Use(middleware.Recoverer)
	r.Use(cors)
	r.Use(middleware.Heartbeat("/healthz"))

	r.Post("/plotter", s.handleCommand)
	r.Post("/save-svg", s.handleSave)
	r.Get("/status", s.handleStatus)
	r.Method(http.MethodGet, "/plot-progress", events)
	s.router = r
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// ListenAndServe serves on addr until ctx is cancelled.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return errors.Wrap(errors.ErrCodeNetwork, err, "listen on %s", addr)
	}
	return s.Serve(ctx, ln)
}

// Serve accepts connections on ln until ctx is cancelled, then closes the
// progress streams, stops any running plot and shuts down gracefully.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s,
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}
	s.logger.Info("plotter server listening", "addr", ln.Addr().String())

	errc := make(chan error, 1)
	go func() { errc <- srv.Serve(ln) }()

	select {
	case err := <-errc:
		if stderrors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	s.logger.Info("shutting down plotter server")
	s.events.Close()
	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
	defer cancel()
	stopErr := s.session.Close(shutdownCtx)
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return stopErr
}

func (s *Server) handleCommand(w http.ResponseWriter, r *http.Request) {
	var req Request
	if !s.decode(w, r, &req) {
		return
	}
	s.logger.Debug("plotter command", "command", req.Command, "layer", req.Layer)

	resp, err := s.session.Execute(r.Context(), req)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleSave(w http.ResponseWriter, r *http.Request) {
	if s.archive == nil {
		s.writeError(w, r, errors.New(errors.ErrCodeUnsupported, "saving is not configured"))
		return
	}
	var req SaveRequest
	if !s.decode(w, r, &req) {
		return
	}
	var config any
	if len(req.Config) > 0 {
		if err := json.Unmarshal(req.Config, &config); err != nil {
			s.writeError(w, r, errors.Wrap(errors.ErrCodeInvalidInput, err, "invalid config"))
			return
		}
	}

	rec, err := s.archive.Save(r.Context(), archive.Entry{Name: req.Name, SVG: []byte(req.SVG), Config: config})
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.logger.Info("saved svg", "name", rec.Name, "location", rec.Location, "bytes", rec.Size)
	writeJSON(w, http.StatusOK, SaveResponse{Status: StatusSuccess, Filename: rec.Location, ID: rec.ID})
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := s.session.Active()
	writeJSON(w, http.StatusOK, StatusResponse{Version: buildinfo.Short(), Plotting: ok, JobID: id, Subscribers: s.events.Subscribers()})
}

func (s *Server) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		s.writeError(w, r, errors.Wrap(errors.ErrCodeInvalidInput, err, "invalid JSON body"))
		return false
	}
	return true
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := errors.HTTPStatus(err)
	if status >= 500 {
		s.logger.Error("request failed", "path", r.URL.Path, "request_id", middleware.GetReqID(r.Context()), "error", err)
	}
	writeJSON(w, status, Response{Status: StatusError, Message: errors.UserMessage(err)})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// cors allows the browser client on any origin to POST JSON and answers
// preflight requests directly.
func cors(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h := w.Header()
		h.Set("Access-Control-Allow-Origin", "*")
		if r.Method == http.MethodOptions {
			h.Set("Access-Control-Allow-Methods", "POST, OPTIONS")
			h.Set("Access-Control-Allow-Headers", "Content-Type")
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
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
			"bytes", ww.BytesWritten(),
			"duration", time.Since(start),
			"request_id", middleware.GetReqID(r.Context()))
	})
}
