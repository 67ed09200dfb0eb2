// Package api serves lock-file parsing over HTTP.
//
// Routes:
//
//	POST /v1/parse?format=<name>&output=json|yaml   parse the request body
//	POST /v1/detect                                 report the body's format
//	GET  /v1/formats                                list supported formats
//	GET  /healthz                                   liveness and build info
//
// Every response carries an X-Request-ID header. Failures are JSON objects
// with the error code of [github.com/matzehuels/lockparse/pkg/errors].
package api

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"

	"github.com/matzehuels/lockparse/pkg/buildinfo"
	errs "github.com/matzehuels/lockparse/pkg/errors"
	pkgio "github.com/matzehuels/lockparse/pkg/io"
	"github.com/matzehuels/lockparse/pkg/lockfile"
	"github.com/matzehuels/lockparse/pkg/observability"
	"github.com/matzehuels/lockparse/pkg/pipeline"
)

// RequestIDHeader carries the request ID on requests and responses.
const RequestIDHeader = "X-Request-ID"

// DefaultMaxBodyBytes bounds request bodies when Options leaves it unset.
const DefaultMaxBodyBytes = 16 << 20

// Options configures a Server.
type Options struct {
	// MaxBodyBytes bounds the request body. Zero means DefaultMaxBodyBytes.
	MaxBodyBytes int64
}

// Server is the HTTP front end of a pipeline.Runner.
type Server struct {
	runner  *pipeline.Runner
	logger  *log.Logger
	maxBody int64
}

// New creates a server that parses through runner.
func New(runner *pipeline.Runner, logger *log.Logger, opts Options) *Server {
	if logger == nil {
		logger = log.Default()
	}
	if opts.MaxBodyBytes <= 0 {
		opts.MaxBodyBytes = DefaultMaxBodyBytes
	}
	return &Server{runner: runner, logger: logger, maxBody: opts.MaxBodyBytes}
}

// Handler returns the routed handler.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(requestID)
	r.Use(instrument)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.health)
	r.Route("/v1", func(r chi.Router) {
		r.Get("/formats", s.formats)
		r.Post("/parse", s.parse)
		r.Post("/detect", s.detect)
	})
	return r
}

// =============================================================================
// Handlers
// =============================================================================

// ParseResponse is the body of a successful POST /v1/parse.
type ParseResponse struct {
	RequestID string          `json:"requestId"`
	Format    string          `json:"format"`
	Packages  int             `json:"packages"`
	Edges     int             `json:"edges"`
	Cached    bool            `json:"cached"`
	Document  json.RawMessage `json:"document"`
}

// DetectResponse is the body of a successful POST /v1/detect.
type DetectResponse struct {
	RequestID string `json:"requestId"`
	Format    string `json:"format"`
}

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	RequestID string    `json:"requestId"`
	Error     ErrorBody `json:"error"`
}

// ErrorBody describes a failure.
type ErrorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status": "ok",
		"build":  buildinfo.Get(),
	})
}

func (s *Server) formats(w http.ResponseWriter, r *http.Request) {
	names := make([]string, 0, len(lockfile.Formats()))
	for _, f := range lockfile.Formats() {
		names = append(names, f.String())
	}
	writeJSON(w, http.StatusOK, map[string]any{"formats": names})
}

func (s *Server) parse(w http.ResponseWriter, r *http.Request) {
	output := r.URL.Query().Get("output")
	if output == "" {
		output = pkgio.FormatJSON
	}
	if err := pkgio.ValidateFormat(output); err != nil {
		s.fail(w, r, err)
		return
	}

	text, err := s.readBody(w, r)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	res, err := s.runner.Parse(r.Context(), pipeline.Options{
		Text:         text,
		Format:       r.URL.Query().Get("format"),
		Source:       "request " + requestIDFrom(r),
		MaxInputSize: int(s.maxBody),
	})
	if err != nil {
		s.fail(w, r, err)
		return
	}

	if output == pkgio.FormatYAML {
		w.Header().Set("Content-Type", "application/yaml")
		w.WriteHeader(http.StatusOK)
		if err := pkgio.WriteYAML(res.Document, w); err != nil {
			s.logger.Warn("write response", "error", err)
		}
		return
	}

	doc, err := pkgio.MarshalJSON(res.Document)
	if err != nil {
		s.fail(w, r, errs.Wrap(errs.ErrCodeInternal, err, "encode document"))
		return
	}
	writeJSON(w, http.StatusOK, ParseResponse{
		RequestID: requestIDFrom(r),
		Format:    res.Format.String(),
		Packages:  res.Stats.Packages,
		Edges:     res.Stats.Edges,
		Cached:    res.CacheInfo.ParseHit,
		Document:  doc,
	})
}

func (s *Server) detect(w http.ResponseWriter, r *http.Request) {
	text, err := s.readBody(w, r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	format, err := s.runner.Detect(r.Context(), text)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if format == lockfile.FormatUnknown {
		s.fail(w, r, errs.New(errs.ErrCodeDetection, "unable to determine lock-file format"))
		return
	}
	writeJSON(w, http.StatusOK, DetectResponse{RequestID: requestIDFrom(r), Format: format.String()})
}

func (s *Server) readBody(w http.ResponseWriter, r *http.Request) (string, error) {
	data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, s.maxBody))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return "", errs.New(errs.ErrCodeInvalidInput, "request body too large (max %d bytes)", tooLarge.Limit)
		}
		return "", errs.Wrap(errs.ErrCodeInvalidInput, err, "read request body")
	}
	return string(data), nil
}

// =============================================================================
// Errors
// =============================================================================

// StatusFor maps an error to its HTTP status: 422 when the lock file was
// recognized but could not be parsed, 400 for unrecognized or invalid input
// and 500 otherwise.
func StatusFor(err error) int {
	if errs.IsParseFailure(err) {
		return http.StatusUnprocessableEntity
	}
	switch errs.GetCode(err) {
	case errs.ErrCodeDetection, errs.ErrCodeInvalidInput, errs.ErrCodeInvalidFormat:
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	status := StatusFor(err)
	code := errs.GetCode(err)
	msg := errs.UserMessage(err)
	if code == "" || status == http.StatusInternalServerError {
		code = errs.ErrCodeInternal
		s.logger.Error("request failed", "id", requestIDFrom(r), "error", err)
		msg = "internal error"
	}

	observability.HTTP().OnError(r.Context(), requestIDFrom(r), r.Method, routePattern(r), err)
	writeJSON(w, status, ErrorResponse{
		RequestID: requestIDFrom(r),
		Error:     ErrorBody{Code: string(code), Message: msg},
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// =============================================================================
// Middleware
// =============================================================================

type ctxKey int

const requestIDKey ctxKey = 0

// requestID assigns each request a UUID, or keeps a valid one supplied by
// the client, and echoes it in the response header.
func requestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(RequestIDHeader)
		if _, err := uuid.Parse(id); err != nil {
			id = uuid.NewString()
		}
		w.Header().Set(RequestIDHeader, id)
		next.ServeHTTP(w, r.WithContext(contextWithRequestID(r.Context(), id)))
	})
}

// instrument reports each request and its response to the HTTP hooks.
func instrument(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		hooks := observability.HTTP()
		id := requestIDFrom(r)

		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		hooks.OnRequest(r.Context(), id, r.Method, r.URL.Path)
		next.ServeHTTP(ww, r)

		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		hooks.OnResponse(r.Context(), id, r.Method, routePattern(r), status, time.Since(start))
	})
}

// routePattern is the matched chi route, or the raw path before routing.
func routePattern(r *http.Request) string {
	if rc := chi.RouteContext(r.Context()); rc != nil {
		if p := rc.RoutePattern(); p != "" {
			return p
		}
	}
	return r.URL.Path
}
