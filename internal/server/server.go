// Package server provides the HTTP upload service that turns PDF uploads
// into cleaned plain text. Upload size limits, content validation, and
// request deadlines are enforced here; the conversion core below it is
// total and enforces none of that itself.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"runtime/debug"
	"strings"
	"time"

	"github.com/gorilla/mux"

	"github.com/lectorlabs/limpia"
	"github.com/lectorlabs/limpia/format"
	"github.com/lectorlabs/limpia/internal/config"
	"github.com/lectorlabs/limpia/reader"
)

// ParseLogLevel converts a case-insensitive level string to slog.Level.
// An empty string returns slog.LevelInfo. Unknown strings return an error.
func ParseLogLevel(s string) (slog.Level, error) {
	switch strings.ToLower(s) {
	case "", "info":
		return slog.LevelInfo, nil
	case "debug":
		return slog.LevelDebug, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("unknown log level %q (want debug|info|warn|error)", s)
	}
}

// Converter turns an uploaded document into a conversion result.
type Converter interface {
	Convert(ctx context.Context, filename string, data []byte) (*limpia.Conversion, []limpia.Warning, error)
}

// DocumentConverter is the production Converter backed by the limpia
// pipeline.
type DocumentConverter struct {
	repeatThreshold       int
	maxRepeatedLineLength int
}

// NewDocumentConverter creates a converter with the given normalization
// tuning.
func NewDocumentConverter(cfg config.NormalizeConfig) *DocumentConverter {
	return &DocumentConverter{
		repeatThreshold:       cfg.RepeatThreshold,
		maxRepeatedLineLength: cfg.MaxRepeatedLineLength,
	}
}

// Convert runs the full extraction and normalization pipeline. The
// pipeline itself has no cancellation concept; the context is checked
// once before the work starts.
func (c *DocumentConverter) Convert(ctx context.Context, filename string, data []byte) (*limpia.Conversion, []limpia.Warning, error) {
	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}
	return limpia.FromBytes(data).
		SourceName(filename).
		RepeatThreshold(c.repeatThreshold).
		MaxRepeatedLineLength(c.maxRepeatedLineLength).
		Result()
}

// ---------------------------------------------------------------------------
// Functional options
// ---------------------------------------------------------------------------

type options struct {
	maxUploadBytes int64
	requestTimeout time.Duration
	logger         *slog.Logger
}

func defaultOptions() options {
	return options{
		maxUploadBytes: 16 << 20,
		requestTimeout: 30 * time.Second,
		logger:         slog.Default(),
	}
}

// Option configures the HTTP handler.
type Option func(*options)

// WithMaxUploadBytes sets the maximum accepted upload size in bytes.
func WithMaxUploadBytes(n int64) Option {
	return func(o *options) { o.maxUploadBytes = n }
}

// WithRequestTimeout sets the per-request conversion deadline.
func WithRequestTimeout(d time.Duration) Option {
	return func(o *options) { o.requestTimeout = d }
}

// WithLogger sets the slog.Logger used for request logging.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) { o.logger = l }
}

// ---------------------------------------------------------------------------
// handler
// ---------------------------------------------------------------------------

// handler holds the dependencies needed to serve HTTP requests.
type handler struct {
	converter Converter
	opts      options
	log       *slog.Logger
}

// NewHandler returns an http.Handler that serves GET /health,
// POST /convert, and POST /convert/download.
func NewHandler(converter Converter, optFns ...Option) http.Handler {
	opts := defaultOptions()
	for _, fn := range optFns {
		fn(&opts)
	}

	h := &handler{
		converter: converter,
		opts:      opts,
		log:       opts.logger,
	}

	r := mux.NewRouter()
	r.HandleFunc("/health", h.handleHealth).Methods(http.MethodGet)
	r.HandleFunc("/convert", h.handleConvert).Methods(http.MethodPost)
	r.HandleFunc("/convert/download", h.handleConvertDownload).Methods(http.MethodPost)
	return r
}

func buildVersion() string {
	if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" {
		return info.Main.Version
	}
	return "dev"
}

// convertResponse is the JSON payload for a successful conversion.
type convertResponse struct {
	Success    bool     `json:"success"`
	Filename   string   `json:"filename"`
	Characters int      `json:"characters"`
	Text       string   `json:"text"`
	Warnings   []string `json:"warnings,omitempty"`
}

// errorResponse is the JSON payload for a failed request.
type errorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

func (h *handler) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"version": buildVersion(),
	})
}

func (h *handler) handleConvert(w http.ResponseWriter, r *http.Request) {
	conv, warnings, ok := h.convertUpload(w, r)
	if !ok {
		return
	}

	writeJSON(w, http.StatusOK, convertResponse{
		Success:    true,
		Filename:   conv.Filename,
		Characters: conv.Characters,
		Text:       conv.Text,
		Warnings:   warningStrings(warnings),
	})
}

func (h *handler) handleConvertDownload(w http.ResponseWriter, r *http.Request) {
	conv, _, ok := h.convertUpload(w, r)
	if !ok {
		return
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", conv.Filename))
	w.WriteHeader(http.StatusOK)
	io.WriteString(w, conv.Text)
}

// convertUpload reads and validates the uploaded file and runs the
// conversion. On failure it writes the error response itself and returns
// ok=false.
func (h *handler) convertUpload(w http.ResponseWriter, r *http.Request) (*limpia.Conversion, []limpia.Warning, bool) {
	r.Body = http.MaxBytesReader(w, r.Body, h.opts.maxUploadBytes)

	file, header, err := r.FormFile("file")
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			h.writeError(w, http.StatusRequestEntityTooLarge,
				fmt.Sprintf("upload exceeds %d bytes", h.opts.maxUploadBytes))
			return nil, nil, false
		}
		h.writeError(w, http.StatusBadRequest, "missing form file field \"file\"")
		return nil, nil, false
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			h.writeError(w, http.StatusRequestEntityTooLarge,
				fmt.Sprintf("upload exceeds %d bytes", h.opts.maxUploadBytes))
			return nil, nil, false
		}
		h.writeError(w, http.StatusBadRequest, "failed to read upload")
		return nil, nil, false
	}

	// Validate by content, not by the spoofable declared type.
	if format.DetectFromMagic(data) != format.PDF {
		h.writeError(w, http.StatusUnsupportedMediaType, "upload is not a PDF document")
		return nil, nil, false
	}
	if declared := header.Header.Get("Content-Type"); !acceptableContentType(declared) {
		h.writeError(w, http.StatusUnsupportedMediaType,
			fmt.Sprintf("unsupported content type %q", declared))
		return nil, nil, false
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.opts.requestTimeout)
	defer cancel()

	start := time.Now()
	conv, warnings, err := h.converter.Convert(ctx, header.Filename, data)
	if err != nil {
		var extErr *reader.ExtractionError
		if errors.As(err, &extErr) {
			h.log.Warn("extraction failed",
				"filename", header.Filename, "error", err)
			h.writeError(w, http.StatusUnprocessableEntity, extErr.Error())
			return nil, nil, false
		}
		h.log.Error("conversion failed",
			"filename", header.Filename, "error", err)
		h.writeError(w, http.StatusInternalServerError, "conversion failed")
		return nil, nil, false
	}

	h.log.Info("converted document",
		"filename", header.Filename,
		"bytes", len(data),
		"characters", conv.Characters,
		"warnings", len(warnings),
		"duration", time.Since(start))
	return conv, warnings, true
}

func acceptableContentType(declared string) bool {
	switch {
	case declared == "":
		return true
	case strings.HasPrefix(declared, "application/pdf"):
		return true
	case strings.HasPrefix(declared, "application/octet-stream"):
		return true
	default:
		return false
	}
}

func warningStrings(warnings []limpia.Warning) []string {
	if len(warnings) == 0 {
		return nil
	}
	out := make([]string, len(warnings))
	for i, w := range warnings {
		out[i] = w.String()
	}
	return out
}

func (h *handler) writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Success: false, Error: msg})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// ---------------------------------------------------------------------------
// Server
// ---------------------------------------------------------------------------

// Server wraps the HTTP handler with lifecycle management.
type Server struct {
	httpServer      *http.Server
	log             *slog.Logger
	shutdownTimeout time.Duration
}

// New builds a Server from the application configuration.
func New(cfg config.Config) *Server {
	converter := NewDocumentConverter(cfg.Normalize)
	handler := NewHandler(converter,
		WithMaxUploadBytes(cfg.Server.MaxUploadBytes),
		WithRequestTimeout(time.Duration(cfg.Server.RequestTimeout)*time.Second),
	)

	return &Server{
		httpServer: &http.Server{
			Addr:              cfg.Server.ListenAddr,
			Handler:           handler,
			ReadHeaderTimeout: 10 * time.Second,
		},
		log:             slog.Default(),
		shutdownTimeout: time.Duration(cfg.Server.ShutdownTimeout) * time.Second,
	}
}

// WithShutdownTimeout overrides the graceful shutdown deadline.
func (s *Server) WithShutdownTimeout(d time.Duration) *Server {
	s.shutdownTimeout = d
	return s
}

// Start serves HTTP until the context is canceled, then shuts down
// gracefully.
func (s *Server) Start(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		s.log.Info("http server listening", "addr", s.httpServer.Addr)
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
			return
		}
		errCh <- nil
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.shutdownTimeout)
	defer cancel()

	s.log.Info("shutting down http server")
	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return <-errCh
}
