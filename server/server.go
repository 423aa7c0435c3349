// Package server exposes the loudspeaker model as an interactive web page.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/RyanBlaney/sonido-speaker/audio"
	"github.com/RyanBlaney/sonido-speaker/config"
	"github.com/RyanBlaney/sonido-speaker/logging"
	"github.com/RyanBlaney/sonido-speaker/render"
	"github.com/RyanBlaney/sonido-speaker/speaker"
)

// Server renders the model for each request. It holds no per-request state.
type Server struct {
	cfg    *config.AppConfig
	model  *speaker.Model
	synth  *audio.Synthesizer
	player audio.Player
	logger logging.Logger
}

// EvaluateResponse is the JSON body of /api/evaluate
type EvaluateResponse struct {
	Parameters speaker.DriveParameters `json:"parameters"`
	Peaks      speaker.PeakMetrics     `json:"peaks"`
	Metrics    []render.Metric         `json:"metrics"`
	Axes       speaker.AxisScales      `json:"axes"`
	Summary    speaker.Summary         `json:"summary"`
	Samples    int                     `json:"samples"`
	SampleRate int                     `json:"sample_rate"`
}

// New creates a server over a model built from cfg
func New(cfg *config.AppConfig, player audio.Player) *Server {
	model := speaker.NewModelFromConfig(cfg)
	return &Server{
		cfg:    cfg,
		model:  model,
		synth:  audio.NewSynthesizer(model.Time(), cfg.Audio),
		player: player,
		logger: logging.WithFields(logging.Fields{
			"component": "http_server",
		}),
	}
}

// Handler returns the routes
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", s.handlePage)
	mux.HandleFunc("GET /chart", s.handleChart)
	mux.HandleFunc("POST /play", s.handlePlay)
	mux.HandleFunc("GET /export.xlsx", s.handleExport)
	mux.HandleFunc("GET /audio.wav", s.handleWAV)
	mux.HandleFunc("GET /api/evaluate", s.handleEvaluate)
	return s.withLogging(mux)
}

// ListenAndServe serves until ctx is cancelled
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Server.Addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("Listening", logging.Fields{"addr": s.cfg.Server.Addr})
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server failed: %w", err)
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		s.logger.Info("Shutting down")
		return srv.Shutdown(shutdownCtx)
	}
}

func (s *Server) withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ctx := logging.ContextWithFields(r.Context(), logging.Fields{
			"method": r.Method,
			"path":   r.URL.Path,
		})
		next.ServeHTTP(w, r.WithContext(ctx))
		s.logger.WithContext(ctx).Debug("Handled request", logging.Fields{
			"elapsed": time.Since(start).String(),
		})
	})
}

// parameters reads the drive parameters from the query, clamped onto the control grid.
// Missing or malformed values take the control default.
func (s *Server) parameters(r *http.Request) speaker.DriveParameters {
	q := r.URL.Query()
	read := func(key string, b config.ControlBounds) float64 {
		v, err := strconv.ParseFloat(q.Get(key), 64)
		if err != nil {
			return b.Default
		}
		return b.Clamp(v)
	}

	return speaker.DriveParameters{
		VoltageAmplitude: read("voltage", s.cfg.Controls.Voltage),
		Frequency:        read("frequency", s.cfg.Controls.Frequency),
	}
}

func (s *Server) writePage(w http.ResponseWriter, r *http.Request, result *speaker.Result, msg *render.Message) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := render.WritePage(w, render.NewPageData(result, s.cfg.Controls, msg)); err != nil {
		s.logger.WithContext(r.Context()).Error(err, "Page rendering failed")
	}
}

func (s *Server) handlePage(w http.ResponseWriter, r *http.Request) {
	s.writePage(w, r, s.model.Evaluate(s.parameters(r)), nil)
}

func (s *Server) handleChart(w http.ResponseWriter, r *http.Request) {
	result := s.model.Evaluate(s.parameters(r))
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := render.WriteChart(w, result, s.cfg.Chart); err != nil {
		s.logger.WithContext(r.Context()).Error(err, "Chart rendering failed")
	}
}

// handlePlay blocks until playback ends. A missing device is reported on the page, not as an HTTP error.
func (s *Server) handlePlay(w http.ResponseWriter, r *http.Request) {
	p := s.parameters(r)
	logger := s.logger.WithContext(r.Context())

	msg := &render.Message{Kind: render.MessageSuccess, Text: "Playback finished."}
	if err := s.player.Play(r.Context(), s.synth.Synthesize(p)); err != nil {
		logger.Warn("Playback failed", logging.Fields{"error": err.Error()})
		msg = &render.Message{Kind: render.MessageWarning, Text: fmt.Sprintf("Could not play sound: %v", err)}
	}

	s.writePage(w, r, s.model.Evaluate(p), msg)
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	result := s.model.Evaluate(s.parameters(r))
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", `attachment; filename="speaker.xlsx"`)
	if err := render.WriteWorkbook(w, result); err != nil {
		s.logger.WithContext(r.Context()).Error(err, "Workbook export failed")
	}
}

func (s *Server) handleWAV(w http.ResponseWriter, r *http.Request) {
	buf := s.synth.Synthesize(s.parameters(r))
	w.Header().Set("Content-Type", "audio/wav")
	w.Header().Set("Content-Disposition", `attachment; filename="speaker.wav"`)
	if err := audio.WriteWAV(w, buf); err != nil {
		s.logger.WithContext(r.Context()).Error(err, "WAV export failed")
	}
}

// Evaluate builds the JSON report for one set of parameters
func Evaluate(result *speaker.Result) EvaluateResponse {
	return EvaluateResponse{
		Parameters: result.Parameters,
		Peaks:      result.Peaks,
		Metrics:    render.FormatMetrics(result.Peaks),
		Axes:       result.Axes,
		Summary:    result.Summarize(),
		Samples:    result.Time.Len(),
		SampleRate: result.Time.SampleRate(),
	}
}

func (s *Server) handleEvaluate(w http.ResponseWriter, r *http.Request) {
	result := s.model.Evaluate(s.parameters(r))
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(Evaluate(result)); err != nil {
		s.logger.WithContext(r.Context()).Error(err, "JSON encoding failed")
	}
}
