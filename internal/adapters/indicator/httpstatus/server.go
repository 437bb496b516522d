// Package httpstatus exposes the indicator over a small local HTTP API so
// status bars and scripts can read it.
package httpstatus

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/bnema/copilot-usage/internal/application"
	"github.com/bnema/copilot-usage/internal/domain"
	"github.com/bnema/copilot-usage/internal/metrics"
	"github.com/bnema/copilot-usage/internal/ports"
)

const (
	readTimeout     = 10 * time.Second
	writeTimeout    = 60 * time.Second
	shutdownTimeout = 5 * time.Second
)

// Controller is the part of the application the endpoint drives.
// *application.Service satisfies it.
type Controller interface {
	UsageState(ctx context.Context) application.UsageState
	RefreshNow(ctx context.Context) (application.UsageState, error)
	ToggleAutostart(ctx context.Context) (bool, error)
}

// Server is an indicator sink that serves the latest text and menu.
type Server struct {
	controller Controller
	onQuit     func()
	logger     *zap.Logger

	mu   sync.RWMutex
	text string
	menu domain.Menu
}

var _ ports.IndicatorSink = (*Server)(nil)

// NewServer returns a server. onQuit runs when the quit menu action is
// invoked and may be nil.
func NewServer(controller Controller, onQuit func(), logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Server{
		controller: controller,
		onQuit:     onQuit,
		logger:     logger.Named("httpstatus"),
		text:       domain.IndicatorText(0, domain.DefaultDisplayPreferences()),
		menu:       domain.MenuSummary(nil),
	}
}

func (s *Server) SetText(text string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.text = text
}

func (s *Server) SetMenu(menu domain.Menu) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.menu = menu
}

func (s *Server) current() (string, domain.Menu) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.text, s.menu
}

func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(chiMiddleware.Recoverer)
	r.Use(metrics.Middleware())

	r.Get("/", s.handleText)
	r.Get("/usage", s.handleUsage)
	r.Get("/menu", s.handleMenu)
	r.Post("/refresh", s.handleRefresh)
	r.Post("/menu/{action}", s.handleMenuAction)
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Handle("/metrics", promhttp.Handler())

	return r
}

// Serve listens on addr until ctx is done, then shuts down gracefully.
func (s *Server) Serve(ctx context.Context, addr string) error {
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", addr, err)
	}
	return s.serve(ctx, listener)
}

func (s *Server) serve(ctx context.Context, listener net.Listener) error {
	srv := &http.Server{
		Handler:      s.Routes(),
		ReadTimeout:  readTimeout,
		WriteTimeout: writeTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("status endpoint listening", zap.String("addr", listener.Addr().String()))
		if err := srv.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown status endpoint: %w", err)
	}
	return nil
}

func (s *Server) handleText(w http.ResponseWriter, _ *http.Request) {
	text, _ := s.current()
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = fmt.Fprintln(w, text)
}

func (s *Server) handleMenu(w http.ResponseWriter, _ *http.Request) {
	_, menu := s.current()
	writeJSON(w, http.StatusOK, menu)
}

func (s *Server) handleUsage(w http.ResponseWriter, r *http.Request) {
	state := s.controller.UsageState(r.Context())
	writeJSON(w, http.StatusOK, NewUsageResponse(state))
}

func (s *Server) handleRefresh(w http.ResponseWriter, r *http.Request) {
	state, err := s.controller.RefreshNow(r.Context())
	if err != nil {
		s.writeActionError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, NewUsageResponse(state))
}

func (s *Server) handleMenuAction(w http.ResponseWriter, r *http.Request) {
	action := domain.MenuAction(chi.URLParam(r, "action"))

	switch action {
	case domain.MenuActionRefresh:
		s.handleRefresh(w, r)
	case domain.MenuActionShow:
		s.handleUsage(w, r)
	case domain.MenuActionToggleAutostart:
		enabled, err := s.controller.ToggleAutostart(r.Context())
		if err != nil {
			s.writeActionError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]bool{"autostart": enabled})
	case domain.MenuActionQuit:
		writeJSON(w, http.StatusAccepted, map[string]string{"status": "quitting"})
		if s.onQuit != nil {
			go s.onQuit()
		}
	default:
		writeError(w, http.StatusNotFound, "unknown_action", fmt.Sprintf("unknown menu action %q", action))
	}
}

func (s *Server) writeActionError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrCredentialNotFound):
		writeError(w, http.StatusUnauthorized, "not_signed_in", "not signed in")
	case errors.Is(err, domain.ErrAutostartUnsupported):
		writeError(w, http.StatusNotImplemented, "unsupported", err.Error())
	case errors.Is(err, domain.ErrUsageFetch):
		writeError(w, http.StatusBadGateway, "refresh_failed", err.Error())
	default:
		s.logger.Error("status endpoint action failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "internal", "internal error")
	}
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, message string) {
	writeJSON(w, status, errorResponse{
		Code:    code,
		Message: message,
	})
}
