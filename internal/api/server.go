// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/apex/log"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/staranto/orthoview/internal/orthocase"
)

const (
	// DefaultCasePath is used when a request names no case.
	DefaultCasePath = "backend/oas/00000000.oas"
	DefaultAddr     = ":8000"

	DefaultShutdownTimeout = 10 * time.Second
)

// CaseSource resolves case paths to loaded cases.
type CaseSource interface {
	Get(ctx context.Context, path string) (orthocase.Case, error)
	Current() (string, bool)
}

type Server struct {
	echo        *echo.Echo
	cases       CaseSource
	addr        string
	defaultPath string
	grace       time.Duration
}

// Option configures a Server.
type Option func(*Server)

func WithAddr(addr string) Option {
	return func(s *Server) {
		if addr != "" {
			s.addr = addr
		}
	}
}

// WithDefaultCasePath sets the case used when a request omits file_path.
func WithDefaultCasePath(path string) Option {
	return func(s *Server) {
		if path != "" {
			s.defaultPath = path
		}
	}
}

// WithShutdownTimeout bounds how long Start waits for in-flight requests once
// its context is cancelled. Non-positive values are ignored.
func WithShutdownTimeout(d time.Duration) Option {
	return func(s *Server) {
		if d > 0 {
			s.grace = d
		}
	}
}

func New(cases CaseSource, opts ...Option) *Server {
	s := &Server{
		echo:        echo.New(),
		cases:       cases,
		addr:        DefaultAddr,
		defaultPath: DefaultCasePath,
		grace:       DefaultShutdownTimeout,
	}
	for _, opt := range opts {
		opt(s)
	}

	e := s.echo
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = errorHandler

	e.Use(middleware.RequestIDWithConfig(middleware.RequestIDConfig{
		Generator: uuid.NewString,
	}))
	e.Use(requestLogger())
	e.Use(middleware.Recover())
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
	}))

	s.routes()
	return s
}

func (s *Server) routes() {
	s.echo.GET("/ping", s.ping)
	s.echo.GET("/get_stage_relative_transform/", s.stageTransforms)
	s.echo.POST("/get_stage_relative_transform/", s.stageTransforms)
	s.echo.GET("/get_ortho_case_file_path/", s.caseFilePath)
	s.echo.POST("/get_tooth_mesh/", s.toothMesh)
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.echo
}

func (s *Server) Addr() string {
	return s.addr
}

// Start serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Start(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		log.Infof("listening on %s (default case %s)", s.addr, s.defaultPath)
		errCh <- s.echo.Start(s.addr)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		log.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.grace)
		defer cancel()
		return s.echo.Shutdown(shutdownCtx)
	}
}

func requestLogger() echo.MiddlewareFunc {
	return middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			entry := log.WithFields(log.Fields{
				"id":      v.RequestID,
				"status":  v.Status,
				"latency": v.Latency.Round(time.Microsecond),
			})
			if v.Error != nil {
				entry = entry.WithError(v.Error)
			}
			entry.Debugf("%s %s", v.Method, v.URI)
			return nil
		},
	})
}
