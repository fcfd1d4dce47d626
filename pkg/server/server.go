package server

import (
	"context"
	"errors"
	"fmt"
	"github.com/Geniuskaa/hackathon_registration/internal/config"
	"github.com/fsnotify/fsnotify"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"net/http"
	"time"
)

const SHUTDOWN_TIMEOUT = 10 * time.Second

// Routes is implemented by every handler mounted on the server.
type Routes interface {
	Register(r chi.Router)
}

type Server struct {
	ctx    context.Context
	logger *zap.Logger
	mux    *chi.Mux
	serv   *http.Server
	cfg    *config.Entity
}

func NewServer(ctx context.Context, logger *zap.Logger, mux *chi.Mux, conf *config.Entity) *Server {
	return &Server{ctx: ctx, logger: logger, mux: mux, cfg: conf}
}

func (s *Server) ServeHTTP(writer http.ResponseWriter, request *http.Request) {
	s.mux.ServeHTTP(writer, request)
}

func (s *Server) Init(atom zap.AtomicLevel, reg *prometheus.Registry, routes ...Routes) {
	s.mux.Use(middleware.RequestID)
	s.mux.Use(middleware.RealIP)
	s.mux.Use(s.requestLogger)
	s.mux.Use(s.recoverer)
	s.mux.Use(cors.Handler(cors.Options{
		AllowedOrigins: s.cfg.App.Origins(),
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type"},
		MaxAge:         300,
	}))

	s.mux.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg}))

	for _, r := range routes {
		r.Register(s.mux)
	}

	if s.cfg.File == "" {
		return
	}

	// Log level is the only setting applied without a restart.
	viper.OnConfigChange(func(e fsnotify.Event) {
		s.logger.Info(fmt.Sprintf("Config file changed: %s", e.Name))
		level := viper.GetString(config.LOG_LEVEL)
		if err := atom.UnmarshalText([]byte(level)); err != nil {
			s.logger.Warn("ignoring log level from config file", zap.String("level", level), zap.Error(err))
		}
	})
	viper.WatchConfig()
}

func (s *Server) Start(addr string) error {
	s.serv = &http.Server{
		Addr:              addr,
		Handler:           s,
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	s.logger.Info("Service successfully started", zap.String("addr", addr))
	err := s.serv.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

func (s *Server) Shutdown(ctx context.Context) error {
	if s.serv == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(ctx, SHUTDOWN_TIMEOUT)
	defer cancel()
	return s.serv.Shutdown(ctx)
}

func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		defer func() {
			s.logger.Info("http request",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", ww.Status()),
				zap.Int("bytes", ww.BytesWritten()),
				zap.Duration("duration", time.Since(start)),
				zap.String("request_id", middleware.GetReqID(r.Context())),
			)
		}()

		next.ServeHTTP(ww, r)
	})
}

func (s *Server) recoverer(handler http.Handler) http.Handler {
	return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {

		defer func() {
			if err := recover(); err != nil {
				writer.WriteHeader(http.StatusInternalServerError)
				writer.Write([]byte("Something going wrong..."))
				s.logger.Error("panic occurred",
					zap.Any("panic", err),
					zap.String("request_id", middleware.GetReqID(request.Context())))
			}
		}()
		handler.ServeHTTP(writer, request)
	})
}
