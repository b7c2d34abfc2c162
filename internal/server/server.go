package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/Avaneesh2012/futuride/internal/api"
	"github.com/Avaneesh2012/futuride/internal/config"
	"github.com/Avaneesh2012/futuride/internal/executor"
	"github.com/Avaneesh2012/futuride/internal/languages"
	"github.com/Avaneesh2012/futuride/internal/limiter"
	"github.com/Avaneesh2012/futuride/internal/queue"
	"github.com/Avaneesh2012/futuride/internal/runner"
	"github.com/Avaneesh2012/futuride/internal/validate"
	"github.com/Avaneesh2012/futuride/internal/worker"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
)

type Server struct {
	conf        *config.Config
	logger      *zerolog.Logger
	httpServer  *http.Server
	registry    *languages.Registry
	executor    *executor.Executor
	queue       *queue.Manager
	workers     []*worker.Worker
	rateLimiter *limiter.RateLimiter
	stopCh      chan struct{}
	cancelFunc  context.CancelFunc
}

func New(conf *config.Config, logger *zerolog.Logger) (*Server, error) {
	registry := languages.NewRegistry(conf.Execution)
	validator := validate.New(conf.Execution.MaxCodeLength, conf.Execution.DeniedPatterns)

	procRunner, err := runner.NewProcessRunner(conf.Execution, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create process runner: %w", err)
	}

	exec := executor.NewExecutor(validator, registry, procRunner, logger)
	q := queue.NewManager(conf.Workers.QueueCapacity)

	rl := limiter.NewRateLimiter(
		conf.Limiter.RequestsPerWindow,
		time.Duration(conf.Limiter.WindowSeconds)*time.Second,
		conf.Limiter.GlobalRPS,
		conf.Limiter.MaxConcurrent,
	)

	// Queue round-trips get headroom beyond the execution timeout so a
	// job that waited in line still finishes.
	jobTimeout := time.Duration(conf.Execution.TimeoutSeconds+5) * time.Second
	handler := api.NewHandler(q, registry, jobTimeout, conf.Server.MaxBodyBytes)

	router := mux.NewRouter()

	router.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	}).Methods(http.MethodGet)

	router.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)

	apiRouter := router.PathPrefix("/api").Subrouter()
	apiRouter.HandleFunc("/languages", handler.Languages).Methods(http.MethodGet)

	apiRouter.Handle("/execute", rl.Middleware(http.HandlerFunc(handler.Execute))).Methods(http.MethodPost)

	httpServer := &http.Server{
		Addr:         ":" + conf.Server.Port,
		Handler:      router,
		ReadTimeout:  time.Duration(conf.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(conf.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(conf.Server.IdleTimeout) * time.Second,
	}

	workers := make([]*worker.Worker, conf.Workers.Count)
	for i := range workers {
		workers[i] = worker.NewWorker(i, exec, q, logger)
	}

	return &Server{
		conf:        conf,
		logger:      logger,
		httpServer:  httpServer,
		registry:    registry,
		executor:    exec,
		queue:       q,
		workers:     workers,
		rateLimiter: rl,
		stopCh:      make(chan struct{}),
	}, nil
}

func (s *Server) Start() error {
	ctx, cancel := context.WithCancel(context.Background())
	s.cancelFunc = cancel

	for _, w := range s.workers {
		go w.Start(ctx)
	}

	s.rateLimiter.StartCleanup(s.stopCh, 5*time.Minute)

	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("http server failed: %w", err)
	}

	return nil
}

func (s *Server) Stop(ctx context.Context) error {
	s.logger.Info().Msg("shutting down HTTP server")

	if s.cancelFunc != nil {
		s.cancelFunc()
	}
	close(s.stopCh)

	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("failed to shutdown HTTP server: %w", err)
	}

	return nil
}
