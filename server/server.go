package server

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/zeu5/keyword-rl/adenv"
	"go.uber.org/zap"
)

var ErrUnknownSession = errors.New("unknown session")

type Config struct {
	Addr string
	// Datasets are shared by all sessions and never modified
	Train adenv.Dataset
	Test  adenv.Dataset
	// Options applied to every session environment
	EnvOptions []adenv.Option
	Logger     *zap.Logger
	// Registry for the metrics, a new one when nil
	Registry *prometheus.Registry
	// Sessions idle for longer are removed, zero keeps them until deleted
	SessionTTL time.Duration
}

// Server exposes environment sessions over HTTP
type Server struct {
	Addr   string
	ctx    context.Context
	server *http.Server
	engine *gin.Engine
	done   chan struct{}

	datasets   map[string]adenv.Dataset
	envOptions []adenv.Option
	logger     *zap.Logger
	metrics    *Metrics
	sessionTTL time.Duration

	lock     *sync.Mutex
	sessions map[string]*session
}

func NewServer(ctx context.Context, config *Config) *Server {
	logger := config.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	registry := config.Registry
	if registry == nil {
		registry = prometheus.NewRegistry()
	}

	s := &Server{
		Addr:     config.Addr,
		ctx:      ctx,
		done:     make(chan struct{}),
		datasets: make(map[string]adenv.Dataset),
		logger:   logger,
		metrics:  NewMetrics(registry),
		lock:     new(sync.Mutex),
		sessions: make(map[string]*session),

		sessionTTL: config.SessionTTL,
	}
	s.datasets[SplitTrain] = config.Train
	s.datasets[SplitTest] = config.Test
	s.envOptions = append(s.envOptions, config.EnvOptions...)

	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery(), s.logRequests)
	r.GET("/healthz", s.handleHealth)
	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(registry, promhttp.HandlerOpts{})))
	r.POST("/sessions", s.handleCreate)
	r.POST("/sessions/:id/reset", s.handleReset)
	r.POST("/sessions/:id/step", s.handleStep)
	r.DELETE("/sessions/:id", s.handleDelete)
	s.engine = r

	s.server = &http.Server{
		Addr:    config.Addr,
		Handler: r,
	}
	return s
}

// Handler returns the HTTP handler of the API
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Start listens in the background until the context is cancelled
func (s *Server) Start() {
	go func() {
		defer close(s.done)
		s.logger.Info("listening", zap.String("addr", s.Addr))
		if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("server stopped", zap.Error(err))
		}
	}()

	go func() {
		<-s.ctx.Done()
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		s.server.Shutdown(ctx)
	}()

	if s.sessionTTL > 0 {
		go s.expireSessions()
	}
}

// expireSessions periodically removes idle sessions until the context is cancelled
func (s *Server) expireSessions() {
	interval := s.sessionTTL / 2
	if interval < time.Second {
		interval = time.Second
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-s.ctx.Done():
			return
		case now := <-ticker.C:
			s.removeIdle(now)
		}
	}
}

// removeIdle deletes the sessions idle for longer than the TTL and returns how many
func (s *Server) removeIdle(now time.Time) int {
	if s.sessionTTL <= 0 {
		return 0
	}
	s.lock.Lock()
	defer s.lock.Unlock()
	removed := 0
	for id, sess := range s.sessions {
		if sess.IdleFor(now) > s.sessionTTL {
			delete(s.sessions, id)
			removed += 1
			s.logger.Info("session expired", zap.String("id", id))
		}
	}
	if removed > 0 {
		s.metrics.RecordExpired(removed)
		s.metrics.SetSessions(len(s.sessions))
	}
	return removed
}

// Done is closed once the server stopped listening
func (s *Server) Done() <-chan struct{} {
	return s.done
}

func (s *Server) createSession(split string) (*session, *adenv.TimeStep, error) {
	d := s.datasets[split]
	env, err := adenv.NewEnvironment(d, s.envOptions...)
	if err != nil {
		return nil, nil, err
	}
	sess := newSession(split, env)
	ts, err := sess.Reset()
	if err != nil {
		return nil, nil, err
	}

	s.lock.Lock()
	s.sessions[sess.ID] = sess
	s.metrics.SetSessions(len(s.sessions))
	s.lock.Unlock()
	return sess, ts, nil
}

func (s *Server) getSession(id string) (*session, error) {
	s.lock.Lock()
	defer s.lock.Unlock()
	sess, ok := s.sessions[id]
	if !ok {
		return nil, ErrUnknownSession
	}
	return sess, nil
}

func (s *Server) deleteSession(id string) error {
	s.lock.Lock()
	defer s.lock.Unlock()
	if _, ok := s.sessions[id]; !ok {
		return ErrUnknownSession
	}
	delete(s.sessions, id)
	s.metrics.SetSessions(len(s.sessions))
	return nil
}

// NumSessions returns the number of open sessions
func (s *Server) NumSessions() int {
	s.lock.Lock()
	defer s.lock.Unlock()
	return len(s.sessions)
}
