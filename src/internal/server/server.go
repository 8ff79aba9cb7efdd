package server

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"handyhub-session-svc/src/clients"
	"handyhub-session-svc/src/internal/config"
	"handyhub-session-svc/src/internal/dependency"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

var log = logrus.StandardLogger()

type Server struct {
	cfg *config.Configuration
}

func New(cfg *config.Configuration) *Server {
	return &Server{cfg: cfg}
}

// Start connects the configured backends, serves the session API and blocks
// until SIGINT/SIGTERM.
func (s *Server) Start() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	deps, err := s.connect(ctx)
	if err != nil {
		return err
	}
	defer s.shutdown(deps)

	SetupRoutes(deps)

	httpServer := &http.Server{
		Addr:         net.JoinHostPort(s.cfg.Server.Host, s.cfg.Server.Port),
		Handler:      deps.Router,
		ReadTimeout:  time.Duration(s.cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(s.cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(s.cfg.Server.IdleTimeout) * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Infof("Server listening on %s", httpServer.Addr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		log.Info("Shutdown signal received")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return httpServer.Shutdown(shutdownCtx)
}

func (s *Server) connect(ctx context.Context) (*dependency.Manager, error) {
	gin.SetMode(s.cfg.Server.Mode)
	router := gin.New()
	router.Use(gin.Recovery())

	var (
		mongodb     *clients.MongoDB
		redisClient *clients.RedisClient
		rabbitMQ    *clients.RabbitMQ
		err         error
	)

	switch s.cfg.Session.Storage {
	case config.StorageRedis:
		if redisClient, err = clients.NewRedisClient(&s.cfg.Redis); err != nil {
			return nil, err
		}
	case config.StorageMongo:
		if mongodb, err = clients.NewMongoDB(&s.cfg.Database); err != nil {
			return nil, err
		}
	}

	if s.cfg.Queue.Enabled {
		rabbitMQ, err = clients.NewRabbitMQ(&s.cfg.Queue)
		if err == nil {
			err = rabbitMQ.SetupExchange()
		}
		if err != nil {
			log.WithError(err).Warn("Session activity publishing disabled")
			if rabbitMQ != nil {
				_ = rabbitMQ.Close()
			}
			rabbitMQ = nil
		}
	}

	deps, err := dependency.NewDependencyManager(ctx, router, mongodb, redisClient, rabbitMQ, s.cfg)
	if err != nil {
		s.shutdown(&dependency.Manager{Mongodb: mongodb, Redis: redisClient, RabbitMQ: rabbitMQ})
		return nil, err
	}
	return deps, nil
}

func (s *Server) shutdown(deps *dependency.Manager) {
	if deps.SessionManager != nil {
		deps.SessionManager.Close()
	}
	if deps.RabbitMQ != nil {
		_ = deps.RabbitMQ.Close()
	}
	if deps.Redis != nil {
		_ = deps.Redis.Close()
	}
	if deps.Mongodb != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = deps.Mongodb.Close(ctx)
	}
}
