package dependency

import (
	"context"
	"fmt"

	"handyhub-session-svc/src/clients"
	"handyhub-session-svc/src/internal/config"
	"handyhub-session-svc/src/internal/metrics"
	"handyhub-session-svc/src/internal/middleware"
	"handyhub-session-svc/src/internal/models"
	"handyhub-session-svc/src/internal/session"
	"handyhub-session-svc/src/internal/storage"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
)

type Manager struct {
	Router         *gin.Engine
	Config         *config.Configuration
	Mongodb        *clients.MongoDB
	Redis          *clients.RedisClient
	RabbitMQ       *clients.RabbitMQ
	Registry       *prometheus.Registry
	Store          session.Storage
	SessionManager *session.Manager
	SessionHandler session.Handler
}

// NewDependencyManager wires the session manager to the configured storage
// backend and notifiers. mongodb, redisClient and rabbitMQ may be nil when
// the configuration does not use them.
func NewDependencyManager(ctx context.Context,
	router *gin.Engine,
	mongodb *clients.MongoDB,
	redisClient *clients.RedisClient,
	rabbitMQ *clients.RabbitMQ,
	cfg *config.Configuration) (*Manager, error) {
	store, err := newStore(cfg, mongodb, redisClient)
	if err != nil {
		return nil, err
	}

	registry := prometheus.NewRegistry()
	var notifiers session.Notifiers
	if cfg.Metrics.Enabled {
		notifiers = append(notifiers, metrics.New(cfg.Metrics.Namespace, registry))
	}
	if rabbitMQ != nil {
		notifiers = append(notifiers, clients.NewActivityPublisher(cfg, rabbitMQ.Channel))
	}

	sessionManager := session.New(ctx, store, session.Options{
		Notifier:       notifiers,
		SafetyMargin:   cfg.Session.SafetyMargin(),
		StorageTimeout: cfg.Session.Timeout(),
	})
	sessionHandler := session.NewHandler(sessionManager, cfg.Session.Timeout(), middleware.BearerToken)

	return &Manager{
		Router:         router,
		Config:         cfg,
		Mongodb:        mongodb,
		Redis:          redisClient,
		RabbitMQ:       rabbitMQ,
		Registry:       registry,
		Store:          store,
		SessionManager: sessionManager,
		SessionHandler: sessionHandler,
	}, nil
}

func newStore(cfg *config.Configuration, mongodb *clients.MongoDB, redisClient *clients.RedisClient) (session.Storage, error) {
	switch cfg.Session.Storage {
	case "", config.StorageMemory:
		return storage.NewMemoryStore(), nil
	case config.StorageRedis:
		if redisClient == nil {
			return nil, fmt.Errorf("%w: redis client not connected", models.ErrRedisConnection)
		}
		return storage.NewRedisStore(redisClient.Client, cfg.Session.KeyPrefix), nil
	case config.StorageMongo:
		if mongodb == nil {
			return nil, fmt.Errorf("%w: mongodb not connected", models.ErrDatabaseConnection)
		}
		return storage.NewMongoStore(mongodb.Database, cfg.Database.SessionCollection), nil
	default:
		return nil, fmt.Errorf("%w: %q", models.ErrUnknownStore, cfg.Session.Storage)
	}
}
