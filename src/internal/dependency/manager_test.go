package dependency

import (
	"context"
	"testing"

	"handyhub-session-svc/src/clients"
	"handyhub-session-svc/src/internal/config"
	"handyhub-session-svc/src/internal/models"
	"handyhub-session-svc/src/internal/storage"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func baseConfig(backend string) *config.Configuration {
	cfg := &config.Configuration{}
	cfg.Session.Storage = backend
	cfg.Metrics.Enabled = true
	cfg.Metrics.Namespace = "test"
	return cfg
}

func TestNewDependencyManager_Memory(t *testing.T) {
	deps, err := NewDependencyManager(context.Background(), gin.New(), nil, nil, nil, baseConfig(config.StorageMemory))
	require.NoError(t, err)
	defer deps.SessionManager.Close()

	assert.IsType(t, &storage.MemoryStore{}, deps.Store)
	assert.False(t, deps.SessionManager.IsLoggedIn())
	assert.NotNil(t, deps.SessionHandler)
}

func TestNewDependencyManager_Redis(t *testing.T) {
	mr := miniredis.RunT(t)
	client := &clients.RedisClient{Client: redis.NewClient(&redis.Options{Addr: mr.Addr()})}
	t.Cleanup(func() { _ = client.Close() })

	deps, err := NewDependencyManager(context.Background(), gin.New(), nil, client, nil, baseConfig(config.StorageRedis))
	require.NoError(t, err)
	defer deps.SessionManager.Close()

	assert.IsType(t, &storage.RedisStore{}, deps.Store)
}

func TestNewDependencyManager_MissingBackends(t *testing.T) {
	_, err := NewDependencyManager(context.Background(), gin.New(), nil, nil, nil, baseConfig(config.StorageRedis))
	assert.ErrorIs(t, err, models.ErrRedisConnection)

	_, err = NewDependencyManager(context.Background(), gin.New(), nil, nil, nil, baseConfig(config.StorageMongo))
	assert.ErrorIs(t, err, models.ErrDatabaseConnection)

	_, err = NewDependencyManager(context.Background(), gin.New(), nil, nil, nil, baseConfig("localStorage"))
	assert.ErrorIs(t, err, models.ErrUnknownStore)
}
