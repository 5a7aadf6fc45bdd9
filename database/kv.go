package database

import (
	"context"
	"errors"
	"fmt"

	"github.com/qaunion/portal/config"
	"github.com/qaunion/portal/utils/cache"
)

var ErrNotFound = errors.New("record not found")

// Storage defines the lifecycle every backend must satisfy
type Storage interface {
	Init() error
	Close() error
	HealthCheck() error
}

// KeyValue stores whole serialized collections under fixed keys. Get reports
// whether the key was present; a missing key is not an error.
type KeyValue interface {
	Storage
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
}

// Open builds the backend selected by STORE_BACKEND and runs its Init
func Open(env *config.EnvironmentVariable) (KeyValue, error) {
	var (
		kv  KeyValue
		err error
	)

	switch env.STORE_BACKEND {
	case config.StoreFile:
		kv, err = NewFileStore(env.STORE_DIR)
	case config.StoreRedis:
		var rc *cache.RedisCache
		rc, err = cache.NewRedisCache(env.REDIS_URL)
		if err == nil {
			kv = NewRedisStore(rc, "portal:kv:")
		}
	case config.StoreGORM:
		kv, err = StartGORM(env.PostgresDSN(), env.GO_ENV)
	case config.StorePostgres:
		kv, err = StartSQL(DialectPostgres, env.PostgresDSN())
	case config.StoreSQLite:
		kv, err = StartSQL(DialectSQLite, env.SQLITE_PATH)
	default:
		err = fmt.Errorf("unsupported store backend %q", env.STORE_BACKEND)
	}
	if err != nil {
		return nil, err
	}

	if err := kv.Init(); err != nil {
		kv.Close()
		return nil, fmt.Errorf("init %s store: %w", env.STORE_BACKEND, err)
	}
	return kv, nil
}
