package cli

import (
	"context"
	"fmt"

	"github.com/aretw0/searchsim/pkg/adapters/file"
	memstore "github.com/aretw0/searchsim/pkg/adapters/memory"
	"github.com/aretw0/searchsim/pkg/adapters/redis"
	"github.com/aretw0/searchsim/pkg/adapters/sqlite"
	"github.com/aretw0/searchsim/pkg/ports"
)

// StoreOptions selects the report store.
type StoreOptions struct {
	Kind       string // memory, file, redis or sqlite
	RedisAddr  string
	SQLitePath string
	Dir        string
}

// Backend is an opened report store. Locker is nil unless the store can
// coordinate several hosts.
type Backend struct {
	Store  ports.ReportStore
	Locker ports.DistributedLocker
	Close  func() error
}

// OpenStore opens the configured report store.
func OpenStore(ctx context.Context, opts StoreOptions) (*Backend, error) {
	switch opts.Kind {
	case "", "memory":
		return &Backend{Store: memstore.NewStore(), Close: func() error { return nil }}, nil
	case "file":
		return &Backend{Store: file.New(opts.Dir), Close: func() error { return nil }}, nil
	case "redis":
		store := redis.New(opts.RedisAddr, "", 0)
		if err := store.Client().Ping(ctx).Err(); err != nil {
			store.Close()
			return nil, fmt.Errorf("failed to connect to redis at %s: %w", opts.RedisAddr, err)
		}
		return &Backend{
			Store:  store,
			Locker: redis.NewLocker(store.Client(), redis.DefaultPrefix),
			Close:  store.Close,
		}, nil
	case "sqlite":
		store, err := sqlite.Open(ctx, opts.SQLitePath)
		if err != nil {
			return nil, err
		}
		return &Backend{Store: store, Close: store.Close}, nil
	default:
		return nil, fmt.Errorf("unknown store %q (valid: memory, file, redis, sqlite)", opts.Kind)
	}
}
