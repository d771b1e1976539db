package cache

import (
	"context"
	"net"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/noah-isme/scanova-console/pkg/config"
	appErrors "github.com/noah-isme/scanova-console/pkg/errors"
)

const (
	clientName  = "scanova-console"
	pingTimeout = 3 * time.Second
)

// Options maps the redis section of the configuration onto client options.
// The console only issues a handful of small commands, so the pool stays tiny.
func Options(cfg config.RedisConfig) *redis.Options {
	return &redis.Options{
		Addr:         net.JoinHostPort(cfg.Host, strconv.Itoa(cfg.Port)),
		Password:     cfg.Password,
		DB:           cfg.DB,
		ClientName:   clientName,
		PoolSize:     2,
		DialTimeout:  pingTimeout,
		ReadTimeout:  time.Second,
		WriteTimeout: time.Second,
	}
}

// NewRedis connects and pings once. The client is closed when the ping fails.
func NewRedis(ctx context.Context, cfg config.RedisConfig) (*redis.Client, error) {
	opts := Options(cfg)
	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, appErrors.Wrap(err, appErrors.ErrTransport.Code, 0, "token store unreachable at "+opts.Addr)
	}
	return client, nil
}
