package connect

import (
	"context"
	"fmt"
	"net"
	"strconv"

	"github.com/go-redis/redis/v8"

	"github.com/oriys/quasar/internal/engine"
	"github.com/oriys/quasar/internal/metrics"
	"github.com/oriys/quasar/internal/profile"
	"github.com/oriys/quasar/internal/ssl"
)

const defaultRedisPort = 6379

// RedisConnector opens Redis connections through go-redis.
type RedisConnector struct {
	Builder  *ssl.Builder
	Registry *ssl.Registry
}

func (c *RedisConnector) Type() engine.DatabaseType {
	return engine.DatabaseTypeRedis
}

func (c *RedisConnector) Test(ctx context.Context, p *profile.Profile) (*engine.SSLStatus, error) {
	port := p.Port
	if port == 0 {
		port = defaultRedisPort
	}
	database := 0
	if p.Database != "" {
		var err error
		database, err = strconv.Atoi(p.Database)
		if err != nil {
			return nil, fmt.Errorf("parse redis database number %q: %w", p.Database, err)
		}
	}

	opts := &redis.Options{
		Addr:     net.JoinHostPort(p.Hostname, strconv.Itoa(port)),
		Username: p.Username,
		Password: p.Password,
		DB:       database,
	}

	sslConfig := p.SSLConfig(c.Registry)
	if sslConfig.IsEnabled() {
		tlsConfig, err := c.Builder.Build(sslConfig, p.Hostname)
		metrics.RecordTLSConfigBuilt(string(p.Type), string(sslConfig.Mode), err)
		if err != nil {
			return nil, fmt.Errorf("build TLS configuration for redis: %w", err)
		}
		opts.TLSConfig = tlsConfig
	}

	client := redis.NewClient(opts)
	defer client.Close()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("ping redis at %s: %w", opts.Addr, err)
	}

	// Redis exposes no per-connection TLS introspection; report the
	// configured mode.
	if !sslConfig.IsEnabled() {
		return &engine.SSLStatus{IsEnabled: false, Mode: string(ssl.SSLModeDisabled)}, nil
	}
	return &engine.SSLStatus{IsEnabled: true, Mode: string(sslConfig.Mode)}, nil
}
