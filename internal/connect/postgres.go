package connect

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/oriys/quasar/internal/awsauth"
	"github.com/oriys/quasar/internal/engine"
	"github.com/oriys/quasar/internal/logging"
	"github.com/oriys/quasar/internal/metrics"
	"github.com/oriys/quasar/internal/profile"
	"github.com/oriys/quasar/internal/ssl"
)

const defaultPostgresPort = 5432

// PostgresConnector opens PostgreSQL connections through pgx.
type PostgresConnector struct {
	Builder  *ssl.Builder
	Registry *ssl.Registry
}

func (c *PostgresConnector) Type() engine.DatabaseType {
	return engine.DatabaseTypePostgres
}

func (c *PostgresConnector) Test(ctx context.Context, p *profile.Profile) (*engine.SSLStatus, error) {
	pool, sslConfig, err := c.open(ctx, p)
	if err != nil {
		return nil, err
	}
	defer pool.Close()

	if err := pool.Ping(ctx); err != nil {
		return nil, fmt.Errorf("ping postgres at %s: %w", p.Hostname, err)
	}
	return c.sslStatus(ctx, pool, sslConfig)
}

// open builds the pool configuration from the profile. TLS negotiation is
// driven entirely by the built tls.Config: the DSN pins sslmode=disable so
// pgx's own ssl handling never competes with ours.
func (c *PostgresConnector) open(ctx context.Context, p *profile.Profile) (*pgxpool.Pool, *ssl.SSLConfig, error) {
	port := p.Port
	if port == 0 {
		port = defaultPostgresPort
	}
	database := p.Database
	if database == "" {
		database = "postgres"
	}

	password := p.Password
	awsSettings, err := awsauth.ParseSettings(p.Advanced)
	if err != nil {
		return nil, nil, fmt.Errorf("aws settings for %s: %w", p.Name, err)
	}
	if awsSettings != nil && awsSettings.UseIAMAuth {
		endpoint := fmt.Sprintf("%s:%d", p.Hostname, port)
		token, err := awsSettings.RDSAuthToken(ctx, endpoint, p.Username)
		if err != nil {
			return nil, nil, err
		}
		password = token
		logging.Op().Debug("using RDS IAM auth token as postgres password", "endpoint", endpoint, "user", p.Username)
	}

	dsn := fmt.Sprintf("host=%s port=%d user=%s dbname=%s sslmode=disable",
		quoteDSNValue(p.Hostname), port, quoteDSNValue(p.Username), quoteDSNValue(database))
	if password != "" {
		dsn += " password=" + quoteDSNValue(password)
	}

	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, nil, fmt.Errorf("parse postgres config: %w", err)
	}

	sslConfig := p.SSLConfig(c.Registry)
	tlsConfig, err := c.Builder.Build(sslConfig, p.Hostname)
	if sslConfig != nil {
		metrics.RecordTLSConfigBuilt(string(p.Type), string(sslConfig.Mode), err)
	}
	if err != nil {
		return nil, nil, fmt.Errorf("build TLS configuration for postgres: %w", err)
	}
	cfg.ConnConfig.TLSConfig = tlsConfig

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("create postgres pool: %w", err)
	}
	return pool, sslConfig, nil
}

// sslStatus asks the server whether the backing connection is actually
// encrypted, via pg_stat_ssl. When the view yields no row (insufficient
// privileges on some managed services) the configured mode is reported
// instead.
func (c *PostgresConnector) sslStatus(ctx context.Context, pool *pgxpool.Pool, sslConfig *ssl.SSLConfig) (*engine.SSLStatus, error) {
	var sslOn bool
	err := pool.QueryRow(ctx, "SELECT ssl FROM pg_stat_ssl WHERE pid = pg_backend_pid()").Scan(&sslOn)
	if err != nil {
		if sslConfig.IsEnabled() {
			return &engine.SSLStatus{IsEnabled: true, Mode: string(sslConfig.Mode)}, nil
		}
		return &engine.SSLStatus{IsEnabled: false, Mode: string(ssl.SSLModeDisabled)}, nil
	}

	if !sslOn {
		return &engine.SSLStatus{IsEnabled: false, Mode: string(ssl.SSLModeDisabled)}, nil
	}
	mode := string(ssl.SSLModeEnabled)
	if sslConfig != nil {
		mode = string(sslConfig.Mode)
	}
	return &engine.SSLStatus{IsEnabled: true, Mode: mode}, nil
}

// quoteDSNValue quotes a keyword/value DSN component per libpq rules.
func quoteDSNValue(v string) string {
	if v != "" && !strings.ContainsAny(v, " '\\") {
		return v
	}
	v = strings.ReplaceAll(v, `\`, `\\`)
	v = strings.ReplaceAll(v, `'`, `\'`)
	return "'" + v + "'"
}
