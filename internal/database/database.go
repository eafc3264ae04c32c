package database

import (
    "context"
    "errors"
    "fmt"
    "net"
    "net/url"
    "time"

    "github.com/jmoiron/sqlx"
    _ "github.com/lib/pq" // PostgreSQL driver
    "github.com/rs/zerolog/log"

    appconfig "github.com/GTDGit/catalog_api/internal/config"
)

// ApplicationName identifies catalog connections in pg_stat_activity.
const ApplicationName = "catalog_api"

const (
    maxAttempts  = 5
    baseDelay    = 500 * time.Millisecond
    maxDelay     = 5 * time.Second
    pingTimeout  = 5 * time.Second
    maxOpenConns = 25
    maxIdleConns = 5
    connLifetime = 5 * time.Minute
)

// Connect opens the catalog database and waits until it answers a ping.
// Failed attempts are retried with exponential backoff until maxAttempts or
// until ctx is done, so the API and catalogctl both survive a database
// container that is still starting.
func Connect(ctx context.Context, cfg *appconfig.DatabaseConfig) (*sqlx.DB, error) {
    if cfg == nil {
        return nil, errors.New("nil database config")
    }

    db, err := sqlx.Open("postgres", DSN(cfg))
    if err != nil {
        return nil, fmt.Errorf("open database: %w", err)
    }
    db.SetMaxOpenConns(maxOpenConns)
    db.SetMaxIdleConns(maxIdleConns)
    db.SetConnMaxLifetime(connLifetime)

    var lastErr error
    for attempt := 1; attempt <= maxAttempts; attempt++ {
        pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
        lastErr = db.PingContext(pingCtx)
        cancel()
        if lastErr == nil {
            return db, nil
        }
        if attempt == maxAttempts {
            break
        }

        delay := backoff(attempt)
        log.Warn().Err(lastErr).
            Int("attempt", attempt).
            Dur("retry_in", delay).
            Str("host", cfg.Host).
            Msg("database not ready")

        select {
        case <-ctx.Done():
            _ = db.Close()
            return nil, fmt.Errorf("connect to database: %w", ctx.Err())
        case <-time.After(delay):
        }
    }

    _ = db.Close()
    return nil, fmt.Errorf("failed to connect to database after %d attempts: %w", maxAttempts, lastErr)
}

// DSN renders the postgres connection URL for cfg.
func DSN(cfg *appconfig.DatabaseConfig) string {
    q := url.Values{}
    q.Set("sslmode", cfg.SSLMode)
    q.Set("application_name", ApplicationName)
    u := url.URL{
        Scheme:   "postgres",
        User:     url.UserPassword(cfg.User, cfg.Password),
        Host:     net.JoinHostPort(cfg.Host, cfg.Port),
        Path:     "/" + cfg.Name,
        RawQuery: q.Encode(),
    }
    return u.String()
}

// backoff returns the wait after the given failed attempt: baseDelay doubled
// per attempt, capped at maxDelay.
func backoff(attempt int) time.Duration {
    d := baseDelay << (attempt - 1)
    if d > maxDelay || d <= 0 {
        return maxDelay
    }
    return d
}
