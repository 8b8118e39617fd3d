package postgres

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"net/url"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/phrazzld/tasks-api/internal/config"
	"github.com/phrazzld/tasks-api/internal/store"
	"github.com/prometheus/client_golang/prometheus"
)

const (
	defaultConnectTimeout = 10 * time.Second
	defaultAcquireTimeout = 10 * time.Second
	defaultMaxConns       = 10
)

// Querier is the statement surface of one physical connection.
// It matches pgxscan.Querier so a Conn can be handed to scany directly.
type Querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

// Acquirer hands out pooled connections. *Pool implements it; tests
// substitute their own.
type Acquirer interface {
	Acquire(ctx context.Context) (*Conn, error)
}

// Conn is a connection checked out of a pool. It is owned by a single
// operation and must be released exactly once; Release is safe to call
// again, and any use after release fails with store.ErrConnReleased.
type Conn struct {
	q        Querier
	release  func()
	once     sync.Once
	released atomic.Bool
}

// NewConn wraps q so that release runs once when the connection is handed back.
func NewConn(q Querier, release func()) *Conn {
	return &Conn{q: q, release: release}
}

// Query executes sql on the underlying connection.
func (c *Conn) Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	if c.released.Load() {
		return nil, store.ErrConnReleased
	}
	return c.q.Query(ctx, sql, args...)
}

// Release returns the connection to its pool.
func (c *Conn) Release() {
	c.once.Do(func() {
		c.released.Store(true)
		if c.release != nil {
			c.release()
		}
	})
}

// Released reports whether Release has been called.
func (c *Conn) Released() bool {
	return c.released.Load()
}

// PoolStats is a point-in-time view of pool occupancy.
type PoolStats struct {
	Acquired int32 // connections currently checked out
	Idle     int32 // open connections available for checkout
	Total    int32 // all open connections
	Max      int32 // configured ceiling
}

// Pool multiplexes a bounded set of PostgreSQL connections across requests.
// All checkout bookkeeping is synchronized inside pgxpool.
type Pool struct {
	pool           *pgxpool.Pool
	acquireTimeout time.Duration
	logger         *slog.Logger
	metrics        *poolMetrics
}

var _ Acquirer = (*Pool)(nil)

// ConnString builds a postgres:// URL from the individual settings.
func ConnString(cfg config.DatabaseConfig) string {
	u := url.URL{
		Scheme: "postgres",
		Host:   net.JoinHostPort(cfg.Host, strconv.Itoa(cfg.Port)),
		Path:   "/" + cfg.Name,
	}
	if cfg.Password != "" {
		u.User = url.UserPassword(cfg.User, cfg.Password)
	} else {
		u.User = url.User(cfg.User)
	}
	return u.String()
}

// buildPoolConfig parses the connection settings and applies pool limits.
func buildPoolConfig(cfg config.DatabaseConfig) (*pgxpool.Config, error) {
	poolCfg, err := pgxpool.ParseConfig(ConnString(cfg))
	if err != nil {
		return nil, fmt.Errorf("postgres: parse config: %w", err)
	}

	poolCfg.ConnConfig.ConnectTimeout = defaultConnectTimeout
	if cfg.ConnectTimeout > 0 {
		poolCfg.ConnConfig.ConnectTimeout = cfg.ConnectTimeout
	}
	poolCfg.MaxConns = defaultMaxConns
	if cfg.MaxConns > 0 {
		poolCfg.MaxConns = int32(cfg.MaxConns)
	}
	poolCfg.MinConns = 0
	return poolCfg, nil
}

// NewPool creates the process-wide connection pool. Physical connections are
// opened lazily on first acquire, so a database that is down at startup does
// not prevent the pool from being built. reg may be nil to skip metric
// registration.
func NewPool(
	ctx context.Context,
	cfg config.DatabaseConfig,
	logger *slog.Logger,
	reg prometheus.Registerer,
) (*Pool, error) {
	if logger == nil {
		logger = slog.Default()
	}

	poolCfg, err := buildPoolConfig(cfg)
	if err != nil {
		return nil, err
	}

	p := &Pool{
		acquireTimeout: defaultAcquireTimeout,
		logger:         logger.With(slog.String("component", "db_pool")),
	}
	if cfg.AcquireTimeout > 0 {
		p.acquireTimeout = cfg.AcquireTimeout
	}

	p.metrics, err = newPoolMetrics(reg, p.Stat)
	if err != nil {
		return nil, err
	}

	poolCfg.AfterConnect = func(_ context.Context, conn *pgx.Conn) error {
		p.metrics.connCreated()
		p.logger.Debug("connection created", slog.Uint64("pid", uint64(conn.PgConn().PID())))
		return nil
	}
	poolCfg.BeforeClose = func(conn *pgx.Conn) {
		p.metrics.connClosed()
		p.logger.Debug("connection removed", slog.Uint64("pid", uint64(conn.PgConn().PID())))
	}

	p.pool, err = pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("postgres: new pool: %w", err)
	}

	p.logger.Info("connection pool initialized",
		slog.String("host", cfg.Host),
		slog.Int("port", cfg.Port),
		slog.String("db_name", cfg.Name),
		slog.Int("max_conns", int(poolCfg.MaxConns)),
		slog.Duration("connect_timeout", poolCfg.ConnConfig.ConnectTimeout),
		slog.Duration("acquire_timeout", p.acquireTimeout))
	return p, nil
}

// Acquire checks out a connection, waiting at most the acquire timeout.
// The caller owns the returned Conn until it calls Release.
func (p *Pool) Acquire(ctx context.Context) (*Conn, error) {
	acquireCtx, cancel := context.WithTimeout(ctx, p.acquireTimeout)
	defer cancel()

	start := time.Now()
	c, err := p.pool.Acquire(acquireCtx)
	p.metrics.observeAcquire(time.Since(start), err)
	if err != nil {
		return nil, err
	}
	return NewConn(c, c.Release), nil
}

// Stat reports current pool occupancy.
func (p *Pool) Stat() PoolStats {
	if p.pool == nil {
		return PoolStats{}
	}
	s := p.pool.Stat()
	return PoolStats{
		Acquired: s.AcquiredConns(),
		Idle:     s.IdleConns(),
		Total:    s.TotalConns(),
		Max:      s.MaxConns(),
	}
}

// Ping acquires a connection and verifies the database answers.
func (p *Pool) Ping(ctx context.Context) error {
	pingCtx, cancel := context.WithTimeout(ctx, p.acquireTimeout)
	defer cancel()
	if err := p.pool.Ping(pingCtx); err != nil {
		return fmt.Errorf("postgres: ping: %w", err)
	}
	return nil
}

// Close shuts down the pool, waiting for checked-out connections to be released.
func (p *Pool) Close() {
	p.pool.Close()
	p.logger.Info("connection pool closed")
}
