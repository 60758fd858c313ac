package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	_ "github.com/jackc/pgx/v5/stdlib"
)

const postgresSchema = `CREATE TABLE IF NOT EXISTS state (
	bucket TEXT PRIMARY KEY,
	payload BYTEA NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
)`

type PostgresConfig struct {
	DSN            string
	ConnectTimeout int
	MaxOpenConns   int
	MaxIdleConns   int
	MaxIdleTime    int
}

type Postgres struct {
	dbpool *sql.DB
}

func NewPostgres(ctx context.Context, cfg PostgresConfig) (*Postgres, error) {
	dbpool, err := sql.Open("pgx", cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("无法创建数据库连接池: %w", err)
	}

	dbpool.SetMaxOpenConns(cfg.MaxOpenConns)
	dbpool.SetMaxIdleConns(cfg.MaxIdleConns)
	dbpool.SetConnMaxIdleTime(time.Duration(cfg.MaxIdleTime) * time.Second)

	pingCtx, cancel := context.WithTimeout(ctx, time.Duration(cfg.ConnectTimeout)*time.Second)
	defer cancel()

	// sql.Open 只是创建数据库连接池对象，并不会立即连接到数据库，因此需要显式地 ping 一下
	if err := dbpool.PingContext(pingCtx); err != nil {
		dbpool.Close()
		return nil, fmt.Errorf("无法连接到数据库: %w", err)
	}

	if _, err := dbpool.ExecContext(pingCtx, postgresSchema); err != nil {
		dbpool.Close()
		return nil, fmt.Errorf("无法创建 state 表: %w", wrapPgError(err))
	}

	return &Postgres{dbpool: dbpool}, nil
}

func (p *Postgres) Driver() Driver { return DriverPostgres }

func (p *Postgres) Get(ctx context.Context, key string) ([]byte, error) {
	var payload []byte
	err := p.dbpool.QueryRowContext(ctx, `SELECT payload FROM state WHERE bucket = $1`, key).Scan(&payload)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return nil, ErrNotFound
	case err != nil:
		return nil, wrapPgError(err)
	}
	return payload, nil
}

func (p *Postgres) Put(ctx context.Context, key string, data []byte) error {
	query := `
		INSERT INTO state (bucket, payload) VALUES ($1, $2)
		ON CONFLICT (bucket) DO UPDATE SET payload = EXCLUDED.payload, updated_at = NOW()
	`
	if _, err := p.dbpool.ExecContext(ctx, query, key, data); err != nil {
		return wrapPgError(err)
	}
	return nil
}

func (p *Postgres) Delete(ctx context.Context, key string) error {
	if _, err := p.dbpool.ExecContext(ctx, `DELETE FROM state WHERE bucket = $1`, key); err != nil {
		return wrapPgError(err)
	}
	return nil
}

func (p *Postgres) Close() error { return p.dbpool.Close() }

// wrapPgError 把 postgres 的错误码带进错误信息，方便在日志中定位
func wrapPgError(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return fmt.Errorf("postgres %s (%s): %w", pgErr.Code, pgErr.Message, err)
	}
	return err
}
