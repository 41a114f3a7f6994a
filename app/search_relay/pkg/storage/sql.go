package storage

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"

	"github.com/iWorld-y/search_relay/app/search_relay/pkg/cache"
)

var _ cache.Store = (*SQL)(nil)

type dialect struct {
	driver string
	schema string
	get    string
	upsert string
}

var postgresDialect = dialect{
	driver: "postgres",
	schema: `CREATE TABLE IF NOT EXISTS artifact_cache (
			key TEXT PRIMARY KEY,
			value BYTEA NOT NULL,
			updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)`,
	get: `SELECT value FROM artifact_cache WHERE key = $1`,
	upsert: `INSERT INTO artifact_cache (key, value, updated_at) VALUES ($1, $2, CURRENT_TIMESTAMP)
		ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = EXCLUDED.updated_at`,
}

var sqliteDialect = dialect{
	driver: "sqlite",
	schema: `CREATE TABLE IF NOT EXISTS artifact_cache (
			key TEXT PRIMARY KEY,
			value BLOB NOT NULL,
			updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)`,
	get: `SELECT value FROM artifact_cache WHERE key = ?`,
	upsert: `INSERT INTO artifact_cache (key, value, updated_at) VALUES (?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT (key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
}

// SQL 基于关系数据库的存储，单表 artifact_cache
type SQL struct {
	db *sql.DB
	d  dialect
}

// NewPostgres 连接 PostgreSQL
func NewPostgres(dsn string) (*SQL, error) {
	db, err := sql.Open(postgresDialect.driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database connection: %w", err)
	}
	return newSQL(db, postgresDialect)
}

// NewSQLite 打开（必要时创建）SQLite 数据库文件
func NewSQLite(path string) (*SQL, error) {
	if dir := filepath.Dir(path); dir != "." && path != ":memory:" {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}
	dsn := path
	if path != ":memory:" {
		dsn = path + "?mode=rwc"
	}
	db, err := sql.Open(sqliteDialect.driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// SQLite 只支持单写
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(time.Hour)
	return newSQL(db, sqliteDialect)
}

func newSQL(db *sql.DB, d dialect) (*SQL, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	if _, err := db.ExecContext(ctx, d.schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}
	return &SQL{db: db, d: d}, nil
}

func (s *SQL) GetArtifact(ctx context.Context, key string) ([]byte, bool, error) {
	var data []byte
	err := s.db.QueryRowContext(ctx, s.d.get, key).Scan(&data)
	if err == sql.ErrNoRows {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return data, true, nil
}

func (s *SQL) SetArtifact(ctx context.Context, key string, data []byte) error {
	_, err := s.db.ExecContext(ctx, s.d.upsert, key, data)
	return err
}

func (s *SQL) Close() error {
	return s.db.Close()
}
