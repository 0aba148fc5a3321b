// Package sqlite SQLite 数据库驱动
//
// 提供 SQLite 连接管理、方言实现和自动 Schema 迁移。
// 内嵌数据库是默认部署形态，也用于测试（":memory:"）。
package sqlite

import (
	"database/sql"
	"fmt"
	"strings"

	"library-admin/internal/storage/dbutil"

	_ "modernc.org/sqlite"
)

// Dialect SQLite 方言实现
type Dialect struct{}

var _ dbutil.Dialect = (*Dialect)(nil)

func (d *Dialect) DriverType() dbutil.DriverType {
	return dbutil.DriverSQLite
}

func (d *Dialect) Rebind(query string) string {
	return dbutil.StripPgCasts(dbutil.RebindToQuestion(query))
}

func (d *Dialect) CurrentTimestamp() string {
	return "datetime('now')"
}

func (d *Dialect) BooleanLiteral(b bool) string {
	if b {
		return "1"
	}
	return "0"
}

// CaseInsensitiveLike SQLite 的 LIKE 对 ASCII 默认不区分大小写
func (d *Dialect) CaseInsensitiveLike() string {
	return "LIKE"
}

func (d *Dialect) IsDuplicate(err error) bool {
	if err == nil {
		return false
	}
	return strings.Contains(err.Error(), "UNIQUE constraint failed") ||
		strings.Contains(err.Error(), "constraint failed")
}

func (d *Dialect) AutoMigrate(db *sql.DB) error {
	_, err := db.Exec(schema)
	return err
}

// Open 创建 SQLite 数据库连接
// dsn 示例: "file:library.db?cache=shared&mode=rwc" 或 ":memory:"
func Open(dsn string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite: %w", err)
	}

	// SQLite 优化设置
	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA synchronous=NORMAL",
		"PRAGMA foreign_keys=ON",
		"PRAGMA busy_timeout=5000",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			return nil, fmt.Errorf("failed to set pragma %s: %w", p, err)
		}
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping sqlite: %w", err)
	}

	return db, nil
}

// NewDialect 创建 SQLite 方言
func NewDialect() *Dialect {
	return &Dialect{}
}

// schema SQLite 完整建表语句（与 PostgreSQL 驱动的 Schema 等价）
const schema = `
-- books
CREATE TABLE IF NOT EXISTS books (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    name VARCHAR(80) NOT NULL UNIQUE,
    author VARCHAR(80) NOT NULL,
    year_published INTEGER NOT NULL,
    loan_time_type VARCHAR(32) NOT NULL,
    category VARCHAR(32),
    is_active INTEGER NOT NULL DEFAULT 1,
    is_loaned INTEGER NOT NULL DEFAULT 0
);

-- customers
CREATE TABLE IF NOT EXISTS customers (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    full_name VARCHAR(80) NOT NULL,
    email VARCHAR(80) NOT NULL UNIQUE,
    city VARCHAR(32) NOT NULL,
    age INTEGER NOT NULL,
    role VARCHAR(32) NOT NULL DEFAULT 'customer',
    is_active INTEGER NOT NULL DEFAULT 1
);

-- loans
CREATE TABLE IF NOT EXISTS loans (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    -- 故意不加外键约束：删除图书/客户允许留下孤儿借阅行
    customer_id INTEGER NOT NULL,
    book_id INTEGER NOT NULL,
    loan_time_type VARCHAR(32) NOT NULL,
    loan_date DATETIME NOT NULL,
    return_date DATETIME NOT NULL,
    is_active INTEGER NOT NULL DEFAULT 1
);

-- users
CREATE TABLE IF NOT EXISTS users (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    username VARCHAR(80) NOT NULL UNIQUE,
    password_hash VARCHAR(128) NOT NULL,
    role VARCHAR(32) NOT NULL DEFAULT 'customer',
    created_at DATETIME NOT NULL DEFAULT (datetime('now'))
);

-- revoked_tokens (append-only)
CREATE TABLE IF NOT EXISTS revoked_tokens (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    jti VARCHAR(64) NOT NULL UNIQUE,
    revoked_at DATETIME NOT NULL DEFAULT (datetime('now'))
);

-- audit_log (append-only)
CREATE TABLE IF NOT EXISTS audit_log (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    level VARCHAR(10) NOT NULL,
    message VARCHAR(256) NOT NULL,
    created_at DATETIME NOT NULL DEFAULT (datetime('now'))
);
`
