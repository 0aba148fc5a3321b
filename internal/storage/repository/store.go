// Package repository 数据库无关的业务逻辑存储层
//
// 通过 dbutil.Dialect 接口屏蔽不同数据库的 SQL 差异，
// 所有 SQL 以 PostgreSQL 风格编写，运行时由 Dialect.Rebind() 转换。
// 多行变更（借阅创建/归还/删除）在单个事务内提交。
package repository

import (
	"context"
	"database/sql"
	"fmt"
	"log"

	"library-admin/internal/model"
	"library-admin/internal/storage"
	"library-admin/internal/storage/dbutil"
	postgresdriver "library-admin/internal/storage/driver/postgres"
	sqlitedriver "library-admin/internal/storage/driver/sqlite"
)

// Store 通用存储实现
// 实现了 storage.PersistentStore 接口
type Store struct {
	db      *sql.DB
	dialect dbutil.Dialect
}

var _ storage.PersistentStore = (*Store)(nil)

// NewStore 创建通用存储
func NewStore(db *sql.DB, dialect dbutil.Dialect) *Store {
	return &Store{db: db, dialect: dialect}
}

// Open 按驱动类型打开数据库并完成 Schema 迁移
func Open(driver dbutil.DriverType, dsn string) (*Store, error) {
	switch driver {
	case dbutil.DriverSQLite:
		db, err := sqlitedriver.Open(dsn)
		if err != nil {
			return nil, err
		}
		dialect := sqlitedriver.NewDialect()
		if err := dialect.AutoMigrate(db); err != nil {
			db.Close()
			return nil, fmt.Errorf("sqlite migrate: %w", err)
		}
		return NewStore(db, dialect), nil
	case dbutil.DriverPostgres:
		db, err := postgresdriver.Open(dsn)
		if err != nil {
			return nil, err
		}
		dialect := postgresdriver.NewDialect()
		if err := dialect.AutoMigrate(db); err != nil {
			db.Close()
			return nil, fmt.Errorf("postgres migrate: %w", err)
		}
		return NewStore(db, dialect), nil
	}
	return nil, fmt.Errorf("unknown database driver: %q", driver)
}

// Close 关闭数据库连接
func (s *Store) Close() error {
	return s.db.Close()
}

// DB 返回底层数据库连接（仅用于测试）
func (s *Store) DB() *sql.DB {
	return s.db
}

// Dialect 返回当前方言
func (s *Store) Dialect() dbutil.Dialect {
	return s.dialect
}

// rebind 快捷方法：将 PG 风格 SQL 转换为当前方言
func (s *Store) rebind(query string) string {
	return s.dialect.Rebind(query)
}

// audit 追加一条审计日志
// 审计失败不阻断主操作，只记录进程日志。
func (s *Store) audit(ctx context.Context, level model.AuditLevel, message string) {
	if err := s.AppendAudit(ctx, level, message); err != nil {
		log.Printf("[audit] append failed: %v", err)
	}
}

// withTx 在单个事务内执行 fn，出错时回滚
func (s *Store) withTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	if err := fn(tx); err != nil {
		tx.Rollback()
		return err
	}
	return tx.Commit()
}
