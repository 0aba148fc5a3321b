package repository

import (
	"context"
	"time"

	"library-admin/internal/model"
)

// AppendAudit 追加一条审计日志（只追加，从不更新）
func (s *Store) AppendAudit(ctx context.Context, level model.AuditLevel, message string) error {
	_, err := s.db.ExecContext(ctx, s.rebind(
		`INSERT INTO audit_log (level, message, created_at) VALUES ($1, $2, $3)`),
		level, message, time.Now().UTC())
	return err
}

// ListAudit 返回最近的审计日志条目（按时间倒序）
func (s *Store) ListAudit(ctx context.Context, limit int) ([]*model.AuditEntry, error) {
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	rows, err := s.db.QueryContext(ctx, s.rebind(
		`SELECT id, level, message, created_at FROM audit_log ORDER BY id DESC LIMIT $1`), limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []*model.AuditEntry
	for rows.Next() {
		e := &model.AuditEntry{}
		if err := rows.Scan(&e.ID, &e.Level, &e.Message, &e.CreatedAt); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
