package repository

import (
	"context"
	"fmt"
	"time"

	"library-admin/internal/model"
)

// RevokeToken 将令牌的 jti 加入吊销集合（只追加）
// 重复吊销同一 jti 视为成功（集合语义）。
func (s *Store) RevokeToken(ctx context.Context, jti string) error {
	_, err := s.db.ExecContext(ctx, s.rebind(
		`INSERT INTO revoked_tokens (jti, revoked_at) VALUES ($1, $2)`),
		jti, time.Now().UTC())
	if err != nil {
		if s.dialect.IsDuplicate(err) {
			return nil
		}
		return err
	}
	s.audit(ctx, model.AuditInfo, fmt.Sprintf("Revoked token: %s", jti))
	return nil
}

// IsTokenRevoked 检查 jti 是否已被吊销
func (s *Store) IsTokenRevoked(ctx context.Context, jti string) (bool, error) {
	var count int
	err := s.db.QueryRowContext(ctx, s.rebind(
		`SELECT COUNT(*) FROM revoked_tokens WHERE jti = $1`), jti).Scan(&count)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
