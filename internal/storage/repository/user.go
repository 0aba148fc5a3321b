package repository

import (
	"context"
	"database/sql"
	"fmt"

	"library-admin/internal/model"
	"library-admin/internal/storage"
)

// CreateUser 创建认证用户，用户名唯一
func (s *Store) CreateUser(ctx context.Context, user *model.User) error {
	if user.Role == "" {
		user.Role = model.RoleCustomer
	}
	err := s.db.QueryRowContext(ctx, s.rebind(
		`INSERT INTO users (username, password_hash, role, created_at)
		 VALUES ($1, $2, $3, $4) RETURNING id, created_at`),
		user.Username, user.PasswordHash, user.Role, user.CreatedAt,
	).Scan(&user.ID, &user.CreatedAt)
	if err != nil {
		if s.dialect.IsDuplicate(err) {
			s.audit(ctx, model.AuditWarning,
				fmt.Sprintf("Username already registered: %s", user.Username))
			return storage.ErrDuplicate
		}
		return err
	}
	s.audit(ctx, model.AuditInfo, fmt.Sprintf("Registered user: %s (ID: %d)", user.Username, user.ID))
	return nil
}

// GetUserByUsername 通过用户名查找用户
func (s *Store) GetUserByUsername(ctx context.Context, username string) (*model.User, error) {
	user := &model.User{}
	err := s.db.QueryRowContext(ctx, s.rebind(
		`SELECT id, username, password_hash, role, created_at
		 FROM users WHERE username = $1`), username,
	).Scan(&user.ID, &user.Username, &user.PasswordHash, &user.Role, &user.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return user, err
}
