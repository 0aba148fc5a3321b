package model

import "time"

// User 认证用户（与 Customer 是两个独立概念）
type User struct {
	ID           int64     `json:"id" db:"id"`
	Username     string    `json:"username" db:"username"`
	PasswordHash string    `json:"-" db:"password_hash"` // never expose in JSON
	Role         Role      `json:"role" db:"role"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
}

// RevokedToken 已吊销的会话令牌标识（只追加，从不更新）
type RevokedToken struct {
	ID        int64     `json:"id" db:"id"`
	JTI       string    `json:"jti" db:"jti"`
	RevokedAt time.Time `json:"revoked_at" db:"revoked_at"`
}
