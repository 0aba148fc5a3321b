package model

import "time"

// AuditLevel 审计日志级别
type AuditLevel string

const (
	AuditInfo    AuditLevel = "INFO"
	AuditWarning AuditLevel = "WARNING"
	AuditError   AuditLevel = "ERROR"
)

// AuditEntry 审计日志条目（只追加）
//
// 每个重要操作（含失败及其原因）都会落一条记录。
type AuditEntry struct {
	ID        int64      `json:"id" db:"id"`
	Level     AuditLevel `json:"level" db:"level"`
	Message   string     `json:"message" db:"message"`
	CreatedAt time.Time  `json:"created_at" db:"created_at"`
}
