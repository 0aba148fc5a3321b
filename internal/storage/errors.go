// Package storage 定义存储层接口与领域错误
//
// 领域错误用于隔离业务层与底层存储引擎的错误类型，
// repository 层负责将底层错误（唯一键冲突、无匹配行等）转换为这些错误。
package storage

import "errors"

var (
	// ErrNotFound 实体不存在
	// 替代 sql.ErrNoRows
	ErrNotFound = errors.New("entity not found")

	// ErrDuplicate 唯一键冲突（书名 / 邮箱 / 用户名重复）
	ErrDuplicate = errors.New("duplicate: entity already exists")

	// ErrInvalidStatus 非法的状态过滤器
	ErrInvalidStatus = errors.New("invalid status parameter, use 'active', 'inactive', 'all' ('late' for loans only)")

	// ErrBookUnavailable 图书不存在、已下架或已被借出
	ErrBookUnavailable = errors.New("book is unavailable or already loaned")

	// ErrCustomerNotFound 借阅客户不存在
	ErrCustomerNotFound = errors.New("customer not found")

	// ErrAlreadyReturned 借阅已归还，重复归还是错误而非幂等空操作
	ErrAlreadyReturned = errors.New("loan already returned")

	// ErrHasActiveLoans 客户仍有未归还借阅，禁止硬删除
	ErrHasActiveLoans = errors.New("customer has active loans")
)
