package storage

import (
	"context"

	"library-admin/internal/model"
)

// BookStore 图书存储接口
//
// Get* 方法对不存在的实体返回 (nil, nil)；
// Toggle/Delete 等需要精确匹配的方法返回 ErrNotFound。
type BookStore interface {
	CreateBook(ctx context.Context, book *model.Book) error
	GetBookByID(ctx context.Context, id int64) (*model.Book, error)
	GetBookByName(ctx context.Context, name string) (*model.Book, error)
	SearchBooksByName(ctx context.Context, query string) ([]*model.Book, error)
	SearchBooksByAuthor(ctx context.Context, query string) ([]*model.Book, error)
	ListBooks(ctx context.Context, status model.StatusFilter) ([]*model.Book, error)
	ToggleBookActive(ctx context.Context, name string) (*model.Book, error)
	DeleteBook(ctx context.Context, name string) error
}

// CustomerStore 客户存储接口
type CustomerStore interface {
	CreateCustomer(ctx context.Context, customer *model.Customer) error
	GetCustomerByID(ctx context.Context, id int64) (*model.Customer, error)
	GetCustomerByEmail(ctx context.Context, email string) (*model.Customer, error)
	SearchCustomersByEmail(ctx context.Context, query string) ([]*model.Customer, error)
	SearchCustomersByName(ctx context.Context, query string) ([]*model.Customer, error)
	ListCustomers(ctx context.Context, status model.StatusFilter) ([]*model.Customer, error)
	ToggleCustomerActive(ctx context.Context, email string) (*model.Customer, error)
	DeleteCustomer(ctx context.Context, email string) error
}

// LoanStore 借阅存储接口
//
// Create/Return/Delete 三个多行变更各自在单个事务内提交，
// Book.is_loaned 与 Loan.is_active 不会出现不一致的中间状态。
type LoanStore interface {
	CreateLoan(ctx context.Context, customerID, bookID int64, loanType model.LoanType) (*model.Loan, error)
	GetLoan(ctx context.Context, id int64) (*model.Loan, error)
	ReturnLoan(ctx context.Context, id int64) (*model.Loan, error)
	DeleteLoan(ctx context.Context, id int64) error
	ListLoans(ctx context.Context, status model.StatusFilter) ([]*model.LoanDetail, error)
}

// StatsStore 指标采样用的计数接口
type StatsStore interface {
	CountActiveLoans(ctx context.Context) (int, error)
	CountLoanedBooks(ctx context.Context) (int, error)
}

// UserStore 认证用户存储接口
type UserStore interface {
	CreateUser(ctx context.Context, user *model.User) error
	GetUserByUsername(ctx context.Context, username string) (*model.User, error)
}

// TokenStore 令牌吊销集合（只追加）
type TokenStore interface {
	RevokeToken(ctx context.Context, jti string) error
	IsTokenRevoked(ctx context.Context, jti string) (bool, error)
}

// AuditStore 审计日志（只追加）
type AuditStore interface {
	AppendAudit(ctx context.Context, level model.AuditLevel, message string) error
	ListAudit(ctx context.Context, limit int) ([]*model.AuditEntry, error)
}

// PersistentStore 聚合全部存储接口
// 由 repository.Store 实现
type PersistentStore interface {
	BookStore
	CustomerStore
	LoanStore
	UserStore
	TokenStore
	AuditStore
	StatsStore
	Close() error
}
