package model

// Customer 图书馆客户
//
// email 全局唯一。存在 active Loan 的客户不允许硬删除。
type Customer struct {
	ID       int64  `json:"id" db:"id"`
	FullName string `json:"full_name" db:"full_name"`
	Email    string `json:"email" db:"email"`
	City     City   `json:"city" db:"city"`
	Age      int    `json:"age" db:"age"`
	Role     Role   `json:"role" db:"role"`
	IsActive bool   `json:"is_active" db:"is_active"`
}
