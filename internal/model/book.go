package model

// Book 图书
//
// is_active 为软删除标记，is_loaned 为在借标记。
// 不变式：is_loaned=true 时有且仅有一条 active Loan 引用本书。
type Book struct {
	ID            int64    `json:"id" db:"id"`
	Name          string   `json:"name" db:"name"`
	Author        string   `json:"author" db:"author"`
	YearPublished int      `json:"year_published" db:"year_published"`
	LoanTimeType  LoanType `json:"loan_time_type" db:"loan_time_type"`
	Category      Category `json:"category,omitempty" db:"category"`
	IsActive      bool     `json:"is_active" db:"is_active"`
	IsLoaned      bool     `json:"is_loaned" db:"is_loaned"`
}
