package model

import "time"

// Loan 借阅记录
//
// ReturnDate 在创建时为应还日期（loan_date + 时长），
// 归还时被覆盖为实际归还时间。归还后 is_active=false 且行保留；
// 删除则直接移除行（历史丢失，与归还是两个明确区分的操作）。
type Loan struct {
	ID           int64     `json:"id" db:"id"`
	CustomerID   int64     `json:"customer_id" db:"customer_id"`
	BookID       int64     `json:"book_id" db:"book_id"`
	LoanTimeType LoanType  `json:"loan_time_type" db:"loan_time_type"`
	LoanDate     time.Time `json:"loan_date" db:"loan_date"`
	ReturnDate   time.Time `json:"return_date" db:"return_date"`
	IsActive     bool      `json:"is_active" db:"is_active"`
}

// Late 借阅是否逾期（派生状态，不落库）
// 采用严格定义：已归还的借阅永远不算逾期。
func (l *Loan) Late(now time.Time) bool {
	return l.IsActive && l.ReturnDate.Before(now)
}

// LoanDetail 借阅记录及其关联的图书和客户（列表接口内嵌返回）
type LoanDetail struct {
	Loan
	Book     *Book     `json:"book,omitempty"`
	Customer *Customer `json:"customer,omitempty"`
}
