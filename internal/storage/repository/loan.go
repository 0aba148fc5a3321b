package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"library-admin/internal/model"
	"library-admin/internal/storage"
)

const loanColumns = `id, customer_id, book_id, loan_time_type, loan_date, return_date, is_active`

func scanLoan(row interface{ Scan(...any) error }) (*model.Loan, error) {
	l := &model.Loan{}
	err := row.Scan(&l.ID, &l.CustomerID, &l.BookID, &l.LoanTimeType,
		&l.LoanDate, &l.ReturnDate, &l.IsActive)
	if err != nil {
		return nil, err
	}
	return l, nil
}

// CreateLoan 创建借阅
//
// 前置条件：图书存在、未下架且未被借出；客户存在。
// 图书标记与借阅行在同一事务内写入，违反前置条件时不产生任何状态变更。
func (s *Store) CreateLoan(ctx context.Context, customerID, bookID int64, loanType model.LoanType) (*model.Loan, error) {
	var loan *model.Loan
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		book, err := scanBook(tx.QueryRowContext(ctx, s.rebind(
			`SELECT `+bookColumns+` FROM books WHERE id = $1`), bookID))
		if err == sql.ErrNoRows {
			return storage.ErrBookUnavailable
		}
		if err != nil {
			return err
		}
		if !book.IsActive || book.IsLoaned {
			return storage.ErrBookUnavailable
		}

		customer, err := scanCustomer(tx.QueryRowContext(ctx, s.rebind(
			`SELECT `+customerColumns+` FROM customers WHERE id = $1`), customerID))
		if err == sql.ErrNoRows {
			return storage.ErrCustomerNotFound
		}
		if err != nil {
			return err
		}

		if _, err := tx.ExecContext(ctx, s.rebind(
			`UPDATE books SET is_loaned = $1 WHERE id = $2`), true, book.ID); err != nil {
			return err
		}

		now := time.Now().UTC()
		l := &model.Loan{
			CustomerID:   customer.ID,
			BookID:       book.ID,
			LoanTimeType: loanType,
			LoanDate:     now,
			ReturnDate:   now.Add(loanType.Duration()),
			IsActive:     true,
		}
		if err := tx.QueryRowContext(ctx, s.rebind(
			`INSERT INTO loans (customer_id, book_id, loan_time_type, loan_date, return_date, is_active)
			 VALUES ($1, $2, $3, $4, $5, $6) RETURNING id`),
			l.CustomerID, l.BookID, l.LoanTimeType, l.LoanDate, l.ReturnDate, l.IsActive,
		).Scan(&l.ID); err != nil {
			return err
		}
		loan = l
		return nil
	})
	switch err {
	case nil:
		s.audit(ctx, model.AuditInfo,
			fmt.Sprintf("Created loan: %d for book ID: %d", loan.ID, loan.BookID))
		return loan, nil
	case storage.ErrBookUnavailable:
		s.audit(ctx, model.AuditError,
			fmt.Sprintf("Book is unavailable or already loaned: %d", bookID))
	case storage.ErrCustomerNotFound:
		s.audit(ctx, model.AuditError, fmt.Sprintf("Customer not found: %d", customerID))
	}
	return nil, err
}

// GetLoan 通过 ID 查找借阅
func (s *Store) GetLoan(ctx context.Context, id int64) (*model.Loan, error) {
	l, err := scanLoan(s.db.QueryRowContext(ctx, s.rebind(
		`SELECT `+loanColumns+` FROM loans WHERE id = $1`), id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return l, err
}

// ReturnLoan 归还借阅
//
// 借阅行保留：is_active 置为 false，return_date 覆盖为实际归还时间，
// 图书的 is_loaned 同一事务内复位。重复归还返回 ErrAlreadyReturned。
func (s *Store) ReturnLoan(ctx context.Context, id int64) (*model.Loan, error) {
	var loan *model.Loan
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		l, err := scanLoan(tx.QueryRowContext(ctx, s.rebind(
			`SELECT `+loanColumns+` FROM loans WHERE id = $1`), id))
		if err == sql.ErrNoRows {
			return storage.ErrNotFound
		}
		if err != nil {
			return err
		}
		if !l.IsActive {
			return storage.ErrAlreadyReturned
		}

		now := time.Now().UTC()
		if _, err := tx.ExecContext(ctx, s.rebind(
			`UPDATE loans SET is_active = $1, return_date = $2 WHERE id = $3`),
			false, now, l.ID); err != nil {
			return err
		}
		// 图书可能已被删除，UPDATE 无匹配行时是空操作
		if _, err := tx.ExecContext(ctx, s.rebind(
			`UPDATE books SET is_loaned = $1 WHERE id = $2`), false, l.BookID); err != nil {
			return err
		}
		l.IsActive = false
		l.ReturnDate = now
		loan = l
		return nil
	})
	switch err {
	case nil:
		s.audit(ctx, model.AuditInfo,
			fmt.Sprintf("Returned book ID: %d for loan ID: %d", loan.BookID, loan.ID))
		return loan, nil
	case storage.ErrNotFound:
		s.audit(ctx, model.AuditWarning, fmt.Sprintf("Loan not found: %d", id))
	case storage.ErrAlreadyReturned:
		s.audit(ctx, model.AuditWarning, fmt.Sprintf("Loan already returned: %d", id))
	}
	return nil, err
}

// DeleteLoan 删除借阅
//
// 与归还不同：借阅行被永久移除（历史丢失），关联图书（若仍存在）的
// is_loaned 复位。
func (s *Store) DeleteLoan(ctx context.Context, id int64) error {
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		l, err := scanLoan(tx.QueryRowContext(ctx, s.rebind(
			`SELECT `+loanColumns+` FROM loans WHERE id = $1`), id))
		if err == sql.ErrNoRows {
			return storage.ErrNotFound
		}
		if err != nil {
			return err
		}

		if _, err := tx.ExecContext(ctx, s.rebind(
			`UPDATE books SET is_loaned = $1 WHERE id = $2`), false, l.BookID); err != nil {
			return err
		}
		_, err = tx.ExecContext(ctx, s.rebind(`DELETE FROM loans WHERE id = $1`), l.ID)
		return err
	})
	switch err {
	case nil:
		s.audit(ctx, model.AuditInfo, fmt.Sprintf("Deleted loan: %d", id))
	case storage.ErrNotFound:
		s.audit(ctx, model.AuditWarning, fmt.Sprintf("Loan not found for deletion: %d", id))
	}
	return err
}

// ListLoans 按状态过滤借阅：active / inactive / all / late
//
// late 为派生状态：is_active 且应还时间已过（已归还的借阅永远不算逾期）。
// 返回值内嵌关联的图书和客户记录；孤儿借阅对应的内嵌字段为空。
func (s *Store) ListLoans(ctx context.Context, status model.StatusFilter) ([]*model.LoanDetail, error) {
	if !status.ValidFor(true) {
		return nil, storage.ErrInvalidStatus
	}

	query := `SELECT ` + loanColumns + ` FROM loans`
	var args []any
	switch status {
	case model.StatusActive, model.StatusLate:
		query += ` WHERE is_active = $1`
		args = append(args, true)
	case model.StatusInactive:
		query += ` WHERE is_active = $1`
		args = append(args, false)
	}
	query += ` ORDER BY id`

	rows, err := s.db.QueryContext(ctx, s.rebind(query), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var loans []*model.Loan
	for rows.Next() {
		l, err := scanLoan(rows)
		if err != nil {
			return nil, err
		}
		loans = append(loans, l)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	books := map[int64]*model.Book{}
	customers := map[int64]*model.Customer{}
	var details []*model.LoanDetail
	for _, l := range loans {
		if status == model.StatusLate && !l.Late(now) {
			continue
		}
		d := &model.LoanDetail{Loan: *l}
		if b, ok := books[l.BookID]; ok {
			d.Book = b
		} else if b, err := s.GetBookByID(ctx, l.BookID); err != nil {
			return nil, err
		} else {
			books[l.BookID] = b
			d.Book = b
		}
		if c, ok := customers[l.CustomerID]; ok {
			d.Customer = c
		} else if c, err := s.GetCustomerByID(ctx, l.CustomerID); err != nil {
			return nil, err
		} else {
			customers[l.CustomerID] = c
			d.Customer = c
		}
		details = append(details, d)
	}
	s.audit(ctx, model.AuditInfo, fmt.Sprintf("Retrieved %s loans", status))
	return details, nil
}
