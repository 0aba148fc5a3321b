package repository

import "context"

// CountActiveLoans 统计未归还的借阅数（供指标采样，不写审计）
func (s *Store) CountActiveLoans(ctx context.Context) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx, s.rebind(
		`SELECT COUNT(*) FROM loans WHERE is_active = $1`), true).Scan(&count)
	return count, err
}

// CountLoanedBooks 统计处于借出状态的图书数（供指标采样，不写审计）
func (s *Store) CountLoanedBooks(ctx context.Context) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx, s.rebind(
		`SELECT COUNT(*) FROM books WHERE is_loaned = $1`), true).Scan(&count)
	return count, err
}
