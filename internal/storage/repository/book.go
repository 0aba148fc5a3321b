package repository

import (
	"context"
	"database/sql"
	"fmt"

	"library-admin/internal/model"
	"library-admin/internal/storage"
)

const bookColumns = `id, name, author, year_published, loan_time_type, category, is_active, is_loaned`

// scanBook 从行扫描 Book，category 可能为 NULL
func scanBook(row interface{ Scan(...any) error }) (*model.Book, error) {
	b := &model.Book{}
	var category sql.NullString
	err := row.Scan(&b.ID, &b.Name, &b.Author, &b.YearPublished,
		&b.LoanTimeType, &category, &b.IsActive, &b.IsLoaned)
	if err != nil {
		return nil, err
	}
	b.Category = model.Category(category.String)
	return b, nil
}

// CreateBook 创建图书，书名唯一
func (s *Store) CreateBook(ctx context.Context, book *model.Book) error {
	var category any
	if book.Category != "" {
		category = string(book.Category)
	}
	err := s.db.QueryRowContext(ctx, s.rebind(
		`INSERT INTO books (name, author, year_published, loan_time_type, category, is_active, is_loaned)
		 VALUES ($1, $2, $3, $4, $5, $6, $7) RETURNING id`),
		book.Name, book.Author, book.YearPublished, book.LoanTimeType,
		category, book.IsActive, book.IsLoaned,
	).Scan(&book.ID)
	if err != nil {
		if s.dialect.IsDuplicate(err) {
			s.audit(ctx, model.AuditWarning, fmt.Sprintf("Book already exists: %s", book.Name))
			return storage.ErrDuplicate
		}
		return err
	}
	s.audit(ctx, model.AuditInfo, fmt.Sprintf("Created book: %s (ID: %d)", book.Name, book.ID))
	return nil
}

// GetBookByID 通过 ID 查找图书
func (s *Store) GetBookByID(ctx context.Context, id int64) (*model.Book, error) {
	book, err := scanBook(s.db.QueryRowContext(ctx, s.rebind(
		`SELECT `+bookColumns+` FROM books WHERE id = $1`), id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return book, err
}

// GetBookByName 通过书名精确查找图书
func (s *Store) GetBookByName(ctx context.Context, name string) (*model.Book, error) {
	book, err := scanBook(s.db.QueryRowContext(ctx, s.rebind(
		`SELECT `+bookColumns+` FROM books WHERE name = $1`), name))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return book, err
}

// SearchBooksByName 书名大小写不敏感的子串搜索
func (s *Store) SearchBooksByName(ctx context.Context, query string) ([]*model.Book, error) {
	return s.searchBooks(ctx, "name", query)
}

// SearchBooksByAuthor 作者大小写不敏感的子串搜索
func (s *Store) SearchBooksByAuthor(ctx context.Context, query string) ([]*model.Book, error) {
	return s.searchBooks(ctx, "author", query)
}

func (s *Store) searchBooks(ctx context.Context, field, query string) ([]*model.Book, error) {
	like := s.dialect.CaseInsensitiveLike()
	rows, err := s.db.QueryContext(ctx, s.rebind(
		`SELECT `+bookColumns+` FROM books WHERE `+field+` `+like+` $1 ORDER BY id`),
		"%"+query+"%")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var books []*model.Book
	for rows.Next() {
		b, err := scanBook(rows)
		if err != nil {
			return nil, err
		}
		books = append(books, b)
	}
	return books, rows.Err()
}

// ListBooks 按状态过滤图书：active / inactive / all
func (s *Store) ListBooks(ctx context.Context, status model.StatusFilter) ([]*model.Book, error) {
	if !status.ValidFor(false) {
		return nil, storage.ErrInvalidStatus
	}

	query := `SELECT ` + bookColumns + ` FROM books`
	var args []any
	if status != model.StatusAll {
		query += ` WHERE is_active = $1`
		args = append(args, status == model.StatusActive)
	}
	query += ` ORDER BY id`

	rows, err := s.db.QueryContext(ctx, s.rebind(query), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var books []*model.Book
	for rows.Next() {
		b, err := scanBook(rows)
		if err != nil {
			return nil, err
		}
		books = append(books, b)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	s.audit(ctx, model.AuditInfo, fmt.Sprintf("Retrieved %s books", status))
	return books, nil
}

// ToggleBookActive 翻转图书的 is_active 标记（按书名精确匹配）
// 连续两次翻转恢复原值。
func (s *Store) ToggleBookActive(ctx context.Context, name string) (*model.Book, error) {
	var book *model.Book
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		b, err := scanBook(tx.QueryRowContext(ctx, s.rebind(
			`SELECT `+bookColumns+` FROM books WHERE name = $1`), name))
		if err == sql.ErrNoRows {
			return storage.ErrNotFound
		}
		if err != nil {
			return err
		}
		b.IsActive = !b.IsActive
		if _, err := tx.ExecContext(ctx, s.rebind(
			`UPDATE books SET is_active = $1 WHERE id = $2`), b.IsActive, b.ID); err != nil {
			return err
		}
		book = b
		return nil
	})
	if err == storage.ErrNotFound {
		s.audit(ctx, model.AuditWarning, fmt.Sprintf("Book not found: %s", name))
		return nil, err
	}
	if err != nil {
		return nil, err
	}
	s.audit(ctx, model.AuditInfo,
		fmt.Sprintf("Toggled status for book: %s (Active: %t)", name, book.IsActive))
	return book, nil
}

// DeleteBook 按书名硬删除图书
func (s *Store) DeleteBook(ctx context.Context, name string) error {
	res, err := s.db.ExecContext(ctx, s.rebind(`DELETE FROM books WHERE name = $1`), name)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		s.audit(ctx, model.AuditWarning, fmt.Sprintf("Book not found for deletion: %s", name))
		return storage.ErrNotFound
	}
	s.audit(ctx, model.AuditInfo, fmt.Sprintf("Deleted book: %s", name))
	return nil
}
