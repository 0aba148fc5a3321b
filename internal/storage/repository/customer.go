package repository

import (
	"context"
	"database/sql"
	"fmt"

	"library-admin/internal/model"
	"library-admin/internal/storage"
)

const customerColumns = `id, full_name, email, city, age, role, is_active`

func scanCustomer(row interface{ Scan(...any) error }) (*model.Customer, error) {
	c := &model.Customer{}
	err := row.Scan(&c.ID, &c.FullName, &c.Email, &c.City, &c.Age, &c.Role, &c.IsActive)
	if err != nil {
		return nil, err
	}
	return c, nil
}

// CreateCustomer 创建客户，邮箱唯一
func (s *Store) CreateCustomer(ctx context.Context, customer *model.Customer) error {
	if customer.Role == "" {
		customer.Role = model.RoleCustomer
	}
	err := s.db.QueryRowContext(ctx, s.rebind(
		`INSERT INTO customers (full_name, email, city, age, role, is_active)
		 VALUES ($1, $2, $3, $4, $5, $6) RETURNING id`),
		customer.FullName, customer.Email, customer.City, customer.Age,
		customer.Role, customer.IsActive,
	).Scan(&customer.ID)
	if err != nil {
		if s.dialect.IsDuplicate(err) {
			s.audit(ctx, model.AuditWarning, fmt.Sprintf("Customer already exists: %s", customer.Email))
			return storage.ErrDuplicate
		}
		return err
	}
	s.audit(ctx, model.AuditInfo,
		fmt.Sprintf("Created customer: %s (ID: %d)", customer.FullName, customer.ID))
	return nil
}

// GetCustomerByID 通过 ID 查找客户
func (s *Store) GetCustomerByID(ctx context.Context, id int64) (*model.Customer, error) {
	c, err := scanCustomer(s.db.QueryRowContext(ctx, s.rebind(
		`SELECT `+customerColumns+` FROM customers WHERE id = $1`), id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return c, err
}

// GetCustomerByEmail 通过邮箱精确查找客户
func (s *Store) GetCustomerByEmail(ctx context.Context, email string) (*model.Customer, error) {
	c, err := scanCustomer(s.db.QueryRowContext(ctx, s.rebind(
		`SELECT `+customerColumns+` FROM customers WHERE email = $1`), email))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return c, err
}

// SearchCustomersByEmail 邮箱大小写不敏感的子串搜索
func (s *Store) SearchCustomersByEmail(ctx context.Context, query string) ([]*model.Customer, error) {
	return s.searchCustomers(ctx, "email", query)
}

// SearchCustomersByName 姓名大小写不敏感的子串搜索
func (s *Store) SearchCustomersByName(ctx context.Context, query string) ([]*model.Customer, error) {
	return s.searchCustomers(ctx, "full_name", query)
}

func (s *Store) searchCustomers(ctx context.Context, field, query string) ([]*model.Customer, error) {
	like := s.dialect.CaseInsensitiveLike()
	rows, err := s.db.QueryContext(ctx, s.rebind(
		`SELECT `+customerColumns+` FROM customers WHERE `+field+` `+like+` $1 ORDER BY id`),
		"%"+query+"%")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var customers []*model.Customer
	for rows.Next() {
		c, err := scanCustomer(rows)
		if err != nil {
			return nil, err
		}
		customers = append(customers, c)
	}
	return customers, rows.Err()
}

// ListCustomers 按状态过滤客户：active / inactive / all
func (s *Store) ListCustomers(ctx context.Context, status model.StatusFilter) ([]*model.Customer, error) {
	if !status.ValidFor(false) {
		return nil, storage.ErrInvalidStatus
	}

	query := `SELECT ` + customerColumns + ` FROM customers`
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

	var customers []*model.Customer
	for rows.Next() {
		c, err := scanCustomer(rows)
		if err != nil {
			return nil, err
		}
		customers = append(customers, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	s.audit(ctx, model.AuditInfo, fmt.Sprintf("Retrieved %s customers", status))
	return customers, nil
}

// ToggleCustomerActive 翻转客户的 is_active 标记（按邮箱精确匹配）
func (s *Store) ToggleCustomerActive(ctx context.Context, email string) (*model.Customer, error) {
	var customer *model.Customer
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		c, err := scanCustomer(tx.QueryRowContext(ctx, s.rebind(
			`SELECT `+customerColumns+` FROM customers WHERE email = $1`), email))
		if err == sql.ErrNoRows {
			return storage.ErrNotFound
		}
		if err != nil {
			return err
		}
		c.IsActive = !c.IsActive
		if _, err := tx.ExecContext(ctx, s.rebind(
			`UPDATE customers SET is_active = $1 WHERE id = $2`), c.IsActive, c.ID); err != nil {
			return err
		}
		customer = c
		return nil
	})
	if err == storage.ErrNotFound {
		s.audit(ctx, model.AuditWarning, fmt.Sprintf("Customer not found: %s", email))
		return nil, err
	}
	if err != nil {
		return nil, err
	}
	s.audit(ctx, model.AuditInfo,
		fmt.Sprintf("Toggled status for customer: %s (Active: %t)", email, customer.IsActive))
	return customer, nil
}

// DeleteCustomer 按邮箱硬删除客户
// 存在未归还借阅时拒绝删除（ErrHasActiveLoans）。
func (s *Store) DeleteCustomer(ctx context.Context, email string) error {
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		c, err := scanCustomer(tx.QueryRowContext(ctx, s.rebind(
			`SELECT `+customerColumns+` FROM customers WHERE email = $1`), email))
		if err == sql.ErrNoRows {
			return storage.ErrNotFound
		}
		if err != nil {
			return err
		}

		var active int
		if err := tx.QueryRowContext(ctx, s.rebind(
			`SELECT COUNT(*) FROM loans WHERE customer_id = $1 AND is_active = $2`),
			c.ID, true).Scan(&active); err != nil {
			return err
		}
		if active > 0 {
			return storage.ErrHasActiveLoans
		}

		_, err = tx.ExecContext(ctx, s.rebind(`DELETE FROM customers WHERE id = $1`), c.ID)
		return err
	})
	switch err {
	case nil:
		s.audit(ctx, model.AuditInfo, fmt.Sprintf("Deleted customer: %s", email))
	case storage.ErrNotFound:
		s.audit(ctx, model.AuditWarning, fmt.Sprintf("Customer not found for deletion: %s", email))
	case storage.ErrHasActiveLoans:
		s.audit(ctx, model.AuditWarning,
			fmt.Sprintf("Refused to delete customer with active loans: %s", email))
	}
	return err
}
