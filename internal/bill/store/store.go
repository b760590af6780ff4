package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/billed/internal/bill"
)

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// scanner is satisfied by both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

// scanBill reads a bill row in selectBillColumns order.
func scanBill(s scanner) (*bill.Bill, error) {
	var b bill.Bill

	var status string

	var vat, commentary, fileURL, fileName, commentAdmin sql.NullString

	if err := s.Scan(
		&b.ID, &b.Email, &b.Type, &b.Name, &b.Amount, &b.Date,
		&vat, &b.Pct, &commentary, &fileURL, &fileName, &status, &commentAdmin,
	); err != nil {
		return nil, err
	}

	b.Status = bill.Status(status)
	b.VAT = vat.String
	b.Commentary = commentary.String
	b.FileURL = fileURL.String
	b.FileName = fileName.String
	b.CommentAdmin = commentAdmin.String

	return &b, nil
}

const selectBillColumns = `
	id, email, type, name, amount, to_char(date, 'YYYY-MM-DD'),
	vat, pct, commentary, file_url, file_name, status, comment_admin
`

func (s *Store) CreateBill(ctx context.Context, b *bill.Bill) error {
	query := `
		INSERT INTO bills (email, type, name, amount, date, vat, pct, commentary, file_url, file_name, status, comment_admin, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, NOW())
		RETURNING id
	`

	err := s.db.QueryRowContext(ctx, query,
		b.Email,
		b.Type,
		b.Name,
		b.Amount,
		b.Date,
		b.VAT,
		b.Pct,
		b.Commentary,
		b.FileURL,
		b.FileName,
		b.Status,
		b.CommentAdmin,
	).Scan(&b.ID)
	if err != nil {
		return fmt.Errorf("creating bill: %w", err)
	}

	return nil
}

func (s *Store) GetBill(ctx context.Context, id uuid.UUID) (*bill.Bill, error) {
	query := `SELECT ` + selectBillColumns + ` FROM bills WHERE id = $1`

	b, err := scanBill(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, bill.ErrNotFound
		}

		return nil, fmt.Errorf("getting bill: %w", err)
	}

	return b, nil
}

// ListBills returns bills in insertion order; ordering for display happens in the caller.
func (s *Store) ListBills(ctx context.Context, filter bill.ListFilter) ([]*bill.Bill, error) {
	query := `SELECT ` + selectBillColumns + ` FROM bills`

	var args []any

	if filter.Email != "" {
		query += " WHERE email = $1"

		args = append(args, filter.Email)
	}

	query += " ORDER BY created_at ASC"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing bills: %w", err)
	}
	defer rows.Close()

	var bills []*bill.Bill

	for rows.Next() {
		b, err := scanBill(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning bill: %w", err)
		}

		bills = append(bills, b)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating bill rows: %w", err)
	}

	return bills, nil
}

func (s *Store) UpdateBill(ctx context.Context, b *bill.Bill) error {
	query := `
		UPDATE bills
		SET type = $1, name = $2, amount = $3, date = $4, vat = $5, pct = $6, commentary = $7,
			file_url = $8, file_name = $9, status = $10, comment_admin = $11, updated_at = NOW()
		WHERE id = $12
	`

	res, err := s.db.ExecContext(ctx, query,
		b.Type,
		b.Name,
		b.Amount,
		b.Date,
		b.VAT,
		b.Pct,
		b.Commentary,
		b.FileURL,
		b.FileName,
		b.Status,
		b.CommentAdmin,
		b.ID,
	)
	if err != nil {
		return fmt.Errorf("updating bill: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("updating bill: %w", err)
	}

	if n == 0 {
		return bill.ErrNotFound
	}

	return nil
}
