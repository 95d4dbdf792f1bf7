package repo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	domain "github.com/ojuansoares/dolse-vitta/internal/entity"
	"github.com/ojuansoares/dolse-vitta/internal/usecase"
)

type SQLOrderRepo struct{ db *DB }

func NewSQLOrderRepo(db *DB) *SQLOrderRepo { return &SQLOrderRepo{db: db} }

func (r *SQLOrderRepo) InsertOrder(ctx context.Context, o domain.Order) (string, error) {
	id := uuid.NewString()
	_, err := r.db.exec(ctx, r.db, `
INSERT INTO orders (id,o_customer_name,o_note,o_total,o_created_at)
VALUES (?,?,?,?,?)`, id, o.CustomerName, o.Note, o.Total.String(), o.CreatedAt)
	if err != nil {
		return "", fmt.Errorf("insert order: %w", err)
	}
	return id, nil
}

// InsertOrderLines writes every line in one statement. oi_position records
// the slice index so reads return lines in assembly order.
func (r *SQLOrderRepo) InsertOrderLines(ctx context.Context, orderID string, lines []domain.OrderLine) error {
	if len(lines) == 0 {
		return nil
	}
	var (
		b    strings.Builder
		args = make([]any, 0, len(lines)*9)
	)
	b.WriteString(`INSERT INTO order_item (id,oi_order_id,oi_product_id,oi_product_name,oi_product_price,oi_quantity,oi_subtotal,oi_position,oi_created_at) VALUES `)
	for i, l := range lines {
		if l.OrderID != orderID {
			return fmt.Errorf("line %d belongs to order %q, not %q", i, l.OrderID, orderID)
		}
		if i > 0 {
			b.WriteString(",")
		}
		b.WriteString("(?,?,?,?,?,?,?,?,?)")
		id := l.ID
		if id == "" {
			id = uuid.NewString()
		}
		args = append(args, id, orderID, l.ProductID, l.ProductName, l.UnitPrice.String(), l.Quantity, l.Subtotal.String(), i, l.CreatedAt)
	}
	if _, err := r.db.exec(ctx, r.db, b.String(), args...); err != nil {
		return fmt.Errorf("insert order lines: %w", err)
	}
	return nil
}

const orderSelect = `SELECT id, o_customer_name, COALESCE(o_note,''), o_total, o_created_at FROM orders`

const lineSelect = `
SELECT id, oi_order_id, oi_product_id, oi_product_name, oi_product_price, oi_quantity, oi_subtotal, oi_created_at
FROM order_item`

func scanOrder(s rowScanner) (domain.Order, error) {
	var o domain.Order
	err := s.Scan(&o.ID, &o.CustomerName, &o.Note, &o.Total, &o.CreatedAt)
	return o, err
}

func (r *SQLOrderRepo) GetOrder(ctx context.Context, id string) (*domain.Order, error) {
	o, err := scanOrder(r.db.queryRow(ctx, orderSelect+` WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, usecase.ErrRecordNotFound
	}
	if err != nil {
		return nil, err
	}
	lines, err := r.linesOf(ctx, []string{id})
	if err != nil {
		return nil, err
	}
	o.Lines = lines[id]
	return &o, nil
}

// ListOrders returns every order, newest first, each with its lines.
func (r *SQLOrderRepo) ListOrders(ctx context.Context) ([]domain.Order, error) {
	rows, err := r.db.query(ctx, orderSelect+` ORDER BY o_created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var (
		out []domain.Order
		ids []string
	)
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("scan order: %w", err)
		}
		out = append(out, o)
		ids = append(ids, o.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return out, nil
	}

	lines, err := r.linesOf(ctx, ids)
	if err != nil {
		return nil, err
	}
	for i := range out {
		out[i].Lines = lines[out[i].ID]
	}
	return out, nil
}

func (r *SQLOrderRepo) linesOf(ctx context.Context, orderIDs []string) (map[string][]domain.OrderLine, error) {
	in, args := inList(orderIDs)
	rows, err := r.db.query(ctx, lineSelect+` WHERE oi_order_id IN (`+in+`) ORDER BY oi_order_id, oi_position`, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make(map[string][]domain.OrderLine, len(orderIDs))
	for rows.Next() {
		var l domain.OrderLine
		if err := rows.Scan(&l.ID, &l.OrderID, &l.ProductID, &l.ProductName, &l.UnitPrice, &l.Quantity, &l.Subtotal, &l.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan order line: %w", err)
		}
		out[l.OrderID] = append(out[l.OrderID], l)
	}
	return out, rows.Err()
}

// DeleteAllOrders removes lines before headers, in one transaction.
func (r *SQLOrderRepo) DeleteAllOrders(ctx context.Context) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := r.db.exec(ctx, tx, `DELETE FROM order_item`); err != nil {
		return fmt.Errorf("delete order lines: %w", err)
	}
	if _, err := r.db.exec(ctx, tx, `DELETE FROM orders`); err != nil {
		return fmt.Errorf("delete orders: %w", err)
	}
	return tx.Commit()
}

var _ usecase.OrderStore = (*SQLOrderRepo)(nil)
