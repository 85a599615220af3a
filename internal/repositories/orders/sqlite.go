package orders

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/brimon/internal/common"
	"github.com/dmitrijs2005/brimon/internal/dbx"
	"github.com/dmitrijs2005/brimon/internal/models"
)

const selectOrder = `SELECT id, title, description, date, status, requested_by,
	is_urgent, arrival_date, notes FROM orders`

type SQLiteRepository struct {
	db dbx.DBTX
}

func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

type scanner interface {
	Scan(dest ...any) error
}

func scanOrder(s scanner) (*models.Order, error) {
	var (
		o            models.Order
		date, status string
		arrival      sql.NullString
	)
	err := s.Scan(&o.ID, &o.Title, &o.Description, &date, &status, &o.RequestedBy,
		&o.IsUrgent, &arrival, &o.Notes)
	if err != nil {
		return nil, err
	}
	o.Status = models.OrderStatus(status)

	if o.Date, err = dbx.ParseTime(date); err != nil {
		return nil, err
	}
	if o.ArrivalDate, err = dbx.ParseNullTime(arrival); err != nil {
		return nil, err
	}
	return &o, nil
}

// List returns every order, newest first.
func (r *SQLiteRepository) List(ctx context.Context) ([]models.Order, error) {
	rows, err := r.db.QueryContext(ctx, selectOrder+" ORDER BY date DESC, id")
	if err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}
	defer rows.Close()

	var result []models.Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan order row: %w", err)
		}
		result = append(result, *o)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate order rows: %w", err)
	}
	return result, nil
}

func (r *SQLiteRepository) Get(ctx context.Context, id string) (*models.Order, error) {
	o, err := scanOrder(r.db.QueryRowContext(ctx, selectOrder+" WHERE id = ?", id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, common.ErrorNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get order[%s]: %w", id, err)
	}
	return o, nil
}

func (r *SQLiteRepository) Add(ctx context.Context, order *models.Order) error {
	if err := order.Validate(); err != nil {
		return err
	}

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO orders (id, title, description, date, status, requested_by, is_urgent, arrival_date, notes)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, order.ID, order.Title, order.Description, dbx.FormatTime(order.Date), string(order.Status),
		order.RequestedBy, order.IsUrgent, dbx.NullTime(order.ArrivalDate), order.Notes)
	if err != nil {
		return fmt.Errorf("failed to add order[%s]: %w", order.ID, err)
	}
	return nil
}

// Update applies patch to the stored order and returns the result. It does
// not judge whether a status change is allowed; callers do that first.
func (r *SQLiteRepository) Update(ctx context.Context, id string, patch models.OrderPatch) (*models.Order, error) {
	o, err := r.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	patch.Apply(o)
	if err := o.Validate(); err != nil {
		return nil, err
	}

	res, err := r.db.ExecContext(ctx, `
		UPDATE orders SET status = ?, arrival_date = ?, notes = ? WHERE id = ?
	`, string(o.Status), dbx.NullTime(o.ArrivalDate), o.Notes, id)
	if err != nil {
		return nil, fmt.Errorf("failed to update order[%s]: %w", id, err)
	}
	if err := dbx.RowsAffectedOne(res, common.ErrorNotFound); err != nil {
		return nil, err
	}
	return o, nil
}

func (r *SQLiteRepository) Clear(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM orders`); err != nil {
		return fmt.Errorf("failed to clear orders: %w", err)
	}
	return nil
}
