package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5"
	"github.com/shopsphere/payment-gateway/internal/orders"
)

// OrderStatusRepository persists order lifecycle transitions reported by
// payment webhooks. Webhook delivery carries no ordering guarantee, so each
// update re-reads the current status under a row lock and refuses illegal
// transitions instead of overwriting terminal state.
type OrderStatusRepository struct {
	db     *DB
	logger *slog.Logger
}

func NewOrderStatusRepository(db *DB, logger *slog.Logger) *OrderStatusRepository {
	return &OrderStatusRepository{db: db, logger: logger}
}

var _ orders.StatusStore = (*OrderStatusRepository)(nil)

func (r *OrderStatusRepository) UpdateOrderStatus(ctx context.Context, orderID string, status orders.Status, transactionID string) error {
	tx, err := r.db.Pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	var current orders.Status
	err = tx.QueryRow(ctx,
		`SELECT status FROM orders WHERE id = $1 FOR UPDATE`, orderID,
	).Scan(&current)

	switch {
	case errors.Is(err, pgx.ErrNoRows):
		_, err = tx.Exec(ctx,
			`INSERT INTO orders (id, status, transaction_id) VALUES ($1, $2, $3)`,
			orderID, status, transactionID,
		)
		if err != nil {
			return fmt.Errorf("failed to insert order status: %w", err)
		}
	case err != nil:
		return fmt.Errorf("failed to read order status: %w", err)
	default:
		if !orders.CanTransition(current, status) {
			// Stale or out-of-order event. Keep the stored status and
			// flag the anomaly for reconciliation.
			r.logger.Warn("ignoring out-of-order status transition",
				"order_id", orderID,
				"current_status", current,
				"requested_status", status,
				"transaction_id", transactionID,
			)
			return nil
		}

		_, err = tx.Exec(ctx,
			`UPDATE orders SET status = $2, transaction_id = $3, updated_at = now() WHERE id = $1`,
			orderID, status, transactionID,
		)
		if err != nil {
			return fmt.Errorf("failed to update order status: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit order status update: %w", err)
	}

	r.logger.Info("order status updated",
		"order_id", orderID,
		"status", status,
		"transaction_id", transactionID,
	)
	return nil
}

// GetOrderStatus returns the stored status, or empty when unknown.
func (r *OrderStatusRepository) GetOrderStatus(ctx context.Context, orderID string) (orders.Status, error) {
	var status orders.Status
	err := r.db.Pool.QueryRow(ctx,
		`SELECT status FROM orders WHERE id = $1`, orderID,
	).Scan(&status)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to read order status: %w", err)
	}
	return status, nil
}
