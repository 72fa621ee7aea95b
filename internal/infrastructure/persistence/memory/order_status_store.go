// Package memory provides an in-memory order-status store for tests and
// local development without a database.
package memory

import (
	"context"
	"log/slog"
	"sync"

	"github.com/shopsphere/payment-gateway/internal/orders"
)

type OrderStatusStore struct {
	mu     sync.Mutex
	status map[string]orders.Status
	txns   map[string]string
	logger *slog.Logger
}

func NewOrderStatusStore(logger *slog.Logger) *OrderStatusStore {
	return &OrderStatusStore{
		status: make(map[string]orders.Status),
		txns:   make(map[string]string),
		logger: logger,
	}
}

var _ orders.StatusStore = (*OrderStatusStore)(nil)

func (s *OrderStatusStore) UpdateOrderStatus(_ context.Context, orderID string, status orders.Status, transactionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	current := s.status[orderID]
	if current != "" && !orders.CanTransition(current, status) {
		s.logger.Warn("ignoring out-of-order status transition",
			"order_id", orderID,
			"current_status", current,
			"requested_status", status,
			"transaction_id", transactionID,
		)
		return nil
	}

	s.status[orderID] = status
	s.txns[orderID] = transactionID
	return nil
}

func (s *OrderStatusStore) GetOrderStatus(_ context.Context, orderID string) (orders.Status, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status[orderID], nil
}
