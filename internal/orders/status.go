// Package orders defines the order-status contract the payment core calls
// into. Storage itself lives behind the StatusStore port; the core only
// records lifecycle transitions reported by gateways and webhooks.
package orders

import "context"

type Status string

const (
	StatusPending   Status = "PENDING"
	StatusCompleted Status = "COMPLETED"
	StatusDenied    Status = "DENIED"
	StatusRefunded  Status = "REFUNDED"
)

// StatusStore is the external collaborator that persists order status.
type StatusStore interface {
	// UpdateOrderStatus records a transition for orderID. Implementations
	// must not let a stale event overwrite a terminal status; an illegal
	// transition is flagged, not applied.
	UpdateOrderStatus(ctx context.Context, orderID string, status Status, transactionID string) error
}

// CanTransition reports whether moving from one status to another is legal.
// Webhook events carry no ordering guarantee, so these rules keep an
// out-of-order event (e.g. a refund notification arriving before the
// capture notification) from corrupting a terminal state.
func CanTransition(from, to Status) bool {
	if from == to {
		return true
	}

	switch from {
	case StatusPending, "":
		return true
	case StatusCompleted:
		return to == StatusRefunded
	case StatusDenied:
		// A denied capture can be retried and complete later.
		return to == StatusCompleted
	case StatusRefunded:
		return false
	}
	return false
}

// IsTerminal reports whether no further transitions are expected.
func IsTerminal(s Status) bool {
	return s == StatusRefunded
}
