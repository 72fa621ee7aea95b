package paypal

import "time"

// Wire types for the PayPal Orders v2 and Payments v2 REST APIs. Only the
// fields this gateway reads or writes are modelled.

type amount struct {
	CurrencyCode string `json:"currency_code"`
	Value        string `json:"value"`
}

type purchaseUnit struct {
	InvoiceID string `json:"invoice_id,omitempty"`
	Amount    amount `json:"amount"`
	// Pointer so outbound purchase units omit the field; only capture
	// responses populate it.
	Payments *payments `json:"payments,omitempty"`
}

type createOrderRequest struct {
	Intent        string         `json:"intent"`
	PurchaseUnits []purchaseUnit `json:"purchase_units"`
}

type orderResponse struct {
	ID            string         `json:"id"`
	Status        string         `json:"status"`
	PurchaseUnits []purchaseUnit `json:"purchase_units,omitempty"`
}

type payments struct {
	Captures []capture `json:"captures,omitempty"`
}

type capture struct {
	ID     string `json:"id"`
	Status string `json:"status"`
	Amount amount `json:"amount"`
}

type refundRequest struct {
	Amount *amount `json:"amount,omitempty"`
}

type refundResponse struct {
	ID     string `json:"id"`
	Status string `json:"status"`
	Amount amount `json:"amount"`
}

type errorDetail struct {
	Issue       string `json:"issue"`
	Field       string `json:"field,omitempty"`
	Description string `json:"description,omitempty"`
}

type errorResponse struct {
	Name    string        `json:"name"`
	Message string        `json:"message"`
	DebugID string        `json:"debug_id,omitempty"`
	Details []errorDetail `json:"details,omitempty"`
}

func (e errorResponse) hasIssue(issue string) bool {
	for _, d := range e.Details {
		if d.Issue == issue {
			return true
		}
	}
	return false
}

type webhookResource struct {
	ID        string `json:"id"`
	Status    string `json:"status,omitempty"`
	InvoiceID string `json:"invoice_id,omitempty"`
	CustomID  string `json:"custom_id,omitempty"`
}

type webhookEvent struct {
	ID         string          `json:"id"`
	EventType  string          `json:"event_type"`
	CreateTime time.Time       `json:"create_time"`
	Resource   webhookResource `json:"resource"`
}
