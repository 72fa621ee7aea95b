package gateway

// Amounts are major currency units (e.g. 10.00 USD), always paired with a
// 3-letter ISO-4217 currency code.

type Address struct {
	Line1       string `json:"line1"`
	Line2       string `json:"line2,omitempty"`
	City        string `json:"city"`
	State       string `json:"state,omitempty"`
	PostalCode  string `json:"postal_code"`
	CountryCode string `json:"country_code"`
}

type OrderItem struct {
	Name      string  `json:"name"`
	Quantity  int     `json:"quantity"`
	UnitPrice float64 `json:"unit_price"`
}

// OrderCreationRequest describes a checkout. Constructed by the caller and
// consumed once by CreateOrder; no identity beyond its content.
type OrderCreationRequest struct {
	InvoiceID       string      `json:"invoice_id,omitempty"`
	Items           []OrderItem `json:"items,omitempty"`
	ShippingAddress *Address    `json:"shipping_address,omitempty"`
}

type OrderStatus string

const (
	OrderStatusCreated  OrderStatus = "CREATED"
	OrderStatusApproved OrderStatus = "APPROVED"
	OrderStatusCaptured OrderStatus = "COMPLETED"
)

type Order struct {
	ID     string      `json:"id"`
	Status OrderStatus `json:"status"`
}

type CaptureStatus string

const (
	CaptureStatusSuccess  CaptureStatus = "SUCCESS"
	CaptureStatusPending  CaptureStatus = "PENDING"
	CaptureStatusFailed   CaptureStatus = "FAILED"
	CaptureStatusRefunded CaptureStatus = "REFUNDED"
	CaptureStatusVoided   CaptureStatus = "VOIDED"
)

type CaptureResponse struct {
	OrderID        string        `json:"order_id"`
	TransactionID  string        `json:"transaction_id"`
	Status         CaptureStatus `json:"status"`
	AmountCaptured float64       `json:"amount_captured"`
	Currency       string        `json:"currency"`
}

type RefundStatus string

const (
	RefundStatusSuccess RefundStatus = "SUCCESS"
	RefundStatusPending RefundStatus = "PENDING"
	RefundStatusFailed  RefundStatus = "FAILED"
)

type RefundResponse struct {
	RefundID       string       `json:"refund_id"`
	TransactionID  string       `json:"transaction_id"`
	Status         RefundStatus `json:"status"`
	AmountRefunded float64      `json:"amount_refunded"`
	Currency       string       `json:"currency"`
}

type VoidStatus string

const (
	VoidStatusSuccess VoidStatus = "SUCCESS"
	VoidStatusPending VoidStatus = "PENDING"
	VoidStatusFailed  VoidStatus = "FAILED"
)

type VoidResponse struct {
	AuthorizationID string     `json:"authorization_id"`
	Status          VoidStatus `json:"status"`
}
