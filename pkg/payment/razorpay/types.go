package razorpay

import "fmt"

// CreateOrderRequest represents the request body for the Orders API.
// Amount is in the currency's minor unit (paise for INR).
type CreateOrderRequest struct {
	Amount   int64             `json:"amount"`
	Currency string            `json:"currency"`
	Receipt  string            `json:"receipt"`
	Notes    map[string]string `json:"notes,omitempty"`
}

// OrderResponse represents a gateway order (payment intent).
type OrderResponse struct {
	ID         string            `json:"id"`
	Entity     string            `json:"entity"`
	Amount     int64             `json:"amount"`
	AmountPaid int64             `json:"amount_paid"`
	AmountDue  int64             `json:"amount_due"`
	Currency   string            `json:"currency"`
	Receipt    string            `json:"receipt"`
	Status     string            `json:"status"` // created, attempted, paid
	Attempts   int               `json:"attempts"`
	Notes      map[string]string `json:"notes,omitempty"`
	CreatedAt  int64             `json:"created_at"` // unix seconds
}

// PaymentResponse represents a payment fetched from the gateway.
type PaymentResponse struct {
	ID          string `json:"id"`
	Entity      string `json:"entity"`
	Amount      int64  `json:"amount"`
	Currency    string `json:"currency"`
	Status      string `json:"status"` // created, authorized, captured, refunded, failed
	OrderID     string `json:"order_id"`
	Method      string `json:"method"`
	Email       string `json:"email"`
	Contact     string `json:"contact"`
	ErrorCode   string `json:"error_code,omitempty"`
	ErrorReason string `json:"error_reason,omitempty"`
	CreatedAt   int64  `json:"created_at"`
}

// ErrorResponse represents an error body from the Razorpay API.
type ErrorResponse struct {
	ErrorBody struct {
		Code        string                 `json:"code"`
		Description string                 `json:"description"`
		Field       string                 `json:"field,omitempty"`
		Metadata    map[string]interface{} `json:"metadata,omitempty"`
	} `json:"error"`
}

func (e *ErrorResponse) Error() string {
	return fmt.Sprintf("razorpay error: code=%s, description=%s", e.ErrorBody.Code, e.ErrorBody.Description)
}
