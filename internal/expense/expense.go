package expense

import (
	"time"

	"github.com/shopspring/decimal"
)

// Expense represents a single ingested receipt with its extracted fields.
// Total and VATAmount are nil when extraction could not recover them.
type Expense struct {
	ID          string           `json:"id"`
	Merchant    string           `json:"merchant,omitempty"`
	Currency    string           `json:"currency"`
	Total       *decimal.Decimal `json:"total,omitempty"`
	VATAmount   *decimal.Decimal `json:"vat_amount,omitempty"`
	Filename    string           `json:"filename"`
	ContentType string           `json:"content_type"`
	RawText     string           `json:"raw_text,omitempty"`
	CreatedAt   time.Time        `json:"created_at"`
	UpdatedAt   time.Time        `json:"updated_at"`
}
