// Package payment records requester payment claims. No gateway is involved:
// a claim is accepted when its amount equals the agreed budget.
package payment

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Claim is what the requester says they paid.
type Claim struct {
	Amount        decimal.Decimal
	TransactionID string
	PaidAt        time.Time
}

// NewClaim fills in a synthetic transaction id when none was supplied.
func NewClaim(amount decimal.Decimal, transactionID string, now time.Time) Claim {
	ref := strings.TrimSpace(transactionID)
	if ref == "" {
		ref = TransactionID(now)
	}
	return Claim{Amount: amount, TransactionID: ref, PaidAt: now}
}

// TransactionID builds a timestamp reference of the form TXN-<unix millis>.
func TransactionID(t time.Time) string {
	return fmt.Sprintf("TXN-%d", t.UnixMilli())
}

// Matches reports whether the claim settles budget exactly; 150 and 150.00 match.
func (c Claim) Matches(budget decimal.Decimal) bool {
	return c.Amount.Equal(budget)
}

// FormatAmount renders an amount for notification text.
func FormatAmount(d decimal.Decimal) string {
	return "$" + d.String()
}
