package payment

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestNewClaimSynthesizesTransactionID(t *testing.T) {
	now := time.UnixMilli(1700000000123)
	c := NewClaim(decimal.NewFromInt(150), "  ", now)
	assert.Equal(t, "TXN-1700000000123", c.TransactionID)
	assert.Equal(t, now, c.PaidAt)

	c = NewClaim(decimal.NewFromInt(150), " bank-42 ", now)
	assert.Equal(t, "bank-42", c.TransactionID)
}

func TestClaimMatches(t *testing.T) {
	budget := decimal.RequireFromString("150.00")
	assert.True(t, NewClaim(decimal.NewFromInt(150), "", time.Now()).Matches(budget))
	assert.False(t, NewClaim(decimal.NewFromInt(100), "", time.Now()).Matches(budget))
	assert.False(t, NewClaim(decimal.RequireFromString("150.01"), "", time.Now()).Matches(budget))
}

func TestFormatAmount(t *testing.T) {
	assert.Equal(t, "$150", FormatAmount(decimal.RequireFromString("150.00")))
	assert.Equal(t, "$99.5", FormatAmount(decimal.RequireFromString("99.50")))
}
