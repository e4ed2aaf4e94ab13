package payments

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validCard() Card {
	return Card{
		Number:     "4532015112830366",
		Expiry:     "12/99",
		CVV:        "123",
		HolderName: "Laura Gómez",
	}
}

func approveAll() *SimulatedGateway {
	return NewSimulatedGateway(WithApprovalPercent(100), WithoutLatency())
}

func TestChargeApprovesValidCard(t *testing.T) {
	gateway := approveAll()

	result, err := gateway.Charge(context.Background(), validCard(), decimal.RequireFromString("75.00"))
	require.NoError(t, err)

	assert.True(t, result.Approved)
	assert.Len(t, result.AuthorizationCode, 6)
	assert.Len(t, result.TransactionID, 8)
}

func TestChargeDeclinesBeforeValidationFailures(t *testing.T) {
	gateway := approveAll()
	amount := decimal.RequireFromString("10.00")

	cases := []struct {
		name    string
		mutate  func(*Card)
		amount  decimal.Decimal
		message string
	}{
		{"bad number", func(c *Card) { c.Number = "1234" }, amount, "Invalid card number."},
		{"expired", func(c *Card) { c.Expiry = "01/20" }, amount, "Invalid or expired expiration date."},
		{"short amex cvv", func(c *Card) { c.Number = "374245455400126"; c.CVV = "123" }, amount, "Invalid CVV code."},
		{"missing holder", func(c *Card) { c.HolderName = "  " }, amount, "Cardholder name is required."},
		{"zero amount", func(c *Card) {}, decimal.Zero, "Invalid amount."},
		{"negative amount", func(c *Card) {}, decimal.RequireFromString("-5.00"), "Invalid amount."},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			card := validCard()
			tc.mutate(&card)

			result, err := gateway.Charge(context.Background(), card, tc.amount)
			require.NoError(t, err)

			assert.False(t, result.Approved)
			assert.Equal(t, tc.message, result.Message)
			assert.Empty(t, result.AuthorizationCode)
			assert.Empty(t, result.TransactionID)
		})
	}
}

func TestChargeBankDeclineCarriesNoCodes(t *testing.T) {
	gateway := NewSimulatedGateway(WithApprovalPercent(0), WithoutLatency())

	result, err := gateway.Charge(context.Background(), validCard(), decimal.RequireFromString("75.00"))
	require.NoError(t, err)

	assert.False(t, result.Approved)
	assert.Equal(t, "Payment declined by the bank.", result.Message)
	assert.Empty(t, result.AuthorizationCode)
	assert.Empty(t, result.TransactionID)
}

func TestChargeHonorsContextCancellation(t *testing.T) {
	gateway := NewSimulatedGateway(WithApprovalPercent(100))

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	_, err := gateway.Charge(ctx, validCard(), decimal.RequireFromString("75.00"))
	require.ErrorIs(t, err, context.DeadlineExceeded)
}
