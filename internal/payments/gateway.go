// Package payments holds the payment gateway contract and the simulated
// implementation used in place of a live processor. Purchases must only be
// processed after the gateway approves the charge.
package payments

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"math/big"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Result is the gateway's answer to a charge attempt.
type Result struct {
	Approved          bool   `json:"approved"`
	Message           string `json:"message"`
	AuthorizationCode string `json:"authorization_code,omitempty"`
	TransactionID     string `json:"transaction_id,omitempty"`
}

// Gateway charges a card for the given amount. Implementations must not
// mutate any ticketing state; they only approve or decline.
type Gateway interface {
	Charge(ctx context.Context, card Card, amount decimal.Decimal) (Result, error)
}

// SimulatedGateway validates card details and approves charges with a
// configurable probability, standing in for a real processor.
type SimulatedGateway struct {
	approvalPercent int
	minLatency      time.Duration
	maxLatency      time.Duration
}

type GatewayOption func(*SimulatedGateway)

// WithApprovalPercent fixes the approval probability. 100 approves every
// valid charge, 0 declines every one. Used by tests.
func WithApprovalPercent(percent int) GatewayOption {
	return func(g *SimulatedGateway) {
		g.approvalPercent = percent
	}
}

// WithoutLatency disables the simulated processing delay. Used by tests.
func WithoutLatency() GatewayOption {
	return func(g *SimulatedGateway) {
		g.minLatency = 0
		g.maxLatency = 0
	}
}

func NewSimulatedGateway(opts ...GatewayOption) *SimulatedGateway {
	g := &SimulatedGateway{
		approvalPercent: 95,
		minLatency:      1500 * time.Millisecond,
		maxLatency:      2500 * time.Millisecond,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Charge runs the validation pipeline and, if it passes, simulates the
// bank's decision. A validation failure never reaches the decision step.
func (g *SimulatedGateway) Charge(ctx context.Context, card Card, amount decimal.Decimal) (Result, error) {
	if err := g.sleep(ctx); err != nil {
		return Result{}, err
	}

	if !ValidCardNumber(card.Number) {
		return Result{Approved: false, Message: "Invalid card number."}, nil
	}
	if !ValidExpiry(card.Expiry) {
		return Result{Approved: false, Message: "Invalid or expired expiration date."}, nil
	}
	brand := DetectBrand(card.Number)
	if !ValidCVV(card.CVV, brand) {
		return Result{Approved: false, Message: "Invalid CVV code."}, nil
	}
	if strings.TrimSpace(card.HolderName) == "" {
		return Result{Approved: false, Message: "Cardholder name is required."}, nil
	}
	if !amount.IsPositive() {
		return Result{Approved: false, Message: "Invalid amount."}, nil
	}

	if !g.approved() {
		return Result{Approved: false, Message: "Payment declined by the bank."}, nil
	}

	return Result{
		Approved:          true,
		Message:           "Payment approved.",
		AuthorizationCode: randomDigits(6),
		TransactionID:     randomTransactionID(),
	}, nil
}

func (g *SimulatedGateway) sleep(ctx context.Context) error {
	if g.maxLatency <= 0 {
		return nil
	}
	delay := g.minLatency
	if spread := g.maxLatency - g.minLatency; spread > 0 {
		n, err := rand.Int(rand.Reader, big.NewInt(int64(spread)))
		if err == nil {
			delay += time.Duration(n.Int64())
		}
	}
	select {
	case <-time.After(delay):
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (g *SimulatedGateway) approved() bool {
	if g.approvalPercent >= 100 {
		return true
	}
	if g.approvalPercent <= 0 {
		return false
	}
	n, err := rand.Int(rand.Reader, big.NewInt(100))
	if err != nil {
		return false
	}
	return int(n.Int64()) < g.approvalPercent
}

func randomDigits(length int) string {
	const charset = "0123456789"
	code := make([]byte, length)
	if _, err := rand.Read(code); err != nil {
		return strings.Repeat("0", length)
	}
	for i := range code {
		code[i] = charset[int(code[i])%len(charset)]
	}
	return string(code)
}

func randomTransactionID() string {
	raw := make([]byte, 4)
	if _, err := rand.Read(raw); err != nil {
		return "00000000"
	}
	return strings.ToUpper(hex.EncodeToString(raw))
}
