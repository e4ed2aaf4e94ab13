package services

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AleGonz2812/eventos-api/internal/models"
)

func TestMintBuildsUnvalidatedTicket(t *testing.T) {
	minter := NewTicketMinter()

	var captured string
	minter.Encode = func(payload string, sizePx int) (string, error) {
		captured = payload
		return "ZmFrZS1wbmc=", nil
	}

	event := &models.Event{ID: uuid.New(), Name: "Feria del Libro"}
	ticketType := &models.TicketType{ID: uuid.New(), Name: "VIP"}
	buyer := &models.User{ID: uuid.New(), Email: "ana@example.com"}
	purchase := &models.Purchase{
		ID:               uuid.New(),
		ConfirmationCode: uuid.New().String(),
		PurchasedAt:      time.Now(),
	}

	ticket, err := minter.Mint(ticketType, event, purchase, buyer)
	require.NoError(t, err)

	assert.Contains(t, ticket.SerialNumber, "TCK-")
	assert.False(t, ticket.Validated)
	assert.Nil(t, ticket.ValidatedAt)
	assert.Equal(t, "ZmFrZS1wbmc=", ticket.QRCode)
	assert.Equal(t, ticketType.ID, ticket.TicketTypeID)
	assert.Equal(t, event.ID, ticket.EventID)

	var payload map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(captured), &payload), "payload must be well-formed JSON")
	assert.Equal(t, ticket.SerialNumber, payload["serial"])
	assert.Equal(t, purchase.ConfirmationCode, payload["confirmation_code"])
	assert.Equal(t, "Feria del Libro", payload["event"])
	assert.Equal(t, "VIP", payload["ticket_type"])
	assert.Equal(t, "ana@example.com", payload["buyer"])
}

func TestMintGeneratesDistinctSerials(t *testing.T) {
	minter := NewTicketMinter()
	minter.Encode = func(payload string, sizePx int) (string, error) {
		return "ZmFrZQ==", nil
	}

	event := &models.Event{ID: uuid.New(), Name: "Evento"}
	ticketType := &models.TicketType{ID: uuid.New(), Name: "General"}
	buyer := &models.User{ID: uuid.New(), Email: "ana@example.com"}
	purchase := &models.Purchase{ID: uuid.New(), ConfirmationCode: uuid.New().String(), PurchasedAt: time.Now()}

	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		ticket, err := minter.Mint(ticketType, event, purchase, buyer)
		require.NoError(t, err)
		require.False(t, seen[ticket.SerialNumber])
		seen[ticket.SerialNumber] = true
	}
}
