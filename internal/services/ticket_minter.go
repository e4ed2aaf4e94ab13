package services

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/AleGonz2812/eventos-api/internal/apperrors"
	"github.com/AleGonz2812/eventos-api/internal/models"
	"github.com/AleGonz2812/eventos-api/internal/qr"
)

// EncodeFunc renders a QR payload as base64 PNG text.
type EncodeFunc func(payload string, sizePx int) (string, error)

// TicketMinter produces tickets for a purchase line: a unique serial, a
// structured QR payload and the encoded image.
type TicketMinter struct {
	QRSize int
	Encode EncodeFunc
}

func NewTicketMinter() *TicketMinter {
	return &TicketMinter{
		QRSize: qr.DefaultSize,
		Encode: qr.EncodeBase64,
	}
}

// qrPayload is what a scanner reads at check-in. Serial plus confirmation
// code uniquely identify {ticket, purchase}; the rest is display data.
type qrPayload struct {
	Serial           string    `json:"serial"`
	ConfirmationCode string    `json:"confirmation_code"`
	Event            string    `json:"event"`
	TicketType       string    `json:"ticket_type"`
	Buyer            string    `json:"buyer"`
	PurchasedAt      time.Time `json:"purchased_at"`
}

// Mint builds one unvalidated ticket for the given purchase. The ticket is
// not persisted; the caller owns the transaction.
func (m *TicketMinter) Mint(ticketType *models.TicketType, event *models.Event, purchase *models.Purchase, buyer *models.User) (models.Ticket, error) {
	serial := "TCK-" + uuid.New().String()

	payload, err := json.Marshal(qrPayload{
		Serial:           serial,
		ConfirmationCode: purchase.ConfirmationCode,
		Event:            event.Name,
		TicketType:       ticketType.Name,
		Buyer:            buyer.Email,
		PurchasedAt:      purchase.PurchasedAt,
	})
	if err != nil {
		return models.Ticket{}, apperrors.NewEncoding(err)
	}

	encoded, err := m.Encode(string(payload), m.QRSize)
	if err != nil {
		return models.Ticket{}, err
	}

	return models.Ticket{
		ID:           uuid.New(),
		SerialNumber: serial,
		Validated:    false,
		QRCode:       encoded,
		TicketTypeID: ticketType.ID,
		EventID:      event.ID,
	}, nil
}
