package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Ticket struct {
	gorm.Model
	ID           uuid.UUID `gorm:"type:uuid;primary_key"`
	SerialNumber string    `gorm:"unique;not null"`
	Validated    bool      `gorm:"not null;default:false"`
	ValidatedAt  *time.Time
	QRCode       string `gorm:"type:text"`
	TicketTypeID uuid.UUID
	TicketType   TicketType
	EventID      uuid.UUID
	Event        Event
	PurchaseID   uuid.UUID
}

func (ticket *Ticket) BeforeCreate(tx *gorm.DB) (err error) {
	if ticket.ID == uuid.Nil {
		ticket.ID = uuid.New()
	}
	return
}
