package models

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type TicketType struct {
	gorm.Model
	ID          uuid.UUID       `gorm:"type:uuid;primary_key"`
	Name        string          `gorm:"not null"`
	Price       decimal.Decimal `gorm:"type:numeric(10,2);not null"`
	Active      bool            `gorm:"not null;default:true"`
	Description string          `gorm:"type:text"`
	EventID     uuid.UUID
	Event       Event
}

func (ticketType *TicketType) BeforeCreate(tx *gorm.DB) (err error) {
	if ticketType.ID == uuid.Nil {
		ticketType.ID = uuid.New()
	}
	return
}
