package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CheckIn records a ticket being validated at the venue entrance.
type CheckIn struct {
	gorm.Model
	ID            uuid.UUID `gorm:"type:uuid;primary_key"`
	EnteredAt     time.Time `gorm:"not null"`
	ValidatorName string
	Notes         string `gorm:"type:text"`
	TicketID      uuid.UUID
	Ticket        Ticket
	EventID       uuid.UUID
	Event         Event
}

func (checkIn *CheckIn) BeforeCreate(tx *gorm.DB) (err error) {
	if checkIn.ID == uuid.Nil {
		checkIn.ID = uuid.New()
	}
	if checkIn.EnteredAt.IsZero() {
		checkIn.EnteredAt = time.Now()
	}
	return
}
