package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type EventState string

const (
	EventPlanned   EventState = "PLANNED"
	EventActive    EventState = "ACTIVE"
	EventCancelled EventState = "CANCELLED"
	EventFinished  EventState = "FINISHED"
)

type Event struct {
	gorm.Model
	ID               uuid.UUID       `gorm:"type:uuid;primary_key"`
	Name             string          `gorm:"not null"`
	Description      string          `gorm:"type:text"`
	StartTime        time.Time       `gorm:"not null"`
	EndTime          time.Time       `gorm:"not null"`
	MaxCapacity      int             `gorm:"not null"`
	CurrentOccupancy int             `gorm:"not null;default:0"`
	State            EventState      `gorm:"type:varchar(20);not null;default:'PLANNED'"`
	BasePrice        decimal.Decimal `gorm:"type:numeric(10,2)"`
	ImageURL         string
	EventTypeID      uuid.UUID `gorm:"not null"`
	EventType        EventType
	VenueID          uuid.UUID
	Venue            Venue
	TicketTypes      []TicketType
	Tickets          []Ticket
}

func (event *Event) BeforeCreate(tx *gorm.DB) (err error) {
	if event.ID == uuid.Nil {
		event.ID = uuid.New()
	}
	if event.State == "" {
		event.State = EventPlanned
	}
	return
}

// HasAvailability reports whether at least one seat remains.
func (event *Event) HasAvailability() bool {
	return event.CurrentOccupancy < event.MaxCapacity
}

// SeatsLeft returns the number of seats still available.
func (event *Event) SeatsLeft() int {
	return event.MaxCapacity - event.CurrentOccupancy
}

// Reserve adds quantity seats to the running occupancy. It must only be
// called while the event row is locked inside the purchase transaction.
func (event *Event) Reserve(quantity int) error {
	if quantity <= 0 {
		return fmt.Errorf("quantity must be greater than 0")
	}
	if event.CurrentOccupancy+quantity > event.MaxCapacity {
		return fmt.Errorf("not enough capacity: %d seats left", event.SeatsLeft())
	}
	event.CurrentOccupancy += quantity
	return nil
}

// Purchasable reports whether the event state admits new purchases.
func (event *Event) Purchasable() bool {
	return event.State != EventCancelled && event.State != EventFinished
}
