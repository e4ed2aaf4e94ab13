package models

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type EventCategory string

const (
	CategoryCultural      EventCategory = "CULTURAL"
	CategorySports        EventCategory = "SPORTS"
	CategoryCorporate     EventCategory = "CORPORATE"
	CategoryEntertainment EventCategory = "ENTERTAINMENT"
)

// EventType classifies events (concert, conference, match...). Every event
// must reference one.
type EventType struct {
	gorm.Model
	ID          uuid.UUID     `gorm:"type:uuid;primary_key"`
	Name        string        `gorm:"unique;not null"`
	Description string        `gorm:"type:text"`
	Category    EventCategory `gorm:"type:varchar(50)"`
	Events      []Event
}

func (eventType *EventType) BeforeCreate(tx *gorm.DB) (err error) {
	if eventType.ID == uuid.Nil {
		eventType.ID = uuid.New()
	}
	return
}
