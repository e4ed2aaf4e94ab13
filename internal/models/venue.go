package models

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Venue struct {
	gorm.Model
	ID          uuid.UUID `gorm:"type:uuid;primary_key"`
	Name        string    `gorm:"not null"`
	Address     string    `gorm:"not null"`
	City        string    `gorm:"not null"`
	Province    string
	PostalCode  string
	Capacity    int  `gorm:"not null"`
	Active      bool `gorm:"not null;default:true"`
	PhoneNumber string
	Description string `gorm:"type:text"`
	Latitude    *float64
	Longitude   *float64
	Events      []Event
}

func (venue *Venue) BeforeCreate(tx *gorm.DB) (err error) {
	if venue.ID == uuid.Nil {
		venue.ID = uuid.New()
	}
	return
}
