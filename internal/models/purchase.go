package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type PurchaseStatus string

const (
	PurchasePending   PurchaseStatus = "PENDING"
	PurchaseCompleted PurchaseStatus = "COMPLETED"
	PurchaseCancelled PurchaseStatus = "CANCELLED"
	PurchaseRefunded  PurchaseStatus = "REFUNDED"
)

type Purchase struct {
	gorm.Model
	ID               uuid.UUID       `gorm:"type:uuid;primary_key"`
	PurchasedAt      time.Time       `gorm:"not null"`
	Total            decimal.Decimal `gorm:"type:numeric(10,2);not null"`
	Status           PurchaseStatus  `gorm:"type:varchar(20);not null;default:'PENDING'"`
	ConfirmationCode string          `gorm:"unique;not null"`
	PaymentMethod    string
	ReceiptJSON      string `gorm:"type:text"`
	UserID           uuid.UUID
	User             User
	Tickets          []Ticket `gorm:"constraint:OnDelete:CASCADE"`
}

func (purchase *Purchase) BeforeCreate(tx *gorm.DB) (err error) {
	if purchase.ID == uuid.Nil {
		purchase.ID = uuid.New()
	}
	if purchase.PurchasedAt.IsZero() {
		purchase.PurchasedAt = time.Now()
	}
	if purchase.Status == "" {
		purchase.Status = PurchasePending
	}
	if purchase.ConfirmationCode == "" {
		purchase.ConfirmationCode = uuid.New().String()
	}
	return
}
