// Package services holds the purchase transaction engine: the one code
// path that mutates event occupancy and creates purchases and tickets.
package services

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/AleGonz2812/eventos-api/internal/apperrors"
	"github.com/AleGonz2812/eventos-api/internal/models"
)

// PurchaseService processes purchases atomically: it validates the request,
// reserves capacity on the event, mints one ticket per unit and commits
// everything in a single transaction. The event row is locked for the
// duration, so concurrent purchases of the same event serialize and can
// never oversell.
type PurchaseService struct {
	db     *gorm.DB
	Minter *TicketMinter
}

func NewPurchaseService(db *gorm.DB) *PurchaseService {
	return &PurchaseService{
		db:     db,
		Minter: NewTicketMinter(),
	}
}

// receipt is the confirmation payload persisted alongside the purchase.
type receipt struct {
	PurchaseID       string    `json:"purchase_id"`
	ConfirmationCode string    `json:"confirmation_code"`
	Buyer            string    `json:"buyer"`
	Event            string    `json:"event"`
	EventDate        time.Time `json:"event_date"`
	Total            string    `json:"total"`
}

// ProcessPurchase runs the full purchase workflow for quantity units of the
// given ticket type. Callers must have obtained payment approval first and
// pass the amount the gateway charged; the ticket type is re-read under the
// event lock, so a reprice between charge and commit is caught here and
// rejected instead of persisting a purchase whose total differs from the
// charge.
//
// On success it returns the committed purchase with its tickets. On any
// error nothing is persisted: validation and not-found errors are raised
// before mutation, and failures inside the transaction roll it back.
func (s *PurchaseService) ProcessPurchase(ctx context.Context, userID, eventID, ticketTypeID uuid.UUID, quantity int, paymentMethod string, chargedTotal decimal.Decimal) (*models.Purchase, error) {
	if userID == uuid.Nil || eventID == uuid.Nil || ticketTypeID == uuid.Nil {
		return nil, apperrors.NewValidation("user, event and ticket type are required")
	}
	if quantity <= 0 {
		return nil, apperrors.NewValidation("quantity must be greater than 0")
	}

	var purchase *models.Purchase

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// Lock the event row first: the capacity read below stays valid
		// until commit, so check-then-increment cannot race.
		var event models.Event
		if err := lockForUpdate(tx).
			First(&event, "id = ?", eventID).Error; err != nil {
			return notFoundOr(err, "event")
		}

		var user models.User
		if err := tx.First(&user, "id = ?", userID).Error; err != nil {
			return notFoundOr(err, "user")
		}

		var ticketType models.TicketType
		if err := tx.First(&ticketType, "id = ? AND event_id = ?", ticketTypeID, eventID).Error; err != nil {
			return notFoundOr(err, "ticket type")
		}

		if !event.HasAvailability() || event.CurrentOccupancy+quantity > event.MaxCapacity {
			return apperrors.NewValidation("not enough capacity: %d seats left", event.SeatsLeft())
		}
		if !event.Purchasable() {
			return apperrors.NewValidation("event is not available for purchase")
		}
		if !ticketType.Active {
			return apperrors.NewValidation("ticket type is not on sale")
		}

		total := ticketType.Price.Mul(decimal.NewFromInt(int64(quantity)))
		if !total.Equal(chargedTotal) {
			return apperrors.NewValidation(
				"ticket price changed during checkout: charged %s but the current total is %s",
				chargedTotal.StringFixed(2), total.StringFixed(2),
			)
		}

		p := &models.Purchase{
			ID:               uuid.New(),
			PurchasedAt:      time.Now(),
			Total:            total,
			Status:           models.PurchaseCompleted,
			ConfirmationCode: uuid.New().String(),
			PaymentMethod:    paymentMethod,
			UserID:           user.ID,
		}

		for i := 0; i < quantity; i++ {
			ticket, err := s.Minter.Mint(&ticketType, &event, p, &user)
			if err != nil {
				return err
			}
			p.Tickets = append(p.Tickets, ticket)
		}

		if err := event.Reserve(quantity); err != nil {
			return apperrors.NewValidation("%s", err.Error())
		}

		receiptJSON, err := json.Marshal(receipt{
			PurchaseID:       p.ID.String(),
			ConfirmationCode: p.ConfirmationCode,
			Buyer:            user.Email,
			Event:            event.Name,
			EventDate:        event.StartTime,
			Total:            total.StringFixed(2),
		})
		if err != nil {
			return apperrors.NewPersistence("marshal receipt", err)
		}
		p.ReceiptJSON = string(receiptJSON)

		if err := tx.Create(p).Error; err != nil {
			return apperrors.NewPersistence("create purchase", err)
		}

		if err := tx.Model(&models.Event{}).Where("id = ?", event.ID).
			Update("current_occupancy", event.CurrentOccupancy).Error; err != nil {
			return apperrors.NewPersistence("update occupancy", err)
		}

		purchase = p
		return nil
	})
	if err != nil {
		return nil, classify(err)
	}

	return purchase, nil
}

// lockForUpdate takes a pessimistic row lock. SQLite has no
// SELECT ... FOR UPDATE; its single-writer model already serializes the
// occupancy update, so the clause is skipped there.
func lockForUpdate(tx *gorm.DB) *gorm.DB {
	if tx.Dialector.Name() == "sqlite" {
		return tx
	}
	return tx.Clauses(clause.Locking{Strength: "UPDATE"})
}

func notFoundOr(err error, resource string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperrors.NewNotFound(resource)
	}
	return apperrors.NewPersistence("load "+resource, err)
}

// classify keeps taxonomy errors as-is and wraps anything else, such as a
// failed commit, as a persistence error.
func classify(err error) error {
	var (
		validation *apperrors.ValidationError
		notFound   *apperrors.NotFoundError
		encoding   *apperrors.EncodingError
		persist    *apperrors.PersistenceError
	)
	switch {
	case errors.As(err, &validation),
		errors.As(err, &notFound),
		errors.As(err, &encoding),
		errors.As(err, &persist):
		return err
	default:
		return apperrors.NewPersistence("purchase transaction", err)
	}
}
