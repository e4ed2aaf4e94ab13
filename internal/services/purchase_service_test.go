package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/AleGonz2812/eventos-api/internal/apperrors"
	"github.com/AleGonz2812/eventos-api/internal/models"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	// One connection keeps the in-memory database alive and serializes
	// transactions the way the Postgres row lock does in production.
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(
		&models.Role{},
		&models.User{},
		&models.Venue{},
		&models.EventType{},
		&models.Event{},
		&models.TicketType{},
		&models.Purchase{},
		&models.Ticket{},
		&models.CheckIn{},
	))

	return db
}

type fixtures struct {
	user       models.User
	event      models.Event
	ticketType models.TicketType
}

func seedFixtures(t *testing.T, db *gorm.DB, maxCapacity, currentOccupancy int, state models.EventState, price string) fixtures {
	t.Helper()

	role := models.Role{Name: "attendee"}
	require.NoError(t, db.Create(&role).Error)

	user := models.User{
		Email:  fmt.Sprintf("buyer-%s@example.com", uuid.New().String()[:8]),
		Name:   "Laura",
		Active: true,
		RoleID: role.ID,
	}
	require.NoError(t, db.Create(&user).Error)

	venue := models.Venue{
		Name:     "Palacio de Congresos",
		Address:  "Av. Principal 1",
		City:     "Madrid",
		Capacity: maxCapacity,
		Active:   true,
	}
	require.NoError(t, db.Create(&venue).Error)

	eventType := models.EventType{Name: "Concierto", Category: models.CategoryCultural}
	require.NoError(t, db.Create(&eventType).Error)

	event := models.Event{
		Name:             "Concierto de Prueba",
		StartTime:        time.Now().Add(48 * time.Hour),
		EndTime:          time.Now().Add(52 * time.Hour),
		MaxCapacity:      maxCapacity,
		CurrentOccupancy: currentOccupancy,
		State:            state,
		EventTypeID:      eventType.ID,
		VenueID:          venue.ID,
	}
	require.NoError(t, db.Create(&event).Error)

	ticketType := models.TicketType{
		Name:    "General",
		Price:   decimal.RequireFromString(price),
		Active:  true,
		EventID: event.ID,
	}
	require.NoError(t, db.Create(&ticketType).Error)

	return fixtures{user: user, event: event, ticketType: ticketType}
}

// chargeFor returns the amount the gateway would have charged for quantity
// units at the fixture's current price.
func chargeFor(fx fixtures, quantity int) decimal.Decimal {
	return fx.ticketType.Price.Mul(decimal.NewFromInt(int64(quantity)))
}

func countRows(t *testing.T, db *gorm.DB, model interface{}) int64 {
	t.Helper()
	var count int64
	require.NoError(t, db.Model(model).Count(&count).Error)
	return count
}

func reloadEvent(t *testing.T, db *gorm.DB, id uuid.UUID) models.Event {
	t.Helper()
	var event models.Event
	require.NoError(t, db.First(&event, "id = ?", id).Error)
	return event
}

func TestProcessPurchaseSucceeds(t *testing.T) {
	db := newTestDB(t)
	fx := seedFixtures(t, db, 10, 8, models.EventActive, "25.00")
	svc := NewPurchaseService(db)

	purchase, err := svc.ProcessPurchase(context.Background(), fx.user.ID, fx.event.ID, fx.ticketType.ID, 2, "Visa card", chargeFor(fx, 2))
	require.NoError(t, err)
	require.NotNil(t, purchase)

	assert.Equal(t, models.PurchaseCompleted, purchase.Status)
	assert.Equal(t, "Visa card", purchase.PaymentMethod)
	assert.True(t, purchase.Total.Equal(decimal.RequireFromString("50.00")))

	_, err = uuid.Parse(purchase.ConfirmationCode)
	assert.NoError(t, err, "confirmation code should be a UUID")

	require.Len(t, purchase.Tickets, 2)
	assert.NotEqual(t, purchase.Tickets[0].SerialNumber, purchase.Tickets[1].SerialNumber)
	assert.NotEqual(t, purchase.Tickets[0].QRCode, purchase.Tickets[1].QRCode)
	for _, ticket := range purchase.Tickets {
		assert.False(t, ticket.Validated)
		assert.Nil(t, ticket.ValidatedAt)
		assert.NotEmpty(t, ticket.QRCode)
		assert.Contains(t, ticket.SerialNumber, "TCK-")
	}

	assert.Contains(t, purchase.ReceiptJSON, purchase.ConfirmationCode)
	assert.Contains(t, purchase.ReceiptJSON, fx.user.Email)
	assert.Contains(t, purchase.ReceiptJSON, "50.00")

	event := reloadEvent(t, db, fx.event.ID)
	assert.Equal(t, 10, event.CurrentOccupancy)
	assert.Equal(t, int64(2), countRows(t, db, &models.Ticket{}))
	assert.Equal(t, int64(1), countRows(t, db, &models.Purchase{}))
}

func TestProcessPurchaseRejectsWhenCapacityExceeded(t *testing.T) {
	db := newTestDB(t)
	fx := seedFixtures(t, db, 10, 8, models.EventActive, "25.00")
	svc := NewPurchaseService(db)

	_, err := svc.ProcessPurchase(context.Background(), fx.user.ID, fx.event.ID, fx.ticketType.ID, 3, "Visa card", chargeFor(fx, 3))
	require.Error(t, err)

	var validation *apperrors.ValidationError
	require.ErrorAs(t, err, &validation)
	assert.Contains(t, validation.Message, "2 seats left")

	event := reloadEvent(t, db, fx.event.ID)
	assert.Equal(t, 8, event.CurrentOccupancy)
	assert.Equal(t, int64(0), countRows(t, db, &models.Ticket{}))
	assert.Equal(t, int64(0), countRows(t, db, &models.Purchase{}))
}

func TestProcessPurchaseRejectsSoldOutEvent(t *testing.T) {
	db := newTestDB(t)
	fx := seedFixtures(t, db, 10, 10, models.EventActive, "25.00")
	svc := NewPurchaseService(db)

	_, err := svc.ProcessPurchase(context.Background(), fx.user.ID, fx.event.ID, fx.ticketType.ID, 1, "Visa card", chargeFor(fx, 1))

	var validation *apperrors.ValidationError
	require.ErrorAs(t, err, &validation)
	assert.Contains(t, validation.Message, "0 seats left")
}

func TestProcessPurchaseRejectsNonPurchasableStates(t *testing.T) {
	for _, state := range []models.EventState{models.EventCancelled, models.EventFinished} {
		t.Run(string(state), func(t *testing.T) {
			db := newTestDB(t)
			fx := seedFixtures(t, db, 100, 0, state, "25.00")
			svc := NewPurchaseService(db)

			_, err := svc.ProcessPurchase(context.Background(), fx.user.ID, fx.event.ID, fx.ticketType.ID, 1, "Visa card", chargeFor(fx, 1))

			var validation *apperrors.ValidationError
			require.ErrorAs(t, err, &validation)
			assert.Contains(t, validation.Message, "not available")

			event := reloadEvent(t, db, fx.event.ID)
			assert.Equal(t, 0, event.CurrentOccupancy)
			assert.Equal(t, int64(0), countRows(t, db, &models.Purchase{}))
		})
	}
}

func TestProcessPurchaseRejectsNonPositiveQuantity(t *testing.T) {
	db := newTestDB(t)
	fx := seedFixtures(t, db, 10, 0, models.EventActive, "25.00")
	svc := NewPurchaseService(db)

	for _, quantity := range []int{0, -1, -100} {
		_, err := svc.ProcessPurchase(context.Background(), fx.user.ID, fx.event.ID, fx.ticketType.ID, quantity, "Visa card", chargeFor(fx, quantity))

		var validation *apperrors.ValidationError
		require.ErrorAs(t, err, &validation)
	}

	event := reloadEvent(t, db, fx.event.ID)
	assert.Equal(t, 0, event.CurrentOccupancy)
	assert.Equal(t, int64(0), countRows(t, db, &models.Purchase{}))
	assert.Equal(t, int64(0), countRows(t, db, &models.Ticket{}))
}

func TestProcessPurchaseRejectsMissingIdentifiers(t *testing.T) {
	db := newTestDB(t)
	fx := seedFixtures(t, db, 10, 0, models.EventActive, "25.00")
	svc := NewPurchaseService(db)

	var validation *apperrors.ValidationError
	_, err := svc.ProcessPurchase(context.Background(), uuid.Nil, fx.event.ID, fx.ticketType.ID, 1, "Visa card", chargeFor(fx, 1))
	require.ErrorAs(t, err, &validation)
}

func TestProcessPurchaseNotFoundErrors(t *testing.T) {
	db := newTestDB(t)
	fx := seedFixtures(t, db, 10, 0, models.EventActive, "25.00")
	svc := NewPurchaseService(db)

	cases := []struct {
		name         string
		userID       uuid.UUID
		eventID      uuid.UUID
		ticketTypeID uuid.UUID
	}{
		{"unknown user", uuid.New(), fx.event.ID, fx.ticketType.ID},
		{"unknown event", fx.user.ID, uuid.New(), fx.ticketType.ID},
		{"unknown ticket type", fx.user.ID, fx.event.ID, uuid.New()},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.ProcessPurchase(context.Background(), tc.userID, tc.eventID, tc.ticketTypeID, 1, "Visa card", chargeFor(fx, 1))

			var notFound *apperrors.NotFoundError
			require.ErrorAs(t, err, &notFound)
		})
	}

	assert.Equal(t, int64(0), countRows(t, db, &models.Purchase{}))
}

func TestProcessPurchaseRejectsInactiveTicketType(t *testing.T) {
	db := newTestDB(t)
	fx := seedFixtures(t, db, 10, 0, models.EventActive, "25.00")
	require.NoError(t, db.Model(&fx.ticketType).Update("active", false).Error)
	svc := NewPurchaseService(db)

	_, err := svc.ProcessPurchase(context.Background(), fx.user.ID, fx.event.ID, fx.ticketType.ID, 1, "Visa card", chargeFor(fx, 1))

	var validation *apperrors.ValidationError
	require.ErrorAs(t, err, &validation)
	assert.Contains(t, validation.Message, "not on sale")
}

func TestProcessPurchaseTotalIsExact(t *testing.T) {
	db := newTestDB(t)
	fx := seedFixtures(t, db, 100, 0, models.EventActive, "25.00")
	svc := NewPurchaseService(db)

	purchase, err := svc.ProcessPurchase(context.Background(), fx.user.ID, fx.event.ID, fx.ticketType.ID, 3, "Visa card", chargeFor(fx, 3))
	require.NoError(t, err)

	assert.True(t, purchase.Total.Equal(decimal.RequireFromString("75.00")),
		"expected 75.00, got %s", purchase.Total)
	assert.Equal(t, "75.00", purchase.Total.StringFixed(2))
}

func TestProcessPurchaseRejectsRepricedTicketType(t *testing.T) {
	db := newTestDB(t)
	fx := seedFixtures(t, db, 10, 0, models.EventActive, "25.00")
	svc := NewPurchaseService(db)

	// The card was charged at the old price; an admin repriced the type
	// before the purchase transaction ran.
	charged := chargeFor(fx, 2)
	require.NoError(t, db.Model(&fx.ticketType).Update("price", decimal.RequireFromString("30.00")).Error)

	_, err := svc.ProcessPurchase(context.Background(), fx.user.ID, fx.event.ID, fx.ticketType.ID, 2, "Visa card", charged)
	require.Error(t, err)

	var validation *apperrors.ValidationError
	require.ErrorAs(t, err, &validation)
	assert.Contains(t, validation.Message, "charged 50.00")
	assert.Contains(t, validation.Message, "60.00")

	event := reloadEvent(t, db, fx.event.ID)
	assert.Equal(t, 0, event.CurrentOccupancy)
	assert.Equal(t, int64(0), countRows(t, db, &models.Purchase{}))
	assert.Equal(t, int64(0), countRows(t, db, &models.Ticket{}))
}

func TestProcessPurchaseRollsBackWhenEncodingFails(t *testing.T) {
	db := newTestDB(t)
	fx := seedFixtures(t, db, 10, 0, models.EventActive, "25.00")

	svc := NewPurchaseService(db)
	calls := 0
	svc.Minter.Encode = func(payload string, sizePx int) (string, error) {
		calls++
		if calls > 1 {
			return "", apperrors.NewEncoding(errors.New("symbol capacity exceeded"))
		}
		return "cGFydGlhbA==", nil
	}

	_, err := svc.ProcessPurchase(context.Background(), fx.user.ID, fx.event.ID, fx.ticketType.ID, 3, "Visa card", chargeFor(fx, 3))
	require.Error(t, err)

	var encoding *apperrors.EncodingError
	require.ErrorAs(t, err, &encoding)

	// Nothing from the failed purchase may survive.
	event := reloadEvent(t, db, fx.event.ID)
	assert.Equal(t, 0, event.CurrentOccupancy)
	assert.Equal(t, int64(0), countRows(t, db, &models.Purchase{}))
	assert.Equal(t, int64(0), countRows(t, db, &models.Ticket{}))
}

func TestProcessPurchaseConcurrentPurchasesNeverOversell(t *testing.T) {
	db := newTestDB(t)
	const capacity = 10
	const attempts = 25
	fx := seedFixtures(t, db, capacity, 0, models.EventActive, "10.00")
	svc := NewPurchaseService(db)

	var wg sync.WaitGroup
	results := make(chan error, attempts)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.ProcessPurchase(context.Background(), fx.user.ID, fx.event.ID, fx.ticketType.ID, 1, "Visa card", chargeFor(fx, 1))
			results <- err
		}()
	}
	wg.Wait()
	close(results)

	succeeded, capacityErrors := 0, 0
	for err := range results {
		if err == nil {
			succeeded++
			continue
		}
		var validation *apperrors.ValidationError
		require.ErrorAs(t, err, &validation)
		capacityErrors++
	}

	assert.Equal(t, capacity, succeeded)
	assert.Equal(t, attempts-capacity, capacityErrors)

	event := reloadEvent(t, db, fx.event.ID)
	assert.Equal(t, capacity, event.CurrentOccupancy)
	assert.Equal(t, int64(capacity), countRows(t, db, &models.Ticket{}))
}

func TestProcessPurchaseSerialsAndConfirmationCodesUnique(t *testing.T) {
	db := newTestDB(t)
	fx := seedFixtures(t, db, 100, 0, models.EventActive, "10.00")
	svc := NewPurchaseService(db)

	confirmations := make(map[string]bool)
	serials := make(map[string]bool)

	for i := 0; i < 8; i++ {
		purchase, err := svc.ProcessPurchase(context.Background(), fx.user.ID, fx.event.ID, fx.ticketType.ID, 3, "Visa card", chargeFor(fx, 3))
		require.NoError(t, err)

		assert.False(t, confirmations[purchase.ConfirmationCode], "duplicate confirmation code")
		confirmations[purchase.ConfirmationCode] = true

		for _, ticket := range purchase.Tickets {
			assert.False(t, serials[ticket.SerialNumber], "duplicate serial number")
			serials[ticket.SerialNumber] = true
		}
	}

	assert.Len(t, serials, 24)
}
