package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/AleGonz2812/eventos-api/internal/apperrors"
	"github.com/AleGonz2812/eventos-api/internal/helpers"
	"github.com/AleGonz2812/eventos-api/internal/middleware"
	"github.com/AleGonz2812/eventos-api/internal/models"
	"github.com/AleGonz2812/eventos-api/internal/payments"
	"github.com/AleGonz2812/eventos-api/internal/services"
)

type PurchaseRequest struct {
	EventID      uuid.UUID     `json:"event_id" binding:"required"`
	TicketTypeID uuid.UUID     `json:"ticket_type_id" binding:"required"`
	Quantity     int           `json:"quantity" binding:"required,min=1"`
	Card         payments.Card `json:"card" binding:"required"`
}

// CreatePurchase charges the card and, only on approval, runs the purchase
// transaction. A decline leaves no trace in the database.
func CreatePurchase(c *gin.Context) {
	var req PurchaseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, "Invalid input. Please check your fields.")
		return
	}

	userID, exists := c.Get("user_id")
	if !exists {
		helpers.RespondWithError(c, http.StatusUnauthorized, "User ID not found in token.")
		return
	}
	userUUID, ok := userID.(uuid.UUID)
	if !ok {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Invalid user ID type.")
		return
	}

	db, exists := c.Get("db")
	if !exists {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Database connection not found.")
		return
	}
	gormDB := db.(*gorm.DB)

	gateway := middleware.GetPaymentGateway(c)
	if gateway == nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Payment gateway not configured.")
		return
	}

	var ticketType models.TicketType
	if err := gormDB.Where("id = ? AND event_id = ?", req.TicketTypeID, req.EventID).First(&ticketType).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			helpers.RespondWithError(c, http.StatusNotFound, "Ticket type not found for this event.")
			return
		}
		helpers.RespondWithError(c, http.StatusInternalServerError, "Error retrieving ticket type.")
		return
	}

	amount := ticketType.Price.Mul(decimal.NewFromInt(int64(req.Quantity)))

	result, err := gateway.Charge(c.Request.Context(), req.Card, amount)
	if err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Payment processing failed. Please try again.")
		return
	}
	if !result.Approved {
		helpers.RespondWithAppError(c, apperrors.NewPaymentDeclined(result.Message))
		return
	}

	paymentMethod := payments.DetectBrand(req.Card.Number) + " card"

	purchaseService := services.NewPurchaseService(gormDB)
	purchase, err := purchaseService.ProcessPurchase(
		c.Request.Context(), userUUID, req.EventID, req.TicketTypeID, req.Quantity, paymentMethod, amount,
	)
	if err != nil {
		helpers.RespondWithAppError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message":            "Purchase completed successfully.",
		"purchase_id":        purchase.ID,
		"confirmation_code":  purchase.ConfirmationCode,
		"total":              purchase.Total,
		"tickets":            len(purchase.Tickets),
		"authorization_code": result.AuthorizationCode,
		"transaction_id":     result.TransactionID,
	})
}

func GetPurchase(c *gin.Context) {
	purchaseID, err := helpers.ParseUUID(c.Param("id"))
	if err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, "Invalid purchase ID.")
		return
	}

	userID, exists := c.Get("user_id")
	if !exists {
		helpers.RespondWithError(c, http.StatusUnauthorized, "User ID not found in token.")
		return
	}

	db, exists := c.Get("db")
	if !exists {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Database connection not found.")
		return
	}
	gormDB := db.(*gorm.DB)

	var purchase models.Purchase
	if err := gormDB.Preload("Tickets.TicketType").Preload("Tickets.Event").Where("id = ?", purchaseID).First(&purchase).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			helpers.RespondWithError(c, http.StatusNotFound, "Purchase not found.")
			return
		}
		helpers.RespondWithError(c, http.StatusInternalServerError, "Error retrieving purchase.")
		return
	}

	role, _ := c.Get("role")
	if purchase.UserID != userID && role != "admin" {
		helpers.RespondWithError(c, http.StatusForbidden, "You don't have permission to view this purchase.")
		return
	}

	c.JSON(http.StatusOK, purchase)
}

func ListPurchases(c *gin.Context) {
	userID, exists := c.Get("user_id")
	if !exists {
		helpers.RespondWithError(c, http.StatusUnauthorized, "User ID not found in token.")
		return
	}

	db, exists := c.Get("db")
	if !exists {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Database connection not found.")
		return
	}
	gormDB := db.(*gorm.DB)

	var purchases []models.Purchase
	if err := gormDB.Preload("Tickets").Where("user_id = ?", userID).Order("purchased_at DESC").Find(&purchases).Error; err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Error retrieving purchases.")
		return
	}

	c.JSON(http.StatusOK, purchases)
}
