package handlers

import (
	"encoding/base64"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/AleGonz2812/eventos-api/internal/helpers"
	"github.com/AleGonz2812/eventos-api/internal/models"
)

// GetTicketQR serves the ticket's stored QR code as a PNG image.
func GetTicketQR(c *gin.Context) {
	ticketID, err := helpers.ParseUUID(c.Param("id"))
	if err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, "Invalid ticket ID.")
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

	var ticket models.Ticket
	if err := gormDB.Where("id = ?", ticketID).First(&ticket).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			helpers.RespondWithError(c, http.StatusNotFound, "Ticket not found.")
			return
		}
		helpers.RespondWithError(c, http.StatusInternalServerError, "Error retrieving ticket.")
		return
	}

	var purchase models.Purchase
	if err := gormDB.Where("id = ?", ticket.PurchaseID).First(&purchase).Error; err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Error retrieving purchase.")
		return
	}

	role, _ := c.Get("role")
	if purchase.UserID != userID && role != "admin" {
		helpers.RespondWithError(c, http.StatusForbidden, "You don't have permission to view this ticket.")
		return
	}

	png, err := base64.StdEncoding.DecodeString(ticket.QRCode)
	if err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Stored QR code is corrupted.")
		return
	}

	c.Data(http.StatusOK, "image/png", png)
}

type ValidateTicketRequest struct {
	SerialNumber  string `json:"serial_number" binding:"required"`
	ValidatorName string `json:"validator_name"`
	Notes         string `json:"notes"`
}

// ValidateTicket marks a ticket as used at the venue entrance and records
// the check-in. A ticket can only be validated once.
func ValidateTicket(c *gin.Context) {
	var req ValidateTicketRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, "Invalid request payload.")
		return
	}

	db, exists := c.Get("db")
	if !exists {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Database connection not found.")
		return
	}
	gormDB := db.(*gorm.DB)

	var ticket models.Ticket
	if err := gormDB.Preload("Event").Preload("TicketType").Where("serial_number = ?", req.SerialNumber).First(&ticket).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			helpers.RespondWithError(c, http.StatusNotFound, "Ticket not found.")
			return
		}
		helpers.RespondWithError(c, http.StatusInternalServerError, "Error retrieving ticket.")
		return
	}

	if ticket.Validated {
		helpers.RespondWithError(c, http.StatusConflict, "Ticket already validated.")
		return
	}

	if ticket.Event.State == models.EventCancelled {
		helpers.RespondWithError(c, http.StatusForbidden, "Event has been cancelled.")
		return
	}

	now := time.Now()
	err := gormDB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&ticket).Updates(map[string]interface{}{
			"validated":    true,
			"validated_at": &now,
		}).Error; err != nil {
			return err
		}

		checkIn := models.CheckIn{
			ID:            uuid.New(),
			EnteredAt:     now,
			ValidatorName: req.ValidatorName,
			Notes:         req.Notes,
			TicketID:      ticket.ID,
			EventID:       ticket.EventID,
		}
		return tx.Create(&checkIn).Error
	})
	if err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Failed to validate ticket.")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Ticket validated successfully.",
		"ticket": gin.H{
			"serial_number": ticket.SerialNumber,
			"event":         ticket.Event.Name,
			"ticket_type":   ticket.TicketType.Name,
			"validated_at":  now,
		},
	})
}
