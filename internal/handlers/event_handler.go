package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/AleGonz2812/eventos-api/internal/helpers"
	"github.com/AleGonz2812/eventos-api/internal/models"
)

type EventRequest struct {
	Name        string             `json:"name" binding:"required"`
	Description string             `json:"description"`
	StartTime   time.Time          `json:"start_time" binding:"required"`
	EndTime     time.Time          `json:"end_time" binding:"required"`
	MaxCapacity int                `json:"max_capacity" binding:"required,min=1"`
	BasePrice   decimal.Decimal    `json:"base_price"`
	ImageURL    string             `json:"image_url"`
	EventTypeID uuid.UUID          `json:"event_type_id" binding:"required"`
	VenueID     uuid.UUID          `json:"venue_id" binding:"required"`
	State       *models.EventState `json:"state"`
}

func validEventState(state models.EventState) bool {
	switch state {
	case models.EventPlanned, models.EventActive, models.EventCancelled, models.EventFinished:
		return true
	}
	return false
}

func CreateEvent(c *gin.Context) {
	var req EventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, "Invalid input. Please check your fields.")
		return
	}

	if !req.EndTime.After(req.StartTime) {
		helpers.RespondWithError(c, http.StatusBadRequest, "End time must be after start time.")
		return
	}

	db, exists := c.Get("db")
	if !exists {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Database connection not found.")
		return
	}
	gormDB := db.(*gorm.DB)

	var eventType models.EventType
	if err := gormDB.Where("id = ?", req.EventTypeID).First(&eventType).Error; err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, "Event type not found.")
		return
	}

	var venue models.Venue
	if err := gormDB.Where("id = ?", req.VenueID).First(&venue).Error; err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, "Venue not found.")
		return
	}
	if !venue.Active {
		helpers.RespondWithError(c, http.StatusBadRequest, "Venue is not active.")
		return
	}
	if req.MaxCapacity > venue.Capacity {
		helpers.RespondWithError(c, http.StatusBadRequest, "Event capacity exceeds venue capacity.")
		return
	}

	event := models.Event{
		ID:          uuid.New(),
		Name:        req.Name,
		Description: req.Description,
		StartTime:   req.StartTime,
		EndTime:     req.EndTime,
		MaxCapacity: req.MaxCapacity,
		BasePrice:   req.BasePrice,
		ImageURL:    req.ImageURL,
		EventTypeID: eventType.ID,
		VenueID:     venue.ID,
		State:       models.EventPlanned,
	}
	if req.State != nil {
		if !validEventState(*req.State) {
			helpers.RespondWithError(c, http.StatusBadRequest, "Invalid event state.")
			return
		}
		event.State = *req.State
	}

	if err := gormDB.Create(&event).Error; err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Failed to create event.")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message":  "Event created successfully.",
		"event_id": event.ID,
	})
}

func GetEvent(c *gin.Context) {
	eventID, err := helpers.ParseUUID(c.Param("id"))
	if err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, "Invalid event ID.")
		return
	}

	db, exists := c.Get("db")
	if !exists {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Database connection not found.")
		return
	}
	gormDB := db.(*gorm.DB)

	var event models.Event
	if err := gormDB.Preload("EventType").Preload("Venue").Preload("TicketTypes").Where("id = ?", eventID).First(&event).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			helpers.RespondWithError(c, http.StatusNotFound, "Event not found.")
			return
		}
		helpers.RespondWithError(c, http.StatusInternalServerError, "Error retrieving event.")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"event":      event,
		"seats_left": event.SeatsLeft(),
	})
}

func ListEvents(c *gin.Context) {
	db, exists := c.Get("db")
	if !exists {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Database connection not found.")
		return
	}
	gormDB := db.(*gorm.DB)

	page, err := helpers.StringToInt(c.DefaultQuery("page", "1"))
	if err != nil || page < 1 {
		page = 1
	}
	limit, err := helpers.StringToInt(c.DefaultQuery("limit", "10"))
	if err != nil || limit < 1 {
		limit = 10
	}

	query := gormDB.Preload("EventType").Preload("Venue")
	if state := c.Query("state"); state != "" {
		query = query.Where("state = ?", state)
	}

	var events []models.Event
	if err := query.Offset((page - 1) * limit).Limit(limit).Order("start_time").Find(&events).Error; err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Error retrieving events.")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"events": events,
		"page":   page,
		"limit":  limit,
	})
}

func UpdateEvent(c *gin.Context) {
	eventID := c.Param("id")

	var req EventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, "Invalid input. Please check your fields.")
		return
	}

	if !req.EndTime.After(req.StartTime) {
		helpers.RespondWithError(c, http.StatusBadRequest, "End time must be after start time.")
		return
	}

	db, exists := c.Get("db")
	if !exists {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Database connection not found.")
		return
	}
	gormDB := db.(*gorm.DB)

	var event models.Event
	if err := gormDB.Where("id = ?", eventID).First(&event).Error; err != nil {
		helpers.RespondWithError(c, http.StatusNotFound, "Event not found.")
		return
	}

	if req.MaxCapacity < event.CurrentOccupancy {
		helpers.RespondWithError(c, http.StatusBadRequest, "Capacity cannot drop below sold tickets.")
		return
	}

	var eventType models.EventType
	if err := gormDB.Where("id = ?", req.EventTypeID).First(&eventType).Error; err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, "Event type not found.")
		return
	}

	event.Name = req.Name
	event.Description = req.Description
	event.StartTime = req.StartTime
	event.EndTime = req.EndTime
	event.MaxCapacity = req.MaxCapacity
	event.BasePrice = req.BasePrice
	event.ImageURL = req.ImageURL
	event.EventTypeID = eventType.ID
	if req.State != nil {
		if !validEventState(*req.State) {
			helpers.RespondWithError(c, http.StatusBadRequest, "Invalid event state.")
			return
		}
		event.State = *req.State
	}

	if err := gormDB.Save(&event).Error; err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Failed to update event.")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Event updated successfully.",
		"event":   event,
	})
}

func DeleteEvent(c *gin.Context) {
	eventID := c.Param("id")

	db, exists := c.Get("db")
	if !exists {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Database connection not found.")
		return
	}
	gormDB := db.(*gorm.DB)

	var event models.Event
	if err := gormDB.Where("id = ?", eventID).First(&event).Error; err != nil {
		helpers.RespondWithError(c, http.StatusNotFound, "Event not found.")
		return
	}

	if event.CurrentOccupancy > 0 {
		helpers.RespondWithError(c, http.StatusConflict, "Event has sold tickets and cannot be deleted.")
		return
	}

	if err := gormDB.Delete(&event).Error; err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Failed to delete event.")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Event deleted successfully."})
}
