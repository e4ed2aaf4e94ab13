package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/AleGonz2812/eventos-api/internal/helpers"
	"github.com/AleGonz2812/eventos-api/internal/models"
)

type EventTypeRequest struct {
	Name        string               `json:"name" binding:"required"`
	Description string               `json:"description"`
	Category    models.EventCategory `json:"category"`
}

func validEventCategory(category models.EventCategory) bool {
	switch category {
	case models.CategoryCultural, models.CategorySports, models.CategoryCorporate, models.CategoryEntertainment:
		return true
	}
	return false
}

func CreateEventType(c *gin.Context) {
	var req EventTypeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, "Invalid input. Please check your fields.")
		return
	}

	if req.Category != "" && !validEventCategory(req.Category) {
		helpers.RespondWithError(c, http.StatusBadRequest, "Invalid event category.")
		return
	}

	db, exists := c.Get("db")
	if !exists {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Database connection not found.")
		return
	}
	gormDB := db.(*gorm.DB)

	var existing models.EventType
	if err := gormDB.Where("name = ?", req.Name).First(&existing).Error; err == nil {
		helpers.RespondWithError(c, http.StatusConflict, "An event type with this name already exists.")
		return
	}

	eventType := models.EventType{
		ID:          uuid.New(),
		Name:        req.Name,
		Description: req.Description,
		Category:    req.Category,
	}

	if err := gormDB.Create(&eventType).Error; err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Failed to create event type.")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message":       "Event type created successfully.",
		"event_type_id": eventType.ID,
	})
}

func ListEventTypes(c *gin.Context) {
	db, exists := c.Get("db")
	if !exists {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Database connection not found.")
		return
	}
	gormDB := db.(*gorm.DB)

	query := gormDB.Order("name")
	if category := c.Query("category"); category != "" {
		query = query.Where("category = ?", category)
	}

	var eventTypes []models.EventType
	if err := query.Find(&eventTypes).Error; err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Error retrieving event types.")
		return
	}

	c.JSON(http.StatusOK, eventTypes)
}

func UpdateEventType(c *gin.Context) {
	eventTypeID, err := helpers.ParseUUID(c.Param("id"))
	if err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, "Invalid event type ID.")
		return
	}

	var req EventTypeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, "Invalid input. Please check your fields.")
		return
	}

	if req.Category != "" && !validEventCategory(req.Category) {
		helpers.RespondWithError(c, http.StatusBadRequest, "Invalid event category.")
		return
	}

	db, exists := c.Get("db")
	if !exists {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Database connection not found.")
		return
	}
	gormDB := db.(*gorm.DB)

	var eventType models.EventType
	if err := gormDB.Where("id = ?", eventTypeID).First(&eventType).Error; err != nil {
		helpers.RespondWithError(c, http.StatusNotFound, "Event type not found.")
		return
	}

	eventType.Name = req.Name
	eventType.Description = req.Description
	eventType.Category = req.Category

	if err := gormDB.Save(&eventType).Error; err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Failed to update event type.")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":    "Event type updated successfully.",
		"event_type": eventType,
	})
}

func DeleteEventType(c *gin.Context) {
	eventTypeID, err := helpers.ParseUUID(c.Param("id"))
	if err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, "Invalid event type ID.")
		return
	}

	db, exists := c.Get("db")
	if !exists {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Database connection not found.")
		return
	}
	gormDB := db.(*gorm.DB)

	var eventType models.EventType
	if err := gormDB.Where("id = ?", eventTypeID).First(&eventType).Error; err != nil {
		helpers.RespondWithError(c, http.StatusNotFound, "Event type not found.")
		return
	}

	var eventCount int64
	gormDB.Model(&models.Event{}).Where("event_type_id = ?", eventType.ID).Count(&eventCount)
	if eventCount > 0 {
		helpers.RespondWithError(c, http.StatusConflict, "Event type is in use by events and cannot be deleted.")
		return
	}

	if err := gormDB.Delete(&eventType).Error; err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Failed to delete event type.")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Event type deleted successfully."})
}
