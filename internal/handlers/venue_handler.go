package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/AleGonz2812/eventos-api/internal/helpers"
	"github.com/AleGonz2812/eventos-api/internal/models"
)

type VenueRequest struct {
	Name        string   `json:"name" binding:"required"`
	Address     string   `json:"address" binding:"required"`
	City        string   `json:"city" binding:"required"`
	Province    string   `json:"province"`
	PostalCode  string   `json:"postal_code"`
	Capacity    int      `json:"capacity" binding:"required,min=1"`
	PhoneNumber string   `json:"phone_number"`
	Description string   `json:"description"`
	Latitude    *float64 `json:"latitude"`
	Longitude   *float64 `json:"longitude"`
	Active      *bool    `json:"active"`
}

func CreateVenue(c *gin.Context) {
	var req VenueRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, "Invalid input. Please check your fields.")
		return
	}

	db, exists := c.Get("db")
	if !exists {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Database connection not found.")
		return
	}
	gormDB := db.(*gorm.DB)

	venue := models.Venue{
		ID:          uuid.New(),
		Name:        req.Name,
		Address:     req.Address,
		City:        req.City,
		Province:    req.Province,
		PostalCode:  req.PostalCode,
		Capacity:    req.Capacity,
		Active:      true,
		PhoneNumber: req.PhoneNumber,
		Description: req.Description,
		Latitude:    req.Latitude,
		Longitude:   req.Longitude,
	}
	if req.Active != nil {
		venue.Active = *req.Active
	}

	if err := gormDB.Create(&venue).Error; err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Failed to create venue.")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message":  "Venue created successfully.",
		"venue_id": venue.ID,
	})
}

func GetVenue(c *gin.Context) {
	venueID := c.Param("id")

	db, exists := c.Get("db")
	if !exists {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Database connection not found.")
		return
	}
	gormDB := db.(*gorm.DB)

	var venue models.Venue
	if err := gormDB.Preload("Events").Where("id = ?", venueID).First(&venue).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			helpers.RespondWithError(c, http.StatusNotFound, "Venue not found.")
			return
		}
		helpers.RespondWithError(c, http.StatusInternalServerError, "Error retrieving venue.")
		return
	}

	c.JSON(http.StatusOK, venue)
}

func ListVenues(c *gin.Context) {
	db, exists := c.Get("db")
	if !exists {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Database connection not found.")
		return
	}
	gormDB := db.(*gorm.DB)

	var venues []models.Venue
	query := gormDB
	if c.Query("city") != "" {
		query = query.Where("city = ?", c.Query("city"))
	}
	if err := query.Find(&venues).Error; err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Error retrieving venues.")
		return
	}

	c.JSON(http.StatusOK, venues)
}

func UpdateVenue(c *gin.Context) {
	venueID := c.Param("id")

	var req VenueRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, "Invalid input. Please check your fields.")
		return
	}

	db, exists := c.Get("db")
	if !exists {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Database connection not found.")
		return
	}
	gormDB := db.(*gorm.DB)

	var venue models.Venue
	if err := gormDB.Where("id = ?", venueID).First(&venue).Error; err != nil {
		helpers.RespondWithError(c, http.StatusNotFound, "Venue not found.")
		return
	}

	venue.Name = req.Name
	venue.Address = req.Address
	venue.City = req.City
	venue.Province = req.Province
	venue.PostalCode = req.PostalCode
	venue.Capacity = req.Capacity
	venue.PhoneNumber = req.PhoneNumber
	venue.Description = req.Description
	venue.Latitude = req.Latitude
	venue.Longitude = req.Longitude
	if req.Active != nil {
		venue.Active = *req.Active
	}

	if err := gormDB.Save(&venue).Error; err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Failed to update venue.")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Venue updated successfully.",
		"venue":   venue,
	})
}

func DeleteVenue(c *gin.Context) {
	venueID := c.Param("id")

	db, exists := c.Get("db")
	if !exists {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Database connection not found.")
		return
	}
	gormDB := db.(*gorm.DB)

	var venue models.Venue
	if err := gormDB.Where("id = ?", venueID).First(&venue).Error; err != nil {
		helpers.RespondWithError(c, http.StatusNotFound, "Venue not found.")
		return
	}

	var eventCount int64
	gormDB.Model(&models.Event{}).Where("venue_id = ?", venue.ID).Count(&eventCount)
	if eventCount > 0 {
		helpers.RespondWithError(c, http.StatusConflict, "Venue has scheduled events and cannot be deleted.")
		return
	}

	if err := gormDB.Delete(&venue).Error; err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Failed to delete venue.")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Venue deleted successfully."})
}
