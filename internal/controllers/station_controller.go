package controllers

import (
	"errors"
	"net/http"

	"antiscam/internal/repository"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type StationController struct {
	Stations StationFinder
	Logger   *zap.Logger
}

// GetStation finds a police station by city and name.
func (sc *StationController) GetStation(c *gin.Context) {
	city := c.Query("city")
	name := c.Query("name")
	if city == "" || name == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Both city and police station name are required"})
		return
	}

	station, err := sc.Stations.FindByName(c.Request.Context(), city, name)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrInvalidStationName):
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid city or police station name format"})
		case errors.Is(err, repository.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Police station not found"})
		default:
			sc.Logger.Error("failed to find station", zap.String("city", city), zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal Server Error"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"fields": gin.H{
			"name":        station.Name,
			"address":     station.Address,
			"phoneNumber": station.PhoneNumber,
		},
	})
}
