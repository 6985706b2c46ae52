package api

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"tapid-connect/internal/parse"
)

// GetAnalytics returns the analytics bundle while a terminal is connected.
func (h *Handler) GetAnalytics(c *gin.Context) {
	bundle := h.connect.Analytics()
	if bundle == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "connect a terminal to see analytics"})
		return
	}
	c.JSON(http.StatusOK, bundle)
}

// RefreshAnalytics re-syncs the connected terminals.
func (h *Handler) RefreshAnalytics(c *gin.Context) {
	if err := h.connect.Refresh(c.Request.Context()); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"lastUpdated": h.connect.LastUpdated()})
}

// GetHourlyActivity returns the hourly series of ?day=, defaulting to the
// selected day. Unknown days fall back to Monday.
func (h *Handler) GetHourlyActivity(c *gin.Context) {
	day := c.Query("day")
	if day == "" {
		day = h.connect.SelectedDay()
	}
	day = parse.WeekdayOr(day, day)
	c.JSON(http.StatusOK, gin.H{"day": day, "hourlyData": h.connect.HourlyForDay(day)})
}

type selectDayRequest struct {
	Day string `json:"day" binding:"required"`
}

// PutSelectedDay changes the day used for the hourly chart.
func (h *Handler) PutSelectedDay(c *gin.Context) {
	var req selectDayRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	day, err := parse.Weekday(req.Day)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	h.connect.SelectDay(day)
	c.JSON(http.StatusOK, gin.H{"selectedDay": day})
}

// GetExport downloads a snapshot of the connection and analytics state.
func (h *Handler) GetExport(c *gin.Context) {
	snap, err := h.connect.Export()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	filename := fmt.Sprintf("tapid-connect-%s.json", snap.ExportedAt.Format("2006-01-02"))
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	c.JSON(http.StatusOK, snap)
}
