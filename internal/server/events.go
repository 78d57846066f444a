package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/mfalcone/airgrid/internal/models"
	"github.com/mfalcone/airgrid/internal/realtime"
)

// eventRequest is the write body for a source event. Times stay strings
// end to end: the feed owns their format and the timeline mapper owns
// their validation.
type eventRequest struct {
	Title     string `json:"title" binding:"required"`
	StartTime string `json:"start_time" binding:"required"`
	EndTime   string `json:"end_time"`
	Date      string `json:"date"`
	Network   string `json:"network"`
	Source    string `json:"source"`
}

func (h *handlers) listEvents(c *gin.Context) {
	var events []models.Event
	q := h.db.Order("start_time")
	if source := c.Query("source"); source != "" {
		q = q.Where("source = ?", source)
	}
	if err := q.Find(&events).Error; err != nil {
		storeError(c, err)
		return
	}
	c.JSON(http.StatusOK, events)
}

func (h *handlers) getEvent(c *gin.Context) {
	var ev models.Event
	if err := h.db.First(&ev, "id = ?", c.Param("id")).Error; err != nil {
		storeError(c, err)
		return
	}
	c.JSON(http.StatusOK, ev)
}

func (h *handlers) createEvent(c *gin.Context) {
	var req eventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.Source == "" {
		req.Source = "manual"
	}
	ev := models.Event{
		ID:        uuid.NewString(),
		Title:     req.Title,
		StartTime: req.StartTime,
		EndTime:   req.EndTime,
		Date:      req.Date,
		Network:   req.Network,
		Source:    req.Source,
	}
	if err := h.db.Create(&ev).Error; err != nil {
		storeError(c, err)
		return
	}
	h.publish("events", realtime.ActionInsert, ev.ID)
	c.JSON(http.StatusCreated, ev)
}

func (h *handlers) updateEvent(c *gin.Context) {
	var ev models.Event
	if err := h.db.First(&ev, "id = ?", c.Param("id")).Error; err != nil {
		storeError(c, err)
		return
	}
	var req eventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	ev.Title = req.Title
	ev.StartTime = req.StartTime
	ev.EndTime = req.EndTime
	ev.Date = req.Date
	ev.Network = req.Network
	if req.Source != "" {
		ev.Source = req.Source
	}
	if err := h.db.Save(&ev).Error; err != nil {
		storeError(c, err)
		return
	}
	h.publish("events", realtime.ActionUpdate, ev.ID)
	c.JSON(http.StatusOK, ev)
}

func (h *handlers) deleteEvent(c *gin.Context) {
	var ev models.Event
	if err := h.db.First(&ev, "id = ?", c.Param("id")).Error; err != nil {
		storeError(c, err)
		return
	}
	if err := h.db.Delete(&ev).Error; err != nil {
		storeError(c, err)
		return
	}
	h.publish("events", realtime.ActionDelete, ev.ID)
	c.Status(http.StatusNoContent)
}
