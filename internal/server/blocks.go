package server

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/mfalcone/airgrid/internal/models"
	"github.com/mfalcone/airgrid/internal/realtime"
)

// blockRequest is the write body for a broadcast block. The broadcast
// time pair is optional; when both halves are present they override the
// nominal times on the timeline.
type blockRequest struct {
	Name               string     `json:"name" binding:"required"`
	StartTime          time.Time  `json:"start_time" binding:"required"`
	EndTime            time.Time  `json:"end_time" binding:"required"`
	BroadcastStartTime *time.Time `json:"broadcast_start_time"`
	BroadcastEndTime   *time.Time `json:"broadcast_end_time"`
	EventID            *string    `json:"event_id"`
	Encoder            string     `json:"encoder"`
	Network            string     `json:"network"`
	Producer           string     `json:"producer"`
	Commentators       string     `json:"commentators"`
	Suite              string     `json:"suite"`
	Booths             []string   `json:"booths"`
}

// validate enforces the orderings the timeline relies on.
func (r blockRequest) validate() error {
	if !r.StartTime.Before(r.EndTime) {
		return fmt.Errorf("start_time must be before end_time")
	}
	if r.BroadcastStartTime != nil && r.BroadcastEndTime != nil &&
		!r.BroadcastStartTime.Before(*r.BroadcastEndTime) {
		return fmt.Errorf("broadcast_start_time must be before broadcast_end_time")
	}
	return nil
}

func (h *handlers) listBlocks(c *gin.Context) {
	var blocks []models.Block
	q := h.db.Preload("Booths").Order("start_time")
	if enc := c.Query("encoder"); enc != "" {
		q = q.Where("encoder = ?", enc)
	}
	if err := q.Find(&blocks).Error; err != nil {
		storeError(c, err)
		return
	}
	c.JSON(http.StatusOK, blocks)
}

func (h *handlers) getBlock(c *gin.Context) {
	var block models.Block
	if err := h.db.Preload("Booths").First(&block, "id = ?", c.Param("id")).Error; err != nil {
		storeError(c, err)
		return
	}
	c.JSON(http.StatusOK, block)
}

func (h *handlers) createBlock(c *gin.Context) {
	var req blockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := req.validate(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	block := models.Block{
		ID:                 uuid.NewString(),
		Name:               req.Name,
		StartTime:          req.StartTime.UTC(),
		EndTime:            req.EndTime.UTC(),
		BroadcastStartTime: req.BroadcastStartTime,
		BroadcastEndTime:   req.BroadcastEndTime,
		EventID:            req.EventID,
		Encoder:            req.Encoder,
		Network:            req.Network,
		Producer:           req.Producer,
		Commentators:       req.Commentators,
		Suite:              req.Suite,
	}

	err := h.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&block).Error; err != nil {
			return err
		}
		return h.assignBooths(tx, &block, req.Booths)
	})
	if err != nil {
		storeError(c, err)
		return
	}
	h.publish("blocks", realtime.ActionInsert, block.ID)
	c.JSON(http.StatusCreated, block)
}

func (h *handlers) updateBlock(c *gin.Context) {
	var block models.Block
	if err := h.db.First(&block, "id = ?", c.Param("id")).Error; err != nil {
		storeError(c, err)
		return
	}
	var req blockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := req.validate(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	block.Name = req.Name
	block.StartTime = req.StartTime.UTC()
	block.EndTime = req.EndTime.UTC()
	block.BroadcastStartTime = req.BroadcastStartTime
	block.BroadcastEndTime = req.BroadcastEndTime
	block.EventID = req.EventID
	block.Encoder = req.Encoder
	block.Network = req.Network
	block.Producer = req.Producer
	block.Commentators = req.Commentators
	block.Suite = req.Suite

	err := h.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(&block).Error; err != nil {
			return err
		}
		return h.assignBooths(tx, &block, req.Booths)
	})
	if err != nil {
		storeError(c, err)
		return
	}
	h.publish("blocks", realtime.ActionUpdate, block.ID)
	c.JSON(http.StatusOK, block)
}

func (h *handlers) deleteBlock(c *gin.Context) {
	var block models.Block
	if err := h.db.First(&block, "id = ?", c.Param("id")).Error; err != nil {
		storeError(c, err)
		return
	}
	if err := h.db.Select("Booths").Delete(&block).Error; err != nil {
		storeError(c, err)
		return
	}
	h.publish("blocks", realtime.ActionDelete, block.ID)
	c.Status(http.StatusNoContent)
}

// assignBooths replaces a block's booth associations, creating booth
// rows for names the registry has not seen yet.
func (h *handlers) assignBooths(tx *gorm.DB, block *models.Block, names []string) error {
	booths := make([]models.Booth, 0, len(names))
	for _, name := range names {
		var booth models.Booth
		if err := tx.Where("name = ?", name).FirstOrCreate(&booth, models.Booth{Name: name}).Error; err != nil {
			return fmt.Errorf("booth %q: %w", name, err)
		}
		booths = append(booths, booth)
	}
	if err := tx.Model(block).Association("Booths").Replace(booths); err != nil {
		return fmt.Errorf("assign booths: %w", err)
	}
	block.Booths = booths
	return nil
}
