package server

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mfalcone/airgrid/internal/models"
	"github.com/mfalcone/airgrid/internal/realtime"
)

// resourceTable describes one registry exposed under /resources/:type.
type resourceTable struct {
	model func() interface{} // pointer to a zero row
	slice func() interface{} // pointer to an empty row slice
}

var resourceTables = map[string]resourceTable{
	"encoders": {
		model: func() interface{} { return &models.Encoder{} },
		slice: func() interface{} { return &[]models.Encoder{} },
	},
	"booths": {
		model: func() interface{} { return &models.Booth{} },
		slice: func() interface{} { return &[]models.Booth{} },
	},
	"producers": {
		model: func() interface{} { return &models.Producer{} },
		slice: func() interface{} { return &[]models.Producer{} },
	},
	"commentators": {
		model: func() interface{} { return &models.Commentator{} },
		slice: func() interface{} { return &[]models.Commentator{} },
	},
	"networks": {
		model: func() interface{} { return &models.Network{} },
		slice: func() interface{} { return &[]models.Network{} },
	},
	"suites": {
		model: func() interface{} { return &models.Suite{} },
		slice: func() interface{} { return &[]models.Suite{} },
	},
}

// resourceRequest is the write body for every registry row.
type resourceRequest struct {
	Name    string   `json:"name" binding:"required"`
	Aliases []string `json:"aliases"` // networks only
}

func lookupResourceTable(c *gin.Context) (string, resourceTable, bool) {
	typ := c.Param("type")
	table, ok := resourceTables[typ]
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": fmt.Sprintf("unknown resource type %q", typ)})
		return "", resourceTable{}, false
	}
	return typ, table, true
}

func (h *handlers) listResources(c *gin.Context) {
	_, table, ok := lookupResourceTable(c)
	if !ok {
		return
	}
	rows := table.slice()
	if err := h.db.Order("name").Find(rows).Error; err != nil {
		storeError(c, err)
		return
	}
	c.JSON(http.StatusOK, rows)
}

func (h *handlers) getResource(c *gin.Context) {
	_, table, ok := lookupResourceTable(c)
	if !ok {
		return
	}
	row := table.model()
	if err := h.db.First(row, "id = ?", c.Param("id")).Error; err != nil {
		storeError(c, err)
		return
	}
	c.JSON(http.StatusOK, row)
}

func (h *handlers) createResource(c *gin.Context) {
	typ, _, ok := lookupResourceTable(c)
	if !ok {
		return
	}
	var req resourceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	row := newResourceRow(typ, req)
	if err := h.db.Create(row).Error; err != nil {
		storeError(c, err)
		return
	}
	h.publish(typ, realtime.ActionInsert, req.Name)
	c.JSON(http.StatusCreated, row)
}

func (h *handlers) updateResource(c *gin.Context) {
	typ, table, ok := lookupResourceTable(c)
	if !ok {
		return
	}
	var req resourceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	row := table.model()
	if err := h.db.First(row, "id = ?", c.Param("id")).Error; err != nil {
		storeError(c, err)
		return
	}
	updates := map[string]interface{}{"name": req.Name}
	if typ == "networks" {
		updates["aliases"] = marshalAliases(req.Aliases)
	}
	if err := h.db.Model(row).Updates(updates).Error; err != nil {
		storeError(c, err)
		return
	}
	h.publish(typ, realtime.ActionUpdate, c.Param("id"))
	c.JSON(http.StatusOK, row)
}

func (h *handlers) deleteResource(c *gin.Context) {
	typ, table, ok := lookupResourceTable(c)
	if !ok {
		return
	}
	row := table.model()
	if err := h.db.First(row, "id = ?", c.Param("id")).Error; err != nil {
		storeError(c, err)
		return
	}
	if err := h.db.Delete(row).Error; err != nil {
		storeError(c, err)
		return
	}
	h.publish(typ, realtime.ActionDelete, c.Param("id"))
	c.Status(http.StatusNoContent)
}

func marshalAliases(aliases []string) string {
	if len(aliases) == 0 {
		return "[]"
	}
	data, _ := json.Marshal(aliases)
	return string(data)
}

func newResourceRow(typ string, req resourceRequest) interface{} {
	switch typ {
	case "encoders":
		return &models.Encoder{Name: req.Name}
	case "booths":
		return &models.Booth{Name: req.Name}
	case "producers":
		return &models.Producer{Name: req.Name}
	case "commentators":
		return &models.Commentator{Name: req.Name}
	case "networks":
		return &models.Network{Name: req.Name, Aliases: marshalAliases(req.Aliases)}
	default:
		return &models.Suite{Name: req.Name}
	}
}
