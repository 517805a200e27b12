package api

import (
	"net/http"
	"strconv"

	"halwahouse/internal/auth"
	"halwahouse/internal/kitchen"

	"github.com/gin-gonic/gin"
)

func idParam(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return 0, false
	}
	return uint(id), true
}

// Process type catalog handlers

func (k *KitchenAPI) CreateProcessType(c *gin.Context) {
	var req struct {
		Name                    string  `json:"name"`
		StandardDurationMinutes float64 `json:"standard_duration_minutes"`
		VariationBufferMinutes  float64 `json:"variation_buffer_minutes"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	pt, err := k.Engine.CreateProcessType(req.Name, req.StandardDurationMinutes, req.VariationBufferMinutes)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, pt)
}

func (k *KitchenAPI) UpdateProcessType(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	var upd kitchen.ProcessTypeUpdate
	if err := c.ShouldBindJSON(&upd); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	pt, err := k.Engine.UpdateProcessType(id, upd)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, pt)
}

func (k *KitchenAPI) ListProcessTypes(c *gin.Context) {
	types, err := k.Engine.ListProcessTypes()
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, types)
}

// Halwa type catalog handlers

func (k *KitchenAPI) CreateHalwaType(c *gin.Context) {
	var req struct {
		Name             string `json:"name"`
		BaseProcessCount int    `json:"base_process_count"`
		Active           *bool  `json:"active"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	active := true
	if req.Active != nil {
		active = *req.Active
	}

	ht, err := k.Engine.CreateHalwaType(auth.ActorFrom(c), req.Name, req.BaseProcessCount, active)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, ht)
}

func (k *KitchenAPI) UpdateHalwaType(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	var upd kitchen.HalwaTypeUpdate
	if err := c.ShouldBindJSON(&upd); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ht, err := k.Engine.UpdateHalwaType(auth.ActorFrom(c), id, upd)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, ht)
}

func (k *KitchenAPI) ListHalwaTypes(c *gin.Context) {
	activeOnly := c.Query("active") == "true"
	types, err := k.Engine.ListHalwaTypes(activeOnly)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, types)
}
