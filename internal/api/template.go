package api

import (
	"net/http"

	"halwahouse/internal/auth"

	"github.com/gin-gonic/gin"
)

// Template mapping handlers

func (k *KitchenAPI) GetTemplate(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	report, err := k.Engine.ListTemplate(id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, report)
}

func (k *KitchenAPI) UpsertMapping(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	var req struct {
		ProcessTypeID uint `json:"process_type_id"`
		SequenceOrder int  `json:"sequence_order"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	mapping, err := k.Engine.UpsertMapping(auth.ActorFrom(c), id, req.ProcessTypeID, req.SequenceOrder)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, mapping)
}

func (k *KitchenAPI) ReorderTemplate(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	var req struct {
		Order []uint `json:"order"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := k.Engine.Reorder(auth.ActorFrom(c), id, req.Order); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Template reordered"})
}

func (k *KitchenAPI) MapSteps(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	var req struct {
		Names []string `json:"names"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	mappings, err := k.Engine.MapStepsByName(auth.ActorFrom(c), id, req.Names)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, mappings)
}

func (k *KitchenAPI) RemoveMapping(c *gin.Context) {
	id, ok := idParam(c, "mappingID")
	if !ok {
		return
	}

	if err := k.Engine.RemoveMapping(auth.ActorFrom(c), id); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Template step removed"})
}
