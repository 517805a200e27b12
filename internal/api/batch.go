package api

import (
	"net/http"
	"strings"

	"halwahouse/internal/auth"
	"halwahouse/internal/live"
	"halwahouse/internal/models"

	"github.com/gin-gonic/gin"
)

// batchView wraps a batch with the combined display label the operator
// screens show. The label is presentation only; the model keeps the selected
// names as an ordered list.
type batchView struct {
	models.KitchenBatch
	DisplayLabel string `json:"display_label"`
}

func viewOf(b models.KitchenBatch) batchView {
	return batchView{KitchenBatch: b, DisplayLabel: strings.Join(b.HalwaTypeNames, " + ")}
}

// Batch lifecycle handlers

func (k *KitchenAPI) CreateBatch(c *gin.Context) {
	var req struct {
		StarchWeight float64 `json:"starch_weight"`
		HalwaTypeIDs []uint  `json:"halwa_type_ids"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	batch, err := k.Engine.CreateBatch(auth.ActorFrom(c), req.StarchWeight, req.HalwaTypeIDs)
	if err != nil {
		writeError(c, err)
		return
	}

	k.Metrics.RecordBatchCreated()
	k.Hub.Publish(live.Event{
		Type:    live.EventBatchCreated,
		BatchID: batch.ID,
		Data: map[string]interface{}{
			"halwa_types": batch.HalwaTypeNames,
			"processes":   len(batch.Processes),
		},
	})

	c.JSON(http.StatusCreated, viewOf(*batch))
}

func (k *KitchenAPI) ListBatches(c *gin.Context) {
	batches, err := k.Engine.ListBatches()
	if err != nil {
		writeError(c, err)
		return
	}

	views := make([]batchView, 0, len(batches))
	for _, b := range batches {
		views = append(views, viewOf(b))
	}
	c.JSON(http.StatusOK, views)
}

func (k *KitchenAPI) GetBatch(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	batch, err := k.Engine.GetBatch(id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, viewOf(*batch))
}

func (k *KitchenAPI) StartProcess(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	process, err := k.Engine.StartProcess(id)
	if err != nil {
		writeError(c, err)
		return
	}

	k.Hub.Publish(live.Event{
		Type:      live.EventProcessStarted,
		BatchID:   process.BatchID,
		ProcessID: process.ID,
	})
	c.JSON(http.StatusOK, process)
}

func (k *KitchenAPI) StopProcess(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	process, err := k.Engine.StopProcess(id)
	if err != nil {
		writeError(c, err)
		return
	}

	if process.DurationMinutes != nil {
		label := "unknown"
		if pt, err := k.Engine.GetProcessType(process.ProcessTypeID); err == nil {
			label = pt.Name
		}
		k.Metrics.RecordProcessDuration(label, *process.DurationMinutes)
	}
	k.Hub.Publish(live.Event{
		Type:      live.EventProcessStopped,
		BatchID:   process.BatchID,
		ProcessID: process.ID,
		Data:      map[string]interface{}{"duration_minutes": process.DurationMinutes},
	})
	c.JSON(http.StatusOK, process)
}

func (k *KitchenAPI) PreviewBatch(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	report, err := k.Engine.PreviewBatch(id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, report)
}

func (k *KitchenAPI) ValidateBatch(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	report, err := k.Engine.ValidateBatch(id)
	if err != nil {
		writeError(c, err)
		return
	}

	k.Metrics.RecordBatchValidation(string(report.Status), report.HardViolations)
	k.Monitor.RecordBatchOutcome(id, string(report.Status), report.TotalDuration, report.HardViolations)
	k.Hub.Publish(live.Event{
		Type:    live.EventBatchValidated,
		BatchID: id,
		Data: map[string]interface{}{
			"status":          report.Status,
			"hard_violations": report.HardViolations,
			"partial":         report.Partial,
		},
	})
	c.JSON(http.StatusOK, report)
}
