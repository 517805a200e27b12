package api

import (
	"fmt"
	"net/http"
	"time"

	"halwahouse/internal/receipt"

	"github.com/gin-gonic/gin"
)

func receiptCORS(c *gin.Context) {
	c.Header("Access-Control-Allow-Origin", "*")
	c.Header("Access-Control-Allow-Headers", "Content-Type")
	c.Header("Access-Control-Allow-Methods", "POST, OPTIONS")
}

// ReceiptPreflight answers the browser's CORS preflight for the POS.
func (k *KitchenAPI) ReceiptPreflight(c *gin.Context) {
	receiptCORS(c)
	c.Status(http.StatusNoContent)
}

// GenerateReceipt renders a sale as an inline PDF for the thermal printer.
func (k *KitchenAPI) GenerateReceipt(c *gin.Context) {
	receiptCORS(c)

	var payload receipt.Payload
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	now := time.Now()
	pdf, err := receipt.Build(payload, now)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	filename := receipt.Filename(payload.ReceiptNo, now)
	c.Header("Content-Disposition", fmt.Sprintf("inline; filename=%s", filename))
	c.Data(http.StatusOK, "application/pdf", pdf)
}
