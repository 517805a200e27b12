package api

import (
	"errors"
	"net/http"

	"halwahouse/internal/auth"
	"halwahouse/internal/kitchen"
	"halwahouse/internal/live"
	"halwahouse/internal/monitoring"

	"github.com/gin-gonic/gin"
)

// KitchenAPI represents the main API handler for the kitchen
type KitchenAPI struct {
	Router  *gin.Engine
	Engine  *kitchen.Service
	Hub     *live.Hub
	Metrics *monitoring.MetricsCollector
	Monitor *monitoring.Monitor

	jwtSecret []byte
}

// NewKitchenAPI creates a new kitchen API instance
func NewKitchenAPI(engine *kitchen.Service, hub *live.Hub, metrics *monitoring.MetricsCollector, monitor *monitoring.Monitor, jwtSecret []byte) *KitchenAPI {
	router := gin.Default()

	api := &KitchenAPI{
		Router:    router,
		Engine:    engine,
		Hub:       hub,
		Metrics:   metrics,
		Monitor:   monitor,
		jwtSecret: jwtSecret,
	}

	api.setupRoutes()
	return api
}

// setupRoutes configures all API endpoints
func (k *KitchenAPI) setupRoutes() {
	// Health check
	k.Router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "message": "Halwa House API is running"})
	})

	// POS receipt rendering; the front end calls this cross-origin.
	k.Router.POST("/api/generate-receipt", k.GenerateReceipt)
	k.Router.OPTIONS("/api/generate-receipt", k.ReceiptPreflight)

	// Live kitchen board feed
	k.Router.GET("/ws/kitchen", k.Hub.HandleWebSocket)

	v1 := k.Router.Group("/api/v1")
	v1.Use(auth.Middleware(k.jwtSecret))
	{
		// Process type catalog
		v1.POST("/process-types", k.CreateProcessType)
		v1.PUT("/process-types/:id", k.UpdateProcessType)
		v1.GET("/process-types", k.ListProcessTypes)

		// Halwa type catalog and templates
		v1.POST("/halwa-types", k.CreateHalwaType)
		v1.PUT("/halwa-types/:id", k.UpdateHalwaType)
		v1.GET("/halwa-types", k.ListHalwaTypes)
		v1.GET("/halwa-types/:id/template", k.GetTemplate)
		v1.POST("/halwa-types/:id/template", k.UpsertMapping)
		v1.PUT("/halwa-types/:id/template/order", k.ReorderTemplate)
		v1.POST("/halwa-types/:id/template/steps", k.MapSteps)
		v1.DELETE("/template/:mappingID", k.RemoveMapping)

		// Batch lifecycle
		v1.POST("/batches", k.CreateBatch)
		v1.GET("/batches", k.ListBatches)
		v1.GET("/batches/:id", k.GetBatch)
		v1.GET("/batches/:id/report", k.PreviewBatch)
		v1.POST("/batches/:id/validate", k.ValidateBatch)
		v1.POST("/processes/:id/start", k.StartProcess)
		v1.POST("/processes/:id/stop", k.StopProcess)

		// Operational status
		v1.GET("/status", k.GetStatus)
	}
}

// writeError translates engine errors to HTTP responses.
func writeError(c *gin.Context, err error) {
	var verr *kitchen.ValidationError
	var nferr *kitchen.NotFoundError
	var perr *kitchen.PreconditionError
	var cerr *kitchen.ConflictError

	switch {
	case errors.As(err, &verr):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.As(err, &nferr):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.As(err, &perr):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
	case errors.As(err, &cerr):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}

// GetStatus reports operational counters for the kitchen dashboard.
func (k *KitchenAPI) GetStatus(c *gin.Context) {
	status := k.Monitor.GetMetrics()
	status["connected_boards"] = k.Hub.ClientCount()
	c.JSON(http.StatusOK, status)
}
