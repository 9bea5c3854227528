package monitoring

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/curagenie/health-api/internal/handler"
	"github.com/curagenie/health-api/internal/middleware"
	"github.com/curagenie/health-api/internal/model"
	"github.com/curagenie/health-api/internal/notifier"
	"github.com/curagenie/health-api/internal/service/monitoring"
	"github.com/curagenie/health-api/internal/service/report"
	apperrors "github.com/curagenie/health-api/pkg/errors"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Origin enforcement happens in the CORS middleware.
	CheckOrigin: func(r *http.Request) bool { return true },
}

type Handler struct {
	svc      *monitoring.Service
	reports  *report.Service
	registry *notifier.Registry
}

func NewHandler(svc *monitoring.Service, reports *report.Service, registry *notifier.Registry) *Handler {
	return &Handler{svc: svc, reports: reports, registry: registry}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	vitals := r.Group("/vitals")
	{
		vitals.POST("/metrics", h.RecordReading)
		vitals.GET("/metrics", h.ListReadings)
		vitals.GET("/stats", h.TrendSummaries)
		vitals.GET("/ws", h.Stream)
		vitals.GET("/export", h.Export)
		vitals.GET("/report", h.Report)
	}
}

func (h *Handler) RecordReading(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		handler.Error(c, apperrors.Unauthorized(nil))
		return
	}

	var req model.CreateReadingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}

	reading, err := h.svc.RecordReading(c.Request.Context(), userID, &req)
	if err != nil {
		handler.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, handler.NewSuccessResponse(reading))
}

func (h *Handler) ListReadings(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		handler.Error(c, apperrors.Unauthorized(nil))
		return
	}

	days, _ := strconv.Atoi(c.DefaultQuery("days", "7"))
	readings, err := h.svc.ListReadings(c.Request.Context(), userID, c.Query("metric_type"), days)
	if err != nil {
		handler.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(readings))
}

func (h *Handler) TrendSummaries(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		handler.Error(c, apperrors.Unauthorized(nil))
		return
	}

	days, _ := strconv.Atoi(c.DefaultQuery("days", "30"))
	summaries, err := h.svc.TrendSummaries(c.Request.Context(), userID, days)
	if err != nil {
		handler.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(summaries))
}

// Stream upgrades to a websocket and registers the caller for realtime alert
// delivery. The read loop only consumes control frames; the server never
// expects client messages.
func (h *Handler) Stream(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		handler.Error(c, apperrors.Unauthorized(nil))
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		return
	}

	h.registry.Connect(userID, conn)
	defer h.registry.Disconnect(userID, conn)

	conn.SetReadLimit(512)
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (h *Handler) Export(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		handler.Error(c, apperrors.Unauthorized(nil))
		return
	}

	days, _ := strconv.Atoi(c.DefaultQuery("days", "30"))
	data, err := h.reports.ReadingsXLSX(c.Request.Context(), userID, c.Query("metric_type"), days)
	if err != nil {
		handler.Error(c, err)
		return
	}

	filename := fmt.Sprintf("readings-%s.xlsx", time.Now().Format("2006-01-02"))
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", data)
}

func (h *Handler) Report(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		handler.Error(c, apperrors.Unauthorized(nil))
		return
	}

	days, _ := strconv.Atoi(c.DefaultQuery("days", "30"))
	data, err := h.reports.HealthSummaryPDF(c.Request.Context(), userID, days)
	if err != nil {
		handler.Error(c, err)
		return
	}

	filename := fmt.Sprintf("health-summary-%s.pdf", time.Now().Format("2006-01-02"))
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, "application/pdf", data)
}
