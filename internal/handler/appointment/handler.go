package appointment

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/curagenie/health-api/internal/handler"
	"github.com/curagenie/health-api/internal/middleware"
	"github.com/curagenie/health-api/internal/model"
	"github.com/curagenie/health-api/internal/service/appointment"
	apperrors "github.com/curagenie/health-api/pkg/errors"
)

type Handler struct {
	svc *appointment.Service
}

func NewHandler(svc *appointment.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	appointments := r.Group("/appointments")
	{
		appointments.POST("", h.Book)
		appointments.GET("", h.ListMine)
		appointments.POST("/:id/cancel", h.Cancel)
		appointments.PATCH("/:id/status", h.UpdateStatus)
	}
}

func (h *Handler) Book(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		handler.Error(c, apperrors.Unauthorized(nil))
		return
	}

	var req model.CreateAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}

	booked, err := h.svc.Book(c.Request.Context(), userID, &req)
	if err != nil {
		handler.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, handler.NewSuccessResponse(booked))
}

// ListMine routes on the caller's role: doctors see their schedule, patients
// their bookings.
func (h *Handler) ListMine(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		handler.Error(c, apperrors.Unauthorized(nil))
		return
	}

	var filters model.AppointmentFilters
	if err := c.ShouldBindQuery(&filters); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}

	var (
		appointments []*model.Appointment
		err          error
	)
	if c.GetString(middleware.UserRoleKey) == string(model.UserRoleDoctor) {
		appointments, err = h.svc.ListForDoctor(c.Request.Context(), userID, &filters)
	} else {
		appointments, err = h.svc.ListForPatient(c.Request.Context(), userID, &filters)
	}
	if err != nil {
		handler.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(appointments))
}

func (h *Handler) Cancel(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		handler.Error(c, apperrors.Unauthorized(nil))
		return
	}

	appointmentID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid appointment id"))
		return
	}

	cancelled, err := h.svc.Cancel(c.Request.Context(), userID, appointmentID)
	if err != nil {
		handler.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(cancelled))
}

func (h *Handler) UpdateStatus(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		handler.Error(c, apperrors.Unauthorized(nil))
		return
	}

	appointmentID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid appointment id"))
		return
	}

	var req struct {
		Status string `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}

	updated, err := h.svc.UpdateStatus(c.Request.Context(), userID, appointmentID, model.AppointmentStatus(req.Status))
	if err != nil {
		handler.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(updated))
}
