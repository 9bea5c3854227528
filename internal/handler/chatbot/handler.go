package chatbot

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/curagenie/health-api/internal/handler"
	"github.com/curagenie/health-api/internal/middleware"
	"github.com/curagenie/health-api/internal/model"
	"github.com/curagenie/health-api/internal/service/chatbot"
	apperrors "github.com/curagenie/health-api/pkg/errors"
)

type Handler struct {
	svc *chatbot.Service
}

func NewHandler(svc *chatbot.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	chat := r.Group("/chatbot")
	{
		chat.POST("/chat", h.Send)
		chat.GET("/history", h.History)
	}
}

func (h *Handler) Send(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		handler.Error(c, apperrors.Unauthorized(nil))
		return
	}

	var req model.ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}

	resp, err := h.svc.Send(c.Request.Context(), userID, &req)
	if err != nil {
		handler.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(resp))
}

func (h *Handler) History(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		handler.Error(c, apperrors.Unauthorized(nil))
		return
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	messages, err := h.svc.History(c.Request.Context(), userID, c.Query("session_id"), limit)
	if err != nil {
		handler.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(messages))
}
