package http

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"hellomap/internal/domain"
	"hellomap/internal/service"
)

// LivenessMessage es el payload fijo del endpoint raíz.
const LivenessMessage = "API - 👋🌎🌍🌏"

// maxCreateBodyBytes acota el cuerpo de POST /messages; un mensaje válido ocupa mucho menos.
const maxCreateBodyBytes = 64 << 10

// MessageService es lo que el handler necesita de la capa de servicio.
type MessageService interface {
	Create(ctx context.Context, draft domain.MessageDraft) (domain.Message, error)
	List(ctx context.Context) ([]domain.Message, error)
	Ping(ctx context.Context) error
}

// MessageHandler mantiene dependencias para los endpoints de mensajes.
type MessageHandler struct {
	logger   *zap.Logger
	messages MessageService
	limiter  service.RateLimiter
}

// NewMessageHandler crea una instancia de MessageHandler. limiter puede ser nil.
func NewMessageHandler(logger *zap.Logger, messages MessageService, limiter service.RateLimiter) *MessageHandler {
	return &MessageHandler{
		logger:   logger,
		messages: messages,
		limiter:  limiter,
	}
}

// Info maneja GET /api/v1.
func (h *MessageHandler) Info(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"message": LivenessMessage})
}

// Health maneja GET /healthz.
func (h *MessageHandler) Health(c *gin.Context) {
	if err := h.messages.Ping(c.Request.Context()); err != nil {
		h.logger.Warn("health check failed", zap.Error(err))
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// ListMessages maneja GET /api/v1/messages.
func (h *MessageHandler) ListMessages(c *gin.Context) {
	messages, err := h.messages.List(c.Request.Context())
	if err != nil {
		h.logger.Error("list messages failed", zap.Error(err))
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "message store unavailable"})
		return
	}
	c.JSON(http.StatusOK, messages)
}

// CreateMessage maneja POST /api/v1/messages.
func (h *MessageHandler) CreateMessage(c *gin.Context) {
	if h.limiter != nil && !h.limiter.Allow(c.Request.Context(), c.ClientIP()) {
		h.logger.Warn("create message rate limited", zap.String("client_ip", c.ClientIP()))
		c.JSON(http.StatusTooManyRequests, gin.H{"error": "too many requests"})
		return
	}

	var req struct {
		Name      string  `json:"name"`
		Message   string  `json:"message"`
		Latitude  float64 `json:"latitude"`
		Longitude float64 `json:"longitude"`
	}
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxCreateBodyBytes)
	if err := c.ShouldBindJSON(&req); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			h.logger.Warn("create message body too large", zap.Int64("limit", tooLarge.Limit))
			c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "request body too large"})
			return
		}
		h.logger.Warn("invalid create message request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	msg, err := h.messages.Create(c.Request.Context(), domain.MessageDraft{
		Name:      req.Name,
		Message:   req.Message,
		Latitude:  req.Latitude,
		Longitude: req.Longitude,
	})
	if err != nil {
		var verr *domain.ValidationError
		switch {
		case errors.As(err, &verr):
			h.logger.Warn("message rejected", zap.Error(err))
			c.JSON(http.StatusBadRequest, gin.H{"error": domain.ErrInvalidMessage.Error(), "fields": verr.Fields})
		case errors.Is(err, service.ErrStoreUnavailable):
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "message store unavailable"})
		default:
			h.logger.Error("create message failed", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not create message"})
		}
		return
	}

	c.JSON(http.StatusOK, msg)
}
