package webhook

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"linebridge/internal/constants"
	"linebridge/internal/logger"
	"linebridge/pkg/errors"
)

type Handler struct {
	service *Service
	logger  logger.Logger
}

func NewHandler(service *Service, log logger.Logger) *Handler {
	return &Handler{
		service: service,
		logger:  log,
	}
}

func (h *Handler) RegisterRoutes(router gin.IRouter) {
	router.POST("/webhook", h.HandleWebhook)
}

func (h *Handler) HandleWebhook(c *gin.Context) {
	// Signature verification needs the raw bytes, so no binding here.
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		c.JSON(http.StatusBadRequest, errors.ToErrorResponse(errors.ErrValidation.WithCause(err)))
		return
	}

	signature := c.GetHeader(constants.SignatureHeader)

	result, err := h.service.HandleEvent(c.Request.Context(), body, signature)
	if err != nil {
		h.logger.ErrorwCtx(c.Request.Context(), "Webhook delivery failed", "error", err)
		c.JSON(errors.ToHTTPStatus(err), errors.ToErrorResponse(err))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":   "ok",
		"received": result.Received,
		"stored":   result.Stored,
		"skipped":  result.Skipped,
	})
}
