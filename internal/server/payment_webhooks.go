package server

import (
	"context"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	paymentdomain "github.com/smallbiznis/giftcert/internal/payment/domain"
)

// HandlePaymentWebhook ingests a payment provider callback. The provider
// retries on any non-200 response, so the ack decides the status code:
// permanent rejections get 400, transient failures get 500.
func (s *Server) HandlePaymentWebhook(c *gin.Context) {
	payload, err := io.ReadAll(c.Request.Body)
	if err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), s.cfg.Payment.HandlerTimeout)
	defer cancel()

	ack := s.paymentSvc.HandleEvent(ctx, payload, c.ContentType(), c.Request.Header)
	switch ack {
	case paymentdomain.AckOK:
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	case paymentdomain.AckError:
		c.JSON(http.StatusBadRequest, gin.H{"status": "error"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"status": "retry"})
	}
}

// HandlePaymentWebhookProbe answers provider reachability checks. Real
// notifications always arrive as POST.
func (s *Server) HandlePaymentWebhookProbe(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
