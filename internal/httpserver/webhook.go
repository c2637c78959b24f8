package httpserver

import (
	"io"
	"log"
	"net/http"

	"storefront/internal/domain"
	"storefront/internal/payment"
	"storefront/internal/service/checkout"

	"github.com/gin-gonic/gin"
)

const signatureHeader = "Stripe-Signature"

// webhookHandler receives the payment provider's signed events.
// Signature verification happens before anything else; an unverified
// payload never reaches the materializer.
func webhookHandler(logger *log.Logger, orders OrderService, secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		body, err := io.ReadAll(io.LimitReader(c.Request.Body, 1<<20))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "unreadable payload"})
			return
		}

		sig := c.GetHeader(signatureHeader)
		if sig == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "missing signature header"})
			return
		}

		event, err := payment.ConstructEvent(body, sig, secret, payment.DefaultTolerance)
		if err != nil {
			logger.Printf("webhook signature verification failed: %v", err)
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid signature"})
			return
		}

		switch event.Type {
		case payment.EventCheckoutCompleted:
			owner := ownerFromMetadata(event.Data.Object.Metadata)
			order, err := orders.MaterializeCompletedSession(c.Request.Context(), event.Data.Object.ID, owner)
			if err != nil {
				logger.Printf("materialize session %s: %v", event.Data.Object.ID, err)
				// A 5xx makes the provider redeliver; materialization
				// is idempotent so redelivery is safe.
				c.JSON(http.StatusInternalServerError, gin.H{"error": "order creation failed"})
				return
			}
			logger.Printf("order %s recorded for session %s", order.ID, event.Data.Object.ID)

		case payment.EventPaymentFailed:
			orders.RecordFailedPayment(event.Data.Object.ID)

		default:
			logger.Printf("unhandled webhook event type: %s", event.Type)
		}

		c.JSON(http.StatusOK, gin.H{"received": true})
	}
}

func ownerFromMetadata(meta map[string]string) domain.Owner {
	if id := meta[checkout.MetaUserID]; id != "" {
		return domain.UserOwner(id)
	}
	if id := meta[checkout.MetaGuestID]; id != "" {
		return domain.GuestOwner(id)
	}
	return domain.NoOwner
}
