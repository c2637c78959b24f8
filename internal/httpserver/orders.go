package httpserver

import (
	"net/http"

	"storefront/internal/domain"

	"github.com/gin-gonic/gin"
)

func getOrderHandler(orders OrderService) gin.HandlerFunc {
	return func(c *gin.Context) {
		order, err := orders.Get(c.Request.Context(), c.Param("id"))
		if err != nil {
			respondError(c, err)
			return
		}
		if !ownerMayRead(currentIdentity(c), order) {
			c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
			return
		}
		c.JSON(http.StatusOK, order)
	}
}

func getOrderBySessionHandler(orders OrderService) gin.HandlerFunc {
	return func(c *gin.Context) {
		sessionID := c.Query("session_id")
		if sessionID == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "session_id required"})
			return
		}
		order, err := orders.GetBySessionID(c.Request.Context(), sessionID)
		if err != nil {
			respondError(c, err)
			return
		}
		if !ownerMayRead(currentIdentity(c), order) {
			c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
			return
		}
		c.JSON(http.StatusOK, order)
	}
}

// ownerMayRead scopes order reads to the identity that placed them.
func ownerMayRead(caller domain.Owner, order *domain.Order) bool {
	return !caller.IsNone() && caller == order.Owner
}
