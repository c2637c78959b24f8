package httpserver

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
)

func createCheckoutSessionHandler(logger *log.Logger, checkouts CheckoutService, carts CartService) gin.HandlerFunc {
	return func(c *gin.Context) {
		owner := currentIdentity(c)

		// A signed-in user may still carry a guest cookie from before
		// they authenticated; fold that cart in before pricing.
		if u := currentUser(c); u != nil {
			if guestID, ok := lingeringGuestID(c); ok {
				if err := carts.Merge(c.Request.Context(), guestID, u.ID); err != nil {
					logger.Printf("merge guest cart %s into user %s: %v", guestID, u.ID, err)
				} else {
					clearSessionCookie(c, guestCookie)
				}
			}
		}

		email := ""
		if u := currentUser(c); u != nil {
			email = u.Email
		}

		session, err := checkouts.CreateSession(c.Request.Context(), owner, email)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"checkoutUrl": session.URL, "sessionId": session.ID})
	}
}
