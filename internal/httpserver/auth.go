package httpserver

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
)

type signupRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type signinRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

func signupHandler(logger *log.Logger, auth AuthService, carts CartService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req signupRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "name, email and password required"})
			return
		}

		u, token, err := auth.Signup(c.Request.Context(), req.Name, req.Email, req.Password)
		if err != nil {
			respondError(c, err)
			return
		}

		setSessionCookie(c, authCookie, token, int(auth.SessionTTL().Seconds()))
		absorbGuestCart(c, logger, carts, u.ID)

		c.JSON(http.StatusCreated, gin.H{"userId": u.ID})
	}
}

func signinHandler(logger *log.Logger, auth AuthService, carts CartService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req signinRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "email and password required"})
			return
		}

		u, token, err := auth.Signin(c.Request.Context(), req.Email, req.Password)
		if err != nil {
			respondError(c, err)
			return
		}

		setSessionCookie(c, authCookie, token, int(auth.SessionTTL().Seconds()))
		absorbGuestCart(c, logger, carts, u.ID)

		c.JSON(http.StatusOK, gin.H{"userId": u.ID})
	}
}

func signoutHandler(auth AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		if token, err := c.Cookie(authCookie); err == nil && token != "" {
			if err := auth.Signout(c.Request.Context(), token); err != nil {
				respondError(c, err)
				return
			}
		}
		clearSessionCookie(c, authCookie)
		c.Status(http.StatusNoContent)
	}
}

// absorbGuestCart merges a leftover guest cart into the freshly
// signed-in user's cart before the response goes out, so the very next
// cart read already reflects the merged state. A merge failure does not
// fail the sign-in; the guest cookie is kept so a later request can
// retry the (re-entrant) merge.
func absorbGuestCart(c *gin.Context, logger *log.Logger, carts CartService, userID string) {
	guestID, ok := lingeringGuestID(c)
	if !ok {
		return
	}
	if err := carts.Merge(c.Request.Context(), guestID, userID); err != nil {
		logger.Printf("merge guest cart %s into user %s: %v", guestID, userID, err)
		return
	}
	clearSessionCookie(c, guestCookie)
}
