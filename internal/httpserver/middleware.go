package httpserver

import (
	"net/http"

	"storefront/internal/domain"

	"github.com/gin-gonic/gin"
)

const (
	authCookie  = "auth_session"
	guestCookie = "guest_session"

	ctxIdentityKey = "identity"
	ctxUserKey     = "currentUser"
	ctxGuestIDKey  = "guestID"
)

// identityMiddleware resolves the caller to a user (auth_session cookie
// backed by a stored session), a guest (signed guest_session cookie) or
// nobody. User wins when both cookies validate; the guest id is still
// kept on the context so checkout and signin can merge the leftover
// guest cart.
func identityMiddleware(auth AuthService, guests GuestService) gin.HandlerFunc {
	return func(c *gin.Context) {
		if token, err := c.Cookie(guestCookie); err == nil && token != "" {
			if guestID, err := guests.Validate(token); err == nil {
				c.Set(ctxGuestIDKey, guestID)
			}
		}

		if token, err := c.Cookie(authCookie); err == nil && token != "" {
			if u, err := auth.LookupByToken(c.Request.Context(), token); err == nil {
				c.Set(ctxUserKey, u)
				c.Set(ctxIdentityKey, domain.UserOwner(u.ID))
				c.Next()
				return
			}
		}

		if guestID, ok := c.Get(ctxGuestIDKey); ok {
			c.Set(ctxIdentityKey, domain.GuestOwner(guestID.(string)))
		} else {
			c.Set(ctxIdentityKey, domain.NoOwner)
		}
		c.Next()
	}
}

func currentIdentity(c *gin.Context) domain.Owner {
	if v, ok := c.Get(ctxIdentityKey); ok {
		return v.(domain.Owner)
	}
	return domain.NoOwner
}

func currentUser(c *gin.Context) *domain.User {
	if v, ok := c.Get(ctxUserKey); ok {
		return v.(*domain.User)
	}
	return nil
}

func lingeringGuestID(c *gin.Context) (string, bool) {
	if v, ok := c.Get(ctxGuestIDKey); ok {
		return v.(string), true
	}
	return "", false
}

func setSessionCookie(c *gin.Context, name, value string, maxAge int) {
	c.SetSameSite(http.SameSiteStrictMode)
	c.SetCookie(name, value, maxAge, "/", "", false, true)
}

func clearSessionCookie(c *gin.Context, name string) {
	c.SetSameSite(http.SameSiteStrictMode)
	c.SetCookie(name, "", -1, "/", "", false, true)
}
