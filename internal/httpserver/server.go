package httpserver

import (
	"context"
	"log"
	"net/http"
	"time"

	"storefront/internal/domain"
	"storefront/internal/payment"
	productrepo "storefront/internal/repository/product"
	cartsvc "storefront/internal/service/cart"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Service interfaces the handlers depend on. Narrow on purpose so
// handler tests can stub them.

type CartService interface {
	Get(ctx context.Context, owner domain.Owner) ([]domain.ResolvedCartLine, error)
	AddItem(ctx context.Context, owner domain.Owner, variantID string, quantity int) (string, error)
	UpdateItem(ctx context.Context, lineID string, in cartsvc.UpdateInput) error
	RemoveItem(ctx context.Context, lineID string) error
	Clear(ctx context.Context, owner domain.Owner) error
	Merge(ctx context.Context, guestID, userID string) error
}

type AuthService interface {
	Signup(ctx context.Context, name, email, password string) (*domain.User, string, error)
	Signin(ctx context.Context, email, password string) (*domain.User, string, error)
	Signout(ctx context.Context, token string) error
	LookupByToken(ctx context.Context, token string) (*domain.User, error)
	SessionTTL() time.Duration
}

type GuestService interface {
	Issue() (token, guestID string, err error)
	Validate(token string) (string, error)
	TTL() time.Duration
}

type CatalogService interface {
	List(ctx context.Context) ([]productrepo.Detail, error)
	Get(ctx context.Context, id string) (*productrepo.Detail, error)
}

type CheckoutService interface {
	CreateSession(ctx context.Context, owner domain.Owner, customerEmail string) (*payment.Session, error)
}

type OrderService interface {
	MaterializeCompletedSession(ctx context.Context, sessionID string, owner domain.Owner) (*domain.Order, error)
	RecordFailedPayment(paymentIntentID string)
	Get(ctx context.Context, id string) (*domain.Order, error)
	GetBySessionID(ctx context.Context, sessionID string) (*domain.Order, error)
}

// Deps bundles everything the router needs.
type Deps struct {
	CartSvc       CartService
	AuthSvc       AuthService
	GuestSvc      GuestService
	CatalogSvc    CatalogService
	CheckoutSvc   CheckoutService
	OrderSvc      OrderService
	WebhookSecret string
}

// Server wraps the HTTP server setup.
type Server struct {
	httpServer *http.Server
	logger     *log.Logger
	db         *pgxpool.Pool
}

// New builds a Server with all routes wired.
func New(addr string, logger *log.Logger, db *pgxpool.Pool, deps Deps) (*Server, error) {
	router := buildRouter(logger, db, deps)

	httpSrv := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	return &Server{
		httpServer: httpSrv,
		logger:     logger,
		db:         db,
	}, nil
}

// ListenAndServe starts the HTTP server.
func (s *Server) ListenAndServe() error {
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully stops the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

func healthHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func readyHandler(db *pgxpool.Pool) gin.HandlerFunc {
	return func(c *gin.Context) {
		if db == nil {
			// Memory backend has nothing to ping.
			c.JSON(http.StatusOK, gin.H{"status": "ready"})
			return
		}
		ctx, cancel := context.WithTimeout(c.Request.Context(), time.Second)
		defer cancel()
		if err := db.Ping(ctx); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable", "reason": "db not reachable"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	}
}
