package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"storefront/internal/config"
	"storefront/internal/db"
	"storefront/internal/httpserver"
	"storefront/internal/payment"
	cartrepo "storefront/internal/repository/cart"
	orderrepo "storefront/internal/repository/order"
	productrepo "storefront/internal/repository/product"
	sessionrepo "storefront/internal/repository/session"
	userrepo "storefront/internal/repository/user"
	variantrepo "storefront/internal/repository/variant"
	authsvc "storefront/internal/service/auth"
	cartsvc "storefront/internal/service/cart"
	catalogsvc "storefront/internal/service/catalog"
	checkoutsvc "storefront/internal/service/checkout"
	guestsvc "storefront/internal/service/guest"
	ordersvc "storefront/internal/service/order"

	"github.com/jackc/pgx/v5/pgxpool"
)

func main() {
	cfg := config.FromEnv()
	logger := log.New(os.Stdout, "[api] ", log.LstdFlags|log.LUTC|log.Lshortfile)

	ctx := context.Background()

	var (
		pool     *pgxpool.Pool
		carts    cartrepo.Repository
		orders   orderrepo.Repository
		products productrepo.Repository
		variants variantrepo.Repository
		users    userrepo.Repository
		sessions sessionrepo.Repository
	)

	// The store backend is fixed at startup. The memory backend exists
	// for local development and tests; it is never a fallback for a
	// failing database.
	switch cfg.StoreBackend {
	case "memory":
		logger.Println("using in-memory store backend")
		memVariants := variantrepo.NewMemory()
		variants = memVariants
		carts = cartrepo.NewMemory(memVariants)
		orders = orderrepo.NewMemory()
		products = productrepo.NewMemory()
		users = userrepo.NewMemory()
		sessions = sessionrepo.NewMemory()
	case "postgres":
		var err error
		pool, err = db.Connect(ctx, cfg.DBConnString, cfg.DBMaxConns)
		if err != nil {
			logger.Fatalf("connect to db: %v", err)
		}
		defer pool.Close()
		variants = variantrepo.NewPostgres(pool)
		carts = cartrepo.NewPostgres(pool)
		orders = orderrepo.NewPostgres(pool)
		products = productrepo.NewPostgres(pool)
		users = userrepo.NewPostgres(pool)
		sessions = sessionrepo.NewPostgres(pool)
	default:
		logger.Fatalf("unknown store backend %q", cfg.StoreBackend)
	}

	paymentClient := payment.NewClient(cfg.PaymentAPIURL, cfg.PaymentAPIKey)

	cartService := cartsvc.New(carts, variants)
	catalogService := catalogsvc.New(products)
	checkoutService := checkoutsvc.New(carts, paymentClient, cfg.AppBaseURL)
	orderService := ordersvc.New(orders, carts, logger)
	authService := authsvc.New(users, sessions, cfg.SessionTTL)
	guestService := guestsvc.New(cfg.GuestTokenSecret, cfg.GuestTokenTTL)

	srv, err := httpserver.New(cfg.HTTPAddr, logger, pool, httpserver.Deps{
		CartSvc:       cartService,
		AuthSvc:       authService,
		GuestSvc:      guestService,
		CatalogSvc:    catalogService,
		CheckoutSvc:   checkoutService,
		OrderSvc:      orderService,
		WebhookSecret: cfg.PaymentWebhookSecret,
	})
	if err != nil {
		logger.Fatalf("init server: %v", err)
	}

	serverErr := make(chan error, 1)
	go func() {
		logger.Printf("starting http server on %s", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	stopCh := make(chan os.Signal, 1)
	signal.Notify(stopCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-stopCh:
		logger.Printf("received signal %s, shutting down", sig)
	case err := <-serverErr:
		logger.Printf("server error: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Printf("graceful shutdown failed: %v", err)
	} else {
		logger.Printf("server stopped")
	}
}
