package httpserver

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"storefront/internal/domain"
	"storefront/internal/payment"
	productrepo "storefront/internal/repository/product"
	cartsvc "storefront/internal/service/cart"
	guestsvc "storefront/internal/service/guest"

	"github.com/gin-gonic/gin"
)

type stubCarts struct {
	lines     []domain.ResolvedCartLine
	addedLine string
	addOwner  domain.Owner
	addErr    error
	updateErr error
	merged    [][2]string // guestID, userID pairs
	mergeErr  error
	cleared   []domain.Owner
}

func (s *stubCarts) Get(_ context.Context, _ domain.Owner) ([]domain.ResolvedCartLine, error) {
	return s.lines, nil
}

func (s *stubCarts) AddItem(_ context.Context, owner domain.Owner, _ string, _ int) (string, error) {
	s.addOwner = owner
	if s.addErr != nil {
		return "", s.addErr
	}
	return s.addedLine, nil
}

func (s *stubCarts) UpdateItem(_ context.Context, _ string, _ cartsvc.UpdateInput) error {
	return s.updateErr
}

func (s *stubCarts) RemoveItem(_ context.Context, _ string) error { return nil }

func (s *stubCarts) Clear(_ context.Context, owner domain.Owner) error {
	s.cleared = append(s.cleared, owner)
	return nil
}

func (s *stubCarts) Merge(_ context.Context, guestID, userID string) error {
	if s.mergeErr != nil {
		return s.mergeErr
	}
	s.merged = append(s.merged, [2]string{guestID, userID})
	return nil
}

type stubAuth struct {
	user      *domain.User
	token     string
	loginErr  error
	bySession map[string]*domain.User
}

func (s *stubAuth) Signup(_ context.Context, _, _, _ string) (*domain.User, string, error) {
	if s.loginErr != nil {
		return nil, "", s.loginErr
	}
	return s.user, s.token, nil
}

func (s *stubAuth) Signin(_ context.Context, _, _ string) (*domain.User, string, error) {
	if s.loginErr != nil {
		return nil, "", s.loginErr
	}
	return s.user, s.token, nil
}

func (s *stubAuth) Signout(_ context.Context, _ string) error { return nil }

func (s *stubAuth) LookupByToken(_ context.Context, token string) (*domain.User, error) {
	if u, ok := s.bySession[token]; ok {
		return u, nil
	}
	return nil, domain.ErrNotFound
}

func (s *stubAuth) SessionTTL() time.Duration { return time.Hour }

type stubCatalog struct {
	products []productrepo.Detail
}

func (s *stubCatalog) List(_ context.Context) ([]productrepo.Detail, error) {
	return s.products, nil
}

func (s *stubCatalog) Get(_ context.Context, id string) (*productrepo.Detail, error) {
	for _, p := range s.products {
		if p.ID == id {
			return &p, nil
		}
	}
	return nil, domain.ErrNotFound
}

type stubCheckout struct {
	session *payment.Session
	err     error
}

func (s *stubCheckout) CreateSession(_ context.Context, _ domain.Owner, _ string) (*payment.Session, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.session, nil
}

type stubOrders struct {
	order          *domain.Order
	materializeErr error
	materialized   []string
	failed         []string
}

func (s *stubOrders) MaterializeCompletedSession(_ context.Context, sessionID string, _ domain.Owner) (*domain.Order, error) {
	if s.materializeErr != nil {
		return nil, s.materializeErr
	}
	s.materialized = append(s.materialized, sessionID)
	return s.order, nil
}

func (s *stubOrders) RecordFailedPayment(id string) { s.failed = append(s.failed, id) }

func (s *stubOrders) Get(_ context.Context, _ string) (*domain.Order, error) {
	if s.order == nil {
		return nil, domain.ErrNotFound
	}
	return s.order, nil
}

func (s *stubOrders) GetBySessionID(_ context.Context, _ string) (*domain.Order, error) {
	if s.order == nil {
		return nil, domain.ErrNotFound
	}
	return s.order, nil
}

const testWebhookSecret = "whsec_test"

func testRouter(deps Deps) *gin.Engine {
	if deps.GuestSvc == nil {
		deps.GuestSvc = guestsvc.New("guest-secret", time.Hour)
	}
	if deps.AuthSvc == nil {
		deps.AuthSvc = &stubAuth{bySession: map[string]*domain.User{}}
	}
	if deps.CatalogSvc == nil {
		deps.CatalogSvc = &stubCatalog{}
	}
	if deps.WebhookSecret == "" {
		deps.WebhookSecret = testWebhookSecret
	}
	return buildRouter(log.New(io.Discard, "", 0), nil, deps)
}

func doJSON(router *gin.Engine, method, path, body string, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	var rdr io.Reader
	if body != "" {
		rdr = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, rdr)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	for _, ck := range cookies {
		req.AddCookie(ck)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func cookieByName(t *testing.T, w *httptest.ResponseRecorder, name string) *http.Cookie {
	t.Helper()
	for _, ck := range w.Result().Cookies() {
		if ck.Name == name {
			return ck
		}
	}
	return nil
}

func TestHealthz(t *testing.T) {
	router := testRouter(Deps{CartSvc: &stubCarts{}, CheckoutSvc: &stubCheckout{}, OrderSvc: &stubOrders{}})
	w := doJSON(router, http.MethodGet, "/healthz", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
}

func TestListProducts(t *testing.T) {
	catalog := &stubCatalog{products: []productrepo.Detail{{
		Product: domain.Product{ID: "prod-1", Name: "Alpha"},
		Variants: []domain.Variant{
			{ID: "var-a1", ProductID: "prod-1", SKU: "A1", PriceCents: 4500, InStock: 5},
		},
	}}}
	router := testRouter(Deps{CartSvc: &stubCarts{}, CatalogSvc: catalog, CheckoutSvc: &stubCheckout{}, OrderSvc: &stubOrders{}})

	w := doJSON(router, http.MethodGet, "/products", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	var resp struct {
		Products []productrepo.Detail `json:"products"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(resp.Products) != 1 || len(resp.Products[0].Variants) != 1 {
		t.Fatalf("unexpected products %+v", resp.Products)
	}
	// The variant id is what cart adds take; it must be exposed here.
	if resp.Products[0].Variants[0].ID != "var-a1" {
		t.Fatalf("unexpected variant %+v", resp.Products[0].Variants[0])
	}
}

func TestGetProduct(t *testing.T) {
	catalog := &stubCatalog{products: []productrepo.Detail{{
		Product: domain.Product{ID: "prod-1", Name: "Alpha"},
	}}}
	router := testRouter(Deps{CartSvc: &stubCarts{}, CatalogSvc: catalog, CheckoutSvc: &stubCheckout{}, OrderSvc: &stubOrders{}})

	if w := doJSON(router, http.MethodGet, "/products/prod-1", ""); w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	if w := doJSON(router, http.MethodGet, "/products/no-such", ""); w.Code != http.StatusNotFound {
		t.Fatalf("unknown product: status = %d", w.Code)
	}
}

func TestAddItemMintsGuestIdentity(t *testing.T) {
	carts := &stubCarts{addedLine: "line-1"}
	router := testRouter(Deps{CartSvc: carts, CheckoutSvc: &stubCheckout{}, OrderSvc: &stubOrders{}})

	w := doJSON(router, http.MethodPost, "/cart/items", `{"variantId":"var-a","quantity":2}`)
	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
	}

	ck := cookieByName(t, w, guestCookie)
	if ck == nil || ck.Value == "" {
		t.Fatal("no guest cookie set for a first-time visitor")
	}
	if carts.addOwner.Kind() != domain.OwnerGuest {
		t.Fatalf("add owner kind = %v, want guest", carts.addOwner.Kind())
	}

	// The minted cookie resolves to the same guest on the next request.
	guests := guestsvc.New("guest-secret", time.Hour)
	guestID, err := guests.Validate(ck.Value)
	if err != nil {
		t.Fatalf("minted cookie does not validate: %v", err)
	}
	if owned, _ := carts.addOwner.GuestID(); owned != guestID {
		t.Fatalf("cookie guest %q, cart owner %q", guestID, owned)
	}
}

func TestAddItemReusesGuestCookie(t *testing.T) {
	guests := guestsvc.New("guest-secret", time.Hour)
	token, guestID, err := guests.Issue()
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	carts := &stubCarts{addedLine: "line-1"}
	router := testRouter(Deps{CartSvc: carts, CheckoutSvc: &stubCheckout{}, OrderSvc: &stubOrders{}})

	w := doJSON(router, http.MethodPost, "/cart/items", `{"variantId":"var-a","quantity":1}`,
		&http.Cookie{Name: guestCookie, Value: token})
	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d", w.Code)
	}
	if cookieByName(t, w, guestCookie) != nil {
		t.Fatal("a returning guest should not get a fresh cookie")
	}
	if carts.addOwner != domain.GuestOwner(guestID) {
		t.Fatalf("add owner = %+v, want guest %s", carts.addOwner, guestID)
	}
}

func TestAddItemValidation(t *testing.T) {
	carts := &stubCarts{addErr: fmt.Errorf("%w: bad quantity", domain.ErrValidation)}
	router := testRouter(Deps{CartSvc: carts, CheckoutSvc: &stubCheckout{}, OrderSvc: &stubOrders{}})

	// Missing fields are rejected before the service sees them.
	if w := doJSON(router, http.MethodPost, "/cart/items", `{"variantId":"var-a"}`); w.Code != http.StatusBadRequest {
		t.Fatalf("missing quantity: status = %d", w.Code)
	}
	// Service validation errors map to 400.
	if w := doJSON(router, http.MethodPost, "/cart/items", `{"variantId":"var-a","quantity":99}`); w.Code != http.StatusBadRequest {
		t.Fatalf("service rejection: status = %d", w.Code)
	}
}

func TestSigninMergesGuestCart(t *testing.T) {
	guests := guestsvc.New("guest-secret", time.Hour)
	token, guestID, err := guests.Issue()
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	carts := &stubCarts{}
	auth := &stubAuth{
		user:      &domain.User{ID: "u1", Email: "ada@example.com"},
		token:     "sess-1",
		bySession: map[string]*domain.User{},
	}
	router := testRouter(Deps{CartSvc: carts, AuthSvc: auth, CheckoutSvc: &stubCheckout{}, OrderSvc: &stubOrders{}})

	w := doJSON(router, http.MethodPost, "/auth/signin", `{"email":"ada@example.com","password":"long enough"}`,
		&http.Cookie{Name: guestCookie, Value: token})
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
	}

	if len(carts.merged) != 1 || carts.merged[0] != [2]string{guestID, "u1"} {
		t.Fatalf("merged = %v, want [[%s u1]]", carts.merged, guestID)
	}

	if ck := cookieByName(t, w, authCookie); ck == nil || ck.Value != "sess-1" {
		t.Fatal("auth cookie not set")
	}
	if ck := cookieByName(t, w, guestCookie); ck == nil || ck.MaxAge >= 0 {
		t.Fatal("guest cookie should be cleared after the merge")
	}
}

func TestSigninKeepsGuestCookieWhenMergeFails(t *testing.T) {
	guests := guestsvc.New("guest-secret", time.Hour)
	token, _, err := guests.Issue()
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	carts := &stubCarts{mergeErr: fmt.Errorf("store down")}
	auth := &stubAuth{
		user:      &domain.User{ID: "u1"},
		token:     "sess-1",
		bySession: map[string]*domain.User{},
	}
	router := testRouter(Deps{CartSvc: carts, AuthSvc: auth, CheckoutSvc: &stubCheckout{}, OrderSvc: &stubOrders{}})

	w := doJSON(router, http.MethodPost, "/auth/signin", `{"email":"a@b.c","password":"p"}`,
		&http.Cookie{Name: guestCookie, Value: token})

	// The sign-in still succeeds; the cookie survives so a later
	// request can retry the merge.
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	if ck := cookieByName(t, w, guestCookie); ck != nil && ck.MaxAge < 0 {
		t.Fatal("guest cookie must not be cleared when the merge failed")
	}
}

func TestGetCartResolvesIdentityFromAuthCookie(t *testing.T) {
	carts := &stubCarts{lines: []domain.ResolvedCartLine{
		{ID: "l1", VariantID: "var-a", Quantity: 2, PriceCents: 1000},
	}}
	auth := &stubAuth{bySession: map[string]*domain.User{
		"sess-1": {ID: "u1"},
	}}
	router := testRouter(Deps{CartSvc: carts, AuthSvc: auth, CheckoutSvc: &stubCheckout{}, OrderSvc: &stubOrders{}})

	w := doJSON(router, http.MethodGet, "/cart", "", &http.Cookie{Name: authCookie, Value: "sess-1"})
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	var resp struct {
		Items []domain.ResolvedCartLine `json:"items"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(resp.Items) != 1 || resp.Items[0].VariantID != "var-a" {
		t.Fatalf("unexpected items %+v", resp.Items)
	}
}

func TestCheckoutEmptyCart(t *testing.T) {
	co := &stubCheckout{err: domain.ErrEmptyCart}
	router := testRouter(Deps{CartSvc: &stubCarts{}, CheckoutSvc: co, OrderSvc: &stubOrders{}})

	w := doJSON(router, http.MethodPost, "/checkout/session", "")
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
}

func TestCheckoutReturnsRedirect(t *testing.T) {
	co := &stubCheckout{session: &payment.Session{ID: "cs_1", URL: "https://pay.example/cs_1"}}
	router := testRouter(Deps{CartSvc: &stubCarts{}, CheckoutSvc: co, OrderSvc: &stubOrders{}})

	w := doJSON(router, http.MethodPost, "/checkout/session", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	var resp struct {
		CheckoutURL string `json:"checkoutUrl"`
		SessionID   string `json:"sessionId"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.CheckoutURL != "https://pay.example/cs_1" || resp.SessionID != "cs_1" {
		t.Fatalf("unexpected response %+v", resp)
	}
}

func signWebhook(ts int64, payload []byte) string {
	mac := hmac.New(sha256.New, []byte(testWebhookSecret))
	fmt.Fprintf(mac, "%d.", ts)
	mac.Write(payload)
	return fmt.Sprintf("t=%d,v1=%s", ts, hex.EncodeToString(mac.Sum(nil)))
}

func postWebhook(router *gin.Engine, payload []byte, sig string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/webhooks/payment", strings.NewReader(string(payload)))
	if sig != "" {
		req.Header.Set(signatureHeader, sig)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestWebhookCompletedSession(t *testing.T) {
	orders := &stubOrders{order: &domain.Order{ID: "o1"}}
	router := testRouter(Deps{CartSvc: &stubCarts{}, CheckoutSvc: &stubCheckout{}, OrderSvc: orders})

	payload := []byte(`{
		"id": "evt_1",
		"type": "checkout.session.completed",
		"data": {"object": {"id": "cs_1", "metadata": {"user_id": "u1", "cart_id": "c1"}}}
	}`)
	w := postWebhook(router, payload, signWebhook(time.Now().Unix(), payload))
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
	}
	if len(orders.materialized) != 1 || orders.materialized[0] != "cs_1" {
		t.Fatalf("materialized = %v", orders.materialized)
	}
}

func TestWebhookRejectsBadSignature(t *testing.T) {
	orders := &stubOrders{order: &domain.Order{ID: "o1"}}
	router := testRouter(Deps{CartSvc: &stubCarts{}, CheckoutSvc: &stubCheckout{}, OrderSvc: orders})

	payload := []byte(`{"id":"evt_1","type":"checkout.session.completed","data":{"object":{"id":"cs_1"}}}`)

	if w := postWebhook(router, payload, ""); w.Code != http.StatusBadRequest {
		t.Fatalf("missing header: status = %d", w.Code)
	}
	if w := postWebhook(router, payload, "t=1,v1=deadbeef"); w.Code != http.StatusBadRequest {
		t.Fatalf("bad signature: status = %d", w.Code)
	}
	if len(orders.materialized) != 0 {
		t.Fatal("unverified payload reached the materializer")
	}
}

func TestWebhookMaterializeFailureAsksForRedelivery(t *testing.T) {
	orders := &stubOrders{materializeErr: fmt.Errorf("store down")}
	router := testRouter(Deps{CartSvc: &stubCarts{}, CheckoutSvc: &stubCheckout{}, OrderSvc: orders})

	payload := []byte(`{"id":"evt_1","type":"checkout.session.completed","data":{"object":{"id":"cs_1"}}}`)
	w := postWebhook(router, payload, signWebhook(time.Now().Unix(), payload))
	if w.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500 so the provider redelivers", w.Code)
	}
}

func TestWebhookPaymentFailed(t *testing.T) {
	orders := &stubOrders{}
	router := testRouter(Deps{CartSvc: &stubCarts{}, CheckoutSvc: &stubCheckout{}, OrderSvc: orders})

	payload := []byte(`{"id":"evt_2","type":"payment_intent.payment_failed","data":{"object":{"id":"pi_1"}}}`)
	w := postWebhook(router, payload, signWebhook(time.Now().Unix(), payload))
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	if len(orders.failed) != 1 || orders.failed[0] != "pi_1" {
		t.Fatalf("failed = %v", orders.failed)
	}
}

func TestWebhookIgnoresUnknownEvents(t *testing.T) {
	orders := &stubOrders{}
	router := testRouter(Deps{CartSvc: &stubCarts{}, CheckoutSvc: &stubCheckout{}, OrderSvc: orders})

	payload := []byte(`{"id":"evt_3","type":"customer.created","data":{"object":{"id":"cus_1"}}}`)
	w := postWebhook(router, payload, signWebhook(time.Now().Unix(), payload))
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	if len(orders.materialized) != 0 || len(orders.failed) != 0 {
		t.Fatal("unknown event type triggered a handler")
	}
}

func TestOrderReadScopedToOwner(t *testing.T) {
	orders := &stubOrders{order: &domain.Order{ID: "o1", Owner: domain.UserOwner("u1"), ExternalSessionID: "cs_1"}}
	auth := &stubAuth{bySession: map[string]*domain.User{
		"sess-owner": {ID: "u1"},
		"sess-other": {ID: "u2"},
	}}
	router := testRouter(Deps{CartSvc: &stubCarts{}, AuthSvc: auth, CheckoutSvc: &stubCheckout{}, OrderSvc: orders})

	// The owner sees the order.
	w := doJSON(router, http.MethodGet, "/orders/o1", "", &http.Cookie{Name: authCookie, Value: "sess-owner"})
	if w.Code != http.StatusOK {
		t.Fatalf("owner read: status = %d", w.Code)
	}

	// Everyone else gets a 404, not a 403; order ids stay unguessable.
	w = doJSON(router, http.MethodGet, "/orders/o1", "", &http.Cookie{Name: authCookie, Value: "sess-other"})
	if w.Code != http.StatusNotFound {
		t.Fatalf("other user: status = %d", w.Code)
	}
	w = doJSON(router, http.MethodGet, "/orders/o1", "")
	if w.Code != http.StatusNotFound {
		t.Fatalf("anonymous: status = %d", w.Code)
	}

	// Lookup by external session id follows the same scoping.
	w = doJSON(router, http.MethodGet, "/orders?session_id=cs_1", "", &http.Cookie{Name: authCookie, Value: "sess-owner"})
	if w.Code != http.StatusOK {
		t.Fatalf("owner read by session: status = %d", w.Code)
	}
	w = doJSON(router, http.MethodGet, "/orders?session_id=cs_1", "")
	if w.Code != http.StatusNotFound {
		t.Fatalf("anonymous read by session: status = %d", w.Code)
	}
}
