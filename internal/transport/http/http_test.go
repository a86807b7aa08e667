package httptransport_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/funtech-labs/orders-backend/internal/apperrors"
	"github.com/funtech-labs/orders-backend/internal/auth/token"
	"github.com/funtech-labs/orders-backend/internal/service/models/event"
	"github.com/funtech-labs/orders-backend/internal/service/models/order"
	"github.com/funtech-labs/orders-backend/internal/service/models/user"
	"github.com/funtech-labs/orders-backend/internal/service/services/authsvc"
	"github.com/funtech-labs/orders-backend/internal/service/services/ordersvc"
	httptransport "github.com/funtech-labs/orders-backend/internal/transport/http"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

//
// ---------- STUBS & FAKES ----------
//

// stubUserRepo implements iuserrepo.IUserRepository in memory.
type stubUserRepo struct {
	users  map[string]user.User
	nextID int64
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{
		users:  make(map[string]user.User),
		nextID: 1,
	}
}

func (s *stubUserRepo) Insert(ctx context.Context, u user.User) (user.User, error) {
	if _, ok := s.users[u.Email]; ok {
		return user.User{}, apperrors.ErrConflict
	}
	u.ID = s.nextID
	u.CreatedAt = time.Now()
	s.nextID++
	s.users[u.Email] = u

	return u, nil
}

func (s *stubUserRepo) GetByID(ctx context.Context, id int64) (*user.User, error) {
	for _, u := range s.users {
		if u.ID == id {
			cp := u

			return &cp, nil
		}
	}

	return nil, nil
}

func (s *stubUserRepo) GetByEmail(ctx context.Context, email string) (*user.User, error) {
	u, ok := s.users[email]
	if !ok {
		return nil, nil
	}
	cp := u

	return &cp, nil
}

// stubOrderRepo implements iorderrepo.IOrderRepository in memory.
type stubOrderRepo struct {
	orders map[uuid.UUID]order.Order
}

func newStubOrderRepo() *stubOrderRepo {
	return &stubOrderRepo{
		orders: make(map[uuid.UUID]order.Order),
	}
}

func (s *stubOrderRepo) Insert(ctx context.Context, o order.Order) (order.Order, error) {
	s.orders[o.ID] = o

	return o, nil
}

func (s *stubOrderRepo) GetByID(ctx context.Context, id uuid.UUID) (*order.Order, error) {
	o, ok := s.orders[id]
	if !ok {
		return nil, nil
	}
	cp := o

	return &cp, nil
}

func (s *stubOrderRepo) ListByUser(ctx context.Context, userID int64) ([]order.Order, error) {
	result := make([]order.Order, 0)
	for _, o := range s.orders {
		if o.UserID == userID {
			result = append(result, o)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})

	return result, nil
}

func (s *stubOrderRepo) UpdateStatus(
	ctx context.Context,
	id uuid.UUID,
	status order.Status,
) (*order.Order, error) {
	o, ok := s.orders[id]
	if !ok {
		return nil, nil
	}
	o.Status = status
	s.orders[id] = o

	return &o, nil
}

// fakeCache is an in-memory stand-in for the Redis order cache.
type fakeCache struct {
	entries map[uuid.UUID]order.Order
}

func newFakeCache() *fakeCache {
	return &fakeCache{entries: make(map[uuid.UUID]order.Order)}
}

func (c *fakeCache) Get(ctx context.Context, id uuid.UUID) *order.Order {
	o, ok := c.entries[id]
	if !ok {
		return nil
	}
	cp := o

	return &cp
}

func (c *fakeCache) Set(ctx context.Context, o *order.Order) {
	c.entries[o.ID] = *o
}

func (c *fakeCache) Invalidate(ctx context.Context, id uuid.UUID) {
	delete(c.entries, id)
}

// stubPublisher records published events.
type stubPublisher struct {
	published []event.NewOrder
}

func (p *stubPublisher) PublishNewOrder(ctx context.Context, evt event.NewOrder) error {
	p.published = append(p.published, evt)

	return nil
}

//
// ---------- HARNESS ----------
//

type harness struct {
	transport *httptransport.HTTPTransport
	publisher *stubPublisher
}

func newHarness(t *testing.T) *harness {
	t.Helper()

	userRepo := newStubUserRepo()
	orderRepo := newStubOrderRepo()
	publisher := &stubPublisher{}

	authSvc := authsvc.MustNewAuthService(authsvc.WithUserRepository(userRepo))
	orderSvc := ordersvc.MustNewOrderService(
		ordersvc.WithOrderRepository(orderRepo),
		ordersvc.WithCache(newFakeCache()),
		ordersvc.WithPublisher(publisher),
	)

	tokens := token.NewManager([]byte("test-secret"), time.Hour)

	transport := httptransport.NewHTTPTransport(authSvc, orderSvc, tokens, userRepo)
	transport.RegisterRoutes()

	return &harness{
		transport: transport,
		publisher: publisher,
	}
}

func (h *harness) doJSON(t *testing.T, method, path, bearer string, body string) *httptest.ResponseRecorder {
	t.Helper()

	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("")
	} else {
		reader = strings.NewReader(body)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}

	rec := httptest.NewRecorder()
	h.transport.Router().ServeHTTP(rec, req)

	return rec
}

func (h *harness) doForm(t *testing.T, path string, form url.Values) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	rec := httptest.NewRecorder()
	h.transport.Router().ServeHTTP(rec, req)

	return rec
}

func (h *harness) register(t *testing.T, email, password string) map[string]any {
	t.Helper()

	rec := h.doJSON(t, http.MethodPost, "/register/",
		"", `{"email":"`+email+`","password":"`+password+`"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))

	return body
}

func (h *harness) login(t *testing.T, email, password string) string {
	t.Helper()

	rec := h.doForm(t, "/token/", url.Values{
		"username": {email},
		"password": {password},
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Equal(t, "bearer", body["token_type"])
	require.NotEmpty(t, body["access_token"])

	return body["access_token"]
}

func detail(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))

	return body["detail"]
}

//
// ---------- TESTS ----------
//

func TestRegister(t *testing.T) {
	h := newHarness(t)

	body := h.register(t, "user@example.com", "secret123")
	assert.Equal(t, "user@example.com", body["email"])
	assert.NotZero(t, body["id"])
	assert.NotEmpty(t, body["created_at"])
	assert.NotContains(t, body, "password")
}

func TestRegisterDuplicateEmail(t *testing.T) {
	h := newHarness(t)
	h.register(t, "user@example.com", "secret123")

	rec := h.doJSON(t, http.MethodPost, "/register/",
		"", `{"email":"user@example.com","password":"other"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Email already registered", detail(t, rec))
}

func TestRegisterInvalidBody(t *testing.T) {
	h := newHarness(t)

	rec := h.doJSON(t, http.MethodPost, "/register/", "", `{"email":"no-at-sign","password":"x"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = h.doJSON(t, http.MethodPost, "/register/", "", `not json`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestTokenRejectsBadCredentials(t *testing.T) {
	h := newHarness(t)
	h.register(t, "user@example.com", "secret123")

	// Wrong password and unknown email yield the same uniform 401.
	for _, creds := range []url.Values{
		{"username": {"user@example.com"}, "password": {"wrong"}},
		{"username": {"nobody@example.com"}, "password": {"secret123"}},
	} {
		rec := h.doForm(t, "/token/", creds)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Equal(t, "Incorrect email or password", detail(t, rec))
		assert.Equal(t, "Bearer", rec.Header().Get("WWW-Authenticate"))
	}
}

func TestOrdersRequireToken(t *testing.T) {
	h := newHarness(t)

	id := uuid.New().String()
	requests := []struct {
		method string
		path   string
		body   string
	}{
		{http.MethodPost, "/orders/", `{"items":[]}`},
		{http.MethodGet, "/orders/" + id + "/", ""},
		{http.MethodPatch, "/orders/" + id + "/", `{"status":"PAID"}`},
		{http.MethodGet, "/orders/user/1/", ""},
	}

	for _, r := range requests {
		rec := h.doJSON(t, r.method, r.path, "", r.body)
		assert.Equal(t, http.StatusUnauthorized, rec.Code, r.method+" "+r.path)
	}

	// Garbage token is as good as none.
	rec := h.doJSON(t, http.MethodGet, "/orders/user/1/", "garbage", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestEndToEndOrderLifecycle(t *testing.T) {
	h := newHarness(t)

	h.register(t, "user@example.com", "secret123")
	bearer := h.login(t, "user@example.com", "secret123")

	// Create an order with a single item.
	rec := h.doJSON(t, http.MethodPost, "/orders/", bearer,
		`{"items":[{"name":"x","quantity":1,"price":5.0}]}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var created order.Order
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	assert.Equal(t, order.StatusPending, created.Status)
	assert.Equal(t, 5.0, created.TotalPrice)
	require.Len(t, h.publisher.published, 1)
	assert.Equal(t, created.ID.String(), h.publisher.published[0].OrderID)

	// Read it back.
	rec = h.doJSON(t, http.MethodGet, "/orders/"+created.ID.String()+"/", bearer, "")
	require.Equal(t, http.StatusOK, rec.Code)

	var fetched order.Order
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &fetched))
	assert.Equal(t, order.StatusPending, fetched.Status)
	assert.Equal(t, 5.0, fetched.TotalPrice)

	// Move it to PAID.
	rec = h.doJSON(t, http.MethodPatch, "/orders/"+created.ID.String()+"/", bearer,
		`{"status":"PAID"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var updated order.Order
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &updated))
	assert.Equal(t, order.StatusPaid, updated.Status)

	// The read after the update must see the new status, not a stale cache entry.
	rec = h.doJSON(t, http.MethodGet, "/orders/"+created.ID.String()+"/", bearer, "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &fetched))
	assert.Equal(t, order.StatusPaid, fetched.Status)
}

func TestOwnerOnlyAccess(t *testing.T) {
	h := newHarness(t)

	h.register(t, "a@example.com", "secret123")
	h.register(t, "b@example.com", "secret123")
	bearerA := h.login(t, "a@example.com", "secret123")
	bearerB := h.login(t, "b@example.com", "secret123")

	rec := h.doJSON(t, http.MethodPost, "/orders/", bearerA,
		`{"items":[{"name":"x","quantity":1,"price":5.0}]}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var created order.Order
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))

	// Another user's order yields 403, revealing existence by policy.
	rec = h.doJSON(t, http.MethodGet, "/orders/"+created.ID.String()+"/", bearerB, "")
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, "Cannot access this order", detail(t, rec))

	rec = h.doJSON(t, http.MethodPatch, "/orders/"+created.ID.String()+"/", bearerB,
		`{"status":"CANCELED"}`)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	// Listing someone else's orders is forbidden too.
	rec = h.doJSON(t, http.MethodGet, "/orders/user/1/", bearerB, "")
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, "Not your orders", detail(t, rec))
}

func TestGetMissingOrder(t *testing.T) {
	h := newHarness(t)

	h.register(t, "user@example.com", "secret123")
	bearer := h.login(t, "user@example.com", "secret123")

	rec := h.doJSON(t, http.MethodGet, "/orders/"+uuid.New().String()+"/", bearer, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Order not found", detail(t, rec))

	rec = h.doJSON(t, http.MethodPatch, "/orders/"+uuid.New().String()+"/", bearer,
		`{"status":"PAID"}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestUpdateOrderRejectsUnknownStatus(t *testing.T) {
	h := newHarness(t)

	h.register(t, "user@example.com", "secret123")
	bearer := h.login(t, "user@example.com", "secret123")

	rec := h.doJSON(t, http.MethodPost, "/orders/", bearer,
		`{"items":[{"name":"x","quantity":1,"price":5.0}]}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var created order.Order
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))

	rec = h.doJSON(t, http.MethodPatch, "/orders/"+created.ID.String()+"/", bearer,
		`{"status":"DELIVERED"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Invalid order status", detail(t, rec))
}

func TestCreateOrderValidatesItems(t *testing.T) {
	h := newHarness(t)

	h.register(t, "user@example.com", "secret123")
	bearer := h.login(t, "user@example.com", "secret123")

	cases := []string{
		`{"items":[{"name":"","quantity":1,"price":5.0}]}`,
		`{"items":[{"name":"x","quantity":0,"price":5.0}]}`,
		`{"items":[{"name":"x","quantity":1,"price":-1}]}`,
	}
	for _, body := range cases {
		rec := h.doJSON(t, http.MethodPost, "/orders/", bearer, body)
		assert.Equal(t, http.StatusBadRequest, rec.Code, body)
	}
}

func TestListOrdersNewestFirst(t *testing.T) {
	h := newHarness(t)

	body := h.register(t, "user@example.com", "secret123")
	bearer := h.login(t, "user@example.com", "secret123")
	userID := int64(body["id"].(float64))

	for _, name := range []string{"first", "second", "third"} {
		rec := h.doJSON(t, http.MethodPost, "/orders/", bearer,
			`{"items":[{"name":"`+name+`","quantity":1,"price":1.0}]}`)
		require.Equal(t, http.StatusOK, rec.Code)
		time.Sleep(time.Millisecond)
	}

	rec := h.doJSON(t, http.MethodGet, "/orders/user/"+strconv.FormatInt(userID, 10)+"/", bearer, "")
	require.Equal(t, http.StatusOK, rec.Code)

	var orders []order.Order
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &orders))
	require.Len(t, orders, 3)
	assert.Equal(t, "third", orders[0].Items[0].Name)
	assert.Equal(t, "first", orders[2].Items[0].Name)
	for i := 1; i < len(orders); i++ {
		assert.False(t, orders[i].CreatedAt.After(orders[i-1].CreatedAt))
	}
}
