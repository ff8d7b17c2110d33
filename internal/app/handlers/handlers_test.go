package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/ampizza/pizza-shop/internal/app/handlers"
	"github.com/ampizza/pizza-shop/internal/domain/models"
	"github.com/ampizza/pizza-shop/internal/jwt-new/jwtmiddleware"
	"github.com/ampizza/pizza-shop/internal/service"
	"github.com/ampizza/pizza-shop/internal/storage"
)

// fakeAuthService — фиктивная реализация для тестирования.
type fakeAuthService struct {
	token string
	user  *models.User
	err   error
}

func (f *fakeAuthService) Register(ctx context.Context, name, email, password string) (string, error) {
	return f.token, f.err
}

func (f *fakeAuthService) Login(ctx context.Context, email, password string) (string, error) {
	return f.token, f.err
}

func (f *fakeAuthService) ForgotPassword(ctx context.Context, email string) (string, error) {
	return f.token, f.err
}

func (f *fakeAuthService) ResetPassword(ctx context.Context, token, newPassword string) error {
	return f.err
}

func (f *fakeAuthService) Profile(ctx context.Context, userID int64) (*models.User, error) {
	return f.user, f.err
}

func (f *fakeAuthService) UpdateProfile(ctx context.Context, userID int64, name, newPassword string) error {
	return f.err
}

// fakeOrderService — фиктивная реализация интерфейса OrderService
type fakeOrderService struct {
	order *models.Order
	err   error
}

func (f *fakeOrderService) Create(ctx context.Context, input service.CreateOrderInput) (*models.Order, error) {
	return f.order, f.err
}

func (f *fakeOrderService) GetByID(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	return f.order, f.err
}

func (f *fakeOrderService) List(ctx context.Context) ([]*models.Order, error) {
	if f.err != nil {
		return nil, f.err
	}
	return []*models.Order{f.order}, nil
}

func (f *fakeOrderService) UpdateStatus(ctx context.Context, id uuid.UUID, status string) (*models.Order, error) {
	return f.order, f.err
}

func (f *fakeOrderService) MarkPickupReady(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	return f.order, f.err
}

type fakeDeliveryService struct {
	quote *service.Quote
	err   error
}

func (f *fakeDeliveryService) Quote(ctx context.Context, address string) (*service.Quote, error) {
	return f.quote, f.err
}

// fakeOfferService — фиктивная реализация интерфейса OfferService
type fakeOfferService struct {
	offer *models.Offer
	err   error
}

func (f *fakeOfferService) List(ctx context.Context) ([]*models.Offer, error) {
	if f.err != nil {
		return nil, f.err
	}
	return []*models.Offer{f.offer}, nil
}

func (f *fakeOfferService) ListAll(ctx context.Context) ([]*models.Offer, error) {
	return f.List(ctx)
}

func (f *fakeOfferService) GetByID(ctx context.Context, id int64) (*models.Offer, error) {
	return f.offer, f.err
}

func (f *fakeOfferService) Create(ctx context.Context, offer *models.Offer) (*models.Offer, error) {
	return f.offer, f.err
}

func (f *fakeOfferService) Update(ctx context.Context, offer *models.Offer) (*models.Offer, error) {
	return f.offer, f.err
}

func (f *fakeOfferService) Delete(ctx context.Context, id int64) error {
	return f.err
}

var _ service.AuthServiceInterface = (*fakeAuthService)(nil)
var _ service.OrderService = (*fakeOrderService)(nil)
var _ service.DeliveryService = (*fakeDeliveryService)(nil)
var _ service.OfferService = (*fakeOfferService)(nil)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, nil))
}

// withURLParam подкладывает параметр маршрута chi в контекст запроса
func withURLParam(r *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

func sampleOrder() *models.Order {
	return &models.Order{
		ID:            uuid.New(),
		CustomerName:  "Mario Rossi",
		CustomerEmail: "mario@example.com",
		DeliveryType:  models.DeliveryTypePickup,
		OrderStatus:   models.StatusPending,
		TotalAmount:   21.50,
		Items: []models.OrderItem{
			{ProductID: 1, Name: "Margherita", Price: 10.75, Quantity: 2},
		},
	}
}

func TestRegisterHandler_Success(t *testing.T) {
	fakeSvc := &fakeAuthService{token: "test-token"}
	handler := handlers.RegisterHandler(testLogger(), fakeSvc)

	reqBody := `{"name": "Mario", "email": "mario@example.com", "password": "password123"}`
	req := httptest.NewRequest("POST", "/api/auth/register", bytes.NewBufferString(reqBody))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()

	handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusCreated, rr.Code, "Expected status 201 Created")

	var resp struct {
		Token string `json:"token"`
	}
	err := json.NewDecoder(rr.Body).Decode(&resp)
	assert.NoError(t, err, "Response decoding should succeed")
	assert.Equal(t, "test-token", resp.Token, "Returned token should match fake token")
}

func TestRegisterHandler_EmailTaken(t *testing.T) {
	fakeSvc := &fakeAuthService{err: service.ErrEmailTaken}
	handler := handlers.RegisterHandler(testLogger(), fakeSvc)

	reqBody := `{"name": "Mario", "email": "mario@example.com", "password": "password123"}`
	req := httptest.NewRequest("POST", "/api/auth/register", bytes.NewBufferString(reqBody))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()

	handler.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusConflict, rr.Code, "Expected status 409 for duplicate email")
}

func TestLoginHandler_InvalidCredentials(t *testing.T) {
	fakeSvc := &fakeAuthService{err: service.ErrInvalidCredentials}
	handler := handlers.LoginHandler(testLogger(), fakeSvc)

	reqBody := `{"email": "mario@example.com", "password": "wrongpassword"}`
	req := httptest.NewRequest("POST", "/api/auth/login", bytes.NewBufferString(reqBody))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()

	handler.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusUnauthorized, rr.Code, "Expected status 401 for bad credentials")
}

func TestProfileHandler_Success(t *testing.T) {
	fakeSvc := &fakeAuthService{user: &models.User{
		ID:    7,
		Name:  "Mario Rossi",
		Email: "mario@example.com",
	}}
	handler := handlers.ProfileHandler(testLogger(), fakeSvc)

	req := httptest.NewRequest("GET", "/api/auth/profile", nil)
	req = req.WithContext(context.WithValue(req.Context(), jwtmiddleware.UserIDKey, int64(7)))
	rr := httptest.NewRecorder()

	handler.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusOK, rr.Code)

	var resp handlers.ProfileResponse
	err := json.NewDecoder(rr.Body).Decode(&resp)
	assert.NoError(t, err, "Response decoding should succeed")
	assert.Equal(t, int64(7), resp.ID)
	assert.Equal(t, "mario@example.com", resp.Email)
}

func TestProfileHandler_NoToken(t *testing.T) {
	handler := handlers.ProfileHandler(testLogger(), &fakeAuthService{})

	req := httptest.NewRequest("GET", "/api/auth/profile", nil)
	rr := httptest.NewRecorder()

	handler.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusUnauthorized, rr.Code, "Expected status 401 without user in context")
}

func TestGetOfferHandler_Success(t *testing.T) {
	offer := &models.Offer{ID: 3, Title: "Two for one", Description: "Every Tuesday", Discount: 50, Active: true}
	handler := handlers.GetOfferHandler(testLogger(), &fakeOfferService{offer: offer})

	req := httptest.NewRequest("GET", "/api/offers/3", nil)
	req = withURLParam(req, "offerID", "3")
	rr := httptest.NewRecorder()

	handler.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusOK, rr.Code)

	var resp models.Offer
	err := json.NewDecoder(rr.Body).Decode(&resp)
	assert.NoError(t, err, "Response decoding should succeed")
	assert.Equal(t, offer.ID, resp.ID)
	assert.Equal(t, offer.Title, resp.Title)
}

func TestGetOfferHandler_NotFound(t *testing.T) {
	handler := handlers.GetOfferHandler(testLogger(), &fakeOfferService{err: storage.ErrOfferNotFound})

	req := httptest.NewRequest("GET", "/api/offers/99", nil)
	req = withURLParam(req, "offerID", "99")
	rr := httptest.NewRecorder()

	handler.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusNotFound, rr.Code, "Expected status 404 for unknown offer")
}

func TestCreateOrderHandler_Success(t *testing.T) {
	order := sampleOrder()
	fakeSvc := &fakeOrderService{order: order}
	handler := handlers.CreateOrderHandler(testLogger(), fakeSvc)

	reqBody := `{
		"customerName": "Mario Rossi",
		"customerEmail": "mario@example.com",
		"items": [{"productId": 1, "quantity": 2}],
		"deliveryType": "pickup",
		"paymentMethod": "cash"
	}`
	req := httptest.NewRequest("POST", "/api/orders", bytes.NewBufferString(reqBody))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()

	handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusCreated, rr.Code, "Expected status 201 Created")

	var resp models.Order
	err := json.NewDecoder(rr.Body).Decode(&resp)
	assert.NoError(t, err, "Response decoding should succeed")
	assert.Equal(t, order.ID, resp.ID, "Returned order should match fake order")
}

func TestCreateOrderHandler_ValidationError(t *testing.T) {
	fakeSvc := &fakeOrderService{}
	handler := handlers.CreateOrderHandler(testLogger(), fakeSvc)

	// нет позиций заказа
	reqBody := `{
		"customerName": "Mario Rossi",
		"customerEmail": "mario@example.com",
		"items": [],
		"deliveryType": "pickup",
		"paymentMethod": "cash"
	}`
	req := httptest.NewRequest("POST", "/api/orders", bytes.NewBufferString(reqBody))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()

	handler.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusBadRequest, rr.Code, "Expected status 400 for empty items")
}

func TestCreateOrderHandler_AddressRequired(t *testing.T) {
	fakeSvc := &fakeOrderService{err: service.ErrAddressRequired}
	handler := handlers.CreateOrderHandler(testLogger(), fakeSvc)

	reqBody := `{
		"customerName": "Mario Rossi",
		"customerEmail": "mario@example.com",
		"items": [{"productId": 1, "quantity": 1}],
		"deliveryType": "delivery",
		"paymentMethod": "card"
	}`
	req := httptest.NewRequest("POST", "/api/orders", bytes.NewBufferString(reqBody))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()

	handler.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusBadRequest, rr.Code, "Expected status 400 for missing address")
}

func TestGetOrderHandler_IncludesStatusSteps(t *testing.T) {
	order := sampleOrder()
	fakeSvc := &fakeOrderService{order: order}
	handler := handlers.GetOrderHandler(testLogger(), fakeSvc)

	req := httptest.NewRequest("GET", "/api/orders/"+order.ID.String(), nil)
	req = withURLParam(req, "id", order.ID.String())
	rr := httptest.NewRecorder()

	handler.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusOK, rr.Code)

	var resp struct {
		ID          uuid.UUID `json:"id"`
		StatusSteps []string  `json:"statusSteps"`
	}
	err := json.NewDecoder(rr.Body).Decode(&resp)
	assert.NoError(t, err, "Response decoding should succeed")
	assert.Equal(t, order.ID, resp.ID)
	assert.Equal(t, models.StatusSteps(order.DeliveryType), resp.StatusSteps,
		"Snapshot should expose the step list for the progress index")
}

func TestGetOrderHandler_NotFound(t *testing.T) {
	fakeSvc := &fakeOrderService{err: storage.ErrOrderNotFound}
	handler := handlers.GetOrderHandler(testLogger(), fakeSvc)

	req := httptest.NewRequest("GET", "/api/orders/"+uuid.NewString(), nil)
	req = withURLParam(req, "id", uuid.NewString())
	rr := httptest.NewRecorder()

	handler.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusNotFound, rr.Code, "Expected status 404 for unknown order")
}

func TestGetOrderHandler_InvalidID(t *testing.T) {
	fakeSvc := &fakeOrderService{}
	handler := handlers.GetOrderHandler(testLogger(), fakeSvc)

	req := httptest.NewRequest("GET", "/api/orders/not-a-uuid", nil)
	req = withURLParam(req, "id", "not-a-uuid")
	rr := httptest.NewRecorder()

	handler.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusBadRequest, rr.Code, "Expected status 400 for malformed id")
}

func TestUpdateOrderStatusHandler_InvalidStatus(t *testing.T) {
	fakeSvc := &fakeOrderService{err: service.ErrInvalidStatus}
	handler := handlers.UpdateOrderStatusHandler(testLogger(), fakeSvc)

	reqBody := `{"status": "Teleported"}`
	req := httptest.NewRequest("PUT", "/api/orders/"+uuid.NewString()+"/status", bytes.NewBufferString(reqBody))
	req.Header.Set("Content-Type", "application/json")
	req = withURLParam(req, "id", uuid.NewString())
	rr := httptest.NewRecorder()

	handler.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusBadRequest, rr.Code, "Expected status 400 for unknown status")
}

func TestUpdateOrderStatusHandler_Completed(t *testing.T) {
	fakeSvc := &fakeOrderService{err: service.ErrOrderCompleted}
	handler := handlers.UpdateOrderStatusHandler(testLogger(), fakeSvc)

	reqBody := `{"status": "Preparing"}`
	req := httptest.NewRequest("PUT", "/api/orders/"+uuid.NewString()+"/status", bytes.NewBufferString(reqBody))
	req.Header.Set("Content-Type", "application/json")
	req = withURLParam(req, "id", uuid.NewString())
	rr := httptest.NewRecorder()

	handler.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusConflict, rr.Code, "Expected status 409 for delivered order")
}

func TestMarkReadyHandler_NotPickup(t *testing.T) {
	fakeSvc := &fakeOrderService{err: service.ErrNotPickupOrder}
	handler := handlers.MarkReadyHandler(testLogger(), fakeSvc)

	req := httptest.NewRequest("POST", "/api/orders/"+uuid.NewString()+"/ready", nil)
	req = withURLParam(req, "id", uuid.NewString())
	rr := httptest.NewRecorder()

	handler.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusBadRequest, rr.Code, "Expected status 400 for delivery order")
}

func TestCalculateDeliveryHandler_Success(t *testing.T) {
	fakeSvc := &fakeDeliveryService{quote: &service.Quote{Distance: 4.2, DeliveryCharge: 2.00}}
	handler := handlers.CalculateDeliveryHandler(testLogger(), fakeSvc)

	reqBody := `{"address": "123 Main Street, Springfield"}`
	req := httptest.NewRequest("POST", "/api/delivery/calculate", bytes.NewBufferString(reqBody))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()

	handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code, "Expected status 200 OK")

	var resp service.Quote
	err := json.NewDecoder(rr.Body).Decode(&resp)
	assert.NoError(t, err, "Response decoding should succeed")
	assert.Equal(t, 2.00, resp.DeliveryCharge, "Charge should match fake quote")
}

func TestCalculateDeliveryHandler_MissingAddress(t *testing.T) {
	fakeSvc := &fakeDeliveryService{}
	handler := handlers.CalculateDeliveryHandler(testLogger(), fakeSvc)

	reqBody := `{"address": ""}`
	req := httptest.NewRequest("POST", "/api/delivery/calculate", bytes.NewBufferString(reqBody))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()

	handler.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusBadRequest, rr.Code, "Expected status 400 for empty address")
}
