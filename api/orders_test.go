package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/Domenick1991/airport/internal/domain"
	"github.com/Domenick1991/airport/internal/middleware"
	"github.com/Domenick1991/airport/internal/service/orders"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockOrderUseCase struct {
	mock.Mock
}

func (m *MockOrderUseCase) CreateOrder(ctx context.Context, userID string, tickets []orders.TicketInput) (*domain.Order, error) {
	args := m.Called(ctx, userID, tickets)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Order), args.Error(1)
}

func (m *MockOrderUseCase) CreateTicket(ctx context.Context, userID string, input orders.TicketInput) (*domain.Ticket, error) {
	args := m.Called(ctx, userID, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Ticket), args.Error(1)
}

func (m *MockOrderUseCase) ListOrders(ctx context.Context, userID string) ([]domain.Order, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).([]domain.Order), args.Error(1)
}

func (m *MockOrderUseCase) ListTickets(ctx context.Context, userID string) ([]domain.Ticket, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).([]domain.Ticket), args.Error(1)
}

func (m *MockOrderUseCase) GetTicket(ctx context.Context, userID string, id int64) (*domain.Ticket, error) {
	args := m.Called(ctx, userID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Ticket), args.Error(1)
}

// newOrderRouter authenticates every request as userID when it is set.
func newOrderRouter(service *MockOrderUseCase, userID string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(func(c *gin.Context) {
		if userID != "" {
			middleware.SetUserID(c, userID)
		}
	})
	group := router.Group("/api/airport", middleware.RequireUser())
	NewOrderHandler(service).Register(group.Group("/orders"))
	NewTicketHandler(service).Register(group.Group("/tickets"))
	return router
}

func postJSON(router *gin.Engine, path, body string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)
	return w
}

func TestOrderHandler_create(t *testing.T) {
	mockService := &MockOrderUseCase{}
	router := newOrderRouter(mockService, "user-1")

	inputs := []orders.TicketInput{{FlightID: 5, Row: 1, Seat: 2}, {FlightID: 5, Row: 1, Seat: 3}}
	order := &domain.Order{
		ID:        10,
		UserID:    "user-1",
		CreatedAt: time.Date(2024, 5, 1, 8, 15, 0, 0, time.UTC),
		Tickets:   []domain.Ticket{{ID: 100}, {ID: 101}},
	}
	mockService.On("CreateOrder", mock.Anything, "user-1", inputs).Return(order, nil)

	w := postJSON(router, "/api/airport/orders/", `{"tickets":[{"flight":5,"row":1,"seat":2},{"flight":5,"row":1,"seat":3}]}`)

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.JSONEq(t, `{"id":10,"created_at":"2024-05-01 08:15","tickets":[100,101]}`, w.Body.String())
	mockService.AssertExpectations(t)
}

func TestOrderHandler_createCompositionFailure(t *testing.T) {
	mockService := &MockOrderUseCase{}
	router := newOrderRouter(mockService, "user-1")

	seat := domain.NewValidationError(domain.KindDuplicateEntity, domain.NonFieldErrors, "The fields flight, row, seat must make a unique set.")
	mockService.On("CreateOrder", mock.Anything, "user-1", mock.Anything).
		Return(nil, &domain.CompositionError{Index: 1, Err: seat})

	w := postJSON(router, "/api/airport/orders/", `{"tickets":[{"flight":5,"row":1,"seat":2},{"flight":5,"row":1,"seat":2}]}`)

	assert.Equal(t, http.StatusBadRequest, w.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, float64(1), body["ticket"])
	assert.Equal(t, "DUPLICATE_ENTITY", body["kind"])
	assert.Equal(t, "The fields flight, row, seat must make a unique set.", body["error"])
}

func TestOrderHandler_createStorageFailure(t *testing.T) {
	mockService := &MockOrderUseCase{}
	router := newOrderRouter(mockService, "user-1")

	mockService.On("CreateOrder", mock.Anything, "user-1", mock.Anything).Return(nil, errors.New("connection reset"))

	w := postJSON(router, "/api/airport/orders/", `{"tickets":[{"flight":5,"row":1,"seat":2}]}`)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.NotContains(t, w.Body.String(), "connection reset")
}

func TestOrderHandler_requiresUser(t *testing.T) {
	mockService := &MockOrderUseCase{}
	router := newOrderRouter(mockService, "")

	w := postJSON(router, "/api/airport/orders/", `{"tickets":[{"flight":5,"row":1,"seat":2}]}`)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	mockService.AssertNotCalled(t, "CreateOrder", mock.Anything, mock.Anything, mock.Anything)
}

func TestOrderHandler_list(t *testing.T) {
	mockService := &MockOrderUseCase{}
	router := newOrderRouter(mockService, "user-1")

	mockService.On("ListOrders", mock.Anything, "user-1").Return([]domain.Order{{
		ID:        10,
		CreatedAt: time.Date(2024, 5, 1, 8, 15, 0, 0, time.UTC),
		Tickets:   []domain.Ticket{{ID: 100, Row: 1, Seat: 2}},
	}}, nil)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest("GET", "/api/airport/orders/", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[{"id":10,"created_at":"2024-05-01 08:15","tickets":[{"id":100,"place":"row: 1, seat: 2"}]}]`, w.Body.String())
}

func TestTicketHandler_create(t *testing.T) {
	mockService := &MockOrderUseCase{}
	router := newOrderRouter(mockService, "user-1")

	input := orders.TicketInput{FlightID: 5, Row: 3, Seat: 4, OrderID: 10}
	mockService.On("CreateTicket", mock.Anything, "user-1", input).
		Return(&domain.Ticket{ID: 7, Row: 3, Seat: 4, FlightID: 5, OrderID: 10}, nil)

	w := postJSON(router, "/api/airport/tickets/", `{"flight":5,"row":3,"seat":4,"order":10}`)

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.JSONEq(t, `{"id":7,"row":3,"seat":4,"order":10,"flight":5}`, w.Body.String())
	mockService.AssertExpectations(t)
}

func TestTicketHandler_list(t *testing.T) {
	mockService := &MockOrderUseCase{}
	router := newOrderRouter(mockService, "user-1")

	flight := &domain.Flight{
		ID:            5,
		DepartureTime: time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC),
		ArrivalTime:   time.Date(2024, 5, 1, 12, 30, 0, 0, time.UTC),
	}
	mockService.On("ListTickets", mock.Anything, "user-1").
		Return([]domain.Ticket{{ID: 7, Row: 3, Seat: 4, FlightID: 5, OrderID: 10, Flight: flight}}, nil)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest("GET", "/api/airport/tickets/", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[{"id":7,"row":3,"seat":4,"order":10,"flight":"2024-05-01, 10:00 -> 2024-05-01, 12:30"}]`, w.Body.String())
}

func TestTicketHandler_getOtherUsersTicket(t *testing.T) {
	mockService := &MockOrderUseCase{}
	router := newOrderRouter(mockService, "user-2")

	mockService.On("GetTicket", mock.Anything, "user-2", int64(7)).Return(nil, domain.ErrNotFound)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest("GET", "/api/airport/tickets/7", nil))

	assert.Equal(t, http.StatusNotFound, w.Code)
	mockService.AssertExpectations(t)
}
