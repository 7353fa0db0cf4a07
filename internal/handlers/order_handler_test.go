package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ecommerce-api/internal/middleware"
	"ecommerce-api/internal/models"
)

type orderFixture struct {
	router   *gin.Engine
	users    *fakeUserStore
	products *fakeProductStore
	orders   *fakeOrderStore
	gateway  *fakeGateway
	alice    *models.User
}

func newOrderFixture(t *testing.T) *orderFixture {
	t.Helper()
	gin.SetMode(gin.TestMode)

	f := &orderFixture{
		users:    newFakeUserStore(),
		products: newFakeProductStore(),
		orders:   newFakeOrderStore(),
		gateway:  &fakeGateway{},
	}
	f.alice = addUser(f.users, "Alice", "alice@example.com", "pw123456", models.RoleCustomer)

	handler := NewOrderHandler(f.orders, f.users, f.products, f.gateway, "http://localhost:3000")

	actAsAlice := func(c *gin.Context) {
		user, err := f.users.FindByID(c.Request.Context(), f.alice.ID.Hex())
		require.NoError(t, err)
		c.Set(middleware.CurrentUserKey, user)
	}

	f.router = gin.New()
	f.router.POST("/api/order/create-order", actAsAlice, handler.CreateOrder)
	f.router.GET("/api/order", handler.GetOrders)
	f.router.GET("/api/order/:id", handler.GetOrder)
	f.router.PUT("/api/order/:id/status", handler.UpdateOrderStatus)
	f.router.DELETE("/api/order/:id", handler.DeleteOrder)
	return f
}

func (f *orderFixture) do(method, path string, body interface{}) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	if body != nil {
		b, _ := json.Marshal(body)
		reader = bytes.NewReader(b)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)
	return w
}

func TestCreateOrderEmptyCart(t *testing.T) {
	f := newOrderFixture(t)

	w := f.do(http.MethodPost, "/api/order/create-order", gin.H{
		"orderItems":    []gin.H{},
		"paymentMethod": "cash",
		"itemsPrice":    0,
		"totalPrice":    0,
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "No order items")
	assert.Empty(t, f.orders.orders)
}

func TestCreateOrderCashPersistsAndClearsCart(t *testing.T) {
	f := newOrderFixture(t)
	p1 := f.products.add(&models.Product{Name: "Keyboard", Price: 49.99, StockQuantity: 5, InStock: true})
	f.alice.Cart = []models.CartItem{{Product: p1.ID, Quantity: 2}}

	w := f.do(http.MethodPost, "/api/order/create-order", gin.H{
		"orderItems":    []gin.H{{"productId": p1.ID.Hex(), "quantity": 2}},
		"paymentMethod": "cash",
		"itemsPrice":    99.98,
		"shippingPrice": 5.0,
		"totalPrice":    104.98,
	})
	require.Equal(t, http.StatusCreated, w.Code)

	require.Len(t, f.orders.orders, 1)
	var order *models.Order
	for _, o := range f.orders.orders {
		order = o
	}
	assert.Equal(t, models.OrderProcessing, order.OrderStatus)
	require.Len(t, order.OrderItems, 1)
	assert.Equal(t, p1.ID, order.OrderItems[0].Product)
	assert.Equal(t, 2, order.OrderItems[0].Quantity)
	assert.Equal(t, 49.99, order.OrderItems[0].UnitPrice, "unit price snapshotted from catalog")

	assert.Empty(t, f.alice.Cart, "cart cleared after checkout")
	require.Len(t, f.alice.Orders, 1)
	assert.Equal(t, order.ID, f.alice.Orders[0])
	assert.Zero(t, f.gateway.calls)
}

func TestCreateOrderOnlineBuildsCheckoutSession(t *testing.T) {
	f := newOrderFixture(t)
	p1 := f.products.add(&models.Product{Name: "Keyboard", Price: 49.99, Images: []string{"/uploads/kb.jpg", "/uploads/kb2.jpg"}})
	p2 := f.products.add(&models.Product{Name: "Mouse", Price: 19.50})

	w := f.do(http.MethodPost, "/api/order/create-order", gin.H{
		"orderItems": []gin.H{
			{"productId": p1.ID.Hex(), "quantity": 2},
			{"productId": p2.ID.Hex(), "quantity": 1},
		},
		"paymentMethod": "online",
		"itemsPrice":    119.48,
		"shippingPrice": 7.5,
		"totalPrice":    126.98,
	})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "https://checkout.example.com/session")

	assert.Empty(t, f.orders.orders, "online orders are not persisted at checkout")
	assert.Empty(t, f.alice.Orders)

	require.Equal(t, 1, f.gateway.calls)
	params := f.gateway.lastParams
	require.Len(t, params.LineItems, 3, "two products plus shipping")

	byName := make(map[string]int64)
	for _, item := range params.LineItems {
		byName[item.Name] = item.UnitAmountCents
	}
	assert.Equal(t, int64(4999), byName["Keyboard"], "per-item price, not an even split")
	assert.Equal(t, int64(1950), byName["Mouse"])
	assert.Equal(t, int64(750), byName["Shipping Fee"])
	assert.Equal(t, f.alice.ID.Hex(), params.Metadata["userId"])
	assert.Equal(t, "http://localhost:3000/order-success", params.SuccessURL)
}

func TestCreateOrderOnlineSkipsShippingLineWhenFree(t *testing.T) {
	f := newOrderFixture(t)
	p1 := f.products.add(&models.Product{Name: "Keyboard", Price: 49.99})

	w := f.do(http.MethodPost, "/api/order/create-order", gin.H{
		"orderItems":    []gin.H{{"productId": p1.ID.Hex(), "quantity": 1}},
		"paymentMethod": "online",
		"itemsPrice":    49.99,
		"shippingPrice": 0,
		"totalPrice":    49.99,
	})
	require.Equal(t, http.StatusOK, w.Code)
	require.Len(t, f.gateway.lastParams.LineItems, 1)
}

func TestCreateOrderUnknownProduct(t *testing.T) {
	f := newOrderFixture(t)

	w := f.do(http.MethodPost, "/api/order/create-order", gin.H{
		"orderItems":    []gin.H{{"productId": "64aaaaaaaaaaaaaaaaaaaaaa", "quantity": 1}},
		"paymentMethod": "cash",
		"itemsPrice":    10.0,
		"totalPrice":    10.0,
	})
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Empty(t, f.orders.orders)
}

func TestUpdateOrderStatusRejectsUnknownStatus(t *testing.T) {
	f := newOrderFixture(t)
	order := f.orders.add(&models.Order{OrderStatus: models.OrderProcessing})

	w := f.do(http.MethodPut, "/api/order/"+order.ID.Hex()+"/status", gin.H{"status": "Teleported"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Invalid status")
	assert.Equal(t, models.OrderProcessing, order.OrderStatus)
}

func TestUpdateOrderStatusForwardTransitions(t *testing.T) {
	f := newOrderFixture(t)
	order := f.orders.add(&models.Order{OrderStatus: models.OrderProcessing})
	path := "/api/order/" + order.ID.Hex() + "/status"

	w := f.do(http.MethodPut, path, gin.H{"status": models.OrderShipped})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, models.OrderShipped, order.OrderStatus)

	w = f.do(http.MethodPut, path, gin.H{"status": models.OrderDelivered})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, models.OrderDelivered, order.OrderStatus)
}

func TestUpdateOrderStatusTerminalStatesAreFrozen(t *testing.T) {
	f := newOrderFixture(t)

	delivered := f.orders.add(&models.Order{OrderStatus: models.OrderDelivered})
	w := f.do(http.MethodPut, "/api/order/"+delivered.ID.Hex()+"/status", gin.H{"status": models.OrderShipped})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, models.OrderDelivered, delivered.OrderStatus)

	cancelled := f.orders.add(&models.Order{OrderStatus: models.OrderCancelled})
	w = f.do(http.MethodPut, "/api/order/"+cancelled.ID.Hex()+"/status", gin.H{"status": models.OrderProcessing})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, models.OrderCancelled, cancelled.OrderStatus)
}

func TestUpdateOrderStatusNoBackwardOrSkippedTransitions(t *testing.T) {
	f := newOrderFixture(t)

	order := f.orders.add(&models.Order{OrderStatus: models.OrderProcessing})
	w := f.do(http.MethodPut, "/api/order/"+order.ID.Hex()+"/status", gin.H{"status": models.OrderDelivered})
	assert.Equal(t, http.StatusBadRequest, w.Code, "Processing cannot jump straight to Delivered")

	shipped := f.orders.add(&models.Order{OrderStatus: models.OrderShipped})
	w = f.do(http.MethodPut, "/api/order/"+shipped.ID.Hex()+"/status", gin.H{"status": models.OrderCancelled})
	assert.Equal(t, http.StatusBadRequest, w.Code, "shipped orders cannot be cancelled")
}

func TestUpdateOrderStatusNotFound(t *testing.T) {
	f := newOrderFixture(t)

	w := f.do(http.MethodPut, "/api/order/64aaaaaaaaaaaaaaaaaaaaaa/status", gin.H{"status": models.OrderShipped})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestGetOrderJoinsUserAndProducts(t *testing.T) {
	f := newOrderFixture(t)
	p1 := f.products.add(&models.Product{Name: "Keyboard", Price: 49.99, Images: []string{"/uploads/kb.jpg"}})
	order := f.orders.add(&models.Order{
		User:        f.alice.ID,
		OrderItems:  []models.OrderItem{{Product: p1.ID, Quantity: 2, UnitPrice: 49.99}},
		OrderStatus: models.OrderProcessing,
		TotalPrice:  99.98,
	})

	w := f.do(http.MethodGet, "/api/order/"+order.ID.Hex(), nil)
	require.Equal(t, http.StatusOK, w.Code)

	body := w.Body.String()
	assert.Contains(t, body, "Alice")
	assert.Contains(t, body, "alice@example.com")
	assert.Contains(t, body, "Keyboard")
	assert.Contains(t, body, "/uploads/kb.jpg")
}

func TestGetOrderNotFound(t *testing.T) {
	f := newOrderFixture(t)

	w := f.do(http.MethodGet, "/api/order/64aaaaaaaaaaaaaaaaaaaaaa", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestDeleteOrder(t *testing.T) {
	f := newOrderFixture(t)
	order := f.orders.add(&models.Order{OrderStatus: models.OrderProcessing})

	w := f.do(http.MethodDelete, "/api/order/"+order.ID.Hex(), nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, f.orders.orders)

	w = f.do(http.MethodDelete, "/api/order/"+order.ID.Hex(), nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
