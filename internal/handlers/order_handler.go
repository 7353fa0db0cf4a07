package handlers

import (
	"encoding/json"
	"math"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"ecommerce-api/internal/apperr"
	"ecommerce-api/internal/middleware"
	"ecommerce-api/internal/models"
	"ecommerce-api/internal/payment"
)

// PaymentMethodOnline routes checkout through the payment gateway; any other
// value persists the order for payment on delivery.
const PaymentMethodOnline = "online"

type OrderHandler struct {
	orders      OrderStore
	users       UserStore
	products    ProductStore
	gateway     payment.Gateway
	frontEndURL string
}

func NewOrderHandler(orders OrderStore, users UserStore, products ProductStore, gateway payment.Gateway, frontEndURL string) *OrderHandler {
	return &OrderHandler{
		orders:      orders,
		users:       users,
		products:    products,
		gateway:     gateway,
		frontEndURL: frontEndURL,
	}
}

type orderItemRequest struct {
	ProductID string `json:"productId" binding:"required"`
	Quantity  int    `json:"quantity" binding:"required,min=1"`
}

type createOrderRequest struct {
	OrderItems      []orderItemRequest `json:"orderItems"`
	ShippingAddress models.Address     `json:"shippingAddress"`
	PaymentMethod   string             `json:"paymentMethod"`
	ItemsPrice      float64            `json:"itemsPrice"`
	ShippingPrice   float64            `json:"shippingPrice"`
	TotalPrice      float64            `json:"totalPrice"`
}

// CreateOrder runs the checkout workflow. Online payment builds a
// gateway-hosted checkout session and persists nothing; the order is created
// later by the payment confirmation step. Any other payment method persists
// the order immediately and clears the user's cart.
// POST /api/order/create-order
func (h *OrderHandler) CreateOrder(c *gin.Context) {
	var req createOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, apperr.New(apperr.Validation, "Invalid request body"))
		return
	}
	if len(req.OrderItems) == 0 {
		respondError(c, apperr.New(apperr.EmptyCart, "No order items"))
		return
	}

	items, productIDs, err := parseOrderItems(req.OrderItems)
	if err != nil {
		respondError(c, err)
		return
	}

	// Snapshot each item's unit price from the catalog now, so neither the
	// gateway charge nor the stored order depends on later price changes.
	catalog, err := h.products.FindByIDs(c.Request.Context(), productIDs)
	if err != nil {
		respondError(c, err)
		return
	}
	for i := range items {
		product, ok := catalog[items[i].Product]
		if !ok {
			respondError(c, apperr.New(apperr.NotFound, "Product no longer available"))
			return
		}
		items[i].UnitPrice = product.Price
	}

	user := middleware.CurrentUser(c)

	if req.PaymentMethod == PaymentMethodOnline {
		h.createCheckoutSession(c, user, req, items, catalog)
		return
	}

	order := &models.Order{
		User:            user.ID,
		OrderItems:      items,
		ShippingAddress: req.ShippingAddress,
		PaymentMethod:   req.PaymentMethod,
		ItemsPrice:      req.ItemsPrice,
		ShippingPrice:   req.ShippingPrice,
		TotalPrice:      req.TotalPrice,
		OrderStatus:     models.OrderProcessing,
	}
	if err := h.orders.Create(c.Request.Context(), order); err != nil {
		respondError(c, err)
		return
	}

	if err := h.users.CompleteOrder(c.Request.Context(), user.ID, order.ID); err != nil {
		// The order document exists but the user's cart/order list was not
		// updated; there is no cross-document transaction here.
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"message": "Order created successfully",
		"order":   order,
	})
}

func (h *OrderHandler) createCheckoutSession(c *gin.Context, user *models.User, req createOrderRequest, items []models.OrderItem, catalog map[primitive.ObjectID]*models.Product) {
	lineItems := make([]payment.LineItem, 0, len(items)+1)
	for _, item := range items {
		product := catalog[item.Product]
		line := payment.LineItem{
			Name:            product.Name,
			UnitAmountCents: toCents(item.UnitPrice),
			Quantity:        int64(item.Quantity),
		}
		if len(product.Images) > 0 {
			line.Images = product.Images[:1]
		}
		lineItems = append(lineItems, line)
	}
	if req.ShippingPrice > 0 {
		lineItems = append(lineItems, payment.LineItem{
			Name:            "Shipping Fee",
			UnitAmountCents: toCents(req.ShippingPrice),
			Quantity:        1,
		})
	}

	orderData, err := json.Marshal(req)
	if err != nil {
		respondError(c, apperr.Wrap(apperr.Internal, "Failed to encode order data", err))
		return
	}

	url, err := h.gateway.CreateCheckoutSession(c.Request.Context(), payment.CheckoutParams{
		LineItems:  lineItems,
		SuccessURL: h.frontEndURL + "/order-success",
		CancelURL:  h.frontEndURL + "/cart",
		Metadata: map[string]string{
			"userId":    user.ID.Hex(),
			"orderData": string(orderData),
		},
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"url": url})
}

// GetOrders lists all orders with user and product fields joined.
// GET /api/order
func (h *OrderHandler) GetOrders(c *gin.Context) {
	orders, err := h.orders.FindAll(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	details := make([]*models.OrderDetail, 0, len(orders))
	for _, order := range orders {
		detail, err := h.resolveOrder(c, order)
		if err != nil {
			respondError(c, err)
			return
		}
		details = append(details, detail)
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"count":   len(details),
		"orders":  details,
		"message": "Orders fetched successfully",
	})
}

// GetOrder returns a single order with joined fields.
// GET /api/order/:id
func (h *OrderHandler) GetOrder(c *gin.Context) {
	order, err := h.orders.FindByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	detail, err := h.resolveOrder(c, order)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    detail,
		"message": "Order fetched successfully",
	})
}

type updateStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// UpdateOrderStatus moves an order through its lifecycle. Transitions are
// forward-only and terminal states are frozen.
// PUT /api/order/:id/status
func (h *OrderHandler) UpdateOrderStatus(c *gin.Context) {
	var req updateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, apperr.New(apperr.Validation, "Status is required"))
		return
	}
	if !models.ValidOrderStatus(req.Status) {
		respondError(c, apperr.New(apperr.InvalidStatus, "Invalid status"))
		return
	}

	order, err := h.orders.FindByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	if err := checkStatusTransition(order.OrderStatus, req.Status); err != nil {
		respondError(c, err)
		return
	}

	if err := h.orders.UpdateStatus(c.Request.Context(), c.Param("id"), req.Status); err != nil {
		respondError(c, err)
		return
	}

	order.OrderStatus = req.Status
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    order,
		"message": "Order status updated successfully",
	})
}

// DeleteOrder removes an order.
// DELETE /api/order/:id
func (h *OrderHandler) DeleteOrder(c *gin.Context) {
	if err := h.orders.Delete(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    gin.H{},
		"message": "Order deleted successfully",
	})
}

// checkStatusTransition enforces the order state machine:
// Processing → Shipped → Delivered, or Processing → Cancelled.
func checkStatusTransition(from, to string) error {
	if from == to {
		return nil
	}
	if models.TerminalOrderStatus(from) {
		return apperr.New(apperr.InvalidStatus, "Order is already "+from)
	}

	switch from {
	case models.OrderProcessing:
		if to == models.OrderShipped || to == models.OrderCancelled {
			return nil
		}
	case models.OrderShipped:
		if to == models.OrderDelivered {
			return nil
		}
	}
	return apperr.New(apperr.InvalidStatus, "Cannot move order from "+from+" to "+to)
}

func (h *OrderHandler) resolveOrder(c *gin.Context, order *models.Order) (*models.OrderDetail, error) {
	detail := &models.OrderDetail{Order: *order}

	orderUser, err := h.users.FindByID(c.Request.Context(), order.User.Hex())
	if err == nil {
		detail.UserInfo = &models.OrderUser{
			ID:    orderUser.ID,
			Name:  orderUser.Name,
			Email: orderUser.Email,
		}
	} else if apperr.KindOf(err) != apperr.NotFound {
		return nil, err
	}

	ids := make([]primitive.ObjectID, 0, len(order.OrderItems))
	for _, item := range order.OrderItems {
		ids = append(ids, item.Product)
	}
	catalog, err := h.products.FindByIDs(c.Request.Context(), ids)
	if err != nil {
		return nil, err
	}

	detail.Items = make([]models.OrderItemDetail, 0, len(order.OrderItems))
	for _, item := range order.OrderItems {
		itemDetail := models.OrderItemDetail{
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice,
		}
		if product, ok := catalog[item.Product]; ok {
			itemDetail.Product = models.OrderProduct{
				ID:     product.ID,
				Name:   product.Name,
				Price:  product.Price,
				Images: product.Images,
			}
		} else {
			itemDetail.Product = models.OrderProduct{ID: item.Product}
		}
		detail.Items = append(detail.Items, itemDetail)
	}

	return detail, nil
}

func parseOrderItems(reqItems []orderItemRequest) ([]models.OrderItem, []primitive.ObjectID, error) {
	items := make([]models.OrderItem, 0, len(reqItems))
	ids := make([]primitive.ObjectID, 0, len(reqItems))
	for _, item := range reqItems {
		productID, err := primitive.ObjectIDFromHex(item.ProductID)
		if err != nil {
			return nil, nil, apperr.New(apperr.Validation, "Invalid product ID in order items")
		}
		items = append(items, models.OrderItem{Product: productID, Quantity: item.Quantity})
		ids = append(ids, productID)
	}
	return items, ids, nil
}

func toCents(amount float64) int64 {
	return int64(math.Round(amount * 100))
}
